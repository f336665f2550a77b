package output

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/olekukonko/tablewriter"

	"github.com/bovinemagnet/pg-console/internal/compare"
)

type textFormatter struct{}

// Format renders the result as a human-readable report: a header with
// both targets, a grid of differences, and the one-line summary.
func (textFormatter) Format(r *compare.Result) (string, error) {
	var sb strings.Builder

	fmt.Fprintf(&sb, "Schema comparison %s\n", r.ID)
	fmt.Fprintf(&sb, "  source:      %s\n", r.Source)
	fmt.Fprintf(&sb, "  destination: %s\n", r.Destination)
	fmt.Fprintf(&sb, "  started:     %s  (took %dms)\n",
		r.StartedAt.Format("2006-01-02 15:04:05 MST"), r.DurationMillis())

	if !r.Success {
		fmt.Fprintf(&sb, "\nFAILED: %s\n", r.ErrorMessage)
		return sb.String(), nil
	}

	if r.IsIdentical() {
		sb.WriteString("\nNo differences detected.\n")
		return sb.String(), nil
	}

	sb.WriteString("\n")
	sb.WriteString(renderDifferenceTable(r.Differences))
	fmt.Fprintf(&sb, "\n%s", r.SummaryText())
	fmt.Fprintf(&sb, ": %d breaking, %d warning, %d info\n",
		r.BreakingCount(), r.WarningCount(), r.InfoCount())

	return sb.String(), nil
}

func renderDifferenceTable(diffs []compare.ObjectDiff) string {
	buf := &bytes.Buffer{}
	table := tablewriter.NewWriter(buf)
	table.SetHeader([]string{"Severity", "Object", "Type", "Change", "Details"})
	table.SetAutoWrapText(false)
	table.SetBorder(false)
	table.SetAlignment(tablewriter.ALIGN_LEFT)

	for _, d := range diffs {
		table.Append([]string{
			d.Severity.String(),
			d.Name,
			string(d.Type),
			string(d.Diff),
			attributeSummary(d.Attributes),
		})
	}

	table.Render()
	return buf.String()
}

func attributeSummary(attrs []compare.AttributeDiff) string {
	if len(attrs) == 0 {
		return ""
	}
	parts := make([]string, len(attrs))
	for i, a := range attrs {
		parts[i] = fmt.Sprintf("%s: %q -> %q", a.Attribute, a.Source, a.Destination)
	}
	return strings.Join(parts, "; ")
}
