package compare

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Target identifies one side of a comparison: a named instance plus the
// schema that was snapshotted on it.
type Target struct {
	Instance string `json:"instance"`
	Schema   string `json:"schema"`
}

func (t Target) String() string {
	if t.Instance == "" {
		return t.Schema
	}
	return t.Instance + "/" + t.Schema
}

// Summary carries the running totals of one comparison. It is mutated
// only through Result.addDifference and the matcher's counters, never
// independently of the difference list.
type Summary struct {
	MissingObjects  int `json:"missingObjects"`
	ExtraObjects    int `json:"extraObjects"`
	ModifiedObjects int `json:"modifiedObjects"`
	MatchingObjects int `json:"matchingObjects"`

	TablesCompared      int `json:"tablesCompared"`
	ColumnsCompared     int `json:"columnsCompared"`
	IndexesCompared     int `json:"indexesCompared"`
	ConstraintsCompared int `json:"constraintsCompared"`
	TriggersCompared    int `json:"triggersCompared"`
	SequencesCompared   int `json:"sequencesCompared"`

	// The engine compares only the object kinds held by the snapshot
	// model; these categories stay zero and exist for report shape
	// parity with the dashboard.
	ViewsCompared      int `json:"viewsCompared"`
	FunctionsCompared  int `json:"functionsCompared"`
	TypesCompared      int `json:"typesCompared"`
	ExtensionsCompared int `json:"extensionsCompared"`

	BreakingChanges int `json:"breakingChanges"`
	WarningChanges  int `json:"warningChanges"`
	InfoChanges     int `json:"infoChanges"`
}

// TotalDifferences returns the number of recorded differences.
func (s *Summary) TotalDifferences() int {
	return s.MissingObjects + s.ExtraObjects + s.ModifiedObjects
}

// HasBreakingChanges reports whether any recorded difference carries
// breaking severity. This is the canonical breaking definition; the
// result-level method delegates here.
func (s *Summary) HasBreakingChanges() bool {
	return s.BreakingChanges > 0
}

func (s *Summary) noteCompared(t ObjectType) {
	switch t {
	case ObjectTable:
		s.TablesCompared++
	case ObjectColumn:
		s.ColumnsCompared++
	case ObjectIndex:
		s.IndexesCompared++
	case ObjectConstraint:
		s.ConstraintsCompared++
	case ObjectTrigger:
		s.TriggersCompared++
	case ObjectSequence:
		s.SequencesCompared++
	}
}

// Result is the top-level output of one comparison run.
type Result struct {
	ID          uuid.UUID `json:"id"`
	Source      Target    `json:"source"`
	Destination Target    `json:"destination"`

	StartedAt time.Time     `json:"startedAt"`
	Duration  time.Duration `json:"-"`

	Summary     Summary      `json:"summary"`
	Differences []ObjectDiff `json:"differences"`
	Filter      Filter       `json:"filter"`

	Success      bool   `json:"success"`
	ErrorMessage string `json:"errorMessage,omitempty"`
}

func newResult(source, destination Target, f Filter) *Result {
	return &Result{
		ID:          uuid.New(),
		Source:      source,
		Destination: destination,
		StartedAt:   time.Now().UTC(),
		Filter:      f,
		Success:     true,
	}
}

// Failed builds the failure-path result used when a snapshot could not
// be obtained: no partial comparison, empty difference list, the
// upstream error recorded as a message.
func Failed(source, destination Target, f Filter, err error) *Result {
	r := newResult(source, destination, f)
	r.Success = false
	if err != nil {
		r.ErrorMessage = err.Error()
	}
	return r
}

// addDifference appends the difference and updates the summary counters
// in the same call, preserving the invariant
// Summary.TotalDifferences() == len(Differences).
func (r *Result) addDifference(d ObjectDiff) {
	r.Differences = append(r.Differences, d)

	switch d.Diff {
	case DiffMissing:
		r.Summary.MissingObjects++
	case DiffExtra:
		r.Summary.ExtraObjects++
	case DiffModified:
		r.Summary.ModifiedObjects++
	}

	switch d.Severity {
	case SeverityBreaking:
		r.Summary.BreakingChanges++
	case SeverityWarning:
		r.Summary.WarningChanges++
	case SeverityInfo:
		r.Summary.InfoChanges++
	}
}

// DurationMillis returns the run duration in whole milliseconds.
func (r *Result) DurationMillis() int64 {
	return r.Duration.Milliseconds()
}

// MarshalJSON emits the run duration as whole milliseconds instead of
// time.Duration's raw nanoseconds.
func (r *Result) MarshalJSON() ([]byte, error) {
	type plain Result
	return json.Marshal(struct {
		*plain
		DurationMs int64 `json:"durationMs"`
	}{(*plain)(r), r.DurationMillis()})
}

// IsIdentical reports whether the run succeeded and found no differences.
func (r *Result) IsIdentical() bool {
	return r.Success && len(r.Differences) == 0
}

// HasBreakingChanges reports whether any difference carries breaking
// severity.
func (r *Result) HasBreakingChanges() bool {
	return r.Summary.HasBreakingChanges()
}

// BySeverity returns the differences with the given severity, in
// traversal order.
func (r *Result) BySeverity(sev Severity) []ObjectDiff {
	var out []ObjectDiff
	for _, d := range r.Differences {
		if d.Severity == sev {
			out = append(out, d)
		}
	}
	return out
}

// ByObjectType returns the differences concerning the given object kind.
func (r *Result) ByObjectType(t ObjectType) []ObjectDiff {
	var out []ObjectDiff
	for _, d := range r.Differences {
		if d.Type == t {
			out = append(out, d)
		}
	}
	return out
}

// ByDiffType returns the differences with the given classification.
func (r *Result) ByDiffType(dt DiffType) []ObjectDiff {
	var out []ObjectDiff
	for _, d := range r.Differences {
		if d.Diff == dt {
			out = append(out, d)
		}
	}
	return out
}

// BreakingCount returns the number of breaking differences.
func (r *Result) BreakingCount() int { return r.Summary.BreakingChanges }

// WarningCount returns the number of warning differences.
func (r *Result) WarningCount() int { return r.Summary.WarningChanges }

// InfoCount returns the number of informational differences.
func (r *Result) InfoCount() int { return r.Summary.InfoChanges }

// SummaryText returns a human-readable one-line summary, e.g.
// "12 differences (3 missing, 2 extra, 7 modified)".
func (r *Result) SummaryText() string {
	if !r.Success {
		return "comparison failed: " + r.ErrorMessage
	}
	total := r.Summary.TotalDifferences()
	if total == 0 {
		return "schemas are identical"
	}
	noun := "differences"
	if total == 1 {
		noun = "difference"
	}
	return fmt.Sprintf("%d %s (%d missing, %d extra, %d modified)",
		total, noun,
		r.Summary.MissingObjects, r.Summary.ExtraObjects, r.Summary.ModifiedObjects)
}
