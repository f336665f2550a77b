// Package output provides a set of formatters for comparison results.
// It is extendable and for now provides three formats: text, JSON, and
// a one-line summary.
package output

import (
	"fmt"
	"strings"

	"github.com/bovinemagnet/pg-console/internal/compare"
)

// Format is an enum type representing the available output formats.
type Format string

const (
	FormatText    Format = "text"
	FormatJSON    Format = "json"
	FormatSummary Format = "summary"
)

// Formatter renders one comparison result.
type Formatter interface {
	Format(*compare.Result) (string, error)
}

// NewFormatter creates a Formatter instance based on the given name.
// If no format is specified, defaults to text.
func NewFormatter(name string) (Formatter, error) {
	format := Format(strings.ToLower(strings.TrimSpace(name)))
	switch format {
	case "", FormatText:
		return textFormatter{}, nil
	case FormatJSON:
		return jsonFormatter{}, nil
	case FormatSummary:
		return summaryFormatter{}, nil
	default:
		return nil, &UnsupportedFormatError{Name: name}
	}
}

// UnsupportedFormatError reports a format name with no formatter.
type UnsupportedFormatError struct {
	Name string
}

func (e *UnsupportedFormatError) Error() string {
	return fmt.Sprintf("unsupported format: %s; use 'text', 'json', or 'summary'", e.Name)
}
