package output

import "github.com/bovinemagnet/pg-console/internal/compare"

type summaryFormatter struct{}

func (summaryFormatter) Format(r *compare.Result) (string, error) {
	return r.SummaryText() + "\n", nil
}
