package output

import (
	"encoding/json"
	"fmt"

	"github.com/bovinemagnet/pg-console/internal/compare"
)

type jsonFormatter struct{}

func (jsonFormatter) Format(r *compare.Result) (string, error) {
	data, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return "", fmt.Errorf("json format: %w", err)
	}
	return string(data) + "\n", nil
}
