package report

import (
	"encoding/json"
	"io"

	"github.com/odvcencio/pyaudit/pkg/model"
)

// WriteJSON encodes the results with two-space indentation.
func WriteJSON(w io.Writer, r *model.Results) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(r)
}
