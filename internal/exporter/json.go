package exporter

import (
	"encoding/json"
	"fmt"
	"io"

	"dqcli/pkg/contracts/domain"
)

// WriteJSON writes the report as indented JSON followed by a newline
func WriteJSON(w io.Writer, r *domain.Report) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	if err := enc.Encode(r); err != nil {
		return fmt.Errorf("failed to encode report: %w", err)
	}
	return nil
}
