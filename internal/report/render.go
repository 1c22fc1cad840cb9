package report

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/gocarina/gocsv"
)

// Render writes a Dispatch result to w as indented JSON or as CSV. CSV
// needs a slice of row structs; plain string lists are written one per line.
func Render(w io.Writer, result any, format string) error {
	switch format {
	case "", "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if err := enc.Encode(result); err != nil {
			return fmt.Errorf("failed to encode JSON: %w", err)
		}
		return nil
	case "csv":
		if names, ok := result.([]string); ok {
			for _, n := range names {
				if _, err := fmt.Fprintln(w, n); err != nil {
					return err
				}
			}
			return nil
		}
		if err := gocsv.Marshal(result, w); err != nil {
			return fmt.Errorf("failed to encode CSV: %w", err)
		}
		return nil
	default:
		return fmt.Errorf("unsupported output format: %s", format)
	}
}
