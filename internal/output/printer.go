package output

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/exepta/appscope/pkg/model"
)

// PrintTable writes one aligned row per application.
func PrintTable(w io.Writer, entries []model.AppEntry) error {
	if _, err := fmt.Fprintf(w, "%-32s %8s %8s %12s %8s\n",
		"APPLICATION", "PID", "CPU%", "RSS", "THREADS"); err != nil {
		return err
	}
	for _, e := range entries {
		_, err := fmt.Fprintf(w, "%-32s %8d %8.1f %12d %8d\n",
			SanitizeCell(e.Name), e.PID, e.CPUPercent, e.RSSBytes, e.Threads)
		if err != nil {
			return err
		}
	}
	return nil
}

// PrintJSON writes the entries as an indented JSON array. Names pass through
// unsanitized; JSON escaping already neutralizes control characters.
func PrintJSON(w io.Writer, entries []model.AppEntry) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(entries)
}
