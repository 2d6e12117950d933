package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
)

func printJSON(w io.Writer, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}
	_, err = fmt.Fprintln(w, string(data))
	return err
}

func newTable(w io.Writer, headers ...string) *tabwriter.Writer {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, strings.Join(headers, "\t"))
	return tw
}

// firstLine shortens content for a one-row listing.
func firstLine(content string, width int) string {
	line, _, more := strings.Cut(strings.TrimSpace(content), "\n")
	r := []rune(line)
	if len(r) > width {
		return string(r[:width-3]) + "..."
	}
	if more {
		return line + " ..."
	}
	return line
}
