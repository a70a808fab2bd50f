package output

import (
	"encoding/json"
	"io"
)

// JSONFormatter writes the report as JSON.
type JSONFormatter struct {
	Indent bool
}

// Format implements Formatter
func (f *JSONFormatter) Format() Format {
	return FormatJSON
}

// Render implements Formatter
func (f *JSONFormatter) Render(w io.Writer, r *Report) error {
	enc := json.NewEncoder(w)
	if f.Indent {
		enc.SetIndent("", "  ")
	}
	return enc.Encode(r)
}
