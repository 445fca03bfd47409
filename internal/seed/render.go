package seed

import (
	"fmt"
	"io"
)

// Renderer writes one plan as a seed script.
type Renderer interface {
	Extension() string
	Render(w io.Writer, plan Plan) error
}

// NewRenderer returns the renderer for format: "ruby" or "sql".
func NewRenderer(format string) (Renderer, error) {
	switch format {
	case "", "ruby":
		return RubyRenderer{}, nil
	case "sql":
		return SQLRenderer{}, nil
	default:
		return nil, fmt.Errorf("seed: unknown format %q", format)
	}
}

// FileName is the script name for a journal id, e.g. "habitus_seeds.rb".
func FileName(journalID string, r Renderer) string {
	return journalID + "_seeds" + r.Extension()
}
