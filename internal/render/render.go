// Package render defines the pluggable rendering capability the printer
// device calls into (spec.md §1: "Render(text, name) -> ok|err", treated
// as an external collaborator with a blocking cost), plus a default
// implementation and the line-numbering helper spec.md §4.C describes.
package render

import (
	"context"
	"fmt"
	"strings"
)

// Renderer turns already-formatted source text into a persisted document
// named fileName (without extension). Implementations are expected to
// block for the duration of rendering; callers are responsible for running
// them off any latency-sensitive path.
type Renderer interface {
	Render(ctx context.Context, text, fileName string) error
}

// FormatLineNumbers prefixes each line of text with a 1-indexed,
// right-aligned 3-column line number and a colon, per spec.md §4.C.
func FormatLineNumbers(text string) string {
	lines := strings.Split(text, "\n")
	var b strings.Builder
	for i, line := range lines {
		fmt.Fprintf(&b, "%3d:%s", i+1, line)
		if i != len(lines)-1 {
			b.WriteByte('\n')
		}
	}
	return b.String()
}
