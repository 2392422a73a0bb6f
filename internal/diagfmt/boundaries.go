package diagfmt

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"strata/internal/source"
	"strata/internal/structure"
)

type BoundaryOutput struct {
	Span       source.Span `json:"span"`
	Depth      uint16      `json:"depth"`
	Kind       string      `json:"kind"`
	Confidence float64     `json:"confidence"`
	Balanced   bool        `json:"balanced"`
}

// FormatBoundariesPretty prints boundaries indented by nesting depth.
func FormatBoundariesPretty(w io.Writer, boundaries []structure.Boundary, file *source.File) error {
	for _, b := range boundaries {
		start, end := file.Resolve(b.Span)
		indent := strings.Repeat("  ", int(b.Depth))
		state := "balanced"
		if !b.Balanced {
			state = fmt.Sprintf("open, confidence %.2f", b.Confidence)
		}
		fmt.Fprintf(w, "%s%s %d:%d-%d:%d (%s)\n",
			indent, b.Kind.String(),
			start.Line, start.Col, end.Line, end.Col,
			state)
	}
	return nil
}

// FormatBoundariesJSON serializes boundaries for machine consumers.
func FormatBoundariesJSON(w io.Writer, boundaries []structure.Boundary) error {
	out := make([]BoundaryOutput, 0, len(boundaries))
	for _, b := range boundaries {
		out = append(out, BoundaryOutput{
			Span:       b.Span,
			Depth:      b.Depth,
			Kind:       b.Kind.String(),
			Confidence: b.Confidence,
			Balanced:   b.Balanced,
		})
	}
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(out)
}
