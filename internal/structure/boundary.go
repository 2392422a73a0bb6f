// Package structure is the grammarless middle layer: it finds nested
// delimiter regions in a token stream and caches the results. Rough
// structure queries stop here and never pay full-parse cost.
package structure

import (
	"fmt"

	"strata/internal/lang"
	"strata/internal/source"
)

// Boundary is a coarse nested region detected by delimiter balance alone.
type Boundary struct {
	Span  source.Span
	Depth uint16
	Kind  lang.PairTag
	// Confidence is 1 for balanced regions and decays with nesting depth
	// for regions whose closer was never found.
	Confidence float64
	// Balanced is false when the region was closed at EOF, not by its
	// closer.
	Balanced bool
}

func (b Boundary) String() string {
	state := "balanced"
	if !b.Balanced {
		state = "unclosed"
	}
	return fmt.Sprintf("%s %s depth=%d conf=%.2f (%s)", b.Kind, b.Span, b.Depth, b.Confidence, state)
}
