package incremental

import (
	"sort"

	"strata/internal/source"
	"strata/internal/structure"
)

// Prioritize orders boundaries by distance from the viewport center so the
// visible region is reparsed first. The sort is stable: ties keep document
// order.
func Prioritize(boundaries []structure.Boundary, viewport source.Span) []structure.Boundary {
	out := make([]structure.Boundary, len(boundaries))
	copy(out, boundaries)
	center := viewport.Center()
	sort.SliceStable(out, func(i, j int) bool {
		return distance(out[i].Span.Center(), center) < distance(out[j].Span.Center(), center)
	})
	return out
}

func distance(a, b uint32) uint64 {
	if a > b {
		return uint64(a - b)
	}
	return uint64(b - a)
}
