package source

import (
	"fmt"
)

// Span is a half-open byte range [Start, End) into a source buffer.
type Span struct {
	Start uint32
	End   uint32
}

// Packed is the 8-byte bulk-storage encoding of a Span.
type Packed uint64

func (s Span) Empty() bool {
	return s.Start == s.End
}

func (s Span) Len() uint32 {
	return s.End - s.Start
}

func (s Span) String() string {
	return fmt.Sprintf("%d-%d", s.Start, s.End)
}

// Pack encodes the span into 8 bytes; Unpack reverses it losslessly.
func (s Span) Pack() Packed {
	return Packed(uint64(s.Start)<<32 | uint64(s.End))
}

func (p Packed) Unpack() Span {
	return Span{
		Start: uint32(p >> 32),
		End:   uint32(p),
	}
}

// Overlaps reports whether the two half-open ranges intersect.
func (s Span) Overlaps(other Span) bool {
	return s.Start < other.End && other.Start < s.End
}

// Contains reports whether other lies entirely within s.
func (s Span) Contains(other Span) bool {
	return s.Start <= other.Start && other.End <= s.End
}

// ContainsOffset reports whether the byte offset falls inside the span.
func (s Span) ContainsOffset(off uint32) bool {
	return s.Start <= off && off < s.End
}

// Center returns the midpoint byte offset of the span.
func (s Span) Center() uint32 {
	return s.Start + s.Len()/2
}

func (s Span) Cover(other Span) Span {
	if other.Start < s.Start {
		s.Start = other.Start
	}
	if other.End > s.End {
		s.End = other.End
	}
	return s
}

// Shift moves the span by delta bytes. Negative deltas must not move the
// span below zero; callers clamp before shifting.
func (s Span) Shift(delta int64) Span {
	return Span{
		Start: uint32(int64(s.Start) + delta),
		End:   uint32(int64(s.End) + delta),
	}
}
