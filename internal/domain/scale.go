package domain

import (
	"errors"
	"sort"
)

// BandScale maps discrete domain values to equal-width contiguous bands.
type BandScale[T comparable] struct {
	domain []T
	index  map[T]int
	start  float64
	step   float64
}

// NewBandScale builds a band scale over the distinct values of values, in
// first-seen order, spanning [start, end).
func NewBandScale[T comparable](values []T, start, end float64) *BandScale[T] {
	s := &BandScale[T]{
		index: make(map[T]int),
		start: start,
	}
	for _, v := range values {
		if _, ok := s.index[v]; ok {
			continue
		}
		s.index[v] = len(s.domain)
		s.domain = append(s.domain, v)
	}
	if len(s.domain) > 0 {
		s.step = (end - start) / float64(len(s.domain))
	}
	return s
}

// Position returns the start of v's band. ok is false when v is not in the domain.
func (s *BandScale[T]) Position(v T) (pos float64, ok bool) {
	i, ok := s.index[v]
	if !ok {
		return 0, false
	}
	return s.start + float64(i)*s.step, true
}

// Center returns the midpoint of v's band, where axis ticks are drawn.
func (s *BandScale[T]) Center(v T) (float64, bool) {
	pos, ok := s.Position(v)
	return pos + s.step/2, ok
}

// Bandwidth is the width of every band.
func (s *BandScale[T]) Bandwidth() float64 { return s.step }

// Domain returns the distinct domain values in band order.
func (s *BandScale[T]) Domain() []T {
	out := make([]T, len(s.domain))
	copy(out, s.domain)
	return out
}

// LinearScale maps a continuous domain onto a continuous range.
type LinearScale struct {
	d0, d1 float64
	r0, r1 float64
}

// NewLinearScale maps [d0, d1] onto [r0, r1].
func NewLinearScale(d0, d1, r0, r1 float64) LinearScale {
	return LinearScale{d0: d0, d1: d1, r0: r0, r1: r1}
}

// Scale projects v. A degenerate domain maps everything to the range midpoint.
func (s LinearScale) Scale(v float64) float64 {
	if s.d1 == s.d0 {
		return (s.r0 + s.r1) / 2
	}
	t := (v - s.d0) / (s.d1 - s.d0)
	return s.r0 + t*(s.r1-s.r0)
}

// ThresholdScale splits a continuous domain into len(palette) equal steps.
type ThresholdScale struct {
	breakpoints []float64
	palette     Palette
}

// NewThresholdScale places one breakpoint per palette color at
// lo + i*(hi-lo)/k. The interval starting at breakpoint i maps to palette[i].
func NewThresholdScale(lo, hi float64, palette Palette) (*ThresholdScale, error) {
	if len(palette) == 0 {
		return nil, errors.New("threshold scale needs at least one color")
	}
	k := len(palette)
	step := (hi - lo) / float64(k)
	breakpoints := make([]float64, k)
	for i := range breakpoints {
		breakpoints[i] = lo + step*float64(i)
	}
	return &ThresholdScale{breakpoints: breakpoints, palette: palette}, nil
}

// Breakpoints returns a copy of the interval starts, in increasing order.
func (s *ThresholdScale) Breakpoints() []float64 {
	out := make([]float64, len(s.breakpoints))
	copy(out, s.breakpoints)
	return out
}

// Bucket returns the index of the interval containing v.
func (s *ThresholdScale) Bucket(v float64) int {
	// First breakpoint strictly above v; the interval before it contains v.
	i := sort.Search(len(s.breakpoints), func(i int) bool { return s.breakpoints[i] > v })
	if i == 0 {
		return 0
	}
	return i - 1
}

// Color returns the palette color of the interval containing v.
func (s *ThresholdScale) Color(v float64) Color {
	return s.palette[s.Bucket(v)]
}
