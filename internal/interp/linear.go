// Package interp turns sampled time series into continuous-time inputs
// for slope functions.
package interp

import (
	"errors"
	"fmt"
	"math"
	"sort"
)

// ErrOutOfDomain is returned for queries outside the sampled range when
// extrapolation is disabled.
var ErrOutOfDomain = errors.New("interp: query time outside sampled range")

// Extrapolation selects the behavior for queries outside the sampled
// range. The default is ExtrapolateError: callers opt in to
// extrapolation explicitly.
type Extrapolation int

const (
	// ExtrapolateError reports ErrOutOfDomain.
	ExtrapolateError Extrapolation = iota
	// ExtrapolateFlat holds the boundary sample's value.
	ExtrapolateFlat
	// ExtrapolateLinear extends the boundary segment's slope.
	ExtrapolateLinear
)

// Linear interpolates a sampled series linearly. Queries that land
// exactly on a sample time return that sample's value with no
// arithmetic applied.
type Linear struct {
	ts, vs []float64
	mode   Extrapolation
}

// NewLinear builds an interpolant over sample times ts and values vs.
// Times must be strictly increasing and at least two samples are
// required. The slices are copied.
func NewLinear(ts, vs []float64, mode Extrapolation) (*Linear, error) {
	if len(ts) != len(vs) {
		return nil, fmt.Errorf("interp: %d times but %d values", len(ts), len(vs))
	}
	if len(ts) < 2 {
		return nil, fmt.Errorf("interp: need at least two samples, got %d", len(ts))
	}
	for i := 1; i < len(ts); i++ {
		if ts[i] <= ts[i-1] {
			return nil, fmt.Errorf("interp: times must be strictly increasing (t[%d]=%g, t[%d]=%g)",
				i-1, ts[i-1], i, ts[i])
		}
	}

	l := &Linear{
		ts:   make([]float64, len(ts)),
		vs:   make([]float64, len(vs)),
		mode: mode,
	}
	copy(l.ts, ts)
	copy(l.vs, vs)
	return l, nil
}

// Domain returns the first and last sample times.
func (l *Linear) Domain() (lo, hi float64) {
	return l.ts[0], l.ts[len(l.ts)-1]
}

// At evaluates the interpolant at t.
func (l *Linear) At(t float64) (float64, error) {
	if math.IsNaN(t) {
		return 0, fmt.Errorf("%w: query time is NaN", ErrOutOfDomain)
	}

	n := len(l.ts)
	if t < l.ts[0] || t > l.ts[n-1] {
		switch l.mode {
		case ExtrapolateFlat:
			if t < l.ts[0] {
				return l.vs[0], nil
			}
			return l.vs[n-1], nil
		case ExtrapolateLinear:
			if t < l.ts[0] {
				return l.segment(0, t), nil
			}
			return l.segment(n-2, t), nil
		default:
			return 0, fmt.Errorf("%w: t=%g outside [%g, %g]", ErrOutOfDomain, t, l.ts[0], l.ts[n-1])
		}
	}

	i := sort.SearchFloat64s(l.ts, t)
	if i < n && l.ts[i] == t {
		return l.vs[i], nil
	}
	return l.segment(i-1, t), nil
}

// AtAll evaluates the interpolant at every query time, each query
// independent of the others. The first failing query aborts.
func (l *Linear) AtAll(ts []float64) ([]float64, error) {
	out := make([]float64, len(ts))
	for i, t := range ts {
		v, err := l.At(t)
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}

// segment evaluates the line through samples i and i+1 at t.
func (l *Linear) segment(i int, t float64) float64 {
	t0, t1 := l.ts[i], l.ts[i+1]
	v0, v1 := l.vs[i], l.vs[i+1]
	return v0 + (v1-v0)*(t-t0)/(t1-t0)
}
