package ode

import "math"

const maxBisect = 128

// hermite evaluates the cubic Hermite interpolant through (t0, x0) and
// (t1, x1) with endpoint derivatives f0, f1 at time t. This is the
// dense output between two accepted steps; it reproduces polynomial
// trajectories up to cubic order exactly.
func hermite(t0 float64, x0, f0 State, t1 float64, x1, f1 State, t float64) State {
	h := t1 - t0
	s := (t - t0) / h
	s2 := s * s
	s3 := s2 * s

	h00 := 2*s3 - 3*s2 + 1
	h10 := s3 - 2*s2 + s
	h01 := -2*s3 + 3*s2
	h11 := s3 - s2

	out := make(State, len(x0))
	for i := range out {
		out[i] = h00*x0[i] + h*h10*f0[i] + h01*x1[i] + h*h11*f1[i]
	}
	return out
}

// refineCrossing narrows an event's zero crossing inside (t0, t1] by
// bisection on the dense-output interpolant. g0 is the (nonzero) event
// value at t0.
func refineCrossing(ev *Event, t0 float64, x0, f0 State, t1 float64, x1, f1 State, g0, tol float64) (float64, State, error) {
	lo, hi := t0, t1
	neg := g0 < 0

	for i := 0; i < maxBisect && hi-lo > tol; i++ {
		mid := 0.5 * (lo + hi)
		xm := hermite(t0, x0, f0, t1, x1, f1, mid)
		gm, err := ev.F(mid, xm)
		if err != nil {
			return 0, nil, err
		}
		if gm == 0 {
			return mid, xm, nil
		}
		if (gm < 0) == neg {
			lo = mid
		} else {
			hi = mid
		}
	}

	tStar := 0.5 * (lo + hi)
	return tStar, hermite(t0, x0, f0, t1, x1, f1, tStar), nil
}

func defaultEventTol(t float64) float64 {
	return 1e-12 * math.Max(1, math.Abs(t))
}

// crossed reports a sign change between consecutive event values. A
// zero previous value is a baseline (the initial sample, or a crossing
// already handled) and never rearms immediately.
func crossed(g0, g1 float64, dir Direction) bool {
	if g0 == 0 {
		return false
	}
	switch dir {
	case Rising:
		return g0 < 0 && g1 >= 0
	case Falling:
		return g0 > 0 && g1 <= 0
	default:
		return (g0 < 0 && g1 >= 0) || (g0 > 0 && g1 <= 0)
	}
}
