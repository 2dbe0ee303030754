package solver

import (
	"math"

	"gonum.org/v1/gonum/floats"

	"github.com/san-kum/modsim/internal/ode"
)

// Dormand-Prince coefficients (RK45)
var (
	a2 = 1.0 / 5.0
	a3 = 3.0 / 10.0
	a4 = 4.0 / 5.0
	a5 = 8.0 / 9.0

	b21 = 1.0 / 5.0
	b31 = 3.0 / 40.0
	b32 = 9.0 / 40.0
	b41 = 44.0 / 45.0
	b42 = -56.0 / 15.0
	b43 = 32.0 / 9.0
	b51 = 19372.0 / 6561.0
	b52 = -25360.0 / 2187.0
	b53 = 64448.0 / 6561.0
	b54 = -212.0 / 729.0
	b61 = 9017.0 / 3168.0
	b62 = -355.0 / 33.0
	b63 = 46732.0 / 5247.0
	b64 = 49.0 / 176.0
	b65 = -5103.0 / 18656.0

	c1 = 35.0 / 384.0
	c3 = 500.0 / 1113.0
	c4 = 125.0 / 192.0
	c5 = -2187.0 / 6784.0
	c6 = 11.0 / 84.0

	dc1 = c1 - 5179.0/57600.0
	dc3 = c3 - 7571.0/16695.0
	dc4 = c4 - 393.0/640.0
	dc5 = c5 - -92097.0/339200.0
	dc6 = c6 - 187.0/2100.0
	dc7 = -1.0 / 40.0
)

// RK45 is the Dormand-Prince 5(4) pair. The driver owns accept/reject;
// TryStep only proposes a candidate and reports its error ratio.
type RK45 struct {
	safety   float64
	minScale float64
	maxScale float64
}

func NewRK45() *RK45 {
	return &RK45{
		safety:   0.9,
		minScale: 0.2,
		maxScale: 10.0,
	}
}

func (r *RK45) Step(sys ode.System, t float64, x ode.State, h float64) (ode.State, error) {
	xNew, _, _, err := r.TryStep(sys, t, x, h, 1e-6, 1e-9)
	return xNew, err
}

// TryStep attempts one step of size h. The returned error ratio is the
// max-norm of the embedded 4th/5th-order difference against the mixed
// tolerance scale; the step is acceptable when it is <= 1. hNext is
// the suggested size for the next attempt, shrunk or grown with the
// usual safety factors.
func (r *RK45) TryStep(sys ode.System, t float64, x ode.State, h, relTol, absTol float64) (ode.State, float64, float64, error) {
	n := len(x)

	k1, err := sys.Derive(t, x)
	if err != nil {
		return nil, 0, 0, err
	}

	stage := make(ode.State, n)
	floats.AddScaledTo(stage, x, h*b21, k1)
	k2, err := sys.Derive(t+a2*h, stage)
	if err != nil {
		return nil, 0, 0, err
	}

	floats.AddScaledTo(stage, x, h*b31, k1)
	floats.AddScaled(stage, h*b32, k2)
	k3, err := sys.Derive(t+a3*h, stage)
	if err != nil {
		return nil, 0, 0, err
	}

	floats.AddScaledTo(stage, x, h*b41, k1)
	floats.AddScaled(stage, h*b42, k2)
	floats.AddScaled(stage, h*b43, k3)
	k4, err := sys.Derive(t+a4*h, stage)
	if err != nil {
		return nil, 0, 0, err
	}

	floats.AddScaledTo(stage, x, h*b51, k1)
	floats.AddScaled(stage, h*b52, k2)
	floats.AddScaled(stage, h*b53, k3)
	floats.AddScaled(stage, h*b54, k4)
	k5, err := sys.Derive(t+a5*h, stage)
	if err != nil {
		return nil, 0, 0, err
	}

	floats.AddScaledTo(stage, x, h*b61, k1)
	floats.AddScaled(stage, h*b62, k2)
	floats.AddScaled(stage, h*b63, k3)
	floats.AddScaled(stage, h*b64, k4)
	floats.AddScaled(stage, h*b65, k5)
	k6, err := sys.Derive(t+h, stage)
	if err != nil {
		return nil, 0, 0, err
	}

	xNew := make(ode.State, n)
	floats.AddScaledTo(xNew, x, h*c1, k1)
	floats.AddScaled(xNew, h*c3, k3)
	floats.AddScaled(xNew, h*c4, k4)
	floats.AddScaled(xNew, h*c5, k5)
	floats.AddScaled(xNew, h*c6, k6)

	k7, err := sys.Derive(t+h, xNew)
	if err != nil {
		return nil, 0, 0, err
	}

	errMax := 0.0
	for i := 0; i < n; i++ {
		errEst := h * (dc1*k1[i] + dc3*k3[i] + dc4*k4[i] + dc5*k5[i] + dc6*k6[i] + dc7*k7[i])
		scale := absTol + relTol*math.Max(math.Abs(x[i]), math.Abs(xNew[i]))
		errMax = math.Max(errMax, math.Abs(errEst)/scale)
	}

	var hNext float64
	switch {
	case errMax > 1:
		hNext = h * math.Max(r.minScale, r.safety*math.Pow(errMax, -0.25))
	case errMax > 0:
		hNext = h * math.Min(r.maxScale, r.safety*math.Pow(errMax, -0.2))
	default:
		hNext = h * r.maxScale
	}

	return xNew, errMax, hNext, nil
}
