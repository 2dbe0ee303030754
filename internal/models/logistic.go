package models

import "github.com/san-kum/modsim/internal/ode"

// Logistic models quadratic net growth, dp/dt = alpha*p + beta*p^2.
// With alpha > 0 and beta < 0 the population approaches the carrying
// capacity -alpha/beta.
type Logistic struct {
	Alpha float64 // net growth rate, 1/year
	Beta  float64 // crowding term, 1/(year*unit)
}

// NewLogistic returns the quadratic fit to 20th-century world
// population, in billions and years.
func NewLogistic() *Logistic {
	return &Logistic{
		Alpha: 0.025,
		Beta:  -0.0018,
	}
}

func (l *Logistic) Dim() int { return 1 }

func (l *Logistic) Derive(t float64, x ode.State) (ode.State, error) {
	p := x[0]
	return ode.State{l.Alpha*p + l.Beta*p*p}, nil
}

// CarryingCapacity is the equilibrium population at which net growth
// is zero.
func (l *Logistic) CarryingCapacity() float64 {
	return -l.Alpha / l.Beta
}
