package integrators

import (
	"math"

	"github.com/openlaunch/ascent/internal/flight"
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

// RK45 is an adaptive Dormand-Prince 4(5) pair with an embedded error
// estimate. The simulation loop accepts or rejects each proposed step
// based on the returned error ratio.
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

func (r *RK45) Step(m flight.Model, x flight.State, t, dt float64, ph flight.Phase) (flight.State, error) {
	newX, _, _, err := r.TryStep(m, x, t, dt, 1e-6, ph)
	return newX, err
}

// TryStep proposes one step of size dt. errRatio is the scaled local error
// against tol (accept when <= 1); dtNext is the recommended next size.
func (r *RK45) TryStep(m flight.Model, x flight.State, t, dt, tol float64, ph flight.Phase) (flight.State, float64, float64, error) {
	n := len(x)

	k1, err := m.Derivative(x, t, ph)
	if err != nil {
		return nil, 0, 0, err
	}

	x2 := make(flight.State, n)
	for i := 0; i < n; i++ {
		x2[i] = x[i] + dt*b21*k1[i]
	}
	k2, err := m.Derivative(x2, t+a2*dt, ph)
	if err != nil {
		return nil, 0, 0, err
	}

	x3 := make(flight.State, n)
	for i := 0; i < n; i++ {
		x3[i] = x[i] + dt*(b31*k1[i]+b32*k2[i])
	}
	k3, err := m.Derivative(x3, t+a3*dt, ph)
	if err != nil {
		return nil, 0, 0, err
	}

	x4 := make(flight.State, n)
	for i := 0; i < n; i++ {
		x4[i] = x[i] + dt*(b41*k1[i]+b42*k2[i]+b43*k3[i])
	}
	k4, err := m.Derivative(x4, t+a4*dt, ph)
	if err != nil {
		return nil, 0, 0, err
	}

	x5 := make(flight.State, n)
	for i := 0; i < n; i++ {
		x5[i] = x[i] + dt*(b51*k1[i]+b52*k2[i]+b53*k3[i]+b54*k4[i])
	}
	k5, err := m.Derivative(x5, t+a5*dt, ph)
	if err != nil {
		return nil, 0, 0, err
	}

	x6 := make(flight.State, n)
	for i := 0; i < n; i++ {
		x6[i] = x[i] + dt*(b61*k1[i]+b62*k2[i]+b63*k3[i]+b64*k4[i]+b65*k5[i])
	}
	k6, err := m.Derivative(x6, t+dt, ph)
	if err != nil {
		return nil, 0, 0, err
	}

	xNew := make(flight.State, n)
	for i := 0; i < n; i++ {
		xNew[i] = x[i] + dt*(c1*k1[i]+c3*k3[i]+c4*k4[i]+c5*k5[i]+c6*k6[i])
	}

	k7, err := m.Derivative(xNew, t+dt, ph)
	if err != nil {
		return nil, 0, 0, err
	}

	errMax := 0.0
	for i := 0; i < n; i++ {
		errEst := dt * (dc1*k1[i] + dc3*k3[i] + dc4*k4[i] + dc5*k5[i] + dc6*k6[i] + dc7*k7[i])
		scale := math.Abs(x[i]) + math.Abs(dt*k1[i]) + 1e-10
		errMax = math.Max(errMax, math.Abs(errEst)/scale)
	}

	errRatio := errMax / tol

	var dtNext float64
	if errRatio > 1 {
		scale := math.Max(r.minScale, r.safety*math.Pow(errRatio, -0.25))
		dtNext = dt * scale
	} else {
		if errRatio > 0 {
			scale := math.Min(r.maxScale, r.safety*math.Pow(errRatio, -0.2))
			dtNext = dt * scale
		} else {
			dtNext = dt * r.maxScale
		}
	}

	return xNew, errRatio, dtNext, nil
}
