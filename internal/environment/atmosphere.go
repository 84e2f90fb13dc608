package environment

import (
	"fmt"
	"math"

	"github.com/openlaunch/ascent/internal/flight"
)

const (
	gasConstantAir = 287.05287 // J/(kg K)
	gammaAir       = 1.4
)

// isaLayer is one temperature layer of the 1976 standard atmosphere.
// Base pressures are propagated from sea level at package init.
type isaLayer struct {
	baseAltitude float64 // geopotential, m
	baseTemp     float64 // K
	lapseRate    float64 // K/m
	basePressure float64 // Pa, filled by init
}

var isaLayers = []isaLayer{
	{0, 288.15, -0.0065, 101325.0},
	{11000, 216.65, 0, 0},
	{20000, 216.65, 0.001, 0},
	{32000, 228.65, 0.0028, 0},
	{47000, 270.65, 0, 0},
	{51000, 270.65, -0.0028, 0},
	{71000, 214.65, -0.002, 0},
}

const isaTopAltitude = 86000.0

func init() {
	for i := 1; i < len(isaLayers); i++ {
		prev := isaLayers[i-1]
		isaLayers[i].basePressure = pressureInLayer(prev, isaLayers[i].baseAltitude)
	}
}

func pressureInLayer(l isaLayer, altitude float64) float64 {
	dh := altitude - l.baseAltitude
	if l.lapseRate == 0 {
		return l.basePressure * math.Exp(-StandardGravity*dh/(gasConstantAir*l.baseTemp))
	}
	t := l.baseTemp + l.lapseRate*dh
	return l.basePressure * math.Pow(t/l.baseTemp, -StandardGravity/(gasConstantAir*l.lapseRate))
}

// StandardAtmosphere is the US Standard Atmosphere 1976, defined up to 86 km.
type StandardAtmosphere struct{}

func (StandardAtmosphere) MaxAltitude() float64 { return isaTopAltitude }

func (StandardAtmosphere) layerAt(altitude float64) (isaLayer, error) {
	if altitude < -500 || altitude > isaTopAltitude {
		return isaLayer{}, fmt.Errorf("altitude %.0fm: %w", altitude, flight.ErrOutOfRange)
	}
	if altitude < 0 {
		altitude = 0
	}
	layer := isaLayers[0]
	for _, l := range isaLayers[1:] {
		if altitude < l.baseAltitude {
			break
		}
		layer = l
	}
	return layer, nil
}

func (a StandardAtmosphere) Temperature(altitude float64) (float64, error) {
	l, err := a.layerAt(altitude)
	if err != nil {
		return 0, err
	}
	if altitude < 0 {
		altitude = 0
	}
	return l.baseTemp + l.lapseRate*(altitude-l.baseAltitude), nil
}

func (a StandardAtmosphere) Pressure(altitude float64) (float64, error) {
	l, err := a.layerAt(altitude)
	if err != nil {
		return 0, err
	}
	if altitude < 0 {
		altitude = 0
	}
	return pressureInLayer(l, altitude), nil
}

func (a StandardAtmosphere) Density(altitude float64) (float64, error) {
	p, err := a.Pressure(altitude)
	if err != nil {
		return 0, err
	}
	t, err := a.Temperature(altitude)
	if err != nil {
		return 0, err
	}
	return p / (gasConstantAir * t), nil
}

func (a StandardAtmosphere) SpeedOfSound(altitude float64) (float64, error) {
	t, err := a.Temperature(altitude)
	if err != nil {
		return 0, err
	}
	return math.Sqrt(gammaAir * gasConstantAir * t), nil
}

// UniformAtmosphere has constant density and speed of sound at every
// altitude. Useful for tests and idealized scenarios.
type UniformAtmosphere struct {
	Rho float64 // kg/m^3
	A   float64 // m/s; sea-level value if zero
}

func (UniformAtmosphere) MaxAltitude() float64 { return math.Inf(1) }

func (u UniformAtmosphere) Density(altitude float64) (float64, error) {
	return u.Rho, nil
}

func (u UniformAtmosphere) SpeedOfSound(altitude float64) (float64, error) {
	if u.A == 0 {
		return 340.29, nil
	}
	return u.A, nil
}
