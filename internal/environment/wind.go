package environment

import "github.com/openlaunch/ascent/internal/vec"

// NoWind is still air.
type NoWind struct{}

func (NoWind) At(altitude float64) vec.Vec3 { return vec.Vec3{} }

// ConstantWind blows the same vector at every altitude.
type ConstantWind struct {
	V vec.Vec3
}

func (c ConstantWind) At(altitude float64) vec.Vec3 { return c.V }

// ShearWind grows linearly from a surface value up to a reference
// altitude, constant above it.
type ShearWind struct {
	Surface     vec.Vec3 // wind at altitude 0
	Aloft       vec.Vec3 // wind at and above RefAltitude
	RefAltitude float64
}

func (s ShearWind) At(altitude float64) vec.Vec3 {
	if s.RefAltitude <= 0 || altitude >= s.RefAltitude {
		return s.Aloft
	}
	if altitude <= 0 {
		return s.Surface
	}
	f := altitude / s.RefAltitude
	return s.Surface.Add(s.Aloft.Sub(s.Surface).Scale(f))
}
