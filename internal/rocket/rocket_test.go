package rocket

import (
	"math"
	"testing"

	"github.com/openlaunch/ascent/internal/flight"
	"github.com/openlaunch/ascent/internal/vec"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validRocket() *Rocket {
	return &Rocket{
		DryMass:      5.0,
		Radius:       0.05,
		PowerOnDrag:  ConstantDrag(0.45),
		PowerOffDrag: ConstantDrag(0.5),
	}
}

func TestReferenceArea(t *testing.T) {
	r := validRocket()
	assert.InDelta(t, math.Pi*0.0025, r.ReferenceArea(), 1e-12)
}

func TestCdSelectsByPower(t *testing.T) {
	r := validRocket()
	assert.Equal(t, 0.45, r.Cd(0.3, true))
	assert.Equal(t, 0.5, r.Cd(0.3, false))
}

func TestMachDragInterpolation(t *testing.T) {
	d := MachDrag{
		Machs: []float64{0, 0.8, 1.0, 1.2},
		Cds:   []float64{0.45, 0.5, 0.9, 0.7},
	}
	assert.Equal(t, 0.45, d.Cd(-0.5), "clamped below")
	assert.Equal(t, 0.45, d.Cd(0))
	assert.InDelta(t, 0.7, d.Cd(0.9), 1e-12)
	assert.Equal(t, 0.9, d.Cd(1.0))
	assert.Equal(t, 0.7, d.Cd(5.0), "clamped above")
}

func TestRocketValidate(t *testing.T) {
	require.NoError(t, validRocket().Validate(flight.ModePointMass))

	var cfgErr *flight.ConfigurationError

	r := validRocket()
	r.DryMass = 0
	require.ErrorAs(t, r.Validate(flight.ModePointMass), &cfgErr)

	r = validRocket()
	r.PowerOffDrag = nil
	require.ErrorAs(t, r.Validate(flight.ModePointMass), &cfgErr)

	// Rigid-body mode needs the body block.
	r = validRocket()
	require.ErrorAs(t, r.Validate(flight.ModeRigidBody), &cfgErr)

	r.Body = &RigidBodyData{
		Inertia:      func(t float64) vec.Mat3 { return vec.Diag(1.8, 1.8, 0.02) },
		CenterOfMass: func(t float64) float64 { return 0.9 },
	}
	require.NoError(t, r.Validate(flight.ModeRigidBody))
}

func TestParachuteValidate(t *testing.T) {
	var cfgErr *flight.ConfigurationError

	p := Parachute{Name: "main", CdS: 4.0, Trigger: DeployAtApogee}
	require.NoError(t, p.Validate())

	p = Parachute{Name: "main", CdS: 0, Trigger: DeployAtApogee}
	require.ErrorAs(t, p.Validate(), &cfgErr)

	p = Parachute{Name: "main", CdS: 4.0, Trigger: DeployBelowAltitude}
	require.ErrorAs(t, p.Validate(), &cfgErr, "altitude trigger needs a positive altitude")

	p = Parachute{Name: "main", CdS: 4.0, Trigger: DeployBelowAltitude, TriggerAltitude: 300}
	require.NoError(t, p.Validate())

	p = Parachute{Name: "main", CdS: 4.0, Trigger: "sonic"}
	require.ErrorAs(t, p.Validate(), &cfgErr)

	p = Parachute{Name: "main", CdS: 4.0, Trigger: DeployAtApogee, Lag: -1}
	require.ErrorAs(t, p.Validate(), &cfgErr)
}

func TestRocketValidateChecksParachutes(t *testing.T) {
	r := validRocket()
	r.Parachutes = []Parachute{{Name: "bad", CdS: -1, Trigger: DeployAtApogee}}
	var cfgErr *flight.ConfigurationError
	require.ErrorAs(t, r.Validate(flight.ModePointMass), &cfgErr)
}
