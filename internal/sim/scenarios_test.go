package sim_test

import (
	"context"
	"math"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/rs/zerolog"

	"github.com/openlaunch/ascent/internal/config"
	"github.com/openlaunch/ascent/internal/dynamics"
	"github.com/openlaunch/ascent/internal/flight"
	"github.com/openlaunch/ascent/internal/sim"
)

func fly(cfg *config.Config) *flight.Result {
	GinkgoHelper()
	s, err := cfg.Build(zerolog.Nop())
	Expect(err).NotTo(HaveOccurred())
	res, err := s.Run(context.Background())
	Expect(err).NotTo(HaveOccurred())
	return res
}

var _ = Describe("Baseline flight", func() {
	var res *flight.Result

	BeforeEach(func() {
		cfg, err := config.Preset("baseline")
		Expect(err).NotTo(HaveOccurred())
		res = fly(cfg)
	})

	It("lands after a complete ascent and descent", func() {
		Expect(res.FinalPhase).To(Equal(flight.PhaseLanded))
		final := res.States[len(res.States)-1]
		Expect(final.Altitude()).To(BeNumerically("~", 0, 0.01))
		Expect(res.FlightTime).To(BeNumerically(">", res.ApogeeTime))
	})

	It("fires the standard events in order, each once", func() {
		var names []string
		for _, ev := range res.Events {
			names = append(names, ev.Name)
		}
		Expect(names).To(Equal([]string{
			sim.EventRailRelease,
			sim.EventBurnout,
			sim.EventApogee,
			sim.EventGroundImpact,
		}))
		for i := 1; i < len(res.Events); i++ {
			Expect(res.Events[i].Time).To(BeNumerically(">", res.Events[i-1].Time))
		}
	})

	It("reaches a single apogee above the rail", func() {
		Expect(res.ApogeeAltitude).To(BeNumerically(">", 1000))
		Expect(res.ApogeeAltitude).To(BeNumerically("<", 80000))

		apogee := res.Event(sim.EventApogee)
		Expect(apogee).NotTo(BeNil())
		Expect(apogee.State.Velocity().Z).To(BeNumerically("~", 0, 0.05))
		// Apogee is the recorded maximum altitude.
		for _, x := range res.States {
			Expect(x.Altitude()).To(BeNumerically("<=", res.ApogeeAltitude+0.5))
		}
	})

	It("burns mass monotonically and holds dry mass after burnout", func() {
		for i := 1; i < len(res.States); i++ {
			Expect(res.States[i].Mass()).To(BeNumerically("<=", res.States[i-1].Mass()+1e-9))
		}
		burnout := res.Event(sim.EventBurnout)
		Expect(burnout).NotTo(BeNil())
		Expect(burnout.Time).To(BeNumerically("~", 4.0, 0.01))

		final := res.States[len(res.States)-1]
		Expect(final.Mass()).To(BeNumerically("~", 5.0, 1e-3))
	})

	It("stays on the rail until the guide length is traveled", func() {
		rail := dynamics.RailDirection(85, 0)
		release := res.Event(sim.EventRailRelease)
		Expect(release).NotTo(BeNil())

		along := release.State.Position().Dot(rail)
		Expect(along).To(BeNumerically("~", 5.2, 1e-3))

		for i, x := range res.States {
			if res.Times[i] > release.Time {
				break
			}
			pos := x.Position()
			lateral := pos.Sub(rail.Scale(pos.Dot(rail)))
			Expect(lateral.Norm()).To(BeNumerically("<", 1e-6))
		}
	})

	It("records a positive impact velocity", func() {
		Expect(res.ImpactVelocity).To(BeNumerically(">", 0))
		Expect(res.MaxVelocity).To(BeNumerically(">=", res.ImpactVelocity))
	})
})

var _ = Describe("Determinism", func() {
	It("reproduces a flight exactly from the same configuration", func() {
		cfg, err := config.Preset("baseline")
		Expect(err).NotTo(HaveOccurred())

		a := fly(cfg)
		b := fly(cfg)

		Expect(b.ApogeeAltitude).To(Equal(a.ApogeeAltitude))
		Expect(b.FlightTime).To(Equal(a.FlightTime))
		Expect(b.Times).To(HaveLen(len(a.Times)))
		Expect(b.Steps).To(Equal(a.Steps))
	})
})

var _ = Describe("Crosswind weathercocking", func() {
	It("changes the lateral trajectory relative to a fixed attitude", func() {
		fixed, err := config.Preset("baseline")
		Expect(err).NotTo(HaveOccurred())
		fixed.Environment.Wind = [3]float64{8, 0, 0}
		fixed.WeathercockCoeff = 0

		turning, err := config.Preset("baseline")
		Expect(err).NotTo(HaveOccurred())
		turning.Environment.Wind = [3]float64{8, 0, 0}
		turning.WeathercockCoeff = 5.0

		resFixed := fly(fixed)
		resTurning := fly(turning)

		xFixed := resFixed.States[len(resFixed.States)-1].Position().X
		xTurning := resTurning.States[len(resTurning.States)-1].Position().X
		Expect(math.Abs(xFixed - xTurning)).To(BeNumerically(">", 1.0))
	})
})

var _ = Describe("Early termination", func() {
	It("stops at apogee when requested", func() {
		cfg, err := config.Preset("baseline")
		Expect(err).NotTo(HaveOccurred())
		cfg.StopOnApogee = true

		s, err := cfg.Build(zerolog.Nop())
		Expect(err).NotTo(HaveOccurred())
		res, err := s.Run(context.Background())
		Expect(err).NotTo(HaveOccurred())

		Expect(res.FinalPhase).To(Equal(flight.PhaseDescent))
		Expect(res.Event(sim.EventGroundImpact)).To(BeNil())
		Expect(res.FlightTime).To(BeNumerically("~", res.ApogeeTime, 1e-9))
	})

	It("terminates at the simulated-time cutoff", func() {
		cfg, err := config.Preset("baseline")
		Expect(err).NotTo(HaveOccurred())
		cfg.MaxSimTime = 1.0

		res := fly(cfg)
		Expect(res.FinalPhase).To(Equal(flight.PhaseTerminated))
		Expect(res.FlightTime).To(BeNumerically(">=", 1.0))
	})

	It("terminates on context cancellation", func() {
		cfg, err := config.Preset("baseline")
		Expect(err).NotTo(HaveOccurred())

		s, err := cfg.Build(zerolog.Nop())
		Expect(err).NotTo(HaveOccurred())
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		res, err := s.Run(ctx)
		Expect(err).NotTo(HaveOccurred())
		Expect(res.FinalPhase).To(Equal(flight.PhaseTerminated))
	})
})

var _ = Describe("Recovery", func() {
	It("deploys drogue and main and lands gently", func() {
		cfg, err := config.Preset("dual-deploy")
		Expect(err).NotTo(HaveOccurred())
		res := fly(cfg)

		Expect(res.FinalPhase).To(Equal(flight.PhaseLanded))
		Expect(res.Event("parachute_drogue")).NotTo(BeNil())
		Expect(res.Event("parachute_drogue_inflated")).NotTo(BeNil())
		Expect(res.Event("parachute_main")).NotTo(BeNil())

		// CdS 4 canopy on 5 kg: terminal velocity near 4.5 m/s.
		Expect(res.ImpactVelocity).To(BeNumerically("<", 10))
	})

	It("orders drogue inflation after its trigger by the configured lag", func() {
		cfg, err := config.Preset("dual-deploy")
		Expect(err).NotTo(HaveOccurred())
		res := fly(cfg)

		trigger := res.Event("parachute_drogue")
		inflated := res.Event("parachute_drogue_inflated")
		Expect(trigger).NotTo(BeNil())
		Expect(inflated).NotTo(BeNil())
		Expect(inflated.Time - trigger.Time).To(BeNumerically("~", 1.0, 0.01))
	})
})

var _ = Describe("Rigid-body mode", func() {
	It("flies the full 6-DOF state to landing", func() {
		cfg, err := config.Preset("rigid-body")
		Expect(err).NotTo(HaveOccurred())
		res := fly(cfg)

		Expect(res.FinalPhase).To(Equal(flight.PhaseLanded))
		Expect(res.States[0]).To(HaveLen(14))
		Expect(res.ApogeeAltitude).To(BeNumerically(">", 1000))

		// Attitude stays unit length throughout.
		for _, x := range res.States {
			n := math.Sqrt(x[6]*x[6] + x[7]*x[7] + x[8]*x[8] + x[9]*x[9])
			Expect(n).To(BeNumerically("~", 1.0, 1e-6))
		}
	})
})
