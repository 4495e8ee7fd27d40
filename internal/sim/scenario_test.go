package sim_test

import (
	"context"
	"math"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/roversim/internal/drive"
	"github.com/san-kum/roversim/internal/dynamo"
	"github.com/san-kum/roversim/internal/physics"
	"github.com/san-kum/roversim/internal/sim"
)

var _ = Describe("constant symmetric drive", func() {
	var history *sim.History

	BeforeEach(func() {
		s := sim.New(physics.NewMotor(), physics.NewRover(), drive.NewConstant(12), drive.NoLoad{})
		var err error
		history, err = s.Run(context.Background(), sim.Config{Dt: 0.001, MaxTime: 10})
		Expect(err).NotTo(HaveOccurred())
	})

	It("accelerates from rest to a bounded steady surge velocity", func() {
		final := history.Final()
		Expect(final.State[dynamo.SurgeVel]).To(BeNumerically(">", 0.5))
		Expect(final.State[dynamo.SurgeVel]).To(BeNumerically("<", 50))

		// Near steady state the last two records barely differ.
		prev := history.Records[history.Len()-2]
		Expect(math.Abs(final.State[dynamo.SurgeVel] - prev.State[dynamo.SurgeVel])).
			To(BeNumerically("<", 1e-3))
	})

	It("keeps yaw, sway, roll and pitch at zero throughout", func() {
		for i := range history.Records {
			state := history.Records[i].State
			Expect(state[dynamo.SwayVel]).To(BeNumerically("~", 0, 1e-9))
			Expect(state[dynamo.Yaw]).To(BeNumerically("~", 0, 1e-9))
			Expect(state[dynamo.Roll]).To(BeNumerically("~", 0, 1e-9))
			Expect(state[dynamo.Pitch]).To(BeNumerically("~", 0, 1e-9))
		}
	})

	It("spins all four wheels identically", func() {
		final := history.Final()
		for j := 1; j < physics.NumWheels; j++ {
			Expect(final.Speed[j]).To(Equal(final.Speed[0]))
			Expect(final.Current[j]).To(Equal(final.Current[0]))
		}
		Expect(final.Speed[0]).To(BeNumerically(">", 0))
	})

	It("remains numerically stable for the whole run", func() {
		for i := range history.Records {
			Expect(history.Records[i].State.IsValid()).To(BeTrue())
		}
	})
})

var _ = Describe("coast down with zero drive", func() {
	var history *sim.History

	BeforeEach(func() {
		init := dynamo.NewState()
		init[dynamo.SurgeVel] = 1.0

		// Flat ground: the terrain carries the weight, so zero gravity
		// here. Otherwise the unsupported heave channel accelerates and
		// kinetic energy grows instead of dissipating.
		rover := physics.NewRover()
		rover.Gravity = 0

		s := sim.New(physics.NewMotor(), rover, drive.NewConstant(0), drive.NoLoad{})
		var err error
		history, err = s.Run(context.Background(), sim.Config{
			Dt:         0.001,
			MaxTime:    6,
			InitState:  init,
			InitWheels: sim.WheelState{Speed: physics.Uniform(5)},
		})
		Expect(err).NotTo(HaveOccurred())
	})

	It("decays wheel speed monotonically toward zero", func() {
		for i := 1; i < history.Len(); i++ {
			Expect(history.Records[i].Speed[0]).
				To(BeNumerically("<=", history.Records[i-1].Speed[0]+1e-9))
		}
		Expect(math.Abs(history.Final().Speed[0])).To(BeNumerically("<", 0.05))
	})

	It("decays surge velocity toward zero without negative damping", func() {
		u0 := history.Records[0].State[dynamo.SurgeVel]
		for i := range history.Records {
			u := history.Records[i].State[dynamo.SurgeVel]
			Expect(u).To(BeNumerically("<=", u0+1e-9))
		}
		Expect(math.Abs(history.Final().State[dynamo.SurgeVel])).To(BeNumerically("<", 0.05))
	})

	It("dissipates kinetic energy", func() {
		rover := physics.NewRover()
		initial := rover.Energy(history.Records[0].State)
		final := rover.Energy(history.Final().State)
		Expect(final).To(BeNumerically("<", initial))
	})
})

var _ = Describe("asymmetric drive schedule", func() {
	It("turns the vehicle once the pairs are driven unequally", func() {
		schedule := drive.NewSchedule([]drive.Segment{
			{Start: 0, V: physics.Uniform(12)},
			{Start: 2, V: physics.WheelVec{12, 12, 4, 4}},
		})

		s := sim.New(physics.NewMotor(), physics.NewRover(), schedule, drive.NoLoad{})
		history, err := s.Run(context.Background(), sim.Config{Dt: 0.001, MaxTime: 5})
		Expect(err).NotTo(HaveOccurred())

		// Left pair driven harder: positive yaw moment. The yaw angle wraps
		// every revolution, so assert on the rate instead.
		Expect(history.Final().State[dynamo.YawRate]).To(BeNumerically(">", 0.01))
	})
})

var _ = Describe("pulse disturbance", func() {
	It("perturbs pitch only inside the pulse window", func() {
		pulse := &drive.PulseLoad{L: physics.Load{Pitch: 4}, Start: 1.0, End: 1.5}

		s := sim.New(physics.NewMotor(), physics.NewRover(), drive.NewConstant(0), pulse)
		history, err := s.Run(context.Background(), sim.Config{Dt: 0.001, MaxTime: 3})
		Expect(err).NotTo(HaveOccurred())

		before := history.Records[500]  // t=0.5
		during := history.Records[1400] // t=1.4
		Expect(before.State[dynamo.PitchRate]).To(BeNumerically("~", 0, 1e-9))
		Expect(during.State[dynamo.PitchRate]).To(BeNumerically(">", 1e-4))
	})
})
