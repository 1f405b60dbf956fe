package clock

import (
	"errors"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"go.uber.org/mock/gomock"

	"github.com/sarchlab/streamcheck/sim/hooking"
	"github.com/sarchlab/streamcheck/sim/signal"
	"github.com/sarchlab/streamcheck/sim/timing"
)

var _ = Describe("Clock", func() {
	var (
		mockCtrl *gomock.Controller
		engine   *timing.SerialEngine
		device   *MockDevice
		bus      *signal.Bus
		clk      *Clock
	)

	BeforeEach(func() {
		mockCtrl = gomock.NewController(GinkgoT())
		engine = timing.NewSerialEngine()
		device = NewMockDevice(mockCtrl)
		bus = signal.NewBus()
		clk = MakeBuilder().
			WithEngine(engine).
			WithFreq(1 * timing.Hz).
			WithResetCycles(2).
			Build("Clock", device, bus)
	})

	AfterEach(func() {
		mockCtrl.Finish()
	})

	It("should hold the device in reset before resuming listeners", func() {
		listener := NewMockEdgeListener(mockCtrl)
		clk.Subscribe(Rising, listener)

		reset := device.EXPECT().Reset().Times(2)
		device.EXPECT().Settle().Times(3)
		device.EXPECT().Tick().After(reset)
		listener.EXPECT().
			OnEdge(Edge{Kind: Rising, Cycle: 0, Time: 2.0}).
			DoAndReturn(func(e Edge) error {
				clk.Stop()
				return nil
			})

		clk.Start()

		Expect(engine.Run()).To(Succeed())
		Expect(clk.Cycles()).To(Equal(uint64(1)))
		Expect(engine.Now()).To(Equal(2.0))
	})

	It("should alternate rising and falling edges", func() {
		device.EXPECT().Reset().AnyTimes()
		device.EXPECT().Tick().AnyTimes()
		device.EXPECT().Settle().AnyTimes()

		var edges []Edge
		record := EdgeListenerFunc(func(e Edge) error {
			edges = append(edges, e)
			if e.Kind == Falling && e.Cycle == 1 {
				clk.Stop()
			}

			return nil
		})
		clk.Subscribe(Rising, record)
		clk.Subscribe(Falling, record)

		clk.Start()

		Expect(engine.Run()).To(Succeed())
		Expect(edges).To(Equal([]Edge{
			{Kind: Rising, Cycle: 0, Time: 2.0},
			{Kind: Falling, Cycle: 0, Time: 2.5},
			{Kind: Rising, Cycle: 1, Time: 3.0},
			{Kind: Falling, Cycle: 1, Time: 3.5},
		}))
	})

	It("should resume listeners in subscription order", func() {
		device.EXPECT().Reset().AnyTimes()
		device.EXPECT().Tick().AnyTimes()
		device.EXPECT().Settle().AnyTimes()

		first := NewMockEdgeListener(mockCtrl)
		second := NewMockEdgeListener(mockCtrl)
		clk.Subscribe(Rising, first)
		clk.Subscribe(Rising, second)

		call := first.EXPECT().OnEdge(gomock.Any())
		second.EXPECT().OnEdge(gomock.Any()).After(call).
			DoAndReturn(func(e Edge) error {
				clk.Stop()
				return nil
			})

		clk.Start()

		Expect(engine.Run()).To(Succeed())
	})

	It("should let listeners see the values before the edge", func() {
		s := bus.Add("valid", 1)

		device.EXPECT().Reset().AnyTimes()
		device.EXPECT().Tick().AnyTimes()
		device.EXPECT().Settle().AnyTimes()

		var seen []uint64
		writer := EdgeListenerFunc(func(e Edge) error {
			seen = append(seen, s.Read())
			s.Write(1)

			return nil
		})
		reader := EdgeListenerFunc(func(e Edge) error {
			seen = append(seen, s.Read())
			if e.Cycle == 1 {
				clk.Stop()
			}

			return nil
		})
		clk.Subscribe(Rising, writer)
		clk.Subscribe(Rising, reader)

		clk.Start()

		Expect(engine.Run()).To(Succeed())
		Expect(seen).To(Equal([]uint64{0, 0, 1, 1}))
	})

	It("should stop at the first listener error", func() {
		device.EXPECT().Reset().AnyTimes()
		device.EXPECT().Settle().AnyTimes()

		failure := errors.New("mismatch")
		listener := NewMockEdgeListener(mockCtrl)
		listener.EXPECT().OnEdge(gomock.Any()).Return(failure)
		clk.Subscribe(Rising, listener)

		clk.Start()

		Expect(engine.Run()).To(MatchError(failure))
		Expect(clk.Cycles()).To(Equal(uint64(0)))
	})

	It("should invoke edge hooks", func() {
		device.EXPECT().Reset().AnyTimes()
		device.EXPECT().Tick().AnyTimes()
		device.EXPECT().Settle().AnyTimes()

		var kinds []EdgeKind
		clk.AcceptHook(hooking.HookFunc(func(ctx hooking.HookCtx) {
			Expect(ctx.Pos).To(BeIdenticalTo(HookPosEdge))
			edge := ctx.Item.(Edge)
			kinds = append(kinds, edge.Kind)

			if edge.Kind == Falling {
				clk.Stop()
			}
		}))

		clk.Start()

		Expect(engine.Run()).To(Succeed())
		Expect(kinds).To(Equal([]EdgeKind{Rising, Falling}))
	})

	It("should not start twice", func() {
		clk.Start()

		Expect(func() { clk.Start() }).To(Panic())
	})
})
