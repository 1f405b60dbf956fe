package streamtrace_test

import (
	"bytes"
	"context"
	"encoding/json"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/streamcheck/devices"
	"github.com/sarchlab/streamcheck/harness"
	"github.com/sarchlab/streamcheck/models"
	"github.com/sarchlab/streamcheck/sim/hooking"
	"github.com/sarchlab/streamcheck/stream"
	"github.com/sarchlab/streamcheck/streamtrace"
)

func transfer(model string, dir models.Direction, port int, cycle uint64) hooking.HookCtx {
	return hooking.HookCtx{
		Pos: models.HookPosTransfer,
		Item: models.Transfer{
			Model:     model,
			Direction: dir,
			Port:      port,
			Cycle:     cycle,
			Payload:   stream.NewPayload(cycle & 0xff),
		},
	}
}

func grant(model string, port int, cycle uint64) hooking.HookCtx {
	return hooking.HookCtx{
		Pos:  models.HookPosGrant,
		Item: models.GrantInfo{Model: model, Port: port, Cycle: cycle},
	}
}

var _ = Describe("StatsTracer", func() {
	var t *streamtrace.StatsTracer

	BeforeEach(func() {
		t = streamtrace.NewStatsTracer()
	})

	It("should count transfers per port", func() {
		t.Func(transfer("fifo", models.DirInput, 0, 10))
		t.Func(transfer("fifo", models.DirInput, 0, 12))
		t.Func(transfer("fifo", models.DirOutput, 0, 13))
		t.Func(transfer("arb", models.DirOutput, 0, 4))

		stats := t.Stats()

		Expect(stats).To(HaveLen(3))
		Expect(stats[0].Model).To(Equal("arb"))
		Expect(stats[1]).To(Equal(streamtrace.PortStats{
			Model:      "fifo",
			Direction:  models.DirInput,
			Port:       0,
			Transfers:  2,
			FirstCycle: 10,
			LastCycle:  12,
		}))
		Expect(stats[1].Throughput()).To(BeNumerically("~", 2.0/3.0))
		Expect(stats[2].Direction).To(Equal(models.DirOutput))
	})

	It("should count grants per input", func() {
		t.Func(grant("arb", 1, 5))
		t.Func(grant("arb", 1, 9))
		t.Func(grant("arb", int(models.NoGrant), 10))

		stats := t.Stats()

		Expect(stats).To(HaveLen(1))
		Expect(stats[0].Port).To(Equal(1))
		Expect(stats[0].Grants).To(Equal(uint64(2)))
		Expect(stats[0].Throughput()).To(Equal(0.0))
	})

	It("should ignore other hook positions", func() {
		t.Func(hooking.HookCtx{Pos: &hooking.HookPos{Name: "Other"}})

		Expect(t.Stats()).To(BeEmpty())
	})

	It("should see more inputs than outputs on a FIFO", func() {
		top := devices.NewFifoTop(4, devices.FifoFault{})
		opts := harness.DefaultSuiteOptions(11)
		opts.Stimulus.Target = 100

		ms, err := harness.FifoSuite(top, opts)
		Expect(err).ToNot(HaveOccurred())
		t.Attach(ms...)

		_, err = harness.MakeBuilder().WithModels(ms...).Build(top).
			Run(context.Background())
		Expect(err).ToNot(HaveOccurred())

		stats := t.Stats()
		Expect(stats).To(HaveLen(4))

		for i := 0; i < len(stats); i += 2 {
			in, out := stats[i], stats[i+1]
			Expect(in.Direction).To(Equal(models.DirInput))
			Expect(out.Direction).To(Equal(models.DirOutput))
			Expect(out.Transfers).To(BeNumerically(">=", 100))
			Expect(in.Transfers).To(BeNumerically(">=", out.Transfers))
			Expect(in.FirstCycle).To(BeNumerically("<=", out.FirstCycle))
		}
	})
})

var _ = Describe("JSONTracer", func() {
	It("should write a JSON array", func() {
		buf := new(bytes.Buffer)
		t := streamtrace.NewJSONTracer(buf)

		t.Func(transfer("fifo", models.DirInput, 0, 3))
		t.Func(grant("arb", 2, 4))
		t.Finish()
		t.Func(transfer("fifo", models.DirOutput, 0, 5))

		var records []map[string]any
		Expect(json.Unmarshal(buf.Bytes(), &records)).To(Succeed())
		Expect(records).To(HaveLen(2))
		Expect(records[0]).To(HaveKeyWithValue("kind", "transfer"))
		Expect(records[0]).To(HaveKeyWithValue("direction", "in"))
		Expect(records[0]).To(HaveKeyWithValue("payload",
			ConsistOf(BeNumerically("==", 3))))
		Expect(records[1]).To(HaveKeyWithValue("kind", "grant"))
		Expect(records[1]).To(HaveKeyWithValue("port", BeNumerically("==", 2)))
	})

	It("should write an empty array", func() {
		buf := new(bytes.Buffer)
		t := streamtrace.NewJSONTracer(buf)
		t.Finish()
		t.Finish()

		var records []map[string]any
		Expect(json.Unmarshal(buf.Bytes(), &records)).To(Succeed())
		Expect(records).To(BeEmpty())
	})
})
