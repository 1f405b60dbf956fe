package harness

import (
	"context"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/streamcheck/devices"
	"github.com/sarchlab/streamcheck/models"
	"github.com/sarchlab/streamcheck/sim/hooking"
	"github.com/sarchlab/streamcheck/stream"
)

var _ = Describe("Locked low id first arbiter scenario", func() {
	It("should serve whole sequences from the lowest port first", func() {
		inputs := models.IndexedPorts("arb", 3)
		sequences := map[string][]stream.Payload{
			inputs[0]: {stream.NewPayload(0xA1), stream.NewPayload(0xA2)},
			inputs[1]: {stream.NewPayload(0xB1)},
			inputs[2]: {
				stream.NewPayload(0xC1),
				stream.NewPayload(0xC2),
				stream.NewPayload(0xC3),
			},
		}

		top := devices.NewTop()
		top.Add(devices.NewArbiter(top.Bus, inputs, "out",
			models.DataLayout, models.LowIDFirstLocked))

		stim := models.DefaultStimulus(1)
		stim.Target = 6
		stim.Valid = stream.MakeRandomizerBuilder().WithFixedBias(1)
		stim.Ready = stream.MakeRandomizerBuilder().WithFixedBias(1)
		stim.Payloads = func(
			port string,
			_ stream.Layout,
			_ *stream.Randomizer,
		) stream.Generator {
			return stream.NewSequenceGenerator(sequences[port]...)
		}

		arbiter, err := models.NewArbiter("arbiter", top, inputs, "out",
			models.DataLayout, models.LowIDFirstLocked, stim)
		Expect(err).NotTo(HaveOccurred())

		var outputs []uint64
		arbiter.AcceptHook(hooking.HookFunc(func(ctx hooking.HookCtx) {
			if ctx.Pos != models.HookPosTransfer {
				return
			}

			t := ctx.Item.(models.Transfer)
			if t.Direction == models.DirOutput {
				outputs = append(outputs, t.Payload.Field(0))
			}
		}))

		_, err = MakeBuilder().
			WithMaxCycles(100).
			WithModels(arbiter).
			Build(top).
			Run(context.Background())

		Expect(err).NotTo(HaveOccurred())
		Expect(outputs).To(Equal([]uint64{0xA1, 0xA2, 0xB1, 0xC1, 0xC2, 0xC3}))
	})
})
