package streamtrace

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/rs/xid"
	"github.com/tebeka/atexit"

	"github.com/sarchlab/streamcheck/models"
	"github.com/sarchlab/streamcheck/sim/hooking"
)

type transferRecord struct {
	Kind      string           `json:"kind"`
	Model     string           `json:"model"`
	Direction models.Direction `json:"direction,omitempty"`
	Port      int              `json:"port"`
	Cycle     uint64           `json:"cycle"`
	Payload   []uint64         `json:"payload,omitempty"`
}

// JSONTracer writes transfers and grants as a JSON array.
type JSONTracer struct {
	w        io.Writer
	lock     sync.Mutex
	first    bool
	finished bool
}

// NewJSONTracer creates a tracer that writes into w. Finish must be called
// to close the array.
func NewJSONTracer(w io.Writer) *JSONTracer {
	t := &JSONTracer{
		w:     w,
		first: true,
	}

	t.write([]byte("[\n"))

	return t
}

// NewJSONFileTracer creates a tracer that writes into a file. A random name
// is used if path is empty. The array is closed at exit.
func NewJSONFileTracer(path string) *JSONTracer {
	if path == "" {
		path = "streamcheck_" + xid.New().String() + ".json"
	}

	f, err := os.Create(path)
	if err != nil {
		panic(err)
	}

	fmt.Fprintf(os.Stderr, "Recording transfers in %s\n", path)

	t := NewJSONTracer(f)

	atexit.Register(func() {
		t.Finish()
		f.Close()
	})

	return t
}

// Attach registers the tracer on models.
func (t *JSONTracer) Attach(ms ...models.Model) {
	for _, m := range ms {
		m.AcceptHook(t)
	}
}

// Func writes a transfer or a grant.
func (t *JSONTracer) Func(ctx hooking.HookCtx) {
	var rec transferRecord

	switch ctx.Pos {
	case models.HookPosTransfer:
		tr := ctx.Item.(models.Transfer)
		rec = transferRecord{
			Kind:      "transfer",
			Model:     tr.Model,
			Direction: tr.Direction,
			Port:      tr.Port,
			Cycle:     tr.Cycle,
			Payload:   tr.Payload.Values(),
		}
	case models.HookPosGrant:
		g := ctx.Item.(models.GrantInfo)
		rec = transferRecord{
			Kind:  "grant",
			Model: g.Model,
			Port:  g.Port,
			Cycle: g.Cycle,
		}
	default:
		return
	}

	b, err := json.Marshal(rec)
	if err != nil {
		panic(err)
	}

	t.lock.Lock()
	defer t.lock.Unlock()

	if t.finished {
		return
	}

	if t.first {
		t.first = false
	} else {
		t.write([]byte(",\n"))
	}

	t.write(b)
}

// Finish closes the JSON array. Records after Finish are dropped.
func (t *JSONTracer) Finish() {
	t.lock.Lock()
	defer t.lock.Unlock()

	if t.finished {
		return
	}

	t.finished = true
	t.write([]byte("\n]\n"))
}

func (t *JSONTracer) write(b []byte) {
	_, err := t.w.Write(b)
	if err != nil {
		panic(err)
	}
}
