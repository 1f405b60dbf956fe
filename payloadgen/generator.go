package payloadgen

import (
	"fmt"
	"math"

	lua "github.com/yuin/gopher-lua"

	"github.com/sarchlab/streamcheck/stream"
)

// A ScriptError reports a payload a script could not produce.
type ScriptError struct {
	Script string
	Port   string
	N      uint64
	Err    error
}

func (e *ScriptError) Error() string {
	return fmt.Sprintf("%s: payload %d of port %s: %v",
		e.Script, e.N, e.Port, e.Err)
}

func (e *ScriptError) Unwrap() error {
	return e.Err
}

// Generator is a stream.Generator that calls the payload function of a
// script. It panics with a *ScriptError if the script fails, since a broken
// script cannot produce a meaningful test.
type Generator struct {
	script string
	port   string
	layout stream.Layout
	state  *lua.LState
	fn     *lua.LFunction
	n      uint64
	done   bool
}

// Next returns the next payload of the script.
func (g *Generator) Next() (stream.Payload, bool) {
	if g.done {
		return stream.Payload{}, false
	}

	p, ok, err := g.call()
	if err != nil {
		g.Close()
		panic(&ScriptError{Script: g.script, Port: g.port, N: g.n, Err: err})
	}

	if !ok {
		g.Close()
		return stream.Payload{}, false
	}

	g.n++

	return p, true
}

// Generated returns the number of payloads produced so far.
func (g *Generator) Generated() uint64 {
	return g.n
}

// Close releases the Lua state. Next returns false afterwards.
func (g *Generator) Close() {
	if g.done {
		return
	}

	g.done = true
	g.state.Close()
}

func (g *Generator) call() (stream.Payload, bool, error) {
	L := g.state

	err := L.CallByParam(lua.P{
		Fn:      g.fn,
		NRet:    1,
		Protect: true,
	}, lua.LNumber(g.n))
	if err != nil {
		return stream.Payload{}, false, err
	}

	ret := L.Get(-1)
	L.Pop(1)

	switch v := ret.(type) {
	case *lua.LNilType:
		return stream.Payload{}, false, nil
	case lua.LNumber:
		if len(g.layout) != 1 {
			return stream.Payload{}, false, fmt.Errorf(
				"got a number for a layout of %d fields", len(g.layout))
		}

		value, err := g.fieldValue(0, v)
		if err != nil {
			return stream.Payload{}, false, err
		}

		return stream.NewPayload(value), true, nil
	case *lua.LTable:
		return g.fromTable(v)
	default:
		return stream.Payload{}, false, fmt.Errorf(
			"payload must be a table, a number, or nil, got %s", ret.Type())
	}
}

// fromTable accepts {1, 2} in layout order or {a = 1, b = 2} by field name.
func (g *Generator) fromTable(t *lua.LTable) (stream.Payload, bool, error) {
	values := make([]uint64, len(g.layout))

	byName := t.Len() == 0
	if !byName && t.Len() != len(g.layout) {
		return stream.Payload{}, false, fmt.Errorf(
			"got %d values for a layout of %d fields", t.Len(), len(g.layout))
	}

	for i, f := range g.layout {
		var lv lua.LValue
		if byName {
			lv = t.RawGetString(f.Name)
		} else {
			lv = t.RawGetInt(i + 1)
		}

		num, ok := lv.(lua.LNumber)
		if !ok {
			return stream.Payload{}, false, fmt.Errorf(
				"field %s must be a number, got %s", f.Name, lv.Type())
		}

		value, err := g.fieldValue(i, num)
		if err != nil {
			return stream.Payload{}, false, err
		}

		values[i] = value
	}

	return stream.NewPayload(values...), true, nil
}

func (g *Generator) fieldValue(i int, num lua.LNumber) (uint64, error) {
	f := g.layout[i]
	x := float64(num)

	if x < 0 || x != math.Trunc(x) || x >= math.Exp2(float64(f.Width)) {
		return 0, fmt.Errorf("value %v does not fit field %s of %d bits",
			x, f.Name, f.Width)
	}

	return uint64(x), nil
}
