// Package payloadgen generates stimulus payloads from Lua scripts.
//
// A script defines a global function payload(n) that is called for the n-th
// payload of a port, counting from 0. It returns a table with one value per
// field in layout order, a number for single-field layouts, or nil when the
// port has nothing more to send. The globals port and fields describe the
// port, and random_bits(width) and random_bool() draw from the randomizer of
// the port, so that a script run is reproducible from the master seed.
package payloadgen

import (
	"errors"
	"fmt"
	"os"
	"strings"

	lua "github.com/yuin/gopher-lua"
	"github.com/yuin/gopher-lua/parse"

	"github.com/sarchlab/streamcheck/models"
	"github.com/sarchlab/streamcheck/stream"
)

// ErrNoPayloadFunction is returned when a script does not define payload.
var ErrNoPayloadFunction = errors.New("script does not define function payload")

const payloadFunction = "payload"

// Script is a compiled payload script.
type Script struct {
	name  string
	proto *lua.FunctionProto
}

// LoadScript compiles the script in a file.
func LoadScript(path string) (*Script, error) {
	source, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	return NewScript(path, string(source))
}

// NewScript compiles a script. The name shows up in error messages.
func NewScript(name, source string) (*Script, error) {
	chunk, err := parse.Parse(strings.NewReader(source), name)
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", name, err)
	}

	proto, err := lua.Compile(chunk, name)
	if err != nil {
		return nil, fmt.Errorf("compiling %s: %w", name, err)
	}

	s := &Script{name: name, proto: proto}

	L, err := s.newState("", stream.SingleField(1),
		stream.MakeRandomizerBuilder().Build())
	if err != nil {
		return nil, err
	}
	L.Close()

	return s, nil
}

// Name returns the name of the script.
func (s *Script) Name() string {
	return s.name
}

// Factory returns a payload factory that runs a fresh copy of the script
// for every port.
func (s *Script) Factory() models.PayloadFactory {
	return func(
		port string,
		layout stream.Layout,
		r *stream.Randomizer,
	) stream.Generator {
		g, err := s.NewGenerator(port, layout, r)
		if err != nil {
			panic(err)
		}

		return g
	}
}

// NewGenerator runs the script for one port.
func (s *Script) NewGenerator(
	port string,
	layout stream.Layout,
	r *stream.Randomizer,
) (*Generator, error) {
	L, err := s.newState(port, layout, r)
	if err != nil {
		return nil, err
	}

	return &Generator{
		script: s.name,
		port:   port,
		layout: layout,
		state:  L,
		fn:     L.GetGlobal(payloadFunction).(*lua.LFunction),
	}, nil
}

func (s *Script) newState(
	port string,
	layout stream.Layout,
	r *stream.Randomizer,
) (*lua.LState, error) {
	L := lua.NewState(lua.Options{SkipOpenLibs: true})

	openLibs(L)
	setGlobals(L, port, layout, r)

	L.Push(L.NewFunctionFromProto(s.proto))
	if err := L.PCall(0, lua.MultRet, nil); err != nil {
		L.Close()
		return nil, fmt.Errorf("running %s: %w", s.name, err)
	}

	if _, ok := L.GetGlobal(payloadFunction).(*lua.LFunction); !ok {
		L.Close()
		return nil, fmt.Errorf("%s: %w", s.name, ErrNoPayloadFunction)
	}

	return L, nil
}

// openLibs opens the libraries that cannot touch the file system.
func openLibs(L *lua.LState) {
	for _, lib := range []struct {
		name string
		open lua.LGFunction
	}{
		{lua.LoadLibName, lua.OpenPackage},
		{lua.BaseLibName, lua.OpenBase},
		{lua.TabLibName, lua.OpenTable},
		{lua.StringLibName, lua.OpenString},
		{lua.MathLibName, lua.OpenMath},
	} {
		L.Push(L.NewFunction(lib.open))
		L.Push(lua.LString(lib.name))
		L.Call(1, 0)
	}
}

func setGlobals(
	L *lua.LState,
	port string,
	layout stream.Layout,
	r *stream.Randomizer,
) {
	L.SetGlobal("port", lua.LString(port))

	fields := L.NewTable()
	for _, f := range layout {
		field := L.NewTable()
		field.RawSetString("name", lua.LString(f.Name))
		field.RawSetString("width", lua.LNumber(f.Width))
		fields.Append(field)
	}
	L.SetGlobal("fields", fields)

	L.SetGlobal("random_bits", L.NewFunction(func(L *lua.LState) int {
		width := L.CheckInt(1)
		if width < 1 || width > 52 {
			L.ArgError(1, "width must be between 1 and 52")
		}

		L.Push(lua.LNumber(r.Bits(width)))

		return 1
	}))

	L.SetGlobal("random_bool", L.NewFunction(func(L *lua.LState) int {
		L.Push(lua.LBool(r.Bool()))
		return 1
	}))
}
