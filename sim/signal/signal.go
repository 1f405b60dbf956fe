// Package signal models the named bit-vector signals of a device under test
// and the handshake ports built on top of them.
package signal

import (
	"fmt"
	"sort"
)

// Wire is one named signal of the device under test.
type Wire interface {
	Name() string
	Width() int

	// Read returns the settled value of the signal.
	Read() uint64

	// Write drives a new value. The value becomes visible after the current
	// edge has been fully processed.
	Write(v uint64)
}

// A Bag resolves signal names to wires. A device-under-test adapter exposes
// its signals through a Bag.
type Bag interface {
	Lookup(name string) (Wire, error)
}

// UnknownSignalError is returned when a Bag does not contain a signal.
type UnknownSignalError struct {
	Name string
}

func (e *UnknownSignalError) Error() string {
	return fmt.Sprintf("signal %q not found", e.Name)
}

// Signal is the in-memory Wire owned by a Bus.
type Signal struct {
	bus   *Bus
	name  string
	width int
	mask  uint64
	value uint64
	next  uint64
	dirty bool
}

// Name returns the name of the signal.
func (s *Signal) Name() string {
	return s.name
}

// Width returns the number of bits of the signal.
func (s *Signal) Width() int {
	return s.width
}

// Read returns the current value.
func (s *Signal) Read() uint64 {
	return s.value
}

// Write records v as the value to apply at the next Commit of the bus.
// The last write before a commit wins.
func (s *Signal) Write(v uint64) {
	s.next = v & s.mask

	if !s.dirty {
		s.dirty = true
		s.bus.pending = append(s.bus.pending, s)
	}
}

// Force sets the value immediately. Devices use it to publish the result of
// their combinational logic.
func (s *Signal) Force(v uint64) {
	s.value = v & s.mask
}

// Bus is a Bag of Signals with deferred writes.
type Bus struct {
	signals map[string]*Signal
	pending []*Signal
}

// NewBus creates an empty Bus.
func NewBus() *Bus {
	return &Bus{
		signals: make(map[string]*Signal),
	}
}

// Add creates a signal. Adding the same name twice panics.
func (b *Bus) Add(name string, width int) *Signal {
	if width < 1 || width > 64 {
		panic(fmt.Sprintf("signal %s: width %d out of range", name, width))
	}

	if _, found := b.signals[name]; found {
		panic("signal " + name + " already exists")
	}

	s := &Signal{
		bus:   b,
		name:  name,
		width: width,
		mask:  widthMask(width),
	}
	b.signals[name] = s

	return s
}

// Lookup returns the signal with the given name.
func (b *Bus) Lookup(name string) (Wire, error) {
	s, found := b.signals[name]
	if !found {
		return nil, &UnknownSignalError{Name: name}
	}

	return s, nil
}

// Signal returns the signal with the given name, or nil.
func (b *Bus) Signal(name string) *Signal {
	return b.signals[name]
}

// Commit applies all pending writes and returns the number of signals whose
// value changed.
func (b *Bus) Commit() int {
	changed := 0

	for _, s := range b.pending {
		if s.value != s.next {
			changed++
		}

		s.value = s.next
		s.dirty = false
	}

	b.pending = b.pending[:0]

	return changed
}

// Names returns the sorted names of all the signals.
func (b *Bus) Names() []string {
	names := make([]string, 0, len(b.signals))
	for n := range b.signals {
		names = append(names, n)
	}

	sort.Strings(names)

	return names
}

// Snapshot returns the current value of every signal.
func (b *Bus) Snapshot() map[string]uint64 {
	values := make(map[string]uint64, len(b.signals))
	for n, s := range b.signals {
		values[n] = s.value
	}

	return values
}

func widthMask(width int) uint64 {
	if width >= 64 {
		return ^uint64(0)
	}

	return (uint64(1) << uint(width)) - 1
}
