package stream

import (
	"github.com/sarchlab/streamcheck/sim/clock"
	"github.com/sarchlab/streamcheck/sim/signal"
)

// Callback receives the payload of an accepted transfer and the logical port
// id the transfer happened on.
type Callback func(p Payload, port int) error

// Driver drives a stream input of the device with random valids and
// payloads. A payload presented with valid set is held until the device
// accepts it.
type Driver struct {
	port      signal.StreamPort
	id        int
	valid     *Randomizer
	gen       Generator
	onAccept  Callback
	exhausted bool
	accepted  uint64
}

// NewDriver creates a driver. The callback is invoked once for every payload
// the device accepts.
func NewDriver(
	port signal.StreamPort,
	id int,
	valid *Randomizer,
	gen Generator,
	onAccept Callback,
) *Driver {
	return &Driver{
		port:     port,
		id:       id,
		valid:    valid,
		gen:      gen,
		onAccept: onAccept,
	}
}

// Launch subscribes the driver to the rising edges of the clock.
func (d *Driver) Launch(k *clock.Clock) {
	d.port.Valid.Write(0)
	k.Subscribe(clock.Rising, d)
}

// Accepted returns the number of payloads the device has accepted.
func (d *Driver) Accepted() uint64 {
	return d.accepted
}

// Exhausted tells if the generator has run out of payloads.
func (d *Driver) Exhausted() bool {
	return d.exhausted
}

// OnEdge samples the handshake of the edge and presents the next payload.
func (d *Driver) OnEdge(e clock.Edge) error {
	if e.Kind != clock.Rising {
		return nil
	}

	fired := d.port.Fire()
	if fired {
		d.accepted++

		p := NewPayload(signal.ReadAll(d.port.Payload)...)
		if err := d.onAccept(p, d.id); err != nil {
			return err
		}
	}

	if !fired && d.port.Valid.Read() == 1 {
		return nil
	}

	if d.exhausted || !d.valid.Bool() {
		d.port.Valid.Write(0)
		return nil
	}

	p, ok := d.gen.Next()
	if !ok {
		d.exhausted = true
		d.port.Valid.Write(0)

		return nil
	}

	signal.WriteAll(d.port.Payload, p.fields)
	d.port.Valid.Write(1)

	return nil
}

// FlowDriver drives a flow input of the device. The device consumes the
// payload whenever valid is set.
type FlowDriver struct {
	port      signal.FlowPort
	id        int
	valid     *Randomizer
	gen       Generator
	onAccept  Callback
	exhausted bool
	accepted  uint64
}

// NewFlowDriver creates a flow driver.
func NewFlowDriver(
	port signal.FlowPort,
	id int,
	valid *Randomizer,
	gen Generator,
	onAccept Callback,
) *FlowDriver {
	return &FlowDriver{
		port:     port,
		id:       id,
		valid:    valid,
		gen:      gen,
		onAccept: onAccept,
	}
}

// Launch subscribes the driver to the rising edges of the clock.
func (d *FlowDriver) Launch(k *clock.Clock) {
	d.port.Valid.Write(0)
	k.Subscribe(clock.Rising, d)
}

// Accepted returns the number of payloads sent.
func (d *FlowDriver) Accepted() uint64 {
	return d.accepted
}

// OnEdge reports the payload of the edge and draws a new one.
func (d *FlowDriver) OnEdge(e clock.Edge) error {
	if e.Kind != clock.Rising {
		return nil
	}

	if d.port.Fire() {
		d.accepted++

		p := NewPayload(signal.ReadAll(d.port.Payload)...)
		if err := d.onAccept(p, d.id); err != nil {
			return err
		}
	}

	if d.exhausted || !d.valid.Bool() {
		d.port.Valid.Write(0)
		return nil
	}

	p, ok := d.gen.Next()
	if !ok {
		d.exhausted = true
		d.port.Valid.Write(0)

		return nil
	}

	signal.WriteAll(d.port.Payload, p.fields)
	d.port.Valid.Write(1)

	return nil
}
