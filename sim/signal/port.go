package signal

import "fmt"

// StreamPort is a valid/ready handshake endpoint.
type StreamPort struct {
	Name    string
	Valid   Wire
	Ready   Wire
	Payload []Wire
}

// Fire returns true if valid and ready are both set.
func (p StreamPort) Fire() bool {
	return p.Valid.Read() == 1 && p.Ready.Read() == 1
}

// FlowPort is a valid-only endpoint. Data is consumed whenever valid is set.
type FlowPort struct {
	Name    string
	Valid   Wire
	Payload []Wire
}

// Fire returns true if valid is set.
func (p FlowPort) Fire() bool {
	return p.Valid.Read() == 1
}

// ValidName returns the name of the valid signal of a port.
func ValidName(prefix string) string {
	return prefix + "_valid"
}

// ReadyName returns the name of the ready signal of a port.
func ReadyName(prefix string) string {
	return prefix + "_ready"
}

// PayloadName returns the name of a payload sub-signal. An empty field name
// denotes a port whose payload is a single signal.
func PayloadName(prefix, field string) string {
	if field == "" {
		return prefix + "_payload"
	}

	return prefix + "_payload_" + field
}

// ResolveStream looks up all the signals of a stream port once.
func ResolveStream(bag Bag, prefix string, fields []string) (StreamPort, error) {
	p := StreamPort{Name: prefix}

	var err error

	p.Valid, err = bag.Lookup(ValidName(prefix))
	if err != nil {
		return p, fmt.Errorf("stream port %s: %w", prefix, err)
	}

	p.Ready, err = bag.Lookup(ReadyName(prefix))
	if err != nil {
		return p, fmt.Errorf("stream port %s: %w", prefix, err)
	}

	p.Payload, err = resolvePayload(bag, prefix, fields)
	if err != nil {
		return p, err
	}

	return p, nil
}

// ResolveFlow looks up all the signals of a flow port once.
func ResolveFlow(bag Bag, prefix string, fields []string) (FlowPort, error) {
	p := FlowPort{Name: prefix}

	var err error

	p.Valid, err = bag.Lookup(ValidName(prefix))
	if err != nil {
		return p, fmt.Errorf("flow port %s: %w", prefix, err)
	}

	p.Payload, err = resolvePayload(bag, prefix, fields)
	if err != nil {
		return p, err
	}

	return p, nil
}

func resolvePayload(bag Bag, prefix string, fields []string) ([]Wire, error) {
	wires := make([]Wire, 0, len(fields))

	for _, f := range fields {
		w, err := bag.Lookup(PayloadName(prefix, f))
		if err != nil {
			return nil, fmt.Errorf("port %s: %w", prefix, err)
		}

		wires = append(wires, w)
	}

	return wires, nil
}

// ReadAll reads the current values of a list of wires.
func ReadAll(wires []Wire) []uint64 {
	values := make([]uint64, len(wires))
	for i, w := range wires {
		values[i] = w.Read()
	}

	return values
}

// WriteAll drives a list of wires with values. The lengths must match.
func WriteAll(wires []Wire, values []uint64) {
	if len(wires) != len(values) {
		panic(fmt.Sprintf("writing %d values to %d wires",
			len(values), len(wires)))
	}

	for i, w := range wires {
		w.Write(values[i])
	}
}
