// Package stream provides the randomized drivers and monitors of valid/ready
// handshake ports and the payloads they carry.
package stream

import (
	"strconv"
	"strings"
)

// Payload is the tuple of field values carried by one transfer. A Payload is
// never modified after creation.
type Payload struct {
	fields []uint64
}

// NewPayload creates a payload from field values.
func NewPayload(values ...uint64) Payload {
	fields := make([]uint64, len(values))
	copy(fields, values)

	return Payload{fields: fields}
}

// Len returns the number of fields.
func (p Payload) Len() int {
	return len(p.fields)
}

// Field returns the value of the i-th field.
func (p Payload) Field(i int) uint64 {
	return p.fields[i]
}

// Values returns a copy of the field values.
func (p Payload) Values() []uint64 {
	values := make([]uint64, len(p.fields))
	copy(values, p.fields)

	return values
}

// Equal compares two payloads field by field.
func (p Payload) Equal(other Payload) bool {
	if len(p.fields) != len(other.fields) {
		return false
	}

	for i, v := range p.fields {
		if other.fields[i] != v {
			return false
		}
	}

	return true
}

// Fragment returns the fragment field of a fragment payload.
func (p Payload) Fragment() uint64 {
	return p.fields[0]
}

// IsLast tells if a fragment payload closes its packet.
func (p Payload) IsLast() bool {
	return p.fields[len(p.fields)-1] == 1
}

// String formats the payload as a tuple of hex values.
func (p Payload) String() string {
	var b strings.Builder

	b.WriteByte('(')

	for i, v := range p.fields {
		if i > 0 {
			b.WriteString(", ")
		}

		b.WriteString("0x")
		b.WriteString(strconv.FormatUint(v, 16))
	}

	b.WriteByte(')')

	return b.String()
}

// Field describes one payload sub-signal. An empty name denotes a port whose
// payload is a single signal.
type Field struct {
	Name  string
	Width int
}

// Layout is the ordered list of the payload fields of a port.
type Layout []Field

// Names returns the field names in order.
func (l Layout) Names() []string {
	names := make([]string, len(l))
	for i, f := range l {
		names[i] = f.Name
	}

	return names
}

// SingleField returns the layout of a port with one unnamed payload signal.
func SingleField(width int) Layout {
	return Layout{{Name: "", Width: width}}
}

// FragmentLayout returns the layout of a fragment port.
func FragmentLayout(width int) Layout {
	return Layout{
		{Name: "fragment", Width: width},
		{Name: "last", Width: 1},
	}
}
