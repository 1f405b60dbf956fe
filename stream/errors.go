package stream

import (
	"fmt"
	"strings"
)

// ViolationKind classifies protocol violations.
type ViolationKind int

// The kinds of violations a reference model reports.
const (
	// KindMismatch means an observed payload or port differs from the
	// prediction.
	KindMismatch ViolationKind = iota

	// KindUnderflow means an output transfer happened while the reference
	// queue was empty.
	KindUnderflow

	// KindNoGrant means an arbiter output transfer happened while the model
	// held no grant.
	KindNoGrant

	// KindArbitration means a port that must be blocked was ready, or a
	// port that must be idle was valid.
	KindArbitration
)

func (k ViolationKind) String() string {
	switch k {
	case KindMismatch:
		return "mismatch"
	case KindUnderflow:
		return "underflow"
	case KindNoGrant:
		return "no grant"
	case KindArbitration:
		return "arbitration"
	default:
		return fmt.Sprintf("ViolationKind(%d)", int(k))
	}
}

// ViolationError reports the first divergence between the device and a
// reference model.
type ViolationError struct {
	Kind  ViolationKind
	Model string
	Port  int

	// Expected and Actual describe the predicted and observed values. They
	// are empty when they do not apply.
	Expected string
	Actual   string

	Detail string
}

func (e *ViolationError) Error() string {
	var b strings.Builder

	fmt.Fprintf(&b, "%s: %s on port %d", e.Model, e.Kind, e.Port)

	if e.Detail != "" {
		b.WriteString(": ")
		b.WriteString(e.Detail)
	}

	if e.Expected != "" || e.Actual != "" {
		fmt.Fprintf(&b, " (expected %s, got %s)", e.Expected, e.Actual)
	}

	return b.String()
}

// Mismatch creates a mismatch violation between an expected and an observed
// payload.
func Mismatch(model string, port int, expected, actual Payload) *ViolationError {
	return &ViolationError{
		Kind:     KindMismatch,
		Model:    model,
		Port:     port,
		Expected: expected.String(),
		Actual:   actual.String(),
	}
}
