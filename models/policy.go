package models

import (
	"fmt"
	"strings"
)

// Priority decides which valid input an arbiter grants.
type Priority int

// The priorities of an arbiter.
const (
	// LowIDFirst grants the valid input with the lowest id.
	LowIDFirst Priority = iota

	// RoundRobin grants the first valid input after the previous winner.
	RoundRobin

	// Sequential grants inputs 0, 1, ..., N-1, 0, ... whatever the valids.
	Sequential
)

// Lock decides how long a grant is held.
type Lock int

// The locks of an arbiter.
const (
	// NoLock re-derives the grant at every cycle.
	NoLock Lock = iota

	// TransactionLock holds the grant until one transfer completes.
	TransactionLock

	// FragmentLock holds the grant until a transfer with last set
	// completes.
	FragmentLock
)

// Policy is the arbitration policy of an arbiter.
type Policy struct {
	Priority Priority
	Lock     Lock
}

// The policies of the standard arbiters.
var (
	LowIDFirstLocked       = Policy{Priority: LowIDFirst, Lock: TransactionLock}
	RoundRobinLocked       = Policy{Priority: RoundRobin, Lock: TransactionLock}
	LowIDFirstNoLock       = Policy{Priority: LowIDFirst, Lock: NoLock}
	LowIDFirstFragmentLock = Policy{Priority: LowIDFirst, Lock: FragmentLock}
	SequentialOrder        = Policy{Priority: Sequential, Lock: NoLock}
)

func (p Priority) String() string {
	switch p {
	case LowIDFirst:
		return "lowIdFirst"
	case RoundRobin:
		return "roundRobin"
	case Sequential:
		return "sequential"
	default:
		return fmt.Sprintf("Priority(%d)", int(p))
	}
}

func (l Lock) String() string {
	switch l {
	case NoLock:
		return "noLock"
	case TransactionLock:
		return "transactionLock"
	case FragmentLock:
		return "fragmentLock"
	default:
		return fmt.Sprintf("Lock(%d)", int(l))
	}
}

func (p Policy) String() string {
	return p.Priority.String() + "." + p.Lock.String()
}

// ParsePolicy parses the "priority.lock" form produced by Policy.String.
func ParsePolicy(s string) (Policy, error) {
	parts := strings.Split(s, ".")
	if len(parts) != 2 {
		return Policy{}, fmt.Errorf("invalid arbitration policy %q", s)
	}

	var p Policy

	switch parts[0] {
	case "lowIdFirst":
		p.Priority = LowIDFirst
	case "roundRobin":
		p.Priority = RoundRobin
	case "sequential":
		p.Priority = Sequential
	default:
		return Policy{}, fmt.Errorf("invalid arbitration priority %q", parts[0])
	}

	switch parts[1] {
	case "noLock":
		p.Lock = NoLock
	case "transactionLock":
		p.Lock = TransactionLock
	case "fragmentLock":
		p.Lock = FragmentLock
	default:
		return Policy{}, fmt.Errorf("invalid arbitration lock %q", parts[1])
	}

	return p, nil
}

// MarshalText encodes the policy as "priority.lock".
func (p Policy) MarshalText() ([]byte, error) {
	return []byte(p.String()), nil
}

// UnmarshalText decodes the "priority.lock" form.
func (p *Policy) UnmarshalText(text []byte) error {
	parsed, err := ParsePolicy(string(text))
	if err != nil {
		return err
	}

	*p = parsed

	return nil
}
