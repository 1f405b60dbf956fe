// Package id generates identifiers for transfers, grants, and runs.
package id

import (
	"strconv"
	"sync"
	"sync/atomic"

	"github.com/rs/xid"
)

// IDGenerator can generate IDs.
type IDGenerator interface {
	Generate() string
}

var (
	defaultGeneratorLock sync.Mutex
	defaultGenerator     IDGenerator
)

// NewIDGenerator returns a generator that produces deterministic sequential
// IDs. Replaying a run with the same seed yields the same IDs.
func NewIDGenerator() IDGenerator {
	return &sequentialIDGenerator{}
}

// NewParallelIDGenerator returns a generator that produces globally unique
// IDs. The IDs are not deterministic.
func NewParallelIDGenerator() IDGenerator {
	return parallelIDGenerator{}
}

// Generate returns an ID from the process-wide sequential generator.
func Generate() string {
	defaultGeneratorLock.Lock()
	if defaultGenerator == nil {
		defaultGenerator = NewIDGenerator()
	}
	g := defaultGenerator
	defaultGeneratorLock.Unlock()

	return g.Generate()
}

type sequentialIDGenerator struct {
	nextID uint64
}

func (g *sequentialIDGenerator) Generate() string {
	idNumber := atomic.AddUint64(&g.nextID, 1)
	id := strconv.FormatUint(idNumber, 10)

	return id
}

type parallelIDGenerator struct {
}

func (g parallelIDGenerator) Generate() string {
	return xid.New().String()
}
