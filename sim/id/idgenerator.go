// Package id generates identifiers for trials, runs and recordings.
package id

import (
	"strconv"
	"sync/atomic"

	"github.com/rs/xid"
)

// IDGenerator can generate IDs.
type IDGenerator interface {
	Generate() string
}

// NewIDGenerator returns a generator that produces "1", "2", ... in order.
// The sequence is deterministic and is used where reproducible names matter,
// such as trial numbers.
func NewIDGenerator() IDGenerator {
	return &sequentialIDGenerator{}
}

// NewRunIDGenerator returns a generator of globally unique, roughly
// time-sorted IDs. The IDs are not deterministic.
func NewRunIDGenerator() IDGenerator {
	return runIDGenerator{}
}

type sequentialIDGenerator struct {
	nextID uint64
}

func (g *sequentialIDGenerator) Generate() string {
	idNumber := atomic.AddUint64(&g.nextID, 1)
	id := strconv.FormatUint(idNumber, 10)

	return id
}

type runIDGenerator struct {
}

func (g runIDGenerator) Generate() string {
	return xid.New().String()
}
