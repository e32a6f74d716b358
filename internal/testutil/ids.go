package testutil

import (
	"fmt"
	"sync"
)

// SequentialIDs generates run ids "<prefix>-1", "<prefix>-2", ...
//
// Production code stamps each compile with a UUIDv7; tests swap in
// SequentialIDs so ledger rows and log fields are predictable.
//
// Thread-safety: Next is safe for concurrent use.
type SequentialIDs struct {
	mu     sync.Mutex
	prefix string
	n      int
}

// NewSequentialIDs creates a generator. An empty prefix becomes "run".
func NewSequentialIDs(prefix string) *SequentialIDs {
	if prefix == "" {
		prefix = "run"
	}
	return &SequentialIDs{prefix: prefix}
}

// Next returns the next id.
func (g *SequentialIDs) Next() string {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.n++
	return fmt.Sprintf("%s-%d", g.prefix, g.n)
}
