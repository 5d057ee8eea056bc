package naming

import "sync"

// PairCounter hands out per-key occurrence numbers: the first call for a
// key returns 0, the next 1, and so on. Numbers are assigned in call order,
// so a sequential caller gets strictly increasing indices in row order.
// All methods are goroutine-safe.
type PairCounter struct {
	mu   sync.Mutex
	next map[string]int
}

// NewPairCounter creates a ready-to-use counter.
func NewPairCounter() *PairCounter {
	return &PairCounter{next: make(map[string]int)}
}

// Next returns the next index for key and advances it.
func (pc *PairCounter) Next(key string) int {
	pc.mu.Lock()
	defer pc.mu.Unlock()
	n := pc.next[key]
	pc.next[key] = n + 1
	return n
}
