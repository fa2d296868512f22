package mocks

import (
	"sync"

	"github.com/mcoot/pointsrummy/internal/dependencies/random"
)

// MockRandom is a mock implementation of Random for testing
type MockRandom struct {
	mu sync.Mutex

	// IntnResults is a queue of results to return from Intn
	IntnResults []int
	intnIndex   int

	// CoinFlipResults is a queue of results to return from CoinFlip
	CoinFlipResults []bool
	coinFlipIndex   int
}

// Ensure MockRandom implements Random
var _ random.Random = (*MockRandom)(nil)

// NewMockRandom creates a new MockRandom
func NewMockRandom() *MockRandom {
	return &MockRandom{}
}

// Intn returns the next queued result, or 0 if none remaining
func (r *MockRandom) Intn(n int) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.intnIndex >= len(r.IntnResults) {
		return 0
	}
	result := r.IntnResults[r.intnIndex]
	r.intnIndex++
	return result
}

// CoinFlip returns the next queued result, or false if none remaining
func (r *MockRandom) CoinFlip() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.coinFlipIndex >= len(r.CoinFlipResults) {
		return false
	}
	result := r.CoinFlipResults[r.coinFlipIndex]
	r.coinFlipIndex++
	return result
}

// QueueIntn adds values to the Intn result queue
func (r *MockRandom) QueueIntn(values ...int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.IntnResults = append(r.IntnResults, values...)
}

// QueueCoinFlip adds values to the CoinFlip result queue
func (r *MockRandom) QueueCoinFlip(values ...bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.CoinFlipResults = append(r.CoinFlipResults, values...)
}
