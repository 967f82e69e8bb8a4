package mocks

import (
	"fmt"

	"github.com/mcoot/acs-tournaments/internal/dependencies/random"
)

// MockRandom is a mock implementation of Random for testing.
// Shuffle leaves the order untouched unless ShuffleFunc is set.
type MockRandom struct {
	// IntnResults is a queue of results to return from Intn
	IntnResults []int
	intnIndex   int

	// IDResults is a queue of results to return from NewID
	IDResults []string
	idIndex   int
	idCounter int

	// ShuffleFunc replaces the identity shuffle when set
	ShuffleFunc func(n int, swap func(i, j int))
	// ShuffleCalls counts calls to Shuffle
	ShuffleCalls int
}

// Ensure MockRandom implements Random
var _ random.Random = (*MockRandom)(nil)

// NewMockRandom creates a new MockRandom
func NewMockRandom() *MockRandom {
	return &MockRandom{}
}

// Intn returns the next queued result, or 0 if none remaining
func (r *MockRandom) Intn(n int) int {
	if r.intnIndex >= len(r.IntnResults) {
		return 0
	}
	result := r.IntnResults[r.intnIndex]
	r.intnIndex++
	return result
}

// Shuffle delegates to ShuffleFunc, or keeps the current order
func (r *MockRandom) Shuffle(n int, swap func(i, j int)) {
	r.ShuffleCalls++
	if r.ShuffleFunc != nil {
		r.ShuffleFunc(n, swap)
	}
}

// NewID returns the next queued id, or a sequential id if none remaining
func (r *MockRandom) NewID() string {
	if r.idIndex >= len(r.IDResults) {
		r.idCounter++
		return fmt.Sprintf("id-%d", r.idCounter)
	}
	result := r.IDResults[r.idIndex]
	r.idIndex++
	return result
}

// QueueIntn adds values to the Intn result queue
func (r *MockRandom) QueueIntn(values ...int) {
	r.IntnResults = append(r.IntnResults, values...)
}

// QueueID adds values to the NewID result queue
func (r *MockRandom) QueueID(values ...string) {
	r.IDResults = append(r.IDResults, values...)
}

// Reverse makes Shuffle reverse the order of the elements
func (r *MockRandom) Reverse() {
	r.ShuffleFunc = func(n int, swap func(i, j int)) {
		for i, j := 0, n-1; i < j; i, j = i+1, j-1 {
			swap(i, j)
		}
	}
}

// Reset clears all queued results
func (r *MockRandom) Reset() {
	r.IntnResults = nil
	r.intnIndex = 0
	r.IDResults = nil
	r.idIndex = 0
	r.idCounter = 0
	r.ShuffleFunc = nil
	r.ShuffleCalls = 0
}
