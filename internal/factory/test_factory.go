package factory

import (
	"time"

	"github.com/mcoot/acs-tournaments/internal/dependencies/mocks"
	"github.com/mcoot/acs-tournaments/internal/metrics"
	"github.com/mcoot/acs-tournaments/internal/storage/memory"
	"github.com/mcoot/acs-tournaments/internal/testutil"
)

// TestApp extends App with test-specific helpers
type TestApp struct {
	*App

	// Mocks for test control
	MockClock  *mocks.MockClock
	MockRandom *mocks.MockRandom
}

// NewTestApp creates an App configured for testing with mocked dependencies.
// The mock shuffle keeps input order, so generated teams are deterministic.
func NewTestApp() *TestApp {
	store := memory.New()
	mockClock := mocks.NewMockClock(time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC))
	mockRandom := mocks.NewMockRandom()

	app := newWithDependencies(store, mockClock, mockRandom, metrics.New(), testutil.NopLogger())

	return &TestApp{
		App:        app,
		MockClock:  mockClock,
		MockRandom: mockRandom,
	}
}
