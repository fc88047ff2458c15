package promise

import (
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func NewCallsRegistry(expectedCalls uint) *callsRegistry {
	registry := callsRegistry{
		expectedCalls: expectedCalls,
	}

	return &registry
}

// callsRegistry records which reactions fired, and in which order, so
// that tests can assert on delivery across goroutines.
type callsRegistry struct {
	mutex sync.RWMutex

	registry      []string
	expectedCalls uint
}

func (r *callsRegistry) Register(place string) {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	if 0 == r.expectedCalls {
		panic("trying to register unexpected call: " + place)
	}

	r.registry = append(r.registry, place)
	r.expectedCalls--
}

func (r *callsRegistry) Summarize() string {
	r.mutex.RLock()
	defer r.mutex.RUnlock()

	return strings.Join(r.registry, "|")
}

func (r *callsRegistry) AssertCompletedBefore(t *testing.T, expectedRegistry string, timeLimit time.Duration) {
	t.Helper()

	require.Eventuallyf(
		t,
		func() bool {
			r.mutex.RLock()
			defer r.mutex.RUnlock()

			return 0 == r.expectedCalls
		},
		timeLimit,
		time.Millisecond,
		"Calls registry assertion timeout. Calls registered: %v.",
		r.Summarize(),
	)

	require.Equal(t, expectedRegistry, r.Summarize())
}

func (r *callsRegistry) AssertCurrentCallsStackIs(t *testing.T, expectedRegistry string) {
	t.Helper()

	require.Equal(t, expectedRegistry, r.Summarize())
}

func (r *callsRegistry) AssertThereAreNCallsLeft(t *testing.T, callsLeftNumber uint) {
	t.Helper()

	r.mutex.RLock()
	defer r.mutex.RUnlock()

	require.Equal(t, callsLeftNumber, r.expectedCalls)
}
