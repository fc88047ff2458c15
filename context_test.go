package promise

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestBackground(t *testing.T) {
	t.Run("Submitted task eventually runs", func(t *testing.T) {
		done := make(chan struct{})

		Background().Execute(func() {
			close(done)
		})

		select {
		case <-done:
		case <-time.After(eventuallyTimeout):
			t.Fatal("task did not run")
		}
	})
}

func TestSerialContext(t *testing.T) {
	t.Run("Tasks run one at a time in submission order", func(t *testing.T) {
		ctx := NewSerialContext()

		var (
			mutex sync.Mutex
			order []int
		)

		for i := 0; i < 100; i++ {
			i := i
			ctx.Execute(func() {
				mutex.Lock()
				order = append(order, i)
				mutex.Unlock()
			})
		}

		require.Eventually(t, func() bool {
			mutex.Lock()
			defer mutex.Unlock()

			return 100 == len(order)
		}, eventuallyTimeout, time.Millisecond)

		mutex.Lock()
		defer mutex.Unlock()
		for i, got := range order {
			require.Equal(t, i, got)
		}
	})

	t.Run("Zero value is ready to use", func(t *testing.T) {
		var ctx SerialContext

		done := make(chan struct{})
		ctx.Execute(func() {
			close(done)
		})

		select {
		case <-done:
		case <-time.After(eventuallyTimeout):
			t.Fatal("task did not run")
		}
	})

	t.Run("Task is never run on the submitting stack", func(t *testing.T) {
		ctx := NewSerialContext()
		submitted := make(chan struct{})
		done := make(chan struct{})

		ctx.Execute(func() {
			<-submitted
			close(done)
		})
		close(submitted)

		select {
		case <-done:
		case <-time.After(eventuallyTimeout):
			t.Fatal("task did not run")
		}
	})
}

func TestInvalidatableContext(t *testing.T) {
	t.Run("Forwards tasks while valid", func(t *testing.T) {
		ctx := NewInvalidatableContext(nil)
		require.True(t, ctx.IsValid())

		done := make(chan struct{})
		ctx.Execute(func() {
			close(done)
		})

		select {
		case <-done:
		case <-time.After(eventuallyTimeout):
			t.Fatal("task did not run")
		}
	})

	t.Run("Drops tasks submitted after invalidation", func(t *testing.T) {
		registry := NewCallsRegistry(1)
		serial := NewSerialContext()
		ctx := NewInvalidatableContext(serial)

		ctx.Invalidate()
		require.False(t, ctx.IsValid())

		ctx.Execute(func() {
			registry.Register("dropped")
		})
		// A marker on the same parent proves the dropped task would
		// have run by now.
		serial.Execute(func() {
			registry.Register("marker")
		})

		registry.AssertCompletedBefore(t, "marker", eventuallyTimeout)
	})

	t.Run("Invalidation is permanent", func(t *testing.T) {
		ctx := NewInvalidatableContext(nil)

		ctx.Invalidate()
		ctx.Invalidate()

		require.False(t, ctx.IsValid())
	})

	t.Run("Settled promise stops delivering to an invalidated observer", func(t *testing.T) {
		registry := NewCallsRegistry(1)
		observer := NewInvalidatableContext(nil)
		p := Pending[int]()

		p.Then(observer, func(int) {
			registry.Register("observer")
		})
		observer.Invalidate()
		p.Then(nil, func(int) {
			registry.Register("other")
		})

		p.Fulfill(1)

		registry.AssertCompletedBefore(t, "other", eventuallyTimeout)
	})
}
