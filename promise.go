package promise

import "sync"

// subscriber is one registered observer: a pair of reactions bound to
// the ExecutionContext they must run on. Both sides are always present;
// the unused one is a no-op.
type subscriber[T any] struct {
	onFulfilled FulfillHandler[T]
	onRejected  RejectHandler
	ctx         ExecutionContext
}

// Promise is a single-assignment container: it starts pending, settles
// exactly once with either a value or an error, and delivers that
// outcome to every subscriber on the subscriber's own ExecutionContext,
// no matter whether the subscriber registered before or after the
// settling event.
//
// One mutex guards the (state, value, err, subscribers) tuple as a
// unit. Observer code is never invoked while the mutex is held.
type Promise[T any] struct {
	mutex       sync.Mutex
	state       State
	value       T
	err         error
	subscribers []subscriber[T]

	// barrier serializes the drain passes that fire subscribers, and
	// keeps them off the settling caller's stack.
	barrier SerialContext
}

var _ Promiser[any] = (*Promise[any])(nil)

// Pending returns a new promise in the pending state, to be settled
// later via Fulfill, Reject or Cancel.
func Pending[T any]() *Promise[T] {
	return &Promise[T]{state: StatePending}
}

// Resolve returns a promise that is already fulfilled with value.
func Resolve[T any](value T) *Promise[T] {
	return &Promise[T]{state: StateFulfilled, value: value}
}

// Reject returns a promise that is already rejected with reason.
// A nil reason is replaced by ErrAbsent.
func Reject[T any](reason error) *Promise[T] {
	if nil == reason {
		reason = ErrAbsent
	}

	return &Promise[T]{state: StateRejected, err: reason}
}

// New returns a pending promise and schedules work on ctx (nil means
// DefaultContext). work receives the two halves that settle the
// promise; a panic inside work is recovered and rejects the promise
// with a PanicError.
func New[T any](ctx ExecutionContext, work func(resolve Resolver[T], reject Rejector)) *Promise[T] {
	if nil == work {
		panic("promise: nil work function")
	}
	if nil == ctx {
		ctx = DefaultContext
	}

	p := Pending[T]()

	ctx.Execute(func() {
		defer rejectOnPanic(p)

		work(p.Fulfill, p.Reject)
	})

	return p
}

// Fulfill settles the promise with value. It is a no-op on an already
// settled promise; the value is silently discarded.
func (p *Promise[T]) Fulfill(value T) {
	if p.settle(StateFulfilled, value, nil) {
		p.fireSubscribersIfNeeded()
	}
}

// Reject settles the promise with reason. A nil reason is replaced by
// ErrAbsent. It is a no-op on an already settled promise.
func (p *Promise[T]) Reject(reason error) {
	if nil == reason {
		reason = ErrAbsent
	}

	var zero T
	if p.settle(StateRejected, zero, reason) {
		p.fireSubscribersIfNeeded()
	}
}

// Cancel rejects the promise with ErrCanceled, if it is still pending.
// It does not stop work already handed to an ExecutionContext.
func (p *Promise[T]) Cancel() {
	p.Reject(ErrCanceled)
}

// settle transitions pending -> state. It reports whether the
// transition happened; any state other than pending is final.
func (p *Promise[T]) settle(state State, value T, reason error) bool {
	p.mutex.Lock()
	defer p.mutex.Unlock()

	if StatePending != p.state {
		return false
	}

	p.state = state
	p.value = value
	p.err = reason

	return true
}

// Then registers handler to run on ctx with the fulfillment value, and
// returns the receiver for chaining. A nil ctx means DefaultContext.
// A rejection bypasses handler.
func (p *Promise[T]) Then(ctx ExecutionContext, handler FulfillHandler[T]) *Promise[T] {
	return p.subscribe(ctx, handler, nil)
}

// Catch registers handler to run on ctx with the rejection reason, and
// returns the receiver for chaining. A fulfillment bypasses handler.
func (p *Promise[T]) Catch(ctx ExecutionContext, handler RejectHandler) *Promise[T] {
	return p.subscribe(ctx, nil, handler)
}

// Finally registers handler to run on ctx exactly once after the
// promise settles, regardless of the outcome.
func (p *Promise[T]) Finally(ctx ExecutionContext, handler FinallyHandler) *Promise[T] {
	return p.subscribe(
		ctx,
		func(T) { handler() },
		func(error) { handler() },
	)
}

func (p *Promise[T]) subscribe(ctx ExecutionContext, onFulfilled FulfillHandler[T], onRejected RejectHandler) *Promise[T] {
	if nil == ctx {
		ctx = DefaultContext
	}
	if nil == onFulfilled {
		onFulfilled = func(T) {}
	}
	if nil == onRejected {
		onRejected = func(error) {}
	}

	p.mutex.Lock()
	p.subscribers = append(p.subscribers, subscriber[T]{
		onFulfilled: onFulfilled,
		onRejected:  onRejected,
		ctx:         ctx,
	})
	p.mutex.Unlock()

	// Fired unconditionally: a subscriber added to an already settled
	// promise must still be delivered, once, asynchronously.
	p.fireSubscribersIfNeeded()

	return p
}

// fireSubscribersIfNeeded schedules a drain pass on the promise's
// internal serial boundary. The drain never runs on the caller's
// stack: a reaction that synchronously re-enters this promise must not
// find the mutex held.
func (p *Promise[T]) fireSubscribersIfNeeded() {
	p.barrier.Execute(p.fireSubscribers)
}

func (p *Promise[T]) fireSubscribers() {
	p.mutex.Lock()
	if StatePending == p.state {
		p.mutex.Unlock()

		return
	}

	state := p.state
	value := p.value
	reason := p.err
	subscribers := p.subscribers
	p.subscribers = nil
	p.mutex.Unlock()

	// Dispatch outside the mutex, front to back, each reaction on its
	// own context.
	for _, s := range subscribers {
		s := s
		switch state {
		case StateFulfilled:
			s.ctx.Execute(func() { s.onFulfilled(value) })
		case StateRejected:
			s.ctx.Execute(func() { s.onRejected(reason) })
		}
	}
}

// Map derives a promise of a new type: once p fulfills, handler runs on
// ctx and its result fulfills the derived promise; a non-nil error, or
// a panic, in handler rejects it. A rejection of p is forwarded to the
// derived promise verbatim, bypassing handler.
func Map[T, U any](p *Promise[T], ctx ExecutionContext, handler MapHandler[T, U]) *Promise[U] {
	if nil == handler {
		panic("promise: nil map handler")
	}

	next := Pending[U]()

	p.subscribe(
		ctx,
		func(value T) {
			defer rejectOnPanic(next)

			result, err := handler(value)
			if nil != err {
				next.Reject(err)

				return
			}

			next.Fulfill(result)
		},
		next.Reject,
	)

	return next
}

// FlatMap derives a promise settled by the promise handler returns:
// once p fulfills, handler runs on ctx and the eventual settlement of
// the returned promise is forwarded to the derived promise. A panic in
// handler rejects the derived promise; so does a nil returned promise,
// with ErrAbsent. A rejection of p is forwarded verbatim.
func FlatMap[T, U any](p *Promise[T], ctx ExecutionContext, handler FlatMapHandler[T, U]) *Promise[U] {
	if nil == handler {
		panic("promise: nil flat-map handler")
	}

	next := Pending[U]()

	p.subscribe(
		ctx,
		func(value T) {
			defer rejectOnPanic(next)

			inner := handler(value)
			if nil == inner {
				next.Reject(ErrAbsent)

				return
			}

			inner.subscribe(ctx, next.Fulfill, next.Reject)
		},
		next.Reject,
	)

	return next
}

func rejectOnPanic[T any](p *Promise[T]) {
	if v := recover(); nil != v {
		p.Reject(PanicError{V: v})
	}
}

// State returns a snapshot of the settlement state. It may be stale
// immediately after return.
func (p *Promise[T]) State() State {
	p.mutex.Lock()
	defer p.mutex.Unlock()

	return p.state
}

func (p *Promise[T]) IsPending() bool {
	return StatePending == p.State()
}

func (p *Promise[T]) IsFulfilled() bool {
	return StateFulfilled == p.State()
}

func (p *Promise[T]) IsRejected() bool {
	return StateRejected == p.State()
}

// Value returns the fulfillment value and whether the promise is
// fulfilled at the time of the call.
func (p *Promise[T]) Value() (T, bool) {
	p.mutex.Lock()
	defer p.mutex.Unlock()

	if StateFulfilled != p.state {
		var zero T

		return zero, false
	}

	return p.value, true
}

// Err returns the rejection reason, or nil while the promise is
// pending or fulfilled.
func (p *Promise[T]) Err() error {
	p.mutex.Lock()
	defer p.mutex.Unlock()

	return p.err
}
