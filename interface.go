package promise

// State identifies the settlement state of a Promise.
type State int

const (
	StatePending State = iota
	StateFulfilled
	StateRejected
)

func (s State) String() string {
	switch s {
	case StatePending:
		return "pending"
	case StateFulfilled:
		return "fulfilled"
	case StateRejected:
		return "rejected"
	default:
		return "<unknown>"
	}
}

// Resolver fulfills the promise it was handed out for.
type Resolver[T any] func(value T)

// Rejector rejects the promise it was handed out for.
type Rejector func(reason error)

// FulfillHandler observes a fulfillment value.
type FulfillHandler[T any] func(value T)

// RejectHandler observes a rejection reason.
type RejectHandler func(reason error)

// FinallyHandler runs once the promise settles, regardless of outcome.
type FinallyHandler func()

// MapHandler transforms a fulfillment value into a new value, or fails.
type MapHandler[T, U any] func(value T) (U, error)

// FlatMapHandler transforms a fulfillment value into a new promise,
// whose settlement is adopted by the derived promise.
type FlatMapHandler[T, U any] func(value T) *Promise[U]

type Promiser[T any] interface {
	Then(ctx ExecutionContext, handler FulfillHandler[T]) *Promise[T]
	Catch(ctx ExecutionContext, handler RejectHandler) *Promise[T]
	Finally(ctx ExecutionContext, handler FinallyHandler) *Promise[T]
	Fulfill(value T)
	Reject(reason error)
	Cancel()
	State() State
	Value() (T, bool)
	Err() error
}
