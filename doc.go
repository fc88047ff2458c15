// Package promise provides a settle-once promise: a single-assignment
// container that starts pending, is settled exactly once with either a
// value or an error, and delivers that outcome to any number of
// observers on execution contexts of their choosing.
//
// A Promise has three states, and it can be in only one of them at any
// time:
// Pending: the promise has not been settled yet.
// Fulfilled: the promise was settled with a value.
// Rejected: the promise was settled with an error.
//
// Transitions are one-directional: Pending to Fulfilled, or Pending to
// Rejected, never otherwise and never twice. A second Fulfill or
// Reject call is a silent no-op.
//
// Observers register through Then, Catch and Finally, or through the
// derived forms Map and FlatMap, each naming the ExecutionContext the
// reaction must run on (nil means DefaultContext). Reactions always
// fire asynchronously, even when the promise is already settled at
// registration time, and never while the promise's internal lock is
// held, so a reaction may safely re-enter the promise it observes.
//
// There is no blocking wait in the package: status accessors return an
// immediate snapshot, and all continuation happens through subscriber
// dispatch. Callers that need to block can combine Finally with a
// channel or a sync.WaitGroup.
//
// The package never reports an unobserved rejection; consumers who
// care must attach a Catch.
package promise
