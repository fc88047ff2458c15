package promise

import "sync"

// Pair holds the two fulfillment values produced by Zip2.
type Pair[T1, T2 any] struct {
	First  T1
	Second T2
}

// Triple holds the three fulfillment values produced by Zip3.
type Triple[T1, T2, T3 any] struct {
	First  T1
	Second T2
	Third  T3
}

// All returns a promise that fulfills with every input's value, in
// input order, once all inputs fulfill, or rejects with the first
// rejection observed, even while sibling inputs are still pending.
// An empty input fulfills immediately with an empty slice.
//
// All is built purely on the public Promise contract; duplicate
// settlement attempts are absorbed by the settle-once invariant.
func All[T any](promises ...*Promise[T]) *Promise[[]T] {
	if 0 == len(promises) {
		return Resolve([]T{})
	}

	next := Pending[[]T]()

	var (
		mutex   sync.Mutex
		values  = make([]T, len(promises))
		missing = len(promises)
	)

	for i, p := range promises {
		i := i

		p.Then(nil, func(value T) {
			mutex.Lock()
			values[i] = value
			missing--
			done := 0 == missing
			mutex.Unlock()

			if done {
				next.Fulfill(values)
			}
		}).Catch(nil, next.Reject)
	}

	return next
}

// Zip2 returns a promise that stays pending until both inputs are
// fulfilled, then fulfills with the pair of their values. A rejection
// of either input rejects the result with that reason.
func Zip2[T1, T2 any](p1 *Promise[T1], p2 *Promise[T2]) *Promise[Pair[T1, T2]] {
	next := Pending[Pair[T1, T2]]()

	var (
		mutex   sync.Mutex
		pair    Pair[T1, T2]
		missing = 2
	)

	p1.Then(nil, func(value T1) {
		mutex.Lock()
		pair.First = value
		missing--
		done := 0 == missing
		result := pair
		mutex.Unlock()

		if done {
			next.Fulfill(result)
		}
	}).Catch(nil, next.Reject)

	p2.Then(nil, func(value T2) {
		mutex.Lock()
		pair.Second = value
		missing--
		done := 0 == missing
		result := pair
		mutex.Unlock()

		if done {
			next.Fulfill(result)
		}
	}).Catch(nil, next.Reject)

	return next
}

// Zip3 is Zip2(Zip2(p1, p2), p3), flattened into a Triple.
func Zip3[T1, T2, T3 any](p1 *Promise[T1], p2 *Promise[T2], p3 *Promise[T3]) *Promise[Triple[T1, T2, T3]] {
	return Map(
		Zip2(Zip2(p1, p2), p3),
		nil,
		func(nested Pair[Pair[T1, T2], T3]) (Triple[T1, T2, T3], error) {
			return Triple[T1, T2, T3]{
				First:  nested.First.First,
				Second: nested.First.Second,
				Third:  nested.Second,
			}, nil
		},
	)
}
