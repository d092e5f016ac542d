// Package observable implements a synchronous one-to-many publish channel. An Observable
// remembers the last published value so that late subscribers never miss the current state,
// and delivers every value to its observers in registration order on the publishing goroutine.
package observable

import (
	"fmt"
	"slices"
)

// Observer receives values published by an Observable.
type Observer[T any] interface {
	// Update is called with the latest published value.
	//
	// Parameters:
	//   - value: the published value
	Update(value T)
}

// ObserverFunc adapts a plain function to the Observer interface.
type ObserverFunc[T any] func(value T)

// Update calls f(value).
func (f ObserverFunc[T]) Update(value T) {
	f(value)
}

// entry is a registration slot. Observers are compared by registration identity rather than by
// value so that function adapters, which are not comparable, can be attached and detached.
type entry[T any] struct {
	id       uint64
	observer Observer[T]
}

// Observable holds the last published value of type T and an ordered list of observers.
// It is not safe for concurrent use; all calls are expected on the render goroutine.
type Observable[T any] struct {
	last    T
	entries []entry[T]
	nextID  uint64
}

// Subscription is the non-owning handle returned by Attach. The owner of the observer keeps it
// and calls Detach on teardown.
type Subscription[T any] struct {
	source *Observable[T]
	id     uint64
}

// New creates an Observable whose last value starts at initial.
//
// Parameters:
//   - initial: the value replayed to observers attached before the first Notify
//
// Returns:
//   - *Observable[T]: the new observable
func New[T any](initial T) *Observable[T] {
	return &Observable[T]{last: initial}
}

// Attach registers o, synchronously replays the last published value to it and returns the
// registration handle. The observer is appended, so Notify visits it after every observer
// attached before it. A nil observer is a programming error and panics.
//
// Parameters:
//   - o: the observer to register
//
// Returns:
//   - *Subscription[T]: the handle used to detach o
func (s *Observable[T]) Attach(o Observer[T]) *Subscription[T] {
	if o == nil {
		panic("observable: attach of nil observer")
	}
	o.Update(s.last)
	s.nextID++
	s.entries = append(s.entries, entry[T]{id: s.nextID, observer: o})
	return &Subscription[T]{source: s, id: s.nextID}
}

// AttachFunc is a convenience wrapper around Attach for plain functions.
//
// Parameters:
//   - fn: the function to call on every published value
//
// Returns:
//   - *Subscription[T]: the handle used to detach fn
func (s *Observable[T]) AttachFunc(fn func(T)) *Subscription[T] {
	return s.Attach(ObserverFunc[T](fn))
}

// Detach removes the first registration of o. Detaching an observer that is not registered
// indicates broken lifecycle tracking and panics.
//
// Parameters:
//   - o: a previously attached, comparable observer
func (s *Observable[T]) Detach(o Observer[T]) {
	for i, e := range s.entries {
		if sameObserver(e.observer, o) {
			s.entries = slices.Delete(s.entries, i, i+1)
			return
		}
	}
	panic(fmt.Sprintf("observable: detach of unregistered observer %T", o))
}

// Notify stores value as the last published value and then calls Update on every observer in
// registration order before returning. Observers attached or detached while Notify runs take
// effect from the next call.
//
// Parameters:
//   - value: the value to publish
func (s *Observable[T]) Notify(value T) {
	s.last = value
	snapshot := slices.Clone(s.entries)
	for _, e := range snapshot {
		e.observer.Update(value)
	}
}

// Last returns the most recently published value (or the initial value).
func (s *Observable[T]) Last() T {
	return s.last
}

// Len returns the number of registered observers.
func (s *Observable[T]) Len() int {
	return len(s.entries)
}

// Detach removes the observer registered by this subscription. Calling Detach twice panics.
func (sub *Subscription[T]) Detach() {
	if sub.source == nil {
		panic("observable: subscription detached twice")
	}
	src := sub.source
	sub.source = nil
	for i, e := range src.entries {
		if e.id == sub.id {
			src.entries = slices.Delete(src.entries, i, i+1)
			return
		}
	}
	panic("observable: subscription no longer registered")
}

// Active reports whether the subscription is still registered.
func (sub *Subscription[T]) Active() bool {
	return sub != nil && sub.source != nil
}

// sameObserver compares two observers without panicking on non-comparable dynamic types.
func sameObserver[T any](a, b Observer[T]) (same bool) {
	defer func() {
		if recover() != nil {
			same = false
		}
	}()
	return a == b
}
