package state

import "time"

// FetchResult is the synchronous answer of a cache read. A deferred result
// means a background task is (or will be) populating the value.
type FetchResult[T any] struct {
	value T
	ready bool
}

// Direct wraps a value that is immediately usable.
func Direct[T any](v T) FetchResult[T] {
	return FetchResult[T]{value: v, ready: true}
}

// Deferred reports that no usable value exists yet.
func Deferred[T any]() FetchResult[T] {
	return FetchResult[T]{}
}

// Get returns the value and whether it was available.
func (r FetchResult[T]) Get() (T, bool) {
	return r.value, r.ready
}

// Ready reports whether the result is Direct.
func (r FetchResult[T]) Ready() bool {
	return r.ready
}

// Phase is the lifecycle state of a cache entry.
type Phase int

const (
	Discarded Phase = iota
	Fetching
	Fetched
)

func (p Phase) String() string {
	switch p {
	case Fetching:
		return "fetching"
	case Fetched:
		return "fetched"
	default:
		return "discarded"
	}
}

// Entry holds one logical resource keyed by K. It is not safe for concurrent
// use; AppState guards every entry with its mutex.
type Entry[K comparable, V any] struct {
	phase Phase
	key   K
	value V

	// retry bookkeeping for the last key that failed
	failedKey K
	failures  int
	retryAt   time.Time
}

// Phase returns the current lifecycle state.
func (e *Entry[K, V]) Phase() Phase {
	return e.phase
}

// Key returns the key of the current Fetching or Fetched state.
func (e *Entry[K, V]) Key() K {
	return e.key
}

// lookup reports the state of the entry with respect to key. Any state held
// for a different key is reported as Discarded.
func (e *Entry[K, V]) lookup(key K) (V, Phase) {
	var zero V
	if e.phase == Discarded || e.key != key {
		return zero, Discarded
	}
	if e.phase == Fetching {
		return zero, Fetching
	}
	return e.value, Fetched
}

func (e *Entry[K, V]) begin(key K) {
	var zero V
	e.phase = Fetching
	e.key = key
	e.value = zero
}

// complete stores v when the entry is still fetching key. A completion for a
// superseded key is dropped and complete returns false.
func (e *Entry[K, V]) complete(key K, v V) bool {
	if e.phase != Fetching || e.key != key {
		return false
	}
	e.phase = Fetched
	e.value = v
	if e.failedKey == key {
		e.failures = 0
		e.retryAt = time.Time{}
	}
	return true
}

// store overwrites the entry with a known value for key if the entry currently
// refers to key in any live state.
func (e *Entry[K, V]) store(key K, v V) bool {
	if e.phase == Discarded || e.key != key {
		return false
	}
	e.phase = Fetched
	e.value = v
	return true
}

// fail discards the entry when it is still fetching key and schedules the
// earliest retry for that key.
func (e *Entry[K, V]) fail(key K, now time.Time, base time.Duration) bool {
	if e.phase != Fetching || e.key != key {
		return false
	}
	var zero V
	e.phase = Discarded
	e.value = zero

	if e.failedKey == key && e.failures > 0 {
		e.failures++
	} else {
		e.failedKey = key
		e.failures = 1
	}
	e.retryAt = now.Add(calculateBackoff(e.failures-1, base))
	return true
}

// coolingDown reports whether key failed recently and must not be retried yet.
func (e *Entry[K, V]) coolingDown(key K, now time.Time) bool {
	return e.failures > 0 && e.failedKey == key && now.Before(e.retryAt)
}

// discard drops any state so the next read fetches again.
func (e *Entry[K, V]) discard() {
	var zero V
	e.phase = Discarded
	e.value = zero
	e.failures = 0
	e.retryAt = time.Time{}
}
