package ipx

import "golang.org/x/sync/singleflight"

// onceValue is a deferred, memoized producer: Get runs fn at most once
// across any number of concurrent callers and returns the same value (or
// the same error) to all of them thereafter. It backs the source
// descriptor's GetData producer, giving "shared future" semantics; the
// engine's rendered image data is not memoized through it.
type onceValue[T any] struct {
	group singleflight.Group
	done  bool
	value T
	err   error
	fn    func() (T, error)
}

// newOnceValue wraps fn as a memoized producer. fn is not invoked until the
// first call to Get.
func newOnceValue[T any](fn func() (T, error)) *onceValue[T] {
	return &onceValue[T]{fn: fn}
}

// Get returns the memoized result of fn, computing it on first call and
// serializing concurrent callers through a singleflight group so fn runs
// exactly once.
func (o *onceValue[T]) Get() (T, error) {
	if o.done {
		return o.value, o.err
	}

	v, err, _ := o.group.Do("", func() (interface{}, error) {
		if o.done {
			return o.value, o.err
		}
		value, err := o.fn()
		o.value, o.err = value, err
		o.done = true
		return value, err
	})
	if err != nil {
		var zero T
		return zero, err
	}
	return v.(T), nil
}
