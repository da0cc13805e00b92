package shared

// Result is a success/error union. Exactly one of Value or Err is meaningful:
// a Result with a nil Err is a success.
type Result[T any] struct {
	Value T
	Err   error
}

// Ok wraps a successful value
func Ok[T any](value T) Result[T] {
	return Result[T]{Value: value}
}

// Fail wraps an error
func Fail[T any](err error) Result[T] {
	return Result[T]{Err: err}
}

// ResultOf builds a Result from a conventional (value, error) pair
func ResultOf[T any](value T, err error) Result[T] {
	if err != nil {
		return Fail[T](err)
	}
	return Ok(value)
}

// IsOk reports whether the result is a success
func (r Result[T]) IsOk() bool {
	return r.Err == nil
}

// Unwrap returns the value and error as a pair
func (r Result[T]) Unwrap() (T, error) {
	return r.Value, r.Err
}

// OrElse returns the value on success and the fallback otherwise
func (r Result[T]) OrElse(fallback T) T {
	if r.Err != nil {
		return fallback
	}
	return r.Value
}

// MapResult transforms the value of a successful result
func MapResult[T, U any](r Result[T], fn func(T) U) Result[U] {
	if r.Err != nil {
		return Fail[U](r.Err)
	}
	return Ok(fn(r.Value))
}
