package apperr

// Result is the uniform envelope returned by every exposed operation.
type Result[T any] struct {
	Success bool   `json:"success"`
	Data    T      `json:"data,omitempty"`
	Error   string `json:"error,omitempty"`
	Message string `json:"message,omitempty"`
	Details any    `json:"details,omitempty"`
}

// OK builds a successful result.
func OK[T any](data T, message string) Result[T] {
	return Result[T]{Success: true, Data: data, Message: message}
}

// Fail builds a failed result from err. Untyped errors are reported as internal.
func Fail[T any](err error) Result[T] {
	e, ok := As(err)
	if !ok {
		return Result[T]{Error: KindInternal.String(), Message: err.Error()}
	}
	return Result[T]{Error: e.Kind.String(), Message: e.Message, Details: e.Details}
}

// From builds a result from a (value, error) pair.
func From[T any](data T, err error, message string) Result[T] {
	if err != nil {
		return Fail[T](err)
	}
	return OK(data, message)
}

// StatusFor returns the HTTP status for err, 500 for untyped errors.
func StatusFor(err error) int {
	if e, ok := As(err); ok {
		return e.HTTPStatus()
	}
	return 500
}
