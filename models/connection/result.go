package connection

// Result is what both game operations hand back to a transport. Data is
// nil whenever the operation did not succeed.
type Result[T any] struct {
	Message string `json:"message"`
	Success bool   `json:"success"`
	Data    *T     `json:"data,omitempty"`
}

func NewSuccessResult[T any](message string, data T) Result[T] {
	return Result[T]{Message: message, Success: true, Data: &data}
}

func NewFailedResult[T any](message string) Result[T] {
	return Result[T]{Message: message}
}
