package httpapi

// Result is the response envelope the dashboard frontend expects:
// code 2000 on success, -1 on error, message for the user-facing text.
type Result[T any] struct {
	Code    int    `json:"code"`
	Type    string `json:"type"`
	Message string `json:"message"`
	Result  T      `json:"result"`
}

const (
	ResultSuccess = 2000
	ResultError   = -1
)

func Ok[T any](result T) Result[T] {
	return Result[T]{Code: ResultSuccess, Type: "success", Message: "ok", Result: result}
}

// OkWarning is a success whose side channel (the device control publish)
// failed; the frontend shows the warning without treating it as a failure.
func OkWarning[T any](result T, warning string) Result[T] {
	return Result[T]{Code: ResultSuccess, Type: "warning", Message: warning, Result: result}
}

func Fail(message string) Result[any] {
	return Result[any]{Code: ResultError, Type: "error", Message: message, Result: nil}
}
