package practicum

import "fmt"

// RequestError reports a transport-level failure (DNS, timeout, reset)
// before any HTTP status was received.
type RequestError struct {
	cause error
}

func (e *RequestError) Error() string {
	return fmt.Sprintf("api request failed: %v", e.cause)
}

func (e *RequestError) Unwrap() error { return e.cause }

// ResponseError reports a non-200 status from the API.
type ResponseError struct {
	Status int
	Body   string
}

func (e *ResponseError) Error() string {
	return fmt.Sprintf("api returned status %d: %s", e.Status, e.Body)
}
