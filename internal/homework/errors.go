package homework

import "fmt"

// ShapeError reports a structural/type violation in the API response or a
// homework record.
type ShapeError struct {
	Msg string
}

func (e *ShapeError) Error() string { return e.Msg }

// MissingFieldError reports a required key that is absent.
type MissingFieldError struct {
	Key string
}

func (e *MissingFieldError) Error() string {
	return fmt.Sprintf("missing required key %q", e.Key)
}

// UnknownStatusError reports a status outside the verdict table.
type UnknownStatusError struct {
	Status string
}

func (e *UnknownStatusError) Error() string {
	return fmt.Sprintf("unknown homework status %q", e.Status)
}
