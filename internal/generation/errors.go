package generation

import "fmt"

// MalformedOutputError classifies a reply whose content could not be
// parsed as the expected structure. It carries the underlying parse
// diagnostic and is the signal for a same-model retry with the
// corrective prompt.
type MalformedOutputError struct {
	Model string
	Cause error
}

func (e *MalformedOutputError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("malformed output from model %s: %v", e.Model, e.Cause)
	}
	return fmt.Sprintf("malformed output from model %s", e.Model)
}

func (e *MalformedOutputError) Unwrap() error {
	return e.Cause
}
