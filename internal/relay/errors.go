package relay

import (
	"errors"
	"fmt"
	"net/http"
)

// modelSwitchError means a client could not be built for a permitted model.
// The previous model stays active.
type modelSwitchError struct {
	model string
	err   error
}

func (e *modelSwitchError) Error() string   { return "switch to model " + e.model + ": " + e.err.Error() }
func (e *modelSwitchError) Unwrap() error   { return e.err }
func (e *modelSwitchError) StatusCode() int { return http.StatusBadGateway }

// generationError means the backend failed while generating.
type generationError struct {
	model string
	err   error
}

func (e *generationError) Error() string   { return "generate with " + e.model + ": " + e.err.Error() }
func (e *generationError) Unwrap() error   { return e.err }
func (e *generationError) StatusCode() int { return http.StatusBadGateway }

// ErrModelSwitch builds a switch failure; exported for tests of dependent packages.
func ErrModelSwitch(model string, err error) error { return &modelSwitchError{model: model, err: err} }

// ErrGeneration builds a generation failure; exported for tests of dependent packages.
func ErrGeneration(model string, err error) error { return &generationError{model: model, err: err} }

// IsModelSwitchFailure reports whether err is a failed model switch.
func IsModelSwitchFailure(err error) bool {
	var e *modelSwitchError
	return errors.As(err, &e)
}

// IsGenerationFailure reports whether err is a failed backend invocation.
func IsGenerationFailure(err error) bool {
	var e *generationError
	return errors.As(err, &e)
}

// Describe renders err as the in-band text returned to chat clients.
func Describe(err error) string {
	var se *modelSwitchError
	if errors.As(err, &se) {
		return fmt.Sprintf("Error switching to model %s: %v", se.model, se.err)
	}
	var ge *generationError
	if errors.As(err, &ge) {
		return fmt.Sprintf("Error processing your request: %v", ge.err)
	}
	return fmt.Sprintf("Error processing your request: %v", err)
}
