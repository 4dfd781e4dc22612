// Package owerrors provides structured error types for objwalk.
//
// These error types enable programmatic error handling via errors.Is() and
// errors.As(), allowing callers to distinguish between different categories
// of errors and implement appropriate recovery strategies.
//
// # Error Categories
//
//   - ConfigError: invalid walker configuration (duplicate registrations, nil walkers)
//   - HandlerError: an event handler failed while processing an item
//   - TeardownError: a hook or callback failed while the walk was shutting down
//
// # Usage with errors.Is
//
//	ctx := walk.Handle(w, doc)
//	if ctx.Failed() {
//	    var handlerErr *owerrors.HandlerError
//	    if errors.As(ctx.Cause(), &handlerErr) {
//	        log.Printf("handler failed at %s (depth %d)", handlerErr.Path, handlerErr.Depth)
//	    }
//	}
package owerrors

import (
	"errors"
	"fmt"
	"strconv"
)

// Sentinel errors for use with errors.Is().
// These allow quick checks without type assertions.
var (
	// ErrConfig indicates an invalid walker configuration.
	ErrConfig = errors.New("configuration error")

	// ErrHandler indicates an event handler failed during a walk.
	ErrHandler = errors.New("handler error")

	// ErrTeardown indicates a hook or callback failed during walk teardown.
	ErrTeardown = errors.New("teardown error")

	// ErrWalkEnded indicates an operation was attempted on an already-ended walk.
	ErrWalkEnded = errors.New("walk already ended")
)

// ConfigError represents an invalid walker configuration, such as registering
// two walkers for the same type.
type ConfigError struct {
	// Walker describes the walker being configured (usually its Go type)
	Walker string
	// Type is the registered value type involved in the conflict, if any
	Type string
	// Message describes the configuration problem
	Message string
}

// Error returns a human-readable error message.
func (e *ConfigError) Error() string {
	msg := "configuration error"
	if e.Walker != "" {
		msg += " in " + e.Walker
	}
	if e.Type != "" {
		msg += " for type " + e.Type
	}
	if e.Message != "" {
		msg += ": " + e.Message
	}
	return msg
}

// Is reports whether target matches this error type.
func (e *ConfigError) Is(target error) bool {
	return target == ErrConfig
}

// HandlerError represents a failure raised by an event handler while
// processing one visited item. It is recorded as the walk's cause; the
// handler's own error remains reachable through Unwrap.
type HandlerError struct {
	// Path is the display path of the item being processed, if its walker
	// recorded one ("" otherwise)
	Path string
	// Depth is the item's depth at the time of failure (0 for the root's
	// own children)
	Depth int
	// Cause is the error returned (or the recovered panic) by the handler
	Cause error
}

// Error returns a human-readable error message.
func (e *HandlerError) Error() string {
	msg := "handler error"
	if e.Path != "" {
		msg += " at " + e.Path
	}
	if e.Depth > 0 {
		msg += " (depth " + strconv.Itoa(e.Depth) + ")"
	}
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}
	return msg
}

// Unwrap returns the underlying cause for error chaining.
func (e *HandlerError) Unwrap() error {
	return e.Cause
}

// Is reports whether target matches this error type.
func (e *HandlerError) Is(target error) bool {
	return target == ErrHandler
}

// TeardownError represents a failure that surfaced while the walk was already
// shutting down: a panicking exit-level hook or end-of-walk callback. It never
// replaces a walk's recorded cause; the engine only reports it through its
// logger.
type TeardownError struct {
	// Stage identifies where the failure occurred: "exit-level" or "end-callback"
	Stage string
	// Cause is the underlying error or recovered panic
	Cause error
}

// Error returns a human-readable error message.
func (e *TeardownError) Error() string {
	msg := "teardown error"
	if e.Stage != "" {
		msg += " in " + e.Stage
	}
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}
	return msg
}

// Unwrap returns the underlying cause for error chaining.
func (e *TeardownError) Unwrap() error {
	return e.Cause
}

// Is reports whether target matches this error type.
func (e *TeardownError) Is(target error) bool {
	return target == ErrTeardown
}

// Recovered converts a value recovered from a panic into an error, preserving
// it unchanged when it already is one.
func Recovered(v any) error {
	if err, ok := v.(error); ok {
		return err
	}
	return fmt.Errorf("panic: %v", v)
}
