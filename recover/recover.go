// Package recover turns panics in callbacks into logged errors.
package recover

import (
	"fmt"
	"runtime/debug"

	"github.com/rs/zerolog"
)

// OnPanic, when set, is called after a panic has been logged.
var OnPanic func(label string, recovered any)

// ----------------------------------------------------
// Panic recovery functions
// ----------------------------------------------------

// Safe runs fn, logging any panic with label and its stack.
func Safe(log zerolog.Logger, label string, fn func()) {
	defer func() {
		if r := recover(); r != nil {
			report(log, label, r)
		}
	}()
	fn()
}

// SafeErr runs fn and converts a panic into an error.
func SafeErr(log zerolog.Logger, label string, fn func() error) (err error) {
	defer func() {
		if r := recover(); r != nil {
			report(log, label, r)
			err = fmt.Errorf("panic recovered in %s: %v", label, r)
		}
	}()
	return fn()
}

func report(log zerolog.Logger, label string, recovered any) {
	log.Error().
		Str("label", label).
		Interface("panic", recovered).
		Str("stack", string(debug.Stack())).
		Msg("panic recovered")

	if OnPanic != nil {
		OnPanic(label, recovered)
	}
}
