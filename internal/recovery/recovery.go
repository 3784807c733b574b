// Package recovery absorbs panics from best-effort background work so one
// bad probe cannot take the server down.
package recovery

import (
	"fmt"
	"runtime/debug"

	"github.com/marcobit/clawcrm/internal/logger"
)

// Safe runs fn and converts a panic into an error, logging the stack. Meant
// for probe work whose failure already degrades gracefully.
func Safe(name string, fn func() error) (err error) {
	defer func() {
		if r := recover(); r != nil {
			logger.Errorf("panic recovered in %s: %v\n%s", name, r, debug.Stack())
			err = fmt.Errorf("%s panicked: %v", name, r)
		}
	}()
	return fn()
}

// SafeGo runs fn in a goroutine with panic recovery.
func SafeGo(name string, fn func()) {
	go func() {
		defer func() {
			if r := recover(); r != nil {
				logger.Errorf("panic recovered in goroutine %s: %v\n%s", name, r, debug.Stack())
			}
		}()
		fn()
	}()
}
