package logging

import (
	"errors"

	"go.uber.org/atomic"
)

// The primary pattern is an explicitly passed *Service threaded through
// startup and shutdown; this registry is the thin ambient wrapper for the
// few places that cannot take an injected handle.
var global atomic.Pointer[Service]

// InstallGlobal registers svc as the process-wide logging handle. Exactly
// one handle can be installed for the lifetime of the process; a second
// attempt returns ErrAlreadyInitialized and leaves the first installed
// handle untouched.
func InstallGlobal(svc *Service) error {
	if svc == nil {
		return errors.New(errMsgNilService)
	}
	if !global.CompareAndSwap(nil, svc) {
		return ErrAlreadyInitialized
	}
	return nil
}

// Global returns the installed handle, or nil when none has been installed.
// The nil return is safe to use: every Service method tolerates a nil
// receiver.
func Global() *Service {
	return global.Load()
}
