package logging

import "errors"

// ErrAlreadyInitialized is returned by InstallGlobal when a handle has
// already been installed for this process. The existing handle is left
// untouched.
var ErrAlreadyInitialized = errors.New("logging: already initialized")
