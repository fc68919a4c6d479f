package server

import "errors"

// ErrAlreadyRunning is returned by Run if the Server has already been (or
// is still being) run once; a Server is single-use.
var ErrAlreadyRunning = errors.New("server: already running")
