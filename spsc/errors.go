package spsc

import "errors"

// ErrSendOnClosed is returned by Send after Close.
var ErrSendOnClosed = errors.New("spsc: send on closed channel")
