package reactor

import "errors"

// ErrTimedOut is returned by the Timeout combinator when its timer expires
// before the wrapped Future/Stream produces a value.
var ErrTimedOut = errors.New("reactor: timed out")

// ErrGateClosed is returned by EnterGate once the main task has completed:
// the loop is draining and no longer accepts new lifetime extensions.
var ErrGateClosed = errors.New("reactor: gate closed, loop is draining")

// ErrUnknownSchedule is returned by ReregisterIO when it is
// given a Token that no longer names a live Schedule (its handle was
// already deregistered).
var ErrUnknownSchedule = errors.New("reactor: unknown schedule token")
