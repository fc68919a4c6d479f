package reactor

import "github.com/joeycumines/go-nexio/internal/xlog"

// options collects Reactor construction parameters. Configuration is
// always threaded through New(...Option), never exported struct fields.
type options struct {
	logger     xlog.Logger
	eventsCap  int
	wheelSlots int
}

// Option configures a Reactor at construction time.
type Option func(*options)

// WithLogger sets the Logger the Reactor (and the timer subsystem it owns)
// reports lifecycle events and task errors through. Defaults to
// xlog.NopLogger.
func WithLogger(l xlog.Logger) Option {
	return func(o *options) { o.logger = l }
}

// WithEventsCapacity sets the initial capacity of the per-poll events
// buffer passed to the OS poller. It is a pure performance hint.
func WithEventsCapacity(n int) Option {
	return func(o *options) {
		if n > 0 {
			o.eventsCap = n
		}
	}
}

// WithWheelSlots overrides the coarse timer wheel's slot count (default
// 128). Must be a power of two; values that aren't are rounded up.
func WithWheelSlots(n int) Option {
	return func(o *options) {
		if n > 0 {
			o.wheelSlots = nextPowerOfTwo(n)
		}
	}
}

func resolveOptions(opts []Option) *options {
	o := &options{
		logger:     xlog.NopLogger(),
		eventsCap:  256,
		wheelSlots: defaultWheelSlots,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(o)
		}
	}
	return o
}

func nextPowerOfTwo(n int) int {
	p := 1
	for p < n {
		p <<= 1
	}
	return p
}
