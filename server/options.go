package server

import (
	"github.com/joeycumines/go-nexio/internal/xlog"
	"github.com/joeycumines/go-nexio/netio"
)

// config collects Server construction parameters, following the same
// functional-options shape every other package in this module uses.
type config struct {
	numWorkers  int
	workerConns int
	logger      xlog.Logger
	listener    []netio.ListenerOption
}

// Option configures a Server at construction time.
type Option func(*config)

// WithWorkers sets the number of worker reactor goroutines. Rounded up to
// a power of two; the default is 1.
func WithWorkers(n int) Option {
	return func(c *config) {
		if n > 0 {
			c.numWorkers = nextPowerOfTwo(n)
		}
	}
}

// WithWorkerConns sets the per-worker connection capacity (default 512).
// A worker at capacity is skipped by the acceptor's round-robin dispatch;
// if every worker is at capacity the connection is dropped with a
// warning.
func WithWorkerConns(n int) Option {
	return func(c *config) {
		if n > 0 {
			c.workerConns = n
		}
	}
}

// WithLogger sets the Logger every worker Reactor and the acceptor Reactor
// report lifecycle events through. Defaults to xlog.NopLogger.
func WithLogger(l xlog.Logger) Option {
	return func(c *config) { c.logger = l }
}

// WithListener passes options through to the underlying netio.TcpListener
// (address, port, backlog, TTL, IPv6-only).
func WithListener(opts ...netio.ListenerOption) Option {
	return func(c *config) { c.listener = append(c.listener, opts...) }
}

func resolveConfig(opts []Option) *config {
	c := &config{
		numWorkers:  1,
		workerConns: 512,
		logger:      xlog.NopLogger(),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(c)
		}
	}
	return c
}

func nextPowerOfTwo(n int) int {
	p := 1
	for p < n {
		p <<= 1
	}
	return p
}
