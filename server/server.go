// Package server is a TCP server scaffold: a listener on its own Reactor
// dispatches accepted connections round-robin to a fixed pool of worker
// Reactors, each running user Handler-spawned tasks. It introduces no new
// reactor primitives of its own, just wiring on top of reactor/netio/spsc.
package server

import (
	"context"
	"net"
	"sync/atomic"

	"golang.org/x/sync/errgroup"

	"github.com/joeycumines/go-nexio/netio"
	"github.com/joeycumines/go-nexio/reactor"
	"github.com/joeycumines/go-nexio/spsc"
)

// Server is a TCP acceptor plus a fixed pool of worker Reactors. Construct
// with New, drive with Run.
type Server struct {
	cfg     *config
	handler Handler

	started atomic.Bool
	addr    atomic.Pointer[net.Addr]
}

// New constructs a Server that will dispatch every accepted connection to
// handler. It does not bind a socket or start any goroutine until Run is
// called.
func New(handler Handler, opts ...Option) *Server {
	return &Server{cfg: resolveConfig(opts), handler: handler}
}

// Addr returns the listener's bound address. Valid only once Run has
// successfully created the listener (i.e. after Run has been called and
// before it has returned an early setup error); nil beforehand.
func (s *Server) Addr() net.Addr {
	if p := s.addr.Load(); p != nil {
		return *p
	}
	return nil
}

// Run binds the listener, starts the acceptor and every worker reactor,
// and blocks until ctx is cancelled or a worker/acceptor goroutine returns
// a fatal error, whichever happens first. It returns ctx.Err() on a clean
// cancellation-driven shutdown, or the first fatal goroutine error
// otherwise. A Server may only be Run once.
func (s *Server) Run(ctx context.Context) error {
	if !s.started.CompareAndSwap(false, true) {
		return ErrAlreadyRunning
	}

	acceptorReactor, err := reactor.New(reactor.WithLogger(s.cfg.logger))
	if err != nil {
		return err
	}
	acx := reactor.NewContext(acceptorReactor)

	listener, err := netio.NewTcpListener(acx, s.cfg.listener...)
	if err != nil {
		_ = acceptorReactor.Close()
		return err
	}
	addr := listener.Addr()
	s.addr.Store(&addr)

	connCounts := make([]*atomic.Int64, s.cfg.numWorkers)
	senders := make([]*spsc.Sender[dispatched], s.cfg.numWorkers)
	workerReactors := make([]*reactor.Reactor, s.cfg.numWorkers)
	workerTasks := make([]*workerTask, s.cfg.numWorkers)

	for i := range workerReactors {
		wr, err := reactor.New(reactor.WithLogger(s.cfg.logger))
		if err != nil {
			for _, prev := range workerReactors[:i] {
				if prev != nil {
					_ = prev.Close()
				}
			}
			_ = acceptorReactor.Close()
			return err
		}
		workerReactors[i] = wr

		send, recv, err := spsc.New[dispatched](s.cfg.workerConns)
		if err != nil {
			for _, prev := range workerReactors[:i+1] {
				_ = prev.Close()
			}
			_ = acceptorReactor.Close()
			return err
		}
		senders[i] = send
		connCounts[i] = &atomic.Int64{}
		workerTasks[i] = &workerTask{recv: recv, handler: s.handler, count: connCounts[i], logger: s.cfg.logger}
	}

	shutdown := &atomic.Bool{}
	accTask := &acceptorTask{
		incoming:    listener.Incoming(),
		senders:     senders,
		connCounts:  connCounts,
		workerConns: s.cfg.workerConns,
		logger:      s.cfg.logger,
		shutdown:    shutdown,
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		defer func() { _ = acceptorReactor.Close() }()
		defer func() { _ = listener.Close(acx) }()
		return acceptorReactor.Run(accTask)
	})
	for i, wr := range workerReactors {
		wr, task := wr, workerTasks[i]
		g.Go(func() error {
			defer func() { _ = wr.Close() }()
			return wr.Run(task)
		})
	}

	g.Go(func() error {
		<-gctx.Done()
		shutdown.Store(true)
		_ = acceptorReactor.Wake()
		return nil
	})

	if err := g.Wait(); err != nil {
		return err
	}
	return ctx.Err()
}
