package netio

import (
	"errors"
	"io"

	pkgerrors "github.com/pkg/errors"

	"github.com/joeycumines/go-nexio/buf"
	"github.com/joeycumines/go-nexio/reactor"
)

// TcpStream is one connected, non-blocking TCP socket registered with a
// Reactor. Use Split to obtain independent Recv/Sender
// halves, or drive it directly via Recv/Sender built on it.
type TcpStream struct {
	io   *reactor.PollableIO
	conn *rawConn
}

// Handle returns the underlying OS socket handle.
func (s *TcpStream) Handle() int { return s.io.Handle() }

// Close deregisters and closes the socket.
func (s *TcpStream) Close(cx *reactor.Context) error {
	fd := s.io.Handle()
	err1 := s.io.Close(cx)
	err2 := closeHandle(fd)
	if err1 != nil {
		return err1
	}
	return err2
}

// recvScratchKey tags the shared RecvBuffer each Reactor lazily allocates
// the first time any Recv on it polls; see reactor.Reactor.Scratch.
type recvScratchKey struct{}

// Recv is the receive half of a stream: each successful Poll call yields a
// freshly drained ByteBuf of whatever was read this round. On EOF it
// yields StreamDone; on WouldBlock it schedules read and yields
// StreamPending.
//
// The actual read lands in a two-block buffer shared by every Recv on the
// same Reactor (see recvScratchKey) rather than a private growth buffer:
// one pre-allocated pair of blocks, reused and topped up across every
// connection's reads, instead of a fresh allocation per connection.
type Recv struct {
	stream *TcpStream
}

// NewRecv wraps stream's receive direction.
func NewRecv(stream *TcpStream) *Recv { return &Recv{stream: stream} }

func (r *Recv) Poll(cx *reactor.Context) (reactor.StreamPoll, *buf.ByteBuf, error) {
	rb, _ := cx.Reactor().Scratch(recvScratchKey{}, func() any { return buf.NewRecvBuffer() }).(*buf.RecvBuffer)

	out, err := rb.ReadIn(r.stream.conn)
	if err != nil {
		if errors.Is(err, io.EOF) {
			return reactor.StreamDone, nil, nil
		}
		if errors.Is(err, errWouldBlock) {
			if schedErr := r.stream.io.ScheduleRead(cx); schedErr != nil {
				return reactor.StreamPending, nil, schedErr
			}
			return reactor.StreamPending, nil, nil
		}
		return reactor.StreamPending, nil, pkgerrors.Wrap(err, "netio: recv")
	}
	return reactor.StreamReady, out, nil
}

// Sender is the send half of a stream: PollSend writes buf's unread Blocks
// one after another, with a separate write call per Block (no single
// vectored write), advancing its read position.
type Sender struct {
	stream *TcpStream
}

// NewSender wraps stream's send direction.
func NewSender(stream *TcpStream) *Sender { return &Sender{stream: stream} }

// PollSend writes as much of payload as the socket currently accepts. It
// returns Complete once payload is fully drained, Pending (after scheduling
// write) otherwise.
func (s *Sender) PollSend(cx *reactor.Context, payload *buf.ByteBuf) (reactor.Poll, error) {
	_, err := payload.WriteOut(s.stream.conn)
	if err != nil && !errors.Is(err, errWouldBlock) {
		return reactor.Pending, pkgerrors.Wrap(err, "netio: send")
	}
	if payload.IsEmpty() {
		if cancelErr := s.stream.io.CancelWrite(cx); cancelErr != nil {
			return reactor.Pending, cancelErr
		}
		return reactor.Complete, nil
	}
	if schedErr := s.stream.io.ScheduleWrite(cx); schedErr != nil {
		return reactor.Pending, schedErr
	}
	return reactor.Pending, nil
}

// Split returns independent Recv/Send halves backed by stream's one shared
// reactor registration (one Schedule, two directions).
func Split(stream *TcpStream) (*Recv, *Sender) {
	return NewRecv(stream), NewSender(stream)
}

// Detach deregisters the stream from cx's Reactor without closing the
// underlying socket, returning the raw handle so ownership can move to a
// different Reactor entirely — the handoff server's acceptor-to-worker
// dispatch needs, since a handle accepted on one goroutine's Reactor must
// end up registered with the worker goroutine's Reactor instead.
func (s *TcpStream) Detach(cx *reactor.Context) (int, error) {
	fd := s.io.Handle()
	if err := s.io.Close(cx); err != nil {
		return 0, err
	}
	return fd, nil
}

// AdoptStream rebinds a raw, already non-blocking socket handle (typically
// one produced by Detach on a different Reactor) to cx's Reactor.
func AdoptStream(cx *reactor.Context, fd int) (*TcpStream, error) {
	conn, err := newRawConn(fd)
	if err != nil {
		return nil, err
	}
	io, err := reactor.NewPollableIO(cx, fd, reactor.OpRead|reactor.OpWrite)
	if err != nil {
		return nil, err
	}
	return &TcpStream{io: io, conn: conn}, nil
}

// CloseFd closes a raw socket handle that was accepted or detached but
// never adopted by any Reactor (e.g. a connection dropped because every
// worker was saturated).
func CloseFd(fd int) error { return closeHandle(fd) }
