package netio

import (
	"net"

	"github.com/pkg/errors"

	"github.com/joeycumines/go-nexio/reactor"
)

// Accepted is one item an Incoming Stream yields: a freshly accepted,
// reactor-registered stream and the remote address it came from.
type Accepted struct {
	Stream *TcpStream
	Addr   net.Addr
}

// Incoming is a Stream yielding (TcpStream, SocketAddr) accepted off a
// listener. On WouldBlock it schedules read and returns StreamPending. state holds
// platform-specific in-flight accept bookkeeping (unused on Unix, an
// outstanding AcceptEx overlapped on Windows).
type Incoming struct {
	l     *TcpListener
	state any
}

func (in *Incoming) Poll(cx *reactor.Context) (reactor.StreamPoll, Accepted, error) {
	fd, addr, err := acceptOne(in)
	if err == errWouldBlock {
		if schedErr := in.l.io.ScheduleRead(cx); schedErr != nil {
			return reactor.StreamPending, Accepted{}, schedErr
		}
		return reactor.StreamPending, Accepted{}, nil
	}
	if err != nil {
		// A hard accept error (e.g. ECONNABORTED) can clear the listener
		// fd's readiness same as a successful accept would; re-arm read
		// interest here too, the same as the WouldBlock path above, so a
		// Pending-implying-a-scheduled-wake caller (acceptorTask.Poll) isn't
		// left parked with nothing to re-trigger it.
		if schedErr := in.l.io.ScheduleRead(cx); schedErr != nil {
			return reactor.StreamPending, Accepted{}, schedErr
		}
		return reactor.StreamPending, Accepted{}, errors.Wrap(err, "netio: accept")
	}

	conn, err := newRawConn(fd)
	if err != nil {
		_ = closeHandle(fd)
		return reactor.StreamPending, Accepted{}, err
	}
	io, err := reactor.NewPollableIO(cx, fd, reactor.OpRead|reactor.OpWrite)
	if err != nil {
		_ = closeHandle(fd)
		return reactor.StreamPending, Accepted{}, err
	}
	return reactor.StreamReady, Accepted{Stream: &TcpStream{io: io, conn: conn}, Addr: addr}, nil
}
