package netio

import (
	"fmt"
	"net"

	"github.com/pkg/errors"

	"github.com/joeycumines/go-nexio/reactor"
)

type connectState int

const (
	connecting connectState = iota
	finishing
	connected
	connectDone
)

// Connector drives the non-blocking connect(addr) state machine:
// {Connecting, Finishing, Connected, Error, Done}. Once the connect
// succeeds Poll returns (Complete, nil), with Stream() then valid; a
// connect failure is returned as an error and the Connector is done.
// Further Poll calls on a done Connector return (Complete, nil).
type Connector struct {
	addr  *net.TCPAddr
	state connectState
	io    *reactor.PollableIO
	conn  *rawConn
}

// NewConnector starts a non-blocking connect to addr. The OS connect call
// is issued immediately; Poll must still be called to drive it to
// completion.
func NewConnector(cx *reactor.Context, addr *net.TCPAddr) (*Connector, error) {
	fd, inProgress, err := dialSocket(addr)
	if err != nil {
		return nil, errors.Wrap(err, "netio: connect")
	}
	io, err := reactor.NewPollableIO(cx, fd, 0)
	if err != nil {
		_ = closeHandle(fd)
		return nil, err
	}
	conn, err := newRawConn(fd)
	if err != nil {
		_ = closeHandle(fd)
		return nil, err
	}
	c := &Connector{addr: addr, io: io, conn: conn}
	if inProgress {
		c.state = connecting
	} else {
		c.state = connected
	}
	return c, nil
}

func (c *Connector) Poll(cx *reactor.Context) (reactor.Poll, error) {
	switch c.state {
	case connecting:
		if err := c.io.ScheduleWrite(cx); err != nil {
			return reactor.Pending, err
		}
		c.state = finishing
		return reactor.Pending, nil
	case finishing:
		if !c.io.IsWriteReady(cx) {
			return reactor.Pending, nil
		}
		if err := socketError(c.io.Handle()); err != nil {
			if err == errWouldBlock {
				if schedErr := c.io.ScheduleWrite(cx); schedErr != nil {
					return reactor.Pending, schedErr
				}
				return reactor.Pending, nil
			}
			c.state = connectDone
			return reactor.Complete, errors.Wrap(fmt.Errorf("%w: %w", ErrConnectFailed, err), "netio: connect")
		}
		c.state = connected
		return reactor.Complete, nil
	case connected:
		c.state = connectDone
		return reactor.Complete, nil
	default:
		return reactor.Complete, nil
	}
}

// Stream returns the connected TcpStream. Only valid after Poll reports
// Complete with a nil error.
func (c *Connector) Stream() *TcpStream {
	return &TcpStream{io: c.io, conn: c.conn}
}
