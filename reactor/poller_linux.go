//go:build linux

package reactor

import "golang.org/x/sys/unix"

// epollPoller is the Linux poller: a thin epoll wrapper with no internal
// synchronization, since a Reactor's poller is only ever touched by the
// Reactor's own goroutine.
type epollPoller struct {
	epfd    int
	scratch [256]unix.EpollEvent
}

func newPlatformPoller() (poller, error) {
	epfd, err := unix.EpollCreate1(unix.EPOLL_CLOEXEC)
	if err != nil {
		return nil, err
	}
	return &epollPoller{epfd: epfd}, nil
}

func opsToEpoll(o Ops) uint32 {
	var e uint32
	if o.Has(OpRead) {
		e |= unix.EPOLLIN
	}
	if o.Has(OpWrite) {
		e |= unix.EPOLLOUT
	}
	return e
}

func epollToOps(e uint32) Ops {
	var o Ops
	if e&(unix.EPOLLIN|unix.EPOLLHUP|unix.EPOLLERR) != 0 {
		o |= OpRead
	}
	if e&(unix.EPOLLOUT|unix.EPOLLERR) != 0 {
		o |= OpWrite
	}
	return o
}

func (p *epollPoller) register(handle int, interest Ops, token Token) error {
	ev := unix.EpollEvent{Events: opsToEpoll(interest), Fd: int32(token)}
	return unix.EpollCtl(p.epfd, unix.EPOLL_CTL_ADD, handle, &ev)
}

func (p *epollPoller) reregister(handle int, interest Ops, token Token) error {
	ev := unix.EpollEvent{Events: opsToEpoll(interest), Fd: int32(token)}
	return unix.EpollCtl(p.epfd, unix.EPOLL_CTL_MOD, handle, &ev)
}

func (p *epollPoller) deregister(handle int) error {
	return unix.EpollCtl(p.epfd, unix.EPOLL_CTL_DEL, handle, nil)
}

func (p *epollPoller) poll(events []Event, timeoutMillis int) ([]Event, error) {
	n, err := unix.EpollWait(p.epfd, p.scratch[:], timeoutMillis)
	if err != nil {
		if err == unix.EINTR {
			return events, nil
		}
		return events, err
	}
	for i := 0; i < n; i++ {
		events = append(events, Event{
			Ready: epollToOps(p.scratch[i].Events),
			Token: Token(p.scratch[i].Fd),
		})
	}
	return events, nil
}

func (p *epollPoller) close() error {
	return unix.Close(p.epfd)
}
