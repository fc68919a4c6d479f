//go:build darwin || freebsd || netbsd || openbsd || dragonfly

package reactor

import (
	"unsafe"

	"golang.org/x/sys/unix"
)

// kqueuePoller is the BSD/macOS poller: kqueue with one filter registration
// per direction, since kqueue (unlike epoll) encodes direction by filter
// identity rather than by an event bitmask. No locking guards the
// registration set; see poller.go for why that's safe.
type kqueuePoller struct {
	kq      int
	scratch [256]unix.Kevent_t
}

func newPlatformPoller() (poller, error) {
	kq, err := unix.Kqueue()
	if err != nil {
		return nil, err
	}
	return &kqueuePoller{kq: kq}, nil
}

func tokenToUdata(t Token) *byte { return (*byte)(unsafe.Pointer(uintptr(t))) }

func udataToToken(p *byte) Token { return Token(uintptr(unsafe.Pointer(p))) }

func (p *kqueuePoller) applyFilter(handle int, filter int16, flags uint16, token Token) error {
	ev := unix.Kevent_t{
		Ident:  uint64(handle),
		Filter: filter,
		Flags:  flags,
		Udata:  tokenToUdata(token),
	}
	_, err := unix.Kevent(p.kq, []unix.Kevent_t{ev}, nil, nil)
	return err
}

func (p *kqueuePoller) register(handle int, interest Ops, token Token) error {
	return p.reregister(handle, interest, token)
}

func (p *kqueuePoller) reregister(handle int, interest Ops, token Token) error {
	readFlags := uint16(unix.EV_DELETE)
	if interest.Has(OpRead) {
		readFlags = unix.EV_ADD | unix.EV_CLEAR
	}
	if err := p.applyFilter(handle, unix.EVFILT_READ, readFlags, token); err != nil && readFlags != unix.EV_DELETE {
		return err
	}

	writeFlags := uint16(unix.EV_DELETE)
	if interest.Has(OpWrite) {
		writeFlags = unix.EV_ADD | unix.EV_CLEAR
	}
	if err := p.applyFilter(handle, unix.EVFILT_WRITE, writeFlags, token); err != nil && writeFlags != unix.EV_DELETE {
		return err
	}
	return nil
}

func (p *kqueuePoller) deregister(handle int) error {
	_ = p.applyFilter(handle, unix.EVFILT_READ, unix.EV_DELETE, 0)
	_ = p.applyFilter(handle, unix.EVFILT_WRITE, unix.EV_DELETE, 0)
	return nil
}

func (p *kqueuePoller) poll(events []Event, timeoutMillis int) ([]Event, error) {
	var ts *unix.Timespec
	if timeoutMillis >= 0 {
		ts = &unix.Timespec{
			Sec:  int64(timeoutMillis / 1000),
			Nsec: int64(timeoutMillis%1000) * 1e6,
		}
	}
	n, err := unix.Kevent(p.kq, nil, p.scratch[:], ts)
	if err != nil {
		if err == unix.EINTR {
			return events, nil
		}
		return events, err
	}
	for i := 0; i < n; i++ {
		kev := p.scratch[i]
		var ready Ops
		switch kev.Filter {
		case unix.EVFILT_READ:
			ready = OpRead
		case unix.EVFILT_WRITE:
			ready = OpWrite
		}
		if kev.Flags&unix.EV_EOF != 0 {
			ready |= OpRead | OpWrite
		}
		events = append(events, Event{Ready: ready, Token: udataToToken(kev.Udata)})
	}
	return events, nil
}

func (p *kqueuePoller) close() error {
	return unix.Close(p.kq)
}
