//go:build windows

package reactor

import (
	"golang.org/x/sys/windows"
)

// iocpPoller is the Windows poller. Unlike epoll/kqueue, IOCP is a
// completion port, not a readiness multiplexer: register associates a
// handle with the port once, and every event delivered through poll is the
// result of a previously-submitted overlapped operation rather than a
// level/edge readiness notification. The PollableIo layer is responsible for
// keeping an overlapped read and/or write outstanding on every registered
// handle; this poller only shuttles the completions through, matching their
// Token back to the caller. No locking guards the port handle, for the same
// single-goroutine reason as the other platform pollers.
type iocpPoller struct {
	iocp    windows.Handle
	scratch [256]windows.OverlappedEntry
}

func newPlatformPoller() (poller, error) {
	iocp, err := windows.CreateIoCompletionPort(windows.InvalidHandle, 0, 0, 0)
	if err != nil {
		return nil, err
	}
	return &iocpPoller{iocp: iocp}, nil
}

func (p *iocpPoller) register(handle int, interest Ops, token Token) error {
	_, err := windows.CreateIoCompletionPort(windows.Handle(handle), p.iocp, uintptr(token), 0)
	return err
}

// reregister is a no-op on IOCP: the completion key chosen at association
// time (register) is permanent for the life of the handle. Interest is
// expressed per-call by which overlapped operation PollableIo keeps
// outstanding, not by a standing registration.
func (p *iocpPoller) reregister(handle int, interest Ops, token Token) error { return nil }

// deregister is a no-op: IOCP associations are torn down by closing the
// handle itself, there is no separate detach call.
func (p *iocpPoller) deregister(handle int) error { return nil }

func (p *iocpPoller) poll(events []Event, timeoutMillis int) ([]Event, error) {
	timeout := uint32(windows.INFINITE)
	if timeoutMillis >= 0 {
		timeout = uint32(timeoutMillis)
	}
	var n uint32
	err := windows.GetQueuedCompletionStatusEx(p.iocp, p.scratch[:], &n, timeout, false)
	if err != nil {
		if err == windows.WAIT_TIMEOUT {
			return events, nil
		}
		return events, err
	}
	for i := uint32(0); i < n; i++ {
		entry := p.scratch[i]
		token := Token(entry.CompletionKey)
		if token == wakeToken {
			events = append(events, Event{Token: wakeToken})
			continue
		}
		// A completed overlapped operation is always a finished read or
		// write; which one is encoded by the caller via the Overlapped
		// pointer's owning request, not by this poller.
		events = append(events, Event{Ready: OpRead | OpWrite, Token: token})
	}
	return events, nil
}

func (p *iocpPoller) close() error {
	return windows.CloseHandle(p.iocp)
}

func postCompletion(iocp windows.Handle, key uintptr) error {
	return windows.PostQueuedCompletionStatus(iocp, 0, key, nil)
}
