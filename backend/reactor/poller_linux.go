//go:build linux
// +build linux

// File: backend/reactor/poller_linux.go
// Author: momentics <momentics@gmail.com>
//
// epoll(7) readiness poller used to await non-blocking connects.

package reactor

import (
	"context"
	"os"
	"time"

	"golang.org/x/sys/unix"
)

// pollSlice bounds a single epoll_wait so ctx is observed promptly.
const pollSlice = 20 * time.Millisecond

// poller is a single-shot epoll instance.
type poller struct {
	epfd int
}

func newPoller() (*poller, error) {
	epfd, err := unix.EpollCreate1(unix.EPOLL_CLOEXEC)
	if err != nil {
		return nil, os.NewSyscallError("epoll_create1", err)
	}
	return &poller{epfd: epfd}, nil
}

// registerWrite watches fd for writability.
func (p *poller) registerWrite(fd int) error {
	event := &unix.EpollEvent{
		Events: unix.EPOLLOUT | unix.EPOLLERR | unix.EPOLLHUP,
		Fd:     int32(fd),
	}
	if err := unix.EpollCtl(p.epfd, unix.EPOLL_CTL_ADD, fd, event); err != nil {
		return os.NewSyscallError("epoll_ctl", err)
	}
	return nil
}

// wait blocks until a registered fd is ready or ctx ends.
func (p *poller) wait(ctx context.Context) error {
	deadline, hasDeadline := ctx.Deadline()
	events := make([]unix.EpollEvent, 1)
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		slice := pollSlice
		if hasDeadline {
			remaining := time.Until(deadline)
			if remaining <= 0 {
				return context.DeadlineExceeded
			}
			if remaining < slice {
				slice = remaining
			}
		}
		ms := int((slice + time.Millisecond - 1) / time.Millisecond)
		n, err := unix.EpollWait(p.epfd, events, ms)
		if err == unix.EINTR {
			continue
		}
		if err != nil {
			return os.NewSyscallError("epoll_wait", err)
		}
		if n > 0 {
			return nil
		}
	}
}

func (p *poller) close() error {
	return unix.Close(p.epfd)
}
