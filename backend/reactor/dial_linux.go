//go:build linux
// +build linux

// File: backend/reactor/dial_linux.go
// Author: momentics <momentics@gmail.com>
//
// Non-blocking socket connects driven by the epoll poller. The connected
// descriptor is handed to the Go runtime through net.FileConn.

package reactor

import (
	"context"
	"net"
	"os"
	"strconv"

	"golang.org/x/sys/unix"

	"github.com/momentics/hioload-rt/api"
	"github.com/momentics/hioload-rt/internal/netstream"
)

func dialTCP(ctx context.Context, host string, port int, local *net.TCPAddr) (net.Conn, error) {
	addrs, err := resolve(ctx, host)
	if err != nil {
		return nil, err
	}
	var firstErr error
	for _, addr := range addrs {
		if local != nil && (local.IP.To4() == nil) != (addr.IP.To4() == nil) {
			continue
		}
		conn, err := connectIP(ctx, addr, port, local)
		if err == nil {
			return conn, nil
		}
		if firstErr == nil {
			firstErr = err
		}
		if ctx.Err() != nil {
			break
		}
	}
	if firstErr == nil {
		firstErr = &net.AddrError{Err: "no address matching the local address family", Addr: host}
	}
	return nil, firstErr
}

func resolve(ctx context.Context, host string) ([]net.IPAddr, error) {
	addr, zone := netstream.SplitZone(host)
	if ip := net.ParseIP(addr); ip != nil {
		return []net.IPAddr{{IP: ip, Zone: zone}}, nil
	}
	return net.DefaultResolver.LookupIPAddr(ctx, host)
}

// zoneID maps an interface name or numeric zone to its index.
func zoneID(zone string) (uint32, error) {
	if zone == "" {
		return 0, nil
	}
	if ifi, err := net.InterfaceByName(zone); err == nil {
		return uint32(ifi.Index), nil
	}
	n, err := strconv.ParseUint(zone, 10, 32)
	if err != nil {
		return 0, &net.AddrError{Err: "unknown zone", Addr: zone}
	}
	return uint32(n), nil
}

func sockaddr(ip net.IP, zone string, port int) (int, unix.Sockaddr, error) {
	if v4 := ip.To4(); v4 != nil {
		sa := &unix.SockaddrInet4{Port: port}
		copy(sa.Addr[:], v4)
		return unix.AF_INET, sa, nil
	}
	id, err := zoneID(zone)
	if err != nil {
		return 0, nil, err
	}
	sa := &unix.SockaddrInet6{Port: port, ZoneId: id}
	copy(sa.Addr[:], ip.To16())
	return unix.AF_INET6, sa, nil
}

func connectIP(ctx context.Context, addr net.IPAddr, port int, local *net.TCPAddr) (net.Conn, error) {
	family, sa, err := sockaddr(addr.IP, addr.Zone, port)
	if err != nil {
		return nil, err
	}
	var lsa unix.Sockaddr
	if local != nil {
		if _, lsa, err = sockaddr(local.IP, local.Zone, local.Port); err != nil {
			return nil, err
		}
	}
	fd, err := unix.Socket(family, unix.SOCK_STREAM|unix.SOCK_NONBLOCK|unix.SOCK_CLOEXEC, unix.IPPROTO_TCP)
	if err != nil {
		return nil, os.NewSyscallError("socket", err)
	}
	if lsa != nil {
		if err := unix.Bind(fd, lsa); err != nil {
			_ = unix.Close(fd)
			return nil, os.NewSyscallError("bind", err)
		}
	}
	if err := connectFD(ctx, fd, sa); err != nil {
		_ = unix.Close(fd)
		return nil, err
	}
	_ = unix.SetsockoptInt(fd, unix.IPPROTO_TCP, unix.TCP_NODELAY, 1)
	return fileConn(fd, "tcp")
}

func dialUnix(ctx context.Context, path string) (net.Conn, error) {
	fd, err := unix.Socket(unix.AF_UNIX, unix.SOCK_STREAM|unix.SOCK_NONBLOCK|unix.SOCK_CLOEXEC, 0)
	if err != nil {
		return nil, os.NewSyscallError("socket", err)
	}
	if err := connectFD(ctx, fd, &unix.SockaddrUnix{Name: path}); err != nil {
		_ = unix.Close(fd)
		return nil, err
	}
	return fileConn(fd, "unix")
}

// connectFD starts a non-blocking connect and waits for it to settle.
func connectFD(ctx context.Context, fd int, sa unix.Sockaddr) error {
	switch err := unix.Connect(fd, sa); err {
	case nil:
		return nil
	case unix.EINPROGRESS, unix.EALREADY, unix.EINTR:
	default:
		return os.NewSyscallError("connect", err)
	}

	p, err := newPoller()
	if err != nil {
		return err
	}
	defer p.close()
	if err := p.registerWrite(fd); err != nil {
		return err
	}
	if err := p.wait(ctx); err != nil {
		return err
	}

	soErr, err := unix.GetsockoptInt(fd, unix.SOL_SOCKET, unix.SO_ERROR)
	if err != nil {
		return os.NewSyscallError("getsockopt", err)
	}
	if soErr != 0 {
		return os.NewSyscallError("connect", unix.Errno(soErr))
	}
	return nil
}

// fileConn transfers fd to the netpoller. fd is closed in every case.
func fileConn(fd int, name string) (net.Conn, error) {
	f := os.NewFile(uintptr(fd), name)
	defer f.Close()
	conn, err := net.FileConn(f)
	if err != nil {
		return nil, api.Wrap(api.ErrConnect, err)
	}
	return conn, nil
}
