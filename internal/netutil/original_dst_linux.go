//go:build linux

// Package netutil retrieves the pre-redirect destination address of a
// transparently-redirected TCP socket — the one OS-specific piece of
// plumbing the Acceptor needs and spec §6.2 treats as an external
// interface the core only consumes.
//
// Grounded on runZeroInc-sockstats' pkg/tcpinfo/tcpinfo_linux.go for the
// getsockopt-via-x/sys/unix idiom (explicit socket-option level/name
// constants, a fixed-size result struct read through unsafe.Pointer via
// unix.Syscall6, and errno mapped to a wrapped error) applied here to
// SOL_IP/SO_ORIGINAL_DST instead of SOL_TCP/TCP_INFO.
package netutil

import (
	"fmt"
	"net"
	"net/netip"
	"unsafe"

	"golang.org/x/sys/unix"
)

const (
	solIP         = 0
	soOriginalDst = 80 // linux/netfilter_ipv4.h
)

// rawSockaddrIn mirrors struct sockaddr_in as SO_ORIGINAL_DST returns it:
// 2 bytes family, 2 bytes port (network byte order), 4 bytes IPv4
// address, 8 bytes padding.
type rawSockaddrIn struct {
	family uint16
	port   uint16
	addr   [4]byte
	zero   [8]byte
}

// OriginalDestination queries the iptables/nftables REDIRECT target's
// remembered pre-NAT destination for an accepted *net.TCPConn.
func OriginalDestination(conn *net.TCPConn) (netip.AddrPort, error) {
	sc, err := conn.SyscallConn()
	if err != nil {
		return netip.AddrPort{}, fmt.Errorf("netutil: syscall conn: %w", err)
	}

	var result rawSockaddrIn
	var sockErr error
	ctrlErr := sc.Control(func(fd uintptr) {
		length := uint32(unsafe.Sizeof(result))
		_, _, errno := unix.Syscall6(
			unix.SYS_GETSOCKOPT,
			fd,
			uintptr(solIP),
			uintptr(soOriginalDst),
			uintptr(unsafe.Pointer(&result)),
			uintptr(unsafe.Pointer(&length)),
			0,
		)
		if errno != 0 {
			sockErr = fmt.Errorf("netutil: getsockopt SO_ORIGINAL_DST: %w", errno)
		}
	})
	if ctrlErr != nil {
		return netip.AddrPort{}, fmt.Errorf("netutil: control: %w", ctrlErr)
	}
	if sockErr != nil {
		return netip.AddrPort{}, sockErr
	}

	port := uint16(result.port)>>8 | uint16(result.port)<<8 // network -> host order
	ip := netip.AddrFrom4(result.addr)
	return netip.AddrPortFrom(ip, port), nil
}
