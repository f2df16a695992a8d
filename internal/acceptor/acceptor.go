// Package acceptor owns the listening socket: it accepts transparently
// redirected client connections, recovers each one's pre-redirect upstream
// address, dials the real server, and hands the pair to a fresh session.
//
// Grounded on la2go's internal/gameserver Server.Serve/acceptLoop for the
// per-connection goroutine shape (a context-cancellable accept loop that
// closes the listener on shutdown and isolates one connection's failure
// from the rest), adapted from la2go's client-terminates-on-port model to
// the proxy's transparent-redirect + dial-upstream model.
package acceptor

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"sync"
	"time"

	"github.com/udisondev/rotmguard-proxy/internal/assets"
	"github.com/udisondev/rotmguard-proxy/internal/config"
	"github.com/udisondev/rotmguard-proxy/internal/netutil"
	"github.com/udisondev/rotmguard-proxy/internal/report"
	"github.com/udisondev/rotmguard-proxy/internal/session"
)

// Acceptor listens for redirected client connections and spawns one
// session per accepted pair.
type Acceptor struct {
	ListenAddr string
	Catalog    assets.Catalog
	Settings   *config.Settings
	Damage     *report.Registry

	DialTimeout time.Duration

	mu sync.Mutex
	ln net.Listener
}

// Run binds ListenAddr and accepts until ctx is cancelled.
func (a *Acceptor) Run(ctx context.Context) error {
	ln, err := net.Listen("tcp", a.ListenAddr)
	if err != nil {
		return fmt.Errorf("acceptor: listen on %s: %w", a.ListenAddr, err)
	}
	a.mu.Lock()
	a.ln = ln
	a.mu.Unlock()

	go func() {
		<-ctx.Done()
		ln.Close()
	}()

	slog.Info("acceptor: listening", "addr", ln.Addr())

	var wg sync.WaitGroup
	for {
		conn, err := ln.Accept()
		if err != nil {
			if errors.Is(err, net.ErrClosed) {
				break
			}
			slog.Error("acceptor: accept failed", "err", err)
			continue
		}

		wg.Add(1)
		go func() {
			defer wg.Done()
			a.handle(ctx, conn)
		}()
	}

	wg.Wait()
	return nil
}

// handle dials the connection's original destination and runs a session
// over the pair. Any failure here is logged and isolated: it never
// propagates back to the accept loop, per the spec's "one bad connection
// does not take down the proxy" requirement.
func (a *Acceptor) handle(ctx context.Context, clientConn net.Conn) {
	defer clientConn.Close()

	tcpConn, ok := clientConn.(*net.TCPConn)
	if !ok {
		slog.Error("acceptor: accepted connection is not TCP")
		return
	}

	dst, err := netutil.OriginalDestination(tcpConn)
	if err != nil {
		slog.Error("acceptor: original destination lookup failed", "err", err)
		return
	}

	dialTimeout := a.DialTimeout
	if dialTimeout <= 0 {
		dialTimeout = 5 * time.Second
	}
	dialCtx, cancel := context.WithTimeout(ctx, dialTimeout)
	defer cancel()

	var d net.Dialer
	serverConn, err := d.DialContext(dialCtx, "tcp", dst.String())
	if err != nil {
		slog.Error("acceptor: dial upstream failed", "upstream", dst, "err", err)
		return
	}
	defer serverConn.Close()

	slog.Info("acceptor: session starting", "client", clientConn.RemoteAddr(), "upstream", dst)

	sess := session.New(clientConn, serverConn, a.Catalog, a.Settings, a.Damage, time.Now().UnixNano())
	if err := sess.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		slog.Warn("acceptor: session ended", "err", err)
	}
}
