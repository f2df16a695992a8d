// Package session ties every other package together into one running
// proxied connection: it owns the two FramedReaders, the two
// FramedWriters, the world mirror, and the module state, and drives the
// single-threaded cooperative select loop the spec's concurrency model
// describes.
//
// Grounded on la2go's server.go/client.go for the goroutine-per-direction
// shape (a session task plus per-direction writer goroutines talking over
// channels) and on the original proxy's proxy.rs Proxy::run for the
// select-and-flush-on-certain-ids loop this reimplements without tokio.
package session

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/google/uuid"

	"github.com/udisondev/rotmguard-proxy/internal/assets"
	"github.com/udisondev/rotmguard-proxy/internal/autonexus"
	"github.com/udisondev/rotmguard-proxy/internal/cheats"
	"github.com/udisondev/rotmguard-proxy/internal/commands"
	"github.com/udisondev/rotmguard-proxy/internal/config"
	"github.com/udisondev/rotmguard-proxy/internal/projectile"
	"github.com/udisondev/rotmguard-proxy/internal/protocol"
	"github.com/udisondev/rotmguard-proxy/internal/report"
	"github.com/udisondev/rotmguard-proxy/internal/world"
)

// Session owns one client<->server pair end to end. All of its state is
// touched only from the goroutine that calls Run; the reader and writer
// goroutines it spawns communicate purely through channels, matching the
// spec's "world mirror is exclusively owned by the session task" rule.
type Session struct {
	id string

	clientConn io.ReadWriteCloser
	serverConn io.ReadWriteCloser

	clientReader *protocol.FramedReader
	serverReader *protocol.FramedReader
	clientWriter *protocol.FramedWriter
	serverWriter *protocol.FramedWriter

	world     *world.State
	bullets   *projectile.Cache
	autonexus *autonexus.Autonexus
	catalog   assets.Catalog
	settings  *config.Settings
	cmds      *commands.Handler
	antiPush  *cheats.AntiPush
	fakeSlow  *cheats.FakeSlow
	damage    *report.Registry
	roller    *projectile.DamageRoller
}

// New wires a fresh session over already-connected client/server
// half-duplex connections. catalog and settings are shared, immutable (or
// internally-locked) collaborators; everything else is private to this
// session.
func New(clientConn, serverConn io.ReadWriteCloser, catalog assets.Catalog, settings *config.Settings, damage *report.Registry, seed int64) *Session {
	w := world.NewState()
	bullets := projectile.NewCache()

	s := &Session{
		id:           uuid.NewString(),
		clientConn:   clientConn,
		serverConn:   serverConn,
		// Key choice follows the wire direction, not which socket the
		// proxy happens to be reading/writing: bytes arriving from the
		// client (impersonating a client->server write) are ciphered with
		// ClientKey regardless of endpoint, and bytes the proxy sends on
		// to the client (impersonating the server's reply) are ciphered
		// with ServerKey — and symmetrically for the server socket.
		clientReader: protocol.NewFramedReader(clientConn, protocol.ClientKey[:]),
		serverReader: protocol.NewFramedReader(serverConn, protocol.ServerKey[:]),
		clientWriter: protocol.NewFramedWriter(clientConn, protocol.ServerKey[:], protocol.ServerToClient),
		serverWriter: protocol.NewFramedWriter(serverConn, protocol.ClientKey[:], protocol.ClientToServer),
		world:        w,
		bullets:      bullets,
		catalog:      catalog,
		settings:     settings,
		cmds:         commands.New(settings),
		antiPush:     cheats.NewAntiPush(catalogAdapter{catalog}),
		fakeSlow:     cheats.NewFakeSlow(),
		damage:       damage,
		roller:       projectile.NewDamageRoller(seed),
	}
	s.autonexus = autonexus.New(w, bullets, autonexusCatalogAdapter{catalog}, settings.AutonexusHP())
	return s
}

type catalogAdapter struct{ assets.Catalog }

func (c catalogAdapter) IsPushingTile(t uint16) bool   { return c.Catalog.IsPushingTile(t) }
func (c catalogAdapter) StickyGroundTile() uint16      { return c.Catalog.StickyGroundTile() }

type autonexusCatalogAdapter struct{ assets.Catalog }

func (c autonexusCatalogAdapter) HazardDamage(t uint16) (int64, bool) {
	return c.Catalog.HazardDamage(t)
}

type rawPacket struct {
	id   uint8
	body []byte
	err  error
}

// Run drives the session until either direction's writer exits or a
// reader returns a fatal error. It returns nil when either writer exits,
// ctx.Err() when ctx is cancelled, and a wrapped error when a reader or a
// handler fails.
func (s *Session) Run(ctx context.Context) error {
	clientCh := make(chan rawPacket, 1)
	serverCh := make(chan rawPacket, 1)

	go readLoop(s.clientReader, clientCh)
	go readLoop(s.serverReader, serverCh)

	defer s.clientWriter.Close()
	defer s.serverWriter.Close()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case <-s.clientWriter.Done():
			return nil
		case <-s.serverWriter.Done():
			return nil

		case pkt := <-clientCh:
			if pkt.err != nil {
				return fmt.Errorf("session %s: client read: %w", s.id, pkt.err)
			}
			if err := s.handleClient(ctx, pkt.id, pkt.body); err != nil {
				return fmt.Errorf("session %s: %w", s.id, err)
			}

		case pkt := <-serverCh:
			if pkt.err != nil {
				return fmt.Errorf("session %s: server read: %w", s.id, pkt.err)
			}
			if err := s.handleServer(ctx, pkt.id, pkt.body); err != nil {
				return fmt.Errorf("session %s: %w", s.id, err)
			}
		}
	}
}

// readLoop repeatedly fills r's buffer and drains every complete packet
// it yields into ch, so Run's select sees one message per packet rather
// than per socket read.
func readLoop(r *protocol.FramedReader, ch chan<- rawPacket) {
	for {
		if err := r.ReadMore(); err != nil {
			ch <- rawPacket{err: err}
			return
		}
		for {
			body, err := r.TryGetPacket()
			if err != nil {
				ch <- rawPacket{err: err}
				return
			}
			if body == nil {
				break
			}
			ch <- rawPacket{id: body[0], body: body[1:]}
		}
	}
}

func (s *Session) logger() *slog.Logger {
	return slog.With("session", s.id)
}
