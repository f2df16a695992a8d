// Command rotmguardproxy is the transparent MITM proxy's entry point:
// load configuration, build the read-only asset catalog and the shared
// damage registry, then run the acceptor until interrupted.
//
// Grounded on la2go's cmd/gameserver/main.go for the overall shape (set
// up logging first, with the level taken from the -log-level flag, then
// load config; install a signal-triggered context.CancelFunc; run the
// top-level error through os.Exit), scaled down to the proxy's single
// listener instead of gameserver's three.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"log/slog"

	"golang.org/x/sync/errgroup"

	"github.com/udisondev/rotmguard-proxy/internal/acceptor"
	"github.com/udisondev/rotmguard-proxy/internal/assets"
	"github.com/udisondev/rotmguard-proxy/internal/config"
	"github.com/udisondev/rotmguard-proxy/internal/report"
)

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		slog.Info("rotmguardproxy: shutting down", "signal", sig)
		cancel()
	}()

	if err := run(ctx); err != nil {
		slog.Error("rotmguardproxy: fatal", "err", err)
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	var (
		configPath = flag.String("config", "config/rotmguard.toml", "path to the proxy's TOML config")
		listenAddr = flag.String("listen", ":2050", "address to accept redirected client connections on")
		logLevel   = flag.String("log-level", "info", "debug|info|warn|error")
	)
	flag.Parse()

	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: parseLogLevel(*logLevel),
	})))

	settings, err := config.Load(*configPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	slog.Info("rotmguardproxy: config loaded", "path", *configPath, "autonexus_hp", settings.AutonexusHP())

	catalog, err := assets.Load(settings.AssetsRes)
	if err != nil {
		slog.Warn("rotmguardproxy: asset catalog load failed, falling back to empty catalog", "err", err)
		catalog = &assets.Static{}
	}

	damage := report.New()

	acc := &acceptor.Acceptor{
		ListenAddr: *listenAddr,
		Catalog:    catalog,
		Settings:   settings,
		Damage:     damage,
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		slog.Info("rotmguardproxy: starting", "listen", *listenAddr)
		return acc.Run(gctx)
	})
	g.Go(func() error {
		return runDamageStatsLoop(gctx, damage, 30*time.Second)
	})

	return g.Wait()
}

// runDamageStatsLoop periodically logs the damage registry's size so an
// operator watching the process log can see /dmg has live data without
// standing up the (out-of-scope) HTML report server.
func runDamageStatsLoop(ctx context.Context, damage *report.Registry, interval time.Duration) error {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			entries := damage.Snapshot()
			if len(entries) == 0 {
				continue
			}
			var total int64
			for _, e := range entries {
				total += e.TotalDealt
			}
			slog.Debug("rotmguardproxy: damage registry", "tracked", len(entries), "total_dealt", total)
		}
	}
}

func parseLogLevel(level string) slog.Level {
	switch level {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
