package server

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"github.com/zahedbri/e107/internal/action"
	"github.com/zahedbri/e107/internal/api"
	"github.com/zahedbri/e107/internal/bus"
	"github.com/zahedbri/e107/internal/web"
)

// Daemon is the e107d process.
type Daemon struct {
	cfg       Config
	logger    zerolog.Logger
	bus       *bus.Server
	engine    *action.Engine
	apiServer *api.Server
	webServer *web.Server
	startedAt time.Time
	stopCh    chan struct{}
}

// NewDaemon creates a Daemon from config.
func NewDaemon(cfg Config, logger zerolog.Logger) *Daemon {
	return &Daemon{
		cfg:    cfg,
		logger: logger,
		stopCh: make(chan struct{}),
	}
}

// Run starts all subsystems and blocks until a signal is received or Stop is called.
func (d *Daemon) Run() error {
	d.startedAt = time.Now()

	// 1. Start the embedded bus.
	b, err := bus.New(bus.Config{
		StoreDir: d.cfg.NATS.DataDir,
		Host:     d.cfg.NATS.Host,
		Port:     d.cfg.NATS.Port,
		Token:    d.cfg.NATS.Token,
	}, d.logger)
	if err != nil {
		return fmt.Errorf("start bus: %w", err)
	}
	d.bus = b

	// 2. Load action scripts.
	d.engine = action.New(d.cfg.Actions.Dir, d.cfg.Actions.HandlerTimeout, d.logger)
	if err := d.engine.LoadDir(); err != nil {
		b.Shutdown()
		return fmt.Errorf("load actions: %w", err)
	}
	if d.cfg.Actions.HotReload {
		if err := d.engine.StartWatcher(); err != nil {
			d.logger.Error().Err(err).Msg("action watcher failed, hot reload disabled")
		}
	}

	// 3. Start the control API.
	d.apiServer = api.New(d.cfg.Server.Socket, d.engine, d.startedAt, d.logger)
	apiErrCh := make(chan error, 1)
	go func() {
		apiErrCh <- d.apiServer.Start()
	}()

	// 4. Start the AJAX endpoint.
	publisher := bus.NewPublisher(b.Conn(), d.cfg.Security.BatchSecret, d.logger)
	d.webServer = web.New(web.Config{
		Listen:   d.cfg.Web.Listen,
		Username: d.cfg.Web.Username,
		Password: d.cfg.Web.Password,
	}, d.engine, publisher, b.Conn(), d.logger)
	webErrCh := make(chan error, 1)
	go func() {
		webErrCh <- d.webServer.Start()
	}()

	d.logger.Info().
		Str("socket", d.cfg.Server.Socket).
		Str("listen", d.cfg.Web.Listen).
		Msg("e107d started")

	// 5. Wait for signal, stop call, or server error.
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigCh:
		d.logger.Info().Str("signal", sig.String()).Msg("shutting down")
	case <-d.stopCh:
		d.logger.Info().Msg("stop requested, shutting down")
	case err := <-apiErrCh:
		if err != nil {
			d.logger.Error().Err(err).Msg("API server error")
		}
	case err := <-webErrCh:
		if err != nil {
			d.logger.Error().Err(err).Msg("web server error")
		}
	}

	return d.shutdown()
}

// Stop signals the daemon to shut down. Safe to call from another goroutine.
func (d *Daemon) Stop() {
	close(d.stopCh)
}

// BusClientURL returns the embedded bus client URL.
func (d *Daemon) BusClientURL() string {
	if d.bus == nil {
		return ""
	}
	return d.bus.ClientURL()
}

func (d *Daemon) shutdown() error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if d.webServer != nil {
		d.webServer.Shutdown(ctx)
	}
	if d.apiServer != nil {
		d.apiServer.Shutdown(ctx)
	}
	if d.engine != nil {
		d.engine.Stop()
	}
	if d.bus != nil {
		d.bus.Shutdown()
	}
	return nil
}
