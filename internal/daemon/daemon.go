// Package daemon runs the tiling engine against a live X11 session.
package daemon

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/1broseidon/bismuth/internal/config"
	"github.com/1broseidon/bismuth/internal/controller"
	"github.com/1broseidon/bismuth/internal/engine"
	"github.com/1broseidon/bismuth/internal/hotkeys"
	"github.com/1broseidon/bismuth/internal/ipc"
	"github.com/1broseidon/bismuth/internal/platform"
	"github.com/1broseidon/bismuth/internal/runtimepath"
)

// Options configure Run.
type Options struct {
	// ConfigPath overrides the XDG config location.
	ConfigPath string
	// Display overrides both the config file and $DISPLAY.
	Display string
	// Level receives the configured log level; nil leaves it alone.
	Level *slog.LevelVar
	Logger *slog.Logger
}

// Daemon owns the engine and every component feeding it. Engine state is
// only touched from the loop goroutine.
type Daemon struct {
	configPath string
	cfg        *config.Config
	level      *slog.LevelVar
	logger     *slog.Logger

	loop    *Loop
	layouts *engine.LayoutStore
	ctl     *controller.Controller
	sync    *StateSynchronizer
	keys    *hotkeys.Handler
	bound   map[string]string
}

// Run loads the configuration, connects to X11 and manages windows until
// ctx is cancelled or SIGINT/SIGTERM arrives. SIGHUP reloads the config.
func Run(ctx context.Context, opts Options) error {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	configPath := opts.ConfigPath
	if configPath == "" {
		p, err := config.DefaultConfigPath()
		if err != nil {
			return err
		}
		configPath = p
	}
	res, err := config.LoadFromPath(configPath)
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	cfg := res.Config
	applyLevel(opts.Level, cfg.LogLevel, logger)

	display := opts.Display
	if display == "" {
		display = cfg.Display
	}
	backend, err := platform.NewLinuxBackendFromDisplay(display)
	if err != nil {
		return err
	}
	defer backend.Disconnect()

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	loop := NewLoop(256, logger)
	go loop.Run(ctx)

	d := &Daemon{
		configPath: configPath,
		cfg:        cfg,
		level:      opts.Level,
		logger:     logger,
		loop:       loop,
	}

	driver := platform.NewDriver(backend, platform.DesktopNotifier(logger), logger)
	if err := d.build(driver, backend, backend); err != nil {
		return err
	}
	if err := loop.Do(ctx, d.sync.Start); err != nil {
		return fmt.Errorf("failed to adopt windows: %w", err)
	}
	if err := backend.Listen(func(ev platform.Event) {
		loop.Post(func() { d.sync.Handle(ev) })
	}); err != nil {
		return fmt.Errorf("failed to watch root window: %w", err)
	}

	d.keys = hotkeys.NewHandler(backend, func(action string) {
		loop.Post(func() { d.runAction(action) })
	}, controller.IsAction)
	if err := loop.Do(ctx, func() error { d.bindKeys(); return nil }); err != nil {
		return err
	}

	socketPath, err := runtimepath.SocketPath()
	if err != nil {
		return err
	}
	server, err := ipc.NewServer(socketPath, d)
	if err != nil {
		return fmt.Errorf("failed to create IPC server: %w", err)
	}
	if err := server.Start(); err != nil {
		return fmt.Errorf("failed to start IPC server: %w", err)
	}
	defer server.Stop()

	if watcher, err := NewConfigWatcher(configPath, func() {
		loop.Post(func() { d.logReload(d.reload()) })
	}, logger); err != nil {
		logger.Warn("config hot reload disabled", "error", err)
	} else {
		go watcher.Run(ctx)
	}

	reconciler := NewReconciler(ReconcilerConfig{
		Interval: 10 * time.Second,
		Logger:   logger,
	}, loop.Post, d.sync.Reconcile)
	go reconciler.Run(ctx)

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM, syscall.SIGHUP)
	defer signal.Stop(sigCh)

	go func() {
		for {
			select {
			case <-ctx.Done():
				backend.StopEventLoop()
				return
			case sig := <-sigCh:
				if sig == syscall.SIGHUP {
					logger.Info("received SIGHUP, reloading config")
					loop.Post(func() { d.logReload(d.reload()) })
					continue
				}
				logger.Info("shutting down", "signal", sig.String())
				cancel()
			}
		}
	}()

	logger.Info("bismuth daemon started", "socket", socketPath, "config", configPath)
	backend.EventLoop()
	return nil
}

// build creates the engine stack from the current config.
func (d *Daemon) build(driver *platform.Driver, backend platform.Backend, events platform.EventSource) error {
	layouts, err := d.cfg.NewLayoutStore()
	if err != nil {
		return err
	}
	d.layouts = layouts
	e := engine.New(driver, layouts, d.cfg.EngineOptions(), d.logger)
	d.ctl = controller.New(e, rulesFrom(d.cfg), d.logger)
	d.sync = NewStateSynchronizer(backend, events, driver, d.ctl, func(fn func()) { d.loop.Post(fn) }, d.logger)
	return nil
}

func rulesFrom(cfg *config.Config) controller.Rules {
	return controller.Rules{
		FloatClasses:  cfg.FloatClasses,
		IgnoreClasses: cfg.IgnoreClasses,
	}
}

func (d *Daemon) runAction(name string) {
	if err := d.ctl.RunAction(name); err != nil {
		d.logger.Warn("action failed", "action", name, "error", err)
	}
}

func (d *Daemon) bindKeys() {
	if d.keys == nil {
		return
	}
	d.bound = make(map[string]string)
	for _, b := range d.keys.Bind(d.cfg.Keybindings) {
		d.bound[b.Action] = b.Keys
	}
}

// reload re-reads the config file and applies it. The old config stays in
// effect when the new one is invalid.
func (d *Daemon) reload() error {
	res, err := config.LoadFromPath(d.configPath)
	if err != nil {
		return err
	}
	cfg := res.Config
	if err := cfg.ReconfigureLayouts(d.layouts); err != nil {
		return err
	}
	d.cfg = cfg
	applyLevel(d.level, cfg.LogLevel, d.logger)
	d.ctl.Engine().SetOptions(cfg.EngineOptions())
	d.ctl.SetRules(rulesFrom(cfg))
	d.bindKeys()
	d.ctl.Arrange()
	return nil
}

func (d *Daemon) logReload(err error) {
	if err != nil {
		d.logger.Error("config reload failed", "error", err)
		return
	}
	d.logger.Info("config reloaded", "path", d.configPath)
}

// ParseLevel maps a config log level to slog.
func ParseLevel(name string) (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(strings.TrimSpace(name))); err != nil {
		return slog.LevelInfo, fmt.Errorf("invalid log level %q", name)
	}
	return level, nil
}

func applyLevel(v *slog.LevelVar, name string, logger *slog.Logger) {
	if v == nil || name == "" {
		return
	}
	level, err := ParseLevel(name)
	if err != nil {
		logger.Warn("keeping log level", "error", err)
		return
	}
	v.Set(level)
}
