// lumen is a terminal control panel for a progressive path tracer.
//
// Sliders edit the camera and render settings; every committed change is
// published to the engine, which picks it up on its next iteration and
// streams frames back into a live preview.
//
// Usage:
//
//	lumen [flags]
//
// Flags:
//
//	-config string    Path to configuration file (default: $XDG_CONFIG_HOME/lumen/config.toml)
//	-headless         Run the engine without the TUI
//	-frames int       Stop after N engine iterations (headless only)
//	-snapshot string  Write the last frame to this image file (headless only)
//	-aperture float   Startup aperture, clamped to [0, 1]
//	-fov float        Startup field of view, clamped to [10, 360]
//	-sky float        Startup sky intensity, clamped to [0, 1]
//	-verbose          Enable verbose logging
//	-version          Print version and exit
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/muesli/termenv"

	"gitlab.com/tinyland/lab/lumen/pkg/app"
	"gitlab.com/tinyland/lab/lumen/pkg/bridge"
	"gitlab.com/tinyland/lab/lumen/pkg/config"
	"gitlab.com/tinyland/lab/lumen/pkg/engine"
	"gitlab.com/tinyland/lab/lumen/pkg/input"
	"gitlab.com/tinyland/lab/lumen/pkg/panel"
	"gitlab.com/tinyland/lab/lumen/pkg/preview"
	"gitlab.com/tinyland/lab/lumen/pkg/scene"
	"gitlab.com/tinyland/lab/lumen/pkg/terminal"
	"gitlab.com/tinyland/lab/lumen/pkg/theme"
	"gitlab.com/tinyland/lab/lumen/pkg/tracer"
)

var (
	version = "0.1.0"
	commit  = "dev"
	date    = "unknown"
)

// engineStopTimeout bounds how long shutdown waits for the engine loop.
const engineStopTimeout = 2 * time.Second

// overrideFlags maps startup override flags to the field they set.
var overrideFlags = map[string]scene.Field{
	"aperture": scene.FieldAperture,
	"fov":      scene.FieldFieldOfView,
	"sky":      scene.FieldSkyIntensity,
}

func main() {
	var (
		configPath  = flag.String("config", "", "Path to configuration file")
		headless    = flag.Bool("headless", false, "Run the engine without the TUI")
		maxFrames   = flag.Uint64("frames", 0, "Stop after N engine iterations (headless only, 0 = until interrupted)")
		snapshot    = flag.String("snapshot", "", "Write the last frame to this image file (headless only)")
		aperture    = flag.Float64("aperture", 0, "Startup aperture")
		fov         = flag.Float64("fov", 0, "Startup field of view in degrees")
		sky         = flag.Float64("sky", 0, "Startup sky intensity")
		verbose     = flag.Bool("verbose", false, "Enable verbose logging")
		showVersion = flag.Bool("version", false, "Print version and exit")
	)
	flag.Parse()

	if *showVersion {
		fmt.Printf("lumen %s (%s) built %s\n", version, commit, date)
		os.Exit(0)
	}

	cfg, err := loadConfig(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "invalid config: %v\n", err)
		os.Exit(1)
	}

	// A TUI on a pipe is useless; fall back to headless.
	if !*headless && !terminal.IsTerminal(os.Stdout) {
		*headless = true
	}

	logger, closeLog, err := setupLogger(cfg.Log, *verbose, *headless)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to open log file: %v\n", err)
		os.Exit(1)
	}
	defer closeLog()
	slog.SetDefault(logger)

	startup := cfg.Scene()
	values := map[string]float64{"aperture": *aperture, "fov": *fov, "sky": *sky}
	flag.Visit(func(f *flag.Flag) {
		field, ok := overrideFlags[f.Name]
		if !ok {
			return
		}
		startup = applyOverride(startup, field, values[f.Name], logger)
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	b := bridge.New(startup)
	frames := bridge.NewSlot[tracer.Frame](nil)
	opts := tracer.Options{
		Hz:       cfg.Engine.Hz,
		Scale:    cfg.Engine.Scale,
		MaxDepth: cfg.Engine.MaxDepth,
		Samples:  cfg.Engine.Samples,
		Seed:     uint64(time.Now().UnixNano()),
	}

	if *headless {
		opts.MaxFrames = *maxFrames
		runHeadless(ctx, cfg, logger, b, &tracer.Loader{Options: opts, Frames: frames}, frames, *snapshot)
		return
	}
	if err := runTUI(ctx, cfg, logger, b, &tracer.Loader{Options: opts, Frames: frames}, frames); err != nil {
		logger.Error("tui exited", "error", err)
		fmt.Fprintf(os.Stderr, "lumen: %v\n", err)
		os.Exit(1)
	}
}

// runHeadless drives the engine until it stops on its own or ctx is
// cancelled, then optionally writes a snapshot. Engine failures are logged
// and do not change the exit status.
func runHeadless(ctx context.Context, cfg *config.Config, logger *slog.Logger,
	b *bridge.StateBridge, loader engine.Loader, frames *bridge.Slot[tracer.Frame], snapshot string,
) {
	adapter := engine.NewAdapter(loader,
		engine.WithLogger(logger),
		engine.WithLoadTimeout(cfg.Engine.LoadTimeout.Duration),
	)
	if err := adapter.Start(ctx, b.Pull()); err != nil {
		logger.Error("engine start failed", "error", err)
		return
	}
	<-adapter.Done()

	f := frames.Read()
	if adapter.Status() == engine.StatusFailed || f == nil {
		logger.Warn("no frame rendered", "status", adapter.Status().String(), "error", adapter.Err())
		return
	}
	bounds := f.Image.Bounds()
	logger.Info("render finished",
		"frames", f.Seq,
		"samples", f.Samples,
		"size", fmt.Sprintf("%dx%d", bounds.Dx(), bounds.Dy()),
	)

	if snapshot == "" {
		return
	}
	if err := preview.SaveSnapshot(snapshot, f.Image, cfg.Engine.Scale); err != nil {
		logger.Error("snapshot failed", "error", err)
		return
	}
	fmt.Println(snapshot)
}

// runTUI runs the bubbletea program with the engine in the background.
func runTUI(ctx context.Context, cfg *config.Config, logger *slog.Logger,
	b *bridge.StateBridge, loader engine.Loader, frames *bridge.Slot[tracer.Frame],
) error {
	caps, err := terminal.Probe(cfg.Preview.Protocol)
	if err != nil {
		logger.Warn("preview protocol unavailable, using halfblocks", "error", err)
		caps.Protocol = terminal.ProtocolHalfblocks
	}
	size := terminal.GetSize(os.Stdout)
	logger.Info("terminal detected",
		"term", caps.Term.String(),
		"protocol", caps.Protocol.String(),
		"ssh", caps.SSH,
		"cols", size.Cols,
		"rows", size.Rows,
	)

	renderer := preview.NewRenderer(caps.Protocol,
		preview.WithProfile(termenv.EnvColorProfile()),
		preview.WithCellSize(size.CellW, size.CellH),
	)

	// The hook runs on the engine goroutine; prog is assigned before the
	// engine starts.
	var prog *tea.Program
	engineCtx, stopEngine := context.WithCancel(ctx)
	defer stopEngine()
	adapter := engine.NewAdapter(loader,
		engine.WithLogger(logger),
		engine.WithLoadTimeout(cfg.Engine.LoadTimeout.Duration),
		engine.WithStatusHook(app.StatusHook(func(msg tea.Msg) { prog.Send(msg) })),
	)

	th, _ := theme.Get(cfg.UI.Theme)
	model, err := app.NewAppModel(app.Options{
		Panel:    panel.New(b, panel.WithLogger(logger)),
		Engine:   adapter,
		Frames:   frames,
		Renderer: renderer,
		Refresh:  cfg.Preview.Refresh.Duration,
		Theme:    &th,
		Logger:   logger,
	})
	if err != nil {
		return err
	}

	prog = tea.NewProgram(model,
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
		tea.WithContext(ctx),
	)
	if err := adapter.Start(engineCtx, b.Pull()); err != nil {
		return fmt.Errorf("start engine: %w", err)
	}

	_, runErr := prog.Run()

	stopEngine()
	select {
	case <-adapter.Done():
	case <-time.After(engineStopTimeout):
		logger.Warn("engine did not stop in time")
	}

	if runErr != nil && !errors.Is(runErr, tea.ErrProgramKilled) {
		return runErr
	}
	return nil
}

// loadConfig reads path, or the standard search path when path is empty.
func loadConfig(path string) (*config.Config, error) {
	if path == "" {
		return config.Load()
	}
	return config.LoadFromFile(path)
}

// applyOverride runs v through a BoundedInput for field so command-line
// values get the same quantize and clamp as the sliders.
func applyOverride(cfg *scene.ApplicationConfig, field scene.Field, v float64, logger *slog.Logger) *scene.ApplicationConfig {
	r, _ := scene.RangeOf(field)
	var committed float64
	in := input.New(func(c float64) { committed = c },
		input.WithBounds(r.Min, r.Max),
		input.WithStep(r.Step),
	)
	in.OnChange(v)
	if committed != v {
		logger.Warn("startup value adjusted", "field", string(field), "requested", v, "used", committed)
	}
	next, err := cfg.With(field, committed)
	if err != nil {
		logger.Error("startup override ignored", "field", string(field), "error", err)
		return cfg
	}
	return next
}

// setupLogger builds the slog handler. The TUI owns the terminal, so in
// TUI mode logs only go to the configured file. Headless logs go to stderr
// and the file.
func setupLogger(lc config.LogConfig, verbose, headless bool) (*slog.Logger, func(), error) {
	level := parseLevel(lc.Level)
	if verbose {
		level = slog.LevelDebug
	}

	var writers []io.Writer
	if headless {
		writers = append(writers, os.Stderr)
	}
	closeFn := func() {}
	if lc.File != "" {
		if err := os.MkdirAll(filepath.Dir(lc.File), 0o755); err != nil {
			return nil, nil, err
		}
		f, err := os.OpenFile(lc.File, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
		if err != nil {
			return nil, nil, err
		}
		writers = append(writers, f)
		closeFn = func() { f.Close() }
	}
	if len(writers) == 0 {
		return slog.New(slog.DiscardHandler), closeFn, nil
	}

	logger := slog.New(slog.NewTextHandler(io.MultiWriter(writers...), &slog.HandlerOptions{
		Level: level,
	}))
	return logger, closeFn, nil
}

func parseLevel(s string) slog.Level {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	}
	return slog.LevelInfo
}
