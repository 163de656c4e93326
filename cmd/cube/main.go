// Command cube opens a window showing the colored cube. Drag with the left mouse button to
// orbit, drag with the middle button to pan, scroll to zoom, use the arrow keys to step the
// orbit, R to reset it and Escape to quit.
package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"
	"runtime"

	"github.com/Carmen-Shannon/oxy-cube/common"
	"github.com/Carmen-Shannon/oxy-cube/cube"
	"github.com/Carmen-Shannon/oxy-cube/engine"
	"github.com/Carmen-Shannon/oxy-cube/engine/camera"
	"github.com/Carmen-Shannon/oxy-cube/engine/config"
	"github.com/Carmen-Shannon/oxy-cube/engine/renderer"
	"github.com/Carmen-Shannon/oxy-cube/engine/window"
	"github.com/go-gl/mathgl/mgl32"
)

var (
	_ engine.App         = &cube.App{}
	_ engine.EventSource = window.Window(nil)
)

func init() {
	// GLFW must run on the main thread.
	runtime.LockOSThread()
}

func main() {
	var (
		configPath = flag.String("config", "", "YAML config file")
		width      = flag.Int("width", 0, "window width (overrides config)")
		height     = flag.Int("height", 0, "window height (overrides config)")
		logLevel   = flag.String("log-level", "info", "log level: debug, info, warn, error")
		vsync      = flag.Bool("vsync", true, "wait for vertical sync (overrides config when set)")
		profile    = flag.Bool("profile", false, "log frame rate and memory statistics every second")
		maxFPS     = flag.Float64("max-fps", 0, "cap the frame rate, 0 for uncapped (overrides config)")
	)
	flag.Parse()

	if err := setupLogger(*logLevel); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	flags := config.Flags{Width: *width, Height: *height, MaxFPS: *maxFPS}
	flag.Visit(func(f *flag.Flag) {
		if f.Name == "vsync" {
			flags.VSync = vsync
		}
	})

	if err := run(*configPath, flags, *profile); err != nil {
		common.Logger().Error("cube failed", "error", err)
		os.Exit(1)
	}
}

func setupLogger(level string) error {
	var l slog.Level
	if err := l.UnmarshalText([]byte(level)); err != nil {
		return fmt.Errorf("invalid -log-level %q: %w", level, err)
	}
	common.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: l})))
	return nil
}

func run(configPath string, flags config.Flags, profile bool) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	cfg.Resolve(flags)
	if err := cfg.Validate(); err != nil {
		return err
	}

	win, err := window.NewWindow(
		window.WithTitle(cfg.Window.Title),
		window.WithSize(cfg.Window.Width, cfg.Window.Height),
	)
	if err != nil {
		return err
	}
	defer win.Close()

	r, err := renderer.NewRenderer(win.SurfaceDescriptor(), win.Width(), win.Height(), cfg.RendererOptions()...)
	if err != nil {
		return err
	}
	defer r.Release()

	width, height := r.Size()
	cam, err := camera.NewOrbitCamera(r, cfg.Camera.Fov, float32(width)/float32(max(height, 1)), cfg.Camera.Near, cfg.Camera.Far,
		camera.WithMouseSensitivity(cfg.Camera.MouseSensitivity),
		camera.WithZoomSpeed(cfg.Camera.ZoomSpeed),
		camera.WithPanSpeed(cfg.Camera.PanSpeed),
	)
	if err != nil {
		return err
	}
	defer cam.Release()

	app, err := cube.NewApp(r, cam, cube.View{
		FovDegrees: cfg.Camera.Fov,
		Near:       cfg.Camera.Near,
		Far:        cfg.Camera.Far,
		Target:     mgl32.Vec3(cfg.Camera.Target),
		Polar:      mgl32.Vec3(cfg.Camera.Polar),
	})
	if err != nil {
		return err
	}
	defer app.Release()

	return engine.NewEngine(win, r,
		engine.WithProfiling(profile),
		engine.WithRenderFrameLimit(cfg.Renderer.MaxFPS),
	).Run(app)
}
