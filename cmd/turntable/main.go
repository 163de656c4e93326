// Command turntable renders the cube offscreen from evenly spaced angles around a full orbit
// and writes each frame as a lossless WebP image.
package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"

	"github.com/Carmen-Shannon/oxy-cube/common"
	"github.com/Carmen-Shannon/oxy-cube/cube"
	"github.com/Carmen-Shannon/oxy-cube/engine/camera"
	"github.com/Carmen-Shannon/oxy-cube/engine/config"
	"github.com/Carmen-Shannon/oxy-cube/engine/renderer"
	"github.com/Carmen-Shannon/oxy-cube/engine/snapshot"
	"github.com/go-gl/mathgl/mgl32"
)

func main() {
	var (
		configPath = flag.String("config", "", "YAML config file")
		frames     = flag.Int("frames", 0, "number of frames around the orbit (overrides config)")
		outDir     = flag.String("out", "", "output directory (overrides config)")
		workers    = flag.Int("workers", 0, "WebP encoder goroutines (overrides config)")
		size       = flag.Int("size", 0, "square frame size in pixels (overrides config)")
		logLevel   = flag.String("log-level", "info", "log level: debug, info, warn, error")
	)
	flag.Parse()

	var level slog.Level
	if err := level.UnmarshalText([]byte(*logLevel)); err != nil {
		fmt.Fprintf(os.Stderr, "invalid -log-level %q: %v\n", *logLevel, err)
		os.Exit(1)
	}
	common.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))

	flags := config.Flags{
		Width:     *size,
		Height:    *size,
		Frames:    *frames,
		OutputDir: *outDir,
		Workers:   *workers,
	}
	if err := run(*configPath, flags); err != nil {
		common.Logger().Error("turntable failed", "error", err)
		os.Exit(1)
	}
}

func run(configPath string, flags config.Flags) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	cfg.Resolve(flags)
	if err := cfg.Validate(); err != nil {
		return err
	}
	tt := cfg.Turntable

	r, err := renderer.NewHeadless(tt.Width, tt.Height, cfg.RendererOptions()...)
	if err != nil {
		return err
	}
	defer r.Release()

	cam, err := camera.NewOrbitCamera(r, cfg.Camera.Fov, float32(tt.Width)/float32(tt.Height), cfg.Camera.Near, cfg.Camera.Far)
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

	w, err := snapshot.NewWriter(tt.OutputDir, snapshot.WithWorkers(tt.Workers))
	if err != nil {
		return err
	}

	common.Logger().Info("turntable started", "frames", tt.Frames, "width", tt.Width, "height", tt.Height, "out", tt.OutputDir)
	err = snapshot.Turntable(tt.Frames, cube.TurntableFrames(r, app, cfg.Camera.Polar[0], tt.Elevation), w)
	common.Logger().Info("turntable finished", "written", len(w.Written()), "failed", tt.Frames-len(w.Written()))
	return err
}
