package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"runtime"
	"syscall"

	"github.com/gekko3d/backdrop"
)

func init() {
	// glfw must stay on the main thread
	runtime.LockOSThread()
}

func main() {
	configPath := flag.String("config", "", "YAML config file")
	backend := flag.String("backend", "", "Renderer: gpu, terminal or image (overrides config)")
	count := flag.Int("count", -1, "Particle count (overrides config)")
	debug := flag.Bool("debug", false, "Enable debug logging")
	noMouse := flag.Bool("no-mouse", false, "Ignore pointer and scroll input")
	flag.Parse()

	cfg := backdrop.DefaultConfig()
	if *configPath != "" {
		loaded, err := backdrop.LoadConfig(*configPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		cfg = loaded
	}
	if *backend != "" {
		cfg.Backend = backdrop.RendererName(*backend)
	}
	if *count >= 0 {
		cfg.Field.Count = *count
	}
	if *debug {
		cfg.Debug = true
	}
	if *noMouse {
		off := false
		cfg.Field.MouseInfluence = &off
	}

	renderer, timeMod, err := rendererFor(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	logger, logFile, err := backdrop.OpenLogger(cfg, "backdrop")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	defer logFile.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	app := backdrop.NewAppBuilder().
		UseModule(backdrop.LoggingModule{Logger: logger}).
		UseModule(timeMod).
		UseModule(backdrop.ProfilerModule{}).
		UseModule(backdrop.InputModule{MouseInfluence: cfg.Field.MouseEnabled()}).
		Build()

	app.UseRenderer(renderer, backdrop.FieldOptions{
		Count:        cfg.Field.Count,
		ParticleSize: cfg.Field.ParticleSize,
	})
	app.Run(ctx)
}

func rendererFor(cfg backdrop.Config) (backdrop.Renderer, backdrop.TimeModule, error) {
	switch cfg.Backend {
	case backdrop.RendererGPU:
		return backdrop.NewGpuRenderer(cfg), backdrop.TimeModule{}, nil
	case backdrop.RendererTerminal:
		return backdrop.NewTerminalRenderer(cfg), backdrop.TimeModule{}, nil
	case backdrop.RendererImage:
		return backdrop.NewImageRenderer(cfg), backdrop.TimeModule{FixedStep: cfg.Image.FixedStep()}, nil
	}
	return nil, backdrop.TimeModule{}, fmt.Errorf("unknown backend %q", cfg.Backend)
}
