// Command pkrender renders YAML scenes with the pixkernel canvas.
//
//	pkrender -scene scene.yaml -output out.webp
//	pkrender -config pkrender.toml -target photo.jpg -watch
//
// With -target the mean squared difference between the rendered frame and
// the target image is printed. With -watch the scene is re-rendered every
// time it changes on disk.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/gogpu/pixkernel"
	"github.com/gogpu/pixkernel/internal/config"
	"github.com/gogpu/pixkernel/internal/watch"
)

func main() {
	configFile := flag.String("config", "", "Path to a TOML config file")
	sceneFile := flag.String("scene", "", "Scene to render (YAML)")
	output := flag.String("output", "", "Output image, .png .jpg or .webp (default: out.png)")
	target := flag.String("target", "", "Image to compare the rendered frame against")
	workers := flag.Int("workers", 0, "Number of CPU workers (default: NumCPU)")
	useGPU := flag.Bool("gpu", false, "Evaluate passes on the GPU when available")
	quality := flag.Int("quality", 0, "JPEG quality 1-100 (default: 90)")
	watchMode := flag.Bool("watch", false, "Re-render when the scene changes")
	dump := flag.Bool("dump", false, "Print the rendered pass as YAML")
	verbose := flag.Bool("v", false, "Verbose logging")
	flag.Parse()

	var cfg config.Config
	if *configFile != "" {
		var err error
		cfg, err = config.Load(*configFile)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
			os.Exit(1)
		}
	}
	cfg.Resolve(config.Flags{
		Scene:   *sceneFile,
		Output:  *output,
		Target:  *target,
		Workers: *workers,
		Quality: *quality,
		GPU:     *useGPU,
		Watch:   *watchMode,
		Verbose: *verbose,
	})
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		flag.Usage()
		os.Exit(2)
	}

	log := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level(cfg.LogLevel)}))
	pixkernel.SetLogger(log)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, *dump, log); err != nil && !errors.Is(err, context.Canceled) {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg config.Config, dump bool, log *slog.Logger) error {
	r := newRenderer(cfg, os.Stdout, log)
	defer r.Close()

	r.dump = dump
	if !cfg.Watch {
		return r.renderOnce(ctx)
	}

	if err := r.renderOnce(ctx); err != nil {
		log.Error("render failed", "err", err)
	}

	paths := []string{cfg.Scene}
	if cfg.Target != "" {
		paths = append(paths, cfg.Target)
	}
	w, err := watch.New(cfg.Debounce.Std(), paths...)
	if err != nil {
		return err
	}
	defer w.Close()
	w.SetLogger(log)

	log.Info("watching for changes", "files", paths)
	return w.Run(ctx, func(changed []string) {
		log.Debug("files changed", "files", changed)
		if err := r.renderOnce(ctx); err != nil {
			log.Error("render failed", "err", err)
		}
	})
}

func level(s string) slog.Level {
	var l slog.Level
	if err := l.UnmarshalText([]byte(strings.ToUpper(s))); err != nil {
		return slog.LevelInfo
	}
	return l
}
