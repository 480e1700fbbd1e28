package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/gogpu/pixkernel"
	"github.com/gogpu/pixkernel/internal/config"
	"github.com/gogpu/pixkernel/internal/imageio"
	"github.com/gogpu/pixkernel/scene"
)

// renderer owns one canvas and reuses it across renders of the same size.
type renderer struct {
	cfg    config.Config
	out    io.Writer
	log    *slog.Logger
	dump   bool
	canvas *pixkernel.Canvas

	targets *imageio.TargetCache
}

func newRenderer(cfg config.Config, out io.Writer, log *slog.Logger) *renderer {
	return &renderer{cfg: cfg, out: out, log: log, targets: imageio.NewTargetCache(0)}
}

func (r *renderer) Close() {
	if r.canvas != nil {
		r.canvas.Close()
		r.canvas = nil
	}
}

func (r *renderer) canvasFor(width, height int) (*pixkernel.Canvas, error) {
	if r.canvas != nil && r.canvas.Width() == width && r.canvas.Height() == height {
		return r.canvas, nil
	}
	r.Close()

	opts := []pixkernel.Option{
		pixkernel.WithWorkers(r.cfg.Workers),
		pixkernel.WithAccelerator(r.cfg.GPU),
	}
	if r.cfg.ChunkSize > 0 {
		opts = append(opts, pixkernel.WithChunkSize(r.cfg.ChunkSize))
	}
	if r.cfg.MaxShapes > 0 {
		opts = append(opts, pixkernel.WithMaxCapacity(r.cfg.MaxShapes))
	}
	c, err := pixkernel.NewCanvas(width, height, opts...)
	if err != nil {
		return nil, err
	}
	r.canvas = c
	return c, nil
}

// renderOnce loads the scene, renders it, writes the output and, when a
// target is configured, prints the difference against it.
func (r *renderer) renderOnce(ctx context.Context) error {
	s, err := scene.LoadFile(r.cfg.Scene)
	if err != nil {
		return err
	}
	c, err := r.canvasFor(s.Width, s.Height)
	if err != nil {
		return err
	}

	start := time.Now()
	img, err := s.Render(ctx, c)
	if err != nil {
		return fmt.Errorf("render %s: %w", r.cfg.Scene, err)
	}
	r.log.Info("rendered",
		"scene", r.cfg.Scene,
		"size", fmt.Sprintf("%dx%d", s.Width, s.Height),
		"shapes", len(s.Shapes),
		"elapsed", time.Since(start))

	if err := imageio.Save(r.cfg.Output, img, r.cfg.Quality); err != nil {
		return err
	}
	r.log.Info("saved", "path", r.cfg.Output)

	if r.cfg.Target != "" {
		target, err := r.targets.Load(r.cfg.Target, s.Width, s.Height)
		if err != nil {
			return err
		}
		d, err := pixkernel.Difference(ctx, img, target)
		if err != nil {
			return err
		}
		fmt.Fprintf(r.out, "difference %s: %.6f\n", r.cfg.Target, d)
	}

	if r.dump {
		prims, err := c.Primitives()
		if err != nil {
			return err
		}
		f := c.Frame()
		if err := scene.FromPrimitives(s.Width, s.Height, f.Background(), prims).Encode(r.out); err != nil {
			return err
		}
	}
	return nil
}
