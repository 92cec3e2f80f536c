// Package tracer is the built-in preview engine: a small progressive path
// tracer that runs on its own ticker, pulls the current configuration once
// per iteration and publishes finished frames into a bridge slot.
//
// It is deliberately simple. The control panel only depends on the
// engine.Engine contract; any other engine can be loaded in its place.
package tracer

import (
	"context"
	"fmt"
	"image"
	"image/color"
	"math"
	"math/rand/v2"
	"runtime"
	"sync"
	"time"

	"gitlab.com/tinyland/lab/lumen/pkg/bridge"
	"gitlab.com/tinyland/lab/lumen/pkg/engine"
	"gitlab.com/tinyland/lab/lumen/pkg/scene"
)

// Options controls the preview engine.
type Options struct {
	Hz        int    // iterations per second (default 30)
	Scale     int    // render at Width/Scale x Height/Scale (default 8)
	MaxDepth  int    // bounces per path (default 4)
	Samples   int    // samples per pixel per iteration (default 1)
	MaxFrames uint64 // stop after N iterations (0 = run until cancelled)
	Seed      uint64
}

func (o Options) withDefaults() Options {
	if o.Hz <= 0 {
		o.Hz = 30
	}
	if o.Scale <= 0 {
		o.Scale = 8
	}
	if o.MaxDepth <= 0 {
		o.MaxDepth = 4
	}
	if o.Samples <= 0 {
		o.Samples = 1
	}
	return o
}

// Frame is one published image. Frames are immutable once published.
type Frame struct {
	Image   *image.RGBA
	Samples int                      // accumulated samples per pixel
	Seq     uint64                   // iteration that produced the frame
	Config  *scene.ApplicationConfig // config the frame was rendered with
}

// Loader builds the preview engine. It satisfies engine.Loader.
type Loader struct {
	Options Options
	Frames  *bridge.Slot[Frame]
}

// Load builds the scene and returns a ready engine.
func (l *Loader) Load(ctx context.Context) (engine.Engine, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if l.Frames == nil {
		return nil, fmt.Errorf("tracer: no frame slot")
	}
	return New(l.Options, l.Frames), nil
}

// Engine is the preview path tracer.
type Engine struct {
	opts   Options
	world  []sphere
	frames *bridge.Slot[Frame]

	last    *scene.ApplicationConfig
	width   int
	height  int
	accum   []vec3
	samples int
	seq     uint64
	workers []*rand.Rand
}

// New returns an engine publishing into frames.
func New(opts Options, frames *bridge.Slot[Frame]) *Engine {
	opts = opts.withDefaults()
	n := runtime.GOMAXPROCS(0)
	workers := make([]*rand.Rand, n)
	for i := range workers {
		workers[i] = rand.New(rand.NewPCG(opts.Seed, uint64(i)+1))
	}
	return &Engine{
		opts:    opts,
		world:   defaultWorld(),
		frames:  frames,
		workers: workers,
	}
}

// Run ticks at the configured rate until ctx is cancelled or MaxFrames
// iterations have run. Each tick pulls the config once.
func (e *Engine) Run(ctx context.Context, pull bridge.PullFunc) error {
	d := time.Second / time.Duration(e.opts.Hz)
	t := time.NewTicker(d)
	defer t.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-t.C:
			e.Step(pull())
			if e.opts.MaxFrames > 0 && e.seq >= e.opts.MaxFrames {
				return nil
			}
		}
	}
}

// Step renders one iteration with cfg and publishes the result. A config
// that differs from the previous one (by identity) restarts accumulation.
func (e *Engine) Step(cfg *scene.ApplicationConfig) *Frame {
	if cfg == nil {
		cfg = scene.Default()
	}
	if cfg != e.last {
		e.reset(cfg)
	}

	aspect := float64(e.width) / float64(e.height)
	cam := newCamera(vec3{0, 4, 6}, vec3{0, 0, 0}, cfg.Camera.FieldOfView, aspect, cfg.Camera.Aperture)
	sky := cfg.Render.SkyIntensity

	rows := make(chan int, e.height)
	for y := 0; y < e.height; y++ {
		rows <- y
	}
	close(rows)

	var wg sync.WaitGroup
	for _, rng := range e.workers {
		wg.Add(1)
		go func(rng *rand.Rand) {
			defer wg.Done()
			for y := range rows {
				for x := 0; x < e.width; x++ {
					var c vec3
					for s := 0; s < e.opts.Samples; s++ {
						u := (float64(x) + rng.Float64()) / float64(e.width)
						v := (float64(e.height-1-y) + rng.Float64()) / float64(e.height)
						c = c.add(trace(e.world, cam.ray(u, v, rng), e.opts.MaxDepth, sky, rng))
					}
					i := y*e.width + x
					e.accum[i] = e.accum[i].add(c)
				}
			}
		}(rng)
	}
	wg.Wait()

	e.samples += e.opts.Samples
	e.seq++

	f := &Frame{
		Image:   e.resolve(),
		Samples: e.samples,
		Seq:     e.seq,
		Config:  cfg,
	}
	e.frames.Publish(f)
	return f
}

func (e *Engine) reset(cfg *scene.ApplicationConfig) {
	e.last = cfg
	w := max(cfg.Render.Width/e.opts.Scale, 1)
	h := max(cfg.Render.Height/e.opts.Scale, 1)
	if w != e.width || h != e.height || e.accum == nil {
		e.width, e.height = w, h
		e.accum = make([]vec3, w*h)
	} else {
		clear(e.accum)
	}
	e.samples = 0
}

// resolve averages the accumulation buffer into a new gamma-corrected image.
func (e *Engine) resolve() *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, e.width, e.height))
	inv := 1 / float64(e.samples)
	for y := 0; y < e.height; y++ {
		for x := 0; x < e.width; x++ {
			c := e.accum[y*e.width+x].scale(inv)
			img.SetRGBA(x, y, color.RGBA{
				R: toByte(c.x),
				G: toByte(c.y),
				B: toByte(c.z),
				A: 0xFF,
			})
		}
	}
	return img
}

func toByte(v float64) uint8 {
	if v <= 0 || math.IsNaN(v) {
		return 0
	}
	v = math.Sqrt(v)
	if v >= 1 {
		return 0xFF
	}
	return uint8(v * 255)
}
