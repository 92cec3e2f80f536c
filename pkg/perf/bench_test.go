package perf

import (
	"image"
	"image/color"
	"testing"

	"gitlab.com/tinyland/lab/lumen/pkg/bridge"
	"gitlab.com/tinyland/lab/lumen/pkg/components"
	"gitlab.com/tinyland/lab/lumen/pkg/panel"
	"gitlab.com/tinyland/lab/lumen/pkg/preview"
	"gitlab.com/tinyland/lab/lumen/pkg/scene"
	"gitlab.com/tinyland/lab/lumen/pkg/terminal"
	"gitlab.com/tinyland/lab/lumen/pkg/tracer"
)

func BenchmarkBridgeRead(b *testing.B) {
	br := bridge.New(nil)
	pull := br.Pull()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = pull()
	}
}

func BenchmarkBridgePublish(b *testing.B) {
	br := bridge.New(nil)
	cfg := scene.Default()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		br.Publish(cfg)
	}
}

func BenchmarkPanelCommit(b *testing.B) {
	p := panel.New(bridge.New(nil))
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = p.Commit(scene.FieldAperture, float64(i%100)/100)
	}
}

func BenchmarkSliderRender(b *testing.B) {
	style := components.DefaultSliderStyle()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = components.RenderSlider(0.37, 0, 1, 60, true, style)
	}
}

// BenchmarkTracerStep renders one iteration of the default scene at the
// default preview scale (120x67).
func BenchmarkTracerStep(b *testing.B) {
	e := tracer.New(tracer.Options{Seed: 1}, bridge.NewSlot[tracer.Frame](nil))
	cfg := scene.Default()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		e.Step(cfg)
	}
}

func BenchmarkPreviewHalfblocks(b *testing.B) {
	img := image.NewRGBA(image.Rect(0, 0, 120, 67))
	for y := 0; y < 67; y++ {
		for x := 0; x < 120; x++ {
			img.Set(x, y, color.RGBA{R: uint8(x), G: uint8(y), B: 128, A: 255})
		}
	}
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		// A fresh renderer per op defeats the single-frame memo.
		r := preview.NewRenderer(terminal.ProtocolHalfblocks)
		if _, err := r.Render(img, 78, 17); err != nil {
			b.Fatal(err)
		}
	}
}
