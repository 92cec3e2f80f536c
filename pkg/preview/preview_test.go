package preview

import (
	"errors"
	"image"
	"image/color"
	"path/filepath"
	"strings"
	"testing"

	"github.com/disintegration/imaging"
	"github.com/muesli/termenv"

	"gitlab.com/tinyland/lab/lumen/pkg/terminal"
)

func solid(w, h int, c color.Color) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, c)
		}
	}
	return img
}

func TestFitSize(t *testing.T) {
	tests := []struct {
		srcW, srcH, maxW, maxH int
		wantW, wantH           int
	}{
		{120, 67, 60, 40, 60, 34},
		{100, 100, 40, 20, 20, 20},
		{10, 5, 40, 40, 40, 20},
		{0, 5, 40, 40, 1, 1},
		{1000, 1, 10, 10, 10, 1},
	}
	for _, tt := range tests {
		w, h := FitSize(tt.srcW, tt.srcH, tt.maxW, tt.maxH)
		if w != tt.wantW || h != tt.wantH {
			t.Errorf("FitSize(%d,%d,%d,%d) = %d,%d; want %d,%d",
				tt.srcW, tt.srcH, tt.maxW, tt.maxH, w, h, tt.wantW, tt.wantH)
		}
	}
}

func TestResizeToFitKeepsExactSize(t *testing.T) {
	img := solid(8, 4, color.White)
	if got := ResizeToFit(img, 8, 4); got != image.Image(img) {
		t.Error("expected image returned unchanged when it already fits exactly")
	}
	got := ResizeToFit(img, 16, 16)
	if b := got.Bounds(); b.Dx() != 16 || b.Dy() != 8 {
		t.Errorf("expected 16x8 upscale, got %dx%d", b.Dx(), b.Dy())
	}
}

func TestRenderHalfblocksTrueColor(t *testing.T) {
	r := NewRenderer(terminal.ProtocolHalfblocks)
	out, err := r.Render(solid(4, 4, color.RGBA{R: 255, A: 255}), 4, 2)
	if err != nil {
		t.Fatal(err)
	}
	lines := strings.Split(out, "\n")
	if len(lines) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(lines))
	}
	if strings.Count(lines[0], "▀") != 4 {
		t.Errorf("expected 4 cells in first row: %q", lines[0])
	}
	if !strings.Contains(out, "38;2;255;0;0") {
		t.Errorf("expected true color red foreground: %q", out)
	}
}

func TestRenderHalfblocksANSI256(t *testing.T) {
	r := NewRenderer(terminal.ProtocolHalfblocks, WithProfile(termenv.ANSI256))
	out, err := r.Render(solid(2, 2, color.RGBA{R: 255, A: 255}), 2, 1)
	if err != nil {
		t.Fatal(err)
	}
	if strings.Contains(out, "38;2;") {
		t.Errorf("expected no true color sequences under ANSI256: %q", out)
	}
	if !strings.Contains(out, "38;5;") {
		t.Errorf("expected 256-color sequences: %q", out)
	}
}

func TestRenderAsciiRamp(t *testing.T) {
	r := NewRenderer(terminal.ProtocolHalfblocks, WithProfile(termenv.Ascii))
	out, err := r.Render(solid(3, 2, color.White), 3, 1)
	if err != nil {
		t.Fatal(err)
	}
	if out != "@@@" {
		t.Errorf("expected white to map to @@@, got %q", out)
	}
	out, _ = NewRenderer(terminal.ProtocolHalfblocks, WithProfile(termenv.Ascii)).
		Render(solid(3, 2, color.Black), 3, 1)
	if out != "   " {
		t.Errorf("expected black to map to spaces, got %q", out)
	}
}

func TestRenderMemoizes(t *testing.T) {
	r := NewRenderer(terminal.ProtocolHalfblocks)
	img := solid(4, 4, color.White)
	first, _ := r.Render(img, 4, 2)
	second, _ := r.Render(img, 4, 2)
	if first != second {
		t.Error("expected identical output for the same frame")
	}
	if r.lastImg != image.Image(img) {
		t.Error("expected memo to hold the last frame")
	}
}

func TestRenderDisabled(t *testing.T) {
	r := NewRenderer(terminal.ProtocolNone)
	if _, err := r.Render(solid(1, 1, color.White), 4, 4); !errors.Is(err, ErrDisabled) {
		t.Errorf("expected ErrDisabled, got %v", err)
	}
}

func TestRenderNilImage(t *testing.T) {
	if _, err := NewRenderer(terminal.ProtocolHalfblocks).Render(nil, 4, 4); err == nil {
		t.Error("expected error for nil image")
	}
}

func TestSaveSnapshot(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out", "frame.png")
	if err := SaveSnapshot(path, solid(4, 3, color.White), 2); err != nil {
		t.Fatal(err)
	}
	img, err := imaging.Open(path)
	if err != nil {
		t.Fatal(err)
	}
	if b := img.Bounds(); b.Dx() != 8 || b.Dy() != 6 {
		t.Errorf("expected 8x6 snapshot, got %dx%d", b.Dx(), b.Dy())
	}
	if err := SaveSnapshot(path, nil, 1); err == nil {
		t.Error("expected error for nil frame")
	}
}
