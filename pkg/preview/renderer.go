// Package preview draws engine frames inside the terminal and writes
// snapshots to disk.
package preview

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"math"
	"strings"

	"github.com/blacktop/go-termimg"
	"github.com/muesli/termenv"

	"gitlab.com/tinyland/lab/lumen/pkg/terminal"
)

// ErrDisabled is returned by Render when the protocol is none.
var ErrDisabled = errors.New("preview: disabled")

const asciiRamp = " .:-=+*#%@"

// Renderer turns frames into terminal output. It is not safe for
// concurrent use; the TUI calls it from its update loop only.
type Renderer struct {
	protocol terminal.GraphicsProtocol
	profile  termenv.Profile
	cellW    int
	cellH    int

	// single-entry memo; the same frame is usually drawn several times
	lastImg  image.Image
	lastCols int
	lastRows int
	lastOut  string
}

// Option configures a Renderer.
type Option func(*Renderer)

// WithProfile sets the color profile used for halfblocks. The default is
// termenv.TrueColor.
func WithProfile(p termenv.Profile) Option {
	return func(r *Renderer) { r.profile = p }
}

// WithCellSize sets the pixel size of one terminal cell, used to size
// images for the graphics protocols.
func WithCellSize(w, h int) Option {
	return func(r *Renderer) { r.cellW, r.cellH = w, h }
}

// NewRenderer returns a renderer for protocol.
func NewRenderer(protocol terminal.GraphicsProtocol, opts ...Option) *Renderer {
	r := &Renderer{
		protocol: protocol,
		profile:  termenv.TrueColor,
	}
	for _, o := range opts {
		o(r)
	}
	return r
}

// Protocol returns the active protocol.
func (r *Renderer) Protocol() terminal.GraphicsProtocol { return r.protocol }

// Profile returns the halfblock color profile.
func (r *Renderer) Profile() termenv.Profile { return r.profile }

// Render draws img into an area of cols x rows cells.
func (r *Renderer) Render(img image.Image, cols, rows int) (string, error) {
	if r.protocol == terminal.ProtocolNone {
		return "", ErrDisabled
	}
	if img == nil {
		return "", errors.New("preview: nil image")
	}
	if cols <= 0 || rows <= 0 {
		return "", nil
	}
	if img == r.lastImg && cols == r.lastCols && rows == r.lastRows {
		return r.lastOut, nil
	}

	var (
		out string
		err error
	)
	switch r.protocol {
	case terminal.ProtocolKitty:
		out, err = r.renderTermimg(img, termimg.Kitty, cols, rows)
	case terminal.ProtocolITerm2:
		out, err = r.renderTermimg(img, termimg.ITerm2, cols, rows)
	case terminal.ProtocolSixel:
		out, err = r.renderTermimg(img, termimg.Sixel, cols, rows)
	default:
		out = r.renderHalfblocks(img, cols, rows)
	}
	if err != nil {
		return "", fmt.Errorf("preview: %s: %w", r.protocol, err)
	}

	r.lastImg, r.lastCols, r.lastRows, r.lastOut = img, cols, rows, out
	return out, nil
}

func (r *Renderer) renderTermimg(img image.Image, proto termimg.Protocol, cols, rows int) (string, error) {
	if r.cellW > 0 && r.cellH > 0 {
		img = ResizeToFit(img, cols*r.cellW, rows*r.cellH)
	}
	ti := termimg.New(img)
	if ti == nil {
		return "", errors.New("go-termimg: failed to wrap image")
	}
	ti.Protocol(proto).Size(cols, rows).Scale(termimg.ScaleFit)
	return ti.Render()
}

// renderHalfblocks packs two pixel rows into each cell: the top pixel is
// the foreground of ▀ and the bottom pixel its background. Under the
// Ascii profile it falls back to a luminance ramp.
func (r *Renderer) renderHalfblocks(img image.Image, cols, rows int) string {
	src := ResizeToFit(img, cols, rows*2)
	b := src.Bounds()
	w, h := b.Dx(), b.Dy()

	reset := termenv.CSI + termenv.ResetSeq + "m"
	var sb strings.Builder
	sb.Grow(w * (h/2 + 1) * 24)

	for y := 0; y < h; y += 2 {
		if y > 0 {
			sb.WriteByte('\n')
		}
		for x := 0; x < w; x++ {
			top := src.At(b.Min.X+x, b.Min.Y+y)
			bot := top
			if y+1 < h {
				bot = src.At(b.Min.X+x, b.Min.Y+y+1)
			}
			if r.profile == termenv.Ascii {
				sb.WriteByte(asciiRamp[rampIndex(top, bot)])
				continue
			}
			fg := r.profile.FromColor(top).Sequence(false)
			bg := r.profile.FromColor(bot).Sequence(true)
			sb.WriteString(termenv.CSI + fg + ";" + bg + "m▀")
		}
		if r.profile != termenv.Ascii {
			sb.WriteString(reset)
		}
	}
	return sb.String()
}

func rampIndex(a, b color.Color) int {
	l := (luma(a) + luma(b)) / 2
	i := int(math.Round(l * float64(len(asciiRamp)-1) / 0xFFFF))
	return min(max(i, 0), len(asciiRamp)-1)
}

func luma(c color.Color) float64 {
	r, g, b, _ := c.RGBA()
	return 0.2126*float64(r) + 0.7152*float64(g) + 0.0722*float64(b)
}
