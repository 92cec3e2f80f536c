package preview

import (
	"image"
	"math"

	xdraw "golang.org/x/image/draw"
)

// FitSize scales srcW x srcH to the largest size that fits maxW x maxH
// with the same aspect ratio. Both results are at least 1.
func FitSize(srcW, srcH, maxW, maxH int) (int, int) {
	if srcW <= 0 || srcH <= 0 || maxW <= 0 || maxH <= 0 {
		return 1, 1
	}
	scale := math.Min(float64(maxW)/float64(srcW), float64(maxH)/float64(srcH))
	w := max(int(math.Round(float64(srcW)*scale)), 1)
	h := max(int(math.Round(float64(srcH)*scale)), 1)
	return min(w, maxW), min(h, maxH)
}

// ResizeToFit scales img up or down to fit maxW x maxH pixels, keeping its
// aspect ratio. An image that already has the target size is returned
// unchanged.
func ResizeToFit(img image.Image, maxW, maxH int) image.Image {
	if img == nil {
		return nil
	}
	b := img.Bounds()
	w, h := FitSize(b.Dx(), b.Dy(), maxW, maxH)
	if w == b.Dx() && h == b.Dy() {
		return img
	}

	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	// Upscaling a low-res preview looks better blocky than blurred.
	var s xdraw.Scaler = xdraw.ApproxBiLinear
	if w > b.Dx() {
		s = xdraw.NearestNeighbor
	}
	s.Scale(dst, dst.Bounds(), img, b, xdraw.Src, nil)
	return dst
}
