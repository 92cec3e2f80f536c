package preview

import (
	"fmt"
	"image"
	"os"
	"path/filepath"

	"github.com/disintegration/imaging"
)

// SaveSnapshot writes img to path, upscaled by scale when scale > 1. The
// format follows the extension (.png, .jpg, .gif, .bmp, .tif).
func SaveSnapshot(path string, img image.Image, scale int) error {
	if img == nil {
		return fmt.Errorf("snapshot %s: no frame", path)
	}
	if scale > 1 {
		b := img.Bounds()
		img = imaging.Resize(img, b.Dx()*scale, b.Dy()*scale, imaging.Lanczos)
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("snapshot %s: %w", path, err)
		}
	}
	if err := imaging.Save(img, path); err != nil {
		return fmt.Errorf("snapshot %s: %w", path, err)
	}
	return nil
}
