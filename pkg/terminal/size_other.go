//go:build !unix

package terminal

// pixelSize is not available on this platform.
func pixelSize(uintptr) (int, int) {
	return 0, 0
}
