//go:build unix

package terminal

import "golang.org/x/sys/unix"

// pixelSize returns the window size in pixels reported by TIOCGWINSZ, or
// 0, 0 when the terminal does not fill it in.
func pixelSize(fd uintptr) (int, int) {
	ws, err := unix.IoctlGetWinsize(int(fd), unix.TIOCGWINSZ)
	if err != nil {
		return 0, 0
	}
	return int(ws.Xpixel), int(ws.Ypixel)
}
