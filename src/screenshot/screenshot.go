package screenshot

import (
	"bytes"
	"context"
	"image"
	"image/png"
	"log"
	"os"
	"runtime"

	"github.com/go-faster/errors"
	"github.com/kbinani/screenshot"
)

const (
	BackendScreencapture = "screencapture"
	BackendDisplay       = "display"
)

// New returns the capturer for backend. An unknown or empty backend picks the
// interactive screencapture tool on macOS and the display capturer elsewhere.
func New(backend, command string, displayIndex int) Capturer {
	switch backend {
	case BackendScreencapture:
		return NewInteractive(command)
	case BackendDisplay:
		return Display{Index: displayIndex}
	}
	if runtime.GOOS == "darwin" {
		return NewInteractive(command)
	}
	return Display{Index: displayIndex}
}

// Exists reports whether a capture produced a regular file at path.
func Exists(path string) bool {
	st, err := os.Stat(path)
	return err == nil && st.Mode().IsRegular()
}

// Discard removes path. Failures are logged and otherwise ignored.
func Discard(path string) {
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		log.Printf("screenshot: failed to remove %s: %v", path, err)
	}
}

// Display captures whole displays without user interaction.
// Index selects one display; a negative Index captures the union of all.
type Display struct {
	Index int
}

func (d Display) Capture(ctx context.Context, path string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	var (
		img *image.RGBA
		err error
	)
	if d.Index < 0 {
		img, err = CaptureAll()
	} else {
		img, err = CaptureDisplay(d.Index)
	}
	if err != nil {
		return err
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return errors.Wrap(err, "encode png")
	}
	if err := os.WriteFile(path, buf.Bytes(), 0o600); err != nil {
		return errors.Wrapf(err, "write %s", path)
	}
	return nil
}

// CaptureAll captures the entire virtual screen across all active displays.
func CaptureAll() (*image.RGBA, error) {
	n := screenshot.NumActiveDisplays()
	if n == 0 {
		return nil, errors.New("no active displays found")
	}
	union := screenshot.GetDisplayBounds(0)
	for i := 1; i < n; i++ {
		union = union.Union(screenshot.GetDisplayBounds(i))
	}
	img, err := screenshot.CaptureRect(union)
	if err != nil {
		return nil, errors.Wrap(err, "capture displays")
	}
	return img, nil
}

// CaptureDisplay captures a single display.
func CaptureDisplay(index int) (*image.RGBA, error) {
	n := screenshot.NumActiveDisplays()
	if index < 0 || index >= n {
		return nil, errors.Errorf("display %d out of range (%d active)", index, n)
	}
	img, err := screenshot.CaptureDisplay(index)
	if err != nil {
		return nil, errors.Wrapf(err, "capture display %d", index)
	}
	return img, nil
}
