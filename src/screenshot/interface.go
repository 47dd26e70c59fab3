package screenshot

import "context"

//go:generate mockgen -package mockscreenshot -source=interface.go -destination=mock/mockscreenshot.go *

// Capturer writes a captured screen image to path. Returning means the capture
// finished; a missing file afterwards means the user cancelled.
type Capturer interface {
	Capture(ctx context.Context, path string) error
}
