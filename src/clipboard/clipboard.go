package clipboard

import (
	"sync"

	"github.com/go-faster/errors"
	"golang.design/x/clipboard"
)

// ErrUnavailable is returned by Write when Init has not succeeded.
var ErrUnavailable = errors.New("clipboard unavailable")

var (
	writeMu sync.Mutex
	ready   bool
)

func Init() error {
	writeMu.Lock()
	defer writeMu.Unlock()
	if err := clipboard.Init(); err != nil {
		return errors.Wrap(err, "init clipboard")
	}
	ready = true
	return nil
}

// Write places text on the clipboard as plain text. Writes are serialized.
func Write(text string) error {
	writeMu.Lock()
	defer writeMu.Unlock()
	if !ready {
		return ErrUnavailable
	}
	clipboard.Write(clipboard.FmtText, []byte(text))
	return nil
}
