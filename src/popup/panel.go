// Package popup renders decoded QR payloads in a small floating panel.
package popup

import (
	"net/url"
	"strings"
	"sync"
	"time"

	"fyne.io/fyne/v2"
	"github.com/go-faster/errors"
)

// DefaultCopiedFeedback is how long the copy action shows its "copied" state.
const DefaultCopiedFeedback = 1500 * time.Millisecond

// ErrNotLink is returned by OpenLink for payloads that are not http(s) URLs.
var ErrNotLink = errors.New("payload is not a link")

type PanelOptions struct {
	// Copy writes text to the clipboard.
	Copy func(text string) error
	// OpenURL hands u to the system URL opener.
	OpenURL func(u *url.URL) error
	// Dismiss closes the panel's window. Called at most once.
	Dismiss func()
	// OnChange fires after the copied indicator flips. It may run on a timer goroutine.
	OnChange func()
	Feedback time.Duration
}

// Panel is the toolkit-independent state behind a result window.
type Panel struct {
	text string
	link *url.URL
	opts PanelOptions

	mu        sync.Mutex
	copied    bool
	seq       uint64
	revert    *time.Timer
	dismissed bool
}

func NewPanel(text string, opts PanelOptions) *Panel {
	if opts.Feedback <= 0 {
		opts.Feedback = DefaultCopiedFeedback
	}
	return &Panel{text: text, link: ParseLink(text), opts: opts}
}

// ParseLink returns the payload as a URL when it is an absolute http or https
// link with a host, and nil otherwise.
func ParseLink(text string) *url.URL {
	lower := strings.ToLower(text)
	if !strings.HasPrefix(lower, "http://") && !strings.HasPrefix(lower, "https://") {
		return nil
	}
	u, err := url.Parse(text)
	if err != nil || u.Host == "" {
		return nil
	}
	return u
}

func (p *Panel) Text() string { return p.text }

// Link reports whether the open-link action applies.
func (p *Panel) Link() (*url.URL, bool) { return p.link, p.link != nil }

func (p *Panel) Copied() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.copied
}

// Copy puts the exact payload on the clipboard and shows the copied state
// for the feedback duration. Copying again restarts the duration.
func (p *Panel) Copy() error {
	if p.opts.Copy != nil {
		if err := p.opts.Copy(p.text); err != nil {
			return errors.Wrap(err, "copy payload")
		}
	}

	p.mu.Lock()
	if p.dismissed {
		p.mu.Unlock()
		return nil
	}
	p.copied = true
	p.seq++
	seq := p.seq
	if p.revert != nil {
		p.revert.Stop()
	}
	p.revert = time.AfterFunc(p.opts.Feedback, func() { p.clearCopied(seq) })
	p.mu.Unlock()

	p.changed()
	return nil
}

func (p *Panel) clearCopied(seq uint64) {
	p.mu.Lock()
	if seq != p.seq || !p.copied {
		p.mu.Unlock()
		return
	}
	p.copied = false
	p.revert = nil
	p.mu.Unlock()

	p.changed()
}

func (p *Panel) changed() {
	if p.opts.OnChange != nil {
		p.opts.OnChange()
	}
}

// OpenLink opens the payload URL and dismisses the panel.
func (p *Panel) OpenLink() error {
	if p.link == nil {
		return ErrNotLink
	}
	var err error
	if p.opts.OpenURL != nil {
		err = p.opts.OpenURL(p.link)
	}
	p.Dismiss()
	if err != nil {
		return errors.Wrap(err, "open link")
	}
	return nil
}

// HandleKey dismisses on Escape. Every other key is left alone.
func (p *Panel) HandleKey(name fyne.KeyName) bool {
	if name != fyne.KeyEscape {
		return false
	}
	p.Dismiss()
	return true
}

func (p *Panel) Dismiss() {
	p.mu.Lock()
	if p.dismissed {
		p.mu.Unlock()
		return
	}
	p.dismissed = true
	if p.revert != nil {
		p.revert.Stop()
		p.revert = nil
	}
	p.mu.Unlock()

	if p.opts.Dismiss != nil {
		p.opts.Dismiss()
	}
}
