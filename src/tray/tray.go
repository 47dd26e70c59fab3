package tray

import (
	"fmt"
	"log"
	"strings"
	"sync"

	"fyne.io/systray"
)

const (
	AboutTitle = "About Screen QR Scanner"
	quitTitle  = "Quit"
)

type Config struct {
	Tooltip string
	// OnScan runs on left-click of the status item.
	OnScan func()
	// OnAbout receives the About text when the menu item is chosen.
	OnAbout func(title, text string)
	OnExit  func()
}

// Tray owns the menu-bar status item. It runs inside the host UI event loop
// rather than its own, so it can share the process with Fyne.
type Tray struct {
	cfg   Config
	start func()
	end   func()
	once  sync.Once
	quit  chan struct{}
}

var (
	mu          sync.Mutex
	ready       bool
	aboutHotkey string
	aboutExtra  string
)

func New(cfg Config) (*Tray, error) {
	t := &Tray{cfg: cfg, quit: make(chan struct{})}
	t.start, t.end = systray.RunWithExternalLoop(t.onReady, t.onExit)
	return t, nil
}

// Start installs the status item. It must be called on the UI thread once the
// host event loop is running.
func (t *Tray) Start() {
	t.start()
}

// Destroy removes the status item. Safe to call more than once.
func (t *Tray) Destroy() {
	t.once.Do(func() {
		close(t.quit)
		t.end()
	})
}

func (t *Tray) onReady() {
	systray.SetTemplateIcon(TemplateIcon(), AppIcon())
	systray.SetTooltip(t.cfg.Tooltip)

	// Left-click scans; the menu is reserved for the secondary click.
	systray.SetOnTapped(func() {
		if t.cfg.OnScan != nil {
			t.cfg.OnScan()
		}
	})

	mAbout := systray.AddMenuItem(AboutTitle, "")
	systray.AddSeparator()
	mQuit := systray.AddMenuItem(quitTitle, "Quit the application")

	mu.Lock()
	ready = true
	mu.Unlock()

	go func() {
		for {
			select {
			case <-mAbout.ClickedCh:
				if t.cfg.OnAbout != nil {
					t.cfg.OnAbout(AboutTitle, AboutText())
				}
			case <-mQuit.ClickedCh:
				log.Printf("tray: quit requested")
				if t.cfg.OnExit != nil {
					t.cfg.OnExit()
				}
				return
			case <-t.quit:
				return
			}
		}
	}()
}

func (t *Tray) onExit() {
	mu.Lock()
	ready = false
	mu.Unlock()
}

// UpdateTooltip changes the status item tooltip. It is a no-op before the tray is ready.
func UpdateTooltip(text string) {
	mu.Lock()
	ok := ready
	mu.Unlock()
	if ok {
		systray.SetTooltip(text)
	}
}

// SetAboutHotkey records the configured hotkey for the About text.
func SetAboutHotkey(h string) {
	mu.Lock()
	defer mu.Unlock()
	aboutHotkey = h
}

// SetAboutExtra appends an extra line to the About text.
func SetAboutExtra(s string) {
	mu.Lock()
	defer mu.Unlock()
	aboutExtra = s
}

func AboutText() string {
	mu.Lock()
	defer mu.Unlock()

	lines := []string{"Screen QR Scanner", "Scan QR codes anywhere on screen."}
	if aboutHotkey != "" {
		lines = append(lines, fmt.Sprintf("Hotkey: %s", aboutHotkey))
	}
	lines = append(lines, "Click the menu-bar icon or press the hotkey, then drag over a QR code.")
	if aboutExtra != "" {
		lines = append(lines, aboutExtra)
	}
	return strings.Join(lines, "\n")
}
