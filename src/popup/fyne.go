package popup

import (
	"log"
	"net/url"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/layout"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"

	"screen-qr-scanner/src/logutil"
)

const (
	resultTitle  = "Scan Result"
	panelWidth   = 400
	panelHeight  = 260
	noticeWidth  = 300
	noticeHeight = 140
)

type FyneOptions struct {
	Copy     func(text string) error
	OpenURL  func(u *url.URL) error
	Feedback time.Duration
}

// Fyne presents panels as floating Fyne windows.
// current and view are only touched inside fyne.Do.
type Fyne struct {
	app  fyne.App
	opts FyneOptions

	current fyne.Window
	view    *resultView
	// about is independent of current; scans never close it.
	about fyne.Window
}

type resultView struct {
	window     fyne.Window
	panel      *Panel
	copyButton *widget.Button
	openButton *widget.Button
}

func NewFyne(a fyne.App, opts FyneOptions) *Fyne {
	if opts.OpenURL == nil {
		opts.OpenURL = a.OpenURL
	}
	if opts.Feedback <= 0 {
		opts.Feedback = DefaultCopiedFeedback
	}
	return &Fyne{app: a, opts: opts}
}

func (f *Fyne) ShowResult(payload string) {
	fyne.Do(func() { f.showResult(payload) })
}

func (f *Fyne) ShowNotice(title, message string) {
	fyne.Do(func() { f.showNotice(title, message) })
}

// ShowAbout opens the About window beside any panel on screen. A second call
// replaces only the previous About window.
func (f *Fyne) ShowAbout(title, text string) {
	fyne.Do(func() { f.showAbout(title, text) })
}

func (f *Fyne) Close() {
	fyne.Do(f.closeCurrent)
}

func (f *Fyne) closeCurrent() {
	if f.current == nil {
		return
	}
	w := f.current
	f.current = nil
	f.view = nil
	w.Close()
}

func (f *Fyne) closeWindow(w fyne.Window) {
	if f.current == w {
		f.closeCurrent()
		return
	}
	w.Close()
}

// install makes w the only window on screen.
func (f *Fyne) install(w fyne.Window, view *resultView) {
	f.closeCurrent()
	f.current = w
	f.view = view
	w.SetOnClosed(func() {
		if f.current == w {
			f.current = nil
			f.view = nil
		}
	})
	w.CenterOnScreen()
	w.Show()
	w.RequestFocus()
}

// newWindow prefers a borderless splash window when the desktop driver offers one.
func (f *Fyne) newWindow(title string) fyne.Window {
	if drv, ok := f.app.Driver().(desktop.Driver); ok {
		w := drv.CreateSplashWindow()
		w.SetTitle(title)
		return w
	}
	return f.app.NewWindow(title)
}

func (f *Fyne) showResult(payload string) {
	w := f.newWindow(resultTitle)
	view := &resultView{window: w}

	view.panel = NewPanel(payload, PanelOptions{
		Copy:     f.opts.Copy,
		OpenURL:  f.opts.OpenURL,
		Feedback: f.opts.Feedback,
		Dismiss:  func() { f.closeWindow(w) },
		OnChange: func() { fyne.Do(view.refreshCopy) },
	})

	closeButton := widget.NewButtonWithIcon("", theme.CancelIcon(), view.panel.Dismiss)
	closeButton.Importance = widget.LowImportance
	header := container.NewHBox(
		widget.NewIcon(theme.ViewFullScreenIcon()),
		widget.NewLabelWithStyle(resultTitle, fyne.TextAlignLeading, fyne.TextStyle{Bold: true}),
		layout.NewSpacer(),
		closeButton,
	)

	body := widget.NewLabelWithStyle(payload, fyne.TextAlignLeading, fyne.TextStyle{Monospace: true})
	body.Wrapping = fyne.TextWrapBreak
	scroll := container.NewVScroll(body)
	scroll.SetMinSize(fyne.NewSize(panelWidth-32, 110))

	view.copyButton = widget.NewButtonWithIcon("Copy", theme.ContentCopyIcon(), func() {
		if err := view.panel.Copy(); err != nil {
			log.Printf("popup: copy failed: %v", err)
		}
	})
	actions := container.NewGridWithColumns(1, view.copyButton)
	if _, ok := view.panel.Link(); ok {
		view.openButton = widget.NewButtonWithIcon("Open Link", theme.ComputerIcon(), func() {
			if err := view.panel.OpenLink(); err != nil {
				log.Printf("popup: open link failed: %v", err)
			}
		})
		view.openButton.Importance = widget.HighImportance
		actions = container.NewGridWithColumns(2, view.copyButton, view.openButton)
	}

	w.SetContent(container.NewPadded(container.NewBorder(header, actions, nil, nil, scroll)))
	w.Canvas().SetOnTypedKey(func(ev *fyne.KeyEvent) { view.panel.HandleKey(ev.Name) })
	w.Resize(fyne.NewSize(panelWidth, panelHeight))
	w.SetFixedSize(true)

	log.Printf("popup: showing result (%d chars): %q", len(payload), logutil.Sanitize(payload))
	f.install(w, view)
}

func (v *resultView) refreshCopy() {
	if v.panel.Copied() {
		v.copyButton.SetText("Copied")
		v.copyButton.SetIcon(theme.ConfirmIcon())
		v.copyButton.Importance = widget.SuccessImportance
	} else {
		v.copyButton.SetText("Copy")
		v.copyButton.SetIcon(theme.ContentCopyIcon())
		v.copyButton.Importance = widget.MediumImportance
	}
	v.copyButton.Refresh()
}

func (f *Fyne) showNotice(title, message string) {
	w := f.newWindow(title)
	fillNotice(w, title, message, func() { f.closeWindow(w) })
	w.Resize(fyne.NewSize(noticeWidth, noticeHeight))

	log.Printf("popup: showing notice %q", title)
	f.install(w, nil)
}

func (f *Fyne) showAbout(title, text string) {
	if f.about != nil {
		f.about.Close()
	}
	w := f.app.NewWindow(title)
	f.about = w
	w.SetOnClosed(func() {
		if f.about == w {
			f.about = nil
		}
	})
	fillNotice(w, title, text, w.Close)
	w.SetFixedSize(true)
	w.CenterOnScreen()
	w.Show()
	w.RequestFocus()
}

// fillNotice lays out a title, a message and an OK button. Escape and Return also dismiss.
func fillNotice(w fyne.Window, title, message string, dismiss func()) {
	ok := widget.NewButton("OK", dismiss)
	ok.Importance = widget.HighImportance

	w.SetContent(container.NewPadded(container.NewVBox(
		widget.NewLabelWithStyle(title, fyne.TextAlignCenter, fyne.TextStyle{Bold: true}),
		widget.NewLabelWithStyle(message, fyne.TextAlignCenter, fyne.TextStyle{}),
		ok,
	)))
	w.Canvas().SetOnTypedKey(func(ev *fyne.KeyEvent) {
		switch ev.Name {
		case fyne.KeyEscape, fyne.KeyReturn, fyne.KeyEnter:
			dismiss()
		}
	})
}
