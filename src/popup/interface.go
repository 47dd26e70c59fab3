package popup

//go:generate mockgen -package mockpopup -source=interface.go -destination=mock/mockpopup.go *

// Presenter shows at most one result panel or notice at a time. Implementations
// marshal every call onto the UI thread, so callers may use any goroutine.
type Presenter interface {
	// ShowResult replaces whatever is on screen with a panel for payload.
	ShowResult(payload string)
	// ShowNotice replaces whatever is on screen with a non-blocking notice.
	ShowNotice(title, message string)
	// Close dismisses the current panel or notice, if any.
	Close()
}

const (
	NotFoundTitle   = "No QR code recognized"
	NotFoundMessage = "Please try again."
)
