package eventloop

import (
	"context"
	"log"

	"github.com/go-faster/errors"

	"screen-qr-scanner/src/popup"
	"screen-qr-scanner/src/session"
	"screen-qr-scanner/src/singleinstance"
)

// resultTarget receives the outcome of one scan. Exactly one of the On*
// methods is called, followed by Close.
type resultTarget interface {
	OnFound(payload string)
	OnNotFound()
	OnProcessError(err error)
	Close()
}

// screenTarget shows the outcome in the floating panel.
type screenTarget struct {
	presenter popup.Presenter
}

func (t screenTarget) OnFound(payload string) { t.presenter.ShowResult(payload) }

func (t screenTarget) OnNotFound() {
	t.presenter.ShowNotice(popup.NotFoundTitle, popup.NotFoundMessage)
}

func (t screenTarget) OnProcessError(err error) {
	switch {
	case errors.Is(err, session.ErrSelectionCancelled),
		errors.Is(err, ErrSuperseded),
		errors.Is(err, ErrBusy),
		errors.Is(err, context.Canceled):
		// Nothing to show: the user either backed out or started another scan.
	default:
		t.OnNotFound()
	}
}

func (screenTarget) Close() {}

// delegatedTarget serves a run-once client: the panel is shown as usual and
// the payload or error is also written back over the connection.
type delegatedTarget struct {
	screen screenTarget
	conn   singleinstance.Conn
}

func newDelegatedTarget(presenter popup.Presenter, conn singleinstance.Conn) delegatedTarget {
	return delegatedTarget{screen: screenTarget{presenter: presenter}, conn: conn}
}

func (t delegatedTarget) OnFound(payload string) {
	t.screen.OnFound(payload)
	if err := t.conn.RespondSuccess(payload); err != nil {
		log.Printf("delegated: failed to answer client: %v", err)
	}
}

func (t delegatedTarget) OnNotFound() {
	t.screen.OnNotFound()
	t.respondError(session.ErrNotFound)
}

func (t delegatedTarget) OnProcessError(err error) {
	t.screen.OnProcessError(err)
	t.respondError(err)
}

func (t delegatedTarget) respondError(err error) {
	if rerr := t.conn.RespondError(err.Error()); rerr != nil {
		log.Printf("delegated: failed to answer client: %v", rerr)
	}
}

func (t delegatedTarget) Close() {
	if t.conn != nil {
		_ = t.conn.Close()
	}
}
