package eventloop

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/go-faster/errors"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	mockdecode "screen-qr-scanner/src/decode/mock"
	"screen-qr-scanner/src/popup"
	mockpopup "screen-qr-scanner/src/popup/mock"
	"screen-qr-scanner/src/screenshot"
	mockscreenshot "screen-qr-scanner/src/screenshot/mock"
	"screen-qr-scanner/src/singleinstance"
)

type harness struct {
	loop      *Loop
	capturer  *mockscreenshot.MockCapturer
	decoder   *mockdecode.MockDecoder
	presenter *mockpopup.MockPresenter
	path      string
	busy      chan bool
}

func newHarness(t *testing.T, srv singleinstance.Server) *harness {
	t.Helper()
	ctrl := gomock.NewController(t)
	h := &harness{
		capturer:  mockscreenshot.NewMockCapturer(ctrl),
		decoder:   mockdecode.NewMockDecoder(ctrl),
		presenter: mockpopup.NewMockPresenter(ctrl),
		path:      filepath.Join(t.TempDir(), "temp_qr_scan.png"),
		busy:      make(chan bool, 16),
	}
	h.loop = New(Options{
		Capturer:  h.capturer,
		Decoder:   h.decoder,
		Presenter: h.presenter,
		Server:    srv,
		TempPath:  h.path,
		Deadline:  5 * time.Second,
		Workers:   2,
		OnBusy:    func(b bool) { h.busy <- b },
	})
	return h
}

func (h *harness) run(t *testing.T) {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- h.loop.Run(ctx) }()
	t.Cleanup(func() {
		cancel()
		select {
		case <-done:
		case <-time.After(5 * time.Second):
			t.Error("loop did not stop")
		}
	})
}

func (h *harness) waitBusy(t *testing.T, want bool) {
	t.Helper()
	select {
	case got := <-h.busy:
		require.Equal(t, want, got)
	case <-time.After(5 * time.Second):
		t.Fatalf("timed out waiting for busy=%v", want)
	}
}

func writeCapture(_ context.Context, path string) error {
	return os.WriteFile(path, []byte("png"), 0o600)
}

func TestScanShowsDecodedPayload(t *testing.T) {
	h := newHarness(t, nil)
	gomock.InOrder(
		h.presenter.EXPECT().Close(),
		h.capturer.EXPECT().Capture(gomock.Any(), h.path).DoAndReturn(writeCapture),
		h.decoder.EXPECT().Decode(gomock.Any(), h.path).Return("https://example.com", true, nil),
		h.presenter.EXPECT().ShowResult("https://example.com"),
	)
	h.run(t)

	h.loop.Trigger()
	h.waitBusy(t, true)
	h.waitBusy(t, false)

	require.False(t, screenshot.Exists(h.path), "temporary capture should be removed after decoding")
}

func TestScanWithoutCodeShowsNotice(t *testing.T) {
	h := newHarness(t, nil)
	gomock.InOrder(
		h.presenter.EXPECT().Close(),
		h.capturer.EXPECT().Capture(gomock.Any(), h.path).DoAndReturn(writeCapture),
		h.decoder.EXPECT().Decode(gomock.Any(), h.path).Return("", false, nil),
		h.presenter.EXPECT().ShowNotice(popup.NotFoundTitle, popup.NotFoundMessage),
	)
	h.run(t)

	h.loop.Trigger()
	h.waitBusy(t, true)
	h.waitBusy(t, false)
	require.False(t, screenshot.Exists(h.path))
}

func TestDecodeErrorShowsNotice(t *testing.T) {
	h := newHarness(t, nil)
	gomock.InOrder(
		h.presenter.EXPECT().Close(),
		h.capturer.EXPECT().Capture(gomock.Any(), h.path).DoAndReturn(writeCapture),
		h.decoder.EXPECT().Decode(gomock.Any(), h.path).Return("", false, errors.New("not an image")),
		h.presenter.EXPECT().ShowNotice(popup.NotFoundTitle, popup.NotFoundMessage),
	)
	h.run(t)

	h.loop.Trigger()
	h.waitBusy(t, true)
	h.waitBusy(t, false)
}

func TestCancelledSelectionShowsNothing(t *testing.T) {
	h := newHarness(t, nil)
	gomock.InOrder(
		h.presenter.EXPECT().Close(),
		h.capturer.EXPECT().Capture(gomock.Any(), h.path).Return(errors.New("exit status 1")),
	)
	h.run(t)

	h.loop.Trigger()
	h.waitBusy(t, true)
	h.waitBusy(t, false)
}

func TestTriggerClosesPanelBeforeNextCapture(t *testing.T) {
	h := newHarness(t, nil)
	gomock.InOrder(
		h.presenter.EXPECT().Close(),
		h.capturer.EXPECT().Capture(gomock.Any(), h.path).DoAndReturn(writeCapture),
		h.decoder.EXPECT().Decode(gomock.Any(), h.path).Return("first", true, nil),
		h.presenter.EXPECT().ShowResult("first"),
		h.presenter.EXPECT().Close(),
		h.capturer.EXPECT().Capture(gomock.Any(), h.path).DoAndReturn(writeCapture),
		h.decoder.EXPECT().Decode(gomock.Any(), h.path).Return("second", true, nil),
		h.presenter.EXPECT().ShowResult("second"),
	)
	h.run(t)

	h.loop.Trigger()
	h.waitBusy(t, true)
	h.waitBusy(t, false)

	h.loop.Trigger()
	h.waitBusy(t, true)
	h.waitBusy(t, false)
}

func TestStaleResultIsDiscarded(t *testing.T) {
	h := newHarness(t, nil)

	started := make(chan struct{})
	release := make(chan struct{})
	h.presenter.EXPECT().Close().Times(2)
	h.capturer.EXPECT().Capture(gomock.Any(), h.path).DoAndReturn(writeCapture).Times(2)
	h.decoder.EXPECT().Decode(gomock.Any(), h.path).DoAndReturn(func(context.Context, string) (string, bool, error) {
		close(started)
		<-release
		return "old", true, nil
	})
	h.decoder.EXPECT().Decode(gomock.Any(), h.path).Return("new", true, nil)
	h.presenter.EXPECT().ShowResult("new")
	h.run(t)

	h.loop.Trigger()
	h.waitBusy(t, true)
	<-started

	h.loop.Trigger()
	h.waitBusy(t, false)

	close(release)
	// Give the loop a chance to receive and drop the stale result.
	time.Sleep(100 * time.Millisecond)
}

func TestTriggerIgnoredWhileSelecting(t *testing.T) {
	h := newHarness(t, nil)

	entered := make(chan struct{})
	release := make(chan struct{})
	h.presenter.EXPECT().Close()
	h.capturer.EXPECT().Capture(gomock.Any(), h.path).DoAndReturn(func(context.Context, string) error {
		close(entered)
		<-release
		return nil
	})
	h.run(t)

	h.loop.Trigger()
	h.waitBusy(t, true)
	<-entered

	h.loop.Trigger()
	time.Sleep(50 * time.Millisecond)
	close(release)
	h.waitBusy(t, false)
}

func TestDelegatedScanAnswersClient(t *testing.T) {
	srv := newFakeServer()
	h := newHarness(t, srv)
	gomock.InOrder(
		h.presenter.EXPECT().Close(),
		h.capturer.EXPECT().Capture(gomock.Any(), h.path).DoAndReturn(writeCapture),
		h.decoder.EXPECT().Decode(gomock.Any(), h.path).Return("hello", true, nil),
		h.presenter.EXPECT().ShowResult("hello"),
	)
	h.run(t)

	conn := &fakeConn{}
	srv.conns <- conn
	h.waitBusy(t, true)
	h.waitBusy(t, false)

	status, body, closed := conn.snapshot()
	require.Equal(t, "SUCCESS", status)
	require.Equal(t, "hello", body)
	require.True(t, closed)
}

func TestDelegatedTargetSuperseded(t *testing.T) {
	ctrl := gomock.NewController(t)
	presenter := mockpopup.NewMockPresenter(ctrl)
	conn := &fakeConn{}

	target := newDelegatedTarget(presenter, conn)
	target.OnProcessError(ErrSuperseded)
	target.Close()

	status, body, closed := conn.snapshot()
	require.Equal(t, "ERROR", status)
	require.Equal(t, ErrSuperseded.Error(), body)
	require.True(t, closed)
}

func TestScreenTargetErrors(t *testing.T) {
	ctrl := gomock.NewController(t)
	presenter := mockpopup.NewMockPresenter(ctrl)
	presenter.EXPECT().ShowNotice(popup.NotFoundTitle, popup.NotFoundMessage).Times(2)

	target := screenTarget{presenter: presenter}
	target.OnProcessError(context.DeadlineExceeded)
	target.OnProcessError(errors.New("unreadable image"))

	// No UI for these.
	target.OnProcessError(errors.Wrap(ErrSuperseded, "scan 3"))
	target.OnProcessError(ErrBusy)
	target.OnProcessError(context.Canceled)
}

type fakeServer struct {
	conns chan singleinstance.Conn
}

func newFakeServer() *fakeServer {
	return &fakeServer{conns: make(chan singleinstance.Conn, 1)}
}

func (s *fakeServer) Start(context.Context) error { return nil }
func (s *fakeServer) Port() int                   { return 0 }
func (s *fakeServer) Close() error                { return nil }

func (s *fakeServer) Next(ctx context.Context) (singleinstance.Conn, error) {
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case c := <-s.conns:
		return c, nil
	}
}

type fakeConn struct {
	mu     sync.Mutex
	status string
	body   string
	closed bool
}

func (c *fakeConn) RespondSuccess(text string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.status, c.body = "SUCCESS", text
	return nil
}

func (c *fakeConn) RespondError(msg string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.status, c.body = "ERROR", msg
	return nil
}

func (c *fakeConn) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.closed = true
	return nil
}

func (c *fakeConn) snapshot() (string, string, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.status, c.body, c.closed
}
