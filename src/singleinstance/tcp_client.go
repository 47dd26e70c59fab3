package singleinstance

import (
	"bufio"
	"context"
	"io"
	"net"
	"strconv"
	"time"

	"github.com/go-faster/errors"
)

type tcpClient struct{}

func newTcpClient() Client { return &tcpClient{} }

const dialTimeout = 2 * time.Second

func (c *tcpClient) TryScan(ctx context.Context) (bool, string, error) {
	port, ok := DetectResidentPort(ctx)
	if !ok {
		return false, "", nil
	}
	addr := net.JoinHostPort(residentHost, strconv.Itoa(port))
	payload, err := requestScan(ctx, addr, dialTimeout)
	return true, payload, err
}

// requestScan asks the resident at addr for one scan and waits for its answer.
// The answer takes as long as the user needs to select a region, so only ctx bounds it.
func requestScan(ctx context.Context, addr string, dialTimeout time.Duration) (string, error) {
	conn, err := net.DialTimeout("tcp", addr, dialTimeout)
	if err != nil {
		return "", errors.Wrapf(err, "dial resident %s", addr)
	}
	defer conn.Close()

	stop := context.AfterFunc(ctx, func() { _ = conn.SetDeadline(time.Now()) })
	defer stop()

	w := bufio.NewWriter(conn)
	if _, err := w.WriteString(scanRequest); err != nil {
		return "", errors.Wrap(err, "send request")
	}
	if err := w.Flush(); err != nil {
		return "", errors.Wrap(err, "send request")
	}

	br := bufio.NewReader(conn)
	status, err := br.ReadString('\n')
	if err != nil {
		if ctx.Err() != nil {
			return "", ctx.Err()
		}
		return "", errors.Wrap(err, "read response")
	}
	body, err := io.ReadAll(br)
	if err != nil && ctx.Err() != nil {
		return "", ctx.Err()
	}

	switch status {
	case successResponse:
		return string(body), nil
	case errorResponse:
		return "", &ResidentError{Message: string(body)}
	default:
		return "", errors.Errorf("unexpected response %q", status)
	}
}

// ResidentError carries a failure reported by the resident instance.
type ResidentError struct {
	Message string
}

func (e *ResidentError) Error() string { return e.Message }
