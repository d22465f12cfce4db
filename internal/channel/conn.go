package channel

import (
	"bufio"
	"context"
	"errors"
	"io"
	"net"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/cogniapply/internal/shared"
	"github.com/gobwas/ws"
	"github.com/gobwas/ws/wsutil"
)

// Stream is an open push channel.
type Stream interface {
	Next(ctx context.Context) (Event, error)
	Close() error
}

// Dialer opens push channels under a base websocket URL.
type Dialer struct {
	baseURL string
	timeout time.Duration
	logger  *log.Logger
}

// NewDialer creates a Dialer for pushURL, e.g. ws://localhost:8000/ws.
func NewDialer(pushURL string, timeout time.Duration, logger *log.Logger) *Dialer {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Dialer{baseURL: strings.TrimRight(pushURL, "/"), timeout: timeout, logger: logger}
}

// URL returns the channel address for username.
func (d *Dialer) URL(username string) string {
	return d.baseURL + "/" + url.PathEscape(username)
}

// Dial opens the channel of username. Failures are reported as [shared.ChannelError].
func (d *Dialer) Dial(ctx context.Context, username string) (*Conn, error) {
	dialer := ws.Dialer{Timeout: d.timeout}

	conn, br, _, err := dialer.Dial(ctx, d.URL(username))
	if err != nil {
		return nil, &shared.ChannelError{Err: err}
	}

	d.logger.Debug("channel open", "username", username)
	return newConn(conn, br), nil
}

// Open implements the controller's channel opener.
func (d *Dialer) Open(ctx context.Context, username string) (Stream, error) {
	conn, err := d.Dial(ctx, username)
	if err != nil {
		return nil, err
	}
	return conn, nil
}

// Conn is the client side of an open channel.
type Conn struct {
	conn net.Conn
	rw   io.ReadWriter

	closeOnce sync.Once
	closeErr  error
}

func newConn(conn net.Conn, br *bufio.Reader) *Conn {
	var r io.Reader = conn
	if br != nil {
		r = br
	}
	rw := struct {
		io.Reader
		io.Writer
	}{r, conn}
	return &Conn{conn: conn, rw: rw}
}

// Next blocks until the next event arrives.
//
// Ping frames are answered transparently. A close frame or a closed socket yields [io.EOF];
// cancellation of ctx yields ctx.Err(); anything else is a [shared.ChannelError].
func (c *Conn) Next(ctx context.Context) (Event, error) {
	stop := context.AfterFunc(ctx, func() {
		c.conn.SetReadDeadline(time.Now())
	})
	defer stop()

	data, _, err := wsutil.ReadServerData(c.rw)
	if err != nil {
		if ctx.Err() != nil {
			return Event{}, ctx.Err()
		}
		return Event{}, classify(err)
	}

	e, err := Decode(data)
	if err != nil {
		return Event{}, &shared.ChannelError{Err: err}
	}
	return e, nil
}

// Close sends a normal closure and releases the socket. It is safe to call more than once.
func (c *Conn) Close() error {
	c.closeOnce.Do(func() {
		_ = wsutil.WriteClientMessage(c.conn, ws.OpClose, ws.NewCloseFrameBody(ws.StatusNormalClosure, ""))
		c.closeErr = c.conn.Close()
	})
	return c.closeErr
}

func classify(err error) error {
	var closed wsutil.ClosedError
	switch {
	case errors.As(err, &closed),
		errors.Is(err, io.EOF),
		errors.Is(err, io.ErrUnexpectedEOF),
		errors.Is(err, net.ErrClosed):
		return io.EOF
	}
	return &shared.ChannelError{Err: err}
}
