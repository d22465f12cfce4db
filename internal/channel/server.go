package channel

import (
	"io"
	"net"
	"net/http"
	"sync"

	"github.com/gobwas/ws"
	"github.com/gobwas/ws/wsutil"
)

// ServerConn is the backend side of a channel.
type ServerConn struct {
	conn net.Conn

	mu     sync.Mutex
	closed bool
}

// Accept upgrades an HTTP request to a channel.
func Accept(w http.ResponseWriter, r *http.Request) (*ServerConn, error) {
	conn, _, _, err := ws.UpgradeHTTP(r, w)
	if err != nil {
		return nil, err
	}
	return &ServerConn{conn: conn}, nil
}

// Send writes e as one text frame. Concurrent senders are serialized.
func (s *ServerConn) Send(e Event) error {
	data, err := Encode(e)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return io.ErrClosedPipe
	}
	return wsutil.WriteServerText(s.conn, data)
}

// Wait blocks until the client goes away, answering control frames meanwhile.
func (s *ServerConn) Wait() {
	rw := struct {
		io.Reader
		io.Writer
	}{s.conn, lockedWriter{s}}

	for {
		if _, _, err := wsutil.ReadClientData(rw); err != nil {
			return
		}
	}
}

// lockedWriter serializes control frame replies with Send.
type lockedWriter struct{ s *ServerConn }

func (w lockedWriter) Write(p []byte) (int, error) {
	w.s.mu.Lock()
	defer w.s.mu.Unlock()
	if w.s.closed {
		return 0, io.ErrClosedPipe
	}
	return w.s.conn.Write(p)
}

// Close sends a normal closure and releases the socket.
func (s *ServerConn) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil
	}
	s.closed = true
	_ = wsutil.WriteServerMessage(s.conn, ws.OpClose, ws.NewCloseFrameBody(ws.StatusNormalClosure, ""))
	return s.conn.Close()
}
