package web

import (
	"sync"

	"github.com/gorilla/websocket"

	"folio/internal/logging"
)

// SafeConn wraps a WebSocket connection with a write mutex. gorilla allows
// one concurrent writer; shutdown and the session loop may both write.
type SafeConn struct {
	conn    *websocket.Conn
	writeMu sync.Mutex
	closed  bool
}

// NewSafeConn creates a new safe connection wrapper.
func NewSafeConn(conn *websocket.Conn) *SafeConn {
	return &SafeConn{conn: conn}
}

// WriteJSON writes v unless the connection is closed.
func (sc *SafeConn) WriteJSON(v interface{}) (err error) {
	sc.writeMu.Lock()
	defer sc.writeMu.Unlock()

	if sc.closed {
		return nil
	}

	defer func() {
		if r := recover(); r != nil {
			logging.ServerError("websocket write panic recovered: %v", r)
			sc.closed = true
		}
	}()

	return sc.conn.WriteJSON(v)
}

// CloseWith sends a close frame with code and reason, then closes.
func (sc *SafeConn) CloseWith(code int, reason string) error {
	sc.writeMu.Lock()
	if !sc.closed {
		_ = sc.conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(code, reason))
	}
	sc.closed = true
	sc.writeMu.Unlock()
	return sc.conn.Close()
}

// Close closes the underlying connection.
func (sc *SafeConn) Close() error {
	sc.writeMu.Lock()
	sc.closed = true
	sc.writeMu.Unlock()
	return sc.conn.Close()
}
