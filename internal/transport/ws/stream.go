package ws

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"sync"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"

	"github.com/DoyleJ11/hearts-client/internal/types"
)

// Stream is a transport.Stream over a websocket carrying one JSON envelope per text frame.
type Stream struct {
	conn *websocket.Conn

	closeOnce sync.Once
	closeErr  error
}

func Dial(ctx context.Context, url string) (*Stream, error) {
	conn, _, err := websocket.Dial(ctx, url, nil)
	if err != nil {
		return nil, fmt.Errorf("dial %s: %w", url, err)
	}
	conn.SetReadLimit(1 << 20)
	return &Stream{conn: conn}, nil
}

// New wraps an established connection.
func New(conn *websocket.Conn) *Stream {
	return &Stream{conn: conn}
}

func (s *Stream) Send(ctx context.Context, msg types.ClientMessage) error {
	return wsjson.Write(ctx, s.conn, msg)
}

func (s *Stream) Recv(ctx context.Context) (types.ServerMessage, error) {
	var msg types.ServerMessage
	if err := wsjson.Read(ctx, s.conn, &msg); err != nil {
		// Treat clean close/going-away as end of stream
		switch websocket.CloseStatus(err) {
		case websocket.StatusNormalClosure, websocket.StatusGoingAway:
			return types.ServerMessage{}, io.EOF
		}
		return types.ServerMessage{}, err
	}
	return msg, nil
}

// CloseSend performs the close handshake. A websocket has no half-close, so nothing
// more will be read after it returns.
func (s *Stream) CloseSend(context.Context) error {
	s.closeOnce.Do(func() {
		s.closeErr = s.conn.Close(websocket.StatusNormalClosure, "game over")
	})
	if errors.Is(s.closeErr, net.ErrClosed) {
		return nil
	}
	return s.closeErr
}

func (s *Stream) Close() error {
	s.closeOnce.Do(func() {
		s.closeErr = s.conn.CloseNow()
	})
	return nil
}
