package transport

import (
	"context"
	"strings"

	"github.com/coder/websocket"
)

// WSConn frames messages over a websocket connection. One text message
// carries exactly one frame; the websocket layer already preserves message
// boundaries, so no delimiter is needed on the wire.
type WSConn struct {
	c *websocket.Conn
}

func NewWSConn(c *websocket.Conn) *WSConn {
	return &WSConn{c: c}
}

func (c *WSConn) ReadFrame(ctx context.Context) (string, error) {
	for {
		typ, data, err := c.c.Read(ctx)
		if err != nil {
			return "", err
		}
		if typ != websocket.MessageText {
			continue
		}
		frame := strings.TrimRight(string(data), "\r\n")
		if frame == "" {
			continue
		}
		return frame, nil
	}
}

func (c *WSConn) WriteFrame(ctx context.Context, frame string) error {
	frame = strings.TrimRight(frame, "\n")
	if frame == "" || strings.Contains(frame, "\n\n") {
		return ErrInvalidFrame
	}
	return c.c.Write(ctx, websocket.MessageText, []byte(frame))
}

func (c *WSConn) Close() error {
	return c.c.Close(websocket.StatusNormalClosure, "")
}
