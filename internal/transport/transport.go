// Package transport frames logical protocol messages over byte-stream
// connections. A frame is a run of non-empty lines terminated by one empty
// line; partial reads are buffered, so a frame never depends on how the
// bytes were segmented on the wire.
package transport

import (
	"bufio"
	"context"
	"errors"
	"io"
	"net"
	"os"
	"strings"
	"sync"
	"time"
)

var (
	ErrFrameTooLarge = errors.New("frame exceeds read limit")
	ErrInvalidFrame  = errors.New("frame contains an empty line")
)

// Conn is a framed bidirectional message stream. Sessions consume whole
// logical messages only and never see partial reads.
type Conn interface {
	// ReadFrame blocks until one whole frame arrives. The context deadline,
	// if any, bounds the wait.
	ReadFrame(ctx context.Context) (string, error)

	// WriteFrame sends one whole frame.
	WriteFrame(ctx context.Context, frame string) error

	Close() error
}

// NetConn frames messages over a net.Conn.
//
// Reads and writes take distinct mutexes: the stream is full duplex, and a
// blocked read must not stall writes.
type NetConn struct {
	c         net.Conn
	r         *bufio.Reader
	readLimit int64
	rmu, wmu  sync.Mutex

	// In-progress read state, retained across deadline expiries so a frame
	// interrupted by a timeout is completed by the next ReadFrame instead
	// of being truncated.
	frame   strings.Builder
	size    int64
	partial string
}

// NewNetConn wraps c. readLimit caps the byte size of one inbound frame;
// zero or negative means no limit.
func NewNetConn(c net.Conn, readLimit int64) *NetConn {
	return &NetConn{
		c:         c,
		r:         bufio.NewReader(c),
		readLimit: readLimit,
	}
}

func (c *NetConn) ReadFrame(ctx context.Context) (string, error) {
	c.rmu.Lock()
	defer c.rmu.Unlock()

	if err := c.setDeadline(ctx, c.c.SetReadDeadline); err != nil {
		return "", err
	}

	for {
		line, err := c.r.ReadString('\n')
		if err != nil {
			if errors.Is(err, os.ErrDeadlineExceeded) {
				c.partial += line
				return "", err
			}
			if errors.Is(err, io.EOF) && (c.frame.Len() > 0 || c.partial != "" || line != "") {
				return "", io.ErrUnexpectedEOF
			}
			return "", err
		}

		line = strings.TrimRight(c.partial+line, "\r\n")
		c.partial = ""
		if line == "" {
			if c.frame.Len() == 0 {
				// Stray terminator, keep waiting for a frame.
				continue
			}
			frame := c.frame.String()
			c.frame.Reset()
			c.size = 0
			return frame, nil
		}

		c.size += int64(len(line)) + 1
		if c.readLimit > 0 && c.size > c.readLimit {
			return "", ErrFrameTooLarge
		}
		if c.frame.Len() > 0 {
			c.frame.WriteByte('\n')
		}
		c.frame.WriteString(line)
	}
}

func (c *NetConn) WriteFrame(ctx context.Context, frame string) error {
	frame = strings.TrimRight(frame, "\n")
	if frame == "" || strings.Contains(frame, "\n\n") {
		return ErrInvalidFrame
	}

	c.wmu.Lock()
	defer c.wmu.Unlock()

	if err := c.setDeadline(ctx, c.c.SetWriteDeadline); err != nil {
		return err
	}
	_, err := io.WriteString(c.c, frame+"\n\n")
	return err
}

func (c *NetConn) setDeadline(ctx context.Context, set func(time.Time) error) error {
	if deadline, ok := ctx.Deadline(); ok {
		return set(deadline)
	}
	return set(time.Time{})
}

func (c *NetConn) Close() error {
	return c.c.Close()
}
