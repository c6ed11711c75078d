// Package client implements a minimal protocol client over TCP, used by the
// end-to-end tests and suitable as a reference for real clients.
package client

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"net"
	"strings"
	"time"

	"trivia-backend/api"
)

type Client struct {
	conn    net.Conn
	r       *bufio.Reader
	timeout time.Duration
}

// Dial connects to a trivia server. timeout bounds every subsequent read and
// write; zero disables deadlines.
func Dial(addr string, timeout time.Duration) (*Client, error) {
	conn, err := net.DialTimeout("tcp", addr, timeout)
	if err != nil {
		return nil, err
	}
	return &Client{
		conn:    conn,
		r:       bufio.NewReader(conn),
		timeout: timeout,
	}, nil
}

func (c *Client) Close() error {
	return c.conn.Close()
}

// ReadFrame reads one whole server frame: the non-empty lines up to a blank
// line.
func (c *Client) ReadFrame() (string, error) {
	if c.timeout > 0 {
		if err := c.conn.SetReadDeadline(time.Now().Add(c.timeout)); err != nil {
			return "", err
		}
	}

	var frame strings.Builder
	for {
		line, err := c.r.ReadString('\n')
		if err != nil {
			if errors.Is(err, io.EOF) && (frame.Len() > 0 || line != "") {
				return "", io.ErrUnexpectedEOF
			}
			return "", err
		}

		line = strings.TrimRight(line, "\r\n")
		if line == "" {
			if frame.Len() == 0 {
				continue
			}
			return frame.String(), nil
		}
		if frame.Len() > 0 {
			frame.WriteByte('\n')
		}
		frame.WriteString(line)
	}
}

func (c *Client) WriteFrame(frame string) error {
	if c.timeout > 0 {
		if err := c.conn.SetWriteDeadline(time.Now().Add(c.timeout)); err != nil {
			return err
		}
	}
	_, err := io.WriteString(c.conn, frame+"\n\n")
	return err
}

// Handshake consumes the welcome frame and registers under name.
func (c *Client) Handshake(name string) error {
	frame, err := c.ReadFrame()
	if err != nil {
		return err
	}
	if _, ok := api.ParseWelcome(frame); !ok {
		return fmt.Errorf("expected welcome, got %q", frame)
	}
	return c.WriteFrame(name)
}

// StartGame requests a new game and returns its first question.
func (c *Client) StartGame() (api.Question, error) {
	if err := c.WriteFrame(api.CommandStartGame); err != nil {
		return api.Question{}, err
	}
	return c.readQuestion()
}

// Outcome is the server's reaction to one answer submission.
type Outcome struct {
	Won   bool
	Over  bool
	Score int           // final per-game score, set when Over
	Next  *api.Question // next question, nil once the game ended
}

// Submit sends an answer and reads the resulting frame or frames.
func (c *Client) Submit(answer string) (Outcome, error) {
	if err := c.WriteFrame(answer); err != nil {
		return Outcome{}, err
	}

	frame, err := c.ReadFrame()
	if err != nil {
		return Outcome{}, err
	}
	switch {
	case frame == api.FrameGameWon:
		return Outcome{Won: true}, nil
	case frame == api.FrameGameOver:
		scoreFrame, err := c.ReadFrame()
		if err != nil {
			return Outcome{}, err
		}
		score, ok := api.ParseScore(scoreFrame)
		if !ok {
			return Outcome{}, fmt.Errorf("expected score, got %q", scoreFrame)
		}
		return Outcome{Over: true, Score: score}, nil
	default:
		q, err := api.ParseQuestion(frame)
		if err != nil {
			return Outcome{}, err
		}
		return Outcome{Next: &q}, nil
	}
}

// Assist is the server's reaction to a lifeline request. Rejected carries
// the error cause when the lifeline was refused; Question always carries the
// re-presented active question.
type Assist struct {
	Rejected string
	Audience []api.OptionPercent
	Friend   string
	Question api.Question
}

// Lifeline requests a lifeline by its wire token.
func (c *Client) Lifeline(token string) (Assist, error) {
	if err := c.WriteFrame(token); err != nil {
		return Assist{}, err
	}

	frame, err := c.ReadFrame()
	if err != nil {
		return Assist{}, err
	}

	assist := Assist{}
	if cause, ok := api.ParseError(frame); ok {
		assist.Rejected = cause
	} else if poll, ok := api.ParseAudience(frame); ok {
		assist.Audience = poll
	} else if msg, ok := api.ParseFriend(frame); ok {
		assist.Friend = msg
	} else {
		// Fifty-fifty re-presents the question with no extra frame.
		q, err := api.ParseQuestion(frame)
		if err != nil {
			return Assist{}, err
		}
		assist.Question = q
		return assist, nil
	}

	assist.Question, err = c.readQuestion()
	return assist, err
}

// Players requests the names of the currently connected players.
func (c *Client) Players() ([]string, error) {
	if err := c.WriteFrame(api.CommandGetPlayers); err != nil {
		return nil, err
	}
	frame, err := c.ReadFrame()
	if err != nil {
		return nil, err
	}
	names, ok := api.ParsePlayers(frame)
	if !ok {
		return nil, fmt.Errorf("expected player list, got %q", frame)
	}
	return names, nil
}

// Scoreboard requests the persisted results of finished games.
func (c *Client) Scoreboard() ([]api.Score, error) {
	if err := c.WriteFrame(api.CommandGetScoreboard); err != nil {
		return nil, err
	}
	frame, err := c.ReadFrame()
	if err != nil {
		return nil, err
	}
	if cause, ok := api.ParseError(frame); ok {
		return nil, errors.New(cause)
	}
	records, ok := api.ParseScoreboard(frame)
	if !ok {
		return nil, fmt.Errorf("expected scoreboard, got %q", frame)
	}
	return records, nil
}

// Disconnect asks the server to drop the connection.
func (c *Client) Disconnect() error {
	return c.WriteFrame(api.CommandDisconnect)
}

func (c *Client) readQuestion() (api.Question, error) {
	frame, err := c.ReadFrame()
	if err != nil {
		return api.Question{}, err
	}
	return api.ParseQuestion(frame)
}
