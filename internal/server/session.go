package server

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"os"
	"strings"
	"unicode/utf8"

	"github.com/coder/websocket"
	"github.com/google/uuid"
	"github.com/lithammer/shortuuid/v3"

	"trivia-backend/api"
	"trivia-backend/internal/game"
	"trivia-backend/internal/registry"
	"trivia-backend/internal/transport"
)

const (
	welcomeBanner = "to the trivia server! Send your name to join."
	maxNameRunes  = 25
)

// connSession binds one connection to its player and game state for the
// lifetime of the connection.
type connSession struct {
	srv    *Server
	conn   transport.Conn
	sess   *game.Session
	player *registry.Player
	logger *slog.Logger

	// gameID tags log lines of the game in progress.
	gameID string
}

// ServeConn drives one connection: handshake, then the command loop until
// the client disconnects or a fatal transport error occurs.
func (s *Server) ServeConn(ctx context.Context, conn transport.Conn) {
	defer conn.Close()

	player, err := s.handshake(ctx, conn)
	if err != nil {
		if !isDisconnect(err) {
			slog.Error("handshake failed", slog.Any("error", err))
		}
		return
	}

	handle := uuid.New().String()
	if err := s.registry.Add(handle, player); err != nil {
		slog.Error("register player", slog.Any("error", err))
		return
	}
	defer s.registry.Remove(handle)

	logger := slog.With(slog.String("player", player.Name()))
	logger.Info("player joined")
	defer logger.Info("player left")

	cs := &connSession{
		srv:    s,
		conn:   conn,
		sess:   game.NewSession(s.repo, s.cfg.QuestionsPerGame),
		player: player,
		logger: logger,
	}
	cs.run(ctx)
}

// handshake greets the client and reads a name, re-prompting with an error
// frame until a valid one arrives.
func (s *Server) handshake(ctx context.Context, conn transport.Conn) (*registry.Player, error) {
	if err := conn.WriteFrame(ctx, api.EncodeWelcome(welcomeBanner)); err != nil {
		return nil, err
	}
	for {
		name, err := conn.ReadFrame(ctx)
		if err != nil {
			return nil, err
		}
		if err := validateName(name); err != nil {
			if werr := conn.WriteFrame(ctx, api.EncodeError(err.Error())); werr != nil {
				return nil, werr
			}
			continue
		}
		return registry.NewPlayer(name), nil
	}
}

func validateName(name string) error {
	if name == "" {
		return errors.New("name must not be empty")
	}
	// A frame may span multiple lines; a name never does. A multi-line
	// name would split apart in the players block and the scoreboard file.
	if strings.ContainsAny(name, "\r\n") {
		return errors.New("name must be a single line")
	}
	if utf8.RuneCountInString(name) > maxNameRunes {
		return fmt.Errorf("name must not exceed %d characters", maxNameRunes)
	}
	return nil
}

func (cs *connSession) run(ctx context.Context) {
	for {
		input, err := cs.readCommand(ctx)
		if err != nil {
			if isTimeout(err) && cs.sess.State() == game.StateInGame {
				if err := cs.forfeit(ctx); err != nil {
					cs.fatal(err)
					return
				}
				continue
			}
			if !isDisconnect(err) {
				cs.fatal(err)
			}
			return
		}

		// A disconnect request terminates from any state; a game in
		// progress is abandoned without persisting a result.
		if input == api.CommandDisconnect {
			return
		}

		switch cs.sess.State() {
		case game.StateAwaitingCommand:
			err = cs.handleCommand(ctx, input)
		case game.StateInGame:
			err = cs.handleTurn(ctx, input)
		default:
			err = fmt.Errorf("session in unexpected state %s", cs.sess.State())
		}
		if err != nil {
			cs.fatal(err)
			return
		}
	}
}

// readCommand reads the next frame, bounding the wait by the answer timeout
// while a question is pending.
func (cs *connSession) readCommand(ctx context.Context) (string, error) {
	if cs.sess.State() == game.StateInGame && cs.srv.cfg.AnswerTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, cs.srv.cfg.AnswerTimeout)
		defer cancel()
	}
	return cs.conn.ReadFrame(ctx)
}

// handleCommand dispatches one idle-state command.
func (cs *connSession) handleCommand(ctx context.Context, cmd string) error {
	switch cmd {
	case api.CommandStartGame:
		q, err := cs.sess.Start()
		if err != nil {
			return fmt.Errorf("start game: %w", err)
		}
		cs.gameID = shortuuid.New()[:5]
		cs.logger.Info("game started", slog.String("game", cs.gameID))
		return cs.conn.WriteFrame(ctx, api.EncodeQuestion(q))

	case api.CommandGetPlayers:
		return cs.conn.WriteFrame(ctx, api.EncodePlayers(cs.srv.registry.Snapshot()))

	case api.CommandGetScoreboard:
		records, err := cs.collectScoreboard()
		if err != nil {
			cs.logger.Error("read scoreboard", slog.Any("error", err))
			return cs.conn.WriteFrame(ctx, api.EncodeError("scoreboard unavailable"))
		}
		return cs.conn.WriteFrame(ctx, api.EncodeScoreboard(records))

	default:
		return cs.conn.WriteFrame(ctx, api.EncodeError("unrecognized command"))
	}
}

// handleTurn consumes one in-game input: a lifeline token or an answer.
func (cs *connSession) handleTurn(ctx context.Context, input string) error {
	if lifeline, ok := game.ParseLifeline(input); ok {
		return cs.handleLifeline(ctx, lifeline)
	}

	result, err := cs.sess.Submit(input)
	if err != nil {
		return fmt.Errorf("submit answer: %w", err)
	}

	switch {
	case result.Won:
		if err := cs.conn.WriteFrame(ctx, api.FrameGameWon); err != nil {
			return err
		}
		return cs.finishGame(true)

	case !result.Correct:
		if err := cs.conn.WriteFrame(ctx, api.FrameGameOver); err != nil {
			return err
		}
		if err := cs.conn.WriteFrame(ctx, api.EncodeScore(result.Score)); err != nil {
			return err
		}
		return cs.finishGame(false)

	default:
		return cs.conn.WriteFrame(ctx, api.EncodeQuestion(*result.Next))
	}
}

func (cs *connSession) handleLifeline(ctx context.Context, lifeline game.Lifeline) error {
	assist, err := cs.sess.UseLifeline(lifeline)
	if errors.Is(err, game.ErrLifelineUsed) {
		if err := cs.conn.WriteFrame(ctx, api.EncodeError("lifeline already used")); err != nil {
			return err
		}
		q, err := cs.sess.Current()
		if err != nil {
			return err
		}
		return cs.conn.WriteFrame(ctx, api.EncodeQuestion(q))
	}
	if err != nil {
		return fmt.Errorf("use lifeline: %w", err)
	}

	cs.logger.Info("lifeline used",
		slog.String("game", cs.gameID),
		slog.String("lifeline", lifeline.String()))

	switch lifeline {
	case game.LifelineAskAudience:
		if err := cs.conn.WriteFrame(ctx, api.EncodeAudience(assist.Audience)); err != nil {
			return err
		}
	case game.LifelinePhoneFriend:
		if err := cs.conn.WriteFrame(ctx, api.EncodeFriend(assist.Friend)); err != nil {
			return err
		}
	}
	return cs.conn.WriteFrame(ctx, api.EncodeQuestion(assist.Question))
}

// forfeit ends a game whose answer wait expired.
func (cs *connSession) forfeit(ctx context.Context) error {
	if err := cs.sess.Forfeit(); err != nil {
		return fmt.Errorf("forfeit: %w", err)
	}
	cs.logger.Info("answer wait expired", slog.String("game", cs.gameID))
	if err := cs.conn.WriteFrame(ctx, api.FrameGameOver); err != nil {
		return err
	}
	if err := cs.conn.WriteFrame(ctx, api.EncodeScore(cs.sess.Score())); err != nil {
		return err
	}
	return cs.finishGame(false)
}

// finishGame settles a finished game: credit the player, persist the result
// and re-arm the session. The outcome frame has already been sent, so a
// persistence failure is logged but never ends the connection.
func (cs *connSession) finishGame(won bool) error {
	score, err := cs.sess.Finish()
	if err != nil {
		return fmt.Errorf("finish game: %w", err)
	}
	cs.player.AddScore(score)

	if err := cs.srv.store.Append(cs.player.Name(), score); err != nil {
		cs.logger.Error("persist result",
			slog.String("game", cs.gameID),
			slog.Any("error", err))
	}

	cs.logger.Info("game finished",
		slog.String("game", cs.gameID),
		slog.Bool("won", won),
		slog.Int("score", score))
	cs.gameID = ""
	return nil
}

func (cs *connSession) collectScoreboard() ([]api.Score, error) {
	var records []api.Score
	for rec, err := range cs.srv.store.All() {
		if err != nil {
			return nil, err
		}
		records = append(records, api.Score{Name: rec.Name, Score: rec.Score})
	}
	return records, nil
}

func (cs *connSession) fatal(err error) {
	cs.logger.Error("connection error", slog.Any("error", err))
}

func isDisconnect(err error) bool {
	return errors.Is(err, io.EOF) || errors.Is(err, net.ErrClosed) ||
		errors.Is(err, context.Canceled) ||
		websocket.CloseStatus(err) != -1
}

func isTimeout(err error) bool {
	return errors.Is(err, os.ErrDeadlineExceeded) || errors.Is(err, context.DeadlineExceeded)
}
