// Package game implements the per-connection quiz session: question
// sequencing, answer checking, lifelines and scoring.
package game

import (
	"errors"
	"fmt"

	"trivia-backend/api"
	"trivia-backend/internal/question"
)

type State int

const (
	StateAwaitingCommand State = iota
	StateInGame
	StateGameWon
	StateGameOver
)

var stateToString = map[State]string{
	StateAwaitingCommand: "awaiting command",
	StateInGame:          "in game",
	StateGameWon:         "game won",
	StateGameOver:        "game over",
}

func (s State) String() string {
	if str, ok := stateToString[s]; ok {
		return str
	}
	return "unknown"
}

var (
	ErrNotInGame      = errors.New("no game in progress")
	ErrGameInProgress = errors.New("game already in progress")
	ErrNotFinished    = errors.New("game not finished")
	ErrLifelineUsed   = errors.New("lifeline already used")
)

// Session drives one player's games over the lifetime of a connection. It
// is confined to the connection's goroutine and requires no locking:
// question exchange involves no cross-session state.
type Session struct {
	repo    *question.Repository
	perGame int

	state    State
	sequence []int
	index    int
	score    int
	used     map[Lifeline]bool

	// visible lists the option labels currently presented for the active
	// question; nil means all of them. Fifty-fifty narrows it.
	visible []string
}

// NewSession creates an idle session drawing its games from repo.
func NewSession(repo *question.Repository, questionsPerGame int) *Session {
	return &Session{
		repo:    repo,
		perGame: questionsPerGame,
		state:   StateAwaitingCommand,
	}
}

func (s *Session) State() State {
	return s.state
}

// Score returns the running score of the current or just-finished game.
func (s *Session) Score() int {
	return s.score
}

// Start draws a fresh question sequence, resets the lifelines and the
// per-game score, and presents the first question.
func (s *Session) Start() (api.Question, error) {
	if s.state != StateAwaitingCommand {
		return api.Question{}, ErrGameInProgress
	}

	sequence, err := s.repo.Sample(s.perGame)
	if err != nil {
		return api.Question{}, fmt.Errorf("draw question sequence: %w", err)
	}

	s.sequence = sequence
	s.index = 0
	s.score = 0
	s.used = map[Lifeline]bool{}
	s.visible = nil
	s.state = StateInGame

	return s.view()
}

// Current re-presents the active question, narrowed if a fifty-fifty was
// applied to it.
func (s *Session) Current() (api.Question, error) {
	if s.state != StateInGame {
		return api.Question{}, ErrNotInGame
	}
	return s.view()
}

// Result reports the effect of one answer submission.
type Result struct {
	Correct bool
	Won     bool
	Next    *api.Question // next question, nil once the game ended
	Score   int           // per-game score after the submission
}

// Submit checks an answer against the active question. The comparison is a
// case-sensitive exact match against the correct option's label or text.
// A wrong answer ends the game; the last correct answer wins it.
func (s *Session) Submit(answer string) (Result, error) {
	if s.state != StateInGame {
		return Result{}, ErrNotInGame
	}

	q, err := s.current()
	if err != nil {
		return Result{}, err
	}

	if answer != q.Answer && answer != q.Options[q.Answer] {
		s.state = StateGameOver
		return Result{Score: s.score}, nil
	}

	s.score++
	if s.index == len(s.sequence)-1 {
		s.state = StateGameWon
		return Result{Correct: true, Won: true, Score: s.score}, nil
	}

	s.index++
	s.visible = nil
	next, err := s.view()
	if err != nil {
		return Result{}, err
	}
	return Result{Correct: true, Next: &next, Score: s.score}, nil
}

// Forfeit ends the game in progress as a loss, keeping the score earned so
// far.
func (s *Session) Forfeit() error {
	if s.state != StateInGame {
		return ErrNotInGame
	}
	s.state = StateGameOver
	return nil
}

// Finish consumes a terminal state: it returns the final per-game score and
// re-arms the session for the next game.
func (s *Session) Finish() (int, error) {
	if s.state != StateGameWon && s.state != StateGameOver {
		return 0, ErrNotFinished
	}
	score := s.score
	s.state = StateAwaitingCommand
	s.sequence = nil
	s.index = 0
	s.visible = nil
	return score, nil
}

func (s *Session) current() (question.Question, error) {
	return s.repo.Get(s.sequence[s.index])
}

func (s *Session) view() (api.Question, error) {
	q, err := s.current()
	if err != nil {
		return api.Question{}, err
	}

	labels := s.visible
	if labels == nil {
		labels = q.Labels()
	}

	view := api.Question{
		Level:   q.Level,
		Prompt:  q.Prompt,
		Options: make([]api.Option, 0, len(labels)),
	}
	for _, label := range labels {
		view.Options = append(view.Options, api.Option{Label: label, Text: q.Options[label]})
	}
	return view, nil
}
