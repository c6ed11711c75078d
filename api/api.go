// Package api defines the message vocabulary exchanged between the trivia
// server and its clients: single-line command tokens going up, and text
// frames going down. Both the server and the bundled client build and parse
// frames exclusively through this package.
package api

import (
	"fmt"
	"strconv"
	"strings"
)

// Commands accepted while no game is in progress.
const (
	CommandStartGame     = "START_GAME"
	CommandGetPlayers    = "GET_PLAYERS"
	CommandGetScoreboard = "GET_SCOREBOARD"
	CommandDisconnect    = "DISCONNECT"
)

// Lifeline tokens accepted instead of an answer while a question is pending.
const (
	LifelineFiftyFifty  = "FIFTY_FIFTY"
	LifelineAskAudience = "ASK_AUDIENCE"
	LifelinePhoneFriend = "PHONE_FRIEND"
)

// Single-token server signals.
const (
	FrameGameWon  = "GAME_WON"
	FrameGameOver = "GAME_OVER"
)

const (
	welcomePrefix = "WELCOME "
	errorPrefix   = "ERROR "
	scorePrefix   = "SCORE: "
	friendPrefix  = "FRIEND "

	playersHeader    = "PLAYERS"
	scoreboardHeader = "SCOREBOARD"
	audienceHeader   = "AUDIENCE"
)

// Score is one scoreboard entry, also served as JSON by the HTTP gateway.
type Score struct {
	Name  string `json:"name"`
	Score int    `json:"score"`
}

// PlayerInfo is one online-directory entry served by the HTTP gateway.
type PlayerInfo struct {
	Name  string `json:"name"`
	Score int    `json:"score"`
}

// OptionPercent is one entry of an ask-the-audience poll.
type OptionPercent struct {
	Label   string
	Percent int
}

func EncodeWelcome(banner string) string {
	return welcomePrefix + banner
}

func ParseWelcome(frame string) (banner string, ok bool) {
	return strings.CutPrefix(frame, welcomePrefix)
}

func EncodeError(cause string) string {
	return errorPrefix + cause
}

func ParseError(frame string) (cause string, ok bool) {
	return strings.CutPrefix(frame, errorPrefix)
}

func EncodeScore(score int) string {
	return scorePrefix + strconv.Itoa(score)
}

func ParseScore(frame string) (int, bool) {
	rest, ok := strings.CutPrefix(frame, scorePrefix)
	if !ok {
		return 0, false
	}
	score, err := strconv.Atoi(rest)
	if err != nil {
		return 0, false
	}
	return score, true
}

func EncodeFriend(message string) string {
	return friendPrefix + message
}

func ParseFriend(frame string) (message string, ok bool) {
	return strings.CutPrefix(frame, friendPrefix)
}

// EncodePlayers builds a player-list block: a header line followed by one
// name per line.
func EncodePlayers(names []string) string {
	lines := append([]string{playersHeader}, names...)
	return strings.Join(lines, "\n")
}

func ParsePlayers(frame string) ([]string, bool) {
	lines := strings.Split(frame, "\n")
	if lines[0] != playersHeader {
		return nil, false
	}
	return lines[1:], true
}

// EncodeScoreboard builds a scoreboard block: a header line followed by one
// name,score record per line, in store order.
func EncodeScoreboard(records []Score) string {
	lines := make([]string, 0, len(records)+1)
	lines = append(lines, scoreboardHeader)
	for _, r := range records {
		lines = append(lines, fmt.Sprintf("%s,%d", r.Name, r.Score))
	}
	return strings.Join(lines, "\n")
}

func ParseScoreboard(frame string) ([]Score, bool) {
	lines := strings.Split(frame, "\n")
	if lines[0] != scoreboardHeader {
		return nil, false
	}
	records := make([]Score, 0, len(lines)-1)
	for _, line := range lines[1:] {
		// Names may contain commas, the score never does.
		i := strings.LastIndex(line, ",")
		if i < 0 {
			return nil, false
		}
		score, err := strconv.Atoi(line[i+1:])
		if err != nil {
			return nil, false
		}
		records = append(records, Score{Name: line[:i], Score: score})
	}
	return records, true
}

// EncodeAudience builds an ask-the-audience block: a header line followed by
// one "<label>) <percent>%" line per visible option.
func EncodeAudience(poll []OptionPercent) string {
	lines := make([]string, 0, len(poll)+1)
	lines = append(lines, audienceHeader)
	for _, p := range poll {
		lines = append(lines, fmt.Sprintf("%s) %d%%", p.Label, p.Percent))
	}
	return strings.Join(lines, "\n")
}

func ParseAudience(frame string) ([]OptionPercent, bool) {
	lines := strings.Split(frame, "\n")
	if lines[0] != audienceHeader {
		return nil, false
	}
	poll := make([]OptionPercent, 0, len(lines)-1)
	for _, line := range lines[1:] {
		label, rest, found := strings.Cut(line, ") ")
		if !found {
			return nil, false
		}
		percent, err := strconv.Atoi(strings.TrimSuffix(rest, "%"))
		if err != nil {
			return nil, false
		}
		poll = append(poll, OptionPercent{Label: label, Percent: percent})
	}
	return poll, true
}
