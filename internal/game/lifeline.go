package game

import (
	"fmt"
	"math/rand/v2"
	"sort"

	"trivia-backend/api"
	"trivia-backend/internal/question"
)

// Lifeline is a one-time-per-game assist a player may invoke instead of
// answering. It alters the presentation of the active question without
// consuming the question slot.
type Lifeline int

const (
	LifelineFiftyFifty Lifeline = iota
	LifelineAskAudience
	LifelinePhoneFriend
)

var lifelineTokens = map[string]Lifeline{
	api.LifelineFiftyFifty:  LifelineFiftyFifty,
	api.LifelineAskAudience: LifelineAskAudience,
	api.LifelinePhoneFriend: LifelinePhoneFriend,
}

// ParseLifeline maps a wire token to a lifeline. Any other in-game input is
// an answer submission.
func ParseLifeline(token string) (Lifeline, bool) {
	l, ok := lifelineTokens[token]
	return l, ok
}

func (l Lifeline) String() string {
	for token, lifeline := range lifelineTokens {
		if lifeline == l {
			return token
		}
	}
	return "unknown"
}

// Assist is the outcome of a lifeline application. Question always carries
// the re-presented (possibly narrowed) active question; Audience and Friend
// are set for their respective lifelines only.
type Assist struct {
	Question api.Question
	Audience []api.OptionPercent
	Friend   string
}

// UseLifeline applies a lifeline to the active question. Each lifeline is
// usable once per game; repeated requests fail with ErrLifelineUsed and
// leave the question index and turn untouched.
func (s *Session) UseLifeline(l Lifeline) (Assist, error) {
	if s.state != StateInGame {
		return Assist{}, ErrNotInGame
	}
	if s.used[l] {
		return Assist{}, ErrLifelineUsed
	}

	q, err := s.current()
	if err != nil {
		return Assist{}, err
	}

	assist := Assist{}
	switch l {
	case LifelineFiftyFifty:
		s.narrowOptions(q.Answer, s.visibleLabels(q))
	case LifelineAskAudience:
		assist.Audience = audiencePoll(q.Answer, s.visibleLabels(q))
	case LifelinePhoneFriend:
		assist.Friend = friendHint(q.Answer, s.visibleLabels(q))
	default:
		return Assist{}, fmt.Errorf("unknown lifeline %d", l)
	}
	s.used[l] = true

	view, err := s.view()
	if err != nil {
		return Assist{}, err
	}
	assist.Question = view
	return assist, nil
}

func (s *Session) visibleLabels(q question.Question) []string {
	if s.visible != nil {
		return s.visible
	}
	return q.Labels()
}

// narrowOptions keeps the correct label plus one random wrong one.
func (s *Session) narrowOptions(answer string, labels []string) {
	wrong := make([]string, 0, len(labels)-1)
	for _, label := range labels {
		if label != answer {
			wrong = append(wrong, label)
		}
	}
	kept := []string{answer, wrong[rand.IntN(len(wrong))]}
	sort.Strings(kept)
	s.visible = kept
}

// audiencePoll simulates an audience vote over the visible options. The
// vote is biased toward the correct answer but never authoritative: the
// correct option draws 40-74%, the rest is split at random.
func audiencePoll(answer string, labels []string) []api.OptionPercent {
	remaining := 100
	correctShare := 40 + rand.IntN(35)
	remaining -= correctShare

	poll := make([]api.OptionPercent, 0, len(labels))
	wrongLeft := len(labels) - 1
	for _, label := range labels {
		if label == answer {
			poll = append(poll, api.OptionPercent{Label: label, Percent: correctShare})
			continue
		}
		share := remaining
		if wrongLeft > 1 {
			share = rand.IntN(remaining + 1)
		}
		poll = append(poll, api.OptionPercent{Label: label, Percent: share})
		remaining -= share
		wrongLeft--
	}
	return poll
}

var friendOpeners = [...]string{
	"Your friend says: I'm fairly sure it's %s.",
	"Your friend says: if I had to bet, I'd go with %s.",
	"Your friend says: it rings a bell... %s, I think.",
}

// friendHint simulates a phone call: the friend names the correct option
// three times out of four and a random visible wrong one otherwise.
func friendHint(answer string, labels []string) string {
	pick := answer
	if rand.IntN(4) == 0 {
		wrong := make([]string, 0, len(labels)-1)
		for _, label := range labels {
			if label != answer {
				wrong = append(wrong, label)
			}
		}
		pick = wrong[rand.IntN(len(wrong))]
	}
	return fmt.Sprintf(friendOpeners[rand.IntN(len(friendOpeners))], pick)
}
