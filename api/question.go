package api

import (
	"fmt"
	"strconv"
	"strings"
)

const questionPrefix = "Question Level: "

// Question is the client-visible view of a quiz question: level, prompt and
// labeled options, never the correct answer. A fifty-fifty lifeline narrows
// Options to two entries.
type Question struct {
	Level   int
	Prompt  string
	Options []Option
}

// Option is one labeled answer choice.
type Option struct {
	Label string
	Text  string
}

// EncodeQuestion builds a question block:
//
//	Question Level: <level>
//	<prompt>
//	<label>) <text>
//	...
func EncodeQuestion(q Question) string {
	lines := make([]string, 0, len(q.Options)+2)
	lines = append(lines, questionPrefix+strconv.Itoa(q.Level), q.Prompt)
	for _, opt := range q.Options {
		lines = append(lines, fmt.Sprintf("%s) %s", opt.Label, opt.Text))
	}
	return strings.Join(lines, "\n")
}

// ParseQuestion decodes a question block produced by EncodeQuestion.
func ParseQuestion(frame string) (Question, error) {
	lines := strings.Split(frame, "\n")
	if len(lines) < 3 {
		return Question{}, fmt.Errorf("question block too short: %d lines", len(lines))
	}

	rest, ok := strings.CutPrefix(lines[0], questionPrefix)
	if !ok {
		return Question{}, fmt.Errorf("missing question level header: %q", lines[0])
	}
	level, err := strconv.Atoi(rest)
	if err != nil {
		return Question{}, fmt.Errorf("invalid question level %q: %w", rest, err)
	}

	q := Question{
		Level:   level,
		Prompt:  lines[1],
		Options: make([]Option, 0, len(lines)-2),
	}
	for _, line := range lines[2:] {
		label, text, found := strings.Cut(line, ") ")
		if !found {
			return Question{}, fmt.Errorf("invalid option line: %q", line)
		}
		q.Options = append(q.Options, Option{Label: label, Text: text})
	}
	return q, nil
}
