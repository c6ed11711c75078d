// Package question holds the quiz question bank. The bank is immutable
// after load; sessions reference questions by id and never mutate them.
package question

import (
	"errors"
	"fmt"
	"sort"
)

// Question is a single quiz question. The Options map associates a
// single-uppercase-letter label with the option text; Answer names the
// correct label.
type Question struct {
	ID      int               `json:"id"`
	Level   int               `json:"level"`
	Prompt  string            `json:"prompt"`
	Options map[string]string `json:"options"`
	Answer  string            `json:"answer"`
}

const optionsPerQuestion = 4

func (q Question) validate() error {
	if q.Level <= 0 {
		return fmt.Errorf("level must be positive, got %d", q.Level)
	}
	if q.Prompt == "" {
		return errors.New("empty prompt")
	}
	if len(q.Options) != optionsPerQuestion {
		return fmt.Errorf("want %d options, got %d", optionsPerQuestion, len(q.Options))
	}
	for label := range q.Options {
		if len(label) != 1 || label[0] < 'A' || label[0] > 'Z' {
			return fmt.Errorf("option label must be a single uppercase letter, got %q", label)
		}
	}
	if _, ok := q.Options[q.Answer]; !ok {
		return fmt.Errorf("answer label %q is not an option", q.Answer)
	}
	return nil
}

// Labels returns the question's option labels in alphabetical order.
func (q Question) Labels() []string {
	labels := make([]string, 0, len(q.Options))
	for label := range q.Options {
		labels = append(labels, label)
	}
	sort.Strings(labels)
	return labels
}
