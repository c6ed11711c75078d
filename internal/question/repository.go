package question

import (
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"math/rand/v2"
	"os"
	"path/filepath"
	"sort"
	"sync"
)

var (
	ErrNotFound              = errors.New("question not found")
	ErrInsufficientQuestions = errors.New("not enough questions in bank")
)

// Repository holds the full question set. It is immutable after
// construction and safe for concurrent reads without locking.
type Repository struct {
	questions map[int]Question
	ids       []int
}

// NewRepository validates the given questions and builds a bank from them.
func NewRepository(questions []Question) (*Repository, error) {
	if len(questions) == 0 {
		return nil, errors.New("empty question bank")
	}

	r := &Repository{
		questions: make(map[int]Question, len(questions)),
		ids:       make([]int, 0, len(questions)),
	}
	for _, q := range questions {
		if err := q.validate(); err != nil {
			return nil, fmt.Errorf("question %d: %w", q.ID, err)
		}
		if _, exists := r.questions[q.ID]; exists {
			return nil, fmt.Errorf("duplicate question id %d", q.ID)
		}
		r.questions[q.ID] = q
		r.ids = append(r.ids, q.ID)
	}
	sort.Ints(r.ids)

	return r, nil
}

// Load reads a JSON question bank from the given filesystem.
func Load(fsys fs.FS, name string) (*Repository, error) {
	b, err := fs.ReadFile(fsys, name)
	if err != nil {
		return nil, fmt.Errorf("read question bank: %w", err)
	}
	var questions []Question
	if err := json.Unmarshal(b, &questions); err != nil {
		return nil, fmt.Errorf("decode question bank %s: %w", name, err)
	}
	return NewRepository(questions)
}

// LoadFile reads a JSON question bank from a path on the host filesystem.
func LoadFile(path string) (*Repository, error) {
	dir, file := filepath.Split(path)
	if dir == "" {
		dir = "."
	}
	return Load(os.DirFS(dir), file)
}

//go:embed questions.json
var defaultBank embed.FS

var loadDefault = sync.OnceValue(func() *Repository {
	r, err := Load(defaultBank, "questions.json")
	if err != nil {
		panic("embedded question bank: " + err.Error())
	}
	return r
})

// Default returns the embedded question bank.
func Default() *Repository {
	return loadDefault()
}

// Len returns the number of questions in the bank.
func (r *Repository) Len() int {
	return len(r.ids)
}

// Get returns the question with the given id or ErrNotFound.
func (r *Repository) Get(id int) (Question, error) {
	q, ok := r.questions[id]
	if !ok {
		return Question{}, fmt.Errorf("id %d: %w", id, ErrNotFound)
	}
	return q, nil
}

// Sample draws count distinct question ids uniformly without replacement.
// The emitted order is a uniform random permutation prefix, so no id is
// favored regardless of how close count is to the bank size.
func (r *Repository) Sample(count int) ([]int, error) {
	if count < 0 || count > len(r.ids) {
		return nil, fmt.Errorf("sample %d of %d: %w", count, len(r.ids), ErrInsufficientQuestions)
	}
	ids := make([]int, count)
	for i, j := range rand.Perm(len(r.ids))[:count] {
		ids[i] = r.ids[j]
	}
	return ids, nil
}
