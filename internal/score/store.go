// Package score persists finished game results to an append-only
// scoreboard.
package score

import (
	"bufio"
	"errors"
	"fmt"
	"io/fs"
	"iter"
	"os"
	"strconv"
	"strings"
	"sync"
)

// Record is one finished game result.
type Record struct {
	Name  string
	Score int
}

// PersistenceError reports a scoreboard read or write failure. It is
// surfaced to callers but never aborts an in-flight game.
type PersistenceError struct {
	Op  string
	Err error
}

func (e *PersistenceError) Error() string {
	return "scoreboard " + e.Op + ": " + e.Err.Error()
}

func (e *PersistenceError) Unwrap() error {
	return e.Err
}

// Store is the durable record of finished games.
type Store interface {
	// Append durably records one result. A failure is reported as a
	// *PersistenceError, never swallowed.
	Append(name string, score int) error

	// All yields the stored records lazily in file order. Each call
	// restarts from the beginning. Readers may miss a concurrent append.
	All() iter.Seq2[Record, error]
}

// FileStore appends name,score lines to a single file.
//
// Multiple goroutines may invoke methods on a FileStore simultaneously;
// appends are serialized so records never interleave.
type FileStore struct {
	path string
	mu   sync.Mutex
}

func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

func (s *FileStore) Append(name string, score int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	f, err := os.OpenFile(s.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return &PersistenceError{Op: "append", Err: err}
	}
	_, werr := fmt.Fprintf(f, "%s,%d\n", name, score)
	cerr := f.Close()
	if werr != nil {
		return &PersistenceError{Op: "append", Err: werr}
	}
	if cerr != nil {
		return &PersistenceError{Op: "append", Err: cerr}
	}
	return nil
}

func (s *FileStore) All() iter.Seq2[Record, error] {
	return func(yield func(Record, error) bool) {
		f, err := os.Open(s.path)
		if errors.Is(err, fs.ErrNotExist) {
			// No games finished yet.
			return
		}
		if err != nil {
			yield(Record{}, &PersistenceError{Op: "read", Err: err})
			return
		}
		defer f.Close()

		sc := bufio.NewScanner(f)
		for sc.Scan() {
			rec, ok := parseRecord(sc.Text())
			if !ok {
				continue
			}
			if !yield(rec, nil) {
				return
			}
		}
		if err := sc.Err(); err != nil {
			yield(Record{}, &PersistenceError{Op: "read", Err: err})
		}
	}
}

func parseRecord(line string) (Record, bool) {
	// Names may contain commas, the score never does.
	i := strings.LastIndex(line, ",")
	if i < 0 {
		return Record{}, false
	}
	score, err := strconv.Atoi(line[i+1:])
	if err != nil {
		return Record{}, false
	}
	return Record{Name: line[:i], Score: score}, true
}
