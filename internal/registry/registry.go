// Package registry tracks the players currently connected to the server.
package registry

import (
	"errors"
	"sort"
	"sync"
)

// Player represents one connected player. The name is assigned once during
// the handshake; the score accumulates across games and never decreases.
//
// Multiple goroutines may invoke methods on a Player simultaneously.
type Player struct {
	name string

	mu    sync.Mutex
	score int
}

func NewPlayer(name string) *Player {
	return &Player{name: name}
}

func (p *Player) Name() string {
	return p.name
}

// Score returns the player's cumulative score across games.
func (p *Player) Score() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.score
}

// AddScore credits a finished game's score to the player.
func (p *Player) AddScore(n int) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.score += n
}

var ErrHandleRegistered = errors.New("connection handle already registered")

// Entry is a point-in-time view of one registered player.
type Entry struct {
	Name  string
	Score int
}

// Registry is the set of currently connected players, keyed by connection
// handle. It holds non-owning references: the dispatcher owns each Player
// for the lifetime of its connection.
//
// Multiple goroutines may invoke methods on a Registry simultaneously; each
// operation is a single critical section and performs no I/O under the lock.
type Registry struct {
	mu      sync.Mutex
	players map[string]*Player
}

func New() *Registry {
	return &Registry{players: map[string]*Player{}}
}

// Add inserts a player under the given connection handle. It fails with
// ErrHandleRegistered if the handle is already present.
func (r *Registry) Add(handle string, p *Player) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.players[handle]; exists {
		return ErrHandleRegistered
	}
	r.players[handle] = p
	return nil
}

// Remove deletes the player registered under handle, a no-op when absent.
func (r *Registry) Remove(handle string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.players, handle)
}

// Snapshot returns a point-in-time sorted copy of the connected player
// names. Players may connect or disconnect as soon as the call returns.
func (r *Registry) Snapshot() []string {
	r.mu.Lock()
	defer r.mu.Unlock()

	names := make([]string, 0, len(r.players))
	for _, p := range r.players {
		names = append(names, p.Name())
	}
	sort.Strings(names)

	return names
}

// Entries returns a point-in-time copy of the connected players with their
// cumulative scores, sorted by name.
func (r *Registry) Entries() []Entry {
	r.mu.Lock()
	defer r.mu.Unlock()

	entries := make([]Entry, 0, len(r.players))
	for _, p := range r.players {
		entries = append(entries, Entry{Name: p.Name(), Score: p.Score()})
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].Name < entries[j].Name })

	return entries
}

// Len returns the number of connected players.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.players)
}
