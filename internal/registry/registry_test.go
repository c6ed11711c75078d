package registry_test

import (
	"fmt"
	"sync"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"

	"trivia-backend/internal/registry"
)

func TestRegistry_AddRemove(t *testing.T) {
	t.Parallel()

	reg := registry.New()

	require.NoError(t, reg.Add("h1", registry.NewPlayer("alice")))
	require.NoError(t, reg.Add("h2", registry.NewPlayer("bob")))
	require.Equal(t, 2, reg.Len())

	reg.Remove("h1")
	require.Equal(t, 1, reg.Len())
	require.Equal(t, []string{"bob"}, reg.Snapshot())

	// Removing an absent handle is a no-op.
	reg.Remove("h1")
	require.Equal(t, 1, reg.Len())
}

func TestRegistry_DuplicateHandle(t *testing.T) {
	t.Parallel()

	reg := registry.New()

	require.NoError(t, reg.Add("h1", registry.NewPlayer("alice")))
	err := reg.Add("h1", registry.NewPlayer("bob"))
	require.ErrorIs(t, err, registry.ErrHandleRegistered)
}

func TestRegistry_SnapshotSorted(t *testing.T) {
	t.Parallel()

	reg := registry.New()
	for _, name := range []string{"carol", "alice", "bob"} {
		require.NoError(t, reg.Add(name, registry.NewPlayer(name)))
	}

	require.Equal(t, []string{"alice", "bob", "carol"}, reg.Snapshot())
}

func TestRegistry_Entries(t *testing.T) {
	t.Parallel()

	reg := registry.New()

	alice := registry.NewPlayer("alice")
	alice.AddScore(3)
	alice.AddScore(2)
	bob := registry.NewPlayer("bob")

	require.NoError(t, reg.Add("h1", alice))
	require.NoError(t, reg.Add("h2", bob))

	want := []registry.Entry{
		{Name: "alice", Score: 5},
		{Name: "bob", Score: 0},
	}
	if diff := cmp.Diff(want, reg.Entries()); diff != "" {
		t.Errorf("entries mismatch (-want +got):\n%s", diff)
	}
}

func TestRegistry_ConcurrentAccess(t *testing.T) {
	t.Parallel()

	reg := registry.New()

	const n = 50
	var wg sync.WaitGroup
	for i := range n {
		wg.Add(1)
		go func() {
			defer wg.Done()
			handle := fmt.Sprintf("h%d", i)
			if err := reg.Add(handle, registry.NewPlayer(handle)); err != nil {
				t.Error(err)
				return
			}
			reg.Snapshot()
			if i%2 == 0 {
				reg.Remove(handle)
			}
		}()
	}
	wg.Wait()

	require.Equal(t, n/2, reg.Len())
}

func TestPlayer_ScoreAccumulates(t *testing.T) {
	t.Parallel()

	p := registry.NewPlayer("alice")
	require.Equal(t, 0, p.Score())

	var wg sync.WaitGroup
	for range 10 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			p.AddScore(3)
		}()
	}
	wg.Wait()

	require.Equal(t, 30, p.Score())
	require.Equal(t, "alice", p.Name())
}
