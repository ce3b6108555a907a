package session_test

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/arborui/arbor"
	"github.com/arborui/arbor/pkg/domain"
	"github.com/arborui/arbor/pkg/session"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// SlowStore simulates latency to provoke race conditions if locking is missing.
type SlowStore struct {
	data map[string]*domain.TreeSnapshot
	mu   sync.Mutex
}

func (s *SlowStore) Save(ctx context.Context, sessionID string, snap *domain.TreeSnapshot) error {
	time.Sleep(10 * time.Millisecond) // Simulate IO
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.data == nil {
		s.data = make(map[string]*domain.TreeSnapshot)
	}
	s.data[sessionID] = snap
	return nil
}

func (s *SlowStore) Load(ctx context.Context, sessionID string) (*domain.TreeSnapshot, error) {
	time.Sleep(10 * time.Millisecond) // Simulate IO
	s.mu.Lock()
	defer s.mu.Unlock()

	if snap, ok := s.data[sessionID]; ok {
		return snap, nil
	}
	return nil, domain.ErrSessionNotFound
}

func (s *SlowStore) Delete(ctx context.Context, sessionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.data, sessionID)
	return nil
}

func (s *SlowStore) List(ctx context.Context) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	ids := make([]string, 0, len(s.data))
	for id := range s.data {
		ids = append(ids, id)
	}
	return ids, nil
}

func TestManager_Locking(t *testing.T) {
	store := &SlowStore{}
	manager := session.NewManager(store)
	ctx := context.Background()
	id := "race-test"

	sess, err := manager.LoadOrStart(ctx, id)
	require.NoError(t, err)
	require.NoError(t, sess.AddNode("form", "container"))
	require.NoError(t, manager.Save(ctx, sess))

	var wg sync.WaitGroup
	concurrentWrites := 10

	// Writes to the same session must be serialized. The SlowStore simulates
	// IO delay so that interleaved Read-Modify-Write would lose updates.
	for i := 0; i < concurrentWrites; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()

			err := manager.WithLock(ctx, id, func(ctx context.Context) error {
				snap, err := store.Load(ctx, id)
				if err != nil {
					return err
				}
				loaded, err := arbor.Restore(snap)
				if err != nil {
					return err
				}
				if err := loaded.AddNode(randomNodeID(), "widget"); err != nil {
					return err
				}
				return store.Save(ctx, id, loaded.Snapshot())
			})
			assert.NoError(t, err)
		}()
	}

	wg.Wait()

	snap, err := store.Load(ctx, id)
	require.NoError(t, err)
	assert.Len(t, snap.Roots, 1+concurrentWrites)
}

var nodeSeq atomic.Int64

func randomNodeID() string {
	return fmt.Sprintf("node-%d", nodeSeq.Add(1))
}

func TestManager_LoadOrStart(t *testing.T) {
	// Verify atomic creation
	store := &SlowStore{}
	manager := session.NewManager(store)
	ctx := context.Background()
	id := "atomic-init"

	var wg sync.WaitGroup
	// Launch 2 routines trying to init same session
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			sess, err := manager.LoadOrStart(ctx, id)
			assert.NoError(t, err)
			assert.NotNil(t, sess)
		}()
	}
	wg.Wait()

	// Should exist and be loadable
	sess, err := manager.Load(ctx, id)
	assert.NoError(t, err)
	assert.Equal(t, id, sess.ID())
}

func TestManager_LoadMissing(t *testing.T) {
	store := &SlowStore{}
	manager := session.NewManager(store)

	_, err := manager.Load(context.Background(), "ghost")
	assert.ErrorIs(t, err, domain.ErrSessionNotFound)
}

func TestManager_DeleteAndList(t *testing.T) {
	store := &SlowStore{}
	manager := session.NewManager(store)
	ctx := context.Background()

	for _, id := range []string{"a", "b"} {
		_, err := manager.LoadOrStart(ctx, id)
		require.NoError(t, err)
	}

	ids, err := manager.List(ctx)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"a", "b"}, ids)

	require.NoError(t, manager.Delete(ctx, "a"))
	_, err = manager.Load(ctx, "a")
	assert.ErrorIs(t, err, domain.ErrSessionNotFound)
}
