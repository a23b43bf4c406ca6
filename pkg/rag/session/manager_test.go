package session

import (
	"testing"
	"time"

	"ai-helpdesk-be/pkg/store"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mapStore struct {
	sessions map[string]*store.Session
}

func newMapStore() *mapStore {
	return &mapStore{sessions: map[string]*store.Session{}}
}

func (m *mapStore) Get(id string) (*store.Session, bool) {
	s, ok := m.sessions[id]
	return s, ok
}

func (m *mapStore) Save(s *store.Session) { m.sessions[s.ID] = s }

func (m *mapStore) Delete(id string) { delete(m.sessions, id) }

func (m *mapStore) List() []*store.Session {
	out := make([]*store.Session, 0, len(m.sessions))
	for _, s := range m.sessions {
		out = append(out, s)
	}
	return out
}

func TestGetReturnsIsolatedCopy(t *testing.T) {
	manager := NewManager(newMapStore())

	sess := manager.LoadOrCreate("s1")
	sess.RecordTurn(store.Turn{Timestamp: time.Now(), UserMessage: "oi"})
	manager.Save(sess)

	snapshot, found := manager.Get("s1")
	require.True(t, found)
	require.Len(t, snapshot.Turns, 1)

	// Later turns on the live session must not show up in the snapshot
	sess.RecordTurn(store.Turn{Timestamp: time.Now(), UserMessage: "segunda"})
	manager.Save(sess)

	assert.Len(t, snapshot.Turns, 1)
	assert.Equal(t, "oi", snapshot.Turns[0].UserMessage)

	fresh, found := manager.Get("s1")
	require.True(t, found)
	assert.Len(t, fresh.Turns, 2)
}

func TestListReturnsIsolatedCopies(t *testing.T) {
	manager := NewManager(newMapStore())

	sess := manager.LoadOrCreate("s1")
	sess.RecordTurn(store.Turn{Timestamp: time.Now(), UserMessage: "oi"})
	manager.Save(sess)

	listed := manager.List()
	require.Len(t, listed, 1)

	sess.RecordTurn(store.Turn{Timestamp: time.Now(), UserMessage: "segunda"})
	manager.Save(sess)

	assert.Len(t, listed[0].Turns, 1)
}

func TestGetWaitsForInFlightMessage(t *testing.T) {
	manager := NewManager(newMapStore())
	manager.Save(store.NewSession("s1"))

	manager.Lock("s1")

	got := make(chan *store.Session)
	go func() {
		sess, _ := manager.Get("s1")
		got <- sess
	}()

	select {
	case <-got:
		t.Fatal("Get returned while the session lock was held")
	case <-time.After(50 * time.Millisecond):
	}

	manager.Unlock("s1")

	select {
	case sess := <-got:
		assert.Equal(t, "s1", sess.ID)
	case <-time.After(time.Second):
		t.Fatal("Get never returned after unlock")
	}
}

func TestDeleteWaitsForInFlightMessage(t *testing.T) {
	manager := NewManager(newMapStore())
	manager.Save(store.NewSession("s1"))

	manager.Lock("s1")

	done := make(chan struct{})
	go func() {
		manager.Delete("s1")
		close(done)
	}()

	select {
	case <-done:
		t.Fatal("Delete completed while the session lock was held")
	case <-time.After(50 * time.Millisecond):
	}

	manager.Unlock("s1")

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Delete never completed after unlock")
	}

	_, found := manager.Get("s1")
	assert.False(t, found)

	// The mutex entry survives the delete so serialization still holds
	// for a session recreated under the same id
	manager.Lock("s1")
	manager.Unlock("s1")
}
