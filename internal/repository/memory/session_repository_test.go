package memory

import (
	"testing"
	"time"

	"ai-helpdesk-be/pkg/store"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSessionRepositoryRoundTrip(t *testing.T) {
	repo := NewSessionRepository(time.Hour)

	sess := store.NewSession("s1")
	sess.SetAwaiting("reembolso")
	repo.Save(sess)

	got, found := repo.Get("s1")
	require.True(t, found)
	assert.Equal(t, "s1", got.ID)
	assert.Equal(t, "reembolso", got.PendingTopic)

	_, found = repo.Get("missing")
	assert.False(t, found)
}

func TestSessionRepositoryDelete(t *testing.T) {
	repo := NewSessionRepository(time.Hour)

	repo.Save(store.NewSession("s1"))
	repo.Delete("s1")

	_, found := repo.Get("s1")
	assert.False(t, found)

	// Deleting an unknown session is a no-op
	repo.Delete("s1")
}

func TestSessionRepositoryList(t *testing.T) {
	repo := NewSessionRepository(time.Hour)

	repo.Save(store.NewSession("s1"))
	repo.Save(store.NewSession("s2"))

	sessions := repo.List()
	require.Len(t, sessions, 2)

	ids := map[string]bool{}
	for _, s := range sessions {
		ids[s.ID] = true
	}
	assert.True(t, ids["s1"])
	assert.True(t, ids["s2"])
}

func TestSessionRepositoryExpiry(t *testing.T) {
	repo := NewSessionRepository(20 * time.Millisecond)

	repo.Save(store.NewSession("s1"))
	time.Sleep(50 * time.Millisecond)

	_, found := repo.Get("s1")
	assert.False(t, found)
}
