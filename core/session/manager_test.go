package session_test

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/opencursor/editorhost/core/session"
	"github.com/opencursor/editorhost/core/session/jsonstore"
)

type deviceData struct {
	Name string `json:"name"`
}

func newManager(t *testing.T, ttl time.Duration) (*session.Manager[deviceData], *jsonstore.Store[deviceData]) {
	t.Helper()
	store, err := jsonstore.New[deviceData](filepath.Join(t.TempDir(), "session.json"))
	require.NoError(t, err)
	opts := []session.Option[deviceData]{}
	if ttl > 0 {
		opts = append(opts, session.WithTTL[deviceData](ttl))
	}
	return session.New(store, opts...), store
}

func TestManager_IssueThenAuthenticateRoundTrips(t *testing.T) {
	m, _ := newManager(t, time.Hour)
	ctx := context.Background()

	sess, token, err := m.Issue(ctx, uuid.New(), deviceData{Name: "laptop"})
	require.NoError(t, err)
	assert.NotEmpty(t, token)
	assert.NotEqual(t, token, sess.TokenHash)

	found, err := m.Authenticate(ctx, token)
	require.NoError(t, err)
	assert.Equal(t, sess.ID, found.ID)
	assert.Equal(t, "laptop", found.Data.Name)
}

func TestManager_AuthenticateUnknownTokenFails(t *testing.T) {
	m, _ := newManager(t, time.Hour)
	_, err := m.Authenticate(context.Background(), "not-a-real-token")
	assert.ErrorIs(t, err, session.ErrNotAuthenticated)
}

func TestManager_AuthenticateExpiredSessionFails(t *testing.T) {
	m, store := newManager(t, time.Hour)
	ctx := context.Background()

	sess, token, err := m.Issue(ctx, uuid.New(), deviceData{})
	require.NoError(t, err)
	sess.ExpiresAt = time.Now().Add(-time.Minute)
	require.NoError(t, store.Save(ctx, sess))

	_, err = m.Authenticate(ctx, token)
	assert.ErrorIs(t, err, session.ErrExpired)
}

func TestManager_RevokeDeletesSession(t *testing.T) {
	m, _ := newManager(t, time.Hour)
	ctx := context.Background()

	sess, token, err := m.Issue(ctx, uuid.New(), deviceData{})
	require.NoError(t, err)

	require.NoError(t, m.Revoke(ctx, sess.ID))
	_, err = m.Authenticate(ctx, token)
	assert.ErrorIs(t, err, session.ErrNotAuthenticated)
}

func TestManager_TouchExtendsExpiry(t *testing.T) {
	m, _ := newManager(t, time.Hour)
	ctx := context.Background()

	sess, _, err := m.Issue(ctx, uuid.New(), deviceData{})
	require.NoError(t, err)
	original := sess.ExpiresAt

	time.Sleep(5 * time.Millisecond)
	require.NoError(t, m.Touch(ctx, sess))
	assert.True(t, sess.ExpiresAt.After(original))
}

func TestHashToken_IsDeterministicAndDistinct(t *testing.T) {
	assert.Equal(t, session.HashToken("abc"), session.HashToken("abc"))
	assert.NotEqual(t, session.HashToken("abc"), session.HashToken("xyz"))
}
