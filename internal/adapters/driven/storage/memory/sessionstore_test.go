package memory

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/confadmin/internal/core/domain"
)

func TestSessionStore_LoadEmpty(t *testing.T) {
	store := NewSessionStore()

	sess, err := store.Load(context.Background())
	require.NoError(t, err)
	require.NotNil(t, sess)
	assert.False(t, sess.IsAuthenticated())
	assert.Empty(t, sess.ActiveEvent)
}

func TestSessionStore_SaveAndLoad(t *testing.T) {
	store := NewSessionStore()
	ctx := context.Background()
	created := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	err := store.Save(ctx, domain.Session{
		Token:       "tok",
		ActiveEvent: "pycon-2026",
		Method:      domain.LoginPassword,
		CreatedAt:   created,
	})
	require.NoError(t, err)

	sess, err := store.Load(ctx)
	require.NoError(t, err)
	assert.True(t, sess.IsAuthenticated())
	assert.Equal(t, "pycon-2026", sess.ActiveEvent)
	assert.Equal(t, domain.LoginPassword, sess.Method)
	assert.Equal(t, created, sess.CreatedAt)
}

func TestSessionStore_LoadReturnsCopy(t *testing.T) {
	store := NewSessionStore()
	ctx := context.Background()
	require.NoError(t, store.Save(ctx, domain.Session{Token: "tok"}))

	sess, err := store.Load(ctx)
	require.NoError(t, err)
	sess.Token = "mutated"

	again, err := store.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, "tok", again.Token)
}

func TestSessionStore_Clear(t *testing.T) {
	store := NewSessionStore()
	ctx := context.Background()
	require.NoError(t, store.Save(ctx, domain.Session{Token: "tok", ActiveEvent: "ev"}))

	require.NoError(t, store.Clear(ctx))

	sess, err := store.Load(ctx)
	require.NoError(t, err)
	assert.False(t, sess.IsAuthenticated())
	assert.Empty(t, sess.ActiveEvent)
}
