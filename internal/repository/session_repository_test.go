package repository

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/maheshrc27/clipstudio/internal/publish"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupSessionRepository(t *testing.T, ttl time.Duration) (SessionRepository, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	return NewSessionRepository(client, ttl), mr
}

func TestSessionRepository_SaveAndGet(t *testing.T) {
	repo, mr := setupSessionRepository(t, time.Hour)
	ctx := context.Background()

	s := publish.NewSession("sess1", "user1", publish.FormData{Title: "clip", Privacy: "SELF_ONLY"})
	s.AssetKey = "clips/user1/a.mp4"

	require.NoError(t, repo.Save(ctx, s))
	assert.True(t, mr.Exists("publish:session:sess1"))
	assert.Equal(t, time.Hour, mr.TTL("publish:session:sess1"))

	got, err := repo.Get(ctx, "sess1")
	require.NoError(t, err)
	assert.Equal(t, "user1", got.UserID)
	assert.Equal(t, "clips/user1/a.mp4", got.AssetKey)
	assert.Equal(t, publish.Form{}, got.State())
	assert.Equal(t, s.FormData, got.FormData)
}

func TestSessionRepository_SaveReplacesSnapshot(t *testing.T) {
	repo, _ := setupSessionRepository(t, time.Hour)
	ctx := context.Background()
	orchestrator := publish.New(publish.Config{}, repo)

	s, err := orchestrator.Start(ctx, publish.StartRequest{
		SessionID: "sess2",
		UserID:    "user1",
		Form:      publish.FormData{Privacy: "SELF_ONLY"},
	})
	require.NoError(t, err)

	got, err := repo.Get(ctx, s.ID)
	require.NoError(t, err)
	assert.Equal(t, publish.Uploading{Phase: publish.PhaseCreate}, got.State())

	require.NoError(t, orchestrator.Abort(ctx, s, "clip missing"))

	got, err = repo.Get(ctx, s.ID)
	require.NoError(t, err)
	assert.Equal(t, publish.Failed{Phase: publish.PhaseCreate, Message: "clip missing"}, got.State())
}

func TestSessionRepository_NotFound(t *testing.T) {
	repo, _ := setupSessionRepository(t, time.Hour)

	_, err := repo.Get(context.Background(), "missing")

	assert.ErrorIs(t, err, ErrSessionNotFound)
}

func TestSessionRepository_Delete(t *testing.T) {
	repo, mr := setupSessionRepository(t, time.Hour)
	ctx := context.Background()

	require.NoError(t, repo.Save(ctx, publish.NewSession("sess3", "user1", publish.FormData{})))
	require.NoError(t, repo.Delete(ctx, "sess3"))

	assert.False(t, mr.Exists("publish:session:sess3"))
}

func TestSessionRepository_Expires(t *testing.T) {
	repo, mr := setupSessionRepository(t, time.Minute)
	ctx := context.Background()

	require.NoError(t, repo.Save(ctx, publish.NewSession("sess4", "user1", publish.FormData{})))
	mr.FastForward(2 * time.Minute)

	_, err := repo.Get(ctx, "sess4")
	assert.ErrorIs(t, err, ErrSessionNotFound)
}
