package app

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	redisv9 "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"edumate/internal/cache"
	"edumate/internal/model"
	"edumate/internal/repository"
)

func seedRecords(t *testing.T, h *HistoryService, titles ...string) []*model.ChatRecord {
	t.Helper()
	out := make([]*model.ChatRecord, 0, len(titles))
	for _, title := range titles {
		rec := &model.ChatRecord{Title: title, Question: "q " + title, Answer: "a " + title}
		require.NoError(t, h.save(context.Background(), rec))
		out = append(out, rec)
	}
	return out
}

func ids(records []model.ChatRecord) []string {
	out := make([]string, 0, len(records))
	for _, r := range records {
		out = append(out, r.ID)
	}
	return out
}

func TestViewPartitionsPinnedAndRecent(t *testing.T) {
	h := NewHistoryService(newTestRecords(t), nil, nil, nil)
	ctx := context.Background()
	recs := seedRecords(t, h, "Algebra basics", "Cell biology", "Algebra proofs")

	_, err := h.TogglePin(ctx, recs[0].ID)
	require.NoError(t, err)

	view, err := h.View(ctx, "")
	require.NoError(t, err)
	assert.Equal(t, []string{recs[0].ID}, ids(view.Pinned))
	assert.Equal(t, []string{recs[2].ID, recs[1].ID}, ids(view.Recent))

	view, err = h.View(ctx, "ALGEBRA")
	require.NoError(t, err)
	assert.Equal(t, []string{recs[0].ID}, ids(view.Pinned))
	assert.Equal(t, []string{recs[2].ID}, ids(view.Recent))
}

func TestRenameAndPatch(t *testing.T) {
	h := NewHistoryService(newTestRecords(t), nil, nil, nil)
	ctx := context.Background()
	rec := seedRecords(t, h, "Old")[0]

	renamed, err := h.Rename(ctx, rec.ID, "  New title ")
	require.NoError(t, err)
	assert.Equal(t, "New title", renamed.Title)
	assert.False(t, renamed.UpdatedAt.Before(renamed.CreatedAt))

	_, err = h.Rename(ctx, rec.ID, "   ")
	assert.ErrorIs(t, err, ErrInvalidInput)

	patched, err := h.Patch(ctx, rec.ID, map[string]interface{}{"pinned": true})
	require.NoError(t, err)
	assert.True(t, patched.Pinned)

	pinned, err := h.List(ctx, "", true)
	require.NoError(t, err)
	assert.Equal(t, []string{rec.ID}, ids(pinned))

	_, err = h.Patch(ctx, rec.ID, map[string]interface{}{"id": "other"})
	assert.ErrorIs(t, err, repository.ErrImmutableField)
}

func TestMissingRecordErrors(t *testing.T) {
	h := NewHistoryService(newTestRecords(t), nil, nil, nil)
	ctx := context.Background()

	_, err := h.Get("missing")
	assert.ErrorIs(t, err, repository.ErrRecordNotFound)
	_, err = h.Rename(ctx, "missing", "x")
	assert.ErrorIs(t, err, repository.ErrRecordNotFound)
	_, err = h.TogglePin(ctx, "missing")
	assert.ErrorIs(t, err, repository.ErrRecordNotFound)
	_, err = h.Open(newTestSession(t, LevelBasic), "missing")
	assert.ErrorIs(t, err, repository.ErrRecordNotFound)
	assert.NoError(t, h.Delete(ctx, nil, "missing"))
}

func TestOpenSetsActiveRecord(t *testing.T) {
	h := NewHistoryService(newTestRecords(t), nil, nil, nil)
	rec := seedRecords(t, h, "T")[0]
	session := newTestSession(t, LevelBasic)

	opened, err := h.Open(session, rec.ID)
	require.NoError(t, err)
	assert.Equal(t, rec.ID, opened.ID)
	assert.Equal(t, rec.ID, session.ActiveRecordID)
}

func TestListReadsThroughCache(t *testing.T) {
	srv := miniredis.RunT(t)
	client := redisv9.NewClient(&redisv9.Options{Addr: srv.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	listCache := cache.NewRecordListCache(client, time.Minute, 5*time.Second)

	h := NewHistoryService(newTestRecords(t), listCache, nil, nil)
	ctx := context.Background()
	recs := seedRecords(t, h, "First")

	// writes leave a dirty marker, so the first read skips the cache
	assert.True(t, srv.Exists("chats:list:dirty"))
	records, err := h.List(ctx, "", false)
	require.NoError(t, err)
	assert.Equal(t, []string{recs[0].ID}, ids(records))
	assert.False(t, srv.Exists("chats:list:all"))

	srv.FastForward(6 * time.Second)
	_, err = h.List(ctx, "", false)
	require.NoError(t, err)
	assert.True(t, srv.Exists("chats:list:all"))

	cached, hit, err := listCache.GetList(ctx, false)
	require.NoError(t, err)
	require.True(t, hit)
	assert.Equal(t, []string{recs[0].ID}, ids(cached))

	require.NoError(t, h.Delete(ctx, nil, recs[0].ID))
	assert.False(t, srv.Exists("chats:list:all"))
	records, err = h.List(ctx, "", false)
	require.NoError(t, err)
	assert.Empty(t, records)
}
