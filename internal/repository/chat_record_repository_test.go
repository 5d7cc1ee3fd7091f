package repository

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"edumate/internal/model"
)

func TestInitializeIsIdempotent(t *testing.T) {
	repo := newTestRecordRepo(t)

	rec := &model.ChatRecord{Title: "T", Question: "Q", Answer: "A"}
	require.NoError(t, repo.Save(rec))

	require.NoError(t, repo.Initialize())
	require.NoError(t, repo.Initialize())

	records, err := repo.List(false)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, rec.ID, records[0].ID)

	assert.True(t, repo.db.Migrator().HasIndex(&model.ChatRecord{}, "idx_chats_pinned"))
	assert.True(t, repo.db.Migrator().HasIndex(&model.ChatRecord{}, "idx_chats_created_at"))
}

func TestSaveAssignsIDAndTimestamps(t *testing.T) {
	repo := newTestRecordRepo(t)

	first := &model.ChatRecord{Title: "T", Question: "Q", Answer: "A", Pinned: false}
	second := &model.ChatRecord{Title: "T2", Question: "Q2", Answer: "A2"}
	require.NoError(t, repo.Save(first))
	require.NoError(t, repo.Save(second))

	assert.NotEmpty(t, first.ID)
	assert.NotEqual(t, first.ID, second.ID)
	assert.False(t, first.CreatedAt.IsZero())
	assert.False(t, first.UpdatedAt.Before(first.CreatedAt))

	records, err := repo.List(false)
	require.NoError(t, err)
	titled := 0
	for _, r := range records {
		if r.Title == "T" {
			titled++
		}
	}
	assert.Equal(t, 1, titled)
}

func TestSaveKeepsProvidedIDAndCreatedAt(t *testing.T) {
	repo := newTestRecordRepo(t)
	created := time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC)

	rec := &model.ChatRecord{ID: "fixed-id", Title: "T", Question: "Q", Answer: "A", CreatedAt: created}
	require.NoError(t, repo.Save(rec))

	got, err := repo.Get("fixed-id")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.True(t, got.CreatedAt.Equal(created))
	assert.True(t, got.UpdatedAt.After(created))
}

func TestSaveClampsFutureCreatedAt(t *testing.T) {
	repo := newTestRecordRepo(t)

	rec := &model.ChatRecord{Title: "T", Question: "Q", Answer: "A", CreatedAt: time.Now().Add(24 * time.Hour * 365 * 10)}
	require.NoError(t, repo.Save(rec))
	assert.False(t, rec.UpdatedAt.Before(rec.CreatedAt))
}

func TestSaveDuplicateIDIsPersistenceError(t *testing.T) {
	repo := newTestRecordRepo(t)

	require.NoError(t, repo.Save(&model.ChatRecord{ID: "dup", Title: "T", Question: "Q", Answer: "A"}))
	err := repo.Save(&model.ChatRecord{ID: "dup", Title: "T", Question: "Q", Answer: "A"})

	require.Error(t, err)
	var perr *PersistenceError
	assert.True(t, errors.As(err, &perr))
	assert.Equal(t, "save chat record", perr.Op)

	records, err := repo.List(false)
	require.NoError(t, err)
	assert.Len(t, records, 1)
}

func TestGetRoundTrip(t *testing.T) {
	repo := newTestRecordRepo(t)

	rec := &model.ChatRecord{Title: "Basic - photosynthesis", Question: "What is photosynthesis?", Answer: "Plants make food.", Pinned: true}
	require.NoError(t, repo.Save(rec))

	got, err := repo.Get(rec.ID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, rec.ID, got.ID)
	assert.Equal(t, rec.Title, got.Title)
	assert.Equal(t, rec.Question, got.Question)
	assert.Equal(t, rec.Answer, got.Answer)
	assert.Equal(t, rec.Pinned, got.Pinned)
	assert.True(t, got.CreatedAt.Equal(rec.CreatedAt))
	assert.True(t, got.UpdatedAt.Equal(rec.UpdatedAt))
	assert.False(t, got.UpdatedAt.Before(got.CreatedAt))
}

func TestGetMissingReturnsNil(t *testing.T) {
	repo := newTestRecordRepo(t)

	got, err := repo.Get("nope")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestListEmptyStore(t *testing.T) {
	repo := newTestRecordRepo(t)

	records, err := repo.List(false)
	require.NoError(t, err)
	assert.NotNil(t, records)
	assert.Empty(t, records)

	pinned, err := repo.List(true)
	require.NoError(t, err)
	assert.Empty(t, pinned)
}

func TestListOrdersByCreatedAtDescending(t *testing.T) {
	repo := newTestRecordRepo(t)

	base := time.Date(2025, 2, 1, 0, 0, 0, 0, time.UTC)
	for _, offset := range []int{3, 1, 5, 2, 4} {
		rec := &model.ChatRecord{
			Title:     "T",
			Question:  "Q",
			Answer:    "A",
			CreatedAt: base.Add(time.Duration(offset) * time.Minute),
		}
		require.NoError(t, repo.Save(rec))
	}

	records, err := repo.List(false)
	require.NoError(t, err)
	require.Len(t, records, 5)
	for i := 1; i < len(records); i++ {
		assert.False(t, records[i].CreatedAt.After(records[i-1].CreatedAt),
			"record %d created after record %d", i, i-1)
	}
	assert.True(t, records[0].CreatedAt.Equal(base.Add(5*time.Minute)))
}

func TestSearchMatchesTitleCaseInsensitive(t *testing.T) {
	repo := newTestRecordRepo(t)

	require.NoError(t, repo.Save(&model.ChatRecord{Title: "Summary (Basic)", Question: "Q", Answer: "A"}))
	require.NoError(t, repo.Save(&model.ChatRecord{Title: "SHS - Algebra basics", Question: "Q", Answer: "A", Pinned: true}))
	require.NoError(t, repo.Save(&model.ChatRecord{Title: "Tertiary - Thermodynamics", Question: "Q", Answer: "A"}))

	found, err := repo.Search("BASIC", false)
	require.NoError(t, err)
	assert.Len(t, found, 2)

	pinned, err := repo.Search("basic", true)
	require.NoError(t, err)
	require.Len(t, pinned, 1)
	assert.Equal(t, "SHS - Algebra basics", pinned[0].Title)

	none, err := repo.Search("calculus", false)
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestDeleteThenGetIsNotFound(t *testing.T) {
	repo := newTestRecordRepo(t)

	rec := &model.ChatRecord{Title: "T", Question: "Q", Answer: "A"}
	require.NoError(t, repo.Save(rec))
	require.NoError(t, repo.Delete(rec.ID))

	got, err := repo.Get(rec.ID)
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestDeleteMissingIsNoop(t *testing.T) {
	repo := newTestRecordRepo(t)
	assert.NoError(t, repo.Delete("missing"))
}

func TestUpdateTitle(t *testing.T) {
	repo := newTestRecordRepo(t)

	rec := &model.ChatRecord{Title: "Old", Question: "Q", Answer: "A"}
	require.NoError(t, repo.Save(rec))
	require.NoError(t, repo.UpdateTitle(rec.ID, "New"))

	got, err := repo.Get(rec.ID)
	require.NoError(t, err)
	assert.Equal(t, "New", got.Title)
	assert.True(t, got.UpdatedAt.After(rec.UpdatedAt))
	assert.True(t, got.CreatedAt.Equal(rec.CreatedAt))
	assert.Equal(t, "Q", got.Question)
}

func TestUpdateTitleMissingIsNotFound(t *testing.T) {
	repo := newTestRecordRepo(t)
	assert.ErrorIs(t, repo.UpdateTitle("missing", "New"), ErrRecordNotFound)
}

func TestTogglePinTwiceRestoresValue(t *testing.T) {
	repo := newTestRecordRepo(t)

	rec := &model.ChatRecord{Title: "T", Question: "Q", Answer: "A"}
	require.NoError(t, repo.Save(rec))

	require.NoError(t, repo.TogglePin(rec.ID))
	got, err := repo.Get(rec.ID)
	require.NoError(t, err)
	assert.True(t, got.Pinned)
	firstUpdate := got.UpdatedAt

	require.NoError(t, repo.TogglePin(rec.ID))
	got, err = repo.Get(rec.ID)
	require.NoError(t, err)
	assert.False(t, got.Pinned)
	assert.True(t, got.UpdatedAt.After(firstUpdate))
}

func TestTogglePinMissingIsNotFound(t *testing.T) {
	repo := newTestRecordRepo(t)
	assert.ErrorIs(t, repo.TogglePin("missing"), ErrRecordNotFound)
}

func TestPatchPinnedShowsInPinnedList(t *testing.T) {
	repo := newTestRecordRepo(t)

	pinnedRec := &model.ChatRecord{Title: "pin me", Question: "Q", Answer: "A"}
	plainRec := &model.ChatRecord{Title: "leave me", Question: "Q", Answer: "A"}
	require.NoError(t, repo.Save(pinnedRec))
	require.NoError(t, repo.Save(plainRec))

	pinned := true
	require.NoError(t, repo.Patch(pinnedRec.ID, RecordPatch{Pinned: &pinned}))

	records, err := repo.List(true)
	require.NoError(t, err)
	ids := make([]string, 0, len(records))
	for _, r := range records {
		assert.True(t, r.Pinned)
		ids = append(ids, r.ID)
	}
	assert.Contains(t, ids, pinnedRec.ID)
	assert.NotContains(t, ids, plainRec.ID)
}

func TestPatchTitleAndPinned(t *testing.T) {
	repo := newTestRecordRepo(t)

	rec := &model.ChatRecord{Title: "T", Question: "Q", Answer: "A", Pinned: true}
	require.NoError(t, repo.Save(rec))

	title := "Renamed"
	unpinned := false
	require.NoError(t, repo.Patch(rec.ID, RecordPatch{Title: &title, Pinned: &unpinned}))

	got, err := repo.Get(rec.ID)
	require.NoError(t, err)
	assert.Equal(t, "Renamed", got.Title)
	assert.False(t, got.Pinned)
	assert.True(t, got.UpdatedAt.After(rec.UpdatedAt))
}

func TestPatchErrors(t *testing.T) {
	repo := newTestRecordRepo(t)

	assert.ErrorIs(t, repo.Patch("any", RecordPatch{}), ErrEmptyPatch)

	pinned := true
	assert.ErrorIs(t, repo.Patch("missing", RecordPatch{Pinned: &pinned}), ErrRecordNotFound)
}

func TestFindByContent(t *testing.T) {
	repo := newTestRecordRepo(t)

	rec := &model.ChatRecord{Title: "Summary (Basic)", Question: "Summarize this document (Basic)", Answer: "short"}
	require.NoError(t, repo.Save(rec))

	got, err := repo.FindByContent("Summary (Basic)", "Summarize this document (Basic)", "short")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, rec.ID, got.ID)

	miss, err := repo.FindByContent("Summary (Basic)", "Summarize this document (Basic)", "short ")
	require.NoError(t, err)
	assert.Nil(t, miss)
}
