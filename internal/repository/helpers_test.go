package repository

import (
	"context"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"edumate/internal/platform/sqlite"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := sqlite.New(context.Background(), filepath.Join(t.TempDir(), "history.db"))
	require.NoError(t, err)
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	return db
}

// stepClock returns a time source that advances one second per call.
func stepClock(start time.Time) func() time.Time {
	var mu sync.Mutex
	current := start.UTC()
	return func() time.Time {
		mu.Lock()
		defer mu.Unlock()
		current = current.Add(time.Second)
		return current
	}
}

func newTestRecordRepo(t *testing.T) *ChatRecordRepository {
	t.Helper()
	repo := NewChatRecordRepository(newTestDB(t)).
		WithClock(stepClock(time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)))
	require.NoError(t, repo.Initialize())
	return repo
}
