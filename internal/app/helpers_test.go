package app

import (
	"context"
	"io"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"edumate/internal/extract"
	"edumate/internal/metrics"
	"edumate/internal/model"
	"edumate/internal/platform/sqlite"
	"edumate/internal/repository"
)

type fakeInference struct {
	mu sync.Mutex

	answer    string
	answerErr error
	summary   string
	summErr   error
	generated string
	genErr    error

	answerCalls    int
	summarizeCalls int
	lastQuestion   string
	lastContext    string
	lastMaxLen     int
	lastPrompt     string
}

func (f *fakeInference) Answer(_ context.Context, question, context string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.answerCalls++
	f.lastQuestion, f.lastContext = question, context
	return f.answer, f.answerErr
}

func (f *fakeInference) Summarize(_ context.Context, _ string, maxLen int) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.summarizeCalls++
	f.lastMaxLen = maxLen
	return f.summary, f.summErr
}

func (f *fakeInference) Generate(_ context.Context, prompt string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.lastPrompt = prompt
	return f.generated, f.genErr
}

type fakeExtractor struct {
	text string
	err  error
}

func (f fakeExtractor) ExtractText(_ context.Context, r io.Reader, _ extract.Kind) (string, error) {
	_, _ = io.Copy(io.Discard, r)
	return f.text, f.err
}

type memoryRecorder struct {
	mu       sync.Mutex
	attempts []model.QuizAttempt
	err      error
}

func (m *memoryRecorder) Record(_ context.Context, attempt model.QuizAttempt) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	m.attempts = append(m.attempts, attempt)
	return nil
}

func newTestRecords(t *testing.T) *repository.ChatRecordRepository {
	t.Helper()
	db, err := sqlite.New(context.Background(), filepath.Join(t.TempDir(), "history.db"))
	require.NoError(t, err)
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})

	start := time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)
	var mu sync.Mutex
	repo := repository.NewChatRecordRepository(db).WithClock(func() time.Time {
		mu.Lock()
		defer mu.Unlock()
		start = start.Add(time.Second)
		return start
	})
	require.NoError(t, repo.Initialize())
	return repo
}

func newTestSession(t *testing.T, level EducationLevel) *StudySession {
	t.Helper()
	raw := string(level)
	session, err := NewSessionStore(time.Hour).Create(SessionSettings{EducationLevel: &raw})
	require.NoError(t, err)
	return session
}

func newTestStudy(t *testing.T, inf *fakeInference, ex TextExtractor) (*StudyService, *HistoryService) {
	t.Helper()
	history := NewHistoryService(newTestRecords(t), nil, metrics.New(), nil)
	return NewStudyService(history, inf, ex, metrics.New(), nil), history
}

func longText() string {
	return strings.Repeat("Photosynthesis turns light into chemical energy. ", 4)
}
