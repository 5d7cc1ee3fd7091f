package app

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"edumate/internal/metrics"
	"edumate/internal/model"
	"edumate/internal/repository"
)

// ListCache caches the unfiltered history listings.
type ListCache interface {
	GetList(ctx context.Context, pinnedOnly bool) ([]model.ChatRecord, bool, error)
	SetList(ctx context.Context, pinnedOnly bool, records []model.ChatRecord) error
	Invalidate(ctx context.Context) error
	MarkDirty(ctx context.Context) error
	IsDirty(ctx context.Context) (bool, error)
}

type HistoryService struct {
	records *repository.ChatRecordRepository
	cache   ListCache
	metrics *metrics.Registry
	log     *zap.Logger
}

type HistoryView struct {
	Pinned []model.ChatRecord `json:"pinned"`
	Recent []model.ChatRecord `json:"recent"`
}

// NewHistoryService builds the history service. cache and reg may be nil.
func NewHistoryService(records *repository.ChatRecordRepository, cache ListCache, reg *metrics.Registry, log *zap.Logger) *HistoryService {
	if log == nil {
		log = zap.NewNop()
	}
	return &HistoryService{
		records: records,
		cache:   cache,
		metrics: reg,
		log:     log,
	}
}

// View splits the history matching query into pinned and recent sections.
// A record appears in at most one section.
func (s *HistoryService) View(ctx context.Context, query string) (*HistoryView, error) {
	pinned, err := s.List(ctx, query, true)
	if err != nil {
		return nil, err
	}
	all, err := s.List(ctx, query, false)
	if err != nil {
		return nil, err
	}

	seen := make(map[string]struct{}, len(pinned))
	for _, r := range pinned {
		seen[r.ID] = struct{}{}
	}
	recent := make([]model.ChatRecord, 0, len(all))
	for _, r := range all {
		if _, ok := seen[r.ID]; ok || r.Pinned {
			continue
		}
		seen[r.ID] = struct{}{}
		recent = append(recent, r)
	}
	return &HistoryView{Pinned: pinned, Recent: recent}, nil
}

// List returns records newest first. Unfiltered listings read through the cache.
func (s *HistoryService) List(ctx context.Context, query string, pinnedOnly bool) ([]model.ChatRecord, error) {
	query = strings.TrimSpace(query)
	if query != "" || s.cache == nil {
		return s.records.Search(query, pinnedOnly)
	}

	dirty, err := s.cache.IsDirty(ctx)
	if err == nil && !dirty {
		cached, hit, cacheErr := s.cache.GetList(ctx, pinnedOnly)
		if cacheErr == nil && hit {
			return cached, nil
		}
		if cacheErr != nil {
			s.log.Warn("read history cache failed", zap.Error(cacheErr))
		}
	}

	records, err := s.records.List(pinnedOnly)
	if err != nil {
		return nil, err
	}
	if dirty, dirtyErr := s.cache.IsDirty(ctx); dirtyErr == nil && !dirty {
		if err := s.cache.SetList(ctx, pinnedOnly, records); err != nil {
			s.log.Warn("fill history cache failed", zap.Error(err))
		}
	}
	return records, nil
}

func (s *HistoryService) Get(id string) (*model.ChatRecord, error) {
	record, err := s.records.Get(id)
	if err != nil {
		return nil, err
	}
	if record == nil {
		return nil, repository.ErrRecordNotFound
	}
	return record, nil
}

// Open makes the record the session's active record.
func (s *HistoryService) Open(session *StudySession, id string) (*model.ChatRecord, error) {
	record, err := s.Get(id)
	if err != nil {
		return nil, err
	}
	session.mu.Lock()
	session.ActiveRecordID = record.ID
	session.mu.Unlock()
	return record, nil
}

func (s *HistoryService) Rename(ctx context.Context, id, title string) (*model.ChatRecord, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return nil, ErrInvalidInput
	}
	s.beforeWrite(ctx)
	if err := s.records.UpdateTitle(id, title); err != nil {
		return nil, err
	}
	s.afterWrite(ctx)
	return s.Get(id)
}

func (s *HistoryService) TogglePin(ctx context.Context, id string) (*model.ChatRecord, error) {
	s.beforeWrite(ctx)
	if err := s.records.TogglePin(id); err != nil {
		return nil, err
	}
	s.afterWrite(ctx)
	return s.Get(id)
}

// Patch applies a free-form field map after converting it to a RecordPatch.
func (s *HistoryService) Patch(ctx context.Context, id string, fields map[string]interface{}) (*model.ChatRecord, error) {
	patch, err := repository.ParsePatch(fields)
	if err != nil {
		return nil, err
	}
	s.beforeWrite(ctx)
	if err := s.records.Patch(id, patch); err != nil {
		return nil, err
	}
	s.afterWrite(ctx)
	return s.Get(id)
}

// Delete removes the record; missing ids are a no-op. session may be nil.
func (s *HistoryService) Delete(ctx context.Context, session *StudySession, id string) error {
	s.beforeWrite(ctx)
	if err := s.records.Delete(id); err != nil {
		return err
	}
	s.afterWrite(ctx)

	if session != nil {
		session.mu.Lock()
		if session.ActiveRecordID == id {
			session.ActiveRecordID = ""
		}
		session.mu.Unlock()
	}
	return nil
}

func (s *HistoryService) save(ctx context.Context, record *model.ChatRecord) error {
	s.beforeWrite(ctx)
	if err := s.records.Save(record); err != nil {
		return err
	}
	s.afterWrite(ctx)
	s.metrics.RecordSaved()
	s.log.Info("chat record saved", zap.String("record_id", record.ID), zap.String("title", record.Title))
	return nil
}

func (s *HistoryService) beforeWrite(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.MarkDirty(ctx); err != nil {
		s.log.Warn("mark history cache dirty failed", zap.Error(err))
	}
	if err := s.cache.Invalidate(ctx); err != nil {
		s.log.Warn("invalidate history cache failed", zap.Error(err))
	}
}

func (s *HistoryService) afterWrite(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Invalidate(ctx); err != nil {
		s.log.Warn("invalidate history cache failed", zap.Error(err))
	}
}
