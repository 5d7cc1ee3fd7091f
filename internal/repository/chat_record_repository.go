package repository

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"edumate/internal/model"
)

type ChatRecordRepository struct {
	db  *gorm.DB
	now func() time.Time
}

func NewChatRecordRepository(db *gorm.DB) *ChatRecordRepository {
	return &ChatRecordRepository{
		db:  db,
		now: func() time.Time { return time.Now().UTC() },
	}
}

// WithClock replaces the time source used for created_at/updated_at.
func (r *ChatRecordRepository) WithClock(now func() time.Time) *ChatRecordRepository {
	r.now = now
	return r
}

// Initialize creates the chats table and its indexes when missing. It never
// drops or rewrites existing rows.
func (r *ChatRecordRepository) Initialize() error {
	if err := r.db.AutoMigrate(&model.ChatRecord{}); err != nil {
		return persistErr("initialize chats table", err)
	}
	return nil
}

func (r *ChatRecordRepository) Save(record *model.ChatRecord) error {
	if record.ID == "" {
		record.ID = uuid.NewString()
	}
	now := r.now()
	if record.CreatedAt.IsZero() || record.CreatedAt.After(now) {
		record.CreatedAt = now
	}
	record.CreatedAt = record.CreatedAt.UTC()
	record.UpdatedAt = now

	if err := r.db.Create(record).Error; err != nil {
		return persistErr("save chat record", err)
	}
	return nil
}

func (r *ChatRecordRepository) List(pinnedOnly bool) ([]model.ChatRecord, error) {
	return r.Search("", pinnedOnly)
}

// Search lists records whose title contains query, case-insensitively. An
// empty query matches every record.
func (r *ChatRecordRepository) Search(query string, pinnedOnly bool) ([]model.ChatRecord, error) {
	q := r.db.Model(&model.ChatRecord{})
	if pinnedOnly {
		q = q.Where("pinned = ?", true)
	}
	if query = strings.TrimSpace(query); query != "" {
		q = q.Where("INSTR(LOWER(title), ?) > 0", strings.ToLower(query))
	}

	records := make([]model.ChatRecord, 0)
	if err := q.Order("created_at DESC").Find(&records).Error; err != nil {
		return nil, persistErr("list chat records", err)
	}
	return records, nil
}

func (r *ChatRecordRepository) Get(id string) (*model.ChatRecord, error) {
	var record model.ChatRecord
	if err := r.db.Where("id = ?", id).First(&record).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, persistErr("get chat record", err)
	}
	return &record, nil
}

// FindByContent returns the record matching title, question and answer
// exactly, or nil.
func (r *ChatRecordRepository) FindByContent(title, question, answer string) (*model.ChatRecord, error) {
	var record model.ChatRecord
	err := r.db.
		Where("title = ? AND question = ? AND answer = ?", title, question, answer).
		Order("created_at ASC").
		First(&record).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, persistErr("find chat record by content", err)
	}
	return &record, nil
}

func (r *ChatRecordRepository) Delete(id string) error {
	if err := r.db.Where("id = ?", id).Delete(&model.ChatRecord{}).Error; err != nil {
		return persistErr("delete chat record", err)
	}
	return nil
}

func (r *ChatRecordRepository) UpdateTitle(id, title string) error {
	return r.update("update chat title", id, map[string]interface{}{"title": title})
}

func (r *ChatRecordRepository) TogglePin(id string) error {
	return r.update("toggle chat pin", id, map[string]interface{}{"pinned": gorm.Expr("NOT pinned")})
}

func (r *ChatRecordRepository) Patch(id string, patch RecordPatch) error {
	if patch.IsEmpty() {
		return ErrEmptyPatch
	}
	fields := make(map[string]interface{}, 2)
	if patch.Title != nil {
		fields["title"] = *patch.Title
	}
	if patch.Pinned != nil {
		fields["pinned"] = *patch.Pinned
	}
	return r.update("patch chat record", id, fields)
}

func (r *ChatRecordRepository) update(op, id string, fields map[string]interface{}) error {
	fields["updated_at"] = r.now()
	result := r.db.Model(&model.ChatRecord{}).Where("id = ?", id).Updates(fields)
	if result.Error != nil {
		return persistErr(op, result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrRecordNotFound
	}
	return nil
}
