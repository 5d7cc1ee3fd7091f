package repository

import (
	"gorm.io/gorm"

	"edumate/internal/model"
)

type QuizAttemptRepository struct {
	db *gorm.DB
}

type QuizStats struct {
	Taken   int `json:"taken"`
	Correct int `json:"correct"`
}

func NewQuizAttemptRepository(db *gorm.DB) *QuizAttemptRepository {
	return &QuizAttemptRepository{db: db}
}

func (r *QuizAttemptRepository) Initialize() error {
	if err := r.db.AutoMigrate(&model.QuizAttempt{}); err != nil {
		return persistErr("initialize quiz attempts table", err)
	}
	return nil
}

func (r *QuizAttemptRepository) Create(attempt *model.QuizAttempt) error {
	if err := r.db.Create(attempt).Error; err != nil {
		return persistErr("create quiz attempt", err)
	}
	return nil
}

func (r *QuizAttemptRepository) ListBySessionID(sessionID string) ([]model.QuizAttempt, error) {
	attempts := make([]model.QuizAttempt, 0)
	if err := r.db.Where("session_id = ?", sessionID).Order("created_at DESC").Find(&attempts).Error; err != nil {
		return nil, persistErr("list quiz attempts", err)
	}
	return attempts, nil
}

func (r *QuizAttemptRepository) StatsBySessionID(sessionID string) (QuizStats, error) {
	var stats QuizStats
	err := r.db.Model(&model.QuizAttempt{}).
		Select("COUNT(*) AS taken, COALESCE(SUM(correct), 0) AS correct").
		Where("session_id = ?", sessionID).
		Scan(&stats).Error
	if err != nil {
		return QuizStats{}, persistErr("quiz attempt stats", err)
	}
	return stats, nil
}
