package model

import "time"

type QuizAttempt struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	SessionID string    `gorm:"type:text;not null;index" json:"session_id"`
	Topic     string    `gorm:"type:text;not null" json:"topic"`
	Total     int       `gorm:"not null" json:"total"`
	Correct   int       `gorm:"not null" json:"correct"`
	CreatedAt time.Time `json:"created_at"`
}
