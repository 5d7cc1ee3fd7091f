package model

import "time"

// ChatRecord is one persisted question/answer turn.
type ChatRecord struct {
	ID        string    `gorm:"primaryKey;type:text" json:"id"`
	Title     string    `gorm:"type:text;not null" json:"title"`
	Question  string    `gorm:"type:text;not null" json:"question"`
	Answer    string    `gorm:"type:text;not null" json:"answer"`
	Pinned    bool      `gorm:"not null;default:false;index:idx_chats_pinned" json:"pinned"`
	CreatedAt time.Time `gorm:"not null;autoCreateTime:false;index:idx_chats_created_at" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;autoUpdateTime:false" json:"updated_at"`
}

func (ChatRecord) TableName() string {
	return "chats"
}
