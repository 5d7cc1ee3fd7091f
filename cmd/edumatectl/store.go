package main

import (
	"context"

	"gorm.io/gorm"

	"edumate/internal/bootstrap"
	"edumate/internal/config"
	"edumate/internal/repository"
)

type store struct {
	db       *gorm.DB
	records  *repository.ChatRecordRepository
	attempts *repository.QuizAttemptRepository
}

func openStore(ctx context.Context, dbPath string) (*store, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	if dbPath != "" {
		cfg.SQLite.Path = dbPath
	}
	db, records, attempts, err := bootstrap.OpenStore(ctx, cfg)
	if err != nil {
		return nil, err
	}
	return &store{db: db, records: records, attempts: attempts}, nil
}

func (s *store) Close() {
	if sqlDB, err := s.db.DB(); err == nil {
		_ = sqlDB.Close()
	}
}
