package bootstrap

import (
	"context"
	"fmt"
	"net/http"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"edumate/internal/ai"
	appsvc "edumate/internal/app"
	"edumate/internal/cache"
	"edumate/internal/config"
	"edumate/internal/extract"
	"edumate/internal/metrics"
	rabbitmqClient "edumate/internal/platform/rabbitmq"
	redisClient "edumate/internal/platform/redis"
	sqliteClient "edumate/internal/platform/sqlite"
	"edumate/internal/repository"
	"edumate/internal/search"
	"edumate/internal/vision"
	"edumate/internal/worker"
)

type App struct {
	Config  *config.Config
	Log     *zap.Logger
	Metrics *metrics.Registry

	SQLite        *gorm.DB
	Redis         *redis.Client
	MQConn        *amqp.Connection
	AttemptWorker *worker.QuizAttemptWorker

	Records  *repository.ChatRecordRepository
	Attempts *repository.QuizAttemptRepository

	Sessions  *appsvc.SessionStore
	History   *appsvc.HistoryService
	Study     *appsvc.StudyService
	Plans     *appsvc.PlanService
	Quizzes   *appsvc.QuizService
	Resources *appsvc.ResourceService

	StartedAt time.Time
}

// OpenStore opens the SQLite history database and makes sure its tables exist.
func OpenStore(ctx context.Context, cfg *config.Config) (*gorm.DB, *repository.ChatRecordRepository, *repository.QuizAttemptRepository, error) {
	db, err := sqliteClient.New(ctx, cfg.SQLite.Path)
	if err != nil {
		return nil, nil, nil, err
	}
	records := repository.NewChatRecordRepository(db)
	if err := records.Initialize(); err != nil {
		closeDB(db)
		return nil, nil, nil, err
	}
	attempts := repository.NewQuizAttemptRepository(db)
	if err := attempts.Initialize(); err != nil {
		closeDB(db)
		return nil, nil, nil, err
	}
	return db, records, attempts, nil
}

func closeDB(db *gorm.DB) {
	if sqlDB, err := db.DB(); err == nil {
		_ = sqlDB.Close()
	}
}

func New(ctx context.Context, cfg *config.Config, log *zap.Logger) (*App, error) {
	app := &App{
		Config:    cfg,
		Log:       log,
		Metrics:   metrics.New(),
		Sessions:  appsvc.NewSessionStore(cfg.SessionIdleTTL()),
		StartedAt: time.Now(),
	}

	db, records, attempts, err := OpenStore(ctx, cfg)
	if err != nil {
		return nil, err
	}
	app.SQLite, app.Records, app.Attempts = db, records, attempts

	var listCache appsvc.ListCache
	if cfg.Redis.Enabled {
		redisCli, err := redisClient.New(ctx, cfg.Redis)
		if err != nil {
			_ = app.Close()
			return nil, err
		}
		app.Redis = redisCli
		listCache = cache.NewRecordListCache(
			redisCli,
			time.Duration(cfg.Redis.ListTTLSeconds)*time.Second,
			time.Duration(cfg.Redis.ListDirtyTTLSeconds)*time.Second,
		)
	}

	var recorder appsvc.AttemptRecorder = appsvc.NewDirectAttemptRecorder(attempts)
	if cfg.RabbitMQ.Enabled {
		mqConn, err := rabbitmqClient.New(ctx, cfg.RabbitMQ.URL)
		if err != nil {
			_ = app.Close()
			return nil, err
		}
		app.MQConn = mqConn

		app.AttemptWorker = worker.NewQuizAttemptWorker(mqConn, attempts, cfg.RabbitMQ.QuizAttemptQueue, log)
		if err := app.AttemptWorker.Start(ctx); err != nil {
			_ = app.Close()
			return nil, fmt.Errorf("start quiz attempt worker failed: %w", err)
		}
		recorder = rabbitmqClient.NewQuizAttemptPublisher(mqConn, cfg.RabbitMQ.QuizAttemptQueue)
	}

	inference := ai.NewClient(ai.Config{
		BaseURL: cfg.LLM.BaseURL,
		APIKey:  cfg.LLM.APIKey,
		Model:   cfg.LLM.Model,
		Timeout: cfg.LLMTimeout(),
	})
	extractor := extract.NewExtractor(vision.NewRecognizer(cfg.OCR.TesseractPath, cfg.OCR.Language))
	searcher := search.WithFallback(
		search.NewWikipedia(cfg.Search.WikipediaEndpoint, &http.Client{Timeout: cfg.SearchTimeout()}),
		cfg.SearchTimeout(),
	)

	app.History = appsvc.NewHistoryService(records, listCache, app.Metrics, log)
	app.Study = appsvc.NewStudyService(app.History, inference, extractor, app.Metrics, log)
	app.Plans = appsvc.NewPlanService(inference, app.Metrics, log)
	app.Quizzes = appsvc.NewQuizService(inference, recorder, attempts, app.Metrics, log)
	app.Resources = appsvc.NewResourceService(searcher)

	log.Info("edumate initialized",
		zap.String("sqlite_path", cfg.SQLite.Path),
		zap.Bool("redis_enabled", cfg.Redis.Enabled),
		zap.Bool("rabbitmq_enabled", cfg.RabbitMQ.Enabled),
		zap.String("llm_model", cfg.LLM.Model),
	)
	return app, nil
}

func (a *App) Close() error {
	var closeErr error
	if a.Redis != nil {
		if err := a.Redis.Close(); err != nil {
			closeErr = err
		}
	}
	if a.AttemptWorker != nil {
		a.AttemptWorker.Close()
	}
	if a.MQConn != nil {
		if err := a.MQConn.Close(); err != nil {
			closeErr = err
		}
	}
	if a.SQLite != nil {
		sqlDB, err := a.SQLite.DB()
		if err == nil {
			if err := sqlDB.Close(); err != nil {
				closeErr = err
			}
		}
	}
	return closeErr
}
