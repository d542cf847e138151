package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/xaenox/coach-bot/internal/assistant"
	"github.com/xaenox/coach-bot/internal/bot"
	"github.com/xaenox/coach-bot/internal/classifier"
	"github.com/xaenox/coach-bot/internal/engine"
	"github.com/xaenox/coach-bot/internal/handlers"
	"github.com/xaenox/coach-bot/internal/models"
	"github.com/xaenox/coach-bot/internal/schedule"
	"github.com/xaenox/coach-bot/internal/storage"
	"github.com/xaenox/coach-bot/pkg/config"
	"go.uber.org/zap"
)

const loadTimeout = 10 * time.Second

func main() {
	// Initialize logger
	logger, _ := zap.NewProduction()
	defer logger.Sync()

	// Load configuration
	cfg, err := config.LoadConfig("config.yaml")
	if err != nil {
		logger.Fatal("Failed to load config", zap.Error(err), zap.String("path", "config.yaml"))
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Initialize storage
	var store storage.Storage
	if cfg.Database.UseInMemory {
		logger.Info("Using in-memory storage", zap.Bool("seed_demo", cfg.Database.SeedDemo))
		var seed *models.TeamSnapshot
		if cfg.Database.SeedDemo {
			seed = storage.DemoSnapshot(time.Now())
		} else {
			seed = storage.DefaultSnapshot(cfg.Engine.TeamName, cfg.Engine.Sport)
		}
		store = storage.NewMemoryStorage(seed)
	} else {
		logger.Info("Using PostgreSQL storage")
		dbConfig := storage.DatabaseConfig{
			Host:     cfg.Database.Host,
			Port:     cfg.Database.Port,
			User:     cfg.Database.User,
			Password: cfg.Database.Password,
			DBName:   cfg.Database.DBName,
			SSLMode:  cfg.Database.SSLMode,
		}
		store, err = storage.NewPostgresStorage(dbConfig, logger)
		if err != nil {
			logger.Fatal("Failed to initialize storage", zap.Error(err))
		}
	}

	if cfg.Redis.Enabled {
		logger.Info("Caching team data in Redis", zap.String("addr", cfg.Redis.Addr))
		cached, err := storage.NewRedisCache(store, storage.RedisConfig{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
			Prefix:   cfg.Redis.Prefix,
			TTL:      cfg.Redis.TTL,
		}, logger)
		if err != nil {
			logger.Fatal("Failed to connect to Redis", zap.Error(err))
		}
		store = cached
	}
	defer store.Close()

	// Team data is served from the default snapshot until the first load
	// succeeds.
	provider := storage.NewProvider(store, storage.DefaultSnapshot(cfg.Engine.TeamName, cfg.Engine.Sport), logger)
	loadCtx, cancel := context.WithTimeout(ctx, loadTimeout)
	if err := provider.Refresh(loadCtx); err != nil {
		logger.Warn("Starting with default team data", zap.Error(err))
	}
	cancel()

	ticker := schedule.Ticker{}
	if cfg.Engine.RefreshInterval > 0 {
		stopRefresh := provider.StartRefresh(ticker, cfg.Engine.RefreshInterval, loadTimeout)
		defer stopRefresh()
	}

	// Local fallback path
	clf := classifier.NewClassifier(classifier.Weights{
		Base:          cfg.Classifier.Base,
		LengthCap:     cfg.Classifier.LengthCap,
		LengthPer50:   cfg.Classifier.LengthPer50,
		TermWeight:    cfg.Classifier.TermWeight,
		QuestionBonus: cfg.Classifier.QuestionBonus,
		PlayerBonus:   cfg.Classifier.PlayerBonus,
	}, classifier.DefaultTerms)
	fallback := engine.NewFallback(clf, handlers.NewRegistry(logger), cfg.Classifier.UsefulnessFloor, logger)

	// Remote assistant
	var remote assistant.Service
	if cfg.OpenAI.APIKey != "" {
		remote = assistant.NewOpenAIService(assistant.OpenAIConfig{
			APIKey:      cfg.OpenAI.APIKey,
			BaseURL:     cfg.OpenAI.BaseURL,
			Model:       cfg.OpenAI.Model,
			MaxTokens:   cfg.OpenAI.MaxTokens,
			Temperature: cfg.OpenAI.Temperature,
		}, logger)
	} else {
		logger.Info("No OpenAI API key configured, answering locally only")
	}

	newSession := func(chatID, userID int64, sink engine.Transcript) *engine.Session {
		chatLogger := logger.With(zap.Int64("chat_id", chatID))
		eng := engine.New(engine.Config{
			RemoteTimeout:       cfg.Engine.RemoteTimeout,
			MinRemoteConfidence: cfg.Engine.MinRemoteConfidence,
			Request: models.RequestContext{
				UserID:        userID,
				Sport:         cfg.Engine.Sport,
				Language:      cfg.Engine.Language,
				IsPremiumUser: cfg.Engine.IsPremium(userID),
			},
		}, provider, sink, remote, fallback, chatLogger)

		insights := engine.NewInsightScheduler(engine.InsightConfig{
			Period:     cfg.Insights.Period,
			Confidence: cfg.Insights.Confidence,
			Threshold:  cfg.Insights.Threshold,
			Enabled:    cfg.Insights.Enabled,
		}, provider, sink, ticker, chatLogger)

		return engine.NewSession(eng, insights)
	}

	// Initialize bot
	b, err := bot.New(cfg.Telegram.Token, newSession, logger)
	if err != nil {
		logger.Fatal("Failed to create bot", zap.Error(err))
	}

	// Start the bot
	logger.Info("Bot started")
	if err := b.Start(ctx); err != nil {
		logger.Fatal("Bot error", zap.Error(err))
	}
	logger.Info("Bot stopped")
}
