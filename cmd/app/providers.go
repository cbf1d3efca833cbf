package main

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/valkey-io/valkey-go"

	"github.com/mannadev/scriptura/internal/domain/devotion"
	"github.com/mannadev/scriptura/internal/domain/readingplan"
	"github.com/mannadev/scriptura/internal/domain/versechat"
	"github.com/mannadev/scriptura/internal/infra/config"
	"github.com/mannadev/scriptura/internal/infra/devotionsource"
	"github.com/mannadev/scriptura/internal/infra/devotionstore"
	"github.com/mannadev/scriptura/internal/infra/llm/chatgpt"
	"github.com/mannadev/scriptura/internal/infra/planrepo"
	"github.com/mannadev/scriptura/internal/infra/scripture/bibleapi"
	"github.com/mannadev/scriptura/internal/infra/versechatrepo"
	"github.com/mannadev/scriptura/internal/infra/versechatstore"
)

func provideChatGPTClient(cfg *config.Config) (*chatgpt.Client, error) {
	return chatgpt.NewClient(cfg.LLM.APIKey, cfg.LLM.BaseURL)
}

func provideScriptureClient(cfg *config.Config) *bibleapi.Client {
	return bibleapi.NewClient(cfg.Scripture.APIBaseURL, cfg.Scripture.Translation)
}

// providePostgresPool returns a shared connection pool, or nil when the
// DSN is unset or the database is unreachable. Repositories fall back to
// their in-memory implementations in that case.
func providePostgresPool(cfg *config.Config, logger *slog.Logger) *pgxpool.Pool {
	dsn := strings.TrimSpace(cfg.Postgres.DSN)
	if dsn == "" {
		logger.Info("postgres dsn not set, repositories will use process memory")
		return nil
	}
	poolConfig, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		logger.Error("invalid postgres dsn, repositories will use process memory", "error", err)
		return nil
	}
	if cfg.Postgres.MaxConns > 0 {
		poolConfig.MaxConns = cfg.Postgres.MaxConns
	}
	if cfg.Postgres.MinConns > 0 {
		poolConfig.MinConns = cfg.Postgres.MinConns
	}
	pool, err := pgxpool.NewWithConfig(context.Background(), poolConfig)
	if err != nil {
		logger.Error("failed to initialize postgres pool, repositories will use process memory", "error", err)
		return nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := pool.Ping(ctx); err != nil {
		logger.Error("postgres ping failed, repositories will use process memory", "error", err)
		pool.Close()
		return nil
	}
	return pool
}

func providePlanRepository(pool *pgxpool.Pool, logger *slog.Logger) readingplan.Repository {
	if pool == nil {
		return planrepo.NewMemoryRepository()
	}
	logger.Info("reading plan postgres repository enabled")
	return planrepo.NewPostgresRepository(pool)
}

func provideVerseChatRepository(pool *pgxpool.Pool, logger *slog.Logger) versechat.QuestionRepository {
	if pool == nil {
		return versechatrepo.NewMemoryRepository()
	}
	logger.Info("verse chat postgres repository enabled")
	return versechatrepo.NewPostgresRepository(pool)
}

func provideVerseChatConfig(cfg *config.Config) versechat.Config {
	return versechat.Config{
		Model:               cfg.LLM.Model,
		EmbeddingModel:      cfg.LLM.EmbeddingModel,
		Temperature:         cfg.LLM.Temperature,
		Prompt:              cfg.VerseChat.Prompt,
		CacheTTL:            cfg.VerseChat.CacheTTL,
		TopRecommendations:  cfg.VerseChat.TopRecommendations,
		SimilarityThreshold: cfg.VerseChat.SimilarityThreshold,
	}
}

func provideVerseChatStore(cfg *config.Config, logger *slog.Logger) versechat.Store {
	client := dialValkey(cfg, logger)
	if client == nil {
		return versechatstore.NewMemoryStore()
	}
	logger.Info("verse chat valkey store enabled", "addr", cfg.Valkey.Addr)
	return versechatstore.NewValkeyStore(client, "versechat")
}

func provideDevotionStore(cfg *config.Config, logger *slog.Logger) devotion.Store {
	client := dialValkey(cfg, logger)
	if client == nil {
		return devotionstore.NewMemoryStore()
	}
	logger.Info("devotion valkey store enabled", "addr", cfg.Valkey.Addr)
	return devotionstore.NewValkeyStore(client, "devotion")
}

func providePageSource(cfg *config.Config, logger *slog.Logger) devotion.PageSource {
	if strings.TrimSpace(cfg.Storage.Endpoint) == "" {
		logger.Info("storage endpoint not set, devotion source will use process memory")
		return devotionsource.NewMemorySource(nil)
	}
	source, err := devotionsource.NewMinioSource(
		cfg.Storage.Endpoint,
		cfg.Storage.AccessKey,
		cfg.Storage.SecretKey,
		cfg.Storage.Bucket,
		cfg.Devotion.ObjectPath,
		cfg.Storage.Region,
		logger,
	)
	if err != nil {
		logger.Error("failed to initialize object storage, devotion source will use process memory", "error", err)
		return devotionsource.NewMemorySource(nil)
	}
	return source
}

func provideDevotionService(cfg *config.Config, source devotion.PageSource, store devotion.Store, logger *slog.Logger) *devotion.Service {
	return devotion.NewService(source, store, cfg.Devotion.CacheTTL, logger)
}

func dialValkey(cfg *config.Config, logger *slog.Logger) valkey.Client {
	if !cfg.Valkey.Enabled {
		return nil
	}
	var (
		opt valkey.ClientOption
		err error
	)
	if strings.Contains(cfg.Valkey.Addr, "://") {
		opt, err = valkey.ParseURL(cfg.Valkey.Addr)
	} else {
		opt = valkey.ClientOption{InitAddress: []string{cfg.Valkey.Addr}}
	}
	if err != nil {
		logger.Error("invalid valkey configuration, falling back to memory store", "error", err)
		return nil
	}
	client, err := valkey.NewClient(opt)
	if err != nil {
		logger.Error("failed to create valkey client, falling back to memory store", "error", err)
		return nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := client.Do(ctx, client.B().Ping().Build()).Error(); err != nil {
		logger.Error("valkey ping failed, falling back to memory store", "error", err)
		client.Close()
		return nil
	}
	return client
}
