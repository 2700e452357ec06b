package bootstrap

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	"resume-builder/internal/documents"
	"resume-builder/internal/sessions"
	"resume-builder/internal/shared/config"
	"resume-builder/internal/shared/server"
	"resume-builder/internal/shared/storage/db"
	"resume-builder/internal/shared/storage/object"
	localstore "resume-builder/internal/shared/storage/object/local"
	s3store "resume-builder/internal/shared/storage/object/s3"
	"resume-builder/internal/shared/telemetry"
	"resume-builder/internal/suggest"
	"resume-builder/internal/suggest/openai"
)

const redisPingTimeout = 3 * time.Second

// App holds shared dependencies and the HTTP router.
type App struct {
	Config           config.Config
	Router           *gin.Engine
	DB               *sql.DB
	Redis            redis.UniversalClient
	Store            object.Store
	DocumentsRepo    documents.Repo
	DocumentsService *documents.Service
	SuggestService   *suggest.Service
	Sessions         *sessions.Manager
	SessionsHandler  *sessions.Handler
}

// Build wires repositories, services and routes for cfg.
func Build(cfg config.Config) (*App, error) {
	if strings.TrimSpace(cfg.Env) == "" {
		cfg.Env = "dev"
	}
	if strings.TrimSpace(cfg.DocumentStore) == "" {
		cfg.DocumentStore = config.StoreMemory
	}
	ctx := context.Background()

	app := &App{Config: cfg}
	repo, err := buildRepo(ctx, app)
	if err != nil {
		return nil, err
	}

	client, err := buildSuggestClient(cfg)
	if err != nil {
		return nil, err
	}

	app.DocumentsRepo = repo
	app.DocumentsService = &documents.Service{Repo: repo}
	app.SuggestService = &suggest.Service{Client: client}
	app.Sessions = sessions.NewManager(app.DocumentsService, sessions.Options{
		Delay:         cfg.SaveDebounce,
		FixedIdentity: app.Config.DocumentStore == config.StoreLocal,
	})
	app.SessionsHandler = sessions.NewHandler(app.Sessions, app.SuggestService)
	app.Router = server.NewRouter(server.RouterDeps{
		Config:   app.Config,
		Sessions: app.SessionsHandler,
	})

	telemetry.Info("bootstrap.ready", map[string]any{
		"env":            app.Config.Env,
		"document_store": app.Config.DocumentStore,
		"save_debounce":  cfg.SaveDebounce.String(),
	})
	return app, nil
}

// Close stops sessions and releases connections.
func (a *App) Close() error {
	if a.Sessions != nil {
		a.Sessions.Close()
	}
	var errs []error
	if a.Redis != nil {
		errs = append(errs, a.Redis.Close())
	}
	if a.DB != nil {
		errs = append(errs, a.DB.Close())
	}
	return errors.Join(errs...)
}

// buildRepo selects the document backend. Dev-like environments fall back
// to memory when Postgres or Redis is unreachable; app.Config records the
// backend actually in use.
func buildRepo(ctx context.Context, app *App) (documents.Repo, error) {
	cfg := app.Config
	switch cfg.DocumentStore {
	case config.StorePostgres:
		sqlDB, err := buildDB(ctx, cfg)
		if err != nil {
			return nil, err
		}
		if sqlDB == nil {
			app.Config.DocumentStore = config.StoreMemory
			return documents.NewMemoryRepo(), nil
		}
		app.DB = sqlDB
		return &documents.PGRepo{DB: sqlDB}, nil
	case config.StoreRedis:
		client, err := buildRedis(ctx, cfg)
		if err != nil {
			return nil, err
		}
		if client == nil {
			app.Config.DocumentStore = config.StoreMemory
			return documents.NewMemoryRepo(), nil
		}
		app.Redis = client
		return &documents.RedisRepo{Client: client, Prefix: cfg.RedisPrefix}, nil
	case config.StoreObject:
		store, err := buildStore(ctx, cfg)
		if err != nil {
			return nil, err
		}
		app.Store = store
		return &documents.ObjectRepo{Store: store}, nil
	case config.StoreLocal:
		store := localstore.New(cfg.LocalStoreDir)
		app.Store = store
		return &documents.LocalRepo{Store: store}, nil
	case config.StoreMemory:
		return documents.NewMemoryRepo(), nil
	default:
		return nil, fmt.Errorf("unknown DOCUMENT_STORE %q", cfg.DocumentStore)
	}
}

func buildDB(ctx context.Context, cfg config.Config) (*sql.DB, error) {
	if strings.TrimSpace(cfg.DatabaseURL) == "" {
		if cfg.IsDevLike() {
			telemetry.Warn("bootstrap.fallback", map[string]any{"reason": "DATABASE_URL empty", "store": config.StoreMemory})
			return nil, nil
		}
		return nil, fmt.Errorf("DATABASE_URL is required")
	}

	sqlDB, err := db.Connect(ctx, cfg.DatabaseURL, db.OptionsFromEnv(db.DefaultServerOptions()))
	if err == nil {
		if err = db.RunMigrations(ctx, sqlDB); err != nil {
			_ = sqlDB.Close()
		}
	}
	if err != nil {
		if cfg.IsDevLike() {
			telemetry.Warn("bootstrap.fallback", map[string]any{"reason": "database unavailable", "error": err, "store": config.StoreMemory})
			return nil, nil
		}
		return nil, err
	}
	return sqlDB, nil
}

func buildRedis(ctx context.Context, cfg config.Config) (redis.UniversalClient, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})
	pingCtx, cancel := context.WithTimeout(ctx, redisPingTimeout)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		if cfg.IsDevLike() {
			telemetry.Warn("bootstrap.fallback", map[string]any{"reason": "redis unavailable", "error": err, "store": config.StoreMemory})
			return nil, nil
		}
		return nil, fmt.Errorf("redis ping: %w", err)
	}
	return client, nil
}

func buildStore(ctx context.Context, cfg config.Config) (object.Store, error) {
	switch cfg.ObjectStoreType {
	case "s3":
		if strings.TrimSpace(cfg.S3Bucket) == "" {
			return nil, fmt.Errorf("OBJECT_STORE=s3 requires S3_BUCKET")
		}
		return s3store.New(ctx, cfg.AWSRegion, cfg.S3Bucket, cfg.S3Prefix, cfg.SSEKMSKeyID)
	default:
		return localstore.New(cfg.LocalStoreDir), nil
	}
}

func buildSuggestClient(cfg config.Config) (suggest.Client, error) {
	switch cfg.LLMProvider {
	case "":
		return suggest.PlaceholderClient{}, nil
	case "openai":
		client, err := openai.NewClient(cfg.OpenAIAPIKey, cfg.LLMModel)
		if err != nil {
			return nil, err
		}
		return client, nil
	default:
		return nil, fmt.Errorf("unknown LLM_PROVIDER %q", cfg.LLMProvider)
	}
}
