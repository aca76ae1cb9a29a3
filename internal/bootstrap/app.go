package bootstrap

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"strings"

	"github.com/gin-gonic/gin"

	"service-advisor/internal/catalog"
	"service-advisor/internal/llm"
	"service-advisor/internal/llm/gemini"
	"service-advisor/internal/recommend"
	"service-advisor/internal/services/health"
	"service-advisor/internal/shared/config"
	"service-advisor/internal/shared/server"
	"service-advisor/internal/shared/storage/db"
	"service-advisor/internal/shared/storage/object"
	localstore "service-advisor/internal/shared/storage/object/local"
	s3store "service-advisor/internal/shared/storage/object/s3"
	"service-advisor/internal/shared/telemetry"
)

const memoryOutcomeCapacity = 1000

// App holds shared dependencies.
type App struct {
	Config   config.Config
	Router   *gin.Engine
	DB       *sql.DB
	Store    object.ObjectStore
	Catalog  *catalog.Source
	LLM      llm.Client
	Outcomes recommend.OutcomeRepo
	Service  *recommend.Service
	Handler  *recommend.Handler
}

// Build prepares shared dependencies and the router. A missing credential is
// not fatal: each request then reports a ConfigurationError.
func Build(ctx context.Context, cfg config.Config) (*App, error) {
	if strings.TrimSpace(cfg.Env) == "" {
		cfg.Env = "dev"
	}

	app, err := BuildService(ctx, cfg, db.DefaultServerOptions())
	if err != nil {
		return nil, err
	}
	app.Handler = recommend.NewHandler(app.Service)
	var pinger health.Pinger
	if app.DB != nil {
		pinger = app.DB
	}
	app.Router = server.NewRouter(app.Config, app.Handler, health.NewService(pinger))
	return app, nil
}

// BuildService prepares everything but HTTP. Used directly by the CLI.
func BuildService(ctx context.Context, cfg config.Config, dbOpts db.Options) (*App, error) {
	store, err := buildStore(ctx, cfg)
	if err != nil {
		return nil, err
	}

	sqlDB, err := buildDB(ctx, cfg, dbOpts)
	if err != nil {
		return nil, err
	}

	client, err := buildLLM(cfg)
	if err != nil {
		return nil, err
	}

	var outcomes recommend.OutcomeRepo
	if sqlDB != nil {
		outcomes = &recommend.PGRepo{DB: sqlDB}
	} else {
		outcomes = recommend.NewMemoryRepo(memoryOutcomeCapacity)
	}

	source := catalog.NewSource(store, cfg.TransactionsKey, cfg.ServicesKey)
	svc := &recommend.Service{
		LLM:            client,
		Data:           source,
		Prompts:        llm.NewPromptBuilder(cfg.Locale),
		Outcomes:       outcomes,
		Model:          cfg.GeminiModel,
		MaxQueryLength: cfg.MaxQueryLength,
	}

	return &App{
		Config:   cfg,
		DB:       sqlDB,
		Store:    store,
		Catalog:  source,
		LLM:      client,
		Outcomes: outcomes,
		Service:  svc,
	}, nil
}

// Close releases the database handle if one was opened.
func (a *App) Close() error {
	if a == nil || a.DB == nil {
		return nil
	}
	return a.DB.Close()
}

func buildLLM(cfg config.Config) (llm.Client, error) {
	if !cfg.HasCredential() {
		telemetry.Warn("config.credential_missing", map[string]any{
			"detail": "GEMINI_API_KEY is not set; requests will fail with ConfigurationError",
		})
		return llm.PlaceholderClient{}, nil
	}
	client, err := gemini.NewClient(cfg.GeminiAPIKey, cfg.GeminiModel, cfg.GeminiBaseURL, cfg.GeminiTimeout)
	if err != nil {
		return nil, fmt.Errorf("build gemini client: %w", err)
	}
	return client, nil
}

func buildDB(ctx context.Context, cfg config.Config, opts db.Options) (*sql.DB, error) {
	if strings.TrimSpace(cfg.DatabaseURL) == "" {
		log.Printf("bootstrap: DATABASE_URL empty; recording outcomes in memory")
		return nil, nil
	}

	sqlDB, err := db.Connect(ctx, cfg.DatabaseURL, db.OptionsFromEnv(opts))
	if err != nil {
		if isDevLike(cfg.Env) {
			log.Printf("bootstrap: database connect failed; recording outcomes in memory: %v", err)
			return nil, nil
		}
		return nil, err
	}
	if err := db.RunMigrations(ctx, sqlDB); err != nil {
		_ = sqlDB.Close()
		if isDevLike(cfg.Env) {
			log.Printf("bootstrap: migrations failed; recording outcomes in memory: %v", err)
			return nil, nil
		}
		return nil, fmt.Errorf("run migrations: %w", err)
	}
	return sqlDB, nil
}

func buildStore(ctx context.Context, cfg config.Config) (object.ObjectStore, error) {
	switch cfg.DataStoreType {
	case "s3":
		if strings.TrimSpace(cfg.S3Bucket) == "" {
			return nil, fmt.Errorf("DATA_STORE=s3 requires S3_BUCKET")
		}
		return s3store.New(ctx, cfg.AWSRegion, cfg.S3Bucket, cfg.S3Prefix)
	default:
		return localstore.New(cfg.DataDir), nil
	}
}

func isDevLike(env string) bool {
	switch strings.ToLower(strings.TrimSpace(env)) {
	case "dev", "local", "test":
		return true
	default:
		return false
	}
}
