package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/jmoiron/sqlx"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/noah-isme/tutoring-site/internal/handler"
	"github.com/noah-isme/tutoring-site/internal/repository"
	"github.com/noah-isme/tutoring-site/internal/service"
	"github.com/noah-isme/tutoring-site/internal/session"
	"github.com/noah-isme/tutoring-site/pkg/cache"
	"github.com/noah-isme/tutoring-site/pkg/config"
	"github.com/noah-isme/tutoring-site/pkg/database"
	"github.com/noah-isme/tutoring-site/pkg/mail"
	"github.com/noah-isme/tutoring-site/pkg/ratelimit"
	"github.com/noah-isme/tutoring-site/pkg/storage"
)

const shutdownTimeout = 10 * time.Second

// App owns the long-lived resources of a running site.
type App struct {
	cfg    *config.Config
	logger *zap.Logger
	db     *sqlx.DB
	redis  *redis.Client
	server *http.Server
}

// NewApp connects to the backing stores and wires every component.
func NewApp(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*App, error) {
	db, err := database.NewPostgres(ctx, cfg.Database)
	if err != nil {
		return nil, fmt.Errorf("connect database: %w", err)
	}
	app := &App{cfg: cfg, logger: logger, db: db}

	if cfg.Redis.Enabled || cfg.Session.Store == config.StoreRedis || cfg.RateLimit.Store == config.StoreRedis {
		client, err := cache.NewRedis(ctx, cfg.Redis)
		if err != nil {
			app.Close()
			return nil, fmt.Errorf("connect redis: %w", err)
		}
		app.redis = client
	}

	router, err := app.router()
	if err != nil {
		app.Close()
		return nil, err
	}
	app.server = &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}
	return app, nil
}

func (a *App) router() (http.Handler, error) {
	cfg := a.cfg
	validate := validator.New()
	metrics := service.NewMetricsService()

	uploads, err := storage.NewLocalStorage(cfg.Upload.Dir)
	if err != nil {
		return nil, err
	}
	store, err := session.NewStore(cfg.Session, a.redis)
	if err != nil {
		return nil, err
	}
	limiter, err := newLimiter(cfg.RateLimit, a.redis)
	if err != nil {
		return nil, err
	}

	userRepo := repository.NewUserRepository(a.db)
	newsRepo := repository.NewNewsRepository(a.db)
	studentRepo := repository.NewStudentRepository(a.db)
	lessonRepo := repository.NewLessonRepository(a.db)
	cacheRepo := repository.NewCacheRepository(a.redis, a.logger)

	cacheSvc := service.NewCacheService(cacheRepo, metrics, cfg.Redis.CacheTTL, a.logger, cfg.Redis.Enabled && a.redis != nil)
	authSvc := service.NewAuthService(userRepo, validate, a.logger, metrics, service.AuthConfig{MinPasswordLength: cfg.Auth.MinPasswordLength})
	userSvc := service.NewUserService(userRepo, validate, a.logger)
	uploadSvc := service.NewUploadService(uploads, service.UploadConfig{
		MaxSizeBytes:      cfg.Upload.MaxSizeBytes,
		AllowedExtensions: cfg.Upload.AllowedExtensions,
	}, a.logger, metrics)
	newsSvc := service.NewNewsService(newsRepo, uploadSvc, cacheSvc, validate, a.logger)
	contactSvc := service.NewContactService(mail.NewTransport(cfg.Mail, a.logger), cfg.Mail, validate, a.logger, metrics)
	lessonSvc := service.NewLessonService(lessonRepo, a.logger)
	studentSvc := service.NewStudentService(studentRepo, userRepo, validate, a.logger)

	manager := session.NewManager(cfg.Session)

	return NewRouter(Options{
		Config:       cfg,
		Logger:       a.logger,
		Metrics:      metrics,
		Sessions:     manager,
		SessionStore: store,
		Users:        userRepo,
		Limiter:      limiter,
		UploadDir:    uploads.Dir(),
		Handlers: Handlers{
			Pages:     handler.NewPageHandler(newsSvc, a.logger),
			Auth:      handler.NewAuthHandler(authSvc, manager, a.logger),
			Dashboard: handler.NewDashboardHandler(studentSvc, a.logger),
			News:      handler.NewNewsHandler(newsSvc, cfg.Upload.MaxSizeBytes, a.logger),
			Users:     handler.NewUserHandler(userSvc, a.logger),
			Students:  handler.NewStudentHandler(studentSvc, a.logger),
			Contact:   handler.NewContactHandler(contactSvc, a.logger),
			Lessons:   handler.NewLessonHandler(lessonSvc, a.logger),
			API:       handler.NewAPIHandler(newsSvc, lessonSvc),
			Metrics:   handler.NewMetricsHandler(metrics, a.db),
		},
	})
}

func newLimiter(cfg config.RateLimitConfig, client *redis.Client) (ratelimit.Limiter, error) {
	switch cfg.Store {
	case config.StoreRedis:
		if client == nil {
			return nil, errors.New("redis rate limit store requires a redis client")
		}
		return ratelimit.NewRedisLimiter(client), nil
	case config.StoreMemory, "":
		return ratelimit.NewMemoryLimiter(), nil
	default:
		return nil, fmt.Errorf("unknown rate limit store %q", cfg.Store)
	}
}

// Run serves until ctx is cancelled, then drains in-flight requests.
func (a *App) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		a.logger.Info("server starting", zap.String("addr", a.server.Addr), zap.String("env", a.cfg.Env))
		if err := a.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	a.logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := a.server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}

// Close releases the database and Redis connections.
func (a *App) Close() {
	if a.redis != nil {
		if err := a.redis.Close(); err != nil {
			a.logger.Warn("failed to close redis", zap.Error(err))
		}
	}
	if a.db != nil {
		if err := a.db.Close(); err != nil {
			a.logger.Warn("failed to close database", zap.Error(err))
		}
	}
}
