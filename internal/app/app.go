package app

import (
	"context"
	"net/http"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"github.com/jtdaniels/QA3/internal/handler"
	"github.com/jtdaniels/QA3/internal/logger"
	"github.com/jtdaniels/QA3/internal/quiz"
	"github.com/jtdaniels/QA3/internal/service"
	"github.com/jtdaniels/QA3/internal/storage"
	"github.com/jtdaniels/QA3/internal/ws"
)

// defaultAdminPassword seeds the admin record on first run. Operators
// are expected to change it through /auth/password.
const defaultAdminPassword = "password"

type App struct {
	cfg Config
	log *zap.Logger
	db  *pgxpool.Pool
	srv *http.Server
}

func New(cfg Config) (*App, error) {
	l, err := logger.New(logger.Config{Level: cfg.LogLevel, File: cfg.LogFile})
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	db, err := pgxpool.New(ctx, cfg.DatabaseURL)
	if err != nil {
		_ = l.Sync()
		return nil, err
	}

	store := storage.NewPostgresStore(db)
	if err := store.InitSchema(ctx); err != nil {
		db.Close()
		_ = l.Sync()
		return nil, err
	}
	if err := store.EnsureAdmin(ctx, service.Digest(defaultAdminPassword)); err != nil {
		db.Close()
		_ = l.Sync()
		return nil, err
	}

	hub := ws.NewHub(l)

	ctrl := quiz.NewController(func(st quiz.State) {
		hub.Publish("nav_state", map[string]string{"state": string(st)})
	})

	authSvc := service.NewAuthService(store, cfg.JWTSecret)
	adminSvc := service.NewAdminService(store)
	quizSvc := service.NewQuizService(store, ctrl, hub, service.Config{
		FeedbackPause: cfg.FeedbackPause,
	})

	mux := http.NewServeMux()
	handler.RegisterHandlers(mux, quizSvc, authSvc, ctrl, hub, l)
	handler.RegisterAdminHandlers(mux, adminSvc, authSvc, l)

	srv := &http.Server{
		Addr:    cfg.HTTPAddr,
		Handler: mux,
	}

	return &App{cfg: cfg, log: l, db: db, srv: srv}, nil
}

func (a *App) Run() error {
	a.log.Info("server started",
		zap.String("addr", a.cfg.HTTPAddr),
		zap.String("log_level", a.cfg.LogLevel),
		zap.String("log_file", a.cfg.LogFile),
	)
	return a.srv.ListenAndServe()
}

func (a *App) Close() {
	if a.db != nil {
		a.db.Close()
	}
	if a.log != nil {
		_ = a.log.Sync()
	}
}
