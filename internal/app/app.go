package app

import (
	"fmt"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/badwolf/storefront-backend/internal/data/cartstore"
	"github.com/badwolf/storefront-backend/internal/data/db"
	"github.com/badwolf/storefront-backend/internal/platform/logger"
)

type App struct {
	Log      *logger.Logger
	DB       *gorm.DB
	Router   *gin.Engine
	Cfg      Config
	Repos    Repos
	Services Services

	pg *db.PostgresService
}

// New builds the whole dependency graph once at startup: config, logger,
// database, cart store, repos, services, handlers, router. Nothing is
// lazily initialized after this returns.
func New() (*App, error) {
	cfg := LoadConfig()

	log, err := logger.New(cfg.LogMode)
	if err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}

	pg, err := db.NewPostgresService(cfg.Postgres, log)
	if err != nil {
		log.Sync()
		return nil, fmt.Errorf("init postgres: %w", err)
	}
	if err := pg.AutoMigrateAll(); err != nil {
		log.Sync()
		return nil, fmt.Errorf("postgres automigrate: %w", err)
	}
	theDB := pg.DB()
	if err := theDB.AutoMigrate(&cartstore.CartRecord{}); err != nil {
		log.Sync()
		return nil, fmt.Errorf("carts automigrate: %w", err)
	}

	store, err := wireCartStore(theDB, cfg, log)
	if err != nil {
		log.Sync()
		return nil, fmt.Errorf("init cart store: %w", err)
	}

	reposet := wireRepos(theDB, log)
	serviceset := wireServices(theDB, log, cfg, reposet, store)
	handlerset := wireHandlers(log, serviceset)
	router := wireRouter(log, handlerset)

	return &App{
		Log:      log,
		DB:       theDB,
		Router:   router,
		Cfg:      cfg,
		Repos:    reposet,
		Services: serviceset,
		pg:       pg,
	}, nil
}

func (a *App) Run() error {
	if a == nil || a.Router == nil {
		return fmt.Errorf("app not initialized")
	}
	a.Log.Info("Server listening", "port", a.Cfg.Port)
	return a.Router.Run(":" + a.Cfg.Port)
}

func (a *App) Close() {
	if a == nil {
		return
	}
	if a.pg != nil {
		if err := a.pg.Close(); err != nil {
			a.Log.Warn("Closing postgres failed", "error", err)
		}
	}
	if a.Log != nil {
		a.Log.Sync()
	}
}
