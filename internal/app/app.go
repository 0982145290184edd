package app

import (
	"coder_edu_catalog/internal/catalog"
	"coder_edu_catalog/internal/config"
	"coder_edu_catalog/internal/content"
	"coder_edu_catalog/internal/controller"
	"coder_edu_catalog/internal/repository"
	"coder_edu_catalog/internal/service"
	"coder_edu_catalog/pkg/contentwatcher"
	"coder_edu_catalog/pkg/database"
	"coder_edu_catalog/pkg/logger"
	"coder_edu_catalog/pkg/monitoring"
	"coder_edu_catalog/pkg/security"
	"coder_edu_catalog/pkg/tracing"
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type App struct {
	Config  *config.Config
	Router  *gin.Engine
	DB      *gorm.DB
	Redis   *redis.Client
	Catalog *service.CatalogService

	limiter  *security.Limiter
	shutdown []func(context.Context) error
}

type repositories struct {
	catalog *repository.CatalogRepository
}

type services struct {
	catalog *service.CatalogService
}

type controllers struct {
	catalog      *controller.CatalogController
	adminCatalog *controller.AdminCatalogController
	health       *controller.HealthController
}

func (a *App) initRepositories(db *gorm.DB) *repositories {
	return &repositories{
		catalog: repository.NewCatalogRepository(db),
	}
}

func (a *App) initServices(repos *repositories, cfg *config.Config, rdb *redis.Client) (*services, error) {
	src, err := content.NewSource(&cfg.Content)
	if err != nil {
		return nil, err
	}
	loader := content.NewLoader(src, catalog.NamingPolicy(cfg.Content.NamingPolicy), logger.Log.Named("content"))

	var cache service.LessonCache
	if rdb != nil {
		cache = service.NewRedisLessonCache(rdb, time.Duration(cfg.Redis.TTL)*time.Minute)
	}

	s := &services{}
	s.catalog = service.NewCatalogService(loader, repos.catalog, cache, logger.Log.Named("catalog"))
	s.catalog.PublishOnLoad = cfg.Content.PublishOnLoad
	return s, nil
}

func (a *App) initControllers(s *services, db *gorm.DB) *controllers {
	return &controllers{
		catalog:      controller.NewCatalogController(s.catalog),
		adminCatalog: controller.NewAdminCatalogController(s.catalog),
		health:       controller.NewHealthController(db, s.catalog),
	}
}

func (a *App) setupMiddlewares(router *gin.Engine, cfg *config.Config) {
	router.Use(security.CORS(cfg.CORS.AllowedOrigins))
	router.Use(security.Secure())
	a.limiter = security.NewLimiter(cfg.RateLimit.MaxRequests, time.Duration(cfg.RateLimit.WindowMinutes)*time.Minute)
	router.Use(a.limiter.Middleware())

	// 分布式追踪中间件
	if cfg.Tracing.Enabled {
		router.Use(tracing.GinMiddleware())
	}

	router.Use(monitoring.MetricsMiddleware())
}

// startBackgroundTasks 内容目录热加载和定时重新加载
func (a *App) startBackgroundTasks(ctx context.Context, cfg *config.Config) {
	go a.limiter.Cleanup(ctx)

	reload := func(ctx context.Context) {
		if _, err := a.Catalog.Reload(ctx); err != nil {
			logger.Log.Warn("background reload kept previous catalog", zap.Error(err))
		}
	}

	if cfg.Content.Watch && cfg.Content.Source == config.ContentSourceDir {
		w, err := contentwatcher.New(cfg.Content.Root, contentwatcher.DefaultDebounce, reload, logger.Log.Named("watcher"))
		if err != nil {
			logger.Log.Error("Failed to watch content root", zap.String("root", cfg.Content.Root), zap.Error(err))
		} else {
			go func() {
				if err := w.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
					logger.Log.Error("content watcher stopped", zap.Error(err))
				}
			}()
		}
	}

	if cfg.Content.ReloadInterval > 0 {
		go func() {
			ticker := time.NewTicker(time.Duration(cfg.Content.ReloadInterval) * time.Minute)
			defer ticker.Stop()
			for {
				select {
				case <-ctx.Done():
					return
				case <-ticker.C:
					reload(ctx)
				}
			}
		}()
	}
}

func NewApp(cfg *config.Config) (*App, error) {
	logger.InitLogger(cfg)
	logger.Log.Info("Logger initialized successfully")

	db, err := database.InitDB(&cfg.Database, cfg.Server.Mode)
	if err != nil {
		return nil, err
	}

	// release 模式下只有显式要求时才迁移
	if cfg.Server.Mode != gin.ReleaseMode || cfg.ForceMigrate {
		if err := database.AutoMigrate(db); err != nil {
			return nil, err
		}
		logger.Log.Info("Database migrated")
	}

	app := &App{
		Config: cfg,
		DB:     db,
	}
	if cfg.MigrateOnly {
		return app, nil
	}

	if cfg.Redis.Enabled {
		rdb, err := database.InitRedis(&cfg.Redis)
		if err != nil {
			return nil, err
		}
		app.Redis = rdb
		app.shutdown = append(app.shutdown, func(context.Context) error { return rdb.Close() })
	}

	repos := app.initRepositories(db)
	services, err := app.initServices(repos, cfg, app.Redis)
	if err != nil {
		return nil, err
	}
	app.Catalog = services.catalog
	controllers := app.initControllers(services, db)

	// 监控初始化
	monitoring.Init()

	if cfg.Tracing.Enabled {
		tp, err := tracing.InitTracer("coder-edu-catalog", cfg.Tracing.CollectorEndpoint)
		if err != nil {
			return nil, err
		}
		app.shutdown = append(app.shutdown, tp.Shutdown)
	}

	gin.SetMode(cfg.Server.Mode)
	router := gin.New()
	router.Use(gin.Recovery())
	app.Router = router

	app.setupMiddlewares(router, cfg)
	app.registerRoutes(router, controllers, cfg)

	return app, nil
}

func (a *App) Run() error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := a.Catalog.Bootstrap(ctx); err != nil {
		return err
	}
	a.startBackgroundTasks(ctx, a.Config)

	srv := &http.Server{
		Addr:    ":" + a.Config.Server.Port,
		Handler: a.Router,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Log.Info("Server running", zap.String("port", a.Config.Server.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	// 等待中断信号优雅地关闭服务器（设置5秒的超时时间）
	select {
	case <-ctx.Done():
	case err := <-errCh:
		return err
	}
	logger.Log.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	for _, fn := range a.shutdown {
		if err := fn(shutdownCtx); err != nil {
			logger.Log.Error("shutdown hook failed", zap.Error(err))
		}
	}

	logger.Log.Info("Server exiting")
	return nil
}
