package app

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"rl_academy_backend/internal/config"
	"rl_academy_backend/internal/controller"
	"rl_academy_backend/internal/repository"
	"rl_academy_backend/internal/service"
	"rl_academy_backend/pkg/database"
	"rl_academy_backend/pkg/logger"
	"rl_academy_backend/pkg/monitoring"
	"rl_academy_backend/pkg/security"
	"rl_academy_backend/pkg/tracing"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type App struct {
	Config          *config.Config
	Router          *gin.Engine
	DB              *gorm.DB
	Redis           *redis.Client
	configCallbacks []func(*config.Config)
}

type repositories struct {
	user       *repository.UserRepository
	curriculum *repository.CurriculumRepository
	progress   *repository.ProgressRepository
	asset      *repository.AssetRepository
}

type services struct {
	auth       *service.AuthService
	storage    *service.StorageService
	content    *service.ContentService
	evaluation *service.EvaluationService
	progress   *service.ProgressService
	curriculum *service.CurriculumService
}

type controllers struct {
	auth       *controller.AuthController
	evaluation *controller.EvaluationController
	progress   *controller.ProgressController
	curriculum *controller.CurriculumController
	content    *controller.ContentController
	health     *controller.HealthController
}

func (a *App) RegisterConfigCallback(callback func(*config.Config)) {
	a.configCallbacks = append(a.configCallbacks, callback)
}

func (a *App) Callbacks() []func(*config.Config) {
	return a.configCallbacks
}

func (a *App) initRepositories(db *gorm.DB, rdb *redis.Client) *repositories {
	return &repositories{
		user:       repository.NewUserRepository(db),
		curriculum: repository.NewCurriculumRepository(db),
		progress:   repository.NewProgressRepository(rdb),
		asset:      repository.NewAssetRepository(db),
	}
}

func (a *App) initServices(repos *repositories, cfg *config.Config) *services {
	s := &services{}

	s.storage = service.NewStorageService(cfg)
	s.auth = service.NewAuthService(repos.user, cfg)
	s.content = service.NewContentService(repos.asset, repos.curriculum, s.storage, cfg)

	evaluator := service.NewHeuristicEvaluator(nil)
	s.evaluation = service.NewEvaluationService(service.NewAIService(cfg.AI), evaluator, cfg.AI.TimeoutSeconds)

	s.progress = service.NewProgressService(repos.progress, repos.curriculum)
	s.curriculum = service.NewCurriculumService(repos.curriculum, s.evaluation, s.progress)

	return s
}

func (a *App) initControllers(s *services, db *gorm.DB, rdb *redis.Client) *controllers {
	return &controllers{
		auth:       controller.NewAuthController(s.auth),
		evaluation: controller.NewEvaluationController(s.evaluation),
		progress:   controller.NewProgressController(s.progress),
		curriculum: controller.NewCurriculumController(s.curriculum),
		content:    controller.NewContentController(s.content),
		health:     controller.NewHealthController(db, rdb),
	}
}

func (a *App) setupMiddlewares(router *gin.Engine, cfg *config.Config) {
	router.Use(security.CORS(cfg.CORS.AllowedOrigins))
	router.Use(security.Secure())

	maxRequests := cfg.RateLimit.MaxRequests
	if maxRequests <= 0 {
		maxRequests = 1000
	}
	window := time.Duration(cfg.RateLimit.WindowMinutes) * time.Minute
	if window <= 0 {
		window = time.Minute
	}
	router.Use(security.RateLimiter(maxRequests, window))

	if cfg.Tracing.Enabled {
		router.Use(tracing.GinMiddleware())
	}

	router.Use(monitoring.MetricsMiddleware())
}

func NewApp(cfg *config.Config) *App {
	logger.InitLogger(cfg)

	logger.Log.Info("Logger initialized successfully")

	db, err := database.InitDB(&cfg.Database)
	if err != nil {
		logger.Log.Fatal("Failed to initialize database", zap.Error(err))
	}

	rdb, err := database.InitRedis(&cfg.Redis)
	if err != nil {
		logger.Log.Fatal("Failed to initialize redis", zap.Error(err))
	}

	app := &App{
		Config: cfg,
		DB:     db,
		Redis:  rdb,
	}

	repos := app.initRepositories(db, rdb)
	services := app.initServices(repos, cfg)
	controllers := app.initControllers(services, db, rdb)

	// 热更新只覆盖安全的运行期参数
	app.RegisterConfigCallback(func(newCfg *config.Config) {
		services.evaluation.Timeout = newCfg.AI.TimeoutSeconds
		logger.Log.Info("配置已热更新", zap.Duration("ai_timeout", newCfg.AI.TimeoutSeconds))
	})

	monitoring.Init()

	if cfg.Server.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.Default()
	app.Router = router

	app.setupMiddlewares(router, cfg)

	if cfg.Tracing.Enabled {
		if _, err := tracing.InitTracer("rl-academy", cfg.Tracing.CollectorEndpoint); err != nil {
			logger.Log.Fatal("Failed to initialize tracing", zap.Error(err))
		}
	}

	app.registerRoutes(router, controllers, repos, cfg)

	if cfg.Storage.Type == "local" {
		router.Static("/uploads", cfg.Storage.LocalPath)
	}

	return app
}

func (a *App) Run() {
	srv := &http.Server{
		Addr:    ":" + a.Config.Server.Port,
		Handler: a.Router,
	}

	go func() {
		log.Printf("Server running on port %s", a.Config.Server.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen: %s\n", err)
		}
	}()

	// 等待中断信号优雅地关闭服务器
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Server forced to shutdown:", err)
	}

	log.Println("Server exiting")
}
