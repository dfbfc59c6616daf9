package app

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"invest_learn_backend/internal/config"
	"invest_learn_backend/internal/controller"
	"invest_learn_backend/internal/repository"
	"invest_learn_backend/internal/service"
	"invest_learn_backend/pkg/configwatcher"
	"invest_learn_backend/pkg/database"
	"invest_learn_backend/pkg/logger"
	"invest_learn_backend/pkg/monitoring"
	"invest_learn_backend/pkg/security"
	"invest_learn_backend/pkg/tracing"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const serviceName = "invest-learn-backend"

type App struct {
	Config          *config.Config
	ConfigDir       string
	Router          *gin.Engine
	DB              *gorm.DB
	Redis           *redis.Client
	services        *services
	limiter         *security.RateLimiter
	tracer          *sdktrace.TracerProvider
	configCallbacks []func(*config.Config)
}

type repositories struct {
	user          *repository.UserRepository
	sessionResult *repository.SessionResultRepository
	redemption    *repository.RedemptionRepository
}

type services struct {
	ai           *service.AIService
	account      *service.AccountService
	generation   *service.GenerationService
	questionBank *service.QuestionBankService
	learning     *service.LearningService
	market       *service.MarketService
	profile      *service.ProfileService
	redeem       *service.RedeemService
}

type controllers struct {
	health  *controller.HealthController
	user    *controller.UserController
	module  *controller.ModuleController
	session *controller.SessionController
	market  *controller.MarketController
	redeem  *controller.RedeemController
}

func (a *App) RegisterConfigCallback(callback func(*config.Config)) {
	a.configCallbacks = append(a.configCallbacks, callback)
}

func (a *App) initRepositories(db *gorm.DB, rdb *redis.Client, cfg *config.Config) *repositories {
	user := repository.NewUserRepository(db, rdb, cfg.Account.LeaderboardTTL)
	return &repositories{
		user:          user,
		sessionResult: repository.NewSessionResultRepository(db),
		redemption:    repository.NewRedemptionRepository(db, user),
	}
}

func (a *App) initServices(repos *repositories, cfg *config.Config) *services {
	s := &services{}

	s.ai = service.NewAIService(cfg.AI)
	if !s.ai.Configured() {
		logger.Log.Warn("AI service not configured, sessions will fail and questions use the built-in bank")
	}
	s.account = service.NewAccountService(repos.user, cfg.Account.StartingCoins, cfg.Account.LeaderboardLimit)
	s.generation = service.NewGenerationService(s.ai)
	s.questionBank = service.NewQuestionBankService(s.ai, 10*time.Minute)
	s.learning = service.NewLearningService(s.account, repos.sessionResult, s.generation, cfg.Session)
	s.market = service.NewMarketService(cfg.Market)
	s.profile = service.NewProfileService(s.account, repos.sessionResult, repos.redemption)
	s.redeem = service.NewRedeemService(repos.redemption)

	return s
}

func (a *App) initControllers(s *services, db *gorm.DB, rdb *redis.Client) *controllers {
	return &controllers{
		health:  controller.NewHealthController(db, rdb),
		user:    controller.NewUserController(s.account, s.profile),
		module:  controller.NewModuleController(s.questionBank, s.learning),
		session: controller.NewSessionController(s.learning),
		market:  controller.NewMarketController(s.market),
		redeem:  controller.NewRedeemController(s.redeem),
	}
}

func (a *App) setupMiddlewares(router *gin.Engine, cfg *config.Config) {
	router.Use(security.CORS(cfg.CORS.AllowedOrigins))
	router.Use(security.Secure())

	a.limiter = security.NewRateLimiter(cfg.RateLimit.MaxRequests, time.Duration(cfg.RateLimit.WindowMinutes)*time.Minute)
	router.Use(a.limiter.Middleware())

	// 分布式追踪中间件
	if cfg.Tracing.Enabled {
		router.Use(tracing.GinMiddleware())
	}

	router.Use(monitoring.MetricsMiddleware())
}

// registerConfigCallbacks 可热更新的配置项：看板推进间隔、模块费用、会话空闲时间
func (a *App) registerConfigCallbacks() {
	a.RegisterConfigCallback(func(cfg *config.Config) {
		a.services.market.SetInterval(cfg.Market.TickInterval)
	})
	a.RegisterConfigCallback(func(cfg *config.Config) {
		a.services.learning.SetModuleCost(cfg.Session.ModuleCost)
		a.services.learning.SetIdleTTL(cfg.Session.IdleTTL)
	})
}

func (a *App) applyConfig(cfg *config.Config) {
	for _, cb := range a.configCallbacks {
		cb(cfg)
	}
	a.Config = cfg
}

// Build 用已建立的连接组装应用，rdb 可以为 nil
func Build(cfg *config.Config, db *gorm.DB, rdb *redis.Client) *App {
	app := &App{
		Config:    cfg,
		ConfigDir: "configs",
		DB:        db,
		Redis:     rdb,
	}

	repos := app.initRepositories(db, rdb, cfg)
	app.services = app.initServices(repos, cfg)
	controllers := app.initControllers(app.services, db, rdb)

	// 监控初始化
	monitoring.Init()

	router := gin.New()
	router.Use(gin.Logger(), gin.Recovery())
	app.Router = router

	app.setupMiddlewares(router, cfg)
	app.registerRoutes(router, controllers, cfg)
	app.registerConfigCallbacks()

	return app
}

func NewApp(cfg *config.Config) *App {
	logger.InitLogger(cfg)
	logger.Log.Info("Logger initialized successfully")

	gin.SetMode(cfg.Server.Mode)

	db, err := database.InitDB(cfg)
	if err != nil {
		logger.Log.Fatal("Failed to initialize database", zap.Error(err))
	}

	rdb, err := database.InitRedis(&cfg.Redis)
	if err != nil {
		logger.Log.Fatal("Failed to initialize redis", zap.Error(err))
	}

	app := Build(cfg, db, rdb)

	if cfg.Tracing.Enabled {
		tp, err := tracing.InitTracer(serviceName, cfg.Tracing.CollectorEndpoint)
		if err != nil {
			logger.Log.Fatal("Failed to initialize tracing", zap.Error(err))
		}
		app.tracer = tp
	}

	return app
}

// startBackgroundTasks 看板推进、空闲会话回收、限流清理和配置热更新
func (a *App) startBackgroundTasks(ctx context.Context) {
	a.services.market.Start(ctx)
	a.limiter.StartSweeper(ctx)

	go func() {
		ticker := time.NewTicker(time.Minute)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case now := <-ticker.C:
				a.services.learning.ReapIdle(now)
			}
		}
	}()

	go func() {
		if err := configwatcher.WatchConfig(ctx, a.ConfigDir, a.applyConfig); err != nil {
			logger.Log.Warn("Config hot reload disabled", zap.Error(err))
		}
	}()
}

// Shutdown 停止后台任务持有的资源，可在 Run 之外单独调用
func (a *App) Shutdown(ctx context.Context) {
	a.services.learning.CloseAll()
	a.services.market.Stop()

	if a.tracer != nil {
		if err := a.tracer.Shutdown(ctx); err != nil {
			logger.Log.Error("Failed to shutdown tracer provider", zap.Error(err))
		}
	}
	if a.Redis != nil {
		a.Redis.Close()
	}
	if sqlDB, err := a.DB.DB(); err == nil {
		sqlDB.Close()
	}
	logger.Sync()
}

func (a *App) Run() {
	bgCtx, stopBackground := context.WithCancel(context.Background())
	defer stopBackground()
	a.startBackgroundTasks(bgCtx)

	srv := &http.Server{
		Addr:    ":" + a.Config.Server.Port,
		Handler: a.Router,
	}

	// 启动服务器
	go func() {
		logger.Log.Info("Server running", zap.String("port", a.Config.Server.Port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Log.Fatal("listen", zap.Error(err))
		}
	}()

	// 等待中断信号优雅地关闭服务器（设置5秒的超时时间）
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Log.Info("Shutting down server...")

	// 先停止看板，SSE 连接随订阅关闭而结束
	stopBackground()
	a.services.market.Stop()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Log.Error("Server forced to shutdown", zap.Error(err))
	}
	a.Shutdown(ctx)

	logger.Log.Info("Server exiting")
	logger.Log.Sync()
}
