package app

import (
	"invest_learn_backend/internal/config"
	"invest_learn_backend/internal/middleware"
	"invest_learn_backend/pkg/monitoring"

	"github.com/gin-gonic/gin"
)

func (a *App) registerRoutes(router *gin.Engine, c *controllers, cfg *config.Config) {
	router.GET("/metrics", monitoring.PrometheusHandler())

	// 1. 公共路由
	a.registerPublicRoutes(router, c)

	// 2. 账户和会话，身份校验开启时需要令牌
	authGroup := router.Group("/api")
	authGroup.Use(middleware.IdentityMiddleware(cfg.JWT))
	{
		a.registerAccountRoutes(authGroup, c)
		a.registerSessionRoutes(authGroup, c)
	}
}

func (a *App) registerPublicRoutes(router *gin.Engine, c *controllers) {
	public := router.Group("/api")
	{
		public.GET("/health", c.health.HealthCheck)
		public.GET("/users/leaderboard", c.user.GetLeaderboard)
		public.GET("/redeem/offers", c.redeem.GetOffers)
		public.GET("/modules", c.module.ListModules)
		public.GET("/modules/:key/questions", c.module.GetQuestions)
		public.GET("/market/snapshot", c.market.GetSnapshot)
		public.GET("/market/stream", c.market.Stream)
	}
}

func (a *App) registerAccountRoutes(group *gin.RouterGroup, c *controllers) {
	group.POST("/users", c.user.CreateUser)

	account := group.Group("/users/:email")
	account.Use(middleware.OwnerMiddleware())
	{
		account.GET("", c.user.GetUser)
		account.PUT("", c.user.UpdateUser)
		account.POST("/deduct-coins", c.user.DeductCoins)
		account.POST("/add-coins", c.user.AddCoins)
		account.GET("/profile", c.user.GetProfile)
		account.POST("/redeem", c.redeem.Redeem)
		account.GET("/redemptions", c.redeem.GetRedemptions)
	}
}

func (a *App) registerSessionRoutes(group *gin.RouterGroup, c *controllers) {
	group.POST("/modules/:key/sessions", c.module.OpenSession)

	sessions := group.Group("/sessions/:id")
	{
		sessions.GET("", c.session.GetSession)
		sessions.POST("/ready", c.session.Ready)
		sessions.POST("/events", c.session.HandleEvent)
		sessions.DELETE("", c.session.CloseSession)
	}
}
