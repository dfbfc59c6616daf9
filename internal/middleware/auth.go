package middleware

import (
	"strings"

	"invest_learn_backend/internal/config"
	"invest_learn_backend/internal/util"
	"invest_learn_backend/pkg/logger"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// IdentityMiddleware 校验外部身份提供方签发的令牌。
// 未启用时直接放行，账户接口对任何邮箱开放。
func IdentityMiddleware(cfg config.JWTConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !cfg.Enabled {
			c.Next()
			return
		}

		tokenString := ""
		authHeader := c.GetHeader("Authorization")
		if authHeader != "" {
			tokenString = strings.TrimPrefix(authHeader, "Bearer ")
		}

		// EventSource 无法设置请求头
		if tokenString == "" {
			tokenString = c.Query("token")
		}

		if tokenString == "" {
			util.Unauthorized(c)
			c.Abort()
			return
		}

		claims, err := util.ParseJWT(tokenString, cfg.Secret)
		if err != nil {
			logger.Log.Debug("JWT解析错误", zap.Error(err))
			util.Unauthorized(c)
			c.Abort()
			return
		}

		util.SetIdentity(c, claims)
		c.Next()
	}
}

// OwnerMiddleware 要求路径中的 :email 与令牌中的邮箱一致
func OwnerMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !util.CanActAs(c, c.Param("email")) {
			util.Forbidden(c)
			c.Abort()
			return
		}
		c.Next()
	}
}
