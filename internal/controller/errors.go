package controller

import (
	"errors"
	"net/http"

	"invest_learn_backend/internal/session"
	"invest_learn_backend/internal/util"

	"github.com/gin-gonic/gin"
)

// respondError 把领域错误映射为统一响应，未知错误记录日志后返回 500
func respondError(ctx *gin.Context, err error) {
	switch {
	case errors.Is(err, util.ErrUserNotFound),
		errors.Is(err, util.ErrModuleNotFound),
		errors.Is(err, util.ErrOfferNotFound),
		errors.Is(err, util.ErrSessionNotFound):
		util.NotFound(ctx, err.Error())

	case errors.Is(err, util.ErrInsufficientFunds):
		util.BadRequest(ctx, "Insufficient coins")

	case errors.Is(err, util.ErrEmailRegistered),
		errors.Is(err, util.ErrInvalidEmail),
		errors.Is(err, util.ErrInvalidAmount),
		errors.Is(err, util.ErrInvalidPoints),
		errors.Is(err, session.ErrInvalidEvent):
		util.BadRequest(ctx, err.Error())

	case errors.Is(err, util.ErrPermissionDenied):
		util.Forbidden(ctx)

	case errors.Is(err, session.ErrInvalidTransition),
		errors.Is(err, session.ErrLoading),
		errors.Is(err, session.ErrClosed):
		util.Conflict(ctx, err.Error())

	case errors.Is(err, util.ErrAIUnavailable):
		util.Error(ctx, http.StatusServiceUnavailable, err.Error())

	default:
		util.LogInternalError(ctx, err)
	}
}
