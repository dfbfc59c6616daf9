package controller

import (
	"invest_learn_backend/internal/service"
	"invest_learn_backend/internal/session"
	"invest_learn_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type SessionController struct {
	Learning *service.LearningService
}

func NewSessionController(learning *service.LearningService) *SessionController {
	return &SessionController{Learning: learning}
}

// authorize 身份校验开启时，只有会话所属用户可以操作
func (c *SessionController) authorize(ctx *gin.Context) (string, bool) {
	id := ctx.Param("id")
	owner, err := c.Learning.Owner(id)
	if err != nil {
		respondError(ctx, err)
		return "", false
	}
	if !util.CanActAs(ctx, owner) {
		util.Forbidden(ctx)
		return "", false
	}
	return id, true
}

// GetSession godoc
// @Summary 会话视图
// @Tags 会话
// @Produce json
// @Param id path string true "会话ID"
// @Success 200 {object} util.Response{data=service.SessionState}
// @Failure 404 {object} util.Response "会话不存在"
// @Router /api/sessions/{id} [get]
func (c *SessionController) GetSession(ctx *gin.Context) {
	id, ok := c.authorize(ctx)
	if !ok {
		return
	}
	state, err := c.Learning.View(id)
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, state)
}

// Ready godoc
// @Summary 看完视频，进入第一个挑战
// @Tags 会话
// @Produce json
// @Param id path string true "会话ID"
// @Success 200 {object} util.Response{data=service.SessionState}
// @Failure 409 {object} util.Response "仍在加载或状态不允许"
// @Router /api/sessions/{id}/ready [post]
func (c *SessionController) Ready(ctx *gin.Context) {
	id, ok := c.authorize(ctx)
	if !ok {
		return
	}
	state, err := c.Learning.Ready(id)
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, state)
}

// HandleEvent godoc
// @Summary 提交交互事件
// @Description action 为 select/continue/choose/answer/input
// @Tags 会话
// @Accept json
// @Produce json
// @Param id path string true "会话ID"
// @Param body body session.Event true "事件"
// @Success 200 {object} util.Response{data=service.SessionState}
// @Failure 400 {object} util.Response "事件不合法"
// @Failure 409 {object} util.Response "当前状态不接受该事件"
// @Router /api/sessions/{id}/events [post]
func (c *SessionController) HandleEvent(ctx *gin.Context) {
	id, ok := c.authorize(ctx)
	if !ok {
		return
	}

	var ev session.Event
	if err := ctx.ShouldBindJSON(&ev); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	state, err := c.Learning.Handle(id, ev)
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, state)
}

// CloseSession godoc
// @Summary 关闭会话
// @Description 取消生成和定时器，已扣除的费用不退还
// @Tags 会话
// @Produce json
// @Param id path string true "会话ID"
// @Success 200 {object} util.Response
// @Failure 404 {object} util.Response "会话不存在"
// @Router /api/sessions/{id} [delete]
func (c *SessionController) CloseSession(ctx *gin.Context) {
	id, ok := c.authorize(ctx)
	if !ok {
		return
	}
	if err := c.Learning.Close(id); err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, gin.H{"id": id, "closed": true})
}
