package controller

import (
	"invest_learn_backend/internal/model"
	"invest_learn_backend/internal/service"
	"invest_learn_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type ModuleController struct {
	QuestionBank *service.QuestionBankService
	Learning     *service.LearningService
}

func NewModuleController(questionBank *service.QuestionBankService, learning *service.LearningService) *ModuleController {
	return &ModuleController{QuestionBank: questionBank, Learning: learning}
}

// swagger:model OpenSessionRequest
type OpenSessionRequest struct {
	Email string `json:"email" binding:"required"`
}

// ListModules godoc
// @Summary 模块目录
// @Tags 模块
// @Produce json
// @Success 200 {object} util.Response{data=[]model.Module}
// @Router /api/modules [get]
func (c *ModuleController) ListModules(ctx *gin.Context) {
	util.Success(ctx, gin.H{
		"modules":    model.Modules(),
		"moduleCost": c.Learning.ModuleCost(),
	})
}

// GetQuestions godoc
// @Summary 模块练习题
// @Description 生成失败时返回内置题库，永不为空
// @Tags 模块
// @Produce json
// @Param key path string true "模块"
// @Success 200 {object} util.Response{data=service.QuestionSet}
// @Failure 404 {object} util.Response "模块不存在"
// @Router /api/modules/{key}/questions [get]
func (c *ModuleController) GetQuestions(ctx *gin.Context) {
	module, ok := model.FindModule(ctx.Param("key"))
	if !ok {
		respondError(ctx, util.ErrModuleNotFound)
		return
	}
	util.Success(ctx, c.QuestionBank.Questions(ctx.Request.Context(), module.Topic))
}

// OpenSession godoc
// @Summary 开始学习会话
// @Description 先扣除模块费用，再在后台生成挑战
// @Tags 模块
// @Accept json
// @Produce json
// @Param key path string true "模块"
// @Param body body OpenSessionRequest true "邮箱"
// @Success 201 {object} util.Response{data=service.SessionState}
// @Failure 400 {object} util.Response "Insufficient coins"
// @Failure 404 {object} util.Response "模块或用户不存在"
// @Router /api/modules/{key}/sessions [post]
func (c *ModuleController) OpenSession(ctx *gin.Context) {
	var req OpenSessionRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}
	if !util.CanActAs(ctx, req.Email) {
		util.Forbidden(ctx)
		return
	}

	state, err := c.Learning.Open(ctx.Request.Context(), req.Email, ctx.Param("key"))
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Created(ctx, state)
}
