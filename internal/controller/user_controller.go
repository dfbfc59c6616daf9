package controller

import (
	"invest_learn_backend/internal/service"
	"invest_learn_backend/internal/util"

	"github.com/gin-gonic/gin"
)

// UserController 处理账户余额和排行榜请求
type UserController struct {
	AccountService *service.AccountService
	ProfileService *service.ProfileService
}

func NewUserController(accountService *service.AccountService, profileService *service.ProfileService) *UserController {
	return &UserController{
		AccountService: accountService,
		ProfileService: profileService,
	}
}

// swagger:model CreateUserRequest
type CreateUserRequest struct {
	Email string `json:"email" binding:"required"`
}

// swagger:model UpdateUserRequest
type UpdateUserRequest struct {
	Points *int `json:"points" binding:"omitempty,gte=0"`
	Coins  *int `json:"coins" binding:"omitempty,gte=0"`
}

// swagger:model AmountRequest
type AmountRequest struct {
	Amount int `json:"amount" binding:"required,gt=0"`
}

// GetLeaderboard godoc
// @Summary 排行榜
// @Description 按积分降序返回用户
// @Tags 用户
// @Produce json
// @Param limit query int false "条数" default(50)
// @Success 200 {object} util.Response{data=[]model.User}
// @Router /api/users/leaderboard [get]
func (c *UserController) GetLeaderboard(ctx *gin.Context) {
	limit := util.ParseIntDefault(ctx.Query("limit"), 0, 1, util.MaxLeaderboardLimit)

	users, err := c.AccountService.ListTopUsers(limit)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, users)
}

// GetUser godoc
// @Summary 查询余额
// @Tags 用户
// @Produce json
// @Param email path string true "邮箱"
// @Success 200 {object} util.Response{data=model.User}
// @Failure 404 {object} util.Response "用户不存在"
// @Router /api/users/{email} [get]
func (c *UserController) GetUser(ctx *gin.Context) {
	user, err := c.AccountService.GetBalance(ctx.Param("email"))
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, user)
}

// CreateUser godoc
// @Summary 创建账户
// @Description 新账户积分为 0，金币为配置的初始值
// @Tags 用户
// @Accept json
// @Produce json
// @Param body body CreateUserRequest true "邮箱"
// @Success 201 {object} util.Response{data=model.User}
// @Failure 400 {object} util.Response "邮箱无效或已注册"
// @Router /api/users [post]
func (c *UserController) CreateUser(ctx *gin.Context) {
	var req CreateUserRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}
	if !util.CanActAs(ctx, req.Email) {
		util.Forbidden(ctx)
		return
	}

	user, err := c.AccountService.CreateUser(req.Email)
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Created(ctx, user)
}

// UpdateUser godoc
// @Summary 覆盖积分和/或金币
// @Tags 用户
// @Accept json
// @Produce json
// @Param email path string true "邮箱"
// @Param body body UpdateUserRequest true "新余额"
// @Success 200 {object} util.Response{data=model.User}
// @Failure 400 {object} util.Response
// @Failure 404 {object} util.Response "用户不存在"
// @Router /api/users/{email} [put]
func (c *UserController) UpdateUser(ctx *gin.Context) {
	var req UpdateUserRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}
	if req.Points == nil && req.Coins == nil {
		util.BadRequest(ctx, "points or coins is required")
		return
	}

	user, err := c.AccountService.UpdateUser(ctx.Param("email"), req.Points, req.Coins)
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, user)
}

// DeductCoins godoc
// @Summary 扣除金币
// @Description 余额不足时返回 400 且不修改余额
// @Tags 用户
// @Accept json
// @Produce json
// @Param email path string true "邮箱"
// @Param body body AmountRequest true "数量"
// @Success 200 {object} util.Response{data=model.User}
// @Failure 400 {object} util.Response "Insufficient coins"
// @Failure 404 {object} util.Response "用户不存在"
// @Router /api/users/{email}/deduct-coins [post]
func (c *UserController) DeductCoins(ctx *gin.Context) {
	var req AmountRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	user, err := c.AccountService.DeductCoins(ctx.Param("email"), req.Amount)
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, user)
}

// AddCoins godoc
// @Summary 增加金币
// @Tags 用户
// @Accept json
// @Produce json
// @Param email path string true "邮箱"
// @Param body body AmountRequest true "数量"
// @Success 200 {object} util.Response{data=model.User}
// @Failure 404 {object} util.Response "用户不存在"
// @Router /api/users/{email}/add-coins [post]
func (c *UserController) AddCoins(ctx *gin.Context) {
	var req AmountRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	user, err := c.AccountService.AddCoins(ctx.Param("email"), req.Amount)
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, user)
}

// GetProfile godoc
// @Summary 个人资料
// @Description 排名、等级、成就和各模块完成情况
// @Tags 用户
// @Produce json
// @Param email path string true "邮箱"
// @Success 200 {object} util.Response{data=service.Profile}
// @Failure 404 {object} util.Response "用户不存在"
// @Router /api/users/{email}/profile [get]
func (c *UserController) GetProfile(ctx *gin.Context) {
	profile, err := c.ProfileService.GetProfile(ctx.Param("email"))
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, profile)
}
