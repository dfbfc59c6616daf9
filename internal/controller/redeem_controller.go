package controller

import (
	"invest_learn_backend/internal/service"
	"invest_learn_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type RedeemController struct {
	RedeemService *service.RedeemService
}

func NewRedeemController(redeemService *service.RedeemService) *RedeemController {
	return &RedeemController{RedeemService: redeemService}
}

// swagger:model RedeemRequest
type RedeemRequest struct {
	OfferID uint `json:"offerId" binding:"required"`
}

// GetOffers godoc
// @Summary 可兑换的优惠
// @Tags 兑换
// @Produce json
// @Success 200 {object} util.Response{data=[]model.Offer}
// @Router /api/redeem/offers [get]
func (c *RedeemController) GetOffers(ctx *gin.Context) {
	util.Success(ctx, c.RedeemService.Offers())
}

// Redeem godoc
// @Summary 兑换优惠
// @Tags 兑换
// @Accept json
// @Produce json
// @Param email path string true "邮箱"
// @Param body body RedeemRequest true "优惠ID"
// @Success 200 {object} util.Response
// @Failure 400 {object} util.Response "Insufficient coins"
// @Failure 404 {object} util.Response "用户或优惠不存在"
// @Router /api/users/{email}/redeem [post]
func (c *RedeemController) Redeem(ctx *gin.Context) {
	var req RedeemRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	user, record, err := c.RedeemService.Redeem(ctx.Param("email"), req.OfferID)
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, gin.H{
		"user":       user,
		"redemption": record,
	})
}

// GetRedemptions godoc
// @Summary 兑换记录
// @Tags 兑换
// @Produce json
// @Param email path string true "邮箱"
// @Success 200 {object} util.Response{data=[]model.Redemption}
// @Router /api/users/{email}/redemptions [get]
func (c *RedeemController) GetRedemptions(ctx *gin.Context) {
	list, err := c.RedeemService.History(ctx.Param("email"))
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, list)
}
