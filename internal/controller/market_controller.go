package controller

import (
	"io"
	"strconv"
	"time"

	"invest_learn_backend/internal/service"
	"invest_learn_backend/internal/util"
	"invest_learn_backend/pkg/logger"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const streamHeartbeat = 15 * time.Second

type MarketController struct {
	Market *service.MarketService
}

func NewMarketController(market *service.MarketService) *MarketController {
	return &MarketController{Market: market}
}

func chartSize(ctx *gin.Context) (float64, float64) {
	w, _ := strconv.ParseFloat(ctx.Query("width"), 64)
	h, _ := strconv.ParseFloat(ctx.Query("height"), 64)
	return service.ClampChartSize(w, h)
}

// GetSnapshot godoc
// @Summary 看板当前帧
// @Description 进程共享的看板，返回各模块折线路径和涨跌排名
// @Tags 看板
// @Produce json
// @Param width query number false "宽度" default(900)
// @Param height query number false "高度" default(300)
// @Param points query bool false "是否返回原始数据点"
// @Success 200 {object} util.Response{data=service.Frame}
// @Router /api/market/snapshot [get]
func (c *MarketController) GetSnapshot(ctx *gin.Context) {
	w, h := chartSize(ctx)
	util.Success(ctx, c.Market.Snapshot(w, h, ctx.Query("points") == "true"))
}

// Stream godoc
// @Summary 实时看板
// @Description SSE 推送，每个连接使用独立的看板，断开时停止推进
// @Tags 看板
// @Produce text/event-stream
// @Param width query number false "宽度" default(900)
// @Param height query number false "高度" default(300)
// @Router /api/market/stream [get]
func (c *MarketController) Stream(ctx *gin.Context) {
	w, h := chartSize(ctx)
	withPoints := ctx.Query("points") == "true"

	dashboard, closeStream := c.Market.OpenStream(ctx.Request.Context())
	defer closeStream()
	frames, unsubscribe := dashboard.Subscribe()
	defer unsubscribe()

	ctx.Header("Content-Type", "text/event-stream")
	ctx.Header("Cache-Control", "no-cache")
	ctx.Header("Connection", "keep-alive")
	ctx.Header("X-Accel-Buffering", "no")

	ctx.SSEvent("frame", c.Market.BuildFrame(dashboard.Snapshot(), w, h, withPoints))
	ctx.Writer.Flush()

	heartbeat := time.NewTicker(streamHeartbeat)
	defer heartbeat.Stop()
	done := ctx.Request.Context().Done()

	ctx.Stream(func(out io.Writer) bool {
		select {
		case <-done:
			return false
		case <-heartbeat.C:
			ctx.SSEvent("ping", time.Now().Unix())
			return true
		case snap, ok := <-frames:
			if !ok {
				return false
			}
			ctx.SSEvent("frame", c.Market.BuildFrame(snap, w, h, withPoints))
			return true
		}
	})

	logger.Log.Debug("看板连接已关闭", zap.String("client", ctx.ClientIP()))
}
