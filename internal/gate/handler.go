package gate

import (
	"context"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	armyservice "Stormhold/internal/army/service"
	cityservice "Stormhold/internal/city/service"
	"Stormhold/internal/kit/errx"
	reportdom "Stormhold/internal/report/domain"
)

// ReportReader 战报/谍报查询端口（mongodb 实现见 report/infra）。
type ReportReader interface {
	ListBattlesByPlayer(ctx context.Context, playerID int64, limit int64) ([]*reportdom.BattleReport, error)
	ListSpiesByPlayer(ctx context.Context, playerID int64, limit int64) ([]*reportdom.SpyReport, error)
}

// Handler 准入面：把 HTTP 请求翻译成服务调用，本身不含任何领域逻辑。
type Handler struct {
	queue   *cityservice.QueueService
	orders  *armyservice.OrderService
	reports ReportReader
}

func NewHandler(queue *cityservice.QueueService, orders *armyservice.OrderService, reports ReportReader) *Handler {
	return &Handler{queue: queue, orders: orders, reports: reports}
}

// RegisterRoutes 注册准入路由。healthz 不需要认证。
func (h *Handler) RegisterRoutes(r *gin.Engine) {
	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, Success("ok"))
	})

	api := r.Group("/", AuthRequired())
	api.POST("/city/build", h.RequestBuild)
	api.POST("/city/recruit", h.RequestRecruit)
	api.POST("/army/order", h.IssueOrder)
	api.GET("/reports/battles", h.ListBattleReports)
	api.GET("/reports/spies", h.ListSpyReports)
}

func (h *Handler) RequestBuild(c *gin.Context) {
	var req BuildReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, Fail(string(errx.CodeReqParamError), "参数有误"))
		return
	}

	item, err := h.queue.RequestBuild(c.Request.Context(), playerID(c), req.CityID, req.BuildingKey, req.Slot)
	if err != nil {
		status, body := mapError(err)
		c.JSON(status, body)
		return
	}
	c.JSON(http.StatusOK, Success(item))
}

func (h *Handler) RequestRecruit(c *gin.Context) {
	var req RecruitReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, Fail(string(errx.CodeReqParamError), "参数有误"))
		return
	}

	item, err := h.queue.RequestRecruit(c.Request.Context(), playerID(c), req.CityID, req.UnitKey, req.Count)
	if err != nil {
		status, body := mapError(err)
		c.JSON(status, body)
		return
	}
	c.JSON(http.StatusOK, Success(item))
}

func (h *Handler) IssueOrder(c *gin.Context) {
	var req OrderReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, Fail(string(errx.CodeReqParamError), "参数有误"))
		return
	}

	army, err := h.orders.IssueOrder(c.Request.Context(), playerID(c), req.ArmyID, req.Order, req.TargetX, req.TargetY)
	if err != nil {
		status, body := mapError(err)
		c.JSON(status, body)
		return
	}
	c.JSON(http.StatusOK, Success(army))
}

func (h *Handler) ListBattleReports(c *gin.Context) {
	limit := queryLimit(c)
	reports, err := h.reports.ListBattlesByPlayer(c.Request.Context(), playerID(c), limit)
	if err != nil {
		status, body := mapError(err)
		c.JSON(status, body)
		return
	}
	c.JSON(http.StatusOK, Success(reports))
}

func (h *Handler) ListSpyReports(c *gin.Context) {
	limit := queryLimit(c)
	reports, err := h.reports.ListSpiesByPlayer(c.Request.Context(), playerID(c), limit)
	if err != nil {
		status, body := mapError(err)
		c.JSON(status, body)
		return
	}
	c.JSON(http.StatusOK, Success(reports))
}

func queryLimit(c *gin.Context) int64 {
	limit, err := strconv.ParseInt(c.DefaultQuery("limit", "20"), 10, 64)
	if err != nil || limit <= 0 || limit > 100 {
		return 20
	}
	return limit
}
