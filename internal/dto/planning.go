package dto

// ── 排班模块请求 ──

// PlanningDayRequest 单个工作日的排班描述
// StartTime/EndTime 为空时回落到请求级默认时间
type PlanningDayRequest struct {
	DayOfWeek int     `json:"day_of_week" binding:"required,min=1,max=7"` // 1=周一 … 7=周日
	IsWorking bool    `json:"is_working"`
	StartTime *string `json:"start_time,omitempty"` // "HH:MM"
	EndTime   *string `json:"end_time,omitempty"`   // "HH:MM"
}

// PlanningRequest 按周模板创建/覆盖排班
type PlanningRequest struct {
	EmployeeID       string               `json:"employee_id" binding:"required"`
	DefaultStartTime string               `json:"default_start_time"` // 天级未指定时使用
	DefaultEndTime   string               `json:"default_end_time"`
	BreakMinutes     *int                 `json:"break_minutes"` // 默认 60
	Days             []PlanningDayRequest `json:"days" binding:"required,dive"`
}

// HourlyDayRequest 按时刻列表排班的单日描述
type HourlyDayRequest struct {
	DayOfWeek int    `json:"day_of_week" binding:"required,min=1,max=7"`
	StartTime string `json:"start_time"` // "HH:MM"，为空表示当天不上班
	EndTime   string `json:"end_time"`
}

// HourlyPlanningRequest 按时刻列表 + 申报周工时创建/覆盖排班
type HourlyPlanningRequest struct {
	EmployeeID   string             `json:"employee_id" binding:"required"`
	WeeklyHours  float64            `json:"weekly_hours"`
	BreakMinutes *int               `json:"break_minutes"`
	Days         []HourlyDayRequest `json:"days" binding:"required,dive"`
}

// BulkDefaultPlanningRequest 批量默认排班
type BulkDefaultPlanningRequest struct {
	EmployeeIDs []string `json:"employee_ids" binding:"required,min=1"`
}

// ── 排班模块响应 ──

// PlanningDayView 排班视图中的一天
type PlanningDayView struct {
	DayOfWeek    int     `json:"day_of_week"`
	DayName      string  `json:"day_name"`
	IsWorking    bool    `json:"is_working"`
	StartTime    string  `json:"start_time,omitempty"`
	EndTime      string  `json:"end_time,omitempty"`
	BreakMinutes int     `json:"break_minutes"`
	DailyHours   float64 `json:"daily_hours"`
}

// ShiftConflict 班次重叠提示（参考性，不阻断写入）
type ShiftConflict struct {
	DayOfWeek     int    `json:"day_of_week"`
	WorkDate      string `json:"work_date"` // "2006-01-02"
	ExistingStart string `json:"existing_start"`
	ExistingEnd   string `json:"existing_end"`
	ProposedStart string `json:"proposed_start"`
	ProposedEnd   string `json:"proposed_end"`
}

// PlanningResponse 员工完整 7 天排班视图
type PlanningResponse struct {
	EmployeeID   string            `json:"employee_id"`
	EmployeeName string            `json:"employee_name"`
	Days         []PlanningDayView `json:"days"` // 固定 7 项，周一→周日
	WeeklyHours  float64           `json:"weekly_hours"`
	ContractType string            `json:"contract_type"` // full_time | part_time | flexible
	Status       string            `json:"status"`
	Conflicts    []ShiftConflict   `json:"conflicts,omitempty"`
}

// BulkPlanningResult 批量默认排班的单员工结果
type BulkPlanningResult struct {
	EmployeeID string `json:"employee_id"`
	Success    bool   `json:"success"`
	Error      string `json:"error,omitempty"`
}
