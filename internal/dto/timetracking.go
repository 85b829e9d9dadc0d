package dto

// ── 打卡模块请求 ──

// ClockRequest 上班/下班打卡
type ClockRequest struct {
	EmployeeID string `json:"employee_id" binding:"required"`
	Date       string `json:"date" binding:"required"` // "2006-01-02"
	Time       string `json:"time" binding:"required"` // "HH:MM"
}

// BreakRequest 更新实际休息时长
type BreakRequest struct {
	EmployeeID string `json:"employee_id" binding:"required"`
	Date       string `json:"date" binding:"required"`
	Minutes    int    `json:"minutes"`
}

// ── 打卡模块响应 ──

// TimeTrackingResponse 单日考勤记录（状态与时长均为按需推导，不落库）
type TimeTrackingResponse struct {
	EmployeeID    string  `json:"employee_id"`
	EmployeeName  string  `json:"employee_name"`
	WorkDate      string  `json:"work_date"`
	DayOfWeek     int     `json:"day_of_week"`
	PlannedStart  string  `json:"planned_start,omitempty"`
	PlannedEnd    string  `json:"planned_end,omitempty"`
	PlannedHours  float64 `json:"planned_hours"`
	ClockIn       string  `json:"clock_in,omitempty"`
	ClockOut      string  `json:"clock_out,omitempty"`
	ActualHours   float64 `json:"actual_hours"`
	BreakMinutes  int     `json:"break_minutes"` // 计划休息
	IdleMinutes   int     `json:"idle_minutes"`  // 实际休息
	Status        string  `json:"status"`
	IsLate        bool    `json:"is_late"`
	IsEarlyLeave  bool    `json:"is_early_leave"`
	MinutesLate   int     `json:"minutes_late"`
	MinutesEarly  int     `json:"minutes_early"`
	OvertimeHours float64 `json:"overtime_hours"`
}
