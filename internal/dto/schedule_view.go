package dto

// ── 日程投影（只读视图）──

// WeeklyScheduleRow 周视图中一个员工的行
// Cells 固定 7 项，周一→周日；工作日为 "start-end"，否则为 "-"
type WeeklyScheduleRow struct {
	EmployeeID   string   `json:"employee_id"`
	EmployeeName string   `json:"employee_name"`
	Cells        []string `json:"cells"`
}

// WeeklyScheduleResponse 全员周视图
type WeeklyScheduleResponse struct {
	DayNames []string            `json:"day_names"` // 周一→周日
	Rows     []WeeklyScheduleRow `json:"rows"`
}

// MonthlyScheduleResponse 员工月视图
// Cells 固定 31 项；工作日为 "W"，非工作日与该月不存在的日期为 "-"
type MonthlyScheduleResponse struct {
	EmployeeID   string   `json:"employee_id"`
	EmployeeName string   `json:"employee_name"`
	Year         int      `json:"year"`
	Month        int      `json:"month"`
	Cells        []string `json:"cells"`
}

// RangeScheduleDay 日期区间视图中的一天
type RangeScheduleDay struct {
	Date      string `json:"date"` // "2006-01-02"
	DayOfWeek int    `json:"day_of_week"`
	Cell      string `json:"cell"` // "W" 或 "-"
}

// RangeScheduleResponse 员工任意日期区间视图（闭区间）
type RangeScheduleResponse struct {
	EmployeeID   string             `json:"employee_id"`
	EmployeeName string             `json:"employee_name"`
	StartDate    string             `json:"start_date"`
	EndDate      string             `json:"end_date"`
	Days         []RangeScheduleDay `json:"days"`
}
