package model

// Employee 员工目录只读视图 — 对应 employees
//
// 员工目录由人事模块维护，本服务只按 ID 引用、从不写入。
type Employee struct {
	EmployeeID string `gorm:"type:uuid;primaryKey" json:"employee_id"`
	FirstName  string `gorm:"type:varchar(100);not null" json:"first_name"`
	LastName   string `gorm:"type:varchar(100);not null" json:"last_name"`
	Role       string `gorm:"type:varchar(20);not null;default:'employee'" json:"role"` // employee | manager | admin
}

// TableName 指定表名
func (Employee) TableName() string { return "employees" }

// DisplayName 展示用全名
func (e *Employee) DisplayName() string {
	if e.FirstName == "" {
		return e.LastName
	}
	if e.LastName == "" {
		return e.FirstName
	}
	return e.FirstName + " " + e.LastName
}
