package service

import (
	"context"
	"errors"
	"testing"

	"go.uber.org/zap"

	"overlook-hotel/backend/internal/dto"
	"overlook-hotel/backend/internal/model"
	"overlook-hotel/backend/internal/repository"
	"overlook-hotel/backend/internal/shiftid"
)

func newTestPlanningService(repo *repository.Repository, cache ViewCache, rejectOverlaps bool) *planningService {
	return &planningService{
		repo:           repo,
		cache:          cache,
		logger:         zap.NewNop(),
		rejectOverlaps: rejectOverlaps,
		now:            fixedNow,
	}
}

func TestCreateDefaultPlanning(t *testing.T) {
	repo, slotRepo, _ := newTestRepository()
	svc := newTestPlanningService(repo, nil, false)

	resp, err := svc.CreateDefaultPlanning(context.Background(), "emp-001")
	if err != nil {
		t.Fatalf("默认排班失败: %v", err)
	}

	if len(slotRepo.slots) != 5 {
		t.Fatalf("应生成 5 条班次，实际 %d", len(slotRepo.slots))
	}
	if len(resp.Days) != 7 {
		t.Fatalf("视图应固定 7 天，实际 %d", len(resp.Days))
	}

	for wd := 0; wd < 5; wd++ {
		day := resp.Days[wd]
		if !day.IsWorking {
			t.Errorf("周%d 应为工作日", wd+1)
		}
		if day.StartTime != "09:00" || day.EndTime != "17:00" {
			t.Errorf("周%d 时段应为 09:00-17:00，实际 %s-%s", wd+1, day.StartTime, day.EndTime)
		}
		if day.BreakMinutes != 60 {
			t.Errorf("周%d 休息应为 60 分钟，实际 %d", wd+1, day.BreakMinutes)
		}
		if day.DailyHours != 7.0 {
			t.Errorf("周%d 日工时应为 7.0，实际 %v", wd+1, day.DailyHours)
		}
	}
	for wd := 5; wd < 7; wd++ {
		if resp.Days[wd].IsWorking {
			t.Errorf("周%d 不应为工作日", wd+1)
		}
	}

	if resp.WeeklyHours != 35.0 {
		t.Errorf("周工时应为 35.0，实际 %v", resp.WeeklyHours)
	}
	if resp.ContractType != "full_time" {
		t.Errorf("合同类型应为 full_time，实际 %s", resp.ContractType)
	}
	if resp.Status != "active" {
		t.Errorf("状态应为 active，实际 %s", resp.Status)
	}
	if resp.EmployeeName != "Jack Torrance" {
		t.Errorf("员工姓名不匹配: %s", resp.EmployeeName)
	}
}

func TestCreateDefaultPlanningIdempotent(t *testing.T) {
	repo, slotRepo, _ := newTestRepository()
	svc := newTestPlanningService(repo, nil, false)

	first, err := svc.CreateDefaultPlanning(context.Background(), "emp-001")
	if err != nil {
		t.Fatalf("首次默认排班失败: %v", err)
	}
	second, err := svc.CreateDefaultPlanning(context.Background(), "emp-001")
	if err != nil {
		t.Fatalf("重复默认排班失败: %v", err)
	}

	if len(slotRepo.slots) != 5 {
		t.Errorf("重复调用后仍应只有 5 条班次，实际 %d", len(slotRepo.slots))
	}
	if first.WeeklyHours != second.WeeklyHours {
		t.Errorf("重复调用结果不一致: %v vs %v", first.WeeklyHours, second.WeeklyHours)
	}
}

func TestCreateDefaultPlanningEmployeeNotFound(t *testing.T) {
	repo, _, _ := newTestRepository()
	svc := newTestPlanningService(repo, nil, false)

	if _, err := svc.CreateDefaultPlanning(context.Background(), "emp-999"); !errors.Is(err, ErrEmployeeNotFound) {
		t.Errorf("未知员工应返回 ErrEmployeeNotFound，实际: %v", err)
	}
}

func TestCreateDefaultPlanningInvalidatesWeeklyView(t *testing.T) {
	repo, _, _ := newTestRepository()
	cache := newMockViewCache()
	svc := newTestPlanningService(repo, cache, false)

	if _, err := svc.CreateDefaultPlanning(context.Background(), "emp-001"); err != nil {
		t.Fatalf("默认排班失败: %v", err)
	}

	found := false
	for _, key := range cache.deleted {
		if key == weeklyViewCacheKey {
			found = true
		}
	}
	if !found {
		t.Error("排班写入后应失效周视图缓存")
	}
}

func TestBulkCreateDefaultPlanningPartialFailure(t *testing.T) {
	repo, slotRepo, _ := newTestRepository()
	svc := newTestPlanningService(repo, nil, false)

	results := svc.BulkCreateDefaultPlanning(context.Background(), []string{"emp-001", "emp-999", "emp-002"})
	if len(results) != 3 {
		t.Fatalf("应返回 3 条结果，实际 %d", len(results))
	}

	if !results[0].Success || results[0].EmployeeID != "emp-001" {
		t.Errorf("emp-001 应成功: %+v", results[0])
	}
	if results[1].Success || results[1].Error == "" {
		t.Errorf("emp-999 应失败且带错误信息: %+v", results[1])
	}
	if !results[2].Success {
		t.Errorf("单个失败不应影响后续员工: %+v", results[2])
	}

	if len(slotRepo.slots) != 10 {
		t.Errorf("两名有效员工应各有 5 条班次，实际共 %d", len(slotRepo.slots))
	}
}

func TestCreateOrUpdatePlanning(t *testing.T) {
	repo, slotRepo, _ := newTestRepository()
	svc := newTestPlanningService(repo, nil, false)

	start := "08:00"
	req := &dto.PlanningRequest{
		EmployeeID:       "emp-001",
		DefaultStartTime: "10:00",
		DefaultEndTime:   "18:00",
		Days: []dto.PlanningDayRequest{
			{DayOfWeek: 1, IsWorking: true, StartTime: &start}, // 结束时刻回落默认值
			{DayOfWeek: 3, IsWorking: true},
			{DayOfWeek: 6, IsWorking: false},
		},
	}

	resp, err := svc.CreateOrUpdatePlanning(context.Background(), req)
	if err != nil {
		t.Fatalf("覆盖排班失败: %v", err)
	}

	if len(slotRepo.slots) != 2 {
		t.Fatalf("应生成 2 条班次，实际 %d", len(slotRepo.slots))
	}
	if resp.Days[0].StartTime != "08:00" || resp.Days[0].EndTime != "18:00" {
		t.Errorf("周一应为 08:00-18:00，实际 %s-%s", resp.Days[0].StartTime, resp.Days[0].EndTime)
	}
	if resp.Days[2].StartTime != "10:00" || resp.Days[2].EndTime != "18:00" {
		t.Errorf("周三应回落默认 10:00-18:00，实际 %s-%s", resp.Days[2].StartTime, resp.Days[2].EndTime)
	}
	if resp.Days[5].IsWorking {
		t.Error("周六不应为工作日")
	}
}

func TestCreateOrUpdatePlanningReplacesExisting(t *testing.T) {
	repo, slotRepo, _ := newTestRepository()
	svc := newTestPlanningService(repo, nil, false)

	if _, err := svc.CreateDefaultPlanning(context.Background(), "emp-001"); err != nil {
		t.Fatalf("默认排班失败: %v", err)
	}

	req := &dto.PlanningRequest{
		EmployeeID: "emp-001",
		Days: []dto.PlanningDayRequest{
			{DayOfWeek: 2, IsWorking: true},
		},
	}
	if _, err := svc.CreateOrUpdatePlanning(context.Background(), req); err != nil {
		t.Fatalf("覆盖排班失败: %v", err)
	}

	// 整体替换：旧的 5 条应被 1 条取代
	if len(slotRepo.slots) != 1 {
		t.Errorf("覆盖后应只剩 1 条班次，实际 %d", len(slotRepo.slots))
	}
}

func TestCreateOrUpdatePlanningValidation(t *testing.T) {
	repo, _, _ := newTestRepository()
	svc := newTestPlanningService(repo, nil, false)

	negative := -10
	if _, err := svc.CreateOrUpdatePlanning(context.Background(), &dto.PlanningRequest{
		EmployeeID:   "emp-001",
		BreakMinutes: &negative,
		Days:         []dto.PlanningDayRequest{{DayOfWeek: 1, IsWorking: true}},
	}); !errors.Is(err, ErrNegativeBreak) {
		t.Errorf("负休息时长应返回 ErrNegativeBreak，实际: %v", err)
	}

	bad := "17:00"
	badEnd := "09:00"
	if _, err := svc.CreateOrUpdatePlanning(context.Background(), &dto.PlanningRequest{
		EmployeeID: "emp-001",
		Days:       []dto.PlanningDayRequest{{DayOfWeek: 1, IsWorking: true, StartTime: &bad, EndTime: &badEnd}},
	}); !errors.Is(err, ErrInvalidTimeRange) {
		t.Errorf("起止颠倒应返回 ErrInvalidTimeRange，实际: %v", err)
	}
}

func TestCreateOrUpdatePlanningOverlapHint(t *testing.T) {
	repo, slotRepo, _ := newTestRepository()
	svc := newTestPlanningService(repo, nil, false)

	// 预置周一既有班次 10:00-12:00（编码与覆盖目标不同，不会被 upsert 吞并）
	slotRepo.slots = append(slotRepo.slots, model.WorkdaySlot{
		SlotID:              "pre-1",
		EmployeeID:          "emp-001",
		WorkDate:            dateOf("2024-01-01"),
		ShiftCode:           shiftid.MustEncode(1, 1, false),
		PlannedStart:        strPtr("10:00"),
		PlannedEnd:          strPtr("12:00"),
		PlannedBreakMinutes: intPtr(0),
	})

	s, e := "09:00", "13:00"
	resp, err := svc.CreateOrUpdatePlanning(context.Background(), &dto.PlanningRequest{
		EmployeeID: "emp-001",
		Days:       []dto.PlanningDayRequest{{DayOfWeek: 1, IsWorking: true, StartTime: &s, EndTime: &e}},
	})
	if err != nil {
		t.Fatalf("默认策略下重叠不应阻断写入: %v", err)
	}
	if len(resp.Conflicts) != 1 {
		t.Fatalf("应返回 1 条重叠提示，实际 %d", len(resp.Conflicts))
	}
	c := resp.Conflicts[0]
	if c.ExistingStart != "10:00" || c.ProposedStart != "09:00" {
		t.Errorf("重叠提示字段不匹配: %+v", c)
	}
}

func TestCreateOrUpdatePlanningRejectOverlaps(t *testing.T) {
	repo, slotRepo, _ := newTestRepository()
	svc := newTestPlanningService(repo, nil, true)

	slotRepo.slots = append(slotRepo.slots, model.WorkdaySlot{
		SlotID:              "pre-1",
		EmployeeID:          "emp-001",
		WorkDate:            dateOf("2024-01-01"),
		ShiftCode:           shiftid.MustEncode(1, 1, false),
		PlannedStart:        strPtr("10:00"),
		PlannedEnd:          strPtr("12:00"),
		PlannedBreakMinutes: intPtr(0),
	})

	s, e := "09:00", "13:00"
	if _, err := svc.CreateOrUpdatePlanning(context.Background(), &dto.PlanningRequest{
		EmployeeID: "emp-001",
		Days:       []dto.PlanningDayRequest{{DayOfWeek: 1, IsWorking: true, StartTime: &s, EndTime: &e}},
	}); !errors.Is(err, ErrShiftOverlap) {
		t.Errorf("拒绝策略下重叠应返回 ErrShiftOverlap，实际: %v", err)
	}

	// 拒绝时不应有任何写入
	if len(slotRepo.slots) != 1 {
		t.Errorf("拒绝后存量班次应保持 1 条，实际 %d", len(slotRepo.slots))
	}
}

func TestCreateOrUpdatePlanningReplanNotBlockedByOwnSlot(t *testing.T) {
	repo, slotRepo, _ := newTestRepository()
	svc := newTestPlanningService(repo, nil, true)

	// 先有 09:00-17:00 的默认排班，再改为 09:00-16:00：
	// 新旧区间必然重叠，但旧班次本就会被本次覆盖写替换，不应挡住改排班
	if _, err := svc.CreateDefaultPlanning(context.Background(), "emp-001"); err != nil {
		t.Fatalf("默认排班失败: %v", err)
	}

	s, e := "09:00", "16:00"
	resp, err := svc.CreateOrUpdatePlanning(context.Background(), &dto.PlanningRequest{
		EmployeeID: "emp-001",
		Days:       []dto.PlanningDayRequest{{DayOfWeek: 1, IsWorking: true, StartTime: &s, EndTime: &e}},
	})
	if err != nil {
		t.Fatalf("拒绝策略下改排班不应被自己的旧班次阻断: %v", err)
	}
	if len(resp.Conflicts) != 0 {
		t.Errorf("改排班不应报告已被替换班次的重叠: %+v", resp.Conflicts)
	}
	if resp.Days[0].StartTime != "09:00" || resp.Days[0].EndTime != "16:00" {
		t.Errorf("周一应更新为 09:00-16:00，实际 %s-%s", resp.Days[0].StartTime, resp.Days[0].EndTime)
	}
	if len(slotRepo.slots) != 1 {
		t.Errorf("覆盖后应只剩 1 条班次，实际 %d", len(slotRepo.slots))
	}
}

func TestCreateOrUpdateHourlyPlanningReplanNotBlockedByOwnSlot(t *testing.T) {
	repo, _, _ := newTestRepository()
	svc := newTestPlanningService(repo, nil, true)

	if _, err := svc.CreateDefaultPlanning(context.Background(), "emp-001"); err != nil {
		t.Fatalf("默认排班失败: %v", err)
	}

	resp, err := svc.CreateOrUpdateHourlyPlanning(context.Background(), &dto.HourlyPlanningRequest{
		EmployeeID:  "emp-001",
		WeeklyHours: 30,
		Days: []dto.HourlyDayRequest{
			{DayOfWeek: 1, StartTime: "10:00", EndTime: "16:00"},
			{DayOfWeek: 2, StartTime: "10:00", EndTime: "16:00"},
		},
	})
	if err != nil {
		t.Fatalf("小时制改排班不应被自己的旧班次阻断: %v", err)
	}
	if len(resp.Conflicts) != 0 {
		t.Errorf("改排班不应报告已被替换班次的重叠: %+v", resp.Conflicts)
	}
}

func TestCreateOrUpdateHourlyPlanning(t *testing.T) {
	repo, _, _ := newTestRepository()
	svc := newTestPlanningService(repo, nil, false)

	noBreak := 0
	resp, err := svc.CreateOrUpdateHourlyPlanning(context.Background(), &dto.HourlyPlanningRequest{
		EmployeeID:   "emp-001",
		WeeklyHours:  21,
		BreakMinutes: &noBreak,
		Days: []dto.HourlyDayRequest{
			{DayOfWeek: 1, StartTime: "09:00", EndTime: "16:00"},
			{DayOfWeek: 3, StartTime: "09:00", EndTime: "16:00"},
			{DayOfWeek: 5, StartTime: "09:00", EndTime: "16:00"},
			{DayOfWeek: 6}, // 起止缺省 ⇒ 不上班
		},
	})
	if err != nil {
		t.Fatalf("小时制排班失败: %v", err)
	}

	if resp.WeeklyHours != 21.0 {
		t.Errorf("周工时应为 21.0，实际 %v", resp.WeeklyHours)
	}
	if resp.ContractType != "part_time" {
		t.Errorf("合同类型应为 part_time，实际 %s", resp.ContractType)
	}
	if resp.Days[5].IsWorking {
		t.Error("周六不应为工作日")
	}
}

func TestCreateOrUpdateHourlyPlanningExceedsCap(t *testing.T) {
	repo, slotRepo, _ := newTestRepository()
	svc := newTestPlanningService(repo, nil, false)

	if _, err := svc.CreateOrUpdateHourlyPlanning(context.Background(), &dto.HourlyPlanningRequest{
		EmployeeID:  "emp-001",
		WeeklyHours: 40,
		Days: []dto.HourlyDayRequest{
			{DayOfWeek: 1, StartTime: "08:00", EndTime: "17:00"},
		},
	}); !errors.Is(err, ErrWeeklyHoursExceeded) {
		t.Fatalf("申报 40 小时应返回 ErrWeeklyHoursExceeded，实际: %v", err)
	}

	if len(slotRepo.slots) != 0 {
		t.Errorf("超限拒绝后不应有任何写入，实际 %d 条", len(slotRepo.slots))
	}
}

func TestInferContractType(t *testing.T) {
	cases := []struct {
		hours float64
		want  string
	}{
		{35.0, "full_time"},
		{40.0, "full_time"},
		{34.99, "part_time"},
		{20.0, "part_time"},
		{19.99, "flexible"},
		{0, "flexible"},
	}
	for _, c := range cases {
		if got := inferContractType(c.hours); got != c.want {
			t.Errorf("inferContractType(%v) = %s，期望 %s", c.hours, got, c.want)
		}
	}
}

func TestGetEmployeePlanningUnplanned(t *testing.T) {
	repo, _, _ := newTestRepository()
	svc := newTestPlanningService(repo, nil, false)

	resp, err := svc.GetEmployeePlanning(context.Background(), "emp-001")
	if err != nil {
		t.Fatalf("查询排班失败: %v", err)
	}
	if resp.Status != "unplanned" {
		t.Errorf("无排班时状态应为 unplanned，实际 %s", resp.Status)
	}
	if resp.WeeklyHours != 0 {
		t.Errorf("无排班时周工时应为 0，实际 %v", resp.WeeklyHours)
	}
	if len(resp.Days) != 7 {
		t.Errorf("视图应固定 7 天，实际 %d", len(resp.Days))
	}
}

func TestDeleteShift(t *testing.T) {
	repo, slotRepo, _ := newTestRepository()
	svc := newTestPlanningService(repo, nil, false)

	if _, err := svc.CreateDefaultPlanning(context.Background(), "emp-001"); err != nil {
		t.Fatalf("默认排班失败: %v", err)
	}

	code := shiftid.MustEncode(1, 0, false)
	if err := svc.DeleteShift(context.Background(), "emp-001", "2024-01-01", code); err != nil {
		t.Fatalf("删除班次失败: %v", err)
	}
	if len(slotRepo.slots) != 4 {
		t.Errorf("删除后应剩 4 条班次，实际 %d", len(slotRepo.slots))
	}

	if err := svc.DeleteShift(context.Background(), "emp-001", "2024-01-01", 200); !errors.Is(err, shiftid.ErrInvalidShiftCode) {
		t.Errorf("非法班次编码应返回 ErrInvalidShiftCode，实际: %v", err)
	}
	if err := svc.DeleteShift(context.Background(), "emp-001", "bad-date", code); !errors.Is(err, ErrInvalidDateFormat) {
		t.Errorf("非法日期应返回 ErrInvalidDateFormat，实际: %v", err)
	}
}

func TestDeletePlanning(t *testing.T) {
	repo, slotRepo, _ := newTestRepository()
	svc := newTestPlanningService(repo, nil, false)

	if _, err := svc.CreateDefaultPlanning(context.Background(), "emp-001"); err != nil {
		t.Fatalf("默认排班失败: %v", err)
	}
	if err := svc.DeletePlanning(context.Background(), "emp-001"); err != nil {
		t.Fatalf("删除排班失败: %v", err)
	}
	if len(slotRepo.slots) != 0 {
		t.Errorf("删除后不应残留班次，实际 %d", len(slotRepo.slots))
	}
}

func TestDeletePlanningForDateNoop(t *testing.T) {
	repo, _, _ := newTestRepository()
	svc := newTestPlanningService(repo, nil, false)

	// 当日无班次时删除应为无操作且不报错
	if err := svc.DeletePlanningForDate(context.Background(), "emp-001", "2024-01-01"); err != nil {
		t.Errorf("空删除应为无操作，实际: %v", err)
	}
}
