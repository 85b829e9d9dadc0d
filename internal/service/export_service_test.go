package service

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"overlook-hotel/backend/internal/repository"
)

func newTestExportService(repo *repository.Repository) *exportService {
	return &exportService{repo: repo, logger: zap.NewNop()}
}

func TestExportWeeklySchedule(t *testing.T) {
	repo, slotRepo, _ := newTestRepository()
	svc := newTestExportService(repo)

	seedPlannedSlot(slotRepo, "emp-001", "2024-01-01") // 周一
	seedPlannedSlot(slotRepo, "emp-002", "2024-01-02") // 周二

	buf, filename, err := svc.ExportWeeklySchedule(context.Background())
	if err != nil {
		t.Fatalf("导出周排班表失败: %v", err)
	}
	if !strings.HasSuffix(filename, ".xlsx") {
		t.Errorf("文件名应以 .xlsx 结尾，实际 %s", filename)
	}

	f, err := excelize.OpenReader(bytes.NewReader(buf.Bytes()))
	if err != nil {
		t.Fatalf("导出内容应为合法 Excel: %v", err)
	}
	defer f.Close()

	sheetName := "周排班表"
	header, err := f.GetCellValue(sheetName, "A1")
	if err != nil || header != "员工" {
		t.Errorf("表头 A1 应为 员工，实际 %q (err=%v)", header, err)
	}
	monday, _ := f.GetCellValue(sheetName, "B1")
	if monday != "周一" {
		t.Errorf("表头 B1 应为 周一，实际 %q", monday)
	}

	name, _ := f.GetCellValue(sheetName, "A2")
	if name != "Jack Torrance" {
		t.Errorf("首行员工应为 Jack Torrance，实际 %q", name)
	}
	cell, _ := f.GetCellValue(sheetName, "B2")
	if cell != "09:00-17:00" {
		t.Errorf("emp-001 周一格应为 09:00-17:00，实际 %q", cell)
	}
	empty, _ := f.GetCellValue(sheetName, "C2")
	if empty != "-" {
		t.Errorf("emp-001 周二格应为 -，实际 %q", empty)
	}
}

func TestExportWeeklyScheduleEmpty(t *testing.T) {
	repo, _, _ := newTestRepository()
	svc := newTestExportService(repo)

	if _, _, err := svc.ExportWeeklySchedule(context.Background()); !errors.Is(err, ErrExportNoPlanning) {
		t.Errorf("无排班数据应返回 ErrExportNoPlanning，实际: %v", err)
	}
}

func TestExportScheduleICS(t *testing.T) {
	repo, slotRepo, _ := newTestRepository()
	svc := newTestExportService(repo)

	seedPlannedSlot(slotRepo, "emp-001", "2024-01-01")
	seedPlannedSlot(slotRepo, "emp-001", "2024-01-03")
	seedPlannedSlot(slotRepo, "emp-002", "2024-01-02") // 他人班次不应混入

	buf, filename, err := svc.ExportScheduleICS(context.Background(), "emp-001", "2024-01-01", "2024-01-07")
	if err != nil {
		t.Fatalf("导出 ICS 失败: %v", err)
	}
	if !strings.HasSuffix(filename, ".ics") {
		t.Errorf("文件名应以 .ics 结尾，实际 %s", filename)
	}

	content := buf.String()
	if !strings.Contains(content, "BEGIN:VCALENDAR") || !strings.Contains(content, "END:VCALENDAR") {
		t.Error("导出内容应为合法 iCalendar")
	}
	if got := strings.Count(content, "BEGIN:VEVENT"); got != 2 {
		t.Errorf("应包含 2 个日历事件，实际 %d", got)
	}
	if !strings.Contains(content, "Jack Torrance") {
		t.Error("事件摘要应包含员工姓名")
	}
	if strings.Contains(content, "emp-002") {
		t.Error("不应混入其他员工的班次")
	}
}

func TestExportScheduleICSErrors(t *testing.T) {
	repo, _, _ := newTestRepository()
	svc := newTestExportService(repo)

	if _, _, err := svc.ExportScheduleICS(context.Background(), "emp-001", "2024-01-07", "2024-01-01"); !errors.Is(err, ErrInvalidDateRange) {
		t.Errorf("起止颠倒应返回 ErrInvalidDateRange，实际: %v", err)
	}
	if _, _, err := svc.ExportScheduleICS(context.Background(), "emp-001", "2024-01-01", "2024-01-07"); !errors.Is(err, ErrExportNoPlanning) {
		t.Errorf("区间内无班次应返回 ErrExportNoPlanning，实际: %v", err)
	}
}
