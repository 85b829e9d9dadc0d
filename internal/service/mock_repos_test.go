package service

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"time"

	"gorm.io/gorm"

	"overlook-hotel/backend/internal/model"
	"overlook-hotel/backend/internal/repository"
)

// ── 内存版 Repository 测试替身 ──

type mockSlotRepo struct {
	slots  []model.WorkdaySlot
	nextID int
}

func (m *mockSlotRepo) find(employeeID string, workDate time.Time, shiftCode int) int {
	for i := range m.slots {
		s := &m.slots[i]
		if s.EmployeeID == employeeID && s.WorkDate.Equal(workDate) && s.ShiftCode == shiftCode {
			return i
		}
	}
	return -1
}

func (m *mockSlotRepo) Upsert(_ context.Context, slot *model.WorkdaySlot) error {
	if i := m.find(slot.EmployeeID, slot.WorkDate, slot.ShiftCode); i >= 0 {
		existing := &m.slots[i]
		existing.PlannedStart = slot.PlannedStart
		existing.PlannedEnd = slot.PlannedEnd
		existing.PlannedBreakMinutes = slot.PlannedBreakMinutes
		existing.ClockIn = slot.ClockIn
		existing.ClockOut = slot.ClockOut
		existing.IdleMinutes = slot.IdleMinutes
		return nil
	}
	m.nextID++
	stored := *slot
	stored.SlotID = fmt.Sprintf("slot-%d", m.nextID)
	m.slots = append(m.slots, stored)
	return nil
}

func (m *mockSlotRepo) GetByKey(_ context.Context, employeeID string, workDate time.Time, shiftCode int) (*model.WorkdaySlot, error) {
	if i := m.find(employeeID, workDate, shiftCode); i >= 0 {
		s := m.slots[i]
		return &s, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockSlotRepo) ListByEmployee(_ context.Context, employeeID string) ([]model.WorkdaySlot, error) {
	var out []model.WorkdaySlot
	for _, s := range m.slots {
		if s.EmployeeID == employeeID {
			out = append(out, s)
		}
	}
	sortSlots(out)
	return out, nil
}

func (m *mockSlotRepo) ListByEmployeeAndDate(_ context.Context, employeeID string, workDate time.Time) ([]model.WorkdaySlot, error) {
	var out []model.WorkdaySlot
	for _, s := range m.slots {
		if s.EmployeeID == employeeID && s.WorkDate.Equal(workDate) {
			out = append(out, s)
		}
	}
	sortSlots(out)
	return out, nil
}

func (m *mockSlotRepo) ListByDateRange(_ context.Context, start, end time.Time) ([]model.WorkdaySlot, error) {
	var out []model.WorkdaySlot
	for _, s := range m.slots {
		if !s.WorkDate.Before(start) && !s.WorkDate.After(end) {
			out = append(out, s)
		}
	}
	sortSlots(out)
	return out, nil
}

func (m *mockSlotRepo) ListEmployeeIDs(_ context.Context) ([]string, error) {
	seen := make(map[string]bool)
	var ids []string
	for _, s := range m.slots {
		if !seen[s.EmployeeID] {
			seen[s.EmployeeID] = true
			ids = append(ids, s.EmployeeID)
		}
	}
	sort.Strings(ids)
	return ids, nil
}

func (m *mockSlotRepo) DeleteByKey(_ context.Context, employeeID string, workDate time.Time, shiftCode int) error {
	if i := m.find(employeeID, workDate, shiftCode); i >= 0 {
		m.slots = append(m.slots[:i], m.slots[i+1:]...)
	}
	return nil
}

func (m *mockSlotRepo) DeleteByEmployee(_ context.Context, employeeID string) error {
	kept := m.slots[:0]
	for _, s := range m.slots {
		if s.EmployeeID != employeeID {
			kept = append(kept, s)
		}
	}
	m.slots = kept
	return nil
}

func (m *mockSlotRepo) DeleteByEmployeeAndDate(_ context.Context, employeeID string, workDate time.Time) error {
	kept := m.slots[:0]
	for _, s := range m.slots {
		if !(s.EmployeeID == employeeID && s.WorkDate.Equal(workDate)) {
			kept = append(kept, s)
		}
	}
	m.slots = kept
	return nil
}

func (m *mockSlotRepo) ReplaceForEmployee(ctx context.Context, employeeID string, slots []model.WorkdaySlot) error {
	if err := m.DeleteByEmployee(ctx, employeeID); err != nil {
		return err
	}
	for i := range slots {
		if err := m.Upsert(ctx, &slots[i]); err != nil {
			return err
		}
	}
	return nil
}

func sortSlots(slots []model.WorkdaySlot) {
	sort.Slice(slots, func(i, j int) bool {
		if !slots[i].WorkDate.Equal(slots[j].WorkDate) {
			return slots[i].WorkDate.Before(slots[j].WorkDate)
		}
		return slots[i].ShiftCode < slots[j].ShiftCode
	})
}

type mockEmployeeDir struct {
	employees map[string]model.Employee
}

func (m *mockEmployeeDir) Exists(_ context.Context, employeeID string) (bool, error) {
	_, ok := m.employees[employeeID]
	return ok, nil
}

func (m *mockEmployeeDir) GetByID(_ context.Context, employeeID string) (*model.Employee, error) {
	emp, ok := m.employees[employeeID]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return &emp, nil
}

// mockViewCache 内存版视图缓存，记录删除过的 key 便于断言失效行为
type mockViewCache struct {
	store   map[string][]byte
	deleted []string
}

func newMockViewCache() *mockViewCache {
	return &mockViewCache{store: make(map[string][]byte)}
}

func (m *mockViewCache) GetJSON(_ context.Context, key string, dest interface{}) (bool, error) {
	data, ok := m.store[key]
	if !ok {
		return false, nil
	}
	return true, json.Unmarshal(data, dest)
}

func (m *mockViewCache) SetJSON(_ context.Context, key string, value interface{}, _ time.Duration) error {
	data, err := json.Marshal(value)
	if err != nil {
		return err
	}
	m.store[key] = data
	return nil
}

func (m *mockViewCache) Delete(_ context.Context, keys ...string) error {
	for _, k := range keys {
		delete(m.store, k)
		m.deleted = append(m.deleted, k)
	}
	return nil
}

// ── 测试夹具 ──

func newTestRepository() (*repository.Repository, *mockSlotRepo, *mockEmployeeDir) {
	slotRepo := &mockSlotRepo{}
	empDir := &mockEmployeeDir{employees: map[string]model.Employee{
		"emp-001": {EmployeeID: "emp-001", FirstName: "Jack", LastName: "Torrance", Role: "employee"},
		"emp-002": {EmployeeID: "emp-002", FirstName: "Wendy", LastName: "Torrance", Role: "manager"},
	}}
	return &repository.Repository{Slot: slotRepo, Employee: empDir}, slotRepo, empDir
}

// fixedNow 2024-01-01 是周一，便于推算各星期的落点日期
var fixedNow = func() time.Time {
	return time.Date(2024, 1, 1, 10, 30, 0, 0, time.UTC)
}

func dateOf(s string) time.Time {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return t
}
