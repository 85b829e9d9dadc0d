package shiftid

import (
	"errors"
	"testing"
)

// ── 往返性质 ──

func TestEncodeDecode_Roundtrip(t *testing.T) {
	for w := MinWeekday; w <= MaxWeekday; w++ {
		for s := MinSequence; s <= MaxSequence; s++ {
			for _, m := range []bool{false, true} {
				code, err := Encode(w, s, m)
				if err != nil {
					t.Fatalf("Encode(%d,%d,%v) 应成功: %v", w, s, m, err)
				}
				id, err := Decode(code)
				if err != nil {
					t.Fatalf("Decode(%d) 应成功: %v", code, err)
				}
				if id.BaseWeekday != w || id.SequenceIndex != s || id.IsManager != m {
					t.Errorf("往返失败: (%d,%d,%v) → %d → (%d,%d,%v)",
						w, s, m, code, id.BaseWeekday, id.SequenceIndex, id.IsManager)
				}
			}
		}
	}
}

func TestEncode_Collision(t *testing.T) {
	// 所有合法输入的编码必须互不相同
	seen := make(map[int]bool)
	for w := MinWeekday; w <= MaxWeekday; w++ {
		for s := MinSequence; s <= MaxSequence; s++ {
			for _, m := range []bool{false, true} {
				code, _ := Encode(w, s, m)
				if seen[code] {
					t.Fatalf("编码冲突: code=%d", code)
				}
				seen[code] = true
			}
		}
	}
}

// ── 越界拒绝 ──

func TestEncode_WeekdayOutOfRange(t *testing.T) {
	for _, w := range []int{0, 8, -1, 10} {
		if _, err := Encode(w, 0, false); !errors.Is(err, ErrWeekdayOutOfRange) {
			t.Errorf("Encode(weekday=%d) 期望 ErrWeekdayOutOfRange，实际: %v", w, err)
		}
	}
}

func TestEncode_SequenceOutOfRange(t *testing.T) {
	for _, s := range []int{-1, 10, 100} {
		if _, err := Encode(1, s, false); !errors.Is(err, ErrSequenceOutOfRange) {
			t.Errorf("Encode(seq=%d) 期望 ErrSequenceOutOfRange，实际: %v", s, err)
		}
	}
}

func TestDecode_InvalidCode(t *testing.T) {
	// 个位 0/8/9 不对应任何星期；负数与超出上界的值同样非法
	for _, code := range []int{0, -3, 8, 9, 20, 98, 99, 198, 200, 1000} {
		if _, err := Decode(code); !errors.Is(err, ErrInvalidShiftCode) {
			t.Errorf("Decode(%d) 期望 ErrInvalidShiftCode，实际: %v", code, err)
		}
	}
}

func TestDecode_KnownValues(t *testing.T) {
	cases := []struct {
		code    int
		weekday int
		seq     int
		manager bool
	}{
		{1, 1, 0, false},    // 周一首班
		{7, 7, 0, false},    // 周日首班
		{21, 1, 2, false},   // 周一第三班
		{101, 1, 0, true},   // 周一管理员班
		{197, 7, 9, true},   // 上界
	}
	for _, tc := range cases {
		id, err := Decode(tc.code)
		if err != nil {
			t.Fatalf("Decode(%d) 应成功: %v", tc.code, err)
		}
		if id.BaseWeekday != tc.weekday || id.SequenceIndex != tc.seq || id.IsManager != tc.manager {
			t.Errorf("Decode(%d) = (%d,%d,%v)，期望 (%d,%d,%v)",
				tc.code, id.BaseWeekday, id.SequenceIndex, id.IsManager, tc.weekday, tc.seq, tc.manager)
		}
	}
}
