package paste

import "easypaste/input"

// Key 参与粘贴按键序列的按键
type Key int

const (
	KeyCtrl Key = iota
	KeyAlt
	KeyShift
	KeyMeta
	KeyV
)

// KeyEvent 一次按下或抬起
type KeyEvent struct {
	Key  Key
	Down bool
}

// PlanChord 根据派发时刻的修饰键状态规划粘贴按键序列（Windows为Ctrl+V）
//
// 规则：
//   - Alt 按着时先抬起、结束后按回，Alt 会干扰Windows上的粘贴；
//   - Ctrl 没按着时补 Ctrl 按下/抬起；已按着时只发 V，不动用户的 Ctrl。
//
// 整个序列一次性批量派发
func PlanChord(mods input.Modifiers) []KeyEvent {
	var seq []KeyEvent

	if mods.Alt {
		seq = append(seq, KeyEvent{KeyAlt, false})
	}

	if mods.Ctrl {
		seq = append(seq,
			KeyEvent{KeyV, true},
			KeyEvent{KeyV, false},
		)
	} else {
		seq = append(seq,
			KeyEvent{KeyCtrl, true},
			KeyEvent{KeyV, true},
			KeyEvent{KeyV, false},
			KeyEvent{KeyCtrl, false},
		)
	}

	if mods.Alt {
		seq = append(seq, KeyEvent{KeyAlt, true})
	}
	return seq
}
