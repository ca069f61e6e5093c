// Package input 读取操作系统输入状态的瞬时快照
package input

// Modifiers 修饰键状态
type Modifiers struct {
	Ctrl  bool
	Alt   bool
	Shift bool
	Meta  bool
}

// Snapshot 调用时刻的修饰键状态和光标位置
type Snapshot struct {
	Modifiers
	CursorX int
	CursorY int
}

// Probe 读取当前快照，实现按平台选择
func Probe() Snapshot {
	return probe()
}
