//go:build windows

package input

import (
	"unsafe"

	"golang.org/x/sys/windows"
)

var (
	user32               = windows.NewLazySystemDLL("user32.dll")
	procGetAsyncKeyState = user32.NewProc("GetAsyncKeyState")
	procGetCursorPos     = user32.NewProc("GetCursorPos")
)

// 虚拟键码
const (
	vkShift   = 0x10
	vkControl = 0x11
	vkMenu    = 0x12 // Alt
	vkLWin    = 0x5B
	vkRWin    = 0x5C
)

type point struct {
	X int32
	Y int32
}

// keyDown 读取按键的瞬时按下状态（高位为1表示按下）
func keyDown(vk int) bool {
	ret, _, _ := procGetAsyncKeyState.Call(uintptr(vk))
	return ret&0x8000 != 0
}

func probe() Snapshot {
	var pt point
	procGetCursorPos.Call(uintptr(unsafe.Pointer(&pt)))

	return Snapshot{
		Modifiers: Modifiers{
			Ctrl:  keyDown(vkControl),
			Alt:   keyDown(vkMenu),
			Shift: keyDown(vkShift),
			Meta:  keyDown(vkLWin) || keyDown(vkRWin),
		},
		CursorX: int(pt.X),
		CursorY: int(pt.Y),
	}
}
