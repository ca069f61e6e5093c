//go:build windows

package paste

import (
	"fmt"
	"unsafe"

	"golang.org/x/sys/windows"
)

var (
	user32        = windows.NewLazySystemDLL("user32.dll")
	procSendInput = user32.NewProc("SendInput")
)

const (
	inputKeyboard  = 1
	keyeventfKeyUp = 0x0002
)

// 虚拟键码
const (
	vkShift   = 0x10
	vkControl = 0x11
	vkMenu    = 0x12 // Alt
	vkLWin    = 0x5B
	vkV       = 0x56
)

// keybdInput 对应 KEYBDINPUT，显式补齐使 dwExtraInfo 八字节对齐
type keybdInput struct {
	wVk         uint16
	wScan       uint16
	dwFlags     uint32
	time        uint32
	_           uint32
	dwExtraInfo uintptr
}

// winInput 对应 INPUT，补齐到联合体（MOUSEINPUT）的大小
type winInput struct {
	inputType uint32
	_         uint32
	ki        keybdInput
	_         [8]byte
}

// sendInputDispatcher SendInput 实现，整个序列一次系统调用注入
type sendInputDispatcher struct{}

// NewDispatcher 返回Windows按键派发器
func NewDispatcher() Dispatcher {
	return sendInputDispatcher{}
}

func (sendInputDispatcher) Dispatch(events []KeyEvent) error {
	if len(events) == 0 {
		return nil
	}

	inputs := make([]winInput, 0, len(events))
	for _, ev := range events {
		var flags uint32
		if !ev.Down {
			flags = keyeventfKeyUp
		}
		inputs = append(inputs, winInput{
			inputType: inputKeyboard,
			ki: keybdInput{
				wVk:     vkCode(ev.Key),
				dwFlags: flags,
			},
		})
	}

	n, _, callErr := procSendInput.Call(
		uintptr(len(inputs)),
		uintptr(unsafe.Pointer(&inputs[0])),
		unsafe.Sizeof(inputs[0]),
	)
	if int(n) != len(inputs) {
		return fmt.Errorf("SendInput 只注入了 %d/%d 个事件: %v", n, len(inputs), callErr)
	}
	return nil
}

func vkCode(k Key) uint16 {
	switch k {
	case KeyCtrl:
		return vkControl
	case KeyAlt:
		return vkMenu
	case KeyShift:
		return vkShift
	case KeyMeta:
		return vkLWin
	case KeyV:
		return vkV
	}
	return 0
}
