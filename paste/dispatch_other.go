//go:build !windows

package paste

import "errors"

// ErrUnsupported 当前平台未实现按键模拟
var ErrUnsupported = errors.New("当前平台未实现按键模拟")

type unsupportedDispatcher struct{}

// NewDispatcher 非Windows平台返回占位实现
// 跨平台移植需要按平台各写一个派发器（macOS为Cmd+V）
func NewDispatcher() Dispatcher {
	return unsupportedDispatcher{}
}

func (unsupportedDispatcher) Dispatch([]KeyEvent) error {
	return ErrUnsupported
}
