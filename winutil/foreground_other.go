//go:build !windows

// Package winutil 查询前台窗口信息
package winutil

// ForegroundWindowClass 非Windows平台返回空串
func ForegroundWindowClass() string {
	return ""
}

// ForegroundWindowTitle 非Windows平台返回空串
func ForegroundWindowTitle() string {
	return ""
}
