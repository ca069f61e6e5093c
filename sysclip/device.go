// Package sysclip 封装对操作系统剪贴板的读写
// 默认走 golang.design/x/clipboard（文本+图片）；初始化失败时
// 退化为 atotto/clipboard 的纯文本实现，保证核心还能工作
package sysclip

import (
	"github.com/sirupsen/logrus"
	xclip "golang.design/x/clipboard"
)

// Device 操作系统剪贴板的统一接口
type Device interface {
	// ReadText 读取文本内容，剪贴板无文本时返回空串
	ReadText() string

	// ReadImage 读取图片内容（PNG字节），无图片时返回 nil
	ReadImage() []byte

	// WriteText 写入文本
	WriteText(text string) error

	// WriteImage 写入图片（PNG字节）
	WriteImage(data []byte) error
}

// New 创建剪贴板设备
func New() Device {
	if err := xclip.Init(); err != nil {
		logrus.Warnf("剪贴板初始化失败，退化为纯文本模式: %v", err)
		return textOnlyDevice{}
	}
	return nativeDevice{}
}

// nativeDevice golang.design/x/clipboard 实现
type nativeDevice struct{}

func (nativeDevice) ReadText() string {
	return string(xclip.Read(xclip.FmtText))
}

func (nativeDevice) ReadImage() []byte {
	return xclip.Read(xclip.FmtImage)
}

func (nativeDevice) WriteText(text string) error {
	xclip.Write(xclip.FmtText, []byte(text))
	return nil
}

func (nativeDevice) WriteImage(data []byte) error {
	xclip.Write(xclip.FmtImage, data)
	return nil
}
