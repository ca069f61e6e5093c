package sysclip

import (
	"errors"

	atotto "github.com/atotto/clipboard"
)

// ErrImageUnsupported 纯文本模式不支持图片
var ErrImageUnsupported = errors.New("当前剪贴板实现不支持图片")

// textOnlyDevice atotto/clipboard 的纯文本降级实现
type textOnlyDevice struct{}

func (textOnlyDevice) ReadText() string {
	text, err := atotto.ReadAll()
	if err != nil {
		return ""
	}
	return text
}

func (textOnlyDevice) ReadImage() []byte {
	return nil
}

func (textOnlyDevice) WriteText(text string) error {
	return atotto.WriteAll(text)
}

func (textOnlyDevice) WriteImage([]byte) error {
	return ErrImageUnsupported
}
