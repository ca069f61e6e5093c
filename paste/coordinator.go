// Package paste 程序性粘贴
// 协调器在写剪贴板前置起 Pasting 标志、稳定延时后清除，
// 监听循环据此不把这次变化当成新的用户复制。
// 已知脆弱点：标志是时间窗口式的，稳定延时必须大于监听周期，
// 否则粘贴会被误采集
package paste

import (
	"encoding/base64"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"easypaste/core"
	"easypaste/imagestore"
	"easypaste/input"
	"easypaste/model"
	"easypaste/sysclip"
)

// 预定义错误变量
var (
	ErrClipboard = errors.New("写入剪贴板失败")
	ErrInput     = errors.New("模拟按键失败")
)

const (
	// settleDelay 派发按键后的稳定延时，必须大于监听周期（200ms）
	settleDelay = 300 * time.Millisecond

	// fileManagerDelay 前台是文件管理器时写剪贴板后的额外等待
	fileManagerDelay = 200 * time.Millisecond
)

// Dispatcher 把按键序列一次性注入系统输入队列，按平台实现
type Dispatcher interface {
	Dispatch(events []KeyEvent) error
}

// Coordinator 粘贴协调器
type Coordinator struct {
	clip       sysclip.Device
	images     *imagestore.Store
	state      *core.State
	probe      func() input.Snapshot
	dispatcher Dispatcher
	foreground func() string // 前台窗口类名
	settle     time.Duration
}

// New 创建粘贴协调器
func New(clip sysclip.Device, images *imagestore.Store, state *core.State,
	probe func() input.Snapshot, dispatcher Dispatcher, foreground func() string) *Coordinator {
	if probe == nil {
		probe = input.Probe
	}
	if dispatcher == nil {
		dispatcher = NewDispatcher()
	}
	return &Coordinator{
		clip:       clip,
		images:     images,
		state:      state,
		probe:      probe,
		dispatcher: dispatcher,
		foreground: foreground,
		settle:     settleDelay,
	}
}

// SetSettleDelay 调整稳定延时，测试用
func (c *Coordinator) SetSettleDelay(d time.Duration) {
	c.settle = d
}

// Paste 把内容写入系统剪贴板并向前台应用派发粘贴按键
// Pasting 标志在所有退出路径上都会被清除
func (c *Coordinator) Paste(content, htmlContent string) error {
	c.state.Pasting.Store(true)
	defer c.state.Pasting.Store(false)

	if err := c.writeClipboard(content, htmlContent); err != nil {
		return fmt.Errorf("%w: %v", ErrClipboard, err)
	}

	// 文件管理器处理剪贴板较慢，先等它就绪
	if c.foreground != nil && isFileManager(c.foreground()) {
		time.Sleep(fileManagerDelay)
	}

	mods := c.probe().Modifiers
	if err := c.dispatcher.Dispatch(PlanChord(mods)); err != nil {
		return fmt.Errorf("%w: %v", ErrInput, err)
	}

	// 等监听循环有机会在标志置起期间观察到这次变化
	time.Sleep(c.settle)
	return nil
}

// writeClipboard 按内容类型写入系统剪贴板
func (c *Coordinator) writeClipboard(content, htmlContent string) error {
	if htmlContent != "" {
		// 系统剪贴板接口不支持HTML格式，边车只随仓库保存
		logrus.Debugf("丢弃HTML边车（%d字节），仅写入文本", len(htmlContent))
	}

	switch {
	case model.IsImageRef(content):
		if c.images == nil {
			return fmt.Errorf("图片仓库不可用")
		}
		dataURL, err := c.images.DataURL(model.ImageRefID(content))
		if err != nil {
			return err
		}
		return c.writeDataURL(dataURL)

	case model.IsDataURL(content):
		return c.writeDataURL(content)

	case model.IsFileList(content):
		// 文件列表以文本形式写出，由目标应用自行解释
		return c.clip.WriteText(strings.Join(model.FileListPaths(content), "\n"))

	default:
		return c.clip.WriteText(content)
	}
}

func (c *Coordinator) writeDataURL(dataURL string) error {
	sep := strings.Index(dataURL, ";base64,")
	if sep < 0 {
		return fmt.Errorf("无效的图片 data URL")
	}
	data, err := base64.StdEncoding.DecodeString(dataURL[sep+len(";base64,"):])
	if err != nil {
		return fmt.Errorf("图片数据解码失败: %w", err)
	}
	return c.clip.WriteImage(data)
}

// isFileManager 判断前台窗口类名是否为已知的文件管理器
func isFileManager(class string) bool {
	switch class {
	case "CabinetWClass", "WorkerW", "Progman":
		return true
	}
	return false
}
