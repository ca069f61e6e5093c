// Package monitor 剪贴板监听循环
// 单个后台协程以200ms为周期轮询操作系统剪贴板，把新内容写入历史仓库；
// 粘贴协调器置起的 Pasting 标志用来区分用户复制和程序自身写入
package monitor

import (
	"encoding/base64"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"easypaste/core"
	"easypaste/events"
	"easypaste/imagestore"
	"easypaste/model"
	"easypaste/storage"
	"easypaste/sysclip"
)

// DefaultInterval 轮询周期
const DefaultInterval = 200 * time.Millisecond

// Monitor 剪贴板监听器
type Monitor struct {
	clip     sysclip.Device
	history  *storage.History
	images   *imagestore.Store
	state    *core.State
	emitter  *events.Emitter
	interval time.Duration
	onCopy   func() // 采集到新复制时的提示音回调，外部注入
	done     chan struct{}
}

// New 创建剪贴板监听器
// onCopy 可为 nil；interval 仅测试需要缩短，传0使用默认周期
func New(clip sysclip.Device, history *storage.History, images *imagestore.Store,
	state *core.State, emitter *events.Emitter, onCopy func(), interval time.Duration) *Monitor {
	if interval <= 0 {
		interval = DefaultInterval
	}
	return &Monitor{
		clip:     clip,
		history:  history,
		images:   images,
		state:    state,
		emitter:  emitter,
		interval: interval,
		onCopy:   onCopy,
	}
}

// Start 启动监听循环
func (m *Monitor) Start() error {
	if m.state.MonitorRunning.Load() {
		return errors.New("监听器已在运行中")
	}

	m.state.MonitorRunning.Store(true)
	m.done = make(chan struct{})
	go m.run()
	return nil
}

// Stop 停止监听，循环在一个周期内观察到标志并退出
func (m *Monitor) Stop() {
	if !m.state.MonitorRunning.Load() {
		return
	}
	m.state.MonitorRunning.Store(false)
	if m.done != nil {
		<-m.done
	}
}

// IsRunning 监听循环是否存活
func (m *Monitor) IsRunning() bool {
	return m.state.MonitorRunning.Load()
}

func (m *Monitor) run() {
	defer close(m.done)
	defer m.state.MonitorRunning.Store(false)

	logrus.Info("剪贴板监听已启动")
	for m.state.MonitorRunning.Load() {
		if m.state.MonitoringEnabled.Load() {
			m.tick()
		}
		time.Sleep(m.interval)
	}
	logrus.Info("剪贴板监听已退出")
}

// tick 单次轮询：读取→比较→入库→通知
// 所有错误吞掉只记日志，循环不因瞬时错误而死
func (m *Monitor) tick() {
	content := m.readContent()
	if content == "" {
		return
	}
	if content == m.state.LastSeen() {
		return
	}
	m.state.SetLastSeen(content)

	pasting := m.state.Pasting.Load()
	_, err := m.history.Add(content, "", !pasting)
	if err != nil {
		logrus.Warnf("写入历史记录失败: %v", err)
	}

	// 新增和重复前移都算一次用户复制，程序性粘贴不算
	userCopy := !pasting && err == nil && strings.TrimSpace(content) != ""
	if userCopy && m.onCopy != nil {
		m.onCopy()
	}

	// 无论是否入库都通知UI，便于展示层自行刷新
	m.emitter.Emit(events.ClipboardChanged)
}

// readContent 读取剪贴板并归一化为历史内容串
// 优先文本；无文本且开启图片采集时读图片
func (m *Monitor) readContent() string {
	text := m.clip.ReadText()
	if text != "" {
		if paths, ok := detectFilePaths(text); ok {
			return model.FileList(paths)
		}
		return text
	}

	if !m.state.SaveImagesEnabled.Load() {
		return ""
	}
	data := m.clip.ReadImage()
	if len(data) == 0 {
		return ""
	}

	dataURL := "data:image/png;base64," + base64.StdEncoding.EncodeToString(data)
	record, err := m.images.SaveDataURL(dataURL)
	if err != nil {
		// 存储失败退回内联数据，内容不丢
		logrus.Warnf("保存剪贴板图片失败，改用内联数据: %v", err)
		return dataURL
	}
	return model.ImageRef(record.ID)
}

// detectFilePaths 判断文本是否为复制的文件路径列表
func detectFilePaths(text string) ([]string, bool) {
	if text == "" {
		return nil, false
	}

	// 常见的路径分隔方式
	var parts []string
	for _, sep := range []string{"\r\n", "\n", ";", "\t"} {
		if split := strings.Split(text, sep); len(split) > 1 {
			parts = split
			break
		}
	}
	if parts == nil {
		parts = []string{text}
	}

	var paths []string
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		if !looksLikePath(p) || !fileOrDirExists(p) {
			return nil, false
		}
		paths = append(paths, p)
	}
	if len(paths) == 0 {
		return nil, false
	}
	return paths, true
}

// looksLikePath 粗筛，避免对普通短文本做磁盘访问
func looksLikePath(s string) bool {
	return strings.ContainsAny(s, `/\`)
}

func fileOrDirExists(path string) bool {
	abs, err := filepath.Abs(path)
	if err != nil {
		return false
	}
	_, err = os.Stat(abs)
	return !os.IsNotExist(err)
}
