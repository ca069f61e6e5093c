// Package app 组装核心组件并暴露给外壳（GUI/托盘）调用的接口
package app

import (
	"gorm.io/gorm"

	"easypaste/config"
	"easypaste/core"
	"easypaste/events"
	"easypaste/imagestore"
	"easypaste/model"
	"easypaste/monitor"
	"easypaste/paste"
	"easypaste/storage"
	"easypaste/sysclip"
	"easypaste/winutil"
)

// Options 可注入的外部协作者，零值即可运行
type Options struct {
	OnCopySound func()         // 采集到新复制时的提示音，nil 表示无声
	Clipboard   sysclip.Device // 测试替身，nil 时使用系统剪贴板
}

// Application 应用核心
type Application struct {
	config    *config.AppConfig
	db        *gorm.DB
	settings  *storage.Settings
	history   *storage.History
	quickText *storage.QuickText
	images    *imagestore.Store
	state     *core.State
	emitter   *events.Emitter
	monitor   *monitor.Monitor
	paster    *paste.Coordinator
}

// New 创建应用核心实例
func New(cfg *config.AppConfig, opts Options) (*Application, error) {
	db, err := storage.Open(&cfg.Storage)
	if err != nil {
		return nil, err
	}

	settings := storage.NewSettings(db)
	if err := settings.EnsureDefaults(cfg.HistoryLimit, cfg.EnableMonitoring, cfg.EnableSaveImages); err != nil {
		return nil, err
	}

	history := storage.NewHistory(db, settings)
	quickText, err := storage.NewQuickText(db)
	if err != nil {
		return nil, err
	}

	images, err := imagestore.New(db, cfg.Storage.DataDir)
	if err != nil {
		return nil, err
	}

	state := core.NewState()
	state.MonitoringEnabled.Store(history.IsMonitoringEnabled())
	state.SaveImagesEnabled.Store(history.IsSaveImagesEnabled())

	clip := opts.Clipboard
	if clip == nil {
		clip = sysclip.New()
	}

	emitter := events.NewEmitter()
	mon := monitor.New(clip, history, images, state, emitter, opts.OnCopySound, 0)
	paster := paste.New(clip, images, state, nil, nil, winutil.ForegroundWindowClass)

	return &Application{
		config:    cfg,
		db:        db,
		settings:  settings,
		history:   history,
		quickText: quickText,
		images:    images,
		state:     state,
		emitter:   emitter,
		monitor:   mon,
		paster:    paster,
	}, nil
}

// StartMonitor 启动剪贴板监听
func (a *Application) StartMonitor() error {
	return a.monitor.Start()
}

// StopMonitor 停止剪贴板监听
func (a *Application) StopMonitor() {
	a.monitor.Stop()
}

// IsMonitorRunning 监听循环是否存活
func (a *Application) IsMonitorRunning() bool {
	return a.monitor.IsRunning()
}

// Subscribe 订阅核心事件（clipboard-changed）
func (a *Application) Subscribe() <-chan string {
	return a.emitter.Subscribe()
}

// History 历史仓库
func (a *Application) History() *storage.History {
	return a.history
}

// QuickText 常用文本仓库
func (a *Application) QuickText() *storage.QuickText {
	return a.quickText
}

// Images 图片仓库
func (a *Application) Images() *imagestore.Store {
	return a.images
}

// PasteHistoryItem 粘贴指定下标的历史记录
func (a *Application) PasteHistoryItem(index int) error {
	item, err := a.history.Get(index)
	if err != nil {
		return err
	}
	return a.paster.Paste(item.Content, item.HTMLContent)
}

// PasteQuickText 粘贴指定的常用文本
func (a *Application) PasteQuickText(id string) error {
	item, err := a.quickText.Get(id)
	if err != nil {
		return err
	}
	return a.paster.Paste(item.Content, item.HTMLContent)
}

// PromoteHistoryItem 把历史记录提升为常用文本
func (a *Application) PromoteHistoryItem(index int) (*model.QuickTextItem, error) {
	return a.quickText.AddFromHistory(a.history, a.images, index)
}

// SetMonitoringEnabled 开关剪贴板采集，持久化并立即生效
func (a *Application) SetMonitoringEnabled(enabled bool) error {
	if err := a.settings.SetBool(storage.KeyMonitoringEnabled, enabled); err != nil {
		return err
	}
	a.state.MonitoringEnabled.Store(enabled)
	return nil
}

// SetSaveImagesEnabled 开关图片采集，持久化并立即生效
func (a *Application) SetSaveImagesEnabled(enabled bool) error {
	if err := a.settings.SetBool(storage.KeySaveImagesEnabled, enabled); err != nil {
		return err
	}
	a.state.SaveImagesEnabled.Store(enabled)
	return nil
}

// Close 停止监听并关闭存储
func (a *Application) Close() error {
	a.monitor.Stop()
	return storage.Close(a.db)
}
