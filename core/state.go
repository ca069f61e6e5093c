// Package core 集中存放跨组件共享的进程级状态
// 监听循环与粘贴协调器通过同一个 State 实例协作，
// 测试可以各自创建独立实例而不必操作全局变量
package core

import (
	"sync"
	"sync/atomic"
)

// State 进程级状态
// 布尔标志用原子变量，正确性不依赖更强的内存序（监听周期200ms）；
// 最近内容串由互斥锁保护，临界区不跨I/O
type State struct {
	MonitorRunning    atomic.Bool // 监听循环是否存活
	MonitoringEnabled atomic.Bool // 是否采集剪贴板变化
	SaveImagesEnabled atomic.Bool // 是否采集图片内容
	Pasting           atomic.Bool // 程序性粘贴进行中，用于抑制自采集

	mu       sync.Mutex
	lastSeen string
}

// NewState 创建状态实例，监听与图片采集默认开启
func NewState() *State {
	s := &State{}
	s.MonitoringEnabled.Store(true)
	s.SaveImagesEnabled.Store(true)
	return s
}

// LastSeen 最近一次观察到的剪贴板内容
func (s *State) LastSeen() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastSeen
}

// SetLastSeen 记录最近观察到的剪贴板内容
func (s *State) SetLastSeen(content string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastSeen = content
}
