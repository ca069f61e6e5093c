// Package events 面向UI层的轻量事件通知
package events

import "sync"

// ClipboardChanged 剪贴板发生变化（无负载），新增、移动、
// 乃至被丢弃的变化都会触发
const ClipboardChanged = "clipboard-changed"

// Emitter 事件分发器，订阅者各持一条带缓冲的通道
type Emitter struct {
	mu   sync.Mutex
	subs []chan string
}

// NewEmitter 创建事件分发器
func NewEmitter() *Emitter {
	return &Emitter{}
}

// Subscribe 订阅事件，返回只读通道
func (e *Emitter) Subscribe() <-chan string {
	e.mu.Lock()
	defer e.mu.Unlock()

	ch := make(chan string, 16)
	e.subs = append(e.subs, ch)
	return ch
}

// Emit 向所有订阅者广播事件
// 订阅者的缓冲满时丢弃，绝不阻塞监听循环
func (e *Emitter) Emit(name string) {
	e.mu.Lock()
	defer e.mu.Unlock()

	for _, ch := range e.subs {
		select {
		case ch <- name:
		default:
		}
	}
}
