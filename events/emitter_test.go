package events

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEmitReachesAllSubscribers(t *testing.T) {
	e := NewEmitter()
	a := e.Subscribe()
	b := e.Subscribe()

	e.Emit(ClipboardChanged)

	assert.Equal(t, ClipboardChanged, <-a)
	assert.Equal(t, ClipboardChanged, <-b)
}

func TestEmitNeverBlocksOnFullSubscriber(t *testing.T) {
	e := NewEmitter()
	ch := e.Subscribe()

	// 塞满缓冲后继续广播不得阻塞
	for i := 0; i < 32; i++ {
		e.Emit(ClipboardChanged)
	}

	n := 0
	for {
		select {
		case <-ch:
			n++
			continue
		default:
		}
		break
	}
	assert.Equal(t, 16, n, "超出缓冲的事件被丢弃")
}
