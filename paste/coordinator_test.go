package paste

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"easypaste/core"
	"easypaste/input"
	"easypaste/model"
)

// fakeDevice 剪贴板替身
type fakeDevice struct {
	text     string
	image    []byte
	writeErr error
}

func (f *fakeDevice) ReadText() string  { return f.text }
func (f *fakeDevice) ReadImage() []byte { return f.image }

func (f *fakeDevice) WriteText(text string) error {
	if f.writeErr != nil {
		return f.writeErr
	}
	f.text = text
	return nil
}

func (f *fakeDevice) WriteImage(data []byte) error {
	if f.writeErr != nil {
		return f.writeErr
	}
	f.image = data
	return nil
}

// recordingDispatcher 记录派发的序列和派发时刻的标志状态
type recordingDispatcher struct {
	state          *core.State
	seq            []KeyEvent
	pastingFlagSet bool
	err            error
}

func (r *recordingDispatcher) Dispatch(events []KeyEvent) error {
	r.seq = events
	r.pastingFlagSet = r.state.Pasting.Load()
	return r.err
}

func newTestCoordinator(dev *fakeDevice, disp *recordingDispatcher,
	mods input.Modifiers) (*Coordinator, *core.State) {
	state := core.NewState()
	disp.state = state
	probe := func() input.Snapshot { return input.Snapshot{Modifiers: mods} }
	c := New(dev, nil, state, probe, disp, nil)
	c.SetSettleDelay(time.Millisecond)
	return c, state
}

func TestPasteWritesTextAndDispatchesChord(t *testing.T) {
	dev := &fakeDevice{}
	disp := &recordingDispatcher{}
	c, state := newTestCoordinator(dev, disp, input.Modifiers{})

	require.NoError(t, c.Paste("hello", ""))

	assert.Equal(t, "hello", dev.text)
	assert.Equal(t, PlanChord(input.Modifiers{}), disp.seq)
	assert.True(t, disp.pastingFlagSet, "派发按键时标志必须已置起")
	assert.False(t, state.Pasting.Load(), "结束后标志必须清除")
}

func TestPasteHonorsHeldModifiers(t *testing.T) {
	dev := &fakeDevice{}
	disp := &recordingDispatcher{}
	c, _ := newTestCoordinator(dev, disp, input.Modifiers{Alt: true})

	require.NoError(t, c.Paste("x", ""))
	assert.Equal(t, PlanChord(input.Modifiers{Alt: true}), disp.seq)
}

func TestPasteClipboardFailureClearsFlag(t *testing.T) {
	dev := &fakeDevice{writeErr: errors.New("剪贴板被占用")}
	disp := &recordingDispatcher{}
	c, state := newTestCoordinator(dev, disp, input.Modifiers{})

	err := c.Paste("hello", "")
	assert.ErrorIs(t, err, ErrClipboard)
	assert.Nil(t, disp.seq, "写剪贴板失败时不得派发按键")
	assert.False(t, state.Pasting.Load())
}

func TestPasteDispatchFailureClearsFlag(t *testing.T) {
	dev := &fakeDevice{}
	disp := &recordingDispatcher{err: errors.New("注入被拦截")}
	c, state := newTestCoordinator(dev, disp, input.Modifiers{})

	err := c.Paste("hello", "")
	assert.ErrorIs(t, err, ErrInput)
	assert.False(t, state.Pasting.Load())
}

func TestPasteFileListWritesPaths(t *testing.T) {
	dev := &fakeDevice{}
	disp := &recordingDispatcher{}
	c, _ := newTestCoordinator(dev, disp, input.Modifiers{})

	content := model.FileList([]string{"/a/b.txt", "/c/d.txt"})
	require.NoError(t, c.Paste(content, ""))
	assert.Equal(t, "/a/b.txt\n/c/d.txt", dev.text)
}

func TestPasteInlineImage(t *testing.T) {
	dev := &fakeDevice{}
	disp := &recordingDispatcher{}
	c, _ := newTestCoordinator(dev, disp, input.Modifiers{})

	// aGVsbG8= → "hello"，协调器不关心字节是否真是图片
	require.NoError(t, c.Paste("data:image/png;base64,aGVsbG8=", ""))
	assert.Equal(t, []byte("hello"), dev.image)
}
