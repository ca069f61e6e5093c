package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestImageRefRoundTrip(t *testing.T) {
	ref := ImageRef("abcd1234")
	assert.True(t, IsImageRef(ref))
	assert.Equal(t, "abcd1234", ImageRefID(ref))

	assert.False(t, IsImageRef("纯文本"))
	assert.Equal(t, "", ImageRefID("纯文本"))
}

func TestContentKinds(t *testing.T) {
	assert.True(t, IsDataURL("data:image/png;base64,xxxx"))
	assert.False(t, IsDataURL("data:text/plain;base64,xxxx"))

	assert.True(t, IsFileList("files:/a;/b"))
	assert.False(t, IsFileList("file:/a"))
}

func TestFileListParsing(t *testing.T) {
	content := FileList([]string{"/tmp/a.txt", "/tmp/b/c.png"})
	assert.Equal(t, "files:/tmp/a.txt;/tmp/b/c.png", content)

	assert.Equal(t, []string{"/tmp/a.txt", "/tmp/b/c.png"}, FileListPaths(content))
	assert.Equal(t, []string{"a.txt", "c.png"}, FileListNames(content))

	// 空白段被丢弃
	assert.Equal(t, []string{"/a"}, FileListPaths("files:/a; ;"))
	assert.Nil(t, FileListPaths("不是文件列表"))
}
