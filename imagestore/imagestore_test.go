package imagestore

import (
	"bytes"
	"encoding/base64"
	"image"
	"image/color"
	"image/png"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"easypaste/config"
	"easypaste/storage"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()

	dir := t.TempDir()
	db, err := storage.Open(&config.StorageConfig{
		Type:    config.StorageTypeSQLite,
		DataDir: dir,
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = storage.Close(db) })

	s, err := New(db, dir)
	require.NoError(t, err)
	return s
}

// pngDataURL 造一张小PNG并编码为 data URL
func pngDataURL(t *testing.T, c color.Color) (string, []byte) {
	t.Helper()

	img := image.NewRGBA(image.Rect(0, 0, 2, 2))
	for x := 0; x < 2; x++ {
		for y := 0; y < 2; y++ {
			img.Set(x, y, c)
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))

	payload := buf.Bytes()
	return "data:image/png;base64," + base64.StdEncoding.EncodeToString(payload), payload
}

func TestSaveAndRoundTrip(t *testing.T) {
	s := newTestStore(t)

	url, payload := pngDataURL(t, color.RGBA{R: 255, A: 255})
	record, err := s.SaveDataURL(url)
	require.NoError(t, err)
	assert.Len(t, record.ID, idLength)
	assert.Equal(t, "png", record.Format)

	// 文件按原始字节落盘，还原出的 data URL 与输入一致
	got, err := s.DataURL(record.ID)
	require.NoError(t, err)
	assert.Equal(t, url, got)

	onDisk, err := os.ReadFile(record.Path)
	require.NoError(t, err)
	assert.Equal(t, payload, onDisk)
}

func TestContentAddressDedup(t *testing.T) {
	s := newTestStore(t)

	url, _ := pngDataURL(t, color.RGBA{G: 255, A: 255})
	first, err := s.SaveDataURL(url)
	require.NoError(t, err)
	second, err := s.SaveDataURL(url)
	require.NoError(t, err)

	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, first.Path, second.Path)

	// 不同内容得到不同ID
	other, _ := pngDataURL(t, color.RGBA{B: 255, A: 255})
	third, err := s.SaveDataURL(other)
	require.NoError(t, err)
	assert.NotEqual(t, first.ID, third.ID)
}

func TestSaveRejectsMalformedInput(t *testing.T) {
	s := newTestStore(t)

	cases := []string{
		"hello",                          // 不是 data URL
		"data:image/png;base64,!!!!",     // 非法 base64
		"data:image/png;base64,",         // 空数据
		"data:image/;base64,aGVsbG8=",    // 缺少格式
		"data:image/png;base64,aGVsbG8=", // 不是图片字节
	}
	for _, input := range cases {
		_, err := s.SaveDataURL(input)
		assert.ErrorIs(t, err, ErrDecode, input)
	}
}

func TestCopyReturnsSameID(t *testing.T) {
	s := newTestStore(t)

	url, _ := pngDataURL(t, color.RGBA{R: 1, G: 2, B: 3, A: 255})
	record, err := s.SaveDataURL(url)
	require.NoError(t, err)

	id, err := s.Copy(record.ID)
	require.NoError(t, err)
	assert.Equal(t, record.ID, id)

	_, err = s.Copy("deadbeef00000000")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestFilePath(t *testing.T) {
	s := newTestStore(t)

	url, _ := pngDataURL(t, color.RGBA{A: 255})
	record, err := s.SaveDataURL(url)
	require.NoError(t, err)

	path, err := s.FilePath(record.ID)
	require.NoError(t, err)
	assert.Equal(t, record.Path, path)

	_, err = s.FilePath("no-such-image000")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestGetMissing(t *testing.T) {
	s := newTestStore(t)

	_, err := s.Get("0000000000000000")
	assert.ErrorIs(t, err, ErrNotFound)
	assert.NotErrorIs(t, err, gorm.ErrRecordNotFound)
}
