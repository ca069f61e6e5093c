package storage

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"easypaste/config"
)

// newTestHistory 在临时目录里开一个SQLite历史仓库
func newTestHistory(t *testing.T) *History {
	t.Helper()

	db, err := Open(&config.StorageConfig{
		Type:    config.StorageTypeSQLite,
		DataDir: t.TempDir(),
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = Close(db) })

	settings := NewSettings(db)
	require.NoError(t, settings.EnsureDefaults(100, true, true))
	return NewHistory(db, settings)
}

func contents(t *testing.T, h *History) []string {
	t.Helper()
	items, err := h.List(0)
	require.NoError(t, err)
	out := make([]string, 0, len(items))
	for _, item := range items {
		out = append(out, item.Content)
	}
	return out
}

func TestAddNewItemGoesToFront(t *testing.T) {
	h := newTestHistory(t)

	added, err := h.Add("A", "", true)
	require.NoError(t, err)
	assert.True(t, added)

	added, err = h.Add("B", "", true)
	require.NoError(t, err)
	assert.True(t, added)

	assert.Equal(t, []string{"B", "A"}, contents(t, h))
}

func TestAddRejectsWhitespace(t *testing.T) {
	h := newTestHistory(t)

	for _, content := range []string{"", "   ", " \n\t "} {
		added, err := h.Add(content, "", true)
		require.NoError(t, err)
		assert.False(t, added)
	}
	assert.Empty(t, contents(t, h))
}

func TestAddDuplicateWithoutMoveIsNoop(t *testing.T) {
	h := newTestHistory(t)
	for _, c := range []string{"C", "B", "A"} {
		_, err := h.Add(c, "", true)
		require.NoError(t, err)
	}

	added, err := h.Add("C", "", false)
	require.NoError(t, err)
	assert.False(t, added)
	assert.Equal(t, []string{"A", "B", "C"}, contents(t, h))
}

func TestAddDuplicateMovesToFront(t *testing.T) {
	h := newTestHistory(t)
	for _, c := range []string{"C", "B", "A"} {
		_, err := h.Add(c, "", true)
		require.NoError(t, err)
	}

	added, err := h.Add("C", "", true)
	require.NoError(t, err)
	assert.False(t, added, "重复内容不算新记录")
	assert.Equal(t, []string{"C", "A", "B"}, contents(t, h))

	// 历史中同一内容至多一条
	items, err := h.List(0)
	require.NoError(t, err)
	assert.Len(t, items, 3)
}

func TestMoveToFrontIfExists(t *testing.T) {
	h := newTestHistory(t)
	for _, c := range []string{"C", "B", "A"} {
		_, err := h.Add(c, "", true)
		require.NoError(t, err)
	}

	require.NoError(t, h.MoveToFrontIfExists("B"))
	assert.Equal(t, []string{"B", "A", "C"}, contents(t, h))

	// 不存在的内容什么都不做
	require.NoError(t, h.MoveToFrontIfExists("X"))
	assert.Equal(t, []string{"B", "A", "C"}, contents(t, h))
}

func TestListRewritesIDToIndex(t *testing.T) {
	h := newTestHistory(t)
	for _, c := range []string{"C", "B", "A"} {
		_, err := h.Add(c, "", true)
		require.NoError(t, err)
	}

	items, err := h.List(0)
	require.NoError(t, err)
	for i, item := range items {
		assert.Equal(t, int64(i), item.ID)
	}
}

func TestHistoryLimitEviction(t *testing.T) {
	h := newTestHistory(t)
	require.NoError(t, h.SetHistoryLimit(3))

	for _, c := range []string{"1", "2", "3", "4"} {
		_, err := h.Add(c, "", true)
		require.NoError(t, err)
	}

	assert.Equal(t, []string{"4", "3", "2"}, contents(t, h))
}

func TestSetHistoryLimitEvictsImmediately(t *testing.T) {
	h := newTestHistory(t)
	for _, c := range []string{"1", "2", "3", "4", "5"} {
		_, err := h.Add(c, "", true)
		require.NoError(t, err)
	}

	require.NoError(t, h.SetHistoryLimit(2))
	assert.Equal(t, []string{"5", "4"}, contents(t, h))
	assert.Equal(t, 2, h.HistoryLimit())
}

func TestDeleteByIndex(t *testing.T) {
	h := newTestHistory(t)
	for _, c := range []string{"C", "B", "A"} {
		_, err := h.Add(c, "", true)
		require.NoError(t, err)
	}

	require.NoError(t, h.DeleteByIndex(1))
	assert.Equal(t, []string{"A", "C"}, contents(t, h))

	err := h.DeleteByIndex(9)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMoveItem(t *testing.T) {
	h := newTestHistory(t)
	for _, c := range []string{"D", "C", "B", "A"} {
		_, err := h.Add(c, "", true)
		require.NoError(t, err)
	}
	// 此刻顺序 A B C D

	require.NoError(t, h.MoveItem(0, 2))
	assert.Equal(t, []string{"B", "C", "A", "D"}, contents(t, h))

	require.NoError(t, h.MoveItem(3, 0))
	assert.Equal(t, []string{"D", "B", "C", "A"}, contents(t, h))

	err := h.MoveItem(9, 0)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestReorder(t *testing.T) {
	h := newTestHistory(t)
	for _, c := range []string{"C", "B", "A"} {
		_, err := h.Add(c, "", true)
		require.NoError(t, err)
	}

	require.NoError(t, h.Reorder([]string{"C", "A", "B"}))
	assert.Equal(t, []string{"C", "A", "B"}, contents(t, h))

	// 未列出的记录保持相对顺序排在其后
	require.NoError(t, h.Reorder([]string{"B"}))
	assert.Equal(t, []string{"B", "C", "A"}, contents(t, h))
}

func TestClearAll(t *testing.T) {
	h := newTestHistory(t)
	for _, c := range []string{"B", "A"} {
		_, err := h.Add(c, "", true)
		require.NoError(t, err)
	}

	require.NoError(t, h.ClearAll())
	assert.Empty(t, contents(t, h))
}

func TestSearch(t *testing.T) {
	h := newTestHistory(t)
	for _, c := range []string{"hello world", "foo bar", "Hello again"} {
		_, err := h.Add(c, "", true)
		require.NoError(t, err)
	}

	items, err := h.Search("hello")
	require.NoError(t, err)
	assert.Len(t, items, 2)

	items, err = h.Search("")
	require.NoError(t, err)
	assert.Len(t, items, 3)
}
