package storage

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSettingsRoundTrip(t *testing.T) {
	s := NewSettings(newTestDB(t))

	assert.Equal(t, "fallback", s.Get("missing", "fallback"))

	require.NoError(t, s.Set("greeting", "你好"))
	assert.Equal(t, "你好", s.Get("greeting", ""))

	// 覆盖写
	require.NoError(t, s.Set("greeting", "再见"))
	assert.Equal(t, "再见", s.Get("greeting", ""))

	require.NoError(t, s.SetInt(KeyHistoryLimit, 42))
	assert.Equal(t, 42, s.GetInt(KeyHistoryLimit, 0))

	require.NoError(t, s.SetBool(KeyMonitoringEnabled, false))
	assert.False(t, s.GetBool(KeyMonitoringEnabled, true))
}

func TestEnsureDefaultsKeepsExistingValues(t *testing.T) {
	s := NewSettings(newTestDB(t))

	require.NoError(t, s.SetInt(KeyHistoryLimit, 7))
	require.NoError(t, s.EnsureDefaults(100, true, true))

	assert.Equal(t, 7, s.GetInt(KeyHistoryLimit, 0), "已有设置不被默认值覆盖")
	assert.True(t, s.GetBool(KeySaveImagesEnabled, false))
}
