package storage

import (
	"errors"
	"strconv"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"easypaste/model"
)

// 设置项键名
const (
	KeyHistoryLimit      = "history_limit"
	KeyMonitoringEnabled = "monitoring_enabled"
	KeySaveImagesEnabled = "save_images_enabled"
)

// Settings 数据库中的键值设置表
type Settings struct {
	db *gorm.DB
}

// NewSettings 创建设置访问器
func NewSettings(db *gorm.DB) *Settings {
	return &Settings{db: db}
}

// Get 读取设置项，不存在时返回 fallback
func (s *Settings) Get(name, fallback string) string {
	var row model.Setting
	err := s.db.First(&row, "name = ?", name).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return fallback
	}
	if err != nil {
		return fallback
	}
	return row.Val
}

// Set 写入设置项（存在则覆盖）
func (s *Settings) Set(name, val string) error {
	row := model.Setting{Name: name, Val: val}
	return s.db.Clauses(clause.OnConflict{UpdateAll: true}).Create(&row).Error
}

// GetInt 读取整数设置项
func (s *Settings) GetInt(name string, fallback int) int {
	v := s.Get(name, "")
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}

// SetInt 写入整数设置项
func (s *Settings) SetInt(name string, n int) error {
	return s.Set(name, strconv.Itoa(n))
}

// GetBool 读取布尔设置项
func (s *Settings) GetBool(name string, fallback bool) bool {
	v := s.Get(name, "")
	if v == "" {
		return fallback
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return fallback
	}
	return b
}

// SetBool 写入布尔设置项
func (s *Settings) SetBool(name string, b bool) error {
	return s.Set(name, strconv.FormatBool(b))
}

// EnsureDefaults 补齐缺失的默认设置，只写入不存在的键
func (s *Settings) EnsureDefaults(historyLimit int, monitoring, saveImages bool) error {
	defaults := map[string]string{
		KeyHistoryLimit:      strconv.Itoa(historyLimit),
		KeyMonitoringEnabled: strconv.FormatBool(monitoring),
		KeySaveImagesEnabled: strconv.FormatBool(saveImages),
	}
	for name, val := range defaults {
		var row model.Setting
		err := s.db.First(&row, "name = ?", name).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			if err := s.Set(name, val); err != nil {
				return err
			}
			continue
		}
		if err != nil {
			return err
		}
	}
	return nil
}
