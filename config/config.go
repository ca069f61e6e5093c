package config

import (
	"encoding/json"
	"os"
	"path/filepath"
)

// StorageType 存储类型
type StorageType string

const (
	StorageTypeSQLite StorageType = "sqlite"
	StorageTypeMySQL  StorageType = "mysql"
)

// StorageConfig 存储配置
type StorageConfig struct {
	Type       StorageType `json:"type"`
	DataDir    string      `json:"dataDir"`
	CustomPath bool        `json:"customPath"` // 是否使用自定义数据目录
	MySQL      MySQLConfig `json:"mySQL"`
}

// MySQLConfig MySQL数据库配置
type MySQLConfig struct {
	Host     string `json:"host"`
	Port     int    `json:"port"`
	User     string `json:"user"`
	Password string `json:"password"`
	Database string `json:"database"`
}

// LogConfig 日志配置
type LogConfig struct {
	Level      string `json:"level"`
	File       string `json:"file"`       // 为空时只输出到控制台
	MaxSizeMB  int    `json:"maxSizeMB"`  // 单个日志文件上限
	MaxBackups int    `json:"maxBackups"` // 保留的轮转文件数
}

// AppConfig 应用配置
type AppConfig struct {
	Storage          StorageConfig `json:"storage"`
	Log              LogConfig     `json:"log"`
	HistoryLimit     int           `json:"historyLimit"`     // 历史上限初始值，运行期以数据库设置为准
	EnableMonitoring bool          `json:"enableMonitoring"` // 是否开启剪贴板监听
	EnableSaveImages bool          `json:"enableSaveImages"` // 是否保存图片内容
}

// configPath 配置文件路径
func configPath() string {
	appDataDir, err := os.UserConfigDir()
	if err != nil {
		return filepath.Join(".", "config.json")
	}

	configDir := filepath.Join(appDataDir, "easypaste")
	if err := os.MkdirAll(configDir, 0755); err != nil {
		return filepath.Join(".", "config.json")
	}
	return filepath.Join(configDir, "config.json")
}

// defaultDataDir 默认数据目录
func defaultDataDir() string {
	appDataDir, err := os.UserConfigDir()
	if err != nil {
		return filepath.Join(".", "easypaste-data")
	}
	return filepath.Join(appDataDir, "easypaste", "data")
}

func Load() (*AppConfig, error) {
	path := configPath()
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return defaultConfig(), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var config AppConfig
	if err := json.Unmarshal(data, &config); err != nil {
		return nil, err
	}

	if config.HistoryLimit <= 0 {
		config.HistoryLimit = 100
	}

	if !config.Storage.CustomPath || config.Storage.DataDir == "" {
		config.Storage.DataDir = defaultDataDir()
	}

	return &config, nil
}

func Save(config *AppConfig) error {
	data, err := json.MarshalIndent(config, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(configPath(), data, 0644)
}

// 默认配置
func defaultConfig() *AppConfig {
	dataDir := defaultDataDir()

	return &AppConfig{
		Storage: StorageConfig{
			Type:       StorageTypeSQLite,
			DataDir:    dataDir,
			CustomPath: false,
			MySQL: MySQLConfig{
				Host:     "localhost",
				Port:     3306,
				User:     "root",
				Password: "",
				Database: "easypaste",
			},
		},
		Log: LogConfig{
			Level:      "info",
			File:       filepath.Join(dataDir, "logs", "easypaste.log"),
			MaxSizeMB:  10,
			MaxBackups: 3,
		},
		HistoryLimit:     100,
		EnableMonitoring: true,
		EnableSaveImages: true,
	}
}
