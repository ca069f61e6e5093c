package storage

import (
	"fmt"

	"gorm.io/gorm"

	"easypaste/config"
	"easypaste/model"
	"easypaste/storage/driver"
)

// Open 根据配置打开数据库并迁移表结构
func Open(cfg *config.StorageConfig) (*gorm.DB, error) {
	var (
		db  *gorm.DB
		err error
	)

	switch cfg.Type {
	case config.StorageTypeSQLite:
		db, err = driver.OpenSQLite(cfg)
	case config.StorageTypeMySQL:
		db, err = driver.OpenMySQL(cfg)
	default:
		return nil, fmt.Errorf("不支持的存储类型: %s", cfg.Type)
	}
	if err != nil {
		return nil, err
	}

	if err := db.AutoMigrate(
		&model.ClipboardItem{},
		&model.QuickTextItem{},
		&model.QuickTextGroup{},
		&model.ImageRecord{},
		&model.Setting{},
	); err != nil {
		return nil, fmt.Errorf("迁移表结构失败: %w", err)
	}

	return db, nil
}

// Close 关闭底层数据库连接
func Close(db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
