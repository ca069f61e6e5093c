package storage

import (
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"easypaste/model"
)

// 预定义错误变量
var (
	ErrNotFound = errors.New("记录不存在")
)

// History 剪贴板历史仓库
// 所有写操作持仓库锁串行执行；Position 为显示顺序，0 表示最新，
// 淘汰始终从尾部（最大 Position）开始
type History struct {
	db       *gorm.DB
	settings *Settings
	mu       sync.Mutex
}

// NewHistory 创建历史仓库
func NewHistory(db *gorm.DB, settings *Settings) *History {
	return &History{db: db, settings: settings}
}

// Add 记录一条新的剪贴板内容
// 返回值表示是否产生了新记录：空白内容、重复内容都返回 false
// moveDuplicates 为 true 时重复内容会被移到最前并刷新时间戳
func (h *History) Add(content, htmlContent string, moveDuplicates bool) (bool, error) {
	if strings.TrimSpace(content) == "" {
		return false, nil
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	added := false
	err := h.db.Transaction(func(tx *gorm.DB) error {
		var existing model.ClipboardItem
		err := tx.First(&existing, "content = ?", content).Error
		if err == nil {
			if moveDuplicates {
				return moveToFrontTx(tx, &existing)
			}
			return nil
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		// 整体后移一位，新记录插到第0位
		if err := tx.Model(&model.ClipboardItem{}).
			Where("position >= 0").
			Update("position", gorm.Expr("position + 1")).Error; err != nil {
			return err
		}

		item := model.ClipboardItem{
			Position:    0,
			Content:     content,
			HTMLContent: htmlContent,
		}
		if err := tx.Create(&item).Error; err != nil {
			return err
		}
		added = true
		return nil
	})
	if err != nil {
		return false, fmt.Errorf("保存历史记录失败: %w", err)
	}

	// 插入已经成功，淘汰失败只记日志不回滚
	if added {
		if err := h.evictLocked(); err != nil {
			logrus.Warnf("清理超限历史记录失败: %v", err)
		}
	}
	return added, nil
}

// MoveToFrontIfExists 若内容已存在则移到最前，不存在时什么都不做
func (h *History) MoveToFrontIfExists(content string) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	return h.db.Transaction(func(tx *gorm.DB) error {
		var existing model.ClipboardItem
		err := tx.First(&existing, "content = ?", content).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil
		}
		if err != nil {
			return err
		}
		return moveToFrontTx(tx, &existing)
	})
}

// List 按从新到旧返回历史记录
// limit 不大于0时使用当前历史上限；返回项的 ID 被改写为0起始的下标
func (h *History) List(limit int) ([]*model.ClipboardItem, error) {
	if limit <= 0 {
		limit = h.HistoryLimit()
	}

	var items []*model.ClipboardItem
	if err := h.db.Order("position ASC").Limit(limit).Find(&items).Error; err != nil {
		return nil, fmt.Errorf("读取历史记录失败: %w", err)
	}

	// 对外暴露下标而不是数据库主键，任何增删之后旧下标即失效
	for i := range items {
		items[i].ID = int64(i)
	}
	return items, nil
}

// Search 按关键字搜索历史记录（不区分大小写）
func (h *History) Search(keyword string) ([]*model.ClipboardItem, error) {
	if keyword == "" {
		return h.List(0)
	}

	var items []*model.ClipboardItem
	pattern := "%" + strings.ToLower(keyword) + "%"
	if err := h.db.Where("LOWER(content) LIKE ?", pattern).
		Order("position ASC").Find(&items).Error; err != nil {
		return nil, fmt.Errorf("搜索历史记录失败: %w", err)
	}

	for i := range items {
		items[i].ID = int64(i)
	}
	return items, nil
}

// Get 按下标取单条记录
func (h *History) Get(index int) (*model.ClipboardItem, error) {
	var item model.ClipboardItem
	err := h.db.First(&item, "position = ?", index).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("历史记录下标 %d: %w", index, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("读取历史记录失败: %w", err)
	}
	item.ID = int64(index)
	return &item, nil
}

// DeleteByIndex 删除指定下标的记录，其后的记录依次前移
func (h *History) DeleteByIndex(index int) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	return h.db.Transaction(func(tx *gorm.DB) error {
		var item model.ClipboardItem
		err := tx.First(&item, "position = ?", index).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("历史记录下标 %d: %w", index, ErrNotFound)
		}
		if err != nil {
			return err
		}

		if err := tx.Delete(&model.ClipboardItem{}, item.ID).Error; err != nil {
			return err
		}
		return tx.Model(&model.ClipboardItem{}).
			Where("position > ?", index).
			Update("position", gorm.Expr("position - 1")).Error
	})
}

// MoveItem 把 from 下标的记录移动到 to 下标，其余记录相对顺序不变
func (h *History) MoveItem(from, to int) error {
	if from == to {
		return nil
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	return h.db.Transaction(func(tx *gorm.DB) error {
		var item model.ClipboardItem
		err := tx.First(&item, "position = ?", from).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("历史记录下标 %d: %w", from, ErrNotFound)
		}
		if err != nil {
			return err
		}

		var count int64
		if err := tx.Model(&model.ClipboardItem{}).Count(&count).Error; err != nil {
			return err
		}
		if to < 0 {
			to = 0
		}
		if to >= int(count) {
			to = int(count) - 1
		}

		if from < to {
			// 中间的记录前移一位
			if err := tx.Model(&model.ClipboardItem{}).
				Where("position > ? AND position <= ?", from, to).
				Update("position", gorm.Expr("position - 1")).Error; err != nil {
				return err
			}
		} else {
			// 中间的记录后移一位
			if err := tx.Model(&model.ClipboardItem{}).
				Where("position >= ? AND position < ?", to, from).
				Update("position", gorm.Expr("position + 1")).Error; err != nil {
				return err
			}
		}
		return tx.Model(&item).Update("position", to).Error
	})
}

// Reorder 按给定的内容顺序重排历史记录
// 未出现在 contents 中的记录保持原有相对顺序排在其后
func (h *History) Reorder(contents []string) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	return h.db.Transaction(func(tx *gorm.DB) error {
		var items []*model.ClipboardItem
		if err := tx.Order("position ASC").Find(&items).Error; err != nil {
			return err
		}

		byContent := make(map[string]*model.ClipboardItem, len(items))
		for _, item := range items {
			if _, ok := byContent[item.Content]; !ok {
				byContent[item.Content] = item
			}
		}

		next := 0
		assigned := make(map[int64]bool, len(items))
		for _, c := range contents {
			item, ok := byContent[c]
			if !ok || assigned[item.ID] {
				continue
			}
			if err := tx.Model(item).Update("position", next).Error; err != nil {
				return err
			}
			assigned[item.ID] = true
			next++
		}
		for _, item := range items {
			if assigned[item.ID] {
				continue
			}
			if err := tx.Model(item).Update("position", next).Error; err != nil {
				return err
			}
			next++
		}
		return nil
	})
}

// ClearAll 清空全部历史记录
func (h *History) ClearAll() error {
	h.mu.Lock()
	defer h.mu.Unlock()

	if err := h.db.Where("1 = 1").Delete(&model.ClipboardItem{}).Error; err != nil {
		return fmt.Errorf("清空历史记录失败: %w", err)
	}
	return nil
}

// HistoryLimit 当前历史上限
func (h *History) HistoryLimit() int {
	return h.settings.GetInt(KeyHistoryLimit, 100)
}

// SetHistoryLimit 调整历史上限并立即按新上限淘汰
func (h *History) SetHistoryLimit(n int) error {
	if n <= 0 {
		return fmt.Errorf("历史上限必须为正数: %d", n)
	}
	if err := h.settings.SetInt(KeyHistoryLimit, n); err != nil {
		return fmt.Errorf("保存历史上限失败: %w", err)
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	return h.evictLocked()
}

// IsMonitoringEnabled 是否开启剪贴板监听
func (h *History) IsMonitoringEnabled() bool {
	return h.settings.GetBool(KeyMonitoringEnabled, true)
}

// IsSaveImagesEnabled 是否保存图片内容
func (h *History) IsSaveImagesEnabled() bool {
	return h.settings.GetBool(KeySaveImagesEnabled, true)
}

// evictLocked 删除超出上限的尾部记录，调用方必须已持锁
func (h *History) evictLocked() error {
	limit := h.HistoryLimit()
	return h.db.Where("position >= ?", limit).Delete(&model.ClipboardItem{}).Error
}

// moveToFrontTx 在事务内把已有记录移到第0位并刷新时间戳
func moveToFrontTx(tx *gorm.DB, item *model.ClipboardItem) error {
	if item.Position > 0 {
		if err := tx.Model(&model.ClipboardItem{}).
			Where("position < ?", item.Position).
			Update("position", gorm.Expr("position + 1")).Error; err != nil {
			return err
		}
	}
	return tx.Model(item).Updates(map[string]interface{}{
		"position":   0,
		"updated_at": time.Now(),
	}).Error
}
