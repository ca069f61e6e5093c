package storage

import (
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"easypaste/model"
)

// ImageCopier 图片仓库提供的逻辑复制能力
// 常用文本从历史提升时借此获得独立于历史记录的图片引用
type ImageCopier interface {
	Copy(id string) (string, error)
}

// QuickText 常用文本仓库，按分组管理，组内有序
type QuickText struct {
	db *gorm.DB
	mu sync.Mutex
}

// NewQuickText 创建常用文本仓库并确保默认分组存在
func NewQuickText(db *gorm.DB) (*QuickText, error) {
	q := &QuickText{db: db}
	if err := q.ensureDefaultGroup(); err != nil {
		return nil, err
	}
	return q, nil
}

func (q *QuickText) ensureDefaultGroup() error {
	var group model.QuickTextGroup
	err := q.db.First(&group, "name = ?", model.DefaultGroupName).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return q.db.Create(&model.QuickTextGroup{
			Name:      model.DefaultGroupName,
			SortOrder: 0,
		}).Error
	}
	return err
}

// Add 新增常用文本
func (q *QuickText) Add(title, content, groupName string) (*model.QuickTextItem, error) {
	return q.AddWithHTML(title, content, "", groupName)
}

// AddWithHTML 新增带HTML边车的常用文本，追加到组内末尾
func (q *QuickText) AddWithHTML(title, content, htmlContent, groupName string) (*model.QuickTextItem, error) {
	if strings.TrimSpace(content) == "" {
		return nil, fmt.Errorf("常用文本内容不能为空")
	}
	if groupName == "" {
		groupName = model.DefaultGroupName
	}

	q.mu.Lock()
	defer q.mu.Unlock()

	var item *model.QuickTextItem
	err := q.db.Transaction(func(tx *gorm.DB) error {
		if err := groupMustExist(tx, groupName); err != nil {
			return err
		}

		var maxOrder int
		row := tx.Model(&model.QuickTextItem{}).
			Where("group_name = ?", groupName).
			Select("COALESCE(MAX(sort_order), -1)").Row()
		if err := row.Scan(&maxOrder); err != nil {
			return err
		}

		item = &model.QuickTextItem{
			ID:          uuid.NewString(),
			Title:       title,
			Content:     content,
			HTMLContent: htmlContent,
			GroupName:   groupName,
			SortOrder:   maxOrder + 1,
		}
		return tx.Create(item).Error
	})
	if err != nil {
		return nil, fmt.Errorf("保存常用文本失败: %w", err)
	}
	return item, nil
}

// Update 修改常用文本；groupName 为空串时保持原分组
func (q *QuickText) Update(id, title, content, groupName string) error {
	q.mu.Lock()
	defer q.mu.Unlock()

	return q.db.Transaction(func(tx *gorm.DB) error {
		var item model.QuickTextItem
		err := tx.First(&item, "id = ?", id).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("常用文本 %s: %w", id, ErrNotFound)
		}
		if err != nil {
			return err
		}

		updates := map[string]interface{}{
			"title":   title,
			"content": content,
		}
		if groupName != "" && groupName != item.GroupName {
			if err := groupMustExist(tx, groupName); err != nil {
				return err
			}
			var maxOrder int
			row := tx.Model(&model.QuickTextItem{}).
				Where("group_name = ?", groupName).
				Select("COALESCE(MAX(sort_order), -1)").Row()
			if err := row.Scan(&maxOrder); err != nil {
				return err
			}
			updates["group_name"] = groupName
			updates["sort_order"] = maxOrder + 1

			// 原分组里留下的空位要补上
			if err := tx.Model(&model.QuickTextItem{}).
				Where("group_name = ? AND sort_order > ?", item.GroupName, item.SortOrder).
				Update("sort_order", gorm.Expr("sort_order - 1")).Error; err != nil {
				return err
			}
		}
		return tx.Model(&item).Updates(updates).Error
	})
}

// Delete 删除常用文本，组内其后的项依次前移
func (q *QuickText) Delete(id string) error {
	q.mu.Lock()
	defer q.mu.Unlock()

	return q.db.Transaction(func(tx *gorm.DB) error {
		var item model.QuickTextItem
		err := tx.First(&item, "id = ?", id).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("常用文本 %s: %w", id, ErrNotFound)
		}
		if err != nil {
			return err
		}

		if err := tx.Delete(&model.QuickTextItem{}, "id = ?", id).Error; err != nil {
			return err
		}
		return tx.Model(&model.QuickTextItem{}).
			Where("group_name = ? AND sort_order > ?", item.GroupName, item.SortOrder).
			Update("sort_order", gorm.Expr("sort_order - 1")).Error
	})
}

// Get 按ID取单条常用文本
func (q *QuickText) Get(id string) (*model.QuickTextItem, error) {
	var item model.QuickTextItem
	err := q.db.First(&item, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("常用文本 %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("读取常用文本失败: %w", err)
	}
	return &item, nil
}

// ListAll 返回全部常用文本，按分组和组内顺序排列
func (q *QuickText) ListAll() ([]*model.QuickTextItem, error) {
	var items []*model.QuickTextItem
	if err := q.db.Order("group_name ASC, sort_order ASC").Find(&items).Error; err != nil {
		return nil, fmt.Errorf("读取常用文本失败: %w", err)
	}
	return items, nil
}

// ListByGroup 返回指定分组内的常用文本
func (q *QuickText) ListByGroup(groupName string) ([]*model.QuickTextItem, error) {
	var items []*model.QuickTextItem
	if err := q.db.Where("group_name = ?", groupName).
		Order("sort_order ASC").Find(&items).Error; err != nil {
		return nil, fmt.Errorf("读取常用文本失败: %w", err)
	}
	return items, nil
}

// MoveWithinGroup 把指定项移动到组内 toIndex 位置
func (q *QuickText) MoveWithinGroup(id string, toIndex int) error {
	q.mu.Lock()
	defer q.mu.Unlock()

	return q.db.Transaction(func(tx *gorm.DB) error {
		var item model.QuickTextItem
		err := tx.First(&item, "id = ?", id).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("常用文本 %s: %w", id, ErrNotFound)
		}
		if err != nil {
			return err
		}

		var count int64
		if err := tx.Model(&model.QuickTextItem{}).
			Where("group_name = ?", item.GroupName).Count(&count).Error; err != nil {
			return err
		}
		if toIndex < 0 {
			toIndex = 0
		}
		if toIndex >= int(count) {
			toIndex = int(count) - 1
		}
		if toIndex == item.SortOrder {
			return nil
		}

		if item.SortOrder < toIndex {
			if err := tx.Model(&model.QuickTextItem{}).
				Where("group_name = ? AND sort_order > ? AND sort_order <= ?",
					item.GroupName, item.SortOrder, toIndex).
				Update("sort_order", gorm.Expr("sort_order - 1")).Error; err != nil {
				return err
			}
		} else {
			if err := tx.Model(&model.QuickTextItem{}).
				Where("group_name = ? AND sort_order >= ? AND sort_order < ?",
					item.GroupName, toIndex, item.SortOrder).
				Update("sort_order", gorm.Expr("sort_order + 1")).Error; err != nil {
				return err
			}
		}
		return tx.Model(&item).Update("sort_order", toIndex).Error
	})
}

// Reorder 按给定的 id 顺序重排，每个分组内独立编号
func (q *QuickText) Reorder(ids []string) error {
	q.mu.Lock()
	defer q.mu.Unlock()

	return q.db.Transaction(func(tx *gorm.DB) error {
		next := make(map[string]int)
		for _, id := range ids {
			var item model.QuickTextItem
			err := tx.First(&item, "id = ?", id).Error
			if errors.Is(err, gorm.ErrRecordNotFound) {
				continue
			}
			if err != nil {
				return err
			}
			order := next[item.GroupName]
			next[item.GroupName] = order + 1
			if err := tx.Model(&item).Update("sort_order", order).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

// AddFromHistory 把历史记录提升为常用文本，放入默认分组
// 图片内容会向图片仓库要一份逻辑复制，复制失败时退回共享原引用
func (q *QuickText) AddFromHistory(history *History, images ImageCopier, index int) (*model.QuickTextItem, error) {
	item, err := history.Get(index)
	if err != nil {
		return nil, err
	}

	content := item.Content
	if id := model.ImageRefID(content); id != "" && images != nil {
		newID, err := images.Copy(id)
		if err != nil {
			logrus.Warnf("复制图片 %s 失败，退回共享原引用: %v", id, err)
		} else {
			content = model.ImageRef(newID)
		}
	}

	return q.AddWithHTML(generateTitle(content), content, item.HTMLContent, model.DefaultGroupName)
}

// CreateGroup 新建分组
func (q *QuickText) CreateGroup(name, icon string) error {
	if strings.TrimSpace(name) == "" {
		return fmt.Errorf("分组名不能为空")
	}

	q.mu.Lock()
	defer q.mu.Unlock()

	return q.db.Transaction(func(tx *gorm.DB) error {
		var existing model.QuickTextGroup
		err := tx.First(&existing, "name = ?", name).Error
		if err == nil {
			return fmt.Errorf("分组已存在: %s", name)
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		var maxOrder int
		row := tx.Model(&model.QuickTextGroup{}).
			Select("COALESCE(MAX(sort_order), -1)").Row()
		if err := row.Scan(&maxOrder); err != nil {
			return err
		}
		return tx.Create(&model.QuickTextGroup{
			Name:      name,
			Icon:      icon,
			SortOrder: maxOrder + 1,
		}).Error
	})
}

// UpdateGroupIcon 修改分组图标
func (q *QuickText) UpdateGroupIcon(name, icon string) error {
	result := q.db.Model(&model.QuickTextGroup{}).
		Where("name = ?", name).Update("icon", icon)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("分组 %s: %w", name, ErrNotFound)
	}
	return nil
}

// DeleteGroup 删除分组，组内的项移入默认分组；默认分组不可删除
func (q *QuickText) DeleteGroup(name string) error {
	if name == model.DefaultGroupName {
		return fmt.Errorf("默认分组不可删除")
	}

	q.mu.Lock()
	defer q.mu.Unlock()

	return q.db.Transaction(func(tx *gorm.DB) error {
		var group model.QuickTextGroup
		err := tx.First(&group, "name = ?", name).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("分组 %s: %w", name, ErrNotFound)
		}
		if err != nil {
			return err
		}

		var maxOrder int
		row := tx.Model(&model.QuickTextItem{}).
			Where("group_name = ?", model.DefaultGroupName).
			Select("COALESCE(MAX(sort_order), -1)").Row()
		if err := row.Scan(&maxOrder); err != nil {
			return err
		}

		var orphans []*model.QuickTextItem
		if err := tx.Where("group_name = ?", name).
			Order("sort_order ASC").Find(&orphans).Error; err != nil {
			return err
		}
		for i, item := range orphans {
			if err := tx.Model(item).Updates(map[string]interface{}{
				"group_name": model.DefaultGroupName,
				"sort_order": maxOrder + 1 + i,
			}).Error; err != nil {
				return err
			}
		}
		return tx.Delete(&model.QuickTextGroup{}, "name = ?", name).Error
	})
}

// ListGroups 返回全部分组
func (q *QuickText) ListGroups() ([]*model.QuickTextGroup, error) {
	var groups []*model.QuickTextGroup
	if err := q.db.Order("sort_order ASC").Find(&groups).Error; err != nil {
		return nil, fmt.Errorf("读取分组失败: %w", err)
	}
	return groups, nil
}

// ReorderGroups 按给定顺序重排分组
func (q *QuickText) ReorderGroups(names []string) error {
	q.mu.Lock()
	defer q.mu.Unlock()

	return q.db.Transaction(func(tx *gorm.DB) error {
		for i, name := range names {
			if err := tx.Model(&model.QuickTextGroup{}).
				Where("name = ?", name).Update("sort_order", i).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

// groupMustExist 校验分组存在
func groupMustExist(tx *gorm.DB, name string) error {
	var group model.QuickTextGroup
	err := tx.First(&group, "name = ?", name).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("分组 %s: %w", name, ErrNotFound)
	}
	return err
}

// generateTitle 根据内容生成常用文本标题
// 图片统一叫“图片”，文件列表取文件名，文本取前30个字符
func generateTitle(content string) string {
	switch {
	case model.IsImageRef(content) || model.IsDataURL(content):
		return "图片"
	case model.IsFileList(content):
		names := model.FileListNames(content)
		if len(names) == 0 {
			return "文件"
		}
		return truncateTitle(strings.Join(names, "、"))
	default:
		return truncateTitle(content)
	}
}

func truncateTitle(s string) string {
	runes := []rune(s)
	if len(runes) <= 30 {
		return s
	}
	return string(runes[:30]) + "…"
}
