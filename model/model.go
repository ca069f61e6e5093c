package model

import (
	"path/filepath"
	"strings"
	"time"
)

// 剪贴板内容的三种引用编码，除此之外的内容一律视为纯文本
const (
	ImageRefPrefix = "image:"      // 引用图片仓库中的一条记录
	DataURLPrefix  = "data:image/" // 内联 base64 图片（兼容旧数据）
	FileListPrefix = "files:"      // 序列化的文件路径列表
)

// ClipboardItem 表示一条剪贴板历史记录
// Position 为显示顺序，0 表示最新；对外暴露的 ID 在查询时被改写为下标
type ClipboardItem struct {
	ID          int64  `json:"id" gorm:"primaryKey;autoIncrement"`
	Position    int    `json:"-" gorm:"index;not null"`
	Content     string `json:"content" gorm:"type:text;not null"`
	HTMLContent string `json:"html_content,omitempty" gorm:"type:text"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// QuickTextItem 表示一条常用文本，按分组内 SortOrder 排序
type QuickTextItem struct {
	ID          string `json:"id" gorm:"primaryKey;size:36"`
	Title       string `json:"title"`
	Content     string `json:"content" gorm:"type:text;not null"`
	HTMLContent string `json:"html_content,omitempty" gorm:"type:text"`
	GroupName   string `json:"group_name" gorm:"index;not null"`
	SortOrder   int    `json:"order" gorm:"not null"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// QuickTextGroup 常用文本分组，Name 唯一
type QuickTextGroup struct {
	Name      string `json:"name" gorm:"primaryKey"`
	Icon      string `json:"icon,omitempty"`
	SortOrder int    `json:"order" gorm:"not null"`
}

// DefaultGroupName 默认分组，始终存在且不可删除
const DefaultGroupName = "全部"

// ImageRecord 图片仓库的索引记录，ID 由内容哈希派生
// 相同 ContentHash 的两次保存共享同一条记录和同一个文件
type ImageRecord struct {
	ID          string `json:"id" gorm:"primaryKey;size:16"`
	Path        string `json:"path" gorm:"not null"`
	ContentHash string `json:"content_hash" gorm:"uniqueIndex;not null"`
	Format      string `json:"format"`
	CreatedAt   time.Time
}

// Setting 持久化设置项（历史上限、监听开关等）
// 列名避开 SQL 保留字 key/value
type Setting struct {
	Name string `gorm:"primaryKey;column:name"`
	Val  string `gorm:"column:val"`
}

// IsImageRef 判断内容是否为图片仓库引用
func IsImageRef(content string) bool {
	return strings.HasPrefix(content, ImageRefPrefix)
}

// ImageRefID 取出 image:<id> 中的 id，不是引用时返回空串
func ImageRefID(content string) string {
	if !IsImageRef(content) {
		return ""
	}
	return strings.TrimPrefix(content, ImageRefPrefix)
}

// ImageRef 构造 image:<id> 引用
func ImageRef(id string) string {
	return ImageRefPrefix + id
}

// IsDataURL 判断内容是否为内联图片
func IsDataURL(content string) bool {
	return strings.HasPrefix(content, DataURLPrefix)
}

// IsFileList 判断内容是否为文件列表
func IsFileList(content string) bool {
	return strings.HasPrefix(content, FileListPrefix)
}

// FileList 构造 files: 内容，路径用分号连接
func FileList(paths []string) string {
	return FileListPrefix + strings.Join(paths, ";")
}

// FileListPaths 解析 files: 内容中的路径列表
func FileListPaths(content string) []string {
	if !IsFileList(content) {
		return nil
	}
	raw := strings.TrimPrefix(content, FileListPrefix)
	var paths []string
	for _, p := range strings.Split(raw, ";") {
		p = strings.TrimSpace(p)
		if p != "" {
			paths = append(paths, p)
		}
	}
	return paths
}

// FileListNames 取出文件列表中各路径的文件名，供标题生成使用
func FileListNames(content string) []string {
	paths := FileListPaths(content)
	names := make([]string, 0, len(paths))
	for _, p := range paths {
		names = append(names, filepath.Base(p))
	}
	return names
}
