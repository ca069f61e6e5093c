// Package imagestore 以内容寻址的方式在磁盘上保存图片
// 图片ID由内容哈希派生，相同内容的两次保存共享同一个文件；
// 仓库本身不做引用计数，清理属于独立的GC流程
package imagestore

import (
	"bytes"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/skratchdot/open-golang/open"
	"gorm.io/gorm"

	"easypaste/model"
)

// 预定义错误变量
var (
	ErrDecode   = errors.New("图片数据解码失败")
	ErrNotFound = errors.New("图片不存在")
)

// idLength 图片ID取内容哈希十六进制的前16位
const idLength = 16

// Store 图片仓库：数据库索引 + images 目录下的文件
type Store struct {
	db  *gorm.DB
	dir string
	mu  sync.Mutex
}

// New 创建图片仓库，images 目录建在数据目录下
func New(db *gorm.DB, dataDir string) (*Store, error) {
	absDir, err := filepath.Abs(filepath.Join(dataDir, "images"))
	if err != nil {
		return nil, fmt.Errorf("获取图片目录绝对路径失败: %w", err)
	}
	if err := os.MkdirAll(absDir, 0755); err != nil {
		return nil, fmt.Errorf("创建图片目录失败: %w", err)
	}
	return &Store{db: db, dir: absDir}, nil
}

// SaveDataURL 保存一张 data:image/<fmt>;base64,… 形式的图片
// 相同内容重复保存时直接返回已有记录，不会产生新文件
func (s *Store) SaveDataURL(dataURL string) (*model.ImageRecord, error) {
	format, payload, err := parseDataURL(dataURL)
	if err != nil {
		return nil, err
	}

	// 先验证确实是图片，再落盘
	if _, _, err := image.DecodeConfig(bytes.NewReader(payload)); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDecode, err)
	}

	hash := sha256.Sum256(payload)
	hashStr := hex.EncodeToString(hash[:])
	id := hashStr[:idLength]

	s.mu.Lock()
	defer s.mu.Unlock()

	var existing model.ImageRecord
	err = s.db.First(&existing, "id = ?", id).Error
	if err == nil {
		if existing.ContentHash != hashStr {
			return nil, fmt.Errorf("图片ID冲突: %s", id)
		}
		return &existing, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("查询图片索引失败: %w", err)
	}

	// 原样写入解码后的字节，读取时可按字节还原
	path := filepath.Join(s.dir, id+"."+format)
	if err := os.WriteFile(path, payload, 0644); err != nil {
		return nil, fmt.Errorf("写入图片文件失败: %w", err)
	}

	record := model.ImageRecord{
		ID:          id,
		Path:        path,
		ContentHash: hashStr,
		Format:      format,
	}
	if err := s.db.Create(&record).Error; err != nil {
		os.Remove(path)
		return nil, fmt.Errorf("写入图片索引失败: %w", err)
	}
	return &record, nil
}

// Get 按ID取图片记录
func (s *Store) Get(id string) (*model.ImageRecord, error) {
	var record model.ImageRecord
	err := s.db.First(&record, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("图片 %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("查询图片索引失败: %w", err)
	}
	return &record, nil
}

// Copy 产生一份逻辑上独立的引用
// 内容寻址意味着返回的仍是同一个ID；这里只校验记录存在
func (s *Store) Copy(id string) (string, error) {
	record, err := s.Get(id)
	if err != nil {
		return "", err
	}
	return record.ID, nil
}

// DataURL 读取文件并还原为 data:image/<fmt>;base64,… 形式
func (s *Store) DataURL(id string) (string, error) {
	record, err := s.Get(id)
	if err != nil {
		return "", err
	}

	data, err := os.ReadFile(record.Path)
	if err != nil {
		if os.IsNotExist(err) {
			return "", fmt.Errorf("图片文件 %s: %w", record.Path, ErrNotFound)
		}
		return "", fmt.Errorf("读取图片文件失败: %w", err)
	}

	return fmt.Sprintf("data:image/%s;base64,%s",
		record.Format, base64.StdEncoding.EncodeToString(data)), nil
}

// FilePath 返回图片文件的绝对路径
func (s *Store) FilePath(id string) (string, error) {
	record, err := s.Get(id)
	if err != nil {
		return "", err
	}
	if _, err := os.Stat(record.Path); os.IsNotExist(err) {
		return "", fmt.Errorf("图片文件 %s: %w", record.Path, ErrNotFound)
	}
	return record.Path, nil
}

// Open 用系统默认程序打开图片（预览用）
func (s *Store) Open(id string) error {
	path, err := s.FilePath(id)
	if err != nil {
		return err
	}
	return open.Start(path)
}

// Dir 图片目录的绝对路径
func (s *Store) Dir() string {
	return s.dir
}

// parseDataURL 拆出 data:image/<fmt>;base64,<payload> 中的格式和解码后的字节
func parseDataURL(dataURL string) (string, []byte, error) {
	if !strings.HasPrefix(dataURL, model.DataURLPrefix) {
		return "", nil, fmt.Errorf("%w: 不是图片 data URL", ErrDecode)
	}

	rest := strings.TrimPrefix(dataURL, model.DataURLPrefix)
	sep := strings.Index(rest, ";base64,")
	if sep < 0 {
		return "", nil, fmt.Errorf("%w: 缺少 base64 标记", ErrDecode)
	}

	format := rest[:sep]
	if format == "" {
		return "", nil, fmt.Errorf("%w: 缺少图片格式", ErrDecode)
	}
	if format == "jpg" {
		format = "jpeg"
	}

	payload, err := base64.StdEncoding.DecodeString(rest[sep+len(";base64,"):])
	if err != nil {
		return "", nil, fmt.Errorf("%w: %v", ErrDecode, err)
	}
	if len(payload) == 0 {
		return "", nil, fmt.Errorf("%w: 图片数据为空", ErrDecode)
	}
	return format, payload, nil
}
