package content

import (
	"coder_edu_catalog/internal/config"
	"context"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"
)

// Entry 目录下的一个条目
type Entry struct {
	Name  string
	IsDir bool
}

// Source 内容文档的存储位置，路径统一使用 "/" 分隔
type Source interface {
	// List 返回 dir 下一层的条目，按名称排序
	List(ctx context.Context, dir string) ([]Entry, error)
	// Read 读取文件，不存在时返回的错误满足 errors.Is(err, fs.ErrNotExist)
	Read(ctx context.Context, name string) ([]byte, error)
	// Describe 用于日志
	Describe() string
}

// DirSource 本地目录
type DirSource struct {
	Root string
}

func NewDirSource(root string) *DirSource {
	return &DirSource{Root: root}
}

func (s *DirSource) List(ctx context.Context, dir string) ([]Entry, error) {
	items, err := os.ReadDir(filepath.Join(s.Root, filepath.FromSlash(dir)))
	if err != nil {
		return nil, err
	}
	entries := make([]Entry, 0, len(items))
	for _, it := range items {
		if strings.HasPrefix(it.Name(), ".") {
			continue
		}
		entries = append(entries, Entry{Name: it.Name(), IsDir: it.IsDir()})
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].Name < entries[j].Name })
	return entries, nil
}

func (s *DirSource) Read(ctx context.Context, name string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return os.ReadFile(filepath.Join(s.Root, filepath.FromSlash(name)))
}

func (s *DirSource) Describe() string {
	return "dir:" + s.Root
}

func stem(name string) string {
	base := path.Base(name)
	return strings.TrimSuffix(base, path.Ext(base))
}

// NewSource 根据配置创建内容来源
func NewSource(cfg *config.ContentConfig) (Source, error) {
	switch cfg.Source {
	case config.ContentSourceDir, "":
		return NewDirSource(cfg.Root), nil
	case config.ContentSourceMinio:
		return NewMinioSource(cfg.MinioEndpoint, cfg.MinioAccessID, cfg.MinioSecret, cfg.MinioBucket, cfg.Root, cfg.MinioUseSSL)
	}
	return nil, fmt.Errorf("unknown content source %q", cfg.Source)
}
