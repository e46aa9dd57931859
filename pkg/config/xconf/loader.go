package xconf

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/knadh/koanf/parsers/json"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/rawbytes"
	"github.com/knadh/koanf/v2"
)

// fileConfig 是 Config 接口的 koanf 实现。
type fileConfig struct {
	mu     sync.RWMutex
	k      *koanf.Koanf
	path   string // 从字节数据创建时为空
	format Format
	opts   *Options
}

// New 从文件路径创建配置实例。
// 根据文件扩展名自动检测格式（.yaml/.yml 或 .json）。
func New(path string, opts ...Option) (Config, error) {
	if path == "" {
		return nil, ErrEmptyPath
	}

	format, err := detectFormat(path)
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrLoadFailed, err)
	}

	options := defaultOptions()
	for _, opt := range opts {
		opt(options)
	}

	k, err := parseInto(koanf.New(options.Delim), data, format)
	if err != nil {
		return nil, err
	}

	return &fileConfig{
		k:      k,
		path:   path,
		format: format,
		opts:   options,
	}, nil
}

// NewFromBytes 从字节数据创建配置实例。
// 需要显式指定格式，适用于 K8s ConfigMap 等场景。
// 空数据会创建一个空配置实例，Unmarshal 返回目标结构体的零值。
func NewFromBytes(data []byte, format Format, opts ...Option) (Config, error) {
	if !validFormat(format) {
		return nil, ErrUnsupportedFormat
	}

	options := defaultOptions()
	for _, opt := range opts {
		opt(options)
	}

	k := koanf.New(options.Delim)
	if len(data) > 0 {
		var err error
		if k, err = parseInto(k, data, format); err != nil {
			return nil, err
		}
	}

	return &fileConfig{
		k:      k,
		format: format,
		opts:   options,
	}, nil
}

// Client 返回底层的 koanf 实例。
// Reload 后旧指针仍可用但数据过期，每次需要时重新调用 Client。
func (c *fileConfig) Client() *koanf.Koanf {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.k
}

// Unmarshal 将指定路径的配置反序列化到目标结构体。
func (c *fileConfig) Unmarshal(path string, target any) error {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if err := c.k.UnmarshalWithConf(path, target, koanf.UnmarshalConf{
		Tag: c.opts.Tag,
	}); err != nil {
		return fmt.Errorf("%w: %w", ErrUnmarshalFailed, err)
	}
	return nil
}

// MustUnmarshal 与 Unmarshal 相同，但失败时 panic。
func (c *fileConfig) MustUnmarshal(path string, target any) {
	if err := c.Unmarshal(path, target); err != nil {
		panic(err)
	}
}

// Reload 重新加载配置文件。
// 先在锁外完成读取与解析，失败不影响当前配置。
func (c *fileConfig) Reload() error {
	if c.path == "" {
		return ErrNotReloadable
	}

	data, err := os.ReadFile(c.path)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrLoadFailed, err)
	}

	k, err := parseInto(koanf.New(c.opts.Delim), data, c.format)
	if err != nil {
		return err
	}

	c.mu.Lock()
	c.k = k
	c.mu.Unlock()
	return nil
}

// Path 返回配置文件路径。
func (c *fileConfig) Path() string {
	return c.path
}

// Format 返回配置格式。
func (c *fileConfig) Format() Format {
	return c.format
}

// detectFormat 根据文件扩展名检测配置格式。
func detectFormat(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML, nil
	case ".json":
		return FormatJSON, nil
	default:
		return "", fmt.Errorf("%w: unknown extension %s", ErrUnsupportedFormat, filepath.Ext(path))
	}
}

func validFormat(format Format) bool {
	return format == FormatYAML || format == FormatJSON
}

// parseInto 将数据解析进 koanf 实例。
func parseInto(k *koanf.Koanf, data []byte, format Format) (*koanf.Koanf, error) {
	var parser koanf.Parser
	switch format {
	case FormatYAML:
		parser = yaml.Parser()
	case FormatJSON:
		parser = json.Parser()
	default:
		return nil, ErrUnsupportedFormat
	}

	if err := k.Load(rawbytes.Provider(data), parser); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrParseFailed, err)
	}
	return k, nil
}
