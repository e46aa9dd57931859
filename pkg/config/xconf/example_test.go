package xconf_test

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/omeyang/xsched/pkg/config/xconf"
)

// ExampleNew 演示从文件加载配置。
func ExampleNew() {
	tmpDir, err := os.MkdirTemp("", "xconf-example")
	if err != nil {
		fmt.Printf("failed to create temp dir: %v\n", err)
		return
	}
	defer func() { _ = os.RemoveAll(tmpDir) }() //nolint:errcheck // cleanup temp dir, error is irrelevant

	configPath := filepath.Join(tmpDir, "config.yaml")
	configContent := `
scheduler:
  history_size: 256
  executor:
    workers: 4
`
	if err := os.WriteFile(configPath, []byte(configContent), 0600); err != nil {
		fmt.Printf("failed to write config file: %v\n", err)
		return
	}

	cfg, err := xconf.New(configPath)
	if err != nil {
		fmt.Printf("failed to load config: %v\n", err)
		return
	}

	fmt.Printf("history_size: %d\n", cfg.Client().Int("scheduler.history_size"))
	fmt.Printf("workers: %d\n", cfg.Client().Int("scheduler.executor.workers"))

	// Output:
	// history_size: 256
	// workers: 4
}

// ExampleNewFromBytes 演示从字节数据加载配置（适用于 K8s ConfigMap）。
func ExampleNewFromBytes() {
	configData := []byte(`
scheduler:
  history_size: 64
`)

	cfg, err := xconf.NewFromBytes(configData, xconf.FormatYAML)
	if err != nil {
		fmt.Printf("failed to load config: %v\n", err)
		return
	}

	var target struct {
		HistorySize int `koanf:"history_size"`
	}
	if err := cfg.Unmarshal("scheduler", &target); err != nil {
		fmt.Printf("failed to unmarshal: %v\n", err)
		return
	}

	fmt.Printf("history_size: %d\n", target.HistorySize)

	// Output:
	// history_size: 64
}

// ExampleConfig_Unmarshal 演示将配置反序列化到结构体。
func ExampleConfig_Unmarshal() {
	configData := []byte(`{"executor": {"workers": 8, "queue_size": 1024}}`)

	cfg, err := xconf.NewFromBytes(configData, xconf.FormatJSON)
	if err != nil {
		fmt.Printf("failed to load config: %v\n", err)
		return
	}

	var executor struct {
		Workers   int `koanf:"workers"`
		QueueSize int `koanf:"queue_size"`
	}
	if err := cfg.Unmarshal("executor", &executor); err != nil {
		fmt.Printf("failed to unmarshal: %v\n", err)
		return
	}

	fmt.Printf("workers=%d queue_size=%d\n", executor.Workers, executor.QueueSize)

	// Output:
	// workers=8 queue_size=1024
}
