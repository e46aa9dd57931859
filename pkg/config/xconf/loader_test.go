package xconf

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleYAML = `
scheduler:
  history_size: 256
  executor:
    workers: 4
    queue_size: 128
workload:
  tasks: 100
`

const sampleJSON = `{"scheduler": {"history_size": 64}}`

func writeTempConfig(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestNew_YAML(t *testing.T) {
	path := writeTempConfig(t, "config.yaml", sampleYAML)

	cfg, err := New(path)
	require.NoError(t, err)

	assert.Equal(t, FormatYAML, cfg.Format())
	assert.Equal(t, path, cfg.Path())
	assert.Equal(t, 256, cfg.Client().Int("scheduler.history_size"))
	assert.Equal(t, 4, cfg.Client().Int("scheduler.executor.workers"))
}

func TestNew_JSON(t *testing.T) {
	path := writeTempConfig(t, "config.json", sampleJSON)

	cfg, err := New(path)
	require.NoError(t, err)

	assert.Equal(t, FormatJSON, cfg.Format())
	assert.Equal(t, 64, cfg.Client().Int("scheduler.history_size"))
}

func TestNew_Errors(t *testing.T) {
	t.Run("empty path", func(t *testing.T) {
		_, err := New("")
		assert.ErrorIs(t, err, ErrEmptyPath)
	})

	t.Run("unknown extension", func(t *testing.T) {
		_, err := New("/etc/xsched/config.toml")
		assert.ErrorIs(t, err, ErrUnsupportedFormat)
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := New(filepath.Join(t.TempDir(), "missing.yaml"))
		assert.ErrorIs(t, err, ErrLoadFailed)
	})

	t.Run("malformed yaml", func(t *testing.T) {
		path := writeTempConfig(t, "bad.yaml", "scheduler: [unclosed")
		_, err := New(path)
		assert.ErrorIs(t, err, ErrParseFailed)
	})
}

func TestNewFromBytes(t *testing.T) {
	cfg, err := NewFromBytes([]byte(sampleYAML), FormatYAML)
	require.NoError(t, err)

	assert.Empty(t, cfg.Path())
	assert.Equal(t, 100, cfg.Client().Int("workload.tasks"))
}

func TestNewFromBytes_EmptyData(t *testing.T) {
	cfg, err := NewFromBytes(nil, FormatYAML)
	require.NoError(t, err)

	var target struct {
		Workers int `koanf:"workers"`
	}
	require.NoError(t, cfg.Unmarshal("scheduler.executor", &target))
	assert.Zero(t, target.Workers)
}

func TestNewFromBytes_InvalidFormat(t *testing.T) {
	_, err := NewFromBytes([]byte("{}"), Format("toml"))
	assert.ErrorIs(t, err, ErrUnsupportedFormat)
}

func TestUnmarshal(t *testing.T) {
	cfg, err := NewFromBytes([]byte(sampleYAML), FormatYAML)
	require.NoError(t, err)

	type executorConfig struct {
		Workers   int `koanf:"workers"`
		QueueSize int `koanf:"queue_size"`
	}

	var exec executorConfig
	require.NoError(t, cfg.Unmarshal("scheduler.executor", &exec))
	assert.Equal(t, 4, exec.Workers)
	assert.Equal(t, 128, exec.QueueSize)

	var all struct {
		Scheduler struct {
			HistorySize int `koanf:"history_size"`
		} `koanf:"scheduler"`
	}
	require.NoError(t, cfg.Unmarshal("", &all))
	assert.Equal(t, 256, all.Scheduler.HistorySize)
}

func TestMustUnmarshal_PanicsOnError(t *testing.T) {
	cfg, err := NewFromBytes([]byte(`key: value`), FormatYAML)
	require.NoError(t, err)

	assert.Panics(t, func() {
		var target int
		cfg.MustUnmarshal("key", &target)
	})
}

func TestReload(t *testing.T) {
	path := writeTempConfig(t, "config.yaml", "workers: 2")

	cfg, err := New(path)
	require.NoError(t, err)
	assert.Equal(t, 2, cfg.Client().Int("workers"))

	require.NoError(t, os.WriteFile(path, []byte("workers: 8"), 0o600))
	require.NoError(t, cfg.Reload())
	assert.Equal(t, 8, cfg.Client().Int("workers"))
}

func TestReload_KeepsOldConfigOnParseError(t *testing.T) {
	path := writeTempConfig(t, "config.yaml", "workers: 2")

	cfg, err := New(path)
	require.NoError(t, err)

	require.NoError(t, os.WriteFile(path, []byte("workers: [broken"), 0o600))
	require.Error(t, cfg.Reload())
	assert.Equal(t, 2, cfg.Client().Int("workers"), "failed reload must not clobber config")
}

func TestReload_FromBytesNotReloadable(t *testing.T) {
	cfg, err := NewFromBytes([]byte("a: 1"), FormatYAML)
	require.NoError(t, err)
	assert.ErrorIs(t, cfg.Reload(), ErrNotReloadable)
}

func TestOptions_CustomDelimAndTag(t *testing.T) {
	cfg, err := NewFromBytes([]byte(sampleYAML), FormatYAML, WithDelim("/"), WithTag("koanf"))
	require.NoError(t, err)
	assert.Equal(t, 256, cfg.Client().Int("scheduler/history_size"))
}
