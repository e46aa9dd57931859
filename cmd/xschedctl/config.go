package main

import (
	"fmt"
	"time"

	"github.com/omeyang/xsched/pkg/config/xconf"
)

// settings 是 xschedctl 的完整配置。
// 所有字段均可省略，省略时使用 defaultSettings 的值。
type settings struct {
	Scheduler schedulerSettings `koanf:"scheduler"`
	Workload  workloadSettings  `koanf:"workload"`
}

type schedulerSettings struct {
	HistorySize int              `koanf:"history_size"`
	Executor    executorSettings `koanf:"executor"`
}

type executorSettings struct {
	Enabled   bool `koanf:"enabled"`
	Workers   int  `koanf:"workers"`
	QueueSize int  `koanf:"queue_size"`
}

type workloadSettings struct {
	Producers int           `koanf:"producers"`
	Tasks     int           `koanf:"tasks"`
	MaxDelay  time.Duration `koanf:"max_delay"`
	Recurring int           `koanf:"recurring"`
	Interval  time.Duration `koanf:"interval"`
	Duration  time.Duration `koanf:"duration"`
}

func defaultSettings() settings {
	return settings{
		Scheduler: schedulerSettings{
			HistorySize: 128,
			Executor: executorSettings{
				Enabled:   true,
				Workers:   4,
				QueueSize: 256,
			},
		},
		Workload: workloadSettings{
			Producers: 4,
			Tasks:     200,
			MaxDelay:  500 * time.Millisecond,
			Recurring: 2,
			Interval:  100 * time.Millisecond,
			Duration:  2 * time.Second,
		},
	}
}

// loadSettings 加载配置文件并与默认值合并。
// path 为空时直接返回默认配置。
func loadSettings(path string) (settings, error) {
	s := defaultSettings()
	if path == "" {
		return s, nil
	}

	cfg, err := xconf.New(path)
	if err != nil {
		return s, err
	}
	if err := cfg.Unmarshal("", &s); err != nil {
		return s, err
	}
	return s, s.validate()
}

func (s settings) validate() error {
	if s.Scheduler.HistorySize < 0 {
		return fmt.Errorf("scheduler.history_size 不能为负数: %d", s.Scheduler.HistorySize)
	}
	if s.Scheduler.Executor.Enabled {
		if s.Scheduler.Executor.Workers <= 0 {
			return fmt.Errorf("scheduler.executor.workers 必须为正数: %d", s.Scheduler.Executor.Workers)
		}
		if s.Scheduler.Executor.QueueSize <= 0 {
			return fmt.Errorf("scheduler.executor.queue_size 必须为正数: %d", s.Scheduler.Executor.QueueSize)
		}
	}
	if s.Workload.Producers <= 0 {
		return fmt.Errorf("workload.producers 必须为正数: %d", s.Workload.Producers)
	}
	if s.Workload.Tasks < 0 {
		return fmt.Errorf("workload.tasks 不能为负数: %d", s.Workload.Tasks)
	}
	if s.Workload.MaxDelay < 0 {
		return fmt.Errorf("workload.max_delay 不能为负数: %v", s.Workload.MaxDelay)
	}
	if s.Workload.Recurring < 0 {
		return fmt.Errorf("workload.recurring 不能为负数: %d", s.Workload.Recurring)
	}
	if s.Workload.Recurring > 0 && s.Workload.Interval <= 0 {
		return fmt.Errorf("workload.interval 必须为正数: %v", s.Workload.Interval)
	}
	if s.Workload.Duration <= 0 {
		return fmt.Errorf("workload.duration 必须为正数: %v", s.Workload.Duration)
	}
	return nil
}
