// Package conf agent 配置
package conf

import (
	"fmt"
	"time"

	"github.com/lk2023060901/xdooria-bt/app/agent/internal/actions"
	"github.com/lk2023060901/xdooria-bt/pkg/bt/btdef"
	"github.com/lk2023060901/xdooria-bt/pkg/config"
	"github.com/lk2023060901/xdooria-bt/pkg/database/redis"
	"github.com/lk2023060901/xdooria-bt/pkg/logger"
	"github.com/lk2023060901/xdooria-bt/pkg/otel"
	"github.com/lk2023060901/xdooria-bt/pkg/prometheus"
	"github.com/spf13/pflag"
)

// EnvPrefix 环境变量前缀，如 BTAGENT_AGENT_TICK_INTERVAL
const EnvPrefix = "BTAGENT"

// Config agent 配置
type Config struct {
	Log      logger.Config     `mapstructure:"log"`
	Agent    AgentConfig       `mapstructure:"agent"`
	Metrics  prometheus.Config `mapstructure:"metrics"`
	Tracing  otel.Config       `mapstructure:"tracing"`
	Snapshot SnapshotConfig    `mapstructure:"snapshot"`
}

// AgentConfig 行为树运行配置，支持热更新 tick_interval
type AgentConfig struct {
	TickInterval   time.Duration `mapstructure:"tick_interval" validate:"gt=0"`
	StopOnTerminal bool          `mapstructure:"stop_on_terminal"`
	// Workers 协程池大小，0 表示每棵树一个
	Workers int `mapstructure:"workers" validate:"gte=0"`
	// Scorers 注册到每棵树资源表的线性打分模型
	Scorers map[string]actions.LinearScorer `mapstructure:"scorers" validate:"dive"`
	Trees   []btdef.Definition              `mapstructure:"trees" validate:"min=1,dive"`
}

// SnapshotConfig 黑板快照配置
type SnapshotConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Backend string `mapstructure:"backend" validate:"oneof=memory redis"`
	// Restore 启动时从快照恢复黑板
	Restore bool `mapstructure:"restore"`

	Format      string `mapstructure:"format" validate:"oneof=msgpack json"`
	Compression string `mapstructure:"compression" validate:"oneof=none snappy zstd lz4"`
	Checksum    string `mapstructure:"checksum" validate:"oneof=xxhash crc32c"`

	KeyPrefix string        `mapstructure:"key_prefix"`
	TTL       time.Duration `mapstructure:"ttl" validate:"gte=0"`
	Redis     redis.Config  `mapstructure:"redis"`
}

func defaults() map[string]any {
	return map[string]any{
		"log.level":             "info",
		"log.format":            "console",
		"log.enable_console":    true,
		"agent.tick_interval":   "100ms",
		"metrics.namespace":     "btagent",
		"tracing.service_name":  "btagent",
		"tracing.exporter_type": "stdout",
		"snapshot.backend":      "memory",
		"snapshot.format":       "msgpack",
		"snapshot.compression":  "none",
		"snapshot.checksum":     "xxhash",
		"snapshot.key_prefix":   "btagent:snapshot:",
	}
}

// Flags 命令行参数，覆盖配置文件
func Flags() *pflag.FlagSet {
	fs := pflag.NewFlagSet("btagent", pflag.ContinueOnError)
	fs.StringP("config", "c", "configs/agent.yaml", "配置文件路径")
	fs.Duration("agent-tick-interval", 100*time.Millisecond, "tick 间隔")
	fs.Bool("agent-stop-on-terminal", false, "根节点终态后停止")
	fs.Int("agent-workers", 0, "协程池大小")
	fs.String("log-level", "info", "日志等级")
	fs.Bool("snapshot-enabled", false, "启用黑板快照")
	return fs
}

// Load 读取配置文件，依次叠加环境变量与已设置的命令行参数，然后校验
func Load(path string, fs *pflag.FlagSet) (*Config, config.Manager, error) {
	mgr := config.NewManager(
		config.WithDefaults(defaults()),
		config.WithEnvPrefix(EnvPrefix),
	)
	if err := mgr.LoadFile(path); err != nil {
		return nil, nil, err
	}
	if fs != nil {
		if err := mgr.BindFlags(fs); err != nil {
			return nil, nil, err
		}
	}

	// 以各组件的默认配置为底，只覆盖配置源中出现的键，显式的 false 得以保留
	cfg := &Config{
		Log:     *logger.DefaultConfig(),
		Tracing: *otel.DefaultConfig(),
	}
	if err := mgr.Unmarshal(cfg); err != nil {
		return nil, nil, err
	}
	if err := Validate(cfg); err != nil {
		return nil, nil, err
	}
	return cfg, mgr, nil
}

var validator = config.NewValidator()

// Validate 校验配置；树名用作快照键和指标标签，必须唯一
func Validate(cfg *Config) error {
	if err := validator.Validate(cfg); err != nil {
		return err
	}

	seen := make(map[string]struct{}, len(cfg.Agent.Trees))
	for i, def := range cfg.Agent.Trees {
		if def.Name == "" {
			return fmt.Errorf("%w: agent.trees[%d] has no name", config.ErrValidationFailed, i)
		}
		if _, ok := seen[def.Name]; ok {
			return fmt.Errorf("%w: duplicate tree name %q", config.ErrValidationFailed, def.Name)
		}
		seen[def.Name] = struct{}{}
	}

	if cfg.Snapshot.Enabled && cfg.Snapshot.Backend == "redis" {
		if err := cfg.Snapshot.Redis.Validate(); err != nil {
			return fmt.Errorf("%w: snapshot.redis: %v", config.ErrValidationFailed, err)
		}
	}
	return nil
}

// NewAgentWatcher 监听 agent 段的变化
func NewAgentWatcher(mgr config.Manager) (*config.Watcher[AgentConfig], error) {
	return config.NewWatcher[AgentConfig](mgr, "agent", validator)
}
