package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/lk2023060901/xdooria-bt/app/agent/internal/actions"
	"github.com/lk2023060901/xdooria-bt/app/agent/internal/conf"
	"github.com/lk2023060901/xdooria-bt/app/agent/internal/metrics"
	"github.com/lk2023060901/xdooria-bt/app/agent/internal/runner"
	"github.com/lk2023060901/xdooria-bt/app/agent/internal/store"
	"github.com/lk2023060901/xdooria-bt/pkg/bt"
	"github.com/lk2023060901/xdooria-bt/pkg/bt/btdef"
	"github.com/lk2023060901/xdooria-bt/pkg/checksum"
	"github.com/lk2023060901/xdooria-bt/pkg/compress"
	"github.com/lk2023060901/xdooria-bt/pkg/database/redis"
	"github.com/lk2023060901/xdooria-bt/pkg/logger"
	"github.com/lk2023060901/xdooria-bt/pkg/otel"
	"github.com/lk2023060901/xdooria-bt/pkg/prometheus"
	"github.com/lk2023060901/xdooria-bt/pkg/serializer"
	"github.com/spf13/pflag"
)

func main() {
	fs := conf.Flags()
	if err := fs.Parse(os.Args[1:]); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return
		}
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	if err := run(fs); err != nil {
		fmt.Fprintln(os.Stderr, "btagent:", err)
		os.Exit(1)
	}
}

func run(fs *pflag.FlagSet) error {
	path, _ := fs.GetString("config")
	cfg, mgr, err := conf.Load(path, fs)
	if err != nil {
		return err
	}

	// 初始化日志
	l, err := logger.New(&cfg.Log,
		logger.WithName("btagent"),
		logger.WithHooks(logger.SensitiveDataHook("password")),
	)
	if err != nil {
		return err
	}
	defer l.Sync()

	// 处理中断信号
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	promClient, err := prometheus.New(&cfg.Metrics, prometheus.WithLogger(l))
	if err != nil {
		return fmt.Errorf("metrics: %w", err)
	}
	defer promClient.Close()

	collector, err := metrics.NewTickCollector(promClient)
	if err != nil {
		return fmt.Errorf("metrics: %w", err)
	}

	tp, err := otel.New(&cfg.Tracing, otel.WithGlobal())
	if err != nil {
		return fmt.Errorf("tracing: %w", err)
	}
	defer tp.Close()

	snapshots, closeStore, err := newStore(ctx, cfg.Snapshot)
	if err != nil {
		return fmt.Errorf("snapshot: %w", err)
	}
	defer closeStore()

	factory, err := actions.NewFactory()
	if err != nil {
		return err
	}

	resources := make([]bt.TreeOption, 0, len(cfg.Agent.Scorers))
	for name, scorer := range cfg.Agent.Scorers {
		resources = append(resources, bt.WithResource(name, &scorer))
	}

	runners := make([]*runner.Runner, 0, len(cfg.Agent.Trees))
	for i := range cfg.Agent.Trees {
		def := &cfg.Agent.Trees[i]
		opts := append([]bt.TreeOption{bt.WithLogger(l), bt.WithObservers(collector)}, resources...)
		tree, err := btdef.BuildTree(def, factory, opts...)
		if err != nil {
			return err
		}
		l.Debug("tree built", "tree", tree.Name(), "id", tree.ID(), "repr", tree.PrettyRepr())

		r := runner.New(tree,
			runner.WithInterval(cfg.Agent.TickInterval),
			runner.WithStopOnTerminal(cfg.Agent.StopOnTerminal),
			runner.WithTracer(tp.Tracer("btagent")),
			runner.WithStore(snapshots),
			runner.WithLogger(l),
		)
		if cfg.Snapshot.Restore {
			if err := r.Restore(ctx); err != nil {
				l.Warn("restore snapshot failed", "tree", tree.Name(), "error", err)
			}
		}
		runners = append(runners, r)
	}

	group, err := runner.NewGroup(runners, cfg.Agent.Workers, l)
	if err != nil {
		return err
	}
	defer group.Close()
	group.SetInterval(cfg.Agent.TickInterval)

	// tick 间隔热更新；树结构的变化需要重启生效
	watcher, err := conf.NewAgentWatcher(mgr)
	if err != nil {
		return err
	}
	watcher.OnChange(func(a *conf.AgentConfig) {
		group.SetInterval(a.TickInterval)
	})
	watcher.OnError(func(err error) {
		l.Warn("config reload rejected", "error", err)
	})

	l.Info("agent started", "trees", len(runners), "interval", cfg.Agent.TickInterval, "metrics", promClient.Addr())
	err = group.Run(ctx)
	l.Info("agent stopped")
	return err
}

// newStore 按配置创建快照存储，未启用时返回 nil
func newStore(ctx context.Context, cfg conf.SnapshotConfig) (store.SnapshotStore, func(), error) {
	if !cfg.Enabled {
		return nil, func() {}, nil
	}
	codec, err := newCodec(cfg)
	if err != nil {
		return nil, nil, err
	}
	if cfg.Backend != "redis" {
		return store.NewMemoryStore(codec), func() {}, nil
	}

	client, err := redis.NewClient(&cfg.Redis)
	if err != nil {
		return nil, nil, err
	}
	if err := client.Ping(ctx); err != nil {
		client.Close()
		return nil, nil, err
	}

	s := store.NewRedisStore(client,
		store.WithKeyPrefix(cfg.KeyPrefix),
		store.WithTTL(cfg.TTL),
		store.WithCodec(codec),
	)
	return s, func() { client.Close() }, nil
}

func newCodec(cfg conf.SnapshotConfig) (*store.Codec, error) {
	var ser serializer.Serializer = serializer.NewMsgpack()
	if cfg.Format == "json" {
		ser = serializer.NewJSON()
	}
	c, err := compress.New(compress.Type(cfg.Compression))
	if err != nil {
		return nil, err
	}
	h, err := checksum.New(checksum.Type(cfg.Checksum))
	if err != nil {
		return nil, err
	}
	return store.NewCodec(ser, c, h), nil
}
