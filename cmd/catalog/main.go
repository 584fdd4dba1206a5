package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"sort"
	"strings"

	"catalog"
	"catalog/config"
	"catalog/metrics"
	"catalog/tx"

	"github.com/containerd/log"
	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
)

type app struct {
	configPath  string
	showMetrics bool
	cfg         *config.Config
	reg         *prometheus.Registry
	metrics     *metrics.Metrics
}

func newRootCmd() *cobra.Command {
	a := &app{reg: prometheus.NewRegistry()}
	a.metrics = metrics.New(a.reg)
	root := &cobra.Command{
		Use:           "catalog",
		Short:         "Query the dataset catalog",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.setup()
		},
		PersistentPostRunE: func(cmd *cobra.Command, _ []string) error {
			if !a.showMetrics {
				return nil
			}
			return a.writeMetrics(cmd)
		},
	}
	root.PersistentFlags().StringVar(&a.configPath, "config", "", "config file (yaml, json or toml)")
	root.PersistentFlags().BoolVar(&a.showMetrics, "metrics", false, "print filter and list metrics to stderr")
	root.AddCommand(a.initCmd(), a.datasetsCmd(), a.tablesCmd())
	return root
}

// setup 读取配置并设置日志
func (a *app) setup() (err error) {
	cfg, err := config.Load(a.configPath)
	if err != nil {
		return
	}
	if err = log.SetLevel(cfg.Log.Level); err != nil {
		return errors.Wrapf(err, "log level %q", cfg.Log.Level)
	}
	format := log.TextFormat
	if cfg.Log.Format == string(log.JSONFormat) {
		format = log.JSONFormat
	}
	if err = log.SetFormat(format); err != nil {
		return
	}
	a.cfg = cfg
	return
}

func (a *app) open(ctx context.Context) (s *catalog.SqliteImpl, err error) {
	s = catalog.NewSqliteImpl(catalog.WithMetrics(a.metrics))
	if err = s.Open(ctx, a.cfg.DB.Path, a.cfg); err != nil {
		return nil, err
	}
	return
}

func (a *app) withReadTx(ctx context.Context, fn func(s *catalog.SqliteImpl, rtx tx.ReadTx) error) (err error) {
	s, err := a.open(ctx)
	if err != nil {
		return
	}
	defer s.Close(ctx)
	rtx, err := s.ReadTx(ctx)
	if err != nil {
		return
	}
	defer rtx.Rollback()
	return fn(s, rtx)
}

// writeMetrics 每行一个样本：name{labels} value
func (a *app) writeMetrics(cmd *cobra.Command) error {
	families, err := a.reg.Gather()
	if err != nil {
		return errors.Wrap(err, "gather metrics")
	}
	lines := []string{}
	for _, mf := range families {
		for _, m := range mf.GetMetric() {
			labels := []string{}
			for _, lp := range m.GetLabel() {
				labels = append(labels, fmt.Sprintf("%s=%q", lp.GetName(), lp.GetValue()))
			}
			var value float64
			switch {
			case m.GetCounter() != nil:
				value = m.GetCounter().GetValue()
			case m.GetHistogram() != nil:
				value = float64(m.GetHistogram().GetSampleCount())
			}
			lines = append(lines, fmt.Sprintf("%s{%s} %v", mf.GetName(), strings.Join(labels, ","), value))
		}
	}
	sort.Strings(lines)
	for _, line := range lines {
		fmt.Fprintln(cmd.ErrOrStderr(), line)
	}
	return nil
}

func (a *app) initCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Create the catalog tables",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			s, err := a.open(ctx)
			if err != nil {
				return err
			}
			log.G(ctx).WithField("path", a.cfg.DB.Path).Info("catalog ready")
			return s.Close(ctx)
		},
	}
}

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()
	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		cancel()
		os.Exit(1)
	}
}
