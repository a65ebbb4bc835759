package main

import (
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/danpilch/diskmon/pkg/collectors/disk"
	"github.com/danpilch/diskmon/pkg/config"
	"github.com/danpilch/diskmon/pkg/output"
	"github.com/danpilch/diskmon/pkg/resource"
)

type globalFlags struct {
	configPath string
	logLevel   string
	logFormat  string
	source     string
	all        bool
	timeout    time.Duration
	warn       float64
	crit       float64
	format     string
}

var flags globalFlags

func addGlobalFlags(cmd *cobra.Command) {
	pf := cmd.PersistentFlags()
	pf.StringVarP(&flags.configPath, "config", "c", "", "path to YAML config file")
	pf.StringVar(&flags.logLevel, "log-level", "", "log level (trace, debug, info, warn, error)")
	pf.StringVar(&flags.logFormat, "log-format", "", "log format (text, json)")
	pf.StringVar(&flags.source, "source", "", "disk source (gopsutil, statfs)")
	pf.BoolVar(&flags.all, "all", false, "include pseudo and virtual filesystems")
	pf.DurationVar(&flags.timeout, "timeout", 0, "timeout for each OS query")
	pf.Float64Var(&flags.warn, "warn", 0, "warning threshold for used space, percent")
	pf.Float64Var(&flags.crit, "crit", 0, "critical threshold for used space, percent")
	pf.StringVarP(&flags.format, "format", "o", "", "output format (table, json, tsv)")
}

// env is everything a command needs after configuration is resolved.
type env struct {
	cfg      config.Config
	logger   *logrus.Logger
	registry *resource.Registry
	disks    *disk.Collector
}

func loadConfig(cmd *cobra.Command) (config.Config, error) {
	cfg, err := config.Load(flags.configPath)
	if err != nil {
		return cfg, err
	}

	f := cmd.Flags()
	if f.Changed("log-level") {
		cfg.Log.Level = flags.logLevel
	}
	if f.Changed("log-format") {
		cfg.Log.Format = flags.logFormat
	}
	if f.Changed("source") {
		cfg.Source = flags.source
	}
	if f.Changed("all") {
		cfg.AllPartitions = flags.all
	}
	if f.Changed("timeout") {
		cfg.QueryTimeout = flags.timeout
	}
	if f.Changed("warn") {
		cfg.Thresholds.WarnUtil = flags.warn
	}
	if f.Changed("crit") {
		cfg.Thresholds.CritUtil = flags.crit
	}
	if f.Changed("format") {
		cfg.Format = output.Format(flags.format)
	}
	return cfg, nil
}

func setup(cmd *cobra.Command, override func(*config.Config) error) (*env, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, err
	}
	if override != nil {
		if err := override(&cfg); err != nil {
			return nil, err
		}
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	logger, err := cfg.NewLogger()
	if err != nil {
		return nil, err
	}

	src, err := disk.NewSource(cfg.Source, cfg.AllPartitions)
	if err != nil {
		return nil, err
	}

	reg := resource.NewRegistry(logger, cfg.QueryTimeout)
	if err := disk.Register(reg, src); err != nil {
		return nil, err
	}

	logger.WithFields(logrus.Fields{
		"source":  cfg.Source,
		"timeout": cfg.QueryTimeout,
	}).Debug("diskmon configured")

	return &env{
		cfg:      cfg,
		logger:   logger,
		registry: reg,
		disks:    disk.NewCollector(reg, logger),
	}, nil
}
