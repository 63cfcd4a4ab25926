package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"runtime"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/hupe1980/skfactor"
	"github.com/hupe1980/skfactor/codec"
	"github.com/hupe1980/skfactor/snapshot"
)

// Config is a run of the CLI. Flags override values from the YAML run file.
type Config struct {
	Bins    int     `yaml:"bins"`
	KMax    float64 `yaml:"k_max"`
	KMin    float64 `yaml:"k_min"`
	Mode    string  `yaml:"mode"`
	Workers int     `yaml:"workers"`
	Parsers int     `yaml:"parsers"`

	MemoryLimitBytes   int64 `yaml:"memory_limit_bytes"`
	IOLimitBytesPerSec int64 `yaml:"io_limit_bytes_per_sec"`

	Output      string `yaml:"output"`
	Snapshot    string `yaml:"snapshot"`
	Codec       string `yaml:"codec"`
	Compression string `yaml:"compression"`

	MetricsAddr      string        `yaml:"metrics_addr"`
	LogLevel         string        `yaml:"log_level"`
	LogFormat        string        `yaml:"log_format"`
	ProgressInterval time.Duration `yaml:"progress_interval"`

	Inputs []string `yaml:"inputs"`
}

// DefaultConfig returns the settings used when neither flags nor a run file
// set a value.
func DefaultConfig() Config {
	return Config{
		Bins:             200,
		KMax:             20,
		Mode:             skfactor.ModeDirect.String(),
		Parsers:          runtime.GOMAXPROCS(0),
		Snapshot:         "skfactor.skf",
		Codec:            codec.Default.Name(),
		Compression:      snapshot.CompressionZstd.String(),
		LogLevel:         "info",
		LogFormat:        "text",
		ProgressInterval: 5 * time.Second,
	}
}

// LoadConfig reads a YAML run file on top of DefaultConfig.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()

	b, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(b, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config %s: %w", path, err)
	}
	return cfg, nil
}

// Validate checks the settings the engine does not check itself.
func (c Config) Validate() error {
	var errs []error
	if _, err := skfactor.ParseMode(c.Mode); err != nil {
		errs = append(errs, err)
	}
	if _, ok := codec.ByName(c.Codec); !ok {
		errs = append(errs, fmt.Errorf("unknown codec %q", c.Codec))
	}
	if _, err := snapshot.ParseCompression(c.Compression); err != nil {
		errs = append(errs, err)
	}
	if _, err := parseLevel(c.LogLevel); err != nil {
		errs = append(errs, err)
	}
	if c.LogFormat != "text" && c.LogFormat != "json" {
		errs = append(errs, fmt.Errorf("unknown log format %q", c.LogFormat))
	}
	if c.Parsers <= 0 {
		errs = append(errs, fmt.Errorf("parsers must be positive, got %d", c.Parsers))
	}
	if c.Output != "" && c.Snapshot == "" {
		errs = append(errs, errors.New("output set without a snapshot name"))
	}
	if len(c.Inputs) == 0 {
		errs = append(errs, errors.New("no input trajectories"))
	}
	return errors.Join(errs...)
}

func parseLevel(s string) (slog.Level, error) {
	var l slog.Level
	if err := l.UnmarshalText([]byte(s)); err != nil {
		return 0, fmt.Errorf("unknown log level %q", s)
	}
	return l, nil
}

// parseArgs builds the Config for args. A -config run file is loaded first so
// that explicit flags win over it.
func parseArgs(args []string, stderr io.Writer) (Config, error) {
	cfg := DefaultConfig()
	if path := configPath(args); path != "" {
		var err error
		if cfg, err = LoadConfig(path); err != nil {
			return cfg, err
		}
	}

	fs := flag.NewFlagSet("skfactor", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.Usage = func() {
		fmt.Fprintln(stderr, "usage: skfactor [flags] trajectory.xyz...")
		fs.PrintDefaults()
	}

	fs.String("config", "", "YAML run file")
	fs.IntVar(&cfg.Bins, "bins", cfg.Bins, "number of k bins")
	fs.Float64Var(&cfg.KMax, "k-max", cfg.KMax, "upper bound of the k axis")
	fs.Float64Var(&cfg.KMin, "k-min", cfg.KMin, "lower bound of the k axis")
	fs.StringVar(&cfg.Mode, "mode", cfg.Mode, "estimator: direct or rdf")
	fs.IntVar(&cfg.Workers, "workers", cfg.Workers, "histogram worker slots (0 = GOMAXPROCS)")
	fs.IntVar(&cfg.Parsers, "parsers", cfg.Parsers, "trajectory files parsed concurrently")
	fs.Int64Var(&cfg.MemoryLimitBytes, "memory-limit", cfg.MemoryLimitBytes, "memory budget for distance matrices in bytes (0 = unlimited)")
	fs.Int64Var(&cfg.IOLimitBytesPerSec, "io-limit", cfg.IOLimitBytesPerSec, "input and upload throughput in bytes/s (0 = unlimited)")
	fs.StringVar(&cfg.Output, "output", cfg.Output, "snapshot destination: file://dir, s3://bucket/prefix or minio://endpoint/bucket/prefix")
	fs.StringVar(&cfg.Snapshot, "snapshot", cfg.Snapshot, "snapshot blob name")
	fs.StringVar(&cfg.Codec, "codec", cfg.Codec, "snapshot codec: json or go-json")
	fs.StringVar(&cfg.Compression, "compression", cfg.Compression, "snapshot compression: none, lz4 or zstd")
	fs.StringVar(&cfg.MetricsAddr, "metrics-addr", cfg.MetricsAddr, "serve Prometheus metrics on this address")
	fs.StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "debug, info, warn or error")
	fs.StringVar(&cfg.LogFormat, "log-format", cfg.LogFormat, "text or json")
	fs.DurationVar(&cfg.ProgressInterval, "progress", cfg.ProgressInterval, "minimum interval between progress logs")

	if err := fs.Parse(args); err != nil {
		return cfg, err
	}
	if fs.NArg() > 0 {
		cfg.Inputs = fs.Args()
	}
	return cfg, cfg.Validate()
}

func configPath(args []string) string {
	for i, a := range args {
		if a == "--" {
			return ""
		}
		name := strings.TrimLeft(a, "-")
		if name == a {
			continue
		}
		if v, ok := strings.CutPrefix(name, "config="); ok {
			return v
		}
		if name == "config" && i+1 < len(args) {
			return args[i+1]
		}
	}
	return ""
}
