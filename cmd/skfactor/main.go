// Command skfactor computes the static structure factor S(k) of XYZ
// trajectories and prints it as CSV.
//
// Usage:
//
//	skfactor -mode rdf -bins 100 -k-max 15 traj1.xyz traj2.xyz
//	skfactor -config run.yaml -output s3://results/run1
//	skfactor -metrics-addr :9090 -output minio://localhost:9000/results traj.xyz
//
// Files are parsed concurrently and their frames are accumulated in the
// order given on the command line.
package main

import (
	"bytes"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"

	"github.com/hupe1980/skfactor"
	"github.com/hupe1980/skfactor/codec"
	"github.com/hupe1980/skfactor/internal/mmap"
	"github.com/hupe1980/skfactor/internal/xyz"
	"github.com/hupe1980/skfactor/prommetrics"
	"github.com/hupe1980/skfactor/resource"
	"github.com/hupe1980/skfactor/snapshot"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, os.Args[1:], os.Stdout, os.Stderr); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			os.Exit(2)
		}
		fmt.Fprintf(os.Stderr, "skfactor: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	cfg, err := parseArgs(args, stderr)
	if err != nil {
		return err
	}

	logger, err := newLogger(cfg, stderr)
	if err != nil {
		return err
	}

	rc := resource.NewController(resource.Config{
		MemoryLimitBytes:   cfg.MemoryLimitBytes,
		IOLimitBytesPerSec: cfg.IOLimitBytesPerSec,
	})

	opts := []skfactor.Option{
		skfactor.WithWorkers(cfg.Workers),
		skfactor.WithLogger(logger),
		skfactor.WithResourceController(rc),
	}

	if cfg.MetricsAddr != "" {
		reg := prometheus.NewRegistry()
		reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
		mc, err := prommetrics.New(reg, "skfactor")
		if err != nil {
			return err
		}
		opts = append(opts, skfactor.WithMetricsCollector(mc))

		srv := newMetricsServer(cfg.MetricsAddr, reg)
		go func() {
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				logger.Error("metrics server failed", "addr", cfg.MetricsAddr, "error", err)
			}
		}()
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = srv.Shutdown(shutdownCtx)
		}()
		logger.Info("serving metrics", "addr", cfg.MetricsAddr)
	}

	mode, _ := skfactor.ParseMode(cfg.Mode)
	sf, err := skfactor.New(cfg.Bins, cfg.KMax, cfg.KMin, mode, opts...)
	if err != nil {
		return err
	}
	defer sf.Close()

	if err := accumulate(ctx, sf, cfg, rc, logger); err != nil {
		return err
	}

	result, err := sf.Snapshot()
	if err != nil {
		return err
	}
	if err := result.WriteCSV(stdout); err != nil {
		return fmt.Errorf("write csv: %w", err)
	}

	if cfg.Output == "" {
		return nil
	}
	return save(ctx, cfg, rc, result, logger)
}

func newLogger(cfg Config, w io.Writer) (*skfactor.Logger, error) {
	level, err := parseLevel(cfg.LogLevel)
	if err != nil {
		return nil, err
	}
	opts := &slog.HandlerOptions{Level: level}
	if cfg.LogFormat == "json" {
		return skfactor.NewLogger(slog.NewJSONHandler(w, opts)), nil
	}
	return skfactor.NewLogger(slog.NewTextHandler(w, opts)), nil
}

func newMetricsServer(addr string, reg *prometheus.Registry) *http.Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{Registry: reg}))
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	return &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}
}

type trajectory struct {
	frames []*xyz.Frame
	err    error
	done   chan struct{}
}

// accumulate parses cfg.Inputs with at most cfg.Parsers files in flight and
// feeds their frames to sf in input order.
func accumulate(ctx context.Context, sf *skfactor.StaticStructureFactor, cfg Config, rc *resource.Controller, logger *skfactor.Logger) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	trajs := make([]*trajectory, len(cfg.Inputs))
	for i := range trajs {
		trajs[i] = &trajectory{done: make(chan struct{})}
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(cfg.Parsers)
	parsed := make(chan struct{})
	var parseErr error
	go func() {
		defer close(parsed)
		for i, path := range cfg.Inputs {
			t := trajs[i]
			g.Go(func() error {
				defer close(t.done)
				if err := gctx.Err(); err != nil {
					t.err = err
					return err
				}
				t.frames, t.err = readTrajectory(gctx, path, rc)
				return t.err
			})
		}
		parseErr = g.Wait()
	}()
	defer func() {
		cancel()
		<-parsed
	}()

	progress := rate.Sometimes{Interval: cfg.ProgressInterval}
	var frames int
	for i, path := range cfg.Inputs {
		t := trajs[i]
		select {
		case <-t.done:
		case <-ctx.Done():
			return ctx.Err()
		}
		if t.err != nil {
			if ctx.Err() == nil {
				// Report the parse failure that canceled the others.
				<-parsed
				return parseErr
			}
			return t.err
		}

		for j, f := range t.frames {
			if err := sf.Accumulate(ctx, f.Box, f.Points); err != nil {
				return fmt.Errorf("%s frame %d: %w", path, j+1, err)
			}
			frames++
			progress.Do(func() {
				logger.Info("progress", "file", path, "frames", frames)
			})
		}
		t.frames = nil
	}

	logger.Info("accumulated", "files", len(cfg.Inputs), "frames", frames, "min_valid_k", sf.MinValidK())
	return nil
}

func readTrajectory(ctx context.Context, path string, rc *resource.Controller) ([]*xyz.Frame, error) {
	m, err := mmap.Open(path)
	if err != nil {
		return nil, err
	}
	defer m.Close()
	_ = m.Advise(mmap.AccessSequential)

	frames, err := xyz.ReadAll(resource.NewRateLimitedReader(ctx, bytes.NewReader(m.Bytes()), rc))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	if len(frames) == 0 {
		return nil, fmt.Errorf("%s: no frames", path)
	}
	return frames, nil
}

func save(ctx context.Context, cfg Config, rc *resource.Controller, r *snapshot.Result, logger *skfactor.Logger) error {
	store, err := openStore(ctx, cfg.Output)
	if err != nil {
		return err
	}

	c, _ := codec.ByName(cfg.Codec)
	comp, _ := snapshot.ParseCompression(cfg.Compression)

	start := time.Now()
	if err := snapshot.Save(ctx, store, cfg.Snapshot, r,
		snapshot.WithCodec(c),
		snapshot.WithCompression(comp),
		snapshot.WithResourceController(rc),
	); err != nil {
		return fmt.Errorf("save snapshot: %w", err)
	}
	logger.Info("snapshot saved", "output", cfg.Output, "name", cfg.Snapshot, "duration", time.Since(start))
	return nil
}
