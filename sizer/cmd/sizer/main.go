package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"slices"
	"syscall"

	"github.com/google/uuid"

	"github.com/pipesizer/pipesizer/sizer/internal/catalog"
	"github.com/pipesizer/pipesizer/sizer/internal/checks"
	"github.com/pipesizer/pipesizer/sizer/internal/config"
	"github.com/pipesizer/pipesizer/sizer/internal/engine"
	"github.com/pipesizer/pipesizer/sizer/internal/project"
	"github.com/pipesizer/pipesizer/sizer/internal/report"
)

func main() {
	configPath := flag.String("config", "", "path to config file (built-in defaults when empty)")
	projectPath := flag.String("project", "project.yaml", "path to project file")
	format := flag.String("format", "", "report format, overrides report.format: text | json")
	watch := flag.Bool("watch", false, "recompute whenever the config, project or catalog changes")
	flag.Parse()

	// Logs go to stderr; stdout carries the report.
	level := new(slog.LevelVar)
	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)

	cfg, err := loadConfig(*configPath, *format)
	if err != nil {
		slog.Error("failed to load config", "err", err)
		os.Exit(1)
	}
	setLevel(level, cfg.Log.Level)
	slog.Info("pipesizer starting",
		"config", *configPath,
		"project", *projectPath,
		"catalog", catalogSource(cfg),
		"checks", len(cfg.Checks),
	)

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	s := &sizer{projectPath: *projectPath, out: os.Stdout}
	if err := s.run(ctx, cfg); err != nil {
		slog.Error("sizing failed", "err", err)
		if !*watch {
			os.Exit(1)
		}
	}
	if !*watch {
		return
	}

	// Paths are fixed at startup; moving the catalog needs a restart.
	paths := []string{*projectPath, catalogSource(cfg)}
	if *configPath != "" {
		paths = append(paths, *configPath)
	}
	err = config.Watch(ctx, paths, cfg.Watch.Debounce, func(changed []string) {
		if *configPath != "" {
			next, err := loadConfig(*configPath, *format)
			if err != nil {
				slog.Error("config reload failed, keeping previous config", "err", err)
			} else {
				cfg = next
				setLevel(level, cfg.Log.Level)
			}
		}
		if err := s.run(ctx, cfg); err != nil {
			slog.Error("sizing failed", "err", err, "changed", changed)
		}
	})
	if err != nil {
		slog.Error("watcher stopped", "err", err)
		os.Exit(1)
	}
	slog.Info("pipesizer shutting down")
}

// sizer runs one load-compute-report cycle per call.
type sizer struct {
	projectPath string
	out         io.Writer
}

func (s *sizer) run(ctx context.Context, cfg *config.Config) error {
	logger := slog.Default().With("run_id", uuid.NewString())

	snap, err := loadCatalog(ctx, cfg.Catalog)
	if err != nil {
		return err
	}
	proj, err := project.Load(s.projectPath)
	if err != nil {
		return err
	}
	checker, err := checks.New(cfg.Checks)
	if err != nil {
		return fmt.Errorf("config: %w", err)
	}

	req, projWarnings := proj.Request(snap.Catalog)
	eng := engine.NewEngine(
		engine.WithLogger(logger),
		engine.WithMaterials(cfg.Materials.ByRole()),
	)
	res, err := eng.Compute(snap.Catalog, req)
	if err != nil {
		return err
	}

	res.Warnings = slices.Concat(snap.Warnings, projWarnings, res.Warnings)
	res.Warnings = append(res.Warnings, checker.Evaluate(res)...)

	if err := report.Write(s.out, cfg.Report.Format, res, report.Options{
		Title:      proj.Name,
		Candidates: cfg.Report.Candidates,
	}); err != nil {
		return err
	}
	if path := cfg.Report.MetricsPath; path != "" {
		if err := report.WriteTextfile(path, res, map[string]string{"project": proj.Name}); err != nil {
			return err
		}
	}

	attrs := []any{
		"project", proj.Name,
		"pump_head_m", res.PumpHeadM,
		"pump_flow_lpm", res.PumpFlowLPM,
		"pump_tier", res.PumpTier,
		"warnings", len(res.Warnings),
	}
	if res.SelectedPump != nil {
		attrs = append(attrs, "pump", res.SelectedPump.Pump.ID)
	}
	logger.Info("sizing complete", attrs...)
	return nil
}

func loadConfig(path, format string) (*config.Config, error) {
	cfg := config.Default()
	if path != "" {
		var err error
		if cfg, err = config.Load(path); err != nil {
			return nil, err
		}
	}
	if format != "" {
		cfg.Report.Format = format
	}
	return cfg, nil
}

func loadCatalog(ctx context.Context, c config.CatalogConfig) (*catalog.Snapshot, error) {
	if c.Dir != "" {
		return catalog.LoadDir(ctx, c.Dir)
	}
	return catalog.Load(c.Path)
}

func catalogSource(cfg *config.Config) string {
	if cfg.Catalog.Dir != "" {
		return cfg.Catalog.Dir
	}
	return cfg.Catalog.Path
}

func setLevel(v *slog.LevelVar, level string) {
	var l slog.Level
	if err := l.UnmarshalText([]byte(level)); err != nil {
		slog.Warn("unknown log level, using info", "level", level)
		l = slog.LevelInfo
	}
	v.Set(l)
}
