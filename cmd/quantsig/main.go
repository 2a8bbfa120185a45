// Command quantsig evaluates trading indicators against a forward outcome
// series: descriptive profiles, optimal-threshold search with Monte Carlo
// permutation p-values, mutual information under cyclic permutation, and the
// serial-correlated mean break test. Results are printed as a Markdown report,
// optionally rendered to HTML.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"quantsig/adapters/battery"
	"quantsig/adapters/excel"
	"quantsig/adapters/rng"
	"quantsig/adapters/stats"
	"quantsig/domain/series"
	domstats "quantsig/domain/stats"
	"quantsig/internal/config"
	"quantsig/internal/report"
	"quantsig/internal/testkit"
	"quantsig/ports"
)

func main() {
	configPath := flag.String("config", "", "path to YAML config file")
	dataFile := flag.String("file", "", "XLSX/CSV data file (overrides config)")
	htmlOut := flag.String("html", "", "also write the report as HTML to this path")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}
	if *dataFile != "" {
		cfg.Data.File = *dataFile
	}

	logger := newLogger(cfg.App.LogLevel)
	defer logger.Sync()

	if err := run(context.Background(), cfg, logger, *htmlOut); err != nil {
		logger.Error("evaluation failed", zap.Error(err))
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config, logger *zap.Logger, htmlOut string) error {
	rngAdapter := rng.New()

	frame, err := loadFrame(ctx, cfg, rngAdapter)
	if err != nil {
		return err
	}

	targetName := cfg.Data.TargetColumn
	if err := frame.Require(targetName); err != nil {
		return err
	}
	target, _ := frame.Column(targetName)

	indicators := cfg.Data.Indicators
	if len(indicators) == 0 {
		for _, name := range frame.Names() {
			if name != targetName {
				indicators = append(indicators, name)
			}
		}
	}
	logger.Info("evaluation starting",
		zap.Int("rows", frame.Len()),
		zap.Strings("indicators", indicators),
		zap.String("target", targetName))

	engine := battery.NewEngine(rngAdapter, logger)
	engine.SetBaseSeed(cfg.Battery.Seed)
	if cfg.Battery.Workers > 0 {
		engine.SetWorkers(cfg.Battery.Workers)
	}

	var out strings.Builder

	// Descriptive profiles.
	statsRows, err := describeAll(frame, indicators)
	if err != nil {
		return err
	}
	out.WriteString(report.BasicStatsReport(statsRows))
	out.WriteString("\n")

	// Threshold tables and permutation tests.
	minKept, err := stats.MinKeptFromPercent(cfg.Battery.MinKeptPercent, frame.Len())
	if err != nil {
		return err
	}
	sections := make([]report.ThresholdSection, 0, len(indicators))
	for _, name := range indicators {
		signal, _ := frame.Column(name)
		rows, err := stats.BuildThresholdTable(signal, target, cfg.Battery.BinCount)
		if err != nil {
			return err
		}
		test, err := engine.ThresholdTest(ctx, signal, target, battery.ThresholdTestParams{
			MinKept:  minKept,
			UseLog:   cfg.Battery.UseLog,
			FlipSign: cfg.Battery.FlipSign,
			Reps:     cfg.Battery.Replications,
		})
		if err != nil {
			return err
		}
		sections = append(sections, report.ThresholdSection{
			Indicator: name,
			Target:    targetName,
			Rows:      rows,
			Test:      test,
		})
	}
	out.WriteString(report.ThresholdReport(sections))
	out.WriteString("\n")

	// Mutual information under cyclic permutation.
	miScores := make([]domstats.MIScore, 0, len(indicators))
	for _, name := range indicators {
		signal, _ := frame.Column(name)
		score, err := engine.MutualInformationTest(ctx, name, signal, targetName, target, battery.MITestParams{
			NBinsFeature: cfg.Battery.NBinsFeature,
			NBinsTarget:  cfg.Battery.NBinsTarget,
			Permutations: cfg.Battery.Replications,
		})
		if err != nil {
			return err
		}
		miScores = append(miScores, score)
	}
	out.WriteString(report.MutualInfoReport(miScores))
	out.WriteString("\n")

	// Serial-correlated mean break test across all indicators.
	indicatorFrame, err := frame.Select(indicators...)
	if err != nil {
		return err
	}
	maxRecent := cfg.Battery.MaxRecent
	if maxRecent >= frame.Len() {
		maxRecent = frame.Len() - 1
	}
	breakReport, err := engine.BreakTest(ctx, indicatorFrame, battery.BreakTestParams{
		MinRecent:    cfg.Battery.MinRecent,
		MaxRecent:    maxRecent,
		Lag:          cfg.Battery.Lag,
		Permutations: cfg.Battery.Replications,
	})
	if err != nil {
		return err
	}
	out.WriteString(report.BreakReport(breakReport))

	fmt.Println(out.String())
	if htmlOut != "" {
		if err := os.WriteFile(htmlOut, report.RenderHTML(out.String()), 0o644); err != nil {
			return err
		}
		logger.Info("HTML report written", zap.String("path", htmlOut))
	}
	return nil
}

func loadFrame(ctx context.Context, cfg *config.Config, rngAdapter *rng.Adapter) (*series.Frame, error) {
	if cfg.Data.File != "" {
		var src ports.SeriesSource = excel.NewDataReader(cfg.Data.File)
		return src.Frame(ctx)
	}
	demoRNG := rngAdapter.SeededStream("demo-frame", cfg.Battery.Seed)
	return testkit.DemoFrame(demoRNG, cfg.Data.DemoRows, 2)
}

func describeAll(frame *series.Frame, indicators []string) ([]report.BasicStatsRow, error) {
	rows := make([]report.BasicStatsRow, 0, len(indicators))
	for _, name := range indicators {
		values, _ := frame.Column(name)
		profile, err := stats.Describe(values)
		if err != nil {
			return nil, err
		}
		iqr, err := stats.IQR(values)
		if err != nil {
			return nil, err
		}
		ratio, err := stats.RangeIQRRatio(values)
		if err != nil {
			return nil, err
		}
		entropy, err := stats.RelativeEntropy(values)
		if err != nil {
			return nil, err
		}
		rows = append(rows, report.BasicStatsRow{
			Indicator:       name,
			NCases:          profile.NCases,
			Mean:            profile.Mean,
			Min:             profile.Min,
			Max:             profile.Max,
			IQR:             iqr,
			RangeIQRRatio:   ratio,
			RelativeEntropy: entropy,
		})
	}
	return rows, nil
}

func newLogger(level string) *zap.Logger {
	lvl := zapcore.InfoLevel
	switch strings.ToLower(level) {
	case "debug":
		lvl = zapcore.DebugLevel
	case "warn":
		lvl = zapcore.WarnLevel
	case "error":
		lvl = zapcore.ErrorLevel
	}
	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(lvl)
	cfg.OutputPaths = []string{"stderr"}
	logger, err := cfg.Build()
	if err != nil {
		return zap.NewNop()
	}
	return logger
}
