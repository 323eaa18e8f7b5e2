package app

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/dustin/go-humanize"

	"github.com/roman-kulish/can-flightlog/internal/canlog"
	"github.com/roman-kulish/can-flightlog/internal/series"
	"github.com/roman-kulish/can-flightlog/internal/storage"
)

// Run decodes the configured trace and writes every enabled sink. Only a
// trace that cannot be read fails the run; sink and panel problems are logged.
func Run(ctx context.Context, config *Config, logger *slog.Logger) error {
	return run(ctx, config, logger, os.Stdout)
}

func run(ctx context.Context, config *Config, logger *slog.Logger, stdout io.Writer) error {
	table, err := decode(ctx, config, logger)
	if err != nil {
		return err
	}

	if missing := table.MissingChannels(); len(missing) > 0 {
		names := make([]string, len(missing))
		for i, f := range missing {
			names[i] = f.String()
		}
		logger.Warn("channels have no data", slog.Any("channels", names))
	}

	if err = writeSummary(stdout, series.Describe(table)); err != nil {
		return fmt.Errorf("writing summary: %w", err)
	}

	if config.Output.CSVFile != "" {
		if err = exportCSV(config.Output.CSVFile, table); err != nil {
			logger.Error("csv export failed", slog.String("path", config.Output.CSVFile), slog.Any("error", err))
		} else {
			logger.Info("exported csv", slog.String("path", config.Output.CSVFile))
		}
	}

	if config.Output.DBPath != "" {
		if err = exportDB(ctx, config, table, logger); err != nil {
			logger.Error("database export failed", slog.String("path", config.Output.DBPath), slog.Any("error", err))
		}
	}

	if config.Output.NoCharts {
		return nil
	}
	return renderCharts(config, table, logger)
}

func decode(ctx context.Context, config *Config, logger *slog.Logger) (*series.Table, error) {
	stat, err := os.Stat(config.Input.File)
	if err != nil {
		return nil, fmt.Errorf("checking input file: %w", err)
	}

	logger.Info("reading trace",
		slog.String("path", config.Input.File),
		slog.String("size", humanize.Bytes(uint64(stat.Size()))),
		slog.Int("skipLines", config.Input.SkipLines),
		slog.String("delimiter", string(config.delimiter)))

	r, err := canlog.Open(config.Input.File,
		canlog.WithSkipLines(config.Input.SkipLines),
		canlog.WithDelimiter(config.delimiter))
	if err != nil {
		return nil, err
	}
	defer r.Close()

	frames, err := canlog.ReadAll(ctx, r)
	if err != nil {
		return nil, fmt.Errorf("reading trace: %w", err)
	}
	for _, rowErr := range r.Skipped() {
		logger.Debug("skipped row", slog.Any("error", rowErr))
	}

	res := series.Extract(frames)
	for _, frameErr := range res.Errors {
		logger.Debug("skipped frame", slog.Any("error", frameErr))
	}

	table := series.Build(res.Samples, series.WithKernel(config.kernel))
	start, end := table.TimeRange()

	logger.Info("decoded trace",
		slog.Group("stats",
			slog.String("frames", humanize.Comma(int64(len(frames)))),
			slog.String("rows", humanize.Comma(int64(table.Len()))),
			slog.String("unknownFrames", humanize.Comma(int64(res.Unknown))),
			slog.String("malformedFrames", humanize.Comma(int64(res.Skipped()))),
			slog.String("malformedRows", humanize.Comma(int64(len(r.Skipped())))),
			slog.Float64("startTime", start),
			slog.Float64("endTime", end),
			slog.String("interpolation", string(table.Kernel)),
		))

	return table, nil
}

func exportDB(ctx context.Context, config *Config, table *series.Table, logger *slog.Logger) error {
	var opts []storage.StoreOption
	if config.Output.BatchSize > 0 {
		opts = append(opts, storage.WithMaxBatchSize(config.Output.BatchSize))
	}

	store := storage.NewSqliteStore(config.Output.DBPath, opts...)
	defer store.Close()

	sessionID, err := store.CreateSession(ctx, config.Input.File, config)
	if err != nil {
		return fmt.Errorf("creating session: %w", err)
	}
	if err = store.StoreSeries(ctx, sessionID, table.Rows); err != nil {
		return fmt.Errorf("storing series: %w", err)
	}

	logger.Info("exported to database",
		slog.String("path", config.Output.DBPath),
		slog.Int64("sessionID", sessionID),
		slog.String("rows", humanize.Comma(int64(table.Len()))))
	return nil
}

func renderCharts(config *Config, table *series.Table, logger *slog.Logger) error {
	renderer, err := NewChartRenderer(RenderConfig{
		PanelWidth:  config.Output.PanelWidth,
		PanelHeight: config.Output.PanelHeight,
		ColorTheme:  config.Output.Theme,
	}, config.presets)
	if err != nil {
		return fmt.Errorf("creating chart renderer: %w", err)
	}

	for _, group := range chartGroups {
		dest := config.outputFile(group.Name)

		img, panelErrs, err := renderer.Render(table, group)
		for _, panelErr := range panelErrs {
			logger.Warn("panel dropped", slog.Any("error", panelErr))
		}
		if err != nil {
			logger.Error("rendering chart failed", slog.String("group", group.Title), slog.Any("error", err))
			continue
		}

		if err = writeImage(dest, img, config.Output.Format); err != nil {
			logger.Error("writing chart failed", slog.String("destination", dest), slog.Any("error", err))
			continue
		}

		logger.Info("rendered chart",
			slog.Group("image",
				slog.String("title", group.Title),
				slog.String("destination", dest),
				slog.String("format", string(config.Output.Format)),
				slog.String("theme", string(config.Output.Theme)),
				slog.Int("width", img.Bounds().Dx()),
				slog.Int("height", img.Bounds().Dy()),
			))
	}
	return nil
}
