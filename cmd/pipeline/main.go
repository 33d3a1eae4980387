package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"delivery-pipeline/internal/config"
	"delivery-pipeline/internal/infrastructure"
	"delivery-pipeline/internal/model"
	"delivery-pipeline/internal/pipeline"
	"delivery-pipeline/pkg/utils"
)

func main() {
	if err := run(os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintf(os.Stderr, "pipeline: %v\n", err)
		os.Exit(1)
	}
}

// run layers the command line flags over the loaded configuration, so
// the CLI honours the same .env, YAML file and PIPELINE_* variables as
// the API server.
func run(args []string, stdout, stderr io.Writer) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	fs := flag.NewFlagSet("pipeline", flag.ContinueOnError)
	fs.SetOutput(stderr)
	file := fs.String("file", "", "spreadsheet export to process (.xls, .xlsx, .csv)")
	format := fs.String("format", "", "force the input format; defaults to the file extension")
	top := fs.Int("top", cfg.Pipeline.TopPostalCodes, "number of incident postal codes to report")
	xlsxOut := fs.String("xlsx", "", "also write the report workbook to this path")
	outDir := fs.String("out", "", "write report.json and the workbook under <out>/<run id>/")
	monthFirst := fs.Bool("month-first", !cfg.Pipeline.DayFirst, "read ambiguous text dates as month/day")
	timeout := fs.String("timeout", "2m", "processing timeout")
	logLevel := fs.String("log-level", cfg.Logging.Level, "log level (debug, info, warn, error)")
	logFormat := fs.String("log-format", cfg.Logging.Format, "log format (json, text)")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *file == "" {
		fs.Usage()
		return errors.New("-file is required")
	}

	cfg.Logging.Level = *logLevel
	cfg.Logging.Format = *logFormat
	logger, err := infrastructure.NewLogger(cfg.Logging, stderr)
	if err != nil {
		return err
	}

	if *format == "" {
		*format = string(pipeline.FormatFromFilename(*file))
	}

	src, err := os.Open(*file)
	if err != nil {
		return &pipeline.LoadError{Err: err}
	}
	defer src.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	ctx, cancel := context.WithTimeout(ctx, utils.ParseDuration(*timeout, 2*time.Minute))
	defer cancel()

	runner := pipeline.NewRunner(pipeline.Options{
		TopPostalCodes: cfg.Pipeline.TopPostalCodes,
		DayFirst:       !*monthFirst,
		MaxRows:        cfg.Pipeline.MaxRows,
	}, nil, nil, logger)

	report, err := runner.Run(ctx, model.RunSpec{
		FileName: filepath.Base(*file),
		Format:   *format,
		TopN:     *top,
	}, src)
	if err != nil {
		return err
	}

	exporter := pipeline.NewExportManager(report)
	if *xlsxOut != "" {
		if err := exportResult(exporter.ExportToFile(*xlsxOut)); err != nil {
			return err
		}
	}
	if *outDir != "" {
		om := utils.NewOutputManager(*outDir)
		for _, name := range []string{"report.json", utils.ReportFileName(*file)} {
			path, err := om.GetOutputFilePath(report.RunID, name)
			if err != nil {
				return err
			}
			if err := exportResult(exporter.ExportToFile(path)); err != nil {
				return err
			}
			logger.Info("report written", slog.String("path", path))
		}
	}

	encoder := json.NewEncoder(stdout)
	encoder.SetIndent("", "  ")
	return encoder.Encode(report)
}

func exportResult(res model.ExportResult) error {
	if !res.Success {
		return fmt.Errorf("export %s: %s", res.Path, res.Error)
	}
	return nil
}
