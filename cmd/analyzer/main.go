package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"

	"github.com/sheetsage/sheetsage-ai-go/internal/config"
	"github.com/sheetsage/sheetsage-ai-go/internal/logging"
	"github.com/sheetsage/sheetsage-ai-go/internal/models"
	"github.com/sheetsage/sheetsage-ai-go/internal/services"
	"github.com/sheetsage/sheetsage-ai-go/internal/utils"
)

const serviceVersion = "1.0.0"

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Analysis failed: %v\n", err)
		if kind, ok := utils.KindOf(err); ok {
			fmt.Fprintf(os.Stderr, "Hint: %s\n", utils.Guidance(kind))
		}
		os.Exit(1)
	}
}

func run() error {
	var (
		urlFlag  = flag.String("url", "", "sharing link of the spreadsheet to analyze")
		fileFlag = flag.String("file", "", "path of a local spreadsheet or CSV file")
		outFlag  = flag.String("out", "", "write the JSON result to this file instead of stdout")
	)
	flag.Parse()

	if (*urlFlag == "") == (*fileFlag == "") {
		return fmt.Errorf("exactly one of -url or -file is required")
	}

	// Optional .env for local runs; real deployments set env vars directly
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	appLogger := logging.NewStandardOTLPLogger(logging.OTLPConfig{
		Enabled:        cfg.Telemetry.OTLPEnabled,
		Endpoint:       cfg.Telemetry.OTLPEndpoint,
		ServiceName:    cfg.Telemetry.ServiceName,
		ServiceVersion: serviceVersion,
		Environment:    cfg.Environment,
		LogLevel:       cfg.LogLevel,
	})
	appLogger.LogStartup(cfg.Telemetry.ServiceName, serviceVersion)
	defer appLogger.LogShutdown(cfg.Telemetry.ServiceName, "analysis finished")

	logger := logging.NewServiceLogger(cfg.LogLevel)
	service := services.NewAnalyzerService(cfg, logger, appLogger)

	monitor := services.NewPerformanceMonitor(logger, appLogger, 30*time.Second)
	monitorCtx, stopMonitor := context.WithCancel(context.Background())
	defer stopMonitor()
	go monitor.Start(monitorCtx)
	defer monitor.Stop()

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	result, err := analyze(ctx, service, *urlFlag, *fileFlag)
	monitor.RecordRequest(err)
	if err != nil {
		return err
	}

	encoded, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode result: %w", err)
	}

	if *outFlag != "" {
		if err := os.WriteFile(*outFlag, encoded, 0o644); err != nil {
			return fmt.Errorf("failed to write result file: %w", err)
		}
		logger.WithField("path", *outFlag).Info("Result written")
		return nil
	}

	fmt.Println(string(encoded))
	return nil
}

func analyze(ctx context.Context, service *services.AnalyzerService, url, file string) (*analysisResult, error) {
	if url != "" {
		result, err := service.AnalyzeURL(ctx, url)
		if err != nil {
			return nil, err
		}
		return &analysisResult{DashboardResult: result, Source: url}, nil
	}

	data, err := os.ReadFile(file)
	if err != nil {
		return nil, fmt.Errorf("failed to read input file: %w", err)
	}
	result, err := service.AnalyzeUpload(ctx, data, file)
	if err != nil {
		return nil, err
	}
	return &analysisResult{DashboardResult: result, Source: file}, nil
}

type analysisResult struct {
	*models.DashboardResult
	Source string `json:"source"`
}
