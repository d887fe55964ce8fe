package services

import (
	"context"
	"sync"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/sheetsage/sheetsage-ai-go/internal/analytics"
	"github.com/sheetsage/sheetsage-ai-go/internal/classifier"
	"github.com/sheetsage/sheetsage-ai-go/internal/config"
	"github.com/sheetsage/sheetsage-ai-go/internal/dashboard"
	"github.com/sheetsage/sheetsage-ai-go/internal/logging"
	"github.com/sheetsage/sheetsage-ai-go/internal/models"
	"github.com/sheetsage/sheetsage-ai-go/internal/parser"
	"github.com/sheetsage/sheetsage-ai-go/internal/resolver"
	"github.com/sheetsage/sheetsage-ai-go/internal/utils"
)

// AnalyzerService orchestrates the full pipeline: resolve, parse, classify,
// configure charts, run analytics. Requests share no mutable state, so one
// service instance handles concurrent calls.
type AnalyzerService struct {
	cfg          *config.Config
	logger       *logrus.Logger
	events       logging.Logger
	resolver     *resolver.Resolver
	parser       *parser.Parser
	configurator *dashboard.Configurator
	engine       *analytics.Engine
}

// NewAnalyzerService wires the pipeline components from configuration.
// Fetch attempts and analysis milestones go through the events logger.
func NewAnalyzerService(cfg *config.Config, logger *logrus.Logger, events logging.Logger) *AnalyzerService {
	cls := classifier.New(&cfg.Classifier)
	return &AnalyzerService{
		cfg:          cfg,
		logger:       logger,
		events:       events,
		resolver:     resolver.New(&cfg.Fetch, logger, events),
		parser:       parser.New(logger),
		configurator: dashboard.New(&cfg.Dashboard, cls, logger),
		engine:       analytics.New(&cfg.Analytics, logger),
	}
}

// AnalyzeURL fetches a linked document and builds its dashboard. Fetch and
// parse failures are fatal for the request; downstream stages degrade per
// sheet instead.
func (s *AnalyzerService) AnalyzeURL(ctx context.Context, rawURL string) (*models.DashboardResult, error) {
	requestID := uuid.New().String()
	log := s.logger.WithFields(logrus.Fields{
		"request_id": requestID,
		"url":        rawURL,
	})
	log.Info("Starting URL analysis")

	doc, err := s.resolver.Resolve(ctx, rawURL)
	if err != nil {
		log.WithError(err).Warn("Document resolution failed")
		return nil, err
	}
	return s.analyze(requestID, doc)
}

// AnalyzeUpload builds a dashboard from already-transferred file bytes.
func (s *AnalyzerService) AnalyzeUpload(ctx context.Context, data []byte, filename string) (*models.DashboardResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if len(data) == 0 {
		return nil, utils.NewPipelineError(utils.FailureEmptyPayload, "uploaded file is empty")
	}

	requestID := uuid.New().String()
	s.logger.WithFields(logrus.Fields{
		"request_id": requestID,
		"filename":   filename,
		"bytes":      len(data),
	}).Info("Starting upload analysis")

	doc := &models.RawDocument{
		Bytes:      data,
		SourceKind: models.SourceUpload,
		Filename:   filename,
	}
	return s.analyze(requestID, doc)
}

func (s *AnalyzerService) analyze(requestID string, doc *models.RawDocument) (*models.DashboardResult, error) {
	sheets, err := s.parser.Parse(doc)
	if err != nil {
		s.logger.WithFields(logrus.Fields{
			"request_id": requestID,
		}).WithError(err).Warn("Document parsing failed")
		return nil, err
	}

	charts := s.configurator.Build(sheets)
	if len(charts) == 0 {
		s.logger.WithFields(logrus.Fields{
			"request_id": requestID,
			"sheets":     len(sheets),
		}).Warn("No sheet has a usable numeric column")
		return nil, utils.NewPipelineError(utils.FailureNoData, "no sheet has a usable numeric column")
	}
	report := s.engine.Analyze(sheets, charts)

	s.events.LogAnalysisEvent("analysis_complete", map[string]interface{}{
		"request_id": requestID,
		"sheets":     len(sheets),
		"charts":     len(charts),
		"insights":   len(report.Insights),
	})

	return &models.DashboardResult{
		RequestID: requestID,
		Charts:    charts,
		Analytics: report,
	}, nil
}

// BatchRequest is one independent unit of work for AnalyzeBatch: a URL or
// inline file bytes.
type BatchRequest struct {
	URL      string
	Data     []byte
	Filename string
}

// BatchOutcome pairs a request's position with its result or error.
type BatchOutcome struct {
	Index  int
	Result *models.DashboardResult
	Err    error
}

// AnalyzeBatch runs independent requests through a bounded worker pool.
// Outcomes are returned in request order; one failed request never affects
// the others.
func (s *AnalyzerService) AnalyzeBatch(ctx context.Context, requests []BatchRequest) []BatchOutcome {
	outcomes := make([]BatchOutcome, len(requests))
	if len(requests) == 0 {
		return outcomes
	}

	workers := s.cfg.Pipeline.WorkerPoolSize
	if workers <= 0 {
		workers = 1
	}
	if workers > len(requests) {
		workers = len(requests)
	}

	jobs := make(chan int)
	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for idx := range jobs {
				outcomes[idx] = s.runBatchJob(ctx, idx, requests[idx])
			}
		}()
	}

	for idx := range requests {
		jobs <- idx
	}
	close(jobs)
	wg.Wait()

	return outcomes
}

func (s *AnalyzerService) runBatchJob(ctx context.Context, idx int, req BatchRequest) BatchOutcome {
	outcome := BatchOutcome{Index: idx}
	if err := ctx.Err(); err != nil {
		outcome.Err = err
		return outcome
	}
	if req.URL != "" {
		outcome.Result, outcome.Err = s.AnalyzeURL(ctx, req.URL)
	} else {
		outcome.Result, outcome.Err = s.AnalyzeUpload(ctx, req.Data, req.Filename)
	}
	return outcome
}
