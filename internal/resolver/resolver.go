package resolver

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"regexp"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/sheetsage/sheetsage-ai-go/internal/config"
	"github.com/sheetsage/sheetsage-ai-go/internal/logging"
	"github.com/sheetsage/sheetsage-ai-go/internal/models"
	"github.com/sheetsage/sheetsage-ai-go/internal/utils"
)

// Resolver classifies source URLs and downloads raw document bytes.
// It is the only pipeline component that performs network I/O.
type Resolver struct {
	client    *http.Client
	userAgent string
	logger    *logrus.Logger
	events    logging.Logger
}

// fetchStrategy is one candidate download attempt. Strategies are tried in
// order and share a short-circuit-on-success contract.
type fetchStrategy struct {
	name string
	url  string
}

// fetchResponse is the outcome of a single attempt.
type fetchResponse struct {
	status      int
	contentType string
	body        []byte
}

var cloudSheetIDPattern = regexp.MustCompile(`/spreadsheets/d/(?:e/)?([a-zA-Z0-9_-]+)`)

// embeddedDownloadPattern finds a direct-download link inside an HTML
// interstitial page.
var embeddedDownloadPattern = regexp.MustCompile(`https?://[^"'<>\s]*(?:download|dl=1)[^"'<>\s]*`)

// authMarkers are lowercase substrings that identify a sign-in page.
var authMarkers = []string{
	"sign in",
	"log in",
	"authenticate",
	"accounts.google.com/signin",
	"type=\"password\"",
}

// New creates a Resolver with per-attempt timeout and bounded redirects
// from configuration. Per-attempt outcomes go through the events logger.
func New(cfg *config.FetchConfig, logger *logrus.Logger, events logging.Logger) *Resolver {
	maxRedirects := cfg.MaxRedirects
	client := &http.Client{
		Timeout: time.Duration(cfg.TimeoutSeconds) * time.Second,
		CheckRedirect: func(req *http.Request, via []*http.Request) error {
			if len(via) >= maxRedirects {
				return fmt.Errorf("stopped after %d redirects", maxRedirects)
			}
			return nil
		},
	}
	return &Resolver{
		client:    client,
		userAgent: cfg.UserAgent,
		logger:    logger,
		events:    events,
	}
}

// DetectSource classifies a URL into a source kind using hostname and path
// pattern matching only. No network call is made.
func DetectSource(rawURL string) models.SourceKind {
	u, err := url.Parse(rawURL)
	if err != nil || u.Host == "" {
		return models.SourceGeneric
	}
	host := strings.ToLower(u.Hostname())

	if strings.HasSuffix(host, "docs.google.com") && strings.Contains(u.Path, "/spreadsheets") {
		return models.SourceCloudSheet
	}

	switch {
	case strings.HasSuffix(host, "dropbox.com"),
		strings.HasSuffix(host, "dropboxusercontent.com"),
		host == "1drv.ms",
		strings.HasSuffix(host, "onedrive.live.com"),
		strings.HasSuffix(host, "sharepoint.com"):
		return models.SourceSharedDoc
	}

	return models.SourceGeneric
}

// Resolve downloads the document behind a URL, dispatching on its source kind.
func (r *Resolver) Resolve(ctx context.Context, rawURL string) (*models.RawDocument, error) {
	kind := DetectSource(rawURL)
	r.logger.WithFields(logrus.Fields{
		"url":  rawURL,
		"kind": kind,
	}).Info("Resolving document source")

	switch kind {
	case models.SourceCloudSheet:
		return r.fetchCloudSheet(ctx, rawURL)
	case models.SourceSharedDoc:
		return r.fetchSharedDoc(ctx, rawURL)
	default:
		return r.fetchGeneric(ctx, rawURL)
	}
}

// fetchCloudSheet derives a stable document id and attempts sequential
// export-format downloads: the spreadsheet-native format first, then the
// delimited-text fallback.
func (r *Resolver) fetchCloudSheet(ctx context.Context, rawURL string) (*models.RawDocument, error) {
	match := cloudSheetIDPattern.FindStringSubmatch(rawURL)
	if match == nil {
		return nil, utils.NewPipelineError(utils.FailureInvalidSource, "unsupported link: no spreadsheet id in URL")
	}
	docID := match[1]

	strategies := []fetchStrategy{
		{name: "export_xlsx", url: fmt.Sprintf("https://docs.google.com/spreadsheets/d/%s/export?format=xlsx", docID)},
		{name: "export_csv", url: fmt.Sprintf("https://docs.google.com/spreadsheets/d/%s/export?format=csv", docID)},
	}

	for _, strategy := range strategies {
		resp, err := r.get(ctx, strategy)
		if err != nil {
			continue
		}
		if isHTML(resp) {
			if hasAuthMarkers(resp.body) {
				return nil, utils.NewPipelineError(utils.FailureAuthRequired, "spreadsheet is not publicly shared")
			}
			continue
		}
		if resp.status < 200 || resp.status >= 300 || len(resp.body) == 0 {
			continue
		}
		filename := docID + exportExtension(strategy.name)
		return &models.RawDocument{
			Bytes:      resp.body,
			SourceKind: models.SourceCloudSheet,
			Filename:   filename,
			SourceURL:  rawURL,
		}, nil
	}

	return nil, utils.NewPipelineError(utils.FailureEmptyPayload, "all export formats returned empty or corrupt payloads")
}

// fetchSharedDoc rewrites known sharing-link shapes into direct-download
// candidates and tries them in order. An HTML response with auth markers
// fails fast; an HTML response carrying an embedded download link is
// followed once as a secondary fallback before giving up.
func (r *Resolver) fetchSharedDoc(ctx context.Context, rawURL string) (*models.RawDocument, error) {
	strategies := rewriteSharedURL(rawURL)

	for _, strategy := range strategies {
		resp, err := r.get(ctx, strategy)
		if err != nil {
			continue
		}
		if resp.status < 200 || resp.status >= 300 || len(resp.body) == 0 {
			continue
		}
		if !isHTML(resp) {
			return r.sharedDocument(resp.body, rawURL), nil
		}
		if hasAuthMarkers(resp.body) {
			// Auth wall: further candidates would hit the same wall.
			return nil, utils.NewPipelineError(utils.FailureAuthRequired, "shared document requires sign-in")
		}
		if embedded := embeddedDownloadPattern.FindString(string(resp.body)); embedded != "" {
			follow := fetchStrategy{name: "embedded_link", url: embedded}
			followResp, followErr := r.get(ctx, follow)
			if followErr == nil && !isHTML(followResp) && followResp.status >= 200 && followResp.status < 300 && len(followResp.body) > 0 {
				return r.sharedDocument(followResp.body, rawURL), nil
			}
		}
	}

	return nil, utils.NewPipelineError(utils.FailureEmptyPayload, "all download candidates returned empty or corrupt payloads")
}

// fetchGeneric performs a single direct attempt.
func (r *Resolver) fetchGeneric(ctx context.Context, rawURL string) (*models.RawDocument, error) {
	resp, err := r.get(ctx, fetchStrategy{name: "direct", url: rawURL})
	if err != nil {
		return nil, utils.WrapPipelineError(utils.FailureInvalidSource, "unsupported link: direct fetch failed", err)
	}
	if resp.status < 200 || resp.status >= 300 || len(resp.body) == 0 {
		return nil, utils.NewPipelineErrorf(utils.FailureInvalidSource, "unsupported link: status %d with %d bytes", resp.status, len(resp.body))
	}
	return &models.RawDocument{
		Bytes:      resp.body,
		SourceKind: models.SourceGeneric,
		Filename:   filenameFromURL(rawURL),
		SourceURL:  rawURL,
	}, nil
}

func (r *Resolver) sharedDocument(body []byte, rawURL string) *models.RawDocument {
	return &models.RawDocument{
		Bytes:      body,
		SourceKind: models.SourceSharedDoc,
		Filename:   filenameFromURL(rawURL),
		SourceURL:  rawURL,
	}
}

// get performs one attempt and logs its outcome.
func (r *Resolver) get(ctx context.Context, strategy fetchStrategy) (*fetchResponse, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, strategy.url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("User-Agent", r.userAgent)

	resp, err := r.client.Do(req)
	if err != nil {
		r.logger.WithFields(logrus.Fields{
			"strategy": strategy.name,
			"url":      strategy.url,
		}).Warnf("Fetch attempt failed: %v", err)
		return nil, err
	}
	defer func() {
		if closeErr := resp.Body.Close(); closeErr != nil {
			r.logger.Warnf("Failed to close response body: %v", closeErr)
		}
	}()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	r.events.LogFetchAttempt(strategy.name, strategy.url, resp.StatusCode, len(body))

	return &fetchResponse{
		status:      resp.StatusCode,
		contentType: resp.Header.Get("Content-Type"),
		body:        body,
	}, nil
}

// rewriteSharedURL expands a sharing link into 2-3 direct-download candidates.
func rewriteSharedURL(rawURL string) []fetchStrategy {
	u, err := url.Parse(rawURL)
	if err != nil {
		return []fetchStrategy{{name: "as_is", url: rawURL}}
	}
	host := strings.ToLower(u.Hostname())

	var strategies []fetchStrategy
	switch {
	case strings.HasSuffix(host, "dropbox.com"):
		direct := *u
		q := direct.Query()
		q.Set("dl", "1")
		direct.RawQuery = q.Encode()
		strategies = append(strategies, fetchStrategy{name: "dropbox_dl", url: direct.String()})

		usercontent := direct
		usercontent.Host = "dl.dropboxusercontent.com"
		strategies = append(strategies, fetchStrategy{name: "dropbox_usercontent", url: usercontent.String()})

	case host == "1drv.ms", strings.HasSuffix(host, "onedrive.live.com"):
		direct := *u
		q := direct.Query()
		q.Set("download", "1")
		direct.RawQuery = q.Encode()
		strategies = append(strategies, fetchStrategy{name: "onedrive_download", url: direct.String()})

		redir := *u
		redir.Path = strings.Replace(redir.Path, "/redir", "/download", 1)
		if redir.String() != direct.String() {
			strategies = append(strategies, fetchStrategy{name: "onedrive_redir", url: redir.String()})
		}

	case strings.HasSuffix(host, "sharepoint.com"):
		direct := *u
		q := direct.Query()
		q.Set("download", "1")
		direct.RawQuery = q.Encode()
		strategies = append(strategies, fetchStrategy{name: "sharepoint_download", url: direct.String()})
	}

	strategies = append(strategies, fetchStrategy{name: "as_is", url: rawURL})
	return strategies
}

// isHTML reports whether a response looks like an HTML page rather than a
// document payload.
func isHTML(resp *fetchResponse) bool {
	if strings.Contains(strings.ToLower(resp.contentType), "text/html") {
		return true
	}
	head := strings.ToLower(string(resp.body[:min(len(resp.body), 512)]))
	head = strings.TrimSpace(head)
	return strings.HasPrefix(head, "<!doctype html") || strings.HasPrefix(head, "<html")
}

func hasAuthMarkers(body []byte) bool {
	content := strings.ToLower(string(body))
	for _, marker := range authMarkers {
		if strings.Contains(content, marker) {
			return true
		}
	}
	return false
}

func exportExtension(strategyName string) string {
	if strings.HasSuffix(strategyName, "csv") {
		return ".csv"
	}
	return ".xlsx"
}

func filenameFromURL(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "document"
	}
	segments := strings.Split(strings.Trim(u.Path, "/"), "/")
	name := segments[len(segments)-1]
	if name == "" {
		return "document"
	}
	return name
}
