package resolver

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sheetsage/sheetsage-ai-go/internal/config"
	"github.com/sheetsage/sheetsage-ai-go/internal/logging"
	"github.com/sheetsage/sheetsage-ai-go/internal/models"
	"github.com/sheetsage/sheetsage-ai-go/internal/utils"
)

func testResolver() *Resolver {
	logger := logrus.New()
	logger.SetLevel(logrus.PanicLevel)
	return New(&config.FetchConfig{
		TimeoutSeconds: 5,
		MaxRedirects:   5,
		UserAgent:      "sheetsage-test/1.0",
	}, logger, logging.NewStandardLogger("error"))
}

func TestDetectSource(t *testing.T) {
	tests := []struct {
		name string
		url  string
		want models.SourceKind
	}{
		{"google sheet", "https://docs.google.com/spreadsheets/d/1AbC_def-123/edit#gid=0", models.SourceCloudSheet},
		{"google doc is not a sheet", "https://docs.google.com/document/d/1AbC/edit", models.SourceGeneric},
		{"dropbox share", "https://www.dropbox.com/s/abc/report.xlsx?dl=0", models.SourceSharedDoc},
		{"dropbox usercontent", "https://dl.dropboxusercontent.com/s/abc/report.xlsx", models.SourceSharedDoc},
		{"onedrive short", "https://1drv.ms/x/s!AbCdEf", models.SourceSharedDoc},
		{"onedrive live", "https://onedrive.live.com/redir?resid=123", models.SourceSharedDoc},
		{"sharepoint", "https://contoso.sharepoint.com/:x:/g/personal/a/EaBc", models.SourceSharedDoc},
		{"plain file server", "https://example.com/files/data.csv", models.SourceGeneric},
		{"not a url", "://bad", models.SourceGeneric},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, DetectSource(tt.url))
		})
	}
}

func TestFetchGeneric_Success(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/csv")
		fmt.Fprint(w, "Month,Revenue\nJan,1000\n")
	}))
	defer server.Close()

	doc, err := testResolver().Resolve(context.Background(), server.URL+"/data.csv")
	require.NoError(t, err)
	assert.Equal(t, models.SourceGeneric, doc.SourceKind)
	assert.Equal(t, "data.csv", doc.Filename)
	assert.Contains(t, string(doc.Bytes), "Revenue")
}

type recordedAttempt struct {
	strategy string
	status   int
	bytes    int
}

// embeddedLogger aliases logging.Logger so the embedded field's name does
// not collide with the interface's Logger() method, which would block its
// promotion into the struct's method set.
type embeddedLogger = logging.Logger

// recordingEvents captures per-attempt fetch events for assertions.
type recordingEvents struct {
	embeddedLogger
	attempts []recordedAttempt
}

func (r *recordingEvents) LogFetchAttempt(strategy string, url string, status int, bytes int) {
	r.attempts = append(r.attempts, recordedAttempt{strategy: strategy, status: status, bytes: bytes})
}

func TestFetchGeneric_AttemptsReachEventLogger(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/csv")
		fmt.Fprint(w, "Month,Revenue\nJan,1000\n")
	}))
	defer server.Close()

	logger := logrus.New()
	logger.SetLevel(logrus.PanicLevel)
	events := &recordingEvents{embeddedLogger: logging.NewStandardLogger("error")}
	r := New(&config.FetchConfig{TimeoutSeconds: 5, MaxRedirects: 5, UserAgent: "sheetsage-test/1.0"}, logger, events)

	_, err := r.Resolve(context.Background(), server.URL+"/data.csv")
	require.NoError(t, err)
	require.Len(t, events.attempts, 1)
	assert.Equal(t, "direct", events.attempts[0].strategy)
	assert.Equal(t, http.StatusOK, events.attempts[0].status)
	assert.Greater(t, events.attempts[0].bytes, 0)
}

func TestFetchGeneric_EmptyBodyIsInvalidSource(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	_, err := testResolver().Resolve(context.Background(), server.URL)
	kind, ok := utils.KindOf(err)
	require.True(t, ok)
	assert.Equal(t, utils.FailureInvalidSource, kind)
}

func TestFetchGeneric_NotFoundIsInvalidSource(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}))
	defer server.Close()

	_, err := testResolver().Resolve(context.Background(), server.URL)
	kind, ok := utils.KindOf(err)
	require.True(t, ok)
	assert.Equal(t, utils.FailureInvalidSource, kind)
}

func TestSharedDoc_FirstNonHTMLCandidateWins(t *testing.T) {
	payload := "Month,Revenue\nJan,1000\nFeb,1200\n"
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/octet-stream")
		fmt.Fprint(w, payload)
	}))
	defer server.Close()

	r := testResolver()
	doc, err := r.fetchSharedDoc(context.Background(), server.URL+"/s/abc/report.csv")
	require.NoError(t, err)
	assert.Equal(t, payload, string(doc.Bytes))
	assert.Equal(t, models.SourceSharedDoc, doc.SourceKind)
}

func TestSharedDoc_AuthWallFailsFast(t *testing.T) {
	attempts := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts++
		w.Header().Set("Content-Type", "text/html")
		fmt.Fprint(w, `<html><body>Please sign in to continue<input type="password"></body></html>`)
	}))
	defer server.Close()

	r := testResolver()
	_, err := r.fetchSharedDoc(context.Background(), server.URL+"/share/doc")
	kind, ok := utils.KindOf(err)
	require.True(t, ok)
	assert.Equal(t, utils.FailureAuthRequired, kind)
	// Fail-fast contract: the first HTML auth page stops the candidate list.
	assert.Equal(t, 1, attempts)
}

func TestSharedDoc_EmbeddedDownloadLinkFollowedOnce(t *testing.T) {
	payload := "a,b\n1,2\n"
	mux := http.NewServeMux()
	server := httptest.NewServer(mux)
	defer server.Close()

	mux.HandleFunc("/payload", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/csv")
		fmt.Fprint(w, payload)
	})
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		fmt.Fprintf(w, `<html><body><a href="%s/payload?download=file">Download</a></body></html>`, server.URL)
	})

	r := testResolver()
	doc, err := r.fetchSharedDoc(context.Background(), server.URL+"/share/doc")
	require.NoError(t, err)
	assert.Equal(t, payload, string(doc.Bytes))
}

func TestSharedDoc_AllCandidatesEmptyIsEmptyPayload(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	r := testResolver()
	_, err := r.fetchSharedDoc(context.Background(), server.URL+"/share/doc")
	kind, ok := utils.KindOf(err)
	require.True(t, ok)
	assert.Equal(t, utils.FailureEmptyPayload, kind)
}

func TestCloudSheet_NoDocumentIDIsInvalidSource(t *testing.T) {
	r := testResolver()
	_, err := r.fetchCloudSheet(context.Background(), "https://docs.google.com/spreadsheets/")
	kind, ok := utils.KindOf(err)
	require.True(t, ok)
	assert.Equal(t, utils.FailureInvalidSource, kind)
}

func TestRewriteSharedURL_Dropbox(t *testing.T) {
	strategies := rewriteSharedURL("https://www.dropbox.com/s/abc/report.xlsx?dl=0")
	require.GreaterOrEqual(t, len(strategies), 3)
	assert.Contains(t, strategies[0].url, "dl=1")
	assert.Contains(t, strategies[1].url, "dl.dropboxusercontent.com")
	assert.Equal(t, "as_is", strategies[len(strategies)-1].name)
}

func TestRewriteSharedURL_OneDrive(t *testing.T) {
	strategies := rewriteSharedURL("https://1drv.ms/x/s!AbCdEf")
	require.NotEmpty(t, strategies)
	assert.Contains(t, strategies[0].url, "download=1")
}

func TestIsHTML(t *testing.T) {
	assert.True(t, isHTML(&fetchResponse{contentType: "text/html; charset=utf-8", body: []byte("x")}))
	assert.True(t, isHTML(&fetchResponse{body: []byte("  <!DOCTYPE html><html>")}))
	assert.True(t, isHTML(&fetchResponse{body: []byte("<html lang=\"en\">")}))
	assert.False(t, isHTML(&fetchResponse{contentType: "text/csv", body: []byte("a,b\n1,2")}))
	assert.False(t, isHTML(&fetchResponse{body: []byte("PK\x03\x04binary")}))
}
