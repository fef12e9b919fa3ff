package retriever

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/examhack/examhack/internal/config"
	"github.com/examhack/examhack/internal/model"
)

// portalFixture serves a search form and per-paper downloads the way the
// library portal does, tracking download hits.
type portalFixture struct {
	srv           *httptest.Server
	downloadHits  atomic.Int64
	downloadState func(w http.ResponseWriter, r *http.Request)
}

const resultsTable = `<html><body>
<form method="post"><input id="code" name="code"/><button type="submit">Search</button></form>
<table>
<tr><th>S.No</th><th>Code</th><th>Name</th><th>Year</th><th>Type</th><th>Link</th></tr>
<tr><td>1</td><td>UCS503</td><td>Software Engg</td><td>2024</td><td>MST</td><td><a href="/download/1">Download</a></td></tr>
<tr><td>2</td><td>UCS503</td><td>Software Engg</td><td>2023</td><td>MST</td><td><a href="/download/2">Download</a></td></tr>
<tr><td>3</td><td>UCS503</td><td>Software Engg</td><td>2024</td><td>EST</td><td><a href="/download/3">Download</a></td></tr>
<tr><td>4</td><td>UCS503</td><td>Software Engg</td><td>2022</td><td>Summer(MST)</td><td><a href="/download/4">Download</a></td></tr>
</table></body></html>`

func newPortalFixture(t *testing.T) *portalFixture {
	t.Helper()
	f := &portalFixture{}
	f.downloadState = func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("%PDF-1.4 fake paper body"))
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/ques.php", func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPost && r.FormValue("code") == "UCS503" {
			http.SetCookie(w, &http.Cookie{Name: "PHPSESSID", Value: "abc123"})
			_, _ = w.Write([]byte(resultsTable))
			return
		}
		_, _ = w.Write([]byte(`<html><body><form><input id="code" name="code"/></form></body></html>`))
	})
	mux.HandleFunc("/download/", func(w http.ResponseWriter, r *http.Request) {
		f.downloadHits.Add(1)
		assert.Equal(t, "PHPSESSID=abc123", r.Header.Get("Cookie"), "downloads must replay the session cookie")
		assert.NotEmpty(t, r.Header.Get("Referer"))
		f.downloadState(w, r)
	})

	f.srv = httptest.NewServer(mux)
	t.Cleanup(f.srv.Close)
	return f
}

func newTestRetriever(f *portalFixture, scratch string) *Retriever {
	return New(config.PortalConfig{
		SearchURL:            f.srv.URL + "/ques.php",
		UserAgent:            "examhack-test/1.0",
		ScratchDir:           scratch,
		SearchTimeoutSecs:    5,
		DownloadTimeoutSecs:  5,
		MaxConcurrentFetches: 2,
	})
}

func mustQuery(t *testing.T, code, category string) model.CourseQuery {
	t.Helper()
	q, err := model.NewCourseQuery(code, category)
	require.NoError(t, err)
	return q
}

func TestFetch_FiltersByCategory(t *testing.T) {
	f := newPortalFixture(t)
	r := newTestRetriever(f, t.TempDir())

	docs, err := r.Fetch(context.Background(), mustQuery(t, "ucs503", "MST"))
	require.NoError(t, err)
	require.Len(t, docs, 2, "only the two MST rows match")

	for _, doc := range docs {
		assert.Equal(t, model.VerdictAccepted, doc.Verdict)
		data, err := os.ReadFile(doc.LocalPath)
		require.NoError(t, err)
		assert.Contains(t, string(data), "%PDF")
	}
	assert.EqualValues(t, 2, f.downloadHits.Load())
}

func TestFetch_AllMatchesEveryRow(t *testing.T) {
	f := newPortalFixture(t)
	r := newTestRetriever(f, t.TempDir())

	docs, err := r.Fetch(context.Background(), mustQuery(t, "UCS503", "ALL"))
	require.NoError(t, err)
	assert.Len(t, docs, 4)
}

func TestFetch_SummerCategoryLabel(t *testing.T) {
	f := newPortalFixture(t)
	r := newTestRetriever(f, t.TempDir())

	docs, err := r.Fetch(context.Background(), mustQuery(t, "UCS503", "SUMMER_MST"))
	require.NoError(t, err)
	require.Len(t, docs, 1)
	assert.Contains(t, docs[0].SourceURL, "/download/4")
}

func TestFetch_NoMatchingRowsIsNotFound(t *testing.T) {
	f := newPortalFixture(t)
	r := newTestRetriever(f, t.TempDir())

	_, err := r.Fetch(context.Background(), mustQuery(t, "UCS503", "AUX"))
	require.Error(t, err)

	var notFound *model.NotFoundError
	assert.ErrorAs(t, err, &notFound)
	assert.Zero(t, f.downloadHits.Load(), "no downloads when nothing matches")
}

func TestFetch_AllDownloadsFailIsEmptyResult(t *testing.T) {
	f := newPortalFixture(t)
	f.downloadState = func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}
	r := newTestRetriever(f, t.TempDir())

	_, err := r.Fetch(context.Background(), mustQuery(t, "UCS503", "MST"))
	require.Error(t, err)

	var empty *model.EmptyResultError
	require.ErrorAs(t, err, &empty)
	assert.Equal(t, 2, empty.Links)
}

func TestFetch_PartialDownloadFailureSurvives(t *testing.T) {
	f := newPortalFixture(t)
	f.downloadState = func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/download/1" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		_, _ = w.Write([]byte("%PDF-1.4 fake paper body"))
	}
	r := newTestRetriever(f, t.TempDir())

	docs, err := r.Fetch(context.Background(), mustQuery(t, "UCS503", "MST"))
	require.NoError(t, err)
	require.Len(t, docs, 1)
	assert.Contains(t, docs[0].SourceURL, "/download/2")
}

func TestFetch_SuspectContentKept(t *testing.T) {
	f := newPortalFixture(t)
	f.downloadState = func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		_, _ = w.Write([]byte("<html>not really a pdf</html>"))
	}
	r := newTestRetriever(f, t.TempDir())

	docs, err := r.Fetch(context.Background(), mustQuery(t, "UCS503", "MST"))
	require.NoError(t, err)
	for _, doc := range docs {
		assert.Equal(t, model.VerdictSuspect, doc.Verdict)
	}
}

func TestFetch_SearchTimeout(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/ques.php", func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(1500 * time.Millisecond)
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	r := New(config.PortalConfig{
		SearchURL:         srv.URL + "/ques.php",
		SearchTimeoutSecs: 1,
	})

	_, err := r.Fetch(context.Background(), mustQuery(t, "UCS503", "ALL"))
	require.Error(t, err)

	var timeout *model.TimeoutError
	assert.ErrorAs(t, err, &timeout)
}

func TestCleanupScratch(t *testing.T) {
	f := newPortalFixture(t)
	scratch := t.TempDir()
	r := newTestRetriever(f, scratch)

	docs, err := r.Fetch(context.Background(), mustQuery(t, "UCS503", "MST"))
	require.NoError(t, err)
	require.NotEmpty(t, docs)

	r.CleanupScratch("UCS503")
	_, statErr := os.Stat(r.ScratchDir("UCS503"))
	assert.True(t, os.IsNotExist(statErr))
}

func TestValidateContent(t *testing.T) {
	assert.Equal(t, model.VerdictRejected, validateContent(nil, "application/pdf"))
	assert.Equal(t, model.VerdictAccepted, validateContent([]byte("%PDF-1.7 ..."), "text/html"))
	assert.Equal(t, model.VerdictAccepted, validateContent([]byte("binary"), "application/pdf"))
	assert.Equal(t, model.VerdictAccepted, validateContent([]byte("binary"), "application/octet-stream"))
	assert.Equal(t, model.VerdictSuspect, validateContent([]byte("<html>"), "text/html"))
}
