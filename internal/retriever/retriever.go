// Package retriever drives a scripted session against the library portal's
// search form, scrapes the results table, and downloads the linked papers
// reusing the portal session's cookies.
package retriever

import (
	"crypto/tls"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/gocolly/colly"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/examhack/examhack/internal/config"
	"github.com/examhack/examhack/internal/model"
)

// searchField is the name of the course-code input on the portal form.
const searchField = "code"

// Retriever fetches past papers for a course from the portal.
type Retriever struct {
	searchURL       string
	userAgent       string
	scratchRoot     string
	searchTimeout   time.Duration
	downloadTimeout time.Duration
	maxConcurrent   int
}

// New creates a Retriever from portal config.
func New(cfg config.PortalConfig) *Retriever {
	maxConcurrent := cfg.MaxConcurrentFetches
	if maxConcurrent <= 0 {
		maxConcurrent = 4
	}
	searchTimeout := time.Duration(cfg.SearchTimeoutSecs) * time.Second
	if searchTimeout <= 0 {
		searchTimeout = 15 * time.Second
	}
	downloadTimeout := time.Duration(cfg.DownloadTimeoutSecs) * time.Second
	if downloadTimeout <= 0 {
		downloadTimeout = 60 * time.Second
	}
	return &Retriever{
		searchURL:       cfg.SearchURL,
		userAgent:       cfg.UserAgent,
		scratchRoot:     cfg.ScratchDir,
		searchTimeout:   searchTimeout,
		downloadTimeout: downloadTimeout,
		maxConcurrent:   maxConcurrent,
	}
}

// session holds the credentials captured from the portal scrape, replayed
// read-only by every download.
type session struct {
	cookieHeader string
	userAgent    string
	referer      string
}

// ScratchDir returns the per-course download directory.
func (r *Retriever) ScratchDir(courseCode string) string {
	return filepath.Join(r.scratchRoot, courseCode)
}

// CleanupScratch removes the per-course download directory and everything
// in it. The pipeline run owning the directory calls this on completion or
// failure.
func (r *Retriever) CleanupScratch(courseCode string) {
	dir := r.ScratchDir(courseCode)
	if err := os.RemoveAll(dir); err != nil {
		zap.L().Warn("scratch cleanup failed", zap.String("dir", dir), zap.Error(err))
		return
	}
	zap.L().Debug("scratch dir removed", zap.String("dir", dir))
}

// searchPortal submits the course code to the portal form and returns the
// download URLs of rows matching the category filter, plus the session
// credentials needed to replay the downloads.
func (r *Retriever) searchPortal(query model.CourseQuery) ([]string, session, error) {
	log := zap.L().With(zap.String("course", query.Code), zap.String("category", string(query.Category)))

	c := colly.NewCollector(colly.UserAgent(r.userAgent))
	c.SetRequestTimeout(r.searchTimeout)
	c.WithTransport(&http.Transport{
		TLSClientConfig: &tls.Config{InsecureSkipVerify: true}, // the portal serves a self-signed cert
	})

	var links []string
	rows := 0

	c.OnHTML("table tr", func(e *colly.HTMLElement) {
		label, href, ok := parseResultRow(e.DOM)
		if !ok {
			return
		}
		rows++
		if !query.Category.Matches(label) {
			return
		}
		links = append(links, e.Request.AbsoluteURL(href))
	})

	log.Info("searching portal", zap.String("url", r.searchURL))
	if err := c.Post(r.searchURL, map[string]string{searchField: query.Code}); err != nil {
		if isTimeout(err) {
			return nil, session{}, &model.TimeoutError{Stage: "portal search", Err: err}
		}
		return nil, session{}, eris.Wrap(err, "retriever: portal search")
	}
	c.Wait()

	log.Info("portal results scanned", zap.Int("rows", rows), zap.Int("matches", len(links)))
	if len(links) == 0 {
		return nil, session{}, &model.NotFoundError{
			What: fmt.Sprintf("%s papers for %s", query.Category, query.Code),
		}
	}

	// Capture the session before the collector goes away. Downloads replay
	// the exact cookies and client identity the portal saw during the search.
	var pairs []string
	for _, ck := range c.Cookies(r.searchURL) {
		pairs = append(pairs, ck.Name+"="+ck.Value)
	}
	sess := session{
		cookieHeader: strings.Join(pairs, "; "),
		userAgent:    r.userAgent,
		referer:      r.searchURL,
	}

	return links, sess, nil
}

// parseResultRow reads one results-table row. Rows carry at least six
// cells: the fifth holds the exam-type label, the sixth the download
// anchor. Header and malformed rows report ok=false.
func parseResultRow(row *goquery.Selection) (label, href string, ok bool) {
	cells := row.Find("td")
	if cells.Length() < 6 {
		return "", "", false
	}
	label = strings.TrimSpace(cells.Eq(4).Text())
	href, exists := cells.Eq(5).Find("a").Attr("href")
	if !exists || href == "" {
		return "", "", false
	}
	return label, href, true
}

func isTimeout(err error) bool {
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return true
	}
	return os.IsTimeout(err) || strings.Contains(strings.ToLower(err.Error()), "timeout")
}
