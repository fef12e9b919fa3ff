package retriever

import (
	"bytes"
	"context"
	"crypto/tls"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/examhack/examhack/internal/model"
	"github.com/examhack/examhack/internal/resilience"
)

// pdfMagic is the signature every real PDF starts with.
var pdfMagic = []byte("%PDF")

// Fetch retrieves all papers for a query: portal search, then a bounded
// worker pool downloading each link with the captured session credentials.
// Individual download failures are logged and skipped; zero successes with
// links found is an EmptyResultError.
func (r *Retriever) Fetch(ctx context.Context, query model.CourseQuery) ([]model.RetrievedDocument, error) {
	links, sess, err := r.searchPortal(query)
	if err != nil {
		return nil, err
	}

	dir := r.ScratchDir(query.Code)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, eris.Wrapf(err, "retriever: create scratch dir %s", dir)
	}

	log := zap.L().With(zap.String("course", query.Code))

	// Distinct target filenames, read-only shared session: the downloads
	// are independent, so run them through a bounded pool.
	results := make([]*model.RetrievedDocument, len(links))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(r.maxConcurrent)

	for i, link := range links {
		i, link := i, link
		g.Go(func() error {
			path := filepath.Join(dir, fmt.Sprintf("paper_%d.pdf", i+1))
			doc, err := r.downloadOne(gctx, link, path, sess, i)
			if err != nil {
				log.Warn("paper download failed",
					zap.String("url", link),
					zap.Int("index", i+1),
					zap.Error(err),
				)
				return nil // batch survives individual failures
			}
			results[i] = doc
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	docs := make([]model.RetrievedDocument, 0, len(results))
	for _, doc := range results {
		if doc != nil {
			docs = append(docs, *doc)
		}
	}

	log.Info("papers downloaded", zap.Int("found", len(links)), zap.Int("downloaded", len(docs)))
	if len(docs) == 0 {
		return nil, &model.EmptyResultError{Links: len(links)}
	}

	return docs, nil
}

// downloadOne GETs a paper replaying the portal session and writes it to
// path. Transient network failures are retried; a Rejected verdict is an
// error so the caller can skip the paper.
func (r *Retriever) downloadOne(ctx context.Context, link, path string, sess session, index int) (*model.RetrievedDocument, error) {
	client := &http.Client{
		Timeout: r.downloadTimeout,
		Transport: &http.Transport{
			TLSClientConfig: &tls.Config{InsecureSkipVerify: true},
		},
	}

	var body []byte
	var contentType string

	retryCfg := resilience.DefaultRetryConfig()
	retryCfg.MaxAttempts = 2
	err := resilience.Do(ctx, retryCfg, func(ctx context.Context) error {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, link, nil)
		if err != nil {
			return eris.Wrap(err, "create request")
		}
		req.Header.Set("User-Agent", sess.userAgent)
		if sess.cookieHeader != "" {
			req.Header.Set("Cookie", sess.cookieHeader)
		}
		req.Header.Set("Referer", sess.referer)
		req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,image/avif,image/webp,image/apng,*/*;q=0.8")
		req.Header.Set("Upgrade-Insecure-Requests", "1")

		resp, err := client.Do(req)
		if err != nil {
			return err
		}
		defer resp.Body.Close() //nolint:errcheck

		if resp.StatusCode != http.StatusOK {
			if resilience.IsTransientHTTPStatus(resp.StatusCode) {
				return resilience.NewTransientError(
					eris.Errorf("status %d from %s", resp.StatusCode, link), resp.StatusCode)
			}
			return eris.Errorf("status %d from %s", resp.StatusCode, link)
		}

		data, err := io.ReadAll(resp.Body)
		if err != nil {
			return eris.Wrap(err, "read body")
		}
		body = data
		contentType = resp.Header.Get("Content-Type")
		return nil
	})
	if err != nil {
		return nil, err
	}

	verdict := validateContent(body, contentType)
	if verdict == model.VerdictRejected {
		return nil, eris.Errorf("empty body from %s", link)
	}
	if verdict == model.VerdictSuspect {
		zap.L().Warn("downloaded content may not be a PDF",
			zap.String("url", link),
			zap.String("content_type", contentType),
		)
	}

	if err := os.WriteFile(path, body, 0o644); err != nil {
		return nil, eris.Wrapf(err, "write %s", path)
	}

	return &model.RetrievedDocument{
		SourceURL:     link,
		LocalPath:     path,
		SequenceIndex: index,
		Verdict:       verdict,
	}, nil
}

// validateContent classifies a download: real PDFs are Accepted, 200s with
// unexpected content types are Suspect (kept; extraction decides), empty
// bodies are Rejected.
func validateContent(body []byte, contentType string) model.Verdict {
	if len(body) == 0 {
		return model.VerdictRejected
	}
	if bytes.HasPrefix(body, pdfMagic) {
		return model.VerdictAccepted
	}
	ct := strings.ToLower(contentType)
	if strings.Contains(ct, "pdf") || strings.Contains(ct, "application/octet-stream") {
		return model.VerdictAccepted
	}
	return model.VerdictSuspect
}
