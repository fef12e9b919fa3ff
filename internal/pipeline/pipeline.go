// Package pipeline sequences the core stages for one request:
// cache check, paper retrieval, text extraction, model analysis, cache write.
package pipeline

import (
	"context"

	"go.uber.org/zap"

	"github.com/examhack/examhack/internal/model"
)

// Retriever fetches papers for a course query from the portal.
type Retriever interface {
	Fetch(ctx context.Context, query model.CourseQuery) ([]model.RetrievedDocument, error)
	CleanupScratch(courseCode string)
}

// Extractor produces the combined text from downloaded papers.
type Extractor interface {
	ExtractAll(ctx context.Context, paths []string) string
}

// Analyzer runs the hosted model over combined text.
type Analyzer interface {
	Analyze(ctx context.Context, courseCode, combinedText string) (*model.AnalysisResult, error)
}

// Cache stores analysis results per course code.
type Cache interface {
	Get(courseCode string) (*model.AnalysisResult, bool)
	Put(courseCode string, result *model.AnalysisResult)
}

// Pipeline wires the four core components. All stages run strictly
// sequentially for a given request; each depends on the previous stage's
// full output.
type Pipeline struct {
	retriever Retriever
	extractor Extractor
	engine    Analyzer
	cache     Cache
}

// New creates a Pipeline.
func New(retriever Retriever, extractor Extractor, engine Analyzer, cache Cache) *Pipeline {
	return &Pipeline{
		retriever: retriever,
		extractor: extractor,
		engine:    engine,
		cache:     cache,
	}
}

// Scrape retrieves papers for a query and returns their local paths. The
// caller owns the downloaded files.
func (p *Pipeline) Scrape(ctx context.Context, query model.CourseQuery) ([]string, error) {
	docs, err := p.retriever.Fetch(ctx, query)
	if err != nil {
		return nil, err
	}
	paths := make([]string, len(docs))
	for i, doc := range docs {
		paths[i] = doc.LocalPath
	}
	return paths, nil
}

// Analyze produces the analysis for already-downloaded papers, consulting
// the cache first. The second return reports whether the result came from
// the cache; a cache hit skips extraction and the model call entirely.
func (p *Pipeline) Analyze(ctx context.Context, courseCode string, paths []string) (*model.AnalysisResult, bool, error) {
	if cached, ok := p.cache.Get(courseCode); ok {
		return cached, true, nil
	}

	combined := p.extractor.ExtractAll(ctx, paths)
	result, err := p.engine.Analyze(ctx, courseCode, combined)
	if err != nil {
		return nil, false, err
	}

	p.cache.Put(courseCode, result)
	return result, false, nil
}

// Run executes the full sequence for a query: cache, retrieve, extract,
// analyze, cache write. Run owns the per-course scratch directory and
// removes it when the run finishes, successfully or not.
func (p *Pipeline) Run(ctx context.Context, query model.CourseQuery) (*model.AnalysisResult, bool, error) {
	if cached, ok := p.cache.Get(query.Code); ok {
		return cached, true, nil
	}

	docs, err := p.retriever.Fetch(ctx, query)
	if err != nil {
		return nil, false, err
	}
	defer p.retriever.CleanupScratch(query.Code)

	paths := make([]string, len(docs))
	for i, doc := range docs {
		paths[i] = doc.LocalPath
	}
	zap.L().Info("pipeline retrieved papers",
		zap.String("course", query.Code),
		zap.Int("count", len(paths)),
	)

	combined := p.extractor.ExtractAll(ctx, paths)
	result, err := p.engine.Analyze(ctx, query.Code, combined)
	if err != nil {
		return nil, false, err
	}

	p.cache.Put(query.Code, result)
	return result, false, nil
}
