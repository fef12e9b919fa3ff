package main

import (
	"time"

	"github.com/examhack/examhack/internal/analysis"
	"github.com/examhack/examhack/internal/cache"
	"github.com/examhack/examhack/internal/config"
	"github.com/examhack/examhack/internal/extract"
	"github.com/examhack/examhack/internal/pipeline"
	"github.com/examhack/examhack/internal/retriever"
)

// buildPipeline assembles the full stage chain from config. The cache store
// is returned separately so commands can run maintenance on it.
func buildPipeline(cfg *config.Config) (*pipeline.Pipeline, *cache.Store, error) {
	store, err := cache.New(cfg.Cache.Dir, cfg.Cache.TTL())
	if err != nil {
		return nil, nil, err
	}

	ocr, err := extract.NewOCR(cfg.Extract.OCR)
	if err != nil {
		return nil, nil, err
	}
	extractor := extract.NewService(
		extract.NewPdfToText(cfg.Extract.PdfToTextPath),
		ocr,
		cfg.Extract.MinTextChars,
	)

	gen, err := analysis.NewGenerator(cfg.Analysis)
	if err != nil {
		return nil, nil, err
	}
	engine := analysis.NewEngine(gen, analysis.Options{
		MinTextChars:   cfg.Analysis.MinTextChars,
		MaxPromptChars: cfg.Analysis.MaxPromptChars,
		Timeout:        time.Duration(cfg.Analysis.TimeoutSecs) * time.Second,
	})

	ret := retriever.New(cfg.Portal)

	return pipeline.New(ret, extractor, engine, store), store, nil
}
