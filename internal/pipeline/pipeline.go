package pipeline

import (
	"context"
	"errors"
	"fmt"

	"opinionpulse-go-analyzer/internal/extractor"
	"opinionpulse-go-analyzer/internal/fetcher"
	"opinionpulse-go-analyzer/internal/insights"
	"opinionpulse-go-analyzer/internal/models"
	"opinionpulse-go-analyzer/internal/sentiment"
)

// ErrNoReviews reports that extraction succeeded but the page carried no
// recognizable reviews. A normal terminal outcome, not a server-side failure.
var ErrNoReviews = errors.New("no reviews found")

// FetchError wraps a document retrieval failure. Retryable from the caller's
// point of view.
type FetchError struct {
	URL string
	Err error
}

func (e *FetchError) Error() string { return fmt.Sprintf("fetch %s: %v", e.URL, e.Err) }
func (e *FetchError) Unwrap() error { return e.Err }

// ParseError wraps a fetched document that could not be analyzed.
type ParseError struct {
	URL string
	Err error
}

func (e *ParseError) Error() string { return fmt.Sprintf("parse %s: %v", e.URL, e.Err) }
func (e *ParseError) Unwrap() error { return e.Err }

// Pipeline runs fetch -> extract -> classify -> insights for one URL. Stateless
// across invocations; safe for concurrent use.
type Pipeline struct {
	fetcher    *fetcher.Client
	extractor  *extractor.Extractor
	classifier *sentiment.Classifier
	generator  *insights.Generator
	maxReviews int
}

func New(f *fetcher.Client, e *extractor.Extractor, c *sentiment.Classifier, g *insights.Generator, maxReviews int) *Pipeline {
	return &Pipeline{
		fetcher:    f,
		extractor:  e,
		classifier: c,
		generator:  g,
		maxReviews: maxReviews,
	}
}

// Run analyzes the product page at url. It never substitutes fabricated reviews
// for a failure: fetch and parse problems come back as their wrapped error
// types, an empty page as ErrNoReviews.
func (p *Pipeline) Run(ctx context.Context, url string) (models.AnalysisResult, error) {
	body, finalURL, contentType, elapsed, err := p.fetcher.Fetch(ctx, url)
	if err != nil {
		return models.AnalysisResult{}, &FetchError{URL: url, Err: err}
	}
	defer body.Close()

	reviews, err := p.extractor.Extract(body, contentType, p.maxReviews)
	if err != nil {
		return models.AnalysisResult{}, &ParseError{URL: url, Err: err}
	}
	if len(reviews) == 0 {
		return models.AnalysisResult{}, ErrNoReviews
	}

	report := p.classifier.Classify(reviews)
	return models.AnalysisResult{
		SourceURL: finalURL,
		FetchMs:   elapsed.Milliseconds(),
		Report:    report,
		Insights:  p.generator.Generate(report),
	}, nil
}
