package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"opinionpulse-go-analyzer/internal/config"
	"opinionpulse-go-analyzer/internal/extractor"
	"opinionpulse-go-analyzer/internal/fetcher"
	"opinionpulse-go-analyzer/internal/insights"
	"opinionpulse-go-analyzer/internal/ioformats"
	"opinionpulse-go-analyzer/internal/models"
	"opinionpulse-go-analyzer/internal/pipeline"
	"opinionpulse-go-analyzer/internal/sentiment"
)

func main() {
	urlFlag := flag.String("url", "", "single product page URL to analyze")
	in := flag.String("input", "", "input file of URLs (csv with 'url' column, ndjson, or plain list)")
	out := flag.String("output", "", "output NDJSON file (default stdout)")
	concurrency := flag.Int("concurrency", 5, "concurrent page analyses")
	flag.Parse()

	if *urlFlag == "" && *in == "" {
		fmt.Fprintln(os.Stderr, "need --url or --input")
		os.Exit(2)
	}

	var urls []string
	if *urlFlag != "" {
		urls = []string{*urlFlag}
	} else {
		var err error
		urls, err = ioformats.ReadURLs(*in)
		if err != nil {
			fmt.Fprintln(os.Stderr, "read input:", err)
			os.Exit(1)
		}
	}

	cfg := config.Load()
	client := fetcher.New(cfg.Fetch.Timeout(), cfg.Fetch.DialTimeout(), cfg.Fetch.SizeCapBytes, cfg.Fetch.RequestsPerSecond)
	classifier := sentiment.NewClassifier(sentiment.NewVaderScorer(), cfg.Analyze.Workers)
	pipe := pipeline.New(client, extractor.New(), classifier, insights.New(), cfg.Analyze.MaxReviews)

	type outRec struct {
		URL    string                 `json:"url"`
		Result *models.AnalysisResult `json:"result,omitempty"`
		Error  string                 `json:"error,omitempty"`
	}

	results := make([]outRec, len(urls))

	sem := make(chan struct{}, *concurrency)
	done := make(chan int, len(urls))

	for i, u := range urls {
		i, u := i, u
		sem <- struct{}{} // acquire
		go func() {
			defer func() { <-sem; done <- i }()
			ctx, cancel := context.WithTimeout(context.Background(), 90*time.Second)
			defer cancel()
			res, err := pipe.Run(ctx, u)
			if err != nil {
				results[i] = outRec{URL: u, Error: err.Error()}
				return
			}
			results[i] = outRec{URL: u, Result: &res}
		}()
	}
	for range urls {
		<-done
	}

	var w *os.File
	if *out == "" {
		w = os.Stdout
	} else {
		f, err := os.Create(*out)
		if err != nil {
			fmt.Fprintln(os.Stderr, "create output:", err)
			os.Exit(1)
		}
		defer f.Close()
		w = f
	}
	items := make([]any, len(results))
	for i, r := range results {
		items[i] = r
	}
	if err := ioformats.WriteNDJSON(w, items); err != nil {
		fmt.Fprintln(os.Stderr, "write output:", err)
		os.Exit(1)
	}
}
