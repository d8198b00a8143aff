package main

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/joho/godotenv"

	"opinionpulse-go-analyzer/internal/config"
	"opinionpulse-go-analyzer/internal/extractor"
	"opinionpulse-go-analyzer/internal/fetcher"
	"opinionpulse-go-analyzer/internal/insights"
	"opinionpulse-go-analyzer/internal/models"
	"opinionpulse-go-analyzer/internal/pipeline"
	"opinionpulse-go-analyzer/internal/sentiment"
	"opinionpulse-go-analyzer/pkg/logger"
)

const (
	analyzeTimeout = 60 * time.Second
	batchLimit     = 10 // concurrent analyses per batch request
)

type analyzeReq struct {
	URL string `json:"url"`
}

type batchReq struct {
	URLs []string `json:"urls"`
}

type analyzeResp struct {
	Status string `json:"status"`
	models.AnalysisResult
}

type errorResp struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

func main() {
	_ = godotenv.Load()

	cfg := config.Load()
	l := logger.New(cfg.Logging.Level)
	defer l.Sync()

	client := fetcher.New(cfg.Fetch.Timeout(), cfg.Fetch.DialTimeout(), cfg.Fetch.SizeCapBytes, cfg.Fetch.RequestsPerSecond)
	classifier := sentiment.NewClassifier(sentiment.NewVaderScorer(), cfg.Analyze.Workers)
	pipe := pipeline.New(client, extractor.New(), classifier, insights.New(), cfg.Analyze.MaxReviews)

	mux := http.NewServeMux()

	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/" {
			writeJSON(w, http.StatusNotFound, errorResp{Status: "error", Message: "not found"})
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{
			"message": "Welcome to the Product Review Sentiment Analyzer API. Use the /analyze endpoint.",
		})
	})

	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	// POST /analyze  { "url": "https://..." }
	mux.HandleFunc("/analyze", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			writeJSON(w, http.StatusMethodNotAllowed, errorResp{Status: "error", Message: "method not allowed"})
			return
		}
		var req analyzeReq
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.URL == "" {
			writeJSON(w, http.StatusBadRequest, errorResp{Status: "error", Message: "missing 'url' in request body"})
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), analyzeTimeout)
		defer cancel()

		res, err := pipe.Run(ctx, req.URL)
		if err != nil {
			writeAnalysisError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, analyzeResp{Status: "success", AnalysisResult: res})
	})

	// POST /analyze/batch  { "urls": ["https://...", "..."] }
	mux.HandleFunc("/analyze/batch", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			writeJSON(w, http.StatusMethodNotAllowed, errorResp{Status: "error", Message: "method not allowed"})
			return
		}
		var req batchReq
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil || len(req.URLs) == 0 {
			writeJSON(w, http.StatusBadRequest, errorResp{Status: "error", Message: "missing 'urls' in request body"})
			return
		}

		type out struct {
			URL    string                 `json:"url"`
			Result *models.AnalysisResult `json:"result,omitempty"`
			Error  string                 `json:"error,omitempty"`
		}

		results := make([]out, len(req.URLs))

		// bounded concurrency
		sem := make(chan struct{}, batchLimit)
		done := make(chan int, len(req.URLs))

		for i, u := range req.URLs {
			i, u := i, u
			sem <- struct{}{} // acquire
			go func() {
				defer func() { <-sem; done <- i }()
				if u == "" {
					results[i] = out{URL: u, Error: "empty url"}
					return
				}
				ctx, cancel := context.WithTimeout(r.Context(), analyzeTimeout)
				defer cancel()
				res, err := pipe.Run(ctx, u)
				if err != nil {
					results[i] = out{URL: u, Error: err.Error()}
					return
				}
				results[i] = out{URL: u, Result: &res}
			}()
		}
		for range req.URLs {
			<-done
		}
		writeJSON(w, http.StatusOK, results)
	})

	srv := &http.Server{
		Addr:         cfg.Server.Addr,
		Handler:      logRequest(l, cors(cfg.Server.AllowedOrigins, mux)),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 90 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		l.Infof("server listening on %s", cfg.Server.Addr)
		if err := srv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			l.Errorf("server error: %v", err)
		}
	}()

	// graceful shutdown
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop
	l.Infof("shutting down...")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	_ = srv.Shutdown(ctx)
	l.Infof("bye")
}

// writeAnalysisError maps the pipeline error taxonomy onto HTTP statuses:
// nothing found is a 404, retrieval trouble a 502, an unanalyzable page a 422.
func writeAnalysisError(w http.ResponseWriter, err error) {
	var fe *pipeline.FetchError
	var pe *pipeline.ParseError
	switch {
	case errors.Is(err, pipeline.ErrNoReviews):
		writeJSON(w, http.StatusNotFound, errorResp{
			Status:  "error",
			Message: "No reviews found. The page may block scraping or contain no reviews.",
		})
	case errors.As(err, &fe):
		writeJSON(w, http.StatusBadGateway, errorResp{
			Status:  "error",
			Message: "Could not retrieve the page. Please try again later. (" + fe.Err.Error() + ")",
		})
	case errors.As(err, &pe):
		writeJSON(w, http.StatusUnprocessableEntity, errorResp{
			Status:  "error",
			Message: "The page could not be analyzed. (" + pe.Err.Error() + ")",
		})
	default:
		writeJSON(w, http.StatusInternalServerError, errorResp{Status: "error", Message: "internal error"})
	}
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

// cors allows the configured frontend origins; an empty list allows none beyond
// same-origin use.
func cors(origins []string, next http.Handler) http.Handler {
	allowed := make(map[string]struct{}, len(origins))
	for _, o := range origins {
		allowed[o] = struct{}{}
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if origin := r.Header.Get("Origin"); origin != "" {
			if _, ok := allowed[origin]; ok {
				w.Header().Set("Access-Control-Allow-Origin", origin)
				w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
				w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
			}
		}
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func logRequest(l *logger.Logger, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		reqID := uuid.NewString()
		w.Header().Set("X-Request-ID", reqID)
		start := time.Now()
		next.ServeHTTP(w, r)
		l.Infof("%s %s %s request_id=%s", r.Method, r.URL.Path, time.Since(start), reqID)
	})
}
