package pipeline

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"opinionpulse-go-analyzer/internal/extractor"
	"opinionpulse-go-analyzer/internal/fetcher"
	"opinionpulse-go-analyzer/internal/insights"
	"opinionpulse-go-analyzer/internal/models"
	"opinionpulse-go-analyzer/internal/sentiment"
)

// wordScorer scores by crude keyword lookup so pipeline tests stay hermetic.
type wordScorer struct{}

func (wordScorer) Score(text string) models.Scores {
	low := strings.ToLower(text)
	switch {
	case strings.Contains(low, "love"):
		return models.Scores{Positive: 0.7, Compound: 0.8}
	case strings.Contains(low, "broke"):
		return models.Scores{Negative: 0.7, Compound: -0.7}
	default:
		return models.Scores{Neutral: 1}
	}
}

func newTestPipeline(maxReviews int) *Pipeline {
	return New(
		fetcher.New(5*time.Second, 2*time.Second, 1024*1024, 0),
		extractor.New(),
		sentiment.NewClassifier(wordScorer{}, 4),
		insights.New(),
		maxReviews,
	)
}

const reviewPage = `<html><body>
<div class="review">I love this keyboard, typing on it is a daily pleasure.</div>
<div class="review">The space bar broke after two weeks of careful, normal use.</div>
<div class="review">It arrived in a cardboard box on a weekday afternoon there.</div>
</body></html>`

func serve(t *testing.T, contentType, body string, status int) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", contentType)
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
}

func TestRunSuccess(t *testing.T) {
	ts := serve(t, "text/html", reviewPage, http.StatusOK)
	defer ts.Close()

	res, err := newTestPipeline(100).Run(context.Background(), ts.URL)
	require.NoError(t, err)

	assert.Equal(t, ts.URL, res.SourceURL)
	assert.Equal(t, 3, res.TotalReviews)
	assert.Equal(t, 33.33, res.PositivePct)
	assert.Equal(t, 33.33, res.NegativePct)
	assert.Equal(t, 33.33, res.NeutralPct)
	assert.Equal(t, models.OverallNeutral, res.Overall)
	assert.Len(t, res.Insights, 5)
	require.Len(t, res.Details, 3)
	assert.Contains(t, res.Details[0].Original, "love this keyboard")
}

func TestRunNoReviews(t *testing.T) {
	ts := serve(t, "text/html", "<html><body><p>nothing here</p></body></html>", http.StatusOK)
	defer ts.Close()

	_, err := newTestPipeline(100).Run(context.Background(), ts.URL)
	assert.ErrorIs(t, err, ErrNoReviews)
}

func TestRunFetchFailure(t *testing.T) {
	ts := serve(t, "text/html", "nope", http.StatusInternalServerError)
	defer ts.Close()

	_, err := newTestPipeline(100).Run(context.Background(), ts.URL)
	var fe *FetchError
	require.ErrorAs(t, err, &fe)
	assert.Equal(t, ts.URL, fe.URL)
}

func TestRunNonHTMLIsFetchFailure(t *testing.T) {
	ts := serve(t, "application/pdf", "%PDF-", http.StatusOK)
	defer ts.Close()

	_, err := newTestPipeline(100).Run(context.Background(), ts.URL)
	var fe *FetchError
	assert.ErrorAs(t, err, &fe)
}

func TestRunRespectsMaxReviews(t *testing.T) {
	var b strings.Builder
	b.WriteString("<html><body>")
	for i := 0; i < 10; i++ {
		b.WriteString(`<div class="review">I love review variant `)
		b.WriteByte(byte('a' + i))
		b.WriteString(` of this keyboard very much indeed.</div>`)
	}
	b.WriteString("</body></html>")

	ts := serve(t, "text/html", b.String(), http.StatusOK)
	defer ts.Close()

	res, err := newTestPipeline(4).Run(context.Background(), ts.URL)
	require.NoError(t, err)
	assert.Equal(t, 4, res.TotalReviews)
}

func TestRunDeadURL(t *testing.T) {
	// grab an address and close it so the connection is refused
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := ts.URL
	ts.Close()

	_, err := newTestPipeline(100).Run(context.Background(), url)
	var fe *FetchError
	assert.True(t, errors.As(err, &fe))
}
