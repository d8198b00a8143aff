package models

// Scores holds the polarity sub-scores the lexicon scorer produced for one piece
// of text. Compound is in [-1,1]; the other three are proportions in [0,1].
type Scores struct {
	Positive float64 `json:"pos"`
	Negative float64 `json:"neg"`
	Neutral  float64 `json:"neu"`
	Compound float64 `json:"compound"`
}

// Per-review sentiment labels.
const (
	LabelPositive = "positive"
	LabelNegative = "negative"
	LabelNeutral  = "neutral"
)

// Overall report labels. OverallNoData is the sentinel for an empty review set.
const (
	OverallPositive = "Positive"
	OverallNegative = "Negative"
	OverallNeutral  = "Neutral"
	OverallNoData   = "No reviews to analyze."
)

// ScoredReview is one review after preprocessing and scoring. Immutable once built.
type ScoredReview struct {
	Original  string `json:"original_review"`
	Processed string `json:"processed_review"`
	Sentiment string `json:"sentiment"`
	Scores    Scores `json:"scores"`
}

// Report aggregates the classified reviews of a single page. Details preserves
// the extraction order regardless of how scoring was scheduled.
type Report struct {
	TotalReviews int            `json:"total_reviews"`
	Overall      string         `json:"overall_sentiment"`
	PositivePct  float64        `json:"positive_percentage"`
	NegativePct  float64        `json:"negative_percentage"`
	NeutralPct   float64        `json:"neutral_percentage"`
	TopPositive  []ScoredReview `json:"top_positive_reviews"`
	TopNegative  []ScoredReview `json:"top_negative_reviews"`
	Details      []ScoredReview `json:"detailed_sentiments"`
}

// AnalysisResult is the full pipeline output for one URL.
type AnalysisResult struct {
	SourceURL string `json:"source_url"`
	FetchMs   int64  `json:"fetch_ms"`
	Report
	Insights []string `json:"insights_for_manager"`
}
