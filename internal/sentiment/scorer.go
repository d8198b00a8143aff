package sentiment

import (
	"github.com/jonreiter/govader"

	"opinionpulse-go-analyzer/internal/models"
)

// Scorer maps a text string to lexicon polarity scores. Implementations must be
// deterministic: identical input always yields identical scores.
type Scorer interface {
	Score(text string) models.Scores
}

type vaderScorer struct {
	analyzer *govader.SentimentIntensityAnalyzer
}

// NewVaderScorer returns the default Scorer, backed by the VADER lexicon. VADER
// is tuned for short social/consumer text and handles capitalization,
// punctuation emphasis and emoji, so callers need only light preprocessing.
func NewVaderScorer() Scorer {
	return &vaderScorer{analyzer: govader.NewSentimentIntensityAnalyzer()}
}

func (v *vaderScorer) Score(text string) models.Scores {
	s := v.analyzer.PolarityScores(text)
	return models.Scores{
		Positive: s.Positive,
		Negative: s.Negative,
		Neutral:  s.Neutral,
		Compound: s.Compound,
	}
}
