package sentiment

import (
	"math"
	"regexp"
	"sort"
	"strings"

	"opinionpulse-go-analyzer/internal/models"
)

// Compound-score thresholds for bucketing a single review. The dead zone around
// zero keeps mildly-worded reviews neutral instead of forcing a polarity.
const (
	positiveThreshold = 0.1
	negativeThreshold = -0.1
)

// topN is the size of the best/worst example lists in a report.
const topN = 5

var (
	tagRe   = regexp.MustCompile(`<[^>]*>`)
	spaceRe = regexp.MustCompile(`\s+`)
)

// Preprocess cleans one review for scoring: tag-like fragments removed,
// whitespace collapsed, ends trimmed. Case and punctuation stay, the scorer
// uses both as signal.
func Preprocess(text string) string {
	text = tagRe.ReplaceAllString(text, "")
	text = spaceRe.ReplaceAllString(text, " ")
	return strings.TrimSpace(text)
}

// Classifier scores and aggregates extracted reviews into a Report.
type Classifier struct {
	scorer  Scorer
	workers int
}

// NewClassifier builds a Classifier that scores at most workers reviews
// concurrently. workers < 1 means sequential scoring.
func NewClassifier(scorer Scorer, workers int) *Classifier {
	if workers < 1 {
		workers = 1
	}
	return &Classifier{scorer: scorer, workers: workers}
}

// Classify scores every review and derives aggregate statistics. An empty input
// is an expected outcome and yields a degenerate zero-valued report, not an
// error. Details keeps input order even though scoring may run concurrently.
func (c *Classifier) Classify(reviews []string) models.Report {
	if len(reviews) == 0 {
		return models.Report{
			Overall:     models.OverallNoData,
			TopPositive: []models.ScoredReview{},
			TopNegative: []models.ScoredReview{},
			Details:     []models.ScoredReview{},
		}
	}

	details := make([]models.ScoredReview, len(reviews))

	sem := make(chan struct{}, c.workers)
	done := make(chan struct{}, len(reviews))
	for i, review := range reviews {
		i, review := i, review
		sem <- struct{}{} // acquire
		go func() {
			defer func() { <-sem; done <- struct{}{} }()
			processed := Preprocess(review)
			scores := c.scorer.Score(processed)
			details[i] = models.ScoredReview{
				Original:  review,
				Processed: processed,
				Sentiment: label(scores.Compound),
				Scores:    scores,
			}
		}()
	}
	for range reviews {
		<-done
	}

	var positives, negatives []models.ScoredReview
	neutralCount := 0
	for _, d := range details {
		switch d.Sentiment {
		case models.LabelPositive:
			positives = append(positives, d)
		case models.LabelNegative:
			negatives = append(negatives, d)
		default:
			neutralCount++
		}
	}

	total := len(details)
	posPct := float64(len(positives)) / float64(total) * 100
	negPct := float64(len(negatives)) / float64(total) * 100
	neuPct := float64(neutralCount) / float64(total) * 100

	// neutral votes count half towards either side; ties stay Neutral
	overall := models.OverallNeutral
	if posPct > negPct+0.5*neuPct {
		overall = models.OverallPositive
	} else if negPct > posPct+0.5*neuPct {
		overall = models.OverallNegative
	}

	sort.SliceStable(positives, func(i, j int) bool {
		return positives[i].Scores.Compound > positives[j].Scores.Compound
	})
	sort.SliceStable(negatives, func(i, j int) bool {
		return negatives[i].Scores.Compound < negatives[j].Scores.Compound
	})

	return models.Report{
		TotalReviews: total,
		Overall:      overall,
		PositivePct:  round2(posPct),
		NegativePct:  round2(negPct),
		NeutralPct:   round2(neuPct),
		TopPositive:  truncate(positives, topN),
		TopNegative:  truncate(negatives, topN),
		Details:      details,
	}
}

func label(compound float64) string {
	switch {
	case compound > positiveThreshold:
		return models.LabelPositive
	case compound < negativeThreshold:
		return models.LabelNegative
	default:
		return models.LabelNeutral
	}
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

func truncate(list []models.ScoredReview, n int) []models.ScoredReview {
	if list == nil {
		return []models.ScoredReview{}
	}
	if len(list) > n {
		return list[:n]
	}
	return list
}
