package insights

import (
	"fmt"
	"regexp"
	"sort"
	"strings"

	"opinionpulse-go-analyzer/internal/models"
)

// A report always carries exactly this many insights, in a fixed slot order:
// overall assessment, volume, positive themes, negative themes, recommendation.
const insightCount = 5

const (
	topThemes   = 3
	minWordLen  = 4
	fallbackMsg = "Not enough review data available to generate further insights."
)

// Review-volume tiers for the engagement insight.
const (
	highVolume     = 50
	moderateVolume = 20
)

// Generic words excluded from theme extraction; they appear in nearly every
// review and carry no feature information.
var positiveStopwords = wordSet("great", "good", "love", "excellent", "best",
	"product", "very", "would", "really", "much", "well", "amazing", "highly",
	"recommend", "happy", "perfectly", "quick")

var negativeStopwords = wordSet("bad", "poor", "issue", "problem", "not",
	"disappointed", "worst", "product", "very", "would", "really", "much",
	"well", "terrible", "waste", "away", "buggy", "crashes")

var wordRe = regexp.MustCompile(`\w+`)

// Generator derives manager-facing statements from a classified report. It is
// fully deterministic and performs no re-scoring.
type Generator struct{}

func New() *Generator { return &Generator{} }

// Generate returns exactly 5 statements for any input, padding with a generic
// line when the report is degenerate.
func (g *Generator) Generate(report models.Report) []string {
	insights := make([]string, 0, insightCount)

	if report.TotalReviews == 0 {
		insights = append(insights, "No data available to generate insights.")
		return pad(insights)
	}

	var positives, negatives []models.ScoredReview
	neutralCount := 0
	for _, d := range report.Details {
		switch d.Sentiment {
		case models.LabelPositive:
			positives = append(positives, d)
		case models.LabelNegative:
			negatives = append(negatives, d)
		default:
			neutralCount++
		}
	}

	// slot 1: overall assessment
	switch report.Overall {
	case models.OverallPositive:
		insights = append(insights, fmt.Sprintf(
			"Product is generally well-received with %.1f%% positive reviews. Customers are satisfied with the product quality and performance.",
			report.PositivePct))
	case models.OverallNegative:
		insights = append(insights, fmt.Sprintf(
			"Product has significant issues with %.1f%% negative reviews. Immediate attention required to address customer concerns.",
			report.NegativePct))
	default:
		insights = append(insights, fmt.Sprintf(
			"Product has mixed reviews with %.1f%% positive, %.1f%% negative, and %.1f%% neutral feedback.",
			report.PositivePct, report.NegativePct, report.NeutralPct))
	}

	// slot 2: review volume / engagement
	switch {
	case report.TotalReviews >= highVolume:
		insights = append(insights, fmt.Sprintf(
			"High customer engagement: %d reviews analyzed, a sample large enough to act on with confidence.",
			report.TotalReviews))
	case report.TotalReviews >= moderateVolume:
		insights = append(insights, fmt.Sprintf(
			"Moderate customer engagement: %d reviews analyzed, trends are indicative but worth re-checking as more arrive.",
			report.TotalReviews))
	default:
		insights = append(insights, fmt.Sprintf(
			"Limited feedback so far: only %d reviews available, treat conclusions as preliminary.",
			report.TotalReviews))
	}

	// slot 3: positive themes
	if len(positives) == 0 {
		insights = append(insights, "No positive reviews to extract key features from.")
	} else if features := topWords(positives, positiveStopwords); len(features) > 0 {
		insights = append(insights, fmt.Sprintf(
			"Key positive features mentioned: %s. These are the main selling points customers appreciate.",
			strings.Join(features, ", ")))
	} else {
		insights = append(insights, "No specific features were frequently mentioned in positive reviews.")
	}

	// slot 4: negative themes
	if len(negatives) == 0 {
		insights = append(insights, "No negative reviews to extract issues from.")
	} else if issues := topWords(negatives, negativeStopwords); len(issues) > 0 {
		insights = append(insights, fmt.Sprintf(
			"Main issues reported: %s. These problems need immediate attention and improvement.",
			strings.Join(issues, ", ")))
	} else {
		insights = append(insights, "No specific issues were frequently mentioned in negative reviews.")
	}

	// slot 5: strategic recommendation, first matching tier wins
	switch {
	case report.PositivePct > 70:
		insights = append(insights,
			"Customer approval is strong enough to support expanding distribution or marketing investment in this product.")
	case report.NegativePct > 50:
		insights = append(insights,
			"Negative feedback dominates; prioritize fixing the reported problems before any growth initiatives.")
	case float64(neutralCount) > 0.4*float64(report.TotalReviews):
		insights = append(insights,
			"A large share of customers are indifferent; sharper product differentiation or messaging could convert them.")
	default:
		insights = append(insights,
			"Sentiment is balanced; maintain the current strategy and keep monitoring reviews for emerging trends.")
	}

	return pad(insights)
}

// topWords counts qualifying word tokens across the processed text of the given
// reviews and returns the most frequent ones, capitalized. Ties keep the order
// in which words were first encountered.
func topWords(reviews []models.ScoredReview, stop map[string]struct{}) []string {
	freq := map[string]int{}
	var order []string
	for _, r := range reviews {
		for _, w := range wordRe.FindAllString(strings.ToLower(r.Processed), -1) {
			if len(w) < minWordLen {
				continue
			}
			if _, skip := stop[w]; skip {
				continue
			}
			if _, seen := freq[w]; !seen {
				order = append(order, w)
			}
			freq[w]++
		}
	}
	if len(order) == 0 {
		return nil
	}
	sort.SliceStable(order, func(i, j int) bool {
		return freq[order[i]] > freq[order[j]]
	})
	if len(order) > topThemes {
		order = order[:topThemes]
	}
	out := make([]string, len(order))
	for i, w := range order {
		out[i] = capitalize(w)
	}
	return out
}

func capitalize(w string) string {
	if w == "" {
		return w
	}
	return strings.ToUpper(w[:1]) + w[1:]
}

func pad(insights []string) []string {
	for len(insights) < insightCount {
		insights = append(insights, fallbackMsg)
	}
	return insights[:insightCount]
}

func wordSet(words ...string) map[string]struct{} {
	set := make(map[string]struct{}, len(words))
	for _, w := range words {
		set[w] = struct{}{}
	}
	return set
}
