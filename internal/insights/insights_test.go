package insights

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"opinionpulse-go-analyzer/internal/models"
)

func review(sentiment, processed string) models.ScoredReview {
	return models.ScoredReview{Original: processed, Processed: processed, Sentiment: sentiment}
}

// buildReport derives a consistent Report from a detail list.
func buildReport(overall string, details []models.ScoredReview) models.Report {
	var pos, neg, neu int
	for _, d := range details {
		switch d.Sentiment {
		case models.LabelPositive:
			pos++
		case models.LabelNegative:
			neg++
		default:
			neu++
		}
	}
	total := len(details)
	pct := func(n int) float64 {
		if total == 0 {
			return 0
		}
		return float64(n) / float64(total) * 100
	}
	return models.Report{
		TotalReviews: total,
		Overall:      overall,
		PositivePct:  pct(pos),
		NegativePct:  pct(neg),
		NeutralPct:   pct(neu),
		Details:      details,
	}
}

func TestGenerateAlwaysFive(t *testing.T) {
	g := New()

	assert.Len(t, g.Generate(models.Report{Overall: models.OverallNoData}), 5)
	assert.Len(t, g.Generate(buildReport(models.OverallNeutral, []models.ScoredReview{
		review(models.LabelNeutral, "it exists"),
	})), 5)
	assert.Len(t, g.Generate(buildReport(models.OverallPositive, manyPositive(60))), 5)
}

func TestGenerateEmptyReportAllFallback(t *testing.T) {
	got := New().Generate(models.Report{Overall: models.OverallNoData})

	require.Len(t, got, 5)
	assert.Equal(t, "No data available to generate insights.", got[0])
	for _, s := range got[1:] {
		assert.Equal(t, fallbackMsg, s)
	}
}

func TestGenerateOverallSlot(t *testing.T) {
	g := New()

	pos := g.Generate(buildReport(models.OverallPositive, manyPositive(10)))
	assert.Contains(t, pos[0], "well-received")

	neg := g.Generate(buildReport(models.OverallNegative, []models.ScoredReview{
		review(models.LabelNegative, "the hinge snapped within days"),
	}))
	assert.Contains(t, neg[0], "significant issues")

	mixed := g.Generate(buildReport(models.OverallNeutral, []models.ScoredReview{
		review(models.LabelPositive, "charging dock works nicely"),
		review(models.LabelNegative, "charging dock died quickly"),
	}))
	assert.Contains(t, mixed[0], "mixed reviews")
}

func TestGenerateVolumeTiers(t *testing.T) {
	g := New()

	high := g.Generate(buildReport(models.OverallPositive, manyPositive(55)))
	assert.Contains(t, high[1], "High customer engagement")
	assert.Contains(t, high[1], "55")

	moderate := g.Generate(buildReport(models.OverallPositive, manyPositive(25)))
	assert.Contains(t, moderate[1], "Moderate customer engagement")
	assert.Contains(t, moderate[1], "25")

	limited := g.Generate(buildReport(models.OverallPositive, manyPositive(3)))
	assert.Contains(t, limited[1], "Limited feedback")
	assert.Contains(t, limited[1], "3")
}

func TestGeneratePositiveThemes(t *testing.T) {
	details := []models.ScoredReview{
		review(models.LabelPositive, "battery life is superb and battery charges fast"),
		review(models.LabelPositive, "the battery and the screen impressed me, screen is crisp"),
		review(models.LabelPositive, "screen again, plus the camera"),
	}
	got := New().Generate(buildReport(models.OverallPositive, details))

	// battery x3, screen x3, life/superb/... x1; battery first-encountered wins the tie
	assert.Contains(t, got[2], "Key positive features mentioned")
	assert.Contains(t, got[2], "Battery")
	assert.Contains(t, got[2], "Screen")
	assert.Less(t, strings.Index(got[2], "Battery"), strings.Index(got[2], "Screen"))
}

func TestGeneratePositiveThemesStopwordsExcluded(t *testing.T) {
	details := []models.ScoredReview{
		review(models.LabelPositive, "great great great good good product product"),
	}
	got := New().Generate(buildReport(models.OverallPositive, details))
	assert.Equal(t, "No specific features were frequently mentioned in positive reviews.", got[2])
}

func TestGenerateNoPositiveReviews(t *testing.T) {
	details := []models.ScoredReview{
		review(models.LabelNegative, "hinge snapped"),
	}
	got := New().Generate(buildReport(models.OverallNegative, details))
	assert.Equal(t, "No positive reviews to extract key features from.", got[2])
}

func TestGenerateNegativeThemes(t *testing.T) {
	details := []models.ScoredReview{
		review(models.LabelNegative, "shipping damaged the box, shipping took forever"),
		review(models.LabelNegative, "shipping again and the charger overheats"),
	}
	got := New().Generate(buildReport(models.OverallNegative, details))
	assert.Contains(t, got[3], "Main issues reported")
	assert.Contains(t, got[3], "Shipping")
}

func TestGenerateNoNegativeReviews(t *testing.T) {
	got := New().Generate(buildReport(models.OverallPositive, manyPositive(4)))
	assert.Equal(t, "No negative reviews to extract issues from.", got[3])
}

func TestGenerateRecommendationTiers(t *testing.T) {
	g := New()

	// >70% positive -> expansion
	expansion := g.Generate(buildReport(models.OverallPositive, manyPositive(8)))
	assert.Contains(t, expansion[4], "expanding")

	// >50% negative -> remediation
	var negs []models.ScoredReview
	for i := 0; i < 6; i++ {
		negs = append(negs, review(models.LabelNegative, "it failed"))
	}
	negs = append(negs, review(models.LabelPositive, "one fan liked it"))
	remediation := g.Generate(buildReport(models.OverallNegative, negs))
	assert.Contains(t, remediation[4], "fixing the reported problems")

	// >40% neutral -> differentiation
	indifferent := g.Generate(buildReport(models.OverallNeutral, []models.ScoredReview{
		review(models.LabelNeutral, "it exists"),
		review(models.LabelNeutral, "it is a thing"),
		review(models.LabelNeutral, "arrived on a tuesday"),
		review(models.LabelPositive, "kind of nice"),
		review(models.LabelNegative, "kind of bland"),
	}))
	assert.Contains(t, indifferent[4], "indifferent")

	// otherwise -> steady monitoring
	steady := g.Generate(buildReport(models.OverallNeutral, []models.ScoredReview{
		review(models.LabelPositive, "decent speaker"),
		review(models.LabelNegative, "weak bass"),
		review(models.LabelPositive, "nice finish"),
		review(models.LabelNegative, "scratches easily"),
	}))
	assert.Contains(t, steady[4], "monitoring")
}

func manyPositive(n int) []models.ScoredReview {
	out := make([]models.ScoredReview, n)
	for i := range out {
		out[i] = review(models.LabelPositive, "the battery life impressed me")
	}
	return out
}
