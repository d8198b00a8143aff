package extractor

import (
	"bytes"
	"io"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html/charset"
)

const (
	// minimum visible-text lengths for the two phases
	minSelectorLen = 30
	minFallbackLen = 40
)

// Ordered from most to least specific; earlier patterns win placement in the
// output, and extraction short-circuits once maxReviews texts are collected.
var reviewSelectors = []string{
	`[itemtype="http://schema.org/Review"]`,
	`[itemprop="reviewBody"]`,
	`.review`,
	`.reviews`,
	`[data-review]`,
	`[class*="review"]`,
	`[id*="review"]`,
	`.customer-review`,
	`.product-review`,
	`.user-review`,
	`.comment`,
	`.feedback`,
	`.testimonial`,
}

// Sentiment- and commerce-bearing words used to sniff out review-like prose when
// no structured markup matched.
var reviewKeywords = []string{
	"good", "bad", "excellent", "poor",
	"worst", "nice", "awesome", "terrible",
	"satisfied", "unsatisfied", "recommend",
	"disappointed", "love", "hate",
	"great", "amazing", "horrible", "perfect",
	"quality", "worth", "value", "price",
	"delivery", "service", "product", "item",
}

var whitespaceRe = regexp.MustCompile(`\s+`)

// Extractor turns a raw HTML document into a bounded, deduplicated list of
// candidate review strings. It performs no scoring.
type Extractor struct{}

func New() *Extractor { return &Extractor{} }

// Extract reads the document from r, decoding to UTF-8 using contentType hints.
// An empty result means the page carries no recognizable reviews; it is not an
// error. A malformed document yields an error and no partial result.
func (e *Extractor) Extract(r io.Reader, contentType string, maxReviews int) ([]string, error) {
	buf := new(bytes.Buffer)
	_, _ = io.Copy(buf, r)
	data := buf.Bytes()

	enc, _, _ := charset.DetermineEncoding(data, contentType)
	utf8data, err := enc.NewDecoder().Bytes(data)
	if err != nil {
		if !utf8.Valid(data) {
			return nil, err
		}
		utf8data = data
	}

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(utf8data))
	if err != nil {
		return nil, err
	}

	doc.Find("script,noscript,style").Each(func(i int, s *goquery.Selection) {
		s.Remove()
	})

	var reviews []string

	// phase 1: structured markup
	for _, sel := range reviewSelectors {
		doc.Find(sel).EachWithBreak(func(i int, s *goquery.Selection) bool {
			text := normalize(s.Text())
			if len(text) > minSelectorLen {
				reviews = append(reviews, text)
			}
			return len(reviews) < maxReviews
		})
		if len(reviews) >= maxReviews {
			break
		}
	}

	// phase 2: keyword sniffing over plain text blocks, only when phase 1 found nothing
	if len(reviews) == 0 {
		doc.Find("p,span,div").EachWithBreak(func(i int, s *goquery.Selection) bool {
			text := normalize(s.Text())
			if len(text) > minFallbackLen && containsKeyword(text) {
				reviews = append(reviews, text)
			}
			return len(reviews) < maxReviews
		})
	}

	unique := dedupe(reviews)
	if len(unique) > maxReviews {
		unique = unique[:maxReviews]
	}
	return unique, nil
}

func normalize(text string) string {
	return strings.TrimSpace(whitespaceRe.ReplaceAllString(text, " "))
}

func containsKeyword(text string) bool {
	low := strings.ToLower(text)
	for _, kw := range reviewKeywords {
		if strings.Contains(low, kw) {
			return true
		}
	}
	return false
}

// dedupe removes exact duplicates keeping each string at its first position.
func dedupe(in []string) []string {
	seen := make(map[string]struct{}, len(in))
	out := make([]string, 0, len(in))
	for _, s := range in {
		if _, ok := seen[s]; ok {
			continue
		}
		seen[s] = struct{}{}
		out = append(out, s)
	}
	return out
}
