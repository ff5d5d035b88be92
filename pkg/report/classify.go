// Package report implements the structured fact aggregator and the live
// report renderer. The aggregator turns free-text step output into bucketed
// notes and typed keyword rows; the renderer is a pure function from the
// aggregated state to an HTML report document.
package report

import "strings"

// Bucket identifies which fact collection a text fragment belongs to.
type Bucket int

const (
	BucketBusiness Bucket = iota // BucketBusiness collects business identity notes.
	BucketKeyword                // BucketKeyword collects keyword/performance notes.
	BucketRanking                // BucketRanking collects ranking/geography notes.
)

// String returns the bucket name for logging.
func (b Bucket) String() string {
	switch b {
	case BucketBusiness:
		return "business"
	case BucketKeyword:
		return "keyword"
	case BucketRanking:
		return "ranking"
	default:
		return "unknown"
	}
}

// Classifier decides which fact buckets a text fragment belongs to. The
// classification is a best-effort heuristic over unstructured text, not a
// parser; keeping it behind this interface lets the matching vocabulary be
// swapped without touching the aggregator's dedup and ordering logic.
type Classifier interface {
	Classify(text string) []Bucket
}

// VocabClassifier classifies fragments by case-insensitive substring
// membership against small fixed vocabularies. A fragment may land in more
// than one bucket.
type VocabClassifier struct {
	keywordTerms  []string
	rankingTerms  []string
	businessTerms []string
}

// NewVocabClassifier creates a classifier with the default vocabularies.
func NewVocabClassifier() *VocabClassifier {
	return &VocabClassifier{
		keywordTerms:  []string{"keyword", "performance", "score"},
		rankingTerms:  []string{"ranking", "rank", "geography", "location"},
		businessTerms: []string{"name", "address", "info", "details", "about"},
	}
}

// Classify returns the buckets the fragment belongs to, in a fixed order
// (business, keyword, ranking). An empty result means the fragment carries
// no recognizable facts.
func (c *VocabClassifier) Classify(text string) []Bucket {
	lower := strings.ToLower(text)

	var buckets []Bucket
	if strings.Contains(lower, "business") && containsAny(lower, c.businessTerms) {
		buckets = append(buckets, BucketBusiness)
	}
	if containsAny(lower, c.keywordTerms) {
		buckets = append(buckets, BucketKeyword)
	}
	if containsAny(lower, c.rankingTerms) {
		buckets = append(buckets, BucketRanking)
	}
	return buckets
}

func containsAny(lower string, terms []string) bool {
	for _, term := range terms {
		if strings.Contains(lower, term) {
			return true
		}
	}
	return false
}
