package report

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestVocabClassifier(t *testing.T) {
	c := NewVocabClassifier()

	tests := []struct {
		name     string
		text     string
		expected []Bucket
	}{
		{
			name:     "keyword vocabulary",
			text:     "Found the keyword table on the page",
			expected: []Bucket{BucketKeyword},
		},
		{
			name:     "performance counts as keyword",
			text:     "The Performance column shows 88",
			expected: []Bucket{BucketKeyword},
		},
		{
			name:     "ranking vocabulary",
			text:     "The geography map shows top positions",
			expected: []Bucket{BucketRanking},
		},
		{
			name:     "business needs a qualifier term",
			text:     "navigating to the business page",
			expected: nil,
		},
		{
			name:     "business with qualifier",
			text:     "Business details: 12 Main St",
			expected: []Bucket{BucketBusiness},
		},
		{
			name:     "multi-bucket membership",
			text:     "keyword ranking data for the business name",
			expected: []Bucket{BucketBusiness, BucketKeyword, BucketRanking},
		},
		{
			name:     "case-insensitive matching",
			text:     "KEYWORD SCORE overview",
			expected: []Bucket{BucketKeyword},
		},
		{
			name:     "no vocabulary hit",
			text:     "clicked the login button",
			expected: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, c.Classify(tt.text))
		})
	}
}

func TestBucketString(t *testing.T) {
	assert.Equal(t, "business", BucketBusiness.String())
	assert.Equal(t, "keyword", BucketKeyword.String())
	assert.Equal(t, "ranking", BucketRanking.String())
	assert.Equal(t, "unknown", Bucket(99).String())
}
