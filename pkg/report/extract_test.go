package report

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractRow(t *testing.T) {
	tests := []struct {
		name     string
		text     string
		expected KeywordRow
		ok       bool
	}{
		{
			name:     "canonical form",
			text:     "keyword: Teeth Whitening, performance: 88, sov: 2",
			expected: KeywordRow{Keyword: "Teeth Whitening", Performance: "88", ShareOfVoice: "2"},
			ok:       true,
		},
		{
			name:     "case-insensitive labels",
			text:     "KEYWORD: implants, PERFORMANCE: 75.5, SOV: 1",
			expected: KeywordRow{Keyword: "implants", Performance: "75.5", ShareOfVoice: "1"},
			ok:       true,
		},
		{
			name:     "semicolon separators",
			text:     "keyword: crowns; performance: 60; sov: 4",
			expected: KeywordRow{Keyword: "crowns", Performance: "60", ShareOfVoice: "4"},
			ok:       true,
		},
		{
			name:     "embedded in surrounding prose",
			text:     "I can see that keyword: Dentist, performance: 91, sov: 3 in the table",
			expected: KeywordRow{Keyword: "Dentist", Performance: "91", ShareOfVoice: "3"},
			ok:       true,
		},
		{
			name: "missing sov field",
			text: "keyword: Dentist, performance: 91",
			ok:   false,
		},
		{
			name: "unrelated text",
			text: "clicked on the history section",
			ok:   false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			row, ok := ExtractRow(tt.text)
			require.Equal(t, tt.ok, ok)
			if ok {
				assert.Equal(t, tt.expected, row)
			}
		})
	}
}

func TestExtractRowsPipeTable(t *testing.T) {
	t.Run("header, separator, data rows", func(t *testing.T) {
		text := "Here are the results:\n" +
			"| Keyword | Performance | SOV |\n" +
			"|---------|-------------|-----|\n" +
			"| Teeth Whitening | 88 | 2 |\n" +
			"| Implants | 75 | 1 |\n"

		rows := ExtractRows(text)
		require.Len(t, rows, 2)
		assert.Equal(t, KeywordRow{Keyword: "Teeth Whitening", Performance: "88", ShareOfVoice: "2"}, rows[0])
		assert.Equal(t, KeywordRow{Keyword: "Implants", Performance: "75", ShareOfVoice: "1"}, rows[1])
	})

	t.Run("separator row is optional", func(t *testing.T) {
		text := "| keyword | performance | sov |\n| Crowns | 60 | 4 |"
		rows := ExtractRows(text)
		require.Len(t, rows, 1)
		assert.Equal(t, "Crowns", rows[0].Keyword)
	})

	t.Run("malformed rows are skipped, good rows kept", func(t *testing.T) {
		text := "| Keyword | Performance | SOV |\n" +
			"| --- | --- | --- |\n" +
			"| Teeth Whitening | 88 | 2 |\n" +
			"| broken row without enough cells |\n" +
			"| Implants | 75 | 1 |\n"

		rows := ExtractRows(text)
		require.Len(t, rows, 2)
		assert.Equal(t, "Teeth Whitening", rows[0].Keyword)
		assert.Equal(t, "Implants", rows[1].Keyword)
	})

	t.Run("no header yields no table rows", func(t *testing.T) {
		text := "| one | two | three |\n| a | b | c |"
		assert.Empty(t, ExtractRows(text))
	})

	t.Run("inline rows found alongside table", func(t *testing.T) {
		text := "keyword: Veneers, performance: 50, sov: 5\n" +
			"| Keyword | Performance | SOV |\n" +
			"| Implants | 75 | 1 |"

		rows := ExtractRows(text)
		require.Len(t, rows, 2)
		// Table rows come first, then the inline pass.
		assert.Equal(t, "Implants", rows[0].Keyword)
		assert.Equal(t, "Veneers", rows[1].Keyword)
	})
}

func TestExtractRowsUnpipedEdges(t *testing.T) {
	t.Run("rows without leading pipes are parsed", func(t *testing.T) {
		text := "keyword | performance | sov\n" +
			"Teeth Whitening | 88 | 2\n" +
			"Emergency Dentist | 50 | 3"

		rows := ExtractRows(text)
		require.Len(t, rows, 2)
		assert.Equal(t, "Teeth Whitening", rows[0].Keyword)
		assert.Equal(t, "88", rows[0].Performance)
		assert.Equal(t, "2", rows[0].ShareOfVoice)
		assert.Equal(t, "Emergency Dentist", rows[1].Keyword)
	})

	t.Run("pipe-free prose after the header is skipped", func(t *testing.T) {
		text := "keyword | performance | sov\n" +
			"no table data in this line\n" +
			"Implants | 75 | 1"

		rows := ExtractRows(text)
		require.Len(t, rows, 1)
		assert.Equal(t, "Implants", rows[0].Keyword)
	})
}
