package browser

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVisibleTextDropsNoise(t *testing.T) {
	raw := `<html><head><title>Portal</title><style>.x{}</style></head>
	<body><script>var x = 1;</script>
	<h1>Client Dashboard</h1>
	<p>Keyword performance for Acme Dental.</p>
	<noscript>enable js</noscript>
	</body></html>`

	text, err := visibleText(raw, 0)
	require.NoError(t, err)

	assert.Contains(t, text, "Client Dashboard")
	assert.Contains(t, text, "Keyword performance for Acme Dental.")
	assert.NotContains(t, text, "var x")
	assert.NotContains(t, text, "enable js")
	assert.NotContains(t, text, ".x{}")
}

func TestVisibleTextBlockBreaks(t *testing.T) {
	raw := `<body><div>first</div><div>second</div><span>same</span><span>line</span></body>`

	text, err := visibleText(raw, 0)
	require.NoError(t, err)

	lines := strings.Split(text, "\n")
	assert.Contains(t, lines, "first")
	assert.Contains(t, lines, "second")
	assert.Contains(t, text, "same line")
}

func TestVisibleTextTruncation(t *testing.T) {
	raw := "<body><p>" + strings.Repeat("a", 500) + "</p></body>"

	text, err := visibleText(raw, 100)
	require.NoError(t, err)

	assert.True(t, strings.HasSuffix(text, "[truncated]"))
	assert.LessOrEqual(t, len(text), 100+len("\n[truncated]"))
}

func TestPageTitle(t *testing.T) {
	assert.Equal(t, "Research Portal", pageTitle(`<html><head><title> Research Portal </title></head><body></body></html>`))
	assert.Empty(t, pageTitle(`<html><body><p>no title</p></body></html>`))
}
