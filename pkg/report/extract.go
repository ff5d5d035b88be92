package report

import (
	"regexp"
	"strings"
)

// rowPattern matches inline structured rows of the form
// "keyword: K, performance: P, sov: S" with flexible separators.
var rowPattern = regexp.MustCompile(`(?i)keyword[:\s]+([\w\- ]+)[,;\s]+performance[:\s]+([\w\-.]+)[,;\s]+sov[:\s]+([\w\-.]+)`)

// tableHeaderPattern matches the pipe-delimited header row of a keyword
// results table.
var tableHeaderPattern = regexp.MustCompile(`(?i)^\|?\s*keyword\s*\|\s*performance\s*\|\s*sov\s*\|?\s*$`)

// ExtractRow attempts to read one KeywordRow out of a free-text fragment.
// The second return value reports whether a row was found.
func ExtractRow(text string) (KeywordRow, bool) {
	m := rowPattern.FindStringSubmatch(text)
	if m == nil {
		return KeywordRow{}, false
	}
	return KeywordRow{
		Keyword:      strings.TrimSpace(m[1]),
		Performance:  strings.TrimSpace(m[2]),
		ShareOfVoice: strings.TrimSpace(m[3]),
	}, true
}

// ExtractRows reads every candidate KeywordRow out of a final result text.
// It first looks for a pipe table (header row, optional separator row, then
// data rows) and then scans every line for inline "keyword: ..." rows.
// Malformed data rows inside an otherwise good table are skipped; the good
// rows are kept.
func ExtractRows(text string) []KeywordRow {
	lines := nonEmptyLines(text)

	var rows []KeywordRow
	if start := findTableHeader(lines); start != -1 {
		dataStart := start + 1
		if dataStart < len(lines) && isSeparatorRow(lines[dataStart]) {
			dataStart++
		}
		for _, line := range lines[dataStart:] {
			if !strings.Contains(line, "|") {
				continue
			}
			cells := splitTableRow(line)
			if len(cells) < 3 {
				continue
			}
			if cells[0] == "" || cells[1] == "" || cells[2] == "" {
				continue
			}
			rows = append(rows, KeywordRow{
				Keyword:      cells[0],
				Performance:  cells[1],
				ShareOfVoice: cells[2],
			})
		}
	}

	for _, line := range lines {
		if row, ok := ExtractRow(line); ok {
			rows = append(rows, row)
		}
	}
	return rows
}

// findTableHeader returns the index of the keyword table header line, or -1.
func findTableHeader(lines []string) int {
	for i, line := range lines {
		if tableHeaderPattern.MatchString(line) {
			return i
		}
	}
	return -1
}

// isSeparatorRow reports whether the line is a markdown-style separator
// between a table header and its data rows.
func isSeparatorRow(line string) bool {
	return strings.Contains(line, "---")
}

// splitTableRow splits a pipe-delimited row into trimmed cells, dropping the
// leading and trailing pipe.
func splitTableRow(line string) []string {
	trimmed := strings.Trim(strings.TrimSpace(line), "|")
	parts := strings.Split(trimmed, "|")
	cells := make([]string, len(parts))
	for i, p := range parts {
		cells[i] = strings.TrimSpace(p)
	}
	return cells
}

// nonEmptyLines splits text into trimmed lines with empty ones removed.
func nonEmptyLines(text string) []string {
	var lines []string
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line != "" {
			lines = append(lines, line)
		}
	}
	return lines
}
