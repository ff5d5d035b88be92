package report

import (
	"fmt"
	"html"
	"math"
	"sort"
	"strconv"
	"strings"
)

// Render builds the report document for the given identity and aggregated
// facts. It is a pure function: no clocks, no I/O, and identical inputs
// produce byte-identical output. finalResult may be a string, a []string,
// a map[string]string, or nil when the task has not completed.
//
// The document always carries the fixed section order: cover, identity
// summary, results, keyword summary table, footer. The cover renders even
// with empty facts so the UI has content immediately on submit.
func Render(identity string, facts *Facts, finalResult interface{}) string {
	if facts == nil {
		facts = NewFacts()
	}

	var b strings.Builder
	writeCover(&b, identity)
	writeSummary(&b, identity, facts)
	writeResults(&b, finalResult)
	writeKeywordTable(&b, facts.Rows)
	writeFooter(&b)
	return b.String()
}

func writeCover(b *strings.Builder, identity string) {
	b.WriteString(`<section class="report-cover">`)
	b.WriteString(`<h1>Client Research Report</h1>`)
	b.WriteString(`<h2>` + html.EscapeString(identity) + `</h2>`)
	b.WriteString(`</section>`)
}

func writeSummary(b *strings.Builder, identity string, facts *Facts) {
	b.WriteString(`<section class="report-summary">`)
	b.WriteString(`<h3>Executive Summary</h3>`)
	b.WriteString(`<p>Research data for ` + html.EscapeString(identity) +
		` covering keyword performance and geographic rankings.</p>`)

	writeNoteList(b, "Business Information", facts.BusinessNotes)
	writeNoteList(b, "Keyword Findings", facts.KeywordNotes)
	writeNoteList(b, "Ranking Findings", facts.RankingNotes)
	b.WriteString(`</section>`)
}

func writeNoteList(b *strings.Builder, heading string, notes []string) {
	if len(notes) == 0 {
		return
	}
	b.WriteString(`<h4>` + heading + `</h4><ul>`)
	for _, note := range notes {
		b.WriteString(`<li><pre>` + html.EscapeString(note) + `</pre></li>`)
	}
	b.WriteString(`</ul>`)
}

func writeResults(b *strings.Builder, finalResult interface{}) {
	b.WriteString(`<section class="report-results">`)
	b.WriteString(`<h3>Final Research Results</h3>`)

	switch v := finalResult.(type) {
	case nil:
		b.WriteString(`<p class="placeholder">Results will appear here when the task is completed.</p>`)
	case string:
		if v == "" {
			b.WriteString(`<p class="placeholder">Results will appear here when the task is completed.</p>`)
		} else if looksTabular(v) {
			writeResultTable(b, v)
		} else {
			writeParagraphs(b, v)
		}
	case []string:
		b.WriteString(`<ul>`)
		for _, item := range v {
			b.WriteString(`<li>` + html.EscapeString(item) + `</li>`)
		}
		b.WriteString(`</ul>`)
	case map[string]string:
		keys := make([]string, 0, len(v))
		for k := range v {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		b.WriteString(`<dl>`)
		for _, k := range keys {
			b.WriteString(`<dt>` + html.EscapeString(k) + `</dt>`)
			b.WriteString(`<dd>` + html.EscapeString(v[k]) + `</dd>`)
		}
		b.WriteString(`</dl>`)
	default:
		writeParagraphs(b, fmt.Sprintf("%v", v))
	}
	b.WriteString(`</section>`)
}

// looksTabular decides whether a final result string should be rendered as a
// table: it carries the pipe delimiter, or some line holds both "keyword"
// and one of "performance"/"sov" as case-insensitive tokens.
func looksTabular(text string) bool {
	for _, line := range strings.Split(text, "\n") {
		if strings.Contains(line, "|") {
			return true
		}
		lower := strings.ToLower(line)
		if strings.Contains(lower, "keyword") &&
			(strings.Contains(lower, "performance") || strings.Contains(lower, "sov")) {
			return true
		}
	}
	return false
}

// writeResultTable renders the pipe table inside text. When no header line
// can be located the text is shown verbatim instead; table parsing never
// fails the render.
func writeResultTable(b *strings.Builder, text string) {
	lines := nonEmptyLines(text)
	header := findTableHeader(lines)
	if header == -1 {
		b.WriteString(`<pre>` + html.EscapeString(text) + `</pre>`)
		return
	}

	b.WriteString(`<table><thead><tr>`)
	for _, cell := range splitTableRow(lines[header]) {
		b.WriteString(`<th>` + html.EscapeString(cell) + `</th>`)
	}
	b.WriteString(`</tr></thead><tbody>`)

	dataStart := header + 1
	if dataStart < len(lines) && isSeparatorRow(lines[dataStart]) {
		dataStart++
	}
	for _, line := range lines[dataStart:] {
		if !strings.Contains(line, "|") {
			continue
		}
		b.WriteString(`<tr>`)
		for _, cell := range splitTableRow(line) {
			b.WriteString(`<td>` + html.EscapeString(cell) + `</td>`)
		}
		b.WriteString(`</tr>`)
	}
	b.WriteString(`</tbody></table>`)
}

// writeParagraphs renders plain text as paragraphs split on blank lines,
// preserving single line breaks within a paragraph.
func writeParagraphs(b *strings.Builder, text string) {
	for _, para := range strings.Split(text, "\n\n") {
		para = strings.TrimSpace(para)
		if para == "" {
			continue
		}
		escaped := html.EscapeString(para)
		b.WriteString(`<p>` + strings.ReplaceAll(escaped, "\n", "<br>") + `</p>`)
	}
}

func writeKeywordTable(b *strings.Builder, rows []KeywordRow) {
	b.WriteString(`<section class="report-keywords">`)
	b.WriteString(`<h3>Keyword Performance Summary</h3>`)
	if len(rows) == 0 {
		b.WriteString(`<p class="placeholder">No keyword rows extracted yet.</p></section>`)
		return
	}

	b.WriteString(`<table><thead><tr><th>Keyword</th><th>Performance</th><th>SOV</th></tr></thead><tbody>`)
	for _, row := range rows {
		b.WriteString(`<tr><td>` + html.EscapeString(row.Keyword) + `</td><td>` +
			html.EscapeString(row.Performance) + `</td><td>` +
			html.EscapeString(row.ShareOfVoice) + `</td></tr>`)
	}

	perf := columnAverage(rows, func(r KeywordRow) string { return r.Performance })
	sov := columnAverage(rows, func(r KeywordRow) string { return r.ShareOfVoice })
	b.WriteString(`<tr class="average"><td>Average</td><td>` + perf + `</td><td>` + sov + `</td></tr>`)
	b.WriteString(`</tbody></table></section>`)
}

// columnAverage computes the arithmetic mean of the parseable numeric values
// in one column. Unparseable cells are excluded from the average rather than
// treated as zero; a column with no numeric cells renders as "n/a".
func columnAverage(rows []KeywordRow, column func(KeywordRow) string) string {
	var sum float64
	var count int
	for _, row := range rows {
		v, err := strconv.ParseFloat(strings.TrimSpace(column(row)), 64)
		if err != nil {
			continue
		}
		sum += v
		count++
	}
	if count == 0 {
		return "n/a"
	}
	mean := math.Round(sum/float64(count)*100) / 100
	return strconv.FormatFloat(mean, 'f', -1, 64)
}

func writeFooter(b *strings.Builder) {
	b.WriteString(`<footer class="report-footer"><p>Generated by Scout Client Research Agent</p></footer>`)
}
