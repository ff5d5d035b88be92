package report

import "strings"

// KeywordRow is one typed record in the keyword summary table. Values are
// kept as opaque strings; the renderer decides what is numeric when it
// computes averages.
type KeywordRow struct {
	Keyword      string
	Performance  string
	ShareOfVoice string
}

// Facts is the aggregated state of one research session: three ordered note
// collections, the typed keyword rows, and the collected screenshots.
// Aggregation is monotonically additive within a session; facts are removed
// only by Reset. Facts has a single owner (the session) and is mutated only
// from the task's sequential callbacks or the orchestrator's reset, so it
// carries no lock.
type Facts struct {
	BusinessNotes []string
	KeywordNotes  []string
	RankingNotes  []string
	Rows          []KeywordRow
	Screenshots   []string

	// rowKeys tracks case-insensitive keyword uniqueness for Rows.
	rowKeys map[string]struct{}
}

// NewFacts creates an empty fact set.
func NewFacts() *Facts {
	return &Facts{rowKeys: make(map[string]struct{})}
}

// Reset clears every collection. The fact set is reusable afterwards.
func (f *Facts) Reset() {
	f.BusinessNotes = nil
	f.KeywordNotes = nil
	f.RankingNotes = nil
	f.Rows = nil
	f.Screenshots = nil
	f.rowKeys = make(map[string]struct{})
}

// AddNote appends a text fragment to the given bucket unless the exact
// string is already present there. Returns true if the note was added.
func (f *Facts) AddNote(bucket Bucket, text string) bool {
	target := f.bucketSlice(bucket)
	if target == nil {
		return false
	}
	for _, existing := range *target {
		if existing == text {
			return false
		}
	}
	*target = append(*target, text)
	return true
}

func (f *Facts) bucketSlice(bucket Bucket) *[]string {
	switch bucket {
	case BucketBusiness:
		return &f.BusinessNotes
	case BucketKeyword:
		return &f.KeywordNotes
	case BucketRanking:
		return &f.RankingNotes
	default:
		return nil
	}
}

// AddRow appends a keyword row unless a row with the same keyword (compared
// case-insensitively) already exists. First-seen wins; later duplicates are
// dropped silently. Returns true if the row was added.
func (f *Facts) AddRow(row KeywordRow) bool {
	if row.Keyword == "" {
		return false
	}
	if f.rowKeys == nil {
		f.rowKeys = make(map[string]struct{})
	}
	key := strings.ToLower(row.Keyword)
	if _, seen := f.rowKeys[key]; seen {
		return false
	}
	f.rowKeys[key] = struct{}{}
	f.Rows = append(f.Rows, row)
	return true
}

// AddScreenshot appends an encoded screenshot to the ordered collection.
// Tiny payloads are ignored; they are placeholders, not captures.
func (f *Facts) AddScreenshot(encoded string) {
	if len(encoded) <= 100 {
		return
	}
	f.Screenshots = append(f.Screenshots, encoded)
}

// AddPageURL records a business-looking page URL as a business note once.
// Containment dedup keeps a URL that already appears inside an existing note
// from being recorded again.
func (f *Facts) AddPageURL(url string) bool {
	if url == "" || !strings.Contains(strings.ToLower(url), "business") {
		return false
	}
	for _, note := range f.BusinessNotes {
		if strings.Contains(note, url) {
			return false
		}
	}
	f.BusinessNotes = append(f.BusinessNotes, "Page URL: "+url)
	return true
}

// Ingest processes one step's text fragments: each fragment is classified
// into buckets, deduped notes are appended, and an inline keyword row is
// extracted when present. Fragments shorter than a handful of characters
// carry no usable facts and are skipped.
func (f *Facts) Ingest(fragments []string, classifier Classifier) {
	for _, fragment := range fragments {
		if len(strings.TrimSpace(fragment)) <= 5 {
			continue
		}
		for _, bucket := range classifier.Classify(fragment) {
			f.AddNote(bucket, fragment)
		}
		if row, ok := ExtractRow(fragment); ok {
			f.AddRow(row)
		}
	}
}

// IngestFinalResult runs the second extraction pass over the task's final
// result text, feeding both pipe-table rows and inline rows through the same
// dedup rule as the per-step pass.
func (f *Facts) IngestFinalResult(text string) {
	for _, row := range ExtractRows(text) {
		f.AddRow(row)
	}
}

// IsEmpty reports whether nothing has been aggregated yet.
func (f *Facts) IsEmpty() bool {
	return len(f.BusinessNotes) == 0 &&
		len(f.KeywordNotes) == 0 &&
		len(f.RankingNotes) == 0 &&
		len(f.Rows) == 0 &&
		len(f.Screenshots) == 0
}
