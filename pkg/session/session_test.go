package session

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/entrhq/scout/pkg/report"
	"github.com/entrhq/scout/pkg/types"
)

func TestSessionBeginRunKeepsTranscript(t *testing.T) {
	s := New()
	s.Append(types.NewUserMessage("Research task started for: Acme Dental"))
	s.Append(types.NewAssistantMessage("Navigated to the portal"))

	s.WithFacts(func(f *report.Facts) {
		f.AddRow(report.KeywordRow{Keyword: "dentist", Performance: "10", ShareOfVoice: "2"})
	})
	s.SetReport("<div>old</div>")
	s.Queue().Push(types.NewUpdate().Set("research.report", types.SetValue("stale")))

	s.BeginRun("Bright Smiles")

	assert.Equal(t, "Bright Smiles", s.Identity())
	assert.Equal(t, 2, s.TranscriptLen(), "transcript survives a new run")
	assert.Empty(t, s.Report())
	assert.Zero(t, s.Queue().Len(), "stale fragments from the previous run are discarded")
	s.WithFacts(func(f *report.Facts) {
		assert.True(t, f.IsEmpty())
	})
}

func TestSessionResetClearsEverything(t *testing.T) {
	s := New()
	s.BeginRun("Acme Dental")
	s.Append(types.NewAssistantMessage("step one"))
	s.WithFacts(func(f *report.Facts) {
		f.AddNote(report.BucketBusiness, "Acme Dental, 1 Main St")
	})
	s.SetReport("<div>report</div>")
	s.Queue().Push(types.NewUpdate().Set("research.report", types.SetValue("x")))

	s.Reset()

	assert.Empty(t, s.Identity())
	assert.Zero(t, s.TranscriptLen())
	assert.Empty(t, s.Report())
	assert.Zero(t, s.Queue().Len())
	s.WithFacts(func(f *report.Facts) {
		assert.True(t, f.IsEmpty())
	})
}

func TestSessionMessagesReturnsCopy(t *testing.T) {
	s := New()
	s.Append(types.NewErrorMessage("boom"))

	msgs := s.Messages()
	require.Len(t, msgs, 1)

	msgs[0] = types.NewUserMessage("mutated")
	assert.Equal(t, types.RoleError, s.Messages()[0].Role)
}

func TestSessionWithFactsAtomicRender(t *testing.T) {
	s := New()
	s.BeginRun("Acme Dental")

	var html string
	s.WithFacts(func(f *report.Facts) {
		f.AddRow(report.KeywordRow{Keyword: "emergency dentist", Performance: "8", ShareOfVoice: "3"})
		html = report.Render(s.identity, f, nil)
	})
	s.SetReport(html)

	assert.Contains(t, s.Report(), "emergency dentist")
}
