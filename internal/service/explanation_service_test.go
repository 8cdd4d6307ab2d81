package service

import (
	"context"
	"errors"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/google/generative-ai-go/genai"
	"github.com/lshigami/examprep/internal/parser"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeGenerator struct {
	reply string
	err   error
	calls atomic.Int32
}

func (g *fakeGenerator) GenerateContent(_ context.Context, parts ...genai.Part) (*genai.GenerateContentResponse, error) {
	g.calls.Add(1)
	if g.err != nil {
		return nil, g.err
	}
	return &genai.GenerateContentResponse{
		Candidates: []*genai.Candidate{{Content: &genai.Content{Parts: []genai.Part{genai.Text(g.reply)}}}},
	}, nil
}

func TestParseSuggestion(t *testing.T) {
	s, err := parseSuggestion("Answer: C\nExplanation:\nf'(x) = 2x, so f'(1) = 2.")
	require.NoError(t, err)
	assert.Equal(t, "C", s.Answer)
	assert.Equal(t, "f'(x) = 2x, so f'(1) = 2.", s.Explanation)

	s, err = parseSuggestion("Explanation: only reasoning")
	require.NoError(t, err)
	assert.Empty(t, s.Answer)

	_, err = parseSuggestion("Answer: B")
	assert.Error(t, err)
	_, err = parseSuggestion("Answer: B\nExplanation:   ")
	assert.Error(t, err)
}

func TestBuildPromptIncludesPassageAndOptions(t *testing.T) {
	passage := "The Moon landing happened in 1969."
	prompt := buildPrompt(parser.Draft{
		Content: "When did it happen?",
		Options: []string{"A. 1969", "B. 1970"},
		Answer:  "A",
		Passage: &passage,
	})
	assert.Contains(t, prompt, passage)
	assert.Contains(t, prompt, "B. 1970")
	assert.Contains(t, prompt, "The correct answer is: A")
	assert.True(t, strings.Contains(prompt, "Explanation:"))
}

func TestFillMissingOnlyTouchesEmptyExplanations(t *testing.T) {
	gen := &fakeGenerator{reply: "Answer: B\nExplanation: because B"}
	svc := &explanationService{model: gen, maxConcurrent: 2}
	drafts := []parser.Draft{
		{Content: "q1"},
		{Content: "q2", Explanation: "already there"},
		{Content: "q3", Answer: "D"},
	}

	filled := svc.FillMissing(context.Background(), drafts)
	assert.Equal(t, 2, filled)
	assert.EqualValues(t, 2, gen.calls.Load())
	assert.Equal(t, "B", drafts[0].Answer)
	assert.Equal(t, "because B", drafts[0].Explanation)
	assert.Equal(t, "already there", drafts[1].Explanation)
	assert.Equal(t, "D", drafts[2].Answer, "an existing answer is kept")
	assert.Equal(t, "because B", drafts[2].Explanation)
}

func TestFillMissingSurvivesFailures(t *testing.T) {
	svc := &explanationService{model: &fakeGenerator{err: errors.New("quota exceeded")}, maxConcurrent: 1}
	drafts := []parser.Draft{{Content: "q1"}}
	assert.Equal(t, 0, svc.FillMissing(context.Background(), drafts))
	assert.Empty(t, drafts[0].Explanation)
}

func TestExplanationServiceWithoutKey(t *testing.T) {
	svc, err := NewExplanationService(testConfig())
	require.NoError(t, err)

	_, err = svc.Suggest(context.Background(), parser.Draft{Content: "q"})
	assert.ErrorIs(t, err, ErrLLMUnavailable)
	assert.Equal(t, 0, svc.FillMissing(context.Background(), []parser.Draft{{Content: "q"}}))
}
