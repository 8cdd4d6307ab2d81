package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/google/generative-ai-go/genai"
	"github.com/lshigami/examprep/config"
	"github.com/lshigami/examprep/internal/parser"
	"github.com/rs/zerolog/log"
	"google.golang.org/api/option"
)

var ErrLLMUnavailable = errors.New("explanation service is not configured")

// Suggestion is what the model proposes for one draft.
type Suggestion struct {
	Answer      string
	Explanation string
}

type ExplanationService interface {
	Suggest(ctx context.Context, draft parser.Draft) (*Suggestion, error)
	// FillMissing suggests an explanation (and an answer when absent) for every draft that lacks
	// one. Failures are logged and leave the draft untouched. Returns the number of drafts filled.
	FillMissing(ctx context.Context, drafts []parser.Draft) int
}

type generator interface {
	GenerateContent(ctx context.Context, parts ...genai.Part) (*genai.GenerateContentResponse, error)
}

type explanationService struct {
	model         generator
	maxConcurrent int
}

func NewExplanationService(cfg *config.Config) (ExplanationService, error) {
	maxConcurrent := cfg.Gemini.MaxConcurrent
	if maxConcurrent <= 0 {
		maxConcurrent = 4
	}
	if cfg.Gemini.APIKey == "" {
		log.Warn().Msg("GEMINI_API_KEY is not set. ExplanationService will be non-functional.")
		return &explanationService{maxConcurrent: maxConcurrent}, nil
	}
	client, err := genai.NewClient(context.Background(), option.WithAPIKey(cfg.Gemini.APIKey))
	if err != nil {
		return nil, fmt.Errorf("failed to initialize Gemini client: %w", err)
	}
	model := client.GenerativeModel(cfg.Gemini.Model)
	model.SetTemperature(0.2)
	return &explanationService{model: model, maxConcurrent: maxConcurrent}, nil
}

func buildPrompt(d parser.Draft) string {
	var b strings.Builder
	b.WriteString("You are an experienced exam tutor. Explain the solution to the following exam question.\n")
	b.WriteString("Reply in the same language as the question. Keep any LaTeX ($...$) unchanged.\n\n")
	if d.Passage != nil {
		b.WriteString("Passage:\n---\n")
		b.WriteString(*d.Passage)
		b.WriteString("\n---\n\n")
	}
	b.WriteString("Question:\n---\n")
	b.WriteString(d.Content)
	b.WriteString("\n---\n")
	for _, opt := range d.Options {
		b.WriteString(opt)
		b.WriteString("\n")
	}
	if d.Answer != "" {
		fmt.Fprintf(&b, "\nThe correct answer is: %s\n", d.Answer)
	}
	b.WriteString(`
Format your response strictly as:
Answer: [the correct answer; only the option letter(s) for multiple choice]
Explanation:
[a concise step-by-step explanation]
`)
	return b.String()
}

// parseSuggestion splits a reply of the form "Answer: ...\nExplanation: ...".
func parseSuggestion(raw string) (*Suggestion, error) {
	const answerPrefix = "Answer:"
	const explanationPrefix = "Explanation:"

	answerIdx := strings.Index(raw, answerPrefix)
	explanationIdx := strings.Index(raw, explanationPrefix)
	if explanationIdx == -1 {
		return nil, fmt.Errorf("response does not contain %q prefix", explanationPrefix)
	}

	s := &Suggestion{Explanation: strings.TrimSpace(raw[explanationIdx+len(explanationPrefix):])}
	if answerIdx != -1 && answerIdx < explanationIdx {
		line := raw[answerIdx+len(answerPrefix) : explanationIdx]
		if nl := strings.Index(line, "\n"); nl != -1 {
			line = line[:nl]
		}
		s.Answer = strings.TrimSpace(line)
	}
	if s.Explanation == "" {
		return nil, errors.New("response contains an empty explanation")
	}
	return s, nil
}

func (s *explanationService) Suggest(ctx context.Context, draft parser.Draft) (*Suggestion, error) {
	if s.model == nil {
		return nil, ErrLLMUnavailable
	}
	resp, err := s.model.GenerateContent(ctx, genai.Text(buildPrompt(draft)))
	if err != nil {
		return nil, fmt.Errorf("gemini request failed: %w", err)
	}
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil || len(resp.Candidates[0].Content.Parts) == 0 {
		return nil, errors.New("gemini returned no content")
	}

	var text strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if txt, ok := part.(genai.Text); ok {
			text.WriteString(string(txt))
		}
	}
	if text.Len() == 0 {
		return nil, errors.New("gemini returned no text content")
	}
	return parseSuggestion(text.String())
}

func (s *explanationService) FillMissing(ctx context.Context, drafts []parser.Draft) int {
	if s.model == nil {
		return 0
	}

	var (
		wg     sync.WaitGroup
		mu     sync.Mutex
		filled int
	)
	sem := make(chan struct{}, s.maxConcurrent)
	for i := range drafts {
		if strings.TrimSpace(drafts[i].Explanation) != "" {
			continue
		}
		wg.Add(1)
		go func(idx int) {
			defer wg.Done()
			select {
			case sem <- struct{}{}:
			case <-ctx.Done():
				return
			}
			defer func() { <-sem }()

			suggestion, err := s.Suggest(ctx, drafts[idx])
			if err != nil {
				log.Warn().Err(err).Int("draft", idx).Msg("FillMissing: no explanation drafted")
				return
			}
			mu.Lock()
			defer mu.Unlock()
			drafts[idx].Explanation = suggestion.Explanation
			if drafts[idx].Answer == "" {
				drafts[idx].Answer = suggestion.Answer
			}
			filled++
		}(i)
	}
	wg.Wait()
	return filled
}
