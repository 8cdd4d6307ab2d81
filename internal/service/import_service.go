package service

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/lshigami/examprep/internal/dto"
	"github.com/lshigami/examprep/internal/extract"
	"github.com/lshigami/examprep/internal/model"
	"github.com/lshigami/examprep/internal/parser"
	"github.com/lshigami/examprep/internal/repository"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

const DefaultImportTag = "导入题目"

var validate = validator.New()

type ImportService interface {
	PreviewText(ctx context.Context, req dto.ImportPreviewRequest) (*dto.ImportPreviewResponse, error)
	PreviewPDF(ctx context.Context, questions, answers []byte, convention string, explain bool) (*dto.ImportPreviewResponse, error)
	PreviewSpreadsheet(ctx context.Context, r io.Reader, explain bool) (*dto.ImportPreviewResponse, error)
	Commit(ctx context.Context, req dto.ImportCommitRequest) (*dto.ImportCommitResponse, error)
}

type importService struct {
	db           *gorm.DB
	paperRepo    repository.PaperRepository
	questionRepo repository.QuestionRepository
	tagRepo      repository.TagRepository
	explainer    ExplanationService
}

func NewImportService(
	db *gorm.DB,
	paperRepo repository.PaperRepository,
	questionRepo repository.QuestionRepository,
	tagRepo repository.TagRepository,
	explainer ExplanationService,
) ImportService {
	return &importService{
		db:           db,
		paperRepo:    paperRepo,
		questionRepo: questionRepo,
		tagRepo:      tagRepo,
		explainer:    explainer,
	}
}

// resolveConvention maps a requested name to a convention; "" and "auto" detect it from the text.
func resolveConvention(name, text string) (parser.Convention, error) {
	name = strings.TrimSpace(strings.ToLower(name))
	if name == "" || name == "auto" {
		conv, ok := parser.Detect(text)
		if !ok {
			return 0, ErrNoQuestionsParsed
		}
		return conv, nil
	}
	conv, ok := parser.ParseConvention(name)
	if !ok {
		return 0, fmt.Errorf("%w: unknown convention %q", ErrInvalidInput, name)
	}
	return conv, nil
}

func (s *importService) parseText(text, convention string) (parser.Convention, []parser.Draft, error) {
	conv, err := resolveConvention(convention, text)
	if err != nil {
		return 0, nil, err
	}
	drafts := parser.Parse(text, conv)
	if len(drafts) == 0 {
		return conv, nil, ErrNoQuestionsParsed
	}
	return conv, drafts, nil
}

func (s *importService) finishPreview(ctx context.Context, conv string, drafts []parser.Draft, answerText string, explain bool) *dto.ImportPreviewResponse {
	resp := &dto.ImportPreviewResponse{Convention: conv, Drafts: drafts, Count: len(drafts)}
	if strings.TrimSpace(answerText) != "" {
		resp.Matched = parser.ApplyAnswerSheet(drafts, parser.ParseAnswerSheet(answerText))
	}
	if explain {
		filled := s.explainer.FillMissing(ctx, drafts)
		log.Info().Int("filled", filled).Int("drafts", len(drafts)).Msg("Import preview: explanations drafted")
	}
	return resp
}

func (s *importService) PreviewText(ctx context.Context, req dto.ImportPreviewRequest) (*dto.ImportPreviewResponse, error) {
	conv, drafts, err := s.parseText(req.Text, req.Convention)
	if err != nil {
		return nil, err
	}
	return s.finishPreview(ctx, conv.String(), drafts, req.AnswerText, req.Explain), nil
}

func (s *importService) PreviewPDF(ctx context.Context, questions, answers []byte, convention string, explain bool) (*dto.ImportPreviewResponse, error) {
	text, err := extract.PDFText(questions)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	conv, drafts, err := s.parseText(text, convention)
	if err != nil {
		return nil, err
	}

	var answerText string
	if len(answers) > 0 {
		answerText, err = extract.PDFText(answers)
		if err != nil {
			return nil, fmt.Errorf("%w: answer sheet: %v", ErrInvalidInput, err)
		}
	}
	return s.finishPreview(ctx, conv.String(), drafts, answerText, explain), nil
}

func (s *importService) PreviewSpreadsheet(ctx context.Context, r io.Reader, explain bool) (*dto.ImportPreviewResponse, error) {
	drafts, err := extract.SpreadsheetDrafts(r)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	if len(drafts) == 0 {
		return nil, ErrNoQuestionsParsed
	}
	return s.finishPreview(ctx, "spreadsheet", drafts, "", explain), nil
}

func draftInputs(drafts []parser.Draft) []dto.DraftInput {
	inputs := make([]dto.DraftInput, 0, len(drafts))
	for _, d := range drafts {
		inputs = append(inputs, dto.DraftInput{
			Content:     d.Content,
			Type:        string(d.Type),
			Options:     d.Options,
			Answer:      d.Answer,
			Explanation: d.Explanation,
			Passage:     d.Passage,
		})
	}
	return inputs
}

func validateDrafts(drafts []dto.DraftInput) error {
	for i, d := range drafts {
		if err := validate.Struct(d); err != nil {
			return fmt.Errorf("%w: draft %d: %v", ErrInvalidInput, i+1, err)
		}
		if (d.Type == model.QuestionTypeChoice) != (len(d.Options) > 0) {
			return fmt.Errorf("%w: draft %d: CHOICE questions and only CHOICE questions carry options", ErrInvalidInput, i+1)
		}
	}
	return nil
}

// Commit creates a paper and all of its questions in one transaction.
func (s *importService) Commit(ctx context.Context, req dto.ImportCommitRequest) (*dto.ImportCommitResponse, error) {
	drafts := req.Drafts
	if len(drafts) == 0 && strings.TrimSpace(req.Text) != "" {
		_, parsed, err := s.parseText(req.Text, req.Convention)
		if err != nil {
			return nil, err
		}
		drafts = draftInputs(parsed)
	}
	if len(drafts) == 0 {
		return nil, ErrNoQuestionsParsed
	}
	if err := validateDrafts(drafts); err != nil {
		return nil, err
	}

	paperType := req.Paper.PaperType
	if paperType == "" {
		paperType = "imported"
	}
	paper := model.ExamPaper{
		Title:       strings.TrimSpace(req.Paper.Title),
		Year:        req.Paper.Year,
		Subject:     req.Paper.Subject,
		PaperType:   paperType,
		Description: req.Paper.Description,
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.paperRepo.WithTx(tx).Create(&paper); err != nil {
			return fmt.Errorf("failed to create paper: %w", err)
		}
		tags := s.tagRepo.WithTx(tx)
		questions := s.questionRepo.WithTx(tx)
		for i, d := range drafts {
			names := append(append([]string{}, req.Tags...), d.Tags...)
			if len(names) == 0 {
				names = []string{DefaultImportTag}
			}
			connected, err := connectTags(tags, names)
			if err != nil {
				return err
			}

			difficulty := d.Difficulty
			if difficulty == 0 {
				difficulty = 1
			}
			q := model.Question{
				PaperID:      &paper.ID,
				OrderInPaper: i + 1,
				Content:      strings.TrimSpace(d.Content),
				Type:         d.Type,
				Answer:       strings.TrimSpace(d.Answer),
				Explanation:  d.Explanation,
				Passage:      d.Passage,
				Difficulty:   difficulty,
				Tags:         connected,
			}
			q.SetOptions(d.Options)
			if err := questions.Create(&q); err != nil {
				return fmt.Errorf("failed to create question %d: %w", i+1, err)
			}
		}
		return nil
	})
	if err != nil {
		log.Error().Err(err).Str("title", paper.Title).Msg("Import commit failed")
		return nil, err
	}

	log.Info().Uint("paperID", paper.ID).Int("questions", len(drafts)).Msg("Import committed")
	return &dto.ImportCommitResponse{PaperID: paper.ID, QuestionCount: len(drafts)}, nil
}
