package service

import (
	"context"
	"testing"

	"github.com/lshigami/examprep/internal/dto"
	"github.com/lshigami/examprep/internal/model"
	"github.com/lshigami/examprep/internal/parser"
	"github.com/lshigami/examprep/internal/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type stubExplainer struct {
	calls int
}

func (s *stubExplainer) Suggest(_ context.Context, d parser.Draft) (*Suggestion, error) {
	return &Suggestion{Explanation: "stub: " + d.Content}, nil
}

func (s *stubExplainer) FillMissing(_ context.Context, drafts []parser.Draft) int {
	s.calls++
	filled := 0
	for i := range drafts {
		if drafts[i].Explanation == "" {
			drafts[i].Explanation = "stub"
			filled++
		}
	}
	return filled
}

func newImportServiceForTest(t *testing.T) (*gorm.DB, ImportService, *stubExplainer) {
	t.Helper()
	db := newTestDB(t)
	explainer := &stubExplainer{}
	svc := NewImportService(
		db,
		repository.NewPaperRepository(db),
		repository.NewQuestionRepository(db),
		repository.NewTagRepository(db),
		explainer,
	)
	return db, svc, explainer
}

const numberedDoc = "1. 第一题\nA. x\nB. y\n2. 第二题\n"

func TestPreviewTextDetectsConventionAndAppliesAnswers(t *testing.T) {
	_, svc, explainer := newImportServiceForTest(t)

	resp, err := svc.PreviewText(context.Background(), dto.ImportPreviewRequest{
		Text:       numberedDoc,
		AnswerText: "1. B\n2. C\n",
	})
	require.NoError(t, err)
	assert.Equal(t, "numbered", resp.Convention)
	assert.Equal(t, 2, resp.Count)
	assert.Equal(t, 2, resp.Matched)
	assert.Equal(t, "B", resp.Drafts[0].Answer)
	assert.Equal(t, parser.TypeChoice, resp.Drafts[0].Type)
	assert.Equal(t, parser.TypeFill, resp.Drafts[1].Type)
	assert.Zero(t, explainer.calls)
}

func TestPreviewTextExplain(t *testing.T) {
	_, svc, explainer := newImportServiceForTest(t)

	resp, err := svc.PreviewText(context.Background(), dto.ImportPreviewRequest{Text: numberedDoc, Explain: true})
	require.NoError(t, err)
	assert.Equal(t, 1, explainer.calls)
	for _, d := range resp.Drafts {
		assert.Equal(t, "stub", d.Explanation)
	}
}

func TestPreviewTextErrors(t *testing.T) {
	_, svc, _ := newImportServiceForTest(t)

	_, err := svc.PreviewText(context.Background(), dto.ImportPreviewRequest{Text: "nothing here"})
	assert.ErrorIs(t, err, ErrNoQuestionsParsed)

	_, err = svc.PreviewText(context.Background(), dto.ImportPreviewRequest{Text: numberedDoc, Convention: "xml"})
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestCommitCreatesPaperQuestionsAndTags(t *testing.T) {
	db, svc, _ := newImportServiceForTest(t)

	resp, err := svc.Commit(context.Background(), dto.ImportCommitRequest{
		Paper: dto.PaperCreateDTO{Title: "  Mock 1  ", Subject: "math"},
		Tags:  []string{"calculus"},
		Drafts: []dto.DraftInput{
			{Content: "Pick one", Type: model.QuestionTypeChoice, Options: []string{"A. 1", "B. 2"}, Answer: "B"},
			{Content: "Fill in", Type: model.QuestionTypeFill, Answer: "42", Difficulty: 3, Tags: []string{"limits"}},
		},
	})
	require.NoError(t, err)
	assert.Equal(t, 2, resp.QuestionCount)

	var paper model.ExamPaper
	require.NoError(t, db.Preload("Questions", func(db *gorm.DB) *gorm.DB { return db.Order("order_in_paper") }).
		Preload("Questions.Tags").First(&paper, resp.PaperID).Error)
	assert.Equal(t, "Mock 1", paper.Title)
	assert.Equal(t, "imported", paper.PaperType)
	require.Len(t, paper.Questions, 2)

	first, second := paper.Questions[0], paper.Questions[1]
	assert.Equal(t, 1, first.OrderInPaper)
	assert.Equal(t, []string{"A. 1", "B. 2"}, first.OptionList())
	assert.Equal(t, 1, first.Difficulty)
	require.Len(t, first.Tags, 1)
	assert.Equal(t, "calculus", first.Tags[0].Name)

	assert.Equal(t, 3, second.Difficulty)
	assert.Empty(t, second.OptionList())
	assert.Len(t, second.Tags, 2)

	var tagCount int64
	require.NoError(t, db.Model(&model.Tag{}).Count(&tagCount).Error)
	assert.EqualValues(t, 2, tagCount, "shared tags are created once")
}

func TestCommitFromTextUsesDefaultTag(t *testing.T) {
	db, svc, _ := newImportServiceForTest(t)

	resp, err := svc.Commit(context.Background(), dto.ImportCommitRequest{
		Paper: dto.PaperCreateDTO{Title: "Pasted"},
		Text:  numberedDoc,
	})
	require.NoError(t, err)
	assert.Equal(t, 2, resp.QuestionCount)

	var tag model.Tag
	require.NoError(t, db.Where("name = ?", DefaultImportTag).First(&tag).Error)
	var links int64
	require.NoError(t, db.Table("question_tags").Where("tag_id = ?", tag.ID).Count(&links).Error)
	assert.EqualValues(t, 2, links)
}

func TestCommitRejectsInvalidDraftsAtomically(t *testing.T) {
	db, svc, _ := newImportServiceForTest(t)

	_, err := svc.Commit(context.Background(), dto.ImportCommitRequest{
		Paper: dto.PaperCreateDTO{Title: "Broken"},
		Drafts: []dto.DraftInput{
			{Content: "ok", Type: model.QuestionTypeFill},
			{Content: "fill with options", Type: model.QuestionTypeFill, Options: []string{"A. x"}},
		},
	})
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = svc.Commit(context.Background(), dto.ImportCommitRequest{
		Paper:  dto.PaperCreateDTO{Title: "Broken"},
		Drafts: []dto.DraftInput{{Content: "x", Type: "ESSAY"}},
	})
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = svc.Commit(context.Background(), dto.ImportCommitRequest{Paper: dto.PaperCreateDTO{Title: "Empty"}})
	assert.ErrorIs(t, err, ErrNoQuestionsParsed)

	var papers int64
	require.NoError(t, db.Model(&model.ExamPaper{}).Count(&papers).Error)
	assert.Zero(t, papers)
}
