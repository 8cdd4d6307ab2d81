package service

import (
	"testing"

	"github.com/lshigami/examprep/internal/dto"
	"github.com/lshigami/examprep/internal/model"
	"github.com/lshigami/examprep/internal/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newExamFixture(t *testing.T) (*gorm.DB, *examRecordService, *model.ExamPaper) {
	t.Helper()
	db := newTestDB(t)
	paper := &model.ExamPaper{Title: "Mock A", PaperType: "mock"}
	require.NoError(t, db.Create(paper).Error)

	questions := []*model.Question{
		{Content: "Pick A", Type: model.QuestionTypeChoice, Answer: "A", OrderInPaper: 1},
		{Content: "6*7", Type: model.QuestionTypeFill, Answer: "42", OrderInPaper: 2},
		{Content: "Write an essay", Type: model.QuestionTypeFill, OrderInPaper: 3},
	}
	questions[0].SetOptions([]string{"A. yes", "B. no"})
	for _, q := range questions {
		q.PaperID = &paper.ID
		require.NoError(t, db.Create(q).Error)
	}
	require.NoError(t, db.Preload("Questions", func(db *gorm.DB) *gorm.DB { return db.Order("order_in_paper") }).First(paper, paper.ID).Error)

	svc := NewExamRecordService(
		repository.NewPaperRepository(db),
		repository.NewExamRecordRepository(db),
		NewScoreConverterService(),
	).(*examRecordService)
	svc.now = fixedClock(testNow)
	return db, svc, paper
}

func TestSubmitExamGradesAndClearsProgress(t *testing.T) {
	db, svc, paper := newExamFixture(t)
	user := seedUser(t, db, "henry", 0)
	q1, q2, q3 := paper.Questions[0].ID, paper.Questions[1].ID, paper.Questions[2].ID

	require.NoError(t, svc.SaveProgress(user.ID, paper.ID, dto.ExamProgressDTO{CurrentAnswers: map[string]string{"1": "A"}, CurrentIndex: 1}))

	record, err := svc.SubmitExam(user.ID, paper.ID, dto.ExamSubmitDTO{
		Duration: 600,
		Answers: []dto.ExamAnswerSubmitDTO{
			{QuestionID: q1, UserAnswer: "a"},
			{QuestionID: q2, UserAnswer: "41"},
			{QuestionID: q3, UserAnswer: "Once upon a time"},
			{QuestionID: 9999, UserAnswer: "B"},
			{QuestionID: q1, UserAnswer: "B"},
		},
	})
	require.NoError(t, err)
	assert.Equal(t, "Mock A", record.PaperTitle)
	assert.Equal(t, 2, record.GradedCount)
	assert.Equal(t, 1, record.CorrectCount)
	assert.Equal(t, 50.0, record.Score)
	assert.Equal(t, 600, record.Duration)
	require.Len(t, record.Answers, 3)

	byQuestion := map[uint]dto.ExamAnswerResponseDTO{}
	for _, a := range record.Answers {
		byQuestion[a.QuestionID] = a
	}
	require.NotNil(t, byQuestion[q1].IsCorrect)
	assert.True(t, *byQuestion[q1].IsCorrect)
	require.NotNil(t, byQuestion[q2].IsCorrect)
	assert.False(t, *byQuestion[q2].IsCorrect)
	assert.Nil(t, byQuestion[q3].IsCorrect)
	assert.Equal(t, []string{"A. yes", "B. no"}, byQuestion[q1].Question.Options)

	var stored int64
	require.NoError(t, db.Model(&model.ExamAnswer{}).Where("exam_record_id = ?", record.ID).Count(&stored).Error)
	assert.EqualValues(t, 3, stored)

	progress, err := svc.GetProgress(user.ID, paper.ID)
	require.NoError(t, err)
	assert.Nil(t, progress)
}

func TestSubmitExamErrors(t *testing.T) {
	db, svc, paper := newExamFixture(t)
	user := seedUser(t, db, "iris", 0)

	_, err := svc.SubmitExam(user.ID, paper.ID+1, dto.ExamSubmitDTO{Answers: []dto.ExamAnswerSubmitDTO{{QuestionID: 1}}})
	assert.ErrorIs(t, err, ErrPaperNotFound)

	_, err = svc.SubmitExam(user.ID, paper.ID, dto.ExamSubmitDTO{Answers: []dto.ExamAnswerSubmitDTO{{QuestionID: 9999}}})
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = svc.SubmitExam(0, paper.ID, dto.ExamSubmitDTO{})
	assert.ErrorIs(t, err, ErrUnauthenticated)
}

func TestExamRecordsAreScopedToOwner(t *testing.T) {
	db, svc, paper := newExamFixture(t)
	owner := seedUser(t, db, "jack", 0)
	other := seedUser(t, db, "kate", 0)

	record, err := svc.SubmitExam(owner.ID, paper.ID, dto.ExamSubmitDTO{
		Answers: []dto.ExamAnswerSubmitDTO{{QuestionID: paper.Questions[0].ID, UserAnswer: "A"}},
	})
	require.NoError(t, err)
	assert.Equal(t, 100.0, record.Score)

	_, err = svc.GetRecordDetails(other.ID, record.ID)
	assert.ErrorIs(t, err, ErrRecordNotFound)

	mine, err := svc.ListRecords(owner.ID, &paper.ID)
	require.NoError(t, err)
	require.Len(t, mine, 1)
	assert.Equal(t, "Mock A", mine[0].PaperTitle)

	theirs, err := svc.ListRecords(other.ID, nil)
	require.NoError(t, err)
	assert.Empty(t, theirs)
}

func TestExamProgressRoundTrip(t *testing.T) {
	db, svc, paper := newExamFixture(t)
	user := seedUser(t, db, "liam", 0)

	progress, err := svc.GetProgress(user.ID, paper.ID)
	require.NoError(t, err)
	assert.Nil(t, progress)

	require.NoError(t, svc.SaveProgress(user.ID, paper.ID, dto.ExamProgressDTO{
		CurrentAnswers: map[string]string{"7": "B"}, CurrentIndex: 2, ElapsedSeconds: 90,
	}))
	require.NoError(t, svc.SaveProgress(user.ID, paper.ID, dto.ExamProgressDTO{
		CurrentAnswers: map[string]string{"7": "C", "8": "x"}, CurrentIndex: 3, ElapsedSeconds: 120,
	}))

	progress, err = svc.GetProgress(user.ID, paper.ID)
	require.NoError(t, err)
	require.NotNil(t, progress)
	assert.Equal(t, map[string]string{"7": "C", "8": "x"}, progress.CurrentAnswers)
	assert.Equal(t, 3, progress.CurrentIndex)
	assert.Equal(t, 120, progress.ElapsedSeconds)

	var rows int64
	require.NoError(t, db.Model(&model.ExamProgress{}).Count(&rows).Error)
	assert.EqualValues(t, 1, rows)

	require.NoError(t, svc.ClearProgress(user.ID, paper.ID))
	progress, err = svc.GetProgress(user.ID, paper.ID)
	require.NoError(t, err)
	assert.Nil(t, progress)

	assert.ErrorIs(t, svc.SaveProgress(user.ID, paper.ID+5, dto.ExamProgressDTO{}), ErrPaperNotFound)
}
