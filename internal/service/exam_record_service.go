package service

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jinzhu/copier"
	"github.com/lshigami/examprep/internal/dto"
	"github.com/lshigami/examprep/internal/model"
	"github.com/lshigami/examprep/internal/repository"
	"github.com/rs/zerolog/log"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type ExamRecordService interface {
	SubmitExam(userID, paperID uint, req dto.ExamSubmitDTO) (*dto.ExamRecordDetailDTO, error)
	GetRecordDetails(userID, recordID uint) (*dto.ExamRecordDetailDTO, error)
	ListRecords(userID uint, paperID *uint) ([]dto.ExamRecordSummaryDTO, error)

	SaveProgress(userID, paperID uint, req dto.ExamProgressDTO) error
	GetProgress(userID, paperID uint) (*dto.ExamProgressDTO, error)
	ClearProgress(userID, paperID uint) error
}

type examRecordService struct {
	paperRepo      repository.PaperRepository
	recordRepo     repository.ExamRecordRepository
	scoreConverter ScoreConverterService
	now            func() time.Time
}

func NewExamRecordService(
	paperRepo repository.PaperRepository,
	recordRepo repository.ExamRecordRepository,
	scoreConverter ScoreConverterService,
) ExamRecordService {
	return &examRecordService{
		paperRepo:      paperRepo,
		recordRepo:     recordRepo,
		scoreConverter: scoreConverter,
		now:            time.Now,
	}
}

// SubmitExam grades a full paper against the stored answers. Answers for questions outside
// the paper are ignored; questions without a stored answer are kept but not graded.
func (s *examRecordService) SubmitExam(userID, paperID uint, req dto.ExamSubmitDTO) (*dto.ExamRecordDetailDTO, error) {
	if userID == 0 {
		return nil, ErrUnauthenticated
	}
	paper, err := s.paperRepo.FindByIDWithQuestions(paperID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrPaperNotFound
	}
	if err != nil {
		log.Error().Err(err).Uint("paperID", paperID).Msg("SubmitExam: failed to load paper")
		return nil, fmt.Errorf("failed to load paper %d: %w", paperID, err)
	}
	questionMap := make(map[uint]model.Question, len(paper.Questions))
	for _, q := range paper.Questions {
		questionMap[q.ID] = q
	}

	record := model.ExamRecord{
		UserID:      userID,
		PaperID:     paperID,
		Duration:    req.Duration,
		SubmittedAt: s.now(),
	}
	seen := map[uint]bool{}
	for _, a := range req.Answers {
		question, ok := questionMap[a.QuestionID]
		if !ok || seen[a.QuestionID] {
			log.Warn().Uint("questionID", a.QuestionID).Uint("paperID", paperID).Msg("SubmitExam: answer skipped")
			continue
		}
		seen[a.QuestionID] = true
		graded := gradeAnswer(&question, a.UserAnswer)
		if graded != nil {
			record.GradedCount++
			if *graded {
				record.CorrectCount++
			}
		}
		record.Answers = append(record.Answers, model.ExamAnswer{
			QuestionID: question.ID,
			UserAnswer: a.UserAnswer,
			IsCorrect:  graded,
		})
	}
	if len(record.Answers) == 0 {
		return nil, fmt.Errorf("%w: no valid answers provided for paper %d", ErrInvalidInput, paperID)
	}

	record.Score, err = s.scoreConverter.ToPercent(record.CorrectCount, record.GradedCount)
	if err != nil {
		return nil, err
	}
	if err := s.recordRepo.Create(&record); err != nil {
		log.Error().Err(err).Uint("userID", userID).Uint("paperID", paperID).Msg("SubmitExam: failed to save record")
		return nil, fmt.Errorf("failed to save exam record: %w", err)
	}
	log.Info().Uint("recordID", record.ID).Float64("score", record.Score).Msg("Exam submitted")
	return s.GetRecordDetails(userID, record.ID)
}

func (s *examRecordService) GetRecordDetails(userID, recordID uint) (*dto.ExamRecordDetailDTO, error) {
	record, err := s.recordRepo.FindByIDWithDetails(recordID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrRecordNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load exam record %d: %w", recordID, err)
	}
	if record.UserID != userID {
		return nil, ErrRecordNotFound
	}

	// Answers hold nested questions with JSON options, so the record is mapped by hand.
	resp := dto.ExamRecordDetailDTO{
		ID:           record.ID,
		PaperID:      record.PaperID,
		PaperTitle:   record.Paper.Title,
		Score:        record.Score,
		CorrectCount: record.CorrectCount,
		GradedCount:  record.GradedCount,
		Duration:     record.Duration,
		SubmittedAt:  record.SubmittedAt,
		Answers:      make([]dto.ExamAnswerResponseDTO, 0, len(record.Answers)),
	}
	for i := range record.Answers {
		a := &record.Answers[i]
		resp.Answers = append(resp.Answers, dto.ExamAnswerResponseDTO{
			ID:         a.ID,
			QuestionID: a.QuestionID,
			Question:   toQuestionDTO(&a.Question, true),
			UserAnswer: a.UserAnswer,
			IsCorrect:  a.IsCorrect,
		})
	}
	return &resp, nil
}

func (s *examRecordService) ListRecords(userID uint, paperID *uint) ([]dto.ExamRecordSummaryDTO, error) {
	records, err := s.recordRepo.FindAllByUser(userID, paperID)
	if err != nil {
		log.Error().Err(err).Uint("userID", userID).Msg("ListRecords: repository error")
		return nil, fmt.Errorf("error fetching exam records: %w", err)
	}
	out := make([]dto.ExamRecordSummaryDTO, 0, len(records))
	for _, r := range records {
		var summary dto.ExamRecordSummaryDTO
		copier.Copy(&summary, &r)
		summary.PaperTitle = r.Paper.Title
		out = append(out, summary)
	}
	return out, nil
}

func (s *examRecordService) SaveProgress(userID, paperID uint, req dto.ExamProgressDTO) error {
	if _, err := s.paperRepo.FindByID(paperID); errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrPaperNotFound
	} else if err != nil {
		return err
	}
	answers := req.CurrentAnswers
	if answers == nil {
		answers = map[string]string{}
	}
	raw, err := json.Marshal(answers)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	return s.recordRepo.SaveProgress(&model.ExamProgress{
		UserID:         userID,
		PaperID:        paperID,
		CurrentAnswers: datatypes.JSON(raw),
		CurrentIndex:   req.CurrentIndex,
		ElapsedSeconds: req.ElapsedSeconds,
		UpdatedAt:      s.now(),
	})
}

// GetProgress returns nil without error when nothing was saved.
func (s *examRecordService) GetProgress(userID, paperID uint) (*dto.ExamProgressDTO, error) {
	progress, err := s.recordRepo.FindProgress(userID, paperID)
	if err != nil || progress == nil {
		return nil, err
	}
	resp := &dto.ExamProgressDTO{
		PaperID:        progress.PaperID,
		CurrentAnswers: map[string]string{},
		CurrentIndex:   progress.CurrentIndex,
		ElapsedSeconds: progress.ElapsedSeconds,
		UpdatedAt:      progress.UpdatedAt,
	}
	if len(progress.CurrentAnswers) > 0 {
		if err := json.Unmarshal(progress.CurrentAnswers, &resp.CurrentAnswers); err != nil {
			return nil, fmt.Errorf("corrupt exam progress: %w", err)
		}
	}
	return resp, nil
}

func (s *examRecordService) ClearProgress(userID, paperID uint) error {
	return s.recordRepo.DeleteProgress(userID, paperID)
}
