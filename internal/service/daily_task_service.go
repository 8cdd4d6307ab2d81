package service

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/lshigami/examprep/internal/dto"
	"github.com/lshigami/examprep/internal/model"
	"github.com/lshigami/examprep/internal/repository"
	"github.com/rs/zerolog/log"
	"gorm.io/datatypes"
)

const DailyTaskSize = 3

type DailyTaskService interface {
	// Today returns the user's task for the current UTC day, generating it on first access.
	Today(userID uint) (*dto.DailyTaskDTO, error)
	Complete(userID uint) error
	// GenerateForActiveUsers creates today's task for everyone who answered within activeDays.
	GenerateForActiveUsers(activeDays int) (int, error)
}

type dailyTaskService struct {
	taskRepo     repository.DailyTaskRepository
	questionRepo repository.QuestionRepository
	progressRepo repository.ProgressRepository
	recordRepo   repository.StudyRecordRepository
	now          func() time.Time
}

func NewDailyTaskService(
	taskRepo repository.DailyTaskRepository,
	questionRepo repository.QuestionRepository,
	progressRepo repository.ProgressRepository,
	recordRepo repository.StudyRecordRepository,
) DailyTaskService {
	return &dailyTaskService{
		taskRepo:     taskRepo,
		questionRepo: questionRepo,
		progressRepo: progressRepo,
		recordRepo:   recordRepo,
		now:          time.Now,
	}
}

func (s *dailyTaskService) day() string {
	return s.now().UTC().Format("2006-01-02")
}

// ensure returns the existing task or creates one: due reviews first, then random questions.
func (s *dailyTaskService) ensure(userID uint, day string) (*model.DailyTask, error) {
	task, err := s.taskRepo.FindByUserDay(userID, day)
	if err != nil || task != nil {
		return task, err
	}

	ids, err := s.progressRepo.DueQuestionIDs(userID, s.now(), DailyTaskSize)
	if err != nil {
		return nil, fmt.Errorf("failed to pick due questions: %w", err)
	}
	if missing := DailyTaskSize - len(ids); missing > 0 {
		extra, err := s.questionRepo.RandomIDs(missing, ids)
		if err != nil {
			return nil, fmt.Errorf("failed to pick questions: %w", err)
		}
		ids = append(ids, extra...)
	}
	if ids == nil {
		ids = []uint{}
	}

	raw, err := json.Marshal(ids)
	if err != nil {
		return nil, fmt.Errorf("failed to encode daily task questions: %w", err)
	}
	task = &model.DailyTask{UserID: userID, Day: day, QuestionIDs: datatypes.JSON(raw)}
	if err := s.taskRepo.CreateIfAbsent(task); err != nil {
		return nil, fmt.Errorf("failed to save daily task: %w", err)
	}
	// a concurrent request may have won the insert
	return s.taskRepo.FindByUserDay(userID, day)
}

func (s *dailyTaskService) Today(userID uint) (*dto.DailyTaskDTO, error) {
	day := s.day()
	task, err := s.ensure(userID, day)
	if err != nil {
		return nil, err
	}

	var ids []uint
	if len(task.QuestionIDs) > 0 {
		if err := json.Unmarshal(task.QuestionIDs, &ids); err != nil {
			return nil, fmt.Errorf("corrupt daily task %d: %w", task.ID, err)
		}
	}
	questions, err := s.questionRepo.FindByIDs(ids)
	if err != nil {
		return nil, err
	}
	byID := make(map[uint]model.Question, len(questions))
	for _, q := range questions {
		byID[q.ID] = q
	}

	resp := &dto.DailyTaskDTO{Day: day, Completed: task.Completed, Questions: []dto.QuestionResponseDTO{}}
	for _, id := range ids {
		if q, ok := byID[id]; ok {
			resp.Questions = append(resp.Questions, toQuestionDTO(&q, false))
		}
	}
	return resp, nil
}

func (s *dailyTaskService) Complete(userID uint) error {
	return s.taskRepo.MarkCompleted(userID, s.day())
}

func (s *dailyTaskService) GenerateForActiveUsers(activeDays int) (int, error) {
	if activeDays <= 0 {
		activeDays = 7
	}
	day := s.day()
	users, err := s.recordRepo.ActiveUserIDs(s.now().AddDate(0, 0, -activeDays))
	if err != nil {
		return 0, fmt.Errorf("failed to list active users: %w", err)
	}
	generated := 0
	for _, userID := range users {
		if _, err := s.ensure(userID, day); err != nil {
			log.Error().Err(err).Uint("userID", userID).Msg("Daily task generation failed")
			continue
		}
		generated++
	}
	return generated, nil
}
