package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/lshigami/examprep/config"
	"github.com/lshigami/examprep/internal/dto"
	"github.com/lshigami/examprep/internal/model"
	"github.com/lshigami/examprep/internal/repository"
	"github.com/lshigami/examprep/internal/srs"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

const maxTxAttempts = 3

const (
	EventXPGained = "xp_gained"
	EventLevelUp  = "level_up"
)

// ProgressNotifier receives events after a progress transaction commits.
type ProgressNotifier interface {
	NotifyUser(userID uint, event string, payload interface{})
}

type AnswerInput struct {
	UserID     uint
	QuestionID uint
	// IsCorrect overrides server-side grading when set.
	IsCorrect  *bool
	UserAnswer string
	Duration   int
}

type ProgressService interface {
	RecordAnswer(ctx context.Context, in AnswerInput) (*dto.AnswerResultDTO, error)
}

type progressService struct {
	db           *gorm.DB
	userRepo     repository.UserRepository
	questionRepo repository.QuestionRepository
	progressRepo repository.ProgressRepository
	recordRepo   repository.StudyRecordRepository
	policy       srs.Policy
	notifier     ProgressNotifier
	now          func() time.Time
}

func NewProgressService(
	db *gorm.DB,
	userRepo repository.UserRepository,
	questionRepo repository.QuestionRepository,
	progressRepo repository.ProgressRepository,
	recordRepo repository.StudyRecordRepository,
	policy srs.Policy,
	notifier ProgressNotifier,
) ProgressService {
	return &progressService{
		db:           db,
		userRepo:     userRepo,
		questionRepo: questionRepo,
		progressRepo: progressRepo,
		recordRepo:   recordRepo,
		policy:       policy,
		notifier:     notifier,
		now:          time.Now,
	}
}

// PolicyFromConfig builds the spaced-repetition policy, keeping defaults for unset values.
func PolicyFromConfig(cfg *config.Config) srs.Policy {
	p := srs.DefaultPolicy()
	if cfg.SRS.Multiplier > 0 {
		p.Multiplier = cfg.SRS.Multiplier
	}
	if cfg.SRS.MaxIntervalDays > 0 {
		p.MaxIntervalDays = cfg.SRS.MaxIntervalDays
	}
	if cfg.SRS.BaseXP > 0 {
		p.BaseXP = cfg.SRS.BaseXP
	}
	if cfg.SRS.StreakBonus >= 0 {
		p.StreakBonus = cfg.SRS.StreakBonus
	}
	if cfg.SRS.XPPerLevel > 0 {
		p.XPPerLevel = cfg.SRS.XPPerLevel
	}
	return p
}

// RecordAnswer logs the answer, advances the question's review schedule and credits XP in a
// single transaction. The user row and the progress row are locked for the duration, so two
// answers for the same user serialize.
func (s *progressService) RecordAnswer(ctx context.Context, in AnswerInput) (*dto.AnswerResultDTO, error) {
	if in.UserID == 0 {
		return nil, ErrUnauthenticated
	}

	var (
		result *dto.AnswerResultDTO
		err    error
	)
	for attempt := 1; attempt <= maxTxAttempts; attempt++ {
		result, err = s.recordOnce(ctx, in)
		if err == nil || !isRetryable(err) {
			break
		}
		log.Warn().Err(err).Int("attempt", attempt).Uint("userID", in.UserID).Uint("questionID", in.QuestionID).
			Msg("RecordAnswer: transaction conflict, retrying")
	}
	if err != nil {
		if isRetryable(err) {
			return nil, fmt.Errorf("%w: %v", ErrConflict, err)
		}
		return nil, err
	}

	s.notify(in.UserID, result)
	return result, nil
}

func (s *progressService) recordOnce(ctx context.Context, in AnswerInput) (*dto.AnswerResultDTO, error) {
	now := s.now()
	var res dto.AnswerResultDTO

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		user, err := s.userRepo.WithTx(tx).LockByID(in.UserID)
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrUserNotFound
		}
		if err != nil {
			return fmt.Errorf("failed to lock user %d: %w", in.UserID, err)
		}

		question, err := s.questionRepo.WithTx(tx).FindByID(in.QuestionID)
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrQuestionNotFound
		}
		if err != nil {
			return fmt.Errorf("failed to load question %d: %w", in.QuestionID, err)
		}

		correct := false
		if in.IsCorrect != nil {
			correct = *in.IsCorrect
		} else if graded := gradeAnswer(question, in.UserAnswer); graded != nil {
			correct = *graded
		}

		record := model.StudyRecord{
			UserID:     user.ID,
			QuestionID: question.ID,
			UserAnswer: in.UserAnswer,
			IsCorrect:  correct,
			Duration:   in.Duration,
			CreatedAt:  now,
		}
		if err := s.recordRepo.WithTx(tx).Create(&record); err != nil {
			return fmt.Errorf("failed to append study record: %w", err)
		}

		progressRepo := s.progressRepo.WithTx(tx)
		progress, err := progressRepo.LockForUpdate(user.ID, question.ID)
		if err != nil {
			return fmt.Errorf("failed to lock progress: %w", err)
		}
		var prev *srs.State
		if progress != nil {
			prev = &srs.State{Streak: progress.Streak, Interval: progress.Interval}
		} else {
			progress = &model.QuestionProgress{UserID: user.ID, QuestionID: question.ID}
		}
		next := s.policy.Next(prev, correct)
		progress.Streak = next.Streak
		progress.Interval = next.Interval
		progress.NextReviewDate = s.policy.NextReview(now, next.Interval)
		progress.LastAnsweredAt = now
		if err := progressRepo.Save(progress); err != nil {
			return fmt.Errorf("failed to save progress: %w", err)
		}

		res = dto.AnswerResultDTO{
			IsCorrect:      correct,
			CurrentXP:      user.XP,
			Level:          user.Level,
			Streak:         next.Streak,
			Interval:       next.Interval,
			NextReviewDate: progress.NextReviewDate,
			CorrectAnswer:  question.Answer,
			Explanation:    question.Explanation,
		}

		gained := s.policy.XPFor(next.Streak, correct)
		if gained == 0 {
			return nil
		}
		newXP := user.XP + gained
		newLevel := s.policy.LevelFor(newXP)
		if newLevel < user.Level {
			newLevel = user.Level
		}
		if err := s.userRepo.WithTx(tx).UpdateProgress(user.ID, newXP, newLevel); err != nil {
			return fmt.Errorf("failed to update user xp: %w", err)
		}
		res.XPGained = gained
		res.CurrentXP = newXP
		res.Level = newLevel
		if newLevel > user.Level {
			res.LeveledUp = true
			res.NewLevel = &newLevel
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &res, nil
}

func (s *progressService) notify(userID uint, res *dto.AnswerResultDTO) {
	if s.notifier == nil || res.XPGained == 0 {
		return
	}
	s.notifier.NotifyUser(userID, EventXPGained, map[string]int{
		"xp_gained":  res.XPGained,
		"current_xp": res.CurrentXP,
		"level":      res.Level,
	})
	if res.LeveledUp {
		s.notifier.NotifyUser(userID, EventLevelUp, map[string]int{"new_level": res.Level})
	}
}
