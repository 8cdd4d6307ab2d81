package service

import (
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/jinzhu/copier"
	"github.com/lshigami/examprep/internal/dto"
	"github.com/lshigami/examprep/internal/repository"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

// MasteredStreak is the streak at which a question counts as mastered.
const MasteredStreak = 3

type ReviewService interface {
	DueReviews(userID uint, limit int) (*dto.ReviewListDTO, error)
	Mistakes(userID uint, period, questionType string) ([]dto.MistakeDTO, error)
	Dashboard(userID uint) (*dto.DashboardStatsDTO, error)
	History(userID uint, limit, offset int) ([]dto.StudyRecordDTO, error)
}

type reviewService struct {
	userRepo     repository.UserRepository
	progressRepo repository.ProgressRepository
	recordRepo   repository.StudyRecordRepository
	now          func() time.Time
}

func NewReviewService(
	userRepo repository.UserRepository,
	progressRepo repository.ProgressRepository,
	recordRepo repository.StudyRecordRepository,
) ReviewService {
	return &reviewService{
		userRepo:     userRepo,
		progressRepo: progressRepo,
		recordRepo:   recordRepo,
		now:          time.Now,
	}
}

func (s *reviewService) DueReviews(userID uint, limit int) (*dto.ReviewListDTO, error) {
	now := s.now()
	items, err := s.progressRepo.FindDue(userID, now, limit)
	if err != nil {
		log.Error().Err(err).Uint("userID", userID).Msg("DueReviews: repository error")
		return nil, fmt.Errorf("error fetching due reviews: %w", err)
	}
	counts, err := s.progressRepo.Counts(userID, now, MasteredStreak)
	if err != nil {
		return nil, fmt.Errorf("error counting reviews: %w", err)
	}

	resp := &dto.ReviewListDTO{
		Items: make([]dto.ReviewItemDTO, 0, len(items)),
		Stats: dto.ReviewStatsDTO{TotalLearned: counts.Total, DueCount: counts.Due, Mastered: counts.Mastered},
	}
	for i := range items {
		resp.Items = append(resp.Items, dto.ReviewItemDTO{
			Question:       toQuestionDTO(&items[i].Question, true),
			Streak:         items[i].Streak,
			Interval:       items[i].Interval,
			NextReviewDate: items[i].NextReviewDate,
		})
	}
	return resp, nil
}

// periodStart maps day, week, month and all ("" too) to the earliest timestamp included.
func periodStart(now time.Time, period string) (*time.Time, error) {
	var since time.Time
	switch period {
	case "", "all":
		return nil, nil
	case "day":
		since = now.AddDate(0, 0, -1)
	case "week":
		since = now.AddDate(0, 0, -7)
	case "month":
		since = now.AddDate(0, -1, 0)
	default:
		return nil, fmt.Errorf("%w: unknown period %q", ErrInvalidInput, period)
	}
	return &since, nil
}

func (s *reviewService) Mistakes(userID uint, period, questionType string) ([]dto.MistakeDTO, error) {
	since, err := periodStart(s.now(), period)
	if err != nil {
		return nil, err
	}
	records, err := s.recordRepo.LatestMistakes(userID, since, questionType)
	if err != nil {
		log.Error().Err(err).Uint("userID", userID).Msg("Mistakes: repository error")
		return nil, fmt.Errorf("error fetching mistakes: %w", err)
	}
	out := make([]dto.MistakeDTO, 0, len(records))
	for i := range records {
		out = append(out, dto.MistakeDTO{
			RecordID:   records[i].ID,
			Question:   toQuestionDTO(&records[i].Question, true),
			UserAnswer: records[i].UserAnswer,
			AnsweredAt: records[i].CreatedAt,
		})
	}
	return out, nil
}

func (s *reviewService) Dashboard(userID uint) (*dto.DashboardStatsDTO, error) {
	user, err := s.userRepo.FindByID(userID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, err
	}

	now := s.now().UTC()
	all, err := s.recordRepo.Counts(userID, nil)
	if err != nil {
		return nil, fmt.Errorf("error counting answers: %w", err)
	}
	startOfDay := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	today, err := s.recordRepo.Counts(userID, &startOfDay)
	if err != nil {
		return nil, fmt.Errorf("error counting today's answers: %w", err)
	}
	counts, err := s.progressRepo.Counts(userID, now, MasteredStreak)
	if err != nil {
		return nil, fmt.Errorf("error counting reviews: %w", err)
	}

	stats := &dto.DashboardStatsDTO{
		Level:        user.Level,
		XP:           user.XP,
		TotalAnswers: all.Total,
		TodayAnswers: today.Total,
		DueCount:     counts.Due,
		Mastered:     counts.Mastered,
	}
	if all.Total > 0 {
		stats.Accuracy = math.Round(float64(all.Correct)/float64(all.Total)*1000) / 10
	}

	weakest, err := s.progressRepo.WeakestTag(userID)
	if err != nil {
		log.Warn().Err(err).Uint("userID", userID).Msg("Dashboard: failed to compute weakest tag")
	} else if weakest != nil {
		stats.WeakestTag = &weakest.Name
		avg := math.Round(weakest.AvgStreak*100) / 100
		stats.WeakestAvg = &avg
	}
	return stats, nil
}

func (s *reviewService) History(userID uint, limit, offset int) ([]dto.StudyRecordDTO, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	records, err := s.recordRepo.FindByUser(userID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("error fetching history: %w", err)
	}
	out := make([]dto.StudyRecordDTO, 0, len(records))
	for _, r := range records {
		var item dto.StudyRecordDTO
		copier.Copy(&item, &r)
		out = append(out, item)
	}
	return out, nil
}
