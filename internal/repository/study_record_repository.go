package repository

import (
	"time"

	"github.com/lshigami/examprep/internal/model"
	"gorm.io/gorm"
)

type AnswerCounts struct {
	Total   int64
	Correct int64
}

type StudyRecordRepository interface {
	WithTx(tx *gorm.DB) StudyRecordRepository
	Create(record *model.StudyRecord) error
	FindByUser(userID uint, limit, offset int) ([]model.StudyRecord, error)
	// LatestMistakes returns the most recent wrong answer per question, newest first.
	LatestMistakes(userID uint, since *time.Time, questionType string) ([]model.StudyRecord, error)
	Counts(userID uint, since *time.Time) (AnswerCounts, error)
	ActiveUserIDs(since time.Time) ([]uint, error)
}

type studyRecordRepository struct {
	db *gorm.DB
}

func NewStudyRecordRepository(db *gorm.DB) StudyRecordRepository {
	return &studyRecordRepository{db: db}
}

func (r *studyRecordRepository) WithTx(tx *gorm.DB) StudyRecordRepository {
	return &studyRecordRepository{db: tx}
}

func (r *studyRecordRepository) Create(record *model.StudyRecord) error {
	return r.db.Omit("Question").Create(record).Error
}

func (r *studyRecordRepository) FindByUser(userID uint, limit, offset int) ([]model.StudyRecord, error) {
	var records []model.StudyRecord
	query := r.db.Preload("Question").Where("user_id = ?", userID).Order("created_at desc, id desc")
	if limit > 0 {
		query = query.Limit(limit).Offset(offset)
	}
	err := query.Find(&records).Error
	return records, err
}

func (r *studyRecordRepository) LatestMistakes(userID uint, since *time.Time, questionType string) ([]model.StudyRecord, error) {
	latest := r.db.Model(&model.StudyRecord{}).
		Select("MAX(id)").
		Where("user_id = ? AND is_correct = ?", userID, false)
	if since != nil {
		latest = latest.Where("created_at >= ?", *since)
	}
	latest = latest.Group("question_id")

	query := r.db.Model(&model.StudyRecord{}).Preload("Question").Preload("Question.Tags").
		Where("study_records.id IN (?)", latest)
	if questionType != "" {
		query = query.Joins("JOIN questions ON questions.id = study_records.question_id").
			Where("questions.type = ?", questionType)
	}

	var records []model.StudyRecord
	err := query.Order("study_records.created_at desc, study_records.id desc").Find(&records).Error
	return records, err
}

func (r *studyRecordRepository) Counts(userID uint, since *time.Time) (AnswerCounts, error) {
	var counts AnswerCounts
	query := r.db.Model(&model.StudyRecord{}).
		Select("COUNT(*) as total, COALESCE(SUM(CASE WHEN is_correct THEN 1 ELSE 0 END), 0) as correct").
		Where("user_id = ?", userID)
	if since != nil {
		query = query.Where("created_at >= ?", *since)
	}
	err := query.Scan(&counts).Error
	return counts, err
}

func (r *studyRecordRepository) ActiveUserIDs(since time.Time) ([]uint, error) {
	var ids []uint
	err := r.db.Model(&model.StudyRecord{}).
		Where("created_at >= ?", since).
		Distinct().
		Order("user_id").
		Pluck("user_id", &ids).Error
	return ids, err
}
