package repository

import (
	"errors"
	"time"

	"github.com/lshigami/examprep/internal/model"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type ReviewCounts struct {
	Total    int64
	Due      int64
	Mastered int64
}

type TagStreak struct {
	Name      string
	AvgStreak float64
}

type ProgressRepository interface {
	WithTx(tx *gorm.DB) ProgressRepository
	// LockForUpdate returns nil without error when no progress row exists yet.
	LockForUpdate(userID, questionID uint) (*model.QuestionProgress, error)
	Save(progress *model.QuestionProgress) error
	FindDue(userID uint, now time.Time, limit int) ([]model.QuestionProgress, error)
	DueQuestionIDs(userID uint, now time.Time, limit int) ([]uint, error)
	Counts(userID uint, now time.Time, masteredStreak int) (ReviewCounts, error)
	WeakestTag(userID uint) (*TagStreak, error)
}

type progressRepository struct {
	db *gorm.DB
}

func NewProgressRepository(db *gorm.DB) ProgressRepository {
	return &progressRepository{db: db}
}

func (r *progressRepository) WithTx(tx *gorm.DB) ProgressRepository {
	return &progressRepository{db: tx}
}

func (r *progressRepository) LockForUpdate(userID, questionID uint) (*model.QuestionProgress, error) {
	var progress model.QuestionProgress
	err := r.db.Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("user_id = ? AND question_id = ?", userID, questionID).
		First(&progress).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &progress, nil
}

func (r *progressRepository) Save(progress *model.QuestionProgress) error {
	if progress.ID == 0 {
		return r.db.Create(progress).Error
	}
	return r.db.Omit("Question").Save(progress).Error
}

func (r *progressRepository) FindDue(userID uint, now time.Time, limit int) ([]model.QuestionProgress, error) {
	var items []model.QuestionProgress
	query := r.db.Preload("Question").Preload("Question.Tags").
		Where("user_id = ? AND next_review_date <= ?", userID, now).
		Order("next_review_date ASC, id ASC")
	if limit > 0 {
		query = query.Limit(limit)
	}
	err := query.Find(&items).Error
	return items, err
}

func (r *progressRepository) DueQuestionIDs(userID uint, now time.Time, limit int) ([]uint, error) {
	var ids []uint
	err := r.db.Model(&model.QuestionProgress{}).
		Where("user_id = ? AND next_review_date <= ?", userID, now).
		Order("next_review_date ASC, id ASC").
		Limit(limit).
		Pluck("question_id", &ids).Error
	return ids, err
}

func (r *progressRepository) Counts(userID uint, now time.Time, masteredStreak int) (ReviewCounts, error) {
	var counts ReviewCounts
	base := r.db.Model(&model.QuestionProgress{}).Where("user_id = ?", userID)
	if err := base.Session(&gorm.Session{}).Count(&counts.Total).Error; err != nil {
		return counts, err
	}
	if err := base.Session(&gorm.Session{}).Where("next_review_date <= ?", now).Count(&counts.Due).Error; err != nil {
		return counts, err
	}
	if err := base.Session(&gorm.Session{}).Where("streak >= ?", masteredStreak).Count(&counts.Mastered).Error; err != nil {
		return counts, err
	}
	return counts, nil
}

func (r *progressRepository) WeakestTag(userID uint) (*TagStreak, error) {
	var rows []TagStreak
	err := r.db.Table("question_progress").
		Select("tags.name as name, AVG(question_progress.streak) as avg_streak").
		Joins("JOIN question_tags ON question_tags.question_id = question_progress.question_id").
		Joins("JOIN tags ON tags.id = question_tags.tag_id").
		Where("question_progress.user_id = ?", userID).
		Group("tags.name").
		Order("avg_streak ASC, tags.name ASC").
		Limit(1).
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, nil
	}
	return &rows[0], nil
}
