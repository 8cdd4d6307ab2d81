package repository

import (
	"errors"

	"github.com/lshigami/examprep/internal/model"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type ExamRecordRepository interface {
	Create(record *model.ExamRecord) error
	FindByIDWithDetails(id uint) (*model.ExamRecord, error)
	FindAllByUser(userID uint, paperID *uint) ([]model.ExamRecord, error)

	// FindProgress returns nil without error when nothing was saved.
	FindProgress(userID, paperID uint) (*model.ExamProgress, error)
	SaveProgress(progress *model.ExamProgress) error
	DeleteProgress(userID, paperID uint) error
}

type examRecordRepository struct {
	db *gorm.DB
}

func NewExamRecordRepository(db *gorm.DB) ExamRecordRepository {
	return &examRecordRepository{db: db}
}

// Create stores the record and its answers, and clears any saved progress for the same paper.
func (r *examRecordRepository) Create(record *model.ExamRecord) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit("Paper").Create(record).Error; err != nil {
			return err
		}
		return tx.Where("user_id = ? AND paper_id = ?", record.UserID, record.PaperID).
			Delete(&model.ExamProgress{}).Error
	})
}

func (r *examRecordRepository) FindByIDWithDetails(id uint) (*model.ExamRecord, error) {
	var record model.ExamRecord
	err := r.db.
		Preload("Paper").
		Preload("Answers", func(db *gorm.DB) *gorm.DB { return db.Order("exam_answers.id ASC") }).
		Preload("Answers.Question").
		First(&record, id).Error
	if err != nil {
		return nil, err
	}
	return &record, nil
}

func (r *examRecordRepository) FindAllByUser(userID uint, paperID *uint) ([]model.ExamRecord, error) {
	var records []model.ExamRecord
	query := r.db.Preload("Paper").Where("user_id = ?", userID)
	if paperID != nil {
		query = query.Where("paper_id = ?", *paperID)
	}
	err := query.Order("submitted_at DESC, id DESC").Find(&records).Error
	return records, err
}

func (r *examRecordRepository) FindProgress(userID, paperID uint) (*model.ExamProgress, error) {
	var progress model.ExamProgress
	err := r.db.Where("user_id = ? AND paper_id = ?", userID, paperID).First(&progress).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &progress, nil
}

func (r *examRecordRepository) SaveProgress(progress *model.ExamProgress) error {
	return r.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}, {Name: "paper_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"current_answers", "current_index", "elapsed_seconds", "updated_at"}),
	}).Create(progress).Error
}

func (r *examRecordRepository) DeleteProgress(userID, paperID uint) error {
	return r.db.Where("user_id = ? AND paper_id = ?", userID, paperID).Delete(&model.ExamProgress{}).Error
}
