package repository

import (
	"github.com/lshigami/examprep/internal/model"
	"gorm.io/gorm"
)

type PaperSummary struct {
	model.ExamPaper
	QuestionCount int
}

type PaperRepository interface {
	WithTx(tx *gorm.DB) PaperRepository
	Create(paper *model.ExamPaper) error
	FindByID(id uint) (*model.ExamPaper, error)
	FindByIDWithQuestions(id uint) (*model.ExamPaper, error)
	FindAllWithQuestionCount(subject string) ([]PaperSummary, error)
	TagNames(paperID uint) ([]string, error)
	Delete(id uint) error
}

type paperRepository struct {
	db *gorm.DB
}

func NewPaperRepository(db *gorm.DB) PaperRepository {
	return &paperRepository{db: db}
}

func (r *paperRepository) WithTx(tx *gorm.DB) PaperRepository {
	return &paperRepository{db: tx}
}

func (r *paperRepository) Create(paper *model.ExamPaper) error {
	return r.db.Create(paper).Error
}

func (r *paperRepository) FindByID(id uint) (*model.ExamPaper, error) {
	var paper model.ExamPaper
	if err := r.db.First(&paper, id).Error; err != nil {
		return nil, err
	}
	return &paper, nil
}

func (r *paperRepository) FindByIDWithQuestions(id uint) (*model.ExamPaper, error) {
	var paper model.ExamPaper
	err := r.db.Preload("Questions", func(db *gorm.DB) *gorm.DB {
		return db.Order("questions.order_in_paper ASC, questions.id ASC")
	}).Preload("Questions.Tags").First(&paper, id).Error
	if err != nil {
		return nil, err
	}
	return &paper, nil
}

func (r *paperRepository) FindAllWithQuestionCount(subject string) ([]PaperSummary, error) {
	var results []PaperSummary
	query := r.db.Model(&model.ExamPaper{}).
		Select("exam_papers.*, (SELECT COUNT(*) FROM questions WHERE questions.paper_id = exam_papers.id AND questions.deleted_at IS NULL) as question_count").
		Where("exam_papers.deleted_at IS NULL")
	if subject != "" {
		query = query.Where("exam_papers.subject = ?", subject)
	}
	err := query.Order("exam_papers.created_at DESC, exam_papers.id DESC").Scan(&results).Error
	return results, err
}

func (r *paperRepository) TagNames(paperID uint) ([]string, error) {
	var names []string
	err := r.db.Table("tags").
		Joins("JOIN question_tags ON question_tags.tag_id = tags.id").
		Joins("JOIN questions ON questions.id = question_tags.question_id").
		Where("questions.paper_id = ? AND questions.deleted_at IS NULL", paperID).
		Distinct().Order("tags.name").Pluck("tags.name", &names).Error
	return names, err
}

// Delete soft-deletes the paper together with its questions.
func (r *paperRepository) Delete(id uint) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("paper_id = ?", id).Delete(&model.Question{}).Error; err != nil {
			return err
		}
		result := tx.Delete(&model.ExamPaper{}, id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
}
