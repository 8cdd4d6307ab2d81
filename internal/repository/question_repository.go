package repository

import (
	"github.com/lshigami/examprep/internal/model"
	"gorm.io/gorm"
)

type QuestionFilter struct {
	PaperID *uint
	TagID   *uint
	Type    string
	Keyword string
	Limit   int
	Offset  int
}

type QuestionRepository interface {
	WithTx(tx *gorm.DB) QuestionRepository
	Create(question *model.Question) error
	FindByID(id uint) (*model.Question, error)
	FindByIDs(ids []uint) ([]model.Question, error)
	FindAll(filter QuestionFilter) ([]model.Question, int64, error)
	FindByPaperID(paperID uint) ([]model.Question, error)
	Exists(id uint) (bool, error)
	RandomIDs(limit int, exclude []uint) ([]uint, error)
	Update(question *model.Question) error
	ReplaceTags(question *model.Question, tags []model.Tag) error
	Delete(id uint) error
}

type questionRepository struct {
	db *gorm.DB
}

func NewQuestionRepository(db *gorm.DB) QuestionRepository {
	return &questionRepository{db: db}
}

func (r *questionRepository) WithTx(tx *gorm.DB) QuestionRepository {
	return &questionRepository{db: tx}
}

func (r *questionRepository) Create(question *model.Question) error {
	return r.db.Create(question).Error
}

func (r *questionRepository) FindByID(id uint) (*model.Question, error) {
	var question model.Question
	if err := r.db.Preload("Tags").First(&question, id).Error; err != nil {
		return nil, err
	}
	return &question, nil
}

func (r *questionRepository) FindByIDs(ids []uint) ([]model.Question, error) {
	var questions []model.Question
	if len(ids) == 0 {
		return questions, nil
	}
	if err := r.db.Preload("Tags").Where("id IN ?", ids).Find(&questions).Error; err != nil {
		return nil, err
	}
	return questions, nil
}

func (r *questionRepository) FindAll(filter QuestionFilter) ([]model.Question, int64, error) {
	query := r.db.Model(&model.Question{})
	if filter.PaperID != nil {
		query = query.Where("questions.paper_id = ?", *filter.PaperID)
	}
	if filter.Type != "" {
		query = query.Where("questions.type = ?", filter.Type)
	}
	if filter.Keyword != "" {
		query = query.Where("questions.content LIKE ?", "%"+filter.Keyword+"%")
	}
	if filter.TagID != nil {
		query = query.Joins("JOIN question_tags ON question_tags.question_id = questions.id").
			Where("question_tags.tag_id = ?", *filter.TagID)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if filter.Limit > 0 {
		query = query.Limit(filter.Limit).Offset(filter.Offset)
	}
	var questions []model.Question
	if err := query.Preload("Tags").Order("questions.created_at desc, questions.id desc").Find(&questions).Error; err != nil {
		return nil, 0, err
	}
	return questions, total, nil
}

func (r *questionRepository) FindByPaperID(paperID uint) ([]model.Question, error) {
	var questions []model.Question
	if err := r.db.Preload("Tags").Where("paper_id = ?", paperID).Order("order_in_paper ASC, id ASC").Find(&questions).Error; err != nil {
		return nil, err
	}
	return questions, nil
}

func (r *questionRepository) Exists(id uint) (bool, error) {
	var count int64
	if err := r.db.Model(&model.Question{}).Where("id = ?", id).Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *questionRepository) RandomIDs(limit int, exclude []uint) ([]uint, error) {
	var ids []uint
	query := r.db.Model(&model.Question{})
	if len(exclude) > 0 {
		query = query.Where("id NOT IN ?", exclude)
	}
	err := query.Order("RANDOM()").Limit(limit).Pluck("id", &ids).Error
	return ids, err
}

func (r *questionRepository) Update(question *model.Question) error {
	return r.db.Omit("Tags").Save(question).Error
}

func (r *questionRepository) ReplaceTags(question *model.Question, tags []model.Tag) error {
	return r.db.Model(question).Association("Tags").Replace(tags)
}

func (r *questionRepository) Delete(id uint) error {
	return r.db.Delete(&model.Question{}, id).Error
}
