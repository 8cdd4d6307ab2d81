package repository

import (
	"github.com/lshigami/examprep/internal/model"
	"gorm.io/gorm"
)

type TagRepository interface {
	WithTx(tx *gorm.DB) TagRepository
	// FirstOrCreate connects to an existing tag by name or creates it.
	FirstOrCreate(name, category string) (*model.Tag, error)
	FindAll() ([]model.Tag, error)
}

type tagRepository struct {
	db *gorm.DB
}

func NewTagRepository(db *gorm.DB) TagRepository {
	return &tagRepository{db: db}
}

func (r *tagRepository) WithTx(tx *gorm.DB) TagRepository {
	return &tagRepository{db: tx}
}

func (r *tagRepository) FirstOrCreate(name, category string) (*model.Tag, error) {
	tag := model.Tag{Name: name}
	if err := r.db.Where(model.Tag{Name: name}).Attrs(model.Tag{Category: category}).FirstOrCreate(&tag).Error; err != nil {
		return nil, err
	}
	return &tag, nil
}

func (r *tagRepository) FindAll() ([]model.Tag, error) {
	var tags []model.Tag
	err := r.db.Order("category, name").Find(&tags).Error
	return tags, err
}
