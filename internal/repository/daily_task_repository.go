package repository

import (
	"errors"

	"github.com/lshigami/examprep/internal/model"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type DailyTaskRepository interface {
	// FindByUserDay returns nil without error when no task exists for that day.
	FindByUserDay(userID uint, day string) (*model.DailyTask, error)
	// CreateIfAbsent inserts the task unless one already exists for the user and day.
	CreateIfAbsent(task *model.DailyTask) error
	MarkCompleted(userID uint, day string) error
}

type dailyTaskRepository struct {
	db *gorm.DB
}

func NewDailyTaskRepository(db *gorm.DB) DailyTaskRepository {
	return &dailyTaskRepository{db: db}
}

func (r *dailyTaskRepository) FindByUserDay(userID uint, day string) (*model.DailyTask, error) {
	var task model.DailyTask
	err := r.db.Where("user_id = ? AND day = ?", userID, day).First(&task).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &task, nil
}

func (r *dailyTaskRepository) CreateIfAbsent(task *model.DailyTask) error {
	return r.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}, {Name: "day"}},
		DoNothing: true,
	}).Create(task).Error
}

func (r *dailyTaskRepository) MarkCompleted(userID uint, day string) error {
	return r.db.Model(&model.DailyTask{}).
		Where("user_id = ? AND day = ?", userID, day).
		Update("completed", true).Error
}
