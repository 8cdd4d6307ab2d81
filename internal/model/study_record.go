package model

import (
	"time"
)

// StudyRecord is the append-only log of every practice answer.
type StudyRecord struct {
	ID         uint      `gorm:"primarykey" json:"id"`
	UserID     uint      `json:"user_id" gorm:"not null;index"`
	QuestionID uint      `json:"question_id" gorm:"not null;index"`
	Question   Question  `json:"question" gorm:"foreignKey:QuestionID"`
	UserAnswer string    `json:"user_answer" gorm:"type:text"`
	IsCorrect  bool      `json:"is_correct"`
	Duration   int       `json:"duration"` // seconds
	CreatedAt  time.Time `json:"created_at" gorm:"index"`
}

// QuestionProgress is the per user, per question mastery state. One row per pair.
type QuestionProgress struct {
	ID             uint      `gorm:"primarykey" json:"id"`
	UserID         uint      `json:"user_id" gorm:"not null;uniqueIndex:idx_user_question"`
	QuestionID     uint      `json:"question_id" gorm:"not null;uniqueIndex:idx_user_question"`
	Question       Question  `json:"question" gorm:"foreignKey:QuestionID"`
	Streak         int       `json:"streak" gorm:"not null;default:0"`
	Interval       int       `json:"interval" gorm:"column:interval_days;not null;default:1"`
	NextReviewDate time.Time `json:"next_review_date" gorm:"index"`
	LastAnsweredAt time.Time `json:"last_answered_at"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

func (QuestionProgress) TableName() string { return "question_progress" }
