package model

import (
	"time"
)

type ExamAnswer struct {
	ID           uint      `gorm:"primarykey" json:"id"`
	ExamRecordID uint      `json:"exam_record_id" gorm:"not null;index"`
	QuestionID   uint      `json:"question_id" gorm:"not null;index"`
	Question     Question  `json:"question,omitempty" gorm:"foreignKey:QuestionID"`
	UserAnswer   string    `json:"user_answer" gorm:"type:text"`
	IsCorrect    *bool     `json:"is_correct,omitempty"` // nil when the question has no gradable answer
	CreatedAt    time.Time `json:"created_at"`
}
