package model

import (
	"time"

	"gorm.io/datatypes"
)

type ExamRecord struct {
	ID           uint         `gorm:"primarykey" json:"id"`
	UserID       uint         `json:"user_id" gorm:"not null;index"`
	PaperID      uint         `json:"paper_id" gorm:"not null;index"`
	Paper        ExamPaper    `json:"paper,omitempty" gorm:"foreignKey:PaperID"`
	Score        float64      `json:"score"` // percentage 0-100
	CorrectCount int          `json:"correct_count"`
	GradedCount  int          `json:"graded_count"`
	Duration     int          `json:"duration"` // seconds
	SubmittedAt  time.Time    `json:"submitted_at" gorm:"autoCreateTime"`
	Answers      []ExamAnswer `json:"answers,omitempty" gorm:"foreignKey:ExamRecordID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
	CreatedAt    time.Time    `json:"created_at"`
	UpdatedAt    time.Time    `json:"updated_at"`
}

// ExamProgress stores an unfinished attempt so it can be resumed. One row per user and paper.
type ExamProgress struct {
	ID             uint           `gorm:"primarykey" json:"id"`
	UserID         uint           `json:"user_id" gorm:"not null;uniqueIndex:idx_user_paper"`
	PaperID        uint           `json:"paper_id" gorm:"not null;uniqueIndex:idx_user_paper"`
	CurrentAnswers datatypes.JSON `json:"current_answers"`
	CurrentIndex   int            `json:"current_index"`
	ElapsedSeconds int            `json:"elapsed_seconds"`
	CreatedAt      time.Time      `json:"created_at"`
	UpdatedAt      time.Time      `json:"updated_at"`
}

func (ExamProgress) TableName() string { return "exam_progress" }
