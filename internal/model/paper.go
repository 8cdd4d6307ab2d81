package model

import (
	"time"

	"gorm.io/gorm"
)

type ExamPaper struct {
	ID          uint           `gorm:"primarykey" json:"id"`
	Title       string         `json:"title" gorm:"not null;index"`
	Year        *int           `json:"year,omitempty"`
	Subject     string         `json:"subject,omitempty" gorm:"index"`
	PaperType   string         `json:"paper_type,omitempty"` // "real", "mock", "imported"
	Description string         `json:"description,omitempty" gorm:"type:text"`
	Questions   []Question     `json:"questions,omitempty" gorm:"foreignKey:PaperID"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`
}

type Tag struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	Name      string    `json:"name" gorm:"not null;uniqueIndex"`
	Category  string    `json:"category,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}
