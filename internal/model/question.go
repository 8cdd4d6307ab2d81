package model

import (
	"encoding/json"
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const (
	QuestionTypeChoice  = "CHOICE"
	QuestionTypeFill    = "FILL"
	QuestionTypeReading = "READING"
)

type Question struct {
	ID           uint           `gorm:"primarykey" json:"id"`
	PaperID      *uint          `json:"paper_id,omitempty" gorm:"index"`
	OrderInPaper int            `json:"order_in_paper"`
	Content      string         `json:"content" gorm:"type:text;not null"`
	Type         string         `json:"type" gorm:"not null;index"` // CHOICE, FILL, READING
	Options      datatypes.JSON `json:"options"`
	Answer       string         `json:"answer" gorm:"type:text"`
	Explanation  string         `json:"explanation" gorm:"type:text"`
	Passage      *string        `json:"passage,omitempty" gorm:"type:text"`
	Difficulty   int            `json:"difficulty" gorm:"default:1"`
	Tags         []Tag          `json:"tags,omitempty" gorm:"many2many:question_tags;"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"-"`
}

// OptionList decodes Options; a missing or malformed column yields an empty list.
func (q *Question) OptionList() []string {
	options := []string{}
	if len(q.Options) == 0 {
		return options
	}
	if err := json.Unmarshal(q.Options, &options); err != nil {
		return []string{}
	}
	return options
}

func (q *Question) SetOptions(options []string) {
	if options == nil {
		options = []string{}
	}
	raw, _ := json.Marshal(options)
	q.Options = datatypes.JSON(raw)
}
