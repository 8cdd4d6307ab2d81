package dto

import "time"

// QuestionResponseDTO is used for displaying question details to users.
type QuestionResponseDTO struct {
	ID           uint     `json:"id"`
	PaperID      *uint    `json:"paper_id,omitempty"`
	OrderInPaper int      `json:"order_in_paper"`
	Content      string   `json:"content"`
	Type         string   `json:"type"`
	Options      []string `json:"options"`
	Answer       string   `json:"answer,omitempty"`
	Explanation  string   `json:"explanation,omitempty"`
	Passage      *string  `json:"passage,omitempty"`
	Difficulty   int      `json:"difficulty"`
	Tags         []string `json:"tags"`
}

type QuestionListDTO struct {
	Items []QuestionResponseDTO `json:"items"`
	Total int64                 `json:"total"`
}

// PaperResponseDTO is used for displaying a full paper with its questions.
type PaperResponseDTO struct {
	ID          uint                  `json:"id"`
	Title       string                `json:"title"`
	Year        *int                  `json:"year,omitempty"`
	Subject     string                `json:"subject,omitempty"`
	PaperType   string                `json:"paper_type,omitempty"`
	Description string                `json:"description,omitempty"`
	Questions   []QuestionResponseDTO `json:"questions"`
	CreatedAt   time.Time             `json:"created_at"`
}

// PaperSummaryDTO is used for listing papers.
type PaperSummaryDTO struct {
	ID            uint      `json:"id"`
	Title         string    `json:"title"`
	Year          *int      `json:"year,omitempty"`
	Subject       string    `json:"subject,omitempty"`
	PaperType     string    `json:"paper_type,omitempty"`
	QuestionCount int       `json:"question_count"`
	Tags          []string  `json:"tags"`
	CreatedAt     time.Time `json:"created_at"`
}

type PaperCreateDTO struct {
	Title       string `json:"title" binding:"required"`
	Year        *int   `json:"year" binding:"omitempty,min=1900,max=2100"`
	Subject     string `json:"subject"`
	PaperType   string `json:"paper_type"`
	Description string `json:"description"`
}

// --- Exam records ---

type ExamAnswerSubmitDTO struct {
	QuestionID uint   `json:"question_id" binding:"required"`
	UserAnswer string `json:"user_answer"`
}

type ExamSubmitDTO struct {
	Duration int                   `json:"duration" binding:"min=0"`
	Answers  []ExamAnswerSubmitDTO `json:"answers" binding:"required,min=1,dive"`
}

type ExamAnswerResponseDTO struct {
	ID         uint                `json:"id"`
	QuestionID uint                `json:"question_id"`
	Question   QuestionResponseDTO `json:"question"`
	UserAnswer string              `json:"user_answer"`
	IsCorrect  *bool               `json:"is_correct,omitempty"`
}

type ExamRecordDetailDTO struct {
	ID           uint                    `json:"id"`
	PaperID      uint                    `json:"paper_id"`
	PaperTitle   string                  `json:"paper_title,omitempty"`
	Score        float64                 `json:"score"`
	CorrectCount int                     `json:"correct_count"`
	GradedCount  int                     `json:"graded_count"`
	Duration     int                     `json:"duration"`
	SubmittedAt  time.Time               `json:"submitted_at"`
	Answers      []ExamAnswerResponseDTO `json:"answers"`
}

type ExamRecordSummaryDTO struct {
	ID           uint      `json:"id"`
	PaperID      uint      `json:"paper_id"`
	PaperTitle   string    `json:"paper_title,omitempty"`
	Score        float64   `json:"score"`
	CorrectCount int       `json:"correct_count"`
	GradedCount  int       `json:"graded_count"`
	Duration     int       `json:"duration"`
	SubmittedAt  time.Time `json:"submitted_at"`
}

type ExamProgressDTO struct {
	PaperID        uint              `json:"paper_id"`
	CurrentAnswers map[string]string `json:"current_answers"` // question id -> answer
	CurrentIndex   int               `json:"current_index" binding:"min=0"`
	ElapsedSeconds int               `json:"elapsed_seconds" binding:"min=0"`
	UpdatedAt      time.Time         `json:"updated_at"`
}
