package dto

import "time"

type ErrorResponse struct {
	Message string   `json:"message"`
	Details []string `json:"details,omitempty"`
}

type MessageResponse struct {
	Message string `json:"message"`
}

type UserResponse struct {
	ID        uint       `json:"id"`
	Username  string     `json:"username"`
	Email     string     `json:"email"`
	Role      string     `json:"role"`
	Level     int        `json:"level"`
	XP        int        `json:"xp"`
	LastLogin *time.Time `json:"last_login,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
}

type AuthResponse struct {
	Token string       `json:"token"`
	User  UserResponse `json:"user"`
}

// AnswerResultDTO is the outcome of recording one practice answer.
type AnswerResultDTO struct {
	IsCorrect      bool      `json:"is_correct"`
	XPGained       int       `json:"xp_gained"`
	LeveledUp      bool      `json:"leveled_up"`
	NewLevel       *int      `json:"new_level,omitempty"`
	CurrentXP      int       `json:"current_xp"`
	Level          int       `json:"level"`
	Streak         int       `json:"streak"`
	Interval       int       `json:"interval"`
	NextReviewDate time.Time `json:"next_review_date"`
	CorrectAnswer  string    `json:"correct_answer,omitempty"`
	Explanation    string    `json:"explanation,omitempty"`
}

type ReviewItemDTO struct {
	Question       QuestionResponseDTO `json:"question"`
	Streak         int                 `json:"streak"`
	Interval       int                 `json:"interval"`
	NextReviewDate time.Time           `json:"next_review_date"`
}

type ReviewStatsDTO struct {
	TotalLearned int64 `json:"total_learned"`
	DueCount     int64 `json:"due_count"`
	Mastered     int64 `json:"mastered"`
}

type ReviewListDTO struct {
	Items []ReviewItemDTO `json:"items"`
	Stats ReviewStatsDTO  `json:"stats"`
}

type MistakeDTO struct {
	RecordID   uint                `json:"record_id"`
	Question   QuestionResponseDTO `json:"question"`
	UserAnswer string              `json:"user_answer"`
	AnsweredAt time.Time           `json:"answered_at"`
}

type DashboardStatsDTO struct {
	Level        int      `json:"level"`
	XP           int      `json:"xp"`
	TotalAnswers int64    `json:"total_answers"`
	Accuracy     float64  `json:"accuracy"` // percentage, one decimal
	TodayAnswers int64    `json:"today_answers"`
	DueCount     int64    `json:"due_count"`
	Mastered     int64    `json:"mastered"`
	WeakestTag   *string  `json:"weakest_tag,omitempty"`
	WeakestAvg   *float64 `json:"weakest_tag_avg_streak,omitempty"`
}

type StudyRecordDTO struct {
	ID         uint      `json:"id"`
	QuestionID uint      `json:"question_id"`
	UserAnswer string    `json:"user_answer"`
	IsCorrect  bool      `json:"is_correct"`
	Duration   int       `json:"duration"`
	CreatedAt  time.Time `json:"created_at"`
}

type DailyTaskDTO struct {
	Day       string                `json:"day"`
	Completed bool                  `json:"completed"`
	Questions []QuestionResponseDTO `json:"questions"`
}
