package dto

type RegisterRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=6"`
	Username string `json:"username" binding:"omitempty,min=2,max=50"` // defaults to the local part of the email
}

type LoginRequest struct {
	Login    string `json:"login" binding:"required"` // email or username
	Password string `json:"password" binding:"required"`
}

type ChangePasswordRequest struct {
	OldPassword string `json:"old_password" binding:"required"`
	NewPassword string `json:"new_password" binding:"required,min=6"`
}

// SubmitAnswerRequest records one practice answer. When IsCorrect is omitted the server grades
// UserAnswer against the stored answer.
type SubmitAnswerRequest struct {
	QuestionID uint   `json:"question_id" binding:"required"`
	UserAnswer string `json:"user_answer"`
	IsCorrect  *bool  `json:"is_correct"`
	Duration   int    `json:"duration" binding:"min=0"` // seconds
}

type QuestionUpdateRequest struct {
	Content     *string  `json:"content" binding:"omitempty,min=1"`
	Type        *string  `json:"type" binding:"omitempty,oneof=CHOICE FILL READING"`
	Options     []string `json:"options"`
	Answer      *string  `json:"answer"`
	Explanation *string  `json:"explanation"`
	Passage     *string  `json:"passage"`
	Difficulty  *int     `json:"difficulty" binding:"omitempty,min=1,max=5"`
	Tags        []string `json:"tags"`
}
