package dto

import "github.com/lshigami/examprep/internal/parser"

// ImportPreviewRequest carries raw text pasted by an admin.
type ImportPreviewRequest struct {
	Text       string `json:"text" binding:"required"`
	Convention string `json:"convention"` // bold, heading, numbered, label or auto (default)
	AnswerText string `json:"answer_text"`
	Explain    bool   `json:"explain"` // draft missing explanations with the LLM
}

type ImportPreviewResponse struct {
	Convention string         `json:"convention"`
	Count      int            `json:"count"`
	Matched    int            `json:"matched_answers"`
	Drafts     []parser.Draft `json:"drafts"`
}

// DraftInput is a reviewed draft sent back for commit.
type DraftInput struct {
	Content     string   `json:"content" validate:"required"`
	Type        string   `json:"type" validate:"required,oneof=CHOICE FILL READING"`
	Options     []string `json:"options" validate:"dive,required"`
	Answer      string   `json:"answer"`
	Explanation string   `json:"explanation"`
	Passage     *string  `json:"passage"`
	Difficulty  int      `json:"difficulty" validate:"omitempty,min=1,max=5"`
	Tags        []string `json:"tags" validate:"dive,required"`
}

// ImportCommitRequest creates a new paper. Either Drafts or Text must be provided.
type ImportCommitRequest struct {
	Paper      PaperCreateDTO `json:"paper" binding:"required"`
	Drafts     []DraftInput   `json:"drafts"`
	Text       string         `json:"text"`
	Convention string         `json:"convention"`
	Tags       []string       `json:"tags"`
}

type ImportCommitResponse struct {
	PaperID       uint `json:"paper_id"`
	QuestionCount int  `json:"question_count"`
}
