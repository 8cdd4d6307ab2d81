package service

import (
	"github.com/jinzhu/copier"
	"github.com/lshigami/examprep/internal/dto"
	"github.com/lshigami/examprep/internal/model"
)

// toQuestionDTO is written out by hand: Options is a JSON column and Tags are flattened to names.
func toQuestionDTO(q *model.Question, withAnswer bool) dto.QuestionResponseDTO {
	resp := dto.QuestionResponseDTO{
		ID:           q.ID,
		PaperID:      q.PaperID,
		OrderInPaper: q.OrderInPaper,
		Content:      q.Content,
		Type:         q.Type,
		Options:      q.OptionList(),
		Passage:      q.Passage,
		Difficulty:   q.Difficulty,
		Tags:         make([]string, 0, len(q.Tags)),
	}
	if withAnswer {
		resp.Answer = q.Answer
		resp.Explanation = q.Explanation
	}
	for _, t := range q.Tags {
		resp.Tags = append(resp.Tags, t.Name)
	}
	return resp
}

func toQuestionDTOs(questions []model.Question, withAnswer bool) []dto.QuestionResponseDTO {
	out := make([]dto.QuestionResponseDTO, 0, len(questions))
	for i := range questions {
		out = append(out, toQuestionDTO(&questions[i], withAnswer))
	}
	return out
}

func toUserResponse(user *model.User) dto.UserResponse {
	var resp dto.UserResponse
	copier.Copy(&resp, user)
	return resp
}
