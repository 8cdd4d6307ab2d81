package service

import (
	"testing"

	"github.com/lshigami/examprep/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGradeAnswer(t *testing.T) {
	choice := &model.Question{Type: model.QuestionTypeChoice, Answer: "A, C"}
	fill := &model.Question{Type: model.QuestionTypeFill, Answer: "New York"}

	cases := []struct {
		name   string
		q      *model.Question
		answer string
		want   bool
	}{
		{"choice letters in any order", choice, "ca", true},
		{"choice with brackets", choice, "(A)(C)", true},
		{"choice missing a letter", choice, "A", false},
		{"choice with extra text", choice, "A and C", false},
		{"fill ignores case and spaces", fill, " new  york ", true},
		{"fill wrong", fill, "Boston", false},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			got := gradeAnswer(c.q, c.answer)
			require.NotNil(t, got)
			assert.Equal(t, c.want, *got)
		})
	}

	assert.Nil(t, gradeAnswer(&model.Question{Type: model.QuestionTypeFill}, "anything"))
}

func TestChoiceKey(t *testing.T) {
	assert.Equal(t, "AC", choiceKey("C、A"))
	assert.Equal(t, "B", choiceKey("b"))
	assert.Equal(t, "", choiceKey("42"))
	assert.Equal(t, "", choiceKey("Z"))
}

func TestToPercent(t *testing.T) {
	sc := NewScoreConverterService()

	score, err := sc.ToPercent(2, 3)
	require.NoError(t, err)
	assert.Equal(t, 66.7, score)

	score, err = sc.ToPercent(0, 0)
	require.NoError(t, err)
	assert.Zero(t, score)

	_, err = sc.ToPercent(4, 3)
	assert.Error(t, err)
}
