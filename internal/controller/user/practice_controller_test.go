package user

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/lshigami/examprep/internal/dto"
	"github.com/lshigami/examprep/internal/middleware"
	"github.com/lshigami/examprep/internal/service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeProgress struct {
	got service.AnswerInput
	err error
}

func (f *fakeProgress) RecordAnswer(_ context.Context, in service.AnswerInput) (*dto.AnswerResultDTO, error) {
	f.got = in
	if f.err != nil {
		return nil, f.err
	}
	return &dto.AnswerResultDTO{IsCorrect: true, XPGained: 12, Streak: 1, Interval: 1, Level: 1, CurrentXP: 12}, nil
}

type fakeDailyTask struct {
	service.DailyTaskService
	completed uint
}

func (f *fakeDailyTask) Complete(userID uint) error {
	f.completed = userID
	return nil
}

func newPracticeRouter(c *PracticeController, userID uint) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(func(ctx *gin.Context) {
		if userID != 0 {
			ctx.Set(middleware.ContextUserID, userID)
		}
		ctx.Next()
	})
	r.POST("/answers", c.SubmitAnswer)
	r.POST("/daily-task/complete", c.CompleteDailyTask)
	return r
}

func post(r *gin.Engine, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestSubmitAnswerPassesCallerAndBody(t *testing.T) {
	progress := &fakeProgress{}
	r := newPracticeRouter(NewPracticeController(progress, &fakeDailyTask{}), 9)

	w := post(r, "/answers", `{"question_id": 4, "user_answer": "B", "duration": 30}`)
	require.Equal(t, http.StatusOK, w.Code)

	var result dto.AnswerResultDTO
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &result))
	assert.Equal(t, 12, result.XPGained)
	assert.Equal(t, uint(9), progress.got.UserID)
	assert.Equal(t, uint(4), progress.got.QuestionID)
	assert.Equal(t, "B", progress.got.UserAnswer)
	assert.Nil(t, progress.got.IsCorrect)
	assert.Equal(t, 30, progress.got.Duration)
}

func TestSubmitAnswerErrors(t *testing.T) {
	cases := []struct {
		name string
		body string
		err  error
		want int
	}{
		{"missing question id", `{"user_answer": "B"}`, nil, http.StatusBadRequest},
		{"negative duration", `{"question_id": 1, "duration": -1}`, nil, http.StatusBadRequest},
		{"unknown question", `{"question_id": 1}`, service.ErrQuestionNotFound, http.StatusNotFound},
		{"lost the race", `{"question_id": 1, "is_correct": true}`, service.ErrConflict, http.StatusConflict},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			r := newPracticeRouter(NewPracticeController(&fakeProgress{err: c.err}, &fakeDailyTask{}), 9)
			w := post(r, "/answers", c.body)
			assert.Equal(t, c.want, w.Code)
		})
	}
}

func TestSubmitAnswerWithoutCaller(t *testing.T) {
	progress := &fakeProgress{err: service.ErrUnauthenticated}
	r := newPracticeRouter(NewPracticeController(progress, &fakeDailyTask{}), 0)

	w := post(r, "/answers", `{"question_id": 1}`)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Zero(t, progress.got.UserID)
}

func TestCompleteDailyTask(t *testing.T) {
	daily := &fakeDailyTask{}
	r := newPracticeRouter(NewPracticeController(&fakeProgress{}, daily), 3)

	w := post(r, "/daily-task/complete", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, uint(3), daily.completed)
}
