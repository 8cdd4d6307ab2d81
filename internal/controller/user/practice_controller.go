package user

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/lshigami/examprep/internal/controller"
	"github.com/lshigami/examprep/internal/dto"
	"github.com/lshigami/examprep/internal/middleware"
	"github.com/lshigami/examprep/internal/service"
	"github.com/rs/zerolog/log"
)

type PracticeController struct {
	progressService  service.ProgressService
	dailyTaskService service.DailyTaskService
}

func NewPracticeController(progressService service.ProgressService, dailyTaskService service.DailyTaskService) *PracticeController {
	return &PracticeController{progressService: progressService, dailyTaskService: dailyTaskService}
}

// SubmitAnswer godoc
// @Summary (User) Answer one practice question
// @Description Records the answer, advances the review schedule and awards XP atomically. If is_correct is omitted the answer is graded on the server.
// @Tags User - Practice
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param answer body dto.SubmitAnswerRequest true "Answer"
// @Success 200 {object} dto.AnswerResultDTO
// @Failure 400 {object} dto.ErrorResponse "Invalid request body"
// @Failure 401 {object} dto.ErrorResponse "Not signed in"
// @Failure 404 {object} dto.ErrorResponse "Question not found"
// @Failure 409 {object} dto.ErrorResponse "Concurrent update, retry"
// @Router /answers [post]
func (c *PracticeController) SubmitAnswer(ctx *gin.Context) {
	var req dto.SubmitAnswerRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		log.Warn().Err(err).Msg("User SubmitAnswer: Failed to bind JSON")
		controller.BadRequest(ctx, "Invalid request body", err)
		return
	}

	result, err := c.progressService.RecordAnswer(ctx.Request.Context(), service.AnswerInput{
		UserID:     middleware.UserID(ctx),
		QuestionID: req.QuestionID,
		IsCorrect:  req.IsCorrect,
		UserAnswer: req.UserAnswer,
		Duration:   req.Duration,
	})
	if err != nil {
		controller.Fail(ctx, "User SubmitAnswer", err)
		return
	}
	ctx.JSON(http.StatusOK, result)
}

// DailyTask godoc
// @Summary (User) Today's practice set
// @Tags User - Practice
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.DailyTaskDTO
// @Router /daily-task [get]
func (c *PracticeController) DailyTask(ctx *gin.Context) {
	task, err := c.dailyTaskService.Today(middleware.UserID(ctx))
	if err != nil {
		controller.Fail(ctx, "User DailyTask", err)
		return
	}
	ctx.JSON(http.StatusOK, task)
}

// CompleteDailyTask godoc
// @Summary (User) Mark today's practice set as done
// @Tags User - Practice
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.MessageResponse
// @Router /daily-task/complete [post]
func (c *PracticeController) CompleteDailyTask(ctx *gin.Context) {
	if err := c.dailyTaskService.Complete(middleware.UserID(ctx)); err != nil {
		controller.Fail(ctx, "User CompleteDailyTask", err)
		return
	}
	ctx.JSON(http.StatusOK, dto.MessageResponse{Message: "daily task completed"})
}
