package admin

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/lshigami/examprep/internal/controller"
	"github.com/lshigami/examprep/internal/dto"
	"github.com/lshigami/examprep/internal/service"
	"github.com/rs/zerolog/log"
)

type AdminPaperController struct {
	paperService    service.PaperService
	questionService service.QuestionService
}

func NewAdminPaperController(paperService service.PaperService, questionService service.QuestionService) *AdminPaperController {
	return &AdminPaperController{paperService: paperService, questionService: questionService}
}

// CreatePaper godoc
// @Summary (Admin) Create an empty exam paper
// @Description Creates paper metadata. Questions are attached through the import endpoints.
// @Tags Admin - Papers
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param paper body dto.PaperCreateDTO true "Paper metadata"
// @Success 201 {object} dto.PaperResponseDTO
// @Failure 400 {object} dto.ErrorResponse "Invalid request body"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /admin/papers [post]
func (c *AdminPaperController) CreatePaper(ctx *gin.Context) {
	var req dto.PaperCreateDTO
	if err := ctx.ShouldBindJSON(&req); err != nil {
		log.Warn().Err(err).Msg("Admin CreatePaper: Failed to bind JSON")
		controller.BadRequest(ctx, "Invalid request body", err)
		return
	}

	paper, err := c.paperService.CreatePaper(req)
	if err != nil {
		controller.Fail(ctx, "Admin CreatePaper", err)
		return
	}
	ctx.JSON(http.StatusCreated, paper)
}

// GetPaper godoc
// @Summary (Admin) Get a paper with answers and explanations
// @Tags Admin - Papers
// @Produce json
// @Security BearerAuth
// @Param paper_id path int true "Paper ID"
// @Success 200 {object} dto.PaperResponseDTO
// @Failure 404 {object} dto.ErrorResponse "Paper not found"
// @Router /admin/papers/{paper_id} [get]
func (c *AdminPaperController) GetPaper(ctx *gin.Context) {
	paperID, ok := controller.ParamID(ctx, "paper_id")
	if !ok {
		return
	}
	paper, err := c.paperService.GetPaperDetails(paperID, true)
	if err != nil {
		controller.Fail(ctx, "Admin GetPaper", err)
		return
	}
	ctx.JSON(http.StatusOK, paper)
}

// DeletePaper godoc
// @Summary (Admin) Delete a paper and its questions
// @Tags Admin - Papers
// @Produce json
// @Security BearerAuth
// @Param paper_id path int true "Paper ID"
// @Success 200 {object} dto.MessageResponse
// @Failure 404 {object} dto.ErrorResponse "Paper not found"
// @Router /admin/papers/{paper_id} [delete]
func (c *AdminPaperController) DeletePaper(ctx *gin.Context) {
	paperID, ok := controller.ParamID(ctx, "paper_id")
	if !ok {
		return
	}
	if err := c.paperService.DeletePaper(paperID); err != nil {
		controller.Fail(ctx, "Admin DeletePaper", err)
		return
	}
	log.Info().Uint("paperID", paperID).Msg("Paper deleted")
	ctx.JSON(http.StatusOK, dto.MessageResponse{Message: "paper deleted"})
}

// UpdateQuestion godoc
// @Summary (Admin) Edit a question
// @Description Only the provided fields change. Tags, when present, replace the current set.
// @Tags Admin - Questions
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param question_id path int true "Question ID"
// @Param question body dto.QuestionUpdateRequest true "Fields to change"
// @Success 200 {object} dto.QuestionResponseDTO
// @Failure 400 {object} dto.ErrorResponse "Invalid request body"
// @Failure 404 {object} dto.ErrorResponse "Question not found"
// @Router /admin/questions/{question_id} [put]
func (c *AdminPaperController) UpdateQuestion(ctx *gin.Context) {
	questionID, ok := controller.ParamID(ctx, "question_id")
	if !ok {
		return
	}
	var req dto.QuestionUpdateRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		controller.BadRequest(ctx, "Invalid request body", err)
		return
	}
	question, err := c.questionService.UpdateQuestion(questionID, req)
	if err != nil {
		controller.Fail(ctx, "Admin UpdateQuestion", err)
		return
	}
	ctx.JSON(http.StatusOK, question)
}

// DeleteQuestion godoc
// @Summary (Admin) Delete a question
// @Tags Admin - Questions
// @Produce json
// @Security BearerAuth
// @Param question_id path int true "Question ID"
// @Success 200 {object} dto.MessageResponse
// @Failure 404 {object} dto.ErrorResponse "Question not found"
// @Router /admin/questions/{question_id} [delete]
func (c *AdminPaperController) DeleteQuestion(ctx *gin.Context) {
	questionID, ok := controller.ParamID(ctx, "question_id")
	if !ok {
		return
	}
	if err := c.questionService.DeleteQuestion(questionID); err != nil {
		controller.Fail(ctx, "Admin DeleteQuestion", err)
		return
	}
	ctx.JSON(http.StatusOK, dto.MessageResponse{Message: "question deleted"})
}
