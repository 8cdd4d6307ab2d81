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

type ExamController struct {
	examRecordService service.ExamRecordService
}

func NewExamController(examRecordService service.ExamRecordService) *ExamController {
	return &ExamController{examRecordService: examRecordService}
}

// SubmitExam godoc
// @Summary (User) Submit answers for a whole paper
// @Description Grades every answer against the stored key and saves an exam record. Any saved progress for the paper is cleared.
// @Tags User - Exams
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param paper_id path int true "Paper ID"
// @Param submission body dto.ExamSubmitDTO true "Answers and elapsed time"
// @Success 201 {object} dto.ExamRecordDetailDTO
// @Failure 400 {object} dto.ErrorResponse "Invalid input"
// @Failure 404 {object} dto.ErrorResponse "Paper not found"
// @Router /papers/{paper_id}/submit [post]
func (c *ExamController) SubmitExam(ctx *gin.Context) {
	paperID, ok := controller.ParamID(ctx, "paper_id")
	if !ok {
		return
	}
	var req dto.ExamSubmitDTO
	if err := ctx.ShouldBindJSON(&req); err != nil {
		log.Warn().Err(err).Msg("User SubmitExam: Failed to bind JSON")
		controller.BadRequest(ctx, "Invalid request body", err)
		return
	}

	userID := middleware.UserID(ctx)
	log.Info().Uint("paperID", paperID).Uint("userID", userID).Int("answerCount", len(req.Answers)).Msg("Received exam submission")

	record, err := c.examRecordService.SubmitExam(userID, paperID, req)
	if err != nil {
		controller.Fail(ctx, "User SubmitExam", err)
		return
	}
	ctx.JSON(http.StatusCreated, record)
}

// ListRecords godoc
// @Summary (User) List the caller's exam records
// @Tags User - Exams
// @Produce json
// @Security BearerAuth
// @Param paper_id query int false "Only records for this paper"
// @Success 200 {array} dto.ExamRecordSummaryDTO
// @Failure 400 {object} dto.ErrorResponse "Invalid paper_id"
// @Router /exam-records [get]
func (c *ExamController) ListRecords(ctx *gin.Context) {
	paperID, ok := controller.OptionalQueryID(ctx, "paper_id")
	if !ok {
		return
	}
	records, err := c.examRecordService.ListRecords(middleware.UserID(ctx), paperID)
	if err != nil {
		controller.Fail(ctx, "User ListRecords", err)
		return
	}
	ctx.JSON(http.StatusOK, records)
}

// GetRecord godoc
// @Summary (User) Get one exam record with every answer
// @Tags User - Exams
// @Produce json
// @Security BearerAuth
// @Param record_id path int true "Exam record ID"
// @Success 200 {object} dto.ExamRecordDetailDTO
// @Failure 404 {object} dto.ErrorResponse "Record not found"
// @Router /exam-records/{record_id} [get]
func (c *ExamController) GetRecord(ctx *gin.Context) {
	recordID, ok := controller.ParamID(ctx, "record_id")
	if !ok {
		return
	}
	record, err := c.examRecordService.GetRecordDetails(middleware.UserID(ctx), recordID)
	if err != nil {
		controller.Fail(ctx, "User GetRecord", err)
		return
	}
	ctx.JSON(http.StatusOK, record)
}

// SaveProgress godoc
// @Summary (User) Save an unfinished exam
// @Tags User - Exams
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param paper_id path int true "Paper ID"
// @Param progress body dto.ExamProgressDTO true "Answers so far"
// @Success 200 {object} dto.MessageResponse
// @Failure 404 {object} dto.ErrorResponse "Paper not found"
// @Router /papers/{paper_id}/progress [put]
func (c *ExamController) SaveProgress(ctx *gin.Context) {
	paperID, ok := controller.ParamID(ctx, "paper_id")
	if !ok {
		return
	}
	var req dto.ExamProgressDTO
	if err := ctx.ShouldBindJSON(&req); err != nil {
		controller.BadRequest(ctx, "Invalid request body", err)
		return
	}
	if err := c.examRecordService.SaveProgress(middleware.UserID(ctx), paperID, req); err != nil {
		controller.Fail(ctx, "User SaveProgress", err)
		return
	}
	ctx.JSON(http.StatusOK, dto.MessageResponse{Message: "progress saved"})
}

// GetProgress godoc
// @Summary (User) Resume an unfinished exam
// @Tags User - Exams
// @Produce json
// @Security BearerAuth
// @Param paper_id path int true "Paper ID"
// @Success 200 {object} dto.ExamProgressDTO
// @Success 204 "Nothing saved"
// @Router /papers/{paper_id}/progress [get]
func (c *ExamController) GetProgress(ctx *gin.Context) {
	paperID, ok := controller.ParamID(ctx, "paper_id")
	if !ok {
		return
	}
	progress, err := c.examRecordService.GetProgress(middleware.UserID(ctx), paperID)
	if err != nil {
		controller.Fail(ctx, "User GetProgress", err)
		return
	}
	if progress == nil {
		ctx.Status(http.StatusNoContent)
		return
	}
	ctx.JSON(http.StatusOK, progress)
}

// ClearProgress godoc
// @Summary (User) Discard an unfinished exam
// @Tags User - Exams
// @Produce json
// @Security BearerAuth
// @Param paper_id path int true "Paper ID"
// @Success 200 {object} dto.MessageResponse
// @Router /papers/{paper_id}/progress [delete]
func (c *ExamController) ClearProgress(ctx *gin.Context) {
	paperID, ok := controller.ParamID(ctx, "paper_id")
	if !ok {
		return
	}
	if err := c.examRecordService.ClearProgress(middleware.UserID(ctx), paperID); err != nil {
		controller.Fail(ctx, "User ClearProgress", err)
		return
	}
	ctx.JSON(http.StatusOK, dto.MessageResponse{Message: "progress cleared"})
}
