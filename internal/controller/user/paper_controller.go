package user

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/lshigami/examprep/internal/controller"
	"github.com/lshigami/examprep/internal/middleware"
	"github.com/lshigami/examprep/internal/repository"
	"github.com/lshigami/examprep/internal/service"
)

const maxPageSize = 100

type PaperController struct {
	paperService    service.PaperService
	questionService service.QuestionService
}

func NewPaperController(paperService service.PaperService, questionService service.QuestionService) *PaperController {
	return &PaperController{paperService: paperService, questionService: questionService}
}

// ListPapers godoc
// @Summary (User) List exam papers
// @Tags User - Papers
// @Produce json
// @Security BearerAuth
// @Param subject query string false "Filter by subject"
// @Success 200 {array} dto.PaperSummaryDTO
// @Router /papers [get]
func (c *PaperController) ListPapers(ctx *gin.Context) {
	papers, err := c.paperService.GetAllPapers(ctx.Query("subject"))
	if err != nil {
		controller.Fail(ctx, "User ListPapers", err)
		return
	}
	ctx.JSON(http.StatusOK, papers)
}

// GetPaper godoc
// @Summary (User) Get a paper and its questions
// @Description Answers and explanations are hidden unless the caller is an admin.
// @Tags User - Papers
// @Produce json
// @Security BearerAuth
// @Param paper_id path int true "Paper ID"
// @Success 200 {object} dto.PaperResponseDTO
// @Failure 404 {object} dto.ErrorResponse "Paper not found"
// @Router /papers/{paper_id} [get]
func (c *PaperController) GetPaper(ctx *gin.Context) {
	paperID, ok := controller.ParamID(ctx, "paper_id")
	if !ok {
		return
	}
	paper, err := c.paperService.GetPaperDetails(paperID, middleware.IsAdmin(ctx))
	if err != nil {
		controller.Fail(ctx, "User GetPaper", err)
		return
	}
	ctx.JSON(http.StatusOK, paper)
}

// ListQuestions godoc
// @Summary (User) Browse questions
// @Tags User - Questions
// @Produce json
// @Security BearerAuth
// @Param paper_id query int false "Paper ID"
// @Param tag_id query int false "Tag ID"
// @Param type query string false "CHOICE, FILL or READING"
// @Param keyword query string false "Substring of the content"
// @Param limit query int false "Page size (default 20, max 100)"
// @Param offset query int false "Offset"
// @Success 200 {object} dto.QuestionListDTO
// @Router /questions [get]
func (c *PaperController) ListQuestions(ctx *gin.Context) {
	paperID, ok := controller.OptionalQueryID(ctx, "paper_id")
	if !ok {
		return
	}
	tagID, ok := controller.OptionalQueryID(ctx, "tag_id")
	if !ok {
		return
	}
	limit := controller.QueryInt(ctx, "limit", 20)
	if limit == 0 || limit > maxPageSize {
		limit = maxPageSize
	}
	list, err := c.questionService.ListQuestions(repository.QuestionFilter{
		PaperID: paperID,
		TagID:   tagID,
		Type:    ctx.Query("type"),
		Keyword: ctx.Query("keyword"),
		Limit:   limit,
		Offset:  controller.QueryInt(ctx, "offset", 0),
	}, middleware.IsAdmin(ctx))
	if err != nil {
		controller.Fail(ctx, "User ListQuestions", err)
		return
	}
	ctx.JSON(http.StatusOK, list)
}

// GetQuestion godoc
// @Summary (User) Get one question
// @Tags User - Questions
// @Produce json
// @Security BearerAuth
// @Param question_id path int true "Question ID"
// @Success 200 {object} dto.QuestionResponseDTO
// @Failure 404 {object} dto.ErrorResponse "Question not found"
// @Router /questions/{question_id} [get]
func (c *PaperController) GetQuestion(ctx *gin.Context) {
	questionID, ok := controller.ParamID(ctx, "question_id")
	if !ok {
		return
	}
	question, err := c.questionService.GetQuestion(questionID, middleware.IsAdmin(ctx))
	if err != nil {
		controller.Fail(ctx, "User GetQuestion", err)
		return
	}
	ctx.JSON(http.StatusOK, question)
}

// ListTags godoc
// @Summary List knowledge-point tags
// @Tags User - Questions
// @Produce json
// @Security BearerAuth
// @Success 200 {array} model.Tag
// @Router /tags [get]
func (c *PaperController) ListTags(ctx *gin.Context) {
	tags, err := c.questionService.ListTags()
	if err != nil {
		controller.Fail(ctx, "User ListTags", err)
		return
	}
	ctx.JSON(http.StatusOK, tags)
}
