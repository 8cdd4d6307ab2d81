package user

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/lshigami/examprep/internal/controller"
	"github.com/lshigami/examprep/internal/middleware"
	"github.com/lshigami/examprep/internal/service"
)

type ReviewController struct {
	reviewService service.ReviewService
}

func NewReviewController(reviewService service.ReviewService) *ReviewController {
	return &ReviewController{reviewService: reviewService}
}

// DueReviews godoc
// @Summary (User) Questions due for review
// @Description Due items ordered by next review date, with total, due and mastered counts.
// @Tags User - Review
// @Produce json
// @Security BearerAuth
// @Param limit query int false "Maximum items (default 20)"
// @Success 200 {object} dto.ReviewListDTO
// @Router /review/due [get]
func (c *ReviewController) DueReviews(ctx *gin.Context) {
	list, err := c.reviewService.DueReviews(middleware.UserID(ctx), controller.QueryInt(ctx, "limit", 20))
	if err != nil {
		controller.Fail(ctx, "User DueReviews", err)
		return
	}
	ctx.JSON(http.StatusOK, list)
}

// Mistakes godoc
// @Summary (User) Mistake book
// @Description Questions whose latest answer was wrong.
// @Tags User - Review
// @Produce json
// @Security BearerAuth
// @Param period query string false "all, day, week or month"
// @Param type query string false "CHOICE, FILL or READING"
// @Success 200 {array} dto.MistakeDTO
// @Failure 400 {object} dto.ErrorResponse "Unknown period"
// @Router /review/mistakes [get]
func (c *ReviewController) Mistakes(ctx *gin.Context) {
	mistakes, err := c.reviewService.Mistakes(middleware.UserID(ctx), ctx.Query("period"), ctx.Query("type"))
	if err != nil {
		controller.Fail(ctx, "User Mistakes", err)
		return
	}
	ctx.JSON(http.StatusOK, mistakes)
}

// Dashboard godoc
// @Summary (User) Study statistics
// @Tags User - Review
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.DashboardStatsDTO
// @Router /stats [get]
func (c *ReviewController) Dashboard(ctx *gin.Context) {
	stats, err := c.reviewService.Dashboard(middleware.UserID(ctx))
	if err != nil {
		controller.Fail(ctx, "User Dashboard", err)
		return
	}
	ctx.JSON(http.StatusOK, stats)
}

// History godoc
// @Summary (User) Answer history, newest first
// @Tags User - Review
// @Produce json
// @Security BearerAuth
// @Param limit query int false "Page size (default 50)"
// @Param offset query int false "Offset"
// @Success 200 {array} dto.StudyRecordDTO
// @Router /history [get]
func (c *ReviewController) History(ctx *gin.Context) {
	records, err := c.reviewService.History(
		middleware.UserID(ctx),
		controller.QueryInt(ctx, "limit", 50),
		controller.QueryInt(ctx, "offset", 0),
	)
	if err != nil {
		controller.Fail(ctx, "User History", err)
		return
	}
	ctx.JSON(http.StatusOK, records)
}
