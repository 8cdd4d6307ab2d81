package admin

import (
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/lshigami/examprep/internal/controller"
	"github.com/lshigami/examprep/internal/dto"
	"github.com/lshigami/examprep/internal/service"
	"github.com/rs/zerolog/log"
)

const maxUploadBytes = 20 << 20

type ImportController struct {
	importService service.ImportService
}

func NewImportController(importService service.ImportService) *ImportController {
	return &ImportController{importService: importService}
}

// PreviewText godoc
// @Summary (Admin) Parse pasted text into question drafts
// @Description Splits the text with the chosen convention (auto-detected by default) and pairs an optional answer sheet by position. Nothing is saved.
// @Tags Admin - Import
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.ImportPreviewRequest true "Raw text and options"
// @Success 200 {object} dto.ImportPreviewResponse
// @Failure 400 {object} dto.ErrorResponse "Invalid body, unknown convention or no questions parsed"
// @Router /admin/import/preview [post]
func (c *ImportController) PreviewText(ctx *gin.Context) {
	var req dto.ImportPreviewRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		controller.BadRequest(ctx, "Invalid request body", err)
		return
	}
	resp, err := c.importService.PreviewText(ctx.Request.Context(), req)
	if err != nil {
		controller.Fail(ctx, "Admin PreviewText", err)
		return
	}
	ctx.JSON(http.StatusOK, resp)
}

// PreviewPDF godoc
// @Summary (Admin) Parse an uploaded PDF into question drafts
// @Tags Admin - Import
// @Accept multipart/form-data
// @Produce json
// @Security BearerAuth
// @Param file formData file true "Question paper (PDF)"
// @Param answer_file formData file false "Answer sheet (PDF)"
// @Param convention formData string false "bold, heading, numbered, label or auto"
// @Param explain formData bool false "Draft missing explanations with the LLM"
// @Success 200 {object} dto.ImportPreviewResponse
// @Failure 400 {object} dto.ErrorResponse "Missing file or no questions parsed"
// @Router /admin/import/pdf [post]
func (c *ImportController) PreviewPDF(ctx *gin.Context) {
	questions, err := readFormFile(ctx, "file", true)
	if err != nil {
		controller.BadRequest(ctx, "Invalid upload", err)
		return
	}
	answers, err := readFormFile(ctx, "answer_file", false)
	if err != nil {
		controller.BadRequest(ctx, "Invalid upload", err)
		return
	}

	resp, err := c.importService.PreviewPDF(ctx.Request.Context(), questions, answers, ctx.PostForm("convention"), formBool(ctx, "explain"))
	if err != nil {
		controller.Fail(ctx, "Admin PreviewPDF", err)
		return
	}
	log.Info().Int("drafts", resp.Count).Str("convention", resp.Convention).Msg("PDF import previewed")
	ctx.JSON(http.StatusOK, resp)
}

// PreviewSpreadsheet godoc
// @Summary (Admin) Read question drafts from an .xlsx sheet
// @Description The first sheet needs a content column. Options, answer, explanation and passage columns are optional.
// @Tags Admin - Import
// @Accept multipart/form-data
// @Produce json
// @Security BearerAuth
// @Param file formData file true "Spreadsheet (.xlsx)"
// @Param explain formData bool false "Draft missing explanations with the LLM"
// @Success 200 {object} dto.ImportPreviewResponse
// @Failure 400 {object} dto.ErrorResponse "Missing file or no questions read"
// @Router /admin/import/xlsx [post]
func (c *ImportController) PreviewSpreadsheet(ctx *gin.Context) {
	header, err := ctx.FormFile("file")
	if err != nil {
		controller.BadRequest(ctx, "Invalid upload", err)
		return
	}
	f, err := header.Open()
	if err != nil {
		controller.BadRequest(ctx, "Invalid upload", err)
		return
	}
	defer f.Close()

	resp, err := c.importService.PreviewSpreadsheet(ctx.Request.Context(), io.LimitReader(f, maxUploadBytes), formBool(ctx, "explain"))
	if err != nil {
		controller.Fail(ctx, "Admin PreviewSpreadsheet", err)
		return
	}
	ctx.JSON(http.StatusOK, resp)
}

// Commit godoc
// @Summary (Admin) Save reviewed drafts as a new paper
// @Description Creates the paper and all of its questions in one transaction. Send either reviewed drafts or raw text.
// @Tags Admin - Import
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.ImportCommitRequest true "Paper metadata and drafts"
// @Success 201 {object} dto.ImportCommitResponse
// @Failure 400 {object} dto.ErrorResponse "Invalid drafts or no questions parsed"
// @Router /admin/import/commit [post]
func (c *ImportController) Commit(ctx *gin.Context) {
	var req dto.ImportCommitRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		controller.BadRequest(ctx, "Invalid request body", err)
		return
	}
	resp, err := c.importService.Commit(ctx.Request.Context(), req)
	if err != nil {
		controller.Fail(ctx, "Admin CommitImport", err)
		return
	}
	ctx.JSON(http.StatusCreated, resp)
}

func readFormFile(ctx *gin.Context, field string, required bool) ([]byte, error) {
	header, err := ctx.FormFile(field)
	if err != nil {
		if !required && err == http.ErrMissingFile {
			return nil, nil
		}
		return nil, fmt.Errorf("%s: %w", field, err)
	}
	return readUpload(header)
}

func readUpload(header *multipart.FileHeader) ([]byte, error) {
	if header.Size > maxUploadBytes {
		return nil, fmt.Errorf("%s exceeds %d MB", header.Filename, maxUploadBytes>>20)
	}
	f, err := header.Open()
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return io.ReadAll(f)
}

func formBool(ctx *gin.Context, field string) bool {
	v, _ := strconv.ParseBool(ctx.PostForm(field))
	return v
}
