// Package controller holds helpers shared by the admin and user HTTP handlers.
package controller

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/lshigami/examprep/internal/dto"
	"github.com/lshigami/examprep/internal/service"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

// StatusFor maps a service error onto an HTTP status.
func StatusFor(err error) int {
	switch {
	case errors.Is(err, service.ErrUnauthenticated), errors.Is(err, service.ErrInvalidCredentials):
		return http.StatusUnauthorized
	case errors.Is(err, service.ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, service.ErrUserNotFound),
		errors.Is(err, service.ErrQuestionNotFound),
		errors.Is(err, service.ErrPaperNotFound),
		errors.Is(err, service.ErrRecordNotFound),
		errors.Is(err, gorm.ErrRecordNotFound):
		return http.StatusNotFound
	case errors.Is(err, service.ErrAccountExists), errors.Is(err, service.ErrConflict):
		return http.StatusConflict
	case errors.Is(err, service.ErrInvalidInput), errors.Is(err, service.ErrNoQuestionsParsed):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// Fail writes err as a dto.ErrorResponse. Internal errors are logged and their text hidden.
func Fail(ctx *gin.Context, op string, err error) {
	status := StatusFor(err)
	if status == http.StatusInternalServerError {
		log.Error().Err(err).Str("op", op).Msg("Service error")
		ctx.JSON(status, dto.ErrorResponse{Message: "internal server error"})
		return
	}
	log.Warn().Err(err).Str("op", op).Int("status", status).Msg("Request rejected")
	ctx.JSON(status, dto.ErrorResponse{Message: err.Error()})
}

// BadRequest reports a binding or parameter error.
func BadRequest(ctx *gin.Context, message string, err error) {
	resp := dto.ErrorResponse{Message: message}
	if err != nil {
		resp.Details = []string{err.Error()}
	}
	ctx.JSON(http.StatusBadRequest, resp)
}

// ParamID parses a positive integer path parameter, writing a 400 when it is malformed.
func ParamID(ctx *gin.Context, name string) (uint, bool) {
	val, err := strconv.ParseUint(ctx.Param(name), 10, 32)
	if err != nil || val == 0 {
		BadRequest(ctx, "Invalid "+name+" format", nil)
		return 0, false
	}
	return uint(val), true
}

// OptionalQueryID parses an optional integer query parameter.
func OptionalQueryID(ctx *gin.Context, name string) (*uint, bool) {
	raw := ctx.Query(name)
	if raw == "" {
		return nil, true
	}
	val, err := strconv.ParseUint(raw, 10, 32)
	if err != nil {
		BadRequest(ctx, "Invalid "+name+" format in query", nil)
		return nil, false
	}
	id := uint(val)
	return &id, true
}

// QueryInt reads an integer query parameter, returning def when it is absent or malformed.
func QueryInt(ctx *gin.Context, name string, def int) int {
	raw := ctx.Query(name)
	if raw == "" {
		return def
	}
	val, err := strconv.Atoi(raw)
	if err != nil || val < 0 {
		return def
	}
	return val
}
