package controller

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/lshigami/examprep/internal/service"
	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"
)

func TestStatusFor(t *testing.T) {
	cases := []struct {
		err  error
		want int
	}{
		{service.ErrUnauthenticated, http.StatusUnauthorized},
		{service.ErrInvalidCredentials, http.StatusUnauthorized},
		{service.ErrForbidden, http.StatusForbidden},
		{service.ErrPaperNotFound, http.StatusNotFound},
		{fmt.Errorf("loading: %w", gorm.ErrRecordNotFound), http.StatusNotFound},
		{service.ErrAccountExists, http.StatusConflict},
		{service.ErrConflict, http.StatusConflict},
		{fmt.Errorf("%w: bad type", service.ErrInvalidInput), http.StatusBadRequest},
		{service.ErrNoQuestionsParsed, http.StatusBadRequest},
		{errors.New("disk on fire"), http.StatusInternalServerError},
	}
	for _, c := range cases {
		assert.Equal(t, c.want, StatusFor(c.err), c.err.Error())
	}
}

func serve(handler gin.HandlerFunc, route, target string) *httptest.ResponseRecorder {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET(route, handler)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, target, nil))
	return w
}

func TestFailHidesInternalErrors(t *testing.T) {
	w := serve(func(c *gin.Context) { Fail(c, "test", errors.New("pq: connection refused")) }, "/", "/")
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.JSONEq(t, `{"message":"internal server error"}`, w.Body.String())

	w = serve(func(c *gin.Context) { Fail(c, "test", service.ErrQuestionNotFound) }, "/", "/")
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.JSONEq(t, fmt.Sprintf(`{"message":%q}`, service.ErrQuestionNotFound.Error()), w.Body.String())
}

func TestParamID(t *testing.T) {
	handler := func(c *gin.Context) {
		id, ok := ParamID(c, "id")
		if ok {
			c.JSON(http.StatusOK, gin.H{"id": id})
		}
	}

	w := serve(handler, "/items/:id", "/items/42")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"id":42}`, w.Body.String())

	for _, bad := range []string{"0", "-3", "abc"} {
		w = serve(handler, "/items/:id", "/items/"+bad)
		assert.Equal(t, http.StatusBadRequest, w.Code, bad)
	}
}

func TestQueryHelpers(t *testing.T) {
	handler := func(c *gin.Context) {
		id, ok := OptionalQueryID(c, "paper_id")
		if !ok {
			return
		}
		c.JSON(http.StatusOK, gin.H{"has_id": id != nil, "limit": QueryInt(c, "limit", 20)})
	}

	w := serve(handler, "/", "/?limit=5&paper_id=3")
	assert.JSONEq(t, `{"has_id":true,"limit":5}`, w.Body.String())

	w = serve(handler, "/", "/?limit=-1")
	assert.JSONEq(t, `{"has_id":false,"limit":20}`, w.Body.String())

	w = serve(handler, "/", "/?paper_id=x")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
