package validation

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/deppfellow/bizlist/internal/errs"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type ratingRequest struct {
	Name   string   `json:"name" validate:"required"`
	Rating *float64 `json:"rating" validate:"omitempty,gte=0,lte=5"`
}

func (r *ratingRequest) Validate() error {
	return Struct(r)
}

type customRequest struct{}

func (r *customRequest) Validate() error {
	return CustomValidationErrors{{Field: "path", Message: "must not be blank"}}
}

func newContext(body string) echo.Context {
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	return echo.New().NewContext(req, httptest.NewRecorder())
}

func TestBindAndValidate_UsesJSONFieldNames(t *testing.T) {
	err := BindAndValidate(newContext(`{"rating": 5.0001}`), &ratingRequest{})

	var httpErr *errs.HTTPError
	require.ErrorAs(t, err, &httpErr)
	assert.Equal(t, http.StatusBadRequest, httpErr.Status)
	assert.ElementsMatch(t, []errs.FieldError{
		{Field: "name", Error: "is required"},
		{Field: "rating", Error: "must be less than or equal to 5"},
	}, httpErr.Errors)
}

func TestBindAndValidate_AcceptsBoundary(t *testing.T) {
	req := &ratingRequest{}
	require.NoError(t, BindAndValidate(newContext(`{"name":"Cafe","rating":5.0}`), req))
	assert.Equal(t, 5.0, *req.Rating)
}

func TestBindAndValidate_MalformedBody(t *testing.T) {
	err := BindAndValidate(newContext(`{"name":`), &ratingRequest{})

	var httpErr *errs.HTTPError
	require.ErrorAs(t, err, &httpErr)
	assert.Equal(t, http.StatusBadRequest, httpErr.Status)
	assert.NotEmpty(t, httpErr.Message)
}

func TestBindAndValidate_CustomErrors(t *testing.T) {
	err := BindAndValidate(newContext(`{}`), &customRequest{})

	var httpErr *errs.HTTPError
	require.ErrorAs(t, err, &httpErr)
	assert.Equal(t, []errs.FieldError{{Field: "path", Error: "must not be blank"}}, httpErr.Errors)
}

func TestIsValidUUID(t *testing.T) {
	assert.True(t, IsValidUUID("3f2b6c1e-8a4d-4c2e-9b7a-1d2e3f4a5b6c"))
	assert.False(t, IsValidUUID("not-a-uuid"))
}
