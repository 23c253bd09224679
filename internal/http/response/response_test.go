package response

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildPagination(t *testing.T) {
	p := BuildPagination(2, 20, 41)
	assert.Equal(t, Pagination{Page: 2, PageSize: 20, Total: 41, TotalPage: 3}, p)
	assert.Zero(t, BuildPagination(1, 0, 10).TotalPage)
}

func TestForbiddenCarriesRequestIDWithHTTP200(t *testing.T) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Set("request_id", "req-1")

	Forbidden(c, "denied")

	require.Equal(t, http.StatusOK, w.Code)
	var body Envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, CodeForbidden, body.StatusCode)
	assert.Equal(t, "denied", body.Msg)
	assert.Equal(t, "req-1", body.RequestID)
	assert.Nil(t, body.Data)
}

func TestSuccessWithPageOmitsRequestID(t *testing.T) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Set("request_id", "req-2")

	SuccessWithPage(c, []string{"a"}, BuildPagination(1, 10, 1))

	var raw map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &raw))
	assert.Equal(t, float64(CodeOK), raw["status_code"])
	assert.NotContains(t, raw, "request_id")
	assert.Contains(t, raw, "pagination")
}

func TestAppErrorUnwrap(t *testing.T) {
	cause := errors.New("db down")
	err := NewError(CodeInternal, "error.order_create_failed", cause).WithData(map[string]int{"x": 1})
	assert.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), "code=500")
	assert.False(t, IsClientError(err.Code))
	assert.True(t, IsClientError(CodeConflict))
}
