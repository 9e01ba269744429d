// internal/utils/pagination_test.go
package utils

import (
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func paramsForQuery(t *testing.T, query string) PaginationParams {
	t.Helper()

	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = httptest.NewRequest("GET", "/items?"+query, nil)

	return GetPaginationParams(c)
}

func TestGetPaginationParamsDefaultsAndClamps(t *testing.T) {
	params := paramsForQuery(t, "")
	assert.Equal(t, 1, params.Page)
	assert.Equal(t, DefaultPageSize, params.Limit)
	assert.Equal(t, "created_at", params.Sort)
	assert.Equal(t, "desc", params.Order)

	params = paramsForQuery(t, "page=0&limit=5000&order=sideways")
	assert.Equal(t, 1, params.Page)
	assert.Equal(t, DefaultPageSize, params.Limit)
	assert.Equal(t, "desc", params.Order)
}

func TestGetPaginationParamsNormalizesFilters(t *testing.T) {
	params := paramsForQuery(t, "search=+sourdough+&category=Bakery")
	assert.Equal(t, "sourdough", params.Search)
	assert.Equal(t, "bakery", params.Category)
}

func TestCreatePaginationResultTotals(t *testing.T) {
	result := CreatePaginationResult([]string{}, 41, PaginationParams{Page: 3, Limit: 20})
	assert.Equal(t, 3, result.TotalPages)
	assert.EqualValues(t, 41, result.Total)

	result = CreatePaginationResult([]string{}, 0, PaginationParams{Page: 1})
	assert.Equal(t, 0, result.TotalPages)
}
