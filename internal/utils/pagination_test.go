package utils

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
)

func paginationContext(query string) *gin.Context {
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = httptest.NewRequest(http.MethodGet, "/api/memorias/jardin/1"+query, nil)
	return c
}

func TestGetPaginationParams(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		name  string
		query string
		want  PaginationParams
	}{
		{"defaults", "", PaginationParams{Page: 1, Limit: 20, Offset: 0}},
		{"explicit", "?page=3&limit=10", PaginationParams{Page: 3, Limit: 10, Offset: 20}},
		{"page below minimum", "?page=0&limit=5", PaginationParams{Page: 1, Limit: 5, Offset: 0}},
		{"limit above maximum", "?page=2&limit=500", PaginationParams{Page: 2, Limit: 20, Offset: 20}},
		{"garbage", "?page=abc&limit=xyz", PaginationParams{Page: 1, Limit: 20, Offset: 0}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, GetPaginationParams(paginationContext(tt.query)))
		})
	}
}

func TestHasPaginationQuery(t *testing.T) {
	gin.SetMode(gin.TestMode)

	require.False(t, HasPaginationQuery(paginationContext("")))
	require.True(t, HasPaginationQuery(paginationContext("?page=1")))
	require.True(t, HasPaginationQuery(paginationContext("?limit=5")))
}

func TestNewPaginationResponse(t *testing.T) {
	resp := NewPaginationResponse(PaginationParams{Page: 2, Limit: 10, Offset: 10}, 21)
	require.Equal(t, int64(3), resp.TotalPages)
	require.Equal(t, int64(21), resp.Total)

	empty := NewPaginationResponse(PaginationParams{Page: 1, Limit: 10}, 0)
	require.Equal(t, int64(0), empty.TotalPages)
}
