package utils

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJSONResponseStatuses(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		name string
		call func(c *gin.Context)
		want int
		body string
	}{
		{"ok", func(c *gin.Context) { JSON200(c, gin.H{"count": 3}) }, http.StatusOK, `"count":3`},
		{"bad request", func(c *gin.Context) { JSON400(c, "No files provided") }, http.StatusBadRequest, "No files provided"},
		{"not found", func(c *gin.Context) { JSON404(c, "File not found") }, http.StatusNotFound, "File not found"},
		{"too many requests", func(c *gin.Context) { JSON429(c, "Too many failed attempts") }, http.StatusTooManyRequests, "Too many failed attempts"},
		{"internal error", func(c *gin.Context) { JSON500(c, "Failed to delete file") }, http.StatusInternalServerError, "Failed to delete file"},
		{"unavailable", func(c *gin.Context) { JSON503(c, gin.H{"postgres": "down"}) }, http.StatusServiceUnavailable, `"postgres":"down"`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(rec)

			tt.call(c)

			require.Equal(t, tt.want, rec.Code)
			assert.Contains(t, rec.Body.String(), tt.body)
		})
	}
}
