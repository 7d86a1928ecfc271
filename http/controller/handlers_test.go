package controller

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/bqtran/filevault/config"
	"github.com/bqtran/filevault/infra"
	"github.com/bqtran/filevault/repository"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

// testController wires just enough of the stack to exercise the handler
// validation paths that return before any store is touched.
func testController() *Controller {
	gin.SetMode(gin.TestMode)
	return NewController(
		&config.Config{EnvConfig: &config.EnvConfig{}},
		&infra.Infra{Logger: infra.NewConsoleLoggerClient()},
		&repository.Repository{},
	)
}

func testRouter(ctrl *Controller) *gin.Engine {
	r := gin.New()
	r.POST("/upload", ctrl.UploadFiles)
	r.GET("/download-multiple", ctrl.DownloadMultiple)
	return r
}

func TestUploadRejectsMissingMultipartForm(t *testing.T) {
	r := testRouter(testController())

	req := httptest.NewRequest(http.MethodPost, "/upload", nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestUploadRejectsEmptyBatch(t *testing.T) {
	r := testRouter(testController())

	body := "--boundary\r\n" +
		"Content-Disposition: form-data; name=\"note\"\r\n\r\n" +
		"no files here\r\n" +
		"--boundary--\r\n"
	req := httptest.NewRequest(http.MethodPost, "/upload", strings.NewReader(body))
	req.Header.Set("Content-Type", "multipart/form-data; boundary=boundary")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "No files provided")
}

func TestDownloadMultipleRejectsEmptyIDSet(t *testing.T) {
	r := testRouter(testController())

	for _, query := range []string{"", "?ids=", "?ids=abc,%20,"} {
		req := httptest.NewRequest(http.MethodGet, "/download-multiple"+query, nil)
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code, "query %q", query)
	}
}
