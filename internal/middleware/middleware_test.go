package middleware

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
)

func TestRequestLoggerLevels(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		name      string
		status    int
		wantLevel string
	}{
		{name: "ok", status: http.StatusOK, wantLevel: `"level":"debug"`},
		{name: "not found", status: http.StatusNotFound, wantLevel: `"level":"warn"`},
		{name: "server error", status: http.StatusInternalServerError, wantLevel: `"level":"error"`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			router := gin.New()
			router.Use(RequestLogger(zerolog.New(&buf).Level(zerolog.DebugLevel)))
			router.GET("/x", func(c *gin.Context) { c.Status(tt.status) })

			router.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/x", nil))

			assert.Contains(t, buf.String(), tt.wantLevel)
			assert.Contains(t, buf.String(), `"path":"/x"`)
		})
	}
}
