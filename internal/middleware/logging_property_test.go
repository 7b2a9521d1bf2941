package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

// Every request produces exactly one completion log carrying method, path,
// status, and duration.
func TestProperty_RequestLogging(t *testing.T) {
	properties := gopter.NewProperties(nil)

	properties.Property("all requests are logged with required fields", prop.ForAll(
		func(pathSuffix string, status int) bool {
			core, logs := observer.New(zapcore.InfoLevel)
			logger := zap.New(core)

			gin.SetMode(gin.TestMode)
			router := gin.New()
			router.Use(RequestLoggingMiddleware(logger))

			path := "/probe/" + pathSuffix
			router.GET(path, func(c *gin.Context) {
				c.Status(status)
			})

			req := httptest.NewRequest(http.MethodGet, path, nil)
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			entries := logs.All()
			if len(entries) != 1 {
				return false
			}

			fields := entries[0].ContextMap()
			if fields["method"] != http.MethodGet || fields["path"] != path {
				return false
			}
			if fields["status"] != int64(status) {
				return false
			}
			_, hasDuration := fields["duration"]
			return hasDuration
		},
		gen.RegexMatch("[a-z]{1,8}"),
		gen.OneConstOf(http.StatusOK, http.StatusCreated, http.StatusNoContent),
	))

	properties.TestingRun(t)
}

func TestRequestLogging_StatusSelectsLevel(t *testing.T) {
	tests := []struct {
		status int
		level  zapcore.Level
	}{
		{http.StatusOK, zapcore.InfoLevel},
		{http.StatusNotFound, zapcore.WarnLevel},
		{http.StatusInternalServerError, zapcore.ErrorLevel},
	}

	for _, tt := range tests {
		core, logs := observer.New(zapcore.InfoLevel)
		logger := zap.New(core)

		gin.SetMode(gin.TestMode)
		router := gin.New()
		router.Use(RequestLoggingMiddleware(logger))
		router.GET("/x", func(c *gin.Context) { c.Status(tt.status) })

		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/x", nil))

		entries := logs.All()
		require.Len(t, entries, 1, "status %d", tt.status)
		assert.Equal(t, tt.level, entries[0].Level, "status %d", tt.status)
	}
}

func TestRequestIDMiddleware_GeneratesAndEchoes(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(RequestIDMiddleware())
	router.GET("/x", func(c *gin.Context) { c.Status(http.StatusOK) })

	// Generated when absent
	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/x", nil))
	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))

	// Echoed when supplied
	req := httptest.NewRequest(http.MethodGet, "/x", nil)
	req.Header.Set("X-Request-ID", "fixed-id")
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, "fixed-id", w.Header().Get("X-Request-ID"))
}

func TestRecoveryMiddleware_Returns500(t *testing.T) {
	core, logs := observer.New(zapcore.ErrorLevel)
	logger := zap.New(core)

	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(RecoveryMiddleware(logger))
	router.GET("/boom", func(c *gin.Context) { panic("kaboom") })

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/boom", nil))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Contains(t, w.Body.String(), "INTERNAL_ERROR")
	require.NotEmpty(t, logs.All())
	assert.Equal(t, "Panic recovered", logs.All()[0].Message)
}
