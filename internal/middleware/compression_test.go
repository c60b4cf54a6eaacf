package middleware

import (
	"compress/gzip"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRouter(cm *CompressionMiddleware) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(cm.Handler())
	r.GET("/large", func(c *gin.Context) {
		c.Data(http.StatusOK, "text/html; charset=utf-8", []byte(strings.Repeat("<div>chart</div>", 200)))
	})
	r.GET("/small", func(c *gin.Context) {
		c.JSON(http.StatusCreated, gin.H{"ok": true})
	})
	r.GET("/png", func(c *gin.Context) {
		c.Data(http.StatusOK, "image/png", make([]byte, 4096))
	})
	r.GET("/empty", func(c *gin.Context) {
		c.AbortWithStatus(http.StatusNoContent)
	})
	return r
}

func request(r http.Handler, path string, gzipped bool) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if gzipped {
		req.Header.Set("Accept-Encoding", "gzip, deflate")
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestCompressionMiddleware_CompressesLargeBodies(t *testing.T) {
	cm := NewCompressionMiddleware(DefaultCompressionConfig())
	w := request(newRouter(cm), "/large", true)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "gzip", w.Header().Get("Content-Encoding"))
	assert.Contains(t, w.Header().Values("Vary"), "Accept-Encoding")

	gz, err := gzip.NewReader(w.Body)
	require.NoError(t, err)
	body, err := io.ReadAll(gz)
	require.NoError(t, err)
	assert.Equal(t, strings.Repeat("<div>chart</div>", 200), string(body))

	stats := cm.GetStats()
	assert.Equal(t, int64(1), stats["compressed_requests"])
	assert.Less(t, stats["compression_ratio"].(float64), 1.0)
}

func TestCompressionMiddleware_PassThrough(t *testing.T) {
	tests := []struct {
		name       string
		path       string
		gzipped    bool
		wantStatus int
	}{
		{name: "client without gzip", path: "/large", gzipped: false, wantStatus: http.StatusOK},
		{name: "below size threshold", path: "/small", gzipped: true, wantStatus: http.StatusCreated},
		{name: "binary content type", path: "/png", gzipped: true, wantStatus: http.StatusOK},
		{name: "no body", path: "/empty", gzipped: true, wantStatus: http.StatusNoContent},
		{name: "unknown route", path: "/missing", gzipped: true, wantStatus: http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := newRouter(NewCompressionMiddleware(DefaultCompressionConfig()))
			w := request(r, tt.path, tt.gzipped)

			assert.Equal(t, tt.wantStatus, w.Code)
			assert.Empty(t, w.Header().Get("Content-Encoding"))
		})
	}
}

func TestCompressionMiddleware_SmallJSONBodyIntact(t *testing.T) {
	w := request(newRouter(NewCompressionMiddleware(DefaultCompressionConfig())), "/small", true)
	assert.JSONEq(t, `{"ok":true}`, w.Body.String())
}
