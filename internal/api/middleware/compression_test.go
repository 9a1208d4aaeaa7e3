package middleware

import (
	"bytes"
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

func TestCompression(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		name              string
		acceptEncoding    string
		contentType       string
		responseSize      int
		expectCompression bool
	}{
		{name: "large JSON", acceptEncoding: "gzip, deflate", contentType: "application/json", responseSize: 4096, expectCompression: true},
		{name: "small JSON", acceptEncoding: "gzip", contentType: "application/json", responseSize: 512, expectCompression: false},
		{name: "client without gzip", acceptEncoding: "", contentType: "application/json", responseSize: 4096, expectCompression: false},
		{name: "parquet passthrough", acceptEncoding: "gzip", contentType: "application/vnd.apache.parquet", responseSize: 4096, expectCompression: false},
		{name: "image passthrough", acceptEncoding: "gzip", contentType: "image/png", responseSize: 4096, expectCompression: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := gin.New()
			r.Use(Compression(DefaultCompressionConfig()))

			data := strings.Repeat("a", tt.responseSize)
			r.GET("/test", func(c *gin.Context) {
				c.Data(http.StatusOK, tt.contentType, []byte(data))
			})

			w := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodGet, "/test", nil)
			if tt.acceptEncoding != "" {
				req.Header.Set("Accept-Encoding", tt.acceptEncoding)
			}
			r.ServeHTTP(w, req)

			require.Equal(t, http.StatusOK, w.Code)
			if !tt.expectCompression {
				assert.NotEqual(t, "gzip", w.Header().Get("Content-Encoding"))
				assert.Equal(t, data, w.Body.String())
				return
			}

			assert.Equal(t, "gzip", w.Header().Get("Content-Encoding"))
			reader, err := gzip.NewReader(bytes.NewReader(w.Body.Bytes()))
			require.NoError(t, err)
			defer reader.Close()
			decompressed, err := io.ReadAll(reader)
			require.NoError(t, err)
			assert.Equal(t, data, string(decompressed))
		})
	}
}

func TestCompressedRequest(t *testing.T) {
	gin.SetMode(gin.TestMode)

	r := gin.New()
	r.Use(Compression(DefaultCompressionConfig()))
	r.POST("/test", func(c *gin.Context) {
		body, err := io.ReadAll(c.Request.Body)
		assert.NoError(t, err)
		c.String(http.StatusOK, string(body))
	})

	var buf bytes.Buffer
	gz := gzip.NewWriter(&buf)
	_, err := gz.Write([]byte(`{"job":"etl"}`))
	require.NoError(t, err)
	require.NoError(t, gz.Close())

	t.Run("valid body", func(t *testing.T) {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/test", bytes.NewReader(buf.Bytes()))
		req.Header.Set("Content-Encoding", "gzip")
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, `{"job":"etl"}`, w.Body.String())
	})

	t.Run("invalid body", func(t *testing.T) {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/test", strings.NewReader("not gzipped data"))
		req.Header.Set("Content-Encoding", "gzip")
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}
