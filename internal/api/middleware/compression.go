package middleware

import (
	"bytes"
	"io"
	"net/http"
	"strings"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/klauspost/compress/gzip"
)

// Skip compression for these content types
var excludedContentTypes = []string{
	"image/",
	"video/",
	"audio/",
	"application/vnd.apache.parquet",
}

// CompressionConfig holds configuration for the compression middleware
type CompressionConfig struct {
	// Minimum body size that triggers compression
	MinLength int
	// Gzip level (1-9)
	Level int
}

// DefaultCompressionConfig compresses bodies of 1KB and more
func DefaultCompressionConfig() CompressionConfig {
	return CompressionConfig{
		MinLength: 1024,
		Level:     gzip.DefaultCompression,
	}
}

func shouldCompress(contentType string) bool {
	for _, excluded := range excludedContentTypes {
		if strings.HasPrefix(contentType, excluded) {
			return false
		}
	}
	return true
}

// Compression gzips responses for clients that accept it and inflates
// gzip request bodies
func Compression(cfg CompressionConfig) gin.HandlerFunc {
	pool := sync.Pool{New: func() interface{} {
		gz, err := gzip.NewWriterLevel(io.Discard, cfg.Level)
		if err != nil {
			gz = gzip.NewWriter(io.Discard)
		}
		return gz
	}}

	return func(c *gin.Context) {
		if c.GetHeader("Content-Encoding") == "gzip" {
			reader, err := gzip.NewReader(c.Request.Body)
			if err != nil {
				c.AbortWithStatus(http.StatusBadRequest)
				return
			}
			body, err := io.ReadAll(reader)
			reader.Close()
			if err != nil {
				c.AbortWithStatus(http.StatusBadRequest)
				return
			}
			c.Request.Body = io.NopCloser(bytes.NewReader(body))
			c.Request.Header.Del("Content-Encoding")
		}

		if !strings.Contains(c.GetHeader("Accept-Encoding"), "gzip") {
			c.Next()
			return
		}

		bw := &bufferedWriter{ResponseWriter: c.Writer}
		c.Writer = bw
		c.Header("Vary", "Accept-Encoding")

		c.Next()

		c.Writer = bw.ResponseWriter
		content := bw.buf.Bytes()
		if len(content) < cfg.MinLength || !shouldCompress(bw.Header().Get("Content-Type")) {
			bw.ResponseWriter.Write(content)
			return
		}

		gz := pool.Get().(*gzip.Writer)
		defer pool.Put(gz)
		gz.Reset(bw.ResponseWriter)

		bw.Header().Set("Content-Encoding", "gzip")
		bw.Header().Del("Content-Length")
		gz.Write(content)
		gz.Close()
	}
}

// bufferedWriter holds the body until the handler finishes so the size
// and content type are known before choosing an encoding
type bufferedWriter struct {
	gin.ResponseWriter
	buf bytes.Buffer
}

func (w *bufferedWriter) Write(data []byte) (int, error) {
	return w.buf.Write(data)
}

func (w *bufferedWriter) WriteString(s string) (int, error) {
	return w.buf.WriteString(s)
}
