package middleware

import (
	"io"
	"strings"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/klauspost/compress/gzip"
)

var gzipPool = sync.Pool{
	New: func() any {
		w, _ := gzip.NewWriterLevel(nil, gzip.DefaultCompression)
		return w
	},
}

type gzipWriter struct {
	gin.ResponseWriter
	writer  *gzip.Writer
	written bool
}

func (g *gzipWriter) Write(data []byte) (int, error) {
	g.written = true
	g.Header().Del("Content-Length")
	return g.writer.Write(data)
}

func (g *gzipWriter) WriteString(s string) (int, error) {
	return g.Write([]byte(s))
}

func (g *gzipWriter) WriteHeader(code int) {
	g.Header().Del("Content-Length")
	g.ResponseWriter.WriteHeader(code)
}

// Gzip compresses responses for clients that accept it. Preview documents
// and compile payloads are large and highly compressible.
func Gzip(skipPaths ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !acceptsGzip(c) || skipped(c.Request.URL.Path, skipPaths) {
			c.Next()
			return
		}

		gz := gzipPool.Get().(*gzip.Writer)
		gz.Reset(c.Writer)

		c.Header("Content-Encoding", "gzip")
		c.Header("Vary", "Accept-Encoding")
		gw := &gzipWriter{ResponseWriter: c.Writer, writer: gz}
		c.Writer = gw

		defer func() {
			if gw.written {
				_ = gz.Close()
			} else {
				// Nothing written; an empty gzip stream would corrupt the body.
				gw.Header().Del("Content-Encoding")
				gz.Reset(io.Discard)
			}
			gzipPool.Put(gz)
		}()

		c.Next()
	}
}

func acceptsGzip(c *gin.Context) bool {
	if c.GetHeader("Upgrade") != "" {
		return false
	}
	return strings.Contains(c.GetHeader("Accept-Encoding"), "gzip")
}

func skipped(path string, prefixes []string) bool {
	for _, p := range prefixes {
		if strings.HasPrefix(path, p) {
			return true
		}
	}
	return false
}
