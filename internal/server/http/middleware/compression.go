package middleware

import (
	"compress/gzip"
	"io"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/polkiloo/restaurant/internal/server/http/dto"
)

// MalformedBodyMessage answers request bodies that cannot be read at all.
const MalformedBodyMessage = "Malformed request body."

// DecompressRequest transparently handles gzip encoded requests.
// Bodies are capped at maxBytes after decompression; zero disables the cap.
func DecompressRequest(maxBytes int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !strings.Contains(c.GetHeader("Content-Encoding"), "gzip") {
			if maxBytes > 0 && c.Request.Body != nil {
				c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBytes)
			}
			c.Next()
			return
		}

		originalBody := c.Request.Body
		reader, err := gzip.NewReader(originalBody)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusBadRequest, dto.Response{Success: false, Message: MalformedBodyMessage})
			return
		}
		defer reader.Close()
		defer originalBody.Close()

		var body io.ReadCloser = io.NopCloser(reader)
		if maxBytes > 0 {
			body = http.MaxBytesReader(c.Writer, body, maxBytes)
		}
		c.Request.Body = body
		c.Request.Header.Del("Content-Encoding")
		c.Request.ContentLength = -1
		c.Next()
	}
}
