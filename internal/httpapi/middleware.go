package httpapi

import (
	"crypto/subtle"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/oggyb/habesha-match/internal/metrics"
)

// HeaderSecret carries the shared webhook secret.
const HeaderSecret = "X-Webhook-Secret"

// requestMetrics counts requests by method, route and status. The route is
// the registered pattern (c.FullPath) so label cardinality stays bounded;
// unmatched requests are counted under "unmatched".
func requestMetrics(m *metrics.Metrics) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		path := c.FullPath()
		if path == "" {
			path = "unmatched"
		}
		m.HTTPRequests.WithLabelValues(c.Request.Method, path, strconv.Itoa(c.Writer.Status())).Inc()
	}
}

func limitBody(n int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, n)
		c.Next()
	}
}

func requireSecret(secret string) gin.HandlerFunc {
	want := []byte(secret)
	return func(c *gin.Context) {
		got := []byte(c.GetHeader(HeaderSecret))
		if subtle.ConstantTimeCompare(got, want) != 1 {
			fail(c, http.StatusUnauthorized, codeUnauthorized, "invalid webhook secret")
			return
		}
		c.Next()
	}
}
