package middlewares

import (
	"strconv"
	"time"

	"restaurant/pkg/metrics"
	"restaurant/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

const RequestIDHeader = "X-Request-ID"

// RequestLogger tags each request with an id, logs it on completion and
// records HTTP metrics under the route pattern.
func RequestLogger(log logrus.FieldLogger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		reqID := c.GetHeader(RequestIDHeader)
		if reqID == "" {
			reqID = uuid.NewString()
		}
		c.Set(utils.CtxRequestID, reqID)
		c.Header(RequestIDHeader, reqID)

		c.Next()

		took := time.Since(start)
		status := c.Writer.Status()
		path := c.FullPath()
		if path == "" {
			path = "unmatched"
		}
		metrics.RecordHTTPRequest(c.Request.Method, path, strconv.Itoa(status), took)

		entry := log.WithFields(logrus.Fields{
			"request_id": reqID,
			"method":     c.Request.Method,
			"path":       path,
			"status":     status,
			"took":       took,
		})
		if id := utils.CurrentUserID(c); id != 0 {
			entry = entry.WithField("user_id", id)
		}
		if len(c.Errors) > 0 {
			entry = entry.WithField("errors", c.Errors.String())
		}

		switch {
		case status >= 500:
			entry.Error("request failed")
		case len(c.Errors) > 0 || status >= 400:
			entry.Warn("request rejected")
		default:
			entry.Info("request")
		}
	}
}
