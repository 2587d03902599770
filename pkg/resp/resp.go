package resp

import (
	"net/http"

	"restaurant/utils"

	"github.com/gin-gonic/gin"
)

func OK(c *gin.Context, data any) {
	c.JSON(http.StatusOK, gin.H{"ok": true, "data": data})
}
func Created(c *gin.Context, data any) {
	c.JSON(http.StatusCreated, gin.H{"ok": true, "data": data})
}
func BadRequest(c *gin.Context, msg string) {
	c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": msg})
}
func Unauthorized(c *gin.Context, msg string) {
	c.JSON(http.StatusUnauthorized, gin.H{"ok": false, "error": msg})
}
func Forbidden(c *gin.Context, msg string) {
	c.JSON(http.StatusForbidden, gin.H{"ok": false, "error": msg})
}
func NotFound(c *gin.Context, msg string) {
	c.JSON(http.StatusNotFound, gin.H{"ok": false, "error": msg})
}
func TooManyRequests(c *gin.Context, msg string) {
	c.JSON(http.StatusTooManyRequests, gin.H{"ok": false, "error": msg})
}
func BadGateway(c *gin.Context, msg string) {
	c.JSON(http.StatusBadGateway, gin.H{"ok": false, "error": msg})
}

// ServerError hides err from the client; it is attached to the context for
// the request logger. The request id lets a client report the failure.
func ServerError(c *gin.Context, err error) {
	_ = c.Error(err)
	body := gin.H{"ok": false, "error": "internal server error"}
	if id := utils.RequestID(c); id != "" {
		body["requestId"] = id
	}
	c.JSON(http.StatusInternalServerError, body)
}
