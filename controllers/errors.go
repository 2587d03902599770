package controllers

import (
	"errors"
	"strconv"

	"restaurant/pkg/resp"
	"restaurant/services"

	"github.com/gin-gonic/gin"
)

// respondError maps service errors onto the response envelope.
func respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrAuthRequired):
		resp.Unauthorized(c, err.Error())
	case errors.Is(err, services.ErrValidation):
		resp.BadRequest(c, err.Error())
	case errors.Is(err, services.ErrNotFound):
		resp.NotFound(c, err.Error())
	case errors.Is(err, services.ErrQuotaExceeded):
		resp.TooManyRequests(c, err.Error())
	case errors.Is(err, services.ErrUpstream):
		resp.BadGateway(c, err.Error())
	default:
		resp.ServerError(c, err)
	}
}

func paramID(c *gin.Context, name string) (uint, bool) {
	n, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || n == 0 {
		resp.BadRequest(c, "invalid "+name)
		return 0, false
	}
	return uint(n), true
}
