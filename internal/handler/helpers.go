package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/xxxsen/common/logutil"
	"go.uber.org/zap"

	"github.com/inkboard/inkboard/internal/pkg/errcode"
	appErr "github.com/inkboard/inkboard/internal/pkg/errors"
	"github.com/inkboard/inkboard/internal/pkg/response"
)

func getUserID(c *gin.Context) string {
	value, _ := c.Get("user_id")
	userID, _ := value.(string)
	return userID
}

func handleError(c *gin.Context, err error) {
	if err == nil {
		return
	}
	logutil.GetLogger(c.Request.Context()).Error("request failed",
		zap.String("method", c.Request.Method),
		zap.String("path", c.Request.URL.Path),
		zap.String("user_id", getUserID(c)),
		zap.Error(err),
	)
	switch {
	case appErr.IsNotFound(err):
		response.Error(c, errcode.ErrNotFound, "not found")
	case err == appErr.ErrUnauthorized:
		response.Error(c, errcode.ErrUnauthorized, "unauthorized")
	case err == appErr.ErrForbidden:
		response.Error(c, errcode.ErrForbidden, "forbidden")
	case err == appErr.ErrInvalid:
		response.Error(c, errcode.ErrInvalid, "invalid request")
	case appErr.IsConflict(err):
		response.Error(c, errcode.ErrConflict, "conflict")
	default:
		response.Error(c, errcode.ErrInternal, "internal error")
	}
}

func requestBaseURL(c *gin.Context) string {
	proto := c.GetHeader("X-Forwarded-Proto")
	if proto == "" {
		if c.Request.TLS != nil {
			proto = "https"
		} else {
			proto = "http"
		}
	}
	host := c.GetHeader("X-Forwarded-Host")
	if host == "" {
		host = c.Request.Host
	}
	return proto + "://" + host
}
