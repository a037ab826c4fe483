package httpapi

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"eventcore/internal/domain"
	"eventcore/internal/infrastructure/i18n"
)

var statusByCode = map[string]int{
	domain.CodeEventNotFound:      http.StatusNotFound,
	domain.CodeEventEnded:         http.StatusConflict,
	domain.CodeCapacityExceeded:   http.StatusConflict,
	domain.CodeInvalidSpec:        http.StatusBadRequest,
	domain.CodeStorageUnavailable: http.StatusServiceUnavailable,
	domain.CodeUnauthenticated:    http.StatusUnauthorized,
	domain.CodeForbidden:          http.StatusForbidden,
}

type errorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// respondError writes err as {"error": {"code", "message"}} with the message
// localized from the request's Accept-Language header.
func (s *Server) respondError(c *gin.Context, err error) {
	code := domain.Code(err)
	status, ok := statusByCode[code]
	if !ok {
		status = http.StatusInternalServerError
	}
	if status >= http.StatusInternalServerError {
		s.logger.Error("request failed", "method", c.Request.Method, "path", c.FullPath(), "error", err)
	}
	c.AbortWithStatusJSON(status, gin.H{"error": errorBody{
		Code:    code,
		Message: i18n.ErrorMessage(s.translator, c.GetHeader("Accept-Language"), err),
	}})
}
