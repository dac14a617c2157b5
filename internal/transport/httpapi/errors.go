package httpapi

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"

	"github.com/vladislavdragonenkov/wms/internal/domain"
)

const (
	codeNotFound        = "not_found"
	codeInvalidArgument = "invalid_argument"
	codeConflict        = "conflict"
	codeInternal        = "internal"
)

type errorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

// statusFor сопоставляет доменную ошибку с HTTP-статусом.
func statusFor(err error) (int, string) {
	switch {
	case domain.IsNotFound(err):
		return http.StatusNotFound, codeNotFound
	case domain.IsInvalidArgument(err):
		return http.StatusBadRequest, codeInvalidArgument
	case domain.IsConflict(err):
		return http.StatusConflict, codeConflict
	default:
		return http.StatusInternalServerError, codeInternal
	}
}

func writeError(c *gin.Context, logger *log.Entry, err error) {
	status, code := statusFor(err)
	message := err.Error()
	if status == http.StatusInternalServerError {
		logger.WithError(err).WithField("request_id", c.GetString(ctxRequestID)).Error("request failed")
		message = "internal server error"
	}
	_ = c.Error(err)
	c.AbortWithStatusJSON(status, errorResponse{Error: message, Code: code})
}

func bindJSON(c *gin.Context, dst any) error {
	if err := c.ShouldBindJSON(dst); err != nil {
		return fmt.Errorf("%w: malformed JSON body: %v", domain.ErrInvalidArgument, err)
	}
	return nil
}
