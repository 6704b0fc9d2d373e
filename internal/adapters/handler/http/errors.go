package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/comitanigiacomo/lifecommander/internal/adapters/handler/http/middleware"
	"github.com/comitanigiacomo/lifecommander/internal/core/domain"
)

type errorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

var validationErrors = []error{
	domain.ErrHabitTitleEmpty,
	domain.ErrHabitTitleTooLong,
	domain.ErrHabitDescTooLong,
	domain.ErrInvalidUserID,
	domain.ErrInvalidColor,
	domain.ErrInvalidFrequency,
	domain.ErrInvalidAnchor,
	domain.ErrInvalidHabitID,
	domain.ErrInvalidEntry,
	domain.ErrTimerLabelEmpty,
	domain.ErrTimerInvalidDuration,
}

func isValidation(err error) bool {
	for _, target := range validationErrors {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}

func handleError(c *gin.Context, log logrus.FieldLogger, err error) {
	switch {
	case isValidation(err):
		c.JSON(http.StatusBadRequest, errorResponse{Error: err.Error()})

	case errors.Is(err, domain.ErrUnauthorized):
		c.JSON(http.StatusForbidden, errorResponse{Error: "unauthorized access"})

	case errors.Is(err, domain.ErrHabitNotFound),
		errors.Is(err, domain.ErrEntryNotFound),
		errors.Is(err, domain.ErrTimerNotFound):
		c.JSON(http.StatusNotFound, errorResponse{Error: "resource not found"})

	case errors.Is(err, domain.ErrHabitConflict),
		errors.Is(err, domain.ErrEntryConflict),
		errors.Is(err, domain.ErrTimerConflict):
		c.JSON(http.StatusConflict, errorResponse{
			Error:   "version conflict",
			Message: "data has been modified elsewhere, please sync",
		})

	case errors.Is(err, domain.ErrInvalidTimerTransition):
		c.JSON(http.StatusConflict, errorResponse{Error: err.Error()})

	default:
		log.WithError(err).WithFields(logrus.Fields{
			"method": c.Request.Method,
			"path":   c.Request.URL.Path,
		}).Error("request failed")

		c.JSON(http.StatusInternalServerError, errorResponse{Error: "internal server error"})
	}
}

func requireUser(c *gin.Context) (string, bool) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, errorResponse{Error: "user context missing"})
	}
	return userID, ok
}

func withLogger(log logrus.FieldLogger) logrus.FieldLogger {
	if log == nil {
		return logrus.StandardLogger()
	}
	return log
}
