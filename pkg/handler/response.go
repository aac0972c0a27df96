package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"portfolio_tracker_back/pkg/middleware"
	"portfolio_tracker_back/pkg/service"
)

type Error struct {
	Message string `json:"message"`
}

type ValidationError struct {
	Message  string   `json:"message"`
	Required []string `json:"required"`
	Invalid  []string `json:"invalid,omitempty"`
}

func newErrorResponse(c *gin.Context, statusCode int, message string) {
	logrus.WithFields(logrus.Fields{
		"path":   c.FullPath(),
		"status": statusCode,
	}).Error(message)
	c.AbortWithStatusJSON(statusCode, Error{Message: message})
}

func wrapOkJSON(c *gin.Context, response map[string]interface{}) {
	c.JSON(http.StatusOK, response)
}

// bindJSON decodes the body into dst. Validation failures are answered with
// 400 listing missing fields under required and the rest under invalid.
func bindJSON(c *gin.Context, dst interface{}) bool {
	err := c.ShouldBindJSON(dst)
	if err == nil {
		return true
	}

	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		resp := ValidationError{Message: "missing required fields", Required: []string{}}
		for _, fe := range verrs {
			if fe.Tag() == "required" {
				resp.Required = append(resp.Required, fe.Field())
			} else {
				resp.Invalid = append(resp.Invalid, fe.Field())
			}
		}
		if len(resp.Required) == 0 {
			resp.Message = "invalid fields"
		}
		logrus.WithFields(logrus.Fields{
			"required": resp.Required,
			"invalid":  resp.Invalid,
		}).Warn("request validation failed")
		c.AbortWithStatusJSON(http.StatusBadRequest, resp)
		return false
	}

	newErrorResponse(c, http.StatusBadRequest, "invalid request body")
	return false
}

// serviceError maps service errors onto HTTP statuses. Unknown errors are
// logged and reported as a generic 500.
func serviceError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrInvalidCredentials):
		newErrorResponse(c, http.StatusUnauthorized, service.ErrInvalidCredentials.Error())
	case errors.Is(err, service.ErrUsernameTaken):
		newErrorResponse(c, http.StatusConflict, service.ErrUsernameTaken.Error())
	case errors.Is(err, service.ErrPortfolioNotFound):
		newErrorResponse(c, http.StatusNotFound, service.ErrPortfolioNotFound.Error())
	case errors.Is(err, service.ErrUserNotFound):
		newErrorResponse(c, http.StatusNotFound, service.ErrUserNotFound.Error())
	case errors.Is(err, service.ErrInvalidUsername):
		newErrorResponse(c, http.StatusBadRequest, service.ErrInvalidUsername.Error())
	case errors.Is(err, service.ErrPasswordTooLong):
		newErrorResponse(c, http.StatusBadRequest, service.ErrPasswordTooLong.Error())
	case errors.Is(err, service.ErrInvalidAddress):
		newErrorResponse(c, http.StatusBadRequest, err.Error())
	default:
		logrus.WithError(err).WithField("path", c.FullPath()).Error("request failed")
		c.AbortWithStatusJSON(http.StatusInternalServerError, Error{Message: "internal server error"})
	}
}

func currentUser(c *gin.Context) (int64, bool) {
	id, ok := middleware.UserID(c)
	if !ok {
		newErrorResponse(c, http.StatusUnauthorized, "not authenticated")
	}
	return id, ok
}
