package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/studybuddy/backend/internal/domain"
)

type ErrorResponse struct {
	Error string `json:"error"`
}

// statusFor maps domain sentinel errors to HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, domain.ErrUserNotFound),
		errors.Is(err, domain.ErrReachOutNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrEmailTaken):
		return http.StatusConflict
	case errors.Is(err, domain.ErrWrongPassword),
		errors.Is(err, domain.ErrEmailNotVerified):
		return http.StatusUnauthorized
	case errors.Is(err, domain.ErrWrongDesign),
		errors.Is(err, domain.ErrNotParticipant):
		return http.StatusForbidden
	case errors.Is(err, domain.ErrReachOutLimit):
		return http.StatusTooManyRequests
	case errors.Is(err, domain.ErrInvalidInput),
		errors.Is(err, domain.ErrInvalidToken),
		errors.Is(err, domain.ErrSetupIncomplete),
		errors.Is(err, domain.ErrSetupComplete),
		errors.Is(err, domain.ErrProfileIncomplete),
		errors.Is(err, domain.ErrSurveyIncomplete),
		errors.Is(err, domain.ErrSelfTarget),
		errors.Is(err, domain.ErrAlreadyRated),
		errors.Is(err, domain.ErrInappropriateText):
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}

// respondError writes the JSON error body for err. Internal errors get
// a generic message so repository details never leak to clients.
func respondError(c *gin.Context, err error) {
	status := statusFor(err)
	message := err.Error()
	if status == http.StatusInternalServerError {
		message = "internal server error"
	}
	c.JSON(status, ErrorResponse{Error: message})
}

// currentUserID reads the user id stored by the auth middleware.
func currentUserID(c *gin.Context) (int, bool) {
	userID, exists := c.Get("user_id")
	if !exists {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
		return 0, false
	}
	return userID.(int), true
}
