package api

import (
	"errors"
	"net/http"

	"alcyxob/group-fitness/internal/repository"
	"alcyxob/group-fitness/internal/service"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"
)

// statusForError maps service and repository errors to HTTP status codes.
func statusForError(err error) int {
	switch {
	case errors.Is(err, service.ErrValidationFailed):
		return http.StatusBadRequest
	case errors.Is(err, service.ErrAuthenticationFailed):
		return http.StatusUnauthorized
	case errors.Is(err, repository.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, service.ErrUserAlreadyExists):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// respondWithError aborts the request with the status mapped from err.
// Internal errors are logged and reported without details.
func respondWithError(c *gin.Context, err error) {
	code := statusForError(err)
	if code == http.StatusInternalServerError {
		log.Errorf("%s %s: %v", c.Request.Method, c.Request.URL.Path, err)
		abortWithError(c, code, "internal server error")
		return
	}
	abortWithError(c, code, err.Error())
}
