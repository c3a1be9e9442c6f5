// Package handler wires the HTTP surface. Each resource handler owns its
// route registration; authorization decisions are delegated to the access
// package and translated here into 401/403 responses.
package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"reviewhub/internal/http-api/access"
	"reviewhub/internal/http-api/middleware"
	"reviewhub/internal/http-api/service"
	"reviewhub/internal/http-api/validation"
)

// authorize runs the access check and writes the deny response itself.
// Callers bail out when it returns false.
func authorize(c *gin.Context, kind access.Kind, action access.Action, ownerID string) bool {
	switch access.Authorize(middleware.Actor(c), kind, action, ownerID) {
	case access.Allow:
		return true
	case access.Unauthenticated:
		c.JSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
	default:
		c.JSON(http.StatusForbidden, gin.H{"error": "permission denied"})
	}
	c.Abort()
	return false
}

// writeServiceError maps the service error taxonomy onto HTTP statuses.
// Everything unmatched is a 500 without leaking internals.
func writeServiceError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrUserNotFound),
		errors.Is(err, service.ErrTitleNotFound),
		errors.Is(err, service.ErrReviewNotFound),
		errors.Is(err, service.ErrCommentNotFound),
		errors.Is(err, service.ErrCategoryNotFound),
		errors.Is(err, service.ErrGenreNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrUsernameInUse),
		errors.Is(err, service.ErrEmailInUse),
		errors.Is(err, service.ErrSlugInUse),
		errors.Is(err, service.ErrDuplicateReview):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, validation.ErrOutOfRange),
		errors.Is(err, validation.ErrReserved),
		errors.Is(err, service.ErrUnknownRole),
		errors.Is(err, service.ErrInvalidCode):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}

// pagination reads ?page and ?page_size with sane bounds.
func pagination(c *gin.Context) (page, pageSize int) {
	page, _ = strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ = strconv.Atoi(c.DefaultQuery("page_size", "20"))

	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 100 {
		pageSize = 20
	}
	return page, pageSize
}

// pathID parses a numeric path parameter, writing the 400 itself on
// garbage input.
func pathID(c *gin.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid " + name})
		return 0, false
	}
	return id, true
}
