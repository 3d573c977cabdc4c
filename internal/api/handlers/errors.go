package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/jafarshop/compras/pkg/errors"
)

// respondError maps a service error onto the HTTP response
func respondError(c *gin.Context, logger *zap.Logger, msg string, err error) {
	var (
		validation  *errors.ErrValidation
		notFound    *errors.ErrNotFound
		conflict    *errors.ErrConflict
		inProgress  *errors.ErrSubmissionInProgress
		transition  *errors.ErrInvalidStateTransition
		persistence *errors.ErrPersistence
		network     *errors.ErrNetwork
	)

	switch {
	case errors.As(err, &validation):
		c.JSON(http.StatusUnprocessableEntity, gin.H{
			"error":   "validation failed",
			"details": err.Error(),
		})
	case errors.As(err, &inProgress):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.As(err, &conflict):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.As(err, &transition):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.As(err, &persistence):
		logger.Error(msg, zap.Error(err))
		body := gin.H{"error": err.Error()}
		if persistence.Index >= 0 {
			body["failed_index"] = persistence.Index
		}
		c.JSON(http.StatusBadGateway, body)
	case errors.As(err, &notFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.As(err, &network):
		logger.Error(msg, zap.Error(err))
		c.JSON(http.StatusBadGateway, gin.H{"error": "backend unavailable"})
	default:
		logger.Error(msg, zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}

func bindError(c *gin.Context, err error) {
	c.JSON(http.StatusUnprocessableEntity, gin.H{
		"error":   "validation failed",
		"details": err.Error(),
	})
}

func parseID(c *gin.Context, param, name string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(param), 10, 64)
	if err != nil || id < 1 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid " + name + " ID"})
		return 0, false
	}
	return id, true
}

func parseUUID(c *gin.Context, param, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(param))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid " + name + " ID"})
		return uuid.Nil, false
	}
	return id, true
}
