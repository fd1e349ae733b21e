package resp

import (
	"errors"
	"net/http"

	"restopos/services"

	"github.com/gin-gonic/gin"
)

func OK(c *gin.Context, key string, data any) {
	c.JSON(http.StatusOK, gin.H{"success": true, key: data})
}
func Created(c *gin.Context, key string, data any) {
	c.JSON(http.StatusCreated, gin.H{"success": true, key: data})
}
func BadRequest(c *gin.Context, msg string) {
	c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": msg})
}
func Unauthorized(c *gin.Context, msg string) {
	c.JSON(http.StatusUnauthorized, gin.H{"success": false, "error": msg})
}
func Forbidden(c *gin.Context, msg string) {
	c.JSON(http.StatusForbidden, gin.H{"success": false, "error": msg})
}

// StatusOf maps an error kind to its HTTP status.
func StatusOf(kind services.ErrorKind) int {
	switch kind {
	case services.KindNotFound:
		return http.StatusNotFound
	case services.KindInsufficientStock, services.KindAlreadyClosed:
		return http.StatusConflict
	case services.KindValidation:
		return http.StatusBadRequest
	case services.KindPersistence:
		return http.StatusInternalServerError
	}
	return http.StatusInternalServerError
}

// Fail renders a service error. Business errors carry their kind and detail;
// persistence failures are reported generically so the client can retry.
func Fail(c *gin.Context, err error) {
	var e *services.Error
	if !errors.As(err, &e) || !e.Kind.Business() {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error":   string(services.KindPersistence),
			"message": "temporary failure, please retry",
		})
		return
	}
	body := gin.H{"success": false, "error": string(e.Kind), "message": e.Message}
	if e.Detail != nil {
		body["detail"] = e.Detail
	}
	c.JSON(StatusOf(e.Kind), body)
}
