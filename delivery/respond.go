package delivery

import (
	"errors"
	"net/http"

	"authsphere/domain"
	"authsphere/utils"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
)

// ok writes the success envelope.
func ok(c *gin.Context, status int, message string, data interface{}) {
	body := gin.H{"success": true, "message": message}
	if data != nil {
		body["data"] = data
	}
	c.JSON(status, body)
}

// fail writes the uniform failure envelope {success, message, code}.
func fail(c *gin.Context, status int, code, message string) {
	c.JSON(status, gin.H{"success": false, "message": message, "code": code})
}

// failFields reports aggregated per-field validation problems.
func failFields(c *gin.Context, message string, fields map[string]string) {
	c.JSON(http.StatusBadRequest, gin.H{
		"success": false,
		"message": message,
		"code":    "VALIDATION_ERROR",
		"errors":  fields,
	})
}

// bindError distinguishes validator aggregates from malformed payloads.
func bindError(c *gin.Context, err error) {
	var ve validator.ValidationErrors
	if errors.As(err, &ve) {
		failFields(c, "Invalid request", utils.TranslateValidationErrors(err))
		return
	}
	fail(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request payload")
}

// failDomain maps a service error onto status + envelope code. Unknown errors
// are translated so raw internals never leak.
func failDomain(c *gin.Context, err error) {
	code := domain.ErrorCode(err)
	switch code {
	case "NOT_FOUND", "NO_ACTIVE_OTP", "EXPIRED", "INVALID_CODE",
		"PASSWORD_MISMATCH", "WEAK_PASSWORD", "VALIDATION_ERROR":
		fail(c, http.StatusBadRequest, code, err.Error())
	case "INVALID_CREDENTIALS":
		fail(c, http.StatusUnauthorized, code, err.Error())
	case "NOTIFICATION_FAILED":
		fail(c, http.StatusBadGateway, code, "Failed to send the OTP email, please try again")
	case "RATE_LIMITED":
		fail(c, http.StatusTooManyRequests, code, err.Error())
	default:
		fail(c, http.StatusInternalServerError, "INTERNAL", utils.TranslateDBError(err))
	}
}
