package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/KasumiMercury/primind-attendance-alerts/internal/domain"
)

const (
	codeInvalidRequest = "invalid_request"
	codeNotFound       = "not_found"
	codeUnavailable    = "unavailable"
	codeInternal       = "internal_error"
)

type errorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

func respondError(c *gin.Context, status int, code, message string) {
	c.AbortWithStatusJSON(status, errorResponse{
		Error:   code,
		Message: message,
	})
}

// recipientKeyFromPath reads :role and :recipientID. It writes a 400 and
// returns false when either is invalid.
func recipientKeyFromPath(c *gin.Context) (domain.RecipientKey, bool) {
	return recipientKey(c, c.Param("role"), c.Param("recipientID"))
}

func recipientKey(c *gin.Context, rawRole, id string) (domain.RecipientKey, bool) {
	role, err := domain.ParseRole(rawRole)
	if err != nil {
		respondError(c, http.StatusBadRequest, codeInvalidRequest, err.Error())
		return domain.RecipientKey{}, false
	}

	key, err := domain.NewRecipientKey(role, id)
	if err != nil {
		respondError(c, http.StatusBadRequest, codeInvalidRequest, err.Error())
		return domain.RecipientKey{}, false
	}

	return key, true
}
