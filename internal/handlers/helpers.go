package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"shaqyru-backend/internal/i18n"
	"shaqyru-backend/internal/middleware"
	"shaqyru-backend/internal/models"
)

// currentUserID pulls the authenticated user id set by the auth
// middleware. Writes the error response itself when absent or malformed.
func currentUserID(c *gin.Context) (uuid.UUID, bool) {
	raw, exists := c.Get(middleware.UserIDKey)
	if !exists {
		c.JSON(http.StatusUnauthorized, models.ErrorResponse{Error: "user id not found"})
		return uuid.Nil, false
	}

	userID, err := uuid.Parse(raw.(string))
	if err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "invalid user id"})
		return uuid.Nil, false
	}

	return userID, true
}

// requestLang resolves the response language from the lang query
// parameter, defaulting to Kazakh.
func requestLang(c *gin.Context) string {
	return i18n.Lang(c.Query("lang"))
}
