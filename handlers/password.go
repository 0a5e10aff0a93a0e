package handlers

import (
	"github.com/gin-gonic/gin"

	"storefront/models"
)

func ChangePassword(accounts AccountService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req models.PasswordChangeRequest
		if !bindJSON(c, &req) {
			return
		}
		if err := accounts.ChangePassword(c.Request.Context(), userID(c), req); err != nil {
			abortWithError(c, err)
			return
		}
		message(c, "Password updated")
	}
}
