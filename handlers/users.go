package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

func Me(accounts AccountService) gin.HandlerFunc {
	return func(c *gin.Context) {
		u, err := accounts.Me(c.Request.Context(), userID(c))
		if err != nil {
			abortWithError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"user": u})
	}
}
