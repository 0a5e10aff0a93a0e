package handlers

import (
	"log"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"storefront/apperr"
	"storefront/validators"
)

func abortWithError(c *gin.Context, err error) {
	kind := apperr.KindOf(err)
	if kind == apperr.KindInternal {
		log.Printf("[%s] %s %s: %v", requestID(c), c.Request.Method, c.FullPath(), err)
	}
	_ = c.Error(err)
	c.AbortWithStatusJSON(kind.Status(), gin.H{"message": apperr.PublicMessage(err)})
}

func message(c *gin.Context, msg string) {
	c.JSON(http.StatusOK, gin.H{"message": msg})
}

// bindJSON decodes the request body strictly into dst and aborts with 400
// when that fails.
func bindJSON(c *gin.Context, dst any) bool {
	if err := validators.DecodeJSON(c.Request.Body, dst); err != nil {
		abortWithError(c, err)
		return false
	}
	return true
}

func pathID(c *gin.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		abortWithError(c, apperr.Validation("invalid %s", name))
		return 0, false
	}
	return id, true
}
