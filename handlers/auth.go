package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"storefront/models"
	"storefront/validators"
)

type AccountService interface {
	Register(ctx context.Context, req models.RegisterRequest) (models.AuthResponse, error)
	Login(ctx context.Context, req models.LoginRequest) (models.AuthResponse, error)
	Me(ctx context.Context, userID int64) (models.User, error)
	ChangePassword(ctx context.Context, userID int64, req models.PasswordChangeRequest) error
}

func Register(accounts AccountService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req models.RegisterRequest
		if !bindJSON(c, &req) {
			return
		}
		for field, val := range map[string]string{"firstName": req.FirstName, "lastName": req.LastName} {
			if err := validators.ValidateName(field, val); err != nil {
				abortWithError(c, err)
				return
			}
		}
		resp, err := accounts.Register(c.Request.Context(), req)
		if err != nil {
			abortWithError(c, err)
			return
		}
		c.JSON(http.StatusCreated, resp)
	}
}

func Login(accounts AccountService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req models.LoginRequest
		if !bindJSON(c, &req) {
			return
		}
		resp, err := accounts.Login(c.Request.Context(), req)
		if err != nil {
			abortWithError(c, err)
			return
		}
		c.JSON(http.StatusOK, resp)
	}
}
