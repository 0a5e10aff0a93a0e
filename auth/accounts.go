package auth

import (
	"context"
	"errors"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"storefront/apperr"
	"storefront/models"
)

type UserStore interface {
	UserLookup
	Create(ctx context.Context, u *models.User) error
	ByEmail(ctx context.Context, email string) (models.User, error)
	UpdatePasswordHash(ctx context.Context, id int64, hash string) error
}

// Accounts handles registration, login and password changes.
type Accounts struct {
	users  UserStore
	issuer *Issuer
	cost   int
}

func NewAccounts(users UserStore, issuer *Issuer) *Accounts {
	return &Accounts{users: users, issuer: issuer, cost: bcrypt.DefaultCost}
}

func (a *Accounts) Register(ctx context.Context, req models.RegisterRequest) (models.AuthResponse, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), a.cost)
	if err != nil {
		return models.AuthResponse{}, apperr.Internal("hash password", err)
	}
	u := models.User{
		Email:        req.Email,
		FirstName:    strings.TrimSpace(req.FirstName),
		LastName:     strings.TrimSpace(req.LastName),
		PasswordHash: string(hash),
	}
	if err := a.users.Create(ctx, &u); err != nil {
		return models.AuthResponse{}, err
	}
	return a.respond(u)
}

// Login never tells an unknown email apart from a wrong password.
func (a *Accounts) Login(ctx context.Context, req models.LoginRequest) (models.AuthResponse, error) {
	u, err := a.users.ByEmail(ctx, req.Email)
	if apperr.KindOf(err) == apperr.KindNotFound {
		return models.AuthResponse{}, apperr.Unauthorized("invalid credentials", nil)
	}
	if err != nil {
		return models.AuthResponse{}, err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(req.Password)); err != nil {
		return models.AuthResponse{}, apperr.Unauthorized("invalid credentials", nil)
	}
	return a.respond(u)
}

func (a *Accounts) Me(ctx context.Context, userID int64) (models.User, error) {
	return a.users.ByID(ctx, userID)
}

func (a *Accounts) ChangePassword(ctx context.Context, userID int64, req models.PasswordChangeRequest) error {
	u, err := a.users.ByID(ctx, userID)
	if err != nil {
		return err
	}
	err = bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(req.OldPassword))
	if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
		return apperr.Unauthorized("old password is incorrect", nil)
	}
	if err != nil {
		return apperr.Internal("compare password", err)
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword), a.cost)
	if err != nil {
		return apperr.Internal("hash password", err)
	}
	return a.users.UpdatePasswordHash(ctx, userID, string(hash))
}

func (a *Accounts) respond(u models.User) (models.AuthResponse, error) {
	token, err := a.issuer.Issue(u)
	if err != nil {
		return models.AuthResponse{}, apperr.Internal("issue token", err)
	}
	return models.AuthResponse{User: u, Token: token}, nil
}
