package auth

import (
	"context"
	"strings"
	"time"

	"storefront/apperr"
	"storefront/models"
)

// Session is the identity resolved from one request's bearer token.
type Session struct {
	UserID    int64
	Email     string
	ExpiresAt time.Time
}

type UserLookup interface {
	ByID(ctx context.Context, id int64) (models.User, error)
}

// Gate turns an Authorization header into a Session. Missing, malformed,
// badly signed or expired tokens are Unauthorized; a valid token whose user
// has been deleted is Forbidden.
type Gate struct {
	issuer *Issuer
	users  UserLookup
}

func NewGate(issuer *Issuer, users UserLookup) *Gate {
	return &Gate{issuer: issuer, users: users}
}

func (g *Gate) Resolve(ctx context.Context, header string) (Session, error) {
	token, ok := bearerToken(header)
	if !ok {
		return Session{}, apperr.Unauthorized("access token required", nil)
	}
	claims, err := g.issuer.Parse(token)
	if err != nil {
		return Session{}, apperr.Unauthorized("invalid token", err)
	}

	u, err := g.users.ByID(ctx, claims.UserID)
	if apperr.KindOf(err) == apperr.KindNotFound {
		return Session{}, apperr.Forbidden("account no longer exists")
	}
	if err != nil {
		return Session{}, err
	}

	s := Session{UserID: u.ID, Email: u.Email}
	if claims.ExpiresAt != nil {
		s.ExpiresAt = claims.ExpiresAt.Time
	}
	return s, nil
}

func bearerToken(header string) (string, bool) {
	scheme, token, ok := strings.Cut(strings.TrimSpace(header), " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}
