package auth

import (
	"context"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/suite"
	"golang.org/x/crypto/bcrypt"

	"storefront/apperr"
	"storefront/models"
)

type memUsers struct {
	byID   map[int64]models.User
	nextID int64
}

func newMemUsers() *memUsers { return &memUsers{byID: map[int64]models.User{}} }

func (m *memUsers) Create(_ context.Context, u *models.User) error {
	for _, existing := range m.byID {
		if existing.Email == u.Email {
			return apperr.Conflict("email already registered", nil)
		}
	}
	m.nextID++
	u.ID = m.nextID
	m.byID[u.ID] = *u
	return nil
}

func (m *memUsers) ByEmail(_ context.Context, email string) (models.User, error) {
	for _, u := range m.byID {
		if u.Email == email {
			return u, nil
		}
	}
	return models.User{}, apperr.NotFound("user not found")
}

func (m *memUsers) ByID(_ context.Context, id int64) (models.User, error) {
	u, ok := m.byID[id]
	if !ok {
		return models.User{}, apperr.NotFound("user %d not found", id)
	}
	return u, nil
}

func (m *memUsers) UpdatePasswordHash(_ context.Context, id int64, hash string) error {
	u, ok := m.byID[id]
	if !ok {
		return apperr.NotFound("user %d not found", id)
	}
	u.PasswordHash = hash
	m.byID[id] = u
	return nil
}

type AuthTestSuite struct {
	suite.Suite
	ctx      context.Context
	now      time.Time
	users    *memUsers
	issuer   *Issuer
	gate     *Gate
	accounts *Accounts
}

func (s *AuthTestSuite) SetupTest() {
	s.ctx = context.Background()
	s.now = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	s.users = newMemUsers()
	s.issuer = NewIssuer([]byte("test-secret"), time.Hour)
	s.issuer.now = func() time.Time { return s.now }
	s.gate = NewGate(s.issuer, s.users)
	s.accounts = NewAccounts(s.users, s.issuer)
	s.accounts.cost = bcrypt.MinCost
}

func (s *AuthTestSuite) register(email, password string) models.AuthResponse {
	resp, err := s.accounts.Register(s.ctx, models.RegisterRequest{Email: email, Password: password, FirstName: " Ada "})
	s.Require().NoError(err)
	return resp
}

func (s *AuthTestSuite) TestRegisterIssuesUsableToken() {
	resp := s.register("ada@example.com", "secret1")
	s.Equal("Ada", resp.User.FirstName)
	s.NotEqual("secret1", s.users.byID[resp.User.ID].PasswordHash)

	sess, err := s.gate.Resolve(s.ctx, "Bearer "+resp.Token)
	s.Require().NoError(err)
	s.Equal(resp.User.ID, sess.UserID)
	s.Equal("ada@example.com", sess.Email)
	s.WithinDuration(s.now.Add(time.Hour), sess.ExpiresAt, 0)
}

func (s *AuthTestSuite) TestRegisterDuplicateEmail() {
	s.register("ada@example.com", "secret1")
	_, err := s.accounts.Register(s.ctx, models.RegisterRequest{Email: "ada@example.com", Password: "another"})
	s.Equal(apperr.KindConflict, apperr.KindOf(err))
}

func (s *AuthTestSuite) TestLogin() {
	s.register("ada@example.com", "secret1")

	resp, err := s.accounts.Login(s.ctx, models.LoginRequest{Email: "ada@example.com", Password: "secret1"})
	s.Require().NoError(err)
	s.NotEmpty(resp.Token)

	_, err = s.accounts.Login(s.ctx, models.LoginRequest{Email: "ada@example.com", Password: "wrong"})
	s.Equal(apperr.KindUnauthorized, apperr.KindOf(err))

	_, err = s.accounts.Login(s.ctx, models.LoginRequest{Email: "nobody@example.com", Password: "secret1"})
	s.Equal(apperr.KindUnauthorized, apperr.KindOf(err))
}

func (s *AuthTestSuite) TestChangePassword() {
	resp := s.register("ada@example.com", "secret1")

	err := s.accounts.ChangePassword(s.ctx, resp.User.ID, models.PasswordChangeRequest{OldPassword: "nope", NewPassword: "secret2"})
	s.Equal(apperr.KindUnauthorized, apperr.KindOf(err))

	s.Require().NoError(s.accounts.ChangePassword(s.ctx, resp.User.ID,
		models.PasswordChangeRequest{OldPassword: "secret1", NewPassword: "secret2"}))
	_, err = s.accounts.Login(s.ctx, models.LoginRequest{Email: "ada@example.com", Password: "secret2"})
	s.NoError(err)
}

func (s *AuthTestSuite) TestResolveRejectsMissingOrMalformedHeader() {
	for _, header := range []string{"", "Bearer", "Bearer   ", "Basic abc", "token-without-scheme", "Bearer not.a.jwt"} {
		_, err := s.gate.Resolve(s.ctx, header)
		s.Equal(apperr.KindUnauthorized, apperr.KindOf(err), "header %q", header)
	}
}

func (s *AuthTestSuite) TestResolveRejectsExpiredToken() {
	resp := s.register("ada@example.com", "secret1")
	s.now = s.now.Add(2 * time.Hour)

	_, err := s.gate.Resolve(s.ctx, "Bearer "+resp.Token)
	s.Equal(apperr.KindUnauthorized, apperr.KindOf(err))
}

func (s *AuthTestSuite) TestResolveRejectsForeignSignature() {
	resp := s.register("ada@example.com", "secret1")
	other := NewGate(NewIssuer([]byte("other-secret"), time.Hour), s.users)

	_, err := other.Resolve(s.ctx, "Bearer "+resp.Token)
	s.Equal(apperr.KindUnauthorized, apperr.KindOf(err))
}

func (s *AuthTestSuite) TestResolveRejectsUnexpectedAlgorithm() {
	resp := s.register("ada@example.com", "secret1")
	claims := &models.Claims{
		UserID: resp.User.ID,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(s.now.Add(time.Hour)),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS512, claims).SignedString([]byte("test-secret"))
	s.Require().NoError(err)

	_, err = s.gate.Resolve(s.ctx, "Bearer "+token)
	s.Equal(apperr.KindUnauthorized, apperr.KindOf(err))
}

func (s *AuthTestSuite) TestResolveDeletedUserIsForbidden() {
	resp := s.register("ada@example.com", "secret1")
	delete(s.users.byID, resp.User.ID)

	_, err := s.gate.Resolve(s.ctx, "Bearer "+resp.Token)
	s.Equal(apperr.KindForbidden, apperr.KindOf(err))
}

func (s *AuthTestSuite) TestIssueRequiresSecret() {
	_, err := NewIssuer(nil, 0).Issue(models.User{ID: 1})
	s.Error(err)
}

func TestAuthTestSuite(t *testing.T) {
	suite.Run(t, new(AuthTestSuite))
}
