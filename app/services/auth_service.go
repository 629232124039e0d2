package services

import (
	"strings"

	"github.com/shashiranjanraj/vastra/app/models"
	"github.com/shashiranjanraj/vastra/app/repositories"
	"github.com/shashiranjanraj/vastra/pkg/auth"
	"github.com/shashiranjanraj/vastra/pkg/faults"
)

// AuthService handles signup and signin. Session cookies are written by
// the transport layer from the token this service returns.
type AuthService struct {
	users  *repositories.UserRepository
	tokens *auth.Tokens
}

func NewAuthService(users *repositories.UserRepository, tokens *auth.Tokens) *AuthService {
	return &AuthService{users: users, tokens: tokens}
}

// Signup creates an account and returns the user with a signed session
// token. Email is lowercased before storage so lookups are
// case-insensitive; new accounts start with the USER permission.
func (s *AuthService) Signup(name, email, password string) (*models.User, string, error) {
	name = strings.TrimSpace(name)
	email = strings.ToLower(strings.TrimSpace(email))

	if name == "" {
		return nil, "", faults.New(faults.Validation, "name is required")
	}
	if email == "" || !strings.Contains(email, "@") {
		return nil, "", faults.New(faults.Validation, "a valid email is required")
	}
	if password == "" {
		return nil, "", faults.New(faults.Validation, "password is required")
	}

	if _, err := s.users.FindByEmail(email); err == nil {
		return nil, "", faults.New(faults.Validation, "an account with that email already exists")
	} else if !isNotFound(err) {
		return nil, "", faults.Wrap(faults.TransientStore, "could not create account", err)
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		return nil, "", faults.Wrap(faults.Unknown, "could not create account", err)
	}

	user := &models.User{
		Name:        name,
		Email:       email,
		Password:    hash,
		Permissions: []string{auth.PermUser},
	}
	if err := s.users.Create(user); err != nil {
		return nil, "", faults.Wrap(faults.TransientStore, "could not create account", err)
	}

	token, err := s.tokens.Sign(user.ID)
	if err != nil {
		return nil, "", faults.Wrap(faults.Unknown, "could not create session", err)
	}
	return user, token, nil
}

// Signin verifies credentials and returns the user with a fresh session
// token. Unknown email and wrong password produce the same fault, so the
// response does not reveal which accounts exist.
func (s *AuthService) Signin(email, password string) (*models.User, string, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	user, err := s.users.FindByEmail(email)
	if err != nil {
		if isNotFound(err) {
			return nil, "", faults.New(faults.AuthenticationRequired, "invalid email or password")
		}
		return nil, "", faults.Wrap(faults.TransientStore, "could not sign in", err)
	}

	if !auth.CheckPassword(user.Password, password) {
		return nil, "", faults.New(faults.AuthenticationRequired, "invalid email or password")
	}

	token, err := s.tokens.Sign(user.ID)
	if err != nil {
		return nil, "", faults.Wrap(faults.Unknown, "could not create session", err)
	}
	return user, token, nil
}
