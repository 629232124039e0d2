package services

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"strings"
	"time"

	"github.com/shashiranjanraj/vastra/app/models"
	"github.com/shashiranjanraj/vastra/app/repositories"
	"github.com/shashiranjanraj/vastra/pkg/auth"
	"github.com/shashiranjanraj/vastra/pkg/faults"
	"github.com/shashiranjanraj/vastra/pkg/logger"
	"github.com/shashiranjanraj/vastra/pkg/mail"
)

// ResetTokenTTL is how long a password-reset token stays valid.
const ResetTokenTTL = time.Hour

// ResetService issues and consumes password-reset tokens.
//
// Tokens are 20 random bytes, hex encoded, valid for one hour, and
// single-use: consuming one writes the new password hash and clears the
// token in the same update.
type ResetService struct {
	users       *repositories.UserRepository
	mailer      mail.Sender
	tokens      *auth.Tokens
	frontendURL string

	now func() time.Time
}

func NewResetService(users *repositories.UserRepository, mailer mail.Sender, tokens *auth.Tokens, frontendURL string) *ResetService {
	return &ResetService{
		users:       users,
		mailer:      mailer,
		tokens:      tokens,
		frontendURL: strings.TrimRight(frontendURL, "/"),
		now:         time.Now,
	}
}

// RequestReset issues a reset token for the account behind email and
// mails a reset link. The outcome is identical for known and unknown
// addresses, so the endpoint cannot be used to probe which accounts
// exist. A mail delivery failure is logged but does not invalidate the
// token that was already stored.
func (s *ResetService) RequestReset(ctx context.Context, email string) error {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" {
		return faults.New(faults.Validation, "email is required")
	}

	user, err := s.users.FindByEmail(email)
	if err != nil {
		if isNotFound(err) {
			logger.WithCtx(ctx).Debug("reset requested for unknown email", "email", email)
			return nil
		}
		return faults.Wrap(faults.TransientStore, "could not process reset request", err)
	}

	token, err := newResetToken()
	if err != nil {
		return faults.Wrap(faults.Unknown, "could not process reset request", err)
	}

	expiry := s.now().Add(ResetTokenTTL)
	if err := s.users.SetResetToken(user.ID, token, expiry); err != nil {
		return faults.Wrap(faults.TransientStore, "could not process reset request", err)
	}

	link := fmt.Sprintf("%s/reset?resetToken=%s", s.frontendURL, token)
	body := mail.Wrap(fmt.Sprintf(
		`<p>Your password reset token is here.</p><p><a href="%s">Click here to reset your password</a></p>`, link))

	if err := s.mailer.Send(user.Email, "Your password reset token", body); err != nil {
		logger.WithCtx(ctx).Error("reset mail delivery failed", "user_id", user.ID, "error", err)
	}
	return nil
}

// ResetPassword consumes a reset token and sets the new password. On
// success it returns the user and a fresh session token: completing a
// reset signs the user in. Every invalid-token outcome collapses into
// the same generic fault.
func (s *ResetService) ResetPassword(ctx context.Context, token, password, confirm string) (*models.User, string, error) {
	if password == "" {
		return nil, "", faults.New(faults.Validation, "password is required")
	}
	if password != confirm {
		return nil, "", faults.New(faults.Validation, "passwords do not match")
	}

	user, err := s.users.FindByResetToken(token, s.now())
	if err != nil {
		if isNotFound(err) {
			return nil, "", faults.New(faults.Validation, "this token is either invalid or expired")
		}
		return nil, "", faults.Wrap(faults.TransientStore, "could not reset password", err)
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		return nil, "", faults.Wrap(faults.Unknown, "could not reset password", err)
	}

	// One update writes the hash and clears the token, so the token can
	// never be replayed.
	if err := s.users.ConsumeResetToken(user.ID, hash); err != nil {
		return nil, "", faults.Wrap(faults.TransientStore, "could not reset password", err)
	}

	fresh, err := s.users.FindByID(user.ID)
	if err != nil {
		return nil, "", faults.Wrap(faults.TransientStore, "could not reset password", err)
	}

	session, err := s.tokens.Sign(fresh.ID)
	if err != nil {
		return nil, "", faults.Wrap(faults.Unknown, "could not create session", err)
	}

	logger.WithCtx(ctx).Info("password reset completed", "user_id", fresh.ID)
	return fresh, session, nil
}

func newResetToken() (string, error) {
	buf := make([]byte, 20)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("reset token: %w", err)
	}
	return hex.EncodeToString(buf), nil
}
