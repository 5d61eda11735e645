// Package auth registers and logs in users and runs the password reset flow.
package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/zeptools/gw-invoice/db/kvdb"
	"github.com/zeptools/gw-invoice/models"
	"github.com/zeptools/gw-invoice/sec"
	"github.com/zeptools/gw-invoice/store"
)

var (
	ErrMissingFields      = errors.New("missing fields")
	ErrEmailInUse         = errors.New("Email in use")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrEmailRequired      = errors.New("Email is required")
	ErrResetFields        = errors.New("Token and new password are required")
	ErrPasswordTooShort   = errors.New("Password must be at least 6 characters")
	ErrInvalidResetToken  = errors.New("Invalid or expired reset token")
	ErrUserNotFound       = errors.New("User not found")
)

const (
	BcryptCost        = 10
	MinPasswordLength = 6
	ResetTokenTTL     = time.Hour
	ResetTokenBytes   = 32

	// ForgotPasswordMessage is returned whether or not the email is known
	ForgotPasswordMessage = "If an account with that email exists, a password reset link has been sent."
)

type Service struct {
	users  store.Users
	kv     kvdb.Client
	tokens *sec.TokenIssuer
	app    string
	log    *zap.Logger
	cost   int
}

func NewService(users store.Users, kv kvdb.Client, tokens *sec.TokenIssuer, appName string, log *zap.Logger) *Service {
	if log == nil {
		log = zap.NewNop()
	}
	return &Service{users: users, kv: kv, tokens: tokens, app: appName, log: log, cost: BcryptCost}
}

// SetCost overrides the bcrypt cost; tests use bcrypt.MinCost
func (s *Service) SetCost(cost int) {
	s.cost = cost
}

// Session is what register and login return
type Session struct {
	Token string          `json:"token"`
	User  models.UserView `json:"user"`
}

func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (s *Service) Register(ctx context.Context, name string, email string, password string) (*Session, error) {
	email = NormalizeEmail(email)
	if email == "" || password == "" {
		return nil, ErrMissingFields
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.cost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}
	u := &models.User{Name: strings.TrimSpace(name), Email: email, PasswordHash: string(hash)}
	if err := s.users.Create(ctx, u); err != nil {
		if errors.Is(err, store.ErrConflict) {
			return nil, ErrEmailInUse
		}
		return nil, err
	}
	s.log.Info("user registered", zap.String("user_id", u.ID))
	return s.session(u)
}

func (s *Service) Login(ctx context.Context, email string, password string) (*Session, error) {
	u, err := s.users.GetByEmail(ctx, NormalizeEmail(email))
	if errors.Is(err, store.ErrNotFound) {
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, err
	}
	if bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)) != nil {
		return nil, ErrInvalidCredentials
	}
	return s.session(u)
}

func (s *Service) session(u *models.User) (*Session, error) {
	token, err := s.tokens.Issue(u.ID)
	if err != nil {
		return nil, fmt.Errorf("issue token: %w", err)
	}
	return &Session{Token: token, User: u.View()}, nil
}

// Authenticate maps a bearer token to its user id
func (s *Service) Authenticate(token string) (string, error) {
	return s.tokens.Verify(token)
}

//---- Password Reset ----

// resetKey maps a token digest to the user id; the raw token is never stored
func (s *Service) resetKey(token string) string {
	return s.app + "_pwreset:" + sec.HashHexSHA256(token)
}

// userResetKey remembers the live digest of a user so a new request
// replaces the previous token
func (s *Service) userResetKey(userID string) string {
	return s.app + "_pwreset_user:" + userID
}

// ForgotPassword returns a fresh reset token for a known email and ""
// otherwise. Callers answer both cases with ForgotPasswordMessage.
func (s *Service) ForgotPassword(ctx context.Context, email string) (string, error) {
	email = NormalizeEmail(email)
	if email == "" {
		return "", ErrEmailRequired
	}
	u, err := s.users.GetByEmail(ctx, email)
	if errors.Is(err, store.ErrNotFound) {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	token, err := sec.GenerateHexToken(ResetTokenBytes)
	if err != nil {
		return "", err
	}
	if prev, ok, err := s.kv.Get(ctx, s.userResetKey(u.ID)); err == nil && ok {
		if _, err := s.kv.Delete(ctx, prev); err != nil {
			s.log.Warn("stale reset token not removed", zap.Error(err))
		}
	}
	key := s.resetKey(token)
	if err := s.kv.Set(ctx, key, u.ID, ResetTokenTTL); err != nil {
		return "", fmt.Errorf("store reset token: %w", err)
	}
	if err := s.kv.Set(ctx, s.userResetKey(u.ID), key, ResetTokenTTL); err != nil {
		return "", fmt.Errorf("store reset token: %w", err)
	}
	s.log.Info("password reset token issued", zap.String("user_id", u.ID))
	return token, nil
}

func (s *Service) VerifyResetToken(ctx context.Context, token string) (bool, error) {
	if token == "" {
		return false, nil
	}
	return s.kv.Exists(ctx, s.resetKey(token))
}

func (s *Service) ResetPassword(ctx context.Context, token string, newPassword string) error {
	if token == "" || newPassword == "" {
		return ErrResetFields
	}
	if len(newPassword) < MinPasswordLength {
		return ErrPasswordTooShort
	}
	key := s.resetKey(token)
	userID, ok, err := s.kv.Get(ctx, key)
	if err != nil {
		return err
	}
	if !ok {
		return ErrInvalidResetToken
	}
	if _, err := s.users.GetByID(ctx, userID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return ErrUserNotFound
		}
		return err
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), s.cost)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	if err := s.users.UpdatePassword(ctx, userID, string(hash)); err != nil {
		return err
	}
	if _, err := s.kv.Delete(ctx, key, s.userResetKey(userID)); err != nil {
		s.log.Warn("used reset token not removed", zap.Error(err))
	}
	s.log.Info("password reset", zap.String("user_id", userID))
	return nil
}
