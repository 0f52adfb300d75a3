package core

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/example/sunlight/internal/db"
	"github.com/example/sunlight/internal/models"
)

const (
	// DefaultBcryptCost is the work factor for stored password hashes.
	DefaultBcryptCost = 12
	// VerificationTokenTTL bounds how long an email verification token stays valid.
	VerificationTokenTTL = 24 * time.Hour
	verificationTokenLen = 6
)

// userService implements the UserService interface.
type userService struct {
	userRepo   db.UserRepository
	tokens     TokenIssuer
	logger     *zap.Logger
	bcryptCost int
	now        func() time.Time
}

// UserServiceOption configures a UserService.
type UserServiceOption func(*userService)

// WithBcryptCost overrides DefaultBcryptCost.
func WithBcryptCost(cost int) UserServiceOption {
	return func(s *userService) { s.bcryptCost = cost }
}

// WithUserClock replaces the wall clock used for timestamps and token expiry.
func WithUserClock(now func() time.Time) UserServiceOption {
	return func(s *userService) { s.now = now }
}

// NewUserService creates a new UserService instance.
func NewUserService(userRepo db.UserRepository, tokens TokenIssuer, logger *zap.Logger, opts ...UserServiceOption) UserService {
	s := &userService{
		userRepo:   userRepo,
		tokens:     tokens,
		logger:     logger,
		bcryptCost: DefaultBcryptCost,
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// SignUp registers a new user and returns a session token for it.
func (s *userService) SignUp(ctx context.Context, req models.SignUpRequest) (*models.User, string, error) {
	email := NormalizeEmail(req.Email)
	firstName := strings.TrimSpace(req.FirstName)
	lastName := strings.TrimSpace(req.LastName)

	switch {
	case firstName == "" || lastName == "" || email == "" || req.Password == "":
		return nil, "", invalidInput("All fields are required")
	case !ValidEmail(email):
		return nil, "", invalidInput("Please enter a valid email address")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), s.bcryptCost)
	if err != nil {
		return nil, "", fmt.Errorf("failed to hash password: %w", err)
	}
	token, err := randomString(upperAlnum, verificationTokenLen)
	if err != nil {
		return nil, "", fmt.Errorf("failed to generate verification token: %w", err)
	}

	now := s.now().UTC()
	expires := now.Add(VerificationTokenTTL)
	user := &models.User{
		ID:                       uuid.NewString(),
		FirstName:                firstName,
		LastName:                 lastName,
		Email:                    email,
		PasswordHash:             string(hash),
		CreatedAt:                now,
		EmailVerificationToken:   &token,
		EmailVerificationExpires: &expires,
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		if errors.Is(err, db.ErrAlreadyExists) {
			return nil, "", fmt.Errorf("user already exists: %w", ErrConflict)
		}
		return nil, "", fmt.Errorf("failed to create user '%s': %w", email, err)
	}

	session, err := s.tokens.Issue(user.ID, user.Email)
	if err != nil {
		return nil, "", fmt.Errorf("failed to issue token for user '%s': %w", user.ID, err)
	}
	s.logger.Info("User registered", zap.String("userID", user.ID))
	return user, session, nil
}

// SignIn checks the password and returns a session token.
func (s *userService) SignIn(ctx context.Context, email, password string) (*models.User, string, error) {
	email = NormalizeEmail(email)
	if email == "" || password == "" {
		return nil, "", invalidInput("Email and password are required")
	}

	user, err := s.userRepo.GetByEmail(ctx, email)
	if errors.Is(err, db.ErrNotFound) {
		return nil, "", ErrInvalidCredentials
	}
	if err != nil {
		return nil, "", fmt.Errorf("failed to look up user '%s': %w", email, err)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, "", ErrInvalidCredentials
	}

	session, err := s.tokens.Issue(user.ID, user.Email)
	if err != nil {
		return nil, "", fmt.Errorf("failed to issue token for user '%s': %w", user.ID, err)
	}
	return user, session, nil
}

// SendVerification rotates the user's verification token. Delivery is out of
// band, so the token is returned to the caller.
func (s *userService) SendVerification(ctx context.Context, email string) (string, error) {
	email = NormalizeEmail(email)
	if email == "" {
		return "", invalidInput("Email is required")
	}
	token, err := randomString(upperAlnum, verificationTokenLen)
	if err != nil {
		return "", fmt.Errorf("failed to generate verification token: %w", err)
	}

	_, err = s.userRepo.Update(ctx, email, func(u *models.User) error {
		if u.EmailVerified {
			return ErrEmailAlreadyVerified
		}
		expires := s.now().UTC().Add(VerificationTokenTTL)
		u.EmailVerificationToken = &token
		u.EmailVerificationExpires = &expires
		return nil
	})
	switch {
	case errors.Is(err, db.ErrNotFound):
		return "", ErrUserNotFound
	case errors.Is(err, ErrEmailAlreadyVerified):
		return "", err
	case err != nil:
		return "", fmt.Errorf("failed to store verification token for '%s': %w", email, err)
	}

	s.logger.Info("Verification token issued", zap.String("email", email))
	return token, nil
}

// VerifyEmail consumes a verification token.
func (s *userService) VerifyEmail(ctx context.Context, email, token string) error {
	email = NormalizeEmail(email)
	token = strings.ToUpper(strings.TrimSpace(token))
	if email == "" || token == "" {
		return invalidInput("Email and token are required")
	}

	_, err := s.userRepo.Update(ctx, email, func(u *models.User) error {
		if u.EmailVerified {
			return ErrEmailAlreadyVerified
		}
		if u.EmailVerificationToken == nil || *u.EmailVerificationToken != token {
			return ErrInvalidVerificationToken
		}
		if u.EmailVerificationExpires == nil || s.now().After(*u.EmailVerificationExpires) {
			return ErrVerificationExpired
		}
		u.EmailVerified = true
		u.EmailVerificationToken = nil
		u.EmailVerificationExpires = nil
		return nil
	})
	switch {
	case errors.Is(err, db.ErrNotFound):
		return ErrUserNotFound
	case errors.Is(err, ErrEmailAlreadyVerified),
		errors.Is(err, ErrInvalidVerificationToken),
		errors.Is(err, ErrVerificationExpired):
		return err
	case err != nil:
		return fmt.Errorf("failed to verify email '%s': %w", email, err)
	}
	return nil
}

func (s *userService) GetByID(ctx context.Context, userID string) (*models.User, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if errors.Is(err, db.ErrNotFound) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user by ID '%s' from repository: %w", userID, err)
	}
	return user, nil
}
