package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/noah-isme/tutoring-site/internal/dto"
	"github.com/noah-isme/tutoring-site/internal/models"
	"github.com/noah-isme/tutoring-site/internal/repository"
	appErrors "github.com/noah-isme/tutoring-site/pkg/errors"
)

const (
	maxUsernameLength = 50
	// bcrypt only accepts passwords up to this many bytes.
	maxPasswordBytes = 72
)

type authUserRepository interface {
	FindByUsername(ctx context.Context, username string) (*models.User, error)
	FindByID(ctx context.Context, id string) (*models.User, error)
	CreateWithProfile(ctx context.Context, user *models.User, student *models.Student) error
	UpdatePassword(ctx context.Context, id, passwordHash string) error
}

// AuthConfig holds the credential policy.
type AuthConfig struct {
	MinPasswordLength int
	BcryptCost        int
}

// AuthService registers accounts and verifies credentials.
type AuthService struct {
	repo      authUserRepository
	validator *validator.Validate
	logger    *zap.Logger
	metrics   *MetricsService
	config    AuthConfig
}

// NewAuthService constructs an AuthService instance.
func NewAuthService(repo authUserRepository, validate *validator.Validate, logger *zap.Logger, metrics *MetricsService, config AuthConfig) *AuthService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = validator.New()
	}
	if config.MinPasswordLength <= 0 {
		config.MinPasswordLength = 4
	}
	if config.BcryptCost == 0 {
		config.BcryptCost = bcrypt.DefaultCost
	}
	return &AuthService{repo: repo, validator: validate, logger: logger, metrics: metrics, config: config}
}

// Register creates a student account together with its profile.
func (s *AuthService) Register(ctx context.Context, req dto.RegisterForm) (*models.User, error) {
	req.Username = strings.TrimSpace(req.Username)
	req.Grade = strings.TrimSpace(req.Grade)

	user, err := s.register(ctx, req)
	if err != nil {
		s.metrics.RecordRegistration(OutcomeRejected)
		return nil, err
	}
	s.metrics.RecordRegistration(OutcomeSuccess)
	s.logger.Info("user registered", zap.String("user_id", user.ID), zap.String("username", user.Username))
	return user, nil
}

func (s *AuthService) register(ctx context.Context, req dto.RegisterForm) (*models.User, error) {
	if req.Username == "" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "username is required")
	}
	if utf8.RuneCountInString(req.Username) > maxUsernameLength {
		return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("username must be at most %d characters", maxUsernameLength))
	}
	if req.Password != req.Confirm {
		return nil, appErrors.Clone(appErrors.ErrValidation, "passwords do not match")
	}
	if err := s.checkPasswordPolicy(req.Password); err != nil {
		return nil, err
	}
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid registration form")
	}

	if _, err := s.repo.FindByUsername(ctx, req.Username); err == nil {
		return nil, appErrors.Clone(appErrors.ErrDuplicateUsername, "username already exists")
	} else if !errors.Is(err, sql.ErrNoRows) {
		return nil, appErrors.Internal(err, "failed to check username")
	}

	hash, err := s.hash(req.Password)
	if err != nil {
		return nil, err
	}

	user := &models.User{Username: req.Username, PasswordHash: hash, Role: models.RoleStudent}
	student := &models.Student{GradeLabel: req.Grade}
	if err := s.repo.CreateWithProfile(ctx, user, student); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, appErrors.Clone(appErrors.ErrDuplicateUsername, "username already exists")
		}
		return nil, appErrors.Internal(err, "failed to create user")
	}
	return user, nil
}

// Verify checks a username and password pair. It never reveals which of the two was wrong.
func (s *AuthService) Verify(ctx context.Context, req dto.LoginForm) (*models.User, error) {
	req.Username = strings.TrimSpace(req.Username)
	if err := s.validator.Struct(req); err != nil {
		s.metrics.RecordLogin(OutcomeRejected)
		return nil, appErrors.Clone(appErrors.ErrInvalidCredentials, "invalid username or password")
	}

	user, err := s.repo.FindByUsername(ctx, req.Username)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			s.metrics.RecordLogin(OutcomeRejected)
			return nil, appErrors.Clone(appErrors.ErrInvalidCredentials, "invalid username or password")
		}
		s.metrics.RecordLogin(OutcomeFailure)
		return nil, appErrors.Internal(err, "failed to fetch user")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		s.metrics.RecordLogin(OutcomeRejected)
		return nil, appErrors.Clone(appErrors.ErrInvalidCredentials, "invalid username or password")
	}

	s.metrics.RecordLogin(OutcomeSuccess)
	return user, nil
}

// ChangePassword replaces the caller's password after checking the current one.
func (s *AuthService) ChangePassword(ctx context.Context, identity models.Identity, req dto.ChangePasswordForm) error {
	if err := RequireLogin(identity); err != nil {
		return err
	}
	if err := s.validator.Struct(req); err != nil {
		return appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid password form")
	}
	if req.NewPassword != req.Confirm {
		return appErrors.Clone(appErrors.ErrValidation, "passwords do not match")
	}
	if err := s.checkPasswordPolicy(req.NewPassword); err != nil {
		return err
	}

	user, err := s.repo.FindByID(ctx, identity.UserID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, "user not found")
		}
		return appErrors.Internal(err, "failed to fetch user")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.OldPassword)); err != nil {
		return appErrors.Clone(appErrors.ErrInvalidCredentials, "current password is incorrect")
	}

	return s.storePassword(ctx, user, req.NewPassword)
}

// SetPassword resets a password without the current one. Used by the admin CLI.
func (s *AuthService) SetPassword(ctx context.Context, username, password string) error {
	if err := s.checkPasswordPolicy(password); err != nil {
		return err
	}
	user, err := s.repo.FindByUsername(ctx, strings.TrimSpace(username))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, "user not found")
		}
		return appErrors.Internal(err, "failed to fetch user")
	}
	return s.storePassword(ctx, user, password)
}

func (s *AuthService) storePassword(ctx context.Context, user *models.User, password string) error {
	hash, err := s.hash(password)
	if err != nil {
		return err
	}
	if err := s.repo.UpdatePassword(ctx, user.ID, hash); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, "user not found")
		}
		return appErrors.Internal(err, "failed to update password")
	}
	s.logger.Info("password changed", zap.String("user_id", user.ID))
	return nil
}

func (s *AuthService) checkPasswordPolicy(password string) error {
	if utf8.RuneCountInString(password) < s.config.MinPasswordLength {
		return appErrors.Clone(appErrors.ErrWeakPassword, fmt.Sprintf("password must be at least %d characters", s.config.MinPasswordLength))
	}
	if len(password) > maxPasswordBytes {
		return appErrors.Clone(appErrors.ErrWeakPassword, fmt.Sprintf("password must be at most %d bytes", maxPasswordBytes))
	}
	return nil
}

func (s *AuthService) hash(password string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), s.config.BcryptCost)
	if err != nil {
		return "", appErrors.Internal(err, "failed to hash password")
	}
	return string(hashed), nil
}
