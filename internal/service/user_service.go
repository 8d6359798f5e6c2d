package service

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/tutoring-site/internal/dto"
	"github.com/noah-isme/tutoring-site/internal/models"
	appErrors "github.com/noah-isme/tutoring-site/pkg/errors"
)

type userRepository interface {
	FindByUsername(ctx context.Context, username string) (*models.User, error)
	FindByID(ctx context.Context, id string) (*models.User, error)
	List(ctx context.Context) ([]models.User, error)
	UpdateRole(ctx context.Context, id string, role models.UserRole) error
}

// UserService implements account administration.
type UserService struct {
	repo      userRepository
	validator *validator.Validate
	logger    *zap.Logger
}

// NewUserService constructs a UserService.
func NewUserService(repo userRepository, validate *validator.Validate, logger *zap.Logger) *UserService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = validator.New()
	}
	return &UserService{repo: repo, validator: validate, logger: logger}
}

// List returns every account for the admin user page.
func (s *UserService) List(ctx context.Context, actor models.Identity) ([]models.User, error) {
	if err := RequireAdmin(actor); err != nil {
		return nil, err
	}
	users, err := s.repo.List(ctx)
	if err != nil {
		return nil, appErrors.Internal(err, "failed to list users")
	}
	return users, nil
}

// Get returns one account by id.
func (s *UserService) Get(ctx context.Context, id string) (*models.User, error) {
	user, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "user not found")
		}
		return nil, appErrors.Internal(err, "failed to fetch user")
	}
	return user, nil
}

// ChangeRole promotes or demotes target on behalf of actor. Admins cannot demote themselves.
// Concurrent changes to the same account resolve last-write-wins.
func (s *UserService) ChangeRole(ctx context.Context, actor models.Identity, req dto.RoleChangeForm) (*models.User, error) {
	if err := RequireAdmin(actor); err != nil {
		return nil, err
	}
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid role action")
	}
	role, ok := models.RoleAction(req.Action).TargetRole()
	if !ok {
		return nil, appErrors.Clone(appErrors.ErrValidation, "invalid role action")
	}

	target, err := s.Get(ctx, req.UserID)
	if err != nil {
		return nil, err
	}
	if target.ID == actor.UserID && role != models.RoleAdmin {
		return nil, appErrors.Clone(appErrors.ErrSelfDemotion, "you cannot demote yourself")
	}

	if err := s.repo.UpdateRole(ctx, target.ID, role); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "user not found")
		}
		return nil, appErrors.Internal(err, "failed to update role")
	}
	target.Role = role

	s.logger.Info("role changed",
		zap.String("actor_id", actor.UserID),
		zap.String("target_id", target.ID),
		zap.String("role", string(role)),
	)
	return target, nil
}

// MakeAdmin promotes username without an acting admin. Used to bootstrap the first admin from the CLI.
func (s *UserService) MakeAdmin(ctx context.Context, username string) (*models.User, error) {
	user, err := s.repo.FindByUsername(ctx, strings.TrimSpace(username))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "user not found")
		}
		return nil, appErrors.Internal(err, "failed to fetch user")
	}
	if user.IsAdmin() {
		return user, nil
	}
	if err := s.repo.UpdateRole(ctx, user.ID, models.RoleAdmin); err != nil {
		return nil, appErrors.Internal(err, "failed to update role")
	}
	user.Role = models.RoleAdmin
	s.logger.Info("user promoted from cli", zap.String("user_id", user.ID))
	return user, nil
}
