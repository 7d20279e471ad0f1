package users

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	pkgauth "github.com/H3nrYP0/optica-api/pkg/auth"
	"github.com/H3nrYP0/optica-api/pkg/config"
	"github.com/H3nrYP0/optica-api/pkg/db"
	"github.com/H3nrYP0/optica-api/pkg/db/models"
	pkgerrors "github.com/H3nrYP0/optica-api/pkg/errors"
	"github.com/H3nrYP0/optica-api/pkg/logger"
	"github.com/H3nrYP0/optica-api/pkg/security"
)

// Service handles authentication and user/role administration.
type Service interface {
	Login(ctx context.Context, email, password string) (*LoginResult, error)

	CreateUser(ctx context.Context, input CreateUserInput) (*models.User, error)
	ListUsers(ctx context.Context) ([]models.User, error)
	GetUser(ctx context.Context, id uint) (*models.User, error)
	UpdateUser(ctx context.Context, id uint, input UpdateUserInput) (*models.User, error)
	DisableUser(ctx context.Context, id uint) error

	CreateRole(ctx context.Context, input CreateRoleInput) (*models.Role, error)
	ListRoles(ctx context.Context) ([]models.Role, error)
	GetRole(ctx context.Context, id uint) (*models.Role, error)
	SetRolePermissions(ctx context.Context, roleID uint, permissionIDs []uint) (*models.Role, error)
	ListPermissions(ctx context.Context) ([]models.Permission, error)
}

// LoginResult carries the minted token and the authenticated user.
type LoginResult struct {
	Token string       `json:"token"`
	User  *models.User `json:"user"`
}

// CreateUserInput holds the validated payload to create a user account.
type CreateUserInput struct {
	Name     string
	Email    string
	Password string
	RoleID   uint
	ClientID *uint
}

// UpdateUserInput holds optional mutation values for a user account.
type UpdateUserInput struct {
	Name     *string
	Email    *string
	Password *string
	RoleID   *uint
	Active   *bool
}

// CreateRoleInput holds the validated payload to create a role.
type CreateRoleInput struct {
	Name          string
	Description   string
	PermissionIDs []uint
}

type service struct {
	repo        *Repository
	jwtCfg      config.JWTConfig
	passwordCfg config.PasswordConfig
	logg        *logger.Logger
}

// NewService builds the users service.
func NewService(repo *Repository, jwtCfg config.JWTConfig, passwordCfg config.PasswordConfig, logg *logger.Logger) Service {
	return &service{repo: repo, jwtCfg: jwtCfg, passwordCfg: passwordCfg, logg: logg}
}

// Login verifies credentials and mints an access token. All failure paths
// return the same message so callers cannot enumerate registered emails.
func (s *service) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	invalid := pkgerrors.New(pkgerrors.CodeUnauthorized, "invalid credentials")

	user, err := s.repo.FindUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, invalid
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: load user by email")
	}
	if !user.Active {
		return nil, invalid
	}

	ok, err := security.VerifyPassword(password, user.PasswordHash)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "verify password")
	}
	if !ok {
		return nil, invalid
	}

	roleName := ""
	if user.Role != nil {
		roleName = user.Role.Name
	}
	token, err := pkgauth.MintAccessToken(s.jwtCfg, time.Now(), user.ID, roleName)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "mint access token")
	}

	if s.logg != nil {
		s.logg.Info(s.logg.WithFields(ctx, map[string]any{"user_id": user.ID}), "auth.login")
	}
	return &LoginResult{Token: token, User: user}, nil
}

func (s *service) CreateUser(ctx context.Context, input CreateUserInput) (*models.User, error) {
	if input.Name == "" || input.Email == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "Name and email are required")
	}
	if len(input.Password) < 8 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "Password must be at least 8 characters")
	}
	if _, err := s.repo.FindRoleByID(ctx, input.RoleID); err != nil {
		return nil, notFoundOr(err, fmt.Sprintf("Role %d does not exist", input.RoleID), "db: load role")
	}
	if _, err := s.repo.FindUserByEmail(ctx, input.Email); err == nil {
		return nil, pkgerrors.New(pkgerrors.CodeConflict, "Email is already registered")
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: check email")
	}

	hash, err := security.HashPassword(input.Password, s.passwordCfg)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "hash password")
	}

	user := &models.User{
		Name:         input.Name,
		Email:        input.Email,
		PasswordHash: hash,
		RoleID:       input.RoleID,
		ClientID:     input.ClientID,
		Active:       true,
	}
	if _, err := s.repo.CreateUser(ctx, user); err != nil {
		// The email pre-check above races with concurrent registration; the
		// unique index is the authority.
		if db.IsUniqueViolation(err, "") {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, "Email is already registered")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: create user")
	}
	return s.GetUser(ctx, user.ID)
}

func (s *service) ListUsers(ctx context.Context) ([]models.User, error) {
	out, err := s.repo.ListUsers(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: list users")
	}
	return out, nil
}

func (s *service) GetUser(ctx context.Context, id uint) (*models.User, error) {
	user, err := s.repo.FindUserByID(ctx, id)
	if err != nil {
		return nil, notFoundOr(err, "User not found", "db: load user")
	}
	return user, nil
}

func (s *service) UpdateUser(ctx context.Context, id uint, input UpdateUserInput) (*models.User, error) {
	user, err := s.repo.FindUserByID(ctx, id)
	if err != nil {
		return nil, notFoundOr(err, "User not found", "db: load user")
	}

	if input.Name != nil {
		if *input.Name == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "Name cannot be empty")
		}
		user.Name = *input.Name
	}
	if input.Email != nil {
		if *input.Email == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "Email cannot be empty")
		}
		user.Email = *input.Email
	}
	if input.RoleID != nil {
		if _, err := s.repo.FindRoleByID(ctx, *input.RoleID); err != nil {
			return nil, notFoundOr(err, fmt.Sprintf("Role %d does not exist", *input.RoleID), "db: load role")
		}
		user.RoleID = *input.RoleID
	}
	if input.Password != nil {
		if len(*input.Password) < 8 {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "Password must be at least 8 characters")
		}
		hash, err := security.HashPassword(*input.Password, s.passwordCfg)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "hash password")
		}
		user.PasswordHash = hash
	}
	if input.Active != nil {
		user.Active = *input.Active
	}

	user.Role = nil
	user.Client = nil
	if err := s.repo.SaveUser(ctx, user); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: save user")
	}
	return s.GetUser(ctx, id)
}

func (s *service) DisableUser(ctx context.Context, id uint) error {
	user, err := s.repo.FindUserByID(ctx, id)
	if err != nil {
		return notFoundOr(err, "User not found", "db: load user")
	}
	user.Active = false
	user.Role = nil
	user.Client = nil
	if err := s.repo.SaveUser(ctx, user); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: save user")
	}
	return nil
}

func (s *service) CreateRole(ctx context.Context, input CreateRoleInput) (*models.Role, error) {
	if input.Name == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "Role name is required")
	}
	perms, err := s.resolvePermissions(ctx, input.PermissionIDs)
	if err != nil {
		return nil, err
	}
	role := &models.Role{
		Name:        input.Name,
		Description: input.Description,
		Active:      true,
		Permissions: perms,
	}
	if _, err := s.repo.CreateRole(ctx, role); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: create role")
	}
	return s.GetRole(ctx, role.ID)
}

func (s *service) ListRoles(ctx context.Context) ([]models.Role, error) {
	out, err := s.repo.ListRoles(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: list roles")
	}
	return out, nil
}

func (s *service) GetRole(ctx context.Context, id uint) (*models.Role, error) {
	role, err := s.repo.FindRoleByID(ctx, id)
	if err != nil {
		return nil, notFoundOr(err, "Role not found", "db: load role")
	}
	return role, nil
}

func (s *service) SetRolePermissions(ctx context.Context, roleID uint, permissionIDs []uint) (*models.Role, error) {
	role, err := s.repo.FindRoleByID(ctx, roleID)
	if err != nil {
		return nil, notFoundOr(err, "Role not found", "db: load role")
	}
	perms, err := s.resolvePermissions(ctx, permissionIDs)
	if err != nil {
		return nil, err
	}
	if err := s.repo.ReplaceRolePermissions(ctx, role, perms); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: replace role permissions")
	}
	return s.GetRole(ctx, roleID)
}

func (s *service) ListPermissions(ctx context.Context) ([]models.Permission, error) {
	out, err := s.repo.ListPermissions(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: list permissions")
	}
	return out, nil
}

func (s *service) resolvePermissions(ctx context.Context, ids []uint) ([]models.Permission, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	perms, err := s.repo.FindPermissionsByIDs(ctx, ids)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: load permissions")
	}
	if len(perms) != len(ids) {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "One or more permissions do not exist")
	}
	return perms, nil
}

func notFoundOr(err error, notFoundMsg, wrapMsg string) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return pkgerrors.New(pkgerrors.CodeNotFound, notFoundMsg)
	}
	return pkgerrors.Wrap(pkgerrors.CodeDependency, err, wrapMsg)
}
