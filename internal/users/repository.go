package users

import (
	"context"

	"gorm.io/gorm"

	"github.com/H3nrYP0/optica-api/pkg/db/models"
)

// Repository wires together user, role, and permission persistence.
type Repository struct {
	db *gorm.DB
}

// NewRepository builds a repository tied to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// WithTx returns a repository bound to the provided transaction.
func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	return &Repository{db: tx}
}

func (r *Repository) CreateUser(ctx context.Context, user *models.User) (*models.User, error) {
	if err := r.db.WithContext(ctx).Create(user).Error; err != nil {
		return nil, err
	}
	return user, nil
}

func (r *Repository) ListUsers(ctx context.Context) ([]models.User, error) {
	var out []models.User
	err := r.db.WithContext(ctx).Preload("Role").Order("id").Find(&out).Error
	return out, err
}

func (r *Repository) FindUserByID(ctx context.Context, id uint) (*models.User, error) {
	var user models.User
	err := r.db.WithContext(ctx).
		Preload("Role").
		Preload("Role.Permissions").
		First(&user, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *Repository) FindUserByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	err := r.db.WithContext(ctx).
		Preload("Role").
		First(&user, "email = ?", email).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *Repository) SaveUser(ctx context.Context, user *models.User) error {
	return r.db.WithContext(ctx).Save(user).Error
}

func (r *Repository) CreateRole(ctx context.Context, role *models.Role) (*models.Role, error) {
	if err := r.db.WithContext(ctx).Create(role).Error; err != nil {
		return nil, err
	}
	return role, nil
}

func (r *Repository) ListRoles(ctx context.Context) ([]models.Role, error) {
	var out []models.Role
	err := r.db.WithContext(ctx).Preload("Permissions").Order("id").Find(&out).Error
	return out, err
}

func (r *Repository) FindRoleByID(ctx context.Context, id uint) (*models.Role, error) {
	var role models.Role
	err := r.db.WithContext(ctx).
		Preload("Permissions").
		First(&role, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &role, nil
}

func (r *Repository) ListPermissions(ctx context.Context) ([]models.Permission, error) {
	var out []models.Permission
	err := r.db.WithContext(ctx).Order("id").Find(&out).Error
	return out, err
}

// ReplaceRolePermissions swaps the role's permission set.
func (r *Repository) ReplaceRolePermissions(ctx context.Context, role *models.Role, permissions []models.Permission) error {
	return r.db.WithContext(ctx).Model(role).Association("Permissions").Replace(permissions)
}

func (r *Repository) FindPermissionsByIDs(ctx context.Context, ids []uint) ([]models.Permission, error) {
	var out []models.Permission
	err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&out).Error
	return out, err
}
