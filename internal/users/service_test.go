package users

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	pkgauth "github.com/H3nrYP0/optica-api/pkg/auth"
	"github.com/H3nrYP0/optica-api/pkg/config"
	"github.com/H3nrYP0/optica-api/pkg/db"
	"github.com/H3nrYP0/optica-api/pkg/db/models"
	pkgerrors "github.com/H3nrYP0/optica-api/pkg/errors"
)

func setupUsersTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	conn, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{})
	require.NoError(t, err)

	require.NoError(t, conn.AutoMigrate(
		&models.Role{},
		&models.Permission{},
		&models.User{},
		&models.Client{},
	))
	return conn
}

func testJWTConfig() config.JWTConfig {
	return config.JWTConfig{Secret: "test-secret", Issuer: "optica-api", ExpirationMinutes: 60}
}

// Low-cost argon parameters keep the round trips fast under test.
func testPasswordConfig() config.PasswordConfig {
	return config.PasswordConfig{
		ArgonMemoryKB:    8192,
		ArgonTime:        1,
		ArgonParallelism: 1,
		ArgonSaltLen:     16,
		ArgonKeyLen:      32,
	}
}

func newUsersService(t *testing.T, conn *gorm.DB) Service {
	t.Helper()
	return NewService(NewRepository(conn), testJWTConfig(), testPasswordConfig(), nil)
}

func seedRole(t *testing.T, conn *gorm.DB, name string) *models.Role {
	t.Helper()
	role := &models.Role{Name: name, Active: true}
	require.NoError(t, conn.Create(role).Error)
	return role
}

func TestCreateUserHashesPassword(t *testing.T) {
	conn := setupUsersTestDB(t)
	svc := newUsersService(t, conn)
	role := seedRole(t, conn, "admin")

	user, err := svc.CreateUser(context.Background(), CreateUserInput{
		Name:     "Ana",
		Email:    "ana@example.com",
		Password: "correct horse",
		RoleID:   role.ID,
	})
	require.NoError(t, err)

	assert.NotEqual(t, "correct horse", user.PasswordHash)
	assert.Contains(t, user.PasswordHash, "$argon2id$")
	require.NotNil(t, user.Role)
	assert.Equal(t, "admin", user.Role.Name)
}

func TestCreateUserRejectsShortPassword(t *testing.T) {
	conn := setupUsersTestDB(t)
	svc := newUsersService(t, conn)
	role := seedRole(t, conn, "admin")

	_, err := svc.CreateUser(context.Background(), CreateUserInput{
		Name:     "Ana",
		Email:    "ana@example.com",
		Password: "short",
		RoleID:   role.ID,
	})
	require.Error(t, err)

	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeValidation, typed.Code())
}

func TestCreateUserRejectsDuplicateEmail(t *testing.T) {
	conn := setupUsersTestDB(t)
	svc := newUsersService(t, conn)
	role := seedRole(t, conn, "admin")

	input := CreateUserInput{Name: "Ana", Email: "ana@example.com", Password: "correct horse", RoleID: role.ID}
	_, err := svc.CreateUser(context.Background(), input)
	require.NoError(t, err)

	_, err = svc.CreateUser(context.Background(), input)
	require.Error(t, err)

	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeConflict, typed.Code())
}

// A concurrent registration can slip past the email pre-check; the unique
// index error from the insert itself must still map to a conflict.
func TestDuplicateEmailInsertIsUniqueViolation(t *testing.T) {
	conn := setupUsersTestDB(t)
	repo := NewRepository(conn)
	role := seedRole(t, conn, "admin")

	_, err := repo.CreateUser(context.Background(), &models.User{
		Name: "Ana", Email: "ana@example.com", PasswordHash: "x", RoleID: role.ID, Active: true,
	})
	require.NoError(t, err)

	_, err = repo.CreateUser(context.Background(), &models.User{
		Name: "Twin", Email: "ana@example.com", PasswordHash: "y", RoleID: role.ID, Active: true,
	})
	require.Error(t, err)
	assert.True(t, db.IsUniqueViolation(err, ""), "unexpected insert error: %v", err)
}

func TestLoginMintsParsableToken(t *testing.T) {
	conn := setupUsersTestDB(t)
	svc := newUsersService(t, conn)
	role := seedRole(t, conn, "employee")

	created, err := svc.CreateUser(context.Background(), CreateUserInput{
		Name:     "Luis",
		Email:    "luis@example.com",
		Password: "correct horse",
		RoleID:   role.ID,
	})
	require.NoError(t, err)

	result, err := svc.Login(context.Background(), "luis@example.com", "correct horse")
	require.NoError(t, err)
	require.NotEmpty(t, result.Token)
	assert.Equal(t, created.ID, result.User.ID)

	claims, err := pkgauth.ParseAccessToken(testJWTConfig(), result.Token)
	require.NoError(t, err)
	assert.Equal(t, created.ID, claims.UserID)
	assert.Equal(t, "employee", claims.Role)
}

func TestLoginFailuresAreIndistinguishable(t *testing.T) {
	conn := setupUsersTestDB(t)
	svc := newUsersService(t, conn)
	role := seedRole(t, conn, "employee")

	_, err := svc.CreateUser(context.Background(), CreateUserInput{
		Name:     "Luis",
		Email:    "luis@example.com",
		Password: "correct horse",
		RoleID:   role.ID,
	})
	require.NoError(t, err)

	cases := map[string][2]string{
		"unknown email":  {"nobody@example.com", "correct horse"},
		"wrong password": {"luis@example.com", "wrong"},
	}
	for name, creds := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := svc.Login(context.Background(), creds[0], creds[1])
			require.Error(t, err)

			typed := pkgerrors.As(err)
			require.NotNil(t, typed)
			assert.Equal(t, pkgerrors.CodeUnauthorized, typed.Code())
			assert.Equal(t, "invalid credentials", typed.Message())
		})
	}
}

func TestLoginRejectsDisabledUser(t *testing.T) {
	conn := setupUsersTestDB(t)
	svc := newUsersService(t, conn)
	role := seedRole(t, conn, "employee")

	user, err := svc.CreateUser(context.Background(), CreateUserInput{
		Name:     "Luis",
		Email:    "luis@example.com",
		Password: "correct horse",
		RoleID:   role.ID,
	})
	require.NoError(t, err)

	require.NoError(t, svc.DisableUser(context.Background(), user.ID))

	_, err = svc.Login(context.Background(), "luis@example.com", "correct horse")
	require.Error(t, err)

	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeUnauthorized, typed.Code())
}

func TestUpdateUserChangesPassword(t *testing.T) {
	conn := setupUsersTestDB(t)
	svc := newUsersService(t, conn)
	role := seedRole(t, conn, "employee")

	user, err := svc.CreateUser(context.Background(), CreateUserInput{
		Name:     "Luis",
		Email:    "luis@example.com",
		Password: "correct horse",
		RoleID:   role.ID,
	})
	require.NoError(t, err)

	next := "battery staple"
	_, err = svc.UpdateUser(context.Background(), user.ID, UpdateUserInput{Password: &next})
	require.NoError(t, err)

	_, err = svc.Login(context.Background(), "luis@example.com", "correct horse")
	require.Error(t, err)

	result, err := svc.Login(context.Background(), "luis@example.com", "battery staple")
	require.NoError(t, err)
	assert.NotEmpty(t, result.Token)
}

func TestSetRolePermissionsReplacesSet(t *testing.T) {
	conn := setupUsersTestDB(t)
	svc := newUsersService(t, conn)

	read := &models.Permission{Name: "dashboard.view"}
	manage := &models.Permission{Name: "sales.manage"}
	require.NoError(t, conn.Create(read).Error)
	require.NoError(t, conn.Create(manage).Error)

	role, err := svc.CreateRole(context.Background(), CreateRoleInput{
		Name:          "cashier",
		PermissionIDs: []uint{read.ID},
	})
	require.NoError(t, err)
	require.Len(t, role.Permissions, 1)

	role, err = svc.SetRolePermissions(context.Background(), role.ID, []uint{manage.ID})
	require.NoError(t, err)
	require.Len(t, role.Permissions, 1)
	assert.Equal(t, "sales.manage", role.Permissions[0].Name)
}

func TestSetRolePermissionsRejectsUnknownPermission(t *testing.T) {
	conn := setupUsersTestDB(t)
	svc := newUsersService(t, conn)

	role, err := svc.CreateRole(context.Background(), CreateRoleInput{Name: "cashier"})
	require.NoError(t, err)

	_, err = svc.SetRolePermissions(context.Background(), role.ID, []uint{9999})
	require.Error(t, err)

	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeValidation, typed.Code())
}
