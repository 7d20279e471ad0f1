package controllers

import (
	"net/http"

	"github.com/H3nrYP0/optica-api/api/responses"
	"github.com/H3nrYP0/optica-api/api/validators"
	"github.com/H3nrYP0/optica-api/internal/users"
	"github.com/H3nrYP0/optica-api/pkg/logger"
)

type userCreateRequest struct {
	Name     string `json:"name" validate:"required,min=1,max=50"`
	Email    string `json:"email" validate:"required,email,max=100"`
	Password string `json:"password" validate:"required,min=8"`
	RoleID   uint   `json:"role_id" validate:"required"`
	ClientID *uint  `json:"client_id,omitempty"`
}

type userUpdateRequest struct {
	Name     *string `json:"name,omitempty" validate:"omitempty,min=1,max=50"`
	Email    *string `json:"email,omitempty" validate:"omitempty,email,max=100"`
	Password *string `json:"password,omitempty" validate:"omitempty,min=8"`
	RoleID   *uint   `json:"role_id,omitempty"`
	Active   *bool   `json:"active,omitempty"`
}

type roleCreateRequest struct {
	Name          string `json:"name" validate:"required,min=1,max=25"`
	Description   string `json:"description" validate:"max=60"`
	PermissionIDs []uint `json:"permission_ids"`
}

type rolePermissionsRequest struct {
	PermissionIDs []uint `json:"permission_ids" validate:"required"`
}

func CreateUser(svc users.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req userCreateRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		user, err := svc.CreateUser(r.Context(), users.CreateUserInput{
			Name:     req.Name,
			Email:    req.Email,
			Password: req.Password,
			RoleID:   req.RoleID,
			ClientID: req.ClientID,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteMessage(w, http.StatusCreated, "User created", map[string]any{"user": user})
	}
}

func ListUsers(svc users.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		list, err := svc.ListUsers(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, list)
	}
}

func UpdateUser(svc users.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := validators.URLParamID(r, "id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		var req userUpdateRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		user, err := svc.UpdateUser(r.Context(), id, users.UpdateUserInput{
			Name:     req.Name,
			Email:    req.Email,
			Password: req.Password,
			RoleID:   req.RoleID,
			Active:   req.Active,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteMessage(w, http.StatusOK, "User updated", map[string]any{"user": user})
	}
}

func DisableUser(svc users.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := validators.URLParamID(r, "id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if err := svc.DisableUser(r.Context(), id); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteMessage(w, http.StatusOK, "User disabled", nil)
	}
}

func CreateRole(svc users.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req roleCreateRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		role, err := svc.CreateRole(r.Context(), users.CreateRoleInput{
			Name:          req.Name,
			Description:   req.Description,
			PermissionIDs: req.PermissionIDs,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteMessage(w, http.StatusCreated, "Role created", map[string]any{"role": role})
	}
}

func ListRoles(svc users.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		roles, err := svc.ListRoles(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, roles)
	}
}

// SetRolePermissions replaces the role's permission set wholesale.
func SetRolePermissions(svc users.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := validators.URLParamID(r, "id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		var req rolePermissionsRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		role, err := svc.SetRolePermissions(r.Context(), id, req.PermissionIDs)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteMessage(w, http.StatusOK, "Role permissions updated", map[string]any{"role": role})
	}
}

func ListPermissions(svc users.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		permissions, err := svc.ListPermissions(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, permissions)
	}
}
