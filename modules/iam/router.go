package iam

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/domuslabs/domus/pkg/httpx"
	"github.com/domuslabs/domus/pkg/permission"
)

// ModuleName is the permission module guarding user and role management.
const ModuleName = "UserManagement"

// RegisterEndpoints declares this module's permission requirements. Called
// at startup before Router so the guard sees a complete table.
func RegisterEndpoints(reg *permission.Registry) {
	reg.Add("iam.users.list", ModuleName, "Read")
	reg.Add("iam.users.get", ModuleName, "Read")
	reg.Add("iam.users.create", ModuleName, "Create")
	reg.Add("iam.users.deactivate", ModuleName, "Delete")
	reg.Add("iam.roles.list", ModuleName, "Read")
	reg.Add("iam.roles.create", ModuleName, "Create")
	reg.Add("iam.roles.assign", ModuleName, "Update")
	reg.Add("iam.roles.revoke", ModuleName, "Update")
	reg.Add("iam.modules.list", ModuleName, "Read")
}

// Router mounts login (bootstrap, unguarded) and the guarded user/role
// management endpoints.
func Router(auth *AuthService, repo *Repository, guard *permission.Guard) chi.Router {
	h := &handlers{auth: auth, repo: repo}

	r := chi.NewRouter()
	r.Post("/login", h.login)

	r.With(guard.Require("iam.users.list")).Get("/users", h.listUsers)
	r.With(guard.Require("iam.users.get")).Get("/users/{id}", h.getUser)
	r.With(guard.Require("iam.users.create")).Post("/users", h.createUser)
	r.With(guard.Require("iam.users.deactivate")).Delete("/users/{id}", h.deactivateUser)

	r.With(guard.Require("iam.roles.list")).Get("/roles", h.listRoles)
	r.With(guard.Require("iam.roles.create")).Post("/roles", h.createRole)
	r.With(guard.Require("iam.roles.assign")).Post("/users/{id}/roles/{roleID}", h.assignRole)
	r.With(guard.Require("iam.roles.revoke")).Delete("/users/{id}/roles/{roleID}", h.revokeRole)

	r.With(guard.Require("iam.modules.list")).Get("/modules", h.listModules)

	return r
}

type handlers struct {
	auth *AuthService
	repo *Repository
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginResponse struct {
	AccessToken string `json:"access_token"`
	User        *User  `json:"user"`
}

func (h *handlers) login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := httpx.Decode(r, &req); err != nil {
		httpx.Error(w, err)
		return
	}

	token, user, err := h.auth.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, ErrInvalidCredentials):
			httpx.Error(w, httpx.ErrUnauthorized)
		case errors.Is(err, ErrUserInactive):
			httpx.Error(w, httpx.ErrForbidden)
		default:
			httpx.Error(w, err)
		}
		return
	}
	httpx.JSON(w, http.StatusOK, loginResponse{AccessToken: token, User: user})
}

type createUserRequest struct {
	Email    string `json:"email"`
	Name     string `json:"name"`
	Password string `json:"password"`
}

func (h *handlers) createUser(w http.ResponseWriter, r *http.Request) {
	var req createUserRequest
	if err := httpx.Decode(r, &req); err != nil {
		httpx.Error(w, err)
		return
	}
	hash, err := HashPassword(req.Password)
	if err != nil {
		httpx.Error(w, httpx.ErrUnprocessableEntity)
		return
	}
	user, err := h.repo.CreateUser(r.Context(), req.Email, req.Name, hash)
	if err != nil {
		if errors.Is(err, ErrEmailTaken) {
			httpx.Error(w, httpx.ErrConflict)
			return
		}
		httpx.Error(w, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, user)
}

func (h *handlers) listUsers(w http.ResponseWriter, r *http.Request) {
	users, err := h.repo.ListUsers(r.Context())
	if err != nil {
		httpx.Error(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, users)
}

func (h *handlers) getUser(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		httpx.Error(w, httpx.ErrBadRequest)
		return
	}
	user, err := h.repo.GetUser(r.Context(), id)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			httpx.Error(w, httpx.ErrNotFound)
			return
		}
		httpx.Error(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, user)
}

func (h *handlers) deactivateUser(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		httpx.Error(w, httpx.ErrBadRequest)
		return
	}
	if err := h.repo.DeactivateUser(r.Context(), id); err != nil {
		if errors.Is(err, ErrUserNotFound) {
			httpx.Error(w, httpx.ErrNotFound)
			return
		}
		httpx.Error(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]string{"status": "deactivated"})
}

type createRoleRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

func (h *handlers) createRole(w http.ResponseWriter, r *http.Request) {
	var req createRoleRequest
	if err := httpx.Decode(r, &req); err != nil {
		httpx.Error(w, err)
		return
	}
	role, err := h.repo.CreateRole(r.Context(), req.Name, req.Description)
	if err != nil {
		httpx.Error(w, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, role)
}

func (h *handlers) listRoles(w http.ResponseWriter, r *http.Request) {
	roles, err := h.repo.ListRoles(r.Context())
	if err != nil {
		httpx.Error(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, roles)
}

func (h *handlers) assignRole(w http.ResponseWriter, r *http.Request) {
	userID, err1 := uuid.Parse(chi.URLParam(r, "id"))
	roleID, err2 := uuid.Parse(chi.URLParam(r, "roleID"))
	if err1 != nil || err2 != nil {
		httpx.Error(w, httpx.ErrBadRequest)
		return
	}
	if err := h.repo.AssignRole(r.Context(), userID, roleID); err != nil {
		httpx.Error(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]string{"status": "assigned"})
}

func (h *handlers) revokeRole(w http.ResponseWriter, r *http.Request) {
	userID, err1 := uuid.Parse(chi.URLParam(r, "id"))
	roleID, err2 := uuid.Parse(chi.URLParam(r, "roleID"))
	if err1 != nil || err2 != nil {
		httpx.Error(w, httpx.ErrBadRequest)
		return
	}
	if err := h.repo.RevokeRole(r.Context(), userID, roleID); err != nil {
		httpx.Error(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]string{"status": "revoked"})
}

func (h *handlers) listModules(w http.ResponseWriter, r *http.Request) {
	modules, actions, err := h.repo.ListModules(r.Context())
	if err != nil {
		httpx.Error(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"modules": modules, "actions": actions})
}
