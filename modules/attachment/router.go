package attachment

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/domuslabs/domus/pkg/file"
	"github.com/domuslabs/domus/pkg/httpx"
	"github.com/domuslabs/domus/pkg/jwt"
	"github.com/domuslabs/domus/pkg/permission"
)

// ModuleName is the permission module guarding attachments.
const ModuleName = "FileManagement"

func RegisterEndpoints(reg *permission.Registry) {
	reg.Add("attachment.upload", ModuleName, "Create")
	reg.Add("attachment.get", ModuleName, "Read")
	reg.Add("attachment.list", ModuleName, "Read")
	reg.Add("attachment.delete", ModuleName, "Delete")
}

// Router mounts upload, lookup and delete endpoints.
func Router(svc *Service, guard *permission.Guard) chi.Router {
	h := &handlers{svc: svc}

	r := chi.NewRouter()
	r.With(guard.Require("attachment.upload")).Post("/", h.upload)
	r.With(guard.Require("attachment.list")).Get("/", h.list)
	r.With(guard.Require("attachment.get")).Get("/{id}", h.get)
	r.With(guard.Require("attachment.delete")).Delete("/{id}", h.delete)

	return r
}

type handlers struct {
	svc *Service
}

func (h *handlers) upload(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := jwt.UserIDFromContext(r.Context())
	if !ok {
		httpx.Error(w, httpx.ErrUnauthorized)
		return
	}
	if err := r.ParseMultipartForm(MaxUploadSize); err != nil {
		httpx.Error(w, httpx.ErrBadRequest)
		return
	}
	entityType := r.FormValue("entity_type")
	entityID, err := uuid.Parse(r.FormValue("entity_id"))
	if entityType == "" || err != nil {
		httpx.Error(w, httpx.ErrUnprocessableEntity)
		return
	}
	f, fh, err := r.FormFile("file")
	if err != nil {
		httpx.Error(w, httpx.ErrBadRequest)
		return
	}
	defer f.Close()

	a, err := h.svc.Upload(r.Context(), ownerID, entityType, entityID, fh)
	if err != nil {
		switch {
		case errors.Is(err, ErrFileMissing), errors.Is(err, file.ErrFileTooLarge):
			httpx.Error(w, httpx.ErrUnprocessableEntity)
		default:
			httpx.Error(w, err)
		}
		return
	}
	httpx.JSON(w, http.StatusCreated, a)
}

func (h *handlers) list(w http.ResponseWriter, r *http.Request) {
	entityType := r.URL.Query().Get("entity_type")
	entityID, err := uuid.Parse(r.URL.Query().Get("entity_id"))
	if entityType == "" || err != nil {
		httpx.Error(w, httpx.ErrBadRequest)
		return
	}
	as, err := h.svc.ListByEntity(r.Context(), entityType, entityID)
	if err != nil {
		httpx.Error(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, as)
}

func (h *handlers) get(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		httpx.Error(w, httpx.ErrBadRequest)
		return
	}
	a, err := h.svc.Get(r.Context(), id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			httpx.Error(w, httpx.ErrNotFound)
			return
		}
		httpx.Error(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, a)
}

func (h *handlers) delete(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		httpx.Error(w, httpx.ErrBadRequest)
		return
	}
	if err := h.svc.Delete(r.Context(), id); err != nil {
		if errors.Is(err, ErrNotFound) {
			httpx.Error(w, httpx.ErrNotFound)
			return
		}
		httpx.Error(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}
