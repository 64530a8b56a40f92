package notification

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/domuslabs/domus/pkg/httpx"
	"github.com/domuslabs/domus/pkg/jwt"
	"github.com/domuslabs/domus/pkg/permission"
)

// ModuleName is the permission module guarding notifications.
const ModuleName = "Notification"

func RegisterEndpoints(reg *permission.Registry) {
	reg.Add("notification.send", ModuleName, "Create")
	reg.Add("notification.list", ModuleName, "Read")
	reg.Add("notification.mark_read", ModuleName, "Update")
	reg.Add("notification.mark_all_read", ModuleName, "Update")
}

// Router mounts send, inbox and mark-read endpoints. List and mark-read
// operate on the authenticated user's own inbox.
func Router(svc *Service, repo *Repository, guard *permission.Guard) chi.Router {
	h := &handlers{svc: svc, repo: repo}

	r := chi.NewRouter()
	r.With(guard.Require("notification.send")).Post("/", h.send)
	r.With(guard.Require("notification.list")).Get("/", h.list)
	r.With(guard.Require("notification.mark_read")).Put("/{id}/read", h.markRead)
	r.With(guard.Require("notification.mark_all_read")).Put("/read-all", h.markAllRead)

	return r
}

type handlers struct {
	svc  *Service
	repo *Repository
}

type sendRequest struct {
	UserID uuid.UUID `json:"user_id"`
	Title  string    `json:"title"`
	Body   string    `json:"body"`
	Kind   Kind      `json:"kind"`
}

func (h *handlers) send(w http.ResponseWriter, r *http.Request) {
	var req sendRequest
	if err := httpx.Decode(r, &req); err != nil {
		httpx.Error(w, err)
		return
	}
	if req.UserID == uuid.Nil || req.Title == "" {
		httpx.Error(w, httpx.ErrUnprocessableEntity)
		return
	}
	if req.Kind == "" {
		req.Kind = KindGeneral
	}
	n, err := h.svc.Notify(r.Context(), req.UserID, req.Title, req.Body, req.Kind)
	if err != nil {
		httpx.Error(w, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, n)
}

func (h *handlers) list(w http.ResponseWriter, r *http.Request) {
	userID, ok := jwt.UserIDFromContext(r.Context())
	if !ok {
		httpx.Error(w, httpx.ErrUnauthorized)
		return
	}
	unreadOnly := r.URL.Query().Get("unread") == "true"
	ns, err := h.repo.ListForUser(r.Context(), userID, unreadOnly)
	if err != nil {
		httpx.Error(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, ns)
}

func (h *handlers) markRead(w http.ResponseWriter, r *http.Request) {
	userID, ok := jwt.UserIDFromContext(r.Context())
	if !ok {
		httpx.Error(w, httpx.ErrUnauthorized)
		return
	}
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		httpx.Error(w, httpx.ErrBadRequest)
		return
	}
	if err := h.repo.MarkRead(r.Context(), id, userID); err != nil {
		if errors.Is(err, ErrNotFound) {
			httpx.Error(w, httpx.ErrNotFound)
			return
		}
		httpx.Error(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]string{"status": "read"})
}

func (h *handlers) markAllRead(w http.ResponseWriter, r *http.Request) {
	userID, ok := jwt.UserIDFromContext(r.Context())
	if !ok {
		httpx.Error(w, httpx.ErrUnauthorized)
		return
	}
	count, err := h.repo.MarkAllRead(r.Context(), userID)
	if err != nil {
		httpx.Error(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]int64{"marked": count})
}
