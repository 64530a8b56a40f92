package booking

import (
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/domuslabs/domus/pkg/httpx"
	"github.com/domuslabs/domus/pkg/jwt"
	"github.com/domuslabs/domus/pkg/permission"
)

// ModuleName is the permission module guarding facility bookings.
const ModuleName = "FacilityBooking"

func RegisterEndpoints(reg *permission.Registry) {
	reg.Add("booking.facilities.list", ModuleName, "Read")
	reg.Add("booking.facilities.get", ModuleName, "Read")
	reg.Add("booking.facilities.create", ModuleName, "Create")
	reg.Add("booking.facilities.deactivate", ModuleName, "Delete")
	reg.Add("booking.list", ModuleName, "Read")
	reg.Add("booking.mine", ModuleName, "Read")
	reg.Add("booking.create", ModuleName, "Create")
	reg.Add("booking.cancel", ModuleName, "Delete")
}

// Router mounts facility management and slot booking endpoints.
func Router(repo *Repository, guard *permission.Guard) chi.Router {
	h := &handlers{repo: repo}

	r := chi.NewRouter()
	r.With(guard.Require("booking.facilities.list")).Get("/facilities", h.listFacilities)
	r.With(guard.Require("booking.facilities.get")).Get("/facilities/{id}", h.getFacility)
	r.With(guard.Require("booking.facilities.create")).Post("/facilities", h.createFacility)
	r.With(guard.Require("booking.facilities.deactivate")).Delete("/facilities/{id}", h.deactivateFacility)

	r.With(guard.Require("booking.list")).Get("/facilities/{id}/bookings", h.listBookings)
	r.With(guard.Require("booking.create")).Post("/facilities/{id}/bookings", h.createBooking)
	r.With(guard.Require("booking.mine")).Get("/mine", h.myBookings)
	r.With(guard.Require("booking.cancel")).Delete("/{id}", h.cancelBooking)

	return r
}

type handlers struct {
	repo *Repository
}

type createFacilityRequest struct {
	CommunityID uuid.UUID `json:"community_id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Capacity    int       `json:"capacity"`
	OpenHour    int       `json:"open_hour"`
	CloseHour   int       `json:"close_hour"`
}

func (h *handlers) createFacility(w http.ResponseWriter, r *http.Request) {
	var req createFacilityRequest
	if err := httpx.Decode(r, &req); err != nil {
		httpx.Error(w, err)
		return
	}
	if req.Name == "" || req.CommunityID == uuid.Nil {
		httpx.Error(w, httpx.ErrUnprocessableEntity)
		return
	}
	f, err := h.repo.CreateFacility(r.Context(), req.CommunityID, req.Name, req.Description, req.Capacity, req.OpenHour, req.CloseHour)
	if err != nil {
		if errors.Is(err, ErrFacilityNotFound) {
			httpx.Error(w, httpx.ErrNotFound)
			return
		}
		httpx.Error(w, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, f)
}

func (h *handlers) listFacilities(w http.ResponseWriter, r *http.Request) {
	communityID, err := uuid.Parse(r.URL.Query().Get("community_id"))
	if err != nil {
		httpx.Error(w, httpx.ErrBadRequest)
		return
	}
	fs, err := h.repo.ListFacilities(r.Context(), communityID)
	if err != nil {
		httpx.Error(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, fs)
}

func (h *handlers) getFacility(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		httpx.Error(w, httpx.ErrBadRequest)
		return
	}
	f, err := h.repo.GetFacility(r.Context(), id)
	if err != nil {
		if errors.Is(err, ErrFacilityNotFound) {
			httpx.Error(w, httpx.ErrNotFound)
			return
		}
		httpx.Error(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, f)
}

func (h *handlers) deactivateFacility(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		httpx.Error(w, httpx.ErrBadRequest)
		return
	}
	if err := h.repo.DeactivateFacility(r.Context(), id); err != nil {
		if errors.Is(err, ErrFacilityNotFound) {
			httpx.Error(w, httpx.ErrNotFound)
			return
		}
		httpx.Error(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]string{"status": "deactivated"})
}

type createBookingRequest struct {
	StartsAt time.Time `json:"starts_at"`
	EndsAt   time.Time `json:"ends_at"`
}

func (h *handlers) createBooking(w http.ResponseWriter, r *http.Request) {
	facilityID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		httpx.Error(w, httpx.ErrBadRequest)
		return
	}
	userID, ok := jwt.UserIDFromContext(r.Context())
	if !ok {
		httpx.Error(w, httpx.ErrUnauthorized)
		return
	}
	var req createBookingRequest
	if err := httpx.Decode(r, &req); err != nil {
		httpx.Error(w, err)
		return
	}
	b, err := h.repo.CreateBooking(r.Context(), facilityID, userID, req.StartsAt, req.EndsAt)
	if err != nil {
		switch {
		case errors.Is(err, ErrInvalidWindow):
			httpx.Error(w, httpx.ErrUnprocessableEntity)
		case errors.Is(err, ErrFacilityNotFound):
			httpx.Error(w, httpx.ErrNotFound)
		case errors.Is(err, ErrFacilityClosed):
			httpx.Error(w, httpx.ErrUnprocessableEntity)
		case errors.Is(err, ErrSlotTaken):
			httpx.Error(w, httpx.ErrConflict)
		default:
			httpx.Error(w, err)
		}
		return
	}
	httpx.JSON(w, http.StatusCreated, b)
}

func (h *handlers) listBookings(w http.ResponseWriter, r *http.Request) {
	facilityID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		httpx.Error(w, httpx.ErrBadRequest)
		return
	}
	from, to := weekWindow(r)
	bs, err := h.repo.ListBookings(r.Context(), facilityID, from, to)
	if err != nil {
		httpx.Error(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, bs)
}

func (h *handlers) myBookings(w http.ResponseWriter, r *http.Request) {
	userID, ok := jwt.UserIDFromContext(r.Context())
	if !ok {
		httpx.Error(w, httpx.ErrUnauthorized)
		return
	}
	bs, err := h.repo.ListUserBookings(r.Context(), userID)
	if err != nil {
		httpx.Error(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, bs)
}

func (h *handlers) cancelBooking(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		httpx.Error(w, httpx.ErrBadRequest)
		return
	}
	if err := h.repo.CancelBooking(r.Context(), id); err != nil {
		if errors.Is(err, ErrBookingNotFound) {
			httpx.Error(w, httpx.ErrNotFound)
			return
		}
		httpx.Error(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]string{"status": "cancelled"})
}

// weekWindow parses optional from/to query params (RFC 3339), defaulting
// to the next seven days.
func weekWindow(r *http.Request) (time.Time, time.Time) {
	now := time.Now()
	from, to := now, now.AddDate(0, 0, 7)
	if v := r.URL.Query().Get("from"); v != "" {
		if t, err := time.Parse(time.RFC3339, v); err == nil {
			from = t
		}
	}
	if v := r.URL.Query().Get("to"); v != "" {
		if t, err := time.Parse(time.RFC3339, v); err == nil {
			to = t
		}
	}
	return from, to
}
