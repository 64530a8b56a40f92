package community

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/domuslabs/domus/pkg/httpx"
	"github.com/domuslabs/domus/pkg/permission"
)

// ModuleName is the permission module guarding the property hierarchy.
const ModuleName = "CommunityManagement"

func RegisterEndpoints(reg *permission.Registry) {
	reg.Add("community.list", ModuleName, "Read")
	reg.Add("community.get", ModuleName, "Read")
	reg.Add("community.create", ModuleName, "Create")
	reg.Add("community.update", ModuleName, "Update")
	reg.Add("community.delete", ModuleName, "Delete")
	reg.Add("community.blocks.list", ModuleName, "Read")
	reg.Add("community.blocks.create", ModuleName, "Create")
	reg.Add("community.floors.list", ModuleName, "Read")
	reg.Add("community.floors.create", ModuleName, "Create")
	reg.Add("community.units.list", ModuleName, "Read")
	reg.Add("community.units.create", ModuleName, "Create")
	reg.Add("community.units.assign_owner", ModuleName, "Update")
}

// Router mounts the community/block/floor/unit hierarchy endpoints.
func Router(repo *Repository, guard *permission.Guard) chi.Router {
	h := &handlers{repo: repo}

	r := chi.NewRouter()
	r.With(guard.Require("community.list")).Get("/", h.list)
	r.With(guard.Require("community.create")).Post("/", h.create)
	r.With(guard.Require("community.get")).Get("/{id}", h.get)
	r.With(guard.Require("community.update")).Put("/{id}", h.update)
	r.With(guard.Require("community.delete")).Delete("/{id}", h.delete)

	r.With(guard.Require("community.blocks.list")).Get("/{id}/blocks", h.listBlocks)
	r.With(guard.Require("community.blocks.create")).Post("/{id}/blocks", h.createBlock)

	r.With(guard.Require("community.floors.list")).Get("/blocks/{blockID}/floors", h.listFloors)
	r.With(guard.Require("community.floors.create")).Post("/blocks/{blockID}/floors", h.createFloor)

	r.With(guard.Require("community.units.list")).Get("/floors/{floorID}/units", h.listUnits)
	r.With(guard.Require("community.units.create")).Post("/floors/{floorID}/units", h.createUnit)
	r.With(guard.Require("community.units.assign_owner")).Put("/units/{unitID}/owner", h.assignOwner)

	return r
}

type handlers struct {
	repo *Repository
}

type communityRequest struct {
	Name    string `json:"name"`
	Address string `json:"address"`
}

func (h *handlers) create(w http.ResponseWriter, r *http.Request) {
	var req communityRequest
	if err := httpx.Decode(r, &req); err != nil {
		httpx.Error(w, err)
		return
	}
	if req.Name == "" {
		httpx.Error(w, httpx.ErrUnprocessableEntity)
		return
	}
	c, err := h.repo.CreateCommunity(r.Context(), req.Name, req.Address)
	if err != nil {
		httpx.Error(w, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, c)
}

func (h *handlers) list(w http.ResponseWriter, r *http.Request) {
	cs, err := h.repo.ListCommunities(r.Context())
	if err != nil {
		httpx.Error(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, cs)
}

func (h *handlers) get(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		httpx.Error(w, httpx.ErrBadRequest)
		return
	}
	c, err := h.repo.GetCommunity(r.Context(), id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			httpx.Error(w, httpx.ErrNotFound)
			return
		}
		httpx.Error(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, c)
}

func (h *handlers) update(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		httpx.Error(w, httpx.ErrBadRequest)
		return
	}
	var req communityRequest
	if err := httpx.Decode(r, &req); err != nil {
		httpx.Error(w, err)
		return
	}
	c, err := h.repo.UpdateCommunity(r.Context(), id, req.Name, req.Address)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			httpx.Error(w, httpx.ErrNotFound)
			return
		}
		httpx.Error(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, c)
}

func (h *handlers) delete(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		httpx.Error(w, httpx.ErrBadRequest)
		return
	}
	if err := h.repo.DeleteCommunity(r.Context(), id); err != nil {
		if errors.Is(err, ErrNotFound) {
			httpx.Error(w, httpx.ErrNotFound)
			return
		}
		httpx.Error(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

type blockRequest struct {
	Name string `json:"name"`
}

func (h *handlers) createBlock(w http.ResponseWriter, r *http.Request) {
	communityID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		httpx.Error(w, httpx.ErrBadRequest)
		return
	}
	var req blockRequest
	if err := httpx.Decode(r, &req); err != nil {
		httpx.Error(w, err)
		return
	}
	b, err := h.repo.CreateBlock(r.Context(), communityID, req.Name)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			httpx.Error(w, httpx.ErrNotFound)
			return
		}
		httpx.Error(w, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, b)
}

func (h *handlers) listBlocks(w http.ResponseWriter, r *http.Request) {
	communityID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		httpx.Error(w, httpx.ErrBadRequest)
		return
	}
	bs, err := h.repo.ListBlocks(r.Context(), communityID)
	if err != nil {
		httpx.Error(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, bs)
}

type floorRequest struct {
	Number int `json:"number"`
}

func (h *handlers) createFloor(w http.ResponseWriter, r *http.Request) {
	blockID, err := uuid.Parse(chi.URLParam(r, "blockID"))
	if err != nil {
		httpx.Error(w, httpx.ErrBadRequest)
		return
	}
	var req floorRequest
	if err := httpx.Decode(r, &req); err != nil {
		httpx.Error(w, err)
		return
	}
	f, err := h.repo.CreateFloor(r.Context(), blockID, req.Number)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			httpx.Error(w, httpx.ErrNotFound)
			return
		}
		httpx.Error(w, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, f)
}

func (h *handlers) listFloors(w http.ResponseWriter, r *http.Request) {
	blockID, err := uuid.Parse(chi.URLParam(r, "blockID"))
	if err != nil {
		httpx.Error(w, httpx.ErrBadRequest)
		return
	}
	fs, err := h.repo.ListFloors(r.Context(), blockID)
	if err != nil {
		httpx.Error(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, fs)
}

type unitRequest struct {
	Number string  `json:"number"`
	Area   float64 `json:"area"`
}

func (h *handlers) createUnit(w http.ResponseWriter, r *http.Request) {
	floorID, err := uuid.Parse(chi.URLParam(r, "floorID"))
	if err != nil {
		httpx.Error(w, httpx.ErrBadRequest)
		return
	}
	var req unitRequest
	if err := httpx.Decode(r, &req); err != nil {
		httpx.Error(w, err)
		return
	}
	u, err := h.repo.CreateUnit(r.Context(), floorID, req.Number, req.Area)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			httpx.Error(w, httpx.ErrNotFound)
			return
		}
		httpx.Error(w, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, u)
}

func (h *handlers) listUnits(w http.ResponseWriter, r *http.Request) {
	floorID, err := uuid.Parse(chi.URLParam(r, "floorID"))
	if err != nil {
		httpx.Error(w, httpx.ErrBadRequest)
		return
	}
	us, err := h.repo.ListUnits(r.Context(), floorID)
	if err != nil {
		httpx.Error(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, us)
}

type assignOwnerRequest struct {
	UserID uuid.UUID `json:"user_id"`
}

func (h *handlers) assignOwner(w http.ResponseWriter, r *http.Request) {
	unitID, err := uuid.Parse(chi.URLParam(r, "unitID"))
	if err != nil {
		httpx.Error(w, httpx.ErrBadRequest)
		return
	}
	var req assignOwnerRequest
	if err := httpx.Decode(r, &req); err != nil {
		httpx.Error(w, err)
		return
	}
	if err := h.repo.AssignUnitOwner(r.Context(), unitID, req.UserID); err != nil {
		if errors.Is(err, ErrNotFound) {
			httpx.Error(w, httpx.ErrNotFound)
			return
		}
		httpx.Error(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]string{"status": "assigned"})
}
