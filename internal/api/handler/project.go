package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/edvin/subnets/internal/api/request"
	"github.com/edvin/subnets/internal/api/response"
	"github.com/edvin/subnets/internal/core"
)

type Project struct {
	svc *core.ProjectService
}

func NewProject(svc *core.ProjectService) *Project {
	return &Project{svc: svc}
}

// NextSubnetResponse is the body of GET /api/subnets/next.
type NextSubnetResponse struct {
	Subnet string `json:"subnet"`
}

// List godoc
//
//	@Summary		List projects
//	@Description	Returns every project with its allocated subnet. An empty collection is returned as [].
//	@Tags			Projects
//	@Success		200	{array}		model.Project
//	@Failure		500	{object}	response.ErrorResponse
//	@Router			/api/projects [get]
func (h *Project) List(w http.ResponseWriter, r *http.Request) {
	projects, err := h.svc.List(r.Context())
	if err != nil {
		response.WriteServiceError(w, r, err)
		return
	}

	response.WriteJSON(w, http.StatusOK, projects)
}

// Create godoc
//
//	@Summary		Create a project
//	@Description	Creates a project and allocates the next free /24 subnet. Names are unique regardless of case.
//	@Tags			Projects
//	@Param			body	body		request.CreateProject	true	"Project details"
//	@Success		201		{object}	model.Project
//	@Failure		400		{object}	response.ErrorResponse
//	@Failure		500		{object}	response.ErrorResponse
//	@Router			/api/projects [post]
func (h *Project) Create(w http.ResponseWriter, r *http.Request) {
	var req request.CreateProject
	if err := request.Decode(r, &req); err != nil {
		response.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	project, err := h.svc.Create(r.Context(), core.CreateProjectInput{
		Name:     req.Name,
		Status:   req.Status,
		Provider: req.Provider,
	})
	if err != nil {
		response.WriteServiceError(w, r, err)
		return
	}

	response.WriteJSON(w, http.StatusCreated, project)
}

// Get godoc
//
//	@Summary		Get a project
//	@Tags			Projects
//	@Param			id	path		string	true	"Project ID"
//	@Success		200	{object}	model.Project
//	@Failure		404	{object}	response.ErrorResponse
//	@Router			/api/projects/{id} [get]
func (h *Project) Get(w http.ResponseWriter, r *http.Request) {
	id, err := request.RequireID(chi.URLParam(r, "id"))
	if err != nil {
		response.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	project, err := h.svc.Get(r.Context(), id)
	if err != nil {
		response.WriteServiceError(w, r, err)
		return
	}

	response.WriteJSON(w, http.StatusOK, project)
}

// Update godoc
//
//	@Summary		Update a project
//	@Description	Changes name, status or provider. The id, subnet and createdAt fields are never modified and are ignored if sent.
//	@Tags			Projects
//	@Param			id		path		string					true	"Project ID"
//	@Param			body	body		request.UpdateProject	true	"Fields to change"
//	@Success		200		{object}	model.Project
//	@Failure		400		{object}	response.ErrorResponse
//	@Failure		404		{object}	response.ErrorResponse
//	@Failure		500		{object}	response.ErrorResponse
//	@Router			/api/projects/{id} [put]
func (h *Project) Update(w http.ResponseWriter, r *http.Request) {
	id, err := request.RequireID(chi.URLParam(r, "id"))
	if err != nil {
		response.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	var req request.UpdateProject
	if err := request.Decode(r, &req); err != nil {
		response.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	project, err := h.svc.Update(r.Context(), id, core.ProjectPatch{
		Name:     req.Name,
		Status:   req.Status,
		Provider: req.Provider,
	})
	if err != nil {
		response.WriteServiceError(w, r, err)
		return
	}

	response.WriteJSON(w, http.StatusOK, project)
}

// Delete godoc
//
//	@Summary		Delete a project
//	@Description	Removes the project. Its subnet is not handed out again unless it was the highest allocated one.
//	@Tags			Projects
//	@Param			id	path	string	true	"Project ID"
//	@Success		204
//	@Failure		404	{object}	response.ErrorResponse
//	@Failure		500	{object}	response.ErrorResponse
//	@Router			/api/projects/{id} [delete]
func (h *Project) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := request.RequireID(chi.URLParam(r, "id"))
	if err != nil {
		response.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := h.svc.Delete(r.Context(), id); err != nil {
		response.WriteServiceError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// NextSubnet godoc
//
//	@Summary		Preview the next subnet
//	@Description	Reports the subnet the next created project would receive. Nothing is reserved.
//	@Tags			Subnets
//	@Success		200	{object}	NextSubnetResponse
//	@Failure		500	{object}	response.ErrorResponse
//	@Router			/api/subnets/next [get]
func (h *Project) NextSubnet(w http.ResponseWriter, r *http.Request) {
	next, err := h.svc.NextSubnet(r.Context())
	if err != nil {
		response.WriteServiceError(w, r, err)
		return
	}

	response.WriteJSON(w, http.StatusOK, NextSubnetResponse{Subnet: next})
}

// Catalog godoc
//
//	@Summary		List accepted statuses and providers
//	@Tags			Projects
//	@Success		200	{object}	model.Catalog
//	@Router			/api/catalog [get]
func (h *Project) Catalog(w http.ResponseWriter, r *http.Request) {
	response.WriteJSON(w, http.StatusOK, h.svc.Catalog())
}
