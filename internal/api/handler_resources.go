package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"orgstack/internal/domain"
)

type createResourceBody struct {
	Name   string                 `json:"name"`
	Type   string                 `json:"type"`
	Config map[string]interface{} `json:"config"`
}

type updateResourceBody struct {
	Name   *string                `json:"name"`
	Type   *string                `json:"type"`
	Config map[string]interface{} `json:"config"`
}

func (h *Handler) listResources(w http.ResponseWriter, r *http.Request) {
	filter := parseListFilter(r)
	resources, total, err := h.resources.ListForDomain(r.Context(), chi.URLParam(r, "domainID"), filter)
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondPage(w, toResourceList(resources), domain.NewPageMeta(filter.PageRequest, total))
}

func (h *Handler) createResource(w http.ResponseWriter, r *http.Request) {
	var body createResourceBody
	if err := decodeJSON(r, &body); err != nil {
		respondMalformed(w, err)
		return
	}

	res, err := h.resources.Create(r.Context(), chi.URLParam(r, "domainID"), domain.CreateResourceRequest{
		Name:   body.Name,
		Type:   body.Type,
		Config: body.Config,
	})
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondData(w, http.StatusCreated, toResourceJSON(res))
}

func (h *Handler) getResource(w http.ResponseWriter, r *http.Request) {
	res, err := h.resources.Get(r.Context(), chi.URLParam(r, "resourceID"), parseBool(r, "include_deleted"))
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondData(w, http.StatusOK, toResourceJSON(res))
}

func (h *Handler) updateResource(w http.ResponseWriter, r *http.Request) {
	var body updateResourceBody
	if err := decodeJSON(r, &body); err != nil {
		respondMalformed(w, err)
		return
	}

	res, err := h.resources.Update(r.Context(), chi.URLParam(r, "resourceID"), domain.UpdateResourceRequest{
		Name:   body.Name,
		Type:   body.Type,
		Config: body.Config,
	})
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondData(w, http.StatusOK, toResourceJSON(res))
}

func (h *Handler) deleteResource(w http.ResponseWriter, r *http.Request) {
	err := h.resources.Delete(r.Context(), chi.URLParam(r, "resourceID"), parseBool(r, "permanent"))
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondNoContent(w)
}

func (h *Handler) linkResource(w http.ResponseWriter, r *http.Request) {
	err := h.links.LinkResource(r.Context(), chi.URLParam(r, "domainID"), chi.URLParam(r, "resourceID"))
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondNoContent(w)
}

func (h *Handler) unlinkResource(w http.ResponseWriter, r *http.Request) {
	err := h.links.UnlinkResource(r.Context(), chi.URLParam(r, "domainID"), chi.URLParam(r, "resourceID"))
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondNoContent(w)
}
