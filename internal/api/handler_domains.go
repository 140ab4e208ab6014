package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"orgstack/internal/domain"
)

type createDomainBody struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

type updateDomainBody struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
}

func (h *Handler) listDomains(w http.ResponseWriter, r *http.Request) {
	filter := parseListFilter(r)
	domains, total, err := h.domains.ListForCluster(r.Context(), chi.URLParam(r, "clusterID"), filter)
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondPage(w, toDomainList(domains), domain.NewPageMeta(filter.PageRequest, total))
}

func (h *Handler) createDomain(w http.ResponseWriter, r *http.Request) {
	var body createDomainBody
	if err := decodeJSON(r, &body); err != nil {
		respondMalformed(w, err)
		return
	}

	d, err := h.domains.Create(r.Context(), chi.URLParam(r, "clusterID"), domain.CreateDomainRequest{
		Name:        body.Name,
		Description: body.Description,
	})
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondData(w, http.StatusCreated, toDomainJSON(d))
}

func (h *Handler) getDomain(w http.ResponseWriter, r *http.Request) {
	d, err := h.domains.Get(r.Context(), chi.URLParam(r, "domainID"), parseBool(r, "include_deleted"))
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondData(w, http.StatusOK, toDomainJSON(d))
}

func (h *Handler) updateDomain(w http.ResponseWriter, r *http.Request) {
	var body updateDomainBody
	if err := decodeJSON(r, &body); err != nil {
		respondMalformed(w, err)
		return
	}

	d, err := h.domains.Update(r.Context(), chi.URLParam(r, "domainID"), domain.UpdateDomainRequest{
		Name:        body.Name,
		Description: body.Description,
	})
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondData(w, http.StatusOK, toDomainJSON(d))
}

func (h *Handler) deleteDomain(w http.ResponseWriter, r *http.Request) {
	err := h.domains.Delete(r.Context(), chi.URLParam(r, "domainID"), parseBool(r, "permanent"))
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondNoContent(w)
}

func (h *Handler) linkDomain(w http.ResponseWriter, r *http.Request) {
	err := h.links.LinkDomain(r.Context(), chi.URLParam(r, "clusterID"), chi.URLParam(r, "domainID"))
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondNoContent(w)
}

func (h *Handler) unlinkDomain(w http.ResponseWriter, r *http.Request) {
	err := h.links.UnlinkDomain(r.Context(), chi.URLParam(r, "clusterID"), chi.URLParam(r, "domainID"))
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondNoContent(w)
}
