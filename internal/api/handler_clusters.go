package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"orgstack/internal/domain"
)

type createClusterBody struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

type updateClusterBody struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
}

func (h *Handler) listClusters(w http.ResponseWriter, r *http.Request) {
	filter := parseListFilter(r)
	clusters, total, err := h.clusters.List(r.Context(), filter)
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondPage(w, toClusterList(clusters), domain.NewPageMeta(filter.PageRequest, total))
}

func (h *Handler) createCluster(w http.ResponseWriter, r *http.Request) {
	var body createClusterBody
	if err := decodeJSON(r, &body); err != nil {
		respondMalformed(w, err)
		return
	}

	c, err := h.clusters.Create(r.Context(), domain.CreateClusterRequest{
		Name:        body.Name,
		Description: body.Description,
	})
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondData(w, http.StatusCreated, toClusterJSON(c))
}

func (h *Handler) getCluster(w http.ResponseWriter, r *http.Request) {
	c, err := h.clusters.Get(r.Context(), chi.URLParam(r, "clusterID"), parseBool(r, "include_deleted"))
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondData(w, http.StatusOK, toClusterJSON(c))
}

func (h *Handler) updateCluster(w http.ResponseWriter, r *http.Request) {
	var body updateClusterBody
	if err := decodeJSON(r, &body); err != nil {
		respondMalformed(w, err)
		return
	}

	c, err := h.clusters.Update(r.Context(), chi.URLParam(r, "clusterID"), domain.UpdateClusterRequest{
		Name:        body.Name,
		Description: body.Description,
	})
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondData(w, http.StatusOK, toClusterJSON(c))
}

func (h *Handler) deleteCluster(w http.ResponseWriter, r *http.Request) {
	err := h.clusters.Delete(r.Context(), chi.URLParam(r, "clusterID"), parseBool(r, "permanent"))
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondNoContent(w)
}
