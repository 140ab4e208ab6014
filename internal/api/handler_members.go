package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"orgstack/internal/domain"
)

type addMemberBody struct {
	IdentityID string `json:"identity_id"`
	Role       string `json:"role"`
	Comment    string `json:"comment"`
}

type updateMemberBody struct {
	Role string `json:"role"`
}

func (h *Handler) listMembers(w http.ResponseWriter, r *http.Request) {
	page := parsePageRequest(r)
	members, total, err := h.memberships.ListMembers(r.Context(), chi.URLParam(r, "clusterID"), page)
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondPage(w, toMemberList(members), domain.NewPageMeta(page, total))
}

func (h *Handler) addMember(w http.ResponseWriter, r *http.Request) {
	var body addMemberBody
	if err := decodeJSON(r, &body); err != nil {
		respondMalformed(w, err)
		return
	}

	role, err := domain.ParseRole(body.Role)
	if err != nil {
		respondError(w, r, err)
		return
	}

	m, err := h.memberships.AddMember(r.Context(), domain.AddMemberRequest{
		ClusterID:  chi.URLParam(r, "clusterID"),
		IdentityID: body.IdentityID,
		Role:       role,
		Comment:    body.Comment,
	})
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondData(w, http.StatusCreated, toMemberJSON(m))
}

func (h *Handler) updateMemberRole(w http.ResponseWriter, r *http.Request) {
	var body updateMemberBody
	if err := decodeJSON(r, &body); err != nil {
		respondMalformed(w, err)
		return
	}

	role, err := domain.ParseRole(body.Role)
	if err != nil {
		respondError(w, r, err)
		return
	}

	m, err := h.memberships.UpdateRole(r.Context(), chi.URLParam(r, "clusterID"), chi.URLParam(r, "identityID"), role)
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondData(w, http.StatusOK, toMemberJSON(m))
}

func (h *Handler) removeMember(w http.ResponseWriter, r *http.Request) {
	err := h.memberships.RemoveMember(r.Context(), chi.URLParam(r, "clusterID"), chi.URLParam(r, "identityID"))
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondNoContent(w)
}
