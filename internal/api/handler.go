// Package api provides the HTTP handlers and routing for the hierarchy
// service REST API.
package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"orgstack/internal/service"
)

// Handler carries the service dependencies for all routes.
type Handler struct {
	clusters    *service.ClusterService
	domains     *service.DomainService
	resources   *service.ResourceService
	links       *service.LinkService
	memberships *service.MembershipService
}

// NewHandler creates a Handler with its service dependencies.
func NewHandler(
	clusters *service.ClusterService,
	domains *service.DomainService,
	resources *service.ResourceService,
	links *service.LinkService,
	memberships *service.MembershipService,
) *Handler {
	return &Handler{
		clusters:    clusters,
		domains:     domains,
		resources:   resources,
		links:       links,
		memberships: memberships,
	}
}

// Routes registers the authenticated API routes on the given router.
func (h *Handler) Routes(r chi.Router) {
	r.Route("/clusters", func(r chi.Router) {
		r.Get("/", h.listClusters)
		r.Post("/", h.createCluster)
		r.Route("/{clusterID}", func(r chi.Router) {
			r.Get("/", h.getCluster)
			r.Patch("/", h.updateCluster)
			r.Delete("/", h.deleteCluster)

			r.Get("/domains", h.listDomains)
			r.Post("/domains", h.createDomain)
			r.Put("/domains/{domainID}", h.linkDomain)
			r.Delete("/domains/{domainID}", h.unlinkDomain)

			r.Get("/members", h.listMembers)
			r.Post("/members", h.addMember)
			r.Patch("/members/{identityID}", h.updateMemberRole)
			r.Delete("/members/{identityID}", h.removeMember)
		})
	})

	r.Route("/domains/{domainID}", func(r chi.Router) {
		r.Get("/", h.getDomain)
		r.Patch("/", h.updateDomain)
		r.Delete("/", h.deleteDomain)

		r.Get("/resources", h.listResources)
		r.Post("/resources", h.createResource)
		r.Put("/resources/{resourceID}", h.linkResource)
		r.Delete("/resources/{resourceID}", h.unlinkResource)
	})

	r.Route("/resources/{resourceID}", func(r chi.Router) {
		r.Get("/", h.getResource)
		r.Patch("/", h.updateResource)
		r.Delete("/", h.deleteResource)
	})
}

// Healthz reports liveness. It is registered outside the authenticated
// subtree.
func Healthz(w http.ResponseWriter, _ *http.Request) {
	respondData(w, http.StatusOK, map[string]string{"status": "ok"})
}
