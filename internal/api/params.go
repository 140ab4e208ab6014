package api

import (
	"net/http"
	"strconv"

	"orgstack/internal/domain"
)

// parsePageRequest reads pagination, sorting, and search query parameters.
// Out-of-range values are clamped by the PageRequest accessors rather than
// rejected.
func parsePageRequest(r *http.Request) domain.PageRequest {
	q := r.URL.Query()

	page, _ := strconv.Atoi(q.Get("page"))
	perPage, _ := strconv.Atoi(q.Get("per_page"))

	return domain.PageRequest{
		Page:      page,
		PerPage:   perPage,
		SortBy:    q.Get("sort_by"),
		SortOrder: domain.SortOrder(q.Get("sort_order")),
		Search:    q.Get("search"),
	}
}

func parseListFilter(r *http.Request) domain.ListFilter {
	return domain.ListFilter{
		PageRequest:    parsePageRequest(r),
		IncludeDeleted: parseBool(r, "include_deleted"),
	}
}

func parseBool(r *http.Request, name string) bool {
	v, _ := strconv.ParseBool(r.URL.Query().Get(name))
	return v
}
