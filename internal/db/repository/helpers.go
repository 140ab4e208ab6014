// Package repository implements the domain repository interfaces on SQLite.
// Every method resolves the caller's bound session from the context; queries
// against hierarchy tables carry the visibility predicates from scope.go.
package repository

import (
	"database/sql"
	"errors"
	"strings"

	"orgstack/internal/domain"
)

func mapDBError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, sql.ErrNoRows) {
		return &domain.NotFoundError{Message: "resource not found"}
	}
	msg := err.Error()
	if strings.Contains(msg, "UNIQUE constraint failed") {
		return &domain.ConflictError{Message: "resource already exists"}
	}
	if strings.Contains(msg, "FOREIGN KEY constraint failed") {
		return &domain.NotFoundError{Message: "referenced resource not found"}
	}
	return err
}

// sortColumn resolves a caller-supplied sort_by value against a whitelist.
// The sort key is interpolated into ORDER BY, so it must never come from
// input unvalidated.
func sortColumn(requested string, allowed map[string]string, fallback string) string {
	if col, ok := allowed[requested]; ok {
		return col
	}
	return fallback
}

func orderKeyword(o domain.SortOrder) string {
	if o == domain.SortDesc {
		return "DESC"
	}
	return "ASC"
}

// likePattern wraps a search term for a LIKE match, escaping LIKE wildcards.
func likePattern(term string) string {
	escaped := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(term)
	return "%" + escaped + "%"
}
