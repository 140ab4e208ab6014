package repository

import "fmt"

// Row-filtering policy predicates.
//
// A row is visible only if its owning cluster appears in the set of clusters
// where the bound identity holds any membership; domain and resource
// visibility is transitive through the junction chain. The predicates join
// through the connection-local session_identity binding (see the session
// package), so they hold for every query routed through a bound connection
// and fail closed on an unbound one. Correctness does not depend on the
// application guard being consulted.
//
// The guard applies the fine-grained role/action matrix on top; the data
// layer deliberately stays at "any membership" so the two layers share the
// same membership rows without duplicating role semantics.
//
// Membership rows are filtered the same way: a cluster roster is readable
// and mutable only from a connection bound to one of that cluster's own
// members. RoleOf is the single deliberate exception (see membership.go).
//
// All joins run on indexed keys: cluster_memberships(identity_id),
// cluster_domain_links(domain_id), domain_resource_links(resource_id).

// clusterVisible restricts rows of the aliased clusters table to clusters
// the bound identity is a member of.
func clusterVisible(alias string) string {
	return fmt.Sprintf(`EXISTS (
		SELECT 1 FROM cluster_memberships m
		JOIN session_identity si ON si.identity_id = m.identity_id
		WHERE m.cluster_id = %s.id)`, alias)
}

// membershipVisible restricts rows of the aliased cluster_memberships table
// to clusters where the bound identity itself holds a membership.
func membershipVisible(alias string) string {
	return fmt.Sprintf(`EXISTS (
		SELECT 1 FROM cluster_memberships self
		JOIN session_identity si ON si.identity_id = self.identity_id
		WHERE self.cluster_id = %s.cluster_id)`, alias)
}

// clusterMember is the membership predicate keyed by a bound cluster id
// parameter, for statements with no row alias to anchor on.
func clusterMember() string {
	return `EXISTS (
		SELECT 1 FROM cluster_memberships self
		JOIN session_identity si ON si.identity_id = self.identity_id
		WHERE self.cluster_id = ?)`
}

// domainVisible restricts rows of the aliased domains table to domains
// linked to at least one visible cluster.
func domainVisible(alias string) string {
	return fmt.Sprintf(`EXISTS (
		SELECT 1 FROM cluster_domain_links cdl
		JOIN cluster_memberships m ON m.cluster_id = cdl.cluster_id
		JOIN session_identity si ON si.identity_id = m.identity_id
		WHERE cdl.domain_id = %s.id)`, alias)
}

// resourceVisible restricts rows of the aliased resources table to
// resources reachable through a visible domain.
func resourceVisible(alias string) string {
	return fmt.Sprintf(`EXISTS (
		SELECT 1 FROM domain_resource_links drl
		JOIN cluster_domain_links cdl ON cdl.domain_id = drl.domain_id
		JOIN cluster_memberships m ON m.cluster_id = cdl.cluster_id
		JOIN session_identity si ON si.identity_id = m.identity_id
		WHERE drl.resource_id = %s.id)`, alias)
}
