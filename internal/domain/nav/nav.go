package nav

// Package nav holds the static navigation tree and the pure filter that
// produces the visible menu for a capability set. Trees are read-only
// configuration; the filter allocates its output and never mutates input.

import (
	domainauth "github.com/target/fraudwatch-ui-api/internal/domain/auth"
)

// MenuNode is one navigation entry. A node declared with Children is a
// grouping node; its own Target is usually empty. A leaf with no
// RequiredPermission is visible to every authenticated user.
type MenuNode struct {
	ID                 string                 `json:"id"`
	Label              string                 `json:"label"`
	Target             string                 `json:"target,omitempty"`
	RequiredPermission *domainauth.Permission `json:"required_permission,omitempty"`
	Children           []MenuNode             `json:"children,omitempty"`
}

// Section is a named top-level group of menu nodes.
type Section struct {
	ID    string     `json:"id"`
	Label string     `json:"label"`
	Items []MenuNode `json:"items"`
}

// Filter prunes sections against a capability set.
//
// Post-order per node: children are filtered first, then the node itself
// is decided. A node carrying RequiredPermission is dropped when the
// permission is absent. A grouping node whose filtered children are empty
// is removed entirely, never left as a stub. Sections with no surviving
// items are omitted so the rendered navigation never shows an empty
// header. Idempotent: filtering an already-filtered tree with the same
// set changes nothing.
func Filter(sections []Section, perms domainauth.PermissionSet) []Section {
	out := make([]Section, 0, len(sections))
	for _, sec := range sections {
		items := filterNodes(sec.Items, perms)
		if len(items) == 0 {
			continue
		}
		out = append(out, Section{ID: sec.ID, Label: sec.Label, Items: items})
	}
	return out
}

func filterNodes(nodes []MenuNode, perms domainauth.PermissionSet) []MenuNode {
	var out []MenuNode
	for _, node := range nodes {
		if node.RequiredPermission != nil && !perms.Has(*node.RequiredPermission) {
			continue
		}

		if node.Children != nil {
			children := filterNodes(node.Children, perms)
			if len(children) == 0 {
				// Grouping node with nothing visible underneath.
				continue
			}
			node.Children = children
		}

		out = append(out, node)
	}
	return out
}

func perm(p domainauth.Permission) *domainauth.Permission { return &p }

// DefaultMenu returns the full navigation tree of the review dashboard.
// It is rebuilt on every call so callers can never mutate shared state.
func DefaultMenu() []Section {
	return []Section{
		{
			ID:    "overview",
			Label: "Overview",
			Items: []MenuNode{
				{ID: "dashboard", Label: "Dashboard", Target: "/dashboard", RequiredPermission: perm(domainauth.PermDashboardView)},
				{ID: "help", Label: "Help", Target: "/help"},
			},
		},
		{
			ID:    "review",
			Label: "Fraud Review",
			Items: []MenuNode{
				{ID: "transactions", Label: "Transactions", Target: "/transactions", RequiredPermission: perm(domainauth.PermTransactionView)},
				{ID: "review-queue", Label: "Review Queue", Target: "/transactions/queue", RequiredPermission: perm(domainauth.PermTransactionReview)},
				{
					ID: "reports", Label: "Reports",
					Children: []MenuNode{
						{ID: "report-summary", Label: "Summary", Target: "/reports/summary", RequiredPermission: perm(domainauth.PermReportView)},
						{ID: "report-export", Label: "Export", Target: "/reports/export", RequiredPermission: perm(domainauth.PermReportExport)},
					},
				},
			},
		},
		{
			ID:    "models",
			Label: "Scoring Models",
			Items: []MenuNode{
				{ID: "model-list", Label: "Models", Target: "/models", RequiredPermission: perm(domainauth.PermModelView)},
				{ID: "model-create", Label: "New Model", Target: "/models/new", RequiredPermission: perm(domainauth.PermModelCreate)},
				{ID: "simulator", Label: "Simulator", Target: "/simulator", RequiredPermission: perm(domainauth.PermSimulatorRun)},
			},
		},
		{
			ID:    "admin",
			Label: "Administration",
			Items: []MenuNode{
				{ID: "users", Label: "Users", Target: "/admin/users", RequiredPermission: perm(domainauth.PermUserManage)},
				{ID: "audit", Label: "Audit Log", Target: "/admin/audit", RequiredPermission: perm(domainauth.PermAuditView)},
			},
		},
	}
}
