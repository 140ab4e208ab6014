package domain

// Action is an operation gated by the role permission matrix.
type Action string

const (
	ActionView          Action = "view"
	ActionEdit          Action = "edit"
	ActionDelete        Action = "delete"
	ActionManageMembers Action = "manage_members"
	ActionChangeOwner   Action = "change_owner"
)

// permissionMatrix is the fixed role/action matrix. It is process-wide,
// read-only configuration: the single source of truth for both the
// application guard and the data-layer policy semantics.
var permissionMatrix = map[Role]map[Action]bool{
	RoleOwner: {
		ActionView:          true,
		ActionEdit:          true,
		ActionDelete:        true,
		ActionManageMembers: true,
		ActionChangeOwner:   true,
	},
	RoleAdmin: {
		ActionView:          true,
		ActionEdit:          true,
		ActionManageMembers: true,
	},
	RoleMember: {
		ActionView: true,
	},
}

// Allows reports whether the role grants the action.
func (r Role) Allows(a Action) bool {
	return permissionMatrix[r][a]
}
