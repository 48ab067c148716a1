package access

// Permissions is the capability bundle attached to a family group member.
type Permissions struct {
	Invite        bool `bson:"invite" json:"invite"`
	ManageMembers bool `bson:"manage_members" json:"manage_members"`
	ViewAll       bool `bson:"view_all" json:"view_all"`
	Share         bool `bson:"share" json:"share"`
}

// DefaultPermissions returns the static permission bundle for a role.
// A role change always resets the member to this table; custom permissions
// never survive a role transition.
func DefaultPermissions(role FamilyRole) Permissions {
	switch role {
	case RoleOwner, RoleFamilyAdmin:
		return Permissions{Invite: true, ManageMembers: true, ViewAll: true, Share: true}
	case RoleMember:
		return Permissions{ViewAll: true, Share: true}
	default:
		return Permissions{}
	}
}
