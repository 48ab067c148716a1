package access

// Level is an ordered permission tier on products and clipboard entries.
// Higher levels imply all lower ones.
type Level int

const (
	LevelNone Level = iota
	LevelRead
	LevelWrite
	LevelAdmin
)

// ParseLevel maps a stored level string to its rank. Unknown strings map
// to LevelNone so a corrupted grant can never widen access.
func ParseLevel(s string) Level {
	switch s {
	case "read":
		return LevelRead
	case "write":
		return LevelWrite
	case "admin":
		return LevelAdmin
	default:
		return LevelNone
	}
}

func (l Level) String() string {
	switch l {
	case LevelRead:
		return "read"
	case LevelWrite:
		return "write"
	case LevelAdmin:
		return "admin"
	default:
		return "none"
	}
}

// FamilyRole is an ordered role tier on family groups.
type FamilyRole int

const (
	RoleGuest FamilyRole = iota
	RoleMember
	RoleFamilyAdmin
	RoleOwner
)

// ParseFamilyRole maps a stored role string to its rank. Unknown strings
// map to RoleGuest.
func ParseFamilyRole(s string) FamilyRole {
	switch s {
	case "member":
		return RoleMember
	case "admin":
		return RoleFamilyAdmin
	case "owner":
		return RoleOwner
	default:
		return RoleGuest
	}
}

func (r FamilyRole) String() string {
	switch r {
	case RoleMember:
		return "member"
	case RoleFamilyAdmin:
		return "admin"
	case RoleOwner:
		return "owner"
	default:
		return "guest"
	}
}
