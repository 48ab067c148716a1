// Package access decides whether a principal may act on a resource and at
// which effective level. Everything here is pure: callers pass the fetched
// resource snapshot and the current time, stores keep all mutation.
package access

import "time"

// Reason explains a denial. Empty on allow.
type Reason string

const (
	ReasonNotFound     Reason = "not_found"
	ReasonNoAccess     Reason = "no_access"
	ReasonExpired      Reason = "expired"
	ReasonInsufficient Reason = "insufficient_level"
)

// Grant is one explicit access entry on a resource.
type Grant struct {
	UserID    string
	Level     Level
	ExpiresAt *time.Time
	Active    bool
}

// Resource is the access-relevant view of a product or clipboard entry.
type Resource struct {
	OwnerID string
	Public  bool
	Grants  []Grant
}

// Decision is the outcome of an evaluation.
type Decision struct {
	Allowed bool
	Level   Level
	Reason  Reason
}

// Evaluate decides allow/deny for the requested level, first match wins:
//  1. owner gets the maximal level
//  2. public resources grant read to anyone, escalated by a matching grant
//  3. an active, unexpired grant is compared by rank against the request
//  4. otherwise deny, distinguishing no-access, expired and insufficient
func Evaluate(principalID string, res Resource, requested Level, now time.Time) Decision {
	if requested == LevelNone {
		requested = LevelRead
	}

	if principalID != "" && principalID == res.OwnerID {
		return Decision{Allowed: true, Level: LevelAdmin}
	}

	granted := LevelNone
	if res.Public {
		granted = LevelRead
	}

	reason := ReasonNoAccess
	for _, g := range res.Grants {
		if g.UserID != principalID {
			continue
		}
		if !g.Active {
			continue
		}
		if g.ExpiresAt != nil && !g.ExpiresAt.After(now) {
			reason = ReasonExpired
			continue
		}
		if g.Level > granted {
			granted = g.Level
		}
	}

	if granted >= requested {
		return Decision{Allowed: true, Level: granted}
	}
	if granted > LevelNone {
		return Decision{Allowed: false, Level: granted, Reason: ReasonInsufficient}
	}
	return Decision{Allowed: false, Level: LevelNone, Reason: reason}
}

// FamilyMember is the access-relevant view of a family group member.
type FamilyMember struct {
	UserID string
	Role   FamilyRole
}

// FamilyDecision is the outcome of a family group evaluation.
type FamilyDecision struct {
	Allowed bool
	Role    FamilyRole
	Reason  Reason
}

// EvaluateFamily decides allow/deny against the family role ordering.
// The group owner always evaluates as RoleOwner even when the member
// entry disagrees.
func EvaluateFamily(principalID, ownerID string, members []FamilyMember, requested FamilyRole) FamilyDecision {
	if principalID != "" && principalID == ownerID {
		return FamilyDecision{Allowed: true, Role: RoleOwner}
	}

	for _, m := range members {
		if m.UserID != principalID {
			continue
		}
		if m.Role >= requested {
			return FamilyDecision{Allowed: true, Role: m.Role}
		}
		return FamilyDecision{Allowed: false, Role: m.Role, Reason: ReasonInsufficient}
	}

	return FamilyDecision{Allowed: false, Role: RoleGuest, Reason: ReasonNoAccess}
}

// OthersAtLevel counts active, unexpired grants at exactly lvl held by
// principals other than excludeID. Stores use it for the last-admin rule:
// demoting or removing the only maximal-tier member is rejected.
func OthersAtLevel(grants []Grant, excludeID string, lvl Level, now time.Time) int {
	n := 0
	for _, g := range grants {
		if g.UserID == excludeID || !g.Active || g.Level != lvl {
			continue
		}
		if g.ExpiresAt != nil && !g.ExpiresAt.After(now) {
			continue
		}
		n++
	}
	return n
}

// OthersWithRole counts family members other than excludeID holding role.
func OthersWithRole(members []FamilyMember, excludeID string, role FamilyRole) int {
	n := 0
	for _, m := range members {
		if m.UserID != excludeID && m.Role == role {
			n++
		}
	}
	return n
}
