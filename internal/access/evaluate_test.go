package access

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

var now = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

func grant(userID string, lvl Level) Grant {
	return Grant{UserID: userID, Level: lvl, Active: true}
}

func TestEvaluateOwnerAlwaysAllowed(t *testing.T) {
	res := Resource{OwnerID: "alice"}
	for _, lvl := range []Level{LevelRead, LevelWrite, LevelAdmin} {
		d := Evaluate("alice", res, lvl, now)
		assert.True(t, d.Allowed, "owner should be allowed at %s", lvl)
		assert.Equal(t, LevelAdmin, d.Level)
	}
}

func TestEvaluateStrangerDenied(t *testing.T) {
	res := Resource{OwnerID: "alice", Grants: []Grant{grant("bob", LevelWrite)}}

	d := Evaluate("mallory", res, LevelRead, now)
	assert.False(t, d.Allowed)
	assert.Equal(t, ReasonNoAccess, d.Reason)
	assert.Equal(t, LevelNone, d.Level)
}

func TestEvaluatePublicGrantsRead(t *testing.T) {
	res := Resource{OwnerID: "alice", Public: true}

	d := Evaluate("mallory", res, LevelRead, now)
	assert.True(t, d.Allowed)
	assert.Equal(t, LevelRead, d.Level)

	d = Evaluate("mallory", res, LevelWrite, now)
	assert.False(t, d.Allowed)
	assert.Equal(t, ReasonInsufficient, d.Reason)
}

func TestEvaluatePublicEscalatesWithGrant(t *testing.T) {
	res := Resource{OwnerID: "alice", Public: true, Grants: []Grant{grant("bob", LevelWrite)}}

	d := Evaluate("bob", res, LevelWrite, now)
	assert.True(t, d.Allowed)
	assert.Equal(t, LevelWrite, d.Level)
}

func TestEvaluateGrantRankComparison(t *testing.T) {
	res := Resource{OwnerID: "alice", Grants: []Grant{grant("bob", LevelRead)}}

	assert.True(t, Evaluate("bob", res, LevelRead, now).Allowed)

	d := Evaluate("bob", res, LevelWrite, now)
	assert.False(t, d.Allowed)
	assert.Equal(t, ReasonInsufficient, d.Reason)
	assert.Equal(t, LevelRead, d.Level)
}

func TestEvaluateExpiredGrant(t *testing.T) {
	past := now.Add(-time.Hour)
	res := Resource{OwnerID: "alice", Grants: []Grant{
		{UserID: "bob", Level: LevelWrite, Active: true, ExpiresAt: &past},
	}}

	d := Evaluate("bob", res, LevelRead, now)
	assert.False(t, d.Allowed)
	assert.Equal(t, ReasonExpired, d.Reason)
}

func TestEvaluateInactiveGrant(t *testing.T) {
	res := Resource{OwnerID: "alice", Grants: []Grant{
		{UserID: "bob", Level: LevelWrite, Active: false},
	}}

	d := Evaluate("bob", res, LevelRead, now)
	assert.False(t, d.Allowed)
	assert.Equal(t, ReasonNoAccess, d.Reason)
}

func TestEvaluateHighestGrantWins(t *testing.T) {
	res := Resource{OwnerID: "alice", Grants: []Grant{
		grant("bob", LevelRead),
		grant("bob", LevelAdmin),
	}}

	d := Evaluate("bob", res, LevelWrite, now)
	assert.True(t, d.Allowed)
	assert.Equal(t, LevelAdmin, d.Level)
}

func TestEvaluateFamilyRoles(t *testing.T) {
	members := []FamilyMember{
		{UserID: "dana", Role: RoleOwner},
		{UserID: "eli", Role: RoleMember},
		{UserID: "gus", Role: RoleGuest},
	}

	d := EvaluateFamily("dana", "dana", members, RoleOwner)
	assert.True(t, d.Allowed)
	assert.Equal(t, RoleOwner, d.Role)

	d = EvaluateFamily("eli", "dana", members, RoleMember)
	assert.True(t, d.Allowed)

	d = EvaluateFamily("eli", "dana", members, RoleFamilyAdmin)
	assert.False(t, d.Allowed)
	assert.Equal(t, ReasonInsufficient, d.Reason)

	d = EvaluateFamily("gus", "dana", members, RoleMember)
	assert.False(t, d.Allowed)

	d = EvaluateFamily("outsider", "dana", members, RoleGuest)
	assert.False(t, d.Allowed)
	assert.Equal(t, ReasonNoAccess, d.Reason)
}

func TestOthersAtLevel(t *testing.T) {
	past := now.Add(-time.Minute)
	grants := []Grant{
		grant("a", LevelAdmin),
		grant("b", LevelAdmin),
		grant("c", LevelWrite),
		{UserID: "d", Level: LevelAdmin, Active: false},
		{UserID: "e", Level: LevelAdmin, Active: true, ExpiresAt: &past},
	}

	assert.Equal(t, 1, OthersAtLevel(grants, "a", LevelAdmin, now))
	assert.Equal(t, 2, OthersAtLevel(grants, "c", LevelAdmin, now))
	assert.Equal(t, 0, OthersAtLevel([]Grant{grant("a", LevelAdmin)}, "a", LevelAdmin, now))
}

func TestOthersWithRole(t *testing.T) {
	members := []FamilyMember{
		{UserID: "dana", Role: RoleOwner},
		{UserID: "eli", Role: RoleFamilyAdmin},
	}
	assert.Equal(t, 0, OthersWithRole(members, "dana", RoleOwner))
	assert.Equal(t, 1, OthersWithRole(members, "eli", RoleOwner))
}

func TestDefaultPermissionsTable(t *testing.T) {
	full := Permissions{Invite: true, ManageMembers: true, ViewAll: true, Share: true}

	assert.Equal(t, full, DefaultPermissions(RoleOwner))
	assert.Equal(t, full, DefaultPermissions(RoleFamilyAdmin))
	assert.Equal(t, Permissions{ViewAll: true, Share: true}, DefaultPermissions(RoleMember))
	assert.Equal(t, Permissions{}, DefaultPermissions(RoleGuest))
}

func TestParseLevelUnknownIsNone(t *testing.T) {
	assert.Equal(t, LevelNone, ParseLevel("superuser"))
	assert.Equal(t, LevelAdmin, ParseLevel("admin"))
	assert.Equal(t, "write", LevelWrite.String())
}

func TestParseFamilyRoleUnknownIsGuest(t *testing.T) {
	assert.Equal(t, RoleGuest, ParseFamilyRole("root"))
	assert.Equal(t, RoleOwner, ParseFamilyRole("owner"))
}
