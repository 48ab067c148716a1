package family

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/hmalik/clipstash/internal/access"
)

func newTestGroup(owner primitive.ObjectID) *Group {
	return &Group{
		ID:         primitive.NewObjectID(),
		Name:       "weekend crew",
		OwnerID:    owner,
		MaxMembers: 3,
		Members: []Member{{
			UserID:      owner,
			Role:        access.RoleOwner.String(),
			Permissions: access.DefaultPermissions(access.RoleOwner),
			JoinedAt:    time.Now().UTC(),
		}},
	}
}

func TestInvitationAccept(t *testing.T) {
	now := time.Now().UTC()
	inv := &Invitation{
		ID:        "tok-1",
		Email:     "kid@example.com",
		Role:      access.RoleMember.String(),
		ExpiresAt: now.Add(time.Hour),
		Status:    StatusPending,
	}

	require.True(t, inv.Accept(now))
	assert.Equal(t, StatusAccepted, inv.Status)

	// Terminal: a second transition is refused.
	assert.False(t, inv.Accept(now))
	assert.False(t, inv.Decline())
	assert.Equal(t, StatusAccepted, inv.Status)
}

func TestInvitationAcceptAfterExpiry(t *testing.T) {
	now := time.Now().UTC()
	inv := &Invitation{
		ID:        "tok-2",
		Email:     "kid@example.com",
		Role:      access.RoleMember.String(),
		ExpiresAt: now.Add(-time.Minute),
		Status:    StatusPending,
	}

	require.False(t, inv.Accept(now))
	assert.Equal(t, StatusExpired, inv.Status)

	// Expired is terminal too.
	assert.False(t, inv.Accept(now.Add(-2*time.Hour)))
	assert.Equal(t, StatusExpired, inv.Status)
}

func TestInvitationDecline(t *testing.T) {
	inv := &Invitation{ID: "tok-3", Status: StatusPending}

	require.True(t, inv.Decline())
	assert.Equal(t, StatusDeclined, inv.Status)
	assert.False(t, inv.Accept(time.Now().UTC()))
}

func TestSetRoleResetsPermissions(t *testing.T) {
	m := &Member{
		UserID: primitive.NewObjectID(),
		Role:   access.RoleFamilyAdmin.String(),
		Permissions: access.Permissions{
			Invite: true, ManageMembers: true, ViewAll: true, Share: true,
		},
	}

	m.SetRole(access.RoleGuest.String())

	assert.Equal(t, access.RoleGuest.String(), m.Role)
	assert.Equal(t, access.Permissions{}, m.Permissions, "no permission bleed-through from the old role")

	m.SetRole(access.RoleMember.String())
	assert.Equal(t, access.Permissions{ViewAll: true, Share: true}, m.Permissions)
}

func TestSoleOwnerProtected(t *testing.T) {
	owner := primitive.NewObjectID()
	g := newTestGroup(owner)
	g.Members = append(g.Members, Member{
		UserID: primitive.NewObjectID(),
		Role:   access.RoleFamilyAdmin.String(),
	})

	assert.Equal(t, 0, access.OthersWithRole(g.AccessMembers(), owner.Hex(), access.RoleOwner))

	// A second owner lifts the protection.
	g.Members = append(g.Members, Member{
		UserID: primitive.NewObjectID(),
		Role:   access.RoleOwner.String(),
	})
	assert.Equal(t, 1, access.OthersWithRole(g.AccessMembers(), owner.Hex(), access.RoleOwner))
}

func TestGroupIsFull(t *testing.T) {
	g := newTestGroup(primitive.NewObjectID())
	assert.False(t, g.IsFull())

	g.Members = append(g.Members,
		Member{UserID: primitive.NewObjectID(), Role: access.RoleMember.String()},
		Member{UserID: primitive.NewObjectID(), Role: access.RoleMember.String()},
	)
	assert.True(t, g.IsFull())
}

func TestGroupMemberLookupAndRemove(t *testing.T) {
	owner := primitive.NewObjectID()
	other := primitive.NewObjectID()
	g := newTestGroup(owner)
	g.Members = append(g.Members, Member{UserID: other, Role: access.RoleMember.String()})

	require.NotNil(t, g.Member(other))
	assert.True(t, g.RemoveMember(other))
	assert.Nil(t, g.Member(other))
	assert.False(t, g.RemoveMember(other))
}

func TestPendingFor(t *testing.T) {
	g := newTestGroup(primitive.NewObjectID())
	g.PendingInvitations = []Invitation{
		{ID: "a", Email: "x@example.com", Status: StatusDeclined},
		{ID: "b", Email: "x@example.com", Status: StatusPending},
	}

	inv := g.PendingFor("x@example.com")
	require.NotNil(t, inv)
	assert.Equal(t, "b", inv.ID)
	assert.Nil(t, g.PendingFor("y@example.com"))
}
