package product

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/hmalik/clipstash/internal/access"
)

func member(id primitive.ObjectID, level string) Member {
	return Member{UserID: id, Level: level, JoinedAt: time.Now().UTC()}
}

func TestResourceOwnerAndMembers(t *testing.T) {
	owner := primitive.NewObjectID()
	bob := primitive.NewObjectID()
	p := &Product{
		OwnerID:     owner,
		AccessLevel: AccessPrivate,
		Members:     []Member{member(bob, "write")},
	}

	res := p.Resource()
	assert.Equal(t, owner.Hex(), res.OwnerID)
	assert.False(t, res.Public)

	d := access.Evaluate(bob.Hex(), res, access.LevelWrite, time.Now().UTC())
	assert.True(t, d.Allowed)

	d = access.Evaluate(primitive.NewObjectID().Hex(), res, access.LevelRead, time.Now().UTC())
	assert.False(t, d.Allowed)
}

func TestResourcePublicProduct(t *testing.T) {
	p := &Product{OwnerID: primitive.NewObjectID(), AccessLevel: AccessPublic}

	d := access.Evaluate(primitive.NewObjectID().Hex(), p.Resource(), access.LevelRead, time.Now().UTC())
	assert.True(t, d.Allowed)
	assert.Equal(t, access.LevelRead, d.Level)
}

func TestIsFullCountsOwner(t *testing.T) {
	p := &Product{MaxUsers: 2, Members: []Member{member(primitive.NewObjectID(), "read")}}
	assert.True(t, p.IsFull())

	p.MaxUsers = 3
	assert.False(t, p.IsFull())
}

func TestOtherAdmins(t *testing.T) {
	a := primitive.NewObjectID()
	b := primitive.NewObjectID()
	p := &Product{Members: []Member{member(a, "admin"), member(b, "write")}}

	assert.Equal(t, 0, p.OtherAdmins(a))
	assert.Equal(t, 1, p.OtherAdmins(b))
}

func TestRemoveInvitationAndMember(t *testing.T) {
	a := primitive.NewObjectID()
	p := &Product{
		Members:      []Member{member(a, "read")},
		InvitedUsers: []Invitation{{UserID: a, Level: "read"}},
	}

	p.RemoveInvitation(a)
	assert.Nil(t, p.Invitation(a))

	assert.True(t, p.RemoveMember(a))
	assert.Nil(t, p.Member(a))
	assert.False(t, p.RemoveMember(a))
}
