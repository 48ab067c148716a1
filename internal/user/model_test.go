package user

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestUpsertProductAccess(t *testing.T) {
	u := &User{}
	productID := primitive.NewObjectID()
	granter := primitive.NewObjectID()

	u.UpsertProductAccess(ProductAccess{
		ProductID: productID, Level: "read", GrantedBy: granter, Active: true,
	})
	u.UpsertProductAccess(ProductAccess{
		ProductID: productID, Level: "write", GrantedBy: granter, Active: true,
	})

	// History survives, but only the newest entry stays active.
	require.Len(t, u.ProductAccess, 2)
	assert.False(t, u.ProductAccess[0].Active)
	assert.True(t, u.ProductAccess[1].Active)
	assert.Equal(t, "write", u.ProductAccess[1].Level)
}

func TestDeactivateProductAccess(t *testing.T) {
	u := &User{}
	productID := primitive.NewObjectID()

	u.UpsertProductAccess(ProductAccess{ProductID: productID, Level: "read", Active: true})

	assert.True(t, u.DeactivateProductAccess(productID))
	assert.False(t, u.ProductAccess[0].Active)
	assert.False(t, u.DeactivateProductAccess(productID), "already inactive")
	assert.False(t, u.DeactivateProductAccess(primitive.NewObjectID()))
}

func TestActiveGrantCount(t *testing.T) {
	now := time.Now().UTC()
	past := now.Add(-time.Hour)
	future := now.Add(time.Hour)

	u := &User{ProductAccess: []ProductAccess{
		{ProductID: primitive.NewObjectID(), Level: "admin", Active: true},
		{ProductID: primitive.NewObjectID(), Level: "read", Active: false},
		{ProductID: primitive.NewObjectID(), Level: "read", Active: true, ExpiresAt: &past},
		{ProductID: primitive.NewObjectID(), Level: "write", Active: true, ExpiresAt: &future},
	}}

	assert.Equal(t, 2, u.ActiveGrantCount(now))
}

func TestFriendHelpers(t *testing.T) {
	friend := primitive.NewObjectID()
	other := primitive.NewObjectID()
	u := &User{Friends: []primitive.ObjectID{friend}}

	assert.True(t, u.HasFriend(friend))
	assert.False(t, u.HasFriend(other))

	u.FriendRequests = []FriendRequest{{FromID: other, CreatedAt: time.Now().UTC()}}
	require.NotNil(t, u.RequestFrom(other))
	u.RemoveRequestFrom(other)
	assert.Nil(t, u.RequestFrom(other))

	assert.True(t, u.RemoveFriend(friend))
	assert.False(t, u.RemoveFriend(friend))
}
