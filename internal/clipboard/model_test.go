package clipboard

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/hmalik/clipstash/internal/access"
)

func TestShareWithIsIdempotent(t *testing.T) {
	e := &Entry{}
	bob := primitive.NewObjectID()
	t0 := time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)
	t1 := t0.Add(time.Hour)

	updated := e.ShareWith(bob, "read", t0)
	assert.False(t, updated)
	assert.Len(t, e.SharedWith, 1)

	updated = e.ShareWith(bob, "write", t1)
	assert.True(t, updated)
	assert.Len(t, e.SharedWith, 1)
	assert.Equal(t, "write", e.SharedWith[0].Level)
	assert.Equal(t, t1, e.SharedWith[0].GrantedAt)
}

func TestUnshare(t *testing.T) {
	bob := primitive.NewObjectID()
	e := &Entry{SharedWith: []ShareGrant{{UserID: bob, Level: "read"}}}

	assert.True(t, e.Unshare(bob))
	assert.Empty(t, e.SharedWith)
	assert.False(t, e.Unshare(bob))
}

func TestToggleFavorite(t *testing.T) {
	e := &Entry{}
	bob := primitive.NewObjectID()

	assert.True(t, e.ToggleFavorite(bob))
	assert.Len(t, e.FavoritedBy, 1)

	assert.False(t, e.ToggleFavorite(bob))
	assert.Empty(t, e.FavoritedBy)
}

func TestPublicEntryReadableWithoutGrant(t *testing.T) {
	e := &Entry{
		CreatedBy: primitive.NewObjectID(),
		IsPublic:  true,
	}

	stranger := primitive.NewObjectID().Hex()
	d := access.Evaluate(stranger, e.Resource(), access.LevelRead, time.Now().UTC())
	assert.True(t, d.Allowed)

	d = access.Evaluate(stranger, e.Resource(), access.LevelWrite, time.Now().UTC())
	assert.False(t, d.Allowed)
}

func TestPrivateEntryHiddenFromStranger(t *testing.T) {
	e := &Entry{CreatedBy: primitive.NewObjectID()}

	d := access.Evaluate(primitive.NewObjectID().Hex(), e.Resource(), access.LevelRead, time.Now().UTC())
	assert.False(t, d.Allowed)
	assert.Equal(t, access.ReasonNoAccess, d.Reason)
}

func TestWriteGrantAllowsWrite(t *testing.T) {
	bob := primitive.NewObjectID()
	e := &Entry{
		CreatedBy:  primitive.NewObjectID(),
		SharedWith: []ShareGrant{{UserID: bob, Level: "write", GrantedAt: time.Now().UTC()}},
	}

	d := access.Evaluate(bob.Hex(), e.Resource(), access.LevelWrite, time.Now().UTC())
	assert.True(t, d.Allowed)
	assert.Equal(t, access.LevelWrite, d.Level)
}

func TestExpired(t *testing.T) {
	now := time.Now().UTC()
	past := now.Add(-time.Minute)
	future := now.Add(time.Minute)

	assert.False(t, (&Entry{}).Expired(now))
	assert.True(t, (&Entry{ExpiresAt: &past}).Expired(now))
	assert.False(t, (&Entry{ExpiresAt: &future}).Expired(now))
}

func TestNormalizeTags(t *testing.T) {
	tags := normalizeTags([]string{" Work ", "work", "", "Notes"})
	assert.Equal(t, []string{"work", "notes"}, tags)
}

func TestNormalizeMetadataKeepsMatchingBranch(t *testing.T) {
	m := Metadata{
		Text: &TextMeta{Language: "en"},
		Link: &LinkMeta{Domain: "example.com"},
	}

	out := normalizeMetadata(TypeLink, m)
	assert.Nil(t, out.Text)
	assert.NotNil(t, out.Link)
}
