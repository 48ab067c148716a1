package clipboard_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/hmalik/clipstash/internal/clipboard"
	"github.com/hmalik/clipstash/internal/testutil"
)

func TestListVisible(t *testing.T) {
	db := testutil.SetupTestDB(t)
	repo := clipboard.NewRepository(db)
	ctx := context.Background()

	productID := primitive.NewObjectID()
	owner := primitive.NewObjectID()
	grantee := primitive.NewObjectID()
	stranger := primitive.NewObjectID()

	mustCreate := func(e *clipboard.Entry) *clipboard.Entry {
		e.ProductID = productID
		created, err := repo.Create(ctx, e)
		require.NoError(t, err)
		return created
	}

	mustCreate(&clipboard.Entry{
		Content: "public note", Type: clipboard.TypeText,
		CreatedBy: owner, IsPublic: true,
	})
	mustCreate(&clipboard.Entry{
		Content: "private note", Type: clipboard.TypeText,
		CreatedBy: owner,
	})
	mustCreate(&clipboard.Entry{
		Content: "shared note", Type: clipboard.TypeText,
		CreatedBy: owner,
		SharedWith: []clipboard.ShareGrant{
			{UserID: grantee, Level: "read", GrantedAt: time.Now().UTC()},
		},
	})
	expired := time.Now().UTC().Add(-time.Hour)
	mustCreate(&clipboard.Entry{
		Content: "expired note", Type: clipboard.TypeText,
		CreatedBy: owner, IsPublic: true, ExpiresAt: &expired,
	})

	entries, total, err := repo.ListVisible(ctx, owner, productID, 20, 0)
	require.NoError(t, err)
	assert.Equal(t, 3, total, "creator sees everything unexpired")
	assert.Len(t, entries, 3)

	entries, total, err = repo.ListVisible(ctx, grantee, productID, 20, 0)
	require.NoError(t, err)
	assert.Equal(t, 2, total, "grantee sees public and shared")
	for _, e := range entries {
		assert.NotEqual(t, "private note", e.Content)
	}

	_, total, err = repo.ListVisible(ctx, stranger, productID, 20, 0)
	require.NoError(t, err)
	assert.Equal(t, 1, total, "stranger sees only public")
}

func TestSearchAppliesVisibility(t *testing.T) {
	db := testutil.SetupTestDB(t)
	repo := clipboard.NewRepository(db)
	ctx := context.Background()

	productID := primitive.NewObjectID()
	owner := primitive.NewObjectID()
	stranger := primitive.NewObjectID()

	_, err := repo.Create(ctx, &clipboard.Entry{
		Content: "secret recipe", Type: clipboard.TypeText,
		ProductID: productID, CreatedBy: owner,
		Tags: []string{"cooking"},
	})
	require.NoError(t, err)

	req := &clipboard.SearchRequest{Tags: []string{"cooking"}}

	_, total, err := repo.Search(ctx, owner, productID, req, 20, 0)
	require.NoError(t, err)
	assert.Equal(t, 1, total)

	// The same tag match stays invisible to a stranger.
	_, total, err = repo.Search(ctx, stranger, productID, req, 20, 0)
	require.NoError(t, err)
	assert.Equal(t, 0, total)
}

func TestListSharedScopedToReadableProducts(t *testing.T) {
	db := testutil.SetupTestDB(t)
	repo := clipboard.NewRepository(db)
	ctx := context.Background()

	readable := primitive.NewObjectID()
	revoked := primitive.NewObjectID()
	owner := primitive.NewObjectID()
	grantee := primitive.NewObjectID()

	grant := []clipboard.ShareGrant{
		{UserID: grantee, Level: "read", GrantedAt: time.Now().UTC()},
	}

	_, err := repo.Create(ctx, &clipboard.Entry{
		Content: "still visible", Type: clipboard.TypeText,
		ProductID: readable, CreatedBy: owner, SharedWith: grant,
	})
	require.NoError(t, err)
	_, err = repo.Create(ctx, &clipboard.Entry{
		Content: "membership gone", Type: clipboard.TypeText,
		ProductID: revoked, CreatedBy: owner, SharedWith: grant,
	})
	require.NoError(t, err)
	expired := time.Now().UTC().Add(-time.Minute)
	_, err = repo.Create(ctx, &clipboard.Entry{
		Content: "expired share", Type: clipboard.TypeText,
		ProductID: readable, CreatedBy: owner, SharedWith: grant,
		ExpiresAt: &expired,
	})
	require.NoError(t, err)

	scope := []primitive.ObjectID{readable}

	entries, total, err := repo.ListSharedWith(ctx, grantee, scope, 20, 0)
	require.NoError(t, err)
	require.Equal(t, 1, total, "out-of-scope and expired entries stay hidden")
	assert.Equal(t, "still visible", entries[0].Content)

	entries, total, err = repo.ListSharedBy(ctx, owner, scope, 20, 0)
	require.NoError(t, err)
	require.Equal(t, 1, total)
	assert.Equal(t, "still visible", entries[0].Content)
}

func TestSaveReplacesDocument(t *testing.T) {
	db := testutil.SetupTestDB(t)
	repo := clipboard.NewRepository(db)
	ctx := context.Background()

	e, err := repo.Create(ctx, &clipboard.Entry{
		Content: "v1", Type: clipboard.TypeText,
		ProductID: primitive.NewObjectID(), CreatedBy: primitive.NewObjectID(),
	})
	require.NoError(t, err)

	e.Content = "v2"
	e.Tags = []string{"edited"}
	require.NoError(t, repo.Save(ctx, e))

	got, err := repo.GetByID(ctx, e.ID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "v2", got.Content)
	assert.Equal(t, []string{"edited"}, got.Tags)
}
