package clipboard_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/hmalik/clipstash/internal/clipboard"
	"github.com/hmalik/clipstash/internal/product"
	"github.com/hmalik/clipstash/internal/realtime"
	"github.com/hmalik/clipstash/internal/testutil"
	"github.com/hmalik/clipstash/internal/user"
)

// A write-level share grant allows editing an entry but not deleting it;
// deletion stays with the creator and product admins.
func TestWriteGranteeCannotDelete(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx := context.Background()

	users := user.NewRepository(db)
	products := product.NewService(product.NewRepository(db), users)
	repo := clipboard.NewRepository(db)
	svc := clipboard.NewService(repo, products, realtime.NewHub(zap.NewNop()))

	creator, err := users.Create(ctx, &user.User{
		Username: "creator", Email: "creator@example.com", PasswordHash: "x",
	})
	require.NoError(t, err)
	grantee, err := users.Create(ctx, &user.User{
		Username: "grantee", Email: "grantee@example.com", PasswordHash: "x",
	})
	require.NoError(t, err)

	p, err := products.Create(ctx, creator.ID, &product.CreateProductRequest{
		Name: "team board", AccessLevel: "public",
	})
	require.NoError(t, err)

	e, err := svc.Create(ctx, creator.ID, &clipboard.CreateEntryRequest{
		Content: "draft", Type: clipboard.TypeText, ProductID: p.ID.Hex(),
	})
	require.NoError(t, err)

	e.ShareWith(grantee.ID, "write", time.Now().UTC())
	require.NoError(t, repo.Save(ctx, e))

	newContent := "edited by grantee"
	updated, err := svc.Update(ctx, grantee.ID, e.ID, &clipboard.UpdateEntryRequest{Content: &newContent})
	require.NoError(t, err, "write grant allows editing")
	assert.Equal(t, newContent, updated.Content)

	err = svc.Delete(ctx, grantee.ID, e.ID)
	assert.ErrorIs(t, err, clipboard.ErrAccessDenied, "write grant does not allow deletion")

	got, err := repo.GetByID(ctx, e.ID)
	require.NoError(t, err)
	require.NotNil(t, got, "entry survives the denied delete")

	require.NoError(t, svc.Delete(ctx, creator.ID, e.ID))
}
