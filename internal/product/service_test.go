package product

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hmalik/clipstash/internal/access"
	"github.com/hmalik/clipstash/internal/testutil"
	"github.com/hmalik/clipstash/internal/user"
)

// Demoting or removing the sole explicit admin member is rejected end to
// end, and the member list comes back from the store unchanged.
func TestLastAdminGuard(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx := context.Background()

	users := user.NewRepository(db)
	repo := NewRepository(db)
	svc := NewService(repo, users)

	owner, err := users.Create(ctx, &user.User{
		Username: "owner", Email: "owner@example.com", PasswordHash: "x",
	})
	require.NoError(t, err)
	admin, err := users.Create(ctx, &user.User{
		Username: "admin", Email: "admin@example.com", PasswordHash: "x",
	})
	require.NoError(t, err)

	p, err := svc.Create(ctx, owner.ID, &CreateProductRequest{Name: "team board"})
	require.NoError(t, err)

	// Seed the sole explicit admin member directly; the invite flow has
	// its own coverage.
	p.Members = append(p.Members, Member{
		UserID: admin.ID, Level: access.LevelAdmin.String(), JoinedAt: time.Now().UTC(),
	})
	require.NoError(t, repo.Save(ctx, p))

	_, err = svc.UpdateMember(ctx, owner.ID, p.ID, admin.ID, &UpdateMemberRequest{Level: "read"})
	assert.ErrorIs(t, err, ErrLastAdmin)

	err = svc.RemoveMember(ctx, owner.ID, p.ID, admin.ID)
	assert.ErrorIs(t, err, ErrLastAdmin)

	got, err := repo.GetByID(ctx, p.ID)
	require.NoError(t, err)
	require.NotNil(t, got)
	require.Len(t, got.Members, 1)
	assert.Equal(t, admin.ID, got.Members[0].UserID)
	assert.Equal(t, access.LevelAdmin.String(), got.Members[0].Level)

	// With a second admin present the demotion goes through.
	second, err := users.Create(ctx, &user.User{
		Username: "second", Email: "second@example.com", PasswordHash: "x",
	})
	require.NoError(t, err)
	got.Members = append(got.Members, Member{
		UserID: second.ID, Level: access.LevelAdmin.String(), JoinedAt: time.Now().UTC(),
	})
	require.NoError(t, repo.Save(ctx, got))

	updated, err := svc.UpdateMember(ctx, owner.ID, p.ID, admin.ID, &UpdateMemberRequest{Level: "read"})
	require.NoError(t, err)
	assert.Equal(t, access.LevelRead.String(), updated.Member(admin.ID).Level)
}
