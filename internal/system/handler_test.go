package system_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/hmalik/clipstash/internal/config"
	"github.com/hmalik/clipstash/internal/system"
	"github.com/hmalik/clipstash/internal/testutil"
	"github.com/hmalik/clipstash/internal/user"
	"github.com/hmalik/clipstash/pkg/middleware"
)

// staticVerifier resolves every bearer token to a fixed principal.
type staticVerifier struct {
	role user.Role
}

func (v staticVerifier) Verify(_ context.Context, token string, _ bool) (middleware.Principal, error) {
	return middleware.Principal{ID: token, Role: string(v.role)}, nil
}

func newSystemRouter(db *mongo.Database, role user.Role) http.Handler {
	h := system.NewHandler(db, &config.Config{Env: "test"})
	return h.Routes(middleware.Auth(staticVerifier{role: role}))
}

func TestStatusIsPublic(t *testing.T) {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/status", nil)

	newSystemRouter(nil, user.RoleUser).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestStatsRequiresToken(t *testing.T) {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/stats", nil)

	newSystemRouter(nil, user.RoleAdmin).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestStatsRejectsNonAdmin(t *testing.T) {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/stats", nil)
	req.Header.Set("Authorization", "Bearer tok")

	newSystemRouter(nil, user.RoleUser).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestStatsCountsCollectionsForAdmin(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx := context.Background()

	_, err := db.Collection("users").InsertOne(ctx, bson.M{"email": "a@example.com"})
	require.NoError(t, err)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/stats", nil)
	req.Header.Set("Authorization", "Bearer tok")

	newSystemRouter(db, user.RoleAdmin).ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Collections map[string]int64 `json:"collections"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, int64(1), body.Collections["users"])
	assert.Equal(t, int64(0), body.Collections["clipboard_entries"])
}
