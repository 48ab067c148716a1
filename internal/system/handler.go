// Package system exposes operational endpoints: liveness, runtime status
// and coarse datastore statistics.
package system

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"github.com/hmalik/clipstash/internal/config"
	"github.com/hmalik/clipstash/internal/user"
	"github.com/hmalik/clipstash/pkg/middleware"
	"github.com/hmalik/clipstash/pkg/response"
)

// Version is stamped at build time via -ldflags.
var Version = "dev"

// Handler handles HTTP requests for system endpoints
type Handler struct {
	db      *mongo.Database
	cfg     *config.Config
	started time.Time
}

// NewHandler creates a new system handler
func NewHandler(db *mongo.Database, cfg *config.Config) *Handler {
	return &Handler{db: db, cfg: cfg, started: time.Now().UTC()}
}

// Routes returns the router for system endpoints. Health and status stay
// public; stats needs an authenticated principal, so the caller passes the
// auth middleware in.
func (h *Handler) Routes(auth func(http.Handler) http.Handler) chi.Router {
	r := chi.NewRouter()

	r.Get("/health", h.Health)
	r.Get("/status", h.Status)
	r.With(auth).Get("/stats", h.Stats)

	return r
}

// Health handles GET /system/health
// @Summary      Liveness check including a datastore ping
// @Tags         system
// @Produce      json
// @Success      200 {object} map[string]string
// @Failure      500 {object} map[string]string
// @Router       /system/health [get]
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	if err := h.db.Client().Ping(ctx, readpref.Primary()); err != nil {
		response.JSON(w, http.StatusInternalServerError, map[string]string{
			"status":   "unhealthy",
			"database": "unreachable",
		})
		return
	}

	response.JSON(w, http.StatusOK, map[string]string{
		"status":   "ok",
		"database": "ok",
	})
}

// Status handles GET /system/status
func (h *Handler) Status(w http.ResponseWriter, r *http.Request) {
	response.JSON(w, http.StatusOK, map[string]interface{}{
		"version":        Version,
		"environment":    h.cfg.Env,
		"uptime_seconds": int(time.Since(h.started).Seconds()),
	})
}

// Stats handles GET /system/stats. Collection counts are operational
// detail, so only platform admins may read them.
func (h *Handler) Stats(w http.ResponseWriter, r *http.Request) {
	p, ok := middleware.GetPrincipal(r.Context())
	if !ok {
		response.Unauthorized(w, "Authentication required")
		return
	}
	if p.Role != string(user.RoleAdmin) {
		response.Forbidden(w, "Admin role required")
		return
	}

	collections := []string{"users", "products", "clipboard_entries", "family_groups"}
	counts := make(map[string]int64, len(collections))
	for _, name := range collections {
		n, err := h.db.Collection(name).CountDocuments(r.Context(), bson.M{})
		if err != nil {
			response.InternalError(w, "Internal server error")
			return
		}
		counts[name] = n
	}

	response.JSON(w, http.StatusOK, map[string]interface{}{"collections": counts})
}
