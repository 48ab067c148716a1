package realtime

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/hmalik/clipstash/internal/access"
	"github.com/hmalik/clipstash/internal/product"
	"github.com/hmalik/clipstash/pkg/middleware"
	"github.com/hmalik/clipstash/pkg/response"
)

// Handler serves the Server-Sent Events stream for product rooms.
type Handler struct {
	hub      *Hub
	products *product.Service
}

// NewHandler creates a new realtime handler
func NewHandler(hub *Hub, products *product.Service) *Handler {
	return &Handler{hub: hub, products: products}
}

// Routes returns the router for realtime endpoints
func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Get("/{productId}", h.Stream)
	return r
}

// Stream handles GET /realtime/{productId}. Read access to the product is
// evaluated before the subscription is created; the subscription lives for
// the duration of the request and is torn down on client disconnect.
func (h *Handler) Stream(w http.ResponseWriter, r *http.Request) {
	id, ok := middleware.GetUserID(r.Context())
	if !ok {
		response.Unauthorized(w, "Authentication required")
		return
	}
	uid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		response.Unauthorized(w, "Authentication required")
		return
	}
	productID, err := primitive.ObjectIDFromHex(chi.URLParam(r, "productId"))
	if err != nil {
		response.BadRequest(w, "Invalid product ID")
		return
	}

	_, decision, err := h.products.Evaluate(r.Context(), uid, productID, access.LevelRead)
	if err != nil || !decision.Allowed {
		response.NotFound(w, "product not found")
		return
	}

	flusher, ok := w.(http.Flusher)
	if !ok {
		response.InternalError(w, "Streaming not supported")
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)
	flusher.Flush()

	room := productID.Hex()
	ch := h.hub.Subscribe(room)
	defer h.hub.Unsubscribe(room, ch)

	for {
		select {
		case <-r.Context().Done():
			return
		case ev, open := <-ch:
			if !open {
				return
			}
			payload, err := json.Marshal(ev)
			if err != nil {
				continue
			}
			fmt.Fprintf(w, "event: %s\ndata: %s\n\n", ev.Action, payload)
			flusher.Flush()
		}
	}
}
