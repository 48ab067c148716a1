package clipboard

import "time"

// CreateEntryRequest represents the request to create an entry
type CreateEntryRequest struct {
	Content        string    `json:"content"`
	Type           EntryType `json:"type"`
	Metadata       Metadata  `json:"metadata,omitempty"`
	ProductID      string    `json:"product_id"`
	Tags           []string  `json:"tags,omitempty"`
	IsPublic       bool      `json:"is_public"`
	ExpiresInHours int       `json:"expires_in_hours,omitempty"`
}

// UpdateEntryRequest represents the request to update an entry
type UpdateEntryRequest struct {
	Content  *string   `json:"content,omitempty"`
	Metadata *Metadata `json:"metadata,omitempty"`
	Tags     *[]string `json:"tags,omitempty"`
	IsPublic *bool     `json:"is_public,omitempty"`
}

// SearchRequest represents the filter set for POST /clipboard/search.
// Visibility is applied inside the query, never as a post-hoc check.
type SearchRequest struct {
	ProductID string    `json:"product_id"`
	Type      EntryType `json:"type,omitempty"`
	Tags      []string  `json:"tags,omitempty"`
	Query     string    `json:"query,omitempty"`
	From      string    `json:"from,omitempty"`
	To        string    `json:"to,omitempty"`
	Page      int       `json:"page,omitempty"`
	PerPage   int       `json:"per_page,omitempty"`
}

// BulkRequest represents the request for POST /clipboard/bulk
type BulkRequest struct {
	Action  string               `json:"action"` // create|delete|tag
	Entries []CreateEntryRequest `json:"entries,omitempty"`
	IDs     []string             `json:"ids,omitempty"`
	Tags    []string             `json:"tags,omitempty"`
}

// BulkItemResult reports the outcome of one bulk item
type BulkItemResult struct {
	ID    string `json:"id,omitempty"`
	Error string `json:"error,omitempty"`
}

// EntryResponse represents the response for an entry
type EntryResponse struct {
	ID          string          `json:"id"`
	Content     string          `json:"content"`
	Type        EntryType       `json:"type"`
	Metadata    Metadata        `json:"metadata,omitempty"`
	ProductID   string          `json:"product_id"`
	CreatedBy   string          `json:"created_by"`
	Tags        []string        `json:"tags"`
	IsPublic    bool            `json:"is_public"`
	SharedWith  []ShareResponse `json:"shared_with"`
	Favorites   int             `json:"favorites"`
	IsFavorite  bool            `json:"is_favorite"`
	ExpiresAt   string          `json:"expires_at,omitempty"`
	CreatedAt   string          `json:"created_at"`
	UpdatedAt   string          `json:"updated_at"`
}

// ShareResponse represents a share grant in an entry response
type ShareResponse struct {
	UserID    string `json:"user_id"`
	Level     string `json:"level"`
	GrantedAt string `json:"granted_at"`
}

// ToResponse converts an Entry to an EntryResponse for a given viewer
func (e *Entry) ToResponse(viewerID string) *EntryResponse {
	resp := &EntryResponse{
		ID:        e.ID.Hex(),
		Content:   e.Content,
		Type:      e.Type,
		Metadata:  e.Metadata,
		ProductID: e.ProductID.Hex(),
		CreatedBy: e.CreatedBy.Hex(),
		Tags:      e.Tags,
		IsPublic:  e.IsPublic,
		Favorites: len(e.FavoritedBy),
		CreatedAt: e.CreatedAt.Format(time.RFC3339),
		UpdatedAt: e.UpdatedAt.Format(time.RFC3339),
	}
	if resp.Tags == nil {
		resp.Tags = []string{}
	}
	resp.SharedWith = make([]ShareResponse, 0, len(e.SharedWith))
	for _, g := range e.SharedWith {
		resp.SharedWith = append(resp.SharedWith, ShareResponse{
			UserID:    g.UserID.Hex(),
			Level:     g.Level,
			GrantedAt: g.GrantedAt.Format(time.RFC3339),
		})
	}
	for _, f := range e.FavoritedBy {
		if f.Hex() == viewerID {
			resp.IsFavorite = true
			break
		}
	}
	if e.ExpiresAt != nil {
		resp.ExpiresAt = e.ExpiresAt.Format(time.RFC3339)
	}
	return resp
}
