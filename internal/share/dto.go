package share

// CreateShareRequest represents the request to share an entry
type CreateShareRequest struct {
	EntryID string `json:"entry_id"`
	UserID  string `json:"user_id"`
	Level   string `json:"level"` // read|write
}

// UpdateShareRequest represents the request to change a grant level
type UpdateShareRequest struct {
	Level string `json:"level"`
}

// StatsResponse summarizes the principal's sharing activity
type StatsResponse struct {
	SharedEntries   int            `json:"shared_entries"`
	ReceivedEntries int            `json:"received_entries"`
	GrantsByLevel   map[string]int `json:"grants_by_level"`
	SharedByType    map[string]int `json:"shared_by_type"`
}

// ProductShareStats is one row of the analytics breakdown
type ProductShareStats struct {
	ProductID    string `json:"product_id"`
	EntryCount   int    `json:"entry_count"`
	GrantCount   int    `json:"grant_count"`
	PublicCount  int    `json:"public_count"`
}

// RecipientStats counts grants per recipient
type RecipientStats struct {
	UserID     string `json:"user_id"`
	GrantCount int    `json:"grant_count"`
}

// AnalyticsResponse is the response for GET /shares/analytics
type AnalyticsResponse struct {
	ByProduct     []ProductShareStats `json:"by_product"`
	TopRecipients []RecipientStats    `json:"top_recipients"`
}
