package utilities

// ValidateRequest represents the request to validate content
type ValidateRequest struct {
	Content string `json:"content"`
	Type    string `json:"type"`
}

// ValidateResponse reports validation findings for one piece of content
type ValidateResponse struct {
	Valid         bool     `json:"valid"`
	Issues        []string `json:"issues"`
	ContainsURL   bool     `json:"contains_url"`
	ContainsEmail bool     `json:"contains_email"`
	ContainsPhone bool     `json:"contains_phone"`
}

// FormatRequest represents the request to apply one transform
type FormatRequest struct {
	Content   string `json:"content"`
	Operation string `json:"operation"`
}

// FormatResponse carries the transformed content
type FormatResponse struct {
	Content   string `json:"content"`
	Operation string `json:"operation"`
}

// AnalyzeRequest represents the request to analyze content
type AnalyzeRequest struct {
	Content string `json:"content"`
}

// AnalyzeResponse reports structural facts about the content
type AnalyzeResponse struct {
	Length    int      `json:"length"`
	Words     int      `json:"words"`
	Lines     int      `json:"lines"`
	Detected  string   `json:"detected_type"`
	URLs      []string `json:"urls"`
	Emails    []string `json:"emails"`
	Suggested []string `json:"suggested_tags"`
}

// BatchItem is one unit of work in a batch request. An item-level
// operation overrides the batch-level one.
type BatchItem struct {
	Content   string `json:"content"`
	Operation string `json:"operation,omitempty"`
}

// BatchRequest represents the request to process up to 50 items
type BatchRequest struct {
	Operation string      `json:"operation,omitempty"`
	Items     []BatchItem `json:"items"`
}

// BatchItemResult is the per-item outcome of a batch request
type BatchItemResult struct {
	Index   int    `json:"index"`
	Success bool   `json:"success"`
	Content string `json:"content,omitempty"`
	Error   string `json:"error,omitempty"`
}

// SupportedFormatsResponse is the static capability listing
type SupportedFormatsResponse struct {
	EntryTypes    []string `json:"entry_types"`
	Operations    []string `json:"operations"`
	MaxBatchItems int      `json:"max_batch_items"`
	MaxTextLength int      `json:"max_text_length"`
}
