// Package utilities provides stateless content helpers: validation,
// formatting, analysis and small batch transforms. Nothing here touches
// the database.
package utilities

import (
	"encoding/json"
	"errors"
	"net/url"
	"regexp"
	"strings"

	"github.com/hmalik/clipstash/internal/clipboard"
)

// Common errors
var (
	ErrInvalidOperation = errors.New("unknown format operation")
	ErrInvalidType      = errors.New("type must be one of text, image, file, link")
	ErrBatchTooLarge    = errors.New("batch exceeds the maximum of 50 items")
	ErrInvalidJSON      = errors.New("content is not valid JSON")
)

const (
	maxBatchItems  = 50
	maxTextLength  = 100_000
	maxSuggestions = 5
)

var (
	urlRe   = regexp.MustCompile(`https?://[^\s<>"']+`)
	emailRe = regexp.MustCompile(`[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}`)
	phoneRe = regexp.MustCompile(`\+?[0-9][0-9 ()\-]{6,}[0-9]`)
	wordRe  = regexp.MustCompile(`\S+`)
)

// Format operations accepted by FormatContent.
const (
	OpTrim               = "trim"
	OpUppercase          = "uppercase"
	OpLowercase          = "lowercase"
	OpCollapseWhitespace = "collapse-whitespace"
	OpPrettyJSON         = "pretty-json"
	OpNormalizeURL       = "normalize-url"
)

// Service implements the utility operations. It carries no state.
type Service struct{}

// NewService creates a new utilities service
func NewService() *Service {
	return &Service{}
}

// Validate checks content against the rules of its declared type and
// returns the individual findings rather than failing on the first.
func (s *Service) Validate(req *ValidateRequest) (*ValidateResponse, error) {
	if !clipboard.ValidType(clipboard.EntryType(req.Type)) {
		return nil, ErrInvalidType
	}

	resp := &ValidateResponse{Valid: true, Issues: []string{}}
	content := req.Content

	if strings.TrimSpace(content) == "" {
		resp.fail("content is empty")
		return resp, nil
	}
	if len(content) > maxTextLength {
		resp.fail("content exceeds the maximum length")
	}

	switch clipboard.EntryType(req.Type) {
	case clipboard.TypeLink:
		u, err := url.Parse(strings.TrimSpace(content))
		if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
			resp.fail("link content must be an absolute http(s) URL")
		}
	case clipboard.TypeImage, clipboard.TypeFile:
		// Binary types carry a reference, not raw bytes.
		if strings.ContainsAny(content, "\x00") {
			resp.fail("binary content must be referenced, not embedded")
		}
	}

	resp.ContainsURL = urlRe.MatchString(content)
	resp.ContainsEmail = emailRe.MatchString(content)
	resp.ContainsPhone = phoneRe.MatchString(content)
	return resp, nil
}

func (r *ValidateResponse) fail(issue string) {
	r.Valid = false
	r.Issues = append(r.Issues, issue)
}

// Format applies one named transform to the content.
func (s *Service) Format(req *FormatRequest) (*FormatResponse, error) {
	out, err := applyOperation(req.Operation, req.Content)
	if err != nil {
		return nil, err
	}
	return &FormatResponse{Content: out, Operation: req.Operation}, nil
}

func applyOperation(op, content string) (string, error) {
	switch op {
	case OpTrim:
		return strings.TrimSpace(content), nil
	case OpUppercase:
		return strings.ToUpper(content), nil
	case OpLowercase:
		return strings.ToLower(content), nil
	case OpCollapseWhitespace:
		return strings.Join(strings.Fields(content), " "), nil
	case OpPrettyJSON:
		var v interface{}
		if err := json.Unmarshal([]byte(content), &v); err != nil {
			return "", ErrInvalidJSON
		}
		b, err := json.MarshalIndent(v, "", "  ")
		if err != nil {
			return "", ErrInvalidJSON
		}
		return string(b), nil
	case OpNormalizeURL:
		return normalizeURL(content)
	default:
		return "", ErrInvalidOperation
	}
}

// normalizeURL lowercases scheme and host, strips default ports and
// trailing slashes, and drops fragments.
func normalizeURL(raw string) (string, error) {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil || u.Host == "" {
		return "", errors.New("content is not a valid URL")
	}
	u.Scheme = strings.ToLower(u.Scheme)
	u.Host = strings.ToLower(u.Host)
	u.Host = strings.TrimSuffix(u.Host, ":80")
	u.Host = strings.TrimSuffix(u.Host, ":443")
	u.Fragment = ""
	u.Path = strings.TrimSuffix(u.Path, "/")
	return u.String(), nil
}

// Analyze inspects the content and reports structural facts plus tag
// suggestions derived from what it detected.
func (s *Service) Analyze(req *AnalyzeRequest) *AnalyzeResponse {
	content := req.Content
	resp := &AnalyzeResponse{
		Length:    len(content),
		Words:     len(wordRe.FindAllString(content, -1)),
		Lines:     strings.Count(content, "\n") + 1,
		URLs:      dedupe(urlRe.FindAllString(content, -1)),
		Emails:    dedupe(emailRe.FindAllString(content, -1)),
		Detected:  detectType(content),
		Suggested: []string{},
	}
	if strings.TrimSpace(content) == "" {
		resp.Lines = 0
	}

	if len(resp.URLs) > 0 {
		resp.Suggested = append(resp.Suggested, "link")
	}
	if len(resp.Emails) > 0 {
		resp.Suggested = append(resp.Suggested, "contact")
	}
	if json.Valid([]byte(content)) && looksStructured(content) {
		resp.Suggested = append(resp.Suggested, "json")
	}
	if resp.Words > 100 {
		resp.Suggested = append(resp.Suggested, "long-form")
	}
	if len(resp.Suggested) > maxSuggestions {
		resp.Suggested = resp.Suggested[:maxSuggestions]
	}
	return resp
}

// detectType guesses the entry type a piece of content belongs to.
func detectType(content string) string {
	trimmed := strings.TrimSpace(content)
	if trimmed == "" {
		return string(clipboard.TypeText)
	}
	if u, err := url.Parse(trimmed); err == nil &&
		(u.Scheme == "http" || u.Scheme == "https") && u.Host != "" &&
		!strings.ContainsAny(trimmed, " \n\t") {
		return string(clipboard.TypeLink)
	}
	return string(clipboard.TypeText)
}

func looksStructured(content string) bool {
	t := strings.TrimSpace(content)
	return strings.HasPrefix(t, "{") || strings.HasPrefix(t, "[")
}

func dedupe(in []string) []string {
	seen := make(map[string]struct{}, len(in))
	out := []string{}
	for _, s := range in {
		if _, ok := seen[s]; ok {
			continue
		}
		seen[s] = struct{}{}
		out = append(out, s)
	}
	return out
}

// Batch applies a format operation per item, collecting per-item results
// so one bad item never fails the batch.
func (s *Service) Batch(req *BatchRequest) ([]BatchItemResult, error) {
	if len(req.Items) > maxBatchItems {
		return nil, ErrBatchTooLarge
	}

	results := make([]BatchItemResult, 0, len(req.Items))
	for i, item := range req.Items {
		op := item.Operation
		if op == "" {
			op = req.Operation
		}
		out, err := applyOperation(op, item.Content)
		res := BatchItemResult{Index: i, Success: err == nil, Content: out}
		if err != nil {
			res.Error = err.Error()
		}
		results = append(results, res)
	}
	return results, nil
}

// SupportedFormats returns the static capability listing.
func (s *Service) SupportedFormats() *SupportedFormatsResponse {
	return &SupportedFormatsResponse{
		EntryTypes: []string{
			string(clipboard.TypeText), string(clipboard.TypeImage),
			string(clipboard.TypeFile), string(clipboard.TypeLink),
		},
		Operations: []string{
			OpTrim, OpUppercase, OpLowercase,
			OpCollapseWhitespace, OpPrettyJSON, OpNormalizeURL,
		},
		MaxBatchItems: maxBatchItems,
		MaxTextLength: maxTextLength,
	}
}
