package utilities

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateLink(t *testing.T) {
	s := NewService()

	resp, err := s.Validate(&ValidateRequest{Content: "https://example.com/x", Type: "link"})
	require.NoError(t, err)
	assert.True(t, resp.Valid)
	assert.True(t, resp.ContainsURL)

	resp, err = s.Validate(&ValidateRequest{Content: "not a url", Type: "link"})
	require.NoError(t, err)
	assert.False(t, resp.Valid)
	assert.NotEmpty(t, resp.Issues)
}

func TestValidateRejectsUnknownType(t *testing.T) {
	s := NewService()

	_, err := s.Validate(&ValidateRequest{Content: "x", Type: "video"})
	assert.ErrorIs(t, err, ErrInvalidType)
}

func TestValidateEmptyContent(t *testing.T) {
	s := NewService()

	resp, err := s.Validate(&ValidateRequest{Content: "   ", Type: "text"})
	require.NoError(t, err)
	assert.False(t, resp.Valid)
}

func TestValidateDetectors(t *testing.T) {
	s := NewService()

	resp, err := s.Validate(&ValidateRequest{
		Content: "mail me at bob@example.com or call +1 (555) 123-4567",
		Type:    "text",
	})
	require.NoError(t, err)
	assert.True(t, resp.Valid)
	assert.True(t, resp.ContainsEmail)
	assert.True(t, resp.ContainsPhone)
	assert.False(t, resp.ContainsURL)
}

func TestFormatOperations(t *testing.T) {
	s := NewService()

	tests := []struct {
		op   string
		in   string
		want string
	}{
		{OpTrim, "  hi  ", "hi"},
		{OpUppercase, "hi", "HI"},
		{OpLowercase, "HI", "hi"},
		{OpCollapseWhitespace, "a  b\n\tc", "a b c"},
		{OpNormalizeURL, "HTTPS://Example.COM:443/path/#frag", "https://example.com/path"},
	}
	for _, tt := range tests {
		resp, err := s.Format(&FormatRequest{Content: tt.in, Operation: tt.op})
		require.NoError(t, err, tt.op)
		assert.Equal(t, tt.want, resp.Content, tt.op)
	}
}

func TestFormatPrettyJSON(t *testing.T) {
	s := NewService()

	resp, err := s.Format(&FormatRequest{Content: `{"a":1}`, Operation: OpPrettyJSON})
	require.NoError(t, err)
	assert.Equal(t, "{\n  \"a\": 1\n}", resp.Content)

	_, err = s.Format(&FormatRequest{Content: "{", Operation: OpPrettyJSON})
	assert.ErrorIs(t, err, ErrInvalidJSON)
}

func TestFormatUnknownOperation(t *testing.T) {
	s := NewService()

	_, err := s.Format(&FormatRequest{Content: "x", Operation: "reverse"})
	assert.ErrorIs(t, err, ErrInvalidOperation)
}

func TestAnalyze(t *testing.T) {
	s := NewService()

	resp := s.Analyze(&AnalyzeRequest{
		Content: "see https://example.com and https://example.com\nping bob@example.com",
	})
	assert.Equal(t, 2, resp.Lines)
	assert.Equal(t, []string{"https://example.com"}, resp.URLs, "duplicates collapse")
	assert.Equal(t, []string{"bob@example.com"}, resp.Emails)
	assert.Contains(t, resp.Suggested, "link")
	assert.Contains(t, resp.Suggested, "contact")
	assert.Equal(t, "text", resp.Detected)
}

func TestAnalyzeDetectsLink(t *testing.T) {
	s := NewService()

	resp := s.Analyze(&AnalyzeRequest{Content: "https://example.com/page"})
	assert.Equal(t, "link", resp.Detected)
}

func TestBatch(t *testing.T) {
	s := NewService()

	results, err := s.Batch(&BatchRequest{
		Operation: OpUppercase,
		Items: []BatchItem{
			{Content: "a"},
			{Content: "b", Operation: OpTrim},
			{Content: "{", Operation: OpPrettyJSON},
		},
	})
	require.NoError(t, err)
	require.Len(t, results, 3)

	assert.True(t, results[0].Success)
	assert.Equal(t, "A", results[0].Content)
	assert.True(t, results[1].Success, "item operation overrides batch operation")
	assert.Equal(t, "b", results[1].Content)
	assert.False(t, results[2].Success)
	assert.NotEmpty(t, results[2].Error)
}

func TestBatchTooLarge(t *testing.T) {
	s := NewService()

	items := make([]BatchItem, maxBatchItems+1)
	_, err := s.Batch(&BatchRequest{Operation: OpTrim, Items: items})
	assert.ErrorIs(t, err, ErrBatchTooLarge)
}

func TestSupportedFormats(t *testing.T) {
	s := NewService()

	resp := s.SupportedFormats()
	assert.Contains(t, resp.EntryTypes, "link")
	assert.Contains(t, resp.Operations, OpPrettyJSON)
	assert.Equal(t, maxBatchItems, resp.MaxBatchItems)
}
