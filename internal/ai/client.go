// Package ai wraps the Gemini API for two read-only calls: extracting a
// payslip draft from an uploaded document and producing a narrative summary
// of the entry history. Both are best-effort; callers recover from failures
// locally and extraction never blocks entry management.
package ai

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"google.golang.org/genai"

	"stipendi/internal/analytics"
	"stipendi/internal/core"
)

// DefaultModel is the Gemini model used for both calls.
const DefaultModel = "gemini-2.5-flash"

// FallbackInsight is substituted when narrative generation fails. It is a
// user-visible string, not an error.
const FallbackInsight = "Insights are unavailable right now.\nYour records are safe; try again later."

type Client struct {
	genai *genai.Client
	model string
}

// NewClient creates a Gemini-backed client. Credentials come from the
// environment (GEMINI_API_KEY or application-default credentials).
func NewClient(ctx context.Context, model string) (*Client, error) {
	if model == "" {
		model = DefaultModel
	}
	cli, err := genai.NewClient(ctx, &genai.ClientConfig{
		HTTPOptions: genai.HTTPOptions{APIVersion: "v1"},
	})
	if err != nil {
		return nil, fmt.Errorf("create genai client: %w", err)
	}
	return &Client{genai: cli, model: model}, nil
}

// Extract sends the document to the model and maps its JSON reply onto a
// draft. Individual malformed fields are dropped rather than failing the
// whole extraction; a hard failure returns an error the caller converts to
// an empty draft.
func (c *Client) Extract(ctx context.Context, document []byte, mimeType string) (core.Draft, error) {
	contents := []*genai.Content{
		{
			Role: "user",
			Parts: []*genai.Part{
				{Text: extractionPrompt},
				{
					InlineData: &genai.Blob{
						MIMEType: mimeType,
						Data:     document,
					},
				},
			},
		},
	}

	resp, err := c.genai.Models.GenerateContent(ctx, c.model, contents, nil)
	if err != nil {
		return core.Draft{}, fmt.Errorf("generate content: %w", err)
	}

	rawText := resp.Text()
	if rawText == "" {
		return core.Draft{}, fmt.Errorf("empty response from model")
	}

	clean := cleanModelJSON(rawText, '{', '}')
	var parsed map[string]interface{}
	if err := json.Unmarshal([]byte(clean), &parsed); err != nil {
		return core.Draft{}, fmt.Errorf("unmarshal model JSON: %w", err)
	}

	return draftFromModelOutput(parsed), nil
}

// Summarize asks the model for a short narrative over the entry history.
// One attempt, no retries; the caller substitutes FallbackInsight when this
// errors.
func (c *Client) Summarize(ctx context.Context, entries []core.Entry) (string, error) {
	digest, err := json.Marshal(historyDigest(entries))
	if err != nil {
		return "", fmt.Errorf("marshal history digest: %w", err)
	}

	contents := []*genai.Content{
		{
			Role: "user",
			Parts: []*genai.Part{
				{Text: insightPrompt},
				{Text: string(digest)},
			},
		},
	}

	resp, err := c.genai.Models.GenerateContent(ctx, c.model, contents, nil)
	if err != nil {
		return "", fmt.Errorf("generate content: %w", err)
	}

	text := strings.TrimSpace(resp.Text())
	if text == "" {
		return "", fmt.Errorf("empty response from model")
	}
	return text, nil
}

// historyDigest compacts the collection into the aggregate figures the
// model needs, avoiding shipping free-text notes to the API.
func historyDigest(entries []core.Entry) map[string]interface{} {
	totals := analytics.Sum(entries)
	return map[string]interface{}{
		"entryCount":      len(entries),
		"totalNet":        totals.Net,
		"totalGross":      totals.Gross,
		"totalDeductions": totals.Deductions,
		"keepRate":        analytics.KeepRate(entries),
		"momentum":        analytics.Momentum(entries),
		"hourlyRate":      analytics.HourlyRate(entries),
		"yearly":          analytics.YearlyRollup(entries),
		"monthly":         analytics.MonthlySeries(entries, 12),
	}
}

// cleanModelJSON strips markdown fences and surrounding junk the model may
// wrap around its JSON despite instructions, keeping just the first open
// through the last close delimiter.
func cleanModelJSON(raw string, open, close byte) string {
	s := strings.TrimSpace(raw)

	if strings.HasPrefix(s, "```") {
		if idx := strings.Index(s, "\n"); idx != -1 {
			s = s[idx+1:]
		} else {
			return s
		}
		s = strings.TrimSpace(s)
	}
	if idx := strings.LastIndex(s, "```"); idx != -1 {
		s = s[:idx]
	}
	s = strings.TrimSpace(s)

	if start := strings.IndexByte(s, open); start != -1 {
		if end := strings.LastIndexByte(s, close); end > start {
			s = strings.TrimSpace(s[start : end+1])
		}
	}
	return s
}
