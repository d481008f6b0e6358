package gemini

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

type GeminiClient struct {
	baseUrl    string
	httpClient *http.Client
}

func NewGeminiClient() *GeminiClient {
	return &GeminiClient{
		baseUrl:    "https://generativelanguage.googleapis.com/v1beta/models/gemini-2.0-flash:generateContent",
		httpClient: &http.Client{Timeout: 60 * time.Second},
	}
}

// GeneratePlan makes a single generateContent call and returns the plan text
// from the first candidate part that has one. A transport failure or a
// non-success status is an error; a well-formed response without any usable
// text returns "" so the caller can fall back to its fixed plan.
func (c *GeminiClient) GeneratePlan(ctx context.Context, apiKey, systemInstruction, userPrompt string) (string, error) {
	payload := GenerateRequest{
		SystemInstruction: Instruction{
			Parts: []Part{{Text: systemInstruction}},
		},
		Contents: []Content{
			{
				Role:  "user",
				Parts: []Part{{Text: userPrompt}},
			},
		},
		GenerationConfig: GenerationConfig{
			Temperature:      0.2,
			MaxOutputTokens:  2048,
			ResponseMimeType: "application/json",
		},
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("marshal request (gemini): %w", err)
	}

	endpoint := c.baseUrl + "?key=" + url.QueryEscape(apiKey)
	req, err := http.NewRequestWithContext(ctx, "POST", endpoint, bytes.NewBuffer(body))
	if err != nil {
		return "", fmt.Errorf("build request (gemini): %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("generate plan (gemini): %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("read response body (gemini): %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		var geminiErr GeminiError
		if err := json.Unmarshal(respBody, &geminiErr); err == nil && geminiErr.Error.Message != "" {
			return "", fmt.Errorf("Gemini error: %s", geminiErr.Error.Message)
		}
		return "", fmt.Errorf("API error status: %d", resp.StatusCode)
	}

	var generateResp GenerateResponse
	if err := json.Unmarshal(respBody, &generateResp); err != nil {
		return "", fmt.Errorf("parse response (gemini): %w", err)
	}

	return extractPlanText(generateResp), nil
}

// extractPlanText walks candidates/content/parts for the first non-blank
// text entry.
func extractPlanText(resp GenerateResponse) string {
	for _, candidate := range resp.Candidates {
		for _, part := range candidate.Content.Parts {
			if strings.TrimSpace(part.Text) != "" {
				return part.Text
			}
		}
	}
	return ""
}
