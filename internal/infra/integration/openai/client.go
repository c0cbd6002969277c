package openai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

const defaultModel = "gpt-4o-mini"

const sopReviewSystemPrompt = `You review Statements of Purpose for students applying to universities abroad.
Point out structural problems, weak claims and grammar issues, then suggest concrete improvements.
Be direct and specific. Do not rewrite the whole essay.`

const searchAssistSystemPrompt = `You help prospective international students find colleges, courses and specializations.
Answer briefly with concrete suggestions (college names, degree types, countries). If the question is not about
studying abroad, say you can only help with study-abroad searches.`

// Client wraps the OpenAI chat-completions API for the SOP-review and
// search-assist features. One short call per request, timeout-bounded.
type Client struct {
	baseURL string
	apiKey  string
	model   string
	http    *http.Client
}

func NewClient(apiKey, model string) *Client {
	if model == "" {
		model = defaultModel
	}
	return &Client{
		baseURL: "https://api.openai.com/v1",
		apiKey:  apiKey,
		model:   model,
		http:    &http.Client{Timeout: 60 * time.Second},
	}
}

func (c *Client) Configured() bool {
	return c.apiKey != ""
}

func (c *Client) ReviewSOP(ctx context.Context, sopText string) (*SOPReviewOutput, error) {
	content, err := c.chat(ctx, sopReviewSystemPrompt, sopText, 1200)
	if err != nil {
		return nil, err
	}
	return &SOPReviewOutput{Review: content}, nil
}

func (c *Client) SearchAssist(ctx context.Context, query string) (*SearchAssistOutput, error) {
	content, err := c.chat(ctx, searchAssistSystemPrompt, query, 500)
	if err != nil {
		return nil, err
	}
	return &SearchAssistOutput{Answer: content}, nil
}

func (c *Client) chat(ctx context.Context, system, user string, maxTokens int) (string, error) {
	payload := chatRequest{
		Model: c.model,
		Messages: []message{
			{Role: "system", Content: system},
			{Role: "user", Content: user},
		},
		Temperature: 0.4,
		MaxTokens:   maxTokens,
	}

	jsonBody, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("marshaling chat request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, "POST", c.baseURL+"/chat/completions", bytes.NewBuffer(jsonBody))
	if err != nil {
		return "", err
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("openai request: %w", err)
	}
	defer resp.Body.Close()

	var response chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&response); err != nil {
		return "", fmt.Errorf("decoding openai response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		if response.Error != nil {
			return "", fmt.Errorf("openai rejected (status %d): %s", resp.StatusCode, response.Error.Message)
		}
		return "", fmt.Errorf("openai rejected (status %d)", resp.StatusCode)
	}

	if len(response.Choices) == 0 {
		return "", fmt.Errorf("openai returned no choices")
	}
	return response.Choices[0].Message.Content, nil
}
