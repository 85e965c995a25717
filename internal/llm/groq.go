package llm

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-resty/resty/v2"
)

const groqAPIURL = "https://api.groq.com/openai/v1/chat/completions"

// groqClient talks to Groq's OpenAI-compatible chat API. It is the
// fallback text generator when no Gemini key is configured.
type groqClient struct {
	apiKey string
	model  string
	client *resty.Client
}

// NewGroqClient creates a Groq-backed TextGenerator.
func NewGroqClient(apiKey, model string) TextGenerator {
	return &groqClient{
		apiKey: apiKey,
		model:  model,
		client: resty.New().SetTimeout(30 * time.Second),
	}
}

// GenerateContent sends a prompt to the Groq model and returns the
// generated text.
func (c *groqClient) GenerateContent(ctx context.Context, prompt string) (string, error) {
	reqBody := map[string]interface{}{
		"model": c.model,
		"messages": []map[string]string{
			{
				"role":    "user",
				"content": prompt,
			},
		},
		"temperature":     0.1,
		"response_format": map[string]string{"type": "json_object"},
	}

	var groqResp struct {
		Choices []struct {
			Message struct {
				Content string `json:"content"`
			} `json:"message"`
		} `json:"choices"`
	}

	resp, err := c.client.R().
		SetContext(ctx).
		SetAuthToken(c.apiKey).
		SetHeader("Content-Type", "application/json").
		SetBody(reqBody).
		SetResult(&groqResp).
		Post(groqAPIURL)
	if err != nil {
		return "", fmt.Errorf("failed to send request: %w", err)
	}
	if resp.StatusCode() != http.StatusOK {
		return "", fmt.Errorf("groq api error: status=%d body=%s", resp.StatusCode(), resp.String())
	}
	if len(groqResp.Choices) == 0 {
		return "", fmt.Errorf("no content generated")
	}
	return groqResp.Choices[0].Message.Content, nil
}
