package gemini

import (
	"context"
	"errors"
	"fmt"

	genai "google.golang.org/genai"
)

// DefaultModel is the model used when no override is configured.
const DefaultModel = "gemini-2.5-flash"

// ErrEmptyResponse is returned when the service answered without any candidate text.
var ErrEmptyResponse = errors.New("gemini: empty response from model")

// Generator is the text-completion boundary. Report synthesis and the chat
// pipeline depend on this interface so tests can substitute a fake.
type Generator interface {
	Generate(ctx context.Context, prompt string) Result
}

// Client wraps the official genai client for plain prompt-in/text-out calls.
type Client struct {
	cli   *genai.Client
	model string
}

func NewClient(ctx context.Context, apiKey, model string) (*Client, error) {
	if model == "" {
		model = DefaultModel
	}
	cli, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("create genai client: %w", err)
	}
	return &Client{cli: cli, model: model}, nil
}

func (c *Client) Model() string { return c.model }

// Generate sends the prompt and returns a tagged Result. Failures (network,
// auth, quota, empty candidates) are captured in the Result rather than
// returned as an error: every caller gets something displayable back.
// No retries happen here; retry policy belongs to the caller.
func (c *Client) Generate(ctx context.Context, prompt string) Result {
	resp, err := c.cli.Models.GenerateContent(ctx, c.model,
		[]*genai.Content{{Parts: []*genai.Part{{Text: prompt}}}},
		nil,
	)
	if err != nil {
		return Result{Err: fmt.Errorf("generate content: %w", err)}
	}
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil || len(resp.Candidates[0].Content.Parts) == 0 {
		return Result{Err: ErrEmptyResponse}
	}
	return Result{Text: resp.Candidates[0].Content.Parts[0].Text}
}
