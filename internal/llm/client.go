package llm

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	openai "github.com/sashabaranov/go-openai"

	"github.com/cognicore/textclass/pkg/textclass/chunk"
)

// DefaultChunkSize keeps each request well inside common context windows.
const DefaultChunkSize = 12000

const (
	summarySystem = "You summarise transcripts and customer reviews. Keep the original language. Be faithful and concise."
	mergeSystem   = "You merge partial summaries of one document into a single concise summary. Keep the original language."
)

// Summarizer condenses a text of any length.
type Summarizer interface {
	Summarize(ctx context.Context, text string) (string, error)
}

var _ Summarizer = (*Client)(nil)

// Client calls an OpenAI-compatible chat completion endpoint.
type Client struct {
	BaseURL string // e.g. https://api.openai.com/v1; the library default when empty
	APIKey  string
	Model   string

	// ChunkSize is the largest piece of text sent in one request.
	ChunkSize int

	HTTPClient *http.Client
}

// Summarize returns a summary of text. Long text is split into chunks that
// are summarised one by one; the partial summaries are then merged in one
// more request.
func (c *Client) Summarize(ctx context.Context, text string) (string, error) {
	size := c.ChunkSize
	if size <= 0 {
		size = DefaultChunkSize
	}
	pieces := chunk.Wrap(text, size)
	switch len(pieces) {
	case 0:
		return "", fmt.Errorf("llm: nothing to summarise")
	case 1:
		return c.Chat(ctx, summarySystem, pieces[0])
	}

	partials := make([]string, 0, len(pieces))
	for i, p := range pieces {
		out, err := c.Chat(ctx, summarySystem, p)
		if err != nil {
			return "", fmt.Errorf("llm: summarise chunk %d/%d: %w", i+1, len(pieces), err)
		}
		slog.Debug("chunk summarised", "chunk", i+1, "of", len(pieces))
		partials = append(partials, out)
	}
	return c.Chat(ctx, mergeSystem, formatPartials(partials))
}

func (c *Client) Chat(ctx context.Context, system, user string) (string, error) {
	if c.Model == "" {
		return "", fmt.Errorf("llm: model required")
	}
	resp, err := c.client().CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: c.Model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: system},
			{Role: openai.ChatMessageRoleUser, Content: user},
		},
	})
	if err != nil {
		return "", fmt.Errorf("llm: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("llm: empty response")
	}
	return strings.TrimSpace(resp.Choices[0].Message.Content), nil
}

func (c *Client) client() *openai.Client {
	cfg := openai.DefaultConfig(c.APIKey)
	if c.BaseURL != "" {
		cfg.BaseURL = strings.TrimRight(c.BaseURL, "/")
	}
	if c.HTTPClient != nil {
		cfg.HTTPClient = c.HTTPClient
	} else {
		cfg.HTTPClient = &http.Client{Timeout: 60 * time.Second}
	}
	return openai.NewClientWithConfig(cfg)
}

func formatPartials(partials []string) string {
	var b strings.Builder
	b.WriteString("Partial summaries, in document order:\n")
	for i, p := range partials {
		fmt.Fprintf(&b, "%d. %s\n", i+1, p)
	}
	b.WriteString("\nRespond with one summary covering all parts.\n")
	return b.String()
}
