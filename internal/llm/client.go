package llm

import (
	"context"
	"os"
	"strings"
	"unicode/utf8"

	openai "github.com/sashabaranov/go-openai"
	log "github.com/sirupsen/logrus"

	"handshake-autopilot/internal/config"
	"handshake-autopilot/internal/domain"
)

// chatFunc issues one system+user chat completion. It is a field so tests
// can stub the provider without network access.
type chatFunc func(ctx context.Context, systemPrompt, userPrompt string) (string, error)

// Client wraps the hosted chat-completion API. Provider failures never reach
// callers: every method degrades to a static default and logs a warning.
type Client struct {
	cfg  config.LLMConfig
	chat chatFunc
}

func New(cfg config.LLMConfig) *Client {
	c := &Client{cfg: cfg}

	apiKey := os.Getenv(cfg.APIKeyEnv)
	if cfg.IsEnabled() && strings.EqualFold(cfg.Provider, "openai") && apiKey != "" {
		api := openai.NewClient(apiKey)
		c.chat = func(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
			resp, err := api.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
				Model:       cfg.Model,
				Temperature: float32(cfg.Temperature),
				Messages: []openai.ChatCompletionMessage{
					{Role: openai.ChatMessageRoleSystem, Content: systemPrompt},
					{Role: openai.ChatMessageRoleUser, Content: userPrompt},
				},
			})
			if err != nil {
				return "", err
			}
			if len(resp.Choices) == 0 {
				return "", nil
			}
			return strings.TrimSpace(resp.Choices[0].Message.Content), nil
		}
	}

	if cfg.IsEnabled() && c.chat == nil {
		log.Warnf("llm enabled but client could not initialize; set %s to enable tailored responses", cfg.APIKeyEnv)
	}
	return c
}

func (c *Client) Enabled() bool {
	return c != nil && c.chat != nil
}

func (c *Client) complete(ctx context.Context, systemPrompt, userPrompt string) string {
	if !c.Enabled() {
		return ""
	}
	out, err := c.chat(ctx, systemPrompt, userPrompt)
	if err != nil {
		log.WithError(err).Warn("llm request failed")
		return ""
	}
	return strings.TrimSpace(out)
}

// stripCodeFence unwraps ```json ... ``` style responses; models add fences
// even when asked for strict JSON.
func stripCodeFence(response string) string {
	if !strings.Contains(response, "```") {
		return strings.TrimSpace(response)
	}

	start := strings.Index(response, "```") + 3
	if i := strings.Index(response, "```json"); i >= 0 {
		start = i + 7
	}
	end := strings.LastIndex(response, "```")
	if end > start {
		return strings.TrimSpace(response[start:end])
	}
	return strings.TrimSpace(response)
}

// truncate cuts s to at most max bytes without splitting a multi-byte rune.
func truncate(s string, max int) string {
	if max <= 0 || len(s) <= max {
		return s
	}
	for max > 0 && !utf8.RuneStart(s[max]) {
		max--
	}
	return s[:max]
}

func jobHeader(job domain.JobPosting) string {
	var b strings.Builder
	b.WriteString("Job Title: " + job.Title + "\n")
	b.WriteString("Company: " + job.Company + "\n")
	b.WriteString("Location: " + job.Location + "\n")
	return b.String()
}
