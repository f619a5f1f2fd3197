package ai

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"daybrief/internal/model"

	openai "github.com/sashabaranov/go-openai"
)

// Summarizer writes a short digest summary for a set of articles.
type Summarizer interface {
	SummarizeDigest(ctx context.Context, kind model.ReportType, articles []model.Article, language string) (string, error)
}

// OpenAIClient implements Summarizer using the OpenAI Chat Completions API.
type OpenAIClient struct {
	client *openai.Client
	model  string
}

type Config struct {
	APIKey  string
	Model   string
	BaseURL string // optional, for compatible gateways
}

// NewOpenAI returns nil when no API key is configured.
func NewOpenAI(cfg Config) (*OpenAIClient, error) {
	if strings.TrimSpace(cfg.APIKey) == "" {
		return nil, nil
	}
	if cfg.Model == "" {
		return nil, errors.New("openai: model must be specified")
	}
	cc := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		cc.BaseURL = cfg.BaseURL
	}
	return &OpenAIClient{client: openai.NewClientWithConfig(cc), model: cfg.Model}, nil
}

func (o *OpenAIClient) SummarizeDigest(ctx context.Context, kind model.ReportType, articles []model.Article, language string) (string, error) {
	if len(articles) == 0 {
		return "", nil
	}
	ctx, cancel := context.WithTimeout(ctx, 120*time.Second)
	defer cancel()

	b := &strings.Builder{}
	for i, a := range articles {
		if i >= 15 {
			break
		}
		fmt.Fprintf(b, "- %s (%s, %s)\n", a.Title, a.Source, a.Category)
	}
	sys := fmt.Sprintf(`
		You write the %s news briefing. Write in %s, 3 to 5 sentences, plain text, no links.
		Connect related stories and keep the tone calm and factual.
		`, kind, langOrDefault(language))
	user := fmt.Sprintf("Today's stories (title, source, category):\n%s\nTask: summarize what matters most today.", b.String())
	resp, err := o.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: o.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: sys},
			{Role: openai.ChatMessageRoleUser, Content: user},
		},
		Temperature: 0.4,
	})
	if err != nil {
		slog.Error("openai: summarize digest error", "err", err)
		return "", err
	}
	if len(resp.Choices) == 0 {
		return "", nil
	}
	return strings.TrimSpace(resp.Choices[0].Message.Content), nil
}

func langOrDefault(lang string) string {
	l := strings.TrimSpace(lang)
	if l == "" {
		return "English"
	}
	return l
}
