package summarizer

import (
	"context"
	"fmt"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"

	"github.com/docudetect/docu-detect/internal/config"
)

const summaryPrompt = "Summarize the following document in a single short paragraph. " +
	"Respond with the summary only, no preamble."

// A long document gets clipped before being sent to the model. Roughly fits
// the context window and keeps request cost bounded.
const maxModelInputChars = 60000

type claudeModel struct {
	client    *anthropic.Client
	model     string
	maxTokens int
}

func newClaudeModel(cfg config.SummarizerConfig) (*claudeModel, error) {
	if cfg.APIKey == "" {
		return nil, errNoAPIKey
	}

	model := cfg.Model
	if model == "" {
		model = "claude-sonnet-4-20250514"
	}
	maxTokens := cfg.MaxTokens
	if maxTokens <= 0 {
		maxTokens = 1024
	}

	client := anthropic.NewClient(option.WithAPIKey(cfg.APIKey))

	return &claudeModel{
		client:    &client,
		model:     model,
		maxTokens: maxTokens,
	}, nil
}

func (m *claudeModel) Complete(ctx context.Context, text string) (string, error) {
	if len(text) > maxModelInputChars {
		text = text[:maxModelInputChars]
	}

	params := anthropic.MessageNewParams{
		Model:     anthropic.Model(m.model),
		MaxTokens: int64(m.maxTokens),
		System: []anthropic.TextBlockParam{
			{Text: summaryPrompt},
		},
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(text)),
		},
	}

	resp, err := m.client.Messages.New(ctx, params)
	if err != nil {
		return "", fmt.Errorf("model call failed: %w", err)
	}

	var out strings.Builder
	for _, block := range resp.Content {
		if block.Type == "text" {
			out.WriteString(block.Text)
		}
	}
	if out.Len() == 0 {
		return "", fmt.Errorf("model returned no text")
	}
	return out.String(), nil
}
