package ai

import (
	"context"
	"fmt"

	openai "github.com/sashabaranov/go-openai"

	"github.com/Michael-Yan-wun/google-calendar-tool/internal/domain"
	"github.com/Michael-Yan-wun/google-calendar-tool/internal/ports"
)

// openaiProvider covers the OpenAI API and any gateway speaking its
// chat-completions dialect, selected by pointing the model endpoint at it.
type openaiProvider struct {
	model  domain.ModelDefinition
	client *openai.Client
}

func newOpenAIProvider(model domain.ModelDefinition) (ports.LanguageProvider, error) {
	apiKey := resolveAuth(model.AuthEnvVar, "OPENAI_API_KEY")
	if apiKey == "" {
		return nil, fmt.Errorf("missing API key: set %s or OPENAI_API_KEY", model.AuthEnvVar)
	}

	config := openai.DefaultConfig(apiKey)
	if model.Endpoint != "" {
		config.BaseURL = model.Endpoint
	}

	return &openaiProvider{
		model:  model,
		client: openai.NewClientWithConfig(config),
	}, nil
}

func (p *openaiProvider) Name() string {
	return "openai"
}

func (p *openaiProvider) Model() domain.ModelDefinition {
	return p.model
}

func (p *openaiProvider) Complete(ctx context.Context, prompt string) (string, error) {
	request := openai.ChatCompletionRequest{
		Model: p.model.ModelID,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
	}
	if p.model.MaxTokens > 0 {
		request.MaxTokens = p.model.MaxTokens
	}

	resp, err := p.client.CreateChatCompletion(ctx, request)
	if err != nil {
		return "", err
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("openai: empty response")
	}
	return resp.Choices[0].Message.Content, nil
}
