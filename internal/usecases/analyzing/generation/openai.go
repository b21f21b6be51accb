package generation

import (
	"context"

	openai "github.com/sashabaranov/go-openai"
	"github.com/ziaflow/marketing-lens/internal/config"
	"github.com/ziaflow/marketing-lens/pkg/log"
)

// completionTemperature is kept low so two runs over the same metrics produce
// near-identical findings.
const completionTemperature = 0.2

type openAIGenerator struct {
	client *openai.Client
	model  string
}

// NewOpenAI builds the LLM backend against a configurable endpoint, so the
// same code serves both the public API and gateway deployments.
func NewOpenAI(cfg config.OpenAI) Generator {
	clientConfig := openai.DefaultConfig(cfg.APIKey)
	clientConfig.BaseURL = cfg.Endpoint

	return &openAIGenerator{
		client: openai.NewClientWithConfig(clientConfig),
		model:  cfg.Model,
	}
}

func (g *openAIGenerator) Generate(ctx context.Context, req Request) (string, error) {
	resp, err := g.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       g.model,
		Temperature: completionTemperature,
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		},
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: req.Instructions},
			{Role: openai.ChatMessageRoleUser, Content: req.Payload},
		},
	})
	if err != nil {
		return "", err
	}

	if len(resp.Choices) == 0 {
		log.ForContext(ctx).WithField("model", g.model).Warn("generation: completion returned no choices")
		return "", errEmptyCompletion
	}

	return resp.Choices[0].Message.Content, nil
}
