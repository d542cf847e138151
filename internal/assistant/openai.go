package assistant

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/sashabaranov/go-openai"
	"go.uber.org/zap"
)

const systemPrompt = `You are the assistant coach of a %s team. Answer the coach's message using the team context.
Reply in %s.

Team context: %s
Premium user: %t

Return the response as a JSON object with this structure:
{
    "content": "your answer",
    "confidence": 0-100,
    "suggestions": ["short follow-up action", ...],
    "followUpQuestions": ["question", ...]
}`

type OpenAIConfig struct {
	APIKey      string
	BaseURL     string
	Model       string
	MaxTokens   int
	Temperature float64
}

type OpenAIService struct {
	client      *openai.Client
	model       string
	maxTokens   int
	temperature float64
	logger      *zap.Logger
}

func NewOpenAIService(cfg OpenAIConfig, logger *zap.Logger) *OpenAIService {
	clientCfg := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientCfg.BaseURL = cfg.BaseURL
	}
	return &OpenAIService{
		client:      openai.NewClientWithConfig(clientCfg),
		model:       cfg.Model,
		maxTokens:   cfg.MaxTokens,
		temperature: cfg.Temperature,
		logger:      logger,
	}
}

func (s *OpenAIService) Respond(ctx context.Context, req Request) (*Reply, error) {
	language := req.Context.Language
	if language == "" {
		language = "English"
	}
	prompt := fmt.Sprintf(systemPrompt,
		req.Context.Sport, language, req.Context.TeamSnapshotSummary, req.Context.IsPremiumUser)

	resp, err := s.client.CreateChatCompletion(
		ctx,
		openai.ChatCompletionRequest{
			Model: s.model,
			Messages: []openai.ChatCompletionMessage{
				{
					Role:    openai.ChatMessageRoleSystem,
					Content: prompt,
				},
				{
					Role:    openai.ChatMessageRoleUser,
					Content: req.Message,
				},
			},
			MaxTokens:   s.maxTokens,
			Temperature: float32(s.temperature),
		},
	)
	if err != nil {
		return nil, fmt.Errorf("chat completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return nil, ErrEmptyReply
	}

	var reply Reply
	raw := strings.TrimSpace(resp.Choices[0].Message.Content)
	raw = strings.TrimSuffix(strings.TrimPrefix(raw, "```json"), "```")
	if err := json.Unmarshal([]byte(strings.TrimSpace(raw)), &reply); err != nil {
		s.logger.Error("Failed to parse GPT response",
			zap.Error(err),
			zap.String("response", raw))
		return nil, fmt.Errorf("parse reply: %w", err)
	}
	if strings.TrimSpace(reply.Content) == "" {
		return nil, ErrEmptyReply
	}
	if reply.Confidence < 0 {
		reply.Confidence = 0
	}
	if reply.Confidence > 100 {
		reply.Confidence = 100
	}

	return &reply, nil
}
