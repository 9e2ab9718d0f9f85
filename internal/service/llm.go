package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"github.com/pageza/alchemorsel-recipes/backend/config"
	"go.uber.org/zap"
)

// Prompt is a system/user message pair
type Prompt struct {
	System string
	User   string
}

// Completion is the text returned by the model plus accounting
type Completion struct {
	Content          string
	Model            string
	PromptTokens     int64
	CompletionTokens int64
}

// ErrEmptyCompletion is returned when the model sends no choices
var ErrEmptyCompletion = errors.New("no choices in completion")

// LLMService talks to an OpenAI-compatible chat-completion API such as DeepSeek
type LLMService struct {
	client      openai.Client
	model       string
	temperature float64
	logger      *zap.Logger
}

// NewLLMService builds the client from configuration. Retries stay at the
// configured count (zero by default) so a slow model is not called twice.
func NewLLMService(cfg *config.Config, logger *zap.Logger) (*LLMService, error) {
	if cfg.LLMAPIKey == "" {
		return nil, fmt.Errorf("LLM API key must be set")
	}

	opts := []option.RequestOption{
		option.WithAPIKey(cfg.LLMAPIKey),
		option.WithMaxRetries(cfg.LLMMaxRetries),
	}
	if cfg.LLMBaseURL != "" {
		opts = append(opts, option.WithBaseURL(cfg.LLMBaseURL))
	}
	if cfg.LLMTimeout > 0 {
		opts = append(opts, option.WithRequestTimeout(cfg.LLMTimeout))
	}

	return &LLMService{
		client:      openai.NewClient(opts...),
		model:       cfg.LLMModel,
		temperature: cfg.LLMTemperature,
		logger:      logger,
	}, nil
}

// Complete sends prompt and returns the first choice's content. The model is
// asked for a JSON object.
func (s *LLMService) Complete(ctx context.Context, prompt Prompt) (*Completion, error) {
	params := openai.ChatCompletionNewParams{
		Model: s.model,
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(prompt.System),
			openai.UserMessage(prompt.User),
		},
		Temperature: openai.Float(s.temperature),
		ResponseFormat: openai.ChatCompletionNewParamsResponseFormatUnion{
			OfJSONObject: &openai.ResponseFormatJSONObjectParam{},
		},
	}

	start := time.Now()
	resp, err := s.client.Chat.Completions.New(ctx, params)
	if err != nil {
		fields := []zap.Field{zap.String("model", s.model), zap.Duration("duration", time.Since(start)), zap.Error(err)}
		var apiErr *openai.Error
		if errors.As(err, &apiErr) {
			fields = append(fields, zap.Int("status_code", apiErr.StatusCode))
		}
		s.logger.Error("LLM request failed", fields...)
		return nil, fmt.Errorf("chat completion: %w", err)
	}

	s.logger.Info("LLM request completed",
		zap.String("model", resp.Model),
		zap.Duration("duration", time.Since(start)),
		zap.Int64("prompt_tokens", resp.Usage.PromptTokens),
		zap.Int64("completion_tokens", resp.Usage.CompletionTokens),
	)

	if len(resp.Choices) == 0 {
		return nil, ErrEmptyCompletion
	}

	model := resp.Model
	if model == "" {
		model = s.model
	}
	return &Completion{
		Content:          resp.Choices[0].Message.Content,
		Model:            model,
		PromptTokens:     resp.Usage.PromptTokens,
		CompletionTokens: resp.Usage.CompletionTokens,
	}, nil
}

// Model returns the configured model name
func (s *LLMService) Model() string {
	return s.model
}
