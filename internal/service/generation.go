package service

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/sashabaranov/go-openai"
)

const (
	defaultGenerationModel = "gpt-4o-mini"
	generationMaxTokens    = 2048
)

// TextGenerator sends a prompt to a text-generation service and returns its raw reply.
type TextGenerator interface {
	Generate(ctx context.Context, apiKey, prompt string) (string, error)
}

// OpenAIGeneratorConfig configures an OpenAI-compatible chat completion endpoint.
type OpenAIGeneratorConfig struct {
	BaseURL  string
	Model    string
	Timeout  time.Duration
	JSONMode bool
}

// OpenAIGenerator implements TextGenerator on top of go-openai. A client is built
// per call because the credential is selected per caller.
type OpenAIGenerator struct {
	cfg        OpenAIGeneratorConfig
	httpClient *http.Client
}

// NewOpenAIGenerator creates a generator for the configured endpoint.
func NewOpenAIGenerator(cfg OpenAIGeneratorConfig) *OpenAIGenerator {
	if strings.TrimSpace(cfg.Model) == "" {
		cfg.Model = defaultGenerationModel
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 60 * time.Second
	}
	return &OpenAIGenerator{
		cfg:        cfg,
		httpClient: &http.Client{Timeout: cfg.Timeout},
	}
}

// Generate performs exactly one chat completion call.
func (g *OpenAIGenerator) Generate(ctx context.Context, apiKey, prompt string) (string, error) {
	clientCfg := openai.DefaultConfig(apiKey)
	if g.cfg.BaseURL != "" {
		clientCfg.BaseURL = strings.TrimRight(g.cfg.BaseURL, "/")
	}
	clientCfg.HTTPClient = g.httpClient
	client := openai.NewClientWithConfig(clientCfg)

	req := openai.ChatCompletionRequest{
		Model: g.cfg.Model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
	}
	if g.cfg.JSONMode {
		req.ResponseFormat = &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		}
	}
	// Reasoning models reject max_tokens.
	if isReasoningModel(g.cfg.Model) {
		req.MaxCompletionTokens = generationMaxTokens
	} else {
		req.MaxTokens = generationMaxTokens
	}

	resp, err := client.CreateChatCompletion(ctx, req)
	if err != nil {
		if isQuotaError(err) {
			return "", fmt.Errorf("create chat completion: %w: %v", ErrQuotaExceeded, err)
		}
		return "", fmt.Errorf("create chat completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", errors.New("create chat completion: empty choices")
	}
	return resp.Choices[0].Message.Content, nil
}

func isReasoningModel(model string) bool {
	for _, prefix := range []string{"o1", "o3", "o4", "gpt-5"} {
		if strings.HasPrefix(model, prefix) {
			return true
		}
	}
	return false
}

func isQuotaError(err error) bool {
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) && apiErr.HTTPStatusCode == http.StatusTooManyRequests {
		return true
	}
	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) && reqErr.HTTPStatusCode == http.StatusTooManyRequests {
		return true
	}
	return false
}

var _ TextGenerator = (*OpenAIGenerator)(nil)
