package openai

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	openaisdk "github.com/openai/openai-go"
	"github.com/openai/openai-go/option"

	"resume-builder/internal/shared/telemetry"
	"resume-builder/internal/suggest"
)

var baseURL = "https://api.openai.com/v1/"

const systemPrompt = "You rewrite resume sections. Respond with a single JSON object whose keys are the section names you were given and whose values are strings."

// Client implements suggest.Client using OpenAI Chat Completions.
type Client struct {
	model string
	api   *openaisdk.Client
}

// NewClient constructs a new OpenAI client.
func NewClient(apiKey, model string) (*Client, error) {
	if strings.TrimSpace(model) == "" {
		return nil, fmt.Errorf("LLM_MODEL is required for OpenAI")
	}
	if strings.TrimSpace(apiKey) == "" {
		return nil, fmt.Errorf("OPENAI_API_KEY is required")
	}
	timeout := 120 * time.Second
	if raw := strings.TrimSpace(os.Getenv("OPENAI_TIMEOUT_SECONDS")); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil && parsed > 0 {
			timeout = time.Duration(parsed) * time.Second
		}
	}
	return &Client{
		model: model,
		api: openaisdk.NewClient(
			option.WithBaseURL(baseURL),
			option.WithAPIKey(apiKey),
			option.WithRequestTimeout(timeout),
			option.WithMaxRetries(0),
		),
	}, nil
}

// Suggest sends the section prompt and decodes the returned object. A reply
// that is not an object of strings is retried once with a repair prompt.
func (c *Client) Suggest(ctx context.Context, req suggest.Request) (map[string]string, error) {
	prompt := suggest.BuildPrompt(req)
	messages := []openaisdk.ChatCompletionMessageParamUnion{
		openaisdk.SystemMessage(systemPrompt),
		openaisdk.UserMessage(prompt),
	}
	content, err := c.complete(ctx, prompt, messages)
	if err != nil {
		return nil, err
	}

	out, decodeErr := decodeSuggestions(content)
	if decodeErr == nil {
		return out, nil
	}

	messages = append(messages,
		openaisdk.AssistantMessage(content),
		openaisdk.UserMessage(fixPrompt),
	)
	content, err = c.complete(ctx, prompt, messages)
	if err != nil {
		return nil, err
	}
	out, decodeErr = decodeSuggestions(content)
	if decodeErr != nil {
		return nil, fmt.Errorf("invalid JSON from OpenAI: %w", decodeErr)
	}
	return out, nil
}

const fixPrompt = "Your previous reply was not a JSON object mapping section names to strings. Reply again with only that object."

func decodeSuggestions(content string) (map[string]string, error) {
	var out map[string]string
	if err := json.Unmarshal([]byte(content), &out); err != nil {
		return nil, err
	}
	if out == nil {
		return nil, errors.New("null object")
	}
	return out, nil
}

func (c *Client) complete(ctx context.Context, prompt string, messages []openaisdk.ChatCompletionMessageParamUnion) (string, error) {
	params := openaisdk.ChatCompletionNewParams{
		Model:    openaisdk.F(c.model),
		Messages: openaisdk.F(messages),
		ResponseFormat: openaisdk.F[openaisdk.ChatCompletionNewParamsResponseFormatUnion](
			openaisdk.ResponseFormatJSONObjectParam{
				Type: openaisdk.F(openaisdk.ResponseFormatJSONObjectTypeJSONObject),
			},
		),
	}
	if !isGPT5(c.model) {
		params.Temperature = openaisdk.F(0.2)
	}

	completion, err := c.api.Chat.Completions.New(ctx, params)
	if err != nil {
		var apiErr *openaisdk.Error
		if errors.As(err, &apiErr) {
			return "", fmt.Errorf("openai http status %d: %w", apiErr.StatusCode, err)
		}
		if errors.Is(err, context.DeadlineExceeded) {
			return "", fmt.Errorf("openai request timeout: %w", err)
		}
		return "", err
	}
	c.logUsage(prompt, completion.Usage)

	if len(completion.Choices) == 0 {
		return "", fmt.Errorf("openai response missing choices")
	}
	content := strings.TrimSpace(completion.Choices[0].Message.Content)
	if content == "" {
		return "", fmt.Errorf("openai response empty content")
	}
	return content, nil
}

func (c *Client) logUsage(prompt string, usage openaisdk.CompletionUsage) {
	telemetry.Info("llm.response", map[string]any{
		"model":             c.model,
		"prompt_hash":       hashPrompt(prompt),
		"prompt_tokens":     usage.PromptTokens,
		"completion_tokens": usage.CompletionTokens,
		"total_tokens":      usage.TotalTokens,
	})
}

func isGPT5(model string) bool {
	return strings.HasPrefix(strings.ToLower(strings.TrimSpace(model)), "gpt-5")
}

func hashPrompt(prompt string) string {
	sum := sha256.Sum256([]byte(prompt))
	return hex.EncodeToString(sum[:])
}
