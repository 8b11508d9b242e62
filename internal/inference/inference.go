package inference

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/sashabaranov/go-openai"
	"jamesfarrell.me/ad-skipper/internal/models"
)

const (
	DefaultModel = "gpt-4-1106-preview"

	systemPrompt = "You output the beginning and end of the ad (15 words each) from the following youtube video in JSON with start and end fields. There should be no non-ad related content in the middle. Usually starts with todays video is sponsored by..."
)

var (
	// ErrUnavailable means the model call failed or returned no content.
	ErrUnavailable = errors.New("inference unavailable")
	// ErrUnparsable means the model answered with something other than a start/end JSON object.
	ErrUnparsable = errors.New("inference response unparsable")
)

// ChatClient is the subset of *openai.Client used here.
type ChatClient interface {
	CreateChatCompletion(ctx context.Context, req openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error)
}

type Client struct {
	chat  ChatClient
	model string
}

func NewClient(chat ChatClient, model string) *Client {
	if model == "" {
		model = DefaultModel
	}
	return &Client{chat: chat, model: model}
}

// NewOpenAIClient builds an OpenAI chat client. baseURL may be empty.
func NewOpenAIClient(apiKey, baseURL string) *openai.Client {
	cfg := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		cfg.BaseURL = baseURL
	}
	return openai.NewClientWithConfig(cfg)
}

// InferAdSpan asks the model for the wording at the start and end of the ad in text.
func (c *Client) InferAdSpan(ctx context.Context, text string) (models.AdSpanGuess, error) {
	resp, err := c.chat.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: c.model,
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		},
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: systemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: text},
		},
	})
	if err != nil {
		return models.AdSpanGuess{}, fmt.Errorf("%w: chat completion failed: %v", ErrUnavailable, err)
	}
	if len(resp.Choices) == 0 {
		return models.AdSpanGuess{}, fmt.Errorf("%w: no choices returned", ErrUnavailable)
	}

	content := strings.TrimSpace(resp.Choices[0].Message.Content)
	if content == "" {
		return models.AdSpanGuess{}, fmt.Errorf("%w: empty content", ErrUnavailable)
	}
	return ParseGuess(content)
}

// ParseGuess decodes a {"start": ..., "end": ...} object.
func ParseGuess(content string) (models.AdSpanGuess, error) {
	var guess models.AdSpanGuess
	if err := json.Unmarshal([]byte(content), &guess); err != nil {
		return models.AdSpanGuess{}, fmt.Errorf("%w: %v", ErrUnparsable, err)
	}
	if guess.Start == "" || guess.End == "" {
		return models.AdSpanGuess{}, fmt.Errorf("%w: missing start or end", ErrUnparsable)
	}
	return guess, nil
}
