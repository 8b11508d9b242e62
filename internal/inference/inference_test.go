package inference

import (
	"context"
	"errors"
	"testing"

	"github.com/sashabaranov/go-openai"
)

type fakeChat struct {
	content string
	noReply bool
	err     error
	got     openai.ChatCompletionRequest
}

func (f *fakeChat) CreateChatCompletion(_ context.Context, req openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error) {
	f.got = req
	if f.err != nil {
		return openai.ChatCompletionResponse{}, f.err
	}
	if f.noReply {
		return openai.ChatCompletionResponse{}, nil
	}
	return openai.ChatCompletionResponse{
		Choices: []openai.ChatCompletionChoice{
			{Message: openai.ChatCompletionMessage{Role: openai.ChatMessageRoleAssistant, Content: f.content}},
		},
	}, nil
}

func TestInferAdSpan(t *testing.T) {
	chat := &fakeChat{content: `{"start": "brought to you by Acme", "end": "regular programming"}`}
	c := NewClient(chat, "")

	guess, err := c.InferAdSpan(context.Background(), "today's video is brought to you by Acme back to our regular programming")
	if err != nil {
		t.Fatalf("InferAdSpan() error = %v", err)
	}
	if guess.Start != "brought to you by Acme" || guess.End != "regular programming" {
		t.Errorf("InferAdSpan() = %+v", guess)
	}

	if chat.got.Model != DefaultModel {
		t.Errorf("model = %q, want %q", chat.got.Model, DefaultModel)
	}
	if chat.got.ResponseFormat == nil || chat.got.ResponseFormat.Type != openai.ChatCompletionResponseFormatTypeJSONObject {
		t.Errorf("response format = %+v, want json_object", chat.got.ResponseFormat)
	}
	if len(chat.got.Messages) != 2 || chat.got.Messages[1].Content == "" {
		t.Errorf("messages = %+v", chat.got.Messages)
	}
}

func TestInferAdSpanErrors(t *testing.T) {
	tests := []struct {
		name string
		chat *fakeChat
		want error
	}{
		{name: "call fails", chat: &fakeChat{err: errors.New("429 rate limited")}, want: ErrUnavailable},
		{name: "no choices", chat: &fakeChat{noReply: true}, want: ErrUnavailable},
		{name: "empty content", chat: &fakeChat{content: "  "}, want: ErrUnavailable},
		{name: "not json", chat: &fakeChat{content: "The ad starts at sponsored by"}, want: ErrUnparsable},
		{name: "missing end", chat: &fakeChat{content: `{"start": "sponsored by"}`}, want: ErrUnparsable},
		{name: "wrong types", chat: &fakeChat{content: `{"start": 1, "end": 2}`}, want: ErrUnparsable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewClient(tt.chat, "gpt-4o").InferAdSpan(context.Background(), "text")
			if !errors.Is(err, tt.want) {
				t.Errorf("InferAdSpan() error = %v, want %v", err, tt.want)
			}
		})
	}
}
