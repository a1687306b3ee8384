// Package ai wraps the completion service used for report generation and the
// chat endpoint. It is a thin synchronous pass-through: no retry, no
// streaming, no timeout handling beyond what the caller's context provides.
package ai

import (
	"context"
	"errors"
	"strings"

	openai "github.com/sashabaranov/go-openai"
)

// ErrNotConfigured is returned when no API key was provided; handlers map it
// to a 503 with guidance.
var ErrNotConfigured = errors.New("ai: api key not configured")

// ErrEmptyCompletion is returned when the service responds without any
// usable choice.
var ErrEmptyCompletion = errors.New("ai: empty completion")

// Client is a minimal completion client. A zero-value Client (no API key)
// returns ErrNotConfigured from every call.
type Client struct {
	api   *openai.Client
	model string
}

// New constructs a Client for the given API key and model. An empty key
// yields a disabled client rather than an error so wiring stays simple.
func New(apiKey, model string) *Client {
	c := &Client{model: model}
	if strings.TrimSpace(apiKey) != "" {
		c.api = openai.NewClient(apiKey)
	}
	return c
}

// Configured reports whether the client can reach the completion service.
func (c *Client) Configured() bool { return c != nil && c.api != nil }

// Complete sends a system preamble plus user content and returns the first
// choice's text.
func (c *Client) Complete(ctx context.Context, system, user string) (string, error) {
	if !c.Configured() {
		return "", ErrNotConfigured
	}
	resp, err := c.api.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: c.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: system},
			{Role: openai.ChatMessageRoleUser, Content: user},
		},
	})
	if err != nil {
		return "", err
	}
	if len(resp.Choices) == 0 {
		return "", ErrEmptyCompletion
	}
	return resp.Choices[0].Message.Content, nil
}

// CompleteVision sends a text prompt alongside an image URL to a
// vision-capable model and returns the first choice's text.
func (c *Client) CompleteVision(ctx context.Context, prompt, imageURL string) (string, error) {
	if !c.Configured() {
		return "", ErrNotConfigured
	}
	resp, err := c.api.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: c.model,
		Messages: []openai.ChatCompletionMessage{
			{
				Role: openai.ChatMessageRoleUser,
				MultiContent: []openai.ChatMessagePart{
					{Type: openai.ChatMessagePartTypeText, Text: prompt},
					{
						Type:     openai.ChatMessagePartTypeImageURL,
						ImageURL: &openai.ChatMessageImageURL{URL: imageURL},
					},
				},
			},
		},
	})
	if err != nil {
		return "", err
	}
	if len(resp.Choices) == 0 {
		return "", ErrEmptyCompletion
	}
	return resp.Choices[0].Message.Content, nil
}
