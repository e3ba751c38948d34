package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"

	"digitaltalent/career-wizard/internal/models"
)

// ErrEmptyReply means the chat service answered without a response text.
var ErrEmptyReply = errors.New("chat service returned no response")

// ChatClient sends one user message with the conversation so far.
type ChatClient interface {
	Chat(ctx context.Context, message string, history []models.ChatMessage) (string, error)
}

type chatRequest struct {
	Message string               `json:"message"`
	History []models.ChatMessage `json:"history"`
}

type chatResponse struct {
	Response string `json:"response"`
	Error    string `json:"error,omitempty"`
}

type remoteChat struct {
	backend *backendClient
}

// NewRemoteChat calls the chat service at baseURL/api/chat.
func NewRemoteChat(baseURL string, client *http.Client) ChatClient {
	return &remoteChat{backend: newBackendClient(baseURL, client)}
}

// Chat implements ChatClient. Any decodable body without a response maps to
// ErrEmptyReply, whatever the status code.
func (c *remoteChat) Chat(ctx context.Context, message string, history []models.ChatMessage) (string, error) {
	if history == nil {
		history = []models.ChatMessage{}
	}

	status, body, err := c.backend.postJSON(ctx, "/api/chat", chatRequest{Message: message, History: history})
	if err != nil {
		return "", err
	}

	var resp chatResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return "", fmt.Errorf("malformed chat response (status %d): %w", status, err)
	}

	if resp.Response == "" {
		if resp.Error != "" {
			log.Printf("⚠️  Chat service error: %s\n", resp.Error)
		}
		return "", ErrEmptyReply
	}

	return resp.Response, nil
}

type geminiChat struct {
	gemini GeminiService
}

// NewGeminiChat talks to Gemini directly.
func NewGeminiChat(gemini GeminiService) ChatClient {
	return &geminiChat{gemini: gemini}
}

// Chat implements ChatClient.
func (c *geminiChat) Chat(ctx context.Context, message string, history []models.ChatMessage) (string, error) {
	return c.gemini.Chat(ctx, message, history)
}
