package services

import (
	"context"
	"fmt"
	"log"
	"unicode/utf8"

	"google.golang.org/genai"

	"digitaltalent/career-wizard/internal/models"
)

// Embedding task types understood by the Gemini embedding model.
const (
	TaskRetrievalQuery    = "RETRIEVAL_QUERY"
	TaskRetrievalDocument = "RETRIEVAL_DOCUMENT"
)

type GeminiService interface {
	GenerateEmbedding(ctx context.Context, text string, taskType string) ([]float32, error)
	Chat(ctx context.Context, message string, history []models.ChatMessage) (string, error)
}

type geminiService struct {
	client     *genai.Client
	modelName  string
	embedModel string
}

func NewGeminiService(ctx context.Context, apiKey, chatModel, embedModel string) (GeminiService, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create gemini client: %w", err)
	}

	return &geminiService{
		client:     client,
		modelName:  chatModel,
		embedModel: embedModel,
	}, nil
}

// GenerateEmbedding implements GeminiService.
func (g *geminiService) GenerateEmbedding(ctx context.Context, text string, taskType string) ([]float32, error) {
	text = truncateUTF8(text, maxEmbedBytes)

	result, err := g.client.Models.EmbedContent(ctx, g.embedModel, genai.Text(text), &genai.EmbedContentConfig{
		TaskType: taskType,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to generate embedding: %w", err)
	}

	if result == nil || len(result.Embeddings) == 0 {
		return nil, fmt.Errorf("empty embedding result")
	}

	return result.Embeddings[0].Values, nil
}

// Chat implements GeminiService. The history is replayed into a fresh chat
// session and message is sent as the next user turn.
func (g *geminiService) Chat(ctx context.Context, message string, history []models.ChatMessage) (string, error) {
	chat, err := g.client.Chats.Create(ctx, g.modelName, &genai.GenerateContentConfig{
		SystemInstruction: genai.NewContentFromText(assistantInstruction, genai.RoleUser),
	}, toGeminiHistory(history))
	if err != nil {
		return "", fmt.Errorf("failed to create chat: %w", err)
	}

	resp, err := chat.SendMessage(ctx, genai.Part{Text: message})
	if err != nil {
		log.Printf("❌ Gemini chat error: %v\n", err)
		return "", fmt.Errorf("failed to send chat message: %w", err)
	}

	if resp == nil {
		return "", ErrEmptyReply
	}

	text := resp.Text()
	if text == "" {
		return "", ErrEmptyReply
	}

	return text, nil
}

// toGeminiHistory maps wizard messages to chat contents. Gemini expects the
// conversation to open with a user turn, so leading model turns (the greeting)
// are dropped.
func toGeminiHistory(history []models.ChatMessage) []*genai.Content {
	contents := make([]*genai.Content, 0, len(history))
	for _, msg := range history {
		role := genai.Role(genai.RoleModel)
		if msg.Role == models.RoleUser {
			role = genai.RoleUser
		}
		if len(contents) == 0 && role != genai.RoleUser {
			continue
		}
		contents = append(contents, genai.NewContentFromText(msg.Content, role))
	}
	return contents
}

// maxEmbedBytes keeps embedding input near the model's ~10000 token limit.
const maxEmbedBytes = 40000

// truncateUTF8 cuts s to at most n bytes without splitting a rune.
func truncateUTF8(s string, n int) string {
	if len(s) <= n {
		return s
	}
	for n > 0 && !utf8.RuneStart(s[n]) {
		n--
	}
	return s[:n]
}
