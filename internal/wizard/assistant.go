package wizard

import (
	"context"
	"errors"
	"log"
	"strings"
	"sync"

	"digitaltalent/career-wizard/internal/models"
	"digitaltalent/career-wizard/internal/repositories"
	"digitaltalent/career-wizard/internal/services"
)

type AssistantView struct {
	Messages []models.ChatMessage        `json:"messages"`
	Target   *models.OccupationCandidate `json:"target,omitempty"`
	Busy     bool                        `json:"busy"`
}

// Assistant is the chat step of one session. Messages live only in memory.
type Assistant struct {
	token    string
	chat     services.ChatClient
	profiles repositories.ProfileRepository

	mu         sync.Mutex
	messages   []models.ChatMessage
	busy       bool
	generation uint64
}

func NewAssistant(token string, chat services.ChatClient, profiles repositories.ProfileRepository) *Assistant {
	a := &Assistant{token: token, chat: chat, profiles: profiles}
	a.reset()
	return a
}

// Send appends the user turn, asks the chat service and appends exactly one
// model turn, a fallback text if the call failed. Only one send may be
// outstanding at a time, across resets. A reply that arrives after Reset is
// dropped.
func (a *Assistant) Send(ctx context.Context, text string) ([]models.ChatMessage, error) {
	if strings.TrimSpace(text) == "" {
		return nil, ErrEmptyMessage
	}

	a.mu.Lock()
	if a.busy {
		a.mu.Unlock()
		return nil, ErrBusy
	}
	a.busy = true
	gen := a.generation
	history := append([]models.ChatMessage(nil), a.messages...)
	a.messages = append(a.messages, models.ChatMessage{Role: models.RoleUser, Content: text})
	a.mu.Unlock()

	reply, err := a.chat.Chat(ctx, text, history)
	switch {
	case errors.Is(err, services.ErrEmptyReply):
		reply = MsgReplyMissing
	case err != nil:
		log.Printf("❌ Chat request failed for session %s: %v\n", a.token, err)
		reply = MsgChatOffline
	}

	a.mu.Lock()
	defer a.mu.Unlock()
	a.busy = false
	if a.generation != gen {
		log.Printf("⏭️  Dropping chat reply from before reset for session %s\n", a.token)
		return append([]models.ChatMessage(nil), a.messages...), nil
	}
	a.messages = append(a.messages, models.ChatMessage{Role: models.RoleModel, Content: reply})

	return append([]models.ChatMessage(nil), a.messages...), nil
}

// View returns the conversation and the selected occupation, if any.
func (a *Assistant) View(ctx context.Context) (AssistantView, error) {
	a.mu.Lock()
	view := AssistantView{
		Messages: append([]models.ChatMessage(nil), a.messages...),
		Busy:     a.busy,
	}
	a.mu.Unlock()

	target, err := a.profiles.LoadSelection(ctx, a.token)
	switch {
	case err == nil:
		view.Target = target
	case !errors.Is(err, repositories.ErrNotFound):
		return view, err
	}

	return view, nil
}

// Reset drops the conversation back to the greeting. A send still in flight
// keeps the step busy until it returns.
func (a *Assistant) Reset() {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.generation++
	a.reset()
}

func (a *Assistant) reset() {
	a.messages = []models.ChatMessage{{Role: models.RoleModel, Content: MsgGreeting}}
}
