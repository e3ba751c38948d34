package models

type SessionResponse struct {
	Token string `json:"token"`
	Step  string `json:"step"`
}

type ProfileRequest struct {
	Name   string `json:"name"`
	CVText string `json:"cv_text"`
}

type StepResponse struct {
	Next string `json:"next"`
}

type SelectRequest struct {
	ID string `json:"id"`
}

type CopyRequest struct {
	Site string `json:"site"`
}

type MessageRequest struct {
	Message string `json:"message"`
}

type MessagesResponse struct {
	Messages []ChatMessage `json:"messages"`
}
