package services

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"digitaltalent/career-wizard/internal/models"
)

const gapPlaceholder = "Skill Gap Analysis requires detailed comparison."

// MatchResult mirrors the match service body: either recommendations or an error.
type MatchResult struct {
	Recommendations []models.OccupationCandidate `json:"recommendations"`
	Error           string                       `json:"error,omitempty"`
}

type matchRequest struct {
	Text string `json:"text"`
	TopK int    `json:"top_k"`
}

// Matcher ranks occupations against CV text. A service-reported failure is
// returned in MatchResult.Error; a transport failure is returned as error.
type Matcher interface {
	Match(ctx context.Context, text string, topK int) (*MatchResult, error)
}

type remoteMatcher struct {
	backend *backendClient
}

// NewRemoteMatcher calls the match service at baseURL/api/match-profile.
func NewRemoteMatcher(baseURL string, client *http.Client) Matcher {
	return &remoteMatcher{backend: newBackendClient(baseURL, client)}
}

// Match implements Matcher.
func (m *remoteMatcher) Match(ctx context.Context, text string, topK int) (*MatchResult, error) {
	status, body, err := m.backend.postJSON(ctx, "/api/match-profile", matchRequest{Text: text, TopK: topK})
	if err != nil {
		return nil, err
	}

	var result MatchResult
	if err := json.Unmarshal(body, &result); err != nil {
		if !isSuccess(status) {
			return nil, &StatusError{Endpoint: "match-profile", StatusCode: status, Body: truncateBody(body)}
		}
		return nil, fmt.Errorf("malformed match-profile response: %w", err)
	}

	if result.Error == "" && !isSuccess(status) {
		return nil, &StatusError{Endpoint: "match-profile", StatusCode: status, Body: truncateBody(body)}
	}

	return &result, nil
}

type vectorMatcher struct {
	gemini GeminiService
	index  OccupationIndex
}

// NewVectorMatcher embeds the CV with Gemini and ranks occupations in Qdrant.
func NewVectorMatcher(gemini GeminiService, index OccupationIndex) Matcher {
	return &vectorMatcher{gemini: gemini, index: index}
}

// Match implements Matcher.
func (m *vectorMatcher) Match(ctx context.Context, text string, topK int) (*MatchResult, error) {
	embedding, err := m.gemini.GenerateEmbedding(ctx, text, TaskRetrievalQuery)
	if err != nil {
		return &MatchResult{Error: fmt.Sprintf("Embedding error: %v", err)}, nil
	}

	candidates, err := m.index.SearchOccupations(ctx, embedding, topK)
	if err != nil {
		return &MatchResult{Error: fmt.Sprintf("Occupation search error: %v", err)}, nil
	}

	return &MatchResult{Recommendations: candidates}, nil
}
