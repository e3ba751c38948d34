package services

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"mime/multipart"
	"net/http"
	"strings"
)

// ErrNoText is returned when a CV yields no readable text.
var ErrNoText = errors.New("no text content found in CV")

var ErrUnsupportedFormat = errors.New("unsupported CV format, use .pdf, .docx or .txt")

// CVParser turns an uploaded CV into plain text.
type CVParser interface {
	Parse(ctx context.Context, filename string, data []byte) (string, error)
}

type parseResponse struct {
	Text  string `json:"text"`
	Error string `json:"error,omitempty"`
}

type remoteParser struct {
	backend *backendClient
}

// NewRemoteParser calls the CV parse service at baseURL/api/parse-cv.
func NewRemoteParser(baseURL string, client *http.Client) CVParser {
	return &remoteParser{backend: newBackendClient(baseURL, client)}
}

// Parse implements CVParser.
func (p *remoteParser) Parse(ctx context.Context, filename string, data []byte) (string, error) {
	var body bytes.Buffer
	writer := multipart.NewWriter(&body)

	part, err := writer.CreateFormFile("file", filename)
	if err != nil {
		return "", fmt.Errorf("failed to create form file: %w", err)
	}
	if _, err := part.Write(data); err != nil {
		return "", fmt.Errorf("failed to write form file: %w", err)
	}
	if err := writer.Close(); err != nil {
		return "", fmt.Errorf("failed to close multipart writer: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.backend.baseURL+"/api/parse-cv", &body)
	if err != nil {
		return "", fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())
	req.Header.Set("Accept", "application/json")

	status, respBody, err := p.backend.do(req)
	if err != nil {
		return "", err
	}
	if !isSuccess(status) {
		return "", &StatusError{Endpoint: "parse-cv", StatusCode: status, Body: truncateBody(respBody)}
	}

	var resp parseResponse
	if err := json.Unmarshal(respBody, &resp); err != nil {
		return "", fmt.Errorf("malformed parse-cv response: %w", err)
	}
	if resp.Error != "" {
		return "", fmt.Errorf("parse-cv failed: %s", resp.Error)
	}
	if strings.TrimSpace(resp.Text) == "" {
		return "", ErrNoText
	}

	return resp.Text, nil
}

type localParser struct {
	documents DocumentParser
}

// NewLocalParser extracts text in-process.
func NewLocalParser(documents DocumentParser) CVParser {
	return &localParser{documents: documents}
}

// Parse implements CVParser.
func (p *localParser) Parse(ctx context.Context, filename string, data []byte) (string, error) {
	if !p.documents.IsSupportedFormat(filename) {
		return "", fmt.Errorf("%w: %s", ErrUnsupportedFormat, filename)
	}

	text, err := p.documents.ExtractText(filename, data)
	if err != nil {
		return "", err
	}
	if text == "" {
		return "", ErrNoText
	}
	return text, nil
}
