package services

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/ahmetcoskunkizilkaya/healthdesk/internal/config"
)

// Answer is the outcome of one AI call. OK is false when Text is a
// diagnostic message rather than model output.
type Answer struct {
	Text       string `json:"text"`
	OK         bool   `json:"ok"`
	Diagnostic string `json:"diagnostic,omitempty"`
}

// Asker is the part of the gateway the page services depend on.
type Asker interface {
	Ask(ctx context.Context, prompt, mode, language string) Answer
}

var (
	ErrAIKeyMissing  = errors.New("AI API key is not configured")
	ErrAINoResponse  = errors.New("no response from AI")
	ErrAIBadProvider = errors.New("unknown AI provider")
)

// Language names used in the system instruction.
var languageNames = map[string]string{
	"en": "English",
	"hi": "Hindi",
	"es": "Spanish",
	"fr": "French",
}

// BuildMedicalPrompt wraps a user question in the safety instructions every
// consultation prompt carries.
func BuildMedicalPrompt(question, mode string) string {
	if mode == "" {
		mode = "General Health"
	}
	return fmt.Sprintf(
		"You are a medical information assistant (mode: %s).\n"+
			"Provide safe, factual, and general health guidance. DO NOT diagnose or prescribe medications.\n"+
			"User question: %s\n\nPlease respond clearly and concisely.",
		mode, question)
}

// =============================================================================
// Provider wire types
// =============================================================================

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float64       `json:"temperature,omitempty"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

type geminiPart struct {
	Text string `json:"text"`
}

type geminiContent struct {
	Role  string       `json:"role,omitempty"`
	Parts []geminiPart `json:"parts"`
}

type geminiRequest struct {
	Contents          []geminiContent `json:"contents"`
	SystemInstruction *geminiContent  `json:"systemInstruction,omitempty"`
}

type geminiResponse struct {
	Candidates []struct {
		Content geminiContent `json:"content"`
	} `json:"candidates"`
}

// =============================================================================
// AIGateway
// =============================================================================

// AIGateway forwards prompts to the hosted text-generation API. It makes
// exactly one attempt per call and never returns an error to its caller.
type AIGateway struct {
	provider string
	apiURL   string
	apiKey   string
	model    string
	client   *http.Client
}

func NewAIGateway(cfg *config.Config) *AIGateway {
	timeout := cfg.AITimeout
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	return &AIGateway{
		provider: cfg.AIProvider,
		apiURL:   cfg.AIAPIURL,
		apiKey:   cfg.AIAPIKey,
		model:    cfg.AIModel,
		client:   &http.Client{Timeout: timeout},
	}
}

// Configured reports whether an API key is present.
func (g *AIGateway) Configured() bool {
	return g.apiKey != ""
}

func (g *AIGateway) Ask(ctx context.Context, prompt, mode, language string) Answer {
	if !g.Configured() {
		return failedAnswer(ErrAIKeyMissing)
	}

	system := "Respond in " + languageName(language) + "."

	var (
		text string
		err  error
	)
	start := time.Now()
	switch g.provider {
	case "gemini":
		text, err = g.askGemini(ctx, system, prompt)
	case "openai":
		text, err = g.askChat(ctx, system, prompt)
	default:
		err = fmt.Errorf("%w: %q", ErrAIBadProvider, g.provider)
	}
	if err != nil {
		slog.Warn("ai gateway call failed", "provider", g.provider, "mode", mode, "error", err)
		return failedAnswer(err)
	}

	slog.Info("ai gateway answered", "provider", g.provider, "mode", mode,
		"latency_ms", float64(time.Since(start).Milliseconds()))
	return Answer{Text: text, OK: true}
}

func failedAnswer(err error) Answer {
	return Answer{
		Text:       fmt.Sprintf("(AI error: %v)\nI couldn't fetch an AI response. Check API key/network.", err),
		OK:         false,
		Diagnostic: err.Error(),
	}
}

func languageName(code string) string {
	if name, ok := languageNames[code]; ok {
		return name
	}
	return languageNames["en"]
}

func (g *AIGateway) askChat(ctx context.Context, system, prompt string) (string, error) {
	reqBody := chatRequest{
		Model: g.model,
		Messages: []chatMessage{
			{Role: "system", Content: system},
			{Role: "user", Content: prompt},
		},
		Temperature: 0.4,
	}

	var completion chatResponse
	if err := postJSON(ctx, g.client, g.apiURL, map[string]string{"Authorization": "Bearer " + g.apiKey}, reqBody, &completion); err != nil {
		return "", err
	}
	if len(completion.Choices) == 0 {
		return "", ErrAINoResponse
	}
	text := strings.TrimSpace(completion.Choices[0].Message.Content)
	if text == "" {
		return "", ErrAINoResponse
	}
	return text, nil
}

func (g *AIGateway) askGemini(ctx context.Context, system, prompt string) (string, error) {
	reqBody := geminiRequest{
		Contents:          []geminiContent{{Role: "user", Parts: []geminiPart{{Text: prompt}}}},
		SystemInstruction: &geminiContent{Parts: []geminiPart{{Text: system}}},
	}
	endpoint := strings.TrimRight(g.apiURL, "/") + "/" + g.model + ":generateContent?key=" + url.QueryEscape(g.apiKey)

	var resp geminiResponse
	if err := postJSON(ctx, g.client, endpoint, nil, reqBody, &resp); err != nil {
		return "", err
	}
	if len(resp.Candidates) == 0 {
		return "", ErrAINoResponse
	}

	var sb strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		sb.WriteString(part.Text)
	}
	text := strings.TrimSpace(sb.String())
	if text == "" {
		return "", ErrAINoResponse
	}
	return text, nil
}

// postJSON sends a JSON body and decodes a JSON reply, failing on non-2xx.
func postJSON(ctx context.Context, client *http.Client, endpoint string, headers map[string]string, body, out interface{}) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	resp, err := client.Do(req)
	if err != nil {
		return redactKey(err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("API error: status %d", resp.StatusCode)
	}
	if err := json.Unmarshal(respBody, out); err != nil {
		return fmt.Errorf("decode API response: %w", err)
	}
	return nil
}

// redactKey keeps "?key=..." query strings out of transport errors, which
// end up in user-visible diagnostics.
func redactKey(err error) error {
	var urlErr *url.Error
	if errors.As(err, &urlErr) {
		if u, perr := url.Parse(urlErr.URL); perr == nil && u.Query().Has("key") {
			q := u.Query()
			q.Set("key", "REDACTED")
			u.RawQuery = q.Encode()
			urlErr.URL = u.String()
		}
	}
	return err
}
