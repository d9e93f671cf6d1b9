package services

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"path/filepath"
	"strings"
	"time"

	"github.com/ahmetcoskunkizilkaya/healthdesk/internal/config"
)

var (
	ErrSpeechUnavailable = errors.New("speech service is not configured")
	ErrNoSpeech          = errors.New("could not transcribe audio")
	ErrEmptySpeechText   = errors.New("text to speak is required")
)

var speechLocales = map[string]string{
	"en": "en-US",
	"hi": "hi-IN",
	"es": "es-ES",
	"fr": "fr-FR",
}

// Transcriber turns recorded audio into text.
type Transcriber interface {
	Transcribe(ctx context.Context, audio []byte, fileName, language string) (string, error)
}

// Synthesizer turns text into MP3 audio.
type Synthesizer interface {
	Synthesize(ctx context.Context, text, language string) ([]byte, error)
}

type recognizeRequest struct {
	Config struct {
		Encoding     string `json:"encoding,omitempty"`
		LanguageCode string `json:"languageCode"`
	} `json:"config"`
	Audio struct {
		Content string `json:"content"`
	} `json:"audio"`
}

type recognizeResponse struct {
	Results []struct {
		Alternatives []struct {
			Transcript string `json:"transcript"`
		} `json:"alternatives"`
	} `json:"results"`
}

type synthesizeRequest struct {
	Input struct {
		Text string `json:"text"`
	} `json:"input"`
	Voice struct {
		LanguageCode string `json:"languageCode"`
	} `json:"voice"`
	AudioConfig struct {
		AudioEncoding string `json:"audioEncoding"`
	} `json:"audioConfig"`
}

type synthesizeResponse struct {
	AudioContent string `json:"audioContent"`
}

// SpeechClient talks to the hosted recognition and synthesis REST APIs.
type SpeechClient struct {
	apiKey        string
	recognizeURL  string
	synthesizeURL string
	client        *http.Client
}

func NewSpeechClient(cfg *config.Config) *SpeechClient {
	timeout := cfg.SpeechTimeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &SpeechClient{
		apiKey:        cfg.SpeechAPIKey,
		recognizeURL:  cfg.SpeechAPIURL,
		synthesizeURL: cfg.TTSAPIURL,
		client:        &http.Client{Timeout: timeout},
	}
}

func (s *SpeechClient) Transcribe(ctx context.Context, audio []byte, fileName, language string) (string, error) {
	if s.apiKey == "" {
		return "", ErrSpeechUnavailable
	}

	var req recognizeRequest
	req.Config.LanguageCode = locale(language)
	// WAV headers carry the sample rate, so the encoding can stay unspecified.
	if strings.EqualFold(filepath.Ext(fileName), ".mp3") {
		req.Config.Encoding = "MP3"
	}
	req.Audio.Content = base64.StdEncoding.EncodeToString(audio)

	var resp recognizeResponse
	if err := postJSON(ctx, s.client, withKey(s.recognizeURL, s.apiKey), nil, req, &resp); err != nil {
		return "", fmt.Errorf("speech recognition: %w", err)
	}

	var parts []string
	for _, r := range resp.Results {
		if len(r.Alternatives) > 0 && strings.TrimSpace(r.Alternatives[0].Transcript) != "" {
			parts = append(parts, strings.TrimSpace(r.Alternatives[0].Transcript))
		}
	}
	if len(parts) == 0 {
		return "", ErrNoSpeech
	}
	return strings.Join(parts, " "), nil
}

func (s *SpeechClient) Synthesize(ctx context.Context, text, language string) ([]byte, error) {
	if strings.TrimSpace(text) == "" {
		return nil, ErrEmptySpeechText
	}
	if s.apiKey == "" {
		return nil, ErrSpeechUnavailable
	}

	var req synthesizeRequest
	req.Input.Text = text
	req.Voice.LanguageCode = locale(language)
	req.AudioConfig.AudioEncoding = "MP3"

	var resp synthesizeResponse
	if err := postJSON(ctx, s.client, withKey(s.synthesizeURL, s.apiKey), nil, req, &resp); err != nil {
		return nil, fmt.Errorf("speech synthesis: %w", err)
	}

	audio, err := base64.StdEncoding.DecodeString(resp.AudioContent)
	if err != nil {
		return nil, fmt.Errorf("speech synthesis: decode audio: %w", err)
	}
	if len(audio) == 0 {
		return nil, fmt.Errorf("speech synthesis: empty audio")
	}
	return audio, nil
}

func locale(language string) string {
	if l, ok := speechLocales[language]; ok {
		return l
	}
	return speechLocales["en"]
}

func withKey(endpoint, key string) string {
	sep := "?"
	if strings.Contains(endpoint, "?") {
		sep = "&"
	}
	return endpoint + sep + "key=" + url.QueryEscape(key)
}
