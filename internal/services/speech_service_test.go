package services

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/ahmetcoskunkizilkaya/healthdesk/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTranscribe(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "k", r.URL.Query().Get("key"))
		var req recognizeRequest
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "hi-IN", req.Config.LanguageCode)
		assert.Equal(t, "MP3", req.Config.Encoding)
		audio, err := base64.StdEncoding.DecodeString(req.Audio.Content)
		assert.NoError(t, err)
		assert.Equal(t, "RIFF", string(audio))
		_, _ = w.Write([]byte(`{"results":[{"alternatives":[{"transcript":"I have"}]},{"alternatives":[{"transcript":"a headache"}]}]}`))
	}))
	defer srv.Close()

	s := NewSpeechClient(&config.Config{SpeechAPIKey: "k", SpeechAPIURL: srv.URL})
	text, err := s.Transcribe(context.Background(), []byte("RIFF"), "note.MP3", "hi")
	require.NoError(t, err)
	assert.Equal(t, "I have a headache", text)
}

func TestTranscribeNoSpeech(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	s := NewSpeechClient(&config.Config{SpeechAPIKey: "k", SpeechAPIURL: srv.URL})
	_, err := s.Transcribe(context.Background(), []byte("x"), "a.wav", "en")
	assert.ErrorIs(t, err, ErrNoSpeech)
}

func TestSynthesize(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req synthesizeRequest
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "Rest well", req.Input.Text)
		assert.Equal(t, "fr-FR", req.Voice.LanguageCode)
		assert.Equal(t, "MP3", req.AudioConfig.AudioEncoding)
		resp := synthesizeResponse{AudioContent: base64.StdEncoding.EncodeToString([]byte("ID3audio"))}
		_ = json.NewEncoder(w).Encode(resp)
	}))
	defer srv.Close()

	s := NewSpeechClient(&config.Config{SpeechAPIKey: "k", TTSAPIURL: srv.URL + "?alt=json"})
	audio, err := s.Synthesize(context.Background(), "Rest well", "fr")
	require.NoError(t, err)
	assert.Equal(t, "ID3audio", string(audio))
}

func TestSpeechWithoutKey(t *testing.T) {
	s := NewSpeechClient(&config.Config{})

	_, err := s.Transcribe(context.Background(), []byte("x"), "a.wav", "en")
	assert.ErrorIs(t, err, ErrSpeechUnavailable)

	_, err = s.Synthesize(context.Background(), "hello", "en")
	assert.ErrorIs(t, err, ErrSpeechUnavailable)

	_, err = s.Synthesize(context.Background(), "  ", "en")
	assert.ErrorIs(t, err, ErrEmptySpeechText)
}

func TestWithKey(t *testing.T) {
	assert.Equal(t, "https://x/recognize?key=a%2Bb", withKey("https://x/recognize", "a+b"))
	assert.Equal(t, "https://x/s?alt=json&key=k", withKey("https://x/s?alt=json", "k"))
}
