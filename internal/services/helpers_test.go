package services

import (
	"context"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/ahmetcoskunkizilkaya/healthdesk/internal/config"
	"github.com/ahmetcoskunkizilkaya/healthdesk/internal/database"
	"github.com/ahmetcoskunkizilkaya/healthdesk/internal/models"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	cfg := &config.Config{DBDriver: "sqlite", SQLitePath: filepath.Join(t.TempDir(), "test.db")}
	db, err := database.Connect(cfg)
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))
	t.Cleanup(func() { _ = database.Close(db) })
	return db
}

func createUser(t *testing.T, db *gorm.DB, username string) {
	t.Helper()
	require.NoError(t, db.Create(&models.User{Username: username, Password: "x"}).Error)
}

// newTestCredentials uses the minimum bcrypt cost to keep tests fast.
func newTestCredentials(db *gorm.DB) *CredentialService {
	s := NewCredentialService(db)
	s.cost = bcrypt.MinCost
	return s
}

// fixedClock returns a clock that advances one minute per call.
func fixedClock(start time.Time) func() time.Time {
	var mu sync.Mutex
	next := start
	return func() time.Time {
		mu.Lock()
		defer mu.Unlock()
		now := next
		next = next.Add(time.Minute)
		return now
	}
}

type askCall struct {
	prompt, mode, language string
}

// fakeAsker records prompts and replies with a canned answer.
type fakeAsker struct {
	mu     sync.Mutex
	answer Answer
	calls  []askCall
}

func (f *fakeAsker) Ask(_ context.Context, prompt, mode, language string) Answer {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, askCall{prompt: prompt, mode: mode, language: language})
	return f.answer
}

type fakeSpeech struct {
	transcript string
	err        error
	audio      []byte
}

func (f *fakeSpeech) Transcribe(context.Context, []byte, string, string) (string, error) {
	return f.transcript, f.err
}

func (f *fakeSpeech) Synthesize(_ context.Context, text, _ string) ([]byte, error) {
	if text == "" {
		return nil, ErrEmptySpeechText
	}
	return f.audio, f.err
}
