package services

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateSavesOnlyRealAnswers(t *testing.T) {
	ctx := context.Background()
	store := newTestRecords(t, "alice")
	asker := &fakeAsker{answer: Answer{Text: "Rest and fluids.", OK: true}}
	svc := NewPrescriptionService(store, asker)

	answer, saved, err := svc.Generate(ctx, "alice", "  sore throat  ", true)
	require.NoError(t, err)
	require.NotNil(t, saved)
	assert.Equal(t, "Rest and fluids.", answer.Text)
	assert.Equal(t, "sore throat", saved.Symptoms)
	require.Len(t, asker.calls, 1)
	assert.Equal(t, "Medicine Info", asker.calls[0].mode)
	assert.Contains(t, asker.calls[0].prompt, "sore throat")

	list, err := svc.List(ctx, "alice")
	require.NoError(t, err)
	assert.Len(t, list, 1)
}

func TestGenerateWithoutSaveOrOnDiagnostic(t *testing.T) {
	ctx := context.Background()
	store := newTestRecords(t, "alice")

	asker := &fakeAsker{answer: Answer{Text: "Rest.", OK: true}}
	_, saved, err := NewPrescriptionService(store, asker).Generate(ctx, "alice", "cough", false)
	require.NoError(t, err)
	assert.Nil(t, saved)

	failing := &fakeAsker{answer: Answer{Text: "AI service unavailable", OK: false}}
	answer, saved, err := NewPrescriptionService(store, failing).Generate(ctx, "alice", "cough", true)
	require.NoError(t, err)
	assert.Nil(t, saved)
	assert.False(t, answer.OK)

	n, err := store.CountByUser(ctx, KindPrescription, "alice")
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestGenerateRequiresSymptoms(t *testing.T) {
	svc := NewPrescriptionService(newTestRecords(t, "alice"), &fakeAsker{})
	_, _, err := svc.Generate(context.Background(), "alice", " ", true)
	assert.ErrorIs(t, err, ErrSymptomsRequired)
}

func TestPrescriptionGetAndDelete(t *testing.T) {
	ctx := context.Background()
	store := newTestRecords(t, "alice", "bob")
	svc := NewPrescriptionService(store, &fakeAsker{answer: Answer{Text: "Honey tea.", OK: true}})

	_, saved, err := svc.Generate(ctx, "alice", "cough", true)
	require.NoError(t, err)

	_, err = svc.Get(ctx, "bob", saved.ID)
	assert.ErrorIs(t, err, ErrPrescriptionNotFound)

	got, err := svc.Get(ctx, "alice", saved.ID)
	require.NoError(t, err)
	text := string(RenderText(got))
	assert.True(t, strings.HasPrefix(text, "Prescription for alice\n"))
	assert.Contains(t, text, "Honey tea.")
	assert.True(t, strings.HasSuffix(text, "Not a medical prescription."))

	require.NoError(t, svc.Delete(ctx, "bob", saved.ID))
	_, err = svc.Get(ctx, "alice", saved.ID)
	require.NoError(t, err)

	require.NoError(t, svc.Delete(ctx, "alice", saved.ID))
	_, err = svc.Get(ctx, "alice", saved.ID)
	assert.ErrorIs(t, err, ErrPrescriptionNotFound)
}
