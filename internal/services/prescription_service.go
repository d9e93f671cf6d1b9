package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/ahmetcoskunkizilkaya/healthdesk/internal/models"
)

var (
	ErrSymptomsRequired     = errors.New("please describe symptoms before generating suggestions")
	ErrPrescriptionNotFound = errors.New("prescription not found")
)

const prescriptionDisclaimer = "⚠ This is educational content only. Not a medical prescription."

// PrescriptionService generates educational OTC suggestions and keeps the
// ones the user saves.
type PrescriptionService struct {
	store   *RecordStore
	gateway Asker
}

func NewPrescriptionService(store *RecordStore, gateway Asker) *PrescriptionService {
	return &PrescriptionService{store: store, gateway: gateway}
}

// Generate asks for a suggestion and, when save is true and the gateway
// produced a real answer, stores it. Diagnostic text is never persisted.
func (s *PrescriptionService) Generate(ctx context.Context, username, symptoms string, save bool) (Answer, *models.Prescription, error) {
	symptoms = strings.TrimSpace(symptoms)
	if symptoms == "" {
		return Answer{}, nil, ErrSymptomsRequired
	}

	question := fmt.Sprintf("Suggest general over-the-counter medicines and home remedies for: %s. Keep it educational only, concise.", symptoms)
	answer := s.gateway.Ask(ctx, BuildMedicalPrompt(question, "Medicine Info"), "Medicine Info", "en")
	if !answer.OK || !save {
		return answer, nil, nil
	}

	p, err := s.store.InsertPrescription(ctx, username, symptoms, answer.Text)
	if err != nil {
		return answer, nil, fmt.Errorf("failed to save prescription: %w", err)
	}
	return answer, p, nil
}

func (s *PrescriptionService) List(ctx context.Context, username string) ([]models.Prescription, error) {
	return s.store.ListPrescriptions(ctx, username, 0)
}

func (s *PrescriptionService) Get(ctx context.Context, username string, id uint) (*models.Prescription, error) {
	p, err := s.store.GetPrescription(ctx, username, id)
	if errors.Is(err, ErrRecordNotFound) {
		return nil, ErrPrescriptionNotFound
	}
	return p, err
}

// Delete removes the user's prescription; unknown ids are a no-op.
func (s *PrescriptionService) Delete(ctx context.Context, username string, id uint) error {
	return s.store.DeleteOwned(ctx, KindPrescription, username, id)
}

// RenderText produces the downloadable prescription_<id>.txt body.
func RenderText(p *models.Prescription) []byte {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Prescription for %s\n", p.Username)
	fmt.Fprintf(&sb, "Created at: %s\n\n", p.CreatedAt)
	fmt.Fprintf(&sb, "Symptoms:\n%s\n\n", p.Symptoms)
	fmt.Fprintf(&sb, "Suggestion (Educational Only):\n%s\n\n", p.Suggestion)
	sb.WriteString(prescriptionDisclaimer)
	return []byte(sb.String())
}
