// Command seed fills the database with demo users, appointments and
// prescriptions for local development.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/brianvoe/gofakeit/v6"

	"github.com/ahmetcoskunkizilkaya/healthdesk/internal/config"
	"github.com/ahmetcoskunkizilkaya/healthdesk/internal/database"
	"github.com/ahmetcoskunkizilkaya/healthdesk/internal/dto"
	"github.com/ahmetcoskunkizilkaya/healthdesk/internal/logging"
	"github.com/ahmetcoskunkizilkaya/healthdesk/internal/services"
)

const demoPassword = "demo-password"

var symptoms = []string{
	"mild headache and fatigue",
	"sore throat since two days",
	"lower back pain after lifting",
	"itchy skin rash on forearm",
	"trouble sleeping and stress",
	"seasonal allergy, sneezing",
}

func main() {
	users := flag.Int("users", 5, "number of demo users")
	perUser := flag.Int("appointments", 8, "appointments per user")
	flag.Parse()

	cfg := config.Load()
	logging.Setup(cfg.LogLevel)
	slog.Info("seed starting", "driver", cfg.DBDriver, "users", *users)

	db, err := database.Connect(cfg)
	if err != nil {
		slog.Error("database connection failed", "error", err)
		os.Exit(1)
	}
	defer database.Close(db)
	if err := database.Migrate(db); err != nil {
		slog.Error("migration failed", "error", err)
		os.Exit(1)
	}

	gofakeit.Seed(time.Now().UnixNano())

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	records := services.NewRecordStore(db)
	seeder := &seeder{
		credentials:  services.NewCredentialService(db),
		appointments: services.NewAppointmentService(records),
		records:      records,
	}
	for i := 0; i < *users; i++ {
		username, err := seeder.seedUser(ctx, *perUser)
		if err != nil {
			slog.Error("seed user failed", "error", err)
			os.Exit(1)
		}
		slog.Info("user seeded", "username", username, "password", demoPassword)
	}

	slog.Info("seed complete")
}

type seeder struct {
	credentials  *services.CredentialService
	appointments *services.AppointmentService
	records      *services.RecordStore
}

func (s *seeder) seedUser(ctx context.Context, appointments int) (string, error) {
	username := gofakeit.Username()
	if err := s.credentials.Register(ctx, username, demoPassword); err != nil {
		if !errors.Is(err, services.ErrUsernameTaken) {
			return "", fmt.Errorf("register %s: %w", username, err)
		}
		username = fmt.Sprintf("%s%d", username, gofakeit.Number(100, 999))
		if err := s.credentials.Register(ctx, username, demoPassword); err != nil {
			return "", fmt.Errorf("register %s: %w", username, err)
		}
	}

	patient := gofakeit.Name()
	for i := 0; i < appointments; i++ {
		when := gofakeit.DateRange(time.Now().AddDate(0, -6, 0), time.Now().AddDate(0, 1, 0))
		req := dto.BookAppointmentRequest{
			PatientName:      patient,
			Age:              gofakeit.Number(18, 90),
			Gender:           services.Genders[gofakeit.Number(0, len(services.Genders)-1)],
			Phone:            gofakeit.Phone(),
			Email:            gofakeit.Email(),
			Department:       services.Departments[gofakeit.Number(0, len(services.Departments)-1)],
			Date:             when.Format("2006-01-02"),
			Time:             fmt.Sprintf("%02d:%02d", gofakeit.Number(8, 17), 15*gofakeit.Number(0, 3)),
			ConsultationType: services.ConsultationTypes[gofakeit.Number(0, len(services.ConsultationTypes)-1)],
			Symptoms:         symptoms[gofakeit.Number(0, len(symptoms)-1)],
			Emergency:        gofakeit.Number(1, 10) == 1,
			FollowUp:         gofakeit.Bool(),
		}
		if _, err := s.appointments.Book(ctx, username, req); err != nil {
			return "", fmt.Errorf("book appointment for %s: %w", username, err)
		}
	}

	for i := 0; i < 2; i++ {
		symptom := symptoms[gofakeit.Number(0, len(symptoms)-1)]
		suggestion := "Rest, stay hydrated and consider a common OTC remedy for " + symptom + "."
		if _, err := s.records.InsertPrescription(ctx, username, symptom, suggestion); err != nil {
			return "", fmt.Errorf("insert prescription for %s: %w", username, err)
		}
	}
	return username, nil
}
