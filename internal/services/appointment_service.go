package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/ahmetcoskunkizilkaya/healthdesk/internal/dto"
	"github.com/ahmetcoskunkizilkaya/healthdesk/internal/models"
)

// RecentAppointmentLimit is how many bookings the appointments page lists.
const RecentAppointmentLimit = 10

// DefaultDoctor is the only doctor the booking form has ever offered.
const DefaultDoctor = "Dr. Available Sharma"

var (
	ErrInvalidAge              = errors.New("age must be between 1 and 120")
	ErrInvalidGender           = errors.New("invalid gender")
	ErrInvalidDepartment       = errors.New("invalid department")
	ErrInvalidConsultationType = errors.New("invalid consultation type")
	ErrAppointmentDateRequired = errors.New("preferred date is required")
	ErrInvalidAppointmentTime  = errors.New("preferred time must be HH:MM")
)

var Genders = []string{"Male", "Female", "Other", "Prefer not to say"}

var Departments = []string{
	"General Physician",
	"Cardiologist",
	"Dermatologist",
	"Dentist",
	"Psychiatrist",
	"Orthopedic",
	"Pediatrician",
	"Gynecologist",
	"ENT Specialist",
}

var ConsultationTypes = []string{"In-Person", "Video Call", "Phone Call"}

type AppointmentService struct {
	store *RecordStore
}

func NewAppointmentService(store *RecordStore) *AppointmentService {
	return &AppointmentService{store: store}
}

// Book checks the form the way the booking widgets constrain it and stores
// the row. The date is kept as submitted.
func (s *AppointmentService) Book(ctx context.Context, username string, req dto.BookAppointmentRequest) (*models.Appointment, error) {
	if req.Age < 1 || req.Age > 120 {
		return nil, ErrInvalidAge
	}
	if !oneOf(req.Gender, Genders) {
		return nil, ErrInvalidGender
	}
	if !oneOf(req.Department, Departments) {
		return nil, ErrInvalidDepartment
	}
	if req.ConsultationType == "" {
		req.ConsultationType = ConsultationTypes[0]
	}
	if !oneOf(req.ConsultationType, ConsultationTypes) {
		return nil, ErrInvalidConsultationType
	}
	date := strings.TrimSpace(req.Date)
	if date == "" {
		return nil, ErrAppointmentDateRequired
	}
	if _, err := time.Parse("15:04", req.Time); err != nil {
		return nil, ErrInvalidAppointmentTime
	}

	patient := strings.TrimSpace(req.PatientName)
	if patient == "" {
		patient = username
	}
	doctor := strings.TrimSpace(req.Doctor)
	if doctor == "" {
		doctor = DefaultDoctor
	}

	appt := &models.Appointment{
		Username:    username,
		PatientName: patient,
		Age:         req.Age,
		Gender:      req.Gender,
		Phone:       req.Phone,
		Email:       req.Email,
		Department:  req.Department,
		Doctor:      doctor,
		Date:        date,
		Time:        req.Time,
		Type:        req.ConsultationType,
		Symptoms:    req.Symptoms,
		Emergency:   req.Emergency,
		FollowUp:    req.FollowUp,
	}
	if _, err := s.store.InsertAppointment(ctx, appt); err != nil {
		return nil, err
	}
	return appt, nil
}

func (s *AppointmentService) Recent(ctx context.Context, username string) ([]models.Appointment, error) {
	return s.store.ListAppointments(ctx, username, RecentAppointmentLimit)
}

func oneOf(v string, options []string) bool {
	for _, o := range options {
		if v == o {
			return true
		}
	}
	return false
}
