package dto

import (
	"github.com/ahmetcoskunkizilkaya/healthdesk/internal/models"
)

// BookAppointmentRequest mirrors the appointment booking form.
type BookAppointmentRequest struct {
	PatientName      string `json:"patient_name"`
	Age              int    `json:"age"`
	Gender           string `json:"gender"`
	Phone            string `json:"phone"`
	Email            string `json:"email"`
	Department       string `json:"department"`
	Doctor           string `json:"doctor"`
	Date             string `json:"date"`
	Time             string `json:"time"`
	ConsultationType string `json:"consultation_type"`
	Symptoms         string `json:"symptoms"`
	Emergency        bool   `json:"emergency"`
	FollowUp         bool   `json:"followup"`
}

type AppointmentListResponse struct {
	Appointments []models.Appointment `json:"appointments"`
}

// UploadReportFields are the non-file form fields of a report upload.
type UploadReportFields struct {
	Name  string `form:"name"`
	Type  string `form:"type"`
	Date  string `form:"date"`
	Notes string `form:"notes"`
}

type ReportListResponse struct {
	Reports []models.MedicalReport `json:"reports"`
}

type GeneratePrescriptionRequest struct {
	Symptoms string `json:"symptoms"`
}

type PrescriptionResponse struct {
	Suggestion   string               `json:"suggestion"`
	OK           bool                 `json:"ok"`
	Saved        bool                 `json:"saved"`
	Prescription *models.Prescription `json:"prescription,omitempty"`
}

type PrescriptionListResponse struct {
	Prescriptions []models.Prescription `json:"prescriptions"`
}
