package dto

import "github.com/ahmetcoskunkizilkaya/healthdesk/internal/models"

// Bucket is one bar or slice of a dashboard chart.
type Bucket struct {
	Key   string `json:"key"`
	Count int64  `json:"count"`
}

// Metric is a labelled counter tile.
type Metric struct {
	Label string `json:"label"`
	Value int64  `json:"value"`
}

type DashboardResponse struct {
	Metrics              []Metric             `json:"metrics"`
	RecentAppointments   []models.Appointment `json:"recent_appointments"`
	AppointmentsPerMonth []Bucket             `json:"appointments_per_month"`
	ReportTypes          []Bucket             `json:"report_types"`
}

type TipResponse struct {
	Tip string `json:"tip"`
	OK  bool   `json:"ok"`
}

type DisclaimerResponse struct {
	Disclaimer string `json:"disclaimer"`
}
