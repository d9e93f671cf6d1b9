package models

import "time"

// User holds signup credentials. Password is always a bcrypt hash. The
// has-many fields only declare the username foreign keys on the child tables.
type User struct {
	Username      string          `gorm:"primaryKey;size:100" json:"username"`
	Password      string          `gorm:"not null" json:"-"`
	CreatedAt     time.Time       `json:"created_at"`
	Appointments  []Appointment   `gorm:"foreignKey:Username;references:Username;constraint:OnDelete:CASCADE" json:"-"`
	Reports       []MedicalReport `gorm:"foreignKey:Username;references:Username;constraint:OnDelete:CASCADE" json:"-"`
	Prescriptions []Prescription  `gorm:"foreignKey:Username;references:Username;constraint:OnDelete:CASCADE" json:"-"`
}
