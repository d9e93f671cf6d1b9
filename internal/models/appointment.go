package models

// Appointment is a booking made from the appointment form. Date and Time are
// kept as the text the form submitted; CreatedAt is "YYYY-MM-DD HH:MM".
type Appointment struct {
	ID          uint   `gorm:"primaryKey;autoIncrement" json:"id"`
	Username    string `gorm:"size:100;not null;index" json:"username"`
	PatientName string `gorm:"size:255" json:"patient_name"`
	Age         int    `json:"age"`
	Gender      string `gorm:"size:30" json:"gender"`
	Phone       string `gorm:"size:50" json:"phone"`
	Email       string `gorm:"size:255" json:"email"`
	Department  string `gorm:"size:100" json:"department"`
	Doctor      string `gorm:"size:255" json:"doctor"`
	Date        string `json:"date"`
	Time        string `gorm:"size:5" json:"time"`
	Type        string `gorm:"column:type;size:30" json:"type"`
	Symptoms    string `gorm:"type:text" json:"symptoms"`
	Emergency   bool   `gorm:"default:false" json:"emergency"`
	FollowUp    bool   `gorm:"column:followup;default:false" json:"followup"`
	Status      string `gorm:"size:20;default:'Confirmed'" json:"status"`
	CreatedAt   string `gorm:"size:16;index" json:"created_at"`
}
