package models

// Prescription is a saved, educational-only AI suggestion for a set of symptoms.
type Prescription struct {
	ID         uint   `gorm:"primaryKey;autoIncrement" json:"id"`
	Username   string `gorm:"size:100;not null;index" json:"username"`
	Symptoms   string `gorm:"type:text" json:"symptoms"`
	Suggestion string `gorm:"type:text" json:"suggestion"`
	CreatedAt  string `gorm:"size:16;index" json:"created_at"`
}
