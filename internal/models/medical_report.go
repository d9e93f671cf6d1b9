package models

// MedicalReport is the metadata row for a file kept in the vault. FileName is
// a weak reference: the file may disappear without the row being touched.
type MedicalReport struct {
	ID         uint   `gorm:"primaryKey;autoIncrement" json:"id"`
	Username   string `gorm:"size:100;not null;index" json:"username"`
	Name       string `gorm:"size:255" json:"name"`
	FileName   string `gorm:"size:512;not null" json:"file_name"`
	Type       string `gorm:"column:type;size:50" json:"type"`
	Date       string `json:"date"`
	Notes      string `gorm:"type:text" json:"notes"`
	UploadedAt string `gorm:"size:16;index" json:"uploaded_at"`
}
