package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"strings"
	"time"

	"github.com/ahmetcoskunkizilkaya/healthdesk/internal/dto"
	"github.com/ahmetcoskunkizilkaya/healthdesk/internal/models"
)

var (
	ErrReportFileRequired  = errors.New("pick a file first")
	ErrUnsupportedFileType = errors.New("unsupported file type")
	ErrInvalidReportType   = errors.New("invalid report type")
	ErrReportNotFound      = errors.New("report not found")
)

var ReportTypes = []string{"Blood Test", "X-Ray", "MRI", "CT Scan", "Ultrasound", "Prescription", "Other"}

// ReportExtensions is the upload allow-list. Content is not sniffed.
var ReportExtensions = []string{".pdf", ".jpg", ".jpeg", ".png"}

type ReportService struct {
	store *RecordStore
	vault *FileVault
	now   func() time.Time
}

func NewReportService(store *RecordStore, vault *FileVault) *ReportService {
	return &ReportService{store: store, vault: vault, now: time.Now}
}

// Save copies the file into the vault, then writes the metadata row. The two
// writes are not atomic; a failed insert leaves the file orphaned.
func (s *ReportService) Save(ctx context.Context, username string, file io.Reader, fileName string, fields dto.UploadReportFields) (*models.MedicalReport, error) {
	if file == nil || fileName == "" {
		return nil, ErrReportFileRequired
	}
	if !HasExtension(fileName, ReportExtensions) {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFileType, filepath.Ext(fileName))
	}
	if fields.Type == "" {
		fields.Type = "Other"
	}
	if !oneOf(fields.Type, ReportTypes) {
		return nil, ErrInvalidReportType
	}

	stored, err := s.vault.Store(username, file, fileName)
	if err != nil {
		return nil, err
	}

	name := strings.TrimSpace(fields.Name)
	if name == "" {
		name = fileName
	}
	date := strings.TrimSpace(fields.Date)
	if date == "" {
		date = s.now().Format("2006-01-02")
	}

	report := &models.MedicalReport{
		Username: username,
		Name:     name,
		FileName: stored,
		Type:     fields.Type,
		Date:     date,
		Notes:    fields.Notes,
	}
	if _, err := s.store.InsertReport(ctx, report); err != nil {
		slog.Error("report row insert failed, stored file orphaned", "username", username, "file", stored, "error", err)
		return nil, err
	}
	return report, nil
}

func (s *ReportService) List(ctx context.Context, username string) ([]models.MedicalReport, error) {
	return s.store.ListReports(ctx, username, 0)
}

// Download returns the report row and its bytes. A row whose file has gone
// missing yields ErrFileNotFound.
func (s *ReportService) Download(ctx context.Context, username string, id uint) (*models.MedicalReport, []byte, error) {
	report, err := s.store.GetReport(ctx, username, id)
	if err != nil {
		if errors.Is(err, ErrRecordNotFound) {
			return nil, nil, ErrReportNotFound
		}
		return nil, nil, err
	}
	data, err := s.vault.Retrieve(report.FileName)
	if err != nil {
		return report, nil, err
	}
	return report, data, nil
}

// HasExtension reports whether name ends in one of exts, case-insensitively.
func HasExtension(name string, exts []string) bool {
	ext := strings.ToLower(filepath.Ext(name))
	for _, e := range exts {
		if ext == e {
			return true
		}
	}
	return false
}
