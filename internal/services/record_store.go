package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/ahmetcoskunkizilkaya/healthdesk/internal/models"
	"gorm.io/gorm"
)

// TimestampLayout is how every created/uploaded timestamp is stored.
const TimestampLayout = "2006-01-02 15:04"

var (
	ErrUnknownKind        = errors.New("unknown record kind")
	ErrUnsupportedGroupBy = errors.New("grouping not supported for this record kind")
	ErrRecordNotFound     = errors.New("record not found")
)

type EntityKind string

const (
	KindAppointment  EntityKind = "appointment"
	KindReport       EntityKind = "report"
	KindPrescription EntityKind = "prescription"
)

type GroupKey string

const (
	// GroupByMonth buckets appointments by the YYYY-MM prefix of their date.
	GroupByMonth GroupKey = "month"
	// GroupByReportType buckets reports by type.
	GroupByReportType GroupKey = "report_type"
)

// GroupCount is one bucket of a GroupCount query.
type GroupCount struct {
	Key   string `gorm:"column:group_key" json:"key"`
	Count int64  `gorm:"column:total" json:"count"`
}

type kindSpec struct {
	model     interface{}
	createdAt string
	groups    map[GroupKey]string
}

var kinds = map[EntityKind]kindSpec{
	KindAppointment: {
		model:     &models.Appointment{},
		createdAt: "created_at",
		groups:    map[GroupKey]string{GroupByMonth: "substr(date, 1, 7)"},
	},
	KindReport: {
		model:     &models.MedicalReport{},
		createdAt: "uploaded_at",
		groups:    map[GroupKey]string{GroupByReportType: "type"},
	},
	KindPrescription: {
		model:     &models.Prescription{},
		createdAt: "created_at",
	},
}

func specFor(kind EntityKind) (kindSpec, error) {
	spec, ok := kinds[kind]
	if !ok {
		return kindSpec{}, fmt.Errorf("%w: %q", ErrUnknownKind, kind)
	}
	return spec, nil
}

// RecordStore owns the appointment, report and prescription rows. Every write
// is one autocommitting statement.
type RecordStore struct {
	db  *gorm.DB
	now func() time.Time
}

func NewRecordStore(db *gorm.DB) *RecordStore {
	return &RecordStore{db: db, now: time.Now}
}

func (s *RecordStore) stamp() string {
	return s.now().Format(TimestampLayout)
}

func (s *RecordStore) InsertAppointment(ctx context.Context, a *models.Appointment) (uint, error) {
	a.ID = 0
	a.CreatedAt = s.stamp()
	if a.Status == "" {
		a.Status = "Confirmed"
	}
	if err := s.db.WithContext(ctx).Create(a).Error; err != nil {
		return 0, fmt.Errorf("insert appointment: %w", err)
	}
	return a.ID, nil
}

func (s *RecordStore) InsertReport(ctx context.Context, r *models.MedicalReport) (uint, error) {
	r.ID = 0
	r.UploadedAt = s.stamp()
	if err := s.db.WithContext(ctx).Create(r).Error; err != nil {
		return 0, fmt.Errorf("insert report: %w", err)
	}
	return r.ID, nil
}

func (s *RecordStore) InsertPrescription(ctx context.Context, username, symptoms, suggestion string) (*models.Prescription, error) {
	p := &models.Prescription{
		Username:   username,
		Symptoms:   symptoms,
		Suggestion: suggestion,
		CreatedAt:  s.stamp(),
	}
	if err := s.db.WithContext(ctx).Create(p).Error; err != nil {
		return nil, fmt.Errorf("insert prescription: %w", err)
	}
	return p, nil
}

// byUser scopes a query to one owner, newest first. limit <= 0 means no limit.
func (s *RecordStore) byUser(ctx context.Context, kind EntityKind, username string, limit int) (*gorm.DB, error) {
	spec, err := specFor(kind)
	if err != nil {
		return nil, err
	}
	q := s.db.WithContext(ctx).
		Where("username = ?", username).
		Order(spec.createdAt + " DESC").
		Order("id DESC")
	if limit > 0 {
		q = q.Limit(limit)
	}
	return q, nil
}

func (s *RecordStore) ListAppointments(ctx context.Context, username string, limit int) ([]models.Appointment, error) {
	q, err := s.byUser(ctx, KindAppointment, username, limit)
	if err != nil {
		return nil, err
	}
	rows := []models.Appointment{}
	return rows, q.Find(&rows).Error
}

func (s *RecordStore) ListReports(ctx context.Context, username string, limit int) ([]models.MedicalReport, error) {
	q, err := s.byUser(ctx, KindReport, username, limit)
	if err != nil {
		return nil, err
	}
	rows := []models.MedicalReport{}
	return rows, q.Find(&rows).Error
}

func (s *RecordStore) ListPrescriptions(ctx context.Context, username string, limit int) ([]models.Prescription, error) {
	q, err := s.byUser(ctx, KindPrescription, username, limit)
	if err != nil {
		return nil, err
	}
	rows := []models.Prescription{}
	return rows, q.Find(&rows).Error
}

func (s *RecordStore) GetReport(ctx context.Context, username string, id uint) (*models.MedicalReport, error) {
	var r models.MedicalReport
	if err := s.findOwned(ctx, username, id, &r); err != nil {
		return nil, err
	}
	return &r, nil
}

func (s *RecordStore) GetPrescription(ctx context.Context, username string, id uint) (*models.Prescription, error) {
	var p models.Prescription
	if err := s.findOwned(ctx, username, id, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

func (s *RecordStore) findOwned(ctx context.Context, username string, id uint, dest interface{}) error {
	err := s.db.WithContext(ctx).Where("id = ? AND username = ?", id, username).First(dest).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrRecordNotFound
	}
	return err
}

// DeleteByID is idempotent: a missing id is not an error.
func (s *RecordStore) DeleteByID(ctx context.Context, kind EntityKind, id uint) error {
	spec, err := specFor(kind)
	if err != nil {
		return err
	}
	return s.db.WithContext(ctx).Where("id = ?", id).Delete(spec.model).Error
}

// DeleteOwned is DeleteByID restricted to rows owned by username.
func (s *RecordStore) DeleteOwned(ctx context.Context, kind EntityKind, username string, id uint) error {
	spec, err := specFor(kind)
	if err != nil {
		return err
	}
	return s.db.WithContext(ctx).Where("id = ? AND username = ?", id, username).Delete(spec.model).Error
}

func (s *RecordStore) CountByUser(ctx context.Context, kind EntityKind, username string) (int64, error) {
	spec, err := specFor(kind)
	if err != nil {
		return 0, err
	}
	var n int64
	err = s.db.WithContext(ctx).Model(spec.model).Where("username = ?", username).Count(&n).Error
	return n, err
}

// CountEmergencies counts the user's appointments flagged as emergencies.
func (s *RecordStore) CountEmergencies(ctx context.Context, username string) (int64, error) {
	var n int64
	err := s.db.WithContext(ctx).Model(&models.Appointment{}).
		Where("username = ? AND emergency = ?", username, true).
		Count(&n).Error
	return n, err
}

// GroupCount returns per-bucket counts ordered by bucket key ascending.
func (s *RecordStore) GroupCount(ctx context.Context, kind EntityKind, username string, key GroupKey) ([]GroupCount, error) {
	spec, err := specFor(kind)
	if err != nil {
		return nil, err
	}
	expr, ok := spec.groups[key]
	if !ok {
		return nil, fmt.Errorf("%w: %s by %s", ErrUnsupportedGroupBy, kind, key)
	}

	rows := []GroupCount{}
	err = s.db.WithContext(ctx).Model(spec.model).
		Select(expr+" AS group_key, COUNT(*) AS total").
		Where("username = ?", username).
		Group("group_key").
		Order("group_key ASC").
		Scan(&rows).Error
	return rows, err
}
