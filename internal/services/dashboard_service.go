package services

import (
	"context"

	"github.com/ahmetcoskunkizilkaya/healthdesk/internal/charts"
	"github.com/ahmetcoskunkizilkaya/healthdesk/internal/dto"
	"github.com/ahmetcoskunkizilkaya/healthdesk/internal/features"
)

const (
	RecentActivityLimit = 5
	dailyTipQuestion    = "Give a short, motivating daily health tip for general wellness (one or two sentences)."
)

type DashboardService struct {
	store   *RecordStore
	gateway Asker
}

func NewDashboardService(store *RecordStore, gateway Asker) *DashboardService {
	return &DashboardService{store: store, gateway: gateway}
}

// Summary collects the counters, recent activity and both distributions for
// username. The third counter is emergency appointments or prescriptions,
// depending on the variant.
func (s *DashboardService) Summary(ctx context.Context, username string, flags features.Flags) (*dto.DashboardResponse, error) {
	appointments, err := s.store.CountByUser(ctx, KindAppointment, username)
	if err != nil {
		return nil, err
	}
	reports, err := s.store.CountByUser(ctx, KindReport, username)
	if err != nil {
		return nil, err
	}

	third := dto.Metric{Label: "Prescriptions"}
	if flags.Enabled(features.EmergencyCounter) {
		third.Label = "Emergency"
		third.Value, err = s.store.CountEmergencies(ctx, username)
	} else {
		third.Value, err = s.store.CountByUser(ctx, KindPrescription, username)
	}
	if err != nil {
		return nil, err
	}

	recent, err := s.store.ListAppointments(ctx, username, RecentActivityLimit)
	if err != nil {
		return nil, err
	}
	perMonth, err := s.store.GroupCount(ctx, KindAppointment, username, GroupByMonth)
	if err != nil {
		return nil, err
	}
	byType, err := s.store.GroupCount(ctx, KindReport, username, GroupByReportType)
	if err != nil {
		return nil, err
	}

	return &dto.DashboardResponse{
		Metrics: []dto.Metric{
			{Label: "Appointments", Value: appointments},
			{Label: "Reports", Value: reports},
			third,
		},
		RecentAppointments:   recent,
		AppointmentsPerMonth: toBuckets(perMonth),
		ReportTypes:          toBuckets(byType),
	}, nil
}

// AppointmentsChart renders appointments per month. charts.ErrNoData when
// the user has none.
func (s *DashboardService) AppointmentsChart(ctx context.Context, username string) (string, error) {
	rows, err := s.store.GroupCount(ctx, KindAppointment, username, GroupByMonth)
	if err != nil {
		return "", err
	}
	return charts.Bar("Appointments per Month", "Month", "Appointments", toPoints(rows))
}

func (s *DashboardService) ReportTypesChart(ctx context.Context, username string) (string, error) {
	rows, err := s.store.GroupCount(ctx, KindReport, username, GroupByReportType)
	if err != nil {
		return "", err
	}
	return charts.Pie("Report Types", toPoints(rows))
}

func (s *DashboardService) DailyTip(ctx context.Context) Answer {
	return s.gateway.Ask(ctx, BuildMedicalPrompt(dailyTipQuestion, ""), "General Health", "en")
}

func toBuckets(rows []GroupCount) []dto.Bucket {
	out := make([]dto.Bucket, 0, len(rows))
	for _, r := range rows {
		out = append(out, dto.Bucket{Key: r.Key, Count: r.Count})
	}
	return out
}

func toPoints(rows []GroupCount) []charts.Point {
	out := make([]charts.Point, 0, len(rows))
	for _, r := range rows {
		out = append(out, charts.Point{Label: r.Key, Value: r.Count})
	}
	return out
}
