package services

import (
	"context"
	"strings"
	"testing"

	"github.com/ahmetcoskunkizilkaya/healthdesk/internal/charts"
	"github.com/ahmetcoskunkizilkaya/healthdesk/internal/dto"
	"github.com/ahmetcoskunkizilkaya/healthdesk/internal/features"
	"github.com/ahmetcoskunkizilkaya/healthdesk/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSummaryAfterOneBooking(t *testing.T) {
	ctx := context.Background()
	store := newTestRecords(t, "alice")
	req := validBooking()
	req.Date = "2024-05-01"
	_, err := NewAppointmentService(store).Book(ctx, "alice", req)
	require.NoError(t, err)

	svc := NewDashboardService(store, &fakeAsker{})
	summary, err := svc.Summary(ctx, "alice", features.NewFlags("standard"))
	require.NoError(t, err)

	assert.Equal(t, []dto.Metric{
		{Label: "Appointments", Value: 1},
		{Label: "Reports", Value: 0},
		{Label: "Prescriptions", Value: 0},
	}, summary.Metrics)
	assert.Equal(t, []dto.Bucket{{Key: "2024-05", Count: 1}}, summary.AppointmentsPerMonth)
	assert.Empty(t, summary.ReportTypes)
	assert.Len(t, summary.RecentAppointments, 1)
}

func TestSummaryEmergencyCounter(t *testing.T) {
	ctx := context.Background()
	store := newTestRecords(t, "alice")
	for i, emergency := range []bool{true, false, true} {
		_, err := store.InsertAppointment(ctx, &models.Appointment{
			Username:  "alice",
			Date:      []string{"2024-05-01", "2024-05-20", "2024-06-03"}[i],
			Emergency: emergency,
		})
		require.NoError(t, err)
	}

	svc := NewDashboardService(store, &fakeAsker{})
	summary, err := svc.Summary(ctx, "alice", features.NewFlags("clinic", features.EmergencyCounter))
	require.NoError(t, err)
	assert.Equal(t, dto.Metric{Label: "Emergency", Value: 2}, summary.Metrics[2])
	assert.Equal(t, []dto.Bucket{{Key: "2024-05", Count: 2}, {Key: "2024-06", Count: 1}}, summary.AppointmentsPerMonth)
}

func TestSummaryRecentIsCapped(t *testing.T) {
	ctx := context.Background()
	store := newTestRecords(t, "alice")
	for i := 0; i < 7; i++ {
		_, err := store.InsertAppointment(ctx, &models.Appointment{Username: "alice", Date: "2024-05-01"})
		require.NoError(t, err)
	}
	summary, err := NewDashboardService(store, &fakeAsker{}).Summary(ctx, "alice", features.NewFlags("standard"))
	require.NoError(t, err)
	assert.Len(t, summary.RecentAppointments, RecentActivityLimit)
}

func TestChartsWithoutData(t *testing.T) {
	ctx := context.Background()
	svc := NewDashboardService(newTestRecords(t, "alice"), &fakeAsker{})

	_, err := svc.AppointmentsChart(ctx, "alice")
	assert.ErrorIs(t, err, charts.ErrNoData)
	_, err = svc.ReportTypesChart(ctx, "alice")
	assert.ErrorIs(t, err, charts.ErrNoData)
}

func TestReportTypesChart(t *testing.T) {
	ctx := context.Background()
	store := newTestRecords(t, "alice")
	for _, typ := range []string{"MRI", "X-Ray", "MRI"} {
		_, err := store.InsertReport(ctx, &models.MedicalReport{Username: "alice", Name: "r", FileName: "1_r.pdf", Type: typ})
		require.NoError(t, err)
	}

	html, err := NewDashboardService(store, &fakeAsker{}).ReportTypesChart(ctx, "alice")
	require.NoError(t, err)
	assert.True(t, strings.Contains(html, "MRI"))
	assert.True(t, strings.Contains(html, "X-Ray"))
}

func TestDailyTip(t *testing.T) {
	asker := &fakeAsker{answer: Answer{Text: "Walk 20 minutes.", OK: true}}
	tip := NewDashboardService(newTestRecords(t), asker).DailyTip(context.Background())
	assert.Equal(t, "Walk 20 minutes.", tip.Text)
	require.Len(t, asker.calls, 1)
	assert.Contains(t, asker.calls[0].prompt, "daily health tip")
}
