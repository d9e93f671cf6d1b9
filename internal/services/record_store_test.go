package services

import (
	"context"
	"testing"
	"time"

	"github.com/ahmetcoskunkizilkaya/healthdesk/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRecords(t *testing.T, users ...string) *RecordStore {
	t.Helper()
	db := newTestDB(t)
	for _, u := range users {
		createUser(t, db, u)
	}
	store := NewRecordStore(db)
	store.now = fixedClock(time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC))
	return store
}

func TestInsertAppointmentListsNewestFirst(t *testing.T) {
	ctx := context.Background()
	store := newTestRecords(t, "alice", "bob")

	firstID, err := store.InsertAppointment(ctx, &models.Appointment{Username: "alice", Department: "Dentist", Date: "2024-05-01"})
	require.NoError(t, err)
	secondID, err := store.InsertAppointment(ctx, &models.Appointment{Username: "alice", Department: "Cardiologist", Date: "2024-06-01"})
	require.NoError(t, err)
	_, err = store.InsertAppointment(ctx, &models.Appointment{Username: "bob", Department: "ENT Specialist", Date: "2024-06-01"})
	require.NoError(t, err)
	assert.Greater(t, secondID, firstID)

	rows, err := store.ListAppointments(ctx, "alice", 0)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, secondID, rows[0].ID)
	assert.Equal(t, "Confirmed", rows[0].Status)
	assert.Equal(t, "2024-05-01 09:01", rows[0].CreatedAt)
	for _, r := range rows {
		assert.Equal(t, "alice", r.Username)
	}

	limited, err := store.ListAppointments(ctx, "alice", 1)
	require.NoError(t, err)
	assert.Len(t, limited, 1)
}

func TestListOrdersTiesByID(t *testing.T) {
	ctx := context.Background()
	store := newTestRecords(t, "alice")
	store.now = func() time.Time { return time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC) }

	a, err := store.InsertPrescription(ctx, "alice", "cough", "honey")
	require.NoError(t, err)
	b, err := store.InsertPrescription(ctx, "alice", "cold", "rest")
	require.NoError(t, err)

	rows, err := store.ListPrescriptions(ctx, "alice", 0)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, b.ID, rows[0].ID)
	assert.Equal(t, a.ID, rows[1].ID)
}

func TestListEmptyIsNotNil(t *testing.T) {
	store := newTestRecords(t)
	rows, err := store.ListReports(context.Background(), "nobody", 0)
	require.NoError(t, err)
	assert.NotNil(t, rows)
	assert.Empty(t, rows)
}

func TestInsertRequiresExistingUser(t *testing.T) {
	store := newTestRecords(t)
	_, err := store.InsertAppointment(context.Background(), &models.Appointment{Username: "ghost"})
	assert.Error(t, err)
}

func TestDeleteByIDIsIdempotent(t *testing.T) {
	ctx := context.Background()
	store := newTestRecords(t, "alice")
	p, err := store.InsertPrescription(ctx, "alice", "cough", "honey")
	require.NoError(t, err)

	require.NoError(t, store.DeleteByID(ctx, KindPrescription, 9999))
	n, err := store.CountByUser(ctx, KindPrescription, "alice")
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)

	require.NoError(t, store.DeleteByID(ctx, KindPrescription, p.ID))
	require.NoError(t, store.DeleteByID(ctx, KindPrescription, p.ID))
	n, err = store.CountByUser(ctx, KindPrescription, "alice")
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestDeleteOwnedLeavesOtherUsersRows(t *testing.T) {
	ctx := context.Background()
	store := newTestRecords(t, "alice", "bob")
	p, err := store.InsertPrescription(ctx, "bob", "cough", "honey")
	require.NoError(t, err)

	require.NoError(t, store.DeleteOwned(ctx, KindPrescription, "alice", p.ID))
	_, err = store.GetPrescription(ctx, "bob", p.ID)
	assert.NoError(t, err)
	_, err = store.GetPrescription(ctx, "alice", p.ID)
	assert.ErrorIs(t, err, ErrRecordNotFound)
}

func TestUnknownKind(t *testing.T) {
	store := newTestRecords(t)
	_, err := store.CountByUser(context.Background(), EntityKind("invoice"), "alice")
	assert.ErrorIs(t, err, ErrUnknownKind)
}

func TestGroupCount(t *testing.T) {
	ctx := context.Background()
	store := newTestRecords(t, "alice")
	for _, date := range []string{"2024-06-10", "2024-05-01", "2024-05-20"} {
		_, err := store.InsertAppointment(ctx, &models.Appointment{Username: "alice", Date: date})
		require.NoError(t, err)
	}
	for _, typ := range []string{"X-Ray", "Blood Test", "X-Ray"} {
		_, err := store.InsertReport(ctx, &models.MedicalReport{Username: "alice", FileName: "f.pdf", Type: typ})
		require.NoError(t, err)
	}

	months, err := store.GroupCount(ctx, KindAppointment, "alice", GroupByMonth)
	require.NoError(t, err)
	assert.Equal(t, []GroupCount{{Key: "2024-05", Count: 2}, {Key: "2024-06", Count: 1}}, months)

	types, err := store.GroupCount(ctx, KindReport, "alice", GroupByReportType)
	require.NoError(t, err)
	assert.Equal(t, []GroupCount{{Key: "Blood Test", Count: 1}, {Key: "X-Ray", Count: 2}}, types)

	_, err = store.GroupCount(ctx, KindPrescription, "alice", GroupByMonth)
	assert.ErrorIs(t, err, ErrUnsupportedGroupBy)
}

func TestCountEmergencies(t *testing.T) {
	ctx := context.Background()
	store := newTestRecords(t, "alice")
	for _, emergency := range []bool{true, false, true} {
		_, err := store.InsertAppointment(ctx, &models.Appointment{Username: "alice", Emergency: emergency})
		require.NoError(t, err)
	}
	n, err := store.CountEmergencies(ctx, "alice")
	require.NoError(t, err)
	assert.EqualValues(t, 2, n)
}
