package appointments

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/H3nrYP0/optica-api/pkg/db/models"
	"github.com/H3nrYP0/optica-api/pkg/enums"
	pkgerrors "github.com/H3nrYP0/optica-api/pkg/errors"
)

func setupAppointmentsTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	conn, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{})
	require.NoError(t, err)

	require.NoError(t, conn.AutoMigrate(
		&models.Client{},
		&models.Employee{},
		&models.Service{},
		&models.AppointmentStatus{},
		&models.Appointment{},
	))
	require.NoError(t, conn.Create(&models.AppointmentStatus{ID: 1, Name: "scheduled"}).Error)
	require.NoError(t, conn.Create(&models.AppointmentStatus{ID: 2, Name: "completed"}).Error)
	return conn
}

func newTestService(t *testing.T, conn *gorm.DB) Service {
	t.Helper()

	svc, err := NewService(NewRepository(conn))
	require.NoError(t, err)
	return svc
}

func seedOffering(t *testing.T, svc Service, duration int) *models.Service {
	t.Helper()

	offering, err := svc.CreateOffering(context.Background(), OfferingInput{
		Name:            "Eye exam",
		DurationMinutes: duration,
		Price:           decimal.NewFromInt(30),
	})
	require.NoError(t, err)
	return offering
}

func TestBookAppointment(t *testing.T) {
	conn := setupAppointmentsTestDB(t)
	svc := newTestService(t, conn)
	offering := seedOffering(t, svc, 30)

	appointment, err := svc.Book(context.Background(), BookInput{
		ClientID:      1,
		ServiceID:     offering.ID,
		EmployeeID:    1,
		StatusID:      1,
		PaymentMethod: enums.PaymentMethodCash,
		Date:          time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC),
		StartTime:     "10:00",
	})
	require.NoError(t, err)

	assert.Equal(t, 30, appointment.DurationMinutes)
	assert.Equal(t, "10:00", appointment.StartTime)
}

func TestBookRejectsOverlap(t *testing.T) {
	conn := setupAppointmentsTestDB(t)
	svc := newTestService(t, conn)
	offering := seedOffering(t, svc, 60)
	day := time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC)

	_, err := svc.Book(context.Background(), BookInput{
		ClientID: 1, ServiceID: offering.ID, EmployeeID: 1, StatusID: 1,
		Date: day, StartTime: "10:00",
	})
	require.NoError(t, err)

	// 10:30 overlaps the 10:00-11:00 slot
	_, err = svc.Book(context.Background(), BookInput{
		ClientID: 2, ServiceID: offering.ID, EmployeeID: 1, StatusID: 1,
		Date: day, StartTime: "10:30",
	})
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeConflict, pkgerrors.As(err).Code())

	// back-to-back is fine
	_, err = svc.Book(context.Background(), BookInput{
		ClientID: 2, ServiceID: offering.ID, EmployeeID: 1, StatusID: 1,
		Date: day, StartTime: "11:00",
	})
	require.NoError(t, err)

	// another employee is free
	_, err = svc.Book(context.Background(), BookInput{
		ClientID: 2, ServiceID: offering.ID, EmployeeID: 2, StatusID: 1,
		Date: day, StartTime: "10:30",
	})
	require.NoError(t, err)
}

func TestBookValidatesTimeFormat(t *testing.T) {
	conn := setupAppointmentsTestDB(t)
	svc := newTestService(t, conn)
	offering := seedOffering(t, svc, 30)

	_, err := svc.Book(context.Background(), BookInput{
		ClientID: 1, ServiceID: offering.ID, EmployeeID: 1, StatusID: 1,
		Date: time.Now(), StartTime: "25:99",
	})
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeValidation, pkgerrors.As(err).Code())
}

func TestUpdateAppointmentStatus(t *testing.T) {
	conn := setupAppointmentsTestDB(t)
	svc := newTestService(t, conn)
	offering := seedOffering(t, svc, 30)

	appointment, err := svc.Book(context.Background(), BookInput{
		ClientID: 1, ServiceID: offering.ID, EmployeeID: 1, StatusID: 1,
		Date: time.Date(2026, 9, 2, 0, 0, 0, 0, time.UTC), StartTime: "09:00",
	})
	require.NoError(t, err)

	updated, err := svc.UpdateAppointmentStatus(context.Background(), appointment.ID, 2)
	require.NoError(t, err)
	assert.Equal(t, uint(2), updated.StatusID)

	_, err = svc.UpdateAppointmentStatus(context.Background(), appointment.ID, 42)
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeValidation, pkgerrors.As(err).Code())
}

func TestDisabledOfferingIsNotBookable(t *testing.T) {
	conn := setupAppointmentsTestDB(t)
	svc := newTestService(t, conn)
	offering := seedOffering(t, svc, 30)

	require.NoError(t, svc.DisableOffering(context.Background(), offering.ID))

	_, err := svc.Book(context.Background(), BookInput{
		ClientID: 1, ServiceID: offering.ID, EmployeeID: 1, StatusID: 1,
		Date: time.Date(2026, 9, 4, 0, 0, 0, 0, time.UTC), StartTime: "10:00",
	})
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeStateConflict, pkgerrors.As(err).Code())
}

func TestDurationSnapshotSurvivesOfferingEdit(t *testing.T) {
	conn := setupAppointmentsTestDB(t)
	svc := newTestService(t, conn)
	offering := seedOffering(t, svc, 30)

	appointment, err := svc.Book(context.Background(), BookInput{
		ClientID: 1, ServiceID: offering.ID, EmployeeID: 1, StatusID: 1,
		Date: time.Date(2026, 9, 3, 0, 0, 0, 0, time.UTC), StartTime: "09:00",
	})
	require.NoError(t, err)

	_, err = svc.UpdateOffering(context.Background(), offering.ID, OfferingInput{
		Name:            "Eye exam extended",
		DurationMinutes: 90,
		Price:           decimal.NewFromInt(45),
	})
	require.NoError(t, err)

	reloaded, err := svc.GetAppointment(context.Background(), appointment.ID)
	require.NoError(t, err)
	assert.Equal(t, 30, reloaded.DurationMinutes)
}
