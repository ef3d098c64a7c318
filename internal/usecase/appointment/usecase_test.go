package appointment

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"gorm.io/gorm"

	"github.com/gretellmoreno/bellagenda-api/internal/audit"
	domain "github.com/gretellmoreno/bellagenda-api/internal/domain/appointment"
	"github.com/gretellmoreno/bellagenda-api/internal/httperr"
	"github.com/gretellmoreno/bellagenda-api/internal/models"
	"github.com/gretellmoreno/bellagenda-api/internal/timezone"
)

// MockRepo implementa só os métodos que cada teste exercita; o
// embedding cobre o restante do contrato.
type MockRepo struct {
	mock.Mock
	domain.Repository
}

func (m *MockRepo) GetSalonByID(ctx context.Context, id uint) (*models.Salon, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Salon), args.Error(1)
}

func (m *MockRepo) GetAppointment(ctx context.Context, appointmentID, salonID uint) (*models.Appointment, error) {
	args := m.Called(ctx, appointmentID, salonID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Appointment), args.Error(1)
}

func (m *MockRepo) UpdateAppointment(ctx context.Context, ap *models.Appointment) error {
	args := m.Called(ctx, ap)
	return args.Error(0)
}

func (m *MockRepo) GetService(ctx context.Context, salonID uint, serviceID domain.ServiceID) (*models.Service, error) {
	args := m.Called(ctx, salonID, serviceID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Service), args.Error(1)
}

func (m *MockRepo) GetProfessional(ctx context.Context, salonID, professionalID uint) (*models.Professional, error) {
	args := m.Called(ctx, salonID, professionalID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Professional), args.Error(1)
}

func (m *MockRepo) GetWorkingHours(ctx context.Context, professionalID uint, weekday int) (*models.WorkingHours, error) {
	args := m.Called(ctx, professionalID, weekday)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.WorkingHours), args.Error(1)
}

func (m *MockRepo) ListAppointmentsForDay(ctx context.Context, professionalID uint, start, end time.Time) ([]models.Appointment, error) {
	args := m.Called(ctx, professionalID, start, end)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Appointment), args.Error(1)
}

func testDispatcher() *audit.Dispatcher {
	return audit.NewDispatcher(audit.New(nil))
}

// ======================================================
// CANCELAMENTO
// ======================================================

func TestCancelWithoutConfirmationReturnsSummary(t *testing.T) {
	repo := new(MockRepo)
	uc := NewCancelAppointment(repo, testDispatcher())

	ap := &models.Appointment{ID: 5, Status: "confirmado"}
	repo.On("GetSalonByID", mock.Anything, uint(10)).
		Return(&models.Salon{ID: 10}, nil)
	repo.On("GetAppointment", mock.Anything, uint(5), uint(10)).
		Return(ap, nil)

	got, err := uc.Execute(context.Background(), CancelAppointmentInput{
		SalonID:       10,
		UserID:        1,
		AppointmentID: 5,
		Confirmed:     false,
	})

	// O resumo volta junto com o erro para montar o prompt,
	// e nada foi alterado.
	assert.True(t, httperr.IsBusiness(err, "confirmation_required"))
	assert.Equal(t, ap, got)
	assert.Equal(t, "confirmado", ap.Status)
	repo.AssertNotCalled(t, "UpdateAppointment")
}

func TestCancelConfirmedPersistsCancellation(t *testing.T) {
	repo := new(MockRepo)
	uc := NewCancelAppointment(repo, testDispatcher())

	ap := &models.Appointment{ID: 5, Status: "agendado"}
	repo.On("GetSalonByID", mock.Anything, uint(10)).
		Return(&models.Salon{ID: 10}, nil)
	repo.On("GetAppointment", mock.Anything, uint(5), uint(10)).
		Return(ap, nil)
	repo.On("UpdateAppointment", mock.Anything, ap).Return(nil)

	got, err := uc.Execute(context.Background(), CancelAppointmentInput{
		SalonID:       10,
		UserID:        1,
		AppointmentID: 5,
		Confirmed:     true,
	})

	assert.NoError(t, err)
	assert.Equal(t, "cancelado", got.Status)
	assert.NotNil(t, got.CancelledAt)
	repo.AssertExpectations(t)
}

func TestCancelClosedAppointmentFails(t *testing.T) {
	repo := new(MockRepo)
	uc := NewCancelAppointment(repo, testDispatcher())

	repo.On("GetSalonByID", mock.Anything, uint(10)).
		Return(&models.Salon{ID: 10}, nil)
	repo.On("GetAppointment", mock.Anything, uint(5), uint(10)).
		Return(&models.Appointment{ID: 5, Status: "finalizado"}, nil)

	_, err := uc.Execute(context.Background(), CancelAppointmentInput{
		SalonID:       10,
		AppointmentID: 5,
		Confirmed:     true,
	})

	assert.True(t, httperr.IsBusiness(err, "invalid_state"))
	repo.AssertNotCalled(t, "UpdateAppointment")
}

// ======================================================
// DISPONIBILIDADE
// ======================================================

func TestAvailabilitySkipsConflictsAndLunch(t *testing.T) {
	repo := new(MockRepo)
	uc := NewGetAvailability(repo)

	loc := timezone.Location("")
	// Segunda-feira.
	date := time.Date(2025, 3, 10, 0, 0, 0, 0, loc)

	repo.On("GetWorkingHours", mock.Anything, uint(7), 1).
		Return(&models.WorkingHours{
			Active:    true,
			StartTime: "09:00",
			EndTime:   "13:00",
		}, nil)

	// Atendimento existente das 10:00 às 10:30.
	busyStart := time.Date(2025, 3, 10, 10, 0, 0, 0, loc)
	busyEnd := busyStart.Add(30 * time.Minute)
	repo.On("ListAppointmentsForDay", mock.Anything, uint(7), mock.Anything, mock.Anything).
		Return([]models.Appointment{
			{StartTime: busyStart, EndTime: &busyEnd},
		}, nil)

	slots, err := uc.Execute(context.Background(), domain.AvailabilityInput{
		ProfessionalID:  7,
		Date:            date,
		DurationMinutes: 30,
	})

	assert.NoError(t, err)
	assert.Equal(t, []string{
		"09:00", "09:15", "09:30",
		"10:30", "10:45", "11:00", "11:15", "11:30",
		"11:45", "12:00", "12:15", "12:30",
	}, slots)
}

func TestAvailabilityLunchBreakIsBlocked(t *testing.T) {
	repo := new(MockRepo)
	uc := NewGetAvailability(repo)

	loc := timezone.Location("")
	date := time.Date(2025, 3, 10, 0, 0, 0, 0, loc)

	repo.On("GetWorkingHours", mock.Anything, uint(7), 1).
		Return(&models.WorkingHours{
			Active:     true,
			StartTime:  "11:00",
			EndTime:    "14:00",
			LunchStart: "12:00",
			LunchEnd:   "13:00",
		}, nil)
	repo.On("ListAppointmentsForDay", mock.Anything, uint(7), mock.Anything, mock.Anything).
		Return([]models.Appointment{}, nil)

	slots, err := uc.Execute(context.Background(), domain.AvailabilityInput{
		ProfessionalID:  7,
		Date:            date,
		DurationMinutes: 30,
	})

	assert.NoError(t, err)
	assert.Equal(t, []string{
		"11:00", "11:15", "11:30",
		"13:00", "13:15", "13:30",
	}, slots)
}

func TestAvailabilityInactiveDayIsEmpty(t *testing.T) {
	repo := new(MockRepo)
	uc := NewGetAvailability(repo)

	date := time.Date(2025, 3, 10, 0, 0, 0, 0, timezone.Location(""))

	repo.On("GetWorkingHours", mock.Anything, uint(7), 1).
		Return(&models.WorkingHours{Active: false}, nil)

	slots, err := uc.Execute(context.Background(), domain.AvailabilityInput{
		ProfessionalID:  7,
		Date:            date,
		DurationMinutes: 30,
	})

	assert.NoError(t, err)
	assert.Empty(t, slots)
}

// ======================================================
// CRIAÇÃO — ANTECEDÊNCIA MÍNIMA
// ======================================================

func TestCreateRejectsTimeBelowMinAdvance(t *testing.T) {
	repo := new(MockRepo)
	uc := NewCreateAppointment(repo, testDispatcher())

	repo.On("GetSalonByID", mock.Anything, uint(10)).
		Return(&models.Salon{ID: 10, MinAdvanceMinutes: 120}, nil)

	_, err := uc.Execute(context.Background(), CreateAppointmentInput{
		SalonID:        10,
		ProfessionalID: 7,
		ServiceIDs:     []domain.ServiceID{1},
		Date:           "2020-01-01",
		Time:           "10:00",
		SkipMinAdvance: false,
	})

	assert.True(t, httperr.IsBusiness(err, "too_soon"))
}

// O profissional tem que ser do salão do chamador: sem isso um
// fluxo público poderia agendar contra profissional de outro
// tenant, já que horário e conflito são checados só por ID.
func TestCreateRejectsProfessionalFromAnotherSalon(t *testing.T) {
	repo := new(MockRepo)
	uc := NewCreateAppointment(repo, testDispatcher())

	repo.On("GetSalonByID", mock.Anything, uint(10)).
		Return(&models.Salon{ID: 10, Timezone: "America/Sao_Paulo"}, nil)
	repo.On("GetService", mock.Anything, uint(10), domain.ServiceID(1)).
		Return(&models.Service{ID: 1, Name: "Corte", EstimatedTime: 45}, nil)
	repo.On("GetProfessional", mock.Anything, uint(10), uint(99)).
		Return(nil, gorm.ErrRecordNotFound)

	_, err := uc.Execute(context.Background(), CreateAppointmentInput{
		SalonID:        10,
		ProfessionalID: 99,
		ServiceIDs:     []domain.ServiceID{1},
		Date:           "2030-03-10",
		Time:           "10:00",
		SkipMinAdvance: true,
	})

	assert.True(t, httperr.IsBusiness(err, "professional_not_found"))
	repo.AssertNotCalled(t, "IsWithinWorkingHours")
	repo.AssertNotCalled(t, "CreateAppointment")
}

func TestCreateRequiresAtLeastOneService(t *testing.T) {
	repo := new(MockRepo)
	uc := NewCreateAppointment(repo, testDispatcher())

	_, err := uc.Execute(context.Background(), CreateAppointmentInput{
		SalonID:        10,
		ProfessionalID: 7,
		Date:           "2025-03-10",
		Time:           "10:00",
	})

	assert.True(t, httperr.IsBusiness(err, "no_services_selected"))
	repo.AssertNotCalled(t, "GetSalonByID")
}
