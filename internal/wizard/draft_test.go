package wizard

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	domain "github.com/gretellmoreno/bellagenda-api/internal/domain/appointment"
	"github.com/gretellmoreno/bellagenda-api/internal/httperr"
	"github.com/gretellmoreno/bellagenda-api/internal/models"
)

// ======================================================
// MOCK GATEWAY
// ======================================================

type MockGateway struct {
	mock.Mock
}

func (m *MockGateway) CreateAppointment(ctx context.Context, in CreateInput) (*models.Appointment, error) {
	args := m.Called(ctx, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Appointment), args.Error(1)
}

func (m *MockGateway) GetAppointment(ctx context.Context, salonID, appointmentID uint) (*models.Appointment, error) {
	args := m.Called(ctx, salonID, appointmentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Appointment), args.Error(1)
}

func (m *MockGateway) AddServiceToComanda(ctx context.Context, salonID, appointmentID uint, serviceID domain.ServiceID) (*models.Appointment, error) {
	args := m.Called(ctx, salonID, appointmentID, serviceID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Appointment), args.Error(1)
}

func (m *MockGateway) RemoveServiceFromComanda(ctx context.Context, salonID, appointmentID uint, itemID domain.AppointmentServiceID) (*models.Appointment, error) {
	args := m.Called(ctx, salonID, appointmentID, itemID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Appointment), args.Error(1)
}

func (m *MockGateway) FinalizeComanda(ctx context.Context, salonID, appointmentID, paymentMethodID uint) error {
	args := m.Called(ctx, salonID, appointmentID, paymentMethodID)
	return args.Error(0)
}

func (m *MockGateway) GetAvailability(ctx context.Context, professionalID uint, dateISO string, durationMinutes int) ([]string, error) {
	args := m.Called(ctx, professionalID, dateISO, durationMinutes)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

func (m *MockGateway) FindOrCreateClient(ctx context.Context, salonID uint, name, phone, email string) (*models.Client, error) {
	args := m.Called(ctx, salonID, name, phone, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Client), args.Error(1)
}

func (m *MockGateway) GetProfessionalByName(ctx context.Context, salonID uint, name string) (*models.Professional, error) {
	args := m.Called(ctx, salonID, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Professional), args.Error(1)
}

func (m *MockGateway) FirstActiveProfessional(ctx context.Context, salonID uint) (*models.Professional, error) {
	args := m.Called(ctx, salonID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Professional), args.Error(1)
}

func corteService() SelectedService {
	return SelectedService{ID: 1, Name: "Corte", Price: 50, EstimatedTime: 45}
}

func escovaService() SelectedService {
	return SelectedService{ID: 2, Name: "Escova", Price: 30}
}

// ======================================================
// INTEGRIDADE DO RASCUNHO
// ======================================================

func TestToggleServiceKeepsAssignmentsConsistent(t *testing.T) {
	gw := new(MockGateway)
	d := NewDraft(10, Defaults{})
	ctx := context.Background()

	assert.NoError(t, d.ToggleService(ctx, gw, corteService()))
	assert.NoError(t, d.ToggleService(ctx, gw, escovaService()))
	assert.Equal(t, StepConfirmation, d.Step)

	d.SelectProfessional(7)
	assert.Equal(t, domain.ProfessionalID(7), d.Assignments[1])
	assert.Equal(t, domain.ProfessionalID(7), d.Assignments[2])

	// Desmarcar um serviço apaga a atribuição dele.
	assert.NoError(t, d.ToggleService(ctx, gw, corteService()))
	assert.Len(t, d.Services, 1)
	assert.NotContains(t, d.Assignments, domain.ServiceID(1))
	assert.Contains(t, d.Assignments, domain.ServiceID(2))

	// Sem serviço nenhum a etapa volta para a seleção.
	assert.NoError(t, d.ToggleService(ctx, gw, escovaService()))
	assert.Empty(t, d.Services)
	assert.Equal(t, StepService, d.Step)

	gw.AssertNotCalled(t, "AddServiceToComanda")
}

func TestOverlaysDoNotResetStep(t *testing.T) {
	gw := new(MockGateway)
	d := NewDraft(10, Defaults{})
	ctx := context.Background()

	assert.NoError(t, d.ToggleService(ctx, gw, corteService()))
	assert.Equal(t, StepConfirmation, d.Step)

	d.OpenClientSelection()
	assert.True(t, d.ShowClientSelection)
	assert.Equal(t, StepConfirmation, d.Step)

	d.SelectClient(33)
	assert.False(t, d.ShowClientSelection)
	assert.Equal(t, StepConfirmation, d.Step)
	assert.Equal(t, uint(33), *d.ClientID)
}

func TestClientChoicesAreMutuallyExclusive(t *testing.T) {
	d := NewDraft(10, Defaults{})

	d.SelectClient(33)
	d.SetClientName("Maria")
	assert.Nil(t, d.ClientID)
	assert.Equal(t, "Maria", d.ClientName)
	assert.False(t, d.NoClient)

	d.ChooseNoClient()
	assert.Nil(t, d.ClientID)
	assert.Empty(t, d.ClientName)
	assert.True(t, d.NoClient)
}

func TestNavigationOnlyLeavesConfirmation(t *testing.T) {
	gw := new(MockGateway)
	d := NewDraft(10, Defaults{})
	ctx := context.Background()

	// Fora da confirmação a navegação é no-op.
	d.GoToAddProduct()
	assert.Equal(t, StepService, d.Step)

	assert.NoError(t, d.ToggleService(ctx, gw, corteService()))
	d.GoToAddProduct()
	assert.Equal(t, StepProduct, d.Step)

	d.ToggleProduct(SelectedProduct{ID: 5, Name: "Pomada", Price: 25})
	assert.Equal(t, StepConfirmation, d.Step)
	assert.Equal(t, 1, d.Products[0].Quantity)
}

// ======================================================
// DISPONIBILIDADE
// ======================================================

func TestAvailableSlotsPreselectedSkipsRemoteQuery(t *testing.T) {
	gw := new(MockGateway)
	d := NewDraft(10, Defaults{Date: "2025-03-10", Time: "14:30"})

	slots := d.AvailableSlots(context.Background(), gw)

	assert.Equal(t, []string{"14:30"}, slots)
	gw.AssertNotCalled(t, "GetAvailability")
}

func TestAvailableSlotsFallsBackWithoutProfessional(t *testing.T) {
	gw := new(MockGateway)
	d := NewDraft(10, Defaults{})
	ctx := context.Background()

	assert.NoError(t, d.ToggleService(ctx, gw, corteService()))
	d.SetDateTime("2025-03-10", "")

	slots := d.AvailableSlots(ctx, gw)

	assert.Len(t, slots, 57)
	assert.Equal(t, "08:00", slots[0])
	assert.Equal(t, "22:00", slots[len(slots)-1])
	gw.AssertNotCalled(t, "GetAvailability")
}

func TestAvailableSlotsQueriesWithSummedDuration(t *testing.T) {
	gw := new(MockGateway)
	d := NewDraft(10, Defaults{})
	ctx := context.Background()

	assert.NoError(t, d.ToggleService(ctx, gw, corteService()))  // 45 min
	assert.NoError(t, d.ToggleService(ctx, gw, escovaService())) // sem estimativa → 30 min
	d.SelectProfessional(7)
	d.SetDateTime("2025-03-10", "")

	gw.On("GetAvailability", mock.Anything, uint(7), "2025-03-10", 75).
		Return([]string{"09:00", "09:15"}, nil)

	assert.Equal(t, []string{"09:00", "09:15"}, d.AvailableSlots(ctx, gw))
	gw.AssertExpectations(t)
}

func TestAvailableSlotsResolvesPreselectedProfessionalByName(t *testing.T) {
	gw := new(MockGateway)
	d := NewDraft(10, Defaults{ProfessionalName: "Ana"})
	ctx := context.Background()

	assert.NoError(t, d.ToggleService(ctx, gw, corteService()))
	d.SetDateTime("2025-03-10", "")

	gw.On("GetProfessionalByName", mock.Anything, uint(10), "Ana").
		Return(&models.Professional{ID: 4, Name: "Ana"}, nil)
	gw.On("GetAvailability", mock.Anything, uint(4), "2025-03-10", 45).
		Return([]string{"10:00", "10:15"}, nil)

	assert.Equal(t, []string{"10:00", "10:15"}, d.AvailableSlots(ctx, gw))
	gw.AssertExpectations(t)
}

func TestAvailableSlotsFallsBackOnError(t *testing.T) {
	gw := new(MockGateway)
	d := NewDraft(10, Defaults{})
	ctx := context.Background()

	assert.NoError(t, d.ToggleService(ctx, gw, corteService()))
	d.SelectProfessional(7)
	d.SetDateTime("2025-03-10", "")

	gw.On("GetAvailability", mock.Anything, uint(7), "2025-03-10", 45).
		Return(nil, errors.New("timeout"))

	slots := d.AvailableSlots(ctx, gw)
	assert.Len(t, slots, 57)
	assert.Equal(t, "08:00", slots[0])
}

// ======================================================
// SUBMISSÃO
// ======================================================

func TestSubmitValidations(t *testing.T) {
	gw := new(MockGateway)
	ctx := context.Background()

	d := NewDraft(10, Defaults{})
	_, err := d.Submit(ctx, gw)
	assert.True(t, httperr.IsBusiness(err, "no_services_selected"))

	assert.NoError(t, d.ToggleService(ctx, gw, corteService()))
	_, err = d.Submit(ctx, gw)
	assert.True(t, httperr.IsBusiness(err, "time_required"))

	d2 := NewDraft(0, Defaults{Date: "2025-03-10", Time: "14:30"})
	assert.NoError(t, d2.ToggleService(ctx, gw, corteService()))
	_, err = d2.Submit(ctx, gw)
	assert.True(t, httperr.IsBusiness(err, "salon_not_resolved"))

	gw.AssertNotCalled(t, "CreateAppointment")
}

func TestSubmitPreselectedSlotAndProfessional(t *testing.T) {
	gw := new(MockGateway)
	ctx := context.Background()

	d := NewDraft(10, Defaults{
		Date:             "2025-03-10",
		Time:             "14:30",
		ProfessionalName: "Ana",
	})
	assert.NoError(t, d.ToggleService(ctx, gw, corteService()))

	gw.On("GetProfessionalByName", mock.Anything, uint(10), "Ana").
		Return(&models.Professional{ID: 4, Name: "Ana"}, nil)
	gw.On("CreateAppointment", mock.Anything, mock.MatchedBy(func(in CreateInput) bool {
		return in.SalonID == 10 &&
			in.ProfessionalID == 4 &&
			in.Date == "2025-03-10" &&
			in.StartTime == "14:30:00" &&
			len(in.ServiceIDs) == 1 && in.ServiceIDs[0] == 1
	})).Return(&models.Appointment{ID: 99}, nil)

	ap, err := d.Submit(ctx, gw)
	assert.NoError(t, err)
	assert.Equal(t, uint(99), ap.ID)
	assert.True(t, d.Submitted)
	gw.AssertExpectations(t)
}

func TestSubmitFallsBackToFirstActiveProfessional(t *testing.T) {
	gw := new(MockGateway)
	ctx := context.Background()

	d := NewDraft(10, Defaults{Date: "2025-03-10", Time: "10:00"})
	assert.NoError(t, d.ToggleService(ctx, gw, corteService()))

	gw.On("FirstActiveProfessional", mock.Anything, uint(10)).
		Return(&models.Professional{ID: 2}, nil)
	gw.On("CreateAppointment", mock.Anything, mock.MatchedBy(func(in CreateInput) bool {
		return in.ProfessionalID == 2
	})).Return(&models.Appointment{ID: 1}, nil)

	_, err := d.Submit(ctx, gw)
	assert.NoError(t, err)
	gw.AssertExpectations(t)
}

func TestSubmitNoClientUsesFixedNotes(t *testing.T) {
	gw := new(MockGateway)
	ctx := context.Background()

	d := NewDraft(10, Defaults{Date: "2025-03-10", Time: "10:00"})
	assert.NoError(t, d.ToggleService(ctx, gw, corteService()))
	d.SelectProfessional(7)
	d.ChooseNoClient()

	gw.On("CreateAppointment", mock.Anything, mock.MatchedBy(func(in CreateInput) bool {
		return in.ClientID == nil && in.Notes == "Atendimento sem cliente cadastrado"
	})).Return(&models.Appointment{ID: 1}, nil)

	_, err := d.Submit(ctx, gw)
	assert.NoError(t, err)
	gw.AssertExpectations(t)
}

func TestSubmitTypedNameCreatesClient(t *testing.T) {
	gw := new(MockGateway)
	ctx := context.Background()

	d := NewDraft(10, Defaults{Date: "2025-03-10", Time: "10:00"})
	assert.NoError(t, d.ToggleService(ctx, gw, corteService()))
	d.SelectProfessional(7)
	d.SetClientName("Maria Silva")

	gw.On("FindOrCreateClient", mock.Anything, uint(10), "Maria Silva", "", "").
		Return(&models.Client{ID: 55}, nil)
	gw.On("CreateAppointment", mock.Anything, mock.MatchedBy(func(in CreateInput) bool {
		return in.ClientID != nil && *in.ClientID == 55
	})).Return(&models.Appointment{ID: 1}, nil)

	_, err := d.Submit(ctx, gw)
	assert.NoError(t, err)
	gw.AssertExpectations(t)
}

// Submissão dupla em voo não enfileira: exatamente uma criação.
func TestConcurrentSubmitCreatesOnce(t *testing.T) {
	gw := new(MockGateway)
	ctx := context.Background()

	d := NewDraft(10, Defaults{Date: "2025-03-10", Time: "10:00"})
	assert.NoError(t, d.ToggleService(ctx, gw, corteService()))
	d.SelectProfessional(7)

	gw.On("CreateAppointment", mock.Anything, mock.Anything).
		Run(func(mock.Arguments) { time.Sleep(30 * time.Millisecond) }).
		Return(&models.Appointment{ID: 1}, nil)

	var wg sync.WaitGroup
	var okCount, blockedCount int
	var mu sync.Mutex

	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := d.Submit(ctx, gw)
			mu.Lock()
			defer mu.Unlock()
			if err == nil {
				okCount++
			} else if httperr.IsBusiness(err, "submission_in_flight") {
				blockedCount++
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, okCount)
	assert.Equal(t, 1, blockedCount)
	gw.AssertNumberOfCalls(t, "CreateAppointment", 1)
}

func TestSubmitFailureAllowsRetry(t *testing.T) {
	gw := new(MockGateway)
	ctx := context.Background()

	d := NewDraft(10, Defaults{Date: "2025-03-10", Time: "10:00"})
	assert.NoError(t, d.ToggleService(ctx, gw, corteService()))
	d.SelectProfessional(7)

	gw.On("CreateAppointment", mock.Anything, mock.Anything).
		Return(nil, errors.New("down")).Once()
	gw.On("CreateAppointment", mock.Anything, mock.Anything).
		Return(&models.Appointment{ID: 1}, nil).Once()

	_, err := d.Submit(ctx, gw)
	assert.Error(t, err)
	assert.False(t, d.Submitted)

	_, err = d.Submit(ctx, gw)
	assert.NoError(t, err)
	assert.True(t, d.Submitted)
}

// ======================================================
// MODO EDIÇÃO (COMANDA)
// ======================================================

func TestEditModeToggleServiceAwaitsRemoteMutation(t *testing.T) {
	gw := new(MockGateway)
	ctx := context.Background()
	apID := uint(40)

	d := NewDraft(10, Defaults{EditingAppointmentID: &apID})

	gw.On("AddServiceToComanda", mock.Anything, uint(10), apID, domain.ServiceID(1)).
		Return(&models.Appointment{
			Services: []models.AppointmentService{
				{ID: 701, ServiceID: 1, Name: "Corte"},
			},
		}, nil)

	assert.NoError(t, d.ToggleService(ctx, gw, corteService()))
	assert.Equal(t, domain.AppointmentServiceID(701), d.Services[0].ItemID)

	// A remoção usa o ID da linha devolvido pela adição.
	gw.On("RemoveServiceFromComanda", mock.Anything, uint(10), apID, domain.AppointmentServiceID(701)).
		Return(&models.Appointment{}, nil)

	assert.NoError(t, d.ToggleService(ctx, gw, corteService()))
	assert.Empty(t, d.Services)
	gw.AssertExpectations(t)
}

func TestEditModeToggleServiceKeepsDraftOnRemoteError(t *testing.T) {
	gw := new(MockGateway)
	ctx := context.Background()
	apID := uint(40)

	d := NewDraft(10, Defaults{EditingAppointmentID: &apID})

	gw.On("AddServiceToComanda", mock.Anything, uint(10), apID, domain.ServiceID(1)).
		Return(nil, errors.New("down"))

	assert.Error(t, d.ToggleService(ctx, gw, corteService()))
	assert.Empty(t, d.Services)
}

func TestEditModeContinueReloadsComandaWithoutCreating(t *testing.T) {
	gw := new(MockGateway)
	ctx := context.Background()
	apID := uint(40)

	d := NewDraft(10, Defaults{EditingAppointmentID: &apID})

	gw.On("AddServiceToComanda", mock.Anything, uint(10), apID, domain.ServiceID(1)).
		Return(&models.Appointment{
			ID:       apID,
			Services: []models.AppointmentService{{ID: 701, ServiceID: 1, Name: "Corte"}},
		}, nil)
	assert.NoError(t, d.ToggleService(ctx, gw, corteService()))
	assert.Equal(t, StepConfirmation, d.Step)

	// Os itens já estão na comanda; concluir recarrega a comanda
	// existente — mesmo sem data/hora no rascunho — e nunca cria
	// um agendamento novo.
	gw.On("GetAppointment", mock.Anything, uint(10), apID).
		Return(&models.Appointment{
			ID:       apID,
			Services: []models.AppointmentService{{ID: 701, ServiceID: 1, Name: "Corte"}},
		}, nil)

	ap, err := d.Continue(ctx, gw)
	assert.NoError(t, err)
	assert.Equal(t, apID, ap.ID)
	assert.True(t, d.Submitted)
	gw.AssertNotCalled(t, "CreateAppointment")
	gw.AssertExpectations(t)
}

func TestEditModeContinueRemoteErrorKeepsDraftOpen(t *testing.T) {
	gw := new(MockGateway)
	ctx := context.Background()
	apID := uint(40)

	d := NewDraft(10, Defaults{EditingAppointmentID: &apID})

	gw.On("AddServiceToComanda", mock.Anything, uint(10), apID, domain.ServiceID(1)).
		Return(&models.Appointment{
			Services: []models.AppointmentService{{ID: 701, ServiceID: 1}},
		}, nil)
	assert.NoError(t, d.ToggleService(ctx, gw, corteService()))

	gw.On("GetAppointment", mock.Anything, uint(10), apID).
		Return(nil, errors.New("down"))

	_, err := d.Continue(ctx, gw)
	assert.Error(t, err)
	assert.False(t, d.Submitted)
}

func TestFinalizePaymentRequiresComandaAndMethod(t *testing.T) {
	gw := new(MockGateway)
	ctx := context.Background()

	d := NewDraft(10, Defaults{})
	err := d.FinalizePayment(ctx, gw)
	assert.True(t, httperr.IsBusiness(err, "not_a_comanda"))

	apID := uint(40)
	d = NewDraft(10, Defaults{EditingAppointmentID: &apID})
	err = d.FinalizePayment(ctx, gw)
	assert.True(t, httperr.IsBusiness(err, "payment_method_required"))

	d.SelectPaymentMethod(3)
	gw.On("FinalizeComanda", mock.Anything, uint(10), apID, uint(3)).Return(nil)

	assert.NoError(t, d.FinalizePayment(ctx, gw))
	assert.True(t, d.Submitted)
	gw.AssertExpectations(t)
}
