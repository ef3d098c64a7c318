package wizard

import (
	"context"

	domain "github.com/gretellmoreno/bellagenda-api/internal/domain/appointment"
	"github.com/gretellmoreno/bellagenda-api/internal/models"
)

// Gateway é o contrato que o assistente de agendamento usa para
// falar com o backend. Toda operação é awaited: o rascunho só
// avança depois da resposta, nunca por timer.
type Gateway interface {
	CreateAppointment(ctx context.Context, in CreateInput) (*models.Appointment, error)

	GetAppointment(
		ctx context.Context,
		salonID uint,
		appointmentID uint,
	) (*models.Appointment, error)

	AddServiceToComanda(
		ctx context.Context,
		salonID uint,
		appointmentID uint,
		serviceID domain.ServiceID,
	) (*models.Appointment, error)

	RemoveServiceFromComanda(
		ctx context.Context,
		salonID uint,
		appointmentID uint,
		itemID domain.AppointmentServiceID,
	) (*models.Appointment, error)

	FinalizeComanda(
		ctx context.Context,
		salonID uint,
		appointmentID uint,
		paymentMethodID uint,
	) error

	GetAvailability(
		ctx context.Context,
		professionalID uint,
		dateISO string,
		durationMinutes int,
	) ([]string, error)

	FindOrCreateClient(
		ctx context.Context,
		salonID uint,
		name string,
		phone string,
		email string,
	) (*models.Client, error)

	GetProfessionalByName(
		ctx context.Context,
		salonID uint,
		name string,
	) (*models.Professional, error)

	FirstActiveProfessional(
		ctx context.Context,
		salonID uint,
	) (*models.Professional, error)
}

// CreateInput é o payload de criação submetido pelo assistente.
type CreateInput struct {
	SalonID        uint
	ClientID       *uint
	ProfessionalID uint
	Date           string // YYYY-MM-DD
	StartTime      string // HH:MM:SS
	ServiceIDs     []domain.ServiceID
	ProductIDs     []domain.ProductID
	Notes          string
}
