package appointment

import (
	"context"
	"fmt"
	"time"

	"github.com/gretellmoreno/bellagenda-api/internal/cache"
	domain "github.com/gretellmoreno/bellagenda-api/internal/domain/appointment"
	"github.com/gretellmoreno/bellagenda-api/internal/models"
	"github.com/gretellmoreno/bellagenda-api/internal/timezone"
	"github.com/gretellmoreno/bellagenda-api/internal/wizard"
)

// Gateway liga o assistente de agendamento aos use cases. Uma
// instância por requisição, amarrada ao usuário autenticado.
type Gateway struct {
	repo         domain.Repository
	create       *CreateAppointment
	comanda      *EditComanda
	finalize     *FinalizeComanda
	availability *GetAvailability
	cache        *cache.Cache

	UserID uint
}

func NewGateway(
	repo domain.Repository,
	create *CreateAppointment,
	comanda *EditComanda,
	finalize *FinalizeComanda,
	availability *GetAvailability,
	c *cache.Cache,
	userID uint,
) *Gateway {
	return &Gateway{
		repo:         repo,
		create:       create,
		comanda:      comanda,
		finalize:     finalize,
		availability: availability,
		cache:        c,
		UserID:       userID,
	}
}

var _ wizard.Gateway = (*Gateway)(nil)

func (g *Gateway) CreateAppointment(
	ctx context.Context,
	in wizard.CreateInput,
) (*models.Appointment, error) {
	return g.create.Execute(ctx, CreateAppointmentInput{
		SalonID:        in.SalonID,
		ProfessionalID: in.ProfessionalID,
		ClientID:       in.ClientID,
		ServiceIDs:     in.ServiceIDs,
		ProductIDs:     in.ProductIDs,
		Date:           in.Date,
		Time:           in.StartTime,
		Notes:          in.Notes,
		SkipMinAdvance: true, // fluxo interno agenda para já
	})
}

func (g *Gateway) GetAppointment(
	ctx context.Context,
	salonID uint,
	appointmentID uint,
) (*models.Appointment, error) {
	return g.repo.GetAppointment(ctx, appointmentID, salonID)
}

func (g *Gateway) AddServiceToComanda(
	ctx context.Context,
	salonID uint,
	appointmentID uint,
	serviceID domain.ServiceID,
) (*models.Appointment, error) {
	return g.comanda.AddService(ctx, salonID, g.UserID, appointmentID, serviceID)
}

func (g *Gateway) RemoveServiceFromComanda(
	ctx context.Context,
	salonID uint,
	appointmentID uint,
	itemID domain.AppointmentServiceID,
) (*models.Appointment, error) {
	return g.comanda.RemoveService(ctx, salonID, g.UserID, appointmentID, itemID)
}

func (g *Gateway) FinalizeComanda(
	ctx context.Context,
	salonID uint,
	appointmentID uint,
	paymentMethodID uint,
) error {
	_, err := g.finalize.Execute(ctx, FinalizeComandaInput{
		SalonID:         salonID,
		UserID:          g.UserID,
		AppointmentID:   appointmentID,
		PaymentMethodID: paymentMethodID,
	})
	return err
}

// GetAvailability consulta com cache curto: a agenda muda o tempo
// todo, mas dentro de um fluxo de marcação 60s de staleness é ok.
func (g *Gateway) GetAvailability(
	ctx context.Context,
	professionalID uint,
	dateISO string,
	durationMinutes int,
) ([]string, error) {

	key := fmt.Sprintf("availability:%d:%s:%d", professionalID, dateISO, durationMinutes)

	var cached []string
	if g.cache != nil && g.cache.Get(ctx, key, &cached) {
		return cached, nil
	}

	date, err := time.ParseInLocation("2006-01-02", dateISO, timezone.Location(""))
	if err != nil {
		return nil, err
	}

	slots, err := g.availability.Execute(ctx, domain.AvailabilityInput{
		ProfessionalID:  professionalID,
		Date:            date,
		DurationMinutes: durationMinutes,
	})
	if err != nil {
		return nil, err
	}

	if g.cache != nil {
		g.cache.Set(ctx, key, slots, time.Minute)
	}
	return slots, nil
}

func (g *Gateway) FindOrCreateClient(
	ctx context.Context,
	salonID uint,
	name string,
	phone string,
	email string,
) (*models.Client, error) {
	return g.repo.GetOrCreateClient(ctx, salonID, name, phone, email)
}

func (g *Gateway) GetProfessionalByName(
	ctx context.Context,
	salonID uint,
	name string,
) (*models.Professional, error) {
	return g.repo.GetProfessionalByName(ctx, salonID, name)
}

func (g *Gateway) FirstActiveProfessional(
	ctx context.Context,
	salonID uint,
) (*models.Professional, error) {
	return g.repo.FirstActiveProfessional(ctx, salonID)
}
