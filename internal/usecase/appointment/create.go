package appointment

import (
	"context"
	"time"

	"github.com/gretellmoreno/bellagenda-api/internal/audit"
	domain "github.com/gretellmoreno/bellagenda-api/internal/domain/appointment"
	"github.com/gretellmoreno/bellagenda-api/internal/httperr"
	"github.com/gretellmoreno/bellagenda-api/internal/models"
	"github.com/gretellmoreno/bellagenda-api/internal/timezone"
)

// ======================================================
// INPUT
// ======================================================

type CreateAppointmentInput struct {
	SalonID        uint
	ProfessionalID uint

	// ClientID nulo + ClientName vazio = "sem cliente".
	ClientID    *uint
	ClientName  string
	ClientPhone string
	ClientEmail string

	ServiceIDs []domain.ServiceID
	ProductIDs []domain.ProductID

	Date  string // YYYY-MM-DD
	Time  string // HH:MM ou HH:MM:SS
	Notes string

	// Agendamento interno pula a antecedência mínima do fluxo público.
	SkipMinAdvance bool
}

// ======================================================
// USE CASE
// ======================================================

type CreateAppointment struct {
	repo  domain.Repository
	audit *audit.Dispatcher
}

func NewCreateAppointment(
	repo domain.Repository,
	audit *audit.Dispatcher,
) *CreateAppointment {
	return &CreateAppointment{
		repo:  repo,
		audit: audit,
	}
}

// ======================================================
// EXECUTE
// ======================================================

func (uc *CreateAppointment) Execute(
	ctx context.Context,
	in CreateAppointmentInput,
) (*models.Appointment, error) {

	if len(in.ServiceIDs) == 0 {
		return nil, httperr.ErrBusiness("no_services_selected")
	}

	// --------------------------------------------------
	// 1. Salão
	// --------------------------------------------------
	salon, err := uc.repo.GetSalonByID(ctx, in.SalonID)
	if err != nil {
		return nil, err
	}

	// --------------------------------------------------
	// 2. Data / hora no timezone do salão
	// --------------------------------------------------
	hm := in.Time
	if len(hm) == len("15:04:05") {
		hm = hm[:5]
	}

	start, err := time.ParseInLocation(
		"2006-01-02 15:04",
		in.Date+" "+hm,
		timezone.Location(salon.Timezone),
	)
	if err != nil {
		return nil, httperr.ErrBusiness("invalid_date_or_time")
	}

	// --------------------------------------------------
	// 3. Antecedência mínima (só fluxo público)
	// --------------------------------------------------
	if !in.SkipMinAdvance {
		minAdvance := salon.MinAdvanceMinutes
		if minAdvance <= 0 {
			minAdvance = 120
		}

		now := timezone.NowIn(salon.Timezone)
		if start.Before(now.Add(time.Duration(minAdvance) * time.Minute)) {
			return nil, httperr.ErrBusiness("too_soon")
		}
	}

	// --------------------------------------------------
	// 4. Serviços → duração total e linhas da comanda
	// --------------------------------------------------
	var (
		items    []models.AppointmentService
		duration int
	)
	for _, id := range in.ServiceIDs {
		svc, err := uc.repo.GetService(ctx, in.SalonID, id)
		if err != nil {
			return nil, httperr.ErrBusiness("service_not_found")
		}

		est := svc.EstimatedTime
		if est <= 0 {
			est = domain.DefaultServiceDurationMin
		}
		duration += est

		items = append(items, models.AppointmentService{
			ServiceID:   svc.ID,
			Name:        svc.Name,
			Price:       svc.Price,
			DurationMin: est,
		})
	}

	end := start.Add(time.Duration(duration) * time.Minute)

	// --------------------------------------------------
	// 5. Produtos de varejo (opcionais)
	// --------------------------------------------------
	var sales []models.ProductSale
	for _, id := range in.ProductIDs {
		product, err := uc.repo.GetProduct(ctx, in.SalonID, id)
		if err != nil {
			return nil, httperr.ErrBusiness("product_not_found")
		}
		sales = append(sales, models.ProductSale{
			ProductID: product.ID,
			Name:      product.Name,
			UnitPrice: product.Price,
			Quantity:  1,
		})
	}

	// --------------------------------------------------
	// 6. Profissional do salão + working hours + almoço
	// --------------------------------------------------
	// O profissional tem que pertencer ao salão: as checagens de
	// horário abaixo são por profissional, sem filtro de tenant.
	if _, err := uc.repo.GetProfessional(ctx, in.SalonID, in.ProfessionalID); err != nil {
		return nil, httperr.ErrBusiness("professional_not_found")
	}

	ok, err := uc.repo.IsWithinWorkingHours(
		ctx,
		in.ProfessionalID,
		start,
		end,
	)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, httperr.ErrBusiness("outside_working_hours")
	}

	// --------------------------------------------------
	// 7. Cliente
	// --------------------------------------------------
	clientID := in.ClientID
	notes := in.Notes
	if clientID == nil && in.ClientName != "" {
		client, err := uc.repo.GetOrCreateClient(
			ctx,
			in.SalonID,
			in.ClientName,
			in.ClientPhone,
			in.ClientEmail,
		)
		if err != nil {
			return nil, err
		}
		clientID = &client.ID
	}

	// --------------------------------------------------
	// 8. Conflito de horário
	// --------------------------------------------------
	if err := uc.repo.AssertNoTimeConflict(
		ctx,
		in.ProfessionalID,
		start,
		end,
	); err != nil {
		return nil, err
	}

	// --------------------------------------------------
	// 9. Criação (status centralizado no domínio)
	// --------------------------------------------------
	ap := &models.Appointment{
		SalonID:        in.SalonID,
		ProfessionalID: in.ProfessionalID,
		ClientID:       clientID,
		StartTime:      start,
		EndTime:        &end,
		Status:         string(domain.InitialStatus()),
		Notes:          notes,
		Services:       items,
		Products:       sales,
	}

	if err := uc.repo.CreateAppointment(ctx, ap); err != nil {
		return nil, err
	}

	// --------------------------------------------------
	// 10. Auditoria
	// --------------------------------------------------
	uc.audit.Dispatch(audit.Event{
		SalonID:  in.SalonID,
		UserID:   &in.ProfessionalID,
		Action:   "appointment_created",
		Entity:   "appointment",
		EntityID: &ap.ID,
	})

	return ap, nil
}
