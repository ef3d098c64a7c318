package appointment

import (
	"context"

	"github.com/gretellmoreno/bellagenda-api/internal/audit"
	domain "github.com/gretellmoreno/bellagenda-api/internal/domain/appointment"
	"github.com/gretellmoreno/bellagenda-api/internal/httperr"
	"github.com/gretellmoreno/bellagenda-api/internal/models"
)

// TransitionAppointment cobre as mudanças simples de status:
// confirmar, iniciar atendimento e marcar não comparecimento.
// Cancelar e finalizar têm use cases próprios.
type TransitionAppointment struct {
	repo  domain.Repository
	audit *audit.Dispatcher
}

func NewTransitionAppointment(
	repo domain.Repository,
	audit *audit.Dispatcher,
) *TransitionAppointment {
	return &TransitionAppointment{
		repo:  repo,
		audit: audit,
	}
}

func (uc *TransitionAppointment) Execute(
	ctx context.Context,
	salonID uint,
	userID uint,
	appointmentID uint,
	action string,
) (*models.Appointment, error) {

	ap, err := uc.repo.GetAppointment(ctx, appointmentID, salonID)
	if err != nil {
		return nil, httperr.ErrBusiness("appointment_not_found")
	}

	switch action {
	case "confirm":
		err = domain.Confirm(ap)
	case "start":
		err = domain.Start(ap)
	case "no_show":
		err = domain.MarkNoShow(ap)
	default:
		return nil, httperr.ErrBusiness("invalid_action")
	}
	if err != nil {
		return nil, err
	}

	if err := uc.repo.UpdateAppointment(ctx, ap); err != nil {
		return nil, err
	}

	uc.audit.Dispatch(audit.Event{
		SalonID:  salonID,
		UserID:   &userID,
		Action:   "appointment_" + action,
		Entity:   "appointment",
		EntityID: &ap.ID,
	})

	return ap, nil
}
