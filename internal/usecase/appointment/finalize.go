package appointment

import (
	"context"

	"github.com/gretellmoreno/bellagenda-api/internal/audit"
	domain "github.com/gretellmoreno/bellagenda-api/internal/domain/appointment"
	"github.com/gretellmoreno/bellagenda-api/internal/httperr"
	"github.com/gretellmoreno/bellagenda-api/internal/models"
	"github.com/gretellmoreno/bellagenda-api/internal/payment"
	"github.com/gretellmoreno/bellagenda-api/internal/timezone"
)

type FinalizeComandaInput struct {
	SalonID         uint
	UserID          uint
	AppointmentID   uint
	PaymentMethodID uint
}

// FinalizeComanda fecha a comanda: método de pagamento
// obrigatório; métodos online passam pelo processador.
type FinalizeComanda struct {
	repo      domain.Repository
	processor payment.Processor
	audit     *audit.Dispatcher
}

func NewFinalizeComanda(
	repo domain.Repository,
	processor payment.Processor,
	audit *audit.Dispatcher,
) *FinalizeComanda {
	return &FinalizeComanda{
		repo:      repo,
		processor: processor,
		audit:     audit,
	}
}

func (uc *FinalizeComanda) Execute(
	ctx context.Context,
	in FinalizeComandaInput,
) (*models.Appointment, error) {

	if in.PaymentMethodID == 0 {
		return nil, httperr.ErrBusiness("payment_method_required")
	}

	salon, err := uc.repo.GetSalonByID(ctx, in.SalonID)
	if err != nil {
		return nil, err
	}

	pm, err := uc.repo.GetPaymentMethod(ctx, in.SalonID, in.PaymentMethodID)
	if err != nil {
		return nil, httperr.ErrBusiness("payment_method_not_found")
	}

	ap, err := uc.repo.GetAppointment(ctx, in.AppointmentID, in.SalonID)
	if err != nil {
		return nil, httperr.ErrBusiness("appointment_not_found")
	}

	if err := domain.CanFinalize(domain.Status(ap.Status)); err != nil {
		return nil, err
	}

	if pm.Online {
		email := ""
		if ap.Client != nil {
			email = ap.Client.Email
		}

		if _, err := uc.processor.Charge(ctx, payment.ChargeInput{
			Amount:      domain.Total(ap),
			Description: "Comanda " + salon.Name,
			PayerEmail:  email,
		}); err != nil {
			return nil, httperr.ErrBusiness("payment_failed")
		}
	}

	now := timezone.NowIn(salon.Timezone)
	if err := domain.Finalize(ap, pm.ID, now); err != nil {
		return nil, err
	}

	if err := uc.repo.UpdateAppointment(ctx, ap); err != nil {
		return nil, err
	}

	uc.audit.Dispatch(audit.Event{
		SalonID:  in.SalonID,
		UserID:   &in.UserID,
		Action:   "comanda_finalized",
		Entity:   "appointment",
		EntityID: &ap.ID,
	})

	return ap, nil
}
