package appointment

import (
	"time"

	"github.com/gretellmoreno/bellagenda-api/internal/models"
)

// ===============================
// Domain Actions
// ===============================

func Cancel(ap *models.Appointment, now time.Time) error {
	if err := CanCancel(Status(ap.Status)); err != nil {
		return err
	}

	ap.Status = string(StatusCancelado)
	ap.CancelledAt = &now
	return nil
}

func Confirm(ap *models.Appointment) error {
	if err := CanConfirm(Status(ap.Status)); err != nil {
		return err
	}

	ap.Status = string(StatusConfirmado)
	return nil
}

func Start(ap *models.Appointment) error {
	if err := CanStart(Status(ap.Status)); err != nil {
		return err
	}

	ap.Status = string(StatusEmAndamento)
	return nil
}

func Finalize(ap *models.Appointment, paymentMethodID uint, now time.Time) error {
	if err := CanFinalize(Status(ap.Status)); err != nil {
		return err
	}

	ap.Status = string(StatusFinalizado)
	ap.PaymentMethodID = &paymentMethodID
	ap.FinishedAt = &now
	return nil
}

func MarkNoShow(ap *models.Appointment) error {
	if err := CanMarkNoShow(Status(ap.Status)); err != nil {
		return err
	}

	ap.Status = string(StatusNaoCompareceu)
	return nil
}

// Total soma serviços e produtos da comanda.
func Total(ap *models.Appointment) float64 {
	var total float64
	for _, s := range ap.Services {
		total += s.Price
	}
	for _, p := range ap.Products {
		total += p.UnitPrice * float64(p.Quantity)
	}
	return total
}
