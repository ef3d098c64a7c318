package appointment

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/gretellmoreno/bellagenda-api/internal/httperr"
	"github.com/gretellmoreno/bellagenda-api/internal/models"
)

func TestStatusValidations(t *testing.T) {
	open := []Status{StatusAgendado, StatusConfirmado, StatusEmAndamento}
	closed := []Status{StatusFinalizado, StatusCancelado, StatusNaoCompareceu}

	for _, s := range open {
		assert.NoError(t, CanCancel(s), "cancel em %s", s)
		assert.NoError(t, CanFinalize(s), "finalize em %s", s)
		assert.NoError(t, CanEditComanda(s), "edit em %s", s)
	}

	for _, s := range closed {
		assert.Error(t, CanCancel(s), "cancel em %s", s)
		assert.Error(t, CanFinalize(s), "finalize em %s", s)
		assert.True(t, httperr.IsBusiness(CanEditComanda(s), "comanda_closed"))
	}

	// Confirmar só vale a partir de agendado.
	assert.NoError(t, CanConfirm(StatusAgendado))
	assert.Error(t, CanConfirm(StatusConfirmado))
	assert.Error(t, CanConfirm(StatusFinalizado))

	// Iniciar e não comparecimento valem antes do atendimento.
	for _, s := range []Status{StatusAgendado, StatusConfirmado} {
		assert.NoError(t, CanStart(s))
		assert.NoError(t, CanMarkNoShow(s))
	}
	assert.Error(t, CanStart(StatusEmAndamento))
	assert.Error(t, CanMarkNoShow(StatusEmAndamento))
}

func TestCancelSetsStatusAndTimestamp(t *testing.T) {
	now := time.Date(2025, 3, 10, 15, 0, 0, 0, time.UTC)
	ap := &models.Appointment{Status: string(StatusConfirmado)}

	assert.NoError(t, Cancel(ap, now))
	assert.Equal(t, string(StatusCancelado), ap.Status)
	assert.Equal(t, now, *ap.CancelledAt)

	// Cancelar de novo é inválido.
	assert.Error(t, Cancel(ap, now))
}

func TestFinalizeRecordsPaymentMethod(t *testing.T) {
	now := time.Date(2025, 3, 10, 18, 30, 0, 0, time.UTC)
	ap := &models.Appointment{Status: string(StatusEmAndamento)}

	assert.NoError(t, Finalize(ap, 7, now))
	assert.Equal(t, string(StatusFinalizado), ap.Status)
	assert.Equal(t, uint(7), *ap.PaymentMethodID)
	assert.Equal(t, now, *ap.FinishedAt)
}

func TestTotalSumsServicesAndProducts(t *testing.T) {
	ap := &models.Appointment{
		Services: []models.AppointmentService{
			{Price: 50},
			{Price: 30.5},
		},
		Products: []models.ProductSale{
			{UnitPrice: 10, Quantity: 3},
		},
	}

	assert.Equal(t, 110.5, Total(ap))
}

func TestFallbackGrid(t *testing.T) {
	grid := FallbackGrid()

	// 08:00 até 22:00 inclusive, de 15 em 15 minutos.
	assert.Len(t, grid, 57)
	assert.Equal(t, "08:00", grid[0])
	assert.Equal(t, "08:15", grid[1])
	assert.Equal(t, "22:00", grid[len(grid)-1])
}
