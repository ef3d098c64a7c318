package appointment

import "github.com/gretellmoreno/bellagenda-api/internal/httperr"

// ===============================
// Appointment Status
// ===============================

type Status string

const (
	StatusAgendado      Status = "agendado"
	StatusConfirmado    Status = "confirmado"
	StatusEmAndamento   Status = "em_andamento"
	StatusFinalizado    Status = "finalizado"
	StatusCancelado     Status = "cancelado"
	StatusNaoCompareceu Status = "nao_compareceu"
)

func isOpen(s Status) bool {
	switch s {
	case StatusAgendado, StatusConfirmado, StatusEmAndamento:
		return true
	}
	return false
}

// ===============================
// Validations
// ===============================

// CanCancel define se um agendamento pode ser cancelado
func CanCancel(current Status) error {
	if !isOpen(current) {
		return httperr.ErrBusiness("invalid_state")
	}
	return nil
}

// CanConfirm: só agendamentos ainda não confirmados
func CanConfirm(current Status) error {
	if current != StatusAgendado {
		return httperr.ErrBusiness("invalid_state")
	}
	return nil
}

// CanStart: o atendimento começa a partir de agendado/confirmado
func CanStart(current Status) error {
	if current != StatusAgendado && current != StatusConfirmado {
		return httperr.ErrBusiness("invalid_state")
	}
	return nil
}

// CanFinalize define se a comanda pode ser fechada
func CanFinalize(current Status) error {
	if !isOpen(current) {
		return httperr.ErrBusiness("invalid_state")
	}
	return nil
}

// CanMarkNoShow: cliente não compareceu
func CanMarkNoShow(current Status) error {
	if current != StatusAgendado && current != StatusConfirmado {
		return httperr.ErrBusiness("invalid_state")
	}
	return nil
}

// CanEditComanda: itens só mudam enquanto a comanda está aberta
func CanEditComanda(current Status) error {
	if !isOpen(current) {
		return httperr.ErrBusiness("comanda_closed")
	}
	return nil
}

func InitialStatus() Status {
	return StatusAgendado
}
