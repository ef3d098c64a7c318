package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/gretellmoreno/bellagenda-api/internal/httperr"
)

// Mensagens dos erros de negócio que os use cases devolvem.
// Códigos fora da tabela viram 400 com o próprio código.
var businessMessages = map[string]string{
	"no_services_selected":      "Selecione ao menos um serviço.",
	"salon_not_resolved":        "Salão não identificado.",
	"time_required":             "Escolha um horário.",
	"time_conflict":             "Conflito de horário.",
	"invalid_date":              "Data inválida.",
	"invalid_date_or_time":      "Data ou horário inválidos.",
	"invalid_year":              "Ano inválido.",
	"invalid_month":             "Mês inválido.",
	"invalid_action":            "Ação inválida.",
	"invalid_item_type":         "Tipo de item inválido.",
	"invalid_state":             "Status atual não permite essa operação.",
	"invalid_step":              "Passo inválido para essa operação.",
	"too_soon":                  "Horário abaixo da antecedência mínima do salão.",
	"outside_working_hours":     "Fora do horário de trabalho do profissional.",
	"no_working_hours":          "Profissional sem horário cadastrado para esse dia.",
	"no_professional_available": "Nenhum profissional disponível.",
	"not_a_comanda":             "O agendamento ainda não virou comanda.",
	"comanda_closed":            "A comanda já foi fechada.",
	"confirmation_required":     "Confirme o cancelamento para prosseguir.",
	"submission_in_flight":      "O agendamento já está sendo enviado.",
	"payment_method_required":   "Escolha uma forma de pagamento.",
	"payment_failed":            "Falha ao processar o pagamento.",
	"appointment_not_found":     "Agendamento não encontrado.",
	"service_not_found":         "Serviço não encontrado.",
	"product_not_found":         "Produto não encontrado.",
	"professional_not_found":    "Profissional não encontrado.",
	"client_not_found":          "Cliente não encontrado.",
	"payment_method_not_found":  "Forma de pagamento não encontrada.",
	"item_not_found":            "Item não encontrado na comanda.",
	"salon_not_found":           "Salão não encontrado.",
	"draft_not_found":           "Sessão de agendamento expirada.",
	"public_booking_disabled":   "Este salão não aceita agendamento online.",
}

var businessNotFound = map[string]bool{
	"appointment_not_found":    true,
	"service_not_found":        true,
	"product_not_found":        true,
	"professional_not_found":   true,
	"client_not_found":         true,
	"payment_method_not_found": true,
	"item_not_found":           true,
	"salon_not_found":          true,
	"draft_not_found":          true,
}

// writeUsecaseError traduz o erro de um use case para a resposta
// HTTP. Erros que não são de negócio viram 500 com fallbackCode.
func writeUsecaseError(c *gin.Context, err error, fallbackCode, fallbackMsg string) {
	code, ok := httperr.BusinessCode(err)
	if !ok {
		httperr.Internal(c, fallbackCode, fallbackMsg)
		return
	}

	msg, known := businessMessages[code]
	if !known {
		msg = "Operação não permitida."
	}

	switch {
	case businessNotFound[code]:
		httperr.NotFound(c, code, msg)
	case code == "time_conflict":
		httperr.Conflict(c, code, msg)
	default:
		httperr.BadRequest(c, code, msg)
	}
}
