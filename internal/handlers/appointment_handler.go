package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	domain "github.com/gretellmoreno/bellagenda-api/internal/domain/appointment"
	"github.com/gretellmoreno/bellagenda-api/internal/dto"
	"github.com/gretellmoreno/bellagenda-api/internal/httperr"
	"github.com/gretellmoreno/bellagenda-api/internal/middleware"
	"github.com/gretellmoreno/bellagenda-api/internal/models"
	uc "github.com/gretellmoreno/bellagenda-api/internal/usecase/appointment"
)

type AppointmentHandler struct {
	create       *uc.CreateAppointment
	cancel       *uc.CancelAppointment
	transition   *uc.TransitionAppointment
	listByDate   *uc.ListAppointmentsByDate
	listByMonth  *uc.ListAppointmentsByMonth
	availability *uc.GetAvailability
	repo         domain.Repository
}

func NewAppointmentHandler(
	create *uc.CreateAppointment,
	cancel *uc.CancelAppointment,
	transition *uc.TransitionAppointment,
	listByDate *uc.ListAppointmentsByDate,
	listByMonth *uc.ListAppointmentsByMonth,
	availability *uc.GetAvailability,
	repo domain.Repository,
) *AppointmentHandler {
	return &AppointmentHandler{
		create:       create,
		cancel:       cancel,
		transition:   transition,
		listByDate:   listByDate,
		listByMonth:  listByMonth,
		availability: availability,
		repo:         repo,
	}
}

// ======================================================
// CREATE — agendamento interno (painel)
// ======================================================

type CreateAppointmentRequest struct {
	ProfessionalID uint   `json:"professional_id" binding:"required"`
	ClientID       *uint  `json:"client_id"`
	ClientName     string `json:"client_name"`
	ClientPhone    string `json:"client_phone"`
	ClientEmail    string `json:"client_email"`
	ServiceIDs     []uint `json:"service_ids" binding:"required"`
	ProductIDs     []uint `json:"product_ids"`
	Date           string `json:"date" binding:"required"`
	Time           string `json:"time" binding:"required"`
	Notes          string `json:"notes"`
}

func (h *AppointmentHandler) Create(c *gin.Context) {
	salonID := c.MustGet(middleware.ContextSalonID).(uint)

	var req CreateAppointmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Dados inválidos.")
		return
	}

	serviceIDs := make([]domain.ServiceID, 0, len(req.ServiceIDs))
	for _, id := range req.ServiceIDs {
		serviceIDs = append(serviceIDs, domain.ServiceID(id))
	}
	productIDs := make([]domain.ProductID, 0, len(req.ProductIDs))
	for _, id := range req.ProductIDs {
		productIDs = append(productIDs, domain.ProductID(id))
	}

	ap, err := h.create.Execute(c.Request.Context(), uc.CreateAppointmentInput{
		SalonID:        salonID,
		ProfessionalID: req.ProfessionalID,
		ClientID:       req.ClientID,
		ClientName:     req.ClientName,
		ClientPhone:    req.ClientPhone,
		ClientEmail:    req.ClientEmail,
		ServiceIDs:     serviceIDs,
		ProductIDs:     productIDs,
		Date:           req.Date,
		Time:           req.Time,
		Notes:          req.Notes,
		SkipMinAdvance: true,
	})
	if err != nil {
		writeUsecaseError(c, err, "failed_to_create_appointment", "Erro ao criar agendamento.")
		return
	}

	c.JSON(http.StatusCreated, ap)
}

// ======================================================
// AGENDA — dia e mês
// ======================================================

func (h *AppointmentHandler) ListByDate(c *gin.Context) {
	salonID := c.MustGet(middleware.ContextSalonID).(uint)
	date := c.Query("date")

	appointments, err := h.listByDate.Execute(c.Request.Context(), salonID, date)
	if err != nil {
		writeUsecaseError(c, err, "failed_to_list_appointments", "Erro ao listar agendamentos.")
		return
	}

	events := make([]dto.AgendaEventDTO, 0, len(appointments))
	for _, ap := range appointments {
		events = append(events, agendaEvent(ap))
	}

	c.JSON(http.StatusOK, events)
}

func (h *AppointmentHandler) ListByMonth(c *gin.Context) {
	salonID := c.MustGet(middleware.ContextSalonID).(uint)

	year, errY := strconv.Atoi(c.Query("year"))
	month, errM := strconv.Atoi(c.Query("month"))
	if errY != nil || errM != nil {
		httperr.BadRequest(c, "invalid_request", "Informe year e month numéricos.")
		return
	}

	appointments, err := h.listByMonth.Execute(c.Request.Context(), salonID, year, month)
	if err != nil {
		writeUsecaseError(c, err, "failed_to_list_appointments", "Erro ao listar agendamentos.")
		return
	}

	events := make([]dto.AgendaEventDTO, 0, len(appointments))
	for _, ap := range appointments {
		events = append(events, agendaEvent(ap))
	}

	c.JSON(http.StatusOK, events)
}

func agendaEvent(ap models.Appointment) dto.AgendaEventDTO {
	names := make([]string, 0, len(ap.Services))
	for _, s := range ap.Services {
		names = append(names, s.Name)
	}

	clientName := "Sem cliente"
	if ap.Client != nil {
		clientName = ap.Client.Name
	}

	return dto.AgendaEventDTO{
		ID:               ap.ID,
		StartTime:        ap.StartTime,
		EndTime:          ap.EndTime,
		Status:           ap.Status,
		ClientName:       clientName,
		ProfessionalID:   ap.ProfessionalID,
		ProfessionalName: ap.Professional.Name,
		ServiceNames:     names,
	}
}

// ======================================================
// DETAILS
// ======================================================

func (h *AppointmentHandler) GetDetails(c *gin.Context) {
	salonID := c.MustGet(middleware.ContextSalonID).(uint)

	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		httperr.BadRequest(c, "invalid_request", "ID inválido.")
		return
	}

	ap, err := h.repo.GetAppointment(c.Request.Context(), uint(id), salonID)
	if err != nil {
		httperr.NotFound(c, "appointment_not_found", "Agendamento não encontrado.")
		return
	}

	c.JSON(http.StatusOK, ap)
}

// ======================================================
// AVAILABILITY
// ======================================================

func (h *AppointmentHandler) GetAvailability(c *gin.Context) {
	salonID := c.MustGet(middleware.ContextSalonID).(uint)

	proID, err := strconv.ParseUint(c.Query("professional_id"), 10, 64)
	if err != nil {
		httperr.BadRequest(c, "invalid_request", "Informe professional_id.")
		return
	}

	salon, err := h.repo.GetSalonByID(c.Request.Context(), salonID)
	if err != nil {
		httperr.NotFound(c, "salon_not_found", "Salão não encontrado.")
		return
	}

	date, err := parseDateInSalon(salon, c.Query("date"))
	if err != nil {
		httperr.BadRequest(c, "invalid_date", "Data inválida.")
		return
	}

	duration, _ := strconv.Atoi(c.Query("duration"))

	slots, err := h.availability.Execute(c.Request.Context(), domain.AvailabilityInput{
		SalonID:         salonID,
		ProfessionalID:  uint(proID),
		Date:            date,
		DurationMinutes: duration,
	})
	if err != nil {
		writeUsecaseError(c, err, "failed_to_get_availability", "Erro ao consultar horários.")
		return
	}

	c.JSON(http.StatusOK, gin.H{"slots": slots})
}

// ======================================================
// CANCEL — exige confirmação explícita
// ======================================================

type CancelAppointmentRequest struct {
	Confirmed bool `json:"confirmed"`
}

func (h *AppointmentHandler) Cancel(c *gin.Context) {
	salonID := c.MustGet(middleware.ContextSalonID).(uint)
	userID := c.MustGet(middleware.ContextUserID).(uint)

	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		httperr.BadRequest(c, "invalid_request", "ID inválido.")
		return
	}

	var req CancelAppointmentRequest
	_ = c.ShouldBindJSON(&req)

	ap, err := h.cancel.Execute(c.Request.Context(), uc.CancelAppointmentInput{
		SalonID:       salonID,
		UserID:        userID,
		AppointmentID: uint(id),
		Confirmed:     req.Confirmed,
	})
	if err != nil {
		// Sem confirmação o use case devolve o resumo junto
		// com o erro, para montar o prompt no cliente.
		if httperr.IsBusiness(err, "confirmation_required") && ap != nil {
			c.JSON(http.StatusOK, gin.H{
				"confirmation_required": true,
				"appointment":           ap,
			})
			return
		}
		writeUsecaseError(c, err, "failed_to_cancel_appointment", "Erro ao cancelar agendamento.")
		return
	}

	c.JSON(http.StatusOK, ap)
}

// ======================================================
// TRANSITIONS — confirm | start | no_show
// ======================================================

func (h *AppointmentHandler) Transition(c *gin.Context) {
	salonID := c.MustGet(middleware.ContextSalonID).(uint)
	userID := c.MustGet(middleware.ContextUserID).(uint)

	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		httperr.BadRequest(c, "invalid_request", "ID inválido.")
		return
	}

	action := c.Param("action")

	ap, err := h.transition.Execute(c.Request.Context(), salonID, userID, uint(id), action)
	if err != nil {
		writeUsecaseError(c, err, "failed_to_update_appointment", "Erro ao atualizar agendamento.")
		return
	}

	c.JSON(http.StatusOK, ap)
}
