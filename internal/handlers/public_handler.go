package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"

	domain "github.com/gretellmoreno/bellagenda-api/internal/domain/appointment"
	"github.com/gretellmoreno/bellagenda-api/internal/httperr"
	"github.com/gretellmoreno/bellagenda-api/internal/models"
	uc "github.com/gretellmoreno/bellagenda-api/internal/usecase/appointment"
)

////////////////////////////////////////////////////////
// HANDLER
////////////////////////////////////////////////////////

// O cliente recorrente é identificado pelo header X-Booking-Token,
// um uuid durável emitido no primeiro agendamento. Sem token o
// fluxo pede nome e telefone de novo.
const bookingTokenHeader = "X-Booking-Token"

type PublicHandler struct {
	db           *gorm.DB
	create       *uc.CreateAppointment
	availability *uc.GetAvailability
}

func NewPublicHandler(
	db *gorm.DB,
	create *uc.CreateAppointment,
	availability *uc.GetAvailability,
) *PublicHandler {
	return &PublicHandler{
		db:           db,
		create:       create,
		availability: availability,
	}
}

func (h *PublicHandler) salonBySlug(c *gin.Context) (*models.Salon, bool) {
	var salon models.Salon
	if err := h.db.Where("subdomain = ?", c.Param("slug")).First(&salon).Error; err != nil {
		httperr.NotFound(c, "salon_not_found", "Salão não encontrado.")
		return nil, false
	}
	return &salon, true
}

////////////////////////////////////////////////////////
// CATALOG
////////////////////////////////////////////////////////

func (h *PublicHandler) ListServices(c *gin.Context) {
	salon, ok := h.salonBySlug(c)
	if !ok {
		return
	}

	var services []models.Service
	if err := h.db.
		Where("salon_id = ? AND active = true", salon.ID).
		Order("name ASC").
		Find(&services).Error; err != nil {

		httperr.Internal(c, "failed_to_list_services", "Erro ao listar serviços.")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"salon":    salon,
		"services": services,
	})
}

func (h *PublicHandler) ListProfessionals(c *gin.Context) {
	salon, ok := h.salonBySlug(c)
	if !ok {
		return
	}

	var pros []models.Professional
	if err := h.db.
		Where("salon_id = ? AND active = true", salon.ID).
		Order("name ASC").
		Find(&pros).Error; err != nil {

		httperr.Internal(c, "failed_to_list_professionals", "Erro ao listar profissionais.")
		return
	}

	c.JSON(http.StatusOK, pros)
}

////////////////////////////////////////////////////////
// AVAILABILITY (REUSO TOTAL DO USE CASE)
////////////////////////////////////////////////////////

func (h *PublicHandler) Availability(c *gin.Context) {
	dateStr := c.Query("date")
	proIDStr := c.Query("professional_id")

	if dateStr == "" || proIDStr == "" {
		httperr.BadRequest(c, "missing_params", "Data e profissional obrigatórios.")
		return
	}

	proID, err := strconv.ParseUint(proIDStr, 10, 64)
	if err != nil {
		httperr.BadRequest(c, "invalid_request", "Profissional inválido.")
		return
	}

	salon, ok := h.salonBySlug(c)
	if !ok {
		return
	}

	date, err := parseDateInSalon(salon, dateStr)
	if err != nil {
		httperr.BadRequest(c, "invalid_date", "Data inválida.")
		return
	}

	duration, _ := strconv.Atoi(c.Query("duration"))

	slots, err := h.availability.Execute(c.Request.Context(), domain.AvailabilityInput{
		SalonID:         salon.ID,
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

////////////////////////////////////////////////////////
// BOOKING
////////////////////////////////////////////////////////

type PublicCreateAppointmentRequest struct {
	ClientName  string `json:"client_name"`
	ClientPhone string `json:"client_phone"`
	ClientEmail string `json:"client_email"`

	ProfessionalID uint   `json:"professional_id" binding:"required"`
	ServiceIDs     []uint `json:"service_ids" binding:"required"`
	Date           string `json:"date" binding:"required"` // YYYY-MM-DD
	Time           string `json:"time" binding:"required"` // HH:mm
	Notes          string `json:"notes"`
}

func (h *PublicHandler) CreateBooking(c *gin.Context) {
	salon, ok := h.salonBySlug(c)
	if !ok {
		return
	}

	if !salon.PublicBookingEnabled {
		httperr.Forbidden(c, "public_booking_disabled", "Este salão não aceita agendamento online.")
		return
	}

	var req PublicCreateAppointmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Dados inválidos.")
		return
	}

	// Token conhecido dispensa o cadastro de novo.
	var clientID *uint
	issuedToken := ""

	if token := c.GetHeader(bookingTokenHeader); token != "" {
		var client models.Client
		if err := h.db.
			Where("salon_id = ? AND booking_token = ?", salon.ID, token).
			First(&client).Error; err == nil {
			clientID = &client.ID
		}
	}

	if clientID == nil {
		if req.ClientName == "" || req.ClientPhone == "" {
			httperr.BadRequest(c, "missing_client", "Nome e telefone obrigatórios.")
			return
		}
	}

	serviceIDs := make([]domain.ServiceID, 0, len(req.ServiceIDs))
	for _, id := range req.ServiceIDs {
		serviceIDs = append(serviceIDs, domain.ServiceID(id))
	}

	ap, err := h.create.Execute(c.Request.Context(), uc.CreateAppointmentInput{
		SalonID:        salon.ID,
		ProfessionalID: req.ProfessionalID,
		ClientID:       clientID,
		ClientName:     req.ClientName,
		ClientPhone:    req.ClientPhone,
		ClientEmail:    req.ClientEmail,
		ServiceIDs:     serviceIDs,
		Date:           req.Date,
		Time:           req.Time,
		Notes:          req.Notes,
		// Fluxo público respeita a antecedência mínima do salão.
		SkipMinAdvance: false,
	})
	if err != nil {
		writeUsecaseError(c, err, "failed_to_create_appointment", "Erro ao criar agendamento.")
		return
	}

	// Primeiro agendamento do cliente: emite o token durável.
	if ap.ClientID != nil {
		var client models.Client
		if err := h.db.First(&client, *ap.ClientID).Error; err == nil {
			if client.BookingToken == "" {
				client.BookingToken = uuid.NewString()
				if err := h.db.Save(&client).Error; err == nil {
					issuedToken = client.BookingToken
				}
			} else if c.GetHeader(bookingTokenHeader) == "" {
				issuedToken = client.BookingToken
			}
		}
	}

	resp := gin.H{"appointment": ap}
	if issuedToken != "" {
		resp["booking_token"] = issuedToken
	}

	c.JSON(http.StatusCreated, resp)
}

////////////////////////////////////////////////////////
// MY BOOKINGS (por token)
////////////////////////////////////////////////////////

func (h *PublicHandler) MyBookings(c *gin.Context) {
	salon, ok := h.salonBySlug(c)
	if !ok {
		return
	}

	token := c.GetHeader(bookingTokenHeader)
	if token == "" {
		httperr.Unauthorized(c, "missing_booking_token", "Token de agendamento ausente.")
		return
	}

	var client models.Client
	if err := h.db.
		Where("salon_id = ? AND booking_token = ?", salon.ID, token).
		First(&client).Error; err != nil {

		httperr.NotFound(c, "client_not_found", "Cliente não encontrado.")
		return
	}

	var appointments []models.Appointment
	if err := h.db.
		Preload("Services").
		Preload("Professional").
		Where("salon_id = ? AND client_id = ?", salon.ID, client.ID).
		Order("start_time DESC").
		Limit(50).
		Find(&appointments).Error; err != nil {

		httperr.Internal(c, "failed_to_list_appointments", "Erro ao listar agendamentos.")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"client":       client,
		"appointments": appointments,
	})
}
