package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/gretellmoreno/bellagenda-api/internal/httperr"
	"github.com/gretellmoreno/bellagenda-api/internal/middleware"
	"github.com/gretellmoreno/bellagenda-api/internal/models"
)

type PaymentMethodHandler struct {
	db *gorm.DB
}

func NewPaymentMethodHandler(db *gorm.DB) *PaymentMethodHandler {
	return &PaymentMethodHandler{db: db}
}

func (h *PaymentMethodHandler) List(c *gin.Context) {
	salonID := c.MustGet(middleware.ContextSalonID).(uint)

	var methods []models.PaymentMethod
	if err := h.db.
		Where("salon_id = ?", salonID).
		Order("id ASC").
		Find(&methods).Error; err != nil {

		httperr.Internal(c, "failed_to_list_payment_methods", "Erro ao listar formas de pagamento.")
		return
	}

	c.JSON(http.StatusOK, methods)
}

type CreatePaymentMethodRequest struct {
	Name   string `json:"name" binding:"required"`
	Online bool   `json:"online"`
}

func (h *PaymentMethodHandler) Create(c *gin.Context) {
	salonID := c.MustGet(middleware.ContextSalonID).(uint)

	var req CreatePaymentMethodRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Dados inválidos.")
		return
	}

	method := models.PaymentMethod{
		SalonID: salonID,
		Name:    req.Name,
		Online:  req.Online,
	}

	if err := h.db.Create(&method).Error; err != nil {
		httperr.Internal(c, "failed_to_create_payment_method", "Erro ao criar forma de pagamento.")
		return
	}

	c.JSON(http.StatusCreated, method)
}

func (h *PaymentMethodHandler) Delete(c *gin.Context) {
	salonID := c.MustGet(middleware.ContextSalonID).(uint)
	id := c.Param("id")

	res := h.db.
		Where("id = ? AND salon_id = ?", id, salonID).
		Delete(&models.PaymentMethod{})
	if res.Error != nil {
		httperr.Internal(c, "failed_to_delete_payment_method", "Erro ao remover forma de pagamento.")
		return
	}
	if res.RowsAffected == 0 {
		httperr.NotFound(c, "payment_method_not_found", "Forma de pagamento não encontrada.")
		return
	}

	c.JSON(http.StatusOK, gin.H{"deleted": true})
}
