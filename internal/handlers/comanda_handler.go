package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/gretellmoreno/bellagenda-api/internal/currency"
	domain "github.com/gretellmoreno/bellagenda-api/internal/domain/appointment"
	"github.com/gretellmoreno/bellagenda-api/internal/httperr"
	"github.com/gretellmoreno/bellagenda-api/internal/middleware"
	uc "github.com/gretellmoreno/bellagenda-api/internal/usecase/appointment"
)

type ComandaHandler struct {
	edit     *uc.EditComanda
	finalize *uc.FinalizeComanda
}

func NewComandaHandler(edit *uc.EditComanda, finalize *uc.FinalizeComanda) *ComandaHandler {
	return &ComandaHandler{
		edit:     edit,
		finalize: finalize,
	}
}

func comandaIDs(c *gin.Context) (salonID, userID, appointmentID uint, ok bool) {
	salonID = c.MustGet(middleware.ContextSalonID).(uint)
	userID = c.MustGet(middleware.ContextUserID).(uint)

	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		httperr.BadRequest(c, "invalid_request", "ID inválido.")
		return 0, 0, 0, false
	}
	return salonID, userID, uint(id), true
}

// ======================================================
// SERVIÇOS
// ======================================================

type AddComandaServiceRequest struct {
	ServiceID uint `json:"service_id" binding:"required"`
}

func (h *ComandaHandler) AddService(c *gin.Context) {
	salonID, userID, apID, ok := comandaIDs(c)
	if !ok {
		return
	}

	var req AddComandaServiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Dados inválidos.")
		return
	}

	ap, err := h.edit.AddService(
		c.Request.Context(),
		salonID, userID, apID,
		domain.ServiceID(req.ServiceID),
	)
	if err != nil {
		writeUsecaseError(c, err, "failed_to_update_comanda", "Erro ao atualizar comanda.")
		return
	}

	c.JSON(http.StatusOK, ap)
}

// A remoção é pela linha da comanda (appointment_service_id),
// nunca pelo ID do catálogo.
func (h *ComandaHandler) RemoveService(c *gin.Context) {
	salonID, userID, apID, ok := comandaIDs(c)
	if !ok {
		return
	}

	itemID, err := strconv.ParseUint(c.Param("itemId"), 10, 64)
	if err != nil {
		httperr.BadRequest(c, "invalid_request", "ID do item inválido.")
		return
	}

	ap, err := h.edit.RemoveService(
		c.Request.Context(),
		salonID, userID, apID,
		domain.AppointmentServiceID(itemID),
	)
	if err != nil {
		writeUsecaseError(c, err, "failed_to_update_comanda", "Erro ao atualizar comanda.")
		return
	}

	c.JSON(http.StatusOK, ap)
}

// ======================================================
// PRODUTOS
// ======================================================

type AddComandaProductRequest struct {
	ProductID uint `json:"product_id" binding:"required"`
	Quantity  int  `json:"quantity"`
}

func (h *ComandaHandler) AddProduct(c *gin.Context) {
	salonID, userID, apID, ok := comandaIDs(c)
	if !ok {
		return
	}

	var req AddComandaProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Dados inválidos.")
		return
	}

	ap, err := h.edit.AddProduct(
		c.Request.Context(),
		salonID, userID, apID,
		domain.ProductID(req.ProductID),
		req.Quantity,
	)
	if err != nil {
		writeUsecaseError(c, err, "failed_to_update_comanda", "Erro ao atualizar comanda.")
		return
	}

	c.JSON(http.StatusOK, ap)
}

func (h *ComandaHandler) RemoveProduct(c *gin.Context) {
	salonID, userID, apID, ok := comandaIDs(c)
	if !ok {
		return
	}

	itemID, err := strconv.ParseUint(c.Param("itemId"), 10, 64)
	if err != nil {
		httperr.BadRequest(c, "invalid_request", "ID do item inválido.")
		return
	}

	ap, err := h.edit.RemoveProduct(
		c.Request.Context(),
		salonID, userID, apID,
		domain.ProductSaleID(itemID),
	)
	if err != nil {
		writeUsecaseError(c, err, "failed_to_update_comanda", "Erro ao atualizar comanda.")
		return
	}

	c.JSON(http.StatusOK, ap)
}

// ======================================================
// UPDATE ITEM — preço custom (máscara) e quantidade
// ======================================================

type UpdateComandaItemRequest struct {
	ItemType string `json:"item_type" binding:"required"`
	ItemID   uint   `json:"item_id" binding:"required"`

	// PriceText chega mascarado ("12,34" ou só dígitos).
	PriceText *string `json:"price_text"`
	Quantity  *int    `json:"quantity"`
}

func (h *ComandaHandler) UpdateItem(c *gin.Context) {
	salonID, userID, apID, ok := comandaIDs(c)
	if !ok {
		return
	}

	var req UpdateComandaItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Dados inválidos.")
		return
	}

	in := uc.UpdateComandaItemInput{
		SalonID:       salonID,
		UserID:        userID,
		AppointmentID: apID,
		ItemType:      req.ItemType,
		Quantity:      req.Quantity,
	}

	switch req.ItemType {
	case "service":
		in.ServiceItemID = domain.AppointmentServiceID(req.ItemID)
	case "product":
		in.ProductItemID = domain.ProductSaleID(req.ItemID)
	default:
		httperr.BadRequest(c, "invalid_item_type", "Tipo de item inválido.")
		return
	}

	if req.PriceText != nil {
		price := currency.ParseMasked(*req.PriceText)
		in.CustomPrice = &price
	}

	ap, err := h.edit.UpdateItem(c.Request.Context(), in)
	if err != nil {
		writeUsecaseError(c, err, "failed_to_update_comanda", "Erro ao atualizar comanda.")
		return
	}

	c.JSON(http.StatusOK, ap)
}

// ======================================================
// FINALIZE
// ======================================================

type FinalizeComandaRequest struct {
	PaymentMethodID uint `json:"payment_method_id"`
}

func (h *ComandaHandler) Finalize(c *gin.Context) {
	salonID, userID, apID, ok := comandaIDs(c)
	if !ok {
		return
	}

	var req FinalizeComandaRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Dados inválidos.")
		return
	}

	ap, err := h.finalize.Execute(c.Request.Context(), uc.FinalizeComandaInput{
		SalonID:         salonID,
		UserID:          userID,
		AppointmentID:   apID,
		PaymentMethodID: req.PaymentMethodID,
	})
	if err != nil {
		writeUsecaseError(c, err, "failed_to_finalize_comanda", "Erro ao finalizar comanda.")
		return
	}

	c.JSON(http.StatusOK, ap)
}
