package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	domain "github.com/gretellmoreno/bellagenda-api/internal/domain/appointment"
	"github.com/gretellmoreno/bellagenda-api/internal/httperr"
	"github.com/gretellmoreno/bellagenda-api/internal/middleware"
	"github.com/gretellmoreno/bellagenda-api/internal/wizard"
)

// GatewayFactory cria o gateway do assistente amarrado ao usuário
// autenticado da requisição.
type GatewayFactory func(userID uint) wizard.Gateway

type WizardHandler struct {
	store   *wizard.Store
	repo    domain.Repository
	gateway GatewayFactory
}

func NewWizardHandler(
	store *wizard.Store,
	repo domain.Repository,
	gateway GatewayFactory,
) *WizardHandler {
	return &WizardHandler{
		store:   store,
		repo:    repo,
		gateway: gateway,
	}
}

func (h *WizardHandler) draft(c *gin.Context) (*wizard.Draft, bool) {
	salonID := c.MustGet(middleware.ContextSalonID).(uint)

	d, err := h.store.Get(c.Request.Context(), c.Param("draftId"))
	if err != nil || d.SalonID != salonID {
		httperr.NotFound(c, "draft_not_found", "Sessão de agendamento expirada.")
		return nil, false
	}
	return d, true
}

// ======================================================
// OPEN / GET / CLOSE
// ======================================================

type OpenWizardRequest struct {
	// Pré-seleção vinda do clique num slot da agenda.
	Date             string `json:"date"`
	Time             string `json:"time"`
	ProfessionalName string `json:"professional_name"`

	// Presente quando o assistente abre sobre uma comanda.
	EditingAppointmentID *uint `json:"editing_appointment_id"`
}

func (h *WizardHandler) Open(c *gin.Context) {
	salonID := c.MustGet(middleware.ContextSalonID).(uint)

	var req OpenWizardRequest
	_ = c.ShouldBindJSON(&req)

	d := wizard.NewDraft(salonID, wizard.Defaults{
		Date:                 req.Date,
		Time:                 req.Time,
		ProfessionalName:     req.ProfessionalName,
		EditingAppointmentID: req.EditingAppointmentID,
	})

	// Em modo edição o rascunho nasce com as linhas da comanda.
	if req.EditingAppointmentID != nil {
		ap, err := h.repo.GetAppointment(c.Request.Context(), *req.EditingAppointmentID, salonID)
		if err != nil {
			httperr.NotFound(c, "appointment_not_found", "Agendamento não encontrado.")
			return
		}
		if err := domain.CanEditComanda(domain.Status(ap.Status)); err != nil {
			writeUsecaseError(c, err, "failed_to_open_wizard", "Erro ao abrir o assistente.")
			return
		}

		for _, s := range ap.Services {
			d.Services = append(d.Services, wizard.SelectedService{
				ID:            domain.ServiceID(s.ServiceID),
				Name:          s.Name,
				Price:         s.Price,
				EstimatedTime: s.DurationMin,
				ItemID:        domain.AppointmentServiceID(s.ID),
			})
		}
		for _, p := range ap.Products {
			d.Products = append(d.Products, wizard.SelectedProduct{
				ID:       domain.ProductID(p.ProductID),
				Name:     p.Name,
				Price:    p.UnitPrice,
				Quantity: p.Quantity,
			})
		}
		if len(d.Services) > 0 {
			d.Step = wizard.StepConfirmation
		}
		d.ClientID = ap.ClientID
	}

	h.store.Save(c.Request.Context(), d)
	c.JSON(http.StatusCreated, d)
}

func (h *WizardHandler) Get(c *gin.Context) {
	d, ok := h.draft(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, d)
}

func (h *WizardHandler) Close(c *gin.Context) {
	salonID := c.MustGet(middleware.ContextSalonID).(uint)

	d, err := h.store.Get(c.Request.Context(), c.Param("draftId"))
	if err == nil && d.SalonID == salonID {
		h.store.Delete(c.Request.Context(), d.ID)
	}
	c.JSON(http.StatusOK, gin.H{"closed": true})
}

// ======================================================
// SERVIÇOS / PRODUTOS
// ======================================================

type WizardToggleServiceRequest struct {
	ServiceID uint `json:"service_id" binding:"required"`
}

func (h *WizardHandler) ToggleService(c *gin.Context) {
	userID := c.MustGet(middleware.ContextUserID).(uint)

	d, ok := h.draft(c)
	if !ok {
		return
	}

	var req WizardToggleServiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Dados inválidos.")
		return
	}

	svc, err := h.repo.GetService(c.Request.Context(), d.SalonID, domain.ServiceID(req.ServiceID))
	if err != nil {
		httperr.NotFound(c, "service_not_found", "Serviço não encontrado.")
		return
	}

	err = d.ToggleService(c.Request.Context(), h.gateway(userID), wizard.SelectedService{
		ID:            domain.ServiceID(svc.ID),
		Name:          svc.Name,
		Price:         svc.Price,
		EstimatedTime: svc.EstimatedTime,
	})
	if err != nil {
		writeUsecaseError(c, err, "failed_to_update_wizard", "Erro ao atualizar o assistente.")
		return
	}

	h.store.Save(c.Request.Context(), d)
	c.JSON(http.StatusOK, d)
}

type WizardToggleProductRequest struct {
	ProductID uint `json:"product_id" binding:"required"`
	Quantity  int  `json:"quantity"`
}

func (h *WizardHandler) ToggleProduct(c *gin.Context) {
	d, ok := h.draft(c)
	if !ok {
		return
	}

	var req WizardToggleProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Dados inválidos.")
		return
	}

	product, err := h.repo.GetProduct(c.Request.Context(), d.SalonID, domain.ProductID(req.ProductID))
	if err != nil {
		httperr.NotFound(c, "product_not_found", "Produto não encontrado.")
		return
	}

	d.ToggleProduct(wizard.SelectedProduct{
		ID:       domain.ProductID(product.ID),
		Name:     product.Name,
		Price:    product.Price,
		Quantity: req.Quantity,
	})

	h.store.Save(c.Request.Context(), d)
	c.JSON(http.StatusOK, d)
}

// ======================================================
// NAVEGAÇÃO / OVERLAYS
// ======================================================

type WizardNavigateRequest struct {
	Target string `json:"target" binding:"required"`
}

func (h *WizardHandler) Navigate(c *gin.Context) {
	d, ok := h.draft(c)
	if !ok {
		return
	}

	var req WizardNavigateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Dados inválidos.")
		return
	}

	switch req.Target {
	case "add_service":
		d.GoToAddService()
	case "add_product":
		d.GoToAddProduct()
	default:
		httperr.BadRequest(c, "invalid_request", "Destino de navegação inválido.")
		return
	}

	h.store.Save(c.Request.Context(), d)
	c.JSON(http.StatusOK, d)
}

type WizardOverlayRequest struct {
	Overlay string `json:"overlay" binding:"required"`
}

func (h *WizardHandler) OpenOverlay(c *gin.Context) {
	d, ok := h.draft(c)
	if !ok {
		return
	}

	var req WizardOverlayRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Dados inválidos.")
		return
	}

	switch req.Overlay {
	case "client_selection":
		d.OpenClientSelection()
	case "client_form":
		d.OpenClientForm()
	case "professional_selection":
		d.OpenProfessionalSelection()
	default:
		httperr.BadRequest(c, "invalid_request", "Overlay inválido.")
		return
	}

	h.store.Save(c.Request.Context(), d)
	c.JSON(http.StatusOK, d)
}

// ======================================================
// CLIENTE / PROFISSIONAL
// ======================================================

type WizardClientRequest struct {
	ClientID *uint  `json:"client_id"`
	Name     string `json:"name"`
	NoClient bool   `json:"no_client"`
}

func (h *WizardHandler) SetClient(c *gin.Context) {
	d, ok := h.draft(c)
	if !ok {
		return
	}

	var req WizardClientRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Dados inválidos.")
		return
	}

	switch {
	case req.ClientID != nil:
		d.SelectClient(*req.ClientID)
	case req.NoClient:
		d.ChooseNoClient()
	case req.Name != "":
		d.SetClientName(req.Name)
	default:
		httperr.BadRequest(c, "invalid_request", "Informe client_id, name ou no_client.")
		return
	}

	h.store.Save(c.Request.Context(), d)
	c.JSON(http.StatusOK, d)
}

type WizardProfessionalRequest struct {
	ProfessionalID uint `json:"professional_id" binding:"required"`
}

func (h *WizardHandler) SetProfessional(c *gin.Context) {
	d, ok := h.draft(c)
	if !ok {
		return
	}

	var req WizardProfessionalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Dados inválidos.")
		return
	}

	d.SelectProfessional(domain.ProfessionalID(req.ProfessionalID))

	h.store.Save(c.Request.Context(), d)
	c.JSON(http.StatusOK, d)
}

// ======================================================
// DATA / HORA / SLOTS
// ======================================================

type WizardDateTimeRequest struct {
	Date string `json:"date" binding:"required"`
	Time string `json:"time" binding:"required"`
}

func (h *WizardHandler) SetDateTime(c *gin.Context) {
	d, ok := h.draft(c)
	if !ok {
		return
	}

	var req WizardDateTimeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Dados inválidos.")
		return
	}

	d.SetDateTime(req.Date, req.Time)

	h.store.Save(c.Request.Context(), d)
	c.JSON(http.StatusOK, d)
}

func (h *WizardHandler) Slots(c *gin.Context) {
	userID := c.MustGet(middleware.ContextUserID).(uint)

	d, ok := h.draft(c)
	if !ok {
		return
	}

	slots := d.AvailableSlots(c.Request.Context(), h.gateway(userID))
	c.JSON(http.StatusOK, gin.H{"slots": slots})
}

// ======================================================
// PAGAMENTO / SUBMISSÃO
// ======================================================

type WizardPaymentMethodRequest struct {
	PaymentMethodID uint `json:"payment_method_id" binding:"required"`
}

func (h *WizardHandler) SetPaymentMethod(c *gin.Context) {
	d, ok := h.draft(c)
	if !ok {
		return
	}

	var req WizardPaymentMethodRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Dados inválidos.")
		return
	}

	d.SelectPaymentMethod(req.PaymentMethodID)

	h.store.Save(c.Request.Context(), d)
	c.JSON(http.StatusOK, d)
}

func (h *WizardHandler) FinalizePayment(c *gin.Context) {
	userID := c.MustGet(middleware.ContextUserID).(uint)

	d, ok := h.draft(c)
	if !ok {
		return
	}

	if !h.store.AcquireSubmitLock(c.Request.Context(), d.ID) {
		writeUsecaseError(c, httperr.ErrBusiness("submission_in_flight"),
			"failed_to_finalize_comanda", "Erro ao finalizar comanda.")
		return
	}

	err := d.FinalizePayment(c.Request.Context(), h.gateway(userID))
	h.store.Save(c.Request.Context(), d)
	if err != nil {
		h.store.ReleaseSubmitLock(c.Request.Context(), d.ID)
		writeUsecaseError(c, err, "failed_to_finalize_comanda", "Erro ao finalizar comanda.")
		return
	}

	c.JSON(http.StatusOK, d)
}

// Continue avança a partir da confirmação; em modo edição isso
// conclui a edição devolvendo a comanda recarregada.
func (h *WizardHandler) Continue(c *gin.Context) {
	userID := c.MustGet(middleware.ContextUserID).(uint)

	d, ok := h.draft(c)
	if !ok {
		return
	}

	ap, err := d.Continue(c.Request.Context(), h.gateway(userID))
	h.store.Save(c.Request.Context(), d)
	if err != nil {
		writeUsecaseError(c, err, "failed_to_submit_wizard", "Erro ao enviar agendamento.")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"draft":       d,
		"appointment": ap,
	})
}

func (h *WizardHandler) Submit(c *gin.Context) {
	userID := c.MustGet(middleware.ContextUserID).(uint)

	d, ok := h.draft(c)
	if !ok {
		return
	}

	// O guard do rascunho vale só dentro desta requisição; entre
	// requisições concorrentes quem arbitra é o lock no Redis.
	if !h.store.AcquireSubmitLock(c.Request.Context(), d.ID) {
		writeUsecaseError(c, httperr.ErrBusiness("submission_in_flight"),
			"failed_to_submit_wizard", "Erro ao enviar agendamento.")
		return
	}

	ap, err := d.Submit(c.Request.Context(), h.gateway(userID))
	h.store.Save(c.Request.Context(), d)
	if err != nil {
		h.store.ReleaseSubmitLock(c.Request.Context(), d.ID)
		writeUsecaseError(c, err, "failed_to_submit_wizard", "Erro ao enviar agendamento.")
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"draft":       d,
		"appointment": ap,
	})
}
