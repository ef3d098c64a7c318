package wizard

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"

	domain "github.com/gretellmoreno/bellagenda-api/internal/domain/appointment"
	"github.com/gretellmoreno/bellagenda-api/internal/httperr"
	"github.com/gretellmoreno/bellagenda-api/internal/models"
)

// ======================================================
// ASSISTENTE DE AGENDAMENTO / COMANDA
// ======================================================
//
// O rascunho vive do abrir ao fechar do assistente. As etapas
// principais são mutuamente exclusivas; os overlays (seleção de
// cliente, formulário de cliente, seleção de profissional)
// eclipsam a etapa corrente sem resetá-la.

type Step string

const (
	StepService      Step = "service"
	StepProduct      Step = "product"
	StepConfirmation Step = "confirmation"
	StepDatetime     Step = "datetime"
	StepPayment      Step = "payment"
)

// Notes fixo para atendimento sem cadastro de cliente.
const noClientNotes = "Atendimento sem cliente cadastrado"

// SelectedService é a cópia transitória do serviço no rascunho.
type SelectedService struct {
	ID            domain.ServiceID `json:"id"`
	Name          string           `json:"name"`
	Price         float64          `json:"price"`
	EstimatedTime int              `json:"estimated_time"`

	// Linha da comanda correspondente, só em modo edição.
	ItemID domain.AppointmentServiceID `json:"item_id,omitempty"`
}

type SelectedProduct struct {
	ID       domain.ProductID `json:"id"`
	Name     string           `json:"name"`
	Price    float64          `json:"price"`
	Quantity int              `json:"quantity"`
}

type Draft struct {
	ID      string `json:"id"`
	SalonID uint   `json:"salon_id"`

	// Preenchido em modo edição (comanda aberta).
	EditingAppointmentID *uint `json:"editing_appointment_id,omitempty"`

	Step Step `json:"step"`

	Services    []SelectedService                          `json:"services"`
	Assignments map[domain.ServiceID]domain.ProfessionalID `json:"assignments"`
	Products    []SelectedProduct                          `json:"products"`

	ClientID   *uint  `json:"client_id,omitempty"`
	ClientName string `json:"client_name,omitempty"`
	NoClient   bool   `json:"no_client"`

	// Pré-seleção vinda do clique num slot da agenda.
	PreselectedProfessional string `json:"preselected_professional,omitempty"`
	Date                    string `json:"date"`
	Time                    string `json:"time"`
	SlotPreselected         bool   `json:"slot_preselected"`

	PaymentMethodID *uint `json:"payment_method_id,omitempty"`

	ShowClientSelection       bool `json:"show_client_selection"`
	ShowClientForm            bool `json:"show_client_form"`
	ShowProfessionalSelection bool `json:"show_professional_selection"`

	IsSubmitting bool `json:"is_submitting"`
	Submitted    bool `json:"submitted"`

	mu sync.Mutex
}

// Defaults vêm do caller que abriu o assistente (ex.: slot clicado).
type Defaults struct {
	Date                 string
	Time                 string
	ProfessionalName     string
	EditingAppointmentID *uint
}

func NewDraft(salonID uint, def Defaults) *Draft {
	return &Draft{
		ID:                      uuid.NewString(),
		SalonID:                 salonID,
		EditingAppointmentID:    def.EditingAppointmentID,
		Step:                    StepService,
		Assignments:             make(map[domain.ServiceID]domain.ProfessionalID),
		PreselectedProfessional: def.ProfessionalName,
		Date:                    def.Date,
		Time:                    def.Time,
		SlotPreselected:         def.Date != "" && def.Time != "",
	}
}

func (d *Draft) editing() bool {
	return d.EditingAppointmentID != nil
}

func (d *Draft) hasService(id domain.ServiceID) (int, bool) {
	for i, s := range d.Services {
		if s.ID == id {
			return i, true
		}
	}
	return 0, false
}

// ======================================================
// TRANSIÇÕES — SERVIÇOS
// ======================================================

// ToggleService liga/desliga um serviço do rascunho.
//
// Remover um serviço remove também a atribuição de profissional
// daquele serviço — nunca fica atribuição órfã.
//
// Em modo edição a mutação vai direto para a comanda remota e a
// etapa só avança com a resposta confirmada.
func (d *Draft) ToggleService(ctx context.Context, gw Gateway, svc SelectedService) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	idx, selected := d.hasService(svc.ID)

	if d.editing() {
		if selected {
			if _, err := gw.RemoveServiceFromComanda(
				ctx, d.SalonID, *d.EditingAppointmentID, d.Services[idx].ItemID,
			); err != nil {
				return err
			}
		} else {
			ap, err := gw.AddServiceToComanda(
				ctx, d.SalonID, *d.EditingAppointmentID, svc.ID,
			)
			if err != nil {
				return err
			}
			svc.ItemID = lastItemID(ap, svc.ID)
		}
	}

	if selected {
		d.Services = append(d.Services[:idx], d.Services[idx+1:]...)
		delete(d.Assignments, svc.ID)
	} else {
		d.Services = append(d.Services, svc)
	}

	if len(d.Services) > 0 {
		d.Step = StepConfirmation
	} else {
		d.Step = StepService
	}
	return nil
}

func lastItemID(ap *models.Appointment, serviceID domain.ServiceID) domain.AppointmentServiceID {
	var item domain.AppointmentServiceID
	for _, s := range ap.Services {
		if domain.ServiceID(s.ServiceID) == serviceID {
			item = domain.AppointmentServiceID(s.ID)
		}
	}
	return item
}

// ======================================================
// TRANSIÇÕES — NAVEGAÇÃO ENTRE ETAPAS
// ======================================================

func (d *Draft) GoToAddService() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.Step == StepConfirmation {
		d.Step = StepService
	}
}

func (d *Draft) GoToAddProduct() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.Step == StepConfirmation {
		d.Step = StepProduct
	}
}

func (d *Draft) ToggleProduct(p SelectedProduct) {
	d.mu.Lock()
	defer d.mu.Unlock()

	for i, sel := range d.Products {
		if sel.ID == p.ID {
			d.Products = append(d.Products[:i], d.Products[i+1:]...)
			d.Step = StepConfirmation
			return
		}
	}

	if p.Quantity <= 0 {
		p.Quantity = 1
	}
	d.Products = append(d.Products, p)
	d.Step = StepConfirmation
}

// Continue avança da confirmação: agendamento novo vai para a
// escolha de data/hora; em modo edição conclui a edição da
// comanda existente.
func (d *Draft) Continue(ctx context.Context, gw Gateway) (*models.Appointment, error) {
	d.mu.Lock()
	if d.Step != StepConfirmation {
		d.mu.Unlock()
		return nil, httperr.ErrBusiness("invalid_step")
	}

	if !d.editing() {
		d.Step = StepDatetime
		d.mu.Unlock()
		return nil, nil
	}

	// Em edição cada serviço já foi persistido pela mutação
	// aguardada correspondente; concluir é só recarregar a
	// comanda — nunca criar um agendamento novo.
	salonID, apID := d.SalonID, *d.EditingAppointmentID
	d.mu.Unlock()

	ap, err := gw.GetAppointment(ctx, salonID, apID)
	if err != nil {
		return nil, err
	}

	d.mu.Lock()
	d.Submitted = true
	d.mu.Unlock()
	return ap, nil
}

// ======================================================
// OVERLAYS
// ======================================================

func (d *Draft) OpenClientSelection() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.ShowClientSelection = true
}

func (d *Draft) OpenClientForm() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.ShowClientForm = true
}

func (d *Draft) OpenProfessionalSelection() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.ShowProfessionalSelection = true
}

// SelectClient fecha o overlay e mantém a etapa corrente.
func (d *Draft) SelectClient(clientID uint) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.ClientID = &clientID
	d.ClientName = ""
	d.NoClient = false
	d.closeClientOverlays()
}

// SetClientName registra só o nome digitado; o find-or-create
// acontece na submissão.
func (d *Draft) SetClientName(name string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.ClientID = nil
	d.ClientName = name
	d.NoClient = false
	d.closeClientOverlays()
}

func (d *Draft) ChooseNoClient() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.ClientID = nil
	d.ClientName = ""
	d.NoClient = true
	d.closeClientOverlays()
}

func (d *Draft) closeClientOverlays() {
	d.ShowClientSelection = false
	d.ShowClientForm = false
}

// SelectProfessional atribui o profissional a TODOS os serviços
// selecionados e volta para a confirmação.
func (d *Draft) SelectProfessional(proID domain.ProfessionalID) {
	d.mu.Lock()
	defer d.mu.Unlock()

	for _, s := range d.Services {
		d.Assignments[s.ID] = proID
	}
	d.ShowProfessionalSelection = false
}

// ======================================================
// DATA / HORA / DISPONIBILIDADE
// ======================================================

func (d *Draft) SetDateTime(date, timeHM string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.Date = date
	d.Time = timeHM
	d.SlotPreselected = false
}

// TotalDurationMinutes soma o tempo estimado dos serviços
// selecionados; serviço sem estimativa conta 30 minutos.
func (d *Draft) TotalDurationMinutes() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.totalDurationLocked()
}

// AvailableSlots aplica a escada de políticas da etapa datetime:
//  1. slot pré-selecionado → só ele, sem consulta remota;
//  2. profissional + data escolhidos → consulta remota;
//  3. erro ou resposta vazia/inválida → grade fixa de 15 min.
func (d *Draft) AvailableSlots(ctx context.Context, gw Gateway) []string {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.SlotPreselected && d.Time != "" {
		return []string{d.Time}
	}

	proID, ok := d.assignedProfessional()
	if !ok && d.Date != "" && d.PreselectedProfessional != "" {
		// Pré-seleção vinda da agenda conta como profissional
		// escolhido; resolve o nome antes de cair na grade fixa.
		if pro, err := gw.GetProfessionalByName(ctx, d.SalonID, d.PreselectedProfessional); err == nil && pro != nil {
			proID, ok = domain.ProfessionalID(pro.ID), true
		}
	}
	if !ok || d.Date == "" {
		return domain.FallbackGrid()
	}

	slots, err := gw.GetAvailability(ctx, uint(proID), d.Date, d.totalDurationLocked())
	if err != nil || slots == nil {
		return domain.FallbackGrid()
	}
	return slots
}

func (d *Draft) assignedProfessional() (domain.ProfessionalID, bool) {
	for _, s := range d.Services {
		if pro, ok := d.Assignments[s.ID]; ok {
			return pro, true
		}
	}
	return 0, false
}

func (d *Draft) totalDurationLocked() int {
	total := 0
	for _, s := range d.Services {
		if s.EstimatedTime > 0 {
			total += s.EstimatedTime
		} else {
			total += domain.DefaultServiceDurationMin
		}
	}
	return total
}

// ======================================================
// PAGAMENTO
// ======================================================

func (d *Draft) SelectPaymentMethod(id uint) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.PaymentMethodID = &id
}

// FinalizePayment fecha a comanda com o método escolhido.
func (d *Draft) FinalizePayment(ctx context.Context, gw Gateway) error {
	d.mu.Lock()

	if !d.editing() {
		d.mu.Unlock()
		return httperr.ErrBusiness("not_a_comanda")
	}
	if d.PaymentMethodID == nil {
		d.mu.Unlock()
		return httperr.ErrBusiness("payment_method_required")
	}
	if d.IsSubmitting {
		d.mu.Unlock()
		return httperr.ErrBusiness("submission_in_flight")
	}
	d.IsSubmitting = true
	salonID, apID, pmID := d.SalonID, *d.EditingAppointmentID, *d.PaymentMethodID
	d.mu.Unlock()

	err := gw.FinalizeComanda(ctx, salonID, apID, pmID)

	d.mu.Lock()
	defer d.mu.Unlock()
	if err != nil {
		d.IsSubmitting = false
		return err
	}
	d.Submitted = true
	return nil
}

// ======================================================
// SUBMISSÃO
// ======================================================

// Submit valida e envia o rascunho. Uma segunda chamada enquanto
// a primeira está em voo é no-op (não entra em fila). Em caso de
// erro o rascunho permanece intacto para nova tentativa.
func (d *Draft) Submit(ctx context.Context, gw Gateway) (*models.Appointment, error) {
	d.mu.Lock()

	if d.IsSubmitting || d.Submitted {
		d.mu.Unlock()
		return nil, httperr.ErrBusiness("submission_in_flight")
	}

	if len(d.Services) == 0 {
		d.mu.Unlock()
		return nil, httperr.ErrBusiness("no_services_selected")
	}
	if d.SalonID == 0 {
		d.mu.Unlock()
		return nil, httperr.ErrBusiness("salon_not_resolved")
	}
	if d.Time == "" {
		d.mu.Unlock()
		return nil, httperr.ErrBusiness("time_required")
	}

	d.IsSubmitting = true
	d.mu.Unlock()

	ap, err := d.submit(ctx, gw)

	d.mu.Lock()
	defer d.mu.Unlock()
	if err != nil {
		d.IsSubmitting = false
		return nil, err
	}
	d.Submitted = true
	return ap, nil
}

func (d *Draft) submit(ctx context.Context, gw Gateway) (*models.Appointment, error) {
	proID, err := d.resolveProfessional(ctx, gw)
	if err != nil {
		return nil, err
	}

	clientID, notes, err := d.resolveClient(ctx, gw)
	if err != nil {
		return nil, err
	}

	in := CreateInput{
		SalonID:        d.SalonID,
		ClientID:       clientID,
		ProfessionalID: uint(proID),
		Date:           d.Date,
		StartTime:      d.Time + ":00",
		Notes:          notes,
	}
	for _, s := range d.Services {
		in.ServiceIDs = append(in.ServiceIDs, s.ID)
	}
	for _, p := range d.Products {
		in.ProductIDs = append(in.ProductIDs, p.ID)
	}

	return gw.CreateAppointment(ctx, in)
}

// resolveProfessional cai em cascata: pré-seleção por nome →
// primeira atribuição do rascunho → primeiro profissional ativo.
func (d *Draft) resolveProfessional(ctx context.Context, gw Gateway) (domain.ProfessionalID, error) {
	if d.PreselectedProfessional != "" {
		pro, err := gw.GetProfessionalByName(ctx, d.SalonID, d.PreselectedProfessional)
		if err == nil && pro != nil {
			return domain.ProfessionalID(pro.ID), nil
		}
	}

	if pro, ok := d.assignedProfessional(); ok {
		return pro, nil
	}

	pro, err := gw.FirstActiveProfessional(ctx, d.SalonID)
	if err != nil || pro == nil {
		return 0, httperr.ErrBusiness("no_professional_available")
	}
	return domain.ProfessionalID(pro.ID), nil
}

// resolveClient: id existente → usa; só nome digitado →
// find-or-create; "sem cliente" → id nulo com notes fixo.
func (d *Draft) resolveClient(ctx context.Context, gw Gateway) (*uint, string, error) {
	if d.ClientID != nil {
		return d.ClientID, "", nil
	}

	if d.ClientName != "" {
		client, err := gw.FindOrCreateClient(ctx, d.SalonID, d.ClientName, "", "")
		if err != nil {
			return nil, "", fmt.Errorf("find or create client: %w", err)
		}
		id := client.ID
		return &id, "", nil
	}

	if d.NoClient {
		return nil, noClientNotes, nil
	}

	return nil, "", nil
}
