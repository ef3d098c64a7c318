package appointment

import (
	"context"

	"github.com/gretellmoreno/bellagenda-api/internal/audit"
	domain "github.com/gretellmoreno/bellagenda-api/internal/domain/appointment"
	"github.com/gretellmoreno/bellagenda-api/internal/httperr"
	"github.com/gretellmoreno/bellagenda-api/internal/models"
)

// ======================================================
// COMANDA — mutações de itens, sempre pelo ID da LINHA
// (appointment_service_id / product_sale_id), nunca pelo
// ID do catálogo.
// ======================================================

type EditComanda struct {
	repo  domain.Repository
	audit *audit.Dispatcher
}

func NewEditComanda(
	repo domain.Repository,
	audit *audit.Dispatcher,
) *EditComanda {
	return &EditComanda{
		repo:  repo,
		audit: audit,
	}
}

func (uc *EditComanda) open(
	ctx context.Context,
	salonID uint,
	appointmentID uint,
) (*models.Appointment, error) {

	ap, err := uc.repo.GetAppointment(ctx, appointmentID, salonID)
	if err != nil {
		return nil, httperr.ErrBusiness("appointment_not_found")
	}

	if err := domain.CanEditComanda(domain.Status(ap.Status)); err != nil {
		return nil, err
	}

	return ap, nil
}

// reload devolve a comanda completa após a mutação.
func (uc *EditComanda) reload(
	ctx context.Context,
	salonID uint,
	appointmentID uint,
) (*models.Appointment, error) {
	return uc.repo.GetAppointment(ctx, appointmentID, salonID)
}

// --------------------------------------------------
// AddService: adiciona uma linha de serviço à comanda.
// --------------------------------------------------

func (uc *EditComanda) AddService(
	ctx context.Context,
	salonID uint,
	userID uint,
	appointmentID uint,
	serviceID domain.ServiceID,
) (*models.Appointment, error) {

	if _, err := uc.open(ctx, salonID, appointmentID); err != nil {
		return nil, err
	}

	svc, err := uc.repo.GetService(ctx, salonID, serviceID)
	if err != nil {
		return nil, httperr.ErrBusiness("service_not_found")
	}

	est := svc.EstimatedTime
	if est <= 0 {
		est = domain.DefaultServiceDurationMin
	}

	item := &models.AppointmentService{
		AppointmentID: appointmentID,
		ServiceID:     svc.ID,
		Name:          svc.Name,
		Price:         svc.Price,
		DurationMin:   est,
	}

	if err := uc.repo.AddServiceItem(ctx, item); err != nil {
		return nil, err
	}

	uc.audit.Dispatch(audit.Event{
		SalonID:  salonID,
		UserID:   &userID,
		Action:   "comanda_service_added",
		Entity:   "appointment",
		EntityID: &appointmentID,
	})

	return uc.reload(ctx, salonID, appointmentID)
}

// --------------------------------------------------
// RemoveService: remove pela linha, não pelo catálogo.
// --------------------------------------------------

func (uc *EditComanda) RemoveService(
	ctx context.Context,
	salonID uint,
	userID uint,
	appointmentID uint,
	itemID domain.AppointmentServiceID,
) (*models.Appointment, error) {

	if _, err := uc.open(ctx, salonID, appointmentID); err != nil {
		return nil, err
	}

	if err := uc.repo.RemoveServiceItem(ctx, appointmentID, itemID); err != nil {
		return nil, err
	}

	uc.audit.Dispatch(audit.Event{
		SalonID:  salonID,
		UserID:   &userID,
		Action:   "comanda_service_removed",
		Entity:   "appointment",
		EntityID: &appointmentID,
	})

	return uc.reload(ctx, salonID, appointmentID)
}

// --------------------------------------------------
// AddProduct / RemoveProduct
// --------------------------------------------------

func (uc *EditComanda) AddProduct(
	ctx context.Context,
	salonID uint,
	userID uint,
	appointmentID uint,
	productID domain.ProductID,
	quantity int,
) (*models.Appointment, error) {

	if _, err := uc.open(ctx, salonID, appointmentID); err != nil {
		return nil, err
	}

	product, err := uc.repo.GetProduct(ctx, salonID, productID)
	if err != nil {
		return nil, httperr.ErrBusiness("product_not_found")
	}

	if quantity <= 0 {
		quantity = 1
	}

	item := &models.ProductSale{
		AppointmentID: appointmentID,
		ProductID:     product.ID,
		Name:          product.Name,
		UnitPrice:     product.Price,
		Quantity:      quantity,
	}

	if err := uc.repo.AddProductItem(ctx, item); err != nil {
		return nil, err
	}

	uc.audit.Dispatch(audit.Event{
		SalonID:  salonID,
		UserID:   &userID,
		Action:   "comanda_product_added",
		Entity:   "appointment",
		EntityID: &appointmentID,
	})

	return uc.reload(ctx, salonID, appointmentID)
}

func (uc *EditComanda) RemoveProduct(
	ctx context.Context,
	salonID uint,
	userID uint,
	appointmentID uint,
	itemID domain.ProductSaleID,
) (*models.Appointment, error) {

	if _, err := uc.open(ctx, salonID, appointmentID); err != nil {
		return nil, err
	}

	if err := uc.repo.RemoveProductItem(ctx, appointmentID, itemID); err != nil {
		return nil, err
	}

	uc.audit.Dispatch(audit.Event{
		SalonID:  salonID,
		UserID:   &userID,
		Action:   "comanda_product_removed",
		Entity:   "appointment",
		EntityID: &appointmentID,
	})

	return uc.reload(ctx, salonID, appointmentID)
}

// --------------------------------------------------
// UpdateItem: override de preço (serviço/produto) e de
// quantidade (produto).
// --------------------------------------------------

type UpdateComandaItemInput struct {
	SalonID       uint
	UserID        uint
	AppointmentID uint

	ItemType string // "service" | "product"

	ServiceItemID domain.AppointmentServiceID
	ProductItemID domain.ProductSaleID

	CustomPrice *float64
	Quantity    *int
}

func (uc *EditComanda) UpdateItem(
	ctx context.Context,
	in UpdateComandaItemInput,
) (*models.Appointment, error) {

	if _, err := uc.open(ctx, in.SalonID, in.AppointmentID); err != nil {
		return nil, err
	}

	switch in.ItemType {
	case "service":
		item, err := uc.repo.GetServiceItem(ctx, in.AppointmentID, in.ServiceItemID)
		if err != nil {
			return nil, httperr.ErrBusiness("item_not_found")
		}
		if in.CustomPrice != nil {
			item.Price = *in.CustomPrice
		}
		if err := uc.repo.UpdateServiceItem(ctx, item); err != nil {
			return nil, err
		}

	case "product":
		item, err := uc.repo.GetProductItem(ctx, in.AppointmentID, in.ProductItemID)
		if err != nil {
			return nil, httperr.ErrBusiness("item_not_found")
		}
		if in.CustomPrice != nil {
			item.UnitPrice = *in.CustomPrice
		}
		if in.Quantity != nil && *in.Quantity > 0 {
			item.Quantity = *in.Quantity
		}
		if err := uc.repo.UpdateProductItem(ctx, item); err != nil {
			return nil, err
		}

	default:
		return nil, httperr.ErrBusiness("invalid_item_type")
	}

	uc.audit.Dispatch(audit.Event{
		SalonID:  in.SalonID,
		UserID:   &in.UserID,
		Action:   "comanda_item_updated",
		Entity:   "appointment",
		EntityID: &in.AppointmentID,
	})

	return uc.reload(ctx, in.SalonID, in.AppointmentID)
}
