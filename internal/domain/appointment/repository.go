package appointment

import (
	"context"
	"time"

	"github.com/gretellmoreno/bellagenda-api/internal/models"
)

type Repository interface {
	// -------- Salon --------
	GetSalonByID(
		ctx context.Context,
		id uint,
	) (*models.Salon, error)

	GetSalonBySlug(
		ctx context.Context,
		slug string,
	) (*models.Salon, error)

	// -------- Catalog --------
	GetService(
		ctx context.Context,
		salonID uint,
		serviceID ServiceID,
	) (*models.Service, error)

	GetProduct(
		ctx context.Context,
		salonID uint,
		productID ProductID,
	) (*models.Product, error)

	GetPaymentMethod(
		ctx context.Context,
		salonID uint,
		paymentMethodID uint,
	) (*models.PaymentMethod, error)

	FirstActiveProfessional(
		ctx context.Context,
		salonID uint,
	) (*models.Professional, error)

	GetProfessional(
		ctx context.Context,
		salonID uint,
		professionalID uint,
	) (*models.Professional, error)

	GetProfessionalByName(
		ctx context.Context,
		salonID uint,
		name string,
	) (*models.Professional, error)

	// -------- Client --------
	GetOrCreateClient(
		ctx context.Context,
		salonID uint,
		name string,
		phone string,
		email string,
	) (*models.Client, error)

	// -------- Appointment (create / conflict) --------
	CreateAppointment(
		ctx context.Context,
		ap *models.Appointment,
	) error

	AssertNoTimeConflict(
		ctx context.Context,
		professionalID uint,
		start time.Time,
		end time.Time,
	) error

	// -------- Appointment (read / state change) --------
	GetAppointment(
		ctx context.Context,
		appointmentID uint,
		salonID uint,
	) (*models.Appointment, error)

	UpdateAppointment(
		ctx context.Context,
		ap *models.Appointment,
	) error

	// -------- Comanda line items --------
	AddServiceItem(
		ctx context.Context,
		item *models.AppointmentService,
	) error

	RemoveServiceItem(
		ctx context.Context,
		appointmentID uint,
		itemID AppointmentServiceID,
	) error

	GetServiceItem(
		ctx context.Context,
		appointmentID uint,
		itemID AppointmentServiceID,
	) (*models.AppointmentService, error)

	UpdateServiceItem(
		ctx context.Context,
		item *models.AppointmentService,
	) error

	AddProductItem(
		ctx context.Context,
		item *models.ProductSale,
	) error

	RemoveProductItem(
		ctx context.Context,
		appointmentID uint,
		itemID ProductSaleID,
	) error

	GetProductItem(
		ctx context.Context,
		appointmentID uint,
		itemID ProductSaleID,
	) (*models.ProductSale, error)

	UpdateProductItem(
		ctx context.Context,
		item *models.ProductSale,
	) error

	// -------- Availability --------
	GetWorkingHours(
		ctx context.Context,
		professionalID uint,
		weekday int,
	) (*models.WorkingHours, error)

	ListAppointmentsForDay(
		ctx context.Context,
		professionalID uint,
		start time.Time,
		end time.Time,
	) ([]models.Appointment, error)

	IsWithinWorkingHours(
		ctx context.Context,
		professionalID uint,
		start time.Time,
		end time.Time,
	) (bool, error)

	ListAppointmentsForPeriod(
		ctx context.Context,
		salonID uint,
		start time.Time,
		end time.Time,
	) ([]models.Appointment, error)
}
