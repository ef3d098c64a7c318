package repository

import (
	"context"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	domain "github.com/gretellmoreno/bellagenda-api/internal/domain/appointment"
	"github.com/gretellmoreno/bellagenda-api/internal/httperr"
	"github.com/gretellmoreno/bellagenda-api/internal/models"
	"github.com/gretellmoreno/bellagenda-api/internal/timezone"
)

type AppointmentGormRepository struct {
	db *gorm.DB
}

func NewAppointmentGormRepository(db *gorm.DB) *AppointmentGormRepository {
	return &AppointmentGormRepository{db: db}
}

var openStatuses = []string{
	string(domain.StatusAgendado),
	string(domain.StatusConfirmado),
	string(domain.StatusEmAndamento),
}

// --------------------------------------------------
// Salon
// --------------------------------------------------

func (r *AppointmentGormRepository) GetSalonByID(
	ctx context.Context,
	id uint,
) (*models.Salon, error) {

	var salon models.Salon
	if err := r.db.WithContext(ctx).First(&salon, id).Error; err != nil {
		return nil, err
	}
	return &salon, nil
}

func (r *AppointmentGormRepository) GetSalonBySlug(
	ctx context.Context,
	slug string,
) (*models.Salon, error) {

	var salon models.Salon
	if err := r.db.WithContext(ctx).
		Where("subdomain = ?", slug).
		First(&salon).Error; err != nil {
		return nil, err
	}
	return &salon, nil
}

// --------------------------------------------------
// Catalog
// --------------------------------------------------

func (r *AppointmentGormRepository) GetService(
	ctx context.Context,
	salonID uint,
	serviceID domain.ServiceID,
) (*models.Service, error) {

	var svc models.Service
	if err := r.db.WithContext(ctx).
		Where("id = ? AND salon_id = ?", uint(serviceID), salonID).
		First(&svc).Error; err != nil {
		return nil, err
	}
	return &svc, nil
}

func (r *AppointmentGormRepository) GetProduct(
	ctx context.Context,
	salonID uint,
	productID domain.ProductID,
) (*models.Product, error) {

	var product models.Product
	if err := r.db.WithContext(ctx).
		Where("id = ? AND salon_id = ?", uint(productID), salonID).
		First(&product).Error; err != nil {
		return nil, err
	}
	return &product, nil
}

func (r *AppointmentGormRepository) GetPaymentMethod(
	ctx context.Context,
	salonID uint,
	paymentMethodID uint,
) (*models.PaymentMethod, error) {

	var pm models.PaymentMethod
	if err := r.db.WithContext(ctx).
		Where("id = ? AND salon_id = ? AND active = true", paymentMethodID, salonID).
		First(&pm).Error; err != nil {
		return nil, err
	}
	return &pm, nil
}

func (r *AppointmentGormRepository) FirstActiveProfessional(
	ctx context.Context,
	salonID uint,
) (*models.Professional, error) {

	var pro models.Professional
	if err := r.db.WithContext(ctx).
		Where("salon_id = ? AND active = true", salonID).
		Order("id ASC").
		First(&pro).Error; err != nil {
		return nil, err
	}
	return &pro, nil
}

func (r *AppointmentGormRepository) GetProfessional(
	ctx context.Context,
	salonID uint,
	professionalID uint,
) (*models.Professional, error) {

	var pro models.Professional
	if err := r.db.WithContext(ctx).
		Where("id = ? AND salon_id = ? AND active = true", professionalID, salonID).
		First(&pro).Error; err != nil {
		return nil, err
	}
	return &pro, nil
}

func (r *AppointmentGormRepository) GetProfessionalByName(
	ctx context.Context,
	salonID uint,
	name string,
) (*models.Professional, error) {

	var pro models.Professional
	if err := r.db.WithContext(ctx).
		Where("salon_id = ? AND active = true AND LOWER(name) = LOWER(?)", salonID, name).
		First(&pro).Error; err != nil {
		return nil, err
	}
	return &pro, nil
}

// --------------------------------------------------
// Client
// --------------------------------------------------

func (r *AppointmentGormRepository) GetOrCreateClient(
	ctx context.Context,
	salonID uint,
	name string,
	phone string,
	email string,
) (*models.Client, error) {

	var client models.Client
	q := r.db.WithContext(ctx).Where("salon_id = ?", salonID)
	if phone != "" {
		q = q.Where("phone = ?", phone)
	} else {
		q = q.Where("LOWER(name) = LOWER(?)", name)
	}

	if err := q.First(&client).Error; err == nil {
		return &client, nil
	}

	client = models.Client{
		SalonID: salonID,
		Name:    name,
		Phone:   phone,
		Email:   email,
		Active:  true,
	}

	if err := r.db.WithContext(ctx).Create(&client).Error; err != nil {
		return nil, err
	}

	return &client, nil
}

// --------------------------------------------------
// Appointment
// --------------------------------------------------

func (r *AppointmentGormRepository) CreateAppointment(
	ctx context.Context,
	ap *models.Appointment,
) error {
	return r.db.WithContext(ctx).Create(ap).Error
}

func (r *AppointmentGormRepository) AssertNoTimeConflict(
	ctx context.Context,
	professionalID uint,
	start time.Time,
	end time.Time,
) error {

	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.Appointment{}).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where(
			"professional_id = ? AND status IN ? AND start_time < ? AND end_time > ?",
			professionalID,
			openStatuses,
			end,
			start,
		).
		Count(&count).Error; err != nil {
		return err
	}

	if count > 0 {
		return httperr.ErrBusiness("time_conflict")
	}

	return nil
}

func (r *AppointmentGormRepository) GetAppointment(
	ctx context.Context,
	appointmentID uint,
	salonID uint,
) (*models.Appointment, error) {

	var ap models.Appointment
	if err := r.db.WithContext(ctx).
		Preload("Client").
		Preload("Professional").
		Preload("Services").
		Preload("Services.Service").
		Preload("Products").
		Preload("Products.Product").
		Preload("PaymentMethod").
		Where("id = ? AND salon_id = ?", appointmentID, salonID).
		First(&ap).Error; err != nil {
		return nil, err
	}

	return &ap, nil
}

func (r *AppointmentGormRepository) UpdateAppointment(
	ctx context.Context,
	ap *models.Appointment,
) error {
	return r.db.WithContext(ctx).Save(ap).Error
}

// --------------------------------------------------
// Comanda line items
// --------------------------------------------------

func (r *AppointmentGormRepository) AddServiceItem(
	ctx context.Context,
	item *models.AppointmentService,
) error {
	return r.db.WithContext(ctx).Create(item).Error
}

func (r *AppointmentGormRepository) RemoveServiceItem(
	ctx context.Context,
	appointmentID uint,
	itemID domain.AppointmentServiceID,
) error {

	res := r.db.WithContext(ctx).
		Where("id = ? AND appointment_id = ?", uint(itemID), appointmentID).
		Delete(&models.AppointmentService{})

	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return httperr.ErrBusiness("item_not_found")
	}
	return nil
}

func (r *AppointmentGormRepository) GetServiceItem(
	ctx context.Context,
	appointmentID uint,
	itemID domain.AppointmentServiceID,
) (*models.AppointmentService, error) {

	var item models.AppointmentService
	if err := r.db.WithContext(ctx).
		Where("id = ? AND appointment_id = ?", uint(itemID), appointmentID).
		First(&item).Error; err != nil {
		return nil, err
	}
	return &item, nil
}

func (r *AppointmentGormRepository) UpdateServiceItem(
	ctx context.Context,
	item *models.AppointmentService,
) error {
	return r.db.WithContext(ctx).Save(item).Error
}

func (r *AppointmentGormRepository) AddProductItem(
	ctx context.Context,
	item *models.ProductSale,
) error {
	return r.db.WithContext(ctx).Create(item).Error
}

func (r *AppointmentGormRepository) RemoveProductItem(
	ctx context.Context,
	appointmentID uint,
	itemID domain.ProductSaleID,
) error {

	res := r.db.WithContext(ctx).
		Where("id = ? AND appointment_id = ?", uint(itemID), appointmentID).
		Delete(&models.ProductSale{})

	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return httperr.ErrBusiness("item_not_found")
	}
	return nil
}

func (r *AppointmentGormRepository) GetProductItem(
	ctx context.Context,
	appointmentID uint,
	itemID domain.ProductSaleID,
) (*models.ProductSale, error) {

	var item models.ProductSale
	if err := r.db.WithContext(ctx).
		Where("id = ? AND appointment_id = ?", uint(itemID), appointmentID).
		First(&item).Error; err != nil {
		return nil, err
	}
	return &item, nil
}

func (r *AppointmentGormRepository) UpdateProductItem(
	ctx context.Context,
	item *models.ProductSale,
) error {
	return r.db.WithContext(ctx).Save(item).Error
}

// --------------------------------------------------
// Availability
// --------------------------------------------------

func (r *AppointmentGormRepository) GetWorkingHours(
	ctx context.Context,
	professionalID uint,
	weekday int,
) (*models.WorkingHours, error) {

	var wh models.WorkingHours
	if err := r.db.WithContext(ctx).
		Where("professional_id = ? AND weekday = ?", professionalID, weekday).
		First(&wh).Error; err != nil {
		return nil, err
	}

	return &wh, nil
}

func (r *AppointmentGormRepository) ListAppointmentsForDay(
	ctx context.Context,
	professionalID uint,
	start time.Time,
	end time.Time,
) ([]models.Appointment, error) {

	var apps []models.Appointment
	if err := r.db.WithContext(ctx).
		Select("id", "start_time", "end_time").
		Where(
			"professional_id = ? AND status IN ? AND start_time >= ? AND start_time < ?",
			professionalID, openStatuses, start, end,
		).
		Order("start_time ASC").
		Find(&apps).Error; err != nil {
		return nil, err
	}

	return apps, nil
}

func (r *AppointmentGormRepository) IsWithinWorkingHours(
	ctx context.Context,
	professionalID uint,
	start time.Time,
	end time.Time,
) (bool, error) {

	weekday := int(start.Weekday())

	var wh models.WorkingHours
	if err := r.db.WithContext(ctx).
		Where("professional_id = ? AND weekday = ?", professionalID, weekday).
		First(&wh).Error; err != nil {
		return false, nil
	}

	if !wh.Active || wh.StartTime == "" || wh.EndTime == "" {
		return false, nil
	}

	workStart := timezone.AtHourMinute(start, wh.StartTime)
	workEnd := timezone.AtHourMinute(start, wh.EndTime)

	if start.Before(workStart) || end.After(workEnd) {
		return false, nil
	}

	if wh.LunchStart != "" && wh.LunchEnd != "" {
		lunchStart := timezone.AtHourMinute(start, wh.LunchStart)
		lunchEnd := timezone.AtHourMinute(start, wh.LunchEnd)
		if start.Before(lunchEnd) && end.After(lunchStart) {
			return false, nil
		}
	}

	return true, nil
}

func (r *AppointmentGormRepository) ListAppointmentsForPeriod(
	ctx context.Context,
	salonID uint,
	start time.Time,
	end time.Time,
) ([]models.Appointment, error) {

	var apps []models.Appointment

	err := r.db.WithContext(ctx).
		Preload("Client").
		Preload("Professional").
		Preload("Services").
		Where(
			"salon_id = ? AND start_time >= ? AND start_time < ?",
			salonID,
			start,
			end,
		).
		Order("start_time ASC").
		Find(&apps).Error

	if err != nil {
		return nil, err
	}

	return apps, nil
}
