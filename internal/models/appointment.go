package models

import "time"

type Appointment struct {
	ID uint `gorm:"primaryKey" json:"id"`

	SalonID uint  `json:"salon_id"`
	Salon   Salon `gorm:"constraint:OnUpdate:CASCADE,OnDelete:SET NULL;" json:"salon"`

	ProfessionalID uint         `json:"professional_id"`
	Professional   Professional `gorm:"constraint:OnUpdate:CASCADE,OnDelete:SET NULL;" json:"professional"`

	// ClientID nulo = atendimento sem cadastro ("sem cliente").
	ClientID *uint   `json:"client_id"`
	Client   *Client `gorm:"constraint:OnUpdate:CASCADE,OnDelete:SET NULL;" json:"client,omitempty"`

	StartTime time.Time  `json:"start_time"`
	EndTime   *time.Time `json:"end_time"`

	Status string `gorm:"size:20;default:'agendado'" json:"status"`

	Services []AppointmentService `gorm:"constraint:OnDelete:CASCADE;" json:"services"`
	Products []ProductSale        `gorm:"constraint:OnDelete:CASCADE;" json:"products,omitempty"`

	PaymentMethodID *uint          `json:"payment_method_id"`
	PaymentMethod   *PaymentMethod `json:"payment_method,omitempty"`

	Notes       string     `gorm:"size:255" json:"notes"`
	CancelledAt *time.Time `json:"cancelled_at"`
	FinishedAt  *time.Time `json:"finished_at"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// AppointmentService é a linha da comanda para um serviço.
// O ID desta linha (appointment_service_id) não é o ID do catálogo —
// updates de preço na comanda usam sempre o ID da linha.
type AppointmentService struct {
	ID            uint    `gorm:"primaryKey" json:"appointment_service_id"`
	AppointmentID uint    `json:"appointment_id"`
	ServiceID     uint    `json:"service_id"`
	Service       Service `json:"service"`

	Name        string  `gorm:"size:100" json:"name"`
	Price       float64 `json:"price"`
	DurationMin int     `json:"duration"`

	CreatedAt time.Time `json:"created_at"`
}

// ProductSale é a linha da comanda para um produto de varejo.
type ProductSale struct {
	ID            uint    `gorm:"primaryKey" json:"product_sale_id"`
	AppointmentID uint    `json:"appointment_id"`
	ProductID     uint    `json:"product_id"`
	Product       Product `json:"product"`

	Name      string  `gorm:"size:100" json:"name"`
	UnitPrice float64 `json:"unit_price"`
	Quantity  int     `gorm:"default:1" json:"quantity"`

	CreatedAt time.Time `json:"created_at"`
}
