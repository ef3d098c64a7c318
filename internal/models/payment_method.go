package models

import "time"

type PaymentMethod struct {
	ID      uint `gorm:"primaryKey" json:"id"`
	SalonID uint `json:"salon_id"`

	Name   string `gorm:"size:50;not null" json:"name"`
	Active bool   `gorm:"default:true" json:"active"`

	// Online = cobrança via Mercado Pago ao fechar a comanda.
	Online bool `gorm:"default:false" json:"online"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
