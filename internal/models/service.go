package models

import "time"

// Service é um item do catálogo do salão (corte, coloração, ...).
// Nunca é removido fisicamente: desativar = active=false.
type Service struct {
	ID      uint `gorm:"primaryKey" json:"id"`
	SalonID uint `json:"salon_id"`

	Name          string  `gorm:"size:100;not null" json:"name"`
	Description   string  `gorm:"size:255" json:"description"`
	EstimatedTime int     `json:"estimated_time"`
	Price         float64 `json:"price"`
	Active        bool    `gorm:"default:true" json:"active"`

	Category string `gorm:"size:50" json:"category"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
