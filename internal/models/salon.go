package models

import "time"

type Salon struct {
	ID              uint   `gorm:"primaryKey" json:"id"`
	Name            string `gorm:"size:100;not null" json:"name"`
	Subdomain       string `gorm:"size:100;uniqueIndex;not null" json:"subdomain"`
	DisplayName     string `gorm:"size:100" json:"display_name,omitempty"`
	ProfilePhotoURL string `gorm:"size:255" json:"profile_photo_url,omitempty"`
	Phone           string `gorm:"size:20" json:"phone"`
	Address         string `gorm:"size:255" json:"address"`
	Timezone        string `gorm:"size:50;default:'America/Sao_Paulo'" json:"timezone"`

	// HasServices vira false apenas em salões recém-criados;
	// enquanto false o app redireciona para o setup inicial.
	HasServices bool `gorm:"default:false" json:"has_services"`

	PublicBookingEnabled bool `gorm:"default:true" json:"public_booking_enabled"`
	MinAdvanceMinutes    int  `gorm:"default:120" json:"min_advance_minutes"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
