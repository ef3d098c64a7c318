package dto

import "time"

// AgendaEventDTO é o bloco de tempo renderizado na coluna do
// profissional na visão de agenda.
type AgendaEventDTO struct {
	ID               uint       `json:"id"`
	StartTime        time.Time  `json:"start_time"`
	EndTime          *time.Time `json:"end_time"`
	Status           string     `json:"status"`
	ClientName       string     `json:"client_name"`
	ProfessionalID   uint       `json:"professional_id"`
	ProfessionalName string     `json:"professional_name"`
	ServiceNames     []string   `json:"service_names"`
}
