package appointment

import (
	"fmt"
	"time"
)

type AvailabilityInput struct {
	SalonID         uint
	ProfessionalID  uint
	Date            time.Time
	DurationMinutes int
	IntervalMinutes int
}

// Grade estática usada quando o cálculo por expediente não está
// disponível: 08:00–22:00 de 15 em 15 minutos, último slot 22:00.
const (
	FallbackGridStartHour = 8
	FallbackGridEndHour   = 22
	FallbackGridStepMin   = 15

	// Duração assumida quando o serviço não informa estimated_time.
	DefaultServiceDurationMin = 30
)

// FallbackGrid devolve os horários "HH:MM" da grade fixa.
func FallbackGrid() []string {
	var slots []string
	for h := FallbackGridStartHour; h <= FallbackGridEndHour; h++ {
		for m := 0; m < 60; m += FallbackGridStepMin {
			if h == FallbackGridEndHour && m > 0 {
				break
			}
			slots = append(slots, fmt.Sprintf("%02d:%02d", h, m))
		}
	}
	return slots
}
