package appointment

import (
	"context"
	"time"

	domain "github.com/gretellmoreno/bellagenda-api/internal/domain/appointment"
	"github.com/gretellmoreno/bellagenda-api/internal/httperr"
	"github.com/gretellmoreno/bellagenda-api/internal/timezone"
)

// GetAvailability calcula os horários "HH:MM" livres de um
// profissional para uma data e duração total. O passo da grade é
// IntervalMinutes (default 15).
type GetAvailability struct {
	repo domain.Repository
}

func NewGetAvailability(repo domain.Repository) *GetAvailability {
	return &GetAvailability{repo: repo}
}

func (uc *GetAvailability) Execute(
	ctx context.Context,
	in domain.AvailabilityInput,
) ([]string, error) {

	if in.DurationMinutes <= 0 {
		in.DurationMinutes = domain.DefaultServiceDurationMin
	}

	interval := in.IntervalMinutes
	if interval <= 0 {
		interval = domain.FallbackGridStepMin
	}

	weekday := int(in.Date.Weekday())

	wh, err := uc.repo.GetWorkingHours(ctx, in.ProfessionalID, weekday)
	if err != nil {
		return nil, httperr.ErrBusiness("no_working_hours")
	}
	if !wh.Active || wh.StartTime == "" || wh.EndTime == "" {
		return []string{}, nil
	}

	dayStart := timezone.AtHourMinute(in.Date, wh.StartTime)
	dayEnd := timezone.AtHourMinute(in.Date, wh.EndTime)

	hasLunch := wh.LunchStart != "" && wh.LunchEnd != ""
	var lunchStart, lunchEnd time.Time
	if hasLunch {
		lunchStart = timezone.AtHourMinute(in.Date, wh.LunchStart)
		lunchEnd = timezone.AtHourMinute(in.Date, wh.LunchEnd)
	}

	appointments, err := uc.repo.ListAppointmentsForDay(
		ctx,
		in.ProfessionalID,
		dayStart,
		dayEnd,
	)
	if err != nil {
		return nil, err
	}

	duration := time.Duration(in.DurationMinutes) * time.Minute
	step := time.Duration(interval) * time.Minute

	var slots []string

	for cur := dayStart; !cur.Add(duration).After(dayEnd); cur = cur.Add(step) {

		slotStart := cur
		slotEnd := cur.Add(duration)

		// almoço
		if hasLunch && slotStart.Before(lunchEnd) && slotEnd.After(lunchStart) {
			continue
		}

		conflict := false
		for _, ap := range appointments {
			if ap.EndTime == nil {
				continue
			}
			if slotStart.Before(*ap.EndTime) && slotEnd.After(ap.StartTime) {
				conflict = true
				break
			}
		}

		if !conflict {
			slots = append(slots, slotStart.Format("15:04"))
		}
	}

	return slots, nil
}
