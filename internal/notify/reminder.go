package notify

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/twilio/twilio-go"
	twilioApi "github.com/twilio/twilio-go/rest/api/v2010"
	"gorm.io/gorm"

	"github.com/gretellmoreno/bellagenda-api/internal/cache"
	"github.com/gretellmoreno/bellagenda-api/internal/config"
	domain "github.com/gretellmoreno/bellagenda-api/internal/domain/appointment"
	"github.com/gretellmoreno/bellagenda-api/internal/models"
	"github.com/gretellmoreno/bellagenda-api/internal/timezone"
)

// ReminderService envia SMS de lembrete para os agendamentos do
// dia seguinte e mantém o cache da agenda fresco.
type ReminderService struct {
	db     *gorm.DB
	cache  *cache.Cache
	client *twilio.RestClient
	from   string
}

func NewReminderService(db *gorm.DB, c *cache.Cache, cfg *config.Config) *ReminderService {
	s := &ReminderService{
		db:    db,
		cache: c,
		from:  cfg.TwilioFromNumber,
	}

	if cfg.TwilioEnabled() {
		s.client = twilio.NewRestClientWithParams(twilio.ClientParams{
			Username: cfg.TwilioAccountSID,
			Password: cfg.TwilioAuthToken,
		})
	}

	return s
}

func (s *ReminderService) StartScheduler() {
	c := cron.New()

	// 09:00 todo dia: lembretes do dia seguinte
	if _, err := c.AddFunc("0 9 * * *", s.SendDailyReminders); err != nil {
		log.Println("reminder cron error:", err)
	}

	// a cada 30s: invalida o cache de disponibilidade, o
	// substituto barato de push em tempo real para a agenda
	if _, err := c.AddFunc("@every 30s", s.refreshAgendaCache); err != nil {
		log.Println("agenda refresh cron error:", err)
	}

	c.Start()
	log.Println("Reminder scheduler started")
}

func (s *ReminderService) refreshAgendaCache() {
	ctx := context.Background()
	keys := s.cache.Keys(ctx, "availability:*")
	if len(keys) > 0 {
		s.cache.Delete(ctx, keys...)
	}
}

func (s *ReminderService) SendDailyReminders() {
	log.Println("Starting daily reminder processing...")

	var salons []models.Salon
	if err := s.db.Find(&salons).Error; err != nil {
		log.Printf("Failed to fetch salons: %v", err)
		return
	}

	for _, salon := range salons {
		s.processSalonReminders(&salon)
	}

	log.Println("Daily reminder processing completed")
}

func (s *ReminderService) processSalonReminders(salon *models.Salon) {
	loc := timezone.Location(salon.Timezone)
	tomorrow := time.Now().In(loc).AddDate(0, 0, 1)
	start := time.Date(tomorrow.Year(), tomorrow.Month(), tomorrow.Day(), 0, 0, 0, 0, loc)
	end := start.Add(24 * time.Hour)

	var appointments []models.Appointment
	err := s.db.
		Preload("Client").
		Where(
			"salon_id = ? AND status IN ? AND start_time >= ? AND start_time < ?",
			salon.ID,
			[]string{string(domain.StatusAgendado), string(domain.StatusConfirmado)},
			start,
			end,
		).
		Find(&appointments).Error
	if err != nil {
		log.Printf("Salon %d: failed to list appointments: %v", salon.ID, err)
		return
	}

	for _, ap := range appointments {
		if ap.Client == nil || ap.Client.Phone == "" {
			continue
		}

		body := fmt.Sprintf(
			"Lembrete: você tem horário amanhã às %s em %s.",
			ap.StartTime.In(loc).Format("15:04"),
			salon.Name,
		)

		if err := s.sendSMS(ap.Client.Phone, body); err != nil {
			log.Printf("Salon %d: reminder SMS failed: %v", salon.ID, err)
		}
	}
}

func (s *ReminderService) sendSMS(to, body string) error {
	if s.client == nil {
		// sem credencial Twilio: só registra
		log.Printf("reminder (twilio disabled) to=%s body=%q", to, body)
		return nil
	}

	params := &twilioApi.CreateMessageParams{}
	params.SetTo(to)
	params.SetFrom(s.from)
	params.SetBody(body)

	_, err := s.client.Api.CreateMessage(params)
	return err
}
