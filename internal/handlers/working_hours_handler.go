package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/gretellmoreno/bellagenda-api/internal/httperr"
	"github.com/gretellmoreno/bellagenda-api/internal/middleware"
	"github.com/gretellmoreno/bellagenda-api/internal/models"
)

type WorkingHoursHandler struct {
	db *gorm.DB
}

func NewWorkingHoursHandler(db *gorm.DB) *WorkingHoursHandler {
	return &WorkingHoursHandler{db: db}
}

// ======================================================
// GET /me/professionals/:id/working-hours
// ======================================================
func (h *WorkingHoursHandler) Get(c *gin.Context) {
	salonID := c.MustGet(middleware.ContextSalonID).(uint)
	proID := c.Param("id")

	var pro models.Professional
	if err := h.db.
		Where("id = ? AND salon_id = ?", proID, salonID).
		First(&pro).Error; err != nil {

		httperr.NotFound(c, "professional_not_found", "Profissional não encontrado.")
		return
	}

	var hours []models.WorkingHours
	if err := h.db.
		Where("professional_id = ?", pro.ID).
		Order("weekday ASC").
		Find(&hours).Error; err != nil {

		httperr.Internal(c, "failed_to_list_working_hours", "Erro ao listar horários de trabalho.")
		return
	}

	c.JSON(http.StatusOK, hours)
}

// ======================================================
// PUT /me/professionals/:id/working-hours
// ======================================================

type WorkingHoursEntry struct {
	Weekday    int    `json:"weekday" binding:"min=0,max=6"`
	StartTime  string `json:"start_time"`
	EndTime    string `json:"end_time"`
	LunchStart string `json:"lunch_start"`
	LunchEnd   string `json:"lunch_end"`
	Active     bool   `json:"active"`
}

type UpdateWorkingHoursRequest struct {
	Hours []WorkingHoursEntry `json:"hours" binding:"required"`
}

// Update substitui a grade semanal inteira do profissional.
func (h *WorkingHoursHandler) Update(c *gin.Context) {
	salonID := c.MustGet(middleware.ContextSalonID).(uint)
	proID := c.Param("id")

	var pro models.Professional
	if err := h.db.
		Where("id = ? AND salon_id = ?", proID, salonID).
		First(&pro).Error; err != nil {

		httperr.NotFound(c, "professional_not_found", "Profissional não encontrado.")
		return
	}

	var req UpdateWorkingHoursRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Dados inválidos.")
		return
	}

	for _, entry := range req.Hours {
		if entry.Active && (entry.StartTime == "" || entry.EndTime == "") {
			httperr.BadRequest(c, "invalid_working_hours", "Dias ativos precisam de horário de início e fim.")
			return
		}
	}

	err := h.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.
			Where("professional_id = ?", pro.ID).
			Delete(&models.WorkingHours{}).Error; err != nil {
			return err
		}

		for _, entry := range req.Hours {
			wh := models.WorkingHours{
				ProfessionalID: pro.ID,
				Weekday:        entry.Weekday,
				StartTime:      entry.StartTime,
				EndTime:        entry.EndTime,
				LunchStart:     entry.LunchStart,
				LunchEnd:       entry.LunchEnd,
				Active:         entry.Active,
			}
			if err := tx.Create(&wh).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		httperr.Internal(c, "failed_to_update_working_hours", "Erro ao atualizar horários de trabalho.")
		return
	}

	var hours []models.WorkingHours
	if err := h.db.
		Where("professional_id = ?", pro.ID).
		Order("weekday ASC").
		Find(&hours).Error; err != nil {

		httperr.Internal(c, "failed_to_list_working_hours", "Erro ao listar horários de trabalho.")
		return
	}

	c.JSON(http.StatusOK, hours)
}
