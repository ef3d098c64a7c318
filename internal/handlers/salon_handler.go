package handlers

import (
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/gretellmoreno/bellagenda-api/internal/httperr"
	"github.com/gretellmoreno/bellagenda-api/internal/middleware"
	"github.com/gretellmoreno/bellagenda-api/internal/models"
	"github.com/gretellmoreno/bellagenda-api/internal/storage"
)

type SalonHandler struct {
	db     *gorm.DB
	photos *storage.PhotoStore
}

func NewSalonHandler(db *gorm.DB, photos *storage.PhotoStore) *SalonHandler {
	return &SalonHandler{db: db, photos: photos}
}

type UpdateSalonConfigRequest struct {
	DisplayName          *string `json:"display_name"`
	Phone                *string `json:"phone"`
	Address              *string `json:"address"`
	MinAdvanceMinutes    *int    `json:"min_advance_minutes"`
	PublicBookingEnabled *bool   `json:"public_booking_enabled"`
}

func (h *SalonHandler) GetMeSalon(c *gin.Context) {
	salonID := c.MustGet(middleware.ContextSalonID).(uint)

	var salon models.Salon
	if err := h.db.First(&salon, salonID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			httperr.NotFound(c, "salon_not_found", "Salão não encontrado.")
			return
		}
		httperr.Internal(c, "failed_to_get_salon", "Erro ao buscar dados do salão.")
		return
	}

	c.JSON(http.StatusOK, salon)
}

func (h *SalonHandler) UpdateMeSalon(c *gin.Context) {
	salonID := c.MustGet(middleware.ContextSalonID).(uint)

	var salon models.Salon
	if err := h.db.First(&salon, salonID).Error; err != nil {
		httperr.NotFound(c, "salon_not_found", "Salão não encontrado.")
		return
	}

	var req UpdateSalonConfigRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Dados inválidos.")
		return
	}

	if req.DisplayName != nil {
		salon.DisplayName = *req.DisplayName
	}
	if req.Phone != nil {
		salon.Phone = *req.Phone
	}
	if req.Address != nil {
		salon.Address = *req.Address
	}
	if req.MinAdvanceMinutes != nil && *req.MinAdvanceMinutes >= 0 {
		salon.MinAdvanceMinutes = *req.MinAdvanceMinutes
	}
	if req.PublicBookingEnabled != nil {
		salon.PublicBookingEnabled = *req.PublicBookingEnabled
	}

	if err := h.db.Save(&salon).Error; err != nil {
		httperr.Internal(c, "failed_to_update_salon", "Erro ao atualizar o salão.")
		return
	}

	c.JSON(http.StatusOK, salon)
}

// UploadProfilePhoto recebe multipart "photo", converte para WebP
// e guarda no S3.
func (h *SalonHandler) UploadProfilePhoto(c *gin.Context) {
	salonID := c.MustGet(middleware.ContextSalonID).(uint)

	if h.photos == nil {
		httperr.Internal(c, "photo_storage_disabled", "Armazenamento de fotos não configurado.")
		return
	}

	var salon models.Salon
	if err := h.db.First(&salon, salonID).Error; err != nil {
		httperr.NotFound(c, "salon_not_found", "Salão não encontrado.")
		return
	}

	file, _, err := c.Request.FormFile("photo")
	if err != nil {
		httperr.BadRequest(c, "missing_photo", "Arquivo de foto obrigatório.")
		return
	}
	defer file.Close()

	raw, err := io.ReadAll(io.LimitReader(file, 10<<20))
	if err != nil {
		httperr.BadRequest(c, "invalid_photo", "Não foi possível ler a foto.")
		return
	}

	url, err := h.photos.UploadProfilePhoto(c.Request.Context(), salonID, raw)
	if err != nil {
		httperr.Internal(c, "photo_upload_failed", "Erro ao enviar a foto.")
		return
	}

	salon.ProfilePhotoURL = url
	if err := h.db.Save(&salon).Error; err != nil {
		httperr.Internal(c, "failed_to_update_salon", "Erro ao salvar a foto.")
		return
	}

	c.JSON(http.StatusOK, gin.H{"profile_photo_url": url})
}
