package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/gretellmoreno/bellagenda-api/internal/middleware"
	"github.com/gretellmoreno/bellagenda-api/internal/models"
	"github.com/gretellmoreno/bellagenda-api/internal/tenant"
)

// WebHandler serve as páginas renderizadas: a landing do domínio
// principal, a página do app e a página de agendamento do
// subdomínio do salão.
type WebHandler struct {
	db       *gorm.DB
	resolver *tenant.Resolver
}

func NewWebHandler(db *gorm.DB, resolver *tenant.Resolver) *WebHandler {
	return &WebHandler{db: db, resolver: resolver}
}

// Home decide pelo host: "app.<host>" tem página própria e não
// passa por resolução de tenant; domínio principal mostra a
// landing; subdomínio de salão mostra a página de agendamento.
func (h *WebHandler) Home(c *gin.Context) {
	if h.resolver.IsAppDomain(c.Request.Host) {
		c.HTML(http.StatusOK, "base", gin.H{
			"Page": "app",
		})
		return
	}

	res := middleware.Resolution(c)

	if res.IsMainDomain {
		c.HTML(http.StatusOK, "base", gin.H{
			"Page": "landing",
		})
		return
	}

	salon, ok := middleware.ResolvedSalon(c)
	if !ok {
		c.HTML(http.StatusNotFound, "base", gin.H{
			"Page":    "salon_not_found",
			"Message": "Salão não encontrado.",
		})
		return
	}

	h.bookingPage(c, salon)
}

func (h *WebHandler) bookingPage(c *gin.Context, salon *models.Salon) {
	var services []models.Service
	if err := h.db.
		Where("salon_id = ? AND active = true", salon.ID).
		Order("name ASC").
		Find(&services).Error; err != nil {

		c.String(http.StatusInternalServerError, "Erro ao carregar serviços.")
		return
	}

	c.HTML(http.StatusOK, "base", gin.H{
		"Page":     "booking",
		"Salon":    salon,
		"Services": services,
	})
}

func (h *WebHandler) LoginPage(c *gin.Context) {
	c.HTML(http.StatusOK, "base", gin.H{
		"Page": "login",
	})
}

func (h *WebHandler) Dashboard(c *gin.Context) {
	c.HTML(http.StatusOK, "base", gin.H{
		"Page": "dashboard",
	})
}
