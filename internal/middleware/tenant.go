package middleware

import (
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/gretellmoreno/bellagenda-api/internal/cache"
	"github.com/gretellmoreno/bellagenda-api/internal/models"
	"github.com/gretellmoreno/bellagenda-api/internal/tenant"
)

const (
	ContextTenantResolution = "tenantResolution"
	ContextTenantSalon      = "tenantSalon"
	ContextTenantError      = "tenantError"
)

const salonCacheTTL = 30 * time.Second

// TenantMiddleware resolve o salão a partir do Host da requisição.
// Nunca aborta: host sem tenant segue como domínio principal, e
// slug sem salão correspondente só marca o erro no contexto — a
// rota decide se renderiza "salão não encontrado".
func TenantMiddleware(db *gorm.DB, resolver *tenant.Resolver, c2 *cache.Cache) gin.HandlerFunc {
	return func(c *gin.Context) {
		res := resolver.Resolve(c.Request.Host)
		c.Set(ContextTenantResolution, res)

		if res.SalonSlug == "" {
			c.Next()
			return
		}

		var salon models.Salon
		key := "salon:slug:" + res.SalonSlug

		if c2 == nil || !c2.Get(c.Request.Context(), key, &salon) {
			if err := db.Where("subdomain = ?", res.SalonSlug).First(&salon).Error; err != nil {
				c.Set(ContextTenantError, "salon_not_found")
				c.Next()
				return
			}
			if c2 != nil {
				c2.Set(c.Request.Context(), key, salon, salonCacheTTL)
			}
		}

		c.Set(ContextTenantSalon, &salon)
		c.Next()
	}
}

// ResolvedSalon devolve o salão do host, se houver.
func ResolvedSalon(c *gin.Context) (*models.Salon, bool) {
	v, ok := c.Get(ContextTenantSalon)
	if !ok {
		return nil, false
	}
	salon, ok := v.(*models.Salon)
	return salon, ok
}

// Resolution devolve a tupla calculada para o host.
func Resolution(c *gin.Context) tenant.Resolution {
	v, ok := c.Get(ContextTenantResolution)
	if !ok {
		return tenant.Resolution{IsMainDomain: true}
	}
	return v.(tenant.Resolution)
}
