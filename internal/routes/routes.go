package routes

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/gretellmoreno/bellagenda-api/internal/audit"
	"github.com/gretellmoreno/bellagenda-api/internal/cache"
	"github.com/gretellmoreno/bellagenda-api/internal/config"
	"github.com/gretellmoreno/bellagenda-api/internal/handlers"
	infraRepo "github.com/gretellmoreno/bellagenda-api/internal/infra/repository"
	"github.com/gretellmoreno/bellagenda-api/internal/middleware"
	"github.com/gretellmoreno/bellagenda-api/internal/payment"
	"github.com/gretellmoreno/bellagenda-api/internal/storage"
	"github.com/gretellmoreno/bellagenda-api/internal/tenant"
	ucAppointment "github.com/gretellmoreno/bellagenda-api/internal/usecase/appointment"
	"github.com/gretellmoreno/bellagenda-api/internal/wizard"
)

func RegisterRoutes(
	r *gin.Engine,
	db *gorm.DB,
	cfg *config.Config,
	c *cache.Cache,
) {

	// ======================================================
	// 🌍 MIDDLEWARE GLOBAL
	// ======================================================
	resolver := tenant.NewResolver(cfg.DevHost, cfg.ProdDomain)

	r.Use(middleware.CORSMiddleware())
	r.Use(middleware.TenantMiddleware(db, resolver, c))

	// ======================================================
	// 🔧 INFRA (SINGLETONS)
	// ======================================================
	appointmentRepo := infraRepo.NewAppointmentGormRepository(db)

	auditLogger := audit.New(db)
	auditDispatcher := audit.NewDispatcher(auditLogger)

	var processor payment.Processor = payment.Disabled{}
	if cfg.MercadoPagoEnabled() {
		if mp, err := payment.NewMercadoPago(cfg.MercadoPagoToken); err == nil {
			processor = mp
		}
	}

	var photos *storage.PhotoStore
	if cfg.S3Enabled() {
		photos = storage.NewPhotoStore(cfg)
	}

	draftStore := wizard.NewStore(c)

	// ======================================================
	// 🧠 USE CASES — APPOINTMENTS
	// ======================================================
	createAppointmentUC := ucAppointment.NewCreateAppointment(
		appointmentRepo,
		auditDispatcher,
	)

	cancelAppointmentUC := ucAppointment.NewCancelAppointment(
		appointmentRepo,
		auditDispatcher,
	)

	transitionUC := ucAppointment.NewTransitionAppointment(
		appointmentRepo,
		auditDispatcher,
	)

	listAppointmentsByDateUC := ucAppointment.NewListAppointmentsByDate(
		appointmentRepo,
	)

	listAppointmentsByMonthUC := ucAppointment.NewListAppointmentsByMonth(
		appointmentRepo,
	)

	availabilityUC := ucAppointment.NewGetAvailability(appointmentRepo)

	editComandaUC := ucAppointment.NewEditComanda(
		appointmentRepo,
		auditDispatcher,
	)

	finalizeComandaUC := ucAppointment.NewFinalizeComanda(
		appointmentRepo,
		processor,
		auditDispatcher,
	)

	gatewayFor := func(userID uint) wizard.Gateway {
		return ucAppointment.NewGateway(
			appointmentRepo,
			createAppointmentUC,
			editComandaUC,
			finalizeComandaUC,
			availabilityUC,
			c,
			userID,
		)
	}

	// ======================================================
	// 🧩 HANDLERS
	// ======================================================
	authHandler := handlers.NewAuthHandler(db, cfg)
	meHandler := handlers.NewMeHandler(db)
	salonHandler := handlers.NewSalonHandler(db, photos)

	serviceHandler := handlers.NewServiceHandler(db)
	productHandler := handlers.NewProductHandler(db)
	clientHandler := handlers.NewClientHandler(db)
	professionalHandler := handlers.NewProfessionalHandler(db)
	paymentMethodHandler := handlers.NewPaymentMethodHandler(db)
	workingHoursHandler := handlers.NewWorkingHoursHandler(db)

	appointmentHandler := handlers.NewAppointmentHandler(
		createAppointmentUC,
		cancelAppointmentUC,
		transitionUC,
		listAppointmentsByDateUC,
		listAppointmentsByMonthUC,
		availabilityUC,
		appointmentRepo,
	)

	comandaHandler := handlers.NewComandaHandler(editComandaUC, finalizeComandaUC)

	wizardHandler := handlers.NewWizardHandler(draftStore, appointmentRepo, gatewayFor)

	auditLogsHandler := handlers.NewAuditLogsHandler(db)

	publicHandler := handlers.NewPublicHandler(db, createAppointmentUC, availabilityUC)
	webHandler := handlers.NewWebHandler(db, resolver)

	// ======================================================
	// 🌍 ROTAS WEB (HTML)
	// ======================================================
	r.GET("/", webHandler.Home)

	webApp := r.Group("/web/app")
	{
		webApp.GET("/login", webHandler.LoginPage)
		webApp.GET("/dashboard", webHandler.Dashboard)
	}

	// ======================================================
	// 🌐 API (JSON)
	// ======================================================
	api := r.Group("/api")
	{
		// ------------------------------
		// 🌐 API PÚBLICA
		// ------------------------------
		publicAPI := api.Group("/public")
		{
			publicAPI.GET("/:slug/services", publicHandler.ListServices)
			publicAPI.GET("/:slug/professionals", publicHandler.ListProfessionals)
			publicAPI.GET("/:slug/availability", publicHandler.Availability)
			publicAPI.POST("/:slug/appointments", publicHandler.CreateBooking)
			publicAPI.GET("/:slug/my-bookings", publicHandler.MyBookings)
		}

		// ------------------------------
		// 🔐 AUTH
		// ------------------------------
		api.POST("/auth/register", authHandler.Register)
		api.POST("/auth/login", authHandler.Login)

		// ------------------------------
		// 🔐 API PRIVADA
		// ------------------------------
		secured := api.Group("/")
		secured.Use(middleware.AuthMiddleware(cfg))
		{
			secured.GET("/me", meHandler.GetMe)

			secured.GET("/me/salon", salonHandler.GetMeSalon)
			secured.PATCH("/me/salon", salonHandler.UpdateMeSalon)
			secured.POST("/me/salon/photo", salonHandler.UploadProfilePhoto)

			secured.GET("/me/clients", clientHandler.List)
			secured.POST("/me/clients", clientHandler.Create)
			secured.PATCH("/me/clients/:id", clientHandler.Update)

			secured.GET("/me/professionals", professionalHandler.List)
			secured.POST("/me/professionals", professionalHandler.Create)
			secured.PATCH("/me/professionals/:id", professionalHandler.Update)

			secured.GET("/me/professionals/:id/working-hours", workingHoursHandler.Get)
			secured.PUT("/me/professionals/:id/working-hours", workingHoursHandler.Update)

			secured.GET("/me/services", serviceHandler.List)
			secured.POST("/me/services", serviceHandler.Create)
			secured.PATCH("/me/services/:id", serviceHandler.Update)
			secured.DELETE("/me/services/:id", serviceHandler.Delete)

			secured.GET("/me/products", productHandler.List)
			secured.POST("/me/products", productHandler.Create)
			secured.PATCH("/me/products/:id", productHandler.Update)

			secured.GET("/me/payment-methods", paymentMethodHandler.List)
			secured.POST("/me/payment-methods", paymentMethodHandler.Create)
			secured.DELETE("/me/payment-methods/:id", paymentMethodHandler.Delete)

			// ------------------------------
			// APPOINTMENTS / AGENDA
			// ------------------------------
			secured.POST("/me/appointments", appointmentHandler.Create)
			secured.GET("/me/appointments", appointmentHandler.ListByDate)
			secured.GET("/me/appointments/month", appointmentHandler.ListByMonth)
			secured.GET("/me/appointments/availability", appointmentHandler.GetAvailability)
			secured.GET("/me/appointments/:id", appointmentHandler.GetDetails)
			secured.PATCH("/me/appointments/:id/cancel", appointmentHandler.Cancel)
			secured.PATCH("/me/appointments/:id/:action", appointmentHandler.Transition)

			// ------------------------------
			// COMANDA
			// ------------------------------
			secured.POST("/me/comandas/:id/services", comandaHandler.AddService)
			secured.DELETE("/me/comandas/:id/services/:itemId", comandaHandler.RemoveService)
			secured.POST("/me/comandas/:id/products", comandaHandler.AddProduct)
			secured.DELETE("/me/comandas/:id/products/:itemId", comandaHandler.RemoveProduct)
			secured.PATCH("/me/comandas/:id/items", comandaHandler.UpdateItem)
			secured.POST("/me/comandas/:id/finalize", comandaHandler.Finalize)

			// ------------------------------
			// ASSISTENTE DE AGENDAMENTO
			// ------------------------------
			secured.POST("/me/wizard", wizardHandler.Open)
			secured.GET("/me/wizard/:draftId", wizardHandler.Get)
			secured.DELETE("/me/wizard/:draftId", wizardHandler.Close)
			secured.POST("/me/wizard/:draftId/services", wizardHandler.ToggleService)
			secured.POST("/me/wizard/:draftId/products", wizardHandler.ToggleProduct)
			secured.POST("/me/wizard/:draftId/navigate", wizardHandler.Navigate)
			secured.POST("/me/wizard/:draftId/overlay", wizardHandler.OpenOverlay)
			secured.POST("/me/wizard/:draftId/client", wizardHandler.SetClient)
			secured.POST("/me/wizard/:draftId/professional", wizardHandler.SetProfessional)
			secured.POST("/me/wizard/:draftId/datetime", wizardHandler.SetDateTime)
			secured.GET("/me/wizard/:draftId/slots", wizardHandler.Slots)
			secured.POST("/me/wizard/:draftId/payment-method", wizardHandler.SetPaymentMethod)
			secured.POST("/me/wizard/:draftId/finalize", wizardHandler.FinalizePayment)
			secured.POST("/me/wizard/:draftId/continue", wizardHandler.Continue)
			secured.POST("/me/wizard/:draftId/submit", wizardHandler.Submit)

			secured.GET("/me/audit-logs", auditLogsHandler.List)
		}
	}
}
