package routes

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/carelinkhq/care-portal/internal/audit"
	"github.com/carelinkhq/care-portal/internal/cache"
	"github.com/carelinkhq/care-portal/internal/config"
	"github.com/carelinkhq/care-portal/internal/handlers"
	infraRepo "github.com/carelinkhq/care-portal/internal/infra/repository"
	"github.com/carelinkhq/care-portal/internal/middleware"
	"github.com/carelinkhq/care-portal/internal/models"
	ucAppointment "github.com/carelinkhq/care-portal/internal/usecase/appointment"
)

func RegisterRoutes(r *gin.Engine, db *gorm.DB, cfg *config.Config, cc *cache.Cache) {

	// ------------------------------
	// Infra singletons
	// ------------------------------
	appointmentRepo := infraRepo.NewAppointmentGormRepository(db)

	auditLogger := audit.New(db)
	auditDispatcher := audit.NewDispatcher(auditLogger)

	// ------------------------------
	// Use cases
	// ------------------------------
	bookUC := ucAppointment.NewBookAppointment(appointmentRepo, auditDispatcher)
	completeUC := ucAppointment.NewCompleteAppointment(appointmentRepo, auditDispatcher)
	cancelUC := ucAppointment.NewCancelAppointment(appointmentRepo, auditDispatcher)
	listUC := ucAppointment.NewListAppointments(appointmentRepo)
	availabilityUC := ucAppointment.NewGetAvailability(appointmentRepo)

	// ------------------------------
	// Handlers
	// ------------------------------
	authHandler := handlers.NewAuthHandler(db, cfg, cc)
	appointmentHandler := handlers.NewAppointmentHandler(
		bookUC,
		completeUC,
		cancelUC,
		listUC,
		availabilityUC,
		cc,
	)
	healthRecordHandler := handlers.NewHealthRecordHandler(db, auditDispatcher)
	consentHandler := handlers.NewConsentHandler(db, auditDispatcher)
	providerHandler := handlers.NewProviderHandler(db)
	scheduleHandler := handlers.NewScheduleHandler(db)
	auditLogsHandler := handlers.NewAuditLogsHandler(db)

	api := r.Group("/api")
	{
		// ------------------------------
		// Public
		// ------------------------------
		api.POST("/users/login", authHandler.Login)
		api.POST("/users/register", authHandler.Register)
		api.POST("/appointments/available", appointmentHandler.Available)

		// ------------------------------
		// Authenticated
		// ------------------------------
		secured := api.Group("/")
		secured.Use(middleware.AuthMiddleware(cfg))
		{
			secured.GET("/users/fetch_profile", authHandler.FetchProfile)
			secured.POST("/users/fetch_all_doctors", authHandler.FetchAllDoctors)

			secured.POST("/appointments/book", appointmentHandler.Book)
			secured.GET("/appointments", appointmentHandler.ListAll)
			secured.GET("/appointments/upcoming", appointmentHandler.ListUpcoming)
			secured.GET("/appointments/past", appointmentHandler.ListPast)
			secured.PATCH("/appointments/:id/cancel", appointmentHandler.Cancel)
			secured.PATCH("/appointments/:id/complete", appointmentHandler.Complete)

			secured.GET("/health-records/appointment/:appointmentID/:patientID", healthRecordHandler.GetByAppointment)

			secured.GET("/consents/patient-consent-requests", consentHandler.PatientRequests)
			secured.GET("/active-consents", consentHandler.ActiveConsents)
			secured.PATCH("/consents/:id/approve", consentHandler.Approve)
			secured.PATCH("/consents/:id/deny", consentHandler.Deny)
			secured.PATCH("/consents/:id/revoke", consentHandler.Revoke)

			// ------------------------------
			// Doctor-only
			// ------------------------------
			doctor := secured.Group("/")
			doctor.Use(middleware.RequireRole(models.RoleDoctor))
			{
				doctor.POST("/health-records", healthRecordHandler.Create)
				doctor.PUT("/health-records/:id", healthRecordHandler.Update)

				doctor.POST("/consents", consentHandler.Create)
				doctor.GET("/consents/doctors-consent-requests", consentHandler.DoctorRequests)

				doctor.GET("/providers/fetch_doctors_patients", providerHandler.DoctorPatients)

				doctor.GET("/providers/schedule", scheduleHandler.Get)
				doctor.PUT("/providers/schedule", scheduleHandler.Update)
			}

			// ------------------------------
			// Admin-only
			// ------------------------------
			admin := secured.Group("/")
			admin.Use(middleware.RequireRole(models.RoleAdmin))
			{
				admin.GET("/audit-logs", auditLogsHandler.List)
			}
		}
	}
}
