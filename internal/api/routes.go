package api

import (
	"net/http"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	"github.com/neuronclub/neuron-backend/internal/config"
	"github.com/neuronclub/neuron-backend/internal/middleware"
	"github.com/neuronclub/neuron-backend/internal/repository"
	"github.com/neuronclub/neuron-backend/internal/service"
)

func SetupRoutes(r *gin.Engine, cfg *config.Config, adminRepo repository.AdminRepository, registrationService service.RegistrationService, paymentService service.PaymentService, logger *zap.Logger) {
	r.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.CORSOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders:    []string{"Content-Length", "Content-Disposition"},
		AllowCredentials: true,
	}))

	authHandler := NewAuthHandler(adminRepo, cfg)
	registrationHandler := NewRegistrationHandler(registrationService, logger)
	paymentHandler := NewPaymentHandler(paymentService, logger)

	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler, ginSwagger.URL("/docs/swagger.json")))
	r.GET("/docs/swagger.json", func(c *gin.Context) {
		c.File("docs/swagger.json")
	})

	api := r.Group("/api")
	{
		api.GET("/", func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{"message": "Neuron Club API - Active"})
		})

		api.POST("/auth/admin-login", authHandler.AdminLogin)

		api.POST("/registrations", registrationHandler.CreateRegistration)
		api.POST("/payment/create-order", paymentHandler.CreateOrder)
		api.POST("/payment/verify", paymentHandler.VerifyPayment)

		admin := api.Group("/").Use(middleware.AdminAuthMiddleware(cfg))
		{
			admin.GET("/registrations", registrationHandler.ListRegistrations)
			admin.GET("/registrations/export", registrationHandler.ExportRegistrations)
			admin.GET("/registrations/stats", registrationHandler.GetStats)
		}
	}
}
