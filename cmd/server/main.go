package main

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"

	"github.com/neuronclub/neuron-backend/internal/api"
	"github.com/neuronclub/neuron-backend/internal/config"
	"github.com/neuronclub/neuron-backend/internal/middleware"
	"github.com/neuronclub/neuron-backend/internal/payment"
	"github.com/neuronclub/neuron-backend/internal/repository"
	"github.com/neuronclub/neuron-backend/internal/service"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger, err := zap.NewProduction()
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}
	defer logger.Sync()

	client, err := mongo.Connect(context.Background(), options.Client().ApplyURI(cfg.MongoURI))
	if err != nil {
		logger.Fatal("Failed to connect to MongoDB", zap.Error(err))
	}
	defer client.Disconnect(context.Background())

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := client.Ping(ctx, nil); err != nil {
		logger.Fatal("Failed to ping MongoDB", zap.Error(err))
	}

	adminRepo := repository.NewAdminRepository(client, cfg.DBName, "admins")
	registrationRepo := repository.NewRegistrationRepository(client, cfg.DBName, "registrations")

	if err := adminRepo.EnsureIndexes(ctx); err != nil {
		logger.Fatal("Failed to create admin indexes", zap.Error(err))
	}
	if err := registrationRepo.EnsureIndexes(ctx); err != nil {
		logger.Fatal("Failed to create registration indexes", zap.Error(err))
	}

	if err := config.EnsureAdminUser(adminRepo, cfg.AdminPassword, logger.Sugar()); err != nil {
		logger.Fatal("Failed to seed admin user", zap.Error(err))
	}

	gateway := payment.NewRazorpayGateway(cfg.RazorpayKeyID, cfg.RazorpayKeySecret)

	registrationService := service.NewRegistrationService(registrationRepo)
	paymentService := service.NewPaymentService(registrationRepo, gateway)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestLogger(logger))

	api.SetupRoutes(r, cfg, adminRepo, registrationService, paymentService, logger)

	addr := fmt.Sprintf("%s:%d", cfg.Address, cfg.Port)
	logger.Info("Starting server", zap.String("addr", addr))

	if err := r.Run(addr); err != nil {
		logger.Fatal("Failed to start server", zap.Error(err))
	}
}
