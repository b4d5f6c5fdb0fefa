package main

import (
	"finvoice/cache"
	"finvoice/config"
	"finvoice/database"
	"finvoice/ledger"
	authRoutes "finvoice/routers/authRoutes"
	bankingRoutes "finvoice/routers/bankingRoutes"
	loanRoutes "finvoice/routers/loanRoutes"
	reminderRoutes "finvoice/routers/reminderRoutes"
	voiceRoutes "finvoice/routers/voiceRoutes"
	"finvoice/scheduler"
	"log"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
)

func main() {
	config.LoadConfig()
	database.ConnectDb()
	cache.Connect()

	ledger.OTPValidity = time.Duration(config.AppConfig.OTPExpiryMinutes) * time.Minute

	app := fiber.New()

	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowMethods: "GET,POST,PUT,DELETE",        // Allowed HTTP methods
		AllowHeaders: "Content-Type,Authorization", // Allowed headers
	}))

	// Enable the built-in logger middleware to log all requests
	app.Use(logger.New(logger.Config{
		Format: "[${time}] ${ip} ${method} ${path} ${status} ${latency}\n",
	}))

	authRoutes.SetupAuthRoutes(app)
	bankingRoutes.SetupBankingRoutes(app)
	loanRoutes.SetupLoanRoutes(app)
	reminderRoutes.SetupReminderRoutes(app)
	voiceRoutes.SetupVoiceRoutes(app)

	scheduler.InitializeReminderScheduler()

	log.Printf("Server is running on port %s", config.AppConfig.Port)
	log.Fatal(app.Listen(":" + config.AppConfig.Port))
}
