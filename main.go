package main

//go:generate swag init

import (
	"fmt"
	"log/slog"
	"net/http"
	"os"

	"github.com/auscare/ndis-portal/db"
	_ "github.com/auscare/ndis-portal/docs"
	"github.com/auscare/ndis-portal/handlers"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/joho/godotenv"
	httpSwagger "github.com/swaggo/http-swagger"
)

// @title           NDIS Provider Portal API
// @version         1.0.0
// @description     API for managing participants, workers, shifts, NDIS invoicing, and PACE claim export.
// @host            localhost:8080
// @BasePath        /api/v1
// @securityDefinitions.basic  BasicAuth

func main() {
	// Optional .env for local development
	godotenv.Load()

	// Configure structured logging
	level := slog.LevelInfo
	if os.Getenv("LOG_LEVEL") == "debug" {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: level})))

	// Open database
	database, err := db.Open()
	if err != nil {
		slog.Error("failed to open database", "error", err)
		os.Exit(1)
	}
	defer database.Close()

	// Run migrations
	if err := db.Migrate(database); err != nil {
		slog.Error("failed to run migrations", "error", err)
		os.Exit(1)
	}

	// Set shared DB for handlers
	handlers.DB = database

	// Router setup
	r := chi.NewRouter()
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	// API routes with basic auth
	r.Route("/api/v1", func(r chi.Router) {
		r.Use(handlers.BasicAuth)

		// Organization settings
		r.Get("/organization", handlers.GetOrganization)
		r.Put("/organization", handlers.UpdateOrganization)

		// Participants
		r.Get("/participants", handlers.ListParticipants)
		r.Post("/participants", handlers.CreateParticipant)
		r.Get("/participants/{id}", handlers.GetParticipant)
		r.Put("/participants/{id}", handlers.UpdateParticipant)
		r.Delete("/participants/{id}", handlers.DeleteParticipant)

		// Workers
		r.Get("/workers", handlers.ListWorkers)
		r.Post("/workers", handlers.CreateWorker)
		r.Get("/workers/{id}", handlers.GetWorker)
		r.Put("/workers/{id}", handlers.UpdateWorker)
		r.Delete("/workers/{id}", handlers.DeleteWorker)

		// Shifts
		r.Get("/shifts", handlers.ListShifts)
		r.Post("/shifts", handlers.CreateShift)
		r.Get("/shifts/{id}", handlers.GetShift)
		r.Put("/shifts/{id}", handlers.UpdateShift)
		r.Delete("/shifts/{id}", handlers.DeleteShift)
		r.Post("/shifts/{id}/complete", handlers.CompleteShift)

		// Price guide
		r.Get("/price-guide", handlers.ListPriceGuide)
		r.Post("/price-guide", handlers.CreatePriceGuideEntry)
		r.Put("/price-guide/{id}", handlers.UpdatePriceGuideEntry)
		r.Delete("/price-guide/{id}", handlers.DeletePriceGuideEntry)

		// Public holidays
		r.Get("/holidays", handlers.ListHolidays)
		r.Post("/holidays", handlers.CreateHoliday)
		r.Delete("/holidays/{id}", handlers.DeleteHoliday)

		// Invoices
		r.Get("/invoices", handlers.ListInvoices)
		r.Post("/invoices/generate", handlers.GenerateInvoice)
		r.Get("/invoices/{id}", handlers.GetInvoice)
		r.Delete("/invoices/{id}", handlers.DeleteInvoice)
		r.Post("/invoices/{id}/finalize", handlers.FinalizeInvoice)
		r.Post("/invoices/{id}/void", handlers.VoidInvoice)

		// PACE claim export
		r.Get("/export/pace", handlers.ExportPACE)

		// Dashboard
		r.Get("/dashboard", handlers.GetDashboard)
	})

	// Swagger UI
	r.Get("/swagger/*", httpSwagger.WrapHandler)

	// Start server
	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	addr := fmt.Sprintf(":%s", port)
	slog.Info("server starting", "address", addr)
	if err := http.ListenAndServe(addr, r); err != nil {
		slog.Error("server failed", "error", err)
		os.Exit(1)
	}
}
