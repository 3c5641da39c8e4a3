package main

import (
	"context"
	"net/http"
	"os"
	"time"

	log "github.com/sirupsen/logrus"
	"github.com/tallervms/workshop-dashboard/internal/auth"
	"github.com/tallervms/workshop-dashboard/internal/blob"
	"github.com/tallervms/workshop-dashboard/internal/config"
	"github.com/tallervms/workshop-dashboard/internal/db"
	"github.com/tallervms/workshop-dashboard/internal/events"
	"github.com/tallervms/workshop-dashboard/internal/handlers"
	"github.com/tallervms/workshop-dashboard/internal/middleware"
	"github.com/tallervms/workshop-dashboard/internal/models"
	"github.com/tallervms/workshop-dashboard/internal/store"
)

func main() {
	cfg := config.Load()

	client, err := db.ConnectMongo(cfg.MongoURI)
	if err != nil {
		log.Fatalf("Failed to connect to MongoDB: %v", err)
	}
	defer client.Disconnect(context.Background())
	log.Info("Connected to MongoDB")

	database := client.Database(cfg.MongoDB)
	vehicleCol := &db.MongoVehicleCollection{Collection: database.Collection("vehicles")}
	userCol := &db.MongoUserCollection{Collection: database.Collection("users")}
	maintenanceCol := &db.MongoMaintenanceCollection{Collection: database.Collection("maintenances")}

	blobs, err := blob.NewGridFSStore(database, cfg.PublicBaseURL)
	if err != nil {
		log.Fatalf("Failed to initialize blob store: %v", err)
	}

	authService := auth.NewService(cfg.JWTSecret, cfg.JWTExpiry, userCol)
	authMiddleware := middleware.NewAuthMiddleware(authService)

	var maintenanceOpts []store.MaintenanceOption
	if cfg.MQTTBroker != "" {
		publisher, err := events.NewPublisher(cfg.MQTTBroker)
		if err != nil {
			log.WithError(err).Warn("Event publishing disabled: MQTT broker unreachable")
		} else {
			defer publisher.Close()
			maintenanceOpts = append(maintenanceOpts, store.WithNotifier(publisher))
		}
	}

	vehicles := store.NewVehicleStore(vehicleCol)
	users := store.NewUserStore(userCol, auth.HashPassword)
	maintenances := store.NewMaintenanceStore(maintenanceCol, blobs, maintenanceOpts...)

	bootstrapAdmin(users, userCol)

	authHandler := handlers.NewAuthHandler(authService)
	vehicleHandler := handlers.NewVehicleHandler(vehicles)
	userHandler := handlers.NewUserHandler(users)
	maintenanceHandler := handlers.NewMaintenanceHandler(maintenances)
	reportsHandler := handlers.NewReportsHandler(vehicles, users, maintenances)
	fileHandler := handlers.NewFileHandler(blobs)

	mux := http.NewServeMux()
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})

	mux.HandleFunc("POST /api/auth/login", authHandler.Login)
	mux.HandleFunc("POST /api/auth/logout", authHandler.Logout)

	mux.HandleFunc("GET /api/vehicles", vehicleHandler.List)
	mux.HandleFunc("POST /api/vehicles", vehicleHandler.Create)
	mux.HandleFunc("PATCH /api/vehicles/{id}", vehicleHandler.Update)
	mux.HandleFunc("DELETE /api/vehicles/{id}", vehicleHandler.Delete)

	mux.HandleFunc("GET /api/users", userHandler.List)
	mux.HandleFunc("POST /api/users", userHandler.Create)
	mux.HandleFunc("PATCH /api/users/{id}", userHandler.Update)
	mux.HandleFunc("DELETE /api/users/{id}", userHandler.Delete)

	mux.HandleFunc("GET /api/maintenances", maintenanceHandler.List)
	mux.HandleFunc("POST /api/maintenances", maintenanceHandler.Create)
	mux.HandleFunc("GET /api/maintenances/{id}", maintenanceHandler.Get)
	mux.HandleFunc("PATCH /api/maintenances/{id}", maintenanceHandler.Update)
	mux.HandleFunc("PUT /api/maintenances/{id}/description", maintenanceHandler.UpdateDescription)
	mux.HandleFunc("POST /api/maintenances/{id}/photos", maintenanceHandler.AttachPhotos)
	mux.HandleFunc("POST /api/maintenances/{id}/complete", maintenanceHandler.Complete)
	mux.HandleFunc("DELETE /api/maintenances/{id}", maintenanceHandler.Delete)

	mux.HandleFunc("GET /api/dashboard", reportsHandler.Dashboard)
	mux.HandleFunc("GET /api/reports", reportsHandler.Reports)

	mux.HandleFunc("GET /files/{key...}", fileHandler.Serve)

	log.WithField("addr", cfg.ListenAddr).Info("Server listening")
	if err := http.ListenAndServe(cfg.ListenAddr, authMiddleware.Authenticate(mux)); err != nil {
		log.Fatalf("Server failed: %v", err)
	}
}

// bootstrapAdmin creates the initial admin account when the user collection
// is empty, so a fresh deployment can be signed into.
func bootstrapAdmin(users *store.UserStore, col db.UserCollection) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	count, err := col.CountUsers(ctx)
	if err != nil {
		log.WithError(err).Warn("Skipping admin bootstrap")
		return
	}
	if count > 0 {
		return
	}

	password := os.Getenv("ADMIN_PASSWORD")
	if password == "" {
		log.Warn("No users exist and ADMIN_PASSWORD is not set; skipping admin bootstrap")
		return
	}
	err = users.Create(ctx, models.UserDraft{
		Name:     "Admin",
		Email:    "admin@admin.com",
		Password: password,
		Role:     models.RoleAdmin,
	})
	if err != nil {
		log.WithError(err).Error("Failed to bootstrap admin user")
		return
	}
	log.Info("Bootstrapped initial admin user")
}
