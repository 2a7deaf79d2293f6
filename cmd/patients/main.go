package main

import (
	"context"
	"log"
	"os"

	"github.com/gin-gonic/gin"

	"github.com/careconnect/careconnect/server/internal/config"
	"github.com/careconnect/careconnect/server/internal/database"
	"github.com/careconnect/careconnect/server/internal/patients/handler"
	"github.com/careconnect/careconnect/server/internal/patients/repository"
	"github.com/careconnect/careconnect/server/internal/patients/service"
	"github.com/careconnect/careconnect/server/internal/provider"
	"github.com/careconnect/careconnect/server/internal/storage"
)

// Standalone patients service: patient records and identification
// documents only, without the auth/session surface of the main binary.
func main() {
	port := os.Getenv("PATIENTS_SERVICE_PORT")
	if port == "" {
		port = "5011"
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	r := gin.New()
	r.Use(gin.Recovery())

	// Prefer Mongo-backed records when MONGODB_URI is provided.
	var repo repository.Repository
	if cfg.MongoDB.URI != "" {
		client, err := database.Connect(context.Background(), cfg.MongoDB)
		if err != nil {
			log.Printf("warning: cannot connect to MongoDB (%v) — using memory-backed repo", err)
			repo = repository.NewMemoryRepo()
		} else {
			col := client.Database(cfg.MongoDB.Database).Collection("patients")
			repo = repository.NewMongoRepo(col)
		}
	} else {
		repo = repository.NewMemoryRepo()
	}

	// Object storage is optional; registrations proceed without uploads
	// when MinIO is not configured.
	var files storage.FileStore
	minioCfg := storage.LoadMinIOConfig()
	if minioCfg.Endpoint != "" {
		fs, err := storage.NewMinIOStorage(minioCfg)
		if err != nil {
			log.Printf("warning: cannot initialize MinIO (%v) — uploads disabled", err)
		} else {
			files = fs
		}
	}

	identity := provider.NewClient(cfg.Provider)
	svc := service.New(repo, identity, files)
	handler.RegisterPatientRoutes(r, svc)

	log.Printf("careconnect patients service listening on :%s", port)
	if err := r.Run(":" + port); err != nil {
		log.Fatal(err)
	}
}
