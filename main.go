package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/careconnect/careconnect/server/handlers"
	"github.com/careconnect/careconnect/server/internal/auth"
	"github.com/careconnect/careconnect/server/internal/config"
	"github.com/careconnect/careconnect/server/internal/database"
	"github.com/careconnect/careconnect/server/internal/patients/handler"
	"github.com/careconnect/careconnect/server/internal/patients/repository"
	"github.com/careconnect/careconnect/server/internal/patients/service"
	"github.com/careconnect/careconnect/server/internal/provider"
	"github.com/careconnect/careconnect/server/internal/session"
	"github.com/careconnect/careconnect/server/internal/storage"
	"github.com/careconnect/careconnect/server/pkg/logger"
	"github.com/careconnect/careconnect/server/pkg/metrics"
	"github.com/careconnect/careconnect/server/pkg/middleware"
)

var startTime = time.Now()

func main() {
	// initialize logging (can be controlled with LOG_LEVEL env: debug|info|warn|error|fatal)
	logger.Init(os.Getenv("LOG_LEVEL"))
	logger.Debugf("startup: LOG_LEVEL=%s", logger.LevelString())

	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Fatalf("failed to load config: %v", err)
	}
	logger.Infof("config loaded: provider=%v mongo=%v redis=%v", cfg.Provider.Endpoint != "", cfg.MongoDB.URI != "", cfg.Redis.Host != "")

	r := gin.New()

	// Lightweight CORS middleware for dev/test: set common headers and respond to OPTIONS.
	// (Keep this intentionally simple — production should use a stricter policy.)
	r.Use(func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", cfg.App.URL)
		c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Origin, Content-Type, Accept")
		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(200)
			return
		}
		c.Next()
	})

	// Global middlewares: logging + recovery
	r.Use(gin.Logger(), gin.Recovery())

	// Connect to Redis early so the revocation list and rate-limiter can use it
	var importedRedis *redis.Client
	if cfg.Redis.Host != "" {
		importedRedis = redis.NewClient(&redis.Options{Addr: cfg.Redis.Host + ":" + cfg.Redis.Port, Password: cfg.Redis.Password, DB: cfg.Redis.DB})
		if err := importedRedis.Ping(context.Background()).Err(); err == nil {
			// expose Redis client for session revocation checks
			session.SetRevokedClient(importedRedis)
			logger.Infof("Connected to Redis (early) for optional features: %s:%s", cfg.Redis.Host, cfg.Redis.Port)
		} else {
			logger.Warnf("failed to connect to Redis early (%s:%s): %v", cfg.Redis.Host, cfg.Redis.Port, err)
			importedRedis = nil
		}
	}

	// Optional global rate limiter (per-user when authenticated, otherwise per-IP)
	if cfg.RateLimit.Enabled {
		if cfg.RateLimit.UseRedis && importedRedis != nil {
			win := time.Duration(cfg.RateLimit.WindowSeconds) * time.Second
			r.Use(middleware.RedisRateLimitMiddleware(importedRedis, cfg.RateLimit.RPS, cfg.RateLimit.Burst, win))
		} else {
			r.Use(middleware.RateLimitMiddleware(cfg.RateLimit.RPS, cfg.RateLimit.Burst))
		}
	}

	// Identity provider + session codec + orchestrator
	identity := provider.NewClient(cfg.Provider)
	codec := session.NewCodec(cfg.Session.Secret, cfg.Session.TTL, cfg.IsProduction())
	authSvc := auth.NewService(identity, codec, cfg.App.URL)

	// Route protection: runs for every request, including paths with no
	// registered handler, so page paths proxied through this service are
	// still gated before the frontend sees them. Operational endpoints
	// (health, readiness, metrics, swagger) stay outside the gate.
	pageGate := middleware.AccessControl(codec, authSvc)
	r.Use(func(c *gin.Context) {
		p := c.Request.URL.Path
		if p == "/health" || p == "/ready" || p == "/metrics" || strings.HasPrefix(p, "/swagger") {
			c.Next()
			return
		}
		pageGate(c)
	})

	// Basic health endpoint
	r.GET("/health", func(c *gin.Context) {
		c.String(http.StatusOK, "healthy")
	})

	// shared runtime vars used by readiness
	var mongoClient *mongo.Client
	var files storage.FileStore

	// readiness endpoint — return 200 only when critical dependencies are available
	r.GET("/ready", func(c *gin.Context) {
		ready := true
		deps := map[string]bool{}

		deps["provider"] = cfg.Provider.Endpoint != ""
		if !deps["provider"] {
			ready = false
		}

		// patient storage: Mongo when configured, otherwise memory (always OK)
		if cfg.MongoDB.URI != "" {
			deps["mongo"] = mongoClient != nil
			if !deps["mongo"] {
				ready = false
			}
		} else {
			deps["mongo"] = true
		}

		// Redis readiness when used for rate-limiter or revocation
		if cfg.Redis.Host != "" && cfg.RateLimit.UseRedis {
			deps["redis"] = importedRedis != nil
			if !deps["redis"] {
				ready = false
			}
		} else {
			deps["redis"] = true
		}

		deps["files"] = files != nil

		if !ready {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "not_ready", "deps": deps, "uptime": fmt.Sprintf("%s", time.Since(startTime))})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ready", "deps": deps, "uptime": fmt.Sprintf("%s", time.Since(startTime))})
	})

	// Connect to MongoDB for the patient document repository. Retry with
	// backoff to tolerate startup races; fall back to memory when absent.
	ctx := context.Background()
	var patientsRepo repository.Repository
	if cfg.MongoDB.URI != "" {
		const maxAttempts = 5
		backoff := time.Second
		var errConn error
		for attempt := 1; attempt <= maxAttempts; attempt++ {
			mongoClient, errConn = database.Connect(ctx, cfg.MongoDB)
			if errConn == nil {
				break
			}
			logger.Warnf("attempt %d/%d: failed to connect to MongoDB: %v", attempt, maxAttempts, errConn)
			if attempt < maxAttempts {
				time.Sleep(backoff)
				backoff *= 2
			}
		}
		if errConn != nil {
			logger.Warnf("could not connect to MongoDB after %d attempts: %v", maxAttempts, errConn)
		} else {
			defer func() { _ = mongoClient.Disconnect(ctx) }()
			col := mongoClient.Database(cfg.MongoDB.Database).Collection("patients")
			patientsRepo = repository.NewMongoRepo(col)
			logger.Infof("Using MongoDB for patient records")
		}
	}
	if patientsRepo == nil {
		patientsRepo = repository.NewMemoryRepo()
		logger.Warnf("using memory-backed patient repository (no MongoDB)")
	}

	// Optional MinIO object storage for identification documents
	minioCfg := storage.LoadMinIOConfig()
	if minioCfg.Endpoint != "" {
		fs, err := storage.NewMinIOStorage(minioCfg)
		if err != nil {
			logger.Warnf("failed to initialize MinIO storage: %v", err)
		} else {
			files = fs
			logger.Infof("Connected to MinIO at %s (bucket %s)", minioCfg.Endpoint, minioCfg.Bucket)
		}
	}

	// Register handlers
	authHandler := handlers.NewAuthHandler(authSvc)
	authHandler.Register(r.Group("/"))
	handlers.RegisterSwagger(r)

	patientSvc := service.New(patientsRepo, identity, files)
	handler.RegisterPatientRoutes(r, patientSvc)

	// Expose Prometheus metrics
	metrics.RegisterCollectors(prometheus.DefaultRegisterer)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	addr := fmt.Sprintf("%s:%s", cfg.Server.Host, cfg.Server.Port)
	logger.Infof("Config summary: provider=%v mongo=%v redis=%v session_secret_set=%v", cfg.Provider.Endpoint != "", cfg.MongoDB.URI != "", cfg.Redis.Host != "", cfg.Session.Secret != "")
	logger.Infof("Starting careconnect service on %s", addr)
	// run server in goroutine and keep process alive — defensive: prevents
	// the container from exiting silently if r.Run ever returns.
	go func() {
		if err := r.Run(addr); err != nil {
			logger.Fatalf("server failed: %v", err)
		}
	}()
	select {}
}
