package main

import (
	"context"
	"errors"
	"log"
	"time"

	_ "unitdrive/api/swagger" // swagger docs
	"unitdrive/internal/config"
	"unitdrive/internal/docstore"
	"unitdrive/internal/graph"
	"unitdrive/internal/handler"
	"unitdrive/internal/repository"
	"unitdrive/internal/service"
	"unitdrive/internal/websocket"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// @title           Unit Cloud Drive API
// @version         1.0
// @description     Shared cloud drive, gallery and visitor registration for military units.
// @host            localhost:8080
// @BasePath        /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	if err := godotenv.Load("configs/.env"); err != nil {
		log.Println("No configs/.env file found or error loading it")
	}

	cfg := config.Load()

	tokens := graph.NewTokenProvider(cfg.Graph)

	// Probe the token endpoint once at startup. An unreachable endpoint flips
	// the whole app into simulation mode: no network calls at all.
	if !cfg.Simulation && cfg.Graph.Complete() {
		ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		_, err := tokens.AccessToken(ctx)
		cancel()
		switch {
		case err == nil:
			log.Println("Token endpoint reachable, using remote drive")
		case errors.Is(err, graph.ErrEndpointNotFound):
			log.Println("Token endpoint unreachable, falling back to simulation mode")
			cfg.Simulation = true
		case errors.Is(err, graph.ErrInvalidGrant):
			// fatal for every future call, but the operator still gets a
			// running server whose /api/token explains what to do
			log.Printf("WARNING: refresh token rejected: %v", err)
		default:
			log.Printf("WARNING: token probe failed: %v", err)
		}
	}

	if err := cfg.Validate(); err != nil {
		log.Fatalf("Configuration invalid: %v", err)
	}

	// Storage backend: the remote drive, or memory in simulation mode
	var backend docstore.Backend
	var drive service.DriveClient
	if cfg.Simulation {
		log.Println("Running in SIMULATION mode — all state is in-memory")
		backend = docstore.NewMemBackend()
		drive = graph.NewMemDrive()
	} else {
		client := graph.NewClient(tokens, cfg.Graph.DriveRoot)
		backend = client
		drive = client
	}
	store := docstore.New(backend)

	// Set up WebSocket Hub
	wsHub := websocket.NewHub()
	go wsHub.Run()

	// Set up dependencies (Repository -> Service -> Handler)
	userRepo := repository.NewUserRepository(store)
	visitorRepo := repository.NewVisitorRepository(store)
	configRepo := repository.NewConfigRepository(store, cfg.Cache.ConfigPath)
	qrRepo := repository.NewQRCodeRepository(store)

	userService := service.NewUserService(userRepo)
	visitorService := service.NewVisitorService(visitorRepo, wsHub)
	configService := service.NewConfigService(configRepo)
	mediaService := service.NewMediaService(drive, qrRepo)

	// Initialize Handlers
	tokenHandler := handler.NewTokenHandler(tokens)
	userHandler := handler.NewUserHandler(userService)
	visitorHandler := handler.NewVisitorHandler(visitorService)
	configHandler := handler.NewConfigHandler(configService)
	mediaHandler := handler.NewMediaHandler(mediaService)

	// Set up Gin Router
	router := gin.Default()

	// CORS configuration
	corsConfig := cors.DefaultConfig()
	corsConfig.AllowOrigins = cfg.Server.AllowedOrigins
	corsConfig.AllowCredentials = true
	corsConfig.AllowHeaders = []string{"Origin", "Content-Length", "Content-Type", "Authorization", "Accept"}
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"}
	router.Use(cors.New(corsConfig))

	// Swagger route
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// Health check
	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "OK", "simulation": cfg.Simulation})
	})

	// WebSocket endpoint
	router.GET("/ws", func(c *gin.Context) {
		websocket.ServeWs(wsHub, c, config.JWTSecret())
	})

	// Register API Routes
	tokenHandler.RegisterRoutes(router.Group(""))
	userHandler.RegisterRoutes(router.Group(""))
	visitorHandler.RegisterRoutes(router.Group(""))
	configHandler.RegisterRoutes(router.Group(""))
	mediaHandler.RegisterRoutes(router.Group(""))

	log.Printf("Server listening on :%s", cfg.Server.Port)
	if err := router.Run(":" + cfg.Server.Port); err != nil {
		log.Fatalf("Server failed: %v", err)
	}
}
