package server

import (
	"database/sql"
	"fmt"
	"net/http"
	"time"

	"food-court/internal/config"
	"food-court/internal/database"
	custommiddleware "food-court/internal/middleware"
	"food-court/internal/repository"
	"food-court/internal/service"
	"food-court/internal/storage"
	"food-court/internal/transport"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

type Server struct {
	*http.Server
	config *config.Config
	logger *zap.Logger
	db     *sql.DB
	redis  *redis.Client
}

func NewServer(cfg *config.Config, logger *zap.Logger, db *sql.DB) (*Server, error) {
	// Create router
	router := chi.NewRouter()

	// Add basic middleware
	router.Use(middleware.RequestID)
	router.Use(middleware.RealIP)
	router.Use(middleware.Recoverer)
	router.Use(middleware.Compress(5))
	router.Use(custommiddleware.CORSMiddleware(nil, cfg.Server.Env == "development"))
	router.Use(custommiddleware.ErrorHandlingMiddleware(logger))
	router.Use(custommiddleware.LoggingMiddleware(logger))

	// Health check endpoint
	router.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		custommiddleware.RespondWithJSON(w, http.StatusOK, database.Health(db))
	})

	redisClient := redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%s", cfg.Redis.Host, cfg.Redis.Port),
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})

	fileStore, err := storage.NewFileStore(cfg.Upload.Dir, logger)
	if err != nil {
		return nil, fmt.Errorf("init file store: %w", err)
	}

	// Initialize repositories
	clientRepo := repository.NewClientRepository(db)
	enterpriseRepo := repository.NewEnterpriseRepository(db)
	productRepo := repository.NewProductRepository(db)
	orderRepo := repository.NewOrderRepository(db)

	// Initialize services
	tokenExpiry := time.Duration(cfg.JWT.ExpiryHours) * time.Hour
	clientService := service.NewClientService(clientRepo, cfg.JWT.Secret, tokenExpiry)
	enterpriseService := service.NewEnterpriseService(enterpriseRepo, cfg.JWT.Secret, tokenExpiry)
	productService := service.NewProductService(productRepo)
	orderService := service.NewOrderService(orderRepo)

	// Initialize handlers
	clientHandler := transport.NewClientHandler(clientService, logger)
	enterpriseHandler := transport.NewEnterpriseHandler(enterpriseService, fileStore, logger)
	sessionHandler := transport.NewSessionHandler(clientService, enterpriseService, logger)
	productHandler := transport.NewProductHandler(productService, fileStore, logger)
	orderHandler := transport.NewOrderHandler(orderService, logger)

	// Create auth middleware
	authMiddleware := custommiddleware.AuthMiddleware(cfg.JWT.Secret, logger)

	// Throttle unauthenticated account endpoints
	loginLimiter := custommiddleware.RateLimitMiddleware(redisClient, custommiddleware.RateLimitConfig{
		RequestsPerWindow: 20,
		Window:            time.Minute,
		KeyPrefix:         "ratelimit:session",
	}, logger)

	// Register routes
	router.Group(func(r chi.Router) {
		r.Use(loginLimiter)
		clientHandler.RegisterRoutes(r)
		sessionHandler.RegisterRoutes(r)
	})
	enterpriseHandler.RegisterRoutes(router, authMiddleware)
	productHandler.RegisterRoutes(router, authMiddleware)
	orderHandler.RegisterRoutes(router, authMiddleware)

	// Serve uploaded photos
	uploadsFS := http.StripPrefix("/uploads/", http.FileServer(http.Dir(fileStore.Dir())))
	router.Get("/uploads/*", uploadsFS.ServeHTTP)

	server := &Server{
		Server: &http.Server{
			Addr:         fmt.Sprintf(":%s", cfg.Server.Port),
			Handler:      router,
			IdleTimeout:  time.Minute,
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 30 * time.Second,
		},
		config: cfg,
		logger: logger,
		db:     db,
		redis:  redisClient,
	}

	return server, nil
}

func (s *Server) Close() error {
	s.logger.Info("Closing server resources")

	// Close database connection
	if s.db != nil {
		if err := s.db.Close(); err != nil {
			s.logger.Error("Failed to close database connection", zap.Error(err))
		}
	}

	if s.redis != nil {
		if err := s.redis.Close(); err != nil {
			s.logger.Error("Failed to close redis connection", zap.Error(err))
		}
	}

	s.logger.Sync()
	return nil
}
