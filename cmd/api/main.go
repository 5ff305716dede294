package main

import (
	"log/slog"
	"os"

	_ "fbmanager/api/swagger" // swagger docs
	"fbmanager/internal/access"
	"fbmanager/internal/config"
	"fbmanager/internal/database"
	"fbmanager/internal/email"
	"fbmanager/internal/facebook"
	"fbmanager/internal/handler"
	"fbmanager/internal/middleware"
	"fbmanager/internal/openai"
	"fbmanager/internal/ratelimit"
	"fbmanager/internal/repository"
	"fbmanager/internal/service"
	"fbmanager/internal/token"
	"fbmanager/internal/websocket"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// @title           Facebook AI Manager API
// @version         1.0
// @description     API for managing Facebook pages with AI-assisted content, auto-responses and analytics.
// @host            localhost:8080
// @BasePath        /api
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	if err := godotenv.Load("configs/.env"); err != nil {
		slog.Info("no configs/.env file found")
	}

	cfg, err := config.Load()
	if err != nil {
		slog.Error("configuration error", "error", err)
		os.Exit(1)
	}

	initLogger(cfg)

	db, err := database.NewConnection(cfg.DatabaseURL)
	if err != nil {
		slog.Error("database connection failed", "error", err)
		os.Exit(1)
	}
	slog.Info("connected to postgres")

	tokens, err := token.NewService(cfg.JWTSecret, cfg.JWTAudience, cfg.JWTIssuer)
	if err != nil {
		slog.Error("token service init failed", "error", err)
		os.Exit(1)
	}

	loginLimiter, signupLimiter := buildLimiters(cfg)

	// Set up WebSocket Hub
	wsHub := websocket.NewHub()
	go wsHub.Run()

	// External clients
	graph := facebook.NewClient(cfg.FacebookGraphURL)
	ai := openai.NewClient(cfg.OpenAIBaseURL, cfg.OpenAIKey)
	mailer := email.NewSender(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUser, cfg.SMTPPass, cfg.MailFrom, cfg.AppURL)

	// Set up dependencies (Repository -> Service -> Handler)
	userRepo := repository.NewUserRepository(db)
	tokenRepo := repository.NewRefreshTokenRepository(db)
	pageRepo := repository.NewPageRepository(db)
	postRepo := repository.NewPostRepository(db)
	ruleRepo := repository.NewAutoResponseRepository(db)
	trendingRepo := repository.NewTrendingRepository(db)

	hasher := service.NewPasswordHasher(cfg.BcryptCost)
	authService := service.NewAuthService(userRepo, tokenRepo, tokens, hasher, mailer, cfg.AccessTTL, cfg.RefreshTTL)
	pageService := service.NewPageService(pageRepo, graph)
	postService := service.NewPostService(postRepo, pageRepo, userRepo, graph, ai, wsHub)
	analyticsService := service.NewAnalyticsService(pageRepo, postRepo, graph, wsHub)
	autoResponseService := service.NewAutoResponseService(ruleRepo, pageRepo, graph, ai, wsHub)
	trendingService := service.NewTrendingService(trendingRepo)
	adminService := service.NewAdminService(userRepo)

	// Initialize Handlers
	authHandler := handler.NewAuthHandler(authService, tokens, loginLimiter, signupLimiter)
	pageHandler := handler.NewPageHandler(pageService)
	postHandler := handler.NewPostHandler(postService)
	analyticsHandler := handler.NewAnalyticsHandler(analyticsService)
	autoResponseHandler := handler.NewAutoResponseHandler(autoResponseService)
	trendingHandler := handler.NewTrendingHandler(trendingService)
	adminHandler := handler.NewAdminHandler(adminService)

	// Set up Gin Router
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.Default()

	// CORS configuration
	corsConfig := cors.DefaultConfig()
	corsConfig.AllowOrigins = []string{"http://localhost:5173", "http://127.0.0.1:5173", cfg.AppURL}
	corsConfig.AllowCredentials = true
	corsConfig.AllowHeaders = []string{"Origin", "Content-Length", "Content-Type", "Authorization", "Accept"}
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"}
	router.Use(cors.New(corsConfig))

	// Tier-based path access applies to every route
	evaluator, err := access.NewEvaluator(access.DefaultRules())
	if err != nil {
		slog.Error("access rules failed to compile", "error", err)
		os.Exit(1)
	}
	router.Use(middleware.AccessControl(tokens, evaluator))

	// Swagger route
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// Health check
	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "OK"})
	})

	// WebSocket endpoint
	router.GET("/ws", func(c *gin.Context) {
		websocket.ServeWs(wsHub, c, tokens)
	})

	// Register API Routes
	api := router.Group("/api")
	authHandler.RegisterRoutes(api.Group("/auth"))
	pageHandler.RegisterRoutes(api.Group("/pages"))
	postHandler.RegisterRoutes(api.Group("/posts"))
	analyticsHandler.RegisterRoutes(api.Group("/analytics"))
	autoResponseHandler.RegisterRoutes(api.Group("/autoresponse"))
	trendingHandler.RegisterRoutes(api.Group("/trending"))
	adminHandler.RegisterRoutes(api.Group("/admin"))

	slog.Info("server listening", "port", cfg.Port)
	if err := router.Run(":" + cfg.Port); err != nil {
		slog.Error("server failed", "error", err)
		os.Exit(1)
	}
}

// initLogger switches to JSON logs in production, human-readable text in dev.
func initLogger(cfg *config.Config) {
	var h slog.Handler
	if cfg.IsProduction() {
		h = slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo})
	} else {
		h = slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug})
	}
	slog.SetDefault(slog.New(h))
}

// buildLimiters uses redis-backed budgets when REDIS_ADDR is set so blocks
// survive restarts and are shared across instances; otherwise in-memory.
func buildLimiters(cfg *config.Config) (login, signup ratelimit.Limiter) {
	loginPolicy := ratelimit.Policy{Points: cfg.LoginPoints, Window: cfg.LoginWindow, Block: cfg.LoginBlock}
	signupPolicy := ratelimit.Policy{Points: cfg.SignupPoints, Window: cfg.SignupWindow, Block: cfg.SignupBlock}

	if cfg.RedisAddr != "" {
		rdb := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
		slog.Info("rate limiting backed by redis", "addr", cfg.RedisAddr)
		return ratelimit.NewRedisLimiter(loginPolicy, "rl:login", rdb),
			ratelimit.NewRedisLimiter(signupPolicy, "rl:signup", rdb)
	}
	return ratelimit.NewMemoryLimiter(loginPolicy), ratelimit.NewMemoryLimiter(signupPolicy)
}
