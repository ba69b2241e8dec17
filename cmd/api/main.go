package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/yourusername/typerush-api/internal/config"
	"github.com/yourusername/typerush-api/internal/handler"
	"github.com/yourusername/typerush-api/internal/middleware"
	pgRepo "github.com/yourusername/typerush-api/internal/repository/postgres"
	redisRepo "github.com/yourusername/typerush-api/internal/repository/redis"
	"github.com/yourusername/typerush-api/internal/service"
	"github.com/yourusername/typerush-api/internal/service/racemanager"
	ws "github.com/yourusername/typerush-api/internal/websocket"
	"github.com/yourusername/typerush-api/pkg/auth"
	"github.com/yourusername/typerush-api/pkg/database"
)

func main() {
	// Загружаем конфигурацию
	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "config/config.yaml"
	}
	log.Printf("Загрузка конфигурации из %s", configPath)

	cfg, err := config.Load(configPath)
	if err != nil {
		log.Printf("Failed to load config: %v", err)
		os.Exit(1)
	}

	// Инициализируем подключение к PostgreSQL
	db, err := database.NewPostgresDB(cfg.Database.PostgresConnectionString())
	if err != nil {
		log.Printf("Failed to connect to database: %v", err)
		os.Exit(1)
	}

	// Применяем миграции
	if err := database.MigrateDB(db); err != nil {
		log.Printf("Failed to migrate database: %v", err)
		os.Exit(1)
	}

	// Инициализируем подключение к Redis
	redisClient, err := database.NewRedisClient(cfg.Redis)
	if err != nil {
		log.Printf("Failed to connect to Redis: %v", err)
		os.Exit(1)
	}
	log.Println("Successfully connected to Redis")

	// Инициализируем репозитории
	userRepo := pgRepo.NewUserRepo(db)
	raceRepo := pgRepo.NewRaceRepo(db)
	racePlayerRepo := pgRepo.NewRacePlayerRepo(db)
	paragraphRepo := pgRepo.NewParagraphRepo(db)
	resultRepo := pgRepo.NewResultRepo(db)

	cacheRepo, err := redisRepo.NewCacheRepo(redisClient)
	if err != nil {
		log.Printf("Failed to initialize CacheRepo: %v", err)
		os.Exit(1)
	}

	// Конфигурация гоночной подсистемы
	raceConfig := racemanager.DefaultConfig()
	if cfg.Race.MaxPlayers > 0 {
		raceConfig.MaxPlayers = cfg.Race.MaxPlayers
	}
	if cfg.Race.CodeAttempts > 0 {
		raceConfig.CodeAttempts = cfg.Race.CodeAttempts
	}
	if cfg.Race.CodeLength > 0 {
		raceConfig.CodeLength = cfg.Race.CodeLength
	}

	// Инициализируем JWT
	jwtService, err := auth.NewJWTService(cfg.JWT.Secret, cfg.JWT.ExpirationHrs, cfg.JWT.WSTicketExpirySec)
	if err != nil {
		log.Printf("Failed to initialize JWTService: %v", err)
		os.Exit(1)
	}

	// Инициализация WebSocket
	wsHub := ws.NewHub(cfg.WebSocket)
	go wsHub.Run()
	wsManager := ws.NewManager(wsHub)

	// Инициализируем сервисы
	authService, err := service.NewAuthService(userRepo, jwtService)
	if err != nil {
		log.Printf("Failed to initialize AuthService: %v", err)
		os.Exit(1)
	}
	raceService := service.NewRaceService(raceRepo, racePlayerRepo, paragraphRepo, userRepo, raceConfig)
	paragraphService := service.NewParagraphService(paragraphRepo)
	resultService := service.NewResultService(resultRepo, userRepo, paragraphRepo)
	userService := service.NewUserService(userRepo, resultRepo, cacheRepo)
	raceManager := service.NewRaceManager(raceService, raceRepo, racePlayerRepo, userRepo, resultRepo, cacheRepo, wsManager, raceConfig)

	// Разрешенные origin для CORS и WebSocket
	allowedOrigins := []string{
		"http://localhost:5173",
		"http://localhost:3000",
		"http://localhost:8000",
	}
	if cfg.Server.PublicURL != "" {
		allowedOrigins = append(allowedOrigins, cfg.Server.PublicURL)
	}

	// Инициализируем обработчики
	authHandler := handler.NewAuthHandler(authService)
	raceHandler := handler.NewRaceHandler(raceService, cfg.Server.PublicURL)
	practiceHandler := handler.NewPracticeHandler(paragraphService, resultService)
	userHandler := handler.NewUserHandler(userService)
	wsHandler := handler.NewWSHandler(wsHub, wsManager, raceService, raceManager, jwtService, allowedOrigins)

	// Инициализируем middleware
	authMiddleware := middleware.NewAuthMiddleware(jwtService)
	rateLimiter := middleware.NewRateLimiter(redisClient)

	// Инициализируем роутер Gin
	router := gin.Default()

	isProduction := gin.Mode() == gin.ReleaseMode

	// Настройка доверенных прокси для корректной работы c.ClientIP()
	if isProduction {
		if err := router.SetTrustedProxies(nil); err != nil {
			log.Printf("Warning: failed to set trusted proxies: %v", err)
		}
	} else {
		if err := router.SetTrustedProxies([]string{"127.0.0.1", "::1"}); err != nil {
			log.Printf("Warning: failed to set trusted proxies: %v", err)
		}
	}

	// Настройка CORS
	router.Use(cors.New(cors.Config{
		AllowOrigins:     allowedOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization"},
		ExposeHeaders:    []string{"Content-Length", "Content-Disposition"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	// Health-check для оркестраторов и мониторинга
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":    "ok",
			"websocket": wsManager.GetMetrics(),
		})
	})

	// Настраиваем маршруты API
	api := router.Group("/api")
	{
		// Аутентификация
		authGroup := api.Group("/auth")
		{
			authGroup.POST("/register", rateLimiter.Limit(middleware.AuthRateLimitConfig()), authHandler.Register)
			authGroup.POST("/login", rateLimiter.Limit(middleware.AuthRateLimitConfig()), authHandler.Login)
			authGroup.POST("/guest", rateLimiter.Limit(middleware.AuthRateLimitConfig()), authHandler.Guest)

			authedAuth := authGroup.Group("/")
			authedAuth.Use(authMiddleware.RequireAuth())
			{
				authedAuth.POST("/ws-ticket", authHandler.WSTicket)
			}
		}

		// Пользователи
		users := api.Group("/users")
		users.Use(authMiddleware.RequireAuth())
		{
			users.GET("/me", authHandler.Me)
			users.PUT("/me", authHandler.UpdateProfile)
			users.GET("/me/dashboard", userHandler.GetDashboard)
			users.GET("/me/results", practiceHandler.GetMyResults)
		}

		// Лидерборд: просмотр публичный, выгрузка только для администраторов
		api.GET("/leaderboard", userHandler.GetLeaderboard)
		api.GET("/leaderboard/export", authMiddleware.RequireAuth(), authMiddleware.AdminOnly(), userHandler.ExportLeaderboard)
		api.GET("/results/recent", practiceHandler.GetRecentResults)

		// Тексты и тренировки
		paragraphs := api.Group("/paragraphs")
		{
			paragraphs.GET("/random", practiceHandler.GetRandomParagraph)

			adminParagraphs := paragraphs.Group("")
			adminParagraphs.Use(authMiddleware.RequireAuth(), authMiddleware.AdminOnly())
			{
				adminParagraphs.POST("", practiceHandler.CreateParagraph)
			}
		}

		practice := api.Group("/practice")
		practice.Use(authMiddleware.RequireAuth())
		{
			practice.POST("/results", practiceHandler.SubmitPractice)
		}

		// Гонки
		races := api.Group("/races")
		{
			races.GET("", raceHandler.ListRaces)

			authedRaces := races.Group("")
			authedRaces.Use(authMiddleware.RequireAuth())
			{
				authedRaces.POST("", rateLimiter.Limit(middleware.RaceCreateRateLimitConfig()), raceHandler.CreateRace)
			}

			// Группа маршрутов, требующих кода гонки
			raceWithCode := races.Group("/:code")
			raceWithCode.Use(middleware.ExtractRaceCode("code", "race_code"))
			{
				raceWithCode.GET("", raceHandler.GetRace)
				raceWithCode.GET("/standings", raceHandler.GetStandings)
				raceWithCode.GET("/qr", raceHandler.ShareQR)

				authedRaceWithCode := raceWithCode.Group("")
				authedRaceWithCode.Use(authMiddleware.RequireAuth())
				{
					authedRaceWithCode.POST("/join", raceHandler.JoinRace)
					authedRaceWithCode.POST("/start", raceHandler.StartRace)
				}
			}
		}
	}

	// WebSocket маршрут
	router.GET("/ws", wsHandler.HandleConnection)

	// Настраиваем HTTP сервер с тайм-аутами для защиты от slow client attacks
	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
	}

	// Запускаем сервер в горутине
	go func() {
		log.Printf("Starting server on port %s", cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Printf("Failed to start server: %v", err)
		}
	}()

	log.Printf("Server started on port %s", cfg.Server.Port)

	// Ожидаем сигнал остановки
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	// Создаем контекст с таймаутом для graceful shutdown сервера
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("Server forced to shutdown: %v", err)
		os.Exit(1)
	}

	if err := redisClient.Close(); err != nil {
		log.Printf("Error closing Redis client: %v", err)
	}

	log.Println("Server exited properly")
}
