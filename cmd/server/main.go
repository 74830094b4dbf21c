package main

import (
	"context"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/careerhub/careerhub-api/adapters/event"
	httpAdapter "github.com/careerhub/careerhub-api/adapters/http"
	"github.com/careerhub/careerhub-api/adapters/media_storage"
	"github.com/careerhub/careerhub-api/adapters/persistence"
	authUC "github.com/careerhub/careerhub-api/internal/application/usecase/auth"
	experienceUC "github.com/careerhub/careerhub-api/internal/application/usecase/experience"
	profileUC "github.com/careerhub/careerhub-api/internal/application/usecase/profile"
	projectUC "github.com/careerhub/careerhub-api/internal/application/usecase/project"
	"github.com/careerhub/careerhub-api/internal/config"
	"github.com/careerhub/careerhub-api/pkg/auth"
	"github.com/careerhub/careerhub-api/pkg/logger"
	"github.com/careerhub/careerhub-api/pkg/tracing"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("FATAL: cannot load config: %v", err)
	}

	appLogger := logger.NewZapLogger(cfg.App.Env)
	defer appLogger.Sync()
	appLogger.Info("Starting CareerHub API server")

	tracerProvider, err := tracing.NewTracerProvider(cfg, appLogger, "careerhub-api")
	if err != nil {
		appLogger.Fatal("Failed to initialize tracing", err)
	}
	defer tracerProvider.Shutdown(context.Background())

	dbPool, err := persistence.NewPostgresPool(cfg, appLogger)
	if err != nil {
		appLogger.Fatal("Cannot connect to Postgres", err)
	}
	defer dbPool.Close()

	redisClient, err := persistence.NewRedisClient(cfg)
	if err != nil {
		appLogger.Fatal("Cannot connect to Redis", err)
	}
	defer redisClient.Close()

	kafkaClient, err := event.NewKafkaProducerClient(cfg, appLogger)
	if err != nil {
		appLogger.Fatal("Cannot initialize Kafka", err)
	}
	defer kafkaClient.Close()

	// Repositories
	userRepo := persistence.NewPostgresUserRepo(dbPool, appLogger)
	profileRepo := persistence.NewPostgresProfileRepo(dbPool, appLogger)
	experienceRepo := persistence.NewPostgresExperienceRepo(dbPool, appLogger)
	projectRepo := persistence.NewPostgresProjectRepo(dbPool, appLogger)

	// Services
	jwtSvc := auth.NewJWTService(cfg.Auth.JWTSecret, cfg.Auth.AccessLifespan, cfg.Auth.RefreshLifespan)
	blacklist := auth.NewRedisTokenBlacklist(redisClient, appLogger)
	uploader, err := media_storage.NewCloudinaryAdapter(cfg, appLogger)
	if err != nil {
		appLogger.Fatal("Failed to initialize uploader", err)
	}

	// Use Cases
	loginUseCase := authUC.NewLoginUseCase(userRepo, jwtSvc, appLogger)
	refreshUseCase := authUC.NewRefreshUseCase(jwtSvc, blacklist, appLogger)
	logoutUseCase := authUC.NewLogoutUseCase(blacklist, appLogger)

	createProfileUseCase := profileUC.NewCreateProfileUseCase(profileRepo, userRepo, kafkaClient, appLogger)
	getProfileUseCase := profileUC.NewGetProfileUseCase(profileRepo, appLogger)
	updateProfileUseCase := profileUC.NewUpdateProfileUseCase(profileRepo, kafkaClient, appLogger)
	deleteProfileUseCase := profileUC.NewDeleteProfileUseCase(profileRepo, kafkaClient, appLogger)
	listProfilesUseCase := profileUC.NewListPublicProfilesUseCase(profileRepo, appLogger)
	completenessUseCase := profileUC.NewRecomputeCompletenessUseCase(profileRepo, appLogger)
	checkSlugUseCase := profileUC.NewCheckSlugUseCase(profileRepo, appLogger)
	uploadPhotoUseCase := profileUC.NewUploadPhotoUseCase(profileRepo, uploader, kafkaClient, appLogger)

	experienceUseCase := experienceUC.NewExperienceUseCase(experienceRepo, profileRepo, kafkaClient, appLogger)
	projectUseCase := projectUC.NewProjectUseCase(projectRepo, profileRepo, kafkaClient, appLogger)

	// HTTP Handlers
	authHandler := httpAdapter.NewAuthHandler(loginUseCase, refreshUseCase, logoutUseCase)
	profileHandler := httpAdapter.NewProfileHandler(
		createProfileUseCase,
		getProfileUseCase,
		updateProfileUseCase,
		deleteProfileUseCase,
		listProfilesUseCase,
		completenessUseCase,
		checkSlugUseCase,
		uploadPhotoUseCase,
		appLogger,
	)
	experienceHandler := httpAdapter.NewExperienceHandler(experienceUseCase, appLogger)
	projectHandler := httpAdapter.NewProjectHandler(projectUseCase, appLogger)

	// Middleware
	authMiddleware := httpAdapter.AuthMiddleware(jwtSvc, blacklist)
	optionalAuthMiddleware := httpAdapter.OptionalAuthMiddleware(jwtSvc, blacklist)

	router := gin.Default()
	router.Use(httpAdapter.ErrorMiddleware(appLogger))

	api := router.Group("/api/v1")
	{
		api.GET("/health", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"status": "UP"}) })

		authGroup := api.Group("/auth")
		{
			authGroup.POST("/login", authHandler.Login)
			authGroup.POST("/refresh", authHandler.Refresh)
			authGroup.POST("/logout", authMiddleware, authHandler.Logout)
		}

		profiles := api.Group("/profiles")
		{
			profiles.GET("", profileHandler.ListPublicProfiles)
			profiles.GET("/search", profileHandler.SearchPublicProfiles)
			profiles.GET("/slug/:slug", optionalAuthMiddleware, profileHandler.GetProfileBySlug)
			profiles.GET("/slug-available/:slug", profileHandler.CheckSlugAvailable)
			profiles.GET("/:id", optionalAuthMiddleware, profileHandler.GetProfile)

			profiles.POST("", authMiddleware, profileHandler.CreateProfile)
			profiles.GET("/me", authMiddleware, profileHandler.GetMyProfile)
			profiles.PUT("/:id", authMiddleware, profileHandler.UpdateProfile)
			profiles.DELETE("/:id", authMiddleware, profileHandler.DeleteProfile)
			profiles.POST("/:id/completeness", authMiddleware, profileHandler.RecomputeCompleteness)
			profiles.POST("/:id/photo", authMiddleware, profileHandler.UploadPhoto)

			profiles.GET("/:id/experiences", optionalAuthMiddleware, experienceHandler.ListExperiences)
			profiles.POST("/:id/experiences", authMiddleware, experienceHandler.CreateExperience)
			profiles.POST("/:id/experiences/reorder", authMiddleware, experienceHandler.ReorderExperiences)

			profiles.GET("/:id/projects", optionalAuthMiddleware, projectHandler.ListProjects)
			profiles.POST("/:id/projects", authMiddleware, projectHandler.CreateProject)
			profiles.POST("/:id/projects/reorder", authMiddleware, projectHandler.ReorderProjects)
		}

		experiences := api.Group("/experiences")
		{
			experiences.GET("/:id", optionalAuthMiddleware, experienceHandler.GetExperience)
			experiences.PUT("/:id", authMiddleware, experienceHandler.UpdateExperience)
			experiences.DELETE("/:id", authMiddleware, experienceHandler.DeleteExperience)
			experiences.POST("/:id/responsibilities", authMiddleware, experienceHandler.AddResponsibility)
			experiences.DELETE("/:id/responsibilities", authMiddleware, experienceHandler.RemoveResponsibility)
			experiences.POST("/:id/technologies", authMiddleware, experienceHandler.AddTechnology)
			experiences.DELETE("/:id/technologies", authMiddleware, experienceHandler.RemoveTechnology)
		}

		projects := api.Group("/projects")
		{
			projects.GET("/:id", optionalAuthMiddleware, projectHandler.GetProject)
			projects.PUT("/:id", authMiddleware, projectHandler.UpdateProject)
			projects.DELETE("/:id", authMiddleware, projectHandler.DeleteProject)
		}
	}

	appLogger.Info("Server running on port " + cfg.App.Port)
	if err := router.Run(":" + cfg.App.Port); err != nil {
		appLogger.Fatal("Cannot run server", err)
	}
}
