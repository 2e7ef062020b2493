package main

import (
	"context"
	"fmt"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/khoahotran/career-planner/adapters/event"
	httpAdapter "github.com/khoahotran/career-planner/adapters/http"
	"github.com/khoahotran/career-planner/adapters/llm"
	"github.com/khoahotran/career-planner/adapters/offsite"
	"github.com/khoahotran/career-planner/adapters/persistence"
	"github.com/khoahotran/career-planner/adapters/respstore"
	"github.com/khoahotran/career-planner/internal/application/service"
	authUC "github.com/khoahotran/career-planner/internal/application/usecase/auth"
	educationUC "github.com/khoahotran/career-planner/internal/application/usecase/educationmgmt"
	experienceUC "github.com/khoahotran/career-planner/internal/application/usecase/experiencemgmt"
	exportUC "github.com/khoahotran/career-planner/internal/application/usecase/export"
	goalUC "github.com/khoahotran/career-planner/internal/application/usecase/goalmgmt"
	importUC "github.com/khoahotran/career-planner/internal/application/usecase/importing"
	planUC "github.com/khoahotran/career-planner/internal/application/usecase/planning"
	profileUC "github.com/khoahotran/career-planner/internal/application/usecase/profilemgmt"
	skillUC "github.com/khoahotran/career-planner/internal/application/usecase/skillmgmt"
	"github.com/khoahotran/career-planner/internal/config"
	"github.com/khoahotran/career-planner/pkg/auth"
	"github.com/khoahotran/career-planner/pkg/logger"
	"github.com/khoahotran/career-planner/pkg/tracing"
)

func main() {
	fmt.Println("Start Career Planner API Server...")

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("FATAL: cannot load config: %v", err)
	}

	appLogger := logger.NewZapLogger(cfg.App.Env)

	tp, err := tracing.NewTracerProvider(cfg, appLogger, "career-planner-api")
	if err != nil {
		appLogger.Fatal("cannot init tracer provider", err)
	}
	defer func() {
		if err := tp.Shutdown(context.Background()); err != nil {
			appLogger.Error("Failed to shut down tracer provider", err)
		}
	}()

	dbPool, err := persistence.NewPostgresPool(cfg, appLogger)
	if err != nil {
		appLogger.Fatal("cannot connect Postgres", err)
	}
	defer dbPool.Close()

	redisClient, err := persistence.NewRedisClient(cfg)
	if err != nil {
		appLogger.Fatal("cannot connect Redis", err)
	}
	defer redisClient.Close()

	kafkaClient, err := event.NewKafkaProducerClient(cfg)
	if err != nil {
		appLogger.Fatal("cannot init Kafka", err)
	}
	defer kafkaClient.Close()

	// Repositories
	userRepo := persistence.NewPostgresUserRepo(dbPool)
	profileRepo := persistence.NewPostgresProfileRepo(dbPool, appLogger)
	skillRepo := persistence.NewPostgresSkillRepo(dbPool, appLogger)
	educationRepo := persistence.NewPostgresEducationRepo(dbPool, appLogger)
	experienceRepo := persistence.NewPostgresExperienceRepo(dbPool, appLogger)
	goalRepo := persistence.NewPostgresGoalRepo(dbPool, appLogger)
	importRepo := persistence.NewPostgresImportRepo(dbPool, appLogger)
	planRepo := persistence.NewPostgresPlanRepo(dbPool, appLogger)

	// Services
	jwtSvc := auth.NewJWTService(cfg.Auth.JWTSecret, cfg.Auth.TokenLifespan)

	responseStore, err := respstore.NewLocalStore(cfg.Storage.DownloadDir, appLogger)
	if err != nil {
		appLogger.Fatal("cannot init response store", err)
	}

	var uploader service.Uploader
	if cfg.Storage.OffsiteCopy {
		uploader, err = offsite.NewCloudinaryAdapter(cfg)
		if err != nil {
			appLogger.Fatal("cannot init Cloudinary uploader", err)
		}
	}

	llmService, err := llm.NewOpenAILLMAdapter(cfg, appLogger)
	if err != nil {
		appLogger.Fatal("cannot init LLM adapter", err)
	}

	// Use Cases
	loginUseCase := authUC.NewLoginUseCase(userRepo, jwtSvc, appLogger)
	profileUseCase := profileUC.NewProfileUseCase(profileRepo, redisClient, appLogger)
	skillUseCase := skillUC.NewSkillUseCase(skillRepo, appLogger)
	educationUseCase := educationUC.NewEducationUseCase(educationRepo, appLogger)
	experienceUseCase := experienceUC.NewExperienceUseCase(experienceRepo, appLogger)
	goalUseCase := goalUC.NewGoalUseCase(goalRepo, appLogger)
	runImportUseCase := importUC.NewRunImportUseCase(
		skillRepo, educationRepo, experienceRepo, goalRepo, profileRepo,
		importRepo, responseStore, uploader, kafkaClient, cfg.Storage.OffsiteFolder, appLogger,
	)
	listImportsUseCase := importUC.NewListImportsUseCase(importRepo, appLogger)
	getImportUseCase := importUC.NewGetImportUseCase(importRepo)
	exportUseCase := exportUC.NewExportUseCase(
		skillRepo, educationRepo, experienceRepo, goalRepo, profileRepo,
		importRepo, responseStore, appLogger,
	)
	generatePlanUseCase := planUC.NewGeneratePlanUseCase(
		goalRepo, skillRepo, experienceRepo, profileRepo, planRepo,
		llmService, responseStore, kafkaClient, cfg.OpenAI.Timeout, appLogger,
	)
	planQueryUseCase := planUC.NewPlanQueryUseCase(planRepo, appLogger)

	// HTTP Handlers
	authHandler := httpAdapter.NewAuthHandler(loginUseCase)
	profileHandler := httpAdapter.NewProfileHandler(profileUseCase)
	skillHandler := httpAdapter.NewSkillHandler(skillUseCase)
	educationHandler := httpAdapter.NewEducationHandler(educationUseCase)
	experienceHandler := httpAdapter.NewExperienceHandler(experienceUseCase)
	goalHandler := httpAdapter.NewGoalHandler(goalUseCase)
	importHandler := httpAdapter.NewImportHandler(runImportUseCase, listImportsUseCase, getImportUseCase)
	exportHandler := httpAdapter.NewExportHandler(exportUseCase, responseStore)
	planHandler := httpAdapter.NewPlanHandler(generatePlanUseCase, planQueryUseCase)

	// Middleware
	authMiddleware := httpAdapter.AuthMiddleware(jwtSvc)
	errorMiddleware := httpAdapter.ErrorMiddleware(appLogger)

	router := gin.Default()
	router.Use(errorMiddleware)

	api := router.Group("/api")
	{
		api.GET("/health", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"status": "UP"}) })
		api.POST("/auth/login", authHandler.Login)

		private := api.Group("/")
		private.Use(authMiddleware)
		{
			private.GET("/profile", profileHandler.Get)
			private.PUT("/profile", profileHandler.Update)
			private.GET("/profile/export", exportHandler.Export(exportUC.ResourceProfile))

			skills := private.Group("/skills")
			{
				skills.POST("", skillHandler.Create)
				skills.GET("", skillHandler.List)
				skills.GET("/export", exportHandler.Export(exportUC.ResourceSkills))
				skills.GET("/:id", skillHandler.Get)
				skills.PUT("/:id", skillHandler.Update)
				skills.DELETE("/:id", skillHandler.Delete)
			}

			education := private.Group("/education")
			{
				education.POST("", educationHandler.Create)
				education.GET("", educationHandler.List)
				education.GET("/export", exportHandler.Export(exportUC.ResourceEducation))
				education.GET("/:id", educationHandler.Get)
				education.PUT("/:id", educationHandler.Update)
				education.DELETE("/:id", educationHandler.Delete)
			}

			experience := private.Group("/experience")
			{
				experience.POST("", experienceHandler.Create)
				experience.GET("", experienceHandler.List)
				experience.GET("/export", exportHandler.Export(exportUC.ResourceExperience))
				experience.GET("/:id", experienceHandler.Get)
				experience.PUT("/:id", experienceHandler.Update)
				experience.DELETE("/:id", experienceHandler.Delete)
			}

			goals := private.Group("/goals")
			{
				goals.POST("", goalHandler.Create)
				goals.GET("", goalHandler.List)
				goals.GET("/export", exportHandler.Export(exportUC.ResourceGoals))
				goals.GET("/:id", goalHandler.Get)
				goals.PUT("/:id", goalHandler.Update)
				goals.DELETE("/:id", goalHandler.Delete)
			}

			imports := private.Group("/imports")
			{
				imports.POST("/upload", importHandler.Upload)
				imports.POST("/bulk", importHandler.BulkJSON)
				imports.GET("", importHandler.List)
				imports.GET("/export", exportHandler.Export(exportUC.ResourceImports))
				imports.GET("/:id", importHandler.Get)
			}

			private.GET("/export/all", exportHandler.Export(exportUC.ResourceAll))
			private.GET("/files/:name", exportHandler.Download)

			plans := private.Group("/plans")
			{
				plans.POST("/generate", planHandler.Generate)
				plans.GET("", planHandler.List)
				plans.GET("/:id", planHandler.Get)
				plans.GET("/:id/executions", planHandler.ListExecutions)
				plans.POST("/:id/executions/:executionId/complete", planHandler.CompleteWeek)
			}
		}
	}

	appLogger.Info("Server running", zap.String("port", cfg.App.Port))
	if err := router.Run(":" + cfg.App.Port); err != nil {
		appLogger.Fatal("cannot run server", err)
	}
}
