package main

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/lshigami/examprep/config"
	"github.com/lshigami/examprep/database"
	_ "github.com/lshigami/examprep/docs"
	adminctrl "github.com/lshigami/examprep/internal/controller/admin"
	userctrl "github.com/lshigami/examprep/internal/controller/user"
	"github.com/lshigami/examprep/internal/logger"
	"github.com/lshigami/examprep/internal/middleware"
	"github.com/lshigami/examprep/internal/repository"
	"github.com/lshigami/examprep/internal/scheduler"
	"github.com/lshigami/examprep/internal/service"
	"github.com/lshigami/examprep/internal/ws"
	"github.com/rs/zerolog/log"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/fx"
)

// @title Exam Prep API
// @version 1.0
// @description Question bank import, spaced-repetition practice, mock exams and study statistics.
// @host localhost:8080
// @BasePath /api/v1
// @schemes http https
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	logger.Init()

	app := fx.New(
		fx.Provide(
			config.NewConfig,
			database.NewDatabase,
			NewGinEngine,
			ws.NewHub,
		),

		// Repositories Layer
		fx.Provide(
			repository.NewUserRepository,
			repository.NewTagRepository,
			repository.NewPaperRepository,
			repository.NewQuestionRepository,
			repository.NewStudyRecordRepository,
			repository.NewProgressRepository,
			repository.NewExamRecordRepository,
			repository.NewDailyTaskRepository,
		),

		// Services Layer
		fx.Provide(
			service.NewAuthService,
			service.NewQuestionService,
			service.NewPaperService,
			service.NewExplanationService,
			service.NewImportService,
			service.PolicyFromConfig,
			func(hub *ws.Hub) service.ProgressNotifier { return hub },
			service.NewProgressService,
			service.NewReviewService,
			service.NewDailyTaskService,
			service.NewScoreConverterService,
			service.NewExamRecordService,
		),

		// API Controllers Layer
		fx.Provide(
			adminctrl.NewAdminPaperController,
			adminctrl.NewImportController,
			userctrl.NewAuthController,
			userctrl.NewPaperController,
			userctrl.NewPracticeController,
			userctrl.NewReviewController,
			userctrl.NewExamController,
			userctrl.NewWSController,
		),

		fx.Invoke(func(cfg *config.Config) { logger.SetLevel(cfg.LogLevel) }),
		fx.Invoke(database.AutoMigrate),
		fx.Invoke(RegisterRoutesAndStartServer),
		fx.Invoke(scheduler.New),
	)

	if err := app.Start(context.Background()); err != nil {
		log.Fatal().Err(err).Msg("Failed to start application")
	}

	<-app.Done()
	log.Info().Msg("Application shutting down gracefully...")
	stopCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := app.Stop(stopCtx); err != nil {
		log.Error().Err(err).Msg("Shutdown did not complete cleanly")
	}
}

func NewGinEngine(cfg *config.Config) *gin.Engine {
	gin.SetMode(cfg.Server.GinMode)

	r := gin.New()
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger())
	r.Use(gin.Recovery())

	r.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.Server.AllowedOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", middleware.HeaderRequestID},
		ExposeHeaders:    []string{"Content-Length", middleware.HeaderRequestID},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	// URL: http://localhost:PORT/swagger/index.html
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	r.GET("/healthz", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"status": "ok"}) })

	return r
}

// RegisterRoutesAndStartServer configures API routes and manages server lifecycle.
func RegisterRoutesAndStartServer(
	lc fx.Lifecycle,
	router *gin.Engine,
	cfg *config.Config,
	authService service.AuthService,
	adminPaperCtrl *adminctrl.AdminPaperController,
	importCtrl *adminctrl.ImportController,
	authCtrl *userctrl.AuthController,
	paperCtrl *userctrl.PaperController,
	practiceCtrl *userctrl.PracticeController,
	reviewCtrl *userctrl.ReviewController,
	examCtrl *userctrl.ExamController,
	wsCtrl *userctrl.WSController,
) {
	requireAuth := middleware.JWTAuth(authService, cfg.Auth.CookieName)

	api := router.Group("/api/v1")
	{
		auth := api.Group("/auth")
		auth.POST("/register", authCtrl.Register)
		auth.POST("/login", authCtrl.Login)
		auth.POST("/logout", authCtrl.Logout)
		auth.GET("/me", requireAuth, authCtrl.Profile)
		auth.PUT("/password", requireAuth, authCtrl.ChangePassword)
	}

	// User Routes (prefixed with /api/v1)
	userAPIGroup := api.Group("", requireAuth)
	{
		userAPIGroup.GET("/papers", paperCtrl.ListPapers)
		userAPIGroup.GET("/papers/:paper_id", paperCtrl.GetPaper)
		userAPIGroup.POST("/papers/:paper_id/submit", examCtrl.SubmitExam)
		userAPIGroup.GET("/papers/:paper_id/progress", examCtrl.GetProgress)
		userAPIGroup.PUT("/papers/:paper_id/progress", examCtrl.SaveProgress)
		userAPIGroup.DELETE("/papers/:paper_id/progress", examCtrl.ClearProgress)
		userAPIGroup.GET("/exam-records", examCtrl.ListRecords)
		userAPIGroup.GET("/exam-records/:record_id", examCtrl.GetRecord)

		userAPIGroup.GET("/questions", paperCtrl.ListQuestions)
		userAPIGroup.GET("/questions/:question_id", paperCtrl.GetQuestion)
		userAPIGroup.GET("/tags", paperCtrl.ListTags)

		userAPIGroup.POST("/answers", practiceCtrl.SubmitAnswer)
		userAPIGroup.GET("/daily-task", practiceCtrl.DailyTask)
		userAPIGroup.POST("/daily-task/complete", practiceCtrl.CompleteDailyTask)

		userAPIGroup.GET("/review/due", reviewCtrl.DueReviews)
		userAPIGroup.GET("/review/mistakes", reviewCtrl.Mistakes)
		userAPIGroup.GET("/stats", reviewCtrl.Dashboard)
		userAPIGroup.GET("/history", reviewCtrl.History)
	}

	// Admin Routes (prefixed with /api/v1/admin)
	adminAPIGroup := api.Group("/admin", requireAuth, middleware.RequireAdmin())
	{
		adminAPIGroup.POST("/papers", adminPaperCtrl.CreatePaper)
		adminAPIGroup.GET("/papers/:paper_id", adminPaperCtrl.GetPaper)
		adminAPIGroup.DELETE("/papers/:paper_id", adminPaperCtrl.DeletePaper)
		adminAPIGroup.PUT("/questions/:question_id", adminPaperCtrl.UpdateQuestion)
		adminAPIGroup.DELETE("/questions/:question_id", adminPaperCtrl.DeleteQuestion)

		importGroup := adminAPIGroup.Group("/import")
		importGroup.POST("/preview", importCtrl.PreviewText)
		importGroup.POST("/pdf", importCtrl.PreviewPDF)
		importGroup.POST("/xlsx", importCtrl.PreviewSpreadsheet)
		importGroup.POST("/commit", importCtrl.Commit)
	}

	router.GET("/ws", requireAuth, wsCtrl.Connect)

	server := &http.Server{
		Addr:              ":" + cfg.Server.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			log.Info().Msgf("Exam prep API server starting on port %s", cfg.Server.Port)
			log.Info().Msgf("Swagger UI available at http://localhost:%s/swagger/index.html", cfg.Server.Port)
			go func() {
				if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					log.Fatal().Err(err).Msg("Server ListenAndServe failed")
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			log.Info().Msg("Server shutting down...")
			return server.Shutdown(ctx)
		},
	})
}
