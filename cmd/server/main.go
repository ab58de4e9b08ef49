package main

import (
	"log"
	"net/http"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"shaqyru-backend/internal/canva"
	"shaqyru-backend/internal/config"
	"shaqyru-backend/internal/database"
	"shaqyru-backend/internal/handlers"
	"shaqyru-backend/internal/media"
	"shaqyru-backend/internal/middleware"
	"shaqyru-backend/internal/photoroom"
	"shaqyru-backend/internal/render"
	"shaqyru-backend/internal/storage"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	if cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	if cfg.DatabaseURL == "" {
		log.Fatal("DATABASE_URL is required")
	}

	migrator, err := database.NewMigrator(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Failed to initialize migrator: %v", err)
	}
	if err := migrator.Run(); err != nil {
		log.Fatalf("Migration failed: %v", err)
	}
	migrator.Close()

	dbClient, err := storage.NewDatabaseClient(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Failed to initialize database client: %v", err)
	}
	defer dbClient.Close()

	cache, err := storage.NewCache(cfg.RedisAddr, cfg.RedisPassword, dbClient)
	if err != nil {
		log.Fatalf("Failed to initialize redis: %v", err)
	}
	defer cache.Close()

	imageStore, err := storage.NewImageStore(cfg.SupabaseURL, cfg.SupabaseServiceKey, cfg.SupabaseStorageBucket)
	if err != nil {
		log.Fatalf("Failed to initialize image store: %v", err)
	}

	canvaClient := canva.NewClient(cfg.CanvaAPIBaseURL, cfg.CanvaAPIKey)
	photoroomClient := photoroom.NewClient(cfg.PhotoRoomBaseURL, cfg.PhotoRoomAPIKey)

	runner := render.NewRunner(canvaClient, dbClient, cache, render.DefaultPollInterval, log.Default())
	pipeline := media.NewPipeline(imageStore, dbClient, photoroomClient)

	templatesHandler := handlers.NewTemplatesHandler(dbClient)
	renderHandler := handlers.NewRenderHandler(dbClient, runner)
	mediaHandler := handlers.NewMediaHandler(pipeline)
	coursesHandler := handlers.NewCoursesHandler(cache)
	enrollmentHandler := handlers.NewEnrollmentHandler(dbClient, cache)
	testsHandler := handlers.NewTestsHandler(dbClient)
	lessonsHandler := handlers.NewLessonsHandler(dbClient)

	router := gin.Default()
	router.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"http://localhost:3000", "https://shaqyru24.kz"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		AllowCredentials: true,
	}))

	router.GET("/health", handlers.HealthHandler)

	// Catalog reads are public; everything stateful requires auth.
	public := router.Group("/api/v2")
	public.GET("/courses", coursesHandler.ListCourses)
	public.GET("/courses/:id", coursesHandler.GetCourse)
	public.GET("/templates/:id", templatesHandler.GetTemplate)

	api := router.Group("/api/v2")
	api.Use(middleware.AuthMiddleware(cfg))

	api.POST("/templates/:id/render", renderHandler.CreateRender)
	api.GET("/renders/:id", renderHandler.GetRenderStatus)

	api.POST("/sites/:siteId/image", mediaHandler.UploadImage)
	api.POST("/sites/:siteId/image/remove-background", mediaHandler.RemoveBackground)
	api.POST("/sites/:siteId/image/confirm", mediaHandler.ConfirmImage)
	api.POST("/sites/:siteId/image/discard", mediaHandler.DiscardImage)

	api.POST("/enrollments", enrollmentHandler.Enroll)
	api.GET("/courses/:id/progress", enrollmentHandler.GetProgress)
	api.POST("/tests/:id/submit", testsHandler.SubmitTest)
	api.POST("/lessons/complete", lessonsHandler.CompleteLesson)

	log.Printf("Server starting on port %s", cfg.Port)
	if err := http.ListenAndServe(":"+cfg.Port, router); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
