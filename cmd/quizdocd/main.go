package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/joho/godotenv"

	api "github.com/quizdoc/quizdoc/internal/api/http"
	"github.com/quizdoc/quizdoc/internal/auth"
	"github.com/quizdoc/quizdoc/internal/cache"
	"github.com/quizdoc/quizdoc/internal/catalog"
	"github.com/quizdoc/quizdoc/internal/config"
	"github.com/quizdoc/quizdoc/internal/db"
	"github.com/quizdoc/quizdoc/internal/exam"
	"github.com/quizdoc/quizdoc/internal/progress"
	"github.com/quizdoc/quizdoc/internal/question"
	"github.com/quizdoc/quizdoc/internal/rbac"
	"github.com/quizdoc/quizdoc/internal/storage"
	"github.com/quizdoc/quizdoc/internal/user"
)

func main() {
	_ = godotenv.Load()
	cfg := config.FromEnv()

	// --- DB ---
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	dbh, err := db.Open(ctx, db.Driver(cfg.DBDriver), cfg.DBDSN)
	cancel()
	if err != nil {
		log.Fatalf("db open failed: %v", err)
	}

	// --- Cache ---
	redis := cache.NewRedisCache(cfg.RedisAddr, cfg.RedisPassword)
	presence := cache.NewPresence(redis, cfg.PresenceTTL)

	// --- Blob store ---
	var blobs storage.BlobStore
	switch cfg.BlobDriver {
	case "s3":
		blobs, err = storage.NewS3Store(context.Background(), storage.S3Options{
			Endpoint:  cfg.S3Endpoint,
			Bucket:    cfg.S3Bucket,
			AccessKey: cfg.S3AccessKey,
			SecretKey: cfg.S3SecretKey,
			UseSSL:    cfg.S3UseSSL,
		})
	default:
		blobs, err = storage.NewFSStore(cfg.BlobBasePath)
	}
	if err != nil {
		log.Fatalf("blob store: %v", err)
	}

	// --- Auth ---
	authSvc := auth.NewAuthService(cfg.AuthHMACSecret, dbh)
	if cfg.AdminEmail != "" && cfg.AdminPassword != "" {
		if err := auth.EnsureAdmin(context.Background(), dbh, cfg.AdminEmail, cfg.AdminPassword); err != nil {
			log.Fatalf("admin seed: %v", err)
		}
	}

	// --- Services ---
	examSvc := exam.NewService(exam.NewSQLStore(dbh), redis, cfg.QuestionCacheTTL)
	catalogSvc := catalog.NewService(catalog.NewSQLStore(dbh), redis, blobs)
	questionSvc := question.NewService(question.NewSQLStore(dbh), redis)
	progressStore := progress.NewSQLStore(dbh)
	progressSvc := progress.NewService(progressStore, blobs)
	userSvc := user.NewService(user.NewSQLStore(dbh), examSvc)

	tracker := progress.NewTracker(cfg.FlushDelay, func(ctx context.Context, u progress.Update) error {
		return progressSvc.UpdatePage(ctx, u.SessionID, u.UserID, u.TopicID, u.Page)
	})

	// --- Router ---
	r := chi.NewRouter()
	r.Use(middleware.RequestID, middleware.RealIP, middleware.Logger, middleware.Recoverer)
	r.Use(middleware.Timeout(30 * time.Second))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.CORSOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Authorization", "Content-Type"},
		ExposedHeaders:   []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	r.Post("/auth/login", auth.LoginHandler(authSvc))
	r.Get("/healthz", api.HealthzHandler())
	r.Get("/readyz", api.ReadyzHandler(dbh, redis))

	// Protected API (JWT → role in context → RBAC)
	r.Group(func(pr chi.Router) {
		pr.Use(auth.JWTMiddleware(authSvc))

		// Catalog
		pr.With(rbac.Require("category:list")).
			Get("/categories", api.ListCategoriesHandler(catalogSvc))
		pr.With(rbac.Require("category:create")).
			Post("/categories", api.CreateCategoryHandler(catalogSvc))
		pr.With(rbac.Require("category:update")).
			Patch("/categories/{categoryID}", api.RenameCategoryHandler(catalogSvc))
		pr.With(rbac.Require("category:delete")).
			Delete("/categories/{categoryID}", api.DeleteCategoryHandler(catalogSvc))
		pr.With(rbac.Require("category:delete")).
			Get("/categories/deleted", api.ListDeletedCategoriesHandler(catalogSvc))
		pr.With(rbac.Require("category:restore")).
			Post("/categories/{categoryID}/restore", api.RestoreCategoryHandler(catalogSvc))

		// Questions (admin console)
		pr.With(rbac.Require("question:list")).
			Get("/categories/{categoryID}/questions", api.ListQuestionsHandler(questionSvc))
		pr.With(rbac.Require("question:view")).
			Get("/questions/{questionID}", api.GetQuestionHandler(questionSvc))
		pr.With(rbac.Require("question:update")).
			Put("/questions/{questionID}", api.UpdateQuestionHandler(questionSvc))
		pr.With(rbac.Require("question:update")).
			Patch("/questions/{questionID}/paragraph", api.SetParagraphHandler(questionSvc))
		pr.With(rbac.Require("question:import")).
			Post("/questions/import", api.ImportQuestionsHandler(questionSvc))

		// Flags
		pr.With(rbac.Require("flag:create")).
			Post("/flags", api.CreateFlagHandler(questionSvc))
		pr.With(rbac.Require("flag:review")).
			Get("/flags", api.ListFlagsHandler(questionSvc))
		pr.With(rbac.Require("flag:review")).
			Post("/flags/{flagID}/resolve", api.ResolveFlagHandler(questionSvc))

		// Tests
		pr.With(rbac.Require("test:create")).
			Post("/tests", api.CreateTestHandler(examSvc))
		pr.With(rbac.Require("test:view")).
			Get("/tests/{testID}/{testType}", api.GetTestHandler(examSvc))
		pr.With(rbac.Require("test:submit")).
			Post("/tests/{testID}/{testType}/submit", api.SubmitTestHandler(examSvc))

		// Topics and documents
		pr.With(rbac.Require("topic:manage")).
			Post("/topics", api.CreateTopicHandler(catalogSvc))
		pr.With(rbac.Require("topic:manage")).
			Get("/topics", api.ListTopicsHandler(catalogSvc))
		pr.With(rbac.Require("topic:manage")).
			Get("/topics/{topicID}", api.GetTopicHandler(catalogSvc))
		pr.With(rbac.Require("topic:manage")).
			Patch("/topics/{topicID}", api.RenameTopicHandler(catalogSvc))
		pr.With(rbac.Require("topic:manage")).
			Delete("/topics/{topicID}", api.DeleteTopicHandler(catalogSvc))
		pr.With(rbac.Require("topic:manage")).
			Post("/topics/{topicID}/document", api.UploadDocumentHandler(catalogSvc))
		pr.With(rbac.Require("doc:view")).
			Get("/topics/{topicID}/document", api.GetDocumentHandler(catalogSvc))

		// Learning sessions
		pr.With(rbac.Require("learning:create")).
			Post("/users/{userID}/learning", api.CreateLearningSessionHandler(progressSvc))
		pr.With(rbac.Require("learning:view")).
			Get("/users/{userID}/learning", api.ListLearningSessionsHandler(progressSvc))
		pr.With(rbac.Require("learning:view")).
			Get("/users/{userID}/learning/{sessionID}", api.GetLearningSessionHandler(progressSvc))
		pr.With(rbac.Require("learning:update")).
			Post("/users/{userID}/learning/{sessionID}/pages", api.EnqueuePageHandler(tracker))
		pr.With(rbac.Require("learning:update")).
			Post("/users/{userID}/learning/{sessionID}/flush", api.FlushProgressHandler(tracker))
		pr.With(rbac.Require("learning:reset")).
			Post("/users/{userID}/learning/{sessionID}/reset", api.ResetLearningSessionHandler(progressSvc))

		// Profiles, stats, leaderboard
		pr.With(rbac.Require("profile:view")).
			Get("/users/{userID}", api.GetProfileHandler(userSvc))
		pr.With(rbac.Require("profile:update")).
			Patch("/users/{userID}", api.UpdateProfileHandler(userSvc))
		pr.With(rbac.Require("stats:view")).
			Get("/users/{userID}/stats", api.UserStatsHandler(userSvc))
		pr.With(rbac.Require("test:view")).
			Get("/users/{userID}/tests", api.TestHistoryHandler(userSvc))
		pr.With(rbac.Require("leaderboard:view")).
			Get("/leaderboard", api.LeaderboardHandler(userSvc))

		// Presence
		pr.With(rbac.Require("presence:update")).
			Post("/presence/{userID}", api.RefreshPresenceHandler(presence))
		pr.With(rbac.Require("leaderboard:view")).
			Get("/active-users", api.ActiveUsersHandler(presence))
	})

	srv := &http.Server{Addr: cfg.HTTPAddr, Handler: r}

	go func() {
		log.Printf("listening on %s (db=%s, blob=%s)", cfg.HTTPAddr, cfg.DBDriver, cfg.BlobDriver)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server: %v", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("shutdown: %v", err)
	}
	// Flush buffered reading progress before the process exits.
	tracker.Close()
}
