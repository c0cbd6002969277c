package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/admitglobal/referral-backend/internal/entity"
	"github.com/admitglobal/referral-backend/internal/infra/database"
	"github.com/admitglobal/referral-backend/internal/infra/fallback"
	"github.com/admitglobal/referral-backend/internal/infra/http/handlers"
	"github.com/admitglobal/referral-backend/internal/infra/http/middleware"
	"github.com/admitglobal/referral-backend/internal/infra/integration/openai"
	"github.com/admitglobal/referral-backend/internal/infra/integration/supabase"
	"github.com/admitglobal/referral-backend/internal/infra/mail"
	"github.com/admitglobal/referral-backend/internal/infra/queue"
	"github.com/admitglobal/referral-backend/internal/usecase"
)

func main() {
	godotenv.Load()

	// 1. Primary store. A down database is not fatal: the fallback store
	// keeps the availability-critical paths alive.
	db, err := database.NewDBConnection(os.Getenv("DATABASE_URL"))
	if err != nil {
		log.Printf("⚠️ primary store unreachable at boot, running in degraded mode: %v", err)
	}
	if db != nil {
		defer db.Close()
	}

	// 2. Fallback store: one per process, injected everywhere it is needed.
	fallbackStore := fallback.Open(envOr("FALLBACK_STORE_PATH", "./storage.json"))

	// 3. RabbitMQ is optional too; without it lead notifications are skipped.
	var producer queue.ProducerInterface
	rabbitMQ := connectRabbitMQ()
	if rabbitMQ != nil {
		defer rabbitMQ.Conn.Close()
		defer rabbitMQ.Ch.Close()
		producer = queue.NewProducer(rabbitMQ.Conn, rabbitMQ.Ch)

		mailSender := mail.NewEmailSender(
			os.Getenv("MAIL_HOST"), envIntOr("MAIL_PORT", 587),
			os.Getenv("MAIL_USER"), os.Getenv("MAIL_PASS"),
			os.Getenv("MAIL_FROM"), os.Getenv("LEAD_ALERT_INBOX"),
		)
		worker := queue.NewWorker(rabbitMQ.Ch, mailSender)
		go worker.Start(queue.QueueName)
	}

	// 4. Repositories (primary store accessors). While the database is down
	// their calls error and the handlers fall back.
	collegeRepo := database.NewCollegeRepository(db)
	courseRepo := database.NewCourseRepository(db)
	specRepo := database.NewSpecializationRepository(db)
	leadRepo := database.NewLeadRepository(db)
	settingRepo := database.NewSettingRepository(db)
	userRepo := database.NewAdminUserRepository(db)
	statsRepo := database.NewStatsRepository(db)

	// 5. Integrations
	storageClient := supabase.NewClient(
		os.Getenv("SUPABASE_URL"), os.Getenv("SUPABASE_SERVICE_KEY"),
		os.Getenv("SUPABASE_BUCKET"),
	)
	aiClient := openai.NewClient(os.Getenv("OPENAI_API_KEY"), os.Getenv("OPENAI_MODEL"))

	// 6. Session guard
	guard := middleware.NewSessionGuard(
		[]byte(os.Getenv("JWT_SECRET")),
		os.Getenv("SESSION_COOKIE_NAME"),
		envIntOr("SESSION_TIMEOUT_HOURS", 24),
		os.Getenv("APP_ENV") == "production",
	)

	// degraded-login admin: env defaults, bcrypt-hashed right here at boot
	var fallbackAdmin *entity.AdminUser
	if u, p := os.Getenv("ADMIN_USERNAME"), os.Getenv("ADMIN_PASSWORD"); u != "" && p != "" {
		fallbackAdmin, err = entity.NewAdminUser(u, "", p)
		if err != nil {
			log.Printf("⚠️ ADMIN_PASSWORD rejected: %v", err)
		}
	}

	// 7. UseCases
	captureLeadUC := usecase.NewCaptureLeadUseCase(leadRepo, fallbackStore, producer)

	// 8. Handlers
	collegeHandler := handlers.NewCollegeHandler(collegeRepo, fallbackStore)
	courseHandler := handlers.NewCourseHandler(courseRepo)
	specHandler := handlers.NewSpecializationHandler(specRepo)
	leadHandler := handlers.NewLeadHandler(leadRepo, captureLeadUC)
	authHandler := handlers.NewAuthHandler(userRepo, guard, fallbackAdmin)
	statsHandler := handlers.NewStatsHandler(statsRepo, fallbackStore)
	settingsHandler := handlers.NewSettingsHandler(settingRepo)
	uploadHandler := handlers.NewUploadHandler(storageClient, os.Getenv("UPLOAD_LOCAL_DIR"))
	aiHandler := handlers.NewAIHandler(aiClient)
	healthHandler := handlers.NewHealthHandler(db, rabbitConn(rabbitMQ), storageClient.Configured(), aiClient.Configured())

	// 9. Router
	r := chi.NewRouter()
	r.Use(chimiddleware.Logger)
	r.Use(middleware.Metrics)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{envOr("CORS_ORIGIN", "http://localhost:3000")},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Content-Type"},
		AllowCredentials: true,
	}))

	r.Get("/health", healthHandler.Handle)
	r.Handle("/metrics", promhttp.Handler())

	// public surface
	r.Post("/api/leads", leadHandler.Capture)
	r.Post("/api/ai/sop-review", aiHandler.SOPReview)
	r.Post("/api/ai/search-assist", aiHandler.SearchAssist)

	// admin auth
	r.Post("/api/admin/auth/login", authHandler.Login)
	r.Post("/api/admin/auth/logout", authHandler.Logout)

	// admin API, session-guarded
	r.Route("/api/admin", func(r chi.Router) {
		r.Use(guard.RequireAPI)

		r.Post("/colleges", collegeHandler.Create)
		r.Get("/colleges", collegeHandler.List)
		r.Get("/colleges/{id}", collegeHandler.Get)
		r.Put("/colleges/{id}", collegeHandler.Update)
		r.Delete("/colleges", collegeHandler.Delete)

		r.Post("/courses", courseHandler.Create)
		r.Get("/courses", courseHandler.List)
		r.Get("/courses/{id}", courseHandler.Get)
		r.Put("/courses/{id}", courseHandler.Update)
		r.Delete("/courses", courseHandler.Delete)

		r.Post("/specializations", specHandler.Create)
		r.Get("/specializations", specHandler.List)
		r.Get("/specializations/{id}", specHandler.Get)
		r.Put("/specializations/{id}", specHandler.Update)
		r.Delete("/specializations", specHandler.Delete)

		r.Get("/leads", leadHandler.List)
		r.Get("/leads/{id}", leadHandler.Get)
		r.Put("/leads/{id}", leadHandler.Update)
		r.Delete("/leads", leadHandler.Delete)

		r.Get("/stats", statsHandler.Handle)

		r.Get("/settings", settingsHandler.List)
		r.Post("/settings", settingsHandler.Set)
		r.Put("/settings", settingsHandler.Set)

		// uploads are admin-role only
		r.Group(func(r chi.Router) {
			r.Use(guard.RequireRole(entity.RoleAdmin))
			r.Post("/upload", uploadHandler.Upload)
			r.Delete("/upload", uploadHandler.Delete)
		})
	})

	// 10. Serve until SIGINT/SIGTERM, then drain in-flight requests so the
	// deferred closes above actually run.
	server := &http.Server{Addr: ":" + envOr("PORT", "8080"), Handler: r}

	go func() {
		log.Printf("🔥 admissions API listening on %s", server.Addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("❌ server failed: %v", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop

	log.Println("⚠️ shutting down...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Printf("❌ shutdown incomplete: %v", err)
	}
}

func connectRabbitMQ() *queue.RabbitMQ {
	host := os.Getenv("RABBITMQ_HOST")
	if host == "" {
		return nil
	}
	rmq, err := queue.NewRabbitMQ(
		envOr("RABBITMQ_USER", "guest"), envOr("RABBITMQ_PASS", "guest"),
		host, envOr("RABBITMQ_PORT", "5672"),
	)
	if err != nil {
		log.Printf("⚠️ RabbitMQ unreachable, lead notifications disabled: %v", err)
		return nil
	}
	return rmq
}

func rabbitConn(rmq *queue.RabbitMQ) *amqp.Connection {
	if rmq == nil {
		return nil
	}
	return rmq.Conn
}

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func envIntOr(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}
