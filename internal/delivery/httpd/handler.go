package httpd

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"github.com/TechzoneAdademy/TechzoneAcademyFrontDeskRender/internal/auth"
	"github.com/TechzoneAdademy/TechzoneAcademyFrontDeskRender/internal/metrics"
	"github.com/TechzoneAdademy/TechzoneAcademyFrontDeskRender/internal/models"
	"github.com/TechzoneAdademy/TechzoneAcademyFrontDeskRender/internal/service"
)

// Services groups the use cases the HTTP layer serves.
type Services struct {
	Auth        service.AuthService
	Students    service.StudentService
	Receipts    service.ReceiptService
	OTP         service.OTPService
	Batches     service.BatchService
	Uploads     service.UploadService
	Downloads   service.DownloadService
	Deletes     service.DeleteService
	Messages    service.MessageService
	Feedback    service.FeedbackService
	Credentials service.CredentialService
	Courses     service.CourseService
	Dashboard   service.DashboardService
}

// ReadinessCheck reports whether a backing dependency is reachable.
type ReadinessCheck func(r *http.Request) error

type Handler struct {
	svc          Services
	validator    *Validator
	cookie       CookieConfig
	readiness    map[string]ReadinessCheck
	maxUploadMem int64
	logger       zerolog.Logger
}

type CookieConfig struct {
	Name   string
	Secure bool
	TTL    time.Duration
}

func NewHandler(
	svc Services,
	cookie CookieConfig,
	maxUploadMem int64,
	readiness map[string]ReadinessCheck,
	logger zerolog.Logger,
) *Handler {
	if maxUploadMem <= 0 {
		maxUploadMem = 32 << 20
	}
	return &Handler{
		svc:          svc,
		validator:    NewValidator(),
		cookie:       cookie,
		readiness:    readiness,
		maxUploadMem: maxUploadMem,
		logger:       logger,
	}
}

func (h *Handler) RegisterRoutes(router chi.Router) {
	router.Get("/health", h.HealthCheck)
	router.Get("/ready", h.ReadyCheck)
	router.Handle("/metrics", metrics.Handler())

	admins := auth.RequireRole(writeError, models.RoleAdmin, models.RoleSuperAdmin)
	adminOnly := auth.RequireRole(writeError, models.RoleAdmin)
	superAdmin := auth.RequireRole(writeError, models.RoleSuperAdmin)
	trainer := auth.RequireRole(writeError, models.RoleTrainer)
	student := auth.RequireRole(writeError, models.RoleStudent)
	anyone := auth.RequireRole(writeError)

	router.Route("/api/v1", func(api chi.Router) {
		api.Route("/auth", func(r chi.Router) {
			r.Post("/login", h.Login)
			r.Post("/logout", h.Logout)
			r.With(anyone).Get("/me", h.Me)
		})

		api.With(anyone).Get("/dashboard", h.GetDashboard)

		api.Route("/otp", func(r chi.Router) {
			r.Use(adminOnly)
			r.Post("/send", h.SendOTP)
			r.Post("/verify", h.VerifyOTP)
		})

		api.Route("/students", func(r chi.Router) {
			r.Use(admins)
			r.Get("/", h.ListStudents)
			r.With(adminOnly).Post("/", h.CreateStudent)
			r.Get("/{key}", h.GetStudent)
			r.With(adminOnly).Put("/{key}", h.UpdateStudent)
			r.With(adminOnly).Delete("/{key}", h.DeleteStudent)
			r.Get("/{key}/receipt", h.GetReceipt)
			r.Post("/{key}/receipt/email", h.EmailReceipt)
		})

		api.Route("/batches", func(r chi.Router) {
			r.With(anyone).Get("/", h.ListBatches)
			r.With(admins).Get("/summary", h.BatchSummary)
			r.With(anyone).Get("/{id}", h.GetBatch)
			r.With(adminOnly).Post("/", h.CreateBatch)
			r.With(adminOnly).Put("/{id}", h.UpdateBatch)
			r.With(adminOnly).Delete("/{id}", h.DeleteBatch)
			r.With(anyone).Get("/{id}/files", h.ListBatchFiles)
			r.With(anyone).Get("/{id}/messages", h.ListBatchMessages)
		})

		api.Route("/files", func(r chi.Router) {
			r.With(trainer).Post("/upload", h.UploadFile)
			r.With(trainer).Get("/mine", h.ListMyFiles)
			r.With(anyone).Get("/{filename}", h.DownloadFile)
			r.With(anyone).Get("/{filename}/url", h.GetFileURL)
			r.With(trainer).Delete("/{filename}", h.DeleteFile)
		})

		api.Route("/admin/files", func(r chi.Router) {
			r.Use(admins)
			r.Get("/orphans", h.CountOrphans)
			r.Delete("/orphans", h.CleanupOrphans)
		})

		api.Route("/messages", func(r chi.Router) {
			r.With(trainer).Post("/", h.SendMessage)
			r.With(student).Post("/read", h.MarkMessagesRead)
			r.With(student).Get("/unread", h.UnreadCount)
		})

		api.Route("/feedback", func(r chi.Router) {
			r.With(student).Post("/", h.SubmitFeedback)
			r.With(admins).Get("/", h.ListFeedback)
			r.With(adminOnly).Delete("/", h.DeleteAllFeedback)
			r.With(adminOnly).Delete("/{id}", h.DeleteFeedback)
		})

		api.Route("/admins", func(r chi.Router) {
			r.Use(superAdmin)
			r.Get("/", h.ListAdmins)
			r.Post("/", h.AddAdmin)
			r.Put("/{id}", h.UpdateAdmin)
			r.Delete("/{id}", h.DeleteAdmin)
		})

		api.Route("/courses", func(r chi.Router) {
			r.With(auth.RequireRole(writeError, models.RoleAdmin, models.RoleSuperAdmin, models.RoleTrainer)).Get("/", h.ListCourseRecords)
			r.With(adminOnly).Post("/", h.AddCourseRecord)
			r.With(auth.RequireRole(writeError, models.RoleAdmin, models.RoleTrainer)).Put("/{id}", h.UpdateCourseRecord)
			r.With(adminOnly).Delete("/{id}", h.DeleteCourseRecord)
		})
	})
}

func (h *Handler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"status":    "healthy",
		"service":   "techzone-frontdesk",
		"timestamp": time.Now().UTC(),
	})
}

func (h *Handler) ReadyCheck(w http.ResponseWriter, r *http.Request) {
	checks := make(map[string]string, len(h.readiness))
	status := http.StatusOK
	for name, check := range h.readiness {
		if err := check(r); err != nil {
			h.logger.Warn().Err(err).Str("dependency", name).Msg("Readiness check failed")
			checks[name] = "unavailable"
			status = http.StatusServiceUnavailable
			continue
		}
		checks[name] = "ok"
	}

	state := "ready"
	if status != http.StatusOK {
		state = "not ready"
	}
	writeJSON(w, status, map[string]interface{}{
		"status":    state,
		"checks":    checks,
		"timestamp": time.Now().UTC(),
	})
}

func sessionOf(r *http.Request) models.Session {
	s, _ := auth.SessionFrom(r.Context())
	return s
}
