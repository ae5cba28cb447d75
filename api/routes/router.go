package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/taskercompanyofficial/taskercompany-api/api/controllers"
	"github.com/taskercompanyofficial/taskercompany-api/api/middleware"
	"github.com/taskercompanyofficial/taskercompany-api/internal/attendance"
	"github.com/taskercompanyofficial/taskercompany-api/internal/catalog"
	"github.com/taskercompanyofficial/taskercompany-api/internal/complaints"
	"github.com/taskercompanyofficial/taskercompany-api/internal/intake"
	"github.com/taskercompanyofficial/taskercompany-api/internal/jobs"
	"github.com/taskercompanyofficial/taskercompany-api/internal/notifications"
	"github.com/taskercompanyofficial/taskercompany-api/internal/staff"
	"github.com/taskercompanyofficial/taskercompany-api/pkg/config"
	"github.com/taskercompanyofficial/taskercompany-api/pkg/enums"
	"github.com/taskercompanyofficial/taskercompany-api/pkg/logger"
	"github.com/taskercompanyofficial/taskercompany-api/pkg/whatsapp"
)

// crmRoles may operate the back-office surfaces. Technicians use the
// staff-facing routes only.
var crmRoles = []string{
	string(enums.StaffRoleAdministrator),
	string(enums.StaffRoleGeneralManager),
	string(enums.StaffRoleBranchManager),
	string(enums.StaffRoleAccountant),
	string(enums.StaffRoleCSO),
}

// Deps bundles everything the router wires into handlers.
type Deps struct {
	Cfg      *config.Config
	Logg     *logger.Logger
	Checks   map[string]controllers.Pinger
	Registry *prometheus.Registry

	Staff         staff.Service
	Complaints    complaints.Service
	Jobs          jobs.Service
	Attendance    attendance.Service
	Catalog       catalog.Service
	Notifications notifications.Service
	Intake        intake.Service
	WhatsApp      whatsapp.Sender
}

func NewRouter(d Deps) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(d.Logg),
		middleware.RequestID(d.Logg),
		middleware.Logging(d.Logg),
		middleware.CORS(),
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(d.Cfg))
		r.Get("/ready", controllers.HealthReady(d.Cfg, d.Logg, d.Checks))
	})

	if d.Registry != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(d.Registry, promhttp.HandlerOpts{}))
	}

	r.Route("/api/webhooks/whatsapp", func(r chi.Router) {
		r.Get("/", controllers.WhatsAppVerify(d.Cfg.WhatsApp, d.Logg))
		r.Post("/", controllers.WhatsAppWebhook(d.Intake, d.Logg))
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Post("/auth/login", controllers.AuthLogin(d.Staff, d.Logg))

		r.Group(func(r chi.Router) {
			r.Use(middleware.Auth(d.Cfg.JWT, d.Logg))

			r.Route("/crm", func(r chi.Router) {
				r.Use(middleware.RequireRole(d.Logg, crmRoles...))

				r.Route("/complaints", func(r chi.Router) {
					r.Get("/", controllers.ComplaintList(d.Complaints, d.Logg))
					r.Post("/", controllers.ComplaintCreate(d.Complaints, d.Logg))
					r.Get("/status-counts", controllers.ComplaintStatusCounts(d.Complaints, d.Logg))
					r.Post("/send-message/{to}", controllers.ComplaintSendMessage(d.WhatsApp, d.Logg))
					r.Route("/{id}", func(r chi.Router) {
						r.Get("/", controllers.ComplaintDetail(d.Complaints, d.Logg))
						r.Put("/", controllers.ComplaintUpdate(d.Complaints, d.Logg))
						r.Delete("/", controllers.ComplaintDelete(d.Complaints, d.Logg))
						r.Post("/cancel", controllers.ComplaintCancel(d.Complaints, d.Logg))
						r.Post("/schedule", controllers.ComplaintSchedule(d.Complaints, d.Logg))
						r.Post("/technician-reached", controllers.ComplaintTechnicianReached(d.Complaints, d.Logg))
						r.Get("/history", controllers.ComplaintHistories(d.Complaints, d.Logg))
					})
				})

				r.Route("/attendance", func(r chi.Router) {
					r.Get("/", controllers.AttendanceList(d.Attendance, d.Logg))
					r.Get("/daily-stats", controllers.AttendanceDailyStats(d.Attendance, d.Logg))
					r.Route("/staff/{id}", func(r chi.Router) {
						r.Get("/payroll", controllers.AttendancePayroll(d.Attendance, d.Logg))
						r.Post("/present", controllers.AttendanceMarkPresent(d.Attendance, d.Logg))
						r.Post("/absent", controllers.AttendanceMarkAbsent(d.Attendance, d.Logg))
					})
				})

				r.Route("/staff", func(r chi.Router) {
					r.Get("/", controllers.StaffList(d.Staff, d.Logg))
					r.Post("/", controllers.StaffCreate(d.Staff, d.Logg))
					r.Get("/{id}", controllers.StaffDetail(d.Staff, d.Logg))
					r.Put("/{id}", controllers.StaffUpdate(d.Staff, d.Logg))
				})

				r.Route("/catalog", func(r chi.Router) {
					r.Route("/branches", func(r chi.Router) {
						r.Get("/", controllers.CatalogList(d.Catalog.ListBranches, d.Logg))
						r.Post("/", controllers.CatalogCreate(d.Catalog.CreateBranch, d.Logg))
						r.Put("/{id}", controllers.CatalogUpdate(d.Catalog.UpdateBranch, d.Logg))
						r.Delete("/{id}", controllers.CatalogDelete(d.Catalog.DeleteBranch, d.Logg))
					})
					r.Route("/brands", func(r chi.Router) {
						r.Get("/", controllers.CatalogList(d.Catalog.ListBrands, d.Logg))
						r.Post("/", controllers.CatalogCreate(d.Catalog.CreateBrand, d.Logg))
						r.Put("/{id}", controllers.CatalogUpdate(d.Catalog.UpdateBrand, d.Logg))
						r.Delete("/{id}", controllers.CatalogDelete(d.Catalog.DeleteBrand, d.Logg))
					})
					r.Route("/categories", func(r chi.Router) {
						r.Get("/", controllers.CatalogList(d.Catalog.ListCategories, d.Logg))
						r.Post("/", controllers.CatalogCreate(d.Catalog.CreateCategory, d.Logg))
						r.Put("/{id}", controllers.CatalogUpdate(d.Catalog.UpdateCategory, d.Logg))
						r.Delete("/{id}", controllers.CatalogDelete(d.Catalog.DeleteCategory, d.Logg))
					})
					r.Route("/services", func(r chi.Router) {
						r.Get("/", controllers.CatalogList(d.Catalog.ListServices, d.Logg))
						r.Post("/", controllers.CatalogCreate(d.Catalog.CreateService, d.Logg))
						r.Put("/{id}", controllers.CatalogUpdate(d.Catalog.UpdateService, d.Logg))
						r.Delete("/{id}", controllers.CatalogDelete(d.Catalog.DeleteService, d.Logg))
					})
					r.Route("/sub-services", func(r chi.Router) {
						r.Get("/", controllers.CatalogList(d.Catalog.ListSubServices, d.Logg))
						r.Post("/", controllers.CatalogCreate(d.Catalog.CreateSubService, d.Logg))
						r.Put("/{id}", controllers.CatalogUpdate(d.Catalog.UpdateSubService, d.Logg))
						r.Delete("/{id}", controllers.CatalogDelete(d.Catalog.DeleteSubService, d.Logg))
					})
				})
			})

			r.Route("/jobs", func(r chi.Router) {
				r.Get("/", controllers.JobList(d.Jobs, d.Logg))
				r.Get("/counts", controllers.JobCounts(d.Jobs, d.Logg))
				r.Post("/{id}/status", controllers.JobUpdateStatus(d.Jobs, d.Logg))
			})

			r.Route("/staff/attendance", func(r chi.Router) {
				r.Post("/check-in", controllers.AttendanceCheckIn(d.Attendance, d.Logg))
				r.Post("/check-out", controllers.AttendanceCheckOut(d.Attendance, d.Logg))
				r.Get("/today", controllers.AttendanceToday(d.Attendance, d.Logg))
				r.Get("/range", controllers.AttendanceRange(d.Attendance, d.Logg))
				r.Get("/monthly-stats", controllers.AttendanceMonthlyStats(d.Attendance, d.Logg))
			})

			r.Route("/notifications", func(r chi.Router) {
				r.Get("/", controllers.NotificationsList(d.Notifications, d.Logg))
				r.Post("/{id}/read", controllers.NotificationMarkRead(d.Notifications, d.Logg))
				r.Post("/read-all", controllers.NotificationsMarkAllRead(d.Notifications, d.Logg))
			})
			r.Post("/devices/push-token", controllers.RegisterPushToken(d.Notifications, d.Logg))
		})
	})

	return r
}
