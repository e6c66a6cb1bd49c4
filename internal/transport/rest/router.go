package rest

import (
	"log/slog"

	"github.com/ajit432/hospital-leave/internal/auth"
	"github.com/ajit432/hospital-leave/internal/balance"
	"github.com/ajit432/hospital-leave/internal/category"
	"github.com/ajit432/hospital-leave/internal/leave"
	"github.com/ajit432/hospital-leave/internal/summary"
	"github.com/ajit432/hospital-leave/internal/transport"
	"github.com/ajit432/hospital-leave/internal/transport/middleware"
	"github.com/ajit432/hospital-leave/internal/transport/swagger"
	"github.com/ajit432/hospital-leave/internal/user"
	"github.com/go-chi/chi"
	chiMiddleware "github.com/go-chi/chi/middleware"
)

// Handlers groups the module handlers mounted under /api/v1. A nil handler
// leaves its routes unregistered.
type Handlers struct {
	Auth     *auth.Handler
	User     *user.Handler
	Category *category.Handler
	Leave    *leave.Handler
	Balance  *balance.Handler
	Summary  *summary.Handler
}

type Options struct {
	AllowedOrigins []string
	// LoginLimiter throttles POST /auth/login per client IP when set.
	LoginLimiter *middleware.IPRateLimiter
	Spec         *swagger.Spec
}

func RegisterAllRoutes(router *chi.Mux, db Pinger, h Handlers, rbac *auth.RBACAuthorization, opts Options, logger *slog.Logger) {
	healthHandler := NewHealthHandler(db)

	router.Use(middleware.RequestID)
	router.Use(chiMiddleware.RealIP)
	router.Use(middleware.LoggingMiddleware(logger))
	router.Use(middleware.RecoveryMiddleware(logger))
	router.Use(middleware.CORS(opts.AllowedOrigins))

	// OpenAPI document and Swagger UI live outside the API prefix
	if opts.Spec != nil {
		router.Handle("/openapi.yml", opts.Spec)
		router.Handle("/swagger/*", swagger.Handler())
	}

	router.Route("/api/v1", func(r chi.Router) {
		r.Get("/health", healthHandler.healthCheckHandler)
		r.Get("/ping", healthHandler.pingHandler)

		if h.Auth == nil {
			return
		}

		r.Route("/auth", func(sr chi.Router) {
			sr.Group(func(lr chi.Router) {
				if opts.LoginLimiter != nil {
					lr.Use(middleware.RateLimitByIP(opts.LoginLimiter, transport.NewBaseHandler(logger)))
				}
				lr.Post("/login", h.Auth.Login)
			})
			sr.Post("/refresh", h.Auth.RefreshToken)
			sr.With(h.Auth.AuthMiddleware).Post("/logout", h.Auth.Logout)
		})

		r.Group(func(pr chi.Router) {
			pr.Use(h.Auth.AuthMiddleware)

			pr.Route("/users/me", func(ur chi.Router) {
				if h.User != nil {
					ur.Get("/", h.User.GetCurrentUser)
					ur.Put("/", h.User.UpdateCurrentUser)
					ur.Put("/password", h.User.ChangePassword)
				}
				if h.Summary != nil {
					ur.With(rbac.Require(auth.PermReadDashboard)).Get("/dashboard", h.Summary.GetDashboard)
				}
			})

			pr.Route("/leave", func(lr chi.Router) {
				registerCategoryRoutes(lr, h.Category, rbac)
				registerLeaveRoutes(lr, h.Leave, rbac)
				registerDoctorRoutes(lr, h.User, h.Balance, rbac)

				if h.Balance != nil {
					lr.With(rbac.Require(auth.PermReadOwnLeave)).Get("/balance", h.Balance.GetLeaveBalance)
				}
				if h.Summary != nil {
					lr.With(rbac.Require(auth.PermReadSummary)).Get("/summary", h.Summary.GetLeaveSummary)
				}
			})
		})
	})
}

func registerCategoryRoutes(r chi.Router, h *category.Handler, rbac *auth.RBACAuthorization) {
	if h == nil {
		return
	}

	// Listing is open to any authenticated caller
	r.Get("/categories", h.GetCategories)

	r.Group(func(ar chi.Router) {
		ar.Use(rbac.Require(auth.PermManageCategories))
		ar.Post("/categories", h.CreateCategory)
		ar.Put("/categories/{id}", h.UpdateCategory)
		ar.Delete("/categories/{id}", h.DeleteCategory)
		ar.Patch("/categories/{id}/activate", h.ActivateCategory)
		ar.Patch("/categories/{id}/deactivate", h.DeactivateCategory)
	})
}

func registerLeaveRoutes(r chi.Router, h *leave.Handler, rbac *auth.RBACAuthorization) {
	if h == nil {
		return
	}

	r.With(rbac.Require(auth.PermApplyLeave)).Post("/apply", h.ApplyLeave)
	r.With(rbac.Require(auth.PermReadOwnLeave)).Get("/my-leaves", h.GetMyLeaves)
	r.With(rbac.Require(auth.PermReadAllLeave)).Get("/all", h.GetAllLeaves)
	r.With(rbac.Require(auth.PermReviewLeave)).Put("/{id}/review", h.ReviewLeave)
}

func registerDoctorRoutes(r chi.Router, users *user.Handler, balances *balance.Handler, rbac *auth.RBACAuthorization) {
	if users != nil {
		r.Group(func(ar chi.Router) {
			ar.Use(rbac.Require(auth.PermManageDoctors))
			ar.Get("/doctors", users.GetDoctors)
			ar.Post("/doctors", users.RegisterDoctor)
			ar.Patch("/doctors/{doctorId}/activate", users.ActivateDoctor)
			ar.Patch("/doctors/{doctorId}/deactivate", users.DeactivateDoctor)
		})
	}

	if balances != nil {
		r.Group(func(ar chi.Router) {
			ar.Use(rbac.Require(auth.PermManageBalances))
			ar.Get("/doctors/{doctorId}/balance", balances.GetDoctorLeaveBalance)
			ar.Put("/doctors/{doctorId}/allocation", balances.SetDoctorLeaveAllocation)
		})
	}
}
