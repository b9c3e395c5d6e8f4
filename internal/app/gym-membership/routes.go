// Package gymmembership предоставляет маршруты основного приложения.
package gymmembership

import (
	"log/slog"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	httpSwagger "github.com/swaggo/http-swagger"
	"golang.org/x/time/rate"

	"github.com/magabrotheeeer/gym-membership/internal/http/handlers/admin/dashboard"
	"github.com/magabrotheeeer/gym-membership/internal/http/handlers/admin/issuetoken"
	"github.com/magabrotheeeer/gym-membership/internal/http/handlers/admin/listtokens"
	"github.com/magabrotheeeer/gym-membership/internal/http/handlers/admin/updategym"
	"github.com/magabrotheeeer/gym-membership/internal/http/handlers/auth/changepassword"
	"github.com/magabrotheeeer/gym-membership/internal/http/handlers/auth/forgotadmin"
	"github.com/magabrotheeeer/gym-membership/internal/http/handlers/auth/loginadmin"
	"github.com/magabrotheeeer/gym-membership/internal/http/handlers/auth/loginmember"
	"github.com/magabrotheeeer/gym-membership/internal/http/handlers/auth/register"
	"github.com/magabrotheeeer/gym-membership/internal/http/handlers/auth/resetadmin"
	"github.com/magabrotheeeer/gym-membership/internal/http/handlers/auth/resetmember"
	"github.com/magabrotheeeer/gym-membership/internal/http/handlers/auth/reservetoken"
	"github.com/magabrotheeeer/gym-membership/internal/http/handlers/content/activitylist"
	"github.com/magabrotheeeer/gym-membership/internal/http/handlers/content/announcementcreate"
	"github.com/magabrotheeeer/gym-membership/internal/http/handlers/content/announcementlist"
	"github.com/magabrotheeeer/gym-membership/internal/http/handlers/content/announcementremove"
	"github.com/magabrotheeeer/gym-membership/internal/http/handlers/content/dietplancreate"
	"github.com/magabrotheeeer/gym-membership/internal/http/handlers/content/dietplanlist"
	"github.com/magabrotheeeer/gym-membership/internal/http/handlers/content/dietplanremove"
	"github.com/magabrotheeeer/gym-membership/internal/http/handlers/content/workoutcreate"
	"github.com/magabrotheeeer/gym-membership/internal/http/handlers/content/workoutlist"
	"github.com/magabrotheeeer/gym-membership/internal/http/handlers/content/workoutremove"
	membercreate "github.com/magabrotheeeer/gym-membership/internal/http/handlers/member/create"
	memberlist "github.com/magabrotheeeer/gym-membership/internal/http/handlers/member/list"
	memberread "github.com/magabrotheeeer/gym-membership/internal/http/handlers/member/read"
	memberremove "github.com/magabrotheeeer/gym-membership/internal/http/handlers/member/remove"
	memberupdate "github.com/magabrotheeeer/gym-membership/internal/http/handlers/member/update"
	"github.com/magabrotheeeer/gym-membership/internal/http/handlers/member/assignplan"
	"github.com/magabrotheeeer/gym-membership/internal/http/handlers/member/report"
	"github.com/magabrotheeeer/gym-membership/internal/http/handlers/member/weightadd"
	"github.com/magabrotheeeer/gym-membership/internal/http/handlers/member/weighthistory"
	"github.com/magabrotheeeer/gym-membership/internal/http/handlers/payment/createorder"
	"github.com/magabrotheeeer/gym-membership/internal/http/handlers/payment/history"
	"github.com/magabrotheeeer/gym-membership/internal/http/handlers/payment/listall"
	"github.com/magabrotheeeer/gym-membership/internal/http/handlers/payment/webhook"
	plancreate "github.com/magabrotheeeer/gym-membership/internal/http/handlers/plan/create"
	planlist "github.com/magabrotheeeer/gym-membership/internal/http/handlers/plan/list"
	planread "github.com/magabrotheeeer/gym-membership/internal/http/handlers/plan/read"
	planremove "github.com/magabrotheeeer/gym-membership/internal/http/handlers/plan/remove"
	planupdate "github.com/magabrotheeeer/gym-membership/internal/http/handlers/plan/update"
	"github.com/magabrotheeeer/gym-membership/internal/http/middlewarectx"
	authservice "github.com/magabrotheeeer/gym-membership/internal/services/auth"
	contentservice "github.com/magabrotheeeer/gym-membership/internal/services/content"
	memberservice "github.com/magabrotheeeer/gym-membership/internal/services/member"
	paymentservice "github.com/magabrotheeeer/gym-membership/internal/services/payment"
	planservice "github.com/magabrotheeeer/gym-membership/internal/services/plan"
	tokengateservice "github.com/magabrotheeeer/gym-membership/internal/services/tokengate"
)

// Services сервисы, необходимые для регистрации маршрутов.
type Services struct {
	Auth      *authservice.Service
	TokenGate *tokengateservice.Service
	Member    *memberservice.Service
	Plan      *planservice.Service
	Payment   *paymentservice.Service
	Content   *contentservice.Service
}

// RegisterRoutes регистрирует все маршруты приложения.
func RegisterRoutes(r chi.Router, logger *slog.Logger, s *Services) {
	// Глобальные middleware
	r.Use(
		middleware.RequestID,
		middleware.Logger,
		middleware.Recoverer,
		middleware.URLFormat,
	)

	limiter := rate.NewLimiter(rate.Limit(10), 20)

	r.Route("/api/v1", func(r chi.Router) {
		// Открытые конечные точки
		r.Post("/auth/admin/login", loginadmin.New(logger, s.Auth).ServeHTTP)
		r.Post("/auth/member/login", loginmember.New(logger, s.Auth).ServeHTTP)
		r.Post("/auth/token/verify", reservetoken.New(logger, s.TokenGate).ServeHTTP)
		r.Post("/auth/register", register.New(logger, s.TokenGate).ServeHTTP)
		r.Post("/auth/member/reset-password", resetmember.New(logger, s.TokenGate).ServeHTTP)
		r.Post("/auth/admin/forgot-password", forgotadmin.New(logger, s.Auth).ServeHTTP)
		r.Post("/auth/admin/reset-password", resetadmin.New(logger, s.Auth).ServeHTTP)

		r.Get("/plans", planlist.New(logger, s.Plan).ServeHTTP)
		r.Get("/plans/{id}", planread.New(logger, s.Plan).ServeHTTP)
		r.Get("/announcements", announcementlist.New(logger, s.Content).ServeHTTP)
		r.Get("/workouts", workoutlist.New(logger, s.Content).ServeHTTP)
		r.Get("/diet-plans", dietplanlist.New(logger, s.Content).ServeHTTP)

		// Уведомления платёжного провайдера (без аутентификации)
		r.Post("/payments/webhook", webhook.New(logger, s.Payment).ServeHTTP)

		// Группа с JWT аутентификацией
		r.Group(func(r chi.Router) {
			r.Use(middlewarectx.JWTMiddleware(s.Auth, logger))
			r.Use(middlewarectx.RateLimitMiddleware(logger, limiter))

			r.Post("/auth/change-password", changepassword.New(logger, s.Auth).ServeHTTP)
			r.Get("/members/{uid}", memberread.New(logger, s.Member).ServeHTTP)
			r.Get("/members/{uid}/weight", weighthistory.New(logger, s.Member).ServeHTTP)
			r.Post("/members/{uid}/weight", weightadd.New(logger, s.Member).ServeHTTP)
			r.Post("/payments/order", createorder.New(logger, s.Payment).ServeHTTP)
			r.Get("/payments/history", history.New(logger, s.Payment).ServeHTTP)

			// Группа только для администратора
			r.Group(func(r chi.Router) {
				r.Use(middlewarectx.AdminOnlyMiddleware(logger))

				r.Post("/members", membercreate.New(logger, s.Member).ServeHTTP)
				r.Get("/members", memberlist.New(logger, s.Member).ServeHTTP)
				r.Put("/members/{uid}", memberupdate.New(logger, s.Member).ServeHTTP)
				r.Delete("/members/{uid}", memberremove.New(logger, s.Member).ServeHTTP)
				r.Post("/members/{uid}/plan", assignplan.New(logger, s.Member).ServeHTTP)

				r.Post("/plans", plancreate.New(logger, s.Plan).ServeHTTP)
				r.Put("/plans/{id}", planupdate.New(logger, s.Plan).ServeHTTP)
				r.Delete("/plans/{id}", planremove.New(logger, s.Plan).ServeHTTP)

				r.Post("/admin/tokens", issuetoken.New(logger, s.TokenGate).ServeHTTP)
				r.Get("/admin/tokens", listtokens.New(logger, s.TokenGate).ServeHTTP)
				r.Get("/admin/dashboard", dashboard.New(logger, s.Member).ServeHTTP)
				r.Put("/admin/gym", updategym.New(logger, s.Auth).ServeHTTP)
				r.Get("/admin/activity", activitylist.New(logger, s.Content).ServeHTTP)
				r.Get("/admin/payments", listall.New(logger, s.Payment).ServeHTTP)
				r.Get("/admin/reports/memberships", report.New(logger, s.Member).ServeHTTP)

				r.Post("/announcements", announcementcreate.New(logger, s.Content).ServeHTTP)
				r.Delete("/announcements/{id}", announcementremove.New(logger, s.Content).ServeHTTP)
				r.Post("/workouts", workoutcreate.New(logger, s.Content).ServeHTTP)
				r.Delete("/workouts/{id}", workoutremove.New(logger, s.Content).ServeHTTP)
				r.Post("/diet-plans", dietplancreate.New(logger, s.Content).ServeHTTP)
				r.Delete("/diet-plans/{id}", dietplanremove.New(logger, s.Content).ServeHTTP)
			})
		})
	})

	r.Handle("/metrics", promhttp.Handler())
	// Swagger docs endpoint
	r.Get("/docs/*", httpSwagger.WrapHandler)
}
