// Package forgotadmin реализует HTTP-обработчик запроса одноразового кода
// для сброса пароля администратора. Код отправляется на почту через брокер.
package forgotadmin

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/magabrotheeeer/gym-membership/internal/http/response"
	"github.com/magabrotheeeer/gym-membership/internal/lib/sl"
	"github.com/magabrotheeeer/gym-membership/internal/services/auth"
)

// Request структура входных данных для запроса кода.
type Request struct {
	Email string `json:"email" validate:"required,email"`
}

// Handler обрабатывает HTTP-запросы одноразового кода.
type Handler struct {
	log      *slog.Logger
	service  Service
	validate *validator.Validate
}

// Service описывает интерфейс бизнес-логики запроса одноразового кода.
type Service interface {
	ForgotAdminPassword(ctx context.Context, email string) error
}

// New создает новый Handler с переданными логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:      log,
		service:  service,
		validate: validator.New(),
	}
}

// ServeHTTP godoc
// @Summary Запросить одноразовый код для сброса пароля администратора
// @Description Генерирует 6-значный код, сохраняет его на 10 минут и отправляет администратору на почту.
// @Tags Auth
// @Accept  json
// @Produce  json
// @Param request body Request true "Email администратора"
// @Success 200 {object} response.Response "Код отправлен"
// @Failure 400 {object} response.ErrorResponse "Некорректный JSON"
// @Failure 422 {object} response.ErrorResponse "Ошибка валидации"
// @Failure 500 {object} response.ErrorResponse "Внутренняя ошибка сервера"
// @Router /auth/admin/forgot-password [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.auth.forgotadmin"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	var req Request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Error("failed to decode request body", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid request body"))
		return
	}

	if err := h.validate.Struct(req); err != nil {
		log.Error("validation failed", sl.Err(err))
		w.WriteHeader(http.StatusUnprocessableEntity)
		render.JSON(w, r, response.ValidationError(err.(validator.ValidationErrors)))
		return
	}

	if err := h.service.ForgotAdminPassword(r.Context(), req.Email); err != nil {
		// Неизвестные адреса не раскрываются, ответ одинаковый.
		if !errors.Is(err, auth.ErrInvalidCredentials) {
			log.Error("failed to send otp", sl.Err(err))
			w.WriteHeader(http.StatusInternalServerError)
			render.JSON(w, r, response.Error("could not send code"))
			return
		}
		log.Info("otp requested for unknown email", slog.String("email", req.Email))
	}

	log.Info("otp requested", slog.String("email", req.Email))
	render.JSON(w, r, response.OKWithData(map[string]any{
		"sent": true,
	}))
}
