// Package reservetoken реализует HTTP-обработчик резервирования одноразового
// токена за email заявителя. Первый шаг двухшаговой регистрации:
// при успехе возвращается подписанный артефакт продолжения, без которого
// нельзя завершить регистрацию.
package reservetoken

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
	"github.com/magabrotheeeer/gym-membership/internal/services/tokengate"
)

// Request структура входных данных для резервирования токена.
type Request struct {
	Token string `json:"token" validate:"required"`
	Email string `json:"email" validate:"required,email"`
}

// Handler обрабатывает HTTP-запросы резервирования токена.
type Handler struct {
	log      *slog.Logger
	service  Service
	validate *validator.Validate
}

// Service описывает интерфейс бизнес-логики резервирования токена.
type Service interface {
	Reserve(ctx context.Context, tokenValue, email string) (string, error)
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
// @Summary Проверить и зарезервировать одноразовый токен
// @Description Резервирует неиспользованный токен за email заявителя. Возвращает артефакт продолжения регистрации (30 минут).
// @Tags Auth
// @Accept  json
// @Produce  json
// @Param request body Request true "Токен и email заявителя"
// @Success 200 {object} map[string]any "Токен зарезервирован"
// @Failure 400 {object} response.ErrorResponse "Некорректный JSON"
// @Failure 404 {object} response.ErrorResponse "Токен не найден"
// @Failure 409 {object} response.ErrorResponse "Токен уже зарезервирован"
// @Failure 422 {object} response.ErrorResponse "Ошибка валидации"
// @Failure 500 {object} response.ErrorResponse "Внутренняя ошибка сервера"
// @Router /auth/token/verify [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.auth.reservetoken"

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

	continuation, err := h.service.Reserve(r.Context(), req.Token, req.Email)
	if err != nil {
		switch {
		case errors.Is(err, tokengate.ErrTokenNotFound):
			log.Error("token not found", slog.String("email", req.Email))
			w.WriteHeader(http.StatusNotFound)
			render.JSON(w, r, response.Error("token not found"))
		case errors.Is(err, tokengate.ErrAlreadyReserved):
			log.Error("token already reserved", slog.String("email", req.Email))
			w.WriteHeader(http.StatusConflict)
			render.JSON(w, r, response.Error("token already reserved"))
		default:
			log.Error("failed to reserve token", sl.Err(err))
			w.WriteHeader(http.StatusInternalServerError)
			render.JSON(w, r, response.Error("could not reserve token"))
		}
		return
	}

	log.Info("token reserved", slog.String("email", req.Email))
	render.JSON(w, r, response.OKWithData(map[string]any{
		"continuation": continuation,
	}))
}
