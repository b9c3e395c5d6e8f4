// Package webhook реализует HTTP-обработчик уведомлений платёжного провайдера.
// Успешное уведомление проверяется по HMAC-подписи; повторная доставка
// того же ордера безвредна.
package webhook

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
	paymentservice "github.com/magabrotheeeer/gym-membership/internal/services/payment"
)

// Request структура уведомления провайдера.
type Request struct {
	OrderID   string `json:"order_id" validate:"required"`
	PaymentID string `json:"payment_id" validate:"required"`
	Signature string `json:"signature"`
	Status    string `json:"status" validate:"required,oneof=success failed"`
}

// Handler обрабатывает уведомления провайдера.
type Handler struct {
	log      *slog.Logger
	service  Service
	validate *validator.Validate
}

// Service описывает интерфейс бизнес-логики обработки уведомления.
type Service interface {
	Confirm(ctx context.Context, orderID, paymentID, signature string) error
	Fail(ctx context.Context, orderID, paymentID string) error
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
// @Summary Вебхук платёжного провайдера
// @Description Подтверждает или отклоняет платёж по уведомлению провайдера. Подпись успешного платежа проверяется по HMAC-SHA256.
// @Tags Payments
// @Accept  json
// @Produce  json
// @Param request body Request true "Уведомление провайдера"
// @Success 200 {object} response.Response "Уведомление обработано"
// @Failure 400 {object} response.ErrorResponse "Некорректный JSON или подпись"
// @Failure 404 {object} response.ErrorResponse "Платёж не найден"
// @Failure 422 {object} response.ErrorResponse "Ошибка валидации"
// @Failure 500 {object} response.ErrorResponse "Внутренняя ошибка сервера"
// @Router /payments/webhook [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.payment.webhook"

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

	var err error
	if req.Status == "success" {
		err = h.service.Confirm(r.Context(), req.OrderID, req.PaymentID, req.Signature)
	} else {
		err = h.service.Fail(r.Context(), req.OrderID, req.PaymentID)
	}
	if err != nil {
		switch {
		case errors.Is(err, paymentservice.ErrInvalidSignature):
			log.Error("invalid signature", slog.String("order_id", req.OrderID))
			w.WriteHeader(http.StatusBadRequest)
			render.JSON(w, r, response.Error("invalid signature"))
		case errors.Is(err, paymentservice.ErrPaymentNotFound):
			log.Error("payment not found", slog.String("order_id", req.OrderID))
			w.WriteHeader(http.StatusNotFound)
			render.JSON(w, r, response.Error("payment not found"))
		case errors.Is(err, paymentservice.ErrAlreadyProcessed):
			// Повторная доставка вебхука, отвечаем успехом.
			log.Info("webhook already processed", slog.String("order_id", req.OrderID))
			render.JSON(w, r, response.OKWithData(map[string]any{
				"processed": true,
			}))
		default:
			log.Error("failed to process webhook", sl.Err(err))
			w.WriteHeader(http.StatusInternalServerError)
			render.JSON(w, r, response.Error("could not process webhook"))
		}
		return
	}

	log.Info("webhook processed", slog.String("order_id", req.OrderID), slog.String("status", req.Status))
	render.JSON(w, r, response.OKWithData(map[string]any{
		"processed": true,
	}))
}
