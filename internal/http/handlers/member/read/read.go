// Package read реализует HTTP-обработчик чтения одного участника.
// Статус абонемента пересчитывается на момент запроса.
package read

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/gym-membership/internal/http/response"
	"github.com/magabrotheeeer/gym-membership/internal/lib/sl"
	"github.com/magabrotheeeer/gym-membership/internal/models"
	memberservice "github.com/magabrotheeeer/gym-membership/internal/services/member"
)

// Handler обрабатывает HTTP-запросы чтения участника.
type Handler struct {
	log     *slog.Logger
	service Service
}

// Service описывает интерфейс бизнес-логики чтения участника.
type Service interface {
	Get(ctx context.Context, uid string) (*models.Member, error)
}

// New создает новый Handler с переданными логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

// ServeHTTP godoc
// @Summary Получить участника
// @Description Возвращает участника по идентификатору с актуальным статусом абонемента.
// @Tags Members
// @Security BearerAuth
// @Produce  json
// @Param uid path string true "Идентификатор участника"
// @Success 200 {object} map[string]any "Участник"
// @Failure 404 {object} response.ErrorResponse "Участник не найден"
// @Failure 500 {object} response.ErrorResponse "Внутренняя ошибка сервера"
// @Router /members/{uid} [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.member.read"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	uid := chi.URLParam(r, "uid")
	if uid == "" {
		log.Error("missing uid in url")
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("missing uid"))
		return
	}

	member, err := h.service.Get(r.Context(), uid)
	if err != nil {
		if errors.Is(err, memberservice.ErrMemberNotFound) {
			log.Error("member not found", slog.String("uid", uid))
			w.WriteHeader(http.StatusNotFound)
			render.JSON(w, r, response.Error("member not found"))
			return
		}
		log.Error("failed to read member", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not read member"))
		return
	}

	log.Info("member read", slog.String("uid", uid))
	render.JSON(w, r, response.OKWithData(map[string]any{
		"member": member,
	}))
}
