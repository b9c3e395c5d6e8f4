// Package remove реализует HTTP-обработчик удаления участника.
package remove

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
	memberservice "github.com/magabrotheeeer/gym-membership/internal/services/member"
)

// Handler обрабатывает HTTP-запросы удаления участника.
type Handler struct {
	log     *slog.Logger
	service Service
}

// Service описывает интерфейс бизнес-логики удаления участника.
type Service interface {
	Remove(ctx context.Context, uid string) error
}

// New создает новый Handler с переданными логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

// ServeHTTP godoc
// @Summary Удалить участника
// @Description Удаляет участника вместе с историей веса. Доступно только администратору.
// @Tags Members
// @Security BearerAuth
// @Produce  json
// @Param uid path string true "Идентификатор участника"
// @Success 200 {object} response.Response "Участник удалён"
// @Failure 404 {object} response.ErrorResponse "Участник не найден"
// @Failure 500 {object} response.ErrorResponse "Внутренняя ошибка сервера"
// @Router /members/{uid} [delete]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.member.remove"

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

	if err := h.service.Remove(r.Context(), uid); err != nil {
		if errors.Is(err, memberservice.ErrMemberNotFound) {
			log.Error("member not found", slog.String("uid", uid))
			w.WriteHeader(http.StatusNotFound)
			render.JSON(w, r, response.Error("member not found"))
			return
		}
		log.Error("failed to remove member", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not remove member"))
		return
	}

	log.Info("member removed", slog.String("uid", uid))
	render.JSON(w, r, response.OKWithData(map[string]any{
		"removed": true,
	}))
}
