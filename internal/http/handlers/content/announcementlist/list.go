// Package announcementlist реализует HTTP-обработчик списка объявлений.
package announcementlist

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/gym-membership/internal/http/response"
	"github.com/magabrotheeeer/gym-membership/internal/lib/sl"
	"github.com/magabrotheeeer/gym-membership/internal/models"
)

// Handler обрабатывает HTTP-запросы списка объявлений.
type Handler struct {
	log     *slog.Logger
	service Service
}

// Service описывает интерфейс бизнес-логики списка объявлений.
type Service interface {
	ListAnnouncements(ctx context.Context) ([]*models.Announcement, error)
}

// New создает новый Handler с переданными логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

// ServeHTTP godoc
// @Summary Список объявлений
// @Description Возвращает объявления клуба, новые первыми.
// @Tags Content
// @Produce  json
// @Success 200 {object} map[string]any "Список объявлений"
// @Failure 500 {object} response.ErrorResponse "Внутренняя ошибка сервера"
// @Router /announcements [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.content.announcementlist"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	announcements, err := h.service.ListAnnouncements(r.Context())
	if err != nil {
		log.Error("failed to list announcements", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not list announcements"))
		return
	}

	log.Info("announcements listed", slog.Int("count", len(announcements)))
	render.JSON(w, r, response.OKWithData(map[string]any{
		"list_count":    len(announcements),
		"announcements": announcements,
	}))
}
