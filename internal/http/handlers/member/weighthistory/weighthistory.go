// Package weighthistory реализует HTTP-обработчик истории веса участника.
package weighthistory

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/gym-membership/internal/http/response"
	"github.com/magabrotheeeer/gym-membership/internal/lib/sl"
	"github.com/magabrotheeeer/gym-membership/internal/models"
)

// Handler обрабатывает HTTP-запросы истории веса.
type Handler struct {
	log     *slog.Logger
	service Service
}

// Service описывает интерфейс бизнес-логики истории веса.
type Service interface {
	WeightHistory(ctx context.Context, uid string) ([]*models.WeightRecord, error)
}

// New создает новый Handler с переданными логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

// ServeHTTP godoc
// @Summary История веса участника
// @Description Возвращает записи веса участника в хронологическом порядке.
// @Tags Members
// @Security BearerAuth
// @Produce  json
// @Param uid path string true "Идентификатор участника"
// @Success 200 {object} map[string]any "История веса"
// @Failure 500 {object} response.ErrorResponse "Внутренняя ошибка сервера"
// @Router /members/{uid}/weight [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.member.weighthistory"

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

	records, err := h.service.WeightHistory(r.Context(), uid)
	if err != nil {
		log.Error("failed to read weight history", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not read weight history"))
		return
	}

	log.Info("weight history read", slog.String("uid", uid), slog.Int("count", len(records)))
	render.JSON(w, r, response.OKWithData(map[string]any{
		"list_count": len(records),
		"records":    records,
	}))
}
