package get_availability

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-ReservationService/internal/api/handlers"
	"github.com/m04kA/SMC-ReservationService/internal/api/middleware"
	"github.com/m04kA/SMC-ReservationService/internal/domain"
	getAvailability "github.com/m04kA/SMC-ReservationService/internal/usecase/get_availability"
	"github.com/m04kA/SMC-ReservationService/pkg/ptr"
)

const (
	msgInvalidID        = "некорректный идентификатор мастера"
	msgInvalidDate      = "некорректный формат даты, ожидается YYYY-MM-DD"
	msgInvalidDuration  = "некорректная длительность услуги"
	msgScheduleNotFound = "у мастера нет расписания"
)

type Handler struct {
	useCase GetAvailabilityUseCase
	logger  Logger
}

func NewHandler(useCase GetAvailabilityUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle GET /api/v1/professionals/{professionalId}/availability?date=&durationMinutes=
// Публичная ручка: аутентификация не требуется, но аутентифицированному
// клиенту дополнительно скрываются слоты, которые он уже удерживает
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	professionalID, err := strconv.ParseInt(mux.Vars(r)["professionalId"], 10, 64)
	if err != nil || professionalID <= 0 {
		handlers.RespondBadRequest(w, msgInvalidID)
		return
	}

	req := &getAvailability.Request{ProfessionalID: professionalID}

	if raw := r.URL.Query().Get("date"); raw != "" {
		date, err := time.Parse(domain.DateFormat, raw)
		if err != nil {
			h.logger.Warn("GET /professionals/%d/availability - Invalid date %q", professionalID, raw)
			handlers.RespondBadRequest(w, msgInvalidDate)
			return
		}
		req.Date = &date
	}

	if raw := r.URL.Query().Get("durationMinutes"); raw != "" {
		duration, err := strconv.Atoi(raw)
		if err != nil || duration <= 0 {
			h.logger.Warn("GET /professionals/%d/availability - Invalid duration %q", professionalID, raw)
			handlers.RespondBadRequest(w, msgInvalidDuration)
			return
		}
		req.DurationMinutes = &duration
	}

	if actor, ok := middleware.ActorFromContext(r.Context()); ok && actor.Role == domain.RoleCustomer {
		req.CustomerID = ptr.Ptr(actor.ID)
	}

	result, err := h.useCase.Execute(r.Context(), req)
	if err != nil {
		switch {
		case errors.Is(err, getAvailability.ErrScheduleNotFound):
			h.logger.Warn("GET /professionals/%d/availability - No schedule", professionalID)
			handlers.RespondNotFound(w, msgScheduleNotFound)

		case errors.Is(err, getAvailability.ErrInvalidInput):
			handlers.RespondBadRequest(w, msgInvalidDuration)

		default:
			h.logger.Error("GET /professionals/%d/availability - Failed: %v", professionalID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	handlers.RespondJSON(w, http.StatusOK, result)
}
