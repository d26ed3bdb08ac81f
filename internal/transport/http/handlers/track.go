package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/baechuer/craft-marketplace/services/recs-service/internal/domain"
	"github.com/baechuer/craft-marketplace/services/recs-service/internal/metrics"
	"github.com/baechuer/craft-marketplace/services/recs-service/internal/transport/http/dto"
	"github.com/baechuer/craft-marketplace/services/recs-service/internal/transport/http/middleware"
	"github.com/baechuer/craft-marketplace/services/recs-service/internal/transport/http/response"
	"github.com/baechuer/craft-marketplace/services/recs-service/internal/transport/http/validate"
)

type Clock interface{ Now() time.Time }

// ActivityStore persists tracked events.
type ActivityStore interface {
	Insert(ctx context.Context, e *domain.ActivityEvent) error
}

type TrackHandler struct {
	store ActivityStore
	clock Clock
}

func NewTrackHandler(store ActivityStore, clock Clock) *TrackHandler {
	return &TrackHandler{store: store, clock: clock}
}

// Track handles POST /track.
func (h *TrackHandler) Track(w http.ResponseWriter, r *http.Request) {
	var req dto.TrackRequest
	if err := validate.DecodeJSON(r, &req); err != nil {
		response.Err(w, domain.ErrValidation("invalid request body"))
		return
	}
	if err := validate.Struct(&req); err != nil {
		response.Err(w, err)
		return
	}

	e, err := domain.NewActivityEvent(
		middleware.UserID(r),
		domain.ActivityType(req.ActivityType),
		req.ProductID, req.Query, req.StallID,
		h.clock.Now(),
	)
	if err != nil {
		response.Err(w, err)
		return
	}

	if err := h.store.Insert(r.Context(), e); err != nil {
		response.Err(w, err)
		return
	}

	metrics.RecordTrackEvent(req.ActivityType)
	response.Data(w, http.StatusAccepted, map[string]string{"status": "accepted"})
}
