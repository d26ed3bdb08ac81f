package handlers

import (
	"net/http"
	"time"

	"github.com/baechuer/craft-marketplace/services/recs-service/internal/application/recs"
	"github.com/baechuer/craft-marketplace/services/recs-service/internal/metrics"
	"github.com/baechuer/craft-marketplace/services/recs-service/internal/transport/http/dto"
	"github.com/baechuer/craft-marketplace/services/recs-service/internal/transport/http/middleware"
	"github.com/baechuer/craft-marketplace/services/recs-service/internal/transport/http/response"
)

type RecommendationsHandler struct {
	svc *recs.Service
}

func NewRecommendationsHandler(svc *recs.Service) *RecommendationsHandler {
	return &RecommendationsHandler{svc: svc}
}

// Get handles GET /recommendations. Always 200: an empty product list is a
// normal answer ("nothing to recommend yet"), never an error state.
func (h *RecommendationsHandler) Get(w http.ResponseWriter, r *http.Request) {
	userID := middleware.UserID(r)

	start := time.Now()
	products := h.svc.Recommend(r.Context(), userID)
	metrics.RecordRecommendations(len(products), time.Since(start))

	response.Data(w, http.StatusOK, dto.FromProducts(products))
}
