package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/baechuer/craft-marketplace/services/recs-service/internal/application/analytics"
	"github.com/baechuer/craft-marketplace/services/recs-service/internal/domain"
	"github.com/baechuer/craft-marketplace/services/recs-service/internal/transport/http/middleware"
	"github.com/baechuer/craft-marketplace/services/recs-service/internal/transport/http/response"
)

type AnalyticsHandler struct {
	svc *analytics.Service
}

func NewAnalyticsHandler(svc *analytics.Service) *AnalyticsHandler {
	return &AnalyticsHandler{svc: svc}
}

// SellerStats handles GET /sellers/{seller_id}/analytics. Sellers see their
// own numbers; moderators and admins see anyone's.
func (h *AnalyticsHandler) SellerStats(w http.ResponseWriter, r *http.Request) {
	sellerID := chi.URLParam(r, "seller_id")

	actorID := middleware.UserID(r)
	role := middleware.Role(r)
	if actorID != sellerID && role != "admin" && role != "moderator" {
		response.Err(w, domain.ErrForbidden("not allowed"))
		return
	}

	stats, err := h.svc.SellerStats(r.Context(), sellerID)
	if err != nil {
		response.Err(w, err)
		return
	}
	response.Data(w, http.StatusOK, stats)
}
