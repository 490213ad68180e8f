package cancellation

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/ridefleet/dispatch-core/pkg/common"
	"github.com/ridefleet/dispatch-core/pkg/jwtkeys"
	"github.com/ridefleet/dispatch-core/pkg/middleware"
)

// Handler exposes the cancellation fee preview over HTTP.
type Handler struct {
	service *Service
}

// NewHandler creates a new cancellation handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// PreviewCancellation shows the fee that would apply before committing
// to CancelOrder.
// GET /api/v1/rides/:id/cancel/preview
func (h *Handler) PreviewCancellation(c *gin.Context) {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		common.ErrorResponse(c, http.StatusUnauthorized, "unauthorized")
		return
	}

	orderID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		common.ErrorResponse(c, http.StatusBadRequest, "invalid order id")
		return
	}

	preview, err := h.service.PreviewCancellation(c.Request.Context(), orderID, userID)
	if err != nil {
		if appErr, ok := err.(*common.AppError); ok {
			common.AppErrorResponse(c, appErr)
			return
		}
		common.ErrorResponse(c, http.StatusInternalServerError, "failed to preview cancellation")
		return
	}

	common.SuccessResponse(c, preview)
}

// RegisterRoutes wires the preview endpoint. It is registered separately
// from internal/dispatch.Handler (which owns the authoritative POST
// .../cancel) to keep the courtesy preview out of the dispatch package.
func (h *Handler) RegisterRoutes(r *gin.Engine, jwtProvider jwtkeys.KeyProvider) {
	rides := r.Group("/api/v1/rides")
	rides.Use(middleware.AuthMiddlewareWithProvider(jwtProvider))
	{
		rides.GET("/:id/cancel/preview", h.PreviewCancellation)
	}
}
