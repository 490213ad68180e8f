package dispatch

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/ridefleet/dispatch-core/internal/storage"
	"github.com/ridefleet/dispatch-core/internal/transport"
	"github.com/ridefleet/dispatch-core/pkg/common"
	"github.com/ridefleet/dispatch-core/pkg/geo"
	"github.com/ridefleet/dispatch-core/pkg/jwtkeys"
	"github.com/ridefleet/dispatch-core/pkg/middleware"
	"github.com/ridefleet/dispatch-core/pkg/models"
)

// Handler exposes the spec §6 HTTP surface over an Orchestrator.
type Handler struct {
	orch *Orchestrator
}

// NewHandler wraps an Orchestrator for HTTP use.
func NewHandler(orch *Orchestrator) *Handler {
	return &Handler{orch: orch}
}

// submitRideBody is the spec §6 POST /rides request body.
type submitRideBody struct {
	PassengerID    uuid.UUID        `json:"passengerId" binding:"required"`
	PassengerName  string           `json:"passengerName"`
	PassengerPhone string           `json:"passengerPhone"`
	Pickup         storage.Address  `json:"pickup" binding:"required"`
	Destination    *storage.Address `json:"destination"`
	PaymentType    storage.PaymentKind `json:"paymentType"`
}

// SubmitRide handles POST /rides.
func (h *Handler) SubmitRide(c *gin.Context) {
	var body submitRideBody
	if err := c.ShouldBindJSON(&body); err != nil {
		common.ErrorResponse(c, http.StatusBadRequest, err.Error())
		return
	}

	res, err := h.orch.SubmitRide(c.Request.Context(), SubmitRideRequest{
		PassengerID:    body.PassengerID,
		PassengerName:  body.PassengerName,
		PassengerPhone: body.PassengerPhone,
		Pickup:         body.Pickup,
		Destination:    body.Destination,
		PaymentType:    body.PaymentType,
	})
	if err != nil {
		respondDispatchError(c, err)
		return
	}
	common.SuccessResponse(c, res)
}

// AcceptOffer handles POST /rides/:id/accept.
func (h *Handler) AcceptOffer(c *gin.Context) {
	driverID, err := middleware.GetUserID(c)
	if err != nil {
		common.ErrorResponse(c, http.StatusUnauthorized, "unauthorized")
		return
	}
	orderID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		common.ErrorResponse(c, http.StatusBadRequest, "invalid order id")
		return
	}

	if err := h.orch.AcceptOffer(c.Request.Context(), orderID, driverID); err != nil {
		respondDispatchError(c, err)
		return
	}
	common.SuccessResponse(c, gin.H{"ok": true})
}

type rejectOfferBody struct {
	Reason storage.RejectionReason `json:"reason"`
}

// RejectOffer handles POST /rides/:id/reject.
func (h *Handler) RejectOffer(c *gin.Context) {
	driverID, err := middleware.GetUserID(c)
	if err != nil {
		common.ErrorResponse(c, http.StatusUnauthorized, "unauthorized")
		return
	}
	orderID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		common.ErrorResponse(c, http.StatusBadRequest, "invalid order id")
		return
	}

	var body rejectOfferBody
	_ = c.ShouldBindJSON(&body)
	if body.Reason == "" {
		body.Reason = storage.RejectOther
	}

	if err := h.orch.RejectOffer(c.Request.Context(), orderID, driverID, body.Reason); err != nil {
		respondDispatchError(c, err)
		return
	}
	common.SuccessResponse(c, gin.H{"ok": true})
}

type advanceTripBody struct {
	To          storage.OrderStatus `json:"to"`
	MeterAmount *float64            `json:"meterAmount"`
	Distance    *float64            `json:"distance"`
	Duration    *int                `json:"duration"`
	PhotoURL    string              `json:"photoUrl"`
}

// AdvanceTrip handles POST /rides/:id/advance.
func (h *Handler) AdvanceTrip(c *gin.Context) {
	driverID, err := middleware.GetUserID(c)
	if err != nil {
		common.ErrorResponse(c, http.StatusUnauthorized, "unauthorized")
		return
	}
	orderID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		common.ErrorResponse(c, http.StatusBadRequest, "invalid order id")
		return
	}

	var body advanceTripBody
	if err := c.ShouldBindJSON(&body); err != nil {
		common.ErrorResponse(c, http.StatusBadRequest, err.Error())
		return
	}

	order, err := h.orch.AdvanceTrip(c.Request.Context(), orderID, driverID, AdvanceRequest{
		MeterAmount:     body.MeterAmount,
		ActualDistanceM: body.Distance,
		ActualDuration:  body.Duration,
		PhotoURL:        body.PhotoURL,
	})
	if err != nil {
		respondDispatchError(c, err)
		return
	}
	common.SuccessResponse(c, gin.H{"order": order})
}

type cancelOrderBody struct {
	Reason string `json:"reason"`
}

// CancelOrder handles POST /rides/:id/cancel.
func (h *Handler) CancelOrder(c *gin.Context) {
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

	var body cancelOrderBody
	_ = c.ShouldBindJSON(&body)

	by := "passenger"
	if role, err := middleware.GetUserRole(c); err == nil {
		by = string(role)
	}

	order, err := h.orch.CancelOrder(c.Request.Context(), orderID, by, body.Reason)
	if err != nil {
		respondDispatchError(c, err)
		return
	}
	common.SuccessResponse(c, gin.H{"ok": true, "order": order})
}

// nearbyDriverView is the spec §6 GET /drivers/nearby element.
type nearbyDriverView struct {
	DriverID uuid.UUID `json:"driverId"`
	Name     string    `json:"name"`
	Plate    string    `json:"plate"`
	Location storage.Point `json:"location"`
	Rating   float64   `json:"rating"`
	Distance float64   `json:"distance"`
	ETA      int       `json:"eta"`
}

// NearbyDrivers handles GET /drivers/nearby?lat&lng&radius.
func (h *Handler) NearbyDrivers(c *gin.Context) {
	lat, err1 := strconv.ParseFloat(c.Query("lat"), 64)
	lng, err2 := strconv.ParseFloat(c.Query("lng"), 64)
	if err1 != nil || err2 != nil {
		common.ErrorResponse(c, http.StatusBadRequest, "lat and lng are required")
		return
	}
	radiusM := 5000.0
	if r := c.Query("radius"); r != "" {
		if v, err := strconv.ParseFloat(r, 64); err == nil {
			radiusM = v
		}
	}

	now := h.orch.clock.Now()
	entries := h.orch.presence.QueryAvailable(lat, lng, radiusM/1000, now)

	out := make([]nearbyDriverView, 0, len(entries))
	nearby := make([]transport.NearbyDriver, 0, len(entries))
	for _, e := range entries {
		driver, err := h.orch.repo.GetDriver(c.Request.Context(), e.DriverID)
		if err != nil || driver == nil {
			continue
		}
		dist := 0.0
		if e.Point != nil {
			dist = geo.Haversine(lat, lng, e.Point.Lat, e.Point.Lng) * 1000
		}
		etaSec := 0
		if res, err := h.orch.eta.Get(c.Request.Context(), lat, lng, e.Point.Lat, e.Point.Lng, now.Hour(), now); err == nil {
			etaSec = res.DurationSeconds
		}
		out = append(out, nearbyDriverView{
			DriverID: e.DriverID,
			Name:     driver.DisplayName,
			Plate:    driver.Plate,
			Location: *e.Point,
			Rating:   driver.RatingAvg,
			Distance: dist,
			ETA:      etaSec,
		})
		nearby = append(nearby, transport.NearbyDriver{DriverID: e.DriverID, Lat: e.Point.Lat, Lng: e.Point.Lng, Timestamp: e.LastHeartbeat})
	}

	// Also push the same snapshot over the passenger's live session (spec
	// §6 "nearby:drivers"), since this REST poll and the WS push describe
	// the same view of the world.
	if passengerID, err := middleware.GetUserID(c); err == nil {
		h.orch.transport.SendNearbyDrivers(passengerID, nearby)
	}

	common.SuccessResponse(c, out)
}

func respondDispatchError(c *gin.Context, err error) {
	if appErr, ok := err.(*common.AppError); ok {
		common.AppErrorResponse(c, appErr)
		return
	}
	common.ErrorResponse(c, http.StatusInternalServerError, err.Error())
}

// RegisterRoutes wires the spec §6 HTTP surface under /api/v1.
func (h *Handler) RegisterRoutes(r *gin.Engine, jwtProvider jwtkeys.KeyProvider) {
	api := r.Group("/api/v1")
	api.Use(middleware.AuthMiddlewareWithProvider(jwtProvider))

	rides := api.Group("/rides")
	rides.Use(middleware.RequireRole(models.RoleRider, models.RoleDriver))
	{
		rides.POST("", h.SubmitRide)
		rides.POST("/:id/accept", h.AcceptOffer)
		rides.POST("/:id/reject", h.RejectOffer)
		rides.POST("/:id/advance", h.AdvanceTrip)
		rides.POST("/:id/cancel", h.CancelOrder)
	}

	drivers := api.Group("/drivers")
	drivers.Use(middleware.RequireRole(models.RoleRider, models.RoleDriver))
	{
		drivers.GET("/nearby", h.NearbyDrivers)
	}
}
