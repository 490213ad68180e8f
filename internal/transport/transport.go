// Package transport is the bidirectional push-channel adapter (spec §6
// "Bidirectional transport"): the normative driver/passenger event names
// and payloads, layered over the teacher's pkg/websocket hub.
package transport

import (
	"time"

	"github.com/google/uuid"
	"github.com/ridefleet/dispatch-core/internal/storage"
	ws "github.com/ridefleet/dispatch-core/pkg/websocket"
)

// Event type names, normative per spec §6.
const (
	EventDriverOnline   = "driver:online"
	EventDriverStatus   = "driver:status"
	EventDriverLocation = "driver:location"

	EventPassengerOnline = "passenger:online"

	EventOrderOffer     = "order:offer"
	EventOrderCancelled = "order:cancelled"
	EventOrderUpdate    = "order:update"
	EventOrderNoDriver  = "order:no_driver"
	EventNearbyDrivers  = "nearby:drivers"
)

// Hub wraps the generic pkg/websocket hub with dispatch's domain events.
// Sessions are addressed by user id (driver id or passenger id); "rides"
// in the underlying hub correspond to orders here.
type Hub struct {
	hub *ws.Hub
}

// New wraps an already-running *ws.Hub.
func New(hub *ws.Hub) *Hub {
	return &Hub{hub: hub}
}

func payload(typ string, data map[string]interface{}) *ws.Message {
	return &ws.Message{Type: typ, Timestamp: time.Now(), Data: data}
}

// JoinOrder associates a session (driver or passenger) with an order's
// room so that OrderCancelled/OrderUpdate fan-out reaches it.
func (h *Hub) JoinOrder(userID uuid.UUID, orderID uuid.UUID) {
	h.hub.AddClientToRide(userID.String(), orderID.String())
}

// LeaveOrder removes a session from an order's room.
func (h *Hub) LeaveOrder(userID uuid.UUID, orderID uuid.UUID) {
	h.hub.RemoveClientFromRide(userID.String(), orderID.String())
}

// OfferCandidate is the spec §6 order:offer payload.
type OfferCandidate struct {
	Order           *storage.Order
	WaveNumber      int
	WaveDeadline    time.Time
	EstimatedFare   float64
	SurgeMultiplier float64
	PredictedETA    int
}

// SendOffer pushes a wave offer to a single driver.
func (h *Hub) SendOffer(driverID uuid.UUID, o OfferCandidate) {
	h.hub.SendToUser(driverID.String(), payload(EventOrderOffer, map[string]interface{}{
		"order":           o.Order,
		"waveNumber":      o.WaveNumber,
		"waveDeadline":    o.WaveDeadline,
		"estimatedFare":   o.EstimatedFare,
		"surgeMultiplier": o.SurgeMultiplier,
		"predictedEta":    o.PredictedETA,
	}))
}

// SendOrderCancelled notifies a session that an order it held or was
// offered is no longer theirs.
func (h *Hub) SendOrderCancelled(userID uuid.UUID, orderID uuid.UUID, reason string) {
	h.hub.SendToUser(userID.String(), payload(EventOrderCancelled, map[string]interface{}{
		"orderId": orderID,
		"reason":  reason,
	}))
}

// BroadcastOrderCancelled notifies every session in the order's room
// (used when a wave's losing candidates must all learn it was taken).
func (h *Hub) BroadcastOrderCancelled(orderID uuid.UUID, reason string) {
	h.hub.SendToRide(orderID.String(), payload(EventOrderCancelled, map[string]interface{}{
		"orderId": orderID,
		"reason":  reason,
	}))
}

// SendOrderUpdate notifies a specific user of an order status change.
func (h *Hub) SendOrderUpdate(userID uuid.UUID, order *storage.Order) {
	h.hub.SendToUser(userID.String(), payload(EventOrderUpdate, map[string]interface{}{
		"order": order,
	}))
}

// BroadcastOrderUpdate notifies every session in the order's room.
func (h *Hub) BroadcastOrderUpdate(orderID uuid.UUID, order *storage.Order) {
	h.hub.SendToRide(orderID.String(), payload(EventOrderUpdate, map[string]interface{}{
		"order": order,
	}))
}

// SendNoDriver notifies the passenger that all waves were exhausted.
func (h *Hub) SendNoDriver(passengerID uuid.UUID, orderID uuid.UUID) {
	h.hub.SendToUser(passengerID.String(), payload(EventOrderNoDriver, map[string]interface{}{
		"orderId": orderID,
	}))
}

// NearbyDriver is one entry of the nearby:drivers snapshot.
type NearbyDriver struct {
	DriverID  uuid.UUID `json:"driverId"`
	Lat       float64   `json:"lat"`
	Lng       float64   `json:"lng"`
	Timestamp time.Time `json:"timestamp"`
}

// SendNearbyDrivers pushes a nearby-drivers snapshot to a passenger
// (spec §4.2 "AnnounceNearby").
func (h *Hub) SendNearbyDrivers(passengerID uuid.UUID, drivers []NearbyDriver) {
	h.hub.SendToUser(passengerID.String(), payload(EventNearbyDrivers, map[string]interface{}{
		"drivers": drivers,
	}))
}

// SendDriverLocation notifies the passenger on orderID that their
// assigned driver moved (only sent after ACCEPTED, spec §6).
func (h *Hub) SendDriverLocation(passengerID uuid.UUID, orderID uuid.UUID, lat, lng float64) {
	h.hub.SendToUser(passengerID.String(), payload(EventDriverLocation, map[string]interface{}{
		"orderId": orderID,
		"lat":     lat,
		"lng":     lng,
	}))
}
