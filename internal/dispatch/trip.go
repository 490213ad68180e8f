package dispatch

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/ridefleet/dispatch-core/internal/storage"
	"github.com/ridefleet/dispatch-core/pkg/common"
	"github.com/ridefleet/dispatch-core/pkg/eventbus"
	"github.com/ridefleet/dispatch-core/pkg/logger"
	"github.com/ridefleet/dispatch-core/pkg/tracing"
	"go.uber.org/zap"
)

// transitions enumerates the legal driver-initiated edges of the spec
// §4.6 table, mapping each status to its single next status. AdvanceTrip
// checks separately that the acting driver is the order's assigned driver.
var transitions = map[storage.OrderStatus]storage.OrderStatus{
	storage.OrderAccepted: storage.OrderArrived,
	storage.OrderArrived:  storage.OrderOnTrip,
	storage.OrderOnTrip:   storage.OrderSettling,
	storage.OrderSettling: storage.OrderDone,
}

// AdvanceRequest carries the optional trip-completion payload recorded on
// ON_TRIP → SETTLING (spec §4.6: "record meter, distance, duration,
// optional photo").
type AdvanceRequest struct {
	MeterAmount     *float64
	ActualDistanceM *float64
	ActualDuration  *int
	PhotoURL        string
}

// AdvanceTrip implements spec §4.6's state table for driver-initiated
// trip progress. Illegal edges fail BAD_TRANSITION without touching state.
func (o *Orchestrator) AdvanceTrip(ctx context.Context, orderID, driverID uuid.UUID, req AdvanceRequest) (*storage.Order, error) {
	ctx, span := tracing.StartSpan(ctx, "dispatch", "AdvanceTrip")
	defer span.End()

	order, err := o.repo.GetOrder(ctx, orderID)
	if err != nil || order == nil {
		return nil, common.NewNotFoundError("order not found", err)
	}
	if order.DriverID == nil || *order.DriverID != driverID {
		return nil, common.NewForbiddenError("driver is not assigned to this order")
	}

	to, ok := transitions[order.Status]
	if !ok {
		return nil, common.NewBadTransitionError("no outgoing transition from " + string(order.Status))
	}

	now := o.clock.Now()
	from := order.Status
	ok2, err := o.repo.UpdateOrderStatus(ctx, orderID, from, to, func(ord *storage.Order) {
		switch to {
		case storage.OrderArrived:
			ord.ArrivedAt = &now
		case storage.OrderOnTrip:
			ord.StartedAt = &now
		case storage.OrderSettling:
			ord.CompletedAt = &now
			ord.MeterAmount = req.MeterAmount
			ord.ActualDistanceM = req.ActualDistanceM
			ord.ActualDuration = req.ActualDuration
			ord.PhotoURL = req.PhotoURL
		}
	})
	if err != nil {
		tracing.RecordError(ctx, err)
		return nil, common.NewInternalServerError("failed to advance trip")
	}
	if !ok2 {
		return nil, common.NewBadTransitionError("order status changed concurrently")
	}

	o.applyTransitionSideEffects(ctx, order, from, to, now)

	updated, err := o.repo.GetOrder(ctx, orderID)
	if err != nil {
		return nil, common.NewInternalServerError("failed to reload order")
	}
	return updated, nil
}

func (o *Orchestrator) applyTransitionSideEffects(ctx context.Context, order *storage.Order, from, to storage.OrderStatus, now time.Time) {
	switch to {
	case storage.OrderArrived:
		o.transport.SendOrderUpdate(order.PassengerID, order)
	case storage.OrderDone:
		if order.DriverID != nil {
			if err := o.presence.SetStatus(*order.DriverID, storage.AvailabilityAvailable, now); err != nil {
				logger.Warn("presence status transition refused on trip completion", zap.Error(err))
			}
			o.presence.AssignOrder(*order.DriverID, nil)
			o.incrementDriverStats(ctx, *order.DriverID, order)
		}
		o.transport.BroadcastOrderUpdate(order.ID, order)
	default:
		o.transport.BroadcastOrderUpdate(order.ID, order)
	}

	o.publishEvent(eventbus.SubjectOrderAdvanced, "order.advanced", eventbus.OrderAdvancedData{
		OrderID: order.ID, DriverID: derefOrNil(order.DriverID), FromStatus: string(from), ToStatus: string(to), AdvancedAt: now,
	})
}

// incrementDriverStats folds a completed trip's earnings into the
// driver's lifetime counters (spec §4.6 DONE side effect "increment
// stats"), feeding the predictor's earnings-balance feature.
func (o *Orchestrator) incrementDriverStats(ctx context.Context, driverID uuid.UUID, order *storage.Order) {
	driver, err := o.repo.GetDriver(ctx, driverID)
	if err != nil || driver == nil {
		return
	}
	fare := order.EstimatedFare
	if order.MeterAmount != nil {
		fare = *order.MeterAmount
	}

	driver.TripCount++
	driver.LifetimeEarn += fare

	today := o.clock.Now().Format("2006-01-02")
	if driver.TodayEarningsDate != today {
		driver.TodayEarnings = 0
		driver.TodayEarningsDate = today
	}
	driver.TodayEarnings += fare

	if err := o.repo.UpsertDriver(ctx, driver); err != nil {
		logger.Warn("failed to persist driver stats", zap.Error(err))
	}
}

func derefOrNil(id *uuid.UUID) uuid.UUID {
	if id == nil {
		return uuid.Nil
	}
	return *id
}

// cancellableStates are the statuses CancelOrder accepts from (spec §4.1:
// "Legal only while status ∈ {OFFERED, ACCEPTED, ARRIVED}"; the DAG draws
// the CANCELLED edge only from those three, matching §8's prefix-of-a-
// legal-path invariant). Once a trip is ON_TRIP or SETTLING the order is
// no longer cancellable, only completable.
var cancellableStates = map[storage.OrderStatus]bool{
	storage.OrderOffered:  true,
	storage.OrderAccepted: true,
	storage.OrderArrived:  true,
}

// CancelOrder implements spec §4.6's cancellation edge: legal only from
// the cancellableStates above, releases the zone reservation if
// cancellation happens before ACCEPTED, and notifies the other party.
func (o *Orchestrator) CancelOrder(ctx context.Context, orderID uuid.UUID, by, reason string) (*storage.Order, error) {
	ctx, span := tracing.StartSpan(ctx, "dispatch", "CancelOrder")
	defer span.End()

	order, err := o.repo.GetOrder(ctx, orderID)
	if err != nil || order == nil {
		return nil, common.NewNotFoundError("order not found", err)
	}
	if !cancellableStates[order.Status] {
		return nil, common.NewBadTransitionError("order can no longer be cancelled")
	}

	wasBeforeAccepted := order.Status == storage.OrderOffered
	from := order.Status
	now := o.clock.Now()

	ok, err := o.repo.UpdateOrderStatus(ctx, orderID, from, storage.OrderCancelled, func(ord *storage.Order) {
		ord.CancelledAt = &now
		ord.CancelReason = reason
	})
	if err != nil {
		tracing.RecordError(ctx, err)
		return nil, common.NewInternalServerError("failed to cancel order")
	}
	if !ok {
		return nil, common.NewBadTransitionError("order status changed concurrently")
	}

	if ws := o.getWave(orderID); ws != nil {
		o.clearWave(orderID)
		for d := range ws.snapshotCandidates() {
			o.transport.SendOrderCancelled(d, orderID, "order_cancelled")
		}
	}

	if wasBeforeAccepted {
		o.releaseZoneReserve(ctx, order)
	}

	if order.DriverID != nil {
		if err := o.presence.SetStatus(*order.DriverID, storage.AvailabilityAvailable, now); err != nil {
			logger.Warn("presence status transition refused on cancellation", zap.Error(err))
		}
		o.presence.AssignOrder(*order.DriverID, nil)
		o.transport.SendOrderCancelled(*order.DriverID, orderID, reason)
	}
	o.transport.SendOrderCancelled(order.PassengerID, orderID, reason)

	o.publishEvent(eventbus.SubjectOrderCancelled, "order.cancelled", eventbus.OrderCancelledData{
		OrderID: order.ID, PassengerID: order.PassengerID, DriverID: order.DriverID, By: by, Reason: reason, CancelledAt: now,
	})

	return o.repo.GetOrder(ctx, orderID)
}
