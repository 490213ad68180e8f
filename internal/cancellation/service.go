package cancellation

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/ridefleet/dispatch-core/internal/storage"
	"github.com/ridefleet/dispatch-core/pkg/common"
)

// cancellableStates mirrors internal/dispatch's cancellableStates gate: a
// preview makes no sense once the order can no longer be cancelled.
var cancellableStates = map[storage.OrderStatus]bool{
	storage.OrderOffered:  true,
	storage.OrderAccepted: true,
	storage.OrderArrived:  true,
}

// Service computes cancellation fee previews from order state. Unlike
// the teacher's CancelRide, it never mutates anything: committing a
// cancellation is internal/dispatch.Orchestrator.CancelOrder's job.
type Service struct {
	orders storage.Repository
	clock  func() time.Time
}

// NewService creates a cancellation preview service.
func NewService(orders storage.Repository) *Service {
	return &Service{orders: orders, clock: time.Now}
}

// PreviewCancellation shows what fee would apply if userID cancelled
// orderID right now (spec supplement: a read-only courtesy endpoint
// ahead of the authoritative CancelOrder).
func (s *Service) PreviewCancellation(ctx context.Context, orderID, userID uuid.UUID) (*CancellationPreview, error) {
	order, err := s.orders.GetOrder(ctx, orderID)
	if err != nil || order == nil {
		return nil, common.NewNotFoundError("order not found", err)
	}

	isPassenger := order.PassengerID == userID
	isDriver := order.DriverID != nil && *order.DriverID == userID
	if !isPassenger && !isDriver {
		return nil, common.NewForbiddenError("not a party to this order")
	}
	if !cancellableStates[order.Status] {
		return nil, common.NewBadTransitionError("order can no longer be cancelled")
	}

	now := s.clock()
	minutesSinceRequest := now.Sub(order.CreatedAt).Minutes()
	var minutesSinceAccept *float64
	if order.AcceptedAt != nil {
		m := now.Sub(*order.AcceptedAt).Minutes()
		minutesSinceAccept = &m
	}

	return s.calculateFee(isDriver, order, minutesSinceRequest, minutesSinceAccept), nil
}

func (s *Service) calculateFee(isDriver bool, order *storage.Order, minutesSinceRequest float64, minutesSinceAccept *float64) *CancellationPreview {
	if isDriver {
		return &CancellationPreview{
			FeeWaived:           true,
			WaiverReason:        waivePtr(WaiverDriverFault),
			Explanation:         "drivers are never charged a cancellation fee",
			MinutesSinceRequest: minutesSinceRequest,
			MinutesSinceAccept:  minutesSinceAccept,
		}
	}

	if order.Status == storage.OrderOffered {
		return &CancellationPreview{
			FeeWaived:           true,
			WaiverReason:        waivePtr(WaiverNotYetAccepted),
			Explanation:         "no fee before a driver accepts",
			MinutesSinceRequest: minutesSinceRequest,
			MinutesSinceAccept:  minutesSinceAccept,
		}
	}

	if minutesSinceRequest < float64(defaultPolicy.FreeCancelWindowMinutes) {
		return &CancellationPreview{
			FeeWaived:           true,
			WaiverReason:        waivePtr(WaiverFreeCancellationWindow),
			Explanation:         fmt.Sprintf("free within %d minutes of requesting", defaultPolicy.FreeCancelWindowMinutes),
			MinutesSinceRequest: minutesSinceRequest,
			MinutesSinceAccept:  minutesSinceAccept,
		}
	}

	overMinutes := minutesSinceRequest - float64(defaultPolicy.FreeCancelWindowMinutes)
	fee := defaultPolicy.BaseFee + overMinutes*defaultPolicy.PerMinuteAfterWindow
	if fee > defaultPolicy.MaxFee {
		fee = defaultPolicy.MaxFee
	}

	return &CancellationPreview{
		FeeAmount:           fee,
		Explanation:         fmt.Sprintf("cancellation fee of %.2f applies after the free window", fee),
		MinutesSinceRequest: minutesSinceRequest,
		MinutesSinceAccept:  minutesSinceAccept,
	}
}

func waivePtr(r FeeWaiverReason) *FeeWaiverReason {
	return &r
}
