package cancellation

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/ridefleet/dispatch-core/internal/storage"
)

// stubRepo implements storage.Repository, backing only GetOrder; every
// other method is unused by Service and panics if ever called.
type stubRepo struct {
	order *storage.Order
}

func (s *stubRepo) GetOrder(ctx context.Context, id uuid.UUID) (*storage.Order, error) {
	if s.order == nil || s.order.ID != id {
		return nil, nil
	}
	cp := *s.order
	return &cp, nil
}

func (s *stubRepo) CreateOrder(ctx context.Context, o *storage.Order) error { panic("unused") }
func (s *stubRepo) AtomicAcceptOffer(ctx context.Context, orderID, driverID uuid.UUID, now time.Time) (bool, error) {
	panic("unused")
}
func (s *stubRepo) UpdateOrderStatus(ctx context.Context, orderID uuid.UUID, from, to storage.OrderStatus, mutate func(*storage.Order)) (bool, error) {
	panic("unused")
}
func (s *stubRepo) ListOrdersByStatus(ctx context.Context, status storage.OrderStatus, limit int) ([]*storage.Order, error) {
	panic("unused")
}
func (s *stubRepo) AppendDispatchLog(ctx context.Context, log *storage.DispatchLog) error { panic("unused") }
func (s *stubRepo) AppendRejection(ctx context.Context, r *storage.RejectionRecord) error  { panic("unused") }
func (s *stubRepo) GetDriver(ctx context.Context, id uuid.UUID) (*storage.Driver, error)   { panic("unused") }
func (s *stubRepo) UpsertDriver(ctx context.Context, d *storage.Driver) error              { panic("unused") }
func (s *stubRepo) GetPassenger(ctx context.Context, id uuid.UUID) (*storage.Passenger, error) {
	panic("unused")
}
func (s *stubRepo) GetPassengerByPhone(ctx context.Context, phone string) (*storage.Passenger, error) {
	panic("unused")
}
func (s *stubRepo) UpsertPassenger(ctx context.Context, p *storage.Passenger) error { panic("unused") }
func (s *stubRepo) GetDriverPattern(ctx context.Context, driverID uuid.UUID) (*storage.DriverPattern, error) {
	panic("unused")
}
func (s *stubRepo) UpsertDriverPattern(ctx context.Context, p *storage.DriverPattern) error {
	panic("unused")
}
func (s *stubRepo) ListZoneConfigs(ctx context.Context) ([]*storage.HotZoneConfig, error) {
	panic("unused")
}
func (s *stubRepo) GetOrCreateZoneQuota(ctx context.Context, zoneID uuid.UUID, date string, hour, limit int) (*storage.HotZoneQuota, error) {
	panic("unused")
}
func (s *stubRepo) ReserveZoneQuota(ctx context.Context, zoneID uuid.UUID, date string, hour int) (bool, int, int, error) {
	panic("unused")
}
func (s *stubRepo) ReleaseZoneQuota(ctx context.Context, zoneID uuid.UUID, date string, hour int) error {
	panic("unused")
}
func (s *stubRepo) GetETACacheEntry(ctx context.Context, key storage.ETAKey) (*storage.ETACacheEntry, error) {
	panic("unused")
}
func (s *stubRepo) PutETACacheEntry(ctx context.Context, e *storage.ETACacheEntry) error {
	panic("unused")
}
func (s *stubRepo) CreateRating(ctx context.Context, r *storage.Rating) error { panic("unused") }

func newService(order *storage.Order, now time.Time) *Service {
	svc := NewService(&stubRepo{order: order})
	svc.clock = func() time.Time { return now }
	return svc
}

func TestPreviewCancellation_FreeWithinWindow(t *testing.T) {
	passenger := uuid.New()
	orderID := uuid.New()
	created := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	order := &storage.Order{ID: orderID, PassengerID: passenger, Status: storage.OrderAccepted, CreatedAt: created}

	svc := newService(order, created.Add(time.Minute))
	preview, err := svc.PreviewCancellation(context.Background(), orderID, passenger)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !preview.FeeWaived || preview.WaiverReason == nil || *preview.WaiverReason != WaiverFreeCancellationWindow {
		t.Fatalf("expected free-window waiver, got %+v", preview)
	}
}

func TestPreviewCancellation_FeeAfterWindow(t *testing.T) {
	passenger := uuid.New()
	orderID := uuid.New()
	created := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	order := &storage.Order{ID: orderID, PassengerID: passenger, Status: storage.OrderAccepted, CreatedAt: created}

	svc := newService(order, created.Add(10*time.Minute))
	preview, err := svc.PreviewCancellation(context.Background(), orderID, passenger)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if preview.FeeWaived || preview.FeeAmount <= 0 {
		t.Fatalf("expected a nonzero fee, got %+v", preview)
	}
}

func TestPreviewCancellation_DriverNeverCharged(t *testing.T) {
	passenger := uuid.New()
	driver := uuid.New()
	orderID := uuid.New()
	created := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	order := &storage.Order{ID: orderID, PassengerID: passenger, DriverID: &driver, Status: storage.OrderAccepted, CreatedAt: created}

	svc := newService(order, created.Add(30*time.Minute))
	preview, err := svc.PreviewCancellation(context.Background(), orderID, driver)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !preview.FeeWaived || preview.WaiverReason == nil || *preview.WaiverReason != WaiverDriverFault {
		t.Fatalf("expected driver-fault waiver, got %+v", preview)
	}
}

func TestPreviewCancellation_NotAParty(t *testing.T) {
	passenger := uuid.New()
	stranger := uuid.New()
	orderID := uuid.New()
	order := &storage.Order{ID: orderID, PassengerID: passenger, Status: storage.OrderAccepted, CreatedAt: time.Now()}

	svc := newService(order, time.Now())
	if _, err := svc.PreviewCancellation(context.Background(), orderID, stranger); err == nil {
		t.Fatal("expected forbidden error")
	}
}

func TestPreviewCancellation_TerminalOrder(t *testing.T) {
	passenger := uuid.New()
	orderID := uuid.New()
	order := &storage.Order{ID: orderID, PassengerID: passenger, Status: storage.OrderDone, CreatedAt: time.Now()}

	svc := newService(order, time.Now())
	if _, err := svc.PreviewCancellation(context.Background(), orderID, passenger); err == nil {
		t.Fatal("expected bad-transition error")
	}
}
