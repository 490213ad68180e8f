package storage

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Repository is the persisted-state adapter contract from spec §6: point
// reads by id, update-by-id with optimistic concurrency (here: a
// compare-and-set on status, mirroring the teacher's AtomicAcceptRide),
// a ranged scan on (status, created_at), and appends to the log-like
// tables.
type Repository interface {
	CreateOrder(ctx context.Context, o *Order) error
	GetOrder(ctx context.Context, id uuid.UUID) (*Order, error)
	// AtomicAcceptOffer wins the acceptance race: it succeeds only if the
	// order is still OFFERED and driverID is the assigned winner. Returns
	// false (no error) if another driver already won or the order moved on.
	AtomicAcceptOffer(ctx context.Context, orderID, driverID uuid.UUID, now time.Time) (bool, error)
	UpdateOrderStatus(ctx context.Context, orderID uuid.UUID, from, to OrderStatus, mutate func(*Order)) (bool, error)
	ListOrdersByStatus(ctx context.Context, status OrderStatus, limit int) ([]*Order, error)

	AppendDispatchLog(ctx context.Context, log *DispatchLog) error
	AppendRejection(ctx context.Context, r *RejectionRecord) error

	GetDriver(ctx context.Context, id uuid.UUID) (*Driver, error)
	UpsertDriver(ctx context.Context, d *Driver) error

	GetPassenger(ctx context.Context, id uuid.UUID) (*Passenger, error)
	GetPassengerByPhone(ctx context.Context, phone string) (*Passenger, error)
	UpsertPassenger(ctx context.Context, p *Passenger) error

	GetDriverPattern(ctx context.Context, driverID uuid.UUID) (*DriverPattern, error)
	UpsertDriverPattern(ctx context.Context, p *DriverPattern) error

	ListZoneConfigs(ctx context.Context) ([]*HotZoneConfig, error)
	GetOrCreateZoneQuota(ctx context.Context, zoneID uuid.UUID, date string, hour, limit int) (*HotZoneQuota, error)
	ReserveZoneQuota(ctx context.Context, zoneID uuid.UUID, date string, hour int) (admitted bool, used, limit int, err error)
	ReleaseZoneQuota(ctx context.Context, zoneID uuid.UUID, date string, hour int) error

	GetETACacheEntry(ctx context.Context, key ETAKey) (*ETACacheEntry, error)
	PutETACacheEntry(ctx context.Context, e *ETACacheEntry) error

	CreateRating(ctx context.Context, r *Rating) error
}

// ETAKey is the quantized composite key spec §4.5 defines.
type ETAKey struct {
	OriginLat, OriginLng float64
	DestLat, DestLng     float64
	Hour                 int
}
