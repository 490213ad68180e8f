package dispatch

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/ridefleet/dispatch-core/internal/storage"
)

// memRepo is an in-memory storage.Repository double for orchestrator
// tests, mirroring the teacher's handler_test.go MockRepository pattern.
type memRepo struct {
	mu       sync.Mutex
	orders   map[uuid.UUID]*storage.Order
	drivers  map[uuid.UUID]*storage.Driver
	passengers map[uuid.UUID]*storage.Passenger
	patterns map[uuid.UUID]*storage.DriverPattern
	zones    []*storage.HotZoneConfig
	quotas   map[string]*storage.HotZoneQuota
	rejections []*storage.RejectionRecord
	dispatchLogs []*storage.DispatchLog
	ratings  []*storage.Rating
}

func newMemRepo() *memRepo {
	return &memRepo{
		orders:     map[uuid.UUID]*storage.Order{},
		drivers:    map[uuid.UUID]*storage.Driver{},
		passengers: map[uuid.UUID]*storage.Passenger{},
		patterns:   map[uuid.UUID]*storage.DriverPattern{},
		quotas:     map[string]*storage.HotZoneQuota{},
	}
}

func (m *memRepo) CreateOrder(ctx context.Context, o *storage.Order) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *o
	m.orders[o.ID] = &cp
	return nil
}

func (m *memRepo) GetOrder(ctx context.Context, id uuid.UUID) (*storage.Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	o, ok := m.orders[id]
	if !ok {
		return nil, nil
	}
	cp := *o
	return &cp, nil
}

func (m *memRepo) AtomicAcceptOffer(ctx context.Context, orderID, driverID uuid.UUID, now time.Time) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	o, ok := m.orders[orderID]
	if !ok || o.Status != storage.OrderOffered {
		return false, nil
	}
	o.Status = storage.OrderAccepted
	o.DriverID = &driverID
	o.AcceptedAt = &now
	return true, nil
}

func (m *memRepo) UpdateOrderStatus(ctx context.Context, orderID uuid.UUID, from, to storage.OrderStatus, mutate func(*storage.Order)) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	o, ok := m.orders[orderID]
	if !ok || o.Status != from {
		return false, nil
	}
	o.Status = to
	if mutate != nil {
		mutate(o)
	}
	return true, nil
}

func (m *memRepo) ListOrdersByStatus(ctx context.Context, status storage.OrderStatus, limit int) ([]*storage.Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*storage.Order
	for _, o := range m.orders {
		if o.Status == status {
			out = append(out, o)
		}
	}
	return out, nil
}

func (m *memRepo) AppendDispatchLog(ctx context.Context, log *storage.DispatchLog) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.dispatchLogs = append(m.dispatchLogs, log)
	return nil
}

func (m *memRepo) AppendRejection(ctx context.Context, r *storage.RejectionRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.rejections = append(m.rejections, r)
	return nil
}

func (m *memRepo) GetDriver(ctx context.Context, id uuid.UUID) (*storage.Driver, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	d, ok := m.drivers[id]
	if !ok {
		return nil, nil
	}
	cp := *d
	return &cp, nil
}

func (m *memRepo) UpsertDriver(ctx context.Context, d *storage.Driver) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *d
	m.drivers[d.ID] = &cp
	return nil
}

func (m *memRepo) GetPassenger(ctx context.Context, id uuid.UUID) (*storage.Passenger, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.passengers[id]
	if !ok {
		return nil, nil
	}
	cp := *p
	return &cp, nil
}

func (m *memRepo) GetPassengerByPhone(ctx context.Context, phone string) (*storage.Passenger, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, p := range m.passengers {
		if p.Phone == phone {
			cp := *p
			return &cp, nil
		}
	}
	return nil, nil
}

func (m *memRepo) UpsertPassenger(ctx context.Context, p *storage.Passenger) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *p
	m.passengers[p.ID] = &cp
	return nil
}

func (m *memRepo) GetDriverPattern(ctx context.Context, driverID uuid.UUID) (*storage.DriverPattern, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.patterns[driverID]
	if !ok {
		return nil, nil
	}
	return p, nil
}

func (m *memRepo) UpsertDriverPattern(ctx context.Context, p *storage.DriverPattern) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.patterns[p.DriverID] = p
	return nil
}

func (m *memRepo) ListZoneConfigs(ctx context.Context) ([]*storage.HotZoneConfig, error) {
	return m.zones, nil
}

func (m *memRepo) GetOrCreateZoneQuota(ctx context.Context, zoneID uuid.UUID, date string, hour, limit int) (*storage.HotZoneQuota, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	key := zoneID.String() + date + string(rune(hour))
	q, ok := m.quotas[key]
	if !ok {
		q = &storage.HotZoneQuota{ZoneID: zoneID, Date: date, Hour: hour, Limit: limit}
		m.quotas[key] = q
	}
	return q, nil
}

func (m *memRepo) ReserveZoneQuota(ctx context.Context, zoneID uuid.UUID, date string, hour int) (bool, int, int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	key := zoneID.String() + date + string(rune(hour))
	q, ok := m.quotas[key]
	if !ok {
		return false, 0, 0, nil
	}
	if q.Used >= q.Limit {
		return false, q.Used, q.Limit, nil
	}
	q.Used++
	return true, q.Used, q.Limit, nil
}

func (m *memRepo) ReleaseZoneQuota(ctx context.Context, zoneID uuid.UUID, date string, hour int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	key := zoneID.String() + date + string(rune(hour))
	if q, ok := m.quotas[key]; ok && q.Used > 0 {
		q.Used--
	}
	return nil
}

func (m *memRepo) GetETACacheEntry(ctx context.Context, key storage.ETAKey) (*storage.ETACacheEntry, error) {
	return nil, nil
}

func (m *memRepo) PutETACacheEntry(ctx context.Context, e *storage.ETACacheEntry) error {
	return nil
}

func (m *memRepo) CreateRating(ctx context.Context, r *storage.Rating) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ratings = append(m.ratings, r)
	return nil
}
