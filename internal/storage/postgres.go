package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ErrNotFound is returned by point reads that find nothing.
var ErrNotFound = errors.New("storage: not found")

// Postgres implements Repository over a pgx pool. Grounded on the teacher's
// internal/rides/repository.go, generalized from a single `rides` table to
// the full table set spec §3/§6 name.
type Postgres struct {
	pool *pgxpool.Pool
}

// NewPostgres wraps an already-configured pool (see pkg/database.NewPostgresPool).
func NewPostgres(pool *pgxpool.Pool) *Postgres {
	return &Postgres{pool: pool}
}

func (p *Postgres) CreateOrder(ctx context.Context, o *Order) error {
	destLat, destLng, destAddr := anyAddr(o.Destination)
	_, err := p.pool.Exec(ctx, `
		INSERT INTO orders (
			id, passenger_id, driver_id, status,
			pickup_lat, pickup_lng, pickup_address,
			dest_lat, dest_lng, dest_address,
			payment_type, estimated_fare, created_at, offered_at,
			batch_number, dispatch_method, hour_of_day, day_of_week, surge_multiplier,
			pickup_city, pickup_country
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,$17,$18,$19,$20,$21)
	`,
		o.ID, o.PassengerID, o.DriverID, o.Status,
		o.Pickup.Lat, o.Pickup.Lng, o.Pickup.Address,
		destLat, destLng, destAddr,
		o.PaymentType, o.EstimatedFare, o.CreatedAt, o.OfferedAt,
		o.BatchNumber, o.DispatchMethod, o.HourOfDay, o.DayOfWeek, o.SurgeMultiplier,
		o.PickupCity, o.PickupCountry,
	)
	if err != nil {
		return fmt.Errorf("create order: %w", err)
	}
	return nil
}

func (p *Postgres) GetOrder(ctx context.Context, id uuid.UUID) (*Order, error) {
	row := p.pool.QueryRow(ctx, `
		SELECT id, passenger_id, driver_id, status,
			pickup_lat, pickup_lng, pickup_address,
			dest_lat, dest_lng, dest_address,
			payment_type, meter_amount, estimated_fare, actual_distance_m, actual_duration_s, photo_url,
			created_at, offered_at, accepted_at, arrived_at, started_at, completed_at, cancelled_at,
			reject_count, batch_number, dispatch_method, hour_of_day, day_of_week, cancel_reason, surge_multiplier,
			pickup_city, pickup_country
		FROM orders WHERE id = $1
	`, id)
	o, err := scanOrder(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get order: %w", err)
	}
	return o, nil
}

func scanOrder(row pgx.Row) (*Order, error) {
	var o Order
	var destLat, destLng *float64
	var destAddr *string
	if err := row.Scan(
		&o.ID, &o.PassengerID, &o.DriverID, &o.Status,
		&o.Pickup.Lat, &o.Pickup.Lng, &o.Pickup.Address,
		&destLat, &destLng, &destAddr,
		&o.PaymentType, &o.MeterAmount, &o.EstimatedFare, &o.ActualDistanceM, &o.ActualDuration, &o.PhotoURL,
		&o.CreatedAt, &o.OfferedAt, &o.AcceptedAt, &o.ArrivedAt, &o.StartedAt, &o.CompletedAt, &o.CancelledAt,
		&o.RejectCount, &o.BatchNumber, &o.DispatchMethod, &o.HourOfDay, &o.DayOfWeek, &o.CancelReason, &o.SurgeMultiplier,
		&o.PickupCity, &o.PickupCountry,
	); err != nil {
		return nil, err
	}
	if destLat != nil && destLng != nil {
		addr := ""
		if destAddr != nil {
			addr = *destAddr
		}
		o.Destination = &Address{Lat: *destLat, Lng: *destLng, Address: addr}
	}
	return &o, nil
}

// AtomicAcceptOffer mirrors the teacher's AtomicAcceptRide: a single
// UPDATE guarded by a WHERE clause on the current status, with the
// assigned-driver flip baked into the same statement. RowsAffected()==1
// is the sole winner signal (spec §4.1, §5).
func (p *Postgres) AtomicAcceptOffer(ctx context.Context, orderID, driverID uuid.UUID, now time.Time) (bool, error) {
	tag, err := p.pool.Exec(ctx, `
		UPDATE orders
		SET status = $1, driver_id = $2, accepted_at = $3
		WHERE id = $4 AND status = $5 AND driver_id IS NULL
	`, OrderAccepted, driverID, now, orderID, OrderOffered)
	if err != nil {
		return false, fmt.Errorf("accept offer: %w", err)
	}
	return tag.RowsAffected() == 1, nil
}

// UpdateOrderStatus performs the §4.6 transition table's CAS: the update
// only takes effect if the order is currently `from`. mutate sets any
// side-effect columns (timestamps, meter, cancel reason) on the in-memory
// copy before it is written back.
func (p *Postgres) UpdateOrderStatus(ctx context.Context, orderID uuid.UUID, from, to OrderStatus, mutate func(*Order)) (bool, error) {
	o, err := p.GetOrder(ctx, orderID)
	if err != nil {
		return false, err
	}
	if o.Status != from {
		return false, nil
	}
	o.Status = to
	if mutate != nil {
		mutate(o)
	}
	tag, err := p.pool.Exec(ctx, `
		UPDATE orders SET
			status=$1, arrived_at=$2, started_at=$3, completed_at=$4, cancelled_at=$5,
			meter_amount=$6, actual_distance_m=$7, actual_duration_s=$8, photo_url=$9,
			cancel_reason=$10, reject_count=$11
		WHERE id=$12 AND status=$13
	`,
		o.Status, o.ArrivedAt, o.StartedAt, o.CompletedAt, o.CancelledAt,
		o.MeterAmount, o.ActualDistanceM, o.ActualDuration, o.PhotoURL,
		o.CancelReason, o.RejectCount,
		orderID, from,
	)
	if err != nil {
		return false, fmt.Errorf("update order status: %w", err)
	}
	return tag.RowsAffected() == 1, nil
}

func (p *Postgres) ListOrdersByStatus(ctx context.Context, status OrderStatus, limit int) ([]*Order, error) {
	rows, err := p.pool.Query(ctx, `
		SELECT id, passenger_id, driver_id, status,
			pickup_lat, pickup_lng, pickup_address,
			dest_lat, dest_lng, dest_address,
			payment_type, meter_amount, estimated_fare, actual_distance_m, actual_duration_s, photo_url,
			created_at, offered_at, accepted_at, arrived_at, started_at, completed_at, cancelled_at,
			reject_count, batch_number, dispatch_method, hour_of_day, day_of_week, cancel_reason, surge_multiplier,
			pickup_city, pickup_country
		FROM orders WHERE status = $1 ORDER BY created_at ASC LIMIT $2
	`, status, limit)
	if err != nil {
		return nil, fmt.Errorf("list orders by status: %w", err)
	}
	defer rows.Close()

	var out []*Order
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, o)
	}
	return out, rows.Err()
}

func (p *Postgres) AppendDispatchLog(ctx context.Context, l *DispatchLog) error {
	candidates, err := json.Marshal(l.Candidates)
	if err != nil {
		return fmt.Errorf("marshal candidates: %w", err)
	}
	weights, err := json.Marshal(l.WeightSnapshot)
	if err != nil {
		return fmt.Errorf("marshal weights: %w", err)
	}
	_, err = p.pool.Exec(ctx, `
		INSERT INTO dispatch_logs (id, order_id, wave_number, timestamp, candidates, weight_snapshot, accepted_by, accepted_at, ms_to_respond)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)
	`, l.ID, l.OrderID, l.WaveNumber, l.Timestamp, candidates, weights, l.AcceptedBy, l.AcceptedAt, l.MsToRespond)
	if err != nil {
		return fmt.Errorf("append dispatch log: %w", err)
	}
	return nil
}

func (p *Postgres) AppendRejection(ctx context.Context, r *RejectionRecord) error {
	features, err := json.Marshal(r.Features)
	if err != nil {
		return fmt.Errorf("marshal features: %w", err)
	}
	_, err = p.pool.Exec(ctx, `
		INSERT INTO order_rejections (id, order_id, driver_id, reason, features, offered_at, rejected_at, response_ms)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
	`, r.ID, r.OrderID, r.DriverID, r.Reason, features, r.OfferedAt, r.RejectedAt, r.ResponseMs)
	if err != nil {
		return fmt.Errorf("append rejection: %w", err)
	}
	return nil
}

func (p *Postgres) GetDriver(ctx context.Context, id uuid.UUID) (*Driver, error) {
	var d Driver
	var lat, lng, speed, bearing *float64
	var ts *time.Time
	err := p.pool.QueryRow(ctx, `
		SELECT id, display_name, phone, plate, availability,
			last_lat, last_lng, last_speed, last_bearing, last_point_at,
			is_blocked, blocked_reason, rating_avg, trip_count, lifetime_earnings, today_earnings, today_earnings_date,
			acceptance_rate, classifier, created_at, updated_at
		FROM drivers WHERE id = $1
	`, id).Scan(
		&d.ID, &d.DisplayName, &d.Phone, &d.Plate, &d.Availability,
		&lat, &lng, &speed, &bearing, &ts,
		&d.IsBlocked, &d.BlockedReason, &d.RatingAvg, &d.TripCount, &d.LifetimeEarn, &d.TodayEarnings, &d.TodayEarningsDate,
		&d.AcceptanceRate, &d.Classifier, &d.CreatedAt, &d.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get driver: %w", err)
	}
	if lat != nil && lng != nil && ts != nil {
		p := Point{Lat: *lat, Lng: *lng, Timestamp: *ts}
		if speed != nil {
			p.Speed = *speed
		}
		if bearing != nil {
			p.Bearing = *bearing
		}
		d.LastPoint = &p
	}
	return &d, nil
}

func (p *Postgres) UpsertDriver(ctx context.Context, d *Driver) error {
	var lat, lng, speed, bearing *float64
	var ts *time.Time
	if d.LastPoint != nil {
		lat, lng, speed, bearing = &d.LastPoint.Lat, &d.LastPoint.Lng, &d.LastPoint.Speed, &d.LastPoint.Bearing
		ts = &d.LastPoint.Timestamp
	}
	_, err := p.pool.Exec(ctx, `
		INSERT INTO drivers (id, display_name, phone, plate, availability, last_lat, last_lng, last_speed, last_bearing, last_point_at,
			is_blocked, blocked_reason, rating_avg, trip_count, lifetime_earnings, today_earnings, today_earnings_date,
			acceptance_rate, classifier, created_at, updated_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,$17,$18,$19,$20,$21)
		ON CONFLICT (id) DO UPDATE SET
			display_name=$2, phone=$3, plate=$4, availability=$5, last_lat=$6, last_lng=$7, last_speed=$8, last_bearing=$9, last_point_at=$10,
			is_blocked=$11, blocked_reason=$12, rating_avg=$13, trip_count=$14, lifetime_earnings=$15, today_earnings=$16, today_earnings_date=$17,
			acceptance_rate=$18, classifier=$19, updated_at=$21
	`, d.ID, d.DisplayName, d.Phone, d.Plate, d.Availability, lat, lng, speed, bearing, ts,
		d.IsBlocked, d.BlockedReason, d.RatingAvg, d.TripCount, d.LifetimeEarn, d.TodayEarnings, d.TodayEarningsDate,
		d.AcceptanceRate, d.Classifier, d.CreatedAt, d.UpdatedAt)
	if err != nil {
		return fmt.Errorf("upsert driver: %w", err)
	}
	return nil
}

func (p *Postgres) GetPassenger(ctx context.Context, id uuid.UUID) (*Passenger, error) {
	var ps Passenger
	err := p.pool.QueryRow(ctx, `
		SELECT id, phone, name, email, is_blocked, rating, trip_count, created_at FROM passengers WHERE id=$1
	`, id).Scan(&ps.ID, &ps.Phone, &ps.Name, &ps.Email, &ps.IsBlocked, &ps.Rating, &ps.TripCount, &ps.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get passenger: %w", err)
	}
	return &ps, nil
}

func (p *Postgres) GetPassengerByPhone(ctx context.Context, phone string) (*Passenger, error) {
	var ps Passenger
	err := p.pool.QueryRow(ctx, `
		SELECT id, phone, name, email, is_blocked, rating, trip_count, created_at FROM passengers WHERE phone=$1
	`, phone).Scan(&ps.ID, &ps.Phone, &ps.Name, &ps.Email, &ps.IsBlocked, &ps.Rating, &ps.TripCount, &ps.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get passenger by phone: %w", err)
	}
	return &ps, nil
}

func (p *Postgres) UpsertPassenger(ctx context.Context, ps *Passenger) error {
	_, err := p.pool.Exec(ctx, `
		INSERT INTO passengers (id, phone, name, email, is_blocked, rating, trip_count, created_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
		ON CONFLICT (phone) DO UPDATE SET name=$3, email=$4, is_blocked=$5, rating=$6, trip_count=$7
	`, ps.ID, ps.Phone, ps.Name, ps.Email, ps.IsBlocked, ps.Rating, ps.TripCount, ps.CreatedAt)
	if err != nil {
		return fmt.Errorf("upsert passenger: %w", err)
	}
	return nil
}

func (p *Postgres) GetDriverPattern(ctx context.Context, driverID uuid.UUID) (*DriverPattern, error) {
	var dp DriverPattern
	var hourly, zones []byte
	err := p.pool.QueryRow(ctx, `
		SELECT driver_id, hourly_acceptance, zone_acceptance, avg_accepted_distance_m, max_accepted_distance_m,
			short_trip_acceptance, med_trip_acceptance, long_trip_acceptance, earnings_threshold, classifier,
			last_calculated, sample_count
		FROM driver_patterns WHERE driver_id=$1
	`, driverID).Scan(&dp.DriverID, &hourly, &zones, &dp.AvgAcceptedDistanceM, &dp.MaxAcceptedDistanceM,
		&dp.ShortTripAcceptance, &dp.MedTripAcceptance, &dp.LongTripAcceptance, &dp.EarningsThreshold, &dp.Classifier,
		&dp.LastCalculated, &dp.SampleCount)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get driver pattern: %w", err)
	}
	dp.HourlyAcceptance = map[int]float64{}
	dp.ZoneAcceptance = map[string]float64{}
	_ = json.Unmarshal(hourly, &dp.HourlyAcceptance)
	_ = json.Unmarshal(zones, &dp.ZoneAcceptance)
	return &dp, nil
}

func (p *Postgres) UpsertDriverPattern(ctx context.Context, dp *DriverPattern) error {
	hourly, err := json.Marshal(dp.HourlyAcceptance)
	if err != nil {
		return fmt.Errorf("marshal hourly acceptance: %w", err)
	}
	zones, err := json.Marshal(dp.ZoneAcceptance)
	if err != nil {
		return fmt.Errorf("marshal zone acceptance: %w", err)
	}
	_, err = p.pool.Exec(ctx, `
		INSERT INTO driver_patterns (driver_id, hourly_acceptance, zone_acceptance, avg_accepted_distance_m, max_accepted_distance_m,
			short_trip_acceptance, med_trip_acceptance, long_trip_acceptance, earnings_threshold, classifier, last_calculated, sample_count)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12)
		ON CONFLICT (driver_id) DO UPDATE SET
			hourly_acceptance=$2, zone_acceptance=$3, avg_accepted_distance_m=$4, max_accepted_distance_m=$5,
			short_trip_acceptance=$6, med_trip_acceptance=$7, long_trip_acceptance=$8, earnings_threshold=$9,
			classifier=$10, last_calculated=$11, sample_count=$12
	`, dp.DriverID, hourly, zones, dp.AvgAcceptedDistanceM, dp.MaxAcceptedDistanceM,
		dp.ShortTripAcceptance, dp.MedTripAcceptance, dp.LongTripAcceptance, dp.EarningsThreshold, dp.Classifier,
		dp.LastCalculated, dp.SampleCount)
	if err != nil {
		return fmt.Errorf("upsert driver pattern: %w", err)
	}
	return nil
}

func (p *Postgres) ListZoneConfigs(ctx context.Context) ([]*HotZoneConfig, error) {
	rows, err := p.pool.Query(ctx, `
		SELECT id, name, center_lat, center_lng, radius_m, peak_hours, quota_normal, quota_peak,
			surge_threshold, max_surge, surge_step, queue_enabled, max_queue_size, queue_timeout_seconds, active, priority
		FROM hot_zones WHERE active = true ORDER BY priority DESC, id ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("list zone configs: %w", err)
	}
	defer rows.Close()

	var out []*HotZoneConfig
	for rows.Next() {
		var z HotZoneConfig
		var peakHours []byte
		var timeoutSec int
		if err := rows.Scan(&z.ID, &z.Name, &z.CenterLat, &z.CenterLng, &z.RadiusM, &peakHours, &z.QuotaNormal, &z.QuotaPeak,
			&z.SurgeThreshold, &z.MaxSurge, &z.SurgeStep, &z.QueueEnabled, &z.MaxQueueSize, &timeoutSec, &z.Active, &z.Priority); err != nil {
			return nil, err
		}
		z.QueueTimeout = time.Duration(timeoutSec) * time.Second
		var hours []int
		_ = json.Unmarshal(peakHours, &hours)
		z.PeakHours = map[int]bool{}
		for _, h := range hours {
			z.PeakHours[h] = true
		}
		out = append(out, &z)
	}
	return out, rows.Err()
}

func (p *Postgres) GetOrCreateZoneQuota(ctx context.Context, zoneID uuid.UUID, date string, hour, limit int) (*HotZoneQuota, error) {
	var q HotZoneQuota
	err := p.pool.QueryRow(ctx, `
		INSERT INTO hot_zone_quotas (zone_id, quota_date, hour, limit_effective, used)
		VALUES ($1,$2,$3,$4,0)
		ON CONFLICT (zone_id, quota_date, hour) DO UPDATE SET zone_id = EXCLUDED.zone_id
		RETURNING zone_id, quota_date, hour, limit_effective, used
	`, zoneID, date, hour, limit).Scan(&q.ZoneID, &q.Date, &q.Hour, &q.Limit, &q.Used)
	if err != nil {
		return nil, fmt.Errorf("get or create zone quota: %w", err)
	}
	return &q, nil
}

// ReserveZoneQuota performs the §4.3 `reserve` step atomically: increments
// `used` only if it stays below `limit_effective`.
func (p *Postgres) ReserveZoneQuota(ctx context.Context, zoneID uuid.UUID, date string, hour int) (bool, int, int, error) {
	var used, limit int
	err := p.pool.QueryRow(ctx, `
		UPDATE hot_zone_quotas SET used = used + 1
		WHERE zone_id=$1 AND quota_date=$2 AND hour=$3 AND used < limit_effective
		RETURNING used, limit_effective
	`, zoneID, date, hour).Scan(&used, &limit)
	if errors.Is(err, pgx.ErrNoRows) {
		// Either the quota row doesn't exist yet or it's already full;
		// report current state for the latter, zero for the former.
		_ = p.pool.QueryRow(ctx, `SELECT used, limit_effective FROM hot_zone_quotas WHERE zone_id=$1 AND quota_date=$2 AND hour=$3`,
			zoneID, date, hour).Scan(&used, &limit)
		return false, used, limit, nil
	}
	if err != nil {
		return false, 0, 0, fmt.Errorf("reserve zone quota: %w", err)
	}
	return true, used, limit, nil
}

func (p *Postgres) ReleaseZoneQuota(ctx context.Context, zoneID uuid.UUID, date string, hour int) error {
	_, err := p.pool.Exec(ctx, `
		UPDATE hot_zone_quotas SET used = GREATEST(used - 1, 0)
		WHERE zone_id=$1 AND quota_date=$2 AND hour=$3
	`, zoneID, date, hour)
	if err != nil {
		return fmt.Errorf("release zone quota: %w", err)
	}
	return nil
}

func (p *Postgres) GetETACacheEntry(ctx context.Context, key ETAKey) (*ETACacheEntry, error) {
	var e ETACacheEntry
	err := p.pool.QueryRow(ctx, `
		SELECT origin_lat, origin_lng, dest_lat, dest_lng, hour, distance_m, duration_s, traffic_s, cached_at, expires_at, hit_count
		FROM eta_cache WHERE origin_lat=$1 AND origin_lng=$2 AND dest_lat=$3 AND dest_lng=$4 AND hour=$5
	`, key.OriginLat, key.OriginLng, key.DestLat, key.DestLng, key.Hour).Scan(
		&e.OriginLat, &e.OriginLng, &e.DestLat, &e.DestLng, &e.Hour, &e.DistanceM, &e.DurationS, &e.TrafficS, &e.CachedAt, &e.ExpiresAt, &e.HitCount)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get eta cache entry: %w", err)
	}
	return &e, nil
}

func (p *Postgres) PutETACacheEntry(ctx context.Context, e *ETACacheEntry) error {
	_, err := p.pool.Exec(ctx, `
		INSERT INTO eta_cache (origin_lat, origin_lng, dest_lat, dest_lng, hour, distance_m, duration_s, traffic_s, cached_at, expires_at, hit_count)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11)
		ON CONFLICT (origin_lat, origin_lng, dest_lat, dest_lng, hour) DO UPDATE SET
			distance_m=$6, duration_s=$7, traffic_s=$8, cached_at=$9, expires_at=$10, hit_count=eta_cache.hit_count+1
	`, e.OriginLat, e.OriginLng, e.DestLat, e.DestLng, e.Hour, e.DistanceM, e.DurationS, e.TrafficS, e.CachedAt, e.ExpiresAt, e.HitCount)
	if err != nil {
		return fmt.Errorf("put eta cache entry: %w", err)
	}
	return nil
}

func (p *Postgres) CreateRating(ctx context.Context, r *Rating) error {
	_, err := p.pool.Exec(ctx, `
		INSERT INTO order_ratings (id, order_id, from_kind, score, comment, created_at)
		VALUES ($1,$2,$3,$4,$5,$6)
	`, r.ID, r.OrderID, r.FromKind, r.Score, r.Comment, r.CreatedAt)
	if err != nil {
		return fmt.Errorf("create rating: %w", err)
	}
	return nil
}

func anyAddr(a *Address) (*float64, *float64, *string) {
	if a == nil {
		return nil, nil, nil
	}
	return &a.Lat, &a.Lng, &a.Address
}
