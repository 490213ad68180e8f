// Package dispatch is the ride-request orchestrator (spec §4.1): it
// strings together the zone engine, presence registry, rejection
// predictor, ETA cache and transport hub into the dispatch lifecycle
// (SubmitRide, AcceptOffer, RejectOffer, AdvanceTrip, CancelOrder), and
// runs the wave-based offer rounds described in spec §9's design notes.
// Grounded on the teacher's internal/rides/service.go for the
// tracing/eventbus/error-handling idiom, generalized from a
// request-response ride flow to the spec's concurrent, wave-structured
// acceptance race.
package dispatch

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/ridefleet/dispatch-core/internal/clock"
	"github.com/ridefleet/dispatch-core/internal/etacache"
	"github.com/ridefleet/dispatch-core/internal/geography"
	"github.com/ridefleet/dispatch-core/internal/predictor"
	"github.com/ridefleet/dispatch-core/internal/presence"
	"github.com/ridefleet/dispatch-core/internal/storage"
	"github.com/ridefleet/dispatch-core/internal/transport"
	"github.com/ridefleet/dispatch-core/internal/zone"
	"github.com/ridefleet/dispatch-core/pkg/common"
	"github.com/ridefleet/dispatch-core/pkg/eventbus"
	"github.com/ridefleet/dispatch-core/pkg/geo"
	"github.com/ridefleet/dispatch-core/pkg/logger"
	"github.com/ridefleet/dispatch-core/pkg/tracing"
	"go.uber.org/zap"
)

// Config carries the dispatch orchestrator's tunables, all enumerated in
// spec.md §6 "Configuration".
type Config struct {
	WaveSize            int
	WaveTimeout         time.Duration
	MaxWaves            int
	CandidateRadiusKm   float64
	CandidateRadiusMaxKm float64
	FareWeights         Weights
}

// Weights is the spec §4.1 candidate-scoring feature weight set. Default
// is equal 1/6 per feature; carried as a snapshot into the dispatch log.
type Weights struct {
	PickupDistance     float64
	PredictedETA       float64
	RejectProbability  float64
	EarningsBalance    float64
	ZonePreference     float64
	Rating             float64
}

// DefaultWeights returns the spec's equal-weight default.
func DefaultWeights() Weights {
	const w = 1.0 / 6.0
	return Weights{w, w, w, w, w, w}
}

// AsMap snapshots the weights for the dispatch log (spec §4.1: "carried
// in the dispatch log as a snapshot").
func (w Weights) AsMap() map[string]float64 {
	return map[string]float64{
		"pickup_distance":    w.PickupDistance,
		"predicted_eta":      w.PredictedETA,
		"reject_probability": w.RejectProbability,
		"earnings_balance":   w.EarningsBalance,
		"zone_preference":    w.ZonePreference,
		"rating":             w.Rating,
	}
}

// DefaultConfig matches spec.md §6's enumerated defaults.
func DefaultConfig() Config {
	return Config{
		WaveSize:             3,
		WaveTimeout:          20 * time.Second,
		MaxWaves:             3,
		CandidateRadiusKm:    5,
		CandidateRadiusMaxKm: 15,
		FareWeights:          DefaultWeights(),
	}
}

// Orchestrator owns the dispatch lifecycle. All cross-order state is
// either in storage (authoritative) or in the presence/zone/eta
// registries, each independently locked (spec §5: "no global mutable
// state beyond the three registries... and the clock").
type Orchestrator struct {
	cfg       Config
	repo      storage.Repository
	zones     *zone.Engine
	presence  *presence.Registry
	predictor predictor.Model
	eta       *etacache.Cache
	transport *transport.Hub
	bus       *eventbus.Bus
	clock     clock.Clock
	geography *geography.Resolver

	wavesMu sync.Mutex
	waves   map[uuid.UUID]*waveState
}

// SetGeography attaches a city/country resolver used to stamp the
// analytics snapshot fields on new orders (spec supplement, see
// internal/geography). Optional: a nil resolver leaves PickupCity and
// PickupCountry blank.
func (o *Orchestrator) SetGeography(r *geography.Resolver) {
	o.geography = r
}

// New constructs an Orchestrator. bus may be nil (events are then
// skipped, matching the teacher's nil-bus no-op pattern).
func New(cfg Config, repo storage.Repository, zones *zone.Engine, pres *presence.Registry, pred predictor.Model, eta *etacache.Cache, tp *transport.Hub, bus *eventbus.Bus, clk clock.Clock) *Orchestrator {
	if clk == nil {
		clk = clock.Real{}
	}
	return &Orchestrator{
		cfg:       cfg,
		repo:      repo,
		zones:     zones,
		presence:  pres,
		predictor: pred,
		eta:       eta,
		transport: tp,
		bus:       bus,
		clock:     clk,
		waves:     make(map[uuid.UUID]*waveState),
	}
}

// publishEvent mirrors the teacher's fire-and-forget event publication:
// failures are logged, never propagated to the caller (spec §4.1
// "Failure semantics... failure to record a... dispatch log is
// non-fatal").
func (o *Orchestrator) publishEvent(subject, eventType string, data interface{}) {
	if o.bus == nil {
		return
	}
	go func() {
		evt, err := eventbus.NewEvent(eventType, "dispatch-core", data)
		if err != nil {
			logger.Warn("failed to build dispatch event", zap.String("type", eventType), zap.Error(err))
			return
		}
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := o.bus.Publish(ctx, subject, evt); err != nil {
			logger.Warn("failed to publish dispatch event", zap.String("type", eventType), zap.Error(err))
		}
	}()
}

// SubmitRideRequest is the spec §6 POST /rides body.
type SubmitRideRequest struct {
	PassengerID    uuid.UUID
	PassengerName  string
	PassengerPhone string
	Pickup         storage.Address
	Destination    *storage.Address
	PaymentType    storage.PaymentKind
}

// SubmitRideResult is the spec §6 POST /rides 200 response.
type SubmitRideResult struct {
	Order       *storage.Order
	OfferedTo   []uuid.UUID
	BatchNumber int
	Message     string
}

// SubmitRide implements the spec §4.1 SubmitRide operation: admits the
// request through the zone engine, persists the order, and launches its
// wave manager. A zone that is full but queueable does not block this
// call — it returns QUEUED(position) immediately and finishes admission
// in the background (see completeQueuedRide).
func (o *Orchestrator) SubmitRide(ctx context.Context, req SubmitRideRequest) (*SubmitRideResult, error) {
	ctx, span := tracing.StartSpan(ctx, "dispatch", "SubmitRide")
	defer span.End()

	if req.PassengerID == uuid.Nil || req.Pickup.Lat == 0 && req.Pickup.Lng == 0 {
		return nil, common.NewErrorWithCode(400, common.ErrCodeMissingFields, "passengerId and pickup are required", nil)
	}

	passenger, err := o.repo.GetPassenger(ctx, req.PassengerID)
	if err == nil && passenger != nil && passenger.IsBlocked {
		return nil, common.NewPassengerBlockedError("passenger is blocked")
	}

	now := o.clock.Now()
	z := o.zones.Resolve(req.Pickup.Lat, req.Pickup.Lng)

	var surge float64 = 1.0
	var zoneID *uuid.UUID
	if z != nil {
		admission, ticket, err := o.zones.Admit(ctx, z, now)
		if err != nil {
			switch {
			case isZoneFull(err):
				return nil, common.NewZoneFullError(err.Error())
			default:
				tracing.RecordError(ctx, err)
				return nil, common.NewInternalServerError("zone admission failed")
			}
		}
		if ticket != nil {
			go o.completeQueuedRide(req, z, ticket)
			return nil, common.NewQueuedError(
				fmt.Sprintf("zone %s is full; queued at position %d", z.Name, ticket.Position))
		}
		surge = admission.SurgeMultiplier
		id := admission.ZoneID
		zoneID = &id
	}

	order, candidates, err := o.createOrder(ctx, req, now, surge, zoneID)
	if err != nil {
		return nil, err
	}

	ws := o.startWave(order, 1, candidates)

	offered := make([]uuid.UUID, 0, len(candidates))
	for _, c := range candidates {
		offered = append(offered, c.DriverID)
	}

	go o.runWaves(context.Background(), order, ws)

	return &SubmitRideResult{Order: order, OfferedTo: offered, BatchNumber: order.BatchNumber, Message: "offers sent"}, nil
}

// createOrder persists the OFFERED order and scores its first wave's
// candidates. Shared by the immediately-admitted path and, once a queued
// ticket resolves, completeQueuedRide.
func (o *Orchestrator) createOrder(ctx context.Context, req SubmitRideRequest, now time.Time, surge float64, zoneID *uuid.UUID) (*storage.Order, []candidate, error) {
	fare := EstimateFare(ctx, o.eta, req.Pickup, req.Destination, now.Hour(), surge, now)

	var pickupCity, pickupCountry string
	if o.geography != nil {
		if resolved := o.geography.Resolve(req.Pickup.Lat, req.Pickup.Lng); resolved.Found {
			pickupCity, pickupCountry = resolved.City, resolved.CountryCode
		}
	}

	order := &storage.Order{
		ID:              clock.NewID(),
		PassengerID:     req.PassengerID,
		Status:          storage.OrderOffered,
		Pickup:          req.Pickup,
		Destination:     req.Destination,
		PaymentType:     req.PaymentType,
		EstimatedFare:   fare,
		CreatedAt:       now,
		OfferedAt:       &now,
		HourOfDay:       now.Hour(),
		DayOfWeek:       int(now.Weekday()),
		SurgeMultiplier: surge,
		PickupCity:      pickupCity,
		PickupCountry:   pickupCountry,
	}
	if err := o.repo.CreateOrder(ctx, order); err != nil {
		tracing.RecordError(ctx, err)
		if zoneID != nil {
			_ = o.zones.Release(ctx, *zoneID, now)
		}
		return nil, nil, common.NewInternalServerError("failed to create order")
	}

	candidates, err := o.selectCandidates(ctx, order, now, o.cfg.CandidateRadiusKm, nil)
	if err != nil {
		tracing.RecordError(ctx, err)
	}
	return order, candidates, nil
}

// completeQueuedRide waits off the request goroutine for a queued
// zone-admission ticket to resolve, then either finishes SubmitRide's
// order-creation/wave-dispatch the ticket was standing in for, or tells
// the passenger their request expired. Per spec §7, QUEUE_TIMEOUT is an
// Exhaustion-class failure and surfaces as order:no_driver on the
// transport same as the wave-exhaustion case, even though no order was
// ever created to attach an id to.
func (o *Orchestrator) completeQueuedRide(req SubmitRideRequest, z *storage.HotZoneConfig, ticket *zone.QueueTicket) {
	outcome := <-ticket.Resolved
	ctx := context.Background()

	if !outcome.Admitted {
		logger.Warn("zone queue timed out", zap.String("zone", z.Name), zap.String("passenger_id", req.PassengerID.String()))
		o.transport.SendNoDriver(req.PassengerID, uuid.Nil)
		return
	}

	admission := outcome.Admission
	now := o.clock.Now()
	id := admission.ZoneID
	order, candidates, err := o.createOrder(ctx, req, now, admission.SurgeMultiplier, &id)
	if err != nil {
		logger.Warn("failed to create order for admitted queue ticket", zap.Error(err))
		return
	}

	ws := o.startWave(order, 1, candidates)
	o.transport.SendOrderUpdate(req.PassengerID, order)
	o.runWaves(ctx, order, ws)
}

func isZoneFull(err error) bool { return errorsIs(err, zone.ErrZoneFull) }

func errorsIs(err, target error) bool {
	for err != nil {
		if err == target {
			return true
		}
		u, ok := err.(interface{ Unwrap() error })
		if !ok {
			return false
		}
		err = u.Unwrap()
	}
	return false
}

// candidate is an internally-scored driver used during wave construction.
type candidate struct {
	DriverID          uuid.UUID
	Score             float64
	PickupDistanceM   float64
	PredictedETASec   int
	RejectProbability float64
}

// todayEarnings returns a driver's earnings so far today, treating a
// stale (not-today) TodayEarningsDate as zero without mutating the
// driver record — the reset itself only happens on the next completed
// trip (incrementDriverStats).
func todayEarnings(d *storage.Driver, now time.Time) float64 {
	if d.TodayEarningsDate != now.Format("2006-01-02") {
		return 0
	}
	return d.TodayEarnings
}

// eligible is a candidate driver scored on every feature except the
// earnings balance, which needs the fleet-wide today-earnings average
// computed across the whole set before it can be normalized.
type eligible struct {
	driver      *storage.Driver
	pickupDistM float64
	etaSec      int
	rejectProb  float64
	zonePref    float64
	earnings    float64
}

// selectCandidates implements spec §4.1 "Candidate selection": scores
// every fresh AVAILABLE driver within radiusKm and returns the top
// cfg.WaveSize, excluding any driver id in exclude.
func (o *Orchestrator) selectCandidates(ctx context.Context, order *storage.Order, now time.Time, radiusKm float64, exclude map[uuid.UUID]bool) ([]candidate, error) {
	entries := o.presence.QueryAvailable(order.Pickup.Lat, order.Pickup.Lng, radiusKm, now)

	zoneName := "OTHER"
	if z := o.zones.Resolve(order.Pickup.Lat, order.Pickup.Lng); z != nil {
		zoneName = z.Name
	}

	pool := make([]eligible, 0, len(entries))
	for _, e := range entries {
		if exclude[e.DriverID] {
			continue
		}
		if e.CurrentOrderID != nil {
			continue
		}
		driver, err := o.repo.GetDriver(ctx, e.DriverID)
		if err != nil || driver == nil || driver.IsBlocked {
			continue
		}

		pickupDistM := geo.Haversine(order.Pickup.Lat, order.Pickup.Lng, e.Point.Lat, e.Point.Lng) * 1000

		etaSec := 0
		if res, err := o.eta.Get(ctx, e.Point.Lat, e.Point.Lng, order.Pickup.Lat, order.Pickup.Lng, now.Hour(), now); err == nil {
			etaSec = res.DurationSeconds
		}

		pattern, _ := o.repo.GetDriverPattern(ctx, e.DriverID)
		tripDistM := 0.0
		if order.Destination != nil {
			tripDistM = geo.Haversine(order.Pickup.Lat, order.Pickup.Lng, order.Destination.Lat, order.Destination.Lng) * 1000
		}

		earnings := todayEarnings(driver, now)
		rejectProb := o.predictor.Predict(pattern, predictor.Features{
			Hour:            now.Hour(),
			PickupDistanceM: pickupDistM,
			TripDistanceM:   tripDistM,
			Zone:            zoneName,
			TodayEarnings:   earnings,
		})

		zonePref := 0.5
		if pattern != nil {
			if v, ok := pattern.ZoneAcceptance[zoneName]; ok {
				zonePref = v
			}
		}

		pool = append(pool, eligible{
			driver:      driver,
			pickupDistM: pickupDistM,
			etaSec:      etaSec,
			rejectProb:  rejectProb,
			zonePref:    zonePref,
			earnings:    earnings,
		})
	}

	fleetAvg := 0.0
	if len(pool) > 0 {
		sum := 0.0
		for _, c := range pool {
			sum += c.earnings
		}
		fleetAvg = sum / float64(len(pool))
	}

	scored := make([]candidate, 0, len(pool))
	for _, c := range pool {
		balance := fleetAvg - c.earnings
		score := o.scoreCandidate(c.pickupDistM, float64(c.etaSec), c.rejectProb, balance, c.zonePref, c.driver.RatingAvg)
		scored = append(scored, candidate{
			DriverID:          c.driver.ID,
			Score:             score,
			PickupDistanceM:   c.pickupDistM,
			PredictedETASec:   c.etaSec,
			RejectProbability: c.rejectProb,
		})
	}

	driverRatings := make(map[uuid.UUID]float64, len(pool))
	for _, c := range pool {
		driverRatings[c.driver.ID] = c.driver.RatingAvg
	}

	sortCandidates(scored, driverRatings)

	if len(scored) > o.cfg.WaveSize {
		scored = scored[:o.cfg.WaveSize]
	}
	return scored, nil
}

// scoreCandidate implements the spec §4.1 weighted-sum feature table.
// Distance/ETA/reject-probability are "lower better" so they are
// inverted via 1/(1+x); earnings/zone/rating are "higher better".
// earningsBalance (fleet-avg-today minus driver-today) is scaled by a
// nominal 100-currency-unit day before normalizing to [0,1], the same
// unit-conversion role pickupDistM/1000 and etaSec/60 play above.
func (o *Orchestrator) scoreCandidate(pickupDistM, etaSec, rejectProb, earningsBalance, zonePref, rating float64) float64 {
	w := o.cfg.FareWeights
	return w.PickupDistance*invert(pickupDistM/1000) +
		w.PredictedETA*invert(etaSec/60) +
		w.RejectProbability*invert(rejectProb*10) +
		w.EarningsBalance*normalize(earningsBalance/100) +
		w.ZonePreference*zonePref +
		w.Rating*(rating/5)
}

func invert(x float64) float64 {
	if x < 0 {
		x = 0
	}
	return 1 / (1 + x)
}

func normalize(x float64) float64 {
	if x < 0 {
		return 0
	}
	if x > 1 {
		return 1
	}
	return x
}

// sortCandidates orders by score desc, ties broken on rating desc then
// lower driver id (spec §4.1: "Ties break on rating, then on lower id").
func sortCandidates(cands []candidate, ratings map[uuid.UUID]float64) {
	for i := 1; i < len(cands); i++ {
		for j := i; j > 0; j-- {
			a, b := cands[j-1], cands[j]
			if less(a, b, ratings) {
				break
			}
			cands[j-1], cands[j] = cands[j], cands[j-1]
		}
	}
}

func less(a, b candidate, ratings map[uuid.UUID]float64) bool {
	if a.Score != b.Score {
		return a.Score > b.Score
	}
	if ratings[a.DriverID] != ratings[b.DriverID] {
		return ratings[a.DriverID] > ratings[b.DriverID]
	}
	return a.DriverID.String() < b.DriverID.String()
}
