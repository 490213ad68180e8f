package dispatch

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/ridefleet/dispatch-core/internal/storage"
	"github.com/ridefleet/dispatch-core/internal/transport"
	"github.com/ridefleet/dispatch-core/pkg/common"
	"github.com/ridefleet/dispatch-core/pkg/eventbus"
	"github.com/ridefleet/dispatch-core/pkg/logger"
	"go.uber.org/zap"
)

// waveState tracks one in-flight offer wave for an order. A wave ends
// when any one of three signals fires (spec §4.1 "Offer waves"): an
// acceptance, every candidate explicitly rejecting, or the deadline.
type waveState struct {
	orderID    uuid.UUID
	waveNumber int
	mu         sync.Mutex
	candidates map[uuid.UUID]bool // candidate -> still pending (true) or rejected (false); guarded by mu
	deadline   time.Time
	acceptCh   chan uuid.UUID // buffered 1; first accepted driver wins
	rejectCh   chan uuid.UUID
}

// isCandidate reports whether driverID is still a pending candidate in
// this wave. AcceptOffer and RejectOffer both reach candidates from
// separate gin-handler goroutines, so access goes through mu.
func (ws *waveState) isCandidate(driverID uuid.UUID) bool {
	ws.mu.Lock()
	defer ws.mu.Unlock()
	return ws.candidates[driverID]
}

// reject marks driverID as no longer pending.
func (ws *waveState) reject(driverID uuid.UUID) {
	ws.mu.Lock()
	ws.candidates[driverID] = false
	ws.mu.Unlock()
}

// snapshotCandidates returns a copy of the candidate set, safe to range
// over without holding mu for the duration.
func (ws *waveState) snapshotCandidates() map[uuid.UUID]bool {
	ws.mu.Lock()
	defer ws.mu.Unlock()
	out := make(map[uuid.UUID]bool, len(ws.candidates))
	for k, v := range ws.candidates {
		out[k] = v
	}
	return out
}

// startWave registers a new waveState for order and records it as the
// order's single active wave (spec §5: "the orchestrator serializes all
// mutations of a given order through a per-order critical section" —
// here, through the waves map's mutex).
func (o *Orchestrator) startWave(order *storage.Order, waveNumber int, cands []candidate) *waveState {
	ws := &waveState{
		orderID:    order.ID,
		waveNumber: waveNumber,
		candidates: make(map[uuid.UUID]bool, len(cands)),
		deadline:   o.clock.Now().Add(o.cfg.WaveTimeout),
		acceptCh:   make(chan uuid.UUID, 1),
		rejectCh:   make(chan uuid.UUID, len(cands)),
	}
	for _, c := range cands {
		ws.candidates[c.DriverID] = true
	}

	o.wavesMu.Lock()
	o.waves[order.ID] = ws
	o.wavesMu.Unlock()

	logCandidates := make([]storage.DispatchLogCandidate, len(cands))
	for i, c := range cands {
		logCandidates[i] = storage.DispatchLogCandidate{
			DriverID:          c.DriverID,
			Score:             c.Score,
			PredictedETASec:   c.PredictedETASec,
			RejectProbability: c.RejectProbability,
		}
	}
	if err := o.repo.AppendDispatchLog(context.Background(), &storage.DispatchLog{
		ID:             uuid.New(),
		OrderID:        order.ID,
		WaveNumber:     waveNumber,
		Timestamp:      ws.deadline.Add(-o.cfg.WaveTimeout),
		Candidates:     logCandidates,
		WeightSnapshot: o.cfg.FareWeights.AsMap(),
	}); err != nil {
		logger.Warn("failed to append dispatch log", zap.Error(err))
	}

	for _, c := range cands {
		o.transport.SendOffer(c.DriverID, transport.OfferCandidate{
			Order:           order,
			WaveNumber:      waveNumber,
			WaveDeadline:    ws.deadline,
			EstimatedFare:   order.EstimatedFare,
			SurgeMultiplier: order.SurgeMultiplier,
			PredictedETA:    c.PredictedETASec,
		})
		o.publishEvent(eventbus.SubjectOrderOffered, "order.offered", eventbus.OrderOfferedData{
			OrderID: order.ID, PassengerID: order.PassengerID, DriverID: c.DriverID,
			WaveNumber: waveNumber, Score: c.Score, OfferedAt: o.clock.Now(),
		})
	}

	return ws
}

// runWaves drives an order through successive offer waves until one
// accepts, waves are exhausted, or the order is cancelled out from under
// it (spec §4.1 "If the wave ends without an acceptance... launches the
// next wave. Up to max_waves").
func (o *Orchestrator) runWaves(ctx context.Context, order *storage.Order, ws *waveState) {
	rejected := map[uuid.UUID]bool{}
	wave := ws
	waveNumber := wave.waveNumber
	radius := o.cfg.CandidateRadiusKm

	for {
		winner, outcome := o.waitForWave(wave)
		o.clearWave(order.ID)

		if outcome == outcomeAccepted {
			o.onWaveAccepted(ctx, order, wave, winner)
			return
		}

		for d := range wave.snapshotCandidates() {
			rejected[d] = true
		}

		current, err := o.repo.GetOrder(ctx, order.ID)
		if err != nil || current == nil || current.Status != storage.OrderOffered {
			return // cancelled or already moved on
		}

		if waveNumber >= o.cfg.MaxWaves {
			o.onNoDriver(ctx, current)
			return
		}

		waveNumber++
		if radius < o.cfg.CandidateRadiusMaxKm {
			radius *= 2
			if radius > o.cfg.CandidateRadiusMaxKm {
				radius = o.cfg.CandidateRadiusMaxKm
			}
		}

		cands, _ := o.selectCandidates(ctx, current, o.clock.Now(), radius, rejected)
		if len(cands) == 0 {
			if waveNumber >= o.cfg.MaxWaves {
				o.onNoDriver(ctx, current)
				return
			}
			continue
		}
		wave = o.startWave(current, waveNumber, cands)
	}
}

type waveOutcome int

const (
	outcomeAccepted waveOutcome = iota
	outcomeRejectedAll
	outcomeTimedOut
)

// waitForWave is the select-style rendezvous spec §9's design notes call
// for: a single task per wave racing an acceptance channel, a
// rejection-count channel, and a deadline timer.
func (o *Orchestrator) waitForWave(ws *waveState) (uuid.UUID, waveOutcome) {
	timer := time.NewTimer(time.Until(ws.deadline))
	defer timer.Stop()

	rejectedCount := 0
	total := len(ws.snapshotCandidates())

	for {
		select {
		case winner := <-ws.acceptCh:
			return winner, outcomeAccepted
		case <-ws.rejectCh:
			rejectedCount++
			if rejectedCount >= total {
				return uuid.Nil, outcomeRejectedAll
			}
		case <-timer.C:
			return uuid.Nil, outcomeTimedOut
		}
	}
}

func (o *Orchestrator) clearWave(orderID uuid.UUID) {
	o.wavesMu.Lock()
	delete(o.waves, orderID)
	o.wavesMu.Unlock()
}

func (o *Orchestrator) getWave(orderID uuid.UUID) *waveState {
	o.wavesMu.Lock()
	defer o.wavesMu.Unlock()
	return o.waves[orderID]
}

func (o *Orchestrator) onWaveAccepted(ctx context.Context, order *storage.Order, ws *waveState, winner uuid.UUID) {
	for d := range ws.snapshotCandidates() {
		if d == winner {
			continue
		}
		o.transport.SendOrderCancelled(d, order.ID, "taken")
	}

	o.presence.AssignOrder(winner, &order.ID)
	if err := o.presence.SetStatus(winner, storage.AvailabilityOnTrip, o.clock.Now()); err != nil {
		logger.Warn("presence status transition refused on accept", zap.Error(err))
	}

	updated, _ := o.repo.GetOrder(ctx, order.ID)
	if updated != nil {
		o.transport.SendOrderUpdate(order.PassengerID, updated)
		o.transport.BroadcastOrderUpdate(order.ID, updated)
	}

	o.publishEvent(eventbus.SubjectOrderAccepted, "order.accepted", eventbus.OrderAcceptedData{
		OrderID: order.ID, PassengerID: order.PassengerID, DriverID: winner, WaveNumber: ws.waveNumber, AcceptedAt: o.clock.Now(),
	})
}

func (o *Orchestrator) onNoDriver(ctx context.Context, order *storage.Order) {
	now := o.clock.Now()
	reason := "no_driver"
	_, err := o.repo.UpdateOrderStatus(ctx, order.ID, storage.OrderOffered, storage.OrderCancelled, func(ord *storage.Order) {
		ord.CancelledAt = &now
		ord.CancelReason = reason
	})
	if err != nil {
		logger.Warn("failed to persist no_driver cancellation", zap.Error(err))
	}

	o.releaseZoneReserve(ctx, order)

	o.transport.SendNoDriver(order.PassengerID, order.ID)
	o.publishEvent(eventbus.SubjectOrderNoDriver, "order.no_driver", eventbus.OrderNoDriverData{
		OrderID: order.ID, PassengerID: order.PassengerID, WavesTried: o.cfg.MaxWaves, ExhaustedAt: now,
	})
}

// AcceptOffer implements spec §4.1 AcceptOffer: wins the acceptance race
// through storage's compare-and-set, then signals the wave's select loop.
// A second call from the driver that already won is idempotent (spec §8
// "AcceptOffer is idempotent for the winning driver on the same order").
func (o *Orchestrator) AcceptOffer(ctx context.Context, orderID, driverID uuid.UUID) error {
	if existing, err := o.repo.GetOrder(ctx, orderID); err == nil && existing != nil {
		if existing.DriverID != nil && *existing.DriverID == driverID && existing.Status != storage.OrderOffered {
			return nil
		}
	}

	ws := o.getWave(orderID)
	if ws == nil {
		return common.NewStaleOfferError("no active wave for this order")
	}
	if !ws.isCandidate(driverID) {
		return common.NewStaleOfferError("driver is not a candidate in the current wave")
	}

	accepted, err := o.repo.AtomicAcceptOffer(ctx, orderID, driverID, o.clock.Now())
	if err != nil {
		return common.NewInternalServerError("failed to accept offer")
	}
	if !accepted {
		return common.NewAlreadyTakenError("order was already accepted or moved on")
	}

	select {
	case ws.acceptCh <- driverID:
	default:
	}
	return nil
}

// RejectOffer implements spec §4.1 RejectOffer: records the rejection
// and signals the wave, but does not itself decide whether the wave
// ends — that is the select loop's job.
func (o *Orchestrator) RejectOffer(ctx context.Context, orderID, driverID uuid.UUID, reason storage.RejectionReason) error {
	ws := o.getWave(orderID)
	if ws != nil {
		ws.reject(driverID)
		select {
		case ws.rejectCh <- driverID:
		default:
		}
	}

	now := o.clock.Now()
	if err := o.repo.AppendRejection(ctx, &storage.RejectionRecord{
		ID: uuid.New(), OrderID: orderID, DriverID: driverID, Reason: reason,
		OfferedAt: now, RejectedAt: now,
	}); err != nil {
		logger.Warn("failed to append rejection record", zap.Error(err))
	}

	o.publishEvent(eventbus.SubjectOrderRejected, "order.rejected", eventbus.OrderRejectedData{
		OrderID: orderID, DriverID: driverID, Reason: string(reason), RejectedAt: now,
	})
	return nil
}

// releaseZoneReserve gives back the reserved quota slot an order holds
// while it has not yet been accepted (spec §4.5 "a queued or offered
// request that never becomes ACCEPTED must release its reservation").
func (o *Orchestrator) releaseZoneReserve(ctx context.Context, order *storage.Order) {
	z := o.zones.Resolve(order.Pickup.Lat, order.Pickup.Lng)
	if z == nil {
		return
	}
	if err := o.zones.Release(ctx, z.ID, order.CreatedAt); err != nil {
		logger.Warn("failed to release zone reserve", zap.Error(err))
	}
}
