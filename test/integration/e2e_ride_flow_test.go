//go:build integration

package integration

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/ridefleet/dispatch-core/internal/storage"
	"github.com/ridefleet/dispatch-core/pkg/models"
)

// TestE2ERideFlow drives a ride end to end through the real HTTP surface:
// submit, accept, advance through every trip state to DONE, then rate the
// driver. Mirrors spec §4.6's happy-path state table.
func TestE2ERideFlow(t *testing.T) {
	h := newTestHarness(t)

	passenger := h.seedPassenger("Amira", "+998901234567")
	driver := h.seedDriver("Bekzod", "+998907654321", "01A777BB", 41.3000, 69.2400)

	riderToken := h.token(passenger.ID, models.RoleRider)
	driverToken := h.token(driver.ID, models.RoleDriver)

	submitBody := map[string]interface{}{
		"passengerId":    passenger.ID,
		"passengerName":  passenger.Name,
		"passengerPhone": passenger.Phone,
		"pickup":         map[string]interface{}{"lat": 41.2995, "lng": 69.2401, "address": "Amir Temur Square"},
		"paymentType":    string(storage.PaymentCash),
	}
	status, resp := h.doRequest(http.MethodPost, "/api/v1/rides", riderToken, submitBody)
	if status != http.StatusOK || !resp.Success {
		t.Fatalf("submit ride: status=%d resp=%+v", status, resp)
	}

	var submitData struct {
		Order     storage.Order `json:"Order"`
		OfferedTo []uuid.UUID   `json:"OfferedTo"`
	}
	if err := json.Unmarshal(resp.Data, &submitData); err != nil {
		t.Fatalf("unmarshal submit response: %v", err)
	}
	if len(submitData.OfferedTo) != 1 || submitData.OfferedTo[0] != driver.ID {
		t.Fatalf("expected the seeded driver to be offered the ride, got %+v", submitData.OfferedTo)
	}
	orderID := submitData.Order.ID

	status, resp = h.doRequest(http.MethodPost, "/api/v1/rides/"+orderID.String()+"/accept", driverToken, nil)
	if status != http.StatusOK || !resp.Success {
		t.Fatalf("accept offer: status=%d resp=%+v", status, resp)
	}

	for _, want := range []storage.OrderStatus{storage.OrderArrived, storage.OrderOnTrip, storage.OrderSettling, storage.OrderDone} {
		advanceBody := map[string]interface{}{}
		if want == storage.OrderDone {
			advanceBody["meterAmount"] = 18500.0
			advanceBody["distance"] = 6200.0
			advanceBody["duration"] = 900
		}
		status, resp = h.doRequest(http.MethodPost, "/api/v1/rides/"+orderID.String()+"/advance", driverToken, advanceBody)
		if status != http.StatusOK || !resp.Success {
			t.Fatalf("advance to %s: status=%d resp=%+v", want, status, resp)
		}

		var advanceData struct {
			Order storage.Order `json:"order"`
		}
		if err := json.Unmarshal(resp.Data, &advanceData); err != nil {
			t.Fatalf("unmarshal advance response: %v", err)
		}
		if advanceData.Order.Status != want {
			t.Fatalf("expected order status %s, got %s", want, advanceData.Order.Status)
		}
	}

	order, err := h.repo.GetOrder(context.Background(), orderID)
	if err != nil || order == nil {
		t.Fatalf("get order after completion: %v", err)
	}
	if order.Status != storage.OrderDone {
		t.Fatalf("expected DONE, got %s", order.Status)
	}
	if order.PickupCity == "" {
		t.Errorf("expected pickup city to be resolved from the seeded city list, got empty")
	}

	ratingBody := map[string]interface{}{"ride_id": orderID, "score": 5, "comment": "great ride"}
	status, resp = h.doRequest(http.MethodPost, "/api/v1/ratings/driver", riderToken, ratingBody)
	if status != http.StatusCreated || !resp.Success {
		t.Fatalf("rate driver: status=%d resp=%+v", status, resp)
	}

	status, resp = h.doRequest(http.MethodGet, "/api/v1/rides/"+orderID.String()+"/cancel/preview", riderToken, nil)
	if status == http.StatusOK {
		t.Fatalf("expected cancellation preview to reject a DONE order, got 200: %+v", resp)
	}
}

// TestE2ERideFlow_DriverRejectsThenSecondDriverAccepts exercises the reject
// path: the first offered driver declines, the wave re-offers to the only
// other available candidate.
func TestE2ERideFlow_DriverRejectsThenSecondDriverAccepts(t *testing.T) {
	h := newTestHarness(t)

	passenger := h.seedPassenger("Dilnoza", "+998901112233")
	first := h.seedDriver("Jasur", "+998904445566", "01B111AA", 41.2996, 69.2402)
	second := h.seedDriver("Shahzod", "+998905556677", "01B222BB", 41.2994, 69.2399)

	riderToken := h.token(passenger.ID, models.RoleRider)
	firstToken := h.token(first.ID, models.RoleDriver)
	secondToken := h.token(second.ID, models.RoleDriver)

	submitBody := map[string]interface{}{
		"passengerId":    passenger.ID,
		"passengerName":  passenger.Name,
		"passengerPhone": passenger.Phone,
		"pickup":         map[string]interface{}{"lat": 41.2995, "lng": 69.2401, "address": "Amir Temur Square"},
		"paymentType":    string(storage.PaymentCash),
	}
	status, resp := h.doRequest(http.MethodPost, "/api/v1/rides", riderToken, submitBody)
	if status != http.StatusOK || !resp.Success {
		t.Fatalf("submit ride: status=%d resp=%+v", status, resp)
	}
	var submitData struct {
		Order     storage.Order `json:"Order"`
		OfferedTo []uuid.UUID   `json:"OfferedTo"`
	}
	if err := json.Unmarshal(resp.Data, &submitData); err != nil {
		t.Fatalf("unmarshal submit response: %v", err)
	}
	orderID := submitData.Order.ID
	if len(submitData.OfferedTo) != 1 {
		t.Fatalf("expected exactly one candidate in the first wave, got %+v", submitData.OfferedTo)
	}

	var rejectingToken, acceptingToken string
	if submitData.OfferedTo[0] == first.ID {
		rejectingToken, acceptingToken = firstToken, secondToken
	} else {
		rejectingToken, acceptingToken = secondToken, firstToken
	}

	status, resp = h.doRequest(http.MethodPost, "/api/v1/rides/"+orderID.String()+"/reject", rejectingToken,
		map[string]interface{}{"reason": string(storage.RejectOther)})
	if status != http.StatusOK || !resp.Success {
		t.Fatalf("reject offer: status=%d resp=%+v", status, resp)
	}

	// The second wave is dispatched asynchronously off the rejection signal,
	// so give it a brief window to add the remaining driver as a candidate
	// before accepting.
	deadline := time.Now().Add(2 * time.Second)
	for {
		status, resp = h.doRequest(http.MethodPost, "/api/v1/rides/"+orderID.String()+"/accept", acceptingToken, nil)
		if status == http.StatusOK && resp.Success {
			break
		}
		if time.Now().After(deadline) {
			t.Fatalf("second driver never became an acceptable candidate: status=%d resp=%+v", status, resp)
		}
		time.Sleep(20 * time.Millisecond)
	}
}
