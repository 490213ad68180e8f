//go:build integration

package integration

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/ridefleet/dispatch-core/internal/cancellation"
	"github.com/ridefleet/dispatch-core/internal/dispatch"
	"github.com/ridefleet/dispatch-core/internal/etacache"
	"github.com/ridefleet/dispatch-core/internal/geography"
	"github.com/ridefleet/dispatch-core/internal/predictor"
	"github.com/ridefleet/dispatch-core/internal/presence"
	"github.com/ridefleet/dispatch-core/internal/ratings"
	"github.com/ridefleet/dispatch-core/internal/storage"
	"github.com/ridefleet/dispatch-core/internal/transport"
	"github.com/ridefleet/dispatch-core/internal/zone"
	"github.com/ridefleet/dispatch-core/pkg/jwtkeys"
	"github.com/ridefleet/dispatch-core/pkg/middleware"
	"github.com/ridefleet/dispatch-core/pkg/models"
	ws "github.com/ridefleet/dispatch-core/pkg/websocket"
	"github.com/ridefleet/dispatch-core/test/helpers"
)

// testSeedCities mirrors cmd/dispatch/main.go's static city list so order
// pickup-city resolution is exercised the same way in these tests.
var testSeedCities = []geography.City{
	{Name: "Tashkent", CountryCode: "UZ", Lat: 41.2995, Lng: 69.2401},
	{Name: "Samarkand", CountryCode: "UZ", Lat: 39.6542, Lng: 66.9597},
	{Name: "Bukhara", CountryCode: "UZ", Lat: 39.7747, Lng: 64.4286},
}

// testHarness stands in for the missing multi-service test scaffolding the
// original integration suite assumed (a services map, a shared doRequest,
// a registerAndLogin helper against a real auth service). There is one
// binary here, dispatch-core, so the harness wires its router the same way
// cmd/dispatch/main.go does and mints tokens directly rather than going
// through a login endpoint.
type testHarness struct {
	t        *testing.T
	server   *httptest.Server
	repo     storage.Repository
	presence *presence.Registry
	jwt      *jwtkeys.Manager
}

func newTestHarness(t *testing.T) *testHarness {
	t.Helper()

	pool := helpers.SetupTestDatabase(t)
	helpers.ResetTables(t, pool,
		"rating_responses", "ratings", "order_ratings",
		"hot_zone_quotas", "hot_zones", "driver_patterns",
		"order_rejections", "dispatch_logs", "eta_cache",
		"orders", "passengers", "drivers",
	)

	repo := storage.NewPostgres(pool)

	jwtMgr, err := jwtkeys.NewManager(context.Background(), jwtkeys.Config{})
	if err != nil {
		t.Fatalf("jwt manager: %v", err)
	}

	zones := zone.NewEngine(repo)
	if err := zones.Refresh(context.Background()); err != nil {
		t.Fatalf("zone refresh: %v", err)
	}

	pres := presence.New(presence.DefaultConfig(), nil)
	t.Cleanup(pres.Stop)

	hub := ws.NewHub()
	go hub.Run()
	tp := transport.New(hub)

	eta := etacache.New(repo)

	dispatchCfg := dispatch.Config{
		WaveSize:             1,
		WaveTimeout:          300 * time.Millisecond,
		MaxWaves:             2,
		CandidateRadiusKm:    5,
		CandidateRadiusMaxKm: 15,
		FareWeights:          dispatch.DefaultWeights(),
	}
	orch := dispatch.New(dispatchCfg, repo, zones, pres, predictor.NewModel(), eta, tp, nil, nil)
	orch.SetGeography(geography.New(testSeedCities))
	handler := dispatch.NewHandler(orch)

	ratingsRepo := ratings.NewRepository(pool)
	ratingsHandler := ratings.NewHandler(ratings.NewService(ratingsRepo), repo)

	cancellationHandler := cancellation.NewHandler(cancellation.NewService(repo))

	gin.SetMode(gin.TestMode)
	router := gin.New()
	handler.RegisterRoutes(router, jwtMgr)
	ratingsHandler.RegisterRoutes(router, jwtMgr)
	cancellationHandler.RegisterRoutes(router, jwtMgr)

	srv := httptest.NewServer(router)
	t.Cleanup(srv.Close)

	return &testHarness{t: t, server: srv, repo: repo, presence: pres, jwt: jwtMgr}
}

// token mints a JWT the same shape middleware.AuthMiddlewareWithProvider
// expects, signed with the harness's own in-memory key manager.
func (h *testHarness) token(userID uuid.UUID, role models.UserRole) string {
	h.t.Helper()
	key, err := h.jwt.CurrentSigningKey()
	if err != nil {
		h.t.Fatalf("signing key: %v", err)
	}
	secret, err := key.SecretBytes()
	if err != nil {
		h.t.Fatalf("secret bytes: %v", err)
	}
	claims := middleware.Claims{
		UserID: userID,
		Email:  userID.String() + "@example.test",
		Role:   role,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}
	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tok.Header["kid"] = key.ID
	signed, err := tok.SignedString(secret)
	if err != nil {
		h.t.Fatalf("sign token: %v", err)
	}
	return signed
}

type apiResponse struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   *struct {
		Message string `json:"message"`
	} `json:"error"`
}

func (h *testHarness) doRequest(method, path, token string, body interface{}) (int, apiResponse) {
	h.t.Helper()

	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			h.t.Fatalf("marshal request body: %v", err)
		}
		reader = bytes.NewReader(raw)
	}

	req, err := http.NewRequest(method, h.server.URL+path, reader)
	if err != nil {
		h.t.Fatalf("new request: %v", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		h.t.Fatalf("do request: %v", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		h.t.Fatalf("read response body: %v", err)
	}

	var parsed apiResponse
	if len(raw) > 0 {
		_ = json.Unmarshal(raw, &parsed)
	}
	return resp.StatusCode, parsed
}

func (h *testHarness) seedPassenger(name, phone string) *storage.Passenger {
	h.t.Helper()
	p := &storage.Passenger{
		ID: uuid.New(), Name: name, Phone: phone,
		Rating: 5.0, CreatedAt: time.Now(),
	}
	if err := h.repo.UpsertPassenger(context.Background(), p); err != nil {
		h.t.Fatalf("seed passenger: %v", err)
	}
	return p
}

func (h *testHarness) seedDriver(name, phone, plate string, lat, lng float64) *storage.Driver {
	h.t.Helper()
	d := &storage.Driver{
		ID: uuid.New(), DisplayName: name, Phone: phone, Plate: plate,
		Availability: storage.AvailabilityAvailable, RatingAvg: 5.0,
		AcceptanceRate: 1.0, CreatedAt: time.Now(), UpdatedAt: time.Now(),
	}
	if err := h.repo.UpsertDriver(context.Background(), d); err != nil {
		h.t.Fatalf("seed driver: %v", err)
	}
	now := time.Now()
	h.presence.SetOnline(d.ID, now)
	h.presence.UpdateLocation(d.ID, storage.Point{Lat: lat, Lng: lng, Timestamp: now}, now)
	return d
}
