package router

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/baechuer/craft-marketplace/services/recs-service/internal/application/analytics"
	"github.com/baechuer/craft-marketplace/services/recs-service/internal/application/recs"
	"github.com/baechuer/craft-marketplace/services/recs-service/internal/config"
	"github.com/baechuer/craft-marketplace/services/recs-service/internal/domain"
	"github.com/baechuer/craft-marketplace/services/recs-service/internal/transport/http/handlers"
	authmw "github.com/baechuer/craft-marketplace/services/recs-service/internal/transport/http/middleware"
)

const (
	testSecret = "test-secret"
	testIssuer = "craft-marketplace"
)

type fixedClock struct{ t time.Time }

func (f fixedClock) Now() time.Time { return f.t }

type memActivity struct {
	events   []domain.ActivityEvent
	inserted []*domain.ActivityEvent
}

func (m *memActivity) RecentByUser(context.Context, string, time.Time) ([]domain.ActivityEvent, error) {
	return m.events, nil
}

func (m *memActivity) Insert(_ context.Context, e *domain.ActivityEvent) error {
	m.inserted = append(m.inserted, e)
	return nil
}

func (m *memActivity) CountViewsByProduct(context.Context, []string, time.Time) (map[string]int, error) {
	return map[string]int{}, nil
}

type memCatalog struct{ products []domain.Product }

func (m *memCatalog) ListAll(context.Context) ([]domain.Product, error) { return m.products, nil }
func (m *memCatalog) ListBySeller(context.Context, string) ([]domain.Product, error) {
	return m.products, nil
}

func newTestRouter(t *testing.T, act *memActivity, cat *memCatalog) http.Handler {
	t.Helper()
	clock := fixedClock{t: time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)}
	cfg := &config.Config{JWTSecret: testSecret, JWTIssuer: testIssuer, RLEnabled: false}

	recSvc := recs.New(act, cat, nil, clock, 0, 0)
	anSvc := analytics.New(cat, act, clock, 0)

	return New(
		handlers.NewRecommendationsHandler(recSvc),
		handlers.NewTrackHandler(act, clock),
		handlers.NewAnalyticsHandler(anSvc),
		authmw.NewAuth(cfg.JWTSecret, cfg.JWTIssuer),
		handlers.NewHealthHandler(),
		cfg,
	)
}

func bearer(t *testing.T, uid, role string) string {
	t.Helper()
	claims := &authmw.Claims{
		UserID: uid,
		Role:   role,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    testIssuer,
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}
	tok, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testSecret))
	require.NoError(t, err)
	return "Bearer " + tok
}

func TestRouterHealthzIsPublic(t *testing.T) {
	r := newTestRouter(t, &memActivity{}, &memCatalog{})

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"data":{"status":"ok"}}`, rec.Body.String())
}

func TestRouterMetricsIsPublic(t *testing.T) {
	r := newTestRouter(t, &memActivity{}, &memCatalog{})

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "go_goroutines")
}

func TestRouterAPIRequiresAuth(t *testing.T) {
	r := newTestRouter(t, &memActivity{}, &memCatalog{})

	for _, tc := range []struct{ method, path string }{
		{http.MethodGet, "/recs/v1/recommendations"},
		{http.MethodPost, "/recs/v1/track"},
		{http.MethodGet, "/recs/v1/sellers/s1/analytics"},
	} {
		t.Run(tc.path, func(t *testing.T) {
			rec := httptest.NewRecorder()
			r.ServeHTTP(rec, httptest.NewRequest(tc.method, tc.path, nil))
			assert.Equal(t, http.StatusUnauthorized, rec.Code)
		})
	}
}

func TestRouterRecommendationsEndToEnd(t *testing.T) {
	act := &memActivity{events: []domain.ActivityEvent{{
		ID: "ev1", UserID: "u1", Type: domain.ActivityView, ProductID: "A",
	}}}
	cat := &memCatalog{products: []domain.Product{
		{ID: "A", Title: "Clay Pot", Category: "pottery"},
		{ID: "B", Title: "Ceramic Jar", Category: "pottery"},
	}}
	r := newTestRouter(t, act, cat)

	req := httptest.NewRequest(http.MethodGet, "/recs/v1/recommendations", nil)
	req.Header.Set("Authorization", bearer(t, "u1", "user"))
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.NotEmpty(t, rec.Header().Get("X-Request-Id"))

	var env struct {
		Data struct {
			Products []struct {
				ID string `json:"id"`
			} `json:"products"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	require.Len(t, env.Data.Products, 1)
	assert.Equal(t, "B", env.Data.Products[0].ID)
}

func TestRouterTrackEndToEnd(t *testing.T) {
	act := &memActivity{}
	r := newTestRouter(t, act, &memCatalog{})

	req := httptest.NewRequest(http.MethodPost, "/recs/v1/track",
		strings.NewReader(`{"activity_type":"search","query":"pottery"}`))
	req.Header.Set("Authorization", bearer(t, "u1", "user"))
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusAccepted, rec.Code)
	require.Len(t, act.inserted, 1)
	assert.Equal(t, "u1", act.inserted[0].UserID)
}

func TestRouterAnalyticsForbiddenForOtherUsers(t *testing.T) {
	r := newTestRouter(t, &memActivity{}, &memCatalog{})

	req := httptest.NewRequest(http.MethodGet, "/recs/v1/sellers/s1/analytics", nil)
	req.Header.Set("Authorization", bearer(t, "u2", "user"))
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusForbidden, rec.Code)
}
