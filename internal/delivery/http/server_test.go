package http_test

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	nethttp "net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/marchon-locator/internal/calendar"
	"github.com/marchon-locator/internal/config"
	deliveryhttp "github.com/marchon-locator/internal/delivery/http"
	"github.com/marchon-locator/internal/delivery/http/handler"
	"github.com/marchon-locator/internal/domain"
	"github.com/marchon-locator/internal/layers"
	apperrors "github.com/marchon-locator/internal/pkg/errors"
	"github.com/marchon-locator/internal/pkg/metrics"
	"github.com/marchon-locator/internal/usecase"
)

// staticSource отдаёт заранее собранные наборы
type staticSource map[string]*domain.FeatureSet

func (s staticSource) LoadFeatures(_ context.Context, dataset string) (*domain.FeatureSet, error) {
	set, ok := s[dataset]
	if !ok {
		return nil, apperrors.ErrDatasetNotFound
	}
	return set, nil
}

type failingCheck struct{}

func (failingCheck) Health(context.Context) error { return errors.New("connection refused") }

func newFeature(key string, lon, lat float64, props map[string]interface{}) domain.GeoFeature {
	f := domain.NewGeoFeature(lon, lat, props)
	f.Key = key
	return f
}

func newTestServer(t *testing.T, checks map[string]handler.HealthChecker) *deliveryhttp.Server {
	t.Helper()
	logger := zap.NewNop()
	m := metrics.New()

	source := staticSource{
		"events": {
			Dataset: "events",
			Features: []domain.GeoFeature{
				newFeature("New York, NY", -74.006, 40.7128, map[string]interface{}{
					"location": "New York, NY", "source": "events", "event": "NYC March", "eventDate": "8/1/2020",
					"contactEmail": "ny@example.org",
				}),
				newFeature("Washington, DC", -77.0369, 38.9072, map[string]interface{}{
					"location": "Washington, DC", "event": "DC March", "eventDate": "7/20/2020",
				}),
				newFeature("19103::Jane", -75.17, 39.95, map[string]interface{}{
					"location": "19103", "source": "actionnetwork", "eventDate": "6/1/2020",
				}),
			},
			LoadedAt: time.Date(2020, 7, 1, 0, 0, 0, 0, time.UTC),
		},
	}

	cal := usecase.CalendarSettings{
		Clock:         calendar.FixedClock(time.Date(2020, 7, 10, 12, 0, 0, 0, time.UTC)),
		GraceDays:     1,
		DisplayCutoff: time.Date(2019, 1, 1, 0, 0, 0, 0, time.UTC),
	}
	catalogue := layers.Default()

	featureUC := usecase.NewFeatureSetUseCase(source, nil, []string{"events"}, "events", time.Minute, m, logger)
	eventUC := usecase.NewEventUseCase(featureUC, catalogue, cal, logger)

	cfg := &config.Config{Server: config.ServerConfig{Host: "127.0.0.1", Port: 0, CORSOrigins: "*"}}
	return deliveryhttp.NewServer(cfg, logger, m, deliveryhttp.Handlers{
		Health:  handler.NewHealthHandler(featureUC, checks, logger),
		Feature: handler.NewFeatureHandler(featureUC, eventUC, logger),
		Nearest: handler.NewNearestHandler(usecase.NewNearestUseCase(featureUC, catalogue, cal, m, logger), logger),
		Event:   handler.NewEventHandler(eventUC, logger),
		Layer:   handler.NewLayerHandler(usecase.NewLayerUseCase(featureUC, catalogue, cal, logger), logger),
	})
}

type envelope struct {
	Data  json.RawMessage `json:"data"`
	Meta  map[string]any  `json:"meta"`
	Error *struct {
		Code    string         `json:"code"`
		Message string         `json:"message"`
		Details map[string]any `json:"details"`
	} `json:"error"`
}

func do(t *testing.T, s *deliveryhttp.Server, req *nethttp.Request) (*nethttp.Response, []byte) {
	t.Helper()
	resp, err := s.App().Test(req, -1)
	require.NoError(t, err)
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	_ = resp.Body.Close()
	return resp, body
}

func decode(t *testing.T, body []byte) envelope {
	t.Helper()
	var env envelope
	require.NoError(t, json.Unmarshal(body, &env), string(body))
	return env
}

func TestServer_Nearest(t *testing.T) {
	s := newTestServer(t, nil)

	t.Run("GET", func(t *testing.T) {
		resp, body := do(t, s, httptest.NewRequest(nethttp.MethodGet, "/api/v1/nearest?lat=39.9526&lon=-75.1652", nil))
		require.Equal(t, nethttp.StatusOK, resp.StatusCode, string(body))

		var data struct {
			Nearest struct {
				Feature struct {
					Key string `json:"key"`
				} `json:"feature"`
				DistanceKm float64 `json:"distance_km"`
			} `json:"nearest"`
		}
		require.NoError(t, json.Unmarshal(decode(t, body).Data, &data))
		assert.Equal(t, "19103::Jane", data.Nearest.Feature.Key)
	})

	t.Run("POST with excluded sources", func(t *testing.T) {
		req := httptest.NewRequest(nethttp.MethodPost, "/api/v1/nearest",
			strings.NewReader(`{"lat":39.9526,"lon":-75.1652,"exclude_sources":["actionnetwork"],"limit":2}`))
		req.Header.Set("Content-Type", "application/json")

		resp, body := do(t, s, req)
		require.Equal(t, nethttp.StatusOK, resp.StatusCode, string(body))

		var data struct {
			Nearest struct {
				Feature struct {
					Key string `json:"key"`
				} `json:"feature"`
			} `json:"nearest"`
			Ranked []json.RawMessage `json:"ranked"`
		}
		require.NoError(t, json.Unmarshal(decode(t, body).Data, &data))
		assert.Equal(t, "New York, NY", data.Nearest.Feature.Key)
		assert.Len(t, data.Ranked, 2)
	})

	t.Run("invalid coordinates", func(t *testing.T) {
		resp, body := do(t, s, httptest.NewRequest(nethttp.MethodGet, "/api/v1/nearest?lat=95&lon=0", nil))
		assert.Equal(t, nethttp.StatusBadRequest, resp.StatusCode)
		assert.Equal(t, "INVALID_COORDINATES", decode(t, body).Error.Code)

		resp, body = do(t, s, httptest.NewRequest(nethttp.MethodGet, "/api/v1/nearest?lon=0", nil))
		assert.Equal(t, nethttp.StatusBadRequest, resp.StatusCode)
		assert.Equal(t, "INVALID_COORDINATES", decode(t, body).Error.Code)
	})

	t.Run("no candidates", func(t *testing.T) {
		resp, body := do(t, s, httptest.NewRequest(nethttp.MethodGet,
			"/api/v1/nearest?lat=0&lon=0&exclude_sources=events,actionnetwork&require_source=true", nil))
		assert.Equal(t, nethttp.StatusNotFound, resp.StatusCode)
		assert.Equal(t, "FEATURE_NOT_FOUND", decode(t, body).Error.Code)
	})
}

func TestServer_Features(t *testing.T) {
	s := newTestServer(t, nil)

	t.Run("geojson snapshot", func(t *testing.T) {
		resp, body := do(t, s, httptest.NewRequest(nethttp.MethodGet, "/api/v1/features", nil))
		require.Equal(t, nethttp.StatusOK, resp.StatusCode)
		assert.Equal(t, handler.ContentTypeGeoJSON, resp.Header.Get("Content-Type"))

		features, _, err := domain.DecodeFeatureCollection(body)
		require.NoError(t, err)
		assert.Len(t, features, 3)
	})

	t.Run("unknown dataset", func(t *testing.T) {
		resp, body := do(t, s, httptest.NewRequest(nethttp.MethodGet, "/api/v1/features?dataset=affiliates", nil))
		assert.Equal(t, nethttp.StatusNotFound, resp.StatusCode)
		assert.Equal(t, "DATASET_NOT_FOUND", decode(t, body).Error.Code)
	})

	t.Run("invalid dataset name", func(t *testing.T) {
		resp, _ := do(t, s, httptest.NewRequest(nethttp.MethodGet, "/api/v1/features?dataset=../etc", nil))
		assert.Equal(t, nethttp.StatusBadRequest, resp.StatusCode)
	})

	t.Run("feature popup", func(t *testing.T) {
		resp, body := do(t, s, httptest.NewRequest(nethttp.MethodGet, "/api/v1/features/New%20York,%20NY", nil))
		require.Equal(t, nethttp.StatusOK, resp.StatusCode, string(body))

		var data struct {
			Mailto       string `json:"mailto"`
			ExpandedDate struct {
				EventMonth string `json:"eventMonth"`
			} `json:"expandedDate"`
			EventMeta struct {
				Name string `json:"name"`
			} `json:"eventMeta"`
		}
		require.NoError(t, json.Unmarshal(decode(t, body).Data, &data))
		assert.Equal(t, "mailto:ny@example.org", data.Mailto)
		assert.Equal(t, "August", data.ExpandedDate.EventMonth)
		assert.Equal(t, "NYC March", data.EventMeta.Name)
	})

	t.Run("refresh", func(t *testing.T) {
		resp, body := do(t, s, httptest.NewRequest(nethttp.MethodPost, "/api/v1/datasets/events/refresh", nil))
		require.Equal(t, nethttp.StatusOK, resp.StatusCode, string(body))

		resp, _ = do(t, s, httptest.NewRequest(nethttp.MethodPost, "/api/v1/datasets/nope/refresh", nil))
		assert.Equal(t, nethttp.StatusNotFound, resp.StatusCode)
	})
}

func TestServer_Events(t *testing.T) {
	s := newTestServer(t, nil)

	resp, body := do(t, s, httptest.NewRequest(nethttp.MethodGet, "/api/v1/events/upcoming", nil))
	require.Equal(t, nethttp.StatusOK, resp.StatusCode, string(body))

	var upcoming struct {
		Events []domain.EventRecord `json:"events"`
	}
	require.NoError(t, json.Unmarshal(decode(t, body).Data, &upcoming))
	require.Len(t, upcoming.Events, 2)
	assert.Equal(t, "DC March", upcoming.Events[0].Name)
	assert.Equal(t, "2020-07-20", upcoming.Events[0].EventDateISO)

	resp, body = do(t, s, httptest.NewRequest(nethttp.MethodGet, "/api/v1/events/classified?reference=2020-07-25", nil))
	require.Equal(t, nethttp.StatusOK, resp.StatusCode, string(body))
	var classified struct {
		Past   []domain.EventRecord `json:"past"`
		Future []domain.EventRecord `json:"future"`
	}
	require.NoError(t, json.Unmarshal(decode(t, body).Data, &classified))
	assert.Len(t, classified.Past, 2)
	assert.Len(t, classified.Future, 1)

	resp, body = do(t, s, httptest.NewRequest(nethttp.MethodGet, "/api/v1/events/upcoming?reference=07/25/2020", nil))
	assert.Equal(t, nethttp.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "INVALID_REQUEST", decode(t, body).Error.Code)

	resp, _ = do(t, s, httptest.NewRequest(nethttp.MethodGet, "/api/v1/events/upcoming?grace_days=400", nil))
	assert.Equal(t, nethttp.StatusBadRequest, resp.StatusCode)
}

func TestServer_Layers(t *testing.T) {
	s := newTestServer(t, nil)

	resp, body := do(t, s, httptest.NewRequest(nethttp.MethodGet, "/api/v1/layers", nil))
	require.Equal(t, nethttp.StatusOK, resp.StatusCode, string(body))

	var data struct {
		Layers []struct {
			ID    string `json:"layer_id"`
			Count int    `json:"count"`
		} `json:"layers"`
		Visible []string `json:"visible"`
	}
	require.NoError(t, json.Unmarshal(decode(t, body).Data, &data))
	require.NotEmpty(t, data.Layers)
	assert.Equal(t, "marchon-affiliate-false", data.Layers[0].ID)
	assert.NotEmpty(t, data.Visible)

	resp, body = do(t, s, httptest.NewRequest(nethttp.MethodGet, "/api/v1/layers/marchon-family-sep-events/features", nil))
	require.Equal(t, nethttp.StatusOK, resp.StatusCode)
	features, _, err := domain.DecodeFeatureCollection(body)
	require.NoError(t, err)
	require.Len(t, features, 1)
	assert.Equal(t, "Washington, DC", features[0].Key)

	resp, _ = do(t, s, httptest.NewRequest(nethttp.MethodGet, "/api/v1/layers/unknown/features", nil))
	assert.Equal(t, nethttp.StatusNotFound, resp.StatusCode)
}

func TestServer_HealthAndMetrics(t *testing.T) {
	t.Run("healthy", func(t *testing.T) {
		s := newTestServer(t, nil)
		resp, _ := do(t, s, httptest.NewRequest(nethttp.MethodGet, "/api/v1/health", nil))
		assert.Equal(t, nethttp.StatusOK, resp.StatusCode)
	})

	t.Run("failing dependency", func(t *testing.T) {
		s := newTestServer(t, map[string]handler.HealthChecker{"redis": failingCheck{}})
		resp, body := do(t, s, httptest.NewRequest(nethttp.MethodGet, "/api/v1/health", nil))
		assert.Equal(t, nethttp.StatusServiceUnavailable, resp.StatusCode)
		assert.Contains(t, string(body), "connection refused")
	})

	t.Run("metrics", func(t *testing.T) {
		s := newTestServer(t, nil)
		do(t, s, httptest.NewRequest(nethttp.MethodGet, "/api/v1/features", nil))

		resp, body := do(t, s, httptest.NewRequest(nethttp.MethodGet, "/metrics", nil))
		require.Equal(t, nethttp.StatusOK, resp.StatusCode)
		assert.Contains(t, string(body), "marchon_locator_http_requests_total")
		assert.Contains(t, string(body), `route="/api/v1/features"`)
	})
}
