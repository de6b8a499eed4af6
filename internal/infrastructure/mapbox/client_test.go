package mapbox

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/marchon-locator/internal/config"
	"github.com/marchon-locator/internal/domain"
)

func testConfig(baseURL string) *config.MapboxConfig {
	return &config.MapboxConfig{
		AccessToken:    "test_token",
		BaseURL:        baseURL,
		RateLimit:      1000,
		MinRelevance:   0.75,
		RequestTimeout: 5 * time.Second,
	}
}

func TestClient_ForwardGeocode(t *testing.T) {
	logger := zap.NewNop()

	t.Run("successful request", func(t *testing.T) {
		var gotPath, gotCountry, gotLimit, gotToken string
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			gotPath = r.URL.Path
			gotCountry = r.URL.Query().Get("country")
			gotLimit = r.URL.Query().Get("limit")
			gotToken = r.URL.Query().Get("access_token")

			w.Header().Set("Content-Type", "application/json")
			fmt.Fprint(w, `{"features":[{"relevance":0.99,
				"place_name":"92646, Huntington Beach, California, United States",
				"center":[-117.96,33.66],
				"geometry":{"type":"Point","coordinates":[-117.96,33.66]}}]}`)
		}))
		defer server.Close()

		client := NewMapboxClient(testConfig(server.URL), logger)

		res, err := client.ForwardGeocode(context.Background(), "92646", []string{"us", "ca"})
		require.NoError(t, err)
		assert.Equal(t, "/geocoding/v5/mapbox.places/92646.json", gotPath)
		assert.Equal(t, "us,ca", gotCountry)
		assert.Equal(t, "1", gotLimit)
		assert.Equal(t, "test_token", gotToken)

		assert.Equal(t, -117.96, res.Lon)
		assert.Equal(t, 33.66, res.Lat)
		assert.Equal(t, "Huntington Beach, California", res.PlaceName)
		assert.Equal(t, 0.99, res.Relevance)
	})

	t.Run("california rewrite", func(t *testing.T) {
		var gotPath string
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			gotPath = r.URL.Path
			fmt.Fprint(w, `{"features":[{"relevance":0.9,"place_name":"San Jose, California, United States","center":[-121.89,37.33]}]}`)
		}))
		defer server.Close()

		client := NewMapboxClient(testConfig(server.URL), logger)
		res, err := client.ForwardGeocode(context.Background(), "San Jose, CA", nil)
		require.NoError(t, err)
		assert.Equal(t, "/geocoding/v5/mapbox.places/San Jose, California.json", gotPath)
		assert.Equal(t, -121.89, res.Lon)
		assert.Equal(t, "San Jose, California", res.PlaceName)
	})

	t.Run("low relevance", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			fmt.Fprint(w, `{"features":[{"relevance":0.5,"center":[1,2]}]}`)
		}))
		defer server.Close()

		client := NewMapboxClient(testConfig(server.URL), logger)
		_, err := client.ForwardGeocode(context.Background(), "Nowhere", nil)
		assert.ErrorIs(t, err, domain.ErrNoGeocodeMatch)
	})

	t.Run("no features", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			fmt.Fprint(w, `{"features":[]}`)
		}))
		defer server.Close()

		client := NewMapboxClient(testConfig(server.URL), logger)
		_, err := client.ForwardGeocode(context.Background(), "Atlantis", nil)
		assert.ErrorIs(t, err, domain.ErrNoGeocodeMatch)
	})

	t.Run("empty query", func(t *testing.T) {
		client := NewMapboxClient(testConfig("http://127.0.0.1:1"), logger)
		_, err := client.ForwardGeocode(context.Background(), "  ", nil)
		assert.ErrorIs(t, err, domain.ErrNoGeocodeMatch)
	})

	t.Run("server error", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusUnauthorized)
			fmt.Fprint(w, `{"message":"Not Authorized - Invalid Token"}`)
		}))
		defer server.Close()

		client := NewMapboxClient(testConfig(server.URL), logger)
		_, err := client.ForwardGeocode(context.Background(), "10025", nil)
		require.Error(t, err)
		assert.NotErrorIs(t, err, domain.ErrNoGeocodeMatch)
		assert.Contains(t, err.Error(), "401")
	})

	t.Run("cancelled context", func(t *testing.T) {
		cfg := testConfig("http://127.0.0.1:1")
		cfg.RateLimit = 0.001
		client := NewMapboxClient(cfg, logger)

		// первый токен уходит сразу, второй ждать ~1000с
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		_, _ = client.ForwardGeocode(context.Background(), "x", nil)
		_, err := client.ForwardGeocode(ctx, "y", nil)
		assert.Error(t, err)
	})
}

func TestNormalizeQuery(t *testing.T) {
	assert.Equal(t, "San Jose, California", NormalizeQuery(" San Jose, CA "))
	assert.Equal(t, "Des Moines, IA 50312", NormalizeQuery("Des Moines, IA 50312"))
}

func TestCleanPlaceName(t *testing.T) {
	assert.Equal(t, "Huntington Beach, California",
		CleanPlaceName("92646, Huntington Beach, California, United States", "92646"))
	assert.Equal(t, "Toronto, Ontario, Canada", CleanPlaceName("Toronto, Ontario, Canada", "M5V"))
}
