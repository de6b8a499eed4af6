package mapbox

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/marchon-locator/internal/config"
	"github.com/marchon-locator/internal/domain"
	"github.com/marchon-locator/internal/domain/repository"
)

type client struct {
	httpClient   *http.Client
	baseURL      string
	accessToken  string
	minRelevance float64
	limiter      *rate.Limiter
	logger       *zap.Logger
}

type geocodeResponse struct {
	Features []struct {
		Relevance float64   `json:"relevance"`
		PlaceName string    `json:"place_name"`
		Center    []float64 `json:"center"`
		Geometry  struct {
			Coordinates []float64 `json:"coordinates"`
		} `json:"geometry"`
	} `json:"features"`
}

// NewMapboxClient создает новый клиент для Mapbox Geocoding API
func NewMapboxClient(cfg *config.MapboxConfig, logger *zap.Logger) repository.GeocoderRepository {
	limit := cfg.RateLimit
	if limit <= 0 {
		limit = 10
	}
	timeout := cfg.RequestTimeout
	if timeout == 0 {
		timeout = 10 * time.Second
	}

	return &client{
		httpClient: &http.Client{
			Timeout: timeout,
		},
		baseURL:      strings.TrimRight(cfg.BaseURL, "/"),
		accessToken:  cfg.AccessToken,
		minRelevance: cfg.MinRelevance,
		limiter:      rate.NewLimiter(rate.Limit(limit), 1),
		logger:       logger,
	}
}

// NormalizeQuery - Mapbox не находит "San Jose, CA", штат пишется полностью
func NormalizeQuery(location string) string {
	return strings.ReplaceAll(strings.TrimSpace(location), ", CA", ", California")
}

// CleanPlaceName убирает из place_name сам запрос и страну
// ("92646, Huntington Beach, California, United States" -> "Huntington Beach, California")
func CleanPlaceName(placeName, query string) string {
	placeName = strings.ReplaceAll(placeName, query+", ", "")
	return strings.ReplaceAll(placeName, ", United States", "")
}

// ForwardGeocode возвращает лучший результат прямого геокодирования
func (c *client) ForwardGeocode(ctx context.Context, query string, countries []string) (*domain.GeocodeResult, error) {
	location := NormalizeQuery(query)
	if location == "" {
		return nil, domain.ErrNoGeocodeMatch
	}

	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limiter: %w", err)
	}

	params := url.Values{}
	params.Set("access_token", c.accessToken)
	params.Set("limit", "1")
	if len(countries) > 0 {
		params.Set("country", strings.Join(countries, ","))
	}
	endpoint := fmt.Sprintf("%s/geocoding/v5/mapbox.places/%s.json?%s",
		c.baseURL,
		url.PathEscape(location),
		params.Encode(),
	)

	c.logger.Debug("Calling Mapbox Geocoding API", zap.String("query", location))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Error("Failed to execute request", zap.Error(err))
		return nil, fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		c.logger.Error("Mapbox API returned error",
			zap.Int("status_code", resp.StatusCode),
			zap.String("body", string(body)))
		return nil, fmt.Errorf("mapbox API error: status %d, body: %s", resp.StatusCode, string(body))
	}

	var geo geocodeResponse
	if err := json.NewDecoder(resp.Body).Decode(&geo); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	if len(geo.Features) == 0 {
		c.logger.Warn("No geocoding results", zap.String("query", location))
		return nil, domain.ErrNoGeocodeMatch
	}

	best := geo.Features[0]
	if best.Relevance < c.minRelevance {
		c.logger.Warn("Geocoding result below relevance threshold",
			zap.String("query", location),
			zap.Float64("relevance", best.Relevance))
		return nil, domain.ErrNoGeocodeMatch
	}

	coords := best.Geometry.Coordinates
	if len(coords) < 2 {
		coords = best.Center
	}
	if len(coords) < 2 {
		return nil, domain.ErrNoGeocodeMatch
	}

	return &domain.GeocodeResult{
		Lon:       coords[0],
		Lat:       coords[1],
		PlaceName: CleanPlaceName(best.PlaceName, location),
		Relevance: best.Relevance,
	}, nil
}
