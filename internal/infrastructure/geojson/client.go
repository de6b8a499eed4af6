// Package geojson loads published feature collections over HTTP.
package geojson

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/marchon-locator/internal/config"
	"github.com/marchon-locator/internal/domain"
	"github.com/marchon-locator/internal/pkg/errors"
)

// максимальный размер файла набора данных
const maxBodySize = 32 << 20

// Client читает <base_url>/<dataset>.json
type Client struct {
	httpClient *http.Client
	baseURL    string
	logger     *zap.Logger
}

func NewClient(cfg *config.FeaturesConfig, logger *zap.Logger) *Client {
	timeout := cfg.RequestTimeout
	if timeout == 0 {
		timeout = 15 * time.Second
	}
	return &Client{
		httpClient: &http.Client{Timeout: timeout},
		baseURL:    cfg.BaseURL,
		logger:     logger,
	}
}

// Fetch возвращает сырой GeoJSON набора данных
func (c *Client) Fetch(ctx context.Context, dataset string) ([]byte, error) {
	url := fmt.Sprintf("%s/%s.json", c.baseURL, dataset)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Error("Failed to fetch dataset", zap.String("url", url), zap.Error(err))
		return nil, errors.ErrUpstreamError.WithDetails(map[string]interface{}{"dataset": dataset})
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound || resp.StatusCode == http.StatusForbidden:
		// S3 отдаёт 403 на отсутствующий ключ в публичном бакете
		return nil, errors.ErrDatasetNotFound.WithDetails(map[string]interface{}{"dataset": dataset})
	case resp.StatusCode != http.StatusOK:
		c.logger.Error("Dataset origin returned error",
			zap.String("url", url),
			zap.Int("status_code", resp.StatusCode))
		return nil, errors.ErrUpstreamError.WithDetails(map[string]interface{}{
			"dataset": dataset,
			"status":  resp.StatusCode,
		})
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return nil, fmt.Errorf("failed to read dataset body: %w", err)
	}
	return data, nil
}

// LoadFeatures скачивает и разбирает набор данных
func (c *Client) LoadFeatures(ctx context.Context, dataset string) (*domain.FeatureSet, error) {
	data, err := c.Fetch(ctx, dataset)
	if err != nil {
		return nil, err
	}

	features, skipped, err := domain.DecodeFeatureCollection(data)
	if err != nil {
		c.logger.Error("Failed to decode dataset", zap.String("dataset", dataset), zap.Error(err))
		return nil, errors.ErrUpstreamError.WithMessage("Dataset is not a valid GeoJSON FeatureCollection")
	}

	c.logger.Info("Dataset loaded",
		zap.String("dataset", dataset),
		zap.Int("features", len(features)),
		zap.Int("skipped", skipped))

	return &domain.FeatureSet{
		Dataset:  dataset,
		Features: features,
		Skipped:  skipped,
		LoadedAt: time.Now().UTC(),
	}, nil
}
