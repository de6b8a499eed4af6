package actionnetwork

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/marchon-locator/internal/config"
	"github.com/marchon-locator/internal/domain"
	"github.com/marchon-locator/internal/domain/repository"
)

// защита от бесконечной пагинации
const maxPages = 200

type client struct {
	httpClient *http.Client
	baseURL    string
	apiKey     string
	campaignID string
	logger     *zap.Logger
}

type eventsPage struct {
	TotalPages int `json:"total_pages"`
	Page       int `json:"page"`
	Embedded   struct {
		Events []Event `json:"osdi:events"`
	} `json:"_embedded"`
}

// NewClient создает клиент Action Network (OSDI API v2)
func NewClient(cfg *config.ActionNetworkConfig, logger *zap.Logger) repository.EventFeedRepository {
	timeout := cfg.RequestTimeout
	if timeout == 0 {
		timeout = 30 * time.Second
	}
	return &client{
		httpClient: &http.Client{Timeout: timeout},
		baseURL:    cfg.BaseURL,
		apiKey:     cfg.APIKey,
		campaignID: cfg.EventsCampaignID,
		logger:     logger,
	}
}

func (c *client) Name() string {
	return "actionnetwork"
}

// Owns - события Action Network помечены source=actionnetwork
func (c *client) Owns(f domain.GeoFeature) bool {
	return f.Properties.Source == domain.SourceActionNetwork
}

// FetchRows обходит все страницы событий кампании
func (c *client) FetchRows(ctx context.Context) (map[string]domain.SourceRow, error) {
	if c.campaignID == "" {
		return nil, fmt.Errorf("action network events campaign id is not configured")
	}

	rows := make(map[string]domain.SourceRow)
	for page := 1; page <= maxPages; page++ {
		resp, err := c.fetchPage(ctx, page)
		if err != nil {
			return nil, err
		}

		for _, e := range resp.Embedded.Events {
			row := ConvertEvent(e)
			rows[row.Key] = row
		}

		c.logger.Debug("Action Network page fetched",
			zap.Int("page", page),
			zap.Int("total_pages", resp.TotalPages),
			zap.Int("events", len(resp.Embedded.Events)))

		if resp.TotalPages <= page {
			break
		}
	}

	c.logger.Info("Action Network events loaded", zap.Int("count", len(rows)))
	return rows, nil
}

func (c *client) fetchPage(ctx context.Context, page int) (*eventsPage, error) {
	url := fmt.Sprintf("%s/event_campaigns/%s/events?page=%d", c.baseURL, c.campaignID, page)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("OSDI-API-Token", c.apiKey)
	req.Header.Set("Accept", "application/hal+json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Error("Failed to execute request", zap.Int("page", page), zap.Error(err))
		return nil, fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		c.logger.Error("Action Network API returned error",
			zap.Int("status_code", resp.StatusCode),
			zap.Int("page", page))
		return nil, fmt.Errorf("action network API error: status %d, body: %s", resp.StatusCode, string(body))
	}

	var out eventsPage
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}
	return &out, nil
}
