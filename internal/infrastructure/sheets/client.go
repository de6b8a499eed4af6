package sheets

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

	"github.com/marchon-locator/internal/config"
	"github.com/marchon-locator/internal/domain"
	"github.com/marchon-locator/internal/domain/repository"
)

type client struct {
	httpClient *http.Client
	baseURL    string
	apiKey     string
	sheetID    string
	layout     Layout
	logger     *zap.Logger
}

type valuesResponse struct {
	Range  string     `json:"range"`
	Values [][]string `json:"values"`
}

// NewClient создает клиент Google Sheets API v4 для чтения листа с событиями
func NewClient(cfg *config.SheetsConfig, logger *zap.Logger) (repository.EventFeedRepository, error) {
	layout, ok := LookupLayout(cfg.Layout)
	if !ok {
		return nil, fmt.Errorf("unknown sheet layout %q, expected one of %v", cfg.Layout, LayoutNames())
	}
	if cfg.Range != "" {
		layout.Range = cfg.Range
	}
	timeout := cfg.RequestTimeout
	if timeout == 0 {
		timeout = 30 * time.Second
	}

	return &client{
		httpClient: &http.Client{Timeout: timeout},
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		apiKey:     cfg.APIKey,
		sheetID:    cfg.SheetID,
		layout:     layout,
		logger:     logger,
	}, nil
}

func (c *client) Name() string {
	return "sheets:" + c.layout.Name
}

// Owns - всё, что не пришло из Action Network
func (c *client) Owns(f domain.GeoFeature) bool {
	return f.Properties.Source != domain.SourceActionNetwork
}

// FetchRows читает лист, первая строка - заголовок
func (c *client) FetchRows(ctx context.Context) (map[string]domain.SourceRow, error) {
	values, err := c.fetchValues(ctx)
	if err != nil {
		return nil, err
	}

	rows := make(map[string]domain.SourceRow)
	skipped := 0
	for i, cells := range values {
		if i == 0 {
			continue
		}
		row, ok := c.layout.Row(cells)
		if !ok {
			skipped++
			c.logger.Debug("Skipping sheet row without location", zap.Int("row", i+1))
			continue
		}
		rows[row.Key] = row
	}

	c.logger.Info("Sheet rows loaded",
		zap.String("layout", c.layout.Name),
		zap.Int("rows", len(rows)),
		zap.Int("skipped", skipped))
	return rows, nil
}

func (c *client) fetchValues(ctx context.Context) ([][]string, error) {
	if c.sheetID == "" {
		return nil, fmt.Errorf("sheet id is not configured")
	}

	endpoint := fmt.Sprintf("%s/spreadsheets/%s/values/%s?key=%s",
		c.baseURL,
		url.PathEscape(c.sheetID),
		url.PathEscape(c.layout.Range),
		url.QueryEscape(c.apiKey))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Error("Failed to execute request", zap.String("range", c.layout.Range), zap.Error(err))
		return nil, fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		c.logger.Error("Sheets API returned error",
			zap.Int("status_code", resp.StatusCode),
			zap.String("range", c.layout.Range))
		return nil, fmt.Errorf("sheets API error: status %d, body: %s", resp.StatusCode, string(body))
	}

	var out valuesResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}
	return out.Values, nil
}
