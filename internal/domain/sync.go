package domain

import (
	"time"

	"github.com/google/uuid"
)

// SyncReport - итог синхронизации набора данных с внешним источником
type SyncReport struct {
	RunID      uuid.UUID     `json:"run_id"`
	Dataset    string        `json:"dataset"`
	Fetched    int           `json:"fetched"`
	Geocoded   int           `json:"geocoded"`
	Unmatched  int           `json:"unmatched"`
	Unchanged  int           `json:"unchanged"`
	Updated    int           `json:"updated"`
	Inserted   int           `json:"inserted"`
	Dropped    int           `json:"dropped"`
	Orphans    int           `json:"orphans"`
	Kept       int           `json:"kept"`
	Total      int           `json:"total"`
	StartedAt  time.Time     `json:"started_at"`
	FinishedAt time.Time     `json:"finished_at"`
	Duration   time.Duration `json:"duration"`
}

// RefreshedEvent - событие для стрима по итогам синхронизации
func (r SyncReport) RefreshedEvent() FeatureSetRefreshedEvent {
	return FeatureSetRefreshedEvent{
		RunID:      r.RunID,
		Dataset:    r.Dataset,
		Count:      r.Total,
		Geocoded:   r.Geocoded,
		Orphans:    r.Orphans,
		FinishedAt: r.FinishedAt,
	}
}
