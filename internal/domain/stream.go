package domain

import (
	"time"

	"github.com/google/uuid"
)

// Stream names
const (
	StreamFeaturesRefreshed = "stream:features:refreshed"
)

// FeatureSetRefreshedEvent - публикуется после синхронизации набора данных
type FeatureSetRefreshedEvent struct {
	RunID      uuid.UUID `json:"run_id"`
	Dataset    string    `json:"dataset"`
	Count      int       `json:"count"`
	Geocoded   int       `json:"geocoded"`
	Orphans    int       `json:"orphans"`
	FinishedAt time.Time `json:"finished_at"`
}

// StreamMessage - сообщение из Redis Stream
type StreamMessage struct {
	ID   string
	Data string
}
