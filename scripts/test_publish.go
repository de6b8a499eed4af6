//go:build ignore
// +build ignore

package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

type FeatureSetRefreshedEvent struct {
	RunID      uuid.UUID `json:"run_id"`
	Dataset    string    `json:"dataset"`
	Count      int       `json:"count"`
	Geocoded   int       `json:"geocoded"`
	Orphans    int       `json:"orphans"`
	FinishedAt time.Time `json:"finished_at"`
}

type statsResponse struct {
	Data struct {
		Dataset     string    `json:"dataset"`
		Total       int       `json:"total"`
		LastUpdated time.Time `json:"last_updated"`
	} `json:"data"`
}

func fetchStats(ctx context.Context, apiURL, dataset string) (*statsResponse, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, apiURL+"/api/v1/stats?dataset="+dataset, nil)
	if err != nil {
		return nil, err
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status %d", resp.StatusCode)
	}

	var stats statsResponse
	if err := json.NewDecoder(resp.Body).Decode(&stats); err != nil {
		return nil, err
	}
	return &stats, nil
}

func main() {
	redisAddr := flag.String("redis", "localhost:6379", "Redis address for streams")
	apiURL := flag.String("api", "http://localhost:8080", "Locator API base URL")
	dataset := flag.String("dataset", "events", "Dataset to refresh")
	flag.Parse()

	client := redis.NewClient(&redis.Options{
		Addr: *redisAddr,
	})
	defer client.Close()

	ctx := context.Background()

	// Проверка подключения
	if err := client.Ping(ctx).Err(); err != nil {
		log.Fatalf("Failed to connect to Redis: %v", err)
	}

	before, err := fetchStats(ctx, *apiURL, *dataset)
	if err != nil {
		log.Fatalf("Failed to read stats: %v", err)
	}

	event := FeatureSetRefreshedEvent{
		RunID:      uuid.New(),
		Dataset:    *dataset,
		Count:      before.Data.Total,
		FinishedAt: time.Now().UTC(),
	}

	data, err := json.Marshal(event)
	if err != nil {
		log.Fatalf("Failed to marshal event: %v", err)
	}

	// Публикация в стрим
	result, err := client.XAdd(ctx, &redis.XAddArgs{
		Stream: "stream:features:refreshed",
		Values: map[string]interface{}{
			"data": string(data),
		},
	}).Result()
	if err != nil {
		log.Fatalf("Failed to publish event: %v", err)
	}

	fmt.Printf("✅ Event published successfully!\n")
	fmt.Printf("   Stream: stream:features:refreshed\n")
	fmt.Printf("   Message ID: %s\n", result)
	fmt.Printf("   Run ID: %s\n", event.RunID)
	fmt.Printf("   Dataset: %s (%d features)\n", event.Dataset, event.Count)

	fmt.Printf("\n⏳ Waiting for API snapshot reload...\n")

	timeout := time.After(30 * time.Second)
	ticker := time.NewTicker(1 * time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-timeout:
			fmt.Println("❌ Timeout waiting for snapshot reload")
			return
		case <-ticker.C:
			after, err := fetchStats(ctx, *apiURL, *dataset)
			if err != nil {
				continue
			}
			if after.Data.LastUpdated.After(before.Data.LastUpdated) {
				fmt.Printf("\n✅ Snapshot reloaded!\n")
				prettyJSON, _ := json.MarshalIndent(after.Data, "", "  ")
				fmt.Printf("%s\n", prettyJSON)
				return
			}
		}
	}
}
