package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/marchon-locator/internal/domain"
)

type fileSource struct {
	path string
}

func newFileSource(path string) *fileSource {
	return &fileSource{path: path}
}

// LoadFeatures читает файл целиком при каждом вызове, dataset не важен
func (s *fileSource) LoadFeatures(_ context.Context, dataset string) (*domain.FeatureSet, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		return nil, fmt.Errorf("read features file: %w", err)
	}

	features, skipped, err := domain.DecodeFeatureCollection(data)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", s.path, err)
	}

	return &domain.FeatureSet{
		Dataset:  dataset,
		Features: features,
		Skipped:  skipped,
		LoadedAt: time.Now().UTC(),
	}, nil
}
