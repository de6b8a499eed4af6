package postgres

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"go.uber.org/zap"

	"github.com/marchon-locator/internal/domain"
	"github.com/marchon-locator/internal/domain/repository"
	"github.com/marchon-locator/internal/pkg/errors"
)

type featureRepository struct {
	db     *sqlx.DB
	logger *zap.Logger
}

type featureRow struct {
	Key        string    `db:"key"`
	Lon        float64   `db:"lon"`
	Lat        float64   `db:"lat"`
	Properties []byte    `db:"properties"`
	UpdatedAt  time.Time `db:"updated_at"`
}

func NewFeatureRepository(db *DB) repository.FeatureRepository {
	return &featureRepository{
		db:     db.DB,
		logger: db.logger,
	}
}

// LoadFeatures читает набор целиком в порядке вставки
func (r *featureRepository) LoadFeatures(ctx context.Context, dataset string) (*domain.FeatureSet, error) {
	query := `
		SELECT key, lon, lat, properties, updated_at
		FROM features
		WHERE dataset = $1
		ORDER BY id
	`

	var rows []featureRow
	if err := r.db.SelectContext(ctx, &rows, query, dataset); err != nil {
		r.logger.Error("Failed to load features", zap.String("dataset", dataset), zap.Error(err))
		return nil, errors.ErrDatabaseError
	}
	if len(rows) == 0 {
		return nil, errors.ErrDatasetNotFound
	}

	set := &domain.FeatureSet{
		Dataset:  dataset,
		Features: make([]domain.GeoFeature, 0, len(rows)),
	}
	for _, row := range rows {
		props := make(map[string]interface{})
		if err := json.Unmarshal(row.Properties, &props); err != nil {
			r.logger.Warn("Failed to unmarshal properties, skipping",
				zap.String("dataset", dataset),
				zap.String("key", row.Key),
				zap.Error(err))
			set.Skipped++
			continue
		}

		f := domain.NewGeoFeature(row.Lon, row.Lat, props)
		f.Key = row.Key
		set.Features = append(set.Features, f)

		if row.UpdatedAt.After(set.LoadedAt) {
			set.LoadedAt = row.UpdatedAt
		}
	}

	r.logger.Debug("Features loaded",
		zap.String("dataset", dataset),
		zap.Int("count", len(set.Features)),
		zap.Int("skipped", set.Skipped))
	return set, nil
}

// UpsertFeatures пишет все фичи одной транзакцией
func (r *featureRepository) UpsertFeatures(ctx context.Context, dataset string, features []domain.GeoFeature) error {
	if len(features) == 0 {
		return nil
	}

	query := `
		INSERT INTO features (dataset, key, lon, lat, properties, updated_at)
		VALUES ($1, $2, $3, $4, $5, now())
		ON CONFLICT (dataset, key) DO UPDATE SET
			lon = EXCLUDED.lon,
			lat = EXCLUDED.lat,
			properties = EXCLUDED.properties,
			updated_at = now()
		WHERE features.lon IS DISTINCT FROM EXCLUDED.lon
		   OR features.lat IS DISTINCT FROM EXCLUDED.lat
		   OR features.properties IS DISTINCT FROM EXCLUDED.properties
	`

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		r.logger.Error("Failed to begin transaction", zap.Error(err))
		return errors.ErrDatabaseError
	}
	defer func() { _ = tx.Rollback() }()

	stmt, err := tx.PreparexContext(ctx, query)
	if err != nil {
		r.logger.Error("Failed to prepare upsert", zap.Error(err))
		return errors.ErrDatabaseError
	}
	defer stmt.Close()

	for _, f := range features {
		props, err := json.Marshal(f.Properties.Map())
		if err != nil {
			return fmt.Errorf("marshal properties of %q: %w", f.Key, err)
		}
		if _, err := stmt.ExecContext(ctx, dataset, f.Key, f.Coordinates.Lon, f.Coordinates.Lat, props); err != nil {
			r.logger.Error("Failed to upsert feature",
				zap.String("dataset", dataset),
				zap.String("key", f.Key),
				zap.Error(err))
			return errors.ErrDatabaseError
		}
	}

	if err := tx.Commit(); err != nil {
		r.logger.Error("Failed to commit upsert", zap.Error(err))
		return errors.ErrDatabaseError
	}

	r.logger.Info("Features upserted",
		zap.String("dataset", dataset),
		zap.Int("count", len(features)))
	return nil
}

// DeleteExcept удаляет фичи-сироты: ключи, которых больше нет в источнике
func (r *featureRepository) DeleteExcept(ctx context.Context, dataset string, keep []string) (int64, error) {
	query := `DELETE FROM features WHERE dataset = $1 AND NOT (key = ANY($2::text[]))`

	if keep == nil {
		keep = []string{}
	}
	res, err := r.db.ExecContext(ctx, query, dataset, pq.Array(keep))
	if err != nil {
		r.logger.Error("Failed to delete orphans", zap.String("dataset", dataset), zap.Error(err))
		return 0, errors.ErrDatabaseError
	}

	n, _ := res.RowsAffected()
	if n > 0 {
		r.logger.Info("Orphan features deleted",
			zap.String("dataset", dataset),
			zap.Int64("count", n))
	}
	return n, nil
}

func (r *featureRepository) ListDatasets(ctx context.Context) ([]string, error) {
	var datasets []string
	if err := r.db.SelectContext(ctx, &datasets, `SELECT DISTINCT dataset FROM features ORDER BY dataset`); err != nil {
		r.logger.Error("Failed to list datasets", zap.Error(err))
		return nil, errors.ErrDatabaseError
	}
	return datasets, nil
}
