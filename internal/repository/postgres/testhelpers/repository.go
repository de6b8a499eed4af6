package testhelpers

import (
	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"

	"github.com/marchon-locator/internal/domain/repository"
	"github.com/marchon-locator/internal/repository/postgres"
)

// NewFeatureRepositoryForTest creates a feature repository with test database and logger
func NewFeatureRepositoryForTest(db *sqlx.DB, logger *zap.Logger) repository.FeatureRepository {
	return postgres.NewFeatureRepository(postgres.NewDBForTest(db, logger))
}
