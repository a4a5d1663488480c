/*
 * @module service/dataset/store
 * @description Persists dataset versions with their district and coverage rows, and rebuilds
 *              the latest successful version as a Snapshot
 * @architecture Repository - gorm over postgres or sqlite
 * @documentReference DESIGN.md
 * @stateFlow BeginVersion(loading) -> SaveSnapshot(loaded) | RecordFailure(failed) -> prune
 * @rules A version's rows are written in the same transaction that marks it loaded;
 *        only the newest retained versions and the newest loaded version survive a prune
 * @dependencies gorm.io/gorm
 * @refs service/models/dataset.go
 */

package dataset

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"peer-funding-service/service/funding"
	"peer-funding-service/service/meta"
	"peer-funding-service/service/models"

	"gorm.io/gorm"
)

const (
	insertBatchSize = 200

	// DefaultRetainVersions is the number of finished versions kept after a load.
	DefaultRetainVersions = 5
)

// Store is the gorm-backed dataset repository.
type Store struct {
	db     *gorm.DB
	retain int
}

// NewStore creates the store. Call Migrate before first use.
func NewStore(db *gorm.DB) *Store {
	return &Store{db: db, retain: DefaultRetainVersions}
}

// SetRetention sets how many finished versions a load keeps. Values below 1 keep one.
func (s *Store) SetRetention(keep int) {
	if keep < 1 {
		keep = 1
	}
	s.retain = keep
}

// Migrate creates or updates the dataset tables.
func (s *Store) Migrate() error {
	if err := s.db.AutoMigrate(models.AllModels()...); err != nil {
		return fmt.Errorf("migrate dataset tables: %w", err)
	}
	return nil
}

// BeginVersion records a version in loading state and returns it.
func (s *Store) BeginVersion(ctx context.Context, districtFile, coverageFile string) (*models.DatasetVersion, error) {
	version := &models.DatasetVersion{
		DistrictFile: districtFile,
		CoverageFile: coverageFile,
		Status:       models.DatasetStatusLoading,
		LoadedAt:     time.Now(),
	}
	if err := s.db.WithContext(ctx).Create(version).Error; err != nil {
		return nil, fmt.Errorf("create dataset version: %w", err)
	}
	return version, nil
}

// SaveSnapshot writes the rows of a version and marks it loaded.
func (s *Store) SaveSnapshot(ctx context.Context, version *models.DatasetVersion, districts []funding.Row, coverage []models.LegislativeCoverage) error {
	records := make([]models.DistrictRecord, 0, len(districts))
	for i, row := range districts {
		records = append(records, models.DistrictRecord{
			DatasetVersionID: version.ID,
			Position:         i,
			RCDTS:            row.Text(meta.ColumnRCDTS),
			DistrictName:     row.Text(meta.ColumnDistrictName),
			Data:             models.JSONB(row.Clone()),
		})
	}
	coverageRows := make([]models.LegislativeCoverage, 0, len(coverage))
	for i, c := range coverage {
		c.ID = ""
		c.DatasetVersionID = version.ID
		c.Position = i
		coverageRows = append(coverageRows, c)
	}

	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if len(records) > 0 {
			if err := tx.CreateInBatches(records, insertBatchSize).Error; err != nil {
				return fmt.Errorf("insert district records: %w", err)
			}
		}
		if len(coverageRows) > 0 {
			if err := tx.CreateInBatches(coverageRows, insertBatchSize).Error; err != nil {
				return fmt.Errorf("insert coverage rows: %w", err)
			}
		}
		version.DistrictCount = len(records)
		version.CoverageCount = len(coverageRows)
		version.Status = models.DatasetStatusLoaded
		version.ErrorMessage = ""
		err := tx.Model(&models.DatasetVersion{}).Where("id = ?", version.ID).Updates(map[string]interface{}{
			"district_count": version.DistrictCount,
			"coverage_count": version.CoverageCount,
			"status":         version.Status,
			"error_message":  "",
		}).Error
		if err != nil {
			return err
		}
		return prune(tx, s.retain)
	})
}

// RecordFailure marks a version failed with the load error.
func (s *Store) RecordFailure(ctx context.Context, version *models.DatasetVersion, loadErr error) error {
	version.Status = models.DatasetStatusFailed
	version.ErrorMessage = loadErr.Error()
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		err := tx.Model(&models.DatasetVersion{}).Where("id = ?", version.ID).Updates(map[string]interface{}{
			"status":        version.Status,
			"error_message": version.ErrorMessage,
		}).Error
		if err != nil {
			return err
		}
		return prune(tx, s.retain)
	})
}

// Prune deletes finished versions beyond the newest keep, with their rows. The newest
// loaded version is always kept so a restart can restore it; loading versions are untouched.
func (s *Store) Prune(ctx context.Context, keep int) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return prune(tx, keep)
	})
}

func prune(tx *gorm.DB, keep int) error {
	if keep < 1 {
		keep = 1
	}

	var keepIDs []string
	if err := tx.Model(&models.DatasetVersion{}).
		Where("status <> ?", models.DatasetStatusLoading).
		Order("loaded_at DESC").Limit(keep).
		Pluck("id", &keepIDs).Error; err != nil {
		return fmt.Errorf("query retained dataset versions: %w", err)
	}
	var latestLoaded []string
	if err := tx.Model(&models.DatasetVersion{}).
		Where("status = ?", models.DatasetStatusLoaded).
		Order("loaded_at DESC").Limit(1).
		Pluck("id", &latestLoaded).Error; err != nil {
		return fmt.Errorf("query latest loaded dataset version: %w", err)
	}
	keepIDs = append(keepIDs, latestLoaded...)
	if len(keepIDs) == 0 {
		return nil
	}

	var stale []string
	if err := tx.Model(&models.DatasetVersion{}).
		Where("status <> ? AND id NOT IN ?", models.DatasetStatusLoading, keepIDs).
		Pluck("id", &stale).Error; err != nil {
		return fmt.Errorf("query stale dataset versions: %w", err)
	}
	if len(stale) == 0 {
		return nil
	}

	if err := tx.Where("dataset_version_id IN ?", stale).Delete(&models.DistrictRecord{}).Error; err != nil {
		return fmt.Errorf("delete stale district records: %w", err)
	}
	if err := tx.Where("dataset_version_id IN ?", stale).Delete(&models.LegislativeCoverage{}).Error; err != nil {
		return fmt.Errorf("delete stale coverage rows: %w", err)
	}
	if err := tx.Where("id IN ?", stale).Delete(&models.DatasetVersion{}).Error; err != nil {
		return fmt.Errorf("delete stale dataset versions: %w", err)
	}
	slog.Info("pruned dataset versions", "deleted", len(stale), "kept", len(keepIDs))
	return nil
}

// LatestSnapshot rebuilds the most recent loaded version.
func (s *Store) LatestSnapshot(ctx context.Context) (*Snapshot, error) {
	db := s.db.WithContext(ctx)

	var version models.DatasetVersion
	err := db.Where("status = ?", models.DatasetStatusLoaded).Order("loaded_at DESC").First(&version).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNoSnapshot
	}
	if err != nil {
		return nil, fmt.Errorf("query latest dataset version: %w", err)
	}

	var records []models.DistrictRecord
	if err := db.Where("dataset_version_id = ?", version.ID).Order("position").Find(&records).Error; err != nil {
		return nil, fmt.Errorf("query district records: %w", err)
	}
	var coverage []models.LegislativeCoverage
	if err := db.Where("dataset_version_id = ?", version.ID).Order("position").Find(&coverage).Error; err != nil {
		return nil, fmt.Errorf("query coverage rows: %w", err)
	}

	rows := make([]funding.Row, 0, len(records))
	for _, record := range records {
		rows = append(rows, funding.Row(record.Data))
	}
	return NewSnapshot(version.ID, version.LoadedAt, rows, coverage), nil
}

// ListVersions returns the most recent versions first.
func (s *Store) ListVersions(ctx context.Context, limit int) ([]models.DatasetVersion, error) {
	if limit <= 0 {
		limit = 20
	}
	var versions []models.DatasetVersion
	if err := s.db.WithContext(ctx).Order("loaded_at DESC").Limit(limit).Find(&versions).Error; err != nil {
		return nil, fmt.Errorf("list dataset versions: %w", err)
	}
	return versions, nil
}
