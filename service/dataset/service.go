/*
 * @module service/dataset/service
 * @description Owns the active dataset snapshot: loads both source files, persists the
 *              version, swaps the snapshot in atomically and announces the result
 * @architecture Layered - service layer
 * @documentReference DESIGN.md
 * @stateFlow Load: begin version -> read files -> persist rows -> swap snapshot -> purge older versions -> publish event
 *            Start: Load, or on DataUnavailableError restore the latest persisted snapshot
 * @rules Readers never observe a partially built snapshot; loads are serialised;
 *        a SchemaError is never masked by the fallback
 * @dependencies service/dataset (loader, store), service/event, service/monitoring
 * @refs service/scheduler/reload_scheduler.go, api/controllers/dataset_controller.go
 */

package dataset

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"

	"peer-funding-service/service/event"
	"peer-funding-service/service/models"
	"peer-funding-service/service/monitoring"
)

// Sources names the two input files.
type Sources struct {
	DistrictFile string
	CoverageFile string
}

// VersionPurger drops state derived from superseded dataset versions.
type VersionPurger interface {
	Purge(ctx context.Context, keepVersion string) error
}

// Service holds the active snapshot.
type Service struct {
	loader    *Loader
	store     *Store
	sources   Sources
	metrics   *monitoring.Metrics
	publisher event.Publisher

	purgers []VersionPurger

	current atomic.Pointer[Snapshot]
	loadMu  sync.Mutex
}

// AddPurger registers p to be purged after every snapshot swap. Call before Start.
func (s *Service) AddPurger(p VersionPurger) {
	s.purgers = append(s.purgers, p)
}

func (s *Service) activate(ctx context.Context, snapshot *Snapshot) {
	s.current.Store(snapshot)
	for _, p := range s.purgers {
		if err := p.Purge(ctx, snapshot.VersionID()); err != nil {
			slog.Warn("purge superseded dataset versions", "version", snapshot.VersionID(), "error", err)
		}
	}
}

// NewService wires the dataset service. metrics may be nil; a nil publisher drops events.
func NewService(loader *Loader, store *Store, sources Sources, metrics *monitoring.Metrics, publisher event.Publisher) *Service {
	if publisher == nil {
		publisher = event.NoopPublisher{}
	}
	return &Service{
		loader:    loader,
		store:     store,
		sources:   sources,
		metrics:   metrics,
		publisher: publisher,
	}
}

// Start performs the initial load. When the source files are unavailable the latest
// persisted snapshot is restored instead.
func (s *Service) Start(ctx context.Context) error {
	_, err := s.Load(ctx)
	if err == nil {
		return nil
	}
	if !errors.Is(err, ErrDataUnavailable) {
		return err
	}

	snapshot, restoreErr := s.store.LatestSnapshot(ctx)
	if restoreErr != nil {
		if errors.Is(restoreErr, ErrNoSnapshot) {
			return err
		}
		return fmt.Errorf("%w (restore failed: %v)", err, restoreErr)
	}
	s.activate(ctx, snapshot)
	s.metrics.ObserveLoad(nil, snapshot.DistrictCount(), snapshot.CoverageCount())
	slog.Warn("source files unavailable, serving persisted dataset",
		"error", err, "version", snapshot.VersionID(), "loaded_at", snapshot.LoadedAt())
	return nil
}

// Load reads both source files and makes them the active snapshot.
func (s *Service) Load(ctx context.Context) (*Snapshot, error) {
	s.loadMu.Lock()
	defer s.loadMu.Unlock()

	version, err := s.store.BeginVersion(ctx, s.sources.DistrictFile, s.sources.CoverageFile)
	if err != nil {
		return nil, err
	}

	snapshot, err := s.load(ctx, version)
	if err != nil {
		if recordErr := s.store.RecordFailure(ctx, version, err); recordErr != nil {
			slog.Error("record dataset failure", "version", version.ID, "error", recordErr)
		}
		s.metrics.ObserveLoad(err, 0, 0)
		s.publish(ctx, event.DatasetEvent{
			Type:      event.TypeDatasetLoadFailed,
			VersionID: version.ID,
			Error:     err.Error(),
			LoadedAt:  version.LoadedAt,
		})
		slog.Error("dataset load failed", "version", version.ID, "error", err)
		return nil, err
	}

	s.activate(ctx, snapshot)
	s.metrics.ObserveLoad(nil, snapshot.DistrictCount(), snapshot.CoverageCount())
	s.publish(ctx, event.DatasetEvent{
		Type:         event.TypeDatasetReloaded,
		VersionID:    snapshot.VersionID(),
		Districts:    snapshot.DistrictCount(),
		CoverageRows: snapshot.CoverageCount(),
		LoadedAt:     snapshot.LoadedAt(),
	})
	slog.Info("dataset loaded",
		"version", snapshot.VersionID(),
		"districts", snapshot.DistrictCount(),
		"coverage_rows", snapshot.CoverageCount())
	return snapshot, nil
}

func (s *Service) load(ctx context.Context, version *models.DatasetVersion) (*Snapshot, error) {
	districts, err := s.loader.LoadDistricts(s.sources.DistrictFile)
	if err != nil {
		return nil, err
	}
	coverage, err := s.loader.LoadCoverage(s.sources.CoverageFile)
	if err != nil {
		return nil, err
	}
	if err := s.store.SaveSnapshot(ctx, version, districts, coverage); err != nil {
		return nil, fmt.Errorf("persist dataset: %w", err)
	}
	return NewSnapshot(version.ID, version.LoadedAt, districts, coverage), nil
}

func (s *Service) publish(ctx context.Context, evt event.DatasetEvent) {
	if err := s.publisher.Publish(ctx, evt); err != nil {
		slog.Warn("publish dataset event", "type", evt.Type, "error", err)
	}
}

// Current returns the active snapshot.
func (s *Service) Current() (*Snapshot, error) {
	snapshot := s.current.Load()
	if snapshot == nil {
		return nil, ErrNoSnapshot
	}
	return snapshot, nil
}

// Ready reports whether a snapshot is active.
func (s *Service) Ready(context.Context) error {
	_, err := s.Current()
	return err
}

// Versions lists recent dataset versions, newest first.
func (s *Service) Versions(ctx context.Context, limit int) ([]models.DatasetVersion, error) {
	return s.store.ListVersions(ctx, limit)
}
