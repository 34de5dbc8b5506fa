package services

import (
	"sync"

	"go.uber.org/atomic"

	apperrors "babylog/internal/errors"
	"babylog/internal/models"
	"babylog/internal/providers"
)

// SnapshotPersister is the durable side of the store.
type SnapshotPersister interface {
	LoadFromFile() (*models.Snapshot, bool, error)
	SaveToFile(snapshot *models.Snapshot) error
}

// Migrator upgrades a loaded snapshot in place and returns the names of the
// steps that changed it.
type Migrator func(s *models.Snapshot) []string

type RecordServiceInterface interface {
	Load() ([]string, error)
	List(c models.Collection) ([]models.Record, error)
	Insert(c models.Collection, rec models.Record) (models.Record, error)
	Update(c models.Collection, id int64, patch models.Record) (models.Record, error)
	Delete(c models.Collection, id int64) error
	Export() (*models.ExportDocument, error)
	Import(doc *models.ImportDocument) error
	Revision() uint64
}

// RecordService holds the canonical snapshot. Writers are serialized by
// writeMu and work on a clone that only replaces the current snapshot after
// it has been written to disk. Readers never take a lock.
type RecordService struct {
	persister SnapshotPersister
	migrate   Migrator
	logger    providers.Logger
	metrics   providers.MetricsProviderInterface

	loadOnce sync.Once
	loadErr  error
	applied  []string

	writeMu  sync.Mutex
	current  atomic.Pointer[models.Snapshot]
	revision atomic.Uint64
}

func NewRecordService(persister SnapshotPersister, migrate Migrator, logger providers.Logger, metrics providers.MetricsProviderInterface) *RecordService {
	return &RecordService{
		persister: persister,
		migrate:   migrate,
		logger:    logger,
		metrics:   metrics,
	}
}

// Load reads the snapshot from disk, runs the migrations and writes the
// result back once if the file was missing or a migration changed it. It
// runs at most once; later calls return the first outcome.
func (s *RecordService) Load() ([]string, error) {
	s.loadOnce.Do(func() {
		s.applied, s.loadErr = s.load()
	})
	return s.applied, s.loadErr
}

func (s *RecordService) load() ([]string, error) {
	snapshot, exists, err := s.persister.LoadFromFile()
	if err != nil {
		s.logger.Errorf(providers.TypeApp, "Failed to load snapshot: %v", err)
		return nil, apperrors.Storage(err)
	}

	applied := s.migrate(snapshot)
	if len(applied) > 0 {
		s.logger.Infof(providers.TypeApp, "Migrations applied: %v", applied)
	}

	if !exists || len(applied) > 0 {
		if err = s.persister.SaveToFile(snapshot); err != nil {
			s.logger.Errorf(providers.TypeApp, "Failed to persist snapshot: %v", err)
			return applied, apperrors.Storage(err)
		}
	}

	s.current.Store(snapshot)
	s.revision.Inc()
	s.reportCounts(snapshot)
	s.logger.Infof(providers.TypeApp, "Snapshot loaded, existed=%t", exists)
	return applied, nil
}

func (s *RecordService) snapshot() (*models.Snapshot, error) {
	if _, err := s.Load(); err != nil {
		return nil, err
	}
	return s.current.Load(), nil
}

// commit runs mutate on a clone of the current snapshot. When mutate reports
// a change the clone is persisted and then published; if the write fails the
// clone is dropped and the current snapshot stays untouched.
func (s *RecordService) commit(mutate func(next *models.Snapshot) (bool, error)) error {
	if _, err := s.Load(); err != nil {
		return err
	}

	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	next := s.current.Load().Clone()
	changed, err := mutate(next)
	if err != nil || !changed {
		return err
	}

	if err = s.persister.SaveToFile(next); err != nil {
		s.logger.Errorf(providers.TypeApp, "Failed to persist snapshot: %v", err)
		return apperrors.Storage(err)
	}

	s.current.Store(next)
	s.revision.Inc()
	s.reportCounts(next)
	return nil
}

func (s *RecordService) reportCounts(snapshot *models.Snapshot) {
	for _, c := range models.Collections {
		s.metrics.SetRecordsTotal(c.String(), len(snapshot.Collections[c]))
	}
}

func known(c models.Collection) error {
	if _, ok := models.ParseCollection(string(c)); !ok {
		return apperrors.NotFoundf("unknown collection %q", c)
	}
	return nil
}

// List returns the collection in insertion order. The records are shared
// with the store and must not be modified.
func (s *RecordService) List(c models.Collection) ([]models.Record, error) {
	if err := known(c); err != nil {
		return nil, err
	}
	snapshot, err := s.snapshot()
	if err != nil {
		return nil, err
	}
	records := snapshot.Collections[c]
	out := make([]models.Record, len(records))
	copy(out, records)
	return out, nil
}

// Insert stores rec under a freshly allocated identifier. Any identifier
// supplied by the caller is discarded.
func (s *RecordService) Insert(c models.Collection, rec models.Record) (models.Record, error) {
	if err := known(c); err != nil {
		return nil, err
	}

	candidate := rec.Clone()
	delete(candidate, models.IDField)
	if c == models.Diapers {
		models.NormalizeDiaper(candidate)
	}
	if err := models.ValidateRecord(c, candidate); err != nil {
		return nil, err
	}

	var stored models.Record
	err := s.commit(func(next *models.Snapshot) (bool, error) {
		stored = candidate.WithID(next.Seq.Next(c))
		next.Collections[c] = append(next.Collections[c], stored)
		return true, nil
	})
	if err != nil {
		return nil, err
	}
	s.logger.Debugf(providers.TypeWrite, "Inserted %s/%s", c, stored[models.IDField])
	return stored, nil
}

// Update lays the fields of patch over the stored record. Fields absent from
// patch keep their stored bytes and the identifier never changes.
func (s *RecordService) Update(c models.Collection, id int64, patch models.Record) (models.Record, error) {
	if err := known(c); err != nil {
		return nil, err
	}

	var updated models.Record
	err := s.commit(func(next *models.Snapshot) (bool, error) {
		records := next.Collections[c]
		idx := models.IndexOf(records, id)
		if idx < 0 {
			return false, apperrors.NotFoundf("%s/%d not found", c, id)
		}

		merged := records[idx].Merge(patch)
		if c == models.Diapers {
			models.NormalizeDiaper(merged)
		}
		if err := models.ValidateRecord(c, merged); err != nil {
			return false, err
		}

		records[idx] = merged
		updated = merged
		return true, nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// Delete removes the record if present. Deleting a missing record succeeds
// without touching the store. Sequences are never lowered.
func (s *RecordService) Delete(c models.Collection, id int64) error {
	if err := known(c); err != nil {
		return err
	}
	return s.commit(func(next *models.Snapshot) (bool, error) {
		records := next.Collections[c]
		idx := models.IndexOf(records, id)
		if idx < 0 {
			return false, nil
		}
		next.Collections[c] = append(records[:idx:idx], records[idx+1:]...)
		return true, nil
	})
}

func (s *RecordService) Export() (*models.ExportDocument, error) {
	snapshot, err := s.snapshot()
	if err != nil {
		return nil, err
	}
	return models.NewExportDocument(snapshot), nil
}

// Import replaces every collection present in doc. Replaced collections are
// reseeded to their highest identifier plus one; the others only heal.
func (s *RecordService) Import(doc *models.ImportDocument) error {
	if doc == nil || len(doc.Collections) == 0 {
		return nil
	}

	err := s.commit(func(next *models.Snapshot) (bool, error) {
		for _, c := range models.Collections {
			if !doc.Has(c) {
				next.Seq.Heal(c, next.Collections[c])
				continue
			}
			records := make([]models.Record, len(doc.Collections[c]))
			for i, rec := range doc.Collections[c] {
				if c == models.Diapers {
					rec = rec.Clone()
					models.NormalizeDiaper(rec)
				}
				records[i] = rec
			}
			next.Collections[c] = records
			next.Seq.Reseed(c, records)
		}
		return true, nil
	})
	if err != nil {
		return err
	}
	s.logger.Infof(providers.TypeWrite, "Imported %d collections", len(doc.Collections))
	return nil
}

// Revision changes after every successful commit.
func (s *RecordService) Revision() uint64 {
	return s.revision.Load()
}
