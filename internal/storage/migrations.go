package storage

import "babylog/internal/models"

// Migration is one idempotent, convergent upgrade step. Apply mutates the
// snapshot in place and reports whether anything changed. There is no schema
// version: every step runs on every load and must be a no-op once converged.
type Migration struct {
	Name  string
	Apply func(s *models.Snapshot) bool
}

// Migrations run in this order on every load.
var Migrations = []Migration{
	{Name: "ensure-sequences", Apply: EnsureSequences},
	{Name: "ensure-collections", Apply: EnsureCollections},
	{Name: "normalize-diaper-types", Apply: NormalizeDiaperTypes},
}

// Migrate runs the whole pipeline and returns the names of the steps that
// changed the snapshot.
func Migrate(s *models.Snapshot) []string {
	var applied []string
	for _, m := range Migrations {
		if m.Apply(s) {
			applied = append(applied, m.Name)
		}
	}
	return applied
}

// EnsureSequences creates the sequence table if needed and heals every entry
// that is missing or not above the collection's highest identifier.
func EnsureSequences(s *models.Snapshot) bool {
	changed := false
	if s.Seq == nil {
		s.Seq = make(models.SequenceTable, len(models.Collections))
		changed = true
	}
	for _, c := range models.Collections {
		if s.Seq.Heal(c, s.Collections[c]) {
			changed = true
		}
	}
	return changed
}

// EnsureCollections materializes every missing collection as an empty list.
func EnsureCollections(s *models.Snapshot) bool {
	changed := false
	if s.Collections == nil {
		s.Collections = make(map[models.Collection][]models.Record, len(models.Collections))
		changed = true
	}
	for _, c := range models.Collections {
		if s.Collections[c] == nil {
			s.Collections[c] = []models.Record{}
			changed = true
		}
	}
	return changed
}

// NormalizeDiaperTypes maps legacy dirty-diaper tokens to "dirty". Changed
// records are replaced, never edited, because records may be shared with an
// older snapshot.
func NormalizeDiaperTypes(s *models.Snapshot) bool {
	changed := false
	for i, rec := range s.Collections[models.Diapers] {
		t, ok := rec.GetString(models.DiaperTypeField)
		if !ok || !models.IsLegacyDiaperType(t) {
			continue
		}
		fixed := rec.Clone()
		models.NormalizeDiaper(fixed)
		s.Collections[models.Diapers][i] = fixed
		changed = true
	}
	return changed
}
